package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "teachconnect", cfg.Database.Name)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Analysis.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, int64(1<<20), cfg.Intake.MaxBytes)
	assert.Equal(t, 24*time.Hour, cfg.Workflow.PendingTTL)
	assert.NotEmpty(t, cfg.JWT.AccessSecret, "development falls back to a local secret")
}

func TestLoadNestedKeys(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "development")
	t.Setenv("DB_SSL_MODE", "require")
	t.Setenv("OAUTH_GOOGLE_CLIENT_ID", "client-123")
	t.Setenv("ANALYSIS_MIN_ARTICLE_WORDS", "120")
	t.Setenv("WORKFLOW_PENDING_TTL", "2h")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, "client-123", cfg.OAuth.Google.ClientID)
	assert.Equal(t, 120, cfg.Analysis.MinArticleWords)
	assert.Equal(t, 2*time.Hour, cfg.Workflow.PendingTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "production")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestValidateRejectsZeroTimeout(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Environment = "development"
	cfg.Intake.MaxBytes = 10

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYSIS_TIMEOUT")
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.GetDatabaseDSN())
}
