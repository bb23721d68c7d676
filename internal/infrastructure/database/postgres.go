package database

import (
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sideby/teachconnect/migrations"
	"github.com/sideby/teachconnect/pkg/config"
)

// NewPostgresDB creates a new PostgreSQL database connection using GORM
func NewPostgresDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsDevelopment() {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if log != nil {
		log.Info("✅ Database connected successfully",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
		)
	}
	return db, nil
}

// MigrationSource returns the embedded SQL migrations
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       ".",
	}
}

// Migrate applies (or rolls back, max steps; 0 means all) the embedded migrations
func Migrate(db *gorm.DB, direction migrate.MigrationDirection, max int, log *zap.Logger) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", MigrationSource(), direction, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if log != nil {
		log.Info("✅ Migrations applied", zap.Int("count", n))
	}
	return n, nil
}

// MigrationStatus lists applied migration records
func MigrationStatus(db *gorm.DB) ([]*migrate.MigrationRecord, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	records, err := migrate.GetMigrationRecords(sqlDB, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration records: %w", err)
	}
	return records, nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
