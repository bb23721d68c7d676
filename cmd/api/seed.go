package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/adapter/repository"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/database"
	pkgjwt "github.com/sideby/teachconnect/pkg/jwt"
)

type seedUser struct {
	Email  string
	Name   string
	Title  string
	School string
	Role   entities.UserRole
}

var seedUsers = []seedUser{
	{Email: "alice@test.local", Name: "Alice Moreau", Title: "Maths teacher", School: "Lycée Voltaire", Role: entities.RoleTeacher},
	{Email: "bob@test.local", Name: "Bob Okafor", Title: "Physics teacher", School: "Northside High", Role: entities.RoleTeacher},
	{Email: "carol@test.local", Name: "Carol Nguyen", Title: "Head of English", School: "Riverside Academy", Role: entities.RoleModerator},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create development users with profiles and print their tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}
}

func runSeed(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		return errors.New("seed only runs with SERVER_ENVIRONMENT=development")
	}

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	teachers := repository.NewTeacherRepository(db)
	tokens := pkgjwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	for _, su := range seedUsers {
		user, err := users.FindByEmail(ctx, su.Email)
		if errors.Is(err, entities.ErrUserNotFound) {
			user = entities.NewUser(su.Email, su.Name)
			user.Role = su.Role
			user.IsEmailVerified = true
			err = users.Create(ctx, user)
		}
		if err != nil {
			logger.Error("❌ Failed to seed user", zap.String("email", su.Email), zap.Error(err))
			continue
		}

		profile := entities.NewTeacher(user.ID, su.Name)
		profile.Title = su.Title
		profile.School = su.School
		if err := teachers.Upsert(ctx, profile); err != nil {
			logger.Error("❌ Failed to seed profile", zap.String("email", su.Email), zap.Error(err))
			continue
		}

		sess := entities.NewSession(user.ID, time.Now().Add(tokens.GetRefreshExpiry()))
		access, err := tokens.GenerateAccessToken(user.ID, sess.ID, user.Email, string(user.Role))
		if err != nil {
			return err
		}
		refresh, err := tokens.GenerateRefreshToken(user.ID, sess.ID)
		if err != nil {
			return err
		}
		sess.SetRefreshToken(refresh)
		if err := sessions.Create(ctx, sess); err != nil {
			logger.Error("❌ Failed to seed session", zap.String("email", su.Email), zap.Error(err))
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("%s <%s> (%s)\n", su.Name, user.Email, user.Role)
		fmt.Printf("User ID:       %s\n", user.ID)
		fmt.Printf("Access token:  %s\n", access)
		fmt.Printf("Refresh token: %s\n", refresh)
	}

	logger.Info("✅ Seed complete", zap.Int("users", len(seedUsers)), zap.Duration("access_expiry", cfg.JWT.AccessExpiry))
	return nil
}
