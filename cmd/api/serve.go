package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/adapter/handler"
	"github.com/sideby/teachconnect/internal/adapter/repository"
	"github.com/sideby/teachconnect/internal/infrastructure/cache"
	"github.com/sideby/teachconnect/internal/infrastructure/database"
	"github.com/sideby/teachconnect/internal/infrastructure/external/calendar"
	"github.com/sideby/teachconnect/internal/infrastructure/external/livekit"
	"github.com/sideby/teachconnect/internal/infrastructure/external/oauth"
	httpmw "github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	"github.com/sideby/teachconnect/internal/infrastructure/realtime"
	"github.com/sideby/teachconnect/internal/infrastructure/scheduler"
	"github.com/sideby/teachconnect/internal/infrastructure/storage"
	"github.com/sideby/teachconnect/internal/usecase/analysis"
	"github.com/sideby/teachconnect/internal/usecase/auth"
	"github.com/sideby/teachconnect/internal/usecase/conversation"
	"github.com/sideby/teachconnect/internal/usecase/intake"
	"github.com/sideby/teachconnect/internal/usecase/post"
	"github.com/sideby/teachconnect/internal/usecase/publish"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/internal/usecase/teacher"
	"github.com/sideby/teachconnect/internal/usecase/transcript"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
	pkgai "github.com/sideby/teachconnect/pkg/ai"
	"github.com/sideby/teachconnect/pkg/config"
	"github.com/sideby/teachconnect/pkg/jwt"
	pkgvalidator "github.com/sideby/teachconnect/pkg/validator"
)

const redisKeyPrefix = "teachconnect:"

var migrateOnStart bool

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the maintenance scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("🔧 Initializing dependencies...", zap.String("environment", cfg.Server.Environment))

	// Database
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	if migrateOnStart {
		if _, err := database.Migrate(db, migrate.Up, 0, logger); err != nil {
			return err
		}
	}

	// Cache store
	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	postRepo := repository.NewPostRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	// External services
	objects, err := storage.NewMinIOStore(ctx, &cfg.Storage, logger)
	if err != nil {
		return err
	}

	chat, err := pkgai.NewChatClient(pkgai.ChatConfig{
		APIKey:      cfg.Analysis.APIKey,
		BaseURL:     cfg.Analysis.BaseURL,
		Model:       cfg.Analysis.Model,
		Temperature: cfg.Analysis.Temperature,
		MaxTokens:   cfg.Analysis.MaxTokens,
		Timeout:     cfg.Analysis.Timeout,
	}, logger)
	if err != nil {
		return err
	}

	var events conversation.EventScheduler
	if cfg.Calendar.CredentialsJSON != "" {
		cal, err := calendar.NewClient(ctx, []byte(cfg.Calendar.CredentialsJSON), cfg.Calendar.ID, logger)
		if err != nil {
			return err
		}
		events = cal
	} else {
		logger.Warn("⚠️  Calendar credentials not configured, chats are booked without events")
	}

	rooms := livekit.NewRoomService(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.UseMock)
	if cfg.LiveKit.UseMock {
		logger.Warn("⚠️  LiveKit running in local mode (no server calls)")
	}

	// Identity
	tokens := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	provider := oauth.NewGoogleProvider(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.Google.RedirectURL)
	states := oauth.NewStateManager(store)
	hub := realtime.NewHub(cfg.Server.AllowedOrigins, logger)

	// Use cases
	gateway := publish.NewGateway(postRepo, logger)
	wf := workflow.NewService(store, gateway, cfg.Workflow.PendingTTL, cfg.Workflow.ConfirmTTL, logger)

	sessions := session.NewManager(tokens, sessionRepo, store, logger)
	sessions.SetPurger(wf)
	sessions.SetNotifier(hub)

	oauthService := auth.NewOAuthService(userRepo, sessionRepo, provider, states, tokens, sessions, logger)
	transcripts := transcript.NewService(
		intake.NewService(cfg.Intake.MaxBytes, logger),
		analysis.NewAnalyzer(chat, cfg.Analysis.MinArticleWords, logger),
		wf,
		logger,
	)
	teachers := teacher.NewService(teacherRepo, followerRepo, userRepo, objects, wf, logger)
	posts := post.NewService(postRepo, logger)
	conversations := conversation.NewService(conversationRepo, teacherRepo, userRepo, events, rooms, logger)

	// Scheduler
	sched := scheduler.New(logger)
	for _, job := range []scheduler.Job{
		scheduler.ExpireSessionsJob(sessionRepo, sessions, logger),
		scheduler.CompleteConversationsJob(conversationRepo, logger),
		scheduler.PruneSessionsJob(sessionRepo, logger),
	} {
		if err := sched.Add(job); err != nil {
			return err
		}
	}
	sched.Start(ctx)
	defer sched.Stop()

	// HTTP
	e := newEcho(cfg, logger)
	cookies := handler.CookieConfig{Secure: !cfg.IsDevelopment()}
	router := handler.NewRouter(cfg.Server.Environment, httpmw.NewAuthMiddleware(sessions, logger), handler.Handlers{
		Auth:          handler.NewAuth(oauthService, wf, cookies, cfg.JWT.RefreshExpiry, logger),
		Webhook:       handler.NewWebhookHandler(sessions, cfg.Webhook.Secret, logger),
		Events:        handler.NewEvents(hub, logger),
		Transcripts:   handler.NewTranscript(transcripts, wf, cookies, logger),
		Posts:         handler.NewPost(posts, logger),
		Teachers:      handler.NewTeacher(teachers, logger),
		Conversations: handler.NewConversation(conversations, logger),
	})
	router.Setup(e)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("✅ Server stopped gracefully")
	return nil
}

func newEcho(cfg *config.Config, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(echomw.RequestID())
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.SignatureHeader},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit(bodyLimit(cfg)))
	return e
}

// bodyLimit leaves room for multipart framing around the largest accepted upload
func bodyLimit(cfg *config.Config) string {
	max := cfg.Intake.MaxBytes
	if max < teacher.MaxAvatarBytes {
		max = teacher.MaxAvatarBytes
	}
	return fmt.Sprintf("%dK", max/1024+64)
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Warn("⚠️  Redis disabled, using in-process store")
		mem := cache.NewMemoryStore()
		return mem, func() { _ = mem.Close() }, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(connectCtx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("✅ Redis connected", zap.String("addr", cfg.GetRedisAddr()))
	return cache.NewRedisStore(client, redisKeyPrefix), func() { _ = client.Close() }, nil
}
