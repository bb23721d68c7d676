package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	rolemw "github.com/sideby/teachconnect/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	environment   string
	auth          *middleware.AuthMiddleware
	authHandler   *Auth
	webhook       *WebhookHandler
	events        *Events
	transcripts   *Transcript
	posts         *Post
	teachers      *Teacher
	conversations *Conversation
}

// Handlers groups the handlers mounted by the router
type Handlers struct {
	Auth          *Auth
	Webhook       *WebhookHandler
	Events        *Events
	Transcripts   *Transcript
	Posts         *Post
	Teachers      *Teacher
	Conversations *Conversation
}

// NewRouter creates a new router with all handlers
func NewRouter(environment string, auth *middleware.AuthMiddleware, h Handlers) *Router {
	return &Router{
		environment:   environment,
		auth:          auth,
		authHandler:   h.Auth,
		webhook:       h.Webhook,
		events:        h.Events,
		transcripts:   h.Transcripts,
		posts:         h.Posts,
		teachers:      h.Teachers,
		conversations: h.Conversations,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupTranscriptRoutes(v1)
	rt.setupPostRoutes(v1)
	rt.setupTeacherRoutes(v1)
	rt.setupConversationRoutes(v1)
}

// setupAuthRoutes configures authentication and session routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
	authGroup.POST("/refresh", rt.authHandler.RefreshToken)
	authGroup.GET("/session", rt.authHandler.Session)
	authGroup.POST("/logout", rt.authHandler.Logout, rt.auth.RequireAuth())
	authGroup.GET("/me", rt.authHandler.Me, rt.auth.RequireAuth())
	authGroup.POST("/webhook", rt.webhook.HandleSessionSignal)

	g.GET("/events", rt.events.Subscribe, rt.auth.RequireAuth())
}

// setupTranscriptRoutes configures upload and suggestion review routes.
// Anonymous callers are keyed by their workspace cookie.
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	optional := rt.auth.OptionalAuth()

	g.POST("/transcripts", rt.transcripts.Upload, optional)

	s := g.Group("/suggestions", optional)
	s.GET("", rt.transcripts.Pending)
	s.POST("/toggle", rt.transcripts.Toggle)
	s.POST("/confirm", rt.transcripts.Confirm)
	s.DELETE("", rt.transcripts.Cancel)
}

func (rt *Router) setupPostRoutes(g *echo.Group) {
	p := g.Group("/posts")
	p.GET("", rt.posts.List, rt.auth.OptionalAuth())
	p.POST("", rt.posts.Create, rt.auth.RequireAuth())
	p.POST("/:id/like", rt.posts.Like, rt.auth.RequireAuth())

	admin := g.Group("/admin", rt.auth.RequireAuth(), rolemw.RequireModerator())
	admin.GET("/posts", rt.posts.Pending)
	admin.POST("/posts/:id/approve", rt.posts.Approve)
}

func (rt *Router) setupTeacherRoutes(g *echo.Group) {
	t := g.Group("/teachers")
	t.GET("", rt.teachers.Discover)

	me := t.Group("/me", rt.auth.RequireAuth())
	me.PUT("", rt.teachers.UpsertMe)
	me.POST("/avatar", rt.teachers.UploadAvatar)
	me.POST("/apply-suggestion", rt.teachers.ApplySuggestion)

	t.GET("/:id", rt.teachers.Get, rt.auth.OptionalAuth())
	t.POST("/:id/follow", rt.teachers.Follow, rt.auth.RequireAuth())
	t.DELETE("/:id/follow", rt.teachers.Unfollow, rt.auth.RequireAuth())
}

func (rt *Router) setupConversationRoutes(g *echo.Group) {
	c := g.Group("/conversations", rt.auth.RequireAuth())
	c.POST("", rt.conversations.Schedule)
	c.GET("", rt.conversations.List)
	c.POST("/:id/join", rt.conversations.Join)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.environment,
	})
}
