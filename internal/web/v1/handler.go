package v1

import (
	"errors"
	"net/http"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/vchartered/internal/core/domain"
	logicv1 "github.com/duynhne/vchartered/internal/logic/v1"
	"github.com/duynhne/vchartered/middleware"
)

// Handler groups HTTP handlers for the API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	sessions     *logicv1.SessionManager
	store        *logicv1.CredentialStore
	study        *logicv1.StudyService
	publicURL    string
	sessionParam string
	pages        map[Page]pageFunc
}

// Options carries the presentation settings of the Handler.
type Options struct {
	// PublicURL is the frontend address the session token is appended to.
	PublicURL string
	// SessionParam is the query parameter carrying the session token.
	SessionParam string
}

// NewHandler creates a new Handler.
func NewHandler(sessions *logicv1.SessionManager, store *logicv1.CredentialStore, study *logicv1.StudyService, opts Options) *Handler {
	if opts.SessionParam == "" {
		opts.SessionParam = "session"
	}
	h := &Handler{
		sessions:     sessions,
		store:        store,
		study:        study,
		publicURL:    opts.PublicURL,
		sessionParam: opts.SessionParam,
	}
	h.pages = h.pageHandlers()
	return h
}

// RegisterRoutes registers all API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(h.SessionMiddleware())

	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.GetMe)

	rg.GET("/pages/:page", h.Page)

	rg.GET("/results/top", h.TopScores)
	rg.GET("/results/history", h.History)

	rg.POST("/answers/check", h.CheckAnswer)
	rg.POST("/quiz", h.GenerateQuiz)
	rg.POST("/doubts", h.SolveDoubt)
	rg.POST("/chat", h.Chat)
}

func startSpan(c *gin.Context) (trace.Span, *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	c.Request = c.Request.WithContext(ctx)
	return span, c
}

// Register handles user registration and logs the new user in.
func (h *Handler) Register(c *gin.Context) {
	span, c := startSpan(c)
	defer span.End()

	ctx := c.Request.Context()
	logger := pkgzerolog.FromContext(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, display_name and password are required"})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	if err := h.store.Register(ctx, req.Email, req.DisplayName, req.Password); err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Registration failed")

		switch {
		case errors.Is(err, logicv1.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		case errors.Is(err, logicv1.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email, display_name and password are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	token, id, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Login after registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Info().Msg("Registration successful")
	c.JSON(http.StatusCreated, h.authResponse(token, id))
}

// Login handles HTTP request for user login.
func (h *Handler) Login(c *gin.Context) {
	span, c := startSpan(c)
	defer span.End()

	ctx := c.Request.Context()
	logger := pkgzerolog.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	token, id, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Login failed")

		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error, try again"})
		}
		return
	}

	logger.Info().Msg("Login successful")
	c.JSON(http.StatusOK, h.authResponse(token, id))
}

// Logout records the logout and returns the address without the token.
// Calling it without a valid token is not an error.
func (h *Handler) Logout(c *gin.Context) {
	span, c := startSpan(c)
	defer span.End()

	rc := requestContext(c)
	h.sessions.Logout(c.Request.Context(), c.Query(h.sessionParam))

	span.SetAttributes(attribute.Bool("auth.was_authenticated", rc.Identity.Authenticated()))
	c.JSON(http.StatusOK, gin.H{"redirect": WithoutToken(h.publicURL, h.sessionParam)})
}

// GetMe returns the identity resolved from the session token.
// GET /api/v1/auth/me?session=<token>
func (h *Handler) GetMe(c *gin.Context) {
	rc := requestContext(c)
	if !rc.Identity.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing session"})
		return
	}
	c.JSON(http.StatusOK, userView(rc.Identity))
}

func (h *Handler) authResponse(token string, id logicv1.Identity) domain.AuthResponse {
	return domain.AuthResponse{
		Token:    token,
		Redirect: WithToken(h.publicURL, h.sessionParam, token),
		User:     domain.User{Email: id.Email, DisplayName: id.DisplayName},
	}
}

// requireAuth writes a 401 and returns false for anonymous callers.
func requireAuth(c *gin.Context) (*RequestContext, bool) {
	rc := requestContext(c)
	if !rc.Identity.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
		return nil, false
	}
	return rc, true
}
