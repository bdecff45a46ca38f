package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/assistant"
	"github.com/rythu-saathi/backend/internal/finance"
	"github.com/rythu-saathi/backend/internal/forum"
	"github.com/rythu-saathi/backend/internal/journal"
	"github.com/rythu-saathi/backend/internal/market"
	"github.com/rythu-saathi/backend/internal/marketplace"
	"github.com/rythu-saathi/backend/internal/notify"
	"github.com/rythu-saathi/backend/internal/schemes"
	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
	"github.com/rythu-saathi/backend/internal/users"
	"github.com/rythu-saathi/backend/internal/watering"
	"github.com/rythu-saathi/backend/internal/weather"
)

const userIDContextKey = "saathi_user_id"

var (
	errMissingTokenManager  = errors.New("token manager dependency required")
	errMissingUsersService  = errors.New("users service dependency required")
	errMissingNotifyService = errors.New("notify service dependency required")
	errInvalidAuthorization = errors.New("authorization header missing or invalid")
)

// TokenManager issues and validates backend session tokens.
type TokenManager interface {
	IssueToken(ctx context.Context, userID string) (string, int64, error)
	ValidateToken(token string) (string, error)
}

// Dependencies wires every feature service into the HTTP layer.
type Dependencies struct {
	TokenManager TokenManager
	Users        *users.Service
	Forum        *forum.Service
	Journal      *journal.Service
	Watering     *watering.Service
	Marketplace  *marketplace.Service
	Assistant    *assistant.Service
	Weather      *weather.Service
	Market       *market.Service
	Schemes      *schemes.Service
	Finance      *finance.Service
	Notify       *notify.Service
	Logger       *zap.Logger
}

// NewHTTPHandler builds the gin router serving the portal API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.Users == nil {
		return nil, errMissingUsersService
	}
	if deps.Notify == nil {
		return nil, errMissingNotifyService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{deps: deps, logger: logger}

	api := router.Group("/api/v1")
	api.GET("/health", handler.handleHealth)
	api.POST("/auth/signup", handler.handleSignUp)
	api.POST("/auth/login", handler.handleLogin)

	protected := api.Group("/")
	protected.Use(handler.authorizeRequest)

	protected.GET("/profile", handler.handleGetProfile)
	protected.PATCH("/profile", handler.handleUpdateProfile)
	protected.POST("/profile/onboarding", handler.handleCompleteOnboarding)

	protected.GET("/forum/posts", handler.handleForumList)
	protected.POST("/forum/posts", handler.handleForumCreate)
	protected.GET("/forum/posts/:id", handler.handleForumGet)
	protected.POST("/forum/posts/:id/replies", handler.handleForumReply)
	protected.POST("/forum/posts/:id/like", handler.handleForumLikePost)
	protected.POST("/forum/posts/:id/replies/:replyId/like", handler.handleForumLikeReply)

	protected.GET("/journal", handler.handleJournalList)
	protected.POST("/journal", handler.handleJournalAdd)
	protected.PATCH("/journal/:id", handler.handleJournalUpdate)
	protected.DELETE("/journal/:id", handler.handleJournalRemove)

	protected.GET("/watering", handler.handleWateringList)
	protected.POST("/watering", handler.handleWateringAdd)
	protected.PATCH("/watering/:id", handler.handleWateringUpdate)
	protected.POST("/watering/:id/watered", handler.handleWateringMarkWatered)
	protected.DELETE("/watering/:id", handler.handleWateringRemove)
	protected.GET("/watering/due", handler.handleWateringDue)
	protected.POST("/watering/due/notify", handler.handleWateringNotifyDue)

	protected.GET("/marketplace/listings", handler.handleListingList)
	protected.POST("/marketplace/listings", handler.handleListingCreate)
	protected.PATCH("/marketplace/listings/:id", handler.handleListingUpdate)
	protected.POST("/marketplace/listings/:id/view", handler.handleListingView)
	protected.POST("/marketplace/listings/:id/deactivate", handler.handleListingDeactivate)
	protected.GET("/marketplace/orders", handler.handleOrderList)
	protected.POST("/marketplace/orders", handler.handleOrderPlace)
	protected.PATCH("/marketplace/orders/:id/status", handler.handleOrderStatus)

	protected.POST("/assistant/chat", handler.handleAssistantChat)
	protected.POST("/assistant/analyze", handler.handleAssistantAnalyze)
	protected.GET("/assistant/history", handler.handleAssistantHistory)
	protected.DELETE("/assistant/history", handler.handleAssistantClearHistory)

	protected.GET("/weather", handler.handleWeatherFetch)
	protected.GET("/weather/cached", handler.handleWeatherCached)
	protected.GET("/market/prices", handler.handleMarketPrices)
	protected.GET("/schemes", handler.handleSchemesList)

	protected.POST("/finance/loan/assess", handler.handleLoanAssess)
	protected.GET("/finance/bnpl", handler.handleBNPLOptions)
	protected.GET("/finance/claims", handler.handleClaimsList)
	protected.POST("/finance/claims", handler.handleClaimSubmit)

	protected.GET("/notifications", handler.handleNotificationList)
	protected.GET("/notifications/unread-count", handler.handleNotificationUnread)
	protected.POST("/notifications/:id/read", handler.handleNotificationMarkRead)
	protected.POST("/notifications/read-all", handler.handleNotificationMarkAllRead)
	protected.DELETE("/notifications/:id", handler.handleNotificationDelete)
	protected.DELETE("/notifications", handler.handleNotificationClear)
	protected.GET("/notifications/stream", handler.handleNotificationStream)

	return router, nil
}

type httpHandler struct {
	deps   Dependencies
	logger *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	subject, err := h.deps.TokenManager.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(userIDContextKey, subject)
	c.Next()
}

// respondError maps service failures onto HTTP statuses, exposing the
// operation code rather than internal error text.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, users.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, svcerr.ErrStorage):
		// Persistence faults are server errors, never the client's fault.
		h.logger.Error("storage failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	default:
		var serviceErr *svcerr.Error
		if errors.As(err, &serviceErr) {
			h.logger.Warn("request rejected", zap.String("code", serviceErr.Code()), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": serviceErr.Code()})
			return
		}
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
