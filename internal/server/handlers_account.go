package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/users"
)

type signUpPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionPayload struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
	TokenType   string     `json:"token_type"`
	User        users.User `json:"user"`
}

func (h *httpHandler) handleSignUp(c *gin.Context) {
	var request signUpPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	user, err := h.deps.Users.SignUp(c.Request.Context(), users.SignUpRequest{
		Email:    request.Email,
		Password: request.Password,
		Name:     request.Name,
		Phone:    request.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, user)
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request loginPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	user, err := h.deps.Users.Authenticate(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, user)
}

func (h *httpHandler) respondSession(c *gin.Context, user users.User) {
	token, expiresIn, err := h.deps.TokenManager.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}
	c.JSON(http.StatusOK, sessionPayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
		User:        user,
	})
}

func (h *httpHandler) handleGetProfile(c *gin.Context) {
	user, err := h.deps.Users.Get(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type profilePatchPayload struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	UserType *string `json:"userType"`
	Language *string `json:"language"`
	Village  *string `json:"village"`
	District *string `json:"district"`
	State    *string `json:"state"`
}

func (p profilePatchPayload) toUpdate() users.ProfileUpdate {
	return users.ProfileUpdate{
		Name:     p.Name,
		Phone:    p.Phone,
		UserType: p.UserType,
		Language: p.Language,
		Village:  p.Village,
		District: p.District,
		State:    p.State,
	}
}

func (h *httpHandler) handleUpdateProfile(c *gin.Context) {
	var request profilePatchPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	user, err := h.deps.Users.UpdateProfile(c.Request.Context(), c.GetString(userIDContextKey), request.toUpdate())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *httpHandler) handleCompleteOnboarding(c *gin.Context) {
	var request profilePatchPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	user, err := h.deps.Users.CompleteOnboarding(c.Request.Context(), c.GetString(userIDContextKey), request.toUpdate())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
