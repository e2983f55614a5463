package handlers

import (
	"github.com/gin-gonic/gin"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/domain/auth"
	"sklad/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Magic handles GET /auth/magic?tg_id=&sig=&name=
// Verifies the signed link from the Telegram bot and returns a token
// pair, provisioning the user on first login.
func (h *AuthHandler) Magic(c *gin.Context) {
	var query dto.MagicLinkQuery
	if !h.BindQuery(c, &query) {
		return
	}

	pair, user, err := h.service.VerifyMagicLink(c.Request.Context(), query.TgID, query.Sig, query.FullName)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"tokens": pair,
		"user":   user,
	})
}

// Refresh handles POST /auth/refresh
// Rotates the refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pair, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, pair)
}

// Logout handles POST /auth/logout
// Revokes every live refresh token of the authenticated user.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := id.Parse(h.GetUserID(c))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "logged out")
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := id.Parse(h.GetUserID(c))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// ListUsers handles GET /auth/users (admin).
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[*auth.User]{Items: users})
}

// MakeLink handles GET /auth/make-link?tg_id= (admin).
// Generates a signed login link the bot would normally send.
func (h *AuthHandler) MakeLink(c *gin.Context) {
	var query dto.MakeLinkQuery
	if !h.BindQuery(c, &query) {
		return
	}

	url, err := h.service.MakeLink(query.TgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MakeLinkResponse{URL: url})
}
