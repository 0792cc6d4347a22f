package handler

import (
	"github.com/gin-gonic/gin"

	"billflow/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/v1/auth/register
// @Summary      Create an account and its workspace
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body service.RegisterInput true "Request body"
// @Success      201 {object} APIResponse{data=service.AuthOutput}
// @Failure      400 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	out, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, out)
}

// Login handles POST /api/v1/auth/login
// @Summary      Exchange credentials for tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body service.LoginInput true "Request body"
// @Success      200 {object} APIResponse{data=service.AuthOutput}
// @Failure      401 {object} APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	out, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body service.RefreshInput true "Request body"
// @Success      200 {object} APIResponse{data=service.TokenPair}
// @Failure      401 {object} APIResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if !bindJSON(c, &input) {
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, pair)
}
