package handlers

import (
	"net/http"
	"strings"

	"mayhouse/models"
	"mayhouse/services/user"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves email/password, wallet and Google sign-in.
type AuthHandler struct {
	Svc    user.UserService
	Logger *zap.Logger
}

func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: handlerLogger("auth")}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.Register(req)
	if err != nil {
		h.Logger.Info("Register: rejected", zap.String("email", req.Email), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.Login(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetUserByID(currentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// WalletNonce handles POST /auth/wallet/nonce.
func (h *AuthHandler) WalletNonce(c *gin.Context) {
	var req models.WalletNonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.WalletNonce(c.Request.Context(), req.WalletAddress)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WalletVerify handles POST /auth/wallet/verify.
func (h *AuthHandler) WalletVerify(c *gin.Context) {
	var req models.WalletVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.WalletVerify(c.Request.Context(), req)
	if err != nil {
		h.Logger.Info("WalletVerify: rejected", zap.String("wallet", req.WalletAddress), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleLogin handles GET /auth/oauth/google/login.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	target, err := h.Svc.GoogleLoginURL(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// GoogleCallback handles GET /auth/oauth/google/callback. Every outcome is a
// redirect back to the frontend.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	target, err := h.Svc.GoogleCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
