package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersvc "storefront/internal/service/user"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) register(c *gin.Context) {
	var req usersvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password required")
		return
	}
	u, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      u,
		"token":     token,
		"expiresIn": h.users.AccessTTLSeconds(),
	})
}

// verify checks the bearer token without touching the database.
func (h *handlers) verify(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}
	id, role, err := h.users.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "userId": id, "role": role})
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

// logout is a no-op server side; access tokens simply expire. The endpoint
// exists so clients have a uniform auth surface.
func (h *handlers) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *handlers) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email required")
		return
	}
	token, err := h.users.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	// No mail delivery in this deployment; the token goes back to the
	// caller directly.
	c.JSON(http.StatusOK, gin.H{"resetToken": token})
}

func (h *handlers) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "token and password required")
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
