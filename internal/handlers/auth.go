package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leadboard/internal/auth"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contraseña requerida"})
		return
	}

	if err := h.sessions.CheckPassword(req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Contraseña requerida"})
			return
		}
		h.logger.WithField("client_ip", c.ClientIP()).Warn("Rejected dashboard login")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	token, err := h.sessions.Issue()
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error del servidor"})
		return
	}
	h.sessions.SetCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Autenticación exitosa",
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sesión cerrada",
	})
}

func (h *Handler) VerifySession(c *gin.Context) {
	body := gin.H{"authenticated": true}
	if claims, ok := auth.SessionFrom(c); ok && claims.ExpiresAt != nil {
		body["expiresAt"] = claims.ExpiresAt.Time.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}
