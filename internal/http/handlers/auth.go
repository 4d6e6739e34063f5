package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/gallery/internal/http/middleware"
	"github.com/Oxyrus/gallery/internal/http/render"
	"github.com/Oxyrus/gallery/web/pages"
)

type AuthHandler struct {
	logger     *slog.Logger
	passcode   string
	cookieName string
}

func NewAuthHandler(logger *slog.Logger, passcode, cookieName string) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		passcode:   passcode,
		cookieName: cookieName,
	}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render.HTML(c, http.StatusOK, pages.Login(localPath(c.Query("next"))))
}

func (h *AuthHandler) SubmitLogin(c *gin.Context) {
	passcode := strings.TrimSpace(c.PostForm("passcode"))
	if passcode == "" {
		h.logger.Warn("login attempt missing passcode", "ip", c.ClientIP())
		c.String(http.StatusBadRequest, "passcode is required")
		return
	}

	if subtle.ConstantTimeCompare([]byte(passcode), []byte(h.passcode)) != 1 {
		h.logger.Warn("invalid login attempt", "ip", c.ClientIP())
		c.String(http.StatusUnauthorized, "invalid passcode")
		return
	}

	redirectTo := localPath(c.PostForm("next"))
	if redirectTo == "" {
		redirectTo = "/albums"
	}

	maxAge := int((14 * 24 * time.Hour).Seconds())
	secure := c.Request.TLS != nil
	c.SetCookie(h.cookieName, middleware.SessionToken(h.passcode), maxAge, "/", "", secure, true)

	h.logger.Info("admin login successful", "ip", c.ClientIP())
	c.Redirect(http.StatusFound, redirectTo)
}

// localPath keeps only same-site absolute paths.
func localPath(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
