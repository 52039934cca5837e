package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"music-genre-app/internal/session"
)

const themeCookieTTL = 365 * 24 * time.Hour

func validTheme(theme string) bool {
	return theme == "light" || theme == "dark"
}

func (h *Handler) setTheme(c *gin.Context) {
	theme := c.PostForm("theme")
	if !validTheme(theme) {
		h.renderError(c, http.StatusBadRequest, "error.unsupported")
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   int(themeCookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})

	target := "/"
	if redirectTo := strings.TrimSpace(c.PostForm("redirectTo")); redirectTo != "" {
		target = session.SafeRedirect(redirectTo)
	}
	c.Redirect(http.StatusSeeOther, target)
}
