package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const requestContextKey = "mga.request"

// RequestContext is everything a handler needs to know about the caller,
// extracted once from cookies and query parameters.
type RequestContext struct {
	Locale string
	Theme  string
	UserID string
}

func (rc RequestContext) LoggedIn() bool {
	return rc.UserID != ""
}

func (h *Handler) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		resolution := h.locales.Resolve(c.Request)
		if resolution.Persist != nil {
			http.SetCookie(c.Writer, resolution.Persist)
		}

		rc := RequestContext{Locale: resolution.Locale}
		if cookie, err := c.Request.Cookie(h.themeCookie); err == nil && validTheme(cookie.Value) {
			rc.Theme = cookie.Value
		}
		// an invalid session cookie just means an anonymous visitor
		if userID, ok := h.sessions.UserID(c.Request); ok {
			rc.UserID = userID
		}

		c.Set(requestContextKey, rc)
		c.Next()
	}
}

func requestContextFrom(c *gin.Context) RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(RequestContext); ok {
			return rc
		}
	}
	return RequestContext{}
}
