package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/session"
)

const (
	sessionCookie     = "storefront_session"
	sessionContextKey = "session"
	cookieMaxAge      = 60 * 60 * 24 * 30 // 30 days
)

// SessionMiddleware resolves the visitor's session from a cookie, creating
// one on first contact, and makes it available to handlers.
func SessionMiddleware(manager *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil {
			id = ""
		}

		s := manager.GetOrCreate(id)
		if s.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, s.ID, cookieMaxAge, "/", "", false, true)
		}

		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// GetSession retrieves the session placed in context by SessionMiddleware
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	s, ok := value.(*session.Session)
	return s, ok
}
