package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/session"
)

// Session ensures every anonymous visitor carries a valid session key
// cookie. Authenticated requests skip the cookie entirely, their cart
// identity comes from the JWT. The key lands in the context either way
// so handlers can pick it up for cart resolution or merge-on-login.
func Session(store *session.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(cfg.Session.CookieName)
		if err == nil && key != "" {
			valid, verr := store.Validate(c.Request.Context(), key)
			if verr == nil && valid {
				c.Set("session_key", key)
				c.Next()
				return
			}
		}

		// Issue a fresh key only for unauthenticated visitors
		if _, authenticated := GetUserIDFromContext(c); authenticated {
			c.Next()
			return
		}

		fresh, err := store.Issue(c.Request.Context())
		if err != nil {
			// Redis outage: continue without a session, cart routes
			// will reject anonymous access until it recovers
			c.Next()
			return
		}

		maxAge := int(cfg.Session.TTL.Seconds())
		c.SetCookie(cfg.Session.CookieName, fresh, maxAge, "/", "", false, true)
		c.Set("session_key", fresh)

		c.Next()
	}
}

// GetSessionKeyFromContext extracts the visitor session key
func GetSessionKeyFromContext(c *gin.Context) (string, bool) {
	key, exists := c.Get("session_key")
	if !exists {
		return "", false
	}
	return key.(string), true
}
