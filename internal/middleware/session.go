// internal/middleware/session.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uzagro/storefront/internal/config"
	"github.com/uzagro/storefront/internal/utils"
)

// Session resolves the caller's session id from a signed cookie, minting a
// fresh one for first-time visitors. The id lands in the gin context under
// "session_id"; handlers use it to pick the right store pair.
func Session(cfg config.SessionConfig) gin.HandlerFunc {
	ttl := time.Duration(cfg.TTLHours) * time.Hour

	return func(c *gin.Context) {
		var sessionID string

		if raw, err := c.Cookie(cfg.CookieName); err == nil {
			if id, err := utils.ValidateSessionToken(raw); err == nil {
				sessionID = id
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			if token, err := utils.GenerateSessionToken(sessionID, ttl); err == nil {
				c.SetCookie(cfg.CookieName, token, int(ttl.Seconds()), "/", "", cfg.CookieSecure, true)
			}
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}
