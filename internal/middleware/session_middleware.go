package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/pkg/util"
)

const (
	SessionHeader     = "X-Cart-Session"
	SessionCookie     = "cart_session"
	SessionQueryParam = "session"
	SessionIDKey      = "session_id"
)

type SessionMiddleware struct {
	secret       string
	expiry       time.Duration
	secureCookie bool
}

func NewSessionMiddleware(secret string, expiry time.Duration, secureCookie bool) *SessionMiddleware {
	return &SessionMiddleware{
		secret:       secret,
		expiry:       expiry,
		secureCookie: secureCookie,
	}
}

// Session resolves the anonymous cart session for the request. The token is read from the
// X-Cart-Session header, then the session query parameter (websocket clients), then the
// cart_session cookie. A missing or invalid token gets a fresh session, returned in both
// the response header and the cookie.
func (m *SessionMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		if token := sessionToken(c); token != "" {
			claims, err := util.ParseSessionToken(token, m.secret)
			if err == nil {
				c.Set(SessionIDKey, claims.SessionID())
				c.Next()
				return
			}
			log.Debug("Discarding cart session token", map[string]interface{}{
				"reason": err.Error(),
			})
		}

		token, sessionID, err := util.NewSessionToken(m.secret, m.expiry)
		if err != nil {
			log.Error("Failed to issue cart session", err)
			c.Next()
			return
		}

		c.Header(SessionHeader, token)
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(m.expiry.Seconds()),
			HttpOnly: true,
			Secure:   m.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(SessionIDKey, sessionID)

		log.Debug("Issued cart session", map[string]interface{}{
			"session_id": sessionID,
		})
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if token := c.GetHeader(SessionHeader); token != "" {
		return token
	}
	if token := c.Query(SessionQueryParam); token != "" {
		return token
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// GetSessionID returns the cart session resolved by Session, or "" when none was.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
