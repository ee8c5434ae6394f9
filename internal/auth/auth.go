// Package auth validates the bearer tokens issued by the identity provider
// and makes the authenticated account id available to the handlers. Tokens
// are HS256 JWTs whose subject claim carries the account id.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// callerKey is the gin context key under which the account id is stored.
const callerKey = "caller_id"

// Middleware returns a gin middleware that rejects requests without a valid
// bearer token with 401 before any data access happens. On success the
// token's subject is stored in the context for CallerID.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerKey, subject)
		c.Next()
	}
}

// CallerID returns the authenticated account id of the request. It is empty
// only on routes that are not behind Middleware.
func CallerID(c *gin.Context) string {
	return c.GetString(callerKey)
}

// NewToken signs an HS256 JWT for the given account. Used by the demo
// client and the tests; in production the identity provider issues tokens.
func NewToken(secret string, accountID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
