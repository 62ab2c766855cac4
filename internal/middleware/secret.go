package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvitly/gradewatch-backend/internal/response"
)

// SharedSecretHeader carries the webhook token sent by the edit trigger.
const SharedSecretHeader = "X-Shared-Secret"

// RequireSharedSecret rejects requests whose shared-secret header does not
// match the configured token. This is the entire authentication model of
// the webhook: the caller is a single known automation script, so there is
// no per-client identity, signature, or replay protection.
func RequireSharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SharedSecretHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrBadSecret)
			return
		}
		c.Next()
	}
}
