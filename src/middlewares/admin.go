package middlewares

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware guards the admin-only routes (broadcasts, page edits,
// clearing notifications) with a shared secret header. There is no user
// authentication flow in the portal backend.
func AdminMiddleware(ctx *gin.Context) {
	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		err := errors.New("admin routes are disabled")
		log.Printf("Check failed: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	provided := ctx.GetHeader("x-secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
}

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	ctx.Next()
}
