package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ExportPrincipal is the actor recorded for changes made by the export pipeline.
const ExportPrincipal = "export-pipeline"

// ExportAPIKeyHeader carries the export pipeline key.
const ExportAPIKeyHeader = "X-API-Key"

// ExportAPIKeyMiddleware authenticates the export pipeline by comparing the
// X-API-Key header against a bcrypt hash. Requests without the header fall
// through to the next authentication middleware.
func ExportAPIKeyMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(ExportAPIKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		logger := GetLoggerFromCtx(c.Request.Context())
		if keyHash == "" {
			logger.Warn("Export API key presented but no key is configured")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Export feed is disabled"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
			logger.Warn("Invalid export API key", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}
		authenticate(c, ExportPrincipal, "api_key")
		c.Next()
	}
}

// HashAPIKey produces the bcrypt hash stored in EXPORT_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
