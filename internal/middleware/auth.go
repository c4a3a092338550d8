package middleware

import (
	"strings"
	"study_backend/internal/config"
	"study_backend/internal/service"
	"study_backend/internal/util"
	"study_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// extractToken reads the bearer token, falling back to the query
// parameter used by direct download links.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// StreakMiddleware advances the learning streak on every authenticated
// request. Runs asynchronously so it never blocks the handler.
func StreakMiddleware(streaks *service.StreakService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			go func(userID uint) {
				if _, err := streaks.Touch(userID); err != nil {
					logger.Log.Warn("Streak update failed", zap.Uint("userId", userID), zap.Error(err))
				}
			}(claims.UserID)
		}
		c.Next()
	}
}
