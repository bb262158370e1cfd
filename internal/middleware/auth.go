package middleware

import (
	"strings"

	"study_quiz_backend/internal/util"
	"study_quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验外部身份服务签发的 HS256 token，sub 即用户ID
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}

		// SSE 连接无法设置请求头，允许走 query
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.String("path", c.Request.URL.Path), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// CurrentUserID 必须在 AuthMiddleware 之后使用
func CurrentUserID(c *gin.Context) (string, bool) {
	claims := util.GetUserFromContext(c)
	if claims == nil || claims.UserID() == "" {
		return "", false
	}
	return claims.UserID(), true
}
