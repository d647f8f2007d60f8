package middleware

import (
	"strings"

	"propman-http-service/config"
	"propman-http-service/internal/error/code"
	"propman-http-service/internal/error/response"
	"propman-http-service/models"
	"propman-http-service/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	jwtService services.InterfaceJWTService
	authDB     *gorm.DB
)

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg)
	authDB = db
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// Authenticate 验证请求令牌并加载对应用户。
// 令牌缺失/过期/非法，或用户已不存在/已停用时返回401。
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.FailWithMessage(c, code.ErrTokenInvalid, "缺少Authorization请求头", nil)
			c.Abort()
			return
		}

		tokenString := extractToken(authHeader)
		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			response.FailWithMessage(c, code.ErrTokenInvalid, "无效的认证令牌: "+err.Error(), nil)
			c.Abort()
			return
		}

		// 令牌对应的用户必须仍然存在且处于启用状态
		var user models.User
		if err := authDB.First(&user, claims.UserID).Error; err != nil {
			response.FailWithMessage(c, code.ErrTokenInvalid, "令牌对应的用户不存在", nil)
			c.Abort()
			return
		}
		if !user.IsActive {
			response.FailWithMessage(c, code.ErrTokenInvalid, "用户账户已停用", nil)
			c.Abort()
			return
		}

		// 存储当前用户到上下文
		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Set("currentUser", &user)
		c.Next()
	}
}

// RequireRoles 校验当前用户角色是否在允许集合内
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if roleStr, ok := role.(string); !ok || !allowed[roleStr] {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser 从上下文中取出已认证用户
func CurrentUser(c *gin.Context) *models.User {
	if value, exists := c.Get("currentUser"); exists {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}
