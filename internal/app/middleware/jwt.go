package middleware

import (
	"net/http"
	"strings"

	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// Authenticate 验证token并要求持有给定角色之一，
// 不传角色时任何有效token都可以通过
func Authenticate(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		tokenString := extractToken(authHeader)
		token, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid token: "+err.Error())
			return
		}
		if !token.Valid {
			unauthorized(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid token claims")
			return
		}

		role, _ := claims["role"].(string)
		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				// 管理员可以访问所有角色的接口
				if role == r || role == services.RoleAdmin {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{
					"code":    403,
					"message": "Insufficient permissions",
					"data":    nil,
				})
				c.Abort()
				return
			}
		}

		// 存储claims到上下文
		c.Set("userID", claims["user_id"])
		c.Set("role", role)
		c.Set("claims", claims)
		c.Next()
	}
}

// AuthenticateAdmin 验证系统管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return Authenticate(services.RoleAdmin)
}

// AuthenticateGuard 验证保安权限
func AuthenticateGuard() gin.HandlerFunc {
	return Authenticate(services.RoleGuard)
}

// AuthenticateResident 验证居民权限
func AuthenticateResident() gin.HandlerFunc {
	return Authenticate(services.RoleResident)
}

// CurrentUserID 从上下文取出当前登录用户ID
func CurrentUserID(c *gin.Context) uint {
	val, exists := c.Get("userID")
	if !exists {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return uint(v)
	case uint:
		return v
	case int:
		return uint(v)
	default:
		return 0
	}
}

// CurrentRole 从上下文取出当前登录用户角色
func CurrentRole(c *gin.Context) string {
	role, _ := c.Get("role")
	s, _ := role.(string)
	return s
}
