package services

import (
	"errors"
	"fmt"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// 角色常量，鉴权中间件与控制器共用
const (
	RoleAdmin    = "admin"
	RoleResident = "resident"
	RoleGuard    = "guard"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID uint, role string) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
	Login(username, password string) (*LoginResult, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	DB        *gorm.DB
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "guardiannet-http-service",
		DB:        db,
	}
}

// GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(userID uint, role string) (string, error) {
	// 令牌有效期为24小时
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken 验证JWT令牌
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// ExtractClaims 从令牌中提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的令牌声明")
	}

	jwtClaims := &JWTClaims{}

	// 提取用户ID
	if userID, ok := claims["user_id"].(float64); ok {
		jwtClaims.UserID = uint(userID)
	}

	// 提取角色
	if role, ok := claims["role"].(string); ok {
		jwtClaims.Role = role
	}

	return jwtClaims, nil
}

// Login 按用户名在三张账户表中依次查找并验证密码：
// 管理员、保安按用户名匹配，居民按手机号匹配
func (s *JWTService) Login(username, password string) (*LoginResult, error) {
	// 管理员
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err == nil {
		if !models.CheckPasswordHash(password, admin.Password) {
			return nil, errors.New("密码错误")
		}
		token, err := s.GenerateToken(admin.ID, RoleAdmin)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			Token:    token,
			UserID:   admin.ID,
			Role:     RoleAdmin,
			Username: admin.Username,
			Phone:    admin.Phone,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 保安
	var guard models.SecurityGuard
	if err := s.DB.Where("username = ?", username).First(&guard).Error; err == nil {
		if !models.CheckPasswordHash(password, guard.Password) {
			return nil, errors.New("密码错误")
		}
		token, err := s.GenerateToken(guard.ID, RoleGuard)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			Token:    token,
			UserID:   guard.ID,
			Role:     RoleGuard,
			Username: guard.Username,
			Phone:    guard.Phone,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 居民按手机号登录
	var resident models.Resident
	if err := s.DB.Where("phone = ?", username).First(&resident).Error; err == nil {
		if !models.CheckPasswordHash(password, resident.Password) {
			return nil, errors.New("密码错误")
		}
		token, err := s.GenerateToken(resident.ID, RoleResident)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			Token:    token,
			UserID:   resident.ID,
			Role:     RoleResident,
			Username: resident.Name,
			Phone:    resident.Phone,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, errors.New("用户不存在")
}
