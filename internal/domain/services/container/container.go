package container

import (
	"context"
	"log"
	"sync"
	"time"

	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService    services.InterfaceRedisService
	evidenceService services.InterfaceEvidenceService

	// MQTT通知服务
	notificationService services.InterfaceNotificationService

	// 通行码与闸口服务
	codeService       services.InterfaceCodeService
	validationService services.InterfaceValidationService
	approvalService   services.InterfaceApprovalService
	ledgerService     services.InterfaceLedgerService

	// 业务服务
	adminService    services.InterfaceAdminService
	residentService services.InterfaceResidentService
	guardService    services.InterfaceGuardService
	visitorService  services.InterfaceVisitorService
	deliveryService services.InterfaceDeliveryService
	vehicleService  services.InterfaceVehicleService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)
	c.redisService = services.NewRedisService(c.config)
	c.evidenceService = services.NewEvidenceService(c.config)
	c.codeService = services.NewCodeService()

	// 初始化MQTT通知服务
	c.notificationService = services.NewNotificationService(c.config)
	if err := c.notificationService.Connect(); err != nil {
		log.Printf("MQTT服务连接失败: %v", err)
	}

	// 初始化闸口服务
	c.validationService = services.NewValidationService(c.db, c.config, c.redisService)
	c.approvalService = services.NewApprovalService(c.db, c.config, c.codeService,
		c.evidenceService, c.notificationService, c.redisService)
	c.ledgerService = services.NewLedgerService(c.db, c.config, c.notificationService, c.redisService)

	// 初始化业务服务
	c.adminService = services.NewAdminService(c.db, c.config)
	c.residentService = services.NewResidentService(c.db, c.config)
	c.guardService = services.NewGuardService(c.db, c.config)
	c.visitorService = services.NewVisitorService(c.db, c.config, c.codeService, c.notificationService)
	c.deliveryService = services.NewDeliveryService(c.db, c.config, c.codeService,
		c.notificationService)
	c.vehicleService = services.NewVehicleService(c.db, c.config, c.notificationService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "evidence":
		return c.evidenceService
	case "notification":
		return c.notificationService
	case "code":
		return c.codeService
	case "validation":
		return c.validationService
	case "approval":
		return c.approvalService
	case "ledger":
		return c.ledgerService
	case "admin":
		return c.adminService
	case "resident":
		return c.residentService
	case "guard":
		return c.guardService
	case "visitor":
		return c.visitorService
	case "delivery":
		return c.deliveryService
	case "vehicle":
		return c.vehicleService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
