package routes

import (
	"time"

	_ "guardiannet-http-service/docs"
	"guardiannet-http-service/internal/app/controllers"
	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, nil)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册闸口路由
	registerGateRoutes(api, container)
	// 注册居民端路由
	registerResidentRoutes(api, container)
	// 注册管理端路由
	registerAdminRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件，每秒10个请求，最多突发20个
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	health := controllers.NewHealthCheckController()
	api.GET("/ping", health.Ping)
	api.GET("/health", health.Ping) // 兼容Docker健康检查的路由

	// 认证路由
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerGateRoutes 注册保安在闸口使用的路由
func registerGateRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	gateGroup := api.Group("/gate")
	gateGroup.Use(middleware.AuthenticateGuard())
	// 闸口扫码频率高，放宽限流
	gateGroup.Use(middleware.PathRateLimiter(20, 40))

	gateGroup.GET("/validate", controllers.HandleGateFunc(container, "validateCode"))
	gateGroup.GET("/search", controllers.HandleGateFunc(container, "searchByName"))
	gateGroup.POST("/approvals", controllers.HandleGateFunc(container, "submitForApproval"))
	gateGroup.POST("/visitors/:id/entry", controllers.HandleGateFunc(container, "recordVisitorEntry"))
	gateGroup.POST("/visitors/:id/exit", controllers.HandleGateFunc(container, "recordVisitorExit"))
	gateGroup.POST("/deliveries/:id/entry", controllers.HandleGateFunc(container, "recordDeliveryEntry"))
	gateGroup.POST("/deliveries/:id/exit", controllers.HandleGateFunc(container, "recordDeliveryExit"))

	// 车辆进出也由保安在闸口登记
	gateGroup.POST("/vehicles/entry", controllers.HandleVehicleFunc(container, "recordEntry"))
	gateGroup.POST("/vehicles/exit", controllers.HandleVehicleFunc(container, "recordExit"))
}

// registerResidentRoutes 注册居民和保安共用的业务路由
func registerResidentRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("/")
	auth.Use(middleware.Authenticate(services.RoleResident, services.RoleGuard))
	auth.Use(middleware.IPRateLimiter(30, 50))

	// 访客路由
	visitorGroup := auth.Group("/visitors")
	visitorGroup.POST("/invite", controllers.HandleVisitorFunc(container, "inviteVisitor"))
	visitorGroup.GET("/pending", controllers.HandleVisitorFunc(container, "listPending"))
	visitorGroup.GET("/logs", controllers.HandleVisitorFunc(container, "listLogs"))
	visitorGroup.GET("/:id", controllers.HandleVisitorFunc(container, "getVisitor"))
	visitorGroup.POST("/:id/decision", controllers.HandleVisitorFunc(container, "decideVisitor"))
	visitorGroup.POST("/:id/resend", controllers.HandleVisitorFunc(container, "resendNotification"))

	// 快递路由
	deliveryGroup := auth.Group("/deliveries")
	deliveryGroup.POST("", controllers.HandleDeliveryFunc(container, "createDelivery"))
	deliveryGroup.GET("", controllers.HandleDeliveryFunc(container, "getDeliveries"))
	deliveryGroup.GET("/:id", controllers.HandleDeliveryFunc(container, "getDelivery"))
	deliveryGroup.PUT("/:id", controllers.HandleDeliveryFunc(container, "editDelivery"))
	deliveryGroup.POST("/:id/cancel", controllers.HandleDeliveryFunc(container, "cancelDelivery"))
	deliveryGroup.GET("/:id/timeline", controllers.HandleDeliveryFunc(container, "getTimeline"))

	// 车辆路由
	vehicleGroup := auth.Group("/vehicles")
	vehicleGroup.POST("", controllers.HandleVehicleFunc(container, "registerVehicle"))
	vehicleGroup.GET("", controllers.HandleVehicleFunc(container, "getMyVehicles"))
	vehicleGroup.DELETE("/:id", controllers.HandleVehicleFunc(container, "removeVehicle"))
	vehicleGroup.GET("/:id/movements", controllers.HandleVehicleFunc(container, "getMovements"))
}

// registerAdminRoutes 注册管理端路由
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateAdmin())
	auth.Use(middleware.IPRateLimiter(30, 50))

	// 管理员路由
	adminGroup := auth.Group("/admins")
	adminGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleAdminFunc(container, "getAdmins"))
	adminGroup.GET("/:id", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleAdminFunc(container, "getAdmin"))
	adminGroup.POST("", controllers.HandleAdminFunc(container, "createAdmin"))
	adminGroup.PUT("/:id", controllers.HandleAdminFunc(container, "updateAdmin"))
	adminGroup.DELETE("/:id", controllers.HandleAdminFunc(container, "deleteAdmin"))

	// 居民路由
	residentGroup := auth.Group("/residents")
	residentGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleResidentFunc(container, "getResidents"))
	residentGroup.GET("/:id", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleResidentFunc(container, "getResident"))
	residentGroup.POST("", controllers.HandleResidentFunc(container, "createResident"))
	residentGroup.PUT("/:id", controllers.HandleResidentFunc(container, "updateResident"))
	residentGroup.DELETE("/:id", controllers.HandleResidentFunc(container, "deleteResident"))

	// 保安路由
	guardGroup := auth.Group("/guards")
	guardGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleGuardFunc(container, "getGuards"))
	guardGroup.GET("/:id", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleGuardFunc(container, "getGuard"))
	guardGroup.POST("", controllers.HandleGuardFunc(container, "createGuard"))
	guardGroup.PUT("/:id", controllers.HandleGuardFunc(container, "updateGuard"))
	guardGroup.DELETE("/:id", controllers.HandleGuardFunc(container, "deleteGuard"))

	// 访客管理端搜索
	auth.GET("/visitors", controllers.HandleVisitorFunc(container, "searchVisitors"))
}
