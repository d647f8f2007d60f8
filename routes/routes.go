package routes

import (
	"propman-http-service/config"
	"propman-http-service/controllers"
	_ "propman-http-service/docs"
	"propman-http-service/middleware"
	"propman-http-service/models"
	"propman-http-service/services/container"
	"propman-http-service/websocket"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
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
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	// 上传文件静态目录
	r.Static("/uploads", cfg.UploadDir)

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
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	healthController := controllers.NewHealthCheckController(container)

	// 健康检查
	api.GET("/ping", healthController.Ping)
	api.GET("/health", healthController.Health)

	// 认证路由，登录注册限流防止暴力破解
	authLimiter := middleware.IPRateLimiter(5, 10)
	api.POST("/auth/signup", authLimiter, controllers.HandleAuthFunc(container, "signup"))
	api.POST("/auth/signin", authLimiter, controllers.HandleAuthFunc(container, "signin"))

	// 物业公开查询路由，挂短时响应缓存
	listCache := middleware.Cache()
	api.GET("/properties", listCache, controllers.HandlePropertyFunc(container, "getProperties"))
	api.GET("/properties/:id", controllers.HandlePropertyFunc(container, "getProperty"))
	api.GET("/properties/nearby/:id", listCache, controllers.HandlePropertyFunc(container, "getNearbyProperties"))

	// websocket实时通道，通过token查询参数认证
	api.GET("/ws", websocket.ServeWS(websocket.GetHub(), container.GetJWTService()))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.Authenticate())

	// 可管理物业与租户的角色集合
	managerRoles := middleware.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleOwner)

	// 认证用户路由
	auth.Group("/auth").POST("/signout", controllers.HandleAuthFunc(container, "signout"))
	auth.Group("/auth").POST("/refresh-token", controllers.HandleAuthFunc(container, "refreshToken"))
	auth.Group("/auth").GET("/me", controllers.HandleAuthFunc(container, "me"))
	auth.Group("/auth").PUT("/profile", controllers.HandleAuthFunc(container, "updateProfile"))
	auth.Group("/auth").POST("/change-password", controllers.HandleAuthFunc(container, "changePassword"))

	// 物业管理路由
	auth.Group("/properties").POST("", managerRoles, controllers.HandlePropertyFunc(container, "createProperty"))
	auth.Group("/properties").PUT("/:id", managerRoles, controllers.HandlePropertyFunc(container, "updateProperty"))
	auth.Group("/properties").DELETE("/:id", managerRoles, controllers.HandlePropertyFunc(container, "deleteProperty"))

	// 租户路由
	auth.Group("/tenants").GET("", controllers.HandleTenantFunc(container, "getTenants"))
	auth.Group("/tenants").GET("/:id", controllers.HandleTenantFunc(container, "getTenant"))
	auth.Group("/tenants").POST("", managerRoles, controllers.HandleTenantFunc(container, "createTenant"))
	auth.Group("/tenants").PUT("/:id", managerRoles, controllers.HandleTenantFunc(container, "updateTenant"))
	auth.Group("/tenants").POST("/:id/move-out", managerRoles, controllers.HandleTenantFunc(container, "moveOut"))
	auth.Group("/tenants").GET("/:id/documents", controllers.HandleTenantFunc(container, "getTenantDocuments"))

	// 维修工单路由
	auth.Group("/maintenance").GET("", controllers.HandleMaintenanceFunc(container, "getTickets"))
	auth.Group("/maintenance").GET("/analytics/summary", controllers.HandleMaintenanceFunc(container, "getAnalyticsSummary"))
	auth.Group("/maintenance").GET("/:id", controllers.HandleMaintenanceFunc(container, "getTicket"))
	auth.Group("/maintenance").POST("", controllers.HandleMaintenanceFunc(container, "createTicket"))
	auth.Group("/maintenance").PUT("/:id", controllers.HandleMaintenanceFunc(container, "updateTicket"))
	auth.Group("/maintenance").POST("/:id/notes", controllers.HandleMaintenanceFunc(container, "addNote"))

	// 支付路由
	auth.Group("/payments").GET("", controllers.HandlePaymentFunc(container, "getPayments"))
	auth.Group("/payments").GET("/analytics/summary", controllers.HandlePaymentFunc(container, "getAnalyticsSummary"))
	auth.Group("/payments").GET("/:id", controllers.HandlePaymentFunc(container, "getPayment"))
	auth.Group("/payments").POST("", managerRoles, controllers.HandlePaymentFunc(container, "createPayment"))
	auth.Group("/payments").PUT("/:id", managerRoles, controllers.HandlePaymentFunc(container, "updatePayment"))
	auth.Group("/payments").POST("/:id/pay", controllers.HandlePaymentFunc(container, "payPayment"))
	auth.Group("/payments").POST("/:id/reminder", managerRoles, controllers.HandlePaymentFunc(container, "addReminder"))

	// 文档路由
	auth.Group("/documents").GET("", controllers.HandleDocumentFunc(container, "getDocuments"))
	auth.Group("/documents").GET("/:id", controllers.HandleDocumentFunc(container, "getDocument"))
	auth.Group("/documents").POST("", controllers.HandleDocumentFunc(container, "createDocument"))
	auth.Group("/documents").PUT("/:id", controllers.HandleDocumentFunc(container, "updateDocument"))
	auth.Group("/documents").POST("/:id/versions", controllers.HandleDocumentFunc(container, "addVersion"))
	auth.Group("/documents").POST("/:id/archive", controllers.HandleDocumentFunc(container, "archiveDocument"))
	auth.Group("/documents").DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), controllers.HandleDocumentFunc(container, "deleteDocument"))
	auth.Group("/documents").POST("/:id/access", managerRoles, controllers.HandleDocumentFunc(container, "grantAccess"))
	auth.Group("/documents").DELETE("/:id/access/:user_id", managerRoles, controllers.HandleDocumentFunc(container, "revokeAccess"))
}
