package container

import (
	"context"
	"log"
	"sync"
	"time"

	"propman-http-service/config"
	"propman-http-service/services"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 业务服务
	userService        services.InterfaceUserService
	propertyService    services.InterfacePropertyService
	tenantService      services.InterfaceTenantService
	maintenanceService services.InterfaceMaintenanceService
	paymentService     services.InterfacePaymentService
	documentService    services.InterfaceDocumentService

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
			redisClient = nil
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
	c.jwtService = services.NewJWTService(c.config)
	if c.redis != nil {
		c.redisService = services.NewRedisService(c.config)
	}

	// 初始化业务服务
	c.userService = services.NewUserService(c.db, c.config)
	c.propertyService = services.NewPropertyService(c.db, c.config)
	c.tenantService = services.NewTenantService(c.db, c.config)
	c.maintenanceService = services.NewMaintenanceService(c.db, c.config, c.redisService)
	c.paymentService = services.NewPaymentService(c.db, c.config, c.redisService)
	c.documentService = services.NewDocumentService(c.db, c.config)
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
	case "user":
		return c.userService
	case "property":
		return c.propertyService
	case "tenant":
		return c.tenantService
	case "maintenance":
		return c.maintenanceService
	case "payment":
		return c.paymentService
	case "document":
		return c.documentService
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

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// GetJWTService 获取JWT服务
func (c *ServiceContainer) GetJWTService() services.InterfaceJWTService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jwtService
}

// GetRedisService 获取Redis服务，未启用时返回nil
func (c *ServiceContainer) GetRedisService() services.InterfaceRedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}
