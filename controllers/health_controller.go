package controllers

import (
	"net/http"
	"time"

	"propman-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Container *container.ServiceContainer
}

// 进程启动时间，用于上报运行时长
var startedAt = time.Now()

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Container: container}
}

// Ping 健康检查端点
func (h *HealthCheckController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}

// Health 依赖健康详情端点，逐项检查数据库与Redis
func (h *HealthCheckController) Health(c *gin.Context) {
	dbStatus := "up"
	if sqlDB, err := h.Container.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "up"
	redisService := h.Container.GetRedisService()
	if redisService == nil || redisService.Ping() != nil {
		redisStatus = "down"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if dbStatus == "down" {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":         status,
		"timestamp":      time.Now().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
