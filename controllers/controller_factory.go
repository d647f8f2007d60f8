package controllers

import (
	"errors"

	"propman-http-service/internal/error/code"
	"propman-http-service/internal/error/response"
	"propman-http-service/services"
	"propman-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// BaseController 是所有控制器的基础接口
type BaseController interface {
	// 获取服务容器
	GetContainer() *container.ServiceContainer
	// 获取Gin上下文
	GetContext() *gin.Context
}

// BaseControllerImpl 是控制器的基础实现
type BaseControllerImpl struct {
	Container *container.ServiceContainer
	Context   *gin.Context
}

// GetContainer 实现 BaseController 接口
func (c *BaseControllerImpl) GetContainer() *container.ServiceContainer {
	return c.Container
}

// GetContext 实现 BaseController 接口
func (c *BaseControllerImpl) GetContext() *gin.Context {
	return c.Context
}

// ControllerFactory 用于创建控制器的工厂
type ControllerFactory struct {
	Container *container.ServiceContainer
}

// NewControllerFactory 创建一个新的控制器工厂
func NewControllerFactory(container *container.ServiceContainer) *ControllerFactory {
	return &ControllerFactory{
		Container: container,
	}
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"100003"`
	Message string      `json:"message" example:"请求参数验证错误"`
	Data    interface{} `json:"data"`
}

// 业务错误到错误码的映射表
var serviceErrorCodes = []struct {
	err  error
	code int
}{
	{services.ErrEmailTaken, code.ErrUserAlreadyExist},
	{services.ErrInvalidCredentials, code.ErrUserPasswordIncorrect},
	{services.ErrUserInactive, code.ErrUserInactive},
	{services.ErrUserNotFound, code.ErrUserNotFound},
	{services.ErrPasswordIncorrect, code.ErrUserPasswordIncorrect},
	{services.ErrPropertyNotFound, code.ErrPropertyNotFound},
	{services.ErrPropertyNotOwned, code.ErrPropertyNotOwned},
	{services.ErrPropertyNotLeased, code.ErrPropertyNotLeased},
	{services.ErrTenantNotFound, code.ErrTenantNotFound},
	{services.ErrActiveTenantExists, code.ErrTenantAlreadyActive},
	{services.ErrTenantBadTransition, code.ErrTenantStatusInvalid},
	{services.ErrTenantAlreadyMovedOut, code.ErrTenantStatusInvalid},
	{services.ErrTicketNotFound, code.ErrTicketNotFound},
	{services.ErrTicketBadTransition, code.ErrTicketStatusInvalid},
	{services.ErrPaymentNotFound, code.ErrPaymentNotFound},
	{services.ErrPaymentAlreadyPaid, code.ErrPaymentAlreadyPaid},
	{services.ErrPaymentBadTransition, code.ErrPaymentStatusInvalid},
	{services.ErrPaymentLockedOncePaid, code.ErrPaymentStatusInvalid},
	{services.ErrPaymentHistoryMissing, code.ErrPaymentHistoryMissing},
	{services.ErrDocumentNotFound, code.ErrDocumentNotFound},
	{services.ErrDocumentArchived, code.ErrDocumentArchived},
}

// failWithServiceError 将业务错误映射为统一响应
func failWithServiceError(ctx *gin.Context, err error) {
	for _, mapping := range serviceErrorCodes {
		if errors.Is(err, mapping.err) {
			response.Fail(ctx, mapping.code, nil)
			return
		}
	}
	response.FailWithMessage(ctx, code.ErrDatabase, err.Error(), nil)
}
