package controllers

import (
	"net/http"
	"time"

	"propman-http-service/internal/error/code"
	"propman-http-service/internal/error/response"
	"propman-http-service/middleware"
	"propman-http-service/models"
	"propman-http-service/services"
	"propman-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceTenantController 定义租户控制器接口
type InterfaceTenantController interface {
	GetTenants()
	GetTenant()
	CreateTenant()
	UpdateTenant()
	MoveOut()
	GetTenantDocuments()
}

// TenantController 处理租户相关的请求
type TenantController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTenantController 创建一个新的租户控制器
func NewTenantController(ctx *gin.Context, container *container.ServiceContainer) *TenantController {
	return &TenantController{
		Ctx:       ctx,
		Container: container,
	}
}

// TenantRequest 表示创建租户请求
type TenantRequest struct {
	UserID        uint                    `json:"user_id" binding:"required" example:"3"`
	PropertyID    uint                    `json:"property_id" binding:"required" example:"1"`
	LeaseStart    time.Time               `json:"lease_start" binding:"required"`
	LeaseEnd      time.Time               `json:"lease_end" binding:"required"`
	RentAmount    float64                 `json:"rent_amount" binding:"required" example:"3200"`
	DepositAmount float64                 `json:"deposit_amount" example:"6400"`
	DepositPaid   bool                    `json:"deposit_paid"`
	MoveInDate    *time.Time              `json:"move_in_date"`
	Emergency     models.EmergencyContact `json:"emergency_contact"`
	Employment    models.Employment       `json:"employment"`
}

// GetTenants 获取租户列表
// @Summary      获取租户列表
// @Description  按状态、物业、用户等条件分页查询租赁记录
// @Tags         Tenant
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        status query string false "状态过滤"
// @Param        property_id query int false "物业ID过滤"
// @Param        user_id query int false "用户ID过滤"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /tenants [get]
func (c *TenantController) GetTenants() {
	page, pageSize := parsePagination(c.Ctx)

	filter := services.TenantFilter{
		Status:     c.Ctx.Query("status"),
		PropertyID: parseUintQuery(c.Ctx, "property_id"),
		UserID:     parseUintQuery(c.Ctx, "user_id"),
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenants, total, err := tenantService.GetAllTenants(filter, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, models.NewPaginationResult(tenants, total, page, pageSize))
}

// GetTenant 获取单个租户
// @Summary      获取租户详情
// @Description  根据ID获取租赁记录及其关联的用户与物业
// @Tags         Tenant
// @Produce      json
// @Param        id path int true "租户ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants/{id} [get]
func (c *TenantController) GetTenant() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenant, err := tenantService.GetTenantByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tenant)
}

// CreateTenant 创建租户
// @Summary      创建租赁记录
// @Description  为指定物业创建激活的租赁记录，并同步物业租约快照
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        request body TenantRequest true "租赁信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants [post]
func (c *TenantController) CreateTenant() {
	var req TenantRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	if !req.LeaseEnd.After(req.LeaseStart) {
		response.ParamError(c.Ctx, "租约结束时间必须晚于开始时间")
		return
	}

	tenant := models.Tenant{
		UserID:        req.UserID,
		PropertyID:    req.PropertyID,
		LeaseStart:    req.LeaseStart,
		LeaseEnd:      req.LeaseEnd,
		RentAmount:    req.RentAmount,
		DepositAmount: req.DepositAmount,
		DepositPaid:   req.DepositPaid,
		MoveInDate:    req.MoveInDate,
		Emergency:     req.Emergency,
		Employment:    req.Employment,
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	if err := tenantService.CreateTenant(&tenant); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	// 租约变更会改变物业的出租状态，连带清除物业列表缓存
	middleware.PurgeCacheByPrefix("/api/properties")
	response.Success(c.Ctx, tenant)
}

// UpdateTenant 更新租户
// @Summary      更新租赁记录
// @Description  按白名单字段更新租赁记录，状态变更需满足状态机约束
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        id path int true "租户ID"
// @Param        request body map[string]interface{} true "更新字段"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants/{id} [put]
func (c *TenantController) UpdateTenant() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenant, err := tenantService.UpdateTenant(id, updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	middleware.PurgeCacheByPrefix("/api/properties")
	response.Success(c.Ctx, tenant)
}

// MoveOut 办理退租
// @Summary      办理退租
// @Description  将激活的租赁记录标记为past，释放物业并重算指标
// @Tags         Tenant
// @Produce      json
// @Param        id path int true "租户ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants/{id}/move-out [post]
func (c *TenantController) MoveOut() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenant, err := tenantService.MoveOut(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	middleware.PurgeCacheByPrefix("/api/properties")
	response.Success(c.Ctx, tenant)
}

// GetTenantDocuments 获取租户文档
// @Summary      获取租户文档列表
// @Description  返回与指定租赁记录关联的全部文档
// @Tags         Tenant
// @Produce      json
// @Param        id path int true "租户ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants/{id}/documents [get]
func (c *TenantController) GetTenantDocuments() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	documents, err := tenantService.GetTenantDocuments(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, documents)
}

// HandleTenantFunc 返回一个处理租户请求的Gin处理函数
func HandleTenantFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTenantController(ctx, container)

		switch method {
		case "getTenants":
			controller.GetTenants()
		case "getTenant":
			controller.GetTenant()
		case "createTenant":
			controller.CreateTenant()
		case "updateTenant":
			controller.UpdateTenant()
		case "moveOut":
			controller.MoveOut()
		case "getTenantDocuments":
			controller.GetTenantDocuments()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
