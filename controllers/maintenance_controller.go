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
	"propman-http-service/websocket"

	"github.com/gin-gonic/gin"
)

// InterfaceMaintenanceController 定义维修工单控制器接口
type InterfaceMaintenanceController interface {
	GetTickets()
	GetTicket()
	CreateTicket()
	UpdateTicket()
	AddNote()
	GetAnalyticsSummary()
}

// MaintenanceController 处理维修工单相关的请求
type MaintenanceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMaintenanceController 创建一个新的维修工单控制器
func NewMaintenanceController(ctx *gin.Context, container *container.ServiceContainer) *MaintenanceController {
	return &MaintenanceController{
		Ctx:       ctx,
		Container: container,
	}
}

// MaintenanceTicketRequest 表示创建工单请求
type MaintenanceTicketRequest struct {
	PropertyID    uint       `json:"property_id" binding:"required" example:"1"`
	TenantID      *uint      `json:"tenant_id"`
	AssignedToID  *uint      `json:"assigned_to_id"`
	Title         string     `json:"title" binding:"required" example:"厨房水管漏水"`
	Description   string     `json:"description" example:"水槽下方持续滴水"`
	Category      string     `json:"category" binding:"required" example:"plumbing"`
	Priority      string     `json:"priority" example:"high"`
	EstimatedCost float64    `json:"estimated_cost" example:"300"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// TicketNoteRequest 表示添加工单备注请求
type TicketNoteRequest struct {
	Content string `json:"content" binding:"required" example:"已联系维修师傅，明天上门"`
}

// GetTickets 获取工单列表
// @Summary      获取工单列表
// @Description  按状态、优先级、类别、物业等条件分页查询维修工单
// @Tags         Maintenance
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        status query string false "状态过滤"
// @Param        priority query string false "优先级过滤"
// @Param        category query string false "类别过滤"
// @Param        property_id query int false "物业ID过滤"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /maintenance [get]
func (c *MaintenanceController) GetTickets() {
	page, pageSize := parsePagination(c.Ctx)

	filter := services.MaintenanceFilter{
		Status:     c.Ctx.Query("status"),
		Priority:   c.Ctx.Query("priority"),
		Category:   c.Ctx.Query("category"),
		PropertyID: parseUintQuery(c.Ctx, "property_id"),
	}

	maintenanceService := c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
	tickets, total, err := maintenanceService.GetAllTickets(filter, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, models.NewPaginationResult(tickets, total, page, pageSize))
}

// GetTicket 获取单个工单
// @Summary      获取工单详情
// @Description  根据ID获取工单及其时间线、备注
// @Tags         Maintenance
// @Produce      json
// @Param        id path int true "工单ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /maintenance/{id} [get]
func (c *MaintenanceController) GetTicket() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	maintenanceService := c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
	ticket, err := maintenanceService.GetTicketByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ticket)
}

// CreateTicket 创建工单
// @Summary      创建维修工单
// @Description  创建一条新工单，状态固定为pending并写入首条时间线
// @Tags         Maintenance
// @Accept       json
// @Produce      json
// @Param        request body MaintenanceTicketRequest true "工单信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /maintenance [post]
func (c *MaintenanceController) CreateTicket() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var req MaintenanceTicketRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.MaintenancePriorityMedium
	}

	ticket := models.MaintenanceTicket{
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		ReportedByID:  user.ID,
		AssignedToID:  req.AssignedToID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      priority,
		EstimatedCost: req.EstimatedCost,
		ScheduledDate: req.ScheduledDate,
	}

	maintenanceService := c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
	if err := maintenanceService.CreateTicket(&ticket); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	// 实时推送工单变更
	websocket.GetHub().SendMaintenanceUpdate(ticket, user.ID)
	response.Success(c.Ctx, ticket)
}

// UpdateTicket 更新工单
// @Summary      更新维修工单
// @Description  按白名单字段更新工单，状态变更需满足状态机约束并追加时间线
// @Tags         Maintenance
// @Accept       json
// @Produce      json
// @Param        id path int true "工单ID"
// @Param        request body map[string]interface{} true "更新字段"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /maintenance/{id} [put]
func (c *MaintenanceController) UpdateTicket() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	maintenanceService := c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
	ticket, err := maintenanceService.UpdateTicket(id, user.ID, updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	// 实时推送工单变更
	websocket.GetHub().SendMaintenanceUpdate(ticket, user.ID)
	response.Success(c.Ctx, ticket)
}

// AddNote 添加工单备注
// @Summary      添加工单备注
// @Description  为指定工单追加一条备注
// @Tags         Maintenance
// @Accept       json
// @Produce      json
// @Param        id path int true "工单ID"
// @Param        request body TicketNoteRequest true "备注内容"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /maintenance/{id}/notes [post]
func (c *MaintenanceController) AddNote() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req TicketNoteRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	maintenanceService := c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
	note, err := maintenanceService.AddNote(id, user.ID, req.Content)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, note)
}

// GetAnalyticsSummary 获取工单分析汇总
// @Summary      获取工单分析汇总
// @Description  按状态、优先级、类别统计工单数量及平均完成时长
// @Tags         Maintenance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /maintenance/analytics/summary [get]
func (c *MaintenanceController) GetAnalyticsSummary() {
	maintenanceService := c.Container.GetService("maintenance").(services.InterfaceMaintenanceService)
	summary, err := maintenanceService.GetAnalyticsSummary()
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, summary)
}

// HandleMaintenanceFunc 返回一个处理维修工单请求的Gin处理函数
func HandleMaintenanceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMaintenanceController(ctx, container)

		switch method {
		case "getTickets":
			controller.GetTickets()
		case "getTicket":
			controller.GetTicket()
		case "createTicket":
			controller.CreateTicket()
		case "updateTicket":
			controller.UpdateTicket()
		case "addNote":
			controller.AddNote()
		case "getAnalyticsSummary":
			controller.GetAnalyticsSummary()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
