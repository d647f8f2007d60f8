package controllers

import (
	"net/http"
	"strconv"
	"time"

	"propman-http-service/internal/error/code"
	"propman-http-service/internal/error/response"
	"propman-http-service/middleware"
	"propman-http-service/models"
	"propman-http-service/services"
	"propman-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfacePaymentController 定义支付控制器接口
type InterfacePaymentController interface {
	GetPayments()
	GetPayment()
	CreatePayment()
	UpdatePayment()
	PayPayment()
	AddReminder()
	GetAnalyticsSummary()
}

// PaymentController 处理支付相关的请求
type PaymentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPaymentController 创建一个新的支付控制器
func NewPaymentController(ctx *gin.Context, container *container.ServiceContainer) *PaymentController {
	return &PaymentController{
		Ctx:       ctx,
		Container: container,
	}
}

// PaymentRequest 表示创建支付请求
type PaymentRequest struct {
	PropertyID    uint                   `json:"property_id" binding:"required" example:"1"`
	TenantID      uint                   `json:"tenant_id" binding:"required" example:"2"`
	Type          string                 `json:"type" binding:"required" example:"rent"`
	Method        string                 `json:"method" example:"transfer"`
	Amount        float64                `json:"amount" binding:"required,gt=0" example:"3200"`
	DueDate       time.Time              `json:"due_date" binding:"required"`
	InvoiceNumber string                 `json:"invoice_number" example:"INV-2025-0901"`
	Recurring     models.RecurringConfig `json:"recurring"`
}

// PayPaymentRequest 表示收款确认请求
type PayPaymentRequest struct {
	Method        string `json:"method" binding:"required" example:"card"`
	TransactionID string `json:"transaction_id" example:"txn_8f2k1"`
}

// PaymentReminderRequest 表示支付提醒请求
type PaymentReminderRequest struct {
	Channel string `json:"channel" binding:"required" example:"email"`
	Message string `json:"message" example:"您的房租将于3日后到期"`
}

// GetPayments 获取支付列表
// @Summary      获取支付列表
// @Description  按状态、类型、物业、租户等条件分页查询支付记录
// @Tags         Payment
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        status query string false "状态过滤"
// @Param        type query string false "类型过滤"
// @Param        property_id query int false "物业ID过滤"
// @Param        tenant_id query int false "租户ID过滤"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /payments [get]
func (c *PaymentController) GetPayments() {
	page, pageSize := parsePagination(c.Ctx)

	filter := services.PaymentFilter{
		Status:     c.Ctx.Query("status"),
		Type:       c.Ctx.Query("type"),
		PropertyID: parseUintQuery(c.Ctx, "property_id"),
		TenantID:   parseUintQuery(c.Ctx, "tenant_id"),
	}

	paymentService := c.Container.GetService("payment").(services.InterfacePaymentService)
	payments, total, err := paymentService.GetAllPayments(filter, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, models.NewPaginationResult(payments, total, page, pageSize))
}

// GetPayment 获取单笔支付
// @Summary      获取支付详情
// @Description  根据ID获取支付记录及其提醒、争议
// @Tags         Payment
// @Produce      json
// @Param        id path int true "支付ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /payments/{id} [get]
func (c *PaymentController) GetPayment() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	paymentService := c.Container.GetService("payment").(services.InterfacePaymentService)
	payment, err := paymentService.GetPaymentByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, payment)
}

// CreatePayment 创建支付
// @Summary      创建支付记录
// @Description  创建一笔pending状态的支付，并同步租户付款流水与余额
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body PaymentRequest true "支付信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /payments [post]
func (c *PaymentController) CreatePayment() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var req PaymentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	payment := models.Payment{
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		Type:          req.Type,
		Method:        req.Method,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		InvoiceNumber: req.InvoiceNumber,
		Recurring:     req.Recurring,
		CreatedByID:   user.ID,
	}

	paymentService := c.Container.GetService("payment").(services.InterfacePaymentService)
	if err := paymentService.CreatePayment(&payment); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, payment)
}

// UpdatePayment 更新支付
// @Summary      更新支付记录
// @Description  按白名单字段更新支付，已支付的记录仅允许转为refunded
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        id path int true "支付ID"
// @Param        request body map[string]interface{} true "更新字段"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /payments/{id} [put]
func (c *PaymentController) UpdatePayment() {
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

	paymentService := c.Container.GetService("payment").(services.InterfacePaymentService)
	payment, err := paymentService.UpdatePayment(id, user.ID, updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, payment)
}

// PayPayment 确认收款
// @Summary      确认收款
// @Description  将支付标记为paid，二次收款会被拒绝
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        id path int true "支付ID"
// @Param        request body PayPaymentRequest true "收款信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /payments/{id}/pay [post]
func (c *PaymentController) PayPayment() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req PayPaymentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	if !models.IsValidPaymentMethod(req.Method) {
		response.ParamError(c.Ctx, "无效的支付方式")
		return
	}

	paymentService := c.Container.GetService("payment").(services.InterfacePaymentService)
	payment, err := paymentService.MarkPaid(id, services.PayRequest{
		Method:        req.Method,
		TransactionID: req.TransactionID,
		ActorID:       user.ID,
	})
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, payment)
}

// AddReminder 添加支付提醒
// @Summary      添加支付提醒
// @Description  为指定支付追加一条提醒记录
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        id path int true "支付ID"
// @Param        request body PaymentReminderRequest true "提醒内容"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /payments/{id}/reminder [post]
func (c *PaymentController) AddReminder() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req PaymentReminderRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	paymentService := c.Container.GetService("payment").(services.InterfacePaymentService)
	reminder, err := paymentService.AddReminder(id, req.Channel, req.Message)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, reminder)
}

// GetAnalyticsSummary 获取支付分析汇总
// @Summary      获取支付分析汇总
// @Description  统计指定年月的收入、待收金额及按类型、按月的分布
// @Tags         Payment
// @Produce      json
// @Param        year query int false "年份，默认为当前年"
// @Param        month query int false "月份，0表示全年"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /payments/analytics/summary [get]
func (c *PaymentController) GetAnalyticsSummary() {
	now := time.Now()
	year, _ := strconv.Atoi(c.Ctx.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.Ctx.DefaultQuery("month", "0"))
	if month < 0 || month > 12 {
		response.ParamError(c.Ctx, "无效的月份")
		return
	}

	paymentService := c.Container.GetService("payment").(services.InterfacePaymentService)
	summary, err := paymentService.GetAnalyticsSummary(year, month)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, summary)
}

// HandlePaymentFunc 返回一个处理支付请求的Gin处理函数
func HandlePaymentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPaymentController(ctx, container)

		switch method {
		case "getPayments":
			controller.GetPayments()
		case "getPayment":
			controller.GetPayment()
		case "createPayment":
			controller.CreatePayment()
		case "updatePayment":
			controller.UpdatePayment()
		case "payPayment":
			controller.PayPayment()
		case "addReminder":
			controller.AddReminder()
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
