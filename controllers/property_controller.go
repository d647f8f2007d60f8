package controllers

import (
	"net/http"
	"strconv"

	"propman-http-service/internal/error/code"
	"propman-http-service/internal/error/response"
	"propman-http-service/middleware"
	"propman-http-service/models"
	"propman-http-service/services"
	"propman-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfacePropertyController 定义物业控制器接口
type InterfacePropertyController interface {
	GetProperties()
	GetProperty()
	CreateProperty()
	UpdateProperty()
	DeleteProperty()
	GetNearbyProperties()
}

// PropertyController 处理物业相关的请求
type PropertyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPropertyController 创建一个新的物业控制器
func NewPropertyController(ctx *gin.Context, container *container.ServiceContainer) *PropertyController {
	return &PropertyController{
		Ctx:       ctx,
		Container: container,
	}
}

// PropertyRequest 表示创建物业请求
type PropertyRequest struct {
	Name      string                     `json:"name" binding:"required" example:"阳光公寓3栋502"`
	Type      string                     `json:"type" binding:"required" example:"apartment"`
	ManagerID *uint                      `json:"manager_id"`
	Address   models.PropertyAddress     `json:"address"`
	Details   models.PropertyDetails     `json:"details"`
	Financial models.PropertyFinancial   `json:"financial"`
	Schedule  models.MaintenanceSchedule `json:"maintenance_schedule"`
}

// parsePagination 解析分页查询参数
func parsePagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	// 未显式分页时保持大页容量，兼容不传分页参数的老客户端
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "100"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// parseIDParam 解析路径中的数字主键
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.ParamError(ctx, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// parseUintQuery 解析数字查询参数，缺省或非法时返回0
func parseUintQuery(ctx *gin.Context, name string) uint {
	raw := ctx.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}

// GetProperties 获取物业列表
// @Summary      获取物业列表
// @Description  按状态、类型、城市、价格区间等条件分页查询物业
// @Tags         Property
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        status query string false "状态过滤"
// @Param        type query string false "类型过滤"
// @Param        city query string false "城市过滤"
// @Param        min_bedrooms query int false "最少卧室数"
// @Param        min_bathrooms query int false "最少卫生间数"
// @Param        min_price query number false "最低月租"
// @Param        max_price query number false "最高月租"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /properties [get]
func (c *PropertyController) GetProperties() {
	page, pageSize := parsePagination(c.Ctx)

	minBedrooms, _ := strconv.Atoi(c.Ctx.DefaultQuery("min_bedrooms", "0"))
	minBathrooms, _ := strconv.Atoi(c.Ctx.DefaultQuery("min_bathrooms", "0"))
	minPrice, _ := strconv.ParseFloat(c.Ctx.DefaultQuery("min_price", "0"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Ctx.DefaultQuery("max_price", "0"), 64)

	filter := services.PropertyFilter{
		Status:       c.Ctx.Query("status"),
		Type:         c.Ctx.Query("type"),
		City:         c.Ctx.Query("city"),
		MinBedrooms:  minBedrooms,
		MinBathrooms: minBathrooms,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	properties, total, err := propertyService.GetAllProperties(filter, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, models.NewPaginationResult(properties, total, page, pageSize))
}

// GetProperty 获取单个物业
// @Summary      获取物业详情
// @Description  根据ID获取物业的详细信息
// @Tags         Property
// @Produce      json
// @Param        id path int true "物业ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [get]
func (c *PropertyController) GetProperty() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	property, err := propertyService.GetPropertyByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, property)
}

// CreateProperty 创建物业
// @Summary      创建物业
// @Description  创建一条新的物业记录，所有者为当前用户
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        request body PropertyRequest true "物业信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /properties [post]
func (c *PropertyController) CreateProperty() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var req PropertyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	if !models.IsValidPropertyType(req.Type) {
		response.ParamError(c.Ctx, "无效的物业类型")
		return
	}

	property := models.Property{
		Name:      req.Name,
		Type:      req.Type,
		OwnerID:   user.ID,
		ManagerID: req.ManagerID,
		Address:   req.Address,
		Details:   req.Details,
		Financial: req.Financial,
		Schedule:  req.Schedule,
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	if err := propertyService.CreateProperty(&property); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	// 写入后清除物业列表缓存，避免返回过期数据
	middleware.PurgeCacheByPrefix("/api/properties")
	response.Success(c.Ctx, property)
}

// UpdateProperty 更新物业
// @Summary      更新物业
// @Description  按白名单字段更新物业，仅管理员或物业所有者可操作
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID"
// @Param        request body map[string]interface{} true "更新字段"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [put]
func (c *PropertyController) UpdateProperty() {
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

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	property, err := propertyService.UpdateProperty(id, user.ID, user.Role, updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	middleware.PurgeCacheByPrefix("/api/properties")
	response.Success(c.Ctx, property)
}

// DeleteProperty 删除物业
// @Summary      删除物业
// @Description  删除一条物业记录，仅管理员或物业所有者可操作
// @Tags         Property
// @Produce      json
// @Param        id path int true "物业ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [delete]
func (c *PropertyController) DeleteProperty() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	if err := propertyService.DeleteProperty(id, user.ID, user.Role); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	middleware.PurgeCacheByPrefix("/api/properties")
	response.Success(c.Ctx, gin.H{"message": "物业已删除"})
}

// GetNearbyProperties 获取附近物业
// @Summary      获取附近物业
// @Description  根据坐标计算并返回距离指定物业最近的若干物业
// @Tags         Property
// @Produce      json
// @Param        id path int true "物业ID"
// @Param        limit query int false "返回条数，默认为5"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/nearby/{id} [get]
func (c *PropertyController) GetNearbyProperties() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Ctx.DefaultQuery("limit", "5"))
	if limit < 1 || limit > 50 {
		limit = 5
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	nearby, err := propertyService.GetNearbyProperties(id, limit)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, nearby)
}

// HandlePropertyFunc 返回一个处理物业请求的Gin处理函数
func HandlePropertyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPropertyController(ctx, container)

		switch method {
		case "getProperties":
			controller.GetProperties()
		case "getProperty":
			controller.GetProperty()
		case "createProperty":
			controller.CreateProperty()
		case "updateProperty":
			controller.UpdateProperty()
		case "deleteProperty":
			controller.DeleteProperty()
		case "getNearbyProperties":
			controller.GetNearbyProperties()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
