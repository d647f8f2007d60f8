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

// InterfaceDocumentController 定义文档控制器接口
type InterfaceDocumentController interface {
	GetDocuments()
	GetDocument()
	CreateDocument()
	UpdateDocument()
	AddVersion()
	ArchiveDocument()
	DeleteDocument()
	GrantAccess()
	RevokeAccess()
}

// DocumentController 处理文档相关的请求
type DocumentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDocumentController 创建一个新的文档控制器
func NewDocumentController(ctx *gin.Context, container *container.ServiceContainer) *DocumentController {
	return &DocumentController{
		Ctx:       ctx,
		Container: container,
	}
}

// DocumentRequest 表示创建文档请求
type DocumentRequest struct {
	Name       string `json:"name" binding:"required" example:"2025年度租赁合同"`
	Type       string `json:"type" binding:"required" example:"lease"`
	Category   string `json:"category" example:"legal"`
	PropertyID *uint  `json:"property_id"`
	TenantID   *uint  `json:"tenant_id"`
	FileURL    string `json:"file_url" binding:"required" example:"/uploads/lease-2025.pdf"`
	FileSize   int64  `json:"file_size" example:"204800"`
	MimeType   string `json:"mime_type" example:"application/pdf"`
}

// DocumentVersionRequest 表示上传新版本请求
type DocumentVersionRequest struct {
	FileURL  string `json:"file_url" binding:"required" example:"/uploads/lease-2025-v2.pdf"`
	FileSize int64  `json:"file_size" example:"215040"`
}

// DocumentAccessRequest 表示授权请求
type DocumentAccessRequest struct {
	UserID     uint   `json:"user_id" binding:"required" example:"3"`
	Permission string `json:"permission" binding:"required" example:"read"`
}

// GetDocuments 获取文档列表
// @Summary      获取文档列表
// @Description  按类型、分类、物业、租户、归档状态等条件分页查询文档
// @Tags         Document
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        type query string false "类型过滤"
// @Param        category query string false "分类过滤"
// @Param        property_id query int false "物业ID过滤"
// @Param        tenant_id query int false "租户ID过滤"
// @Param        archived query bool false "归档状态过滤"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /documents [get]
func (c *DocumentController) GetDocuments() {
	page, pageSize := parsePagination(c.Ctx)

	filter := services.DocumentFilter{
		Type:       c.Ctx.Query("type"),
		Category:   c.Ctx.Query("category"),
		PropertyID: parseUintQuery(c.Ctx, "property_id"),
		TenantID:   parseUintQuery(c.Ctx, "tenant_id"),
	}
	if raw := c.Ctx.Query("archived"); raw != "" {
		if archived, err := strconv.ParseBool(raw); err == nil {
			filter.Archived = &archived
		}
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	documents, total, err := documentService.GetAllDocuments(filter, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, models.NewPaginationResult(documents, total, page, pageSize))
}

// GetDocument 获取单个文档
// @Summary      获取文档详情
// @Description  根据ID获取文档及其版本、访问控制与审计记录
// @Tags         Document
// @Produce      json
// @Param        id path int true "文档ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
func (c *DocumentController) GetDocument() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	document, err := documentService.GetDocumentByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, document)
}

// CreateDocument 创建文档
// @Summary      创建文档
// @Description  登记一份已上传的文档，初始版本为1并写入uploaded审计
// @Tags         Document
// @Accept       json
// @Produce      json
// @Param        request body DocumentRequest true "文档信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /documents [post]
func (c *DocumentController) CreateDocument() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var req DocumentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	document := models.Document{
		Name:         req.Name,
		Type:         req.Type,
		Category:     req.Category,
		PropertyID:   req.PropertyID,
		TenantID:     req.TenantID,
		UploadedByID: user.ID,
		FileURL:      req.FileURL,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	if err := documentService.CreateDocument(&document); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, document)
}

// UpdateDocument 更新文档
// @Summary      更新文档
// @Description  按白名单字段更新文档元数据，已归档的文档拒绝更新
// @Tags         Document
// @Accept       json
// @Produce      json
// @Param        id path int true "文档ID"
// @Param        request body map[string]interface{} true "更新字段"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [put]
func (c *DocumentController) UpdateDocument() {
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

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	document, err := documentService.UpdateDocument(id, user.ID, updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, document)
}

// AddVersion 上传新版本
// @Summary      上传文档新版本
// @Description  归档当前文件为历史版本并将版本号加一
// @Tags         Document
// @Accept       json
// @Produce      json
// @Param        id path int true "文档ID"
// @Param        request body DocumentVersionRequest true "新版本文件信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/versions [post]
func (c *DocumentController) AddVersion() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req DocumentVersionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	document, err := documentService.AddVersion(id, user.ID, req.FileURL, req.FileSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, document)
}

// ArchiveDocument 归档文档
// @Summary      归档文档
// @Description  将文档标记为已归档并写入archived审计
// @Tags         Document
// @Produce      json
// @Param        id path int true "文档ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/archive [post]
func (c *DocumentController) ArchiveDocument() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	document, err := documentService.Archive(id, user.ID)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, document)
}

// DeleteDocument 删除文档
// @Summary      删除文档
// @Description  删除文档及其版本、访问控制与审计记录
// @Tags         Document
// @Produce      json
// @Param        id path int true "文档ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [delete]
func (c *DocumentController) DeleteDocument() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	if err := documentService.DeleteDocument(id, user.ID); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "文档已删除"})
}

// GrantAccess 授予访问权限
// @Summary      授予文档访问权限
// @Description  为指定用户授予或更新文档访问权限
// @Tags         Document
// @Accept       json
// @Produce      json
// @Param        id path int true "文档ID"
// @Param        request body DocumentAccessRequest true "授权信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/access [post]
func (c *DocumentController) GrantAccess() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req DocumentAccessRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	access, err := documentService.GrantAccess(id, req.UserID, req.Permission)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, access)
}

// RevokeAccess 撤销访问权限
// @Summary      撤销文档访问权限
// @Description  移除指定用户对文档的访问权限
// @Tags         Document
// @Produce      json
// @Param        id path int true "文档ID"
// @Param        user_id path int true "用户ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/access/{user_id} [delete]
func (c *DocumentController) RevokeAccess() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c.Ctx, "user_id")
	if !ok {
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	if err := documentService.RevokeAccess(id, userID); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "权限已撤销"})
}

// HandleDocumentFunc 返回一个处理文档请求的Gin处理函数
func HandleDocumentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDocumentController(ctx, container)

		switch method {
		case "getDocuments":
			controller.GetDocuments()
		case "getDocument":
			controller.GetDocument()
		case "createDocument":
			controller.CreateDocument()
		case "updateDocument":
			controller.UpdateDocument()
		case "addVersion":
			controller.AddVersion()
		case "archiveDocument":
			controller.ArchiveDocument()
		case "deleteDocument":
			controller.DeleteDocument()
		case "grantAccess":
			controller.GrantAccess()
		case "revokeAccess":
			controller.RevokeAccess()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
