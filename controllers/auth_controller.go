package controllers

import (
	"net/http"
	"strings"

	"propman-http-service/internal/error/code"
	"propman-http-service/internal/error/response"
	"propman-http-service/middleware"
	"propman-http-service/models"
	"propman-http-service/services"
	"propman-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	Signup()
	Signin()
	Signout()
	RefreshToken()
	GetCurrentUser()
	UpdateProfile()
	ChangePassword()
}

// AuthController 处理认证相关的请求
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// SignupRequest 表示注册请求
type SignupRequest struct {
	FirstName string `json:"first_name" binding:"required" example:"三"`
	LastName  string `json:"last_name" example:"张"`
	Email     string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	Password  string `json:"password" binding:"required,min=6" example:"secret123"`
	Phone     string `json:"phone" example:"13812345678"`
	Role      string `json:"role" example:"tenant"`
}

// SigninRequest 表示登录请求
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// ChangePasswordRequest 表示修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// tokenPayload 组装携带令牌的认证响应
func (c *AuthController) tokenPayload(user *models.User) (gin.H, error) {
	jwtService := c.Container.GetJWTService()
	token, err := jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"role":       user.Role,
		},
	}, nil
}

// Signup 用户注册
// @Summary      注册新用户
// @Description  创建一个新用户并返回JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "注册信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /auth/signup [post]
func (c *AuthController) Signup() {
	var req SignupRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(req.Email),
		Password:  req.Password,
		Phone:     req.Phone,
		Role:      req.Role,
		IsActive:  true,
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.Register(&user); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	payload, err := c.tokenPayload(&user)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}
	response.Success(c.Ctx, payload)
}

// Signin 用户登录
// @Summary      用户登录
// @Description  校验邮箱和密码并返回JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body SigninRequest true "登录信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /auth/signin [post]
func (c *AuthController) Signin() {
	var req SigninRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.Authenticate(req.Email, req.Password)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	payload, err := c.tokenPayload(user)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}
	response.Success(c.Ctx, payload)
}

// Signout 用户登出
// @Summary      用户登出
// @Description  无状态JWT，服务端不保存会话，客户端丢弃令牌即可
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/signout [post]
func (c *AuthController) Signout() {
	// JWT是无状态的，登出由客户端丢弃令牌完成
	response.Success(c.Ctx, gin.H{"message": "已登出"})
}

// RefreshToken 刷新令牌
// @Summary      刷新JWT令牌
// @Description  使用当前有效令牌换取一个新令牌
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/refresh-token [post]
func (c *AuthController) RefreshToken() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	payload, err := c.tokenPayload(user)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}
	response.Success(c.Ctx, payload)
}

// GetCurrentUser 获取当前用户
// @Summary      获取当前用户信息
// @Description  根据令牌返回当前登录用户的详细信息
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (c *AuthController) GetCurrentUser() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	full, err := userService.GetUserByID(user.ID)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, full)
}

// UpdateProfile 更新当前用户资料
// @Summary      更新个人资料
// @Description  更新当前登录用户的姓名、电话等资料字段
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body map[string]interface{} true "资料字段"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/profile [put]
func (c *AuthController) UpdateProfile() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	updated, err := userService.UpdateProfile(user.ID, updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, updated)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Description  校验旧密码后更新为新密码
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "新旧密码"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/change-password [post]
func (c *AuthController) ChangePassword() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "密码已更新"})
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "signup":
			controller.Signup()
		case "signin":
			controller.Signin()
		case "signout":
			controller.Signout()
		case "refreshToken":
			controller.RefreshToken()
		case "me":
			controller.GetCurrentUser()
		case "updateProfile":
			controller.UpdateProfile()
		case "changePassword":
			controller.ChangePassword()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
