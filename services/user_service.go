package services

import (
	"errors"
	"strings"
	"time"

	"propman-http-service/config"
	"propman-http-service/models"
	"propman-http-service/utils"

	"gorm.io/gorm"
)

// 用户相关的业务错误
var (
	ErrEmailTaken         = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserInactive       = errors.New("用户账户已停用")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrPasswordIncorrect  = errors.New("原密码错误")
)

// InterfaceUserService 定义用户服务接口
type InterfaceUserService interface {
	Register(user *models.User) error
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetAllUsers(page, pageSize int) ([]models.User, int64, error)
	UpdateProfile(id uint, updates map[string]interface{}) (*models.User, error)
	ChangePassword(id uint, oldPassword, newPassword string) error
	Deactivate(id uint) error
}

// UserService 提供用户相关的服务
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 个人资料更新允许修改的字段白名单
var profileUpdatableFields = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"phone":      true,
}

// 1. Register 注册新用户，邮箱重复时返回错误
func (s *UserService) Register(user *models.User) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))

	// 检查邮箱是否已注册（大小写不敏感）
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	if user.Role == "" {
		user.Role = models.RoleTenant
	}
	if !models.IsValidRole(user.Role) {
		return errors.New("无效的用户角色")
	}
	user.IsActive = true

	// 密码在服务边界统一哈希，任意长度的明文都不落库
	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	return s.DB.Create(user).Error
}

// 2. Authenticate 校验登录凭证，成功后更新最近登录时间
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// 密码正确但账户停用时返回403对应的错误
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.DB.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// 3. GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.Preload("Properties").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// 4. GetAllUsers 获取用户列表，支持分页
func (s *UserService) GetAllUsers(page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := s.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// 5. UpdateProfile 更新个人资料，仅允许白名单字段
func (s *UserService) UpdateProfile(id uint, updates map[string]interface{}) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	filtered := map[string]interface{}{}
	for key, value := range updates {
		if profileUpdatableFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return user, nil
	}

	if err := s.DB.Model(user).Updates(filtered).Error; err != nil {
		return nil, err
	}

	return s.GetUserByID(id)
}

// 6. ChangePassword 修改密码，需验证原密码
func (s *UserService) ChangePassword(id uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(oldPassword, user.Password) {
		return ErrPasswordIncorrect
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.DB.Model(user).Update("password", hashed).Error
}

// 7. Deactivate 停用账户（软删除，不物理删除记录）
func (s *UserService) Deactivate(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	return s.DB.Model(user).Update("is_active", false).Error
}
