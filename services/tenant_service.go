package services

import (
	"errors"
	"time"

	"propman-http-service/config"
	"propman-http-service/models"

	"gorm.io/gorm"
)

// 租户相关的业务错误
var (
	ErrTenantNotFound        = errors.New("租户不存在")
	ErrActiveTenantExists    = errors.New("该物业已有在租租户")
	ErrTenantBadTransition   = errors.New("租户状态转换不合法")
	ErrTenantAlreadyMovedOut = errors.New("租户已退租")
)

// TenantFilter 租户列表过滤条件
type TenantFilter struct {
	Status     string
	PropertyID uint
	UserID     uint
}

// InterfaceTenantService 定义租户服务接口
type InterfaceTenantService interface {
	GetAllTenants(filter TenantFilter, page, pageSize int) ([]models.Tenant, int64, error)
	GetTenantByID(id uint) (*models.Tenant, error)
	CreateTenant(tenant *models.Tenant) error
	UpdateTenant(id uint, updates map[string]interface{}) (*models.Tenant, error)
	MoveOut(id uint) (*models.Tenant, error)
	GetTenantDocuments(id uint) ([]models.Document, error)
}

// TenantService 提供租户相关的服务
type TenantService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTenantService 创建一个新的租户服务
func NewTenantService(db *gorm.DB, cfg *config.Config) InterfaceTenantService {
	return &TenantService{
		DB:     db,
		Config: cfg,
	}
}

// 租户更新允许修改的字段白名单
var tenantUpdatableFields = map[string]bool{
	"lease_start":               true,
	"lease_end":                 true,
	"rent_amount":               true,
	"deposit_amount":            true,
	"deposit_paid":              true,
	"status":                    true,
	"balance":                   true,
	"emergency_name":            true,
	"emergency_phone":           true,
	"emergency_relationship":    true,
	"employment_employer":       true,
	"employment_position":       true,
	"employment_monthly_income": true,
	"employment_work_phone":     true,
}

// 1. GetAllTenants 获取租户列表，支持过滤与分页
func (s *TenantService) GetAllTenants(filter TenantFilter, page, pageSize int) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	query := s.DB.Model(&models.Tenant{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PropertyID > 0 {
		query = query.Where("property_id = ?", filter.PropertyID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("User").Preload("Property").
		Limit(pageSize).Offset(offset).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// 2. GetTenantByID 根据ID获取租户
func (s *TenantService) GetTenantByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.DB.Preload("User").Preload("Property").
		Preload("Vehicles").Preload("Pets").Preload("References").
		Preload("PaymentHistory").First(&tenant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// 3. CreateTenant 创建租赁记录。
// 同一物业存在在租租户时拒绝；租户记录、物业租约快照、用户物业列表
// 三处写入在同一事务内完成，避免部分失败导致数据不一致。
func (s *TenantService) CreateTenant(tenant *models.Tenant) error {
	if tenant.Status == "" {
		tenant.Status = models.TenantStatusActive
	}
	if !models.IsValidTenantStatus(tenant.Status) {
		return ErrTenantBadTransition
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// 物业必须存在
		var property models.Property
		if err := tx.First(&property, tenant.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		// 用户必须存在
		var user models.User
		if err := tx.First(&user, tenant.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// 检查是否已有在租租户
		var count int64
		if err := tx.Model(&models.Tenant{}).
			Where("property_id = ? AND status = ?", tenant.PropertyID, models.TenantStatusActive).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrActiveTenantExists
		}

		if tenant.Status == models.TenantStatusActive && tenant.MoveInDate == nil {
			now := time.Now()
			tenant.MoveInDate = &now
		}

		if err := tx.Create(tenant).Error; err != nil {
			return err
		}

		// 写入物业租约快照并置为occupied
		if tenant.Status == models.TenantStatusActive {
			leaseStart := tenant.LeaseStart
			leaseEnd := tenant.LeaseEnd
			if err := tx.Model(&property).Updates(map[string]interface{}{
				"status":           models.PropertyStatusOccupied,
				"lease_tenant_id":  tenant.ID,
				"lease_start_date": leaseStart,
				"lease_end_date":   leaseEnd,
				"lease_rent":       tenant.RentAmount,
			}).Error; err != nil {
				return err
			}
		}

		// 将物业追加到用户的物业列表
		if err := tx.Model(&user).Association("Properties").Append(&property); err != nil {
			return err
		}

		return RecalculatePropertyMetrics(tx, tenant.PropertyID)
	})
}

// 4. UpdateTenant 更新租户信息，仅允许白名单字段；状态变更按转换表校验。
// 由active转出时同步清理物业租约快照，保证occupied与租约的一致性。
func (s *TenantService) UpdateTenant(id uint, updates map[string]interface{}) (*models.Tenant, error) {
	tenant, err := s.GetTenantByID(id)
	if err != nil {
		return nil, err
	}

	filtered := map[string]interface{}{}
	for key, value := range updates {
		if tenantUpdatableFields[key] {
			filtered[key] = value
		}
	}

	newStatus, statusChanging := filtered["status"].(string)
	if statusChanging && newStatus != tenant.Status {
		if !models.IsValidTenantStatus(newStatus) || !models.CanTenantTransition(tenant.Status, newStatus) {
			return nil, ErrTenantBadTransition
		}
	} else {
		statusChanging = false
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if len(filtered) > 0 {
			if err := tx.Model(&models.Tenant{}).Where("id = ?", id).Updates(filtered).Error; err != nil {
				return err
			}
		}

		// active转出时物业侧随之释放
		if statusChanging && tenant.Status == models.TenantStatusActive {
			if err := releaseProperty(tx, tenant.PropertyID, tenant.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTenantByID(id)
}

// 5. MoveOut 租户退租：状态置为past，清理物业租约快照，重算指标，单事务完成
func (s *TenantService) MoveOut(id uint) (*models.Tenant, error) {
	tenant, err := s.GetTenantByID(id)
	if err != nil {
		return nil, err
	}

	if tenant.Status != models.TenantStatusActive {
		return nil, ErrTenantAlreadyMovedOut
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.Tenant{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":        models.TenantStatusPast,
			"move_out_date": now,
		}).Error; err != nil {
			return err
		}

		return releaseProperty(tx, tenant.PropertyID, tenant.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTenantByID(id)
}

// 6. GetTenantDocuments 获取租户关联的文档
func (s *TenantService) GetTenantDocuments(id uint) ([]models.Document, error) {
	if _, err := s.GetTenantByID(id); err != nil {
		return nil, err
	}

	var documents []models.Document
	if err := s.DB.Where("tenant_id = ?", id).Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// releaseProperty 清空物业租约快照并置为available，随后重算指标。
// 仅当快照仍指向该租户时才清理，避免误清后续租约。
func releaseProperty(tx *gorm.DB, propertyID, tenantID uint) error {
	var property models.Property
	if err := tx.First(&property, propertyID).Error; err != nil {
		return err
	}

	if property.Lease.TenantID == nil || *property.Lease.TenantID != tenantID {
		return nil
	}

	if err := tx.Model(&property).Updates(map[string]interface{}{
		"status":           models.PropertyStatusAvailable,
		"lease_tenant_id":  nil,
		"lease_start_date": nil,
		"lease_end_date":   nil,
		"lease_rent":       0,
		"lease_terms":      "",
	}).Error; err != nil {
		return err
	}

	return RecalculatePropertyMetrics(tx, propertyID)
}
