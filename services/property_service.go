package services

import (
	"errors"
	"math"
	"time"

	"propman-http-service/config"
	"propman-http-service/models"
	"propman-http-service/utils"

	"gorm.io/gorm"
)

// 物业相关的业务错误
var (
	ErrPropertyNotFound  = errors.New("物业不存在")
	ErrPropertyNotOwned  = errors.New("无权操作该物业")
	ErrPropertyNotLeased = errors.New("物业没有生效的租约，不能标记为已出租")
)

// PropertyFilter 物业列表过滤条件
type PropertyFilter struct {
	Status       string
	Type         string
	City         string
	MinBedrooms  int
	MinBathrooms int
	MinPrice     float64
	MaxPrice     float64
}

// NearbyProperty 附近物业及其距离
type NearbyProperty struct {
	Property models.Property `json:"property"`
	Distance float64         `json:"distance_km"`
}

// InterfacePropertyService 定义物业服务接口
type InterfacePropertyService interface {
	GetAllProperties(filter PropertyFilter, page, pageSize int) ([]models.Property, int64, error)
	GetPropertyByID(id uint) (*models.Property, error)
	CreateProperty(property *models.Property) error
	UpdateProperty(id uint, actorID uint, actorRole string, updates map[string]interface{}) (*models.Property, error)
	DeleteProperty(id uint, actorID uint, actorRole string) error
	GetNearbyProperties(id uint, limit int) ([]NearbyProperty, error)
}

// PropertyService 提供物业相关的服务
type PropertyService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPropertyService 创建一个新的物业服务
func NewPropertyService(db *gorm.DB, cfg *config.Config) InterfacePropertyService {
	return &PropertyService{
		DB:     db,
		Config: cfg,
	}
}

// 物业更新允许修改的字段白名单，owner_id与property_id等受保护字段不可改
var propertyUpdatableFields = map[string]bool{
	"name":                         true,
	"type":                         true,
	"status":                       true,
	"manager_id":                   true,
	"address_street":               true,
	"address_city":                 true,
	"address_state":                true,
	"address_zip_code":             true,
	"address_latitude":             true,
	"address_longitude":            true,
	"detail_bedrooms":              true,
	"detail_bathrooms":             true,
	"detail_square_feet":           true,
	"detail_year_built":            true,
	"financial_monthly_rent":       true,
	"financial_security_deposit":   true,
	"financial_utilities_included": true,
	"financial_pets_allowed":       true,
	"schedule_last_inspection":     true,
	"schedule_next_inspection":     true,
	"schedule_frequency":           true,
}

// 1. GetAllProperties 获取物业列表，支持过滤与分页
func (s *PropertyService) GetAllProperties(filter PropertyFilter, page, pageSize int) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	query := s.DB.Model(&models.Property{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.City != "" {
		query = query.Where("address_city LIKE ?", "%"+filter.City+"%")
	}
	if filter.MinBedrooms > 0 {
		query = query.Where("detail_bedrooms >= ?", filter.MinBedrooms)
	}
	if filter.MinBathrooms > 0 {
		query = query.Where("detail_bathrooms >= ?", filter.MinBathrooms)
	}
	if filter.MinPrice > 0 {
		query = query.Where("financial_monthly_rent >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("financial_monthly_rent <= ?", filter.MaxPrice)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("Owner").Preload("Manager").
		Limit(pageSize).Offset(offset).Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// 2. GetPropertyByID 根据ID获取物业
func (s *PropertyService) GetPropertyByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.DB.Preload("Owner").Preload("Manager").First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

// 3. CreateProperty 创建新物业
func (s *PropertyService) CreateProperty(property *models.Property) error {
	if !models.IsValidPropertyType(property.Type) {
		return errors.New("无效的物业类型")
	}
	if property.PropertyID == "" {
		property.PropertyID = utils.NewPropertyID()
	}
	if property.Status == "" {
		property.Status = models.PropertyStatusAvailable
	}

	return s.DB.Create(property).Error
}

// 4. UpdateProperty 更新物业信息，非管理员只能操作自己拥有的物业
func (s *PropertyService) UpdateProperty(id uint, actorID uint, actorRole string, updates map[string]interface{}) (*models.Property, error) {
	property, err := s.GetPropertyByID(id)
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleAdmin && property.OwnerID != actorID {
		return nil, ErrPropertyNotOwned
	}

	// 白名单过滤，受保护字段（owner_id、property_id、lease_*、metric_*）直接忽略
	filtered := map[string]interface{}{}
	for key, value := range updates {
		if propertyUpdatableFields[key] {
			filtered[key] = value
		}
	}

	if newType, ok := filtered["type"].(string); ok && !models.IsValidPropertyType(newType) {
		return nil, errors.New("无效的物业类型")
	}

	if newStatus, ok := filtered["status"].(string); ok {
		if !models.IsValidPropertyStatus(newStatus) {
			return nil, errors.New("无效的物业状态")
		}
		// occupied状态必须有租约快照支撑，租约由租户创建/退租流程维护
		if newStatus == models.PropertyStatusOccupied && !property.HasLease() {
			return nil, ErrPropertyNotLeased
		}
	}

	if len(filtered) > 0 {
		if err := s.DB.Model(property).Updates(filtered).Error; err != nil {
			return nil, err
		}
	}

	return s.GetPropertyByID(id)
}

// 5. DeleteProperty 删除物业
func (s *PropertyService) DeleteProperty(id uint, actorID uint, actorRole string) error {
	property, err := s.GetPropertyByID(id)
	if err != nil {
		return err
	}

	if actorRole != models.RoleAdmin && property.OwnerID != actorID {
		return ErrPropertyNotOwned
	}

	return s.DB.Delete(property).Error
}

// 6. GetNearbyProperties 按球面距离查找附近物业
func (s *PropertyService) GetNearbyProperties(id uint, limit int) ([]NearbyProperty, error) {
	origin, err := s.GetPropertyByID(id)
	if err != nil {
		return nil, err
	}

	var others []models.Property
	if err := s.DB.Where("id != ?", id).Find(&others).Error; err != nil {
		return nil, err
	}

	nearby := make([]NearbyProperty, 0, len(others))
	for _, p := range others {
		d := haversineKm(origin.Address.Latitude, origin.Address.Longitude,
			p.Address.Latitude, p.Address.Longitude)
		nearby = append(nearby, NearbyProperty{Property: p, Distance: d})
	}

	// 按距离从近到远排序
	for i := 1; i < len(nearby); i++ {
		for j := i; j > 0 && nearby[j].Distance < nearby[j-1].Distance; j-- {
			nearby[j], nearby[j-1] = nearby[j-1], nearby[j]
		}
	}

	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

// haversineKm 计算两个坐标之间的球面距离（公里）
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// RecalculatePropertyMetrics 在事务内重算物业运营指标。
// 出租率以当前租约快照判定，收入取已支付金额合计，支出取已完工工单实际费用合计。
func RecalculatePropertyMetrics(tx *gorm.DB, propertyID uint) error {
	var property models.Property
	if err := tx.First(&property, propertyID).Error; err != nil {
		return err
	}

	var revenue float64
	if err := tx.Model(&models.Payment{}).
		Where("property_id = ? AND status = ?", propertyID, models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue).Error; err != nil {
		return err
	}

	var expenses float64
	if err := tx.Model(&models.MaintenanceTicket{}).
		Where("property_id = ? AND status = ?", propertyID, models.MaintenanceStatusCompleted).
		Select("COALESCE(SUM(actual_cost), 0)").Scan(&expenses).Error; err != nil {
		return err
	}

	occupancy := 0.0
	if property.HasLease() {
		occupancy = 100.0
	}

	now := time.Now()
	return tx.Model(&property).Updates(map[string]interface{}{
		"metric_occupancy_rate":  occupancy,
		"metric_total_revenue":   revenue,
		"metric_total_expenses":  expenses,
		"metric_net_income":      revenue - expenses,
		"metric_last_calculated": now,
	}).Error
}
