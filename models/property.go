package models

import "time"

// 物业类型
const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeCondo      = "condo"
	PropertyTypeTownhouse  = "townhouse"
	PropertyTypeCommercial = "commercial"
)

// PropertyAddress 物业地址及坐标
type PropertyAddress struct {
	Street    string  `gorm:"type:varchar(200)" json:"street"`
	City      string  `gorm:"type:varchar(100)" json:"city"`
	State     string  `gorm:"type:varchar(50)" json:"state"`
	ZipCode   string  `gorm:"type:varchar(20)" json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PropertyDetails 物业结构信息
type PropertyDetails struct {
	Bedrooms   int `json:"bedrooms"`
	Bathrooms  int `json:"bathrooms"`
	SquareFeet int `json:"square_feet"`
	YearBuilt  int `json:"year_built"`
}

// PropertyFinancial 物业财务信息
type PropertyFinancial struct {
	MonthlyRent       float64 `json:"monthly_rent"`
	SecurityDeposit   float64 `json:"security_deposit"`
	UtilitiesIncluded bool    `json:"utilities_included"`
	PetsAllowed       bool    `json:"pets_allowed"`
}

// PropertyLease 当前租约快照，与Tenant记录冗余存储
type PropertyLease struct {
	TenantID  *uint      `json:"tenant_id,omitempty"` // 当前租户记录ID
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Rent      float64    `json:"rent"`
	Terms     string     `gorm:"type:text" json:"terms"`
}

// MaintenanceSchedule 例行维护计划
type MaintenanceSchedule struct {
	LastInspection *time.Time `json:"last_inspection,omitempty"`
	NextInspection *time.Time `json:"next_inspection,omitempty"`
	Frequency      string     `gorm:"type:varchar(20)" json:"frequency"` // monthly, quarterly, yearly
}

// PropertyMetrics 运营指标，由相关事务内重算（非调用方提供）
type PropertyMetrics struct {
	OccupancyRate  float64    `json:"occupancy_rate"`
	TotalRevenue   float64    `json:"total_revenue"`
	TotalExpenses  float64    `json:"total_expenses"`
	NetIncome      float64    `json:"net_income"`
	LastCalculated *time.Time `json:"last_calculated,omitempty"`
}

// Property 表示物业信息
type Property struct {
	BaseModel
	PropertyID string `gorm:"type:varchar(40);uniqueIndex;not null" json:"property_id"` // 对外展示的物业编号，如"PROP-xxxxxxxx"
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Type       string `gorm:"type:varchar(20);not null" json:"type"`                       // apartment, house, condo, townhouse, commercial
	Status     string `gorm:"type:varchar(20);default:'available'" json:"status"`          // available, occupied, maintenance, unavailable
	OwnerID    uint   `gorm:"not null" json:"owner_id"`
	ManagerID  *uint  `json:"manager_id,omitempty"`

	Address   PropertyAddress     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Details   PropertyDetails     `gorm:"embedded;embeddedPrefix:detail_" json:"details"`
	Financial PropertyFinancial   `gorm:"embedded;embeddedPrefix:financial_" json:"financial"`
	Lease     PropertyLease       `gorm:"embedded;embeddedPrefix:lease_" json:"lease"`
	Schedule  MaintenanceSchedule `gorm:"embedded;embeddedPrefix:schedule_" json:"maintenance_schedule"`
	Metrics   PropertyMetrics     `gorm:"embedded;embeddedPrefix:metric_" json:"metrics"`

	// 关联关系
	Owner              *User               `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Manager            *User               `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	MaintenanceHistory []MaintenanceTicket `gorm:"foreignKey:PropertyID" json:"maintenance_history,omitempty"`
	Documents          []Document          `gorm:"foreignKey:PropertyID" json:"documents,omitempty"`
}

// IsValidPropertyType 判断是否为合法的物业类型
func IsValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeCondo, PropertyTypeTownhouse, PropertyTypeCommercial:
		return true
	}
	return false
}

// HasLease 判断物业当前是否有租约快照
func (p *Property) HasLease() bool {
	return p.Lease.TenantID != nil
}

// ClearLease 清空租约快照
func (p *Property) ClearLease() {
	p.Lease = PropertyLease{}
}
