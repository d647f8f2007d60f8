package models

import "time"

// EmergencyContact 紧急联系人
type EmergencyContact struct {
	Name         string `gorm:"type:varchar(100)" json:"name"`
	Phone        string `gorm:"type:varchar(20)" json:"phone"`
	Relationship string `gorm:"type:varchar(50)" json:"relationship"`
}

// Employment 租户工作信息
type Employment struct {
	Employer      string  `gorm:"type:varchar(100)" json:"employer"`
	Position      string  `gorm:"type:varchar(100)" json:"position"`
	MonthlyIncome float64 `json:"monthly_income"`
	WorkPhone     string  `gorm:"type:varchar(20)" json:"work_phone"`
}

// Tenant 表示一条租赁记录，关联用户与物业
type Tenant struct {
	BaseModel
	UserID     uint `gorm:"not null;index" json:"user_id"`
	PropertyID uint `gorm:"not null;index" json:"property_id"`

	LeaseStart    time.Time  `json:"lease_start"`
	LeaseEnd      time.Time  `json:"lease_end"`
	RentAmount    float64    `json:"rent_amount"`
	DepositAmount float64    `json:"deposit_amount"`
	DepositPaid   bool       `gorm:"default:false" json:"deposit_paid"`
	Status        string     `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, active, past, evicted
	MoveInDate    *time.Time `json:"move_in_date,omitempty"`
	MoveOutDate   *time.Time `json:"move_out_date,omitempty"`
	Balance       float64    `gorm:"default:0" json:"balance"` // 未结余额

	Emergency  EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_" json:"emergency_contact"`
	Employment Employment       `gorm:"embedded;embeddedPrefix:employment_" json:"employment"`

	// 关联关系
	User           *User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Property       *Property             `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	References     []TenantReference     `gorm:"foreignKey:TenantID" json:"references,omitempty"`
	Vehicles       []TenantVehicle       `gorm:"foreignKey:TenantID" json:"vehicles,omitempty"`
	Pets           []TenantPet           `gorm:"foreignKey:TenantID" json:"pets,omitempty"`
	PaymentHistory []PaymentHistoryEntry `gorm:"foreignKey:TenantID" json:"payment_history,omitempty"`
	Documents      []Document            `gorm:"foreignKey:TenantID" json:"documents,omitempty"`
}

// TenantReference 租户推荐人
type TenantReference struct {
	BaseModel
	TenantID     uint   `gorm:"not null;index" json:"tenant_id"`
	Name         string `gorm:"type:varchar(100)" json:"name"`
	Phone        string `gorm:"type:varchar(20)" json:"phone"`
	Relationship string `gorm:"type:varchar(50)" json:"relationship"`
}

// TenantVehicle 租户车辆
type TenantVehicle struct {
	BaseModel
	TenantID     uint   `gorm:"not null;index" json:"tenant_id"`
	Make         string `gorm:"type:varchar(50)" json:"make"`
	Model        string `gorm:"type:varchar(50)" json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `gorm:"type:varchar(20)" json:"license_plate"`
}

// TenantPet 租户宠物
type TenantPet struct {
	BaseModel
	TenantID uint    `gorm:"not null;index" json:"tenant_id"`
	Type     string  `gorm:"type:varchar(50)" json:"type"`
	Breed    string  `gorm:"type:varchar(50)" json:"breed"`
	Name     string  `gorm:"type:varchar(50)" json:"name"`
	Weight   float64 `json:"weight"`
}

// PaymentHistoryEntry 租户侧的付款流水，通过PaymentRef与Payment记录对应
type PaymentHistoryEntry struct {
	BaseModel
	TenantID   uint       `gorm:"not null;index" json:"tenant_id"`
	PaymentRef string     `gorm:"type:varchar(40);index;not null" json:"payment_ref"` // Payment.PaymentID
	Amount     float64    `json:"amount"`
	DueDate    time.Time  `json:"due_date"`
	PaidDate   *time.Time `json:"paid_date,omitempty"`
	Status     string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Method     string     `gorm:"type:varchar(20)" json:"method"`
}
