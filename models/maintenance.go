package models

import "time"

// 工单类别
const (
	MaintenanceCategoryPlumbing   = "plumbing"
	MaintenanceCategoryElectrical = "electrical"
	MaintenanceCategoryHVAC       = "hvac"
	MaintenanceCategoryAppliance  = "appliance"
	MaintenanceCategoryStructural = "structural"
	MaintenanceCategoryOther      = "other"
)

// 工单优先级
const (
	MaintenancePriorityLow       = "low"
	MaintenancePriorityMedium    = "medium"
	MaintenancePriorityHigh      = "high"
	MaintenancePriorityEmergency = "emergency"
)

// MaintenanceRecurrence 周期性工单配置
type MaintenanceRecurrence struct {
	IsRecurring bool       `gorm:"default:false" json:"is_recurring"`
	Frequency   string     `gorm:"type:varchar(20)" json:"frequency"` // weekly, monthly, quarterly, yearly
	NextDue     *time.Time `json:"next_due,omitempty"`
}

// MaintenanceSurvey 完工满意度调查
type MaintenanceSurvey struct {
	Rating      int        `json:"rating"` // 1-5
	Comment     string     `gorm:"type:text" json:"comment"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// MaintenanceTicket 表示维修工单
type MaintenanceTicket struct {
	BaseModel
	TicketID     string `gorm:"type:varchar(40);uniqueIndex;not null" json:"ticket_id"` // 对外展示的工单编号，如"TKT-xxxxxxxx"
	PropertyID   uint   `gorm:"not null;index" json:"property_id"`
	TenantID     *uint  `gorm:"index" json:"tenant_id,omitempty"`
	ReportedByID uint   `gorm:"not null" json:"reported_by_id"`
	AssignedToID *uint  `json:"assigned_to_id,omitempty"`

	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(20);not null" json:"category"`         // plumbing, electrical, hvac, appliance, structural, other
	Priority    string `gorm:"type:varchar(20);default:'medium'" json:"priority"` // low, medium, high, emergency
	Status      string `gorm:"type:varchar(20);default:'pending'" json:"status"`  // pending, in-progress, completed, cancelled, on-hold

	EstimatedCost float64    `json:"estimated_cost"`
	ActualCost    float64    `json:"actual_cost"`
	Materials     string     `gorm:"type:text" json:"materials"` // 材料清单说明
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`

	Recurrence MaintenanceRecurrence `gorm:"embedded;embeddedPrefix:recurrence_" json:"recurrence"`
	Survey     MaintenanceSurvey     `gorm:"embedded;embeddedPrefix:survey_" json:"survey"`

	// 关联关系
	Property   *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	ReportedBy *User           `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
	AssignedTo *User           `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Timeline   []TimelineEntry `gorm:"foreignKey:TicketID" json:"timeline,omitempty"`
	Notes      []TicketNote    `gorm:"foreignKey:TicketID" json:"notes,omitempty"`
}

// TimelineEntry 工单状态变更日志，只追加
type TimelineEntry struct {
	BaseModel
	TicketID    uint   `gorm:"not null;index" json:"ticket_id"`
	Status      string `gorm:"type:varchar(20);not null" json:"status"`
	Comment     string `gorm:"type:text" json:"comment"`
	ChangedByID uint   `json:"changed_by_id"`
}

// TicketNote 工单备注，只追加
type TicketNote struct {
	BaseModel
	TicketID    uint   `gorm:"not null;index" json:"ticket_id"`
	Content     string `gorm:"type:text;not null" json:"content"`
	CreatedByID uint   `json:"created_by_id"`
}

// IsValidMaintenanceCategory 判断是否为合法的工单类别
func IsValidMaintenanceCategory(category string) bool {
	switch category {
	case MaintenanceCategoryPlumbing, MaintenanceCategoryElectrical, MaintenanceCategoryHVAC,
		MaintenanceCategoryAppliance, MaintenanceCategoryStructural, MaintenanceCategoryOther:
		return true
	}
	return false
}

// IsValidMaintenancePriority 判断是否为合法的工单优先级
func IsValidMaintenancePriority(priority string) bool {
	switch priority {
	case MaintenancePriorityLow, MaintenancePriorityMedium, MaintenancePriorityHigh, MaintenancePriorityEmergency:
		return true
	}
	return false
}
