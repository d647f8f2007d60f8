package models

import "time"

// 支付类型
const (
	PaymentTypeRent    = "rent"
	PaymentTypeDeposit = "deposit"
	PaymentTypeFee     = "fee"
	PaymentTypeUtility = "utility"
	PaymentTypeOther   = "other"
)

// 支付方式
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCheck    = "check"
	PaymentMethodCard     = "card"
	PaymentMethodACH      = "ach"
	PaymentMethodTransfer = "transfer"
)

// RecurringConfig 周期性支付配置
type RecurringConfig struct {
	IsRecurring bool       `gorm:"default:false" json:"is_recurring"`
	Frequency   string     `gorm:"type:varchar(20)" json:"frequency"` // monthly, quarterly, yearly
	NextDue     *time.Time `json:"next_due,omitempty"`
}

// Payment 表示一笔支付记录
type Payment struct {
	BaseModel
	PaymentID  string `gorm:"type:varchar(40);uniqueIndex;not null" json:"payment_id"` // 对外展示的支付编号，如"PAY-xxxxxxxx"
	PropertyID uint   `gorm:"not null;index" json:"property_id"`
	TenantID   uint   `gorm:"not null;index" json:"tenant_id"`

	Type   string  `gorm:"type:varchar(20);not null" json:"type"`            // rent, deposit, fee, utility, other
	Status string  `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, paid, partial, late, failed, refunded
	Method string  `gorm:"type:varchar(20)" json:"method"`                   // cash, check, card, ach, transfer
	Amount float64 `gorm:"not null" json:"amount"`

	DueDate       time.Time  `json:"due_date"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	TransactionID string     `gorm:"type:varchar(100)" json:"transaction_id"`

	InvoiceNumber string `gorm:"type:varchar(50)" json:"invoice_number"`
	ReceiptURL    string `gorm:"type:varchar(255)" json:"receipt_url"`

	Recurring RecurringConfig `gorm:"embedded;embeddedPrefix:recurring_" json:"recurring"`

	CreatedByID uint  `json:"created_by_id"`
	UpdatedByID *uint `json:"updated_by_id,omitempty"`

	// 关联关系
	Property  *Property         `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenant    *Tenant           `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Reminders []PaymentReminder `gorm:"foreignKey:PaymentID" json:"reminders,omitempty"`
	Disputes  []PaymentDispute  `gorm:"foreignKey:PaymentID" json:"disputes,omitempty"`
}

// PaymentReminder 支付提醒记录，只追加
type PaymentReminder struct {
	BaseModel
	PaymentID uint      `gorm:"not null;index" json:"payment_id"`
	SentAt    time.Time `json:"sent_at"`
	Channel   string    `gorm:"type:varchar(20)" json:"channel"` // email, sms
	Message   string    `gorm:"type:text" json:"message"`
}

// PaymentDispute 支付争议记录，只追加
type PaymentDispute struct {
	BaseModel
	PaymentID  uint       `gorm:"not null;index" json:"payment_id"`
	Reason     string     `gorm:"type:text" json:"reason"`
	Status     string     `gorm:"type:varchar(20);default:'open'" json:"status"` // open, resolved, rejected
	RaisedByID uint       `json:"raised_by_id"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	Resolution string     `gorm:"type:text" json:"resolution"`
}

// IsValidPaymentType 判断是否为合法的支付类型
func IsValidPaymentType(t string) bool {
	switch t {
	case PaymentTypeRent, PaymentTypeDeposit, PaymentTypeFee, PaymentTypeUtility, PaymentTypeOther:
		return true
	}
	return false
}

// IsValidPaymentMethod 判断是否为合法的支付方式
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodCard, PaymentMethodACH, PaymentMethodTransfer:
		return true
	}
	return false
}
