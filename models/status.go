package models

// 租户状态
const (
	TenantStatusPending = "pending"
	TenantStatusActive  = "active"
	TenantStatusPast    = "past"
	TenantStatusEvicted = "evicted"
)

// 维修工单状态
const (
	MaintenanceStatusPending    = "pending"
	MaintenanceStatusInProgress = "in-progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
	MaintenanceStatusOnHold     = "on-hold"
)

// 支付状态
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusPartial  = "partial"
	PaymentStatusLate     = "late"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// 物业状态
const (
	PropertyStatusAvailable   = "available"
	PropertyStatusOccupied    = "occupied"
	PropertyStatusMaintenance = "maintenance"
	PropertyStatusUnavailable = "unavailable"
)

// 租户状态转换表
var tenantTransitions = map[string][]string{
	TenantStatusPending: {TenantStatusActive, TenantStatusPast, TenantStatusEvicted},
	TenantStatusActive:  {TenantStatusPast, TenantStatusEvicted},
	TenantStatusPast:    {},
	TenantStatusEvicted: {},
}

// 维修工单状态转换表
var maintenanceTransitions = map[string][]string{
	MaintenanceStatusPending:    {MaintenanceStatusInProgress, MaintenanceStatusCancelled, MaintenanceStatusOnHold},
	MaintenanceStatusInProgress: {MaintenanceStatusCompleted, MaintenanceStatusCancelled, MaintenanceStatusOnHold},
	MaintenanceStatusOnHold:     {MaintenanceStatusInProgress, MaintenanceStatusCancelled},
	MaintenanceStatusCompleted:  {},
	MaintenanceStatusCancelled:  {},
}

// 支付状态转换表
var paymentTransitions = map[string][]string{
	PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusPartial, PaymentStatusLate, PaymentStatusFailed},
	PaymentStatusPartial:  {PaymentStatusPaid, PaymentStatusLate, PaymentStatusFailed},
	PaymentStatusLate:     {PaymentStatusPaid, PaymentStatusPartial, PaymentStatusFailed},
	PaymentStatusFailed:   {PaymentStatusPending},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusRefunded: {},
}

func canTransition(table map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidTenantStatus 判断是否为合法的租户状态值
func IsValidTenantStatus(status string) bool {
	_, ok := tenantTransitions[status]
	return ok
}

// CanTenantTransition 判断租户状态是否允许从from转换到to
func CanTenantTransition(from, to string) bool {
	return canTransition(tenantTransitions, from, to)
}

// IsValidMaintenanceStatus 判断是否为合法的工单状态值
func IsValidMaintenanceStatus(status string) bool {
	_, ok := maintenanceTransitions[status]
	return ok
}

// CanMaintenanceTransition 判断工单状态是否允许从from转换到to
func CanMaintenanceTransition(from, to string) bool {
	return canTransition(maintenanceTransitions, from, to)
}

// IsValidPaymentStatus 判断是否为合法的支付状态值
func IsValidPaymentStatus(status string) bool {
	_, ok := paymentTransitions[status]
	return ok
}

// CanPaymentTransition 判断支付状态是否允许从from转换到to
func CanPaymentTransition(from, to string) bool {
	return canTransition(paymentTransitions, from, to)
}

// IsValidPropertyStatus 判断是否为合法的物业状态值
func IsValidPropertyStatus(status string) bool {
	switch status {
	case PropertyStatusAvailable, PropertyStatusOccupied, PropertyStatusMaintenance, PropertyStatusUnavailable:
		return true
	}
	return false
}
