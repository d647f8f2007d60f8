package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTenantTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to active", TenantStatusPending, TenantStatusActive, true},
		{"active to past", TenantStatusActive, TenantStatusPast, true},
		{"active to evicted", TenantStatusActive, TenantStatusEvicted, true},
		{"past is terminal", TenantStatusPast, TenantStatusActive, false},
		{"evicted is terminal", TenantStatusEvicted, TenantStatusPending, false},
		{"same status is a no-op", TenantStatusActive, TenantStatusActive, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTenantTransition(tt.from, tt.to))
		})
	}
}

func TestCanMaintenanceTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to in-progress", MaintenanceStatusPending, MaintenanceStatusInProgress, true},
		{"pending to completed skips work", MaintenanceStatusPending, MaintenanceStatusCompleted, false},
		{"in-progress to completed", MaintenanceStatusInProgress, MaintenanceStatusCompleted, true},
		{"on-hold resumes", MaintenanceStatusOnHold, MaintenanceStatusInProgress, true},
		{"completed is terminal", MaintenanceStatusCompleted, MaintenanceStatusInProgress, false},
		{"cancelled is terminal", MaintenanceStatusCancelled, MaintenanceStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanMaintenanceTransition(tt.from, tt.to))
		})
	}
}

func TestCanPaymentTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to paid", PaymentStatusPending, PaymentStatusPaid, true},
		{"partial to paid", PaymentStatusPartial, PaymentStatusPaid, true},
		{"failed retries as pending", PaymentStatusFailed, PaymentStatusPending, true},
		{"paid only refunds", PaymentStatusPaid, PaymentStatusPending, false},
		{"paid to refunded", PaymentStatusPaid, PaymentStatusRefunded, true},
		{"refunded is terminal", PaymentStatusRefunded, PaymentStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanPaymentTransition(tt.from, tt.to))
		})
	}
}

func TestIsValidStatusValues(t *testing.T) {
	assert.True(t, IsValidTenantStatus(TenantStatusPending))
	assert.False(t, IsValidTenantStatus("unknown"))
	assert.True(t, IsValidMaintenanceStatus(MaintenanceStatusOnHold))
	assert.False(t, IsValidMaintenanceStatus("done"))
	assert.True(t, IsValidPaymentStatus(PaymentStatusLate))
	assert.False(t, IsValidPaymentStatus("settled"))
}
