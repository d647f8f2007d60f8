package services

import (
	"testing"

	"propman-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTicket(t *testing.T, svc InterfaceMaintenanceService, propertyID, reporterID uint) *models.MaintenanceTicket {
	ticket := &models.MaintenanceTicket{
		PropertyID:   propertyID,
		ReportedByID: reporterID,
		Title:        "厨房水槽漏水",
		Description:  "水槽下方持续滴水",
		Category:     models.MaintenanceCategoryPlumbing,
	}
	require.NoError(t, svc.CreateTicket(ticket))
	return ticket
}

func TestMaintenanceService_CreateTicket(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	ticket := createTestTicket(t, svc, property.ID, owner.ID)
	assert.Equal(t, models.MaintenanceStatusPending, ticket.Status)
	assert.Equal(t, models.MaintenancePriorityMedium, ticket.Priority)
	assert.NotEmpty(t, ticket.TicketID)

	// 创建即写入初始时间线
	loaded, err := svc.GetTicketByID(ticket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Timeline, 1)
	assert.Equal(t, models.MaintenanceStatusPending, loaded.Timeline[0].Status)
}

func TestMaintenanceService_CreateTicketValidation(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	err := svc.CreateTicket(&models.MaintenanceTicket{
		PropertyID:   property.ID,
		ReportedByID: owner.ID,
		Title:        "未知类别",
		Category:     "landscaping",
	})
	assert.Error(t, err)

	err = svc.CreateTicket(&models.MaintenanceTicket{
		PropertyID:   property.ID + 100,
		ReportedByID: owner.ID,
		Title:        "物业不存在",
		Category:     models.MaintenanceCategoryOther,
	})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestMaintenanceService_UpdateTicketTimeline(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	ticket := createTestTicket(t, svc, property.ID, owner.ID)

	// 状态变更追加一条时间线
	updated, err := svc.UpdateTicket(ticket.ID, owner.ID, map[string]interface{}{
		"status":         models.MaintenanceStatusInProgress,
		"status_comment": "已派单",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusInProgress, updated.Status)
	require.Len(t, updated.Timeline, 2)
	assert.Equal(t, "已派单", updated.Timeline[1].Comment)

	// 相同状态不追加时间线
	updated, err = svc.UpdateTicket(ticket.ID, owner.ID, map[string]interface{}{
		"status":   models.MaintenanceStatusInProgress,
		"priority": models.MaintenancePriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenancePriorityHigh, updated.Priority)
	assert.Len(t, updated.Timeline, 2)
}

func TestMaintenanceService_UpdateTicketBadTransition(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	ticket := createTestTicket(t, svc, property.ID, owner.ID)

	// pending不能直接completed
	_, err := svc.UpdateTicket(ticket.ID, owner.ID, map[string]interface{}{
		"status": models.MaintenanceStatusCompleted,
	})
	assert.ErrorIs(t, err, ErrTicketBadTransition)

	_, err = svc.UpdateTicket(ticket.ID, owner.ID, map[string]interface{}{
		"status": "archived",
	})
	assert.ErrorIs(t, err, ErrTicketBadTransition)
}

func TestMaintenanceService_UpdateTicketProtectedFields(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	ticket := createTestTicket(t, svc, property.ID, owner.ID)

	updated, err := svc.UpdateTicket(ticket.ID, owner.ID, map[string]interface{}{
		"ticket_id":      "MNT-FORGED",
		"reported_by_id": uint(999),
		"title":          "更新后的标题",
	})
	require.NoError(t, err)
	assert.Equal(t, ticket.TicketID, updated.TicketID)
	assert.Equal(t, owner.ID, updated.ReportedByID)
	assert.Equal(t, "更新后的标题", updated.Title)
}

func TestMaintenanceService_CompleteTicketUpdatesMetrics(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	ticket := createTestTicket(t, svc, property.ID, owner.ID)

	_, err := svc.UpdateTicket(ticket.ID, owner.ID, map[string]interface{}{
		"status": models.MaintenanceStatusInProgress,
	})
	require.NoError(t, err)

	completed, err := svc.UpdateTicket(ticket.ID, owner.ID, map[string]interface{}{
		"status":      models.MaintenanceStatusCompleted,
		"actual_cost": 480.0,
	})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedDate)

	// 完工成本计入物业支出
	var freshProperty models.Property
	require.NoError(t, db.First(&freshProperty, property.ID).Error)
	assert.Equal(t, 480.0, freshProperty.Metrics.TotalExpenses)
}

func TestMaintenanceService_AddNote(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	ticket := createTestTicket(t, svc, property.ID, owner.ID)

	note, err := svc.AddNote(ticket.ID, owner.ID, "已联系维修工")
	require.NoError(t, err)
	assert.Equal(t, "已联系维修工", note.Content)

	loaded, err := svc.GetTicketByID(ticket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Notes, 1)

	_, err = svc.AddNote(ticket.ID+100, owner.ID, "工单不存在")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestMaintenanceService_GetAnalyticsSummary(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewMaintenanceService(db, newTestConfig(), nil)

	first := createTestTicket(t, svc, property.ID, owner.ID)
	createTestTicket(t, svc, property.ID, owner.ID)

	_, err := svc.UpdateTicket(first.ID, owner.ID, map[string]interface{}{
		"status": models.MaintenanceStatusInProgress,
	})
	require.NoError(t, err)
	_, err = svc.UpdateTicket(first.ID, owner.ID, map[string]interface{}{
		"status": models.MaintenanceStatusCompleted,
	})
	require.NoError(t, err)

	summary, err := svc.GetAnalyticsSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, int64(1), summary.ByStatus[models.MaintenanceStatusPending])
	assert.Equal(t, int64(1), summary.ByStatus[models.MaintenanceStatusCompleted])
	assert.Equal(t, int64(2), summary.ByCategory[models.MaintenanceCategoryPlumbing])
	assert.GreaterOrEqual(t, summary.AvgCompletionHours, 0.0)
}
