package services

import (
	"testing"
	"time"

	"propman-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantService_CreateTenant(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	renter := createTestUser(t, db, "renter@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)

	tenant := createTestTenant(t, db, renter.ID, property.ID)
	assert.Equal(t, models.TenantStatusActive, tenant.Status)
	assert.NotNil(t, tenant.MoveInDate)

	// 物业随租约置为occupied，快照指向租户记录
	var updated models.Property
	require.NoError(t, db.First(&updated, property.ID).Error)
	assert.Equal(t, models.PropertyStatusOccupied, updated.Status)
	require.NotNil(t, updated.Lease.TenantID)
	assert.Equal(t, tenant.ID, *updated.Lease.TenantID)
	assert.Equal(t, tenant.RentAmount, updated.Lease.Rent)
	assert.Equal(t, 100.0, updated.Metrics.OccupancyRate)
}

func TestTenantService_CreateTenantRejectsSecondActive(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	first := createTestUser(t, db, "first@example.com", models.RoleTenant)
	second := createTestUser(t, db, "second@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)

	createTestTenant(t, db, first.ID, property.ID)

	svc := NewTenantService(db, newTestConfig())
	duplicate := &models.Tenant{
		UserID:     second.ID,
		PropertyID: property.ID,
		LeaseStart: time.Now(),
		LeaseEnd:   time.Now().AddDate(1, 0, 0),
		RentAmount: 3000,
	}
	err := svc.CreateTenant(duplicate)
	assert.ErrorIs(t, err, ErrActiveTenantExists)
}

func TestTenantService_MoveOutReleasesProperty(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	first := createTestUser(t, db, "first@example.com", models.RoleTenant)
	second := createTestUser(t, db, "second@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)
	tenant := createTestTenant(t, db, first.ID, property.ID)

	svc := NewTenantService(db, newTestConfig())
	movedOut, err := svc.MoveOut(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusPast, movedOut.Status)
	assert.NotNil(t, movedOut.MoveOutDate)

	// 物业释放后可再开新租约
	var released models.Property
	require.NoError(t, db.First(&released, property.ID).Error)
	assert.Equal(t, models.PropertyStatusAvailable, released.Status)
	assert.Nil(t, released.Lease.TenantID)
	assert.Equal(t, 0.0, released.Metrics.OccupancyRate)

	createTestTenant(t, db, second.ID, property.ID)

	// 已退租的记录不能重复退租
	_, err = svc.MoveOut(tenant.ID)
	assert.ErrorIs(t, err, ErrTenantAlreadyMovedOut)
}

func TestTenantService_UpdateTenantStatusMachine(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	renter := createTestUser(t, db, "renter@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)
	tenant := createTestTenant(t, db, renter.ID, property.ID)

	svc := NewTenantService(db, newTestConfig())

	// past是终态，不能从past回到active
	_, err := svc.MoveOut(tenant.ID)
	require.NoError(t, err)
	_, err = svc.UpdateTenant(tenant.ID, map[string]interface{}{"status": models.TenantStatusActive})
	assert.ErrorIs(t, err, ErrTenantBadTransition)
}

func TestTenantService_UpdateTenantEvictionReleasesProperty(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	renter := createTestUser(t, db, "renter@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)
	tenant := createTestTenant(t, db, renter.ID, property.ID)

	svc := NewTenantService(db, newTestConfig())
	evicted, err := svc.UpdateTenant(tenant.ID, map[string]interface{}{"status": models.TenantStatusEvicted})
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusEvicted, evicted.Status)

	var released models.Property
	require.NoError(t, db.First(&released, property.ID).Error)
	assert.Equal(t, models.PropertyStatusAvailable, released.Status)
	assert.Nil(t, released.Lease.TenantID)
}

func TestTenantService_GetTenantDocuments(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	renter := createTestUser(t, db, "renter@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)
	tenant := createTestTenant(t, db, renter.ID, property.ID)

	docSvc := NewDocumentService(db, newTestConfig())
	doc := &models.Document{
		Name:         "租赁合同",
		Type:         models.DocumentTypeLease,
		TenantID:     &tenant.ID,
		UploadedByID: owner.ID,
		FileURL:      "/uploads/lease.pdf",
	}
	require.NoError(t, docSvc.CreateDocument(doc))

	svc := NewTenantService(db, newTestConfig())
	documents, err := svc.GetTenantDocuments(tenant.ID)
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, doc.DocumentID, documents[0].DocumentID)
}
