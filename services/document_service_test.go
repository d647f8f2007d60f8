package services

import (
	"testing"

	"propman-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDocument(t *testing.T, svc InterfaceDocumentService, propertyID, uploaderID uint) *models.Document {
	document := &models.Document{
		Name:         "租赁合同.pdf",
		Type:         models.DocumentTypeLease,
		PropertyID:   &propertyID,
		UploadedByID: uploaderID,
		FileURL:      "/uploads/lease-v1.pdf",
		FileSize:     2048,
	}
	require.NoError(t, svc.CreateDocument(document))
	return document
}

func TestDocumentService_CreateDocument(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewDocumentService(db, newTestConfig())

	document := createTestDocument(t, svc, property.ID, owner.ID)
	assert.NotEmpty(t, document.DocumentID)
	assert.Equal(t, 1, document.Version)

	// 创建即写入uploaded审计
	loaded, err := svc.GetDocumentByID(document.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Audit, 1)
	assert.Equal(t, models.DocumentAuditUploaded, loaded.Audit[0].Action)
	assert.Equal(t, owner.ID, loaded.Audit[0].UserID)
}

func TestDocumentService_CreateDocumentInvalidType(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewDocumentService(db, newTestConfig())

	err := svc.CreateDocument(&models.Document{
		Name:         "bad.pdf",
		Type:         "spreadsheet",
		PropertyID:   &property.ID,
		UploadedByID: owner.ID,
	})
	assert.Error(t, err)
}

func TestDocumentService_UpdateDocumentWhitelist(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewDocumentService(db, newTestConfig())

	document := createTestDocument(t, svc, property.ID, owner.ID)

	updated, err := svc.UpdateDocument(document.ID, owner.ID, map[string]interface{}{
		"name":        "续租合同.pdf",
		"document_id": "DOC-FORGED",
		"version":     99,
	})
	require.NoError(t, err)
	assert.Equal(t, "续租合同.pdf", updated.Name)
	assert.Equal(t, document.DocumentID, updated.DocumentID)
	assert.Equal(t, 1, updated.Version)
	require.Len(t, updated.Audit, 2)
	assert.Equal(t, models.DocumentAuditUpdated, updated.Audit[1].Action)
}

func TestDocumentService_AddVersion(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewDocumentService(db, newTestConfig())

	document := createTestDocument(t, svc, property.ID, owner.ID)

	updated, err := svc.AddVersion(document.ID, owner.ID, "/uploads/lease-v2.pdf", 4096)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "/uploads/lease-v2.pdf", updated.FileURL)
	assert.Equal(t, int64(4096), updated.FileSize)

	// 旧版本进入历史列表
	require.Len(t, updated.PreviousVersions, 1)
	assert.Equal(t, 1, updated.PreviousVersions[0].Version)
	assert.Equal(t, "/uploads/lease-v1.pdf", updated.PreviousVersions[0].FileURL)
}

func TestDocumentService_ArchiveLocksDocument(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	property := createTestProperty(t, db, owner.ID)
	svc := NewDocumentService(db, newTestConfig())

	document := createTestDocument(t, svc, property.ID, owner.ID)

	archived, err := svc.Archive(document.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	// 归档后元数据更新、版本上传、再次归档全部拒绝
	_, err = svc.UpdateDocument(document.ID, owner.ID, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrDocumentArchived)

	_, err = svc.AddVersion(document.ID, owner.ID, "/uploads/lease-v2.pdf", 1)
	assert.ErrorIs(t, err, ErrDocumentArchived)

	_, err = svc.Archive(document.ID, owner.ID)
	assert.ErrorIs(t, err, ErrDocumentArchived)
}

func TestDocumentService_AccessGrantAndRevoke(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	viewer := createTestUser(t, db, "viewer@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)
	svc := NewDocumentService(db, newTestConfig())

	document := createTestDocument(t, svc, property.ID, owner.ID)

	access, err := svc.GrantAccess(document.ID, viewer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "read", access.Permission)

	// 重复授权只提升权限，不新增记录
	access, err = svc.GrantAccess(document.ID, viewer.ID, "write")
	require.NoError(t, err)
	assert.Equal(t, "write", access.Permission)

	loaded, err := svc.GetDocumentByID(document.ID)
	require.NoError(t, err)
	require.Len(t, loaded.AccessList, 1)

	require.NoError(t, svc.RevokeAccess(document.ID, viewer.ID))
	loaded, err = svc.GetDocumentByID(document.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.AccessList)
}

func TestDocumentService_DeleteDocumentRemovesChildren(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	viewer := createTestUser(t, db, "viewer@example.com", models.RoleTenant)
	property := createTestProperty(t, db, owner.ID)
	svc := NewDocumentService(db, newTestConfig())

	document := createTestDocument(t, svc, property.ID, owner.ID)
	_, err := svc.AddVersion(document.ID, owner.ID, "/uploads/lease-v2.pdf", 4096)
	require.NoError(t, err)
	_, err = svc.GrantAccess(document.ID, viewer.ID, "read")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(document.ID, owner.ID))

	_, err = svc.GetDocumentByID(document.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	var versions int64
	require.NoError(t, db.Model(&models.DocumentVersion{}).Where("document_id = ?", document.ID).Count(&versions).Error)
	assert.Zero(t, versions)

	var audits int64
	require.NoError(t, db.Model(&models.DocumentAudit{}).Where("document_id = ?", document.ID).Count(&audits).Error)
	assert.Zero(t, audits)
}
