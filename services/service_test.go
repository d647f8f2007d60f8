package services

import (
	"testing"
	"time"

	"propman-http-service/config"
	"propman-http-service/models"
	"propman-http-service/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建内存数据库并迁移全部模型
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Tenant{},
		&models.TenantReference{},
		&models.TenantVehicle{},
		&models.TenantPet{},
		&models.PaymentHistoryEntry{},
		&models.MaintenanceTicket{},
		&models.TimelineEntry{},
		&models.TicketNote{},
		&models.Payment{},
		&models.PaymentReminder{},
		&models.PaymentDispute{},
		&models.Document{},
		&models.DocumentVersion{},
		&models.DocumentAccess{},
		&models.DocumentSignature{},
		&models.DocumentAudit{},
	)
	require.NoError(t, err)
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:      "test-secret",
		AnalyticsCacheTTL: 60,
	}
}

// createTestUser 插入一个用户并返回
func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "测试",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestProperty 插入一个物业并返回
func createTestProperty(t *testing.T, db *gorm.DB, ownerID uint) *models.Property {
	svc := NewPropertyService(db, newTestConfig())
	property := &models.Property{
		Name:    "阳光公寓3栋502",
		Type:    models.PropertyTypeApartment,
		OwnerID: ownerID,
		Financial: models.PropertyFinancial{
			MonthlyRent: 3200,
		},
	}
	require.NoError(t, svc.CreateProperty(property))
	return property
}

// createTestTenant 创建一条激活的租赁记录并返回
func createTestTenant(t *testing.T, db *gorm.DB, userID, propertyID uint) *models.Tenant {
	svc := NewTenantService(db, newTestConfig())
	tenant := &models.Tenant{
		UserID:     userID,
		PropertyID: propertyID,
		LeaseStart: time.Now(),
		LeaseEnd:   time.Now().AddDate(1, 0, 0),
		RentAmount: 3200,
	}
	require.NoError(t, svc.CreateTenant(tenant))
	return tenant
}
