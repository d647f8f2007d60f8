package services

import (
	"fmt"
	"testing"

	"propman-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPropertyAt(t *testing.T, svc InterfacePropertyService, ownerID uint, name string, lat, lng float64) *models.Property {
	property := &models.Property{
		Name:    name,
		Type:    models.PropertyTypeApartment,
		OwnerID: ownerID,
		Address: models.PropertyAddress{
			City:      "上海",
			Latitude:  lat,
			Longitude: lng,
		},
		Financial: models.PropertyFinancial{MonthlyRent: 3000},
	}
	require.NoError(t, svc.CreateProperty(property))
	return property
}

func TestPropertyService_CreateProperty(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	svc := NewPropertyService(db, newTestConfig())

	property := createPropertyAt(t, svc, owner.ID, "外滩一号", 31.23, 121.49)
	assert.NotEmpty(t, property.PropertyID)
	assert.Equal(t, models.PropertyStatusAvailable, property.Status)

	err := svc.CreateProperty(&models.Property{
		Name:    "无效类型",
		Type:    "castle",
		OwnerID: owner.ID,
	})
	assert.Error(t, err)
}

func TestPropertyService_GetAllPropertiesFilters(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	svc := NewPropertyService(db, newTestConfig())

	for i := 0; i < 3; i++ {
		property := &models.Property{
			Name:    fmt.Sprintf("静安公寓%d", i+1),
			Type:    models.PropertyTypeApartment,
			OwnerID: owner.ID,
			Address: models.PropertyAddress{City: "上海"},
			Details: models.PropertyDetails{Bedrooms: i + 1},
			Financial: models.PropertyFinancial{
				MonthlyRent: float64(2000 + i*1000),
			},
		}
		require.NoError(t, svc.CreateProperty(property))
	}
	house := &models.Property{
		Name:      "杭州独栋",
		Type:      models.PropertyTypeHouse,
		OwnerID:   owner.ID,
		Address:   models.PropertyAddress{City: "杭州"},
		Financial: models.PropertyFinancial{MonthlyRent: 8000},
	}
	require.NoError(t, svc.CreateProperty(house))

	cases := []struct {
		name   string
		filter PropertyFilter
		want   int64
	}{
		{"按类型", PropertyFilter{Type: models.PropertyTypeHouse}, 1},
		{"按城市模糊匹配", PropertyFilter{City: "上海"}, 3},
		{"按最低卧室数", PropertyFilter{MinBedrooms: 2}, 2},
		{"按租金区间", PropertyFilter{MinPrice: 2500, MaxPrice: 4500}, 2},
		{"无条件", PropertyFilter{}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, total, err := svc.GetAllProperties(tc.filter, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
		})
	}

	// 分页
	page1, total, err := svc.GetAllProperties(PropertyFilter{}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page1, 3)
	page2, _, err := svc.GetAllProperties(PropertyFilter{}, 2, 3)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestPropertyService_UpdatePropertyOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	stranger := createTestUser(t, db, "stranger@example.com", models.RoleOwner)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	svc := NewPropertyService(db, newTestConfig())

	property := createPropertyAt(t, svc, owner.ID, "外滩一号", 31.23, 121.49)

	// 非属主拒绝
	_, err := svc.UpdateProperty(property.ID, stranger.ID, models.RoleOwner, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrPropertyNotOwned)

	// 属主可改
	updated, err := svc.UpdateProperty(property.ID, owner.ID, models.RoleOwner, map[string]interface{}{"name": "外滩壹号"})
	require.NoError(t, err)
	assert.Equal(t, "外滩壹号", updated.Name)

	// 管理员不受属主限制
	updated, err = svc.UpdateProperty(property.ID, admin.ID, models.RoleAdmin, map[string]interface{}{"name": "外滩1号"})
	require.NoError(t, err)
	assert.Equal(t, "外滩1号", updated.Name)
}

func TestPropertyService_UpdatePropertyWhitelist(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	svc := NewPropertyService(db, newTestConfig())

	property := createPropertyAt(t, svc, owner.ID, "外滩一号", 31.23, 121.49)

	updated, err := svc.UpdateProperty(property.ID, owner.ID, models.RoleOwner, map[string]interface{}{
		"owner_id":             uint(999),
		"property_id":          "PROP-FORGED",
		"metric_total_revenue": 1000000.0,
		"detail_bedrooms":      3,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, updated.OwnerID)
	assert.Equal(t, property.PropertyID, updated.PropertyID)
	assert.Equal(t, 0.0, updated.Metrics.TotalRevenue)
	assert.Equal(t, 3, updated.Details.Bedrooms)

	_, err = svc.UpdateProperty(property.ID, owner.ID, models.RoleOwner, map[string]interface{}{"type": "castle"})
	assert.Error(t, err)
}

func TestPropertyService_UpdatePropertyStatusRequiresLease(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	renter := createTestUser(t, db, "renter@example.com", models.RoleTenant)
	svc := NewPropertyService(db, newTestConfig())

	property := createPropertyAt(t, svc, owner.ID, "外滩一号", 31.23, 121.49)

	// 无租约时不能手工标记为已出租
	_, err := svc.UpdateProperty(property.ID, owner.ID, models.RoleOwner, map[string]interface{}{
		"status": models.PropertyStatusOccupied,
	})
	assert.ErrorIs(t, err, ErrPropertyNotLeased)

	_, err = svc.UpdateProperty(property.ID, owner.ID, models.RoleOwner, map[string]interface{}{
		"status": "rented",
	})
	assert.Error(t, err)

	// 租约生效后允许
	createTestTenant(t, db, renter.ID, property.ID)
	updated, err := svc.UpdateProperty(property.ID, owner.ID, models.RoleOwner, map[string]interface{}{
		"status": models.PropertyStatusOccupied,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusOccupied, updated.Status)
}

func TestPropertyService_DeleteProperty(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	stranger := createTestUser(t, db, "stranger@example.com", models.RoleOwner)
	svc := NewPropertyService(db, newTestConfig())

	property := createPropertyAt(t, svc, owner.ID, "外滩一号", 31.23, 121.49)

	err := svc.DeleteProperty(property.ID, stranger.ID, models.RoleOwner)
	assert.ErrorIs(t, err, ErrPropertyNotOwned)

	require.NoError(t, svc.DeleteProperty(property.ID, owner.ID, models.RoleOwner))
	_, err = svc.GetPropertyByID(property.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyService_GetNearbyProperties(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleOwner)
	svc := NewPropertyService(db, newTestConfig())

	origin := createPropertyAt(t, svc, owner.ID, "人民广场", 31.2304, 121.4737)
	near := createPropertyAt(t, svc, owner.ID, "南京东路", 31.2353, 121.4800)
	mid := createPropertyAt(t, svc, owner.ID, "虹桥", 31.1979, 121.3263)
	far := createPropertyAt(t, svc, owner.ID, "北京西单", 39.9066, 116.3740)

	nearby, err := svc.GetNearbyProperties(origin.ID, 0)
	require.NoError(t, err)
	require.Len(t, nearby, 3)

	// 从近到远排序
	assert.Equal(t, near.ID, nearby[0].Property.ID)
	assert.Equal(t, mid.ID, nearby[1].Property.ID)
	assert.Equal(t, far.ID, nearby[2].Property.ID)
	assert.Less(t, nearby[0].Distance, nearby[1].Distance)
	assert.InDelta(t, 1065, nearby[2].Distance, 50)

	limited, err := svc.GetNearbyProperties(origin.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, near.ID, limited[0].Property.ID)

	_, err = svc.GetNearbyProperties(far.ID+100, 5)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}
