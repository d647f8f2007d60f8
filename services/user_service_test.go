package services

import (
	"strings"
	"testing"

	"propman-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, newTestConfig())

	user := &models.User{
		Email:     "Zhang.San@Example.com",
		Password:  "secret123",
		FirstName: "三",
	}
	require.NoError(t, svc.Register(user))

	// 邮箱入库时转为小写，密码不以明文存储
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "zhang.san@example.com", stored.Email)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.Equal(t, models.RoleTenant, stored.Role)
	assert.True(t, stored.IsActive)
}

func TestUserService_RegisterLongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, newTestConfig())

	// 超过bcrypt哈希值长度的明文密码也必须被哈希
	long := strings.Repeat("pa55word", 8) // 64字符
	user := &models.User{Email: "long@example.com", Password: long}
	require.NoError(t, svc.Register(user))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotEqual(t, long, stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2"))

	_, err := svc.Authenticate("long@example.com", long)
	assert.NoError(t, err)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, newTestConfig())

	first := &models.User{Email: "dup@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(first))

	// 大小写不同也算重复
	second := &models.User{Email: "DUP@example.com", Password: "secret456"}
	err := svc.Register(second)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Authenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, newTestConfig())

	user := &models.User{Email: "login@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user))

	authed, err := svc.Authenticate("LOGIN@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.NotNil(t, authed.LastLogin)

	_, err = svc.Authenticate("login@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_AuthenticateInactive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, newTestConfig())

	user := &models.User{Email: "off@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user))
	require.NoError(t, svc.Deactivate(user.ID))

	// 密码正确但账户停用
	_, err := svc.Authenticate("off@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestUserService_UpdateProfileWhitelist(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, newTestConfig())

	user := &models.User{Email: "profile@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user))

	updated, err := svc.UpdateProfile(user.ID, map[string]interface{}{
		"first_name": "四",
		"phone":      "13812345678",
		"role":       models.RoleAdmin, // 白名单之外，必须被忽略
		"is_active":  false,
	})
	require.NoError(t, err)
	assert.Equal(t, "四", updated.FirstName)
	assert.Equal(t, "13812345678", updated.Phone)
	assert.Equal(t, models.RoleTenant, updated.Role)
	assert.True(t, updated.IsActive)
}

func TestUserService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, newTestConfig())

	user := &models.User{Email: "pwd@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user))

	err := svc.ChangePassword(user.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	require.NoError(t, svc.ChangePassword(user.ID, "secret123", "newsecret"))

	_, err = svc.Authenticate("pwd@example.com", "newsecret")
	assert.NoError(t, err)
	_, err = svc.Authenticate("pwd@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
