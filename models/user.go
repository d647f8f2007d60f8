package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// 用户角色
const (
	RoleAdmin       = "admin"
	RoleManager     = "manager"
	RoleTenant      = "tenant"
	RoleMaintenance = "maintenance"
	RoleOwner       = "owner"
)

// User represents a platform account
type User struct {
	BaseModel
	Email     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	FirstName string     `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName  string     `gorm:"type:varchar(50)" json:"last_name"`
	Phone     string     `gorm:"type:varchar(20)" json:"phone"`
	Role      string     `gorm:"type:varchar(20);not null;default:'tenant'" json:"role"` // admin, manager, tenant, maintenance, owner
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	// 关联关系 - 用户拥有/负责的物业列表
	Properties []Property `gorm:"many2many:user_properties;" json:"properties,omitempty"`
}

// IsValidRole 判断是否为合法的角色值
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleTenant, RoleMaintenance, RoleOwner:
		return true
	}
	return false
}

// BeforeSave 是一个GORM钩子，在创建和更新前运行。
// 密码哈希由写入方负责，钩子只做邮箱归一化，
// 保证大小写不敏感的唯一性。
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
