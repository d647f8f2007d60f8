package models

import "time"

// 文档类型
const (
	DocumentTypeLease     = "lease"
	DocumentTypeInvoice   = "invoice"
	DocumentTypeReceipt   = "receipt"
	DocumentTypeContract  = "contract"
	DocumentTypeInsurance = "insurance"
	DocumentTypeOther     = "other"
)

// 文档审计动作
const (
	DocumentAuditUploaded = "uploaded"
	DocumentAuditViewed   = "viewed"
	DocumentAuditUpdated  = "updated"
	DocumentAuditSigned   = "signed"
	DocumentAuditArchived = "archived"
	DocumentAuditDeleted  = "deleted"
)

// Document 表示一份上传的文档
type Document struct {
	BaseModel
	DocumentID   string `gorm:"type:varchar(40);uniqueIndex;not null" json:"document_id"` // 对外展示的文档编号，如"DOC-xxxxxxxx"
	Name         string `gorm:"type:varchar(200);not null" json:"name"`
	Type         string `gorm:"type:varchar(20);not null" json:"type"` // lease, invoice, receipt, contract, insurance, other
	Category     string `gorm:"type:varchar(50)" json:"category"`
	PropertyID   *uint  `gorm:"index" json:"property_id,omitempty"`
	TenantID     *uint  `gorm:"index" json:"tenant_id,omitempty"`
	UploadedByID uint   `gorm:"not null" json:"uploaded_by_id"`

	FileURL  string `gorm:"type:varchar(255);not null" json:"file_url"`
	FileSize int64  `json:"file_size"`
	MimeType string `gorm:"type:varchar(100)" json:"mime_type"`

	Version    int  `gorm:"default:1" json:"version"`
	IsArchived bool `gorm:"default:false" json:"is_archived"`

	// 关联关系
	Property         *Property           `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenant           *Tenant             `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	UploadedBy       *User               `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	PreviousVersions []DocumentVersion   `gorm:"foreignKey:DocumentID" json:"previous_versions,omitempty"`
	AccessList       []DocumentAccess    `gorm:"foreignKey:DocumentID" json:"access_list,omitempty"`
	Signatures       []DocumentSignature `gorm:"foreignKey:DocumentID" json:"signatures,omitempty"`
	Audit            []DocumentAudit     `gorm:"foreignKey:DocumentID" json:"audit,omitempty"`
}

// DocumentVersion 历史版本记录
type DocumentVersion struct {
	BaseModel
	DocumentID uint   `gorm:"not null;index" json:"document_id"`
	Version    int    `json:"version"`
	FileURL    string `gorm:"type:varchar(255)" json:"file_url"`
	FileSize   int64  `json:"file_size"`
}

// DocumentAccess 文档访问控制项
type DocumentAccess struct {
	BaseModel
	DocumentID  uint   `gorm:"not null;index" json:"document_id"`
	UserID      uint   `gorm:"not null" json:"user_id"`
	Permission  string `gorm:"type:varchar(20);default:'read'" json:"permission"` // read, write, sign
	AccessCount int    `gorm:"default:0" json:"access_count"`
}

// DocumentSignature 文档签名记录
type DocumentSignature struct {
	BaseModel
	DocumentID uint       `gorm:"not null;index" json:"document_id"`
	UserID     uint       `gorm:"not null" json:"user_id"`
	SignedAt   *time.Time `json:"signed_at,omitempty"`
	IPAddress  string     `gorm:"type:varchar(50)" json:"ip_address"`
}

// DocumentAudit 文档操作日志，只追加
type DocumentAudit struct {
	BaseModel
	DocumentID uint   `gorm:"not null;index" json:"document_id"`
	Action     string `gorm:"type:varchar(20);not null" json:"action"` // uploaded, viewed, updated, signed, archived, deleted
	UserID     uint   `json:"user_id"`
	Detail     string `gorm:"type:text" json:"detail"`
}

// IsValidDocumentType 判断是否为合法的文档类型
func IsValidDocumentType(t string) bool {
	switch t {
	case DocumentTypeLease, DocumentTypeInvoice, DocumentTypeReceipt, DocumentTypeContract, DocumentTypeInsurance, DocumentTypeOther:
		return true
	}
	return false
}
