package services

import (
	"errors"

	"propman-http-service/config"
	"propman-http-service/models"
	"propman-http-service/utils"

	"gorm.io/gorm"
)

// 文档相关的业务错误
var (
	ErrDocumentNotFound = errors.New("文档不存在")
	ErrDocumentArchived = errors.New("文档已归档")
)

// DocumentFilter 文档列表过滤条件
type DocumentFilter struct {
	Type       string
	Category   string
	PropertyID uint
	TenantID   uint
	Archived   *bool
}

// InterfaceDocumentService 定义文档服务接口
type InterfaceDocumentService interface {
	GetAllDocuments(filter DocumentFilter, page, pageSize int) ([]models.Document, int64, error)
	GetDocumentByID(id uint) (*models.Document, error)
	CreateDocument(document *models.Document) error
	UpdateDocument(id uint, actorID uint, updates map[string]interface{}) (*models.Document, error)
	AddVersion(id uint, actorID uint, fileURL string, fileSize int64) (*models.Document, error)
	Archive(id uint, actorID uint) (*models.Document, error)
	DeleteDocument(id uint, actorID uint) error
	GrantAccess(id uint, userID uint, permission string) (*models.DocumentAccess, error)
	RevokeAccess(id uint, userID uint) error
}

// DocumentService 提供文档相关的服务
type DocumentService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDocumentService 创建一个新的文档服务
func NewDocumentService(db *gorm.DB, cfg *config.Config) InterfaceDocumentService {
	return &DocumentService{
		DB:     db,
		Config: cfg,
	}
}

// 文档更新允许修改的字段白名单
var documentUpdatableFields = map[string]bool{
	"name":     true,
	"type":     true,
	"category": true,
}

// 1. GetAllDocuments 获取文档列表，支持过滤与分页
func (s *DocumentService) GetAllDocuments(filter DocumentFilter, page, pageSize int) ([]models.Document, int64, error) {
	var documents []models.Document
	var total int64

	query := s.DB.Model(&models.Document{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.PropertyID > 0 {
		query = query.Where("property_id = ?", filter.PropertyID)
	}
	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Archived != nil {
		query = query.Where("is_archived = ?", *filter.Archived)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("UploadedBy").
		Limit(pageSize).Offset(offset).Find(&documents).Error; err != nil {
		return nil, 0, err
	}

	return documents, total, nil
}

// 2. GetDocumentByID 根据ID获取文档，附带版本、签名与审计日志
func (s *DocumentService) GetDocumentByID(id uint) (*models.Document, error) {
	var document models.Document
	err := s.DB.Preload("UploadedBy").Preload("PreviousVersions").
		Preload("AccessList").Preload("Signatures").
		Preload("Audit", func(db *gorm.DB) *gorm.DB {
			return db.Order("document_audits.created_at ASC")
		}).First(&document, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &document, nil
}

// 3. CreateDocument 创建文档：生成文档编号，写入uploaded审计条目，单事务完成
func (s *DocumentService) CreateDocument(document *models.Document) error {
	if !models.IsValidDocumentType(document.Type) {
		return errors.New("无效的文档类型")
	}
	if document.DocumentID == "" {
		document.DocumentID = utils.NewDocumentID()
	}
	if document.Version == 0 {
		document.Version = 1
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(document).Error; err != nil {
			return err
		}

		audit := models.DocumentAudit{
			DocumentID: document.ID,
			Action:     models.DocumentAuditUploaded,
			UserID:     document.UploadedByID,
		}
		return tx.Create(&audit).Error
	})
}

// 4. UpdateDocument 更新文档元数据，仅允许白名单字段，并追加updated审计条目
func (s *DocumentService) UpdateDocument(id uint, actorID uint, updates map[string]interface{}) (*models.Document, error) {
	document, err := s.GetDocumentByID(id)
	if err != nil {
		return nil, err
	}
	if document.IsArchived {
		return nil, ErrDocumentArchived
	}

	filtered := map[string]interface{}{}
	for key, value := range updates {
		if documentUpdatableFields[key] {
			filtered[key] = value
		}
	}

	if newType, ok := filtered["type"].(string); ok && !models.IsValidDocumentType(newType) {
		return nil, errors.New("无效的文档类型")
	}

	if len(filtered) == 0 {
		return document, nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).Where("id = ?", id).Updates(filtered).Error; err != nil {
			return err
		}

		audit := models.DocumentAudit{
			DocumentID: id,
			Action:     models.DocumentAuditUpdated,
			UserID:     actorID,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetDocumentByID(id)
}

// 5. AddVersion 上传新版本：旧版本入previousVersions，版本号加一，追加审计
func (s *DocumentService) AddVersion(id uint, actorID uint, fileURL string, fileSize int64) (*models.Document, error) {
	document, err := s.GetDocumentByID(id)
	if err != nil {
		return nil, err
	}
	if document.IsArchived {
		return nil, ErrDocumentArchived
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		previous := models.DocumentVersion{
			DocumentID: id,
			Version:    document.Version,
			FileURL:    document.FileURL,
			FileSize:   document.FileSize,
		}
		if err := tx.Create(&previous).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Document{}).Where("id = ?", id).Updates(map[string]interface{}{
			"version":   document.Version + 1,
			"file_url":  fileURL,
			"file_size": fileSize,
		}).Error; err != nil {
			return err
		}

		audit := models.DocumentAudit{
			DocumentID: id,
			Action:     models.DocumentAuditUpdated,
			UserID:     actorID,
			Detail:     "新版本上传",
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetDocumentByID(id)
}

// 6. Archive 归档文档并追加审计条目
func (s *DocumentService) Archive(id uint, actorID uint) (*models.Document, error) {
	document, err := s.GetDocumentByID(id)
	if err != nil {
		return nil, err
	}
	if document.IsArchived {
		return nil, ErrDocumentArchived
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).Where("id = ?", id).
			Update("is_archived", true).Error; err != nil {
			return err
		}

		audit := models.DocumentAudit{
			DocumentID: id,
			Action:     models.DocumentAuditArchived,
			UserID:     actorID,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetDocumentByID(id)
}

// 7. DeleteDocument 删除文档及其子记录
func (s *DocumentService) DeleteDocument(id uint, actorID uint) error {
	document, err := s.GetDocumentByID(id)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.DocumentVersion{},
			&models.DocumentAccess{},
			&models.DocumentSignature{},
			&models.DocumentAudit{},
		} {
			if err := tx.Where("document_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(document).Error
	})
}

// 8. GrantAccess 授予用户文档访问权限
func (s *DocumentService) GrantAccess(id uint, userID uint, permission string) (*models.DocumentAccess, error) {
	if _, err := s.GetDocumentByID(id); err != nil {
		return nil, err
	}
	if permission == "" {
		permission = "read"
	}

	// 已有授权则更新权限级别
	var access models.DocumentAccess
	err := s.DB.Where("document_id = ? AND user_id = ?", id, userID).First(&access).Error
	if err == nil {
		if err := s.DB.Model(&access).Update("permission", permission).Error; err != nil {
			return nil, err
		}
		return &access, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	access = models.DocumentAccess{
		DocumentID: id,
		UserID:     userID,
		Permission: permission,
	}
	if err := s.DB.Create(&access).Error; err != nil {
		return nil, err
	}
	return &access, nil
}

// 9. RevokeAccess 撤销用户文档访问权限
func (s *DocumentService) RevokeAccess(id uint, userID uint) error {
	if _, err := s.GetDocumentByID(id); err != nil {
		return err
	}

	return s.DB.Where("document_id = ? AND user_id = ?", id, userID).
		Delete(&models.DocumentAccess{}).Error
}
