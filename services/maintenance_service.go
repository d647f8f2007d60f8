package services

import (
	"errors"
	"time"

	"propman-http-service/config"
	"propman-http-service/models"
	"propman-http-service/utils"

	"gorm.io/gorm"
)

// 工单相关的业务错误
var (
	ErrTicketNotFound      = errors.New("工单不存在")
	ErrTicketBadTransition = errors.New("工单状态转换不合法")
)

// MaintenanceFilter 工单列表过滤条件
type MaintenanceFilter struct {
	Status     string
	Priority   string
	Category   string
	PropertyID uint
}

// MaintenanceSummary 工单分析汇总
type MaintenanceSummary struct {
	Total              int64            `json:"total"`
	ByStatus           map[string]int64 `json:"by_status"`
	ByPriority         map[string]int64 `json:"by_priority"`
	ByCategory         map[string]int64 `json:"by_category"`
	AvgCompletionHours float64          `json:"avg_completion_hours"`
}

// InterfaceMaintenanceService 定义维修工单服务接口
type InterfaceMaintenanceService interface {
	GetAllTickets(filter MaintenanceFilter, page, pageSize int) ([]models.MaintenanceTicket, int64, error)
	GetTicketByID(id uint) (*models.MaintenanceTicket, error)
	CreateTicket(ticket *models.MaintenanceTicket) error
	UpdateTicket(id uint, actorID uint, updates map[string]interface{}) (*models.MaintenanceTicket, error)
	AddNote(id uint, actorID uint, content string) (*models.TicketNote, error)
	GetAnalyticsSummary() (*MaintenanceSummary, error)
}

// MaintenanceService 提供维修工单相关的服务
type MaintenanceService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // 可为nil，此时每次请求都重算
}

// NewMaintenanceService 创建一个新的维修工单服务
func NewMaintenanceService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceMaintenanceService {
	return &MaintenanceService{
		DB:     db,
		Config: cfg,
		Redis:  redisService,
	}
}

// 工单更新允许修改的字段白名单。
// ticket_id、reported_by_id等受保护字段不在其中，调用方传入也会被忽略。
var ticketUpdatableFields = map[string]bool{
	"title":          true,
	"description":    true,
	"category":       true,
	"priority":       true,
	"status":         true,
	"assigned_to_id": true,
	"estimated_cost": true,
	"actual_cost":    true,
	"materials":      true,
	"scheduled_date": true,
}

// 1. GetAllTickets 获取工单列表，支持过滤与分页
func (s *MaintenanceService) GetAllTickets(filter MaintenanceFilter, page, pageSize int) ([]models.MaintenanceTicket, int64, error) {
	var tickets []models.MaintenanceTicket
	var total int64

	query := s.DB.Model(&models.MaintenanceTicket{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.PropertyID > 0 {
		query = query.Where("property_id = ?", filter.PropertyID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("Property").Preload("AssignedTo").
		Limit(pageSize).Offset(offset).Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

// 2. GetTicketByID 根据ID获取工单，附带时间线与备注
func (s *MaintenanceService) GetTicketByID(id uint) (*models.MaintenanceTicket, error) {
	var ticket models.MaintenanceTicket
	err := s.DB.Preload("Property").Preload("ReportedBy").Preload("AssignedTo").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("timeline_entries.created_at ASC")
		}).
		Preload("Notes").First(&ticket, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// 3. CreateTicket 创建工单：生成工单编号，写入初始pending时间线，单事务完成
func (s *MaintenanceService) CreateTicket(ticket *models.MaintenanceTicket) error {
	if !models.IsValidMaintenanceCategory(ticket.Category) {
		return errors.New("无效的工单类别")
	}
	if ticket.Priority == "" {
		ticket.Priority = models.MaintenancePriorityMedium
	}
	if !models.IsValidMaintenancePriority(ticket.Priority) {
		return errors.New("无效的工单优先级")
	}
	if ticket.TicketID == "" {
		ticket.TicketID = utils.NewTicketID()
	}
	ticket.Status = models.MaintenanceStatusPending

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// 物业必须存在
		var count int64
		if err := tx.Model(&models.Property{}).Where("id = ?", ticket.PropertyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPropertyNotFound
		}

		if err := tx.Create(ticket).Error; err != nil {
			return err
		}

		// 初始时间线条目
		entry := models.TimelineEntry{
			TicketID:    ticket.ID,
			Status:      models.MaintenanceStatusPending,
			Comment:     "工单已创建",
			ChangedByID: ticket.ReportedByID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		s.purgeSummaryCache()
		return nil
	})
}

// 4. UpdateTicket 更新工单。状态变更按转换表校验并追加唯一一条时间线；
// 状态未变化时不追加。completed时记录完工时间。
func (s *MaintenanceService) UpdateTicket(id uint, actorID uint, updates map[string]interface{}) (*models.MaintenanceTicket, error) {
	ticket, err := s.GetTicketByID(id)
	if err != nil {
		return nil, err
	}

	filtered := map[string]interface{}{}
	for key, value := range updates {
		if ticketUpdatableFields[key] {
			filtered[key] = value
		}
	}

	newStatus, statusChanging := filtered["status"].(string)
	if statusChanging && newStatus != ticket.Status {
		if !models.IsValidMaintenanceStatus(newStatus) {
			return nil, ErrTicketBadTransition
		}
		if !models.CanMaintenanceTransition(ticket.Status, newStatus) {
			return nil, ErrTicketBadTransition
		}
	} else {
		// 传入相同状态视为未变更，不追加时间线
		statusChanging = false
		delete(filtered, "status")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if statusChanging && newStatus == models.MaintenanceStatusCompleted {
			filtered["completed_date"] = time.Now()
		}

		if len(filtered) > 0 {
			if err := tx.Model(&models.MaintenanceTicket{}).Where("id = ?", id).Updates(filtered).Error; err != nil {
				return err
			}
		}

		if statusChanging {
			entry := models.TimelineEntry{
				TicketID:    id,
				Status:      newStatus,
				ChangedByID: actorID,
			}
			if comment, ok := updates["status_comment"].(string); ok {
				entry.Comment = comment
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			// 完工后需要重算物业支出指标
			if newStatus == models.MaintenanceStatusCompleted {
				if err := RecalculatePropertyMetrics(tx, ticket.PropertyID); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.purgeSummaryCache()
	return s.GetTicketByID(id)
}

// 5. AddNote 追加工单备注
func (s *MaintenanceService) AddNote(id uint, actorID uint, content string) (*models.TicketNote, error) {
	if _, err := s.GetTicketByID(id); err != nil {
		return nil, err
	}

	note := models.TicketNote{
		TicketID:    id,
		Content:     content,
		CreatedByID: actorID,
	}
	if err := s.DB.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// 6. GetAnalyticsSummary 工单分析汇总，优先读取Redis缓存
func (s *MaintenanceService) GetAnalyticsSummary() (*MaintenanceSummary, error) {
	if s.Redis != nil {
		var cached MaintenanceSummary
		if err := s.Redis.GetAnalytics("maintenance", "summary", &cached); err == nil {
			return &cached, nil
		}
	}

	summary := &MaintenanceSummary{
		ByStatus:   map[string]int64{},
		ByPriority: map[string]int64{},
		ByCategory: map[string]int64{},
	}

	if err := s.DB.Model(&models.MaintenanceTicket{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	for _, group := range []struct {
		column string
		dest   map[string]int64
	}{
		{"status", summary.ByStatus},
		{"priority", summary.ByPriority},
		{"category", summary.ByCategory},
	} {
		var rows []bucket
		if err := s.DB.Model(&models.MaintenanceTicket{}).
			Select(group.column + " AS `key`, COUNT(*) AS count").
			Group(group.column).Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			group.dest[row.Key] = row.Count
		}
	}

	// 平均完工时长在应用层计算，避免依赖具体数据库的日期函数
	var completed []models.MaintenanceTicket
	if err := s.DB.Where("status = ? AND completed_date IS NOT NULL", models.MaintenanceStatusCompleted).
		Find(&completed).Error; err != nil {
		return nil, err
	}
	if len(completed) > 0 {
		var totalHours float64
		for _, t := range completed {
			totalHours += t.CompletedDate.Sub(t.CreatedAt).Hours()
		}
		summary.AvgCompletionHours = totalHours / float64(len(completed))
	}

	if s.Redis != nil {
		_ = s.Redis.CacheAnalytics("maintenance", "summary", summary)
	}
	return summary, nil
}

// purgeSummaryCache 工单数据变化后清除分析缓存
func (s *MaintenanceService) purgeSummaryCache() {
	if s.Redis != nil {
		_ = s.Redis.PurgeAnalytics("maintenance")
	}
}
