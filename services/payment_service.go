package services

import (
	"errors"
	"fmt"
	"time"

	"propman-http-service/config"
	"propman-http-service/models"
	"propman-http-service/utils"

	"gorm.io/gorm"
)

// 支付相关的业务错误
var (
	ErrPaymentNotFound       = errors.New("支付记录不存在")
	ErrPaymentAlreadyPaid    = errors.New("该支付已完成，不能重复支付")
	ErrPaymentBadTransition  = errors.New("支付状态转换不合法")
	ErrPaymentLockedOncePaid = errors.New("已完成的支付仅允许退款")
	ErrPaymentHistoryMissing = errors.New("租户付款流水缺失")
)

// PaymentFilter 支付列表过滤条件
type PaymentFilter struct {
	Status     string
	Type       string
	PropertyID uint
	TenantID   uint
}

// PaymentSummary 支付分析汇总
type PaymentSummary struct {
	TotalRevenue   float64            `json:"total_revenue"`
	PendingAmount  float64            `json:"pending_amount"`
	ByType         map[string]float64 `json:"by_type"`
	MonthlyRevenue map[string]float64 `json:"monthly_revenue"`
	Year           int                `json:"year"`
	Month          int                `json:"month,omitempty"`
}

// PayRequest 标记支付完成的参数
type PayRequest struct {
	Method        string
	TransactionID string
	ActorID       uint
}

// InterfacePaymentService 定义支付服务接口
type InterfacePaymentService interface {
	GetAllPayments(filter PaymentFilter, page, pageSize int) ([]models.Payment, int64, error)
	GetPaymentByID(id uint) (*models.Payment, error)
	CreatePayment(payment *models.Payment) error
	MarkPaid(id uint, req PayRequest) (*models.Payment, error)
	UpdatePayment(id uint, actorID uint, updates map[string]interface{}) (*models.Payment, error)
	AddReminder(id uint, channel, message string) (*models.PaymentReminder, error)
	GetAnalyticsSummary(year, month int) (*PaymentSummary, error)
}

// PaymentService 提供支付相关的服务
type PaymentService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // 可为nil，此时每次请求都重算
}

// NewPaymentService 创建一个新的支付服务
func NewPaymentService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfacePaymentService {
	return &PaymentService{
		DB:     db,
		Config: cfg,
		Redis:  redisService,
	}
}

// 支付更新允许修改的字段白名单
var paymentUpdatableFields = map[string]bool{
	"type":           true,
	"status":         true,
	"method":         true,
	"amount":         true,
	"due_date":       true,
	"invoice_number": true,
	"receipt_url":    true,
}

// 1. GetAllPayments 获取支付列表，支持过滤与分页
func (s *PaymentService) GetAllPayments(filter PaymentFilter, page, pageSize int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := s.DB.Model(&models.Payment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.PropertyID > 0 {
		query = query.Where("property_id = ?", filter.PropertyID)
	}
	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("Property").Preload("Tenant").
		Limit(pageSize).Offset(offset).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// 2. GetPaymentByID 根据ID获取支付记录
func (s *PaymentService) GetPaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.DB.Preload("Property").Preload("Tenant").
		Preload("Reminders").Preload("Disputes").First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// 3. CreatePayment 创建支付记录，同一事务内向租户写入pending流水。
// 流水通过PaymentRef与支付记录关联，后续更新按此键定位而非按日期金额匹配。
func (s *PaymentService) CreatePayment(payment *models.Payment) error {
	if !models.IsValidPaymentType(payment.Type) {
		return errors.New("无效的支付类型")
	}
	if payment.Method != "" && !models.IsValidPaymentMethod(payment.Method) {
		return errors.New("无效的支付方式")
	}
	if payment.Amount <= 0 {
		return errors.New("支付金额必须大于0")
	}
	if payment.PaymentID == "" {
		payment.PaymentID = utils.NewPaymentID()
	}
	payment.Status = models.PaymentStatusPending

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 租户必须存在
		var tenant models.Tenant
		if err := tx.First(&tenant, payment.TenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		entry := models.PaymentHistoryEntry{
			TenantID:   payment.TenantID,
			PaymentRef: payment.PaymentID,
			Amount:     payment.Amount,
			DueDate:    payment.DueDate,
			Status:     models.PaymentStatusPending,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// 新增应收计入租户余额
		return tx.Model(&tenant).Update("balance", gorm.Expr("balance + ?", payment.Amount)).Error
	})
	if err != nil {
		return err
	}

	// 事务提交后才清汇总缓存，回滚时不丢弃有效缓存
	s.purgeSummaryCache()
	return nil
}

// 4. MarkPaid 标记支付完成。重复支付直接拒绝；支付记录、租户流水、
// 租户余额与物业指标在同一事务内联动更新。
func (s *PaymentService) MarkPaid(id uint, req PayRequest) (*models.Payment, error) {
	payment, err := s.GetPaymentByID(id)
	if err != nil {
		return nil, err
	}

	// 幂等保护：已支付的第二次调用返回错误，不重复入账
	if payment.Status == models.PaymentStatusPaid {
		return nil, ErrPaymentAlreadyPaid
	}
	if !models.CanPaymentTransition(payment.Status, models.PaymentStatusPaid) {
		return nil, ErrPaymentBadTransition
	}
	if req.Method != "" && !models.IsValidPaymentMethod(req.Method) {
		return nil, errors.New("无效的支付方式")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"status":    models.PaymentStatusPaid,
			"paid_date": now,
		}
		// 未指定支付方式时保留创建时的方式，不覆盖为空值
		if req.Method != "" {
			updates["method"] = req.Method
		}
		if req.TransactionID != "" {
			updates["transaction_id"] = req.TransactionID
		}
		if req.ActorID > 0 {
			updates["updated_by_id"] = req.ActorID
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		// 通过PaymentRef定位租户侧流水；缺失时如实报错而非静默失同步
		historyUpdates := map[string]interface{}{
			"status":    models.PaymentStatusPaid,
			"paid_date": now,
		}
		if req.Method != "" {
			historyUpdates["method"] = req.Method
		}
		result := tx.Model(&models.PaymentHistoryEntry{}).
			Where("tenant_id = ? AND payment_ref = ?", payment.TenantID, payment.PaymentID).
			Updates(historyUpdates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentHistoryMissing
		}

		// 支付完成后冲减租户余额
		if err := tx.Model(&models.Tenant{}).Where("id = ?", payment.TenantID).
			Update("balance", gorm.Expr("balance - ?", payment.Amount)).Error; err != nil {
			return err
		}

		return RecalculatePropertyMetrics(tx, payment.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	s.purgeSummaryCache()
	return s.GetPaymentByID(id)
}

// 5. UpdatePayment 更新支付记录。已支付的记录仅允许转为refunded；
// 其余字段按白名单更新，状态变更按转换表校验。
func (s *PaymentService) UpdatePayment(id uint, actorID uint, updates map[string]interface{}) (*models.Payment, error) {
	payment, err := s.GetPaymentByID(id)
	if err != nil {
		return nil, err
	}

	filtered := map[string]interface{}{}
	for key, value := range updates {
		if paymentUpdatableFields[key] {
			filtered[key] = value
		}
	}

	newStatus, statusChanging := filtered["status"].(string)
	if statusChanging && newStatus != payment.Status {
		if !models.IsValidPaymentStatus(newStatus) {
			return nil, ErrPaymentBadTransition
		}
		if !models.CanPaymentTransition(payment.Status, newStatus) {
			return nil, ErrPaymentBadTransition
		}
	} else {
		statusChanging = false
		delete(filtered, "status")
	}

	// 已完成的支付锁定，除非是退款
	if payment.Status == models.PaymentStatusPaid {
		if !statusChanging || newStatus != models.PaymentStatusRefunded {
			return nil, ErrPaymentLockedOncePaid
		}
		filtered = map[string]interface{}{"status": models.PaymentStatusRefunded}
	}

	if actorID > 0 {
		filtered["updated_by_id"] = actorID
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", id).Updates(filtered).Error; err != nil {
			return err
		}

		if statusChanging {
			// 租户侧流水状态保持同步
			if err := tx.Model(&models.PaymentHistoryEntry{}).
				Where("tenant_id = ? AND payment_ref = ?", payment.TenantID, payment.PaymentID).
				Update("status", newStatus).Error; err != nil {
				return err
			}

			// 退款影响物业收入指标
			if newStatus == models.PaymentStatusRefunded {
				if err := tx.Model(&models.Tenant{}).Where("id = ?", payment.TenantID).
					Update("balance", gorm.Expr("balance + ?", payment.Amount)).Error; err != nil {
					return err
				}
				if err := RecalculatePropertyMetrics(tx, payment.PropertyID); err != nil {
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
	return s.GetPaymentByID(id)
}

// 6. AddReminder 追加支付提醒记录
func (s *PaymentService) AddReminder(id uint, channel, message string) (*models.PaymentReminder, error) {
	if _, err := s.GetPaymentByID(id); err != nil {
		return nil, err
	}

	reminder := models.PaymentReminder{
		PaymentID: id,
		SentAt:    time.Now(),
		Channel:   channel,
		Message:   message,
	}
	if err := s.DB.Create(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

// 7. GetAnalyticsSummary 支付分析汇总，按年/月过滤，优先读取Redis缓存
func (s *PaymentService) GetAnalyticsSummary(year, month int) (*PaymentSummary, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	cacheKey := fmt.Sprintf("summary:%d:%d", year, month)
	if s.Redis != nil {
		var cached PaymentSummary
		if err := s.Redis.GetAnalytics("payments", cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	// 统计区间：给定月份或整年
	var from, to time.Time
	if month >= 1 && month <= 12 {
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		to = from.AddDate(0, 1, 0)
	} else {
		from = time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
		to = from.AddDate(1, 0, 0)
	}

	summary := &PaymentSummary{
		ByType:         map[string]float64{},
		MonthlyRevenue: map[string]float64{},
		Year:           year,
		Month:          month,
	}

	scoped := s.DB.Model(&models.Payment{}).Where("due_date >= ? AND due_date < ?", from, to)

	if err := scoped.Session(&gorm.Session{}).
		Where("status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.TotalRevenue).Error; err != nil {
		return nil, err
	}

	if err := scoped.Session(&gorm.Session{}).
		Where("status = ?", models.PaymentStatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.PendingAmount).Error; err != nil {
		return nil, err
	}

	type typeBucket struct {
		Type  string
		Total float64
	}
	var typeRows []typeBucket
	if err := scoped.Session(&gorm.Session{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").Scan(&typeRows).Error; err != nil {
		return nil, err
	}
	for _, row := range typeRows {
		summary.ByType[row.Type] = row.Total
	}

	// 月度收入在应用层分桶，避免依赖具体数据库的日期函数
	var paid []models.Payment
	if err := s.DB.Where("status = ? AND paid_date >= ? AND paid_date < ?",
		models.PaymentStatusPaid, from, to).Find(&paid).Error; err != nil {
		return nil, err
	}
	for _, p := range paid {
		if p.PaidDate == nil {
			continue
		}
		key := p.PaidDate.Format("2006-01")
		summary.MonthlyRevenue[key] += p.Amount
	}

	if s.Redis != nil {
		_ = s.Redis.CacheAnalytics("payments", cacheKey, summary)
	}
	return summary, nil
}

// purgeSummaryCache 支付数据变化后清除分析缓存
func (s *PaymentService) purgeSummaryCache() {
	if s.Redis != nil {
		_ = s.Redis.PurgeAnalytics("payments")
	}
}
