package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReferenceID 生成带前缀的对外展示编号，如 "TKT-6F9619FF"。
// 基于UUID而非时间戳+计数，并发创建下不会碰撞。
func NewReferenceID(prefix string) string {
	id := uuid.New().String()
	short := strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
	return prefix + "-" + short
}

// NewPropertyID 生成物业编号
func NewPropertyID() string {
	return NewReferenceID("PROP")
}

// NewTicketID 生成维修工单编号
func NewTicketID() string {
	return NewReferenceID("TKT")
}

// NewPaymentID 生成支付编号
func NewPaymentID() string {
	return NewReferenceID("PAY")
}

// NewDocumentID 生成文档编号
func NewDocumentID() string {
	return NewReferenceID("DOC")
}
