package model

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus は大文字小文字を区別せずにステータスへ変換する。
// 未定義の値は ok=false。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return OrderStatusPending, true
	case "completed":
		return OrderStatusCompleted, true
	case "cancelled":
		return OrderStatusCancelled, true
	default:
		return "", false
	}
}

type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64       `gorm:"not null;index" json:"customer_id"`
	OrderDate  time.Time   `gorm:"not null" json:"order_date"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Lines      []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
