package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 販売商品。削除はis_activeをfalseにするだけで行は消さない
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:varchar(100);not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
