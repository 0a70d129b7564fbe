package db

import (
	"time"

	"bakery/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed は商品テーブルが空のときだけ初期データを投入する。
func Seed(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []model.Product{
		{Name: "Chocolate Cake", Description: "Delicious chocolate cake", Price: decimal.NewFromFloat(15.99), IsActive: true},
		{Name: "Croissant", Description: "Buttery croissant", Price: decimal.NewFromFloat(2.99), IsActive: false},
		{Name: "Apple Pie", Description: "Sweet apple pie", Price: decimal.NewFromFloat(12.99), IsActive: true},
	}

	return gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		now := time.Now()
		orders := []model.Order{
			{CustomerID: 1, OrderDate: now, Status: model.OrderStatusPending},
			{CustomerID: 2, OrderDate: now, Status: model.OrderStatusCompleted},
		}
		if err := tx.Create(&orders).Error; err != nil {
			return err
		}

		lines := []model.OrderLine{
			{OrderID: orders[0].ID, ProductID: products[0].ID, Quantity: 2},
			{OrderID: orders[0].ID, ProductID: products[1].ID, Quantity: 3},
			{OrderID: orders[1].ID, ProductID: products[2].ID, Quantity: 1},
		}
		return tx.Create(&lines).Error
	})
}
