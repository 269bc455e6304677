package db

import (
	"context"
	"fmt"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedMenu struct {
	name     string
	category model.MenuCategory
	price    int64
}

var defaultMenus = []seedMenu{
	{"Nasi Goreng", model.MenuCategoryFood, 25000},
	{"Mie Ayam", model.MenuCategoryFood, 20000},
	{"Ayam Bakar", model.MenuCategoryFood, 30000},
	{"Es Teh Manis", model.MenuCategoryBeverage, 5000},
	{"Kopi Susu", model.MenuCategoryBeverage, 18000},
	{"Jus Alpukat", model.MenuCategoryBeverage, 15000},
	{"Pisang Goreng", model.MenuCategoryDessert, 12000},
	{"Es Campur", model.MenuCategoryDessert, 15000},
}

// 空のテーブルにだけ初期データを入れる
func Seed(ctx context.Context, gormDB *gorm.DB, adminPassword string) error {
	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&model.User{}).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			admin := model.User{
				Username:     "admin",
				PasswordHash: string(hash),
				FullName:     "Administrator",
				Role:         model.RoleAdmin,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
		}

		var menus int64
		if err := tx.Model(&model.Menu{}).Count(&menus).Error; err != nil {
			return err
		}
		if menus > 0 {
			return nil
		}

		rows := make([]model.Menu, 0, len(defaultMenus))
		for _, m := range defaultMenus {
			rows = append(rows, model.Menu{
				Name:        m.name,
				Category:    m.category,
				Price:       decimal.NewFromInt(m.price),
				IsAvailable: true,
			})
		}
		return tx.Create(&rows).Error
	})
}
