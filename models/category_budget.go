package models

import (
	"time"
)

// CategoryBudget 每用户、每类别、每自然月的支出上限
//
// (user_id, category_id, year, month) 组合唯一，由数据库唯一索引在写入时
// 保证，不在应用层做先查后写。硬删除，避免软删除行占住唯一索引。
type CategoryBudget struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"-" gorm:"not null;uniqueIndex:idx_budget_owner_period"`
	CategoryID   uint      `json:"category_id" gorm:"not null;uniqueIndex:idx_budget_owner_period"`
	MonthlyLimit float64   `json:"monthly_limit" gorm:"type:decimal(10,2);not null"`
	Year         int       `json:"year" gorm:"not null;uniqueIndex:idx_budget_owner_period"`
	Month        int       `json:"month" gorm:"not null;uniqueIndex:idx_budget_owner_period"` // 1–12
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Category Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (CategoryBudget) TableName() string {
	return "category_budgets"
}
