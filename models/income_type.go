package models

import (
	"time"
)

// IncomeType 收入类型（后台维护）
type IncomeType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IncomeType) TableName() string {
	return "income_types"
}
