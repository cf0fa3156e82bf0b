package models

import (
	"time"
)

// DefaultIcon 未指定图标时的占位符
const DefaultIcon = "❔"

// Category 消费类别
// 硬删除：删除时由外键策略级联删除子类别、并将交易记录的引用置空
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Icon      string    `json:"icon" gorm:"size:30;default:❔"` // emoji 或文字图标
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
