package models

import (
	"time"
)

// SubCategory 消费子类别，必须挂在一个类别之下
type SubCategory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CategoryID uint      `json:"category_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Icon       string    `json:"icon" gorm:"size:30;default:❔"` // emoji 或文字图标
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 类别删除时子类别一并删除
	Category Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (SubCategory) TableName() string {
	return "sub_categories"
}
