package models

import (
	"time"
)

// Menu 前端导航菜单，登录响应中一并返回
type Menu struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"menu_name" gorm:"size:50;not null;uniqueIndex"`
	Path      string    `json:"path" gorm:"size:100;not null"` // 前端路由，如 dashboard、transactions
	Icon      string    `json:"icon" gorm:"size:50"`
	SortOrder int       `json:"sort_order" gorm:"default:0;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Menu) TableName() string {
	return "menus"
}
