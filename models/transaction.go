package models

import (
	"time"

	"gorm.io/gorm"
)

// 交易类型
const (
	TransactionTypeIncome  = "Income"
	TransactionTypeExpense = "Expense"
)

// Transaction 交易记录（收入或支出），归属于唯一一个用户
//
// 分类字段互斥：Income 记录只允许 income_type，Expense 记录只允许
// category + subcategory。规则在 api 层创建和更新时统一收口。
// 查找表删除时外键置空，交易记录本身保留。
type Transaction struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"-" gorm:"index;not null"`
	TransactionType string         `json:"transaction_type" gorm:"size:10;not null;default:Expense"`
	CategoryID      *uint          `json:"-" gorm:"index"`
	SubCategoryID   *uint          `json:"-" gorm:"index"`
	IncomeTypeID    *uint          `json:"-" gorm:"index"`
	PaymentMethodID *uint          `json:"-" gorm:"index"`
	Amount          float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date            time.Time      `json:"date" gorm:"type:date;not null"`
	Description     string         `json:"description" gorm:"size:255"`
	CreatedByID     uint           `json:"-" gorm:"index"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	User          User           `json:"-" gorm:"foreignKey:UserID"`
	Category      *Category      `json:"category_data,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	SubCategory   *SubCategory   `json:"subcategory_data,omitempty" gorm:"foreignKey:SubCategoryID;constraint:OnDelete:SET NULL"`
	IncomeType    *IncomeType    `json:"income_type_data,omitempty" gorm:"foreignKey:IncomeTypeID;constraint:OnDelete:SET NULL"`
	PaymentMethod *PaymentMethod `json:"payment_method_data,omitempty" gorm:"foreignKey:PaymentMethodID;constraint:OnDelete:SET NULL"`
	CreatedBy     *User          `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}
