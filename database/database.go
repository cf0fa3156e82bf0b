package database

import (
	"fmt"
	"log"

	"budgetbook/config"
	"budgetbook/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一索引冲突统一转译为 gorm.ErrDuplicatedKey，
		// 预算和查找表的唯一性约束依赖这一层
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	// 外键策略随模型声明一起建立：
	//   Category -> SubCategory 级联删除
	//   查找表 -> Transaction 置空
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.SubCategory{},
		&models.PaymentMethod{},
		&models.IncomeType{},
		&models.Transaction{},
		&models.CategoryBudget{},
		&models.Menu{},
		&models.PasswordReset{},
	); err != nil {
		return err
	}

	seedLookupTables()

	log.Println("数据库初始化成功")
	return nil
}

// seedLookupTables 初始化默认查找表数据（仅当对应表为空时）
func seedLookupTables() {
	var catCount int64
	DB.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		defaults := []struct {
			Name string
			Icon string
		}{
			{"Food", "🍜"},
			{"Transport", "🚌"},
			{"Shopping", "🛒"},
			{"Entertainment", "🎮"},
			{"Health", "💊"},
			{"Housing", "🏠"},
			{"Other", models.DefaultIcon},
		}
		var cats []models.Category
		for _, item := range defaults {
			cats = append(cats, models.Category{Name: item.Name, Icon: item.Icon})
		}
		_ = DB.Create(&cats).Error
	}

	var pmCount int64
	DB.Model(&models.PaymentMethod{}).Count(&pmCount)
	if pmCount == 0 {
		var methods []models.PaymentMethod
		for _, name := range []string{"Cash", "Debit Card", "Credit Card", "Bank Transfer"} {
			methods = append(methods, models.PaymentMethod{Name: name})
		}
		_ = DB.Create(&methods).Error
	}

	var itCount int64
	DB.Model(&models.IncomeType{}).Count(&itCount)
	if itCount == 0 {
		var types []models.IncomeType
		for _, name := range []string{"Salary", "Bonus", "Investment", "Other Income"} {
			types = append(types, models.IncomeType{Name: name})
		}
		_ = DB.Create(&types).Error
	}
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
