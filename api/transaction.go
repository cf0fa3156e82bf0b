package api

import (
	"strconv"
	"strings"
	"time"

	"budgetbook/database"
	"budgetbook/middleware"
	"budgetbook/models"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// TransactionRequest 创建/更新交易记录请求
// 引用字段以字符串形式携带查找表 id，空串与缺省等价（视为未提供）
type TransactionRequest struct {
	TransactionType *string  `json:"transaction_type" example:"Expense"`
	Amount          *float64 `json:"amount" example:"99.99"`
	Date            *string  `json:"date" example:"2024-01-15"`
	Description     *string  `json:"description" example:"午餐"`
	Category        *string  `json:"category" example:"1"`
	SubCategory     *string  `json:"subcategory" example:"3"`
	IncomeType      *string  `json:"income_type" example:""`
	PaymentMethod   *string  `json:"payment_method" example:"2"`
}

// TransactionView 交易记录读取形态，引用字段解析为完整查找表对象
type TransactionView struct {
	ID                uint                  `json:"id"`
	TransactionType   string                `json:"transaction_type"`
	Amount            float64               `json:"amount"`
	Date              string                `json:"date"`
	Description       string                `json:"description"`
	CategoryData      *models.Category      `json:"category_data"`
	SubCategoryData   *models.SubCategory   `json:"subcategory_data"`
	PaymentMethodData *models.PaymentMethod `json:"payment_method_data"`
	IncomeTypeData    *models.IncomeType    `json:"income_type_data"`
	CreatedBy         *models.UserBrief     `json:"created_by"`
	CreatedAt         time.Time             `json:"created_at"`
}

const dateLayout = "2006-01-02"

// newTransactionView 由预加载完成的记录构建读取形态
func newTransactionView(t models.Transaction) TransactionView {
	view := TransactionView{
		ID:                t.ID,
		TransactionType:   t.TransactionType,
		Amount:            t.Amount,
		Date:              t.Date.Format(dateLayout),
		Description:       t.Description,
		CategoryData:      t.Category,
		SubCategoryData:   t.SubCategory,
		PaymentMethodData: t.PaymentMethod,
		IncomeTypeData:    t.IncomeType,
	}
	if t.CreatedBy != nil {
		brief := t.CreatedBy.Brief()
		view.CreatedBy = &brief
	}
	return view
}

// normalizeID 规范化字符串形式的引用 id
// nil 与空串均视为未提供，返回 (nil, true)；解析失败返回 (nil, false)
func normalizeID(raw *string) (*uint, bool) {
	if raw == nil {
		return nil, true
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil, true
	}
	id64, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id64 == 0 {
		return nil, false
	}
	id := uint(id64)
	return &id, true
}

// classification 互斥规则处理后的分类字段
type classification struct {
	CategoryID    *uint
	SubCategoryID *uint
	IncomeTypeID  *uint
}

// validateClassification 按交易类型执行分类字段的互斥规则
//
// Income: income_type 必填，category/subcategory 无论传入与否强制置空；
// Expense: category 与 subcategory 均必填，income_type 强制置空；
// 其余类型值直接拒绝。返回的 map 为字段级错误，空 map 表示通过。
func validateClassification(trxType string, categoryID, subCategoryID, incomeTypeID *uint) (classification, map[string]string) {
	errs := map[string]string{}

	switch trxType {
	case models.TransactionTypeIncome:
		if incomeTypeID == nil {
			errs["income_type"] = "Income 交易必须提供 income_type"
		}
		return classification{IncomeTypeID: incomeTypeID}, errs

	case models.TransactionTypeExpense:
		if categoryID == nil {
			errs["category"] = "Expense 交易必须提供 category"
		}
		if subCategoryID == nil {
			errs["subcategory"] = "Expense 交易必须提供 subcategory"
		}
		return classification{CategoryID: categoryID, SubCategoryID: subCategoryID}, errs

	default:
		errs["transaction_type"] = "无效的交易类型（仅支持 Income / Expense）"
		return classification{}, errs
	}
}

// resolveRefs 校验分类与支付方式引用均指向存在的查找表行
// 任一引用无效时返回 false，并已向客户端写出 404
func resolveRefs(c *gin.Context, cls classification, paymentMethodID *uint) bool {
	if cls.CategoryID != nil {
		var cat models.Category
		if err := database.DB.First(&cat, *cls.CategoryID).Error; err != nil {
			NotFound(c, "类别不存在")
			return false
		}
	}
	if cls.SubCategoryID != nil {
		var sub models.SubCategory
		if err := database.DB.First(&sub, *cls.SubCategoryID).Error; err != nil {
			NotFound(c, "子类别不存在")
			return false
		}
	}
	if cls.IncomeTypeID != nil {
		var it models.IncomeType
		if err := database.DB.First(&it, *cls.IncomeTypeID).Error; err != nil {
			NotFound(c, "收入类型不存在")
			return false
		}
	}
	if paymentMethodID != nil {
		var pm models.PaymentMethod
		if err := database.DB.First(&pm, *paymentMethodID).Error; err != nil {
			NotFound(c, "支付方式不存在")
			return false
		}
	}
	return true
}

// Create 创建交易记录
// @Summary 创建交易记录
// @Description 创建一条收入或支出记录。Income 必须携带 income_type，Expense 必须携带 category 与 subcategory，互斥字段无论传入与否都会被置空。
// @Tags 交易记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "交易信息"
// @Success 200 {object} Response{data=TransactionView} "创建成功"
// @Failure 400 {object} FieldErrorResponse "字段校验失败"
// @Failure 404 {object} Response "引用的查找表行不存在"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 必填标量字段
	errs := map[string]string{}
	if req.TransactionType == nil {
		errs["transaction_type"] = "transaction_type 必填"
	}
	if req.Amount == nil {
		errs["amount"] = "amount 必填"
	} else if *req.Amount <= 0 {
		errs["amount"] = "amount 必须大于 0"
	}
	var date time.Time
	if req.Date == nil {
		errs["date"] = "date 必填"
	} else {
		var err error
		date, err = time.ParseInLocation(dateLayout, *req.Date, time.Local)
		if err != nil {
			errs["date"] = "日期格式错误，应为: 2006-01-02"
		}
	}
	if len(errs) > 0 {
		FieldErrors(c, errs)
		return
	}

	// 空串归一化为未提供，而不是去解析一个空引用
	categoryID, ok := normalizeID(req.Category)
	if !ok {
		FieldError(c, "category", "无效的类别 id")
		return
	}
	subCategoryID, ok := normalizeID(req.SubCategory)
	if !ok {
		FieldError(c, "subcategory", "无效的子类别 id")
		return
	}
	incomeTypeID, ok := normalizeID(req.IncomeType)
	if !ok {
		FieldError(c, "income_type", "无效的收入类型 id")
		return
	}
	paymentMethodID, ok := normalizeID(req.PaymentMethod)
	if !ok {
		FieldError(c, "payment_method", "无效的支付方式 id")
		return
	}

	cls, clsErrs := validateClassification(*req.TransactionType, categoryID, subCategoryID, incomeTypeID)
	if len(clsErrs) > 0 {
		FieldErrors(c, clsErrs)
		return
	}

	if !resolveRefs(c, cls, paymentMethodID) {
		return
	}

	trx := models.Transaction{
		UserID:          userID,
		TransactionType: *req.TransactionType,
		CategoryID:      cls.CategoryID,
		SubCategoryID:   cls.SubCategoryID,
		IncomeTypeID:    cls.IncomeTypeID,
		PaymentMethodID: paymentMethodID,
		Amount:          *req.Amount,
		Date:            date,
		CreatedByID:     userID,
	}
	if req.Description != nil {
		trx.Description = *req.Description
	}

	if err := database.DB.Create(&trx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建交易记录失败"))
		return
	}

	SuccessWithMessage(c, "记账成功", gin.H{"id": trx.ID})
}

// List 获取当前用户的交易记录列表
// @Summary 获取交易记录列表
// @Description 按日期倒序返回当前用户的全部交易记录，引用字段解析为完整查找表对象
// @Tags 交易记录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]TransactionView} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var trxs []models.Transaction
	if err := database.DB.
		Preload("Category").
		Preload("SubCategory").
		Preload("IncomeType").
		Preload("PaymentMethod").
		Preload("CreatedBy").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&trxs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	views := make([]TransactionView, 0, len(trxs))
	for _, t := range trxs {
		views = append(views, newTransactionView(t))
	}
	Success(c, views)
}

// Get 获取单条交易记录
// @Summary 获取单条交易记录
// @Tags 交易记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Success 200 {object} Response{data=TransactionView} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var trx models.Transaction
	if err := database.DB.
		Preload("Category").
		Preload("SubCategory").
		Preload("IncomeType").
		Preload("PaymentMethod").
		Preload("CreatedBy").
		Where("id = ? AND user_id = ?", id, userID).
		First(&trx).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, newTransactionView(trx))
}

// Update 更新交易记录（部分字段）
// @Summary 更新交易记录
// @Description 部分更新。互斥规则按生效的交易类型（新值优先，否则沿用已存储值）执行：Income 清空 category/subcategory，Expense 清空 income_type，更新后的记录仍须满足分类必填规则。
// @Tags 交易记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Param request body TransactionRequest true "更新字段"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} FieldErrorResponse "字段校验失败"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var trx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&trx).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 生效的交易类型：新值优先，否则沿用已存储值
	effType := trx.TransactionType
	if req.TransactionType != nil {
		effType = *req.TransactionType
	}
	if effType != models.TransactionTypeIncome && effType != models.TransactionTypeExpense {
		FieldError(c, "transaction_type", "无效的交易类型（仅支持 Income / Expense）")
		return
	}

	categoryID, ok := normalizeID(req.Category)
	if !ok {
		FieldError(c, "category", "无效的类别 id")
		return
	}
	subCategoryID, ok := normalizeID(req.SubCategory)
	if !ok {
		FieldError(c, "subcategory", "无效的子类别 id")
		return
	}
	incomeTypeID, ok := normalizeID(req.IncomeType)
	if !ok {
		FieldError(c, "income_type", "无效的收入类型 id")
		return
	}
	paymentMethodID, ok := normalizeID(req.PaymentMethod)
	if !ok {
		FieldError(c, "payment_method", "无效的支付方式 id")
		return
	}

	// 合并出更新后的分类字段：互斥分支清空，同分支新值覆盖旧值
	finalCategory := trx.CategoryID
	finalSubCategory := trx.SubCategoryID
	finalIncomeType := trx.IncomeTypeID
	if categoryID != nil {
		finalCategory = categoryID
	}
	if subCategoryID != nil {
		finalSubCategory = subCategoryID
	}
	if incomeTypeID != nil {
		finalIncomeType = incomeTypeID
	}

	cls, clsErrs := validateClassification(effType, finalCategory, finalSubCategory, finalIncomeType)
	if len(clsErrs) > 0 {
		FieldErrors(c, clsErrs)
		return
	}

	// 仅校验本次请求新引用的行，已存储的引用由外键保证
	newRefs := classification{CategoryID: categoryID, SubCategoryID: subCategoryID, IncomeTypeID: incomeTypeID}
	if cls.CategoryID == nil {
		newRefs.CategoryID = nil
	}
	if cls.SubCategoryID == nil {
		newRefs.SubCategoryID = nil
	}
	if cls.IncomeTypeID == nil {
		newRefs.IncomeTypeID = nil
	}
	if !resolveRefs(c, newRefs, paymentMethodID) {
		return
	}

	updates := map[string]interface{}{
		"transaction_type": effType,
		"category_id":      cls.CategoryID,
		"sub_category_id":  cls.SubCategoryID,
		"income_type_id":   cls.IncomeTypeID,
	}
	if paymentMethodID != nil {
		updates["payment_method_id"] = paymentMethodID
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			FieldError(c, "amount", "amount 必须大于 0")
			return
		}
		updates["amount"] = *req.Amount
	}
	if req.Date != nil {
		date, err := time.ParseInLocation(dateLayout, *req.Date, time.Local)
		if err != nil {
			FieldError(c, "date", "日期格式错误，应为: 2006-01-02")
			return
		}
		updates["date"] = date
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := database.DB.Model(&trx).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", nil)
}

// Delete 删除交易记录
// @Summary 删除交易记录
// @Tags 交易记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var trx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&trx).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&trx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
