package api

import (
	"errors"
	"math"
	"strconv"
	"time"

	"budgetbook/database"
	"budgetbook/middleware"
	"budgetbook/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler 类别预算处理器
type BudgetHandler struct{}

// NewBudgetHandler 创建类别预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// CreateBudgetRequest 创建预算请求
// 年月不由调用方指定，取服务器当前日期：预算只作用于创建它的那个月
type CreateBudgetRequest struct {
	Category     *string  `json:"category" example:"1"`
	MonthlyLimit *float64 `json:"monthly_limit" example:"1500.00"`
}

// UpdateBudgetRequest 更新预算请求
type UpdateBudgetRequest struct {
	MonthlyLimit *float64 `json:"monthly_limit" example:"2000.00"`
}

// BudgetCategory 报告中内嵌的类别信息
type BudgetCategory struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BudgetReportItem 单个预算的消耗情况
type BudgetReportItem struct {
	ID             uint           `json:"id"`
	Category       BudgetCategory `json:"category"`
	Budget         float64        `json:"budget"`
	Spent          float64        `json:"spent"`
	Remaining      float64        `json:"remaining"`
	PercentUsed    float64        `json:"percent_used"`
	PercentRemains float64        `json:"percent_remains"`
	OverBudget     bool           `json:"over_budget"`
}

// round2 四舍五入到两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildBudgetItem 由预算行和已消费金额计算消耗报告
//
// remaining 不为负；percent_used 封顶 100（即使超支）；over_budget 采用
// 严格大于判断 —— 恰好花满 100% 不算超支，封顶与标志是两个独立信号。
func buildBudgetItem(b models.CategoryBudget, spent float64) BudgetReportItem {
	limit := b.MonthlyLimit

	remaining := limit - spent
	if remaining < 0 {
		remaining = 0
	}

	var percentUsed float64
	if limit > 0 {
		percentUsed = math.Min(spent/limit*100, 100)
	}
	percentRemains := math.Max(100-percentUsed, 0)

	return BudgetReportItem{
		ID:             b.ID,
		Category:       BudgetCategory{ID: b.Category.ID, Name: b.Category.Name},
		Budget:         limit,
		Spent:          spent,
		Remaining:      remaining,
		PercentUsed:    round2(percentUsed),
		PercentRemains: round2(percentRemains),
		OverBudget:     spent > limit,
	}
}

// monthRange 返回 now 所在自然月的 [起点, 下月起点)
func monthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// report 计算 userID 在 now 所在月份的全部预算消耗
// 当前日期作为参数传入，便于测试固定时间
func (h *BudgetHandler) report(userID uint, now time.Time) ([]BudgetReportItem, error) {
	var budgets []models.CategoryBudget
	if err := database.DB.Preload("Category").
		Where("user_id = ? AND year = ? AND month = ?", userID, now.Year(), int(now.Month())).
		Order("id ASC").
		Find(&budgets).Error; err != nil {
		return nil, err
	}

	start, end := monthRange(now)
	items := make([]BudgetReportItem, 0, len(budgets))
	for _, b := range budgets {
		var spent float64
		if err := database.DB.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ? AND transaction_type = ? AND date >= ? AND date < ?",
				userID, b.CategoryID, models.TransactionTypeExpense, start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&spent).Error; err != nil {
			return nil, err
		}
		items = append(items, buildBudgetItem(b, spent))
	}
	return items, nil
}

// GetReport 获取当前月份的预算消耗报告
// @Summary 获取预算消耗报告
// @Description 对当前用户在本月的每个类别预算，统计本月支出、剩余额度和使用百分比（封顶 100），over_budget 为是否严格超支。
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]BudgetReportItem} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) GetReport(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	items, err := h.report(userID, time.Now())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, items)
}

// Create 创建类别预算
// @Summary 创建类别预算
// @Description 为某个类别设置当月支出上限。年月取服务器当前日期；同一用户同一类别同一月份只允许一条，冲突返回 409。
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "预算信息"
// @Success 200 {object} Response "创建成功"
// @Failure 400 {object} FieldErrorResponse "字段校验失败"
// @Failure 404 {object} Response "类别不存在"
// @Failure 409 {object} Response "该类别本月预算已存在"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	errs := map[string]string{}
	if req.MonthlyLimit == nil {
		errs["monthly_limit"] = "monthly_limit 必填"
	} else if *req.MonthlyLimit < 0 {
		errs["monthly_limit"] = "monthly_limit 不能为负"
	}
	categoryID, ok := normalizeID(req.Category)
	if !ok {
		errs["category"] = "无效的类别 id"
	} else if categoryID == nil {
		errs["category"] = "category 必填"
	}
	if len(errs) > 0 {
		FieldErrors(c, errs)
		return
	}

	var cat models.Category
	if err := database.DB.First(&cat, *categoryID).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}

	now := time.Now()
	budget := models.CategoryBudget{
		UserID:       userID,
		CategoryID:   cat.ID,
		MonthlyLimit: *req.MonthlyLimit,
		Year:         now.Year(),
		Month:        int(now.Month()),
	}

	// 唯一性由 (user, category, year, month) 唯一索引在写入时保证
	if err := database.DB.Create(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "该类别本月预算已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建预算失败"))
		return
	}

	SuccessWithMessage(c, "预算已保存", gin.H{"id": budget.ID})
}

// Update 更新类别预算
// @Summary 更新类别预算
// @Description 更新预算上限。只能操作自己的预算，他人的预算 id 一律按不存在处理。
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param request body UpdateBudgetRequest true "更新字段"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	// 按 id+user 查找：不泄露他人预算是否存在
	var budget models.CategoryBudget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "预算不存在")
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if req.MonthlyLimit == nil {
		FieldError(c, "monthly_limit", "monthly_limit 必填")
		return
	}
	if *req.MonthlyLimit < 0 {
		FieldError(c, "monthly_limit", "monthly_limit 不能为负")
		return
	}

	if err := database.DB.Model(&budget).Update("monthly_limit", *req.MonthlyLimit).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", nil)
}

// Delete 删除类别预算
// @Summary 删除类别预算
// @Description 删除自己的预算行，他人的预算 id 一律按不存在处理
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var budget models.CategoryBudget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "预算不存在")
		return
	}

	if err := database.DB.Delete(&budget).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
