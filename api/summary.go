package api

import (
	"budgetbook/database"
	"budgetbook/middleware"
	"budgetbook/models"

	"github.com/gin-gonic/gin"
)

// CategoryTotal 按类别汇总的支出金额
// 类别已被删除的记录归入 category 为 null 的一组
type CategoryTotal struct {
	Category *string `json:"category"`
	Total    float64 `json:"total"`
}

// SummaryResponse 收支汇总
type SummaryResponse struct {
	TotalIncome     float64         `json:"total_income"`
	TotalExpense    float64         `json:"total_expense"`
	TotalBalance    float64         `json:"total_balance"`
	HighestCategory *CategoryTotal  `json:"highest_category"`
	LowestCategory  *CategoryTotal  `json:"lowest_category"`
	GraphData       []CategoryTotal `json:"graph_data"`
}

// GetSummary 获取当前用户的收支汇总
// @Summary 获取收支汇总
// @Description 统计当前用户全部交易：收入总和、支出总和、结余，以及按类别的支出分布（金额降序，金额相同按类别名升序）。highest/lowest 取分布的首尾元素，分布为空时为 null。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=SummaryResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var totalIncome float64
	var totalExpense float64
	database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_type = ?", userID, models.TransactionTypeIncome).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalIncome)
	database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_type = ?", userID, models.TransactionTypeExpense).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalExpense)

	// 按类别汇总支出。LEFT JOIN 保留类别已被置空的记录；
	// 金额相同按类别名升序，保证结果确定
	graphData := make([]CategoryTotal, 0)
	if err := database.DB.Model(&models.Transaction{}).
		Select("categories.name AS category, SUM(transactions.amount) AS total").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.transaction_type = ?", userID, models.TransactionTypeExpense).
		Group("categories.name").
		Order("total DESC, categories.name ASC").
		Scan(&graphData).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "统计失败"))
		return
	}

	resp := SummaryResponse{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		TotalBalance: totalIncome - totalExpense,
		GraphData:    graphData,
	}
	if len(graphData) > 0 {
		resp.HighestCategory = &graphData[0]
		resp.LowestCategory = &graphData[len(graphData)-1]
	}

	Success(c, resp)
}
