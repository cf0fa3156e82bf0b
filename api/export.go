package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"budgetbook/database"
	"budgetbook/middleware"
	"budgetbook/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRange 解析可选的导出时间范围，未提供时导出全部记录
func exportRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if s := c.Query("start_time"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			BadRequest(c, "开始时间格式错误，应为: 2006-01-02")
			return nil, nil, false
		}
		start = &t
	}
	if s := c.Query("end_time"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			BadRequest(c, "结束时间格式错误，应为: 2006-01-02")
			return nil, nil, false
		}
		t = t.Add(24*time.Hour - time.Second)
		end = &t
	}
	return start, end, true
}

// queryExportTransactions 查询当前用户指定范围内的交易记录
func queryExportTransactions(userID uint, start, end *time.Time) ([]models.Transaction, error) {
	query := database.DB.
		Preload("Category").
		Preload("SubCategory").
		Preload("IncomeType").
		Preload("PaymentMethod").
		Where("user_id = ?", userID)
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var transactions []models.Transaction
	err := query.Order("date DESC, id DESC").Find(&transactions).Error
	return transactions, err
}

func categoryName(t models.Transaction) string {
	if t.Category != nil {
		return t.Category.Name
	}
	return ""
}

func subCategoryName(t models.Transaction) string {
	if t.SubCategory != nil {
		return t.SubCategory.Name
	}
	return ""
}

func incomeTypeName(t models.Transaction) string {
	if t.IncomeType != nil {
		return t.IncomeType.Name
	}
	return ""
}

func paymentMethodName(t models.Transaction) string {
	if t.PaymentMethod != nil {
		return t.PaymentMethod.Name
	}
	return ""
}

// ExportCSV 导出交易记录为 CSV
// @Summary 导出交易记录为 CSV
// @Description 按可选时间范围导出当前用户的交易记录为 CSV 文件
// @Tags 导出
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	transactions, err := queryExportTransactions(userID, start, end)
	if err != nil {
		InternalError(c, "查询数据失败: "+SafeErrorMessage(err, "内部错误"))
		return
	}

	buf := new(bytes.Buffer)
	// BOM 让 Excel 正确识别 UTF-8 中文
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "类型", "金额", "类别", "子类别", "收入类型", "支付方式", "描述", "日期", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, t := range transactions {
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.TransactionType,
			fmt.Sprintf("%.2f", t.Amount),
			categoryName(t),
			subCategoryName(t),
			incomeTypeName(t),
			paymentMethodName(t),
			t.Description,
			t.Date.Format(dateLayout),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出交易记录为 JSON
// @Summary 导出交易记录为 JSON
// @Description 按可选时间范围导出当前用户的交易记录为 JSON 格式
// @Tags 导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=[]TransactionView} "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	transactions, err := queryExportTransactions(userID, start, end)
	if err != nil {
		InternalError(c, "查询数据失败: "+SafeErrorMessage(err, "内部错误"))
		return
	}

	var totalIncome, totalExpense float64
	views := make([]TransactionView, 0, len(transactions))
	for _, t := range transactions {
		switch t.TransactionType {
		case models.TransactionTypeIncome:
			totalIncome += t.Amount
		case models.TransactionTypeExpense:
			totalExpense += t.Amount
		}
		views = append(views, newTransactionView(t))
	}

	Success(c, gin.H{
		"total_count":   len(transactions),
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"transactions":  views,
	})
}

// ExportExcel 导出交易记录为 Excel
// @Summary 导出交易记录为 Excel
// @Description 按可选时间范围导出当前用户的交易记录为 xlsx 文件
// @Tags 导出
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	transactions, err := queryExportTransactions(userID, start, end)
	if err != nil {
		InternalError(c, "查询数据失败: "+SafeErrorMessage(err, "内部错误"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交易记录"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "G", 15)
	f.SetColWidth(sheetName, "H", "H", 30)
	f.SetColWidth(sheetName, "I", "J", 20)

	headers := []string{"ID", "类型", "金额", "类别", "子类别", "收入类型", "支付方式", "描述", "日期", "创建时间"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalIncome, totalExpense float64
	for i, t := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.TransactionType)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), categoryName(t))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), subCategoryName(t))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), incomeTypeName(t))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), paymentMethodName(t))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), t.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), t.Date.Format(dateLayout))
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), t.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), dataStyle)

		switch t.TransactionType {
		case models.TransactionTypeIncome:
			totalIncome += t.Amount
		case models.TransactionTypeExpense:
			totalExpense += t.Amount
		}
	}

	summaryRow := len(transactions) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("收入 %.2f / 支出 %.2f", totalIncome, totalExpense))
	f.MergeCell(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(transactions)))
	f.MergeCell(sheetName, fmt.Sprintf("H%d", summaryRow), fmt.Sprintf("J%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("J%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
