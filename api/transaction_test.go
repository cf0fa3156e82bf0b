package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"budgetbook/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeID(t *testing.T) {
	// 未提供
	id, ok := normalizeID(nil)
	assert.True(t, ok)
	assert.Nil(t, id)

	// 空串与未提供等价
	id, ok = normalizeID(strPtr(""))
	assert.True(t, ok)
	assert.Nil(t, id)

	id, ok = normalizeID(strPtr("  "))
	assert.True(t, ok)
	assert.Nil(t, id)

	// 正常解析
	id, ok = normalizeID(strPtr("42"))
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, uint(42), *id)

	// 非法值
	_, ok = normalizeID(strPtr("abc"))
	assert.False(t, ok)
	_, ok = normalizeID(strPtr("0"))
	assert.False(t, ok)
	_, ok = normalizeID(strPtr("-1"))
	assert.False(t, ok)
}

func TestValidateClassification(t *testing.T) {
	one, two, three := uint(1), uint(2), uint(3)

	// Income 必须携带 income_type
	_, errs := validateClassification(models.TransactionTypeIncome, nil, nil, nil)
	assert.Contains(t, errs, "income_type")

	// Income 携带 category 时 category 被强制置空
	cls, errs := validateClassification(models.TransactionTypeIncome, &one, &two, &three)
	assert.Empty(t, errs)
	assert.Nil(t, cls.CategoryID)
	assert.Nil(t, cls.SubCategoryID)
	require.NotNil(t, cls.IncomeTypeID)
	assert.Equal(t, uint(3), *cls.IncomeTypeID)

	// Expense 必须同时携带 category 与 subcategory
	_, errs = validateClassification(models.TransactionTypeExpense, &one, nil, nil)
	assert.NotContains(t, errs, "category")
	assert.Contains(t, errs, "subcategory")

	_, errs = validateClassification(models.TransactionTypeExpense, nil, &two, nil)
	assert.Contains(t, errs, "category")

	// Expense 携带 income_type 时 income_type 被强制置空
	cls, errs = validateClassification(models.TransactionTypeExpense, &one, &two, &three)
	assert.Empty(t, errs)
	assert.Nil(t, cls.IncomeTypeID)
	require.NotNil(t, cls.CategoryID)
	require.NotNil(t, cls.SubCategoryID)

	// 其余类型值直接拒绝
	_, errs = validateClassification("Transfer", nil, nil, nil)
	assert.Contains(t, errs, "transaction_type")
}

func TestTransactionHandler_Create_Expense(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon"}).
			AddRow(1, "Food", "🍜"))
	mock.ExpectQuery("SELECT .* FROM `sub_categories`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category_id"}).
			AddRow(3, "Restaurant", 1))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"transaction_type":"Expense","amount":99.99,"date":"2024-01-15","description":"午餐","category":"1","subcategory":"3"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "记账成功", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_IncomeMissingIncomeType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	// income_type 为空串，等价于未提供
	body := `{"transaction_type":"Income","amount":200,"date":"2024-01-15","income_type":""}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp FieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "income_type")
}

func TestTransactionHandler_Create_ExpenseMissingSubCategory(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"transaction_type":"Expense","amount":50,"date":"2024-01-15","category":"1"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp FieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "subcategory")
}

func TestTransactionHandler_Create_InvalidType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"transaction_type":"Transfer","amount":10,"date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp FieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "transaction_type")
}

func TestTransactionHandler_Create_CategoryNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"transaction_type":"Expense","amount":50,"date":"2024-01-15","category":"99","subcategory":"3"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "类别不存在", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Update_SwitchToExpense(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 已存储的 Income 记录
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "transaction_type", "category_id", "sub_category_id", "income_type_id", "amount", "date", "created_by_id", "created_at", "updated_at", "deleted_at"}).
			AddRow(7, 1, "Income", nil, nil, 5, 200.0, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), 1, time.Now(), time.Now(), nil))

	// 新引用的查找表行
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Food"))
	mock.ExpectQuery("SELECT .* FROM `sub_categories`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category_id"}).AddRow(3, "Restaurant", 1))

	// 切换到 Expense 同时清空 income_type_id
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/transactions/:id", NewTransactionHandler().Update)

	body := `{"transaction_type":"Expense","category":"1","subcategory":"3"}`
	req := httptest.NewRequest("PUT", "/transactions/7", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "更新成功", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Update_SwitchToIncomeMissingIncomeType(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 已存储的 Expense 记录，没有 income_type 可沿用
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "transaction_type", "category_id", "sub_category_id", "income_type_id", "amount", "date", "created_by_id", "created_at", "updated_at", "deleted_at"}).
			AddRow(7, 1, "Expense", 1, 3, nil, 50.0, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), 1, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/transactions/:id", NewTransactionHandler().Update)

	body := `{"transaction_type":"Income"}`
	req := httptest.NewRequest("PUT", "/transactions/7", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp FieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "income_type")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/:id", NewTransactionHandler().Get)

	req := httptest.NewRequest("GET", "/transactions/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
