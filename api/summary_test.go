package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_GetSummary(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 收入合计
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(1, "Income").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(200.0))
	// 支出合计
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(1, "Expense").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(100.0))
	// 按类别的支出分布
	mock.ExpectQuery("SELECT categories.name AS category").
		WithArgs(1, "Expense").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total"}).
			AddRow("Food", 100.0))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/summary", NewTransactionHandler().GetSummary)

	req := httptest.NewRequest("GET", "/transactions/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Code int             `json:"code"`
		Data SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 200.0, resp.Data.TotalIncome)
	assert.Equal(t, 100.0, resp.Data.TotalExpense)
	assert.Equal(t, 100.0, resp.Data.TotalBalance)
	require.Len(t, resp.Data.GraphData, 1)
	require.NotNil(t, resp.Data.GraphData[0].Category)
	assert.Equal(t, "Food", *resp.Data.GraphData[0].Category)
	assert.Equal(t, 100.0, resp.Data.GraphData[0].Total)

	// 只有一个类别时首尾相同
	require.NotNil(t, resp.Data.HighestCategory)
	require.NotNil(t, resp.Data.LowestCategory)
	assert.Equal(t, *resp.Data.GraphData[0].Category, *resp.Data.HighestCategory.Category)
	assert.Equal(t, *resp.Data.GraphData[0].Category, *resp.Data.LowestCategory.Category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_GetSummary_Ordering(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(1, "Income").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0.0))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(1, "Expense").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(450.0))
	// 金额降序，类别已删除的行归入 null 组
	mock.ExpectQuery("SELECT categories.name AS category").
		WithArgs(1, "Expense").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total"}).
			AddRow("Transport", 300.0).
			AddRow("Food", 100.0).
			AddRow(nil, 50.0))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/summary", NewTransactionHandler().GetSummary)

	req := httptest.NewRequest("GET", "/transactions/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Data.GraphData, 3)
	require.NotNil(t, resp.Data.HighestCategory)
	assert.Equal(t, "Transport", *resp.Data.HighestCategory.Category)
	require.NotNil(t, resp.Data.LowestCategory)
	assert.Nil(t, resp.Data.LowestCategory.Category)
	assert.Equal(t, 50.0, resp.Data.LowestCategory.Total)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_GetSummary_Empty(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(1, "Income").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0.0))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(1, "Expense").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0.0))
	mock.ExpectQuery("SELECT categories.name AS category").
		WithArgs(1, "Expense").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total"}))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/summary", NewTransactionHandler().GetSummary)

	req := httptest.NewRequest("GET", "/transactions/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Nil(t, resp.Data.HighestCategory)
	assert.Nil(t, resp.Data.LowestCategory)
	assert.Empty(t, resp.Data.GraphData)

	require.NoError(t, mock.ExpectationsWereMet())
}
