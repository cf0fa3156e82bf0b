package api

import (
	"errors"
	"strconv"
	"strings"

	"budgetbook/database"
	"budgetbook/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// IncomeTypeHandler 收入类型管理
type IncomeTypeHandler struct{}

func NewIncomeTypeHandler() *IncomeTypeHandler {
	return &IncomeTypeHandler{}
}

type IncomeTypeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// List 获取收入类型列表
// @Summary 获取收入类型列表
// @Tags 查找表-收入类型
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.IncomeType} "获取成功"
// @Router /api/v1/income-types [get]
func (h *IncomeTypeHandler) List(c *gin.Context) {
	var list []models.IncomeType
	if err := database.DB.Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建收入类型
// @Summary 创建收入类型
// @Tags 查找表-收入类型
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IncomeTypeRequest true "收入类型信息"
// @Success 200 {object} Response{data=models.IncomeType} "创建成功"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/v1/income-types [post]
func (h *IncomeTypeHandler) Create(c *gin.Context) {
	var req IncomeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	it := models.IncomeType{Name: req.Name}
	if err := database.DB.Create(&it).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "收入类型名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", it)
}

// Update 更新收入类型
// @Summary 更新收入类型
// @Tags 查找表-收入类型
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入类型ID"
// @Param request body IncomeTypeRequest true "收入类型信息"
// @Success 200 {object} Response{data=models.IncomeType} "更新成功"
// @Failure 404 {object} Response "收入类型不存在"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/v1/income-types/{id} [put]
func (h *IncomeTypeHandler) Update(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var it models.IncomeType
	if err := database.DB.First(&it, uint(id64)).Error; err != nil {
		NotFound(c, "收入类型不存在")
		return
	}

	var req IncomeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	if err := database.DB.Model(&it).Update("name", req.Name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "收入类型名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	database.DB.First(&it, it.ID)
	SuccessWithMessage(c, "更新成功", it)
}

// Delete 删除收入类型
// @Summary 删除收入类型
// @Description 删除收入类型。引用它的交易记录保留，引用字段置空。
// @Tags 查找表-收入类型
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入类型ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "收入类型不存在"
// @Router /api/v1/income-types/{id} [delete]
func (h *IncomeTypeHandler) Delete(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var it models.IncomeType
	if err := database.DB.First(&it, uint(id64)).Error; err != nil {
		NotFound(c, "收入类型不存在")
		return
	}
	if err := database.DB.Delete(&it).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
