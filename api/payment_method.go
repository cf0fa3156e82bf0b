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

// PaymentMethodHandler 支付方式管理
type PaymentMethodHandler struct{}

func NewPaymentMethodHandler() *PaymentMethodHandler {
	return &PaymentMethodHandler{}
}

type PaymentMethodRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// List 获取支付方式列表
// @Summary 获取支付方式列表
// @Tags 查找表-支付方式
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.PaymentMethod} "获取成功"
// @Router /api/v1/payment-methods [get]
func (h *PaymentMethodHandler) List(c *gin.Context) {
	var list []models.PaymentMethod
	if err := database.DB.Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建支付方式
// @Summary 创建支付方式
// @Tags 查找表-支付方式
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PaymentMethodRequest true "支付方式信息"
// @Success 200 {object} Response{data=models.PaymentMethod} "创建成功"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/v1/payment-methods [post]
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	pm := models.PaymentMethod{Name: req.Name}
	if err := database.DB.Create(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "支付方式名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", pm)
}

// Update 更新支付方式
// @Summary 更新支付方式
// @Tags 查找表-支付方式
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "支付方式ID"
// @Param request body PaymentMethodRequest true "支付方式信息"
// @Success 200 {object} Response{data=models.PaymentMethod} "更新成功"
// @Failure 404 {object} Response "支付方式不存在"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/v1/payment-methods/{id} [put]
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var pm models.PaymentMethod
	if err := database.DB.First(&pm, uint(id64)).Error; err != nil {
		NotFound(c, "支付方式不存在")
		return
	}

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	if err := database.DB.Model(&pm).Update("name", req.Name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "支付方式名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	database.DB.First(&pm, pm.ID)
	SuccessWithMessage(c, "更新成功", pm)
}

// Delete 删除支付方式
// @Summary 删除支付方式
// @Description 删除支付方式。引用它的交易记录保留，引用字段置空。
// @Tags 查找表-支付方式
// @Produce json
// @Security BearerAuth
// @Param id path int true "支付方式ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "支付方式不存在"
// @Router /api/v1/payment-methods/{id} [delete]
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var pm models.PaymentMethod
	if err := database.DB.First(&pm, uint(id64)).Error; err != nil {
		NotFound(c, "支付方式不存在")
		return
	}
	if err := database.DB.Delete(&pm).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
