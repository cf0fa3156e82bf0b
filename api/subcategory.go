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

// SubCategoryHandler 子类别管理
type SubCategoryHandler struct{}

func NewSubCategoryHandler() *SubCategoryHandler {
	return &SubCategoryHandler{}
}

type SubCategoryCreateRequest struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Icon       string `json:"icon" binding:"omitempty,max=30"`
}

type SubCategoryUpdateRequest struct {
	CategoryID *uint   `json:"category_id"`
	Name       string  `json:"name" binding:"omitempty,min=1,max=100"`
	Icon       *string `json:"icon" binding:"omitempty,max=30"`
}

// List 列出子类别，可按所属类别过滤
// @Summary 获取子类别列表
// @Tags 查找表-子类别
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "按所属类别过滤"
// @Success 200 {object} Response{data=[]models.SubCategory} "获取成功"
// @Router /api/v1/subcategories [get]
func (h *SubCategoryHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.SubCategory{})
	if raw := c.Query("category_id"); raw != "" {
		catID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			BadRequest(c, "无效的 category_id")
			return
		}
		query = query.Where("category_id = ?", catID)
	}

	var list []models.SubCategory
	if err := query.Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建子类别
// @Summary 创建子类别
// @Description 子类别必须挂在一个已存在的类别之下，名称全局唯一
// @Tags 查找表-子类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubCategoryCreateRequest true "子类别信息"
// @Success 200 {object} Response{data=models.SubCategory} "创建成功"
// @Failure 404 {object} Response "所属类别不存在"
// @Failure 409 {object} Response "子类别名称已存在"
// @Router /api/v1/subcategories [post]
func (h *SubCategoryHandler) Create(c *gin.Context) {
	var req SubCategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	var cat models.Category
	if err := database.DB.First(&cat, req.CategoryID).Error; err != nil {
		NotFound(c, "所属类别不存在")
		return
	}

	icon := req.Icon
	if icon == "" {
		icon = models.DefaultIcon
	}
	sub := models.SubCategory{CategoryID: cat.ID, Name: req.Name, Icon: icon}
	if err := database.DB.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "子类别名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", sub)
}

// Update 更新子类别
// @Summary 更新子类别
// @Tags 查找表-子类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "子类别ID"
// @Param request body SubCategoryUpdateRequest true "更新的子类别信息"
// @Success 200 {object} Response{data=models.SubCategory} "更新成功"
// @Failure 404 {object} Response "子类别不存在"
// @Failure 409 {object} Response "子类别名称已存在"
// @Router /api/v1/subcategories/{id} [put]
func (h *SubCategoryHandler) Update(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var sub models.SubCategory
	if err := database.DB.First(&sub, uint(id64)).Error; err != nil {
		NotFound(c, "子类别不存在")
		return
	}

	var req SubCategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		var cat models.Category
		if err := database.DB.First(&cat, *req.CategoryID).Error; err != nil {
			NotFound(c, "所属类别不存在")
			return
		}
		updates["category_id"] = cat.ID
	}
	if req.Name != "" {
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			BadRequest(c, "名称不能为空")
			return
		}
		updates["name"] = req.Name
	}
	if req.Icon != nil {
		icon := *req.Icon
		if icon == "" {
			icon = models.DefaultIcon
		}
		updates["icon"] = icon
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "无需更新", sub)
		return
	}

	if err := database.DB.Model(&sub).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "子类别名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	database.DB.First(&sub, sub.ID)
	SuccessWithMessage(c, "更新成功", sub)
}

// Delete 删除子类别
// @Summary 删除子类别
// @Description 删除子类别。引用它的交易记录保留，引用字段置空。
// @Tags 查找表-子类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "子类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "子类别不存在"
// @Router /api/v1/subcategories/{id} [delete]
func (h *SubCategoryHandler) Delete(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var sub models.SubCategory
	if err := database.DB.First(&sub, uint(id64)).Error; err != nil {
		NotFound(c, "子类别不存在")
		return
	}
	if err := database.DB.Delete(&sub).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
