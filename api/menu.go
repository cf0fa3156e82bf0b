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

// MenuHandler 菜单管理
type MenuHandler struct{}

func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

type MenuCreateRequest struct {
	Name      string `json:"menu_name" binding:"required,min=1,max=50"`
	Path      string `json:"path" binding:"required,max=100"`
	Icon      string `json:"icon" binding:"omitempty,max=50"`
	SortOrder int    `json:"sort_order"`
}

type MenuUpdateRequest struct {
	Name      string  `json:"menu_name" binding:"omitempty,min=1,max=50"`
	Path      string  `json:"path" binding:"omitempty,max=100"`
	Icon      *string `json:"icon" binding:"omitempty,max=50"`
	SortOrder *int    `json:"sort_order"`
}

// List 获取菜单列表
// @Summary 获取菜单列表
// @Tags 菜单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Menu} "获取成功"
// @Router /api/v1/menus [get]
func (h *MenuHandler) List(c *gin.Context) {
	var menus []models.Menu
	if err := database.DB.Order("sort_order ASC, id ASC").Find(&menus).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, menus)
}

// Get 获取单个菜单
// @Summary 获取单个菜单
// @Tags 菜单
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜单ID"
// @Success 200 {object} Response{data=models.Menu} "获取成功"
// @Failure 404 {object} Response "菜单不存在"
// @Router /api/v1/menus/{id} [get]
func (h *MenuHandler) Get(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var menu models.Menu
	if err := database.DB.First(&menu, uint(id64)).Error; err != nil {
		NotFound(c, "菜单不存在")
		return
	}
	Success(c, menu)
}

// Create 创建菜单
// @Summary 创建菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MenuCreateRequest true "菜单信息"
// @Success 200 {object} Response{data=models.Menu} "创建成功"
// @Failure 409 {object} Response "菜单名称已存在"
// @Router /api/v1/menus [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req MenuCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	menu := models.Menu{
		Name:      req.Name,
		Path:      req.Path,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if err := database.DB.Create(&menu).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "菜单名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", menu)
}

// Update 更新菜单
// @Summary 更新菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜单ID"
// @Param request body MenuUpdateRequest true "更新字段"
// @Success 200 {object} Response{data=models.Menu} "更新成功"
// @Failure 404 {object} Response "菜单不存在"
// @Router /api/v1/menus/{id} [put]
func (h *MenuHandler) Update(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var menu models.Menu
	if err := database.DB.First(&menu, uint(id64)).Error; err != nil {
		NotFound(c, "菜单不存在")
		return
	}

	var req MenuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Path != "" {
		updates["path"] = req.Path
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "无需更新", menu)
		return
	}

	if err := database.DB.Model(&menu).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "菜单名称已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	database.DB.First(&menu, menu.ID)
	SuccessWithMessage(c, "更新成功", menu)
}

// Delete 删除菜单
// @Summary 删除菜单
// @Tags 菜单
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜单ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "菜单不存在"
// @Router /api/v1/menus/{id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var menu models.Menu
	if err := database.DB.First(&menu, uint(id64)).Error; err != nil {
		NotFound(c, "菜单不存在")
		return
	}
	if err := database.DB.Delete(&menu).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
