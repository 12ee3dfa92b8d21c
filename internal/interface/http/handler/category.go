package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/bookcatalog/internal/application/category"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	list   *appcategory.ListCategoriesUseCase
	create *appcategory.CreateCategoryUseCase
	delete *appcategory.DeleteCategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(
	list *appcategory.ListCategoriesUseCase,
	create *appcategory.CreateCategoryUseCase,
	del *appcategory.DeleteCategoryUseCase,
) *CategoryHandler {
	return &CategoryHandler{list: list, create: create, delete: del}
}

// ListCategories 分类列表
// @Summary      分类列表
// @Description  按名称排序，附带每个分类下的图书数量
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]appcategory.CategoryView}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	result, err := h.list.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateCategory 新建分类
// @Summary      新建分类
// @Description  名称忽略大小写去重，已存在时返回已有分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类名称"
// @Success      200 {object} response.Response{data=appcategory.CategoryView}
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.create.Execute(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteCategory 删除分类
// @Summary      删除分类
// @Description  仍有图书使用时拒绝删除，data.deleted=false并给出in_use数量
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=category.DeleteResult}
// @Failure      200 {object} response.Response "40403分类不存在"
// @Router       /api/v1/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	var uri dto.CategoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.delete.Execute(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
