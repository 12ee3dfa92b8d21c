package handler

import (
	"github.com/gin-gonic/gin"

	applookup "github.com/xiebiao/bookcatalog/internal/application/lookup"
	"github.com/xiebiao/bookcatalog/internal/domain/lookup"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// LookupHandler 外部书目检索与导入
type LookupHandler struct {
	search *applookup.SearchUseCase
	imp    *applookup.ImportUseCase
}

// NewLookupHandler 创建检索处理器
func NewLookupHandler(search *applookup.SearchUseCase, imp *applookup.ImportUseCase) *LookupHandler {
	return &LookupHandler{search: search, imp: imp}
}

// Search 检索外部书目
// @Summary      检索Google Books
// @Tags         检索导入
// @Produce      json
// @Security     BearerAuth
// @Param        q     query string true  "关键词"
// @Param        limit query int    false "返回条数（最多40）"
// @Success      200 {object} response.Response{data=[]lookup.Candidate}
// @Failure      200 {object} response.Response "50300外部检索不可用"
// @Router       /api/v1/lookup/books [get]
func (h *LookupHandler) Search(c *gin.Context) {
	var q dto.LookupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.search.Execute(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result == nil {
		result = []lookup.Candidate{}
	}
	response.Success(c, result)
}

// Import 导入检索结果
// @Summary      导入一条检索结果
// @Description  与手工新增走同一套查重规则，重复时返回existing_id
// @Tags         检索导入
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ImportRequest true "候选图书"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      200 {object} response.Response "40009重复图书"
// @Router       /api/v1/lookup/books/import [post]
func (h *LookupHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.imp.Execute(c.Request.Context(), middleware.MustGetUserID(c), lookup.Candidate{
		Title:      req.Title,
		Author:     req.Author,
		Year:       req.Year,
		Genre:      req.Genre,
		Categories: req.Categories,
		Thumbnail:  req.Thumbnail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
