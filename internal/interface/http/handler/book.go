package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
// 只负责解析请求、调用用例、返回响应；查重与校验规则在应用层和领域层
type BookHandler struct {
	createBook *appbook.CreateBookUseCase
	updateBook *appbook.UpdateBookUseCase
	deleteBook *appbook.DeleteBookUseCase
	getBook    *appbook.GetBookUseCase
	listBooks  *appbook.ListBooksUseCase
	listGenres *appbook.ListGenresUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBook *appbook.CreateBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
	getBook *appbook.GetBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	listGenres *appbook.ListGenresUseCase,
) *BookHandler {
	return &BookHandler{
		createBook: createBook,
		updateBook: updateBook,
		deleteBook: deleteBook,
		getBook:    getBook,
		listBooks:  listBooks,
		listGenres: listGenres,
	}
}

// CreateBook 新增图书
// @Summary      新增图书
// @Description  同一书名+作者（+年份）已存在时拒绝，data.existing_id为已有图书ID
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      200 {object} response.Response "40900参数错误 / 40009重复图书"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.createBook.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:      req.Title,
		Author:     req.Author,
		Year:       req.Year,
		Genre:      req.Genre,
		Categories: req.Categories,
		Source:     appbook.SourceManual,
		UserID:     middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 编辑图书
// @Summary      编辑图书
// @Description  整体替换书目字段与分类；categories为空数组时清空分类
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int              true "图书ID"
// @Param        request body dto.BookRequest  true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      200 {object} response.Response "40402图书不存在 / 40009与其他图书重复"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var uri dto.BookURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.updateBook.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:         uri.ID,
		Title:      req.Title,
		Author:     req.Author,
		Year:       req.Year,
		Genre:      req.Genre,
		Categories: req.Categories,
		UserID:     middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  同时删除该书的分类关联与全部评分
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40402图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	var uri dto.BookURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	if err := h.deleteBook.Execute(c.Request.Context(), uri.ID, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": uri.ID})
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  含分类、评分统计；携带Token时额外返回my_rating
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      200 {object} response.Response "40402图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	var uri dto.BookURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.getBook.Execute(c.Request.Context(), uri.ID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  按书名/作者关键词、类型、分类过滤，每页10条，按ID倒序
// @Tags         图书
// @Produce      json
// @Param        q           query string false "书名或作者关键词"
// @Param        genre       query string false "类型"
// @Param        category_id query int    false "分类ID"
// @Param        page        query int    false "页码" default(1)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Q:          q.Q,
		Genre:      q.Genre,
		CategoryID: q.CategoryID,
		Page:       q.Page,
		UserID:     middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListGenres 类型下拉选项
// @Summary      类型列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]string}
// @Router       /api/v1/books/genres [get]
func (h *BookHandler) ListGenres(c *gin.Context) {
	genres, err := h.listGenres.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, genres)
}
