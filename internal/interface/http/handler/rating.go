package handler

import (
	"github.com/gin-gonic/gin"

	apprating "github.com/xiebiao/bookcatalog/internal/application/rating"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// RatingHandler 评分HTTP处理器
type RatingHandler struct {
	rateBook    *apprating.RateBookUseCase
	getMyRating *apprating.GetMyRatingUseCase
}

// NewRatingHandler 创建评分处理器
func NewRatingHandler(rateBook *apprating.RateBookUseCase, getMyRating *apprating.GetMyRatingUseCase) *RatingHandler {
	return &RatingHandler{rateBook: rateBook, getMyRating: getMyRating}
}

// RateBook 评分
// @Summary      给图书评分
// @Description  每个用户对每本书只有一条评分，重复提交覆盖旧值
// @Tags         评分
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int               true "图书ID"
// @Param        request body dto.RatingRequest true "1-5星"
// @Success      200 {object} response.Response{data=apprating.RateBookResponse}
// @Failure      200 {object} response.Response "40900评分越界 / 40402图书不存在"
// @Router       /api/v1/books/{id}/rating [put]
func (h *RatingHandler) RateBook(c *gin.Context) {
	var uri dto.BookURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.rateBook.Execute(c.Request.Context(), middleware.MustGetUserID(c), uri.ID, req.Stars)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetMyRating 我的评分
// @Summary      查询我对某本书的评分
// @Tags         评分
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=apprating.MyRatingResponse}
// @Router       /api/v1/books/{id}/rating [get]
func (h *RatingHandler) GetMyRating(c *gin.Context) {
	var uri dto.BookURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.getMyRating.Execute(c.Request.Context(), middleware.MustGetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
