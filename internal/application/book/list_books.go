package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 过滤条件(q、genre、category_id)之间为AND关系
// 2. 按ID倒序，每页固定10条
// 3. 分类名、评分统计、当前用户评分按整页批量查询，不逐行查询
type ListBooksUseCase struct {
	books      book.Service
	categories category.Service
	ratings    rating.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(books book.Service, categories category.Service, ratings rating.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		books:      books,
		categories: categories,
		ratings:    ratings,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Q          string // 书名或作者关键词
	Genre      string // 类型
	CategoryID uint   // 分类ID
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量(上限10)
	UserID     uint   // 当前登录用户，0表示匿名
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookView `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 执行列表查询
// 页码超出范围时返回空列表与正确的总数
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks")
	defer span.End()

	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > book.PageSize {
		req.PageSize = book.PageSize
	}

	// 2. 查询当前页与总数
	start := time.Now()
	books, total, err := uc.books.List(ctx, book.ListParams{
		Filter: book.Filter{
			Q:          req.Q,
			Genre:      req.Genre,
			CategoryID: req.CategoryID,
		},
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	metrics.ObserveHistogram(metrics.CatalogQueryDuration, time.Since(start).Seconds())
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	// 3. 批量补充分类、评分
	list, err := uc.enrich(ctx, books, req.UserID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	// 4. 计算总页数
	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (uc *ListBooksUseCase) enrich(ctx context.Context, books []*book.Book, userID uint) ([]BookView, error) {
	list := make([]BookView, 0, len(books))
	if len(books) == 0 {
		return list, nil
	}

	ids := make([]uint, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}

	names, err := uc.categories.NamesForBooks(ctx, ids)
	if err != nil {
		return nil, err
	}
	stats, err := uc.ratings.StatsForBooks(ctx, ids)
	if err != nil {
		return nil, err
	}
	mine, err := uc.ratings.UserRatings(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	for _, b := range books {
		v := newBookView(b, names[b.ID])
		v.Rating = stats[b.ID]
		if stars, ok := mine[b.ID]; ok {
			s := stars
			v.MyRating = &s
		}
		list = append(list, v)
	}
	return list, nil
}

// ListGenresUseCase 类型列表(筛选项)
type ListGenresUseCase struct {
	books book.Service
}

// NewListGenresUseCase 创建类型列表用例
func NewListGenresUseCase(books book.Service) *ListGenresUseCase {
	return &ListGenresUseCase{books: books}
}

// Execute 返回目录中出现过的类型
func (uc *ListGenresUseCase) Execute(ctx context.Context) ([]string, error) {
	genres, err := uc.books.Genres(ctx)
	if err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []string{}
	}
	return genres, nil
}
