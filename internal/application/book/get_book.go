package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	books      book.Service
	categories category.Service
	ratings    rating.Service
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(books book.Service, categories category.Service, ratings rating.Service) *GetBookUseCase {
	return &GetBookUseCase{books: books, categories: categories, ratings: ratings}
}

// Execute userID为0表示匿名访问，不返回my_rating
func (uc *GetBookUseCase) Execute(ctx context.Context, id, userID uint) (*BookView, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBook")
	defer span.End()

	b, err := uc.books.Get(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	names, err := uc.categories.NamesForBooks(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	stats, err := uc.ratings.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}

	view := newBookView(b, names[id])
	view.Rating = stats
	if userID != 0 {
		mine, err := uc.ratings.GetUserRating(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		view.MyRating = mine
	}
	return &view, nil
}
