package rating

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "application/rating"

// RateBookResponse 评分结果：本人评分与最新统计
type RateBookResponse struct {
	BookID uint         `json:"book_id"`
	Stars  int          `json:"stars"`
	Stats  rating.Stats `json:"rating"`
}

// RateBookUseCase 评分用例
// 同一用户对同一本书重复评分时覆盖原评分
type RateBookUseCase struct {
	ratings rating.Service
	events  event.Publisher
	log     *logger.Logger
}

// NewRateBookUseCase 创建评分用例
func NewRateBookUseCase(ratings rating.Service, events event.Publisher, log *logger.Logger) *RateBookUseCase {
	return &RateBookUseCase{ratings: ratings, events: events, log: log}
}

func (uc *RateBookUseCase) Execute(ctx context.Context, userID, bookID uint, stars int) (*RateBookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RateBook")
	defer span.End()

	r, err := uc.ratings.Rate(ctx, userID, bookID, stars)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	metrics.IncCounter(metrics.RatingsUpsertedTotal)
	logger.FromContext(ctx, uc.log).Info("评分已保存", "book_id", bookID, "user_id", userID, "stars", stars)

	uc.events.Publish(ctx, event.RatingUpserted, event.RatingEvent{
		BookID:     bookID,
		UserID:     userID,
		Stars:      r.Stars,
		OccurredAt: time.Now().UTC(),
	})

	stats, err := uc.ratings.GetStats(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &RateBookResponse{BookID: bookID, Stars: r.Stars, Stats: stats}, nil
}

// MyRatingResponse 本人评分，未评分时Stars为null
type MyRatingResponse struct {
	BookID uint         `json:"book_id"`
	Stars  *int         `json:"stars"`
	Stats  rating.Stats `json:"rating"`
}

// GetMyRatingUseCase 查询本人评分
type GetMyRatingUseCase struct {
	ratings rating.Service
	books   rating.BookChecker
}

// NewGetMyRatingUseCase 创建查询本人评分用例
func NewGetMyRatingUseCase(ratings rating.Service, books rating.BookChecker) *GetMyRatingUseCase {
	return &GetMyRatingUseCase{ratings: ratings, books: books}
}

func (uc *GetMyRatingUseCase) Execute(ctx context.Context, userID, bookID uint) (*MyRatingResponse, error) {
	ok, err := uc.books.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, book.ErrBookNotFound
	}

	stars, err := uc.ratings.GetUserRating(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	stats, err := uc.ratings.GetStats(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &MyRatingResponse{BookID: bookID, Stars: stars, Stats: stats}, nil
}
