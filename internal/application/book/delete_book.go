package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例
// 分类关联与评分由外键级联删除，评分统计缓存随后失效
type DeleteBookUseCase struct {
	books   book.Service
	ratings rating.Service
	events  event.Publisher
	log     *logger.Logger
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(books book.Service, ratings rating.Service, events event.Publisher, log *logger.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{books: books, ratings: ratings, events: events, log: log}
}

// Execute 删除图书，不存在返回ErrBookNotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id, userID uint) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBook")
	defer span.End()

	if err := uc.books.Remove(ctx, id); err != nil {
		tracing.RecordError(span, err)
		return err
	}
	uc.ratings.Forget(ctx, id)

	logger.FromContext(ctx, uc.log).Info("图书已删除", "book_id", id, "user_id", userID)
	uc.events.Publish(ctx, event.BookDeleted, event.BookEvent{
		BookID:     id,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
