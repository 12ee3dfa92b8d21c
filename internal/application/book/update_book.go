package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// UpdateBookUseCase 编辑图书用例
// 除ID与创建时间外的字段整体替换，分类同样整体替换（空列表表示清空）
type UpdateBookUseCase struct {
	tx         Transactor
	books      book.Service
	categories category.Service
	events     event.Publisher
	log        *logger.Logger
}

// NewUpdateBookUseCase 创建编辑图书用例
func NewUpdateBookUseCase(
	tx Transactor,
	books book.Service,
	categories category.Service,
	events event.Publisher,
	log *logger.Logger,
) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		tx:         tx,
		books:      books,
		categories: categories,
		events:     events,
		log:        log,
	}
}

// UpdateBookRequest 编辑图书请求
type UpdateBookRequest struct {
	ID         uint
	Title      string
	Author     string
	Year       *int
	Genre      string
	Categories []string
	UserID     uint
}

// Execute 执行编辑
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookView, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateBook")
	defer span.End()

	var b *book.Book
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = uc.books.Get(ctx, req.ID)
		if err != nil {
			return err
		}
		b.Revise(req.Title, req.Author, req.Year, req.Genre)
		if err := uc.books.Revise(ctx, b); err != nil {
			return err
		}
		ids, err := uc.categories.EnsureCategories(ctx, req.Categories)
		if err != nil {
			return err
		}
		return uc.categories.ReplaceCategories(ctx, b.ID, ids)
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	log := logger.FromContext(ctx, uc.log)
	log.Info("图书已更新", "book_id", b.ID, "user_id", req.UserID)

	names := loadNames(ctx, uc.categories, b.ID, log)
	uc.events.Publish(ctx, event.BookUpdated, event.BookEvent{
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Year:       b.Year,
		Genre:      b.Genre,
		Categories: names,
		UserID:     req.UserID,
		OccurredAt: time.Now().UTC(),
	})

	view := newBookView(b, names)
	return &view, nil
}
