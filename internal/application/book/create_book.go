package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// CreateBookUseCase 新增图书用例
// 流程：
// 1. 事务内：查重 → 插入 → 确保分类存在 → 替换图书分类
// 2. 任一步失败整体回滚，图书与分类关联都不会残留
// 3. 提交后发布book.created事件
type CreateBookUseCase struct {
	tx         Transactor
	books      book.Service
	categories category.Service
	events     event.Publisher
	log        *logger.Logger
}

// NewCreateBookUseCase 创建新增图书用例
func NewCreateBookUseCase(
	tx Transactor,
	books book.Service,
	categories category.Service,
	events event.Publisher,
	log *logger.Logger,
) *CreateBookUseCase {
	return &CreateBookUseCase{
		tx:         tx,
		books:      books,
		categories: categories,
		events:     events,
		log:        log,
	}
}

// CreateBookRequest 新增图书请求
type CreateBookRequest struct {
	Title      string
	Author     string
	Year       *int
	Genre      string
	Categories []string
	Source     string // manual | import，默认manual
	UserID     uint
}

// Execute 执行新增
// 重复时返回带existing_id的DuplicateError，不写入任何数据
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookView, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBook")
	defer span.End()

	source := req.Source
	if source == "" {
		source = SourceManual
	}
	log := logger.FromContext(ctx, uc.log)

	b := book.NewBook(req.Title, req.Author, req.Year, req.Genre)
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.books.Add(ctx, b); err != nil {
			return err
		}
		ids, err := uc.categories.EnsureCategories(ctx, req.Categories)
		if err != nil {
			return err
		}
		return uc.categories.ReplaceCategories(ctx, b.ID, ids)
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeDuplicateEntry) {
			existing, _ := book.ExistingID(err)
			metrics.IncCounterVec(metrics.DuplicateRejectionsTotal, map[string]string{"source": source})
			log.Info("重复图书被拒绝", "title", b.Title, "author", b.Author, "existing_id", existing, "source", source)
		}
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounterVec(metrics.BooksCreatedTotal, map[string]string{"source": source})
	log.Info("图书已创建", "book_id", b.ID, "source", source, "user_id", req.UserID)

	names := loadNames(ctx, uc.categories, b.ID, log)
	uc.events.Publish(ctx, event.BookCreated, event.BookEvent{
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Year:       b.Year,
		Genre:      b.Genre,
		Categories: names,
		Source:     source,
		UserID:     req.UserID,
		OccurredAt: time.Now().UTC(),
	})

	view := newBookView(b, names)
	return &view, nil
}

// loadNames 写入提交后读取分类展示名
// 写入已经成功，读取失败只记日志并返回空列表
func loadNames(ctx context.Context, categories category.Service, bookID uint, log *logger.Logger) []string {
	byBook, err := categories.NamesForBooks(ctx, []uint{bookID})
	if err != nil {
		log.Warn("读取图书分类失败", "book_id", bookID, "error", err)
		return []string{}
	}
	return byBook[bookID]
}
