package lookup

import (
	"context"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/lookup"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "application/lookup"

// SearchUseCase 外部检索
type SearchUseCase struct {
	searcher lookup.Searcher
}

// NewSearchUseCase 创建外部检索用例
func NewSearchUseCase(searcher lookup.Searcher) *SearchUseCase {
	return &SearchUseCase{searcher: searcher}
}

func (uc *SearchUseCase) Execute(ctx context.Context, query string, limit int) ([]lookup.Candidate, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SearchLookup")
	defer span.End()

	cands, err := uc.searcher.Search(ctx, query, limit)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return cands, nil
}

// ImportUseCase 导入一条检索结果
// 与手工录入走同一个创建流程，重复时同样返回带existing_id的错误
type ImportUseCase struct {
	create *appbook.CreateBookUseCase
}

// NewImportUseCase 创建导入用例
func NewImportUseCase(create *appbook.CreateBookUseCase) *ImportUseCase {
	return &ImportUseCase{create: create}
}

func (uc *ImportUseCase) Execute(ctx context.Context, userID uint, c lookup.Candidate) (*appbook.BookView, error) {
	return uc.create.Execute(ctx, appbook.CreateBookRequest{
		Title:      c.Title,
		Author:     c.Author,
		Year:       c.Year,
		Genre:      c.Genre,
		Categories: c.Categories,
		Source:     appbook.SourceImport,
		UserID:     userID,
	})
}
