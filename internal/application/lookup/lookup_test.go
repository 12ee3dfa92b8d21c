package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/internal/domain/lookup"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database/dbtest"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

type stubSearcher struct {
	results []lookup.Candidate
	err     error
}

func (s stubSearcher) Search(context.Context, string, int) ([]lookup.Candidate, error) {
	return s.results, s.err
}

func TestSearch(t *testing.T) {
	uc := NewSearchUseCase(stubSearcher{err: lookup.ErrUnavailable})
	_, err := uc.Execute(context.Background(), "dune", 5)
	assert.ErrorIs(t, err, lookup.ErrUnavailable)

	year := 1965
	uc = NewSearchUseCase(stubSearcher{results: []lookup.Candidate{{Title: "Dune", Author: "Frank Herbert", Year: &year}}})
	got, err := uc.Execute(context.Background(), "dune", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestImport_GoesThroughDuplicateGuard(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	create := appbook.NewCreateBookUseCase(
		database.NewTxManager(db),
		book.NewService(database.NewBookRepository(db)),
		category.NewService(database.NewCategoryRepository(db)),
		event.NopPublisher{},
		logger.Nop(),
	)
	uc := NewImportUseCase(create)

	year := 1967
	cand := lookup.Candidate{
		Title:      "Cien años de soledad",
		Author:     "Gabriel García Márquez",
		Year:       &year,
		Genre:      "Fiction",
		Categories: []string{"Fiction", "Magic realism"},
	}

	v, err := uc.Execute(ctx, 1, cand)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "Magic realism"}, v.Categories)
	require.NotNil(t, v.Genre)
	assert.Equal(t, "Fiction", *v.Genre)

	// 手工录入同一本书同样被拒绝
	_, err = create.Execute(ctx, appbook.CreateBookRequest{Title: cand.Title, Author: cand.Author, Year: &year})
	id, ok := book.ExistingID(err)
	require.True(t, ok)
	assert.Equal(t, v.ID, id)

	_, err = uc.Execute(ctx, 1, cand)
	id, ok = book.ExistingID(err)
	require.True(t, ok)
	assert.Equal(t, v.ID, id)
}
