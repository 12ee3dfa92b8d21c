package book

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/normalize"
)

// memRepo 内存仓储，只用于领域服务测试
type memRepo struct {
	mu     sync.Mutex
	nextID uint
	books  map[uint]*Book
	params ListParams
}

func newMemRepo() *memRepo {
	return &memRepo{books: make(map[uint]*Book)}
}

func (r *memRepo) Create(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return ErrBookNotFound
	}
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) Exists(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.books[id]
	return ok, nil
}

func (r *memRepo) FindExisting(_ context.Context, title, author string, year *int, excludeID uint) (uint, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for id, b := range r.books {
		if id == excludeID || b.TitleKey() != normalize.Key(title) || b.AuthorKey() != normalize.Key(author) {
			continue
		}
		if (b.Year == nil) != (year == nil) || (year != nil && *b.Year != *year) {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], true, nil
}

func (r *memRepo) List(_ context.Context, params ListParams) ([]*Book, int64, error) {
	r.params = params
	return nil, int64(len(r.books)), nil
}

func (r *memRepo) Genres(context.Context) ([]string, error) { return nil, nil }

func TestService_AddRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	first := NewBook("Cien años de soledad", "Gabriel García Márquez", intPtr(1967), "")
	require.NoError(t, svc.Add(ctx, first))

	dup := NewBook("  CIEN AÑOS DE SOLEDAD ", "gabriel garcía márquez", intPtr(1967), "Novela")
	err := svc.Add(ctx, dup)
	require.ErrorIs(t, err, ErrDuplicate)
	id, ok := ExistingID(err)
	require.True(t, ok)
	assert.Equal(t, first.ID, id)
	assert.Zero(t, dup.ID, "重复时不应写入")
}

func TestService_AddYearPresenceMatters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	require.NoError(t, svc.Add(ctx, NewBook("Dune", "Herbert", nil, "")))
	assert.NoError(t, svc.Add(ctx, NewBook("Dune", "Herbert", intPtr(1965), "")), "一个NULL一个非NULL不算重复")
	assert.NoError(t, svc.Add(ctx, NewBook("Dune", "Herbert", intPtr(1966), "")), "年份不同不算重复")
	assert.ErrorIs(t, svc.Add(ctx, NewBook("dune", "HERBERT", nil, "")), ErrDuplicate)
}

func TestService_AddValidatesFirst(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	err := svc.Add(context.Background(), NewBook("", "Herbert", nil, ""))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, repo.books)
}

func TestService_ReviseExcludesSelf(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	a := NewBook("Dune", "Herbert", intPtr(1965), "")
	b := NewBook("Emma", "Austen", intPtr(1815), "")
	require.NoError(t, svc.Add(ctx, a))
	require.NoError(t, svc.Add(ctx, b))

	// 只改类型，不应与自身冲突
	a.Revise("DUNE", "Herbert", intPtr(1965), "Sci-Fi")
	assert.NoError(t, svc.Revise(ctx, a))

	// 改成与另一本相同
	b.Revise("Dune", "herbert", intPtr(1965), "")
	err := svc.Revise(ctx, b)
	require.ErrorIs(t, err, ErrDuplicate)
	id, _ := ExistingID(err)
	assert.Equal(t, a.ID, id)
}

func TestService_ListNormalizesParams(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), ListParams{Filter: Filter{Q: "  dune ", Genre: " Sci-Fi "}, Page: -3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "dune", repo.params.Q)
	assert.Equal(t, "Sci-Fi", repo.params.Genre)
	assert.Equal(t, 1, repo.params.Page)
	offset, _ := repo.params.Offset()
	assert.Equal(t, 0, offset)
}
