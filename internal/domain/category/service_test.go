package category

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	nextID uint
	byKey  map[string]*Category
	links  map[uint][]uint
	inUse  map[uint]int64
}

func newMemRepo() *memRepo {
	return &memRepo{byKey: map[string]*Category{}, links: map[uint][]uint{}, inUse: map[uint]int64{}}
}

func (r *memRepo) InsertIgnore(_ context.Context, cats []*Category) error {
	for _, c := range cats {
		if _, ok := r.byKey[c.Key()]; ok {
			continue
		}
		r.nextID++
		r.byKey[c.Key()] = &Category{ID: r.nextID, Name: c.Name}
	}
	return nil
}

func (r *memRepo) IDsByKeys(_ context.Context, keys []string) (map[string]uint, error) {
	out := map[string]uint{}
	for _, k := range keys {
		if c, ok := r.byKey[k]; ok {
			out[k] = c.ID
		}
	}
	return out, nil
}

func (r *memRepo) FindByKey(_ context.Context, key string) (*Category, error) {
	if c, ok := r.byKey[key]; ok {
		return c, nil
	}
	return nil, ErrCategoryNotFound
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Category, error) {
	for _, c := range r.byKey {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (r *memRepo) ReplaceForBook(_ context.Context, bookID uint, ids []uint) error {
	r.links[bookID] = ids
	return nil
}

func (r *memRepo) NamesForBooks(context.Context, []uint) (map[uint][]string, error) {
	return map[uint][]string{}, nil
}

func (r *memRepo) ListWithCounts(context.Context) ([]*Category, error) { return nil, nil }

func (r *memRepo) DeleteIfUnused(ctx context.Context, id uint) (bool, int64, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return false, 0, err
	}
	if n := r.inUse[id]; n > 0 {
		return false, n, nil
	}
	delete(r.byKey, c.Key())
	return true, 0, nil
}

func TestNormalizeNames(t *testing.T) {
	cats := NormalizeNames([]string{"A", "a", "  A  ", "", "Ciencia  Ficción", "ciencia ficción", "B"})
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"A", "Ciencia Ficción", "B"}, names)
}

func TestEnsureCategories_FoldsCase(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	ids, err := svc.EnsureCategories(context.Background(), []string{"A", "a", "  A  ", ""})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Len(t, repo.byKey, 1)
	assert.Equal(t, "A", repo.byKey["a"].Name)
}

func TestEnsureCategories_ReusesExisting(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	first, err := svc.EnsureCategories(ctx, []string{"Sci-Fi", "Classics"})
	require.NoError(t, err)
	second, err := svc.EnsureCategories(ctx, []string{"classics", "SCI-FI", "Poetry"})
	require.NoError(t, err)

	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[1])
	assert.NotContains(t, first, second[2])
}

func TestEnsureCategories_Empty(t *testing.T) {
	ids, err := NewService(newMemRepo()).EnsureCategories(context.Background(), []string{" ", ""})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEnsureCategories_TooLong(t *testing.T) {
	_, err := NewService(newMemRepo()).EnsureCategories(context.Background(), []string{strings.Repeat("x", 101)})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestReplaceCategories_Dedups(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, NewService(repo).ReplaceCategories(context.Background(), 7, []uint{3, 1, 3}))
	assert.Equal(t, []uint{3, 1}, repo.links[7])
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	c, err := svc.Create(ctx, "  Poesía  ")
	require.NoError(t, err)
	assert.Equal(t, "Poesía", c.Name)

	again, err := svc.Create(ctx, "POESÍA")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, "Poesía", again.Name, "保留首次出现的写法")

	_, err = svc.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo)

	ids, err := svc.EnsureCategories(ctx, []string{"Used", "Unused"})
	require.NoError(t, err)
	repo.inUse[ids[0]] = 2

	res, err := svc.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.Equal(t, int64(2), res.InUse)
	assert.NotEmpty(t, res.Reason)

	res, err = svc.Delete(ctx, ids[1])
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	_, err = svc.Delete(ctx, 999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
