package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

func ratingFor(userID, bookID uint, stars int) *rating.Rating {
	return &rating.Rating{UserID: userID, BookID: bookID, Stars: stars}
}

func TestRatingRepository_UpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	b := mustCreateBook(t, NewBookRepository(db), "Dune", "Frank Herbert", nil, "")
	u := mustCreateUser(t, db, "alice")

	first := ratingFor(u.ID, b.ID, 3)
	require.NoError(t, repo.Upsert(ctx, first))

	time.Sleep(10 * time.Millisecond)
	second := ratingFor(u.ID, b.ID, 5)
	require.NoError(t, repo.Upsert(ctx, second))

	var rows []RatingModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Stars)
	assert.True(t, rows[0].CreatedAt.Equal(first.CreatedAt), "created_at不变")
	assert.True(t, rows[0].UpdatedAt.After(first.UpdatedAt), "updated_at前进")
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
}

func TestRatingRepository_UnknownBook(t *testing.T) {
	db := newTestDB(t)
	u := mustCreateUser(t, db, "alice")
	err := NewRatingRepository(db).Upsert(context.Background(), ratingFor(u.ID, 404, 3))
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestRatingRepository_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	b := mustCreateBook(t, NewBookRepository(db), "Dune", "Frank Herbert", nil, "")

	err := NewRatingRepository(db).Upsert(context.Background(), ratingFor(404, b.ID, 3))
	assert.ErrorIs(t, err, rating.ErrRaterNotFound)
	assert.False(t, errors.Is(err, book.ErrBookNotFound))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnauthorized))
}

func TestRatingRepository_Stats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	books := NewBookRepository(db)
	rated := mustCreateBook(t, books, "Dune", "Frank Herbert", nil, "")
	unrated := mustCreateBook(t, books, "Emma", "Jane Austen", nil, "")
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	require.NoError(t, repo.Upsert(ctx, ratingFor(alice.ID, rated.ID, 4)))
	require.NoError(t, repo.Upsert(ctx, ratingFor(bob.ID, rated.ID, 5)))

	st, err := repo.Stats(ctx, rated.ID)
	require.NoError(t, err)
	require.NotNil(t, st.Average)
	assert.Equal(t, 4.5, *st.Average)
	assert.Equal(t, int64(2), st.Count)

	st, err = repo.Stats(ctx, unrated.ID)
	require.NoError(t, err)
	assert.Nil(t, st.Average, "未评分")
	assert.Zero(t, st.Count)

	batch, err := repo.StatsForBooks(ctx, []uint{rated.ID, unrated.ID})
	require.NoError(t, err)
	assert.Len(t, batch, 1)
	assert.Equal(t, int64(2), batch[rated.ID].Count)

	mine, err := repo.UserRatings(ctx, alice.ID, []uint{rated.ID, unrated.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{rated.ID: 4}, mine)
}

func TestRatingRepository_TopRated(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	books := NewBookRepository(db)

	a := mustCreateBook(t, books, "Alpha", "X", nil, "")
	b := mustCreateBook(t, books, "Beta", "X", nil, "")
	c := mustCreateBook(t, books, "Gamma", "X", nil, "")
	mustCreateBook(t, books, "Unrated", "X", nil, "")
	u1 := mustCreateUser(t, db, "u1")
	u2 := mustCreateUser(t, db, "u2")

	// Alpha: 5 (1条)；Beta: 5,5 (2条)；Gamma: 3
	require.NoError(t, repo.Upsert(ctx, ratingFor(u1.ID, a.ID, 5)))
	require.NoError(t, repo.Upsert(ctx, ratingFor(u1.ID, b.ID, 5)))
	require.NoError(t, repo.Upsert(ctx, ratingFor(u2.ID, b.ID, 5)))
	require.NoError(t, repo.Upsert(ctx, ratingFor(u1.ID, c.ID, 3)))

	top, err := repo.TopRated(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3, "没有评分的图书不进榜")
	assert.Equal(t, "Beta", top[0].Title, "平均分相同时评分数多的在前")
	assert.Equal(t, "Alpha", top[1].Title)
	assert.Equal(t, "Gamma", top[2].Title)
	assert.Equal(t, 3.0, top[2].Average)
}
