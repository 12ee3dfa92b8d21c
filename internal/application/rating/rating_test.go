package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database/dbtest"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

type countingPublisher struct{ keys []string }

func (p *countingPublisher) Publish(_ context.Context, key string, _ interface{}) {
	p.keys = append(p.keys, key)
}

func TestRatingUseCases(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	bookRepo := database.NewBookRepository(db)
	svc := rating.NewService(database.NewRatingRepository(db), bookRepo, nil)
	events := &countingPublisher{}
	rate := NewRateBookUseCase(svc, events, logger.Nop())
	mine := NewGetMyRatingUseCase(svc, bookRepo)

	u := user.NewUser("ana", "$2a$04$hash", "")
	require.NoError(t, database.NewUserRepository(db).Create(ctx, u))
	b := book.NewBook("Dune", "Frank Herbert", nil, "")
	require.NoError(t, bookRepo.Create(ctx, b))

	got, err := mine.Execute(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Stars)
	assert.Nil(t, got.Stats.Average)

	res, err := rate.Execute(ctx, u.ID, b.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Stars)

	res, err = rate.Execute(ctx, u.ID, b.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, res.Stats.Average)
	assert.Equal(t, 5.0, *res.Stats.Average)
	assert.Equal(t, int64(1), res.Stats.Count)
	assert.Equal(t, []string{event.RatingUpserted, event.RatingUpserted}, events.keys)

	got, err = mine.Execute(ctx, u.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Stars)
	assert.Equal(t, 5, *got.Stars)

	_, err = rate.Execute(ctx, u.ID, b.ID, 6)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))
	_, err = rate.Execute(ctx, u.ID, 999, 4)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	_, err = mine.Execute(ctx, u.ID, 999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Len(t, events.keys, 2)
}
