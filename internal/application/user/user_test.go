package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database/dbtest"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

func TestRegisterLoginLogout(t *testing.T) {
	db := dbtest.New(t)
	ctx := WithClientIP(context.Background(), "10.0.0.1")
	log := logger.Nop()

	svc := user.NewService(database.NewUserRepository(db))
	jm := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	sessions := memory.NewSessionStore()

	register := NewRegisterUseCase(svc, log)
	login := NewLoginUseCase(svc, jm, sessions, log)
	logout := NewLogoutUseCase(jm, sessions)
	recoverUC := NewRecoverUseCase(svc, log)

	reg, err := register.Execute(ctx, RegisterRequest{Username: "ana", Password: "secreto123", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ana", reg.Username)

	_, err = register.Execute(ctx, RegisterRequest{Username: "ana", Password: "secreto123"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUsernameDuplicate))

	_, err = login.Execute(ctx, LoginRequest{Username: "ana", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	_, err = login.Execute(ctx, LoginRequest{Username: "nobody", Password: "secreto123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	res, err := login.Execute(ctx, LoginRequest{Username: "ana", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)

	require.NoError(t, logout.Execute(ctx, res.User.ID, res.AccessToken))
	revoked, err := sessions.IsInBlacklist(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	for _, id := range []string{"ana", "ana@example.com", "nobody", "ghost@example.com", ""} {
		msg, err := recoverUC.Execute(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, RecoverMessage, msg, id)
	}
}
