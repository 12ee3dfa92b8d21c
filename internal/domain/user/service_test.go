package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type memRepo struct {
	users []*User
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	for _, e := range r.users {
		if e.Username == u.Username {
			return apperrors.ErrUsernameDuplicate
		}
	}
	u.ID = uint(len(r.users) + 1)
	r.users = append(r.users, u)
	return nil
}

func (r *memRepo) find(match func(*User) bool) (*User, error) {
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*User, error) {
	return r.find(func(u *User) bool { return u.ID == id })
}

func (r *memRepo) FindByUsername(_ context.Context, name string) (*User, error) {
	return r.find(func(u *User) bool { return u.Username == name })
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	return r.find(func(u *User) bool { return u.Email != "" && u.Email == email })
}

// 测试中用最低成本，避免bcrypt拖慢测试
func newTestService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.MinCost}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(&memRepo{})
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		email    string
		wantErr  error
	}{
		{"用户名过短", "ab", "abc12345", "", ErrInvalidUsername},
		{"用户名含空格", "bad name", "abc12345", "", ErrInvalidUsername},
		{"密码过短", "alice", "abc123", "", apperrors.ErrWeakPassword},
		{"密码无数字", "alice", "abcdefghi", "", apperrors.ErrWeakPassword},
		{"密码过长", "alice", "abc123456789012345678", "", apperrors.ErrWeakPassword},
		{"邮箱格式错误", "alice", "abc12345", "not-an-email", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password, tt.email)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, " alice ", "secret123", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "secret123", u.Password, "密码必须哈希存储")

	_, err = svc.Register(ctx, "alice", "other1234", "")
	assert.ErrorIs(t, err, apperrors.ErrUsernameDuplicate)

	got, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "alice", "wrong1234")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword, "不暴露用户是否存在")
}

func TestLookup(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "secret123", "bob@example.com")
	require.NoError(t, err)

	u, err := svc.Lookup(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	u, err = svc.Lookup(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)

	_, err = svc.Lookup(ctx, "  ")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
