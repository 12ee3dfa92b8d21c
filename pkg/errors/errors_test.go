package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WithFieldDoesNotMutateOriginal(t *testing.T) {
	base := New(ErrCodeInvalidParams, "参数错误")

	withField := base.WithField("title", "书名不能为空")

	assert.Empty(t, base.Fields)
	assert.Equal(t, "书名不能为空", withField.Fields["title"])
	assert.Equal(t, base.Code, withField.Code)
}

func TestAppError_IsMatchesCopies(t *testing.T) {
	sentinel := New(ErrCodeBookNotFound, "图书不存在")
	withMeta := sentinel.WithMeta("id", 7)

	assert.True(t, errors.Is(withMeta, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("外层: %w", withMeta), sentinel))
	assert.False(t, errors.Is(withMeta, ErrInternal))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(ErrCodeDuplicateEntry, "重复"))

	assert.True(t, IsCode(err, ErrCodeDuplicateEntry))
	assert.False(t, IsCode(err, ErrCodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeInternal))
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		appErr := New(ErrCodeNotFound, "不存在")
		assert.Same(t, appErr, GetAppError(appErr))
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		cause := errors.New("boom")
		got := GetAppError(cause)
		require.NotNil(t, got)
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.ErrorIs(t, got, cause)
	})
}

func TestStorage(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storage(cause, "保存失败")

	assert.Equal(t, ErrCodeDatabaseError, err.Code)
	assert.True(t, err.IsServerError())
	assert.ErrorIs(t, err, cause)
}
