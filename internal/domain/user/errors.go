package user

import apperrors "github.com/xiebiao/bookcatalog/pkg/errors"

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrInvalidUsername 用户名格式不正确
	ErrInvalidUsername = apperrors.ErrInvalidParams.WithField("username", "用户名为3-50位字母、数字或 _ . -")

	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.ErrInvalidParams.WithField("email", "邮箱格式不正确")
)
