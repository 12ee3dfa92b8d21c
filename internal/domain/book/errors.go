package book

import (
	"errors"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrValidation 字段校验失败(具体字段见Fields)
	ErrValidation = apperrors.New(apperrors.ErrCodeInvalidParams, "图书信息不完整或格式不正确")

	// ErrDuplicate 同名同作者同年份的图书已存在
	ErrDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "这本书已经在目录中了")
)

// NewDuplicateError 携带已存在图书ID的重复错误
// existingID为0表示冲突记录没能查到（例如冲突方随后又被删除）
func NewDuplicateError(existingID uint) *apperrors.AppError {
	if existingID == 0 {
		return ErrDuplicate
	}
	return ErrDuplicate.WithMeta("existing_id", existingID)
}

// ExistingID 从重复错误中取出已存在图书的ID
func ExistingID(err error) (uint, bool) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCodeDuplicateEntry {
		return 0, false
	}
	id, ok := appErr.Meta["existing_id"].(uint)
	return id, ok
}

// ValidationErrors 字段错误收集器，nil可直接调用add
type ValidationErrors struct {
	fields map[string]string
	order  []string
}

func (v *ValidationErrors) add(field, message string) *ValidationErrors {
	if v == nil {
		v = &ValidationErrors{fields: make(map[string]string)}
	}
	if _, ok := v.fields[field]; !ok {
		v.order = append(v.order, field)
	}
	v.fields[field] = message
	return v
}

// Err 转为带Fields的AppError
func (v *ValidationErrors) Err() *apperrors.AppError {
	e := ErrValidation
	for _, f := range v.order {
		e = e.WithField(f, v.fields[f])
	}
	return e
}
