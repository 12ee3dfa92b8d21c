package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

var registerOnce sync.Once

// RegisterValidators 配置gin的binding校验器
// 1. 错误里的字段名使用json/form tag（与请求体一致）
// 2. 注册notblank：纯空白字符串视为未填写
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// BindError 把binding失败转换为带字段错误的40900
func BindError(err error) error {
	appErr := apperrors.ErrInvalidParams

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			appErr = appErr.WithField(fe.Field(), friendlyMessage(fe))
		}
		return appErr
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return appErr.WithField(typeErr.Field, "类型错误，应为"+typeErr.Type.String())
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apperrors.ErrBindError
	}

	return apperrors.New(apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min":
		return fmt.Sprintf("不能小于%s", fe.Param())
	case "max":
		return fmt.Sprintf("不能超过%s", fe.Param())
	case "oneof":
		return "取值必须是: " + fe.Param()
	default:
		return "格式不正确"
	}
}
