package user

import (
	"context"
	"errors"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// RecoverMessage 找回密码的统一提示，不论账号是否存在
const RecoverMessage = "如果该账号存在，我们会向其登记的邮箱发送重置说明"

// RecoverUseCase 找回密码请求
// 只记录请求，不发送邮件（没有邮件通道）；响应内容与账号是否存在无关
type RecoverUseCase struct {
	userService user.Service
	log         *logger.Logger
}

// NewRecoverUseCase 创建找回密码用例
func NewRecoverUseCase(userService user.Service, log *logger.Logger) *RecoverUseCase {
	return &RecoverUseCase{userService: userService, log: log}
}

// Execute identifier为用户名或邮箱
// 只有存储故障才返回错误
func (uc *RecoverUseCase) Execute(ctx context.Context, identifier string) (string, error) {
	log := logger.FromContext(ctx, uc.log)

	u, err := uc.userService.Lookup(ctx, identifier)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		log.Info("找回密码：账号不存在")
	case err != nil:
		return "", err
	case u.Email == "":
		log.Info("找回密码：账号未登记邮箱", "user_id", u.ID)
	default:
		log.Info("找回密码请求已记录", "user_id", u.ID)
	}
	return RecoverMessage, nil
}
