package user

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// RegisterUseCase 用户注册用例
type RegisterUseCase struct {
	userService user.Service
	log         *logger.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, log *logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		log:         log,
	}
}

// Execute 执行注册
// 返回：RegisterResponse（应用层DTO，不是领域实体）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx, uc.log).Info("用户已注册", "user_id", u.ID, "username", u.Username)

	return &RegisterResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Password string
	Email    string
}

// RegisterResponse 注册响应（不返回密码字段）
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
