package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank" example:"lector"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Email    string `json:"email" binding:"omitempty,email" example:"lector@example.com"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank" example:"lector"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RecoverRequest 找回密码请求（用户名或邮箱）
type RecoverRequest struct {
	Identifier string `json:"identifier" binding:"required,notblank" example:"lector@example.com"`
}

// RecoverResponse 找回密码响应
// 无论账号是否存在都返回同一句提示
type RecoverResponse struct {
	Message string `json:"message"`
}
