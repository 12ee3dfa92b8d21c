package user

import (
	"strings"
	"time"
)

// User 用户实体（聚合根）
// 设计说明：
// 1. 用户名是登录标识，大小写敏感，数据库UNIQUE索引保证唯一
// 2. 密码已加密存储（bcrypt），不提供任何返回明文的方法
// 3. Email可选，只用于找回密码
type User struct {
	ID        uint
	Username  string
	Password  string // bcrypt哈希值
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, hashedPassword, email string) *User {
	return &User{
		Username: strings.TrimSpace(username),
		Password: hashedPassword,
		Email:    strings.TrimSpace(email),
	}
}
