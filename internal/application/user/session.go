package user

import (
	"context"
	"time"
)

// SessionStore 会话与Token黑名单
// Redis启用时为persistence/redis.SessionStore，否则为persistence/memory.SessionStore
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

type clientIPKey struct{}

// WithClientIP 把请求IP放入context，登录时记录到会话
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
