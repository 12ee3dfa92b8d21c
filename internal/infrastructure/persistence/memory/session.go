// Package memory 未启用Redis时的进程内会话存储
//
// 只适合单实例部署：重启后黑名单丢失，多实例之间不共享。
package memory

import (
	"context"
	"sync"
	"time"
)

// SessionStore 进程内会话与Token黑名单
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]entry
	blacklist map[string]time.Time
	now       func() time.Time
}

type entry struct {
	data      map[string]interface{}
	expiresAt time.Time
}

// NewSessionStore 创建进程内会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]entry),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = entry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.blacklist[token] = s.now().Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}

// sweep 清理过期条目，调用方持有锁
func (s *SessionStore) sweep() {
	now := s.now()
	for tok, exp := range s.blacklist {
		if !now.Before(exp) {
			delete(s.blacklist, tok)
		}
	}
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
