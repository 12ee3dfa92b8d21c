package rating

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// DefaultTopLimit 排行榜默认条数
const DefaultTopLimit = 10

// Service 评分聚合服务
type Service interface {
	// Rate 评分(同一用户对同一本书重复评分时覆盖)
	Rate(ctx context.Context, userID, bookID uint, stars int) (*Rating, error)

	// GetStats 评分统计
	GetStats(ctx context.Context, bookID uint) (Stats, error)

	// StatsForBooks 批量评分统计，结果包含每个请求的ID(无评分为零值)
	StatsForBooks(ctx context.Context, bookIDs []uint) (map[uint]Stats, error)

	// GetUserRating 用户的评分，未评分返回nil
	GetUserRating(ctx context.Context, userID, bookID uint) (*int, error)

	// UserRatings 用户对一组图书的评分
	UserRatings(ctx context.Context, userID uint, bookIDs []uint) (map[uint]int, error)

	// TopRated 评分排行
	TopRated(ctx context.Context, limit int) ([]TopRatedBook, error)

	// Forget 图书删除后清理缓存
	Forget(ctx context.Context, bookID uint)
}

type service struct {
	repo  Repository
	books BookChecker
	cache StatsCache
}

// NewService 创建评分服务，cache为nil时不缓存
func NewService(repo Repository, books BookChecker, cache StatsCache) Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &service{repo: repo, books: books, cache: cache}
}

// Rate 先校验评分范围，再确认图书存在，最后一次性upsert
func (s *service) Rate(ctx context.Context, userID, bookID uint, stars int) (*Rating, error) {
	if err := ValidateStars(stars); err != nil {
		return nil, err
	}
	ok, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, book.ErrBookNotFound
	}

	r := &Rating{UserID: userID, BookID: bookID, Stars: stars}
	if err := s.repo.Upsert(ctx, r); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, bookID)
	return r, nil
}

func (s *service) GetStats(ctx context.Context, bookID uint) (Stats, error) {
	st, version, hit := s.cache.Get(ctx, bookID)
	if hit {
		return st, nil
	}
	st, err := s.repo.Stats(ctx, bookID)
	if err != nil {
		return Stats{}, err
	}
	s.cache.Fill(ctx, bookID, st, version)
	return st, nil
}

func (s *service) StatsForBooks(ctx context.Context, bookIDs []uint) (map[uint]Stats, error) {
	out := make(map[uint]Stats, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	var missing []uint
	versions := make(map[uint]int64)
	for _, id := range bookIDs {
		st, version, hit := s.cache.Get(ctx, id)
		if hit {
			out[id] = st
			continue
		}
		versions[id] = version
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := s.repo.StatsForBooks(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		st := loaded[id]
		out[id] = st
		s.cache.Fill(ctx, id, st, versions[id])
	}
	return out, nil
}

func (s *service) GetUserRating(ctx context.Context, userID, bookID uint) (*int, error) {
	r, err := s.repo.Find(ctx, userID, bookID)
	if err != nil || r == nil {
		return nil, err
	}
	stars := r.Stars
	return &stars, nil
}

func (s *service) UserRatings(ctx context.Context, userID uint, bookIDs []uint) (map[uint]int, error) {
	if userID == 0 || len(bookIDs) == 0 {
		return map[uint]int{}, nil
	}
	return s.repo.UserRatings(ctx, userID, bookIDs)
}

func (s *service) TopRated(ctx context.Context, limit int) ([]TopRatedBook, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return s.repo.TopRated(ctx, limit)
}

func (s *service) Forget(ctx context.Context, bookID uint) {
	s.cache.Invalidate(ctx, bookID)
}
