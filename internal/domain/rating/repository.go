package rating

import "context"

// Repository 评分仓储接口
type Repository interface {
	// Upsert 插入或覆盖评分，冲突时只更新stars与updated_at
	Upsert(ctx context.Context, r *Rating) error

	// Find 查找单条评分，不存在返回(nil, nil)
	Find(ctx context.Context, userID, bookID uint) (*Rating, error)

	// Stats 单本图书的评分统计
	Stats(ctx context.Context, bookID uint) (Stats, error)

	// StatsForBooks 批量统计，没有评分的图书不出现在结果中
	StatsForBooks(ctx context.Context, bookIDs []uint) (map[uint]Stats, error)

	// UserRatings 用户对一组图书的评分
	UserRatings(ctx context.Context, userID uint, bookIDs []uint) (map[uint]int, error)

	// TopRated 至少有一条评分的图书，按平均分、评分数降序，书名升序
	TopRated(ctx context.Context, limit int) ([]TopRatedBook, error)
}

// StatsCache 评分统计缓存(cache-aside，带版本号)
// 未命中时Get返回当前版本号，查库后用这个版本号Fill；
// Invalidate递增版本号，所以在它之前读库、在它之后才回填的旧值会被丢弃。
// 实现自行处理并记录缓存故障，调用方把任何失败都当作未命中
type StatsCache interface {
	Get(ctx context.Context, bookID uint) (stats Stats, version int64, hit bool)
	Fill(ctx context.Context, bookID uint, stats Stats, version int64)
	Invalidate(ctx context.Context, bookID uint)
}

// BookChecker 评分前确认图书存在
type BookChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// NopCache 不缓存
type NopCache struct{}

func (NopCache) Get(context.Context, uint) (Stats, int64, bool) { return Stats{}, 0, false }
func (NopCache) Fill(context.Context, uint, Stats, int64)       {}
func (NopCache) Invalidate(context.Context, uint)               {}
