package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// versionTTL 版本号键的过期时间
// 版本号过期后从0重新计数，持有旧版本号的回填只会失败，不会写入旧值
const versionTTL = 24 * time.Hour

// fillScript 版本号未变化时才写入统计值
//
//	KEYS[1] 统计值键  KEYS[2] 版本号键
//	ARGV[1] 读库前的版本号  ARGV[2] 统计值JSON  ARGV[3] 过期毫秒
var fillScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// StatsCache 评分统计缓存（Cache-Aside + 版本号）
// 读：先查缓存，未命中时连同版本号一起返回，评分服务查库后带版本号回填
// 写：评分写入或图书删除后递增版本号并删除缓存，并发读者的旧值回填失败
// Redis故障只记日志，对调用方表现为未命中
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

var _ rating.StatsCache = (*StatsCache)(nil)

// NewStatsCache 创建评分统计缓存
func NewStatsCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *StatsCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StatsCache{client: client, ttl: ttl, log: log}
}

func statsKey(bookID uint) string {
	return fmt.Sprintf("rating:stats:%d", bookID)
}

func versionKey(bookID uint) string {
	return fmt.Sprintf("rating:stats:%d:ver", bookID)
}

// Get 在同一个MULTI里读统计值与版本号
func (c *StatsCache) Get(ctx context.Context, bookID uint) (rating.Stats, int64, bool) {
	var statsCmd, verCmd *redis.StringCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		statsCmd = pipe.Get(ctx, statsKey(bookID))
		verCmd = pipe.Get(ctx, versionKey(bookID))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("读取评分缓存失败", "book_id", bookID, "error", err)
		return rating.Stats{}, -1, false
	}

	version, err := verCmd.Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("评分缓存版本号损坏", "book_id", bookID, "error", err)
			return rating.Stats{}, -1, false
		}
		version = 0
	}

	data, err := statsCmd.Bytes()
	if err != nil {
		return rating.Stats{}, version, false
	}
	var st rating.Stats
	if err := json.Unmarshal(data, &st); err != nil {
		c.log.Warn("评分缓存数据损坏", "book_id", bookID, "error", err)
		return rating.Stats{}, version, false
	}
	return st, version, true
}

// Fill 回填统计值；version为负数(读取失败)时不回填
func (c *StatsCache) Fill(ctx context.Context, bookID uint, st rating.Stats, version int64) {
	if version < 0 {
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	keys := []string{statsKey(bookID), versionKey(bookID)}
	err = fillScript.Run(ctx, c.client, keys, version, data, c.ttl.Milliseconds()).Err()
	if err != nil {
		c.log.Warn("写入评分缓存失败", "book_id", bookID, "error", err)
	}
}

// Invalidate 递增版本号并删除统计值
func (c *StatsCache) Invalidate(ctx context.Context, bookID uint) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(bookID))
		pipe.Expire(ctx, versionKey(bookID), versionTTL)
		pipe.Del(ctx, statsKey(bookID))
		return nil
	})
	if err != nil {
		c.log.Warn("删除评分缓存失败", "book_id", bookID, "error", err)
	}
}
