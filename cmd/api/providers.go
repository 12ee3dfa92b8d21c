package main

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/bookcatalog/internal/application/user"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/internal/domain/lookup"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/lookup/googlebooks"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// 这些Provider需要从Config中挑字段，或按开关在两种实现之间选择，Wire无法自动推导

// provideDB 创建数据库连接，cleanup时关闭连接池
func provideDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn("关闭数据库失败", "error", err)
		}
	}
	return db, cleanup, nil
}

// provideRedis redis.enabled=false时返回nil客户端
func provideRedis(cfg *config.Config, log *logger.Logger) (*goredis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis未启用，会话存储使用进程内实现，评分统计不缓存")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(context.Background(), cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideSessionStore(client *goredis.Client) appuser.SessionStore {
	if client == nil {
		return memory.NewSessionStore()
	}
	return redis.NewSessionStore(client)
}

func provideTokenBlacklist(store appuser.SessionStore) middleware.TokenBlacklist {
	return store
}

func provideStatsCache(cfg *config.Config, client *goredis.Client, log *logger.Logger) rating.StatsCache {
	if client == nil {
		return rating.NopCache{}
	}
	return redis.NewStatsCache(client, cfg.Redis.StatsTTL, log)
}

// provideRatingService 评分服务用图书仓储确认图书存在
func provideRatingService(repo rating.Repository, books book.Repository, cache rating.StatsCache) rating.Service {
	return rating.NewService(repo, books, cache)
}

// provideEventPublisher events.enabled=false或连接失败时退化为不发布
// 事件只是通知，RabbitMQ不可用不应阻止服务启动
func provideEventPublisher(cfg *config.Config, log *logger.Logger) (event.Publisher, func()) {
	if !cfg.Events.Enabled {
		return event.NopPublisher{}, func() {}
	}
	pub, err := messaging.NewEventPublisher(cfg.Events, log)
	if err != nil {
		log.Warn("连接RabbitMQ失败，事件发布已禁用", "error", err)
		return event.NopPublisher{}, func() {}
	}
	return pub, func() { _ = pub.Close() }
}

func provideSearcher(cfg *config.Config, log *logger.Logger) lookup.Searcher {
	return googlebooks.NewClient(cfg.Lookup, log)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}
