// Package event 目录领域事件
//
// 事件在事务提交后发布，发布失败不影响已完成的写入（至多一次）。
package event

import (
	"context"
	"time"
)

// 路由键
const (
	BookCreated    = "book.created"
	BookUpdated    = "book.updated"
	BookDeleted    = "book.deleted"
	RatingUpserted = "rating.upserted"
)

// BookEvent 图书变更事件
type BookEvent struct {
	BookID     uint      `json:"book_id"`
	Title      string    `json:"title,omitempty"`
	Author     string    `json:"author,omitempty"`
	Year       *int      `json:"year,omitempty"`
	Genre      *string   `json:"genre,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Source     string    `json:"source,omitempty"` // manual | import
	UserID     uint      `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RatingEvent 评分事件
type RatingEvent struct {
	BookID     uint      `json:"book_id"`
	UserID     uint      `json:"user_id"`
	Stars      int       `json:"stars"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 事件发布
// 实现自行记录失败，调用方不处理发布错误
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{})
}

// NopPublisher 未启用事件时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) {}
