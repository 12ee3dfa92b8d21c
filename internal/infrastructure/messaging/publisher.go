// Package messaging 目录事件发布的RabbitMQ适配
package messaging

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

const publishTimeout = 3 * time.Second

// broker pkg/mq.Publisher的最小接口（测试替换）
type broker interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Close() error
}

// EventPublisher 把领域事件发布到RabbitMQ Exchange
type EventPublisher struct {
	broker broker
	log    *logger.Logger
}

var _ event.Publisher = (*EventPublisher)(nil)

// NewEventPublisher 连接RabbitMQ
func NewEventPublisher(cfg config.EventsConfig, log *logger.Logger) (*EventPublisher, error) {
	pub, err := mq.NewPublisher(cfg.URL, cfg.Exchange, cfg.ExchangeType)
	if err != nil {
		return nil, err
	}
	log.Info("事件发布已启用", "exchange", cfg.Exchange, "type", cfg.ExchangeType)
	return &EventPublisher{broker: pub, log: log}, nil
}

// Publish 发布事件
// 脱离调用方的取消，单独设置超时
func (p *EventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	result := "success"
	if err := p.broker.Publish(ctx, routingKey, payload); err != nil {
		result = "failure"
		logger.FromContext(ctx, p.log).Error("事件发布失败", "routing_key", routingKey, "error", err)
	}
	metrics.IncCounterVec(metrics.EventsPublishedTotal, map[string]string{
		"routing_key": routingKey,
		"result":      result,
	})
}

// Close 关闭连接
func (p *EventPublisher) Close() error {
	return p.broker.Close()
}
