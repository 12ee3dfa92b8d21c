package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

type fakeBroker struct {
	keys   []string
	err    error
	ctxErr error
}

func (f *fakeBroker) Publish(ctx context.Context, routingKey string, _ interface{}) error {
	f.keys = append(f.keys, routingKey)
	f.ctxErr = ctx.Err()
	return f.err
}

func (f *fakeBroker) Close() error { return nil }

func TestEventPublisher_Publish(t *testing.T) {
	metrics.InitMetrics()
	fb := &fakeBroker{}
	p := &EventPublisher{broker: fb, log: logger.Nop()}

	before := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(event.BookCreated, "success"))
	p.Publish(context.Background(), event.BookCreated, event.BookEvent{BookID: 1})
	assert.Equal(t, []string{event.BookCreated}, fb.keys)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(event.BookCreated, "success")))
}

func TestEventPublisher_IgnoresCallerCancellation(t *testing.T) {
	fb := &fakeBroker{}
	p := &EventPublisher{broker: fb, log: logger.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(ctx, event.BookDeleted, event.BookEvent{BookID: 2})
	assert.NoError(t, fb.ctxErr)
}

func TestEventPublisher_FailureIsCounted(t *testing.T) {
	metrics.InitMetrics()
	fb := &fakeBroker{err: errors.New("channel closed")}
	p := &EventPublisher{broker: fb, log: logger.Nop()}

	before := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(event.RatingUpserted, "failure"))
	p.Publish(context.Background(), event.RatingUpserted, event.RatingEvent{BookID: 1, UserID: 1, Stars: 4})
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(event.RatingUpserted, "failure")))
}
