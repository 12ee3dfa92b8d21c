// Package googlebooks Google Books API客户端
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/xiebiao/bookcatalog/internal/domain/lookup"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

const (
	breakerName = "google-books"
	volumesPath = "/books/v1/volumes"

	// Google Books单次最多返回40条
	maxResultsLimit = 40
)

// Client Google Books检索客户端
// 出站请求先经过限流器，再由熔断器保护；下游连续失败后快速返回ErrUnavailable
type Client struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	log        *logger.Logger
}

var _ lookup.Searcher = (*Client)(nil)

// NewClient 创建客户端
func NewClient(cfg config.LookupConfig, log *logger.Logger) *Client {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		log:        log.With("component", breakerName),
	}
	c.breaker = circuitbreaker.NewCircuitBreaker(breakerName, circuitbreaker.Config{
		MaxRequests: cfg.BreakerHalfProbe,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerOpenTime,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// 调用方取消与4xx不算下游故障
			var se *statusError
			if errors.As(err, &se) {
				return !se.retryable()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			c.log.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		},
	})
	return c
}

// statusError 非200响应
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("google books: unexpected status %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Search 检索图书
func (c *Client) Search(ctx context.Context, query string, limit int) ([]lookup.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, lookup.ErrEmptyQuery
	}
	limit = c.clampLimit(limit)

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.IncCounterVec(metrics.LookupRequestsTotal, map[string]string{"result": "rejected"})
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeLookupUnavailable, lookup.ErrUnavailable.Message)
	}

	var resp volumesResponse
	err := c.breaker.Execute(func() error {
		return c.fetch(ctx, query, limit, &resp)
	})
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.IncCounterVec(metrics.LookupRequestsTotal, map[string]string{"result": "rejected"})
		return nil, lookup.ErrUnavailable
	case err != nil:
		metrics.IncCounterVec(metrics.LookupRequestsTotal, map[string]string{"result": "failure"})
		c.log.Warn("图书检索失败", "query", query, "error", err)
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeLookupUnavailable, lookup.ErrUnavailable.Message)
	}
	metrics.IncCounterVec(metrics.LookupRequestsTotal, map[string]string{"result": "success"})

	out := make([]lookup.Candidate, 0, len(resp.Items))
	for _, v := range resp.Items {
		if cand, ok := toCandidate(v.VolumeInfo); ok {
			out = append(out, cand)
		}
	}
	c.log.Debug("图书检索完成", "query", query, "total", resp.TotalItems, "returned", len(out))
	return out, nil
}

func (c *Client) clampLimit(limit int) int {
	if limit <= 0 {
		limit = c.maxResults
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > maxResultsLimit {
		limit = maxResultsLimit
	}
	return limit
}

func (c *Client) fetch(ctx context.Context, query string, limit int, out *volumesResponse) error {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+volumesPath+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("google books响应", "status", resp.StatusCode, "latency", time.Since(start))
	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// toCandidate 转换检索结果
// 多位作者用", "连接；年份取publishedDate前4位；第一个分类作为类型，全部分类作为分类名
func toCandidate(info volumeInfo) (lookup.Candidate, bool) {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		return lookup.Candidate{}, false
	}

	authors := make([]string, 0, len(info.Authors))
	for _, a := range info.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}

	cats := make([]string, 0, len(info.Categories))
	for _, cat := range info.Categories {
		if cat = strings.TrimSpace(cat); cat != "" {
			cats = append(cats, cat)
		}
	}

	cand := lookup.Candidate{
		Title:      title,
		Author:     strings.Join(authors, ", "),
		Year:       parseYear(info.PublishedDate),
		Categories: cats,
		Thumbnail:  info.ImageLinks.Thumbnail,
	}
	if len(cats) > 0 {
		cand.Genre = cats[0]
	}
	return cand, true
}

func parseYear(published string) *int {
	published = strings.TrimSpace(published)
	if len(published) < 4 {
		return nil
	}
	y, err := strconv.Atoi(published[:4])
	if err != nil {
		return nil
	}
	return &y
}
