// Package lookup 外部图书检索
//
// 检索结果只是候选记录，用户逐条导入，导入走与手工录入相同的创建流程（含查重）。
package lookup

import (
	"context"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// Candidate 检索到的候选图书
type Candidate struct {
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Year       *int     `json:"year"`
	Genre      string   `json:"genre,omitempty"`
	Categories []string `json:"categories"`
	Thumbnail  string   `json:"thumbnail,omitempty"`
}

// Searcher 外部检索服务
type Searcher interface {
	// Search limit<=0时使用实现的默认条数
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

var (
	// ErrUnavailable 外部检索暂不可用（熔断、超时、下游错误），可重试
	ErrUnavailable = apperrors.New(apperrors.ErrCodeLookupUnavailable, "图书检索服务暂不可用，请稍后重试")

	// ErrEmptyQuery 检索关键词为空
	ErrEmptyQuery = apperrors.ErrInvalidParams.WithField("q", "请输入检索关键词")
)
