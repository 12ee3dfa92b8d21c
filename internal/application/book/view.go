package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
)

const (
	tracerName = "application/book"
	timeLayout = "2006-01-02 15:04:05"

	// 图书来源（指标与事件标签）
	SourceManual = "manual"
	SourceImport = "import"
)

// Transactor 事务边界，由persistence/database.TxManager实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookView 图书输出DTO（详情与列表共用）
type BookView struct {
	ID         uint         `json:"id"`
	Title      string       `json:"title"`
	Author     string       `json:"author"`
	Year       *int         `json:"year"`
	Genre      *string      `json:"genre"`
	Categories []string     `json:"categories"`
	Rating     rating.Stats `json:"rating"`
	MyRating   *int         `json:"my_rating,omitempty"` // 仅登录用户且已评分时返回
	CreatedAt  string       `json:"created_at"`
	UpdatedAt  string       `json:"updated_at"`
}

func newBookView(b *book.Book, categories []string) BookView {
	if categories == nil {
		categories = []string{}
	}
	return BookView{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Year:       b.Year,
		Genre:      b.Genre,
		Categories: categories,
		CreatedAt:  formatTime(b.CreatedAt),
		UpdatedAt:  formatTime(b.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
