// Package report 目录的只读统计
package report

import (
	"context"
	"time"
)

// UnknownGenreLabel 类型为空的图书在统计中的标签
const UnknownGenreLabel = "(无类型)"

// Summary 总览
type Summary struct {
	Books      int64 `json:"books"`
	Authors    int64 `json:"authors"`
	Genres     int64 `json:"genres"`
	Categories int64 `json:"categories"`
	Ratings    int64 `json:"ratings"`
}

// LabelCount 通用的(标签, 数量)统计行
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// YearCount 按出版年份统计，Year为nil表示年份未知
type YearCount struct {
	Year  *int  `json:"year"`
	Count int64 `json:"count"`
}

// Repository 统计查询
type Repository interface {
	Summary(ctx context.Context) (Summary, error)
	ByGenre(ctx context.Context) ([]LabelCount, error)
	ByYear(ctx context.Context) ([]YearCount, error)
	ByCategory(ctx context.Context) ([]LabelCount, error)
	TopAuthors(ctx context.Context, limit int) ([]LabelCount, error)

	// CreatedSince 返回since之后创建的图书的创建时间
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

// MonthlyBuckets 按月(YYYY-MM，UTC)统计最近months个月的创建数量，包含now所在月
// 没有数据的月份数量为0，结果按时间升序
func MonthlyBuckets(created []time.Time, now time.Time, months int) []LabelCount {
	start := MonthsStart(now, months)

	out := make([]LabelCount, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		label := start.AddDate(0, i, 0).Format("2006-01")
		out[i] = LabelCount{Label: label}
		index[label] = i
	}
	for _, t := range created {
		if i, ok := index[t.UTC().Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}

// MonthsStart 最近months个月统计窗口的起点
func MonthsStart(now time.Time, months int) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
}
