package database

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/normalize"
	"github.com/xiebiao/bookcatalog/internal/domain/report"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建统计仓储
func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Summary(ctx context.Context) (report.Summary, error) {
	db := getDB(ctx, r.db)
	var s report.Summary

	counts := []struct {
		dst *int64
		q   *gorm.DB
	}{
		{&s.Books, db.Model(&BookModel{})},
		{&s.Authors, db.Model(&BookModel{}).Distinct("author_key")},
		{&s.Genres, db.Model(&BookModel{}).Where("genre IS NOT NULL").Distinct("genre")},
		{&s.Categories, db.Model(&CategoryModel{})},
		{&s.Ratings, db.Model(&RatingModel{})},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return report.Summary{}, apperrors.Storage(err, "查询统计失败")
		}
	}
	return s, nil
}

// ByGenre 按类型统计，NULL归入"(无类型)"，按数量降序
func (r *reportRepository) ByGenre(ctx context.Context) ([]report.LabelCount, error) {
	var rows []struct {
		Genre *string
		Total int64
	}
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Select("genre, COUNT(*) AS total").
		Group("genre").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "按类型统计失败")
	}

	merged := make(map[string]int64, len(rows))
	for _, row := range rows {
		label := report.UnknownGenreLabel
		if row.Genre != nil && *row.Genre != "" {
			label = *row.Genre
		}
		merged[label] += row.Total
	}
	return sortedCounts(merged), nil
}

// ByYear 按出版年份统计，年份降序，未知年份排最后
func (r *reportRepository) ByYear(ctx context.Context) ([]report.YearCount, error) {
	var rows []struct {
		Year  *int
		Total int64
	}
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Select("year, COUNT(*) AS total").
		Group("year").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "按年份统计失败")
	}

	out := make([]report.YearCount, len(rows))
	for i, row := range rows {
		out[i] = report.YearCount{Year: row.Year, Count: row.Total}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year == nil || out[j].Year == nil {
			return out[j].Year == nil && out[i].Year != nil
		}
		return *out[i].Year > *out[j].Year
	})
	return out, nil
}

// ByCategory 每个分类的图书数量(包含0)
func (r *reportRepository) ByCategory(ctx context.Context) ([]report.LabelCount, error) {
	var rows []struct {
		Name  string
		Total int64
	}
	err := getDB(ctx, r.db).Table("categories c").
		Select("c.name, COUNT(bc.book_id) AS total").
		Joins("LEFT JOIN book_category bc ON bc.category_id = c.id").
		Group("c.id, c.name").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "按分类统计失败")
	}

	out := make([]report.LabelCount, len(rows))
	for i, row := range rows {
		out[i] = report.LabelCount{Label: row.Name, Count: row.Total}
	}
	sortLabelCounts(out)
	return out, nil
}

// TopAuthors 图书最多的作者，同一作者的不同大小写写法合并
func (r *reportRepository) TopAuthors(ctx context.Context, limit int) ([]report.LabelCount, error) {
	var rows []struct {
		Author string
		Total  int64
	}
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Select("MIN(author) AS author, COUNT(*) AS total").
		Group("author_key").
		Order("COUNT(*) DESC, MIN(author) ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "按作者统计失败")
	}

	out := make([]report.LabelCount, len(rows))
	for i, row := range rows {
		out[i] = report.LabelCount{Label: row.Author, Count: row.Total}
	}
	return out, nil
}

// CreatedSince 取创建时间后在应用内按月分桶，避免各数据库日期函数的差异
func (r *reportRepository) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("created_at >= ?", since.UTC()).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, apperrors.Storage(err, "按月统计失败")
	}
	return times, nil
}

func sortedCounts(m map[string]int64) []report.LabelCount {
	out := make([]report.LabelCount, 0, len(m))
	for label, n := range m {
		out = append(out, report.LabelCount{Label: label, Count: n})
	}
	sortLabelCounts(out)
	return out
}

// sortLabelCounts 数量降序，数量相同按标签(不区分大小写)升序
func sortLabelCounts(rows []report.LabelCount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return normalize.Key(rows[i].Label) < normalize.Key(rows[j].Label)
	})
}
