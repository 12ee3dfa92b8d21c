package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository 创建评分仓储
func NewRatingRepository(db *gorm.DB) rating.Repository {
	return &ratingRepository{db: db}
}

// Upsert 单条语句插入或覆盖
//
//	INSERT ... ON CONFLICT (user_id, book_id) DO UPDATE SET stars = excluded.stars, updated_at = excluded.updated_at
//
// created_at不在更新列表里，首次评分时间保持不变
func (r *ratingRepository) Upsert(ctx context.Context, rt *rating.Rating) error {
	db := getDB(ctx, r.db)
	model := RatingModel{UserID: rt.UserID, BookID: rt.BookID, Stars: rt.Stars}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
		}).Create(&model).Error
	})
	if err != nil {
		if isForeignKeyError(err) {
			return r.missingReference(ctx, rt, err)
		}
		return apperrors.Storage(err, "保存评分失败")
	}

	saved, err := r.Find(ctx, rt.UserID, rt.BookID)
	if err != nil {
		return err
	}
	if saved != nil {
		*rt = *saved
	}
	return nil
}

// missingReference 外键失败时判断缺的是图书还是用户
// SQLite的错误信息不带约束名，只能回查
func (r *ratingRepository) missingReference(ctx context.Context, rt *rating.Rating, cause error) error {
	db := getDB(ctx, r.db)

	var n int64
	if err := db.Model(&BookModel{}).Where("id = ?", rt.BookID).Count(&n).Error; err != nil {
		return apperrors.Storage(err, "保存评分失败")
	}
	if n == 0 {
		return book.ErrBookNotFound
	}
	if err := db.Model(&UserModel{}).Where("id = ?", rt.UserID).Count(&n).Error; err != nil {
		return apperrors.Storage(err, "保存评分失败")
	}
	if n == 0 {
		return rating.ErrRaterNotFound
	}
	return apperrors.Storage(cause, "保存评分失败")
}

func (r *ratingRepository) Find(ctx context.Context, userID, bookID uint) (*rating.Rating, error) {
	var m RatingModel
	err := getDB(ctx, r.db).Where("user_id = ? AND book_id = ?", userID, bookID).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Storage(err, "查询评分失败")
	}
	return &rating.Rating{
		UserID:    m.UserID,
		BookID:    m.BookID,
		Stars:     m.Stars,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

type statsRow struct {
	BookID      uint
	AvgStars    *float64
	RatingCount int64
}

func (r *ratingRepository) Stats(ctx context.Context, bookID uint) (rating.Stats, error) {
	var row statsRow
	err := getDB(ctx, r.db).Model(&RatingModel{}).
		Select("AVG(stars) AS avg_stars, COUNT(*) AS rating_count").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return rating.Stats{}, apperrors.Storage(err, "查询评分统计失败")
	}
	return rating.NewStats(row.AvgStars, row.RatingCount), nil
}

// StatsForBooks 列表页批量统计，避免逐本查询
func (r *ratingRepository) StatsForBooks(ctx context.Context, bookIDs []uint) (map[uint]rating.Stats, error) {
	out := make(map[uint]rating.Stats, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	var rows []statsRow
	err := getDB(ctx, r.db).Model(&RatingModel{}).
		Select("book_id, AVG(stars) AS avg_stars, COUNT(*) AS rating_count").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询评分统计失败")
	}
	for _, row := range rows {
		out[row.BookID] = rating.NewStats(row.AvgStars, row.RatingCount)
	}
	return out, nil
}

func (r *ratingRepository) UserRatings(ctx context.Context, userID uint, bookIDs []uint) (map[uint]int, error) {
	out := make(map[uint]int, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	var models []RatingModel
	err := getDB(ctx, r.db).Select("book_id", "stars").
		Where("user_id = ? AND book_id IN ?", userID, bookIDs).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询用户评分失败")
	}
	for _, m := range models {
		out[m.BookID] = m.Stars
	}
	return out, nil
}

// TopRated 按一位小数的平均分排序，与展示的数值一致
func (r *ratingRepository) TopRated(ctx context.Context, limit int) ([]rating.TopRatedBook, error) {
	var rows []struct {
		BookID      uint
		Title       string
		Author      string
		AvgStars    float64
		RatingCount int64
	}
	err := getDB(ctx, r.db).Table("ratings r").
		Select("b.id AS book_id, b.title, b.author, AVG(r.stars) AS avg_stars, COUNT(r.stars) AS rating_count").
		Joins("JOIN books b ON b.id = r.book_id").
		Group("b.id, b.title, b.author").
		Order("ROUND(AVG(r.stars), 1) DESC, COUNT(r.stars) DESC, b.title ASC, b.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询评分排行失败")
	}

	out := make([]rating.TopRatedBook, len(rows))
	for i, row := range rows {
		out[i] = rating.TopRatedBook{
			BookID:  row.BookID,
			Title:   row.Title,
			Author:  row.Author,
			Average: rating.RoundAverage(row.AvgStars),
			Count:   row.RatingCount,
		}
	}
	return out, nil
}
