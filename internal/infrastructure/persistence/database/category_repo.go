package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcatalog/internal/domain/category"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// InsertIgnore 批量插入分类，匹配键冲突的行跳过
// 插入后的ID不从这里回填：跳过的行没有RETURNING结果，ID统一用IDsByKeys解析
func (r *categoryRepository) InsertIgnore(ctx context.Context, cats []*category.Category) error {
	if len(cats) == 0 {
		return nil
	}
	models := make([]CategoryModel, len(cats))
	for i, c := range cats {
		models[i] = CategoryModel{Name: c.Name, NameKey: c.Key()}
	}

	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models).Error
	})
	if err != nil {
		return apperrors.Storage(err, "保存分类失败")
	}
	return nil
}

func (r *categoryRepository) IDsByKeys(ctx context.Context, keys []string) (map[string]uint, error) {
	out := make(map[string]uint, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var models []CategoryModel
	err := getDB(ctx, r.db).Select("id", "name_key").Where("name_key IN ?", keys).Find(&models).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询分类失败")
	}
	for _, m := range models {
		out[m.NameKey] = m.ID
	}
	return out, nil
}

func (r *categoryRepository) FindByKey(ctx context.Context, key string) (*category.Category, error) {
	return r.findOne(getDB(ctx, r.db).Where("name_key = ?", key))
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	return r.findOne(getDB(ctx, r.db).Where("id = ?", id))
}

func (r *categoryRepository) findOne(q *gorm.DB) (*category.Category, error) {
	var m CategoryModel
	if err := q.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Storage(err, "查询分类失败")
	}
	return &category.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

// ReplaceForBook 先删后插；独立调用时也保证原子性
func (r *categoryRepository) ReplaceForBook(ctx context.Context, bookID uint, ids []uint) error {
	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", bookID).Delete(&BookCategoryModel{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		links := make([]BookCategoryModel, len(ids))
		for i, id := range ids {
			links[i] = BookCategoryModel{BookID: bookID, CategoryID: id}
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return apperrors.Storage(err, "保存图书分类失败")
	}
	return nil
}

// NamesForBooks 一次查询取回所有图书的分类名
func (r *categoryRepository) NamesForBooks(ctx context.Context, bookIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		BookID uint
		Name   string
	}
	err := getDB(ctx, r.db).Table("book_category bc").
		Select("bc.book_id, c.name").
		Joins("JOIN categories c ON c.id = bc.category_id").
		Where("bc.book_id IN ?", bookIDs).
		Order("c.name_key ASC, c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询图书分类失败")
	}
	for _, row := range rows {
		out[row.BookID] = append(out[row.BookID], row.Name)
	}
	return out, nil
}

// ListWithCounts 分类列表，LEFT JOIN保证没有图书的分类也出现(数量为0)
func (r *categoryRepository) ListWithCounts(ctx context.Context) ([]*category.Category, error) {
	var rows []struct {
		ID        uint
		Name      string
		BookCount int64
	}
	err := getDB(ctx, r.db).Table("categories c").
		Select("c.id, c.name, COUNT(bc.book_id) AS book_count").
		Joins("LEFT JOIN book_category bc ON bc.category_id = c.id").
		Group("c.id, c.name, c.name_key").
		Order("c.name_key ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询分类列表失败")
	}

	cats := make([]*category.Category, len(rows))
	for i, row := range rows {
		cats[i] = &category.Category{ID: row.ID, Name: row.Name, BookCount: row.BookCount}
	}
	return cats, nil
}

// DeleteIfUnused 条件删除，"检查引用"与"删除"在同一条语句里完成
//
//	DELETE FROM categories WHERE id = ? AND NOT EXISTS (SELECT 1 FROM book_category bc WHERE bc.category_id = ?)
//
// 没删掉时再区分"不存在"和"仍被引用"；引用在两次查询之间被清空的话重试
func (r *categoryRepository) DeleteIfUnused(ctx context.Context, id uint) (bool, int64, error) {
	db := getDB(ctx, r.db)

	for attempt := 0; attempt < 3; attempt++ {
		result := db.Where("id = ? AND NOT EXISTS (SELECT 1 FROM book_category bc WHERE bc.category_id = ?)", id, id).
			Delete(&CategoryModel{})
		if result.Error != nil {
			return false, 0, apperrors.Storage(result.Error, "删除分类失败")
		}
		if result.RowsAffected > 0 {
			return true, 0, nil
		}

		var exists int64
		if err := db.Model(&CategoryModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return false, 0, apperrors.Storage(err, "查询分类失败")
		}
		if exists == 0 {
			return false, 0, category.ErrCategoryNotFound
		}

		var inUse int64
		if err := db.Model(&BookCategoryModel{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return false, 0, apperrors.Storage(err, "查询分类引用失败")
		}
		if inUse > 0 {
			return false, inUse, nil
		}
	}
	return false, 0, apperrors.Storage(errors.New("category references changed during delete"), "删除分类失败")
}
