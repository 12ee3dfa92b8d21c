package database

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/normalize"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookRepository 图书仓储实现
// 1. 负责domain实体与GORM模型之间的转换
// 2. 唯一索引冲突翻译为book.NewDuplicateError
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 插入图书
// 插入放在嵌套事务(Savepoint)里：PostgreSQL中语句失败会使整个事务不可用，
// 回滚到Savepoint后才能继续查询冲突的图书ID
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		if isDuplicateError(err) {
			return r.duplicate(ctx, b, 0)
		}
		return apperrors.Storage(err, "保存图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Update 更新除ID、创建时间外的所有字段
// 使用map更新，保证year、genre能被置为NULL
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	db := getDB(ctx, r.db)
	now := db.NowFunc()

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&BookModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
			"title":      b.Title,
			"author":     b.Author,
			"year":       b.Year,
			"genre":      b.Genre,
			"title_key":  b.TitleKey(),
			"author_key": b.AuthorKey(),
			"updated_at": now,
		}).Error
	})
	if err != nil {
		if isDuplicateError(err) {
			return r.duplicate(ctx, b, b.ID)
		}
		return apperrors.Storage(err, "更新图书失败")
	}

	b.UpdatedAt = now
	return nil
}

// duplicate 唯一索引兜底命中时，重新查一次冲突图书的ID
func (r *bookRepository) duplicate(ctx context.Context, b *book.Book, excludeID uint) error {
	id, found, err := r.FindExisting(ctx, b.Title, b.Author, b.Year, excludeID)
	if err != nil || !found {
		return book.NewDuplicateError(0)
	}
	return book.NewDuplicateError(id)
}

// Delete 删除图书，分类关联与评分由外键级联删除
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Storage(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Storage(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, apperrors.Storage(err, "查询图书失败")
	}
	return n > 0, nil
}

// FindExisting 按匹配键查重
//
//	SELECT id FROM books WHERE title_key = ? AND author_key = ? AND year IS NULL ORDER BY id LIMIT 1
func (r *bookRepository) FindExisting(ctx context.Context, title, author string, year *int, excludeID uint) (uint, bool, error) {
	q := getDB(ctx, r.db).Model(&BookModel{}).
		Where("title_key = ? AND author_key = ?", normalize.Key(title), normalize.Key(author))
	if year == nil {
		q = q.Where("year IS NULL")
	} else {
		q = q.Where("year = ?", *year)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ids []uint
	if err := q.Order("id ASC").Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, false, apperrors.Storage(err, "查重失败")
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// List 分页查询
// 总数与当前页是两条独立的查询，共用同一组过滤条件
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	db := getDB(ctx, r.db)

	var total int64
	if err := filteredBooks(db, params.Filter).Distinct("books.id").Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage(err, "查询图书总数失败")
	}

	if params.BeyondTotal(total) {
		return []*book.Book{}, total, nil
	}
	offset, _ := params.Offset()

	var models []BookModel
	err := filteredBooks(db, params.Filter).
		Select("books.*").
		Order("books.id DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Storage(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// Genres 出现过的类型，按匹配键排序
func (r *bookRepository) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("genre IS NOT NULL AND genre <> ''").
		Distinct("genre").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询类型失败")
	}
	sort.SliceStable(genres, func(i, j int) bool {
		ki, kj := normalize.Key(genres[i]), normalize.Key(genres[j])
		if ki != kj {
			return ki < kj
		}
		return genres[i] < genres[j]
	})
	return genres, nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Year:      b.Year,
		Genre:     b.Genre,
		TitleKey:  b.TitleKey(),
		AuthorKey: b.AuthorKey(),
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Year:      m.Year,
		Genre:     m.Genre,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
