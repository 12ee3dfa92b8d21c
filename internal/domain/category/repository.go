package category

import "context"

// Repository 分类仓储接口
type Repository interface {
	// InsertIgnore 按匹配键插入，已存在的分类保持不变(ON CONFLICT DO NOTHING)
	InsertIgnore(ctx context.Context, cats []*Category) error

	// IDsByKeys 匹配键 → 分类ID
	IDsByKeys(ctx context.Context, keys []string) (map[string]uint, error)

	// FindByKey 按匹配键查找；不存在返回ErrCategoryNotFound
	FindByKey(ctx context.Context, key string) (*Category, error)

	// FindByID 按ID查找；不存在返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)

	// ReplaceForBook 用ids整体替换图书的分类关联
	ReplaceForBook(ctx context.Context, bookID uint, ids []uint) error

	// NamesForBooks 批量查询图书的分类名(按不区分大小写排序)
	NamesForBooks(ctx context.Context, bookIDs []uint) (map[uint][]string, error)

	// ListWithCounts 所有分类及其图书数量
	ListWithCounts(ctx context.Context) ([]*Category, error)

	// DeleteIfUnused 分类未被任何图书使用时删除
	// 返回是否删除以及当前引用数；分类不存在返回ErrCategoryNotFound
	DeleteIfUnused(ctx context.Context, id uint) (bool, int64, error)
}
