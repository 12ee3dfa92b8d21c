package book

import (
	"context"
	"math"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 插入图书
	// 唯一索引冲突(并发写入同一本书)必须翻译为NewDuplicateError，并尽量带上已存在的ID
	Create(ctx context.Context, book *Book) error

	// Update 更新图书(同样处理唯一索引冲突)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书，级联删除分类关联与评分；不存在返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// FindByID 根据ID查找图书；不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Exists 图书是否存在
	Exists(ctx context.Context, id uint) (bool, error)

	// FindExisting 按匹配键查找重复图书
	// year为nil时只匹配年份为NULL的记录；excludeID非0时排除该图书(编辑场景)
	// 返回匹配的最小ID
	FindExisting(ctx context.Context, title, author string, year *int, excludeID uint) (uint, bool, error)

	// List 按过滤条件分页查询，返回当前页与总数
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Genres 目录中出现过的所有类型(去重、按不区分大小写排序)
	Genres(ctx context.Context) ([]string, error)
}

// PageSize 公开列表的固定分页大小
const PageSize = 10

// Filter 列表过滤条件，空值表示不过滤
type Filter struct {
	Q          string // 书名或作者的子串(不区分大小写)
	Genre      string // 类型精确匹配
	CategoryID uint   // 分类ID
}

// ListParams 列表查询参数
type ListParams struct {
	Filter
	Page     int // 页码(从1开始)
	PageSize int // 每页数量
}

// Offset 分页偏移量
// 页码过大导致(Page-1)*PageSize溢出时ok为false，这样的页一定超出范围
func (p ListParams) Offset() (offset int, ok bool) {
	if p.Page < 1 || p.PageSize < 1 {
		return 0, true
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return 0, false
	}
	return (p.Page - 1) * p.PageSize, true
}

// BeyondTotal 当前页是否超出总数(超出时直接返回空页，不再查询)
func (p ListParams) BeyondTotal(total int64) bool {
	offset, ok := p.Offset()
	return !ok || int64(offset) >= total
}
