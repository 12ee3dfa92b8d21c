package category

import (
	"context"
	"fmt"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// Service 分类领域服务
type Service interface {
	// EnsureCategories 确保名称对应的分类都存在，按输入顺序返回ID(已去重)
	EnsureCategories(ctx context.Context, names []string) ([]uint, error)

	// ReplaceCategories 整体替换图书的分类，ids为空时清空
	ReplaceCategories(ctx context.Context, bookID uint, ids []uint) error

	// NamesForBooks 批量查询图书的分类名
	NamesForBooks(ctx context.Context, bookIDs []uint) (map[uint][]string, error)

	// List 分类列表(含图书数量)
	List(ctx context.Context) ([]*Category, error)

	// Create 新建分类；同名(匹配键相同)已存在时返回已有分类
	Create(ctx context.Context, name string) (*Category, error)

	// Delete 删除未被使用的分类
	Delete(ctx context.Context, id uint) (*DeleteResult, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) EnsureCategories(ctx context.Context, names []string) ([]uint, error) {
	cats := NormalizeNames(names)
	if len(cats) == 0 {
		return []uint{}, nil
	}
	for _, c := range cats {
		if err := ValidateName(c.Name); err != nil {
			return nil, ErrInvalidName.WithField("categories", fmt.Sprintf("分类名称过长: %.20s…", c.Name))
		}
	}

	if err := s.repo.InsertIgnore(ctx, cats); err != nil {
		return nil, err
	}

	keys := make([]string, len(cats))
	for i, c := range cats {
		keys[i] = c.Key()
	}
	idByKey, err := s.repo.IDsByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(keys))
	for _, k := range keys {
		id, ok := idByKey[k]
		if !ok {
			return nil, apperrors.Storage(fmt.Errorf("category key %q not resolved after insert", k), "保存分类失败")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *service) ReplaceCategories(ctx context.Context, bookID uint, ids []uint) error {
	return s.repo.ReplaceForBook(ctx, bookID, dedupIDs(ids))
}

func (s *service) NamesForBooks(ctx context.Context, bookIDs []uint) (map[uint][]string, error) {
	if len(bookIDs) == 0 {
		return map[uint][]string{}, nil
	}
	return s.repo.NamesForBooks(ctx, bookIDs)
}

func (s *service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.ListWithCounts(ctx)
}

func (s *service) Create(ctx context.Context, name string) (*Category, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	c := NewCategory(name)
	if err := s.repo.InsertIgnore(ctx, []*Category{c}); err != nil {
		return nil, err
	}
	return s.repo.FindByKey(ctx, c.Key())
}

// Delete 被引用的分类不删除，返回Deleted=false与引用数
func (s *service) Delete(ctx context.Context, id uint) (*DeleteResult, error) {
	deleted, inUse, err := s.repo.DeleteIfUnused(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return &DeleteResult{
			Deleted: false,
			InUse:   inUse,
			Reason:  fmt.Sprintf("分类仍被%d本图书使用，无法删除", inUse),
		}, nil
	}
	return &DeleteResult{Deleted: true}, nil
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
