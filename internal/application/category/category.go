package category

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "application/category"

// CategoryView 分类输出DTO
type CategoryView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"book_count"`
}

func newCategoryView(c *category.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, BookCount: c.BookCount}
}

// ListCategoriesUseCase 分类列表（含每个分类的图书数量）
type ListCategoriesUseCase struct {
	categories category.Service
}

// NewListCategoriesUseCase 创建分类列表用例
func NewListCategoriesUseCase(categories category.Service) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categories: categories}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]CategoryView, error) {
	cats, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryView, len(cats))
	for i, c := range cats {
		out[i] = newCategoryView(c)
	}
	return out, nil
}

// CreateCategoryUseCase 新建分类
// 名称与已有分类匹配（不区分大小写、忽略多余空白）时返回已有分类
type CreateCategoryUseCase struct {
	categories category.Service
	log        *logger.Logger
}

// NewCreateCategoryUseCase 创建新建分类用例
func NewCreateCategoryUseCase(categories category.Service, log *logger.Logger) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{categories: categories, log: log}
}

func (uc *CreateCategoryUseCase) Execute(ctx context.Context, name string) (*CategoryView, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateCategory")
	defer span.End()

	c, err := uc.categories.Create(ctx, name)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	logger.FromContext(ctx, uc.log).Info("分类已保存", "category_id", c.ID, "name", c.Name)
	v := newCategoryView(c)
	return &v, nil
}

// DeleteCategoryUseCase 删除分类
// 仍被图书使用时不删除，通过结果中的deleted=false告知调用方
type DeleteCategoryUseCase struct {
	categories category.Service
	log        *logger.Logger
}

// NewDeleteCategoryUseCase 创建删除分类用例
func NewDeleteCategoryUseCase(categories category.Service, log *logger.Logger) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{categories: categories, log: log}
}

func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, id uint) (*category.DeleteResult, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteCategory")
	defer span.End()

	res, err := uc.categories.Delete(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	log := logger.FromContext(ctx, uc.log)
	if !res.Deleted {
		metrics.IncCounter(metrics.CategoryDeleteRefusedTotal)
		log.Info("分类仍被使用，拒绝删除", "category_id", id, "in_use", res.InUse)
		return res, nil
	}
	log.Info("分类已删除", "category_id", id)
	return res, nil
}
