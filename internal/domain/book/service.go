package book

import (
	"context"
	"strings"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 查重(Duplicate Guard)在每次插入和编辑前执行
// 2. Add/Revise/Remove都应在调用方的事务内执行(见application/book)
type Service interface {
	// FindExisting 查找与给定(书名, 作者, 年份)匹配的图书
	FindExisting(ctx context.Context, title, author string, year *int) (uint, bool, error)

	// Add 校验、查重后插入
	Add(ctx context.Context, b *Book) error

	// Revise 校验、查重(排除自身)后更新
	Revise(ctx context.Context, b *Book) error

	// Remove 删除图书
	Remove(ctx context.Context, id uint) error

	// Get 获取图书
	Get(ctx context.Context, id uint) (*Book, error)

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Genres 类型列表
	Genres(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) FindExisting(ctx context.Context, title, author string, year *int) (uint, bool, error) {
	return s.repo.FindExisting(ctx, title, author, year, 0)
}

// Add 插入新图书
// 查重命中时不写入，返回带existing_id的重复错误
func (s *service) Add(ctx context.Context, b *Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.guard(ctx, b, 0); err != nil {
		return err
	}
	return s.repo.Create(ctx, b)
}

// Revise 更新已有图书
func (s *service) Revise(ctx context.Context, b *Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.guard(ctx, b, b.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, b)
}

func (s *service) guard(ctx context.Context, b *Book, excludeID uint) error {
	id, found, err := s.repo.FindExisting(ctx, b.Title, b.Author, b.Year, excludeID)
	if err != nil {
		return err
	}
	if found {
		return NewDuplicateError(id)
	}
	return nil
}

func (s *service) Remove(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// List 查询参数在这里做最后的规范化(去空白、页码下限、默认分页大小)
func (s *service) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.Q = strings.TrimSpace(params.Q)
	params.Genre = strings.TrimSpace(params.Genre)
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = PageSize
	}
	return s.repo.List(ctx, params)
}

func (s *service) Genres(ctx context.Context) ([]string, error) {
	return s.repo.Genres(ctx)
}
