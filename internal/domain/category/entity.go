package category

import (
	"time"
	"unicode/utf8"

	"github.com/xiebiao/bookcatalog/internal/domain/normalize"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// MaxNameLen 分类名最大字符数
const MaxNameLen = 100

// Category 分类实体
// 同一分类的判定依据是匹配键(Key)，Name保留第一次出现时的写法
type Category struct {
	ID        uint
	Name      string
	BookCount int64 // 仅列表查询时填充
	CreatedAt time.Time
}

// NewCategory 创建分类，名称去除首尾空白并压缩内部空白
func NewCategory(name string) *Category {
	return &Category{Name: normalize.CategoryName(name)}
}

// Key 分类的匹配键
func (c *Category) Key() string {
	return normalize.CategoryKey(c.Name)
}

// 分类领域错误
var (
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")
	ErrInvalidName      = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不合法")
)

// ValidateName 校验单个分类名(去空白后非空且不超过100个字符)
func ValidateName(name string) error {
	n := normalize.CategoryName(name)
	if n == "" {
		return ErrInvalidName.WithField("name", "分类名称不能为空")
	}
	if utf8.RuneCountInString(n) > MaxNameLen {
		return ErrInvalidName.WithField("name", "分类名称不能超过100个字符")
	}
	return nil
}

// NormalizeNames 规范化一组分类名
// 保持首次出现的顺序，按匹配键去重，忽略空白名称
//
//	NormalizeNames([]string{"A", "a", "  A  ", ""}) == []string{"A"}
func NormalizeNames(names []string) []*Category {
	seen := make(map[string]struct{}, len(names))
	out := make([]*Category, 0, len(names))
	for _, raw := range names {
		c := NewCategory(raw)
		if c.Name == "" {
			continue
		}
		k := c.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// DeleteResult 删除分类的结果
// 分类仍被图书使用时拒绝删除，这是正常结果而不是错误
type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	InUse   int64  `json:"in_use"`
	Reason  string `json:"reason,omitempty"`
}
