package book

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xiebiao/bookcatalog/internal/domain/normalize"
)

// 字段长度限制（与迁移脚本中的列宽一致）
const (
	MaxTitleLen  = 255
	MaxAuthorLen = 255
	MaxGenreLen  = 100
	MinYear      = 0
	MaxYear      = 2100
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. Year、Genre可以为空，用指针表示NULL
// 2. 查重不看ID，只看(书名, 作者, 年份)的匹配键，见TitleKey/AuthorKey
// 3. 分类与评分属于各自的聚合，通过BookID关联
type Book struct {
	ID        uint
	Title     string
	Author    string
	Year      *int
	Genre     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// 书名、作者去除首尾空白；genre去空白后为空则存为NULL
func NewBook(title, author string, year *int, genre string) *Book {
	b := &Book{}
	b.apply(title, author, year, genre)
	return b
}

// Revise 编辑图书(除ID与创建时间外的所有字段)
func (b *Book) Revise(title, author string, year *int, genre string) {
	b.apply(title, author, year, genre)
}

func (b *Book) apply(title, author string, year *int, genre string) {
	b.Title = strings.TrimSpace(title)
	b.Author = strings.TrimSpace(author)
	b.Year = nil
	if year != nil {
		y := *year
		b.Year = &y
	}
	b.Genre = nil
	if g := strings.TrimSpace(genre); g != "" {
		b.Genre = &g
	}
}

// TitleKey 书名的匹配键
func (b *Book) TitleKey() string {
	return normalize.Key(b.Title)
}

// AuthorKey 作者的匹配键
func (b *Book) AuthorKey() string {
	return normalize.Key(b.Author)
}

// GenreValue 类型，NULL时返回空串
func (b *Book) GenreValue() string {
	if b.Genre == nil {
		return ""
	}
	return *b.Genre
}

// Validate 字段级校验，所有不合法字段一次性返回
func (b *Book) Validate() error {
	var verr *ValidationErrors
	if b.Title == "" {
		verr = verr.add("title", "书名不能为空")
	} else if utf8.RuneCountInString(b.Title) > MaxTitleLen {
		verr = verr.add("title", "书名不能超过255个字符")
	}
	if b.Author == "" {
		verr = verr.add("author", "作者不能为空")
	} else if utf8.RuneCountInString(b.Author) > MaxAuthorLen {
		verr = verr.add("author", "作者不能超过255个字符")
	}
	if b.Year != nil && (*b.Year < MinYear || *b.Year > MaxYear) {
		verr = verr.add("year", "年份必须在0到2100之间")
	}
	if b.Genre != nil && utf8.RuneCountInString(*b.Genre) > MaxGenreLen {
		verr = verr.add("genre", "类型不能超过100个字符")
	}
	if verr == nil {
		return nil
	}
	return verr.Err()
}
