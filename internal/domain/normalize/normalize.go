// Package normalize 目录文本的匹配键
//
// 查重与分类去重都按"匹配键"比较，而不是依赖数据库的LOWER()：
// SQLite的LOWER只处理ASCII，"CIEN AÑOS"与"cien años"在库里比较会不相等。
// 匹配键在写入时由应用计算并落库（books.title_key、categories.name_key）。
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Key 去除首尾空白、NFC规范化、Unicode大小写折叠
//
//	Key("  Dune ") == Key("DUNE") == "dune"
func Key(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return folder.String(norm.NFC.String(s))
}

// CollapseSpaces 去除首尾空白并把内部连续空白压缩为一个空格
func CollapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// CategoryKey 分类的匹配键（比Key多一步内部空白压缩，"Ciencia  Ficción"与"ciencia ficción"视为同一分类）
func CategoryKey(s string) string {
	return Key(CollapseSpaces(s))
}

// CategoryName 分类的展示名：首尾去空白、内部空白压缩、NFC规范化，保留大小写
func CategoryName(s string) string {
	return norm.NFC.String(CollapseSpaces(s))
}

// EscapeLike 转义LIKE模式中的通配符（配合 ESCAPE '!' 使用）
func EscapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
