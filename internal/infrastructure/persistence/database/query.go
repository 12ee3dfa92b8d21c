package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/normalize"
)

// 列表查询构建器
// 每个过滤条件是一个带占位符的clause.Expr，条件之间以AND组合；
// 用户输入只出现在Vars里，不拼接进SQL

// textPredicate 书名或作者包含q(不区分大小写，通配符按字面匹配)
// 比较的是匹配键列，所以对非ASCII字符同样不区分大小写
func textPredicate(q string) clause.Expression {
	like := "%" + normalize.EscapeLike(normalize.Key(q)) + "%"
	return clause.Expr{
		SQL:  "(books.title_key LIKE ? ESCAPE '!' OR books.author_key LIKE ? ESCAPE '!')",
		Vars: []interface{}{like, like},
	}
}

func genrePredicate(genre string) clause.Expression {
	return clause.Expr{SQL: "books.genre = ?", Vars: []interface{}{genre}}
}

// predicates 过滤条件(调用方已去除首尾空白)
func predicates(f book.Filter) []clause.Expression {
	var exprs []clause.Expression
	if f.Q != "" {
		exprs = append(exprs, textPredicate(f.Q))
	}
	if f.Genre != "" {
		exprs = append(exprs, genrePredicate(f.Genre))
	}
	return exprs
}

// filteredBooks 返回应用了全部过滤条件的books查询
// 按分类过滤时内连接book_category；(book_id, category_id)是主键，每本书最多一行
func filteredBooks(db *gorm.DB, f book.Filter) *gorm.DB {
	q := db.Model(&BookModel{})
	if f.CategoryID != 0 {
		q = q.Joins("JOIN book_category bc ON bc.book_id = books.id AND bc.category_id = ?", f.CategoryID)
	}
	if exprs := predicates(f); len(exprs) > 0 {
		q = q.Clauses(clause.Where{Exprs: exprs})
	}
	return q
}
