package database

import (
	"time"
)

// GORM数据模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，表结构由migrations/下的SQL维护（不使用AutoMigrate）
// 2. domain层的实体不依赖GORM，Repository负责两者之间的转换
// 3. 没有软删除：删除图书必须真正触发外键级联

// UserModel 用户表
type UserModel struct {
	ID        uint    `gorm:"primaryKey"`
	Username  string  `gorm:"column:username"`
	Password  string  `gorm:"column:password"`
	Email     *string `gorm:"column:email"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

// BookModel 图书表
// title_key、author_key是查重用的匹配键，由应用在写入时计算
type BookModel struct {
	ID        uint    `gorm:"primaryKey"`
	Title     string  `gorm:"column:title"`
	Author    string  `gorm:"column:author"`
	Year      *int    `gorm:"column:year"`
	Genre     *string `gorm:"column:genre"`
	TitleKey  string  `gorm:"column:title_key"`
	AuthorKey string  `gorm:"column:author_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BookModel) TableName() string { return "books" }

// CategoryModel 分类表
type CategoryModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"column:name"`
	NameKey   string `gorm:"column:name_key"`
	CreatedAt time.Time
}

func (CategoryModel) TableName() string { return "categories" }

// BookCategoryModel 图书-分类关联表（复合主键）
type BookCategoryModel struct {
	BookID     uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (BookCategoryModel) TableName() string { return "book_category" }

// RatingModel 评分表，(user_id, book_id)为主键
type RatingModel struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	BookID    uint `gorm:"primaryKey;autoIncrement:false"`
	Stars     int  `gorm:"column:stars"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RatingModel) TableName() string { return "ratings" }
