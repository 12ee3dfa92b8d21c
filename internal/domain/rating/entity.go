package rating

import (
	"math"
	"time"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 评分范围
const (
	MinStars = 1
	MaxStars = 5
)

// Rating 用户对图书的评分，每个(用户, 图书)最多一条
type Rating struct {
	UserID    uint
	BookID    uint
	Stars     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats 单本图书的评分统计
// 没有评分时Average为nil(JSON中为null，表示"未评分")
type Stats struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

// NewStats 由原始平均值与数量构造统计，平均值保留一位小数
func NewStats(avg *float64, count int64) Stats {
	if avg == nil || count == 0 {
		return Stats{}
	}
	r := RoundAverage(*avg)
	return Stats{Average: &r, Count: count}
}

// RoundAverage 四舍五入到一位小数
func RoundAverage(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// TopRatedBook 评分排行项
type TopRatedBook struct {
	BookID  uint    `json:"book_id"`
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ErrRaterNotFound 评分用户已不存在(Token签发后账号被删除)
var ErrRaterNotFound = apperrors.New(apperrors.ErrCodeUnauthorized, "账号不存在，请重新登录")

// ErrInvalidStars 评分不在1-5之间
var ErrInvalidStars = apperrors.ErrInvalidParams.WithField("stars", "评分必须是1到5之间的整数")

// ValidateStars 校验评分
func ValidateStars(stars int) error {
	if stars < MinStars || stars > MaxStars {
		return ErrInvalidStars
	}
	return nil
}
