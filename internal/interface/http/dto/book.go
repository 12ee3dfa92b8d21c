package dto

// BookRequest 新增/编辑图书请求
// 长度、年份范围等规则在领域层统一校验，这里只做必填与类型检查
type BookRequest struct {
	Title      string   `json:"title" binding:"required,notblank" example:"Cien años de soledad"`
	Author     string   `json:"author" binding:"required,notblank" example:"Gabriel García Márquez"`
	Year       *int     `json:"year" example:"1967"`
	Genre      string   `json:"genre" example:"Novela"`
	Categories []string `json:"categories" example:"Realismo mágico,Clásicos"`
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Q          string `form:"q" binding:"omitempty,max=255" example:"garcía"`
	Genre      string `form:"genre" binding:"omitempty,max=100" example:"Novela"`
	CategoryID uint   `form:"category_id" example:"3"`
	Page       int    `form:"page" binding:"omitempty,min=1" example:"1"`
}

// BookURI 路径参数 /books/:id
type BookURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

// RatingRequest 评分请求
type RatingRequest struct {
	Stars int `json:"stars" binding:"required" example:"5"`
}
