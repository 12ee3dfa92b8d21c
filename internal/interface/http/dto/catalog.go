package dto

// CategoryRequest 新建分类请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required,notblank" example:"Ciencia ficción"`
}

// CategoryURI 路径参数 /categories/:id
type CategoryURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

// LookupQuery 外部检索参数
type LookupQuery struct {
	Q     string `form:"q" binding:"required,notblank" example:"dune herbert"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=40" example:"10"`
}

// ImportRequest 导入一条检索结果（字段与检索返回的候选一致，可在导入前修改）
type ImportRequest struct {
	Title      string   `json:"title" binding:"required,notblank" example:"Dune"`
	Author     string   `json:"author" binding:"required,notblank" example:"Frank Herbert"`
	Year       *int     `json:"year" example:"1965"`
	Genre      string   `json:"genre" example:"Fiction"`
	Categories []string `json:"categories" example:"Fiction"`
	Thumbnail  string   `json:"thumbnail,omitempty"`
}
