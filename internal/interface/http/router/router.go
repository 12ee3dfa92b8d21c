// Package router 组装gin引擎：全局中间件与全部路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Handlers 路由需要的全部处理器（由wire.Struct注入）
type Handlers struct {
	User     *handler.UserHandler
	Book     *handler.BookHandler
	Rating   *handler.RatingHandler
	Category *handler.CategoryHandler
	Report   *handler.ReportHandler
	Lookup   *handler.LookupHandler
}

// New 创建gin引擎
// 中间件顺序：Recovery → RequestLogger → Metrics → 路由匹配 → Auth → Handler
func New(cfg *config.Config, log *logger.Logger, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	dto.RegisterValidators()

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 访问 /swagger/index.html 查看API文档
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/recover", h.User.Recover)
			users.POST("/logout", auth.RequireAuth(), h.User.Logout)
		}

		books := v1.Group("/books")
		{
			books.GET("", auth.OptionalAuth(), h.Book.ListBooks)
			books.GET("/genres", h.Book.ListGenres)
			books.GET("/:id", auth.OptionalAuth(), h.Book.GetBook)

			authorized := books.Group("", auth.RequireAuth())
			authorized.POST("", h.Book.CreateBook)
			authorized.PUT("/:id", h.Book.UpdateBook)
			authorized.DELETE("/:id", h.Book.DeleteBook)
			authorized.PUT("/:id/rating", h.Rating.RateBook)
			authorized.GET("/:id/rating", h.Rating.GetMyRating)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", h.Category.ListCategories)
			categories.POST("", auth.RequireAuth(), h.Category.CreateCategory)
			categories.DELETE("/:id", auth.RequireAuth(), h.Category.DeleteCategory)
		}

		v1.GET("/reports", h.Report.GetReport)

		lookup := v1.Group("/lookup", auth.RequireAuth())
		{
			lookup.GET("/books", h.Lookup.Search)
			lookup.POST("/books/import", h.Lookup.Import)
		}
	}

	return r
}
