//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	appcategory "github.com/xiebiao/bookcatalog/internal/application/category"
	applookup "github.com/xiebiao/bookcatalog/internal/application/lookup"
	apprating "github.com/xiebiao/bookcatalog/internal/application/rating"
	appreport "github.com/xiebiao/bookcatalog/internal/application/report"
	appuser "github.com/xiebiao/bookcatalog/internal/application/user"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// infrastructureSet 数据库、Redis、RabbitMQ、外部检索
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideSessionStore,
	provideStatsCache,
	provideEventPublisher,
	provideSearcher,
	provideJWTManager,
)

// repositorySet 仓储与事务管理器
var repositorySet = wire.NewSet(
	database.NewBookRepository,
	database.NewCategoryRepository,
	database.NewRatingRepository,
	database.NewReportRepository,
	database.NewUserRepository,
	database.NewTxManager,
	wire.Bind(new(appbook.Transactor), new(*database.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
	category.NewService,
	provideRatingService,
	user.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewListGenresUseCase,
	appcategory.NewListCategoriesUseCase,
	appcategory.NewCreateCategoryUseCase,
	appcategory.NewDeleteCategoryUseCase,
	apprating.NewRateBookUseCase,
	apprating.NewGetMyRatingUseCase,
	appreport.NewGetReportUseCase,
	applookup.NewSearchUseCase,
	applookup.NewImportUseCase,
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRecoverUseCase,
)

// interfaceSet 中间件、处理器与路由
var interfaceSet = wire.NewSet(
	provideTokenBlacklist,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewRatingHandler,
	handler.NewCategoryHandler,
	handler.NewReportHandler,
	handler.NewLookupHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用
// cleanup按依赖逆序关闭RabbitMQ、Redis、数据库连接
func InitializeApp(cfg *config.Config, log *logger.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
