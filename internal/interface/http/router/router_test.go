package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	appcategory "github.com/xiebiao/bookcatalog/internal/application/category"
	applookup "github.com/xiebiao/bookcatalog/internal/application/lookup"
	apprating "github.com/xiebiao/bookcatalog/internal/application/rating"
	appreport "github.com/xiebiao/bookcatalog/internal/application/report"
	appuser "github.com/xiebiao/bookcatalog/internal/application/user"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/category"
	"github.com/xiebiao/bookcatalog/internal/domain/event"
	"github.com/xiebiao/bookcatalog/internal/domain/lookup"
	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/database/dbtest"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

type stubSearcher struct {
	candidates []lookup.Candidate
	err        error
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]lookup.Candidate, error) {
	return s.candidates, s.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t        *testing.T
	engine   *gin.Engine
	searcher *stubSearcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	db := dbtest.New(t)
	log := logger.Nop()
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	tx := database.NewTxManager(db)
	bookRepo := database.NewBookRepository(db)
	books := book.NewService(bookRepo)
	cats := category.NewService(database.NewCategoryRepository(db))
	ratings := rating.NewService(database.NewRatingRepository(db), bookRepo, rating.NopCache{})
	users := user.NewService(database.NewUserRepository(db))
	events := event.NopPublisher{}
	sessions := memory.NewSessionStore()
	jm := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	searcher := &stubSearcher{}

	create := appbook.NewCreateBookUseCase(tx, books, cats, events, log)
	h := &Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(users, log),
			appuser.NewLoginUseCase(users, jm, sessions, log),
			appuser.NewLogoutUseCase(jm, sessions),
			appuser.NewRecoverUseCase(users, log),
		),
		Book: handler.NewBookHandler(
			create,
			appbook.NewUpdateBookUseCase(tx, books, cats, events, log),
			appbook.NewDeleteBookUseCase(books, ratings, events, log),
			appbook.NewGetBookUseCase(books, cats, ratings),
			appbook.NewListBooksUseCase(books, cats, ratings),
			appbook.NewListGenresUseCase(books),
		),
		Rating: handler.NewRatingHandler(
			apprating.NewRateBookUseCase(ratings, events, log),
			apprating.NewGetMyRatingUseCase(ratings, bookRepo),
		),
		Category: handler.NewCategoryHandler(
			appcategory.NewListCategoriesUseCase(cats),
			appcategory.NewCreateCategoryUseCase(cats, log),
			appcategory.NewDeleteCategoryUseCase(cats, log),
		),
		Report: handler.NewReportHandler(appreport.NewGetReportUseCase(database.NewReportRepository(db), ratings)),
		Lookup: handler.NewLookupHandler(
			applookup.NewSearchUseCase(searcher),
			applookup.NewImportUseCase(create),
		),
	}

	return &testServer{
		t:        t,
		engine:   New(cfg, log, h, middleware.NewAuthMiddleware(jm, sessions)),
		searcher: searcher,
	}
}

func (s *testServer) do(method, path string, body interface{}, token string) envelope {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	env := s.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": username, "password": "secreto123"}, "")
	require.Equal(s.t, 0, env.Code, env.Message)
	env = s.do(http.MethodPost, "/api/v1/users/login", gin.H{"username": username, "password": "secreto123"}, "")
	require.Equal(s.t, 0, env.Code, env.Message)
	return decode[appuser.LoginResponse](s.t, env).AccessToken
}

func TestPingAndMetrics(t *testing.T) {
	s := newTestServer(t)

	env := s.do(http.MethodGet, "/ping", nil, "")
	assert.Equal(t, 0, env.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestBookLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ana")

	payload := gin.H{
		"title":      "Cien años de soledad",
		"author":     "Gabriel García Márquez",
		"year":       1967,
		"genre":      "Novela",
		"categories": []string{"Realismo mágico", "Clásicos"},
	}

	// 未登录不能新增
	env := s.do(http.MethodPost, "/api/v1/books", payload, "")
	assert.Equal(t, apperrors.ErrCodeUnauthorized, env.Code)

	env = s.do(http.MethodPost, "/api/v1/books", payload, token)
	require.Equal(t, 0, env.Code, env.Message)
	created := decode[appbook.BookView](t, env)
	assert.ElementsMatch(t, []string{"Realismo mágico", "Clásicos"}, created.Categories)

	// 大小写与首尾空白不同也判重，并给出已有图书ID
	dup := gin.H{"title": "  CIEN AÑOS DE SOLEDAD ", "author": "gabriel garcía márquez", "year": 1967}
	env = s.do(http.MethodPost, "/api/v1/books", dup, token)
	assert.Equal(t, apperrors.ErrCodeDuplicateEntry, env.Code)
	meta := decode[map[string]interface{}](t, env)
	assert.EqualValues(t, created.ID, meta["existing_id"])

	bookPath := fmt.Sprintf("/api/v1/books/%d", created.ID)

	// 评分越界
	env = s.do(http.MethodPut, bookPath+"/rating", gin.H{"stars": 6}, token)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	assert.Contains(t, string(env.Data), "stars")

	env = s.do(http.MethodPut, bookPath+"/rating", gin.H{"stars": 4}, token)
	require.Equal(t, 0, env.Code, env.Message)
	env = s.do(http.MethodPut, bookPath+"/rating", gin.H{"stars": 5}, token)
	require.Equal(t, 0, env.Code, env.Message)
	rated := decode[apprating.RateBookResponse](t, env)
	assert.EqualValues(t, 1, rated.Stats.Count)

	// 匿名详情不含my_rating，登录后含
	env = s.do(http.MethodGet, bookPath, nil, "")
	require.Equal(t, 0, env.Code)
	assert.Nil(t, decode[appbook.BookView](t, env).MyRating)
	env = s.do(http.MethodGet, bookPath, nil, token)
	detail := decode[appbook.BookView](t, env)
	require.NotNil(t, detail.MyRating)
	assert.Equal(t, 5, *detail.MyRating)
	require.NotNil(t, detail.Rating.Average)
	assert.Equal(t, 5.0, *detail.Rating.Average)

	// 列表与过滤
	env = s.do(http.MethodGet, "/api/v1/books?q=garc%C3%ADa&genre=Novela", nil, "")
	list := decode[appbook.ListBooksResponse](t, env)
	assert.EqualValues(t, 1, list.Total)
	env = s.do(http.MethodGet, "/api/v1/books?genre=Poes%C3%ADa", nil, "")
	assert.EqualValues(t, 0, decode[appbook.ListBooksResponse](t, env).Total)

	// 超出范围的页码返回空页与真实总数，包括乘法会溢出的页码
	for _, page := range []string{"2", "922337203685477582", "1844674407370955163"} {
		env = s.do(http.MethodGet, "/api/v1/books?q=garc%C3%ADa&page="+page, nil, "")
		require.Equal(t, 0, env.Code, page)
		list = decode[appbook.ListBooksResponse](t, env)
		assert.Empty(t, list.List, page)
		assert.EqualValues(t, 1, list.Total, page)
	}
	for _, page := range []string{"abc", "99999999999999999999"} {
		env = s.do(http.MethodGet, "/api/v1/books?page="+page, nil, "")
		assert.Equal(t, apperrors.ErrCodeBindError, env.Code, page)
	}

	env = s.do(http.MethodGet, "/api/v1/books/genres", nil, "")
	assert.Equal(t, []string{"Novela"}, decode[[]string](t, env))

	// 仍被使用的分类拒绝删除
	env = s.do(http.MethodGet, "/api/v1/categories", nil, "")
	cats := decode[[]appcategory.CategoryView](t, env)
	require.Len(t, cats, 2)
	env = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", cats[0].ID), nil, token)
	require.Equal(t, 0, env.Code)
	assert.False(t, decode[category.DeleteResult](t, env).Deleted)

	// 编辑：清空分类与年份
	env = s.do(http.MethodPut, bookPath, gin.H{"title": "Cien años de soledad", "author": "Gabriel García Márquez", "categories": []string{}}, token)
	require.Equal(t, 0, env.Code, env.Message)
	updated := decode[appbook.BookView](t, env)
	assert.Nil(t, updated.Year)
	assert.Empty(t, updated.Categories)

	env = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", cats[0].ID), nil, token)
	assert.True(t, decode[category.DeleteResult](t, env).Deleted)

	env = s.do(http.MethodGet, "/api/v1/reports", nil, "")
	require.Equal(t, 0, env.Code)
	rep := decode[appreport.Report](t, env)
	assert.EqualValues(t, 1, rep.Summary.Books)

	env = s.do(http.MethodDelete, bookPath, nil, token)
	require.Equal(t, 0, env.Code)
	env = s.do(http.MethodGet, bookPath, nil, "")
	assert.Equal(t, apperrors.ErrCodeBookNotFound, env.Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.login("bea")

	env := s.do(http.MethodPost, "/api/v1/books", gin.H{"title": "   ", "author": "Borges"}, token)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	fields := decode[map[string]map[string]string](t, env)["fields"]
	assert.Contains(t, fields, "title")

	env = s.do(http.MethodPost, "/api/v1/books", `{"title":"Ficciones","author":"Borges","year":"mil"}`, token)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	assert.Contains(t, string(env.Data), "year")

	env = s.do(http.MethodPost, "/api/v1/books", `{"title":`, token)
	assert.Equal(t, apperrors.ErrCodeBindError, env.Code)

	env = s.do(http.MethodGet, "/api/v1/books/abc", nil, "")
	assert.Equal(t, apperrors.ErrCodeBindError, env.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login("carla")

	env := s.do(http.MethodPost, "/api/v1/users/logout", nil, token)
	require.Equal(t, 0, env.Code, env.Message)

	env = s.do(http.MethodPost, "/api/v1/categories", gin.H{"name": "Ensayo"}, token)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, env.Code)

	// 找回密码对存在与不存在的账号返回同一提示
	known := s.do(http.MethodPost, "/api/v1/users/recover", gin.H{"identifier": "carla"}, "")
	unknown := s.do(http.MethodPost, "/api/v1/users/recover", gin.H{"identifier": "nadie"}, "")
	assert.Equal(t, 0, known.Code)
	assert.Equal(t, string(known.Data), string(unknown.Data))
}

func TestLookupSearchAndImport(t *testing.T) {
	s := newTestServer(t)
	token := s.login("dora")

	year := 1965
	s.searcher.candidates = []lookup.Candidate{{Title: "Dune", Author: "Frank Herbert", Year: &year, Genre: "Fiction", Categories: []string{"Fiction"}}}

	env := s.do(http.MethodGet, "/api/v1/lookup/books?q=dune", nil, "")
	assert.Equal(t, apperrors.ErrCodeUnauthorized, env.Code)

	env = s.do(http.MethodGet, "/api/v1/lookup/books?q=dune&limit=5", nil, token)
	require.Equal(t, 0, env.Code, env.Message)
	cands := decode[[]lookup.Candidate](t, env)
	require.Len(t, cands, 1)

	env = s.do(http.MethodPost, "/api/v1/lookup/books/import", cands[0], token)
	require.Equal(t, 0, env.Code, env.Message)
	imported := decode[appbook.BookView](t, env)
	assert.Equal(t, "Dune", imported.Title)

	// 再次导入判重
	env = s.do(http.MethodPost, "/api/v1/lookup/books/import", cands[0], token)
	assert.Equal(t, apperrors.ErrCodeDuplicateEntry, env.Code)

	s.searcher.err = lookup.ErrUnavailable
	env = s.do(http.MethodGet, "/api/v1/lookup/books?q=dune", nil, token)
	assert.Equal(t, apperrors.ErrCodeLookupUnavailable, env.Code)
}
