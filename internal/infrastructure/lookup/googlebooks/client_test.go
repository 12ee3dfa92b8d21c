package googlebooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/lookup"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.LookupConfig{
		BaseURL:          server.URL,
		Timeout:          2 * time.Second,
		RatePerSecond:    1000,
		Burst:            100,
		MaxResults:       10,
		BreakerFailures:  2,
		BreakerOpenTime:  time.Minute,
		BreakerInterval:  time.Minute,
		BreakerHalfProbe: 1,
	}, logger.Nop())
}

func TestClient_Search(t *testing.T) {
	fixture := loadFixture(t, "volumes.json")

	var gotQuery, gotMax string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, volumesPath, r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture)
	})

	cands, err := client.Search(context.Background(), "  soledad ", 5)
	require.NoError(t, err)
	assert.Equal(t, "soledad", gotQuery)
	assert.Equal(t, "5", gotMax)

	// 书名为空的结果被丢弃
	require.Len(t, cands, 2)

	first := cands[0]
	assert.Equal(t, "Cien años de soledad", first.Title)
	assert.Equal(t, "Gabriel García Márquez", first.Author)
	require.NotNil(t, first.Year)
	assert.Equal(t, 1967, *first.Year)
	assert.Equal(t, "Fiction", first.Genre)
	assert.Equal(t, []string{"Fiction", "Magic realism"}, first.Categories)

	second := cands[1]
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", second.Author)
	assert.Equal(t, "", second.Genre)
	assert.Empty(t, second.Categories)
}

func TestClient_SearchEmptyQuery(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	_, err := client.Search(context.Background(), "   ", 0)
	assert.ErrorIs(t, err, lookup.ErrEmptyQuery)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Search(ctx, "dune", 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLookupUnavailable))
	}
	assert.Equal(t, circuitbreaker.StateOpen, client.breaker.State())

	// 熔断打开后不再请求下游
	_, err := client.Search(ctx, "dune", 0)
	assert.ErrorIs(t, err, lookup.ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	for i := 0; i < 3; i++ {
		_, err := client.Search(context.Background(), "dune", 0)
		require.Error(t, err)
		var se *statusError
		assert.True(t, errors.As(err, &se))
	}
	assert.Equal(t, circuitbreaker.StateClosed, client.breaker.State())
}

func TestClampLimit(t *testing.T) {
	c := &Client{maxResults: 10}
	assert.Equal(t, 10, c.clampLimit(0))
	assert.Equal(t, 3, c.clampLimit(3))
	assert.Equal(t, maxResultsLimit, c.clampLimit(500))
}

func TestParseYear(t *testing.T) {
	cases := map[string]*int{
		"":           nil,
		"19":         nil,
		"abcd-01":    nil,
		"2004":       intPtr(2004),
		"2004-05-01": intPtr(2004),
	}
	for in, want := range cases {
		got := parseYear(in)
		if want == nil {
			assert.Nil(t, got, in)
			continue
		}
		require.NotNil(t, got, in)
		assert.Equal(t, *want, *got, in)
	}
}

func intPtr(v int) *int { return &v }
