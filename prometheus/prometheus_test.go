package prometheus_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/prepcat"
	"github.com/fwojciec/prepcat/mock"
	pprom "github.com/fwojciec/prepcat/prometheus"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("labels requests by route pattern", func(t *testing.T) {
		t.Parallel()

		c := pprom.NewCollector("prepcat")
		r := chi.NewRouter()
		r.Use(c.Middleware)
		r.Get("/api/views/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		for _, id := range []string{"t1", "t2", "p5"} {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/views/"+id, nil))
		}

		assert.Equal(t, 3.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/views/{id}", "200")))
		assert.Equal(t, 1, testutil.CollectAndCount(c.HTTPRequests))
	})

	t.Run("records status codes", func(t *testing.T) {
		t.Parallel()

		c := pprom.NewCollector("prepcat")
		r := chi.NewRouter()
		r.Use(c.Middleware)
		r.Get("/api/subjects/{slug}/topics", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/subjects/x/topics", nil))

		assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/subjects/{slug}/topics", "404")))
	})
}

func TestCollector_Handler(t *testing.T) {
	t.Parallel()

	c := pprom.NewCollector("prepcat")
	c.SetCatalogSize(2, 3, 1, 1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `prepcat_catalog_items{kind="topic"} 3`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSearchService(t *testing.T) {
	t.Parallel()

	t.Run("counts outcomes", func(t *testing.T) {
		t.Parallel()

		c := pprom.NewCollector("prepcat")
		inner := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
				switch query {
				case "mughal":
					return []*prepcat.SearchResult{{ID: "t1"}}, nil
				case "fail":
					return nil, errors.New("boom")
				default:
					return []*prepcat.SearchResult{}, nil
				}
			},
		}
		svc := pprom.NewSearchService(inner, c)
		ctx := context.Background()

		results, err := svc.Search(ctx, "mughal")
		require.NoError(t, err)
		assert.Len(t, results, 1)
		_, err = svc.Search(ctx, "zz")
		require.NoError(t, err)
		_, err = svc.Search(ctx, "fail")
		require.Error(t, err)

		assert.Equal(t, 1.0, testutil.ToFloat64(c.Searches.WithLabelValues(pprom.OutcomeMatched)))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Searches.WithLabelValues(pprom.OutcomeEmpty)))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Searches.WithLabelValues(pprom.OutcomeError)))
	})
}

func TestViewService(t *testing.T) {
	t.Parallel()

	c := pprom.NewCollector("prepcat")
	inner := &mock.ViewService{
		RecordViewFn: func(ctx context.Context, id string) (int, error) {
			if id == "" {
				return 0, prepcat.Errorf(prepcat.EINVALID, "item id required")
			}
			return 1, nil
		},
		ViewCountFn: func(ctx context.Context, id string) (int, error) {
			return 1, nil
		},
	}
	svc := pprom.NewViewService(inner, c)
	ctx := context.Background()

	n, err := svc.RecordView(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = svc.RecordView(ctx, "t1")
	require.NoError(t, err)
	_, err = svc.RecordView(ctx, "")
	require.Error(t, err)
	n, err = svc.ViewCount(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ViewsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ViewErrors.WithLabelValues("record")))
}
