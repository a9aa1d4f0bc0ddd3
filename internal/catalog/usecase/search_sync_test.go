package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/pkg/logger"
	"github.com/dukapos/retail-core/pkg/search"
)

type recordedRequest struct {
	method string
	path   string
}

func newSearchFixture(t *testing.T) (*catalogUseCase, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	es, err := search.NewClient(&search.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	uc := &catalogUseCase{es: es, logger: logger.NewNop()}
	return uc, &requests
}

func testProduct(active bool) *model.Product {
	return &model.Product{
		BaseModel:  model.BaseModel{ID: "prod-1"},
		CategoryID: "cat-1",
		SKU:        "SKU-1",
		Name:       "Widget",
		Price:      decimal.NewFromInt(100),
		IsActive:   active,
	}
}

func TestSyncToSearch_IndexesActiveProduct(t *testing.T) {
	uc, requests := newSearchFixture(t)

	uc.syncToSearch(context.Background(), testProduct(true))

	last := (*requests)[len(*requests)-1]
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/products/_doc/prod-1", last.path)
}

func TestSyncToSearch_RemovesDeactivatedProduct(t *testing.T) {
	uc, requests := newSearchFixture(t)

	uc.syncToSearch(context.Background(), testProduct(false))

	last := (*requests)[len(*requests)-1]
	assert.Equal(t, http.MethodDelete, last.method)
	assert.Equal(t, "/products/_doc/prod-1", last.path)
}
