package purchase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-wms/meridian/internal/listview"
)

type listResponse struct {
	Orders     []json.RawMessage   `json:"orders"`
	Pagination listview.Pagination `json:"pagination"`
}

func newTestRouter(t *testing.T, pageSize int) (chi.Router, *Service) {
	t.Helper()
	svc := NewService(nil)
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, pageSize)
	router := chi.NewRouter()
	handler.MountRoutes(router)
	return router, svc
}

func seedOrders(t *testing.T, svc *Service, count int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		input := sampleInput()
		input.Number = fmt.Sprintf("PO-2026-%03d", i+1)
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}
}

func TestListUsesConfiguredPageSize(t *testing.T) {
	router, svc := newTestRouter(t, 2)
	seedOrders(t, svc, 3)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Pagination.PerPage)
	require.Equal(t, 3, resp.Pagination.Total)
	require.Equal(t, 2, resp.Pagination.TotalPages)
	require.Len(t, resp.Orders, 2)
}

func TestListQueryPerPageOverridesConfigured(t *testing.T) {
	router, svc := newTestRouter(t, 2)
	seedOrders(t, svc, 3)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?per_page=50", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 50, resp.Pagination.PerPage)
	require.Len(t, resp.Orders, 3)
}
