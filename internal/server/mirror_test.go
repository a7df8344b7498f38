package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"microsite-console/internal/api"
	"microsite-console/internal/config"
	"microsite-console/internal/domain"
	"microsite-console/internal/repository"
	"microsite-console/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func newTestSession(t *testing.T, upstream http.Handler) *service.Session {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	client := api.NewClient(&config.Config{APIBaseURL: srv.URL})

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE snapshots (
		resource   TEXT NOT NULL,
		entity_id  TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (resource, entity_id)
	)`)
	require.NoError(t, err)
	repo := repository.NewSnapshotRepository(db, zerolog.Nop())

	log := zerolog.Nop()
	session := service.NewSession(
		service.NewDocumentService(client, repo, log),
		service.NewInvoiceService(client, repo, log),
		service.NewInboxService(client, repo, log),
		service.NewMicrositeService(client, repo, log),
		service.NewStateMicrositeService(client, &config.Config{StateID: "state-1"}, repo, log),
		service.NewStatisticsService(client, repo, log),
		log,
	)
	t.Cleanup(session.Close)
	return session
}

func TestInvoicesViewDerivesDisplayStatus(t *testing.T) {
	now := time.Now()
	upstream := http.NewServeMux()
	upstream.HandleFunc("GET /api/partner/invoices", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(api.InvoiceList{
			Invoices: []domain.Invoice{
				{ID: "late", Status: domain.InvoiceStatusPending, DueDate: now.Add(-48 * time.Hour)},
				{ID: "open", Status: domain.InvoiceStatusPending, DueDate: now.Add(48 * time.Hour)},
				{ID: "done", Status: domain.InvoiceStatusPaid, DueDate: now.Add(-48 * time.Hour)},
			},
		}))
	})

	session := newTestSession(t, upstream)
	require.NoError(t, session.Invoices.Refresh(t.Context()))

	mirror := NewMirrorServer(session, zerolog.Nop())
	rec := httptest.NewRecorder()
	mirror.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/local/invoices", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Invoices []struct {
			ID            string               `json:"id"`
			Status        domain.InvoiceStatus `json:"status"`
			DisplayStatus domain.InvoiceStatus `json:"display_status"`
		} `json:"invoices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Invoices, 3)

	byID := map[string]domain.InvoiceStatus{}
	for _, inv := range view.Invoices {
		byID[inv.ID] = inv.DisplayStatus
		if inv.ID == "late" {
			// the stored status is untouched; overdue is display-only
			assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
		}
	}
	assert.Equal(t, domain.InvoiceStatusOverdue, byID["late"])
	assert.Equal(t, domain.InvoiceStatusPending, byID["open"])
	assert.Equal(t, domain.InvoiceStatusPaid, byID["done"])
}

func TestDocumentsViewCarriesSliceState(t *testing.T) {
	session := newTestSession(t, http.NotFoundHandler())
	mirror := NewMirrorServer(session, zerolog.Nop())

	rec := httptest.NewRecorder()
	mirror.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/local/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Documents []domain.Document     `json:"documents"`
		Stats     *domain.DocumentStats `json:"stats"`
		Loading   bool                  `json:"loading"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Documents)
	assert.Nil(t, view.Stats, "no stats block before the first fetch")
	assert.False(t, view.Loading)
}

func TestFilterEndpointRejectsBadJSON(t *testing.T) {
	session := newTestSession(t, http.NotFoundHandler())
	mirror := NewMirrorServer(session, zerolog.Nop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/local/documents/filter", strings.NewReader("{not json"))
	mirror.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/local/inbox/filter", strings.NewReader(`{"search":"renewal"}`))
	mirror.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestStatisticsExportValidatesInput(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("GET /api/partner/statistics/export", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("month,revenue\n"))
	})

	session := newTestSession(t, upstream)
	mirror := NewMirrorServer(session, zerolog.Nop())
	handler := mirror.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/local/statistics/export?format=xlsx", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/local/statistics/export?format=csv&startDate=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/local/statistics/export?format=csv&startDate=2026-01-01&endDate=2026-01-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "statistics.csv")
	assert.Contains(t, rec.Body.String(), "month,revenue")
}
