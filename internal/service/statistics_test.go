package service

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"microsite-console/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsRefreshCurrentReusesRange(t *testing.T) {
	var mu sync.Mutex
	var queries []string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/partner/statistics", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()
		writeJSON(t, w, domain.StatisticsSnapshot{GeneratedAt: time.Now()})
	})

	svc := newStatisticsService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())

	r := domain.DateRange{
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.Refresh(t.Context(), r))

	// the poller path re-fetches whatever window the user last requested
	require.NoError(t, svc.RefreshCurrent(t.Context()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 2)
	assert.Equal(t, queries[0], queries[1])
	assert.Contains(t, queries[1], "startDate=2026-02-01")
	assert.Contains(t, queries[1], "endDate=2026-02-28")

	_, ok := svc.Snapshot()
	assert.True(t, ok)
}

func TestStatisticsExport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/partner/statistics/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("month,revenue\n2026-01,1200\n"))
	})

	svc := newStatisticsService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())

	data, err := svc.Export(t.Context(), domain.DateRange{}, domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(data), "month,revenue")
}
