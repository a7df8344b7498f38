package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"microsite-console/internal/api"
	"microsite-console/internal/config"
	"microsite-console/internal/repository"

	"github.com/stretchr/testify/require"
)

// fakeSnapshots is an in-memory snapshotStore keeping records in insert
// order, mirroring the position column of the real repository.
type fakeSnapshots struct {
	mu   sync.Mutex
	data map[string][]repository.Record
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: map[string][]repository.Record{}}
}

func (f *fakeSnapshots) ReplaceAll(_ context.Context, resource string, records []repository.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[resource] = append([]repository.Record(nil), records...)
	return nil
}

func (f *fakeSnapshots) Put(_ context.Context, resource string, rec repository.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.data[resource] {
		if existing.ID == rec.ID {
			f.data[resource][i] = rec
			return nil
		}
	}
	f.data[resource] = append(f.data[resource], rec)
	return nil
}

func (f *fakeSnapshots) Delete(_ context.Context, resource, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := f.data[resource]
	for i, rec := range records {
		if rec.ID == id {
			f.data[resource] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSnapshots) LoadAll(_ context.Context, resource string) ([]repository.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.Record(nil), f.data[resource]...), nil
}

func (f *fakeSnapshots) count(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data[resource])
}

func newTestAPI(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewClient(&config.Config{APIBaseURL: srv.URL})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}
