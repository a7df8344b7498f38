package service

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"microsite-console/internal/api"
	"microsite-console/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceHandler(t *testing.T, invoices []domain.Invoice, stats domain.InvoiceStats) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/partner/invoices", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.InvoiceList{Invoices: invoices, Stats: stats})
	})
	return mux
}

func TestInvoicePayMovesOpenToPaid(t *testing.T) {
	now := time.Now()
	mux := invoiceHandler(t,
		[]domain.Invoice{{ID: "i1", Total: 150, Status: domain.InvoiceStatusPending}},
		domain.InvoiceStats{TotalInvoices: 1, OpenAmount: 150, PaidAmount: 0},
	)
	mux.HandleFunc("POST /api/partner/invoices/{id}/pay", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PaymentMethod string `json:"payment_method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bank_transfer", req.PaymentMethod)
		writeJSON(t, w, domain.Invoice{
			ID:            r.PathValue("id"),
			Total:         150,
			Status:        domain.InvoiceStatusPaid,
			PaymentDate:   &now,
			PaymentMethod: req.PaymentMethod,
		})
	})

	svc := newInvoiceService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	require.NoError(t, svc.Refresh(t.Context()))

	_, err := svc.Pay(t.Context(), "i1", "bank_transfer")
	require.NoError(t, err)

	inv, ok := svc.store.Get("i1")
	require.True(t, ok)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)

	stats, ok := svc.Stats()
	require.True(t, ok)
	assert.InDelta(t, 0, stats.OpenAmount, 0.001)
	assert.InDelta(t, 150, stats.PaidAmount, 0.001)
}

func TestInvoiceGetPatchesOnlyExisting(t *testing.T) {
	mux := invoiceHandler(t,
		[]domain.Invoice{{ID: "i1", Amount: 100}},
		domain.InvoiceStats{TotalInvoices: 1},
	)
	mux.HandleFunc("GET /api/partner/invoices/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, domain.Invoice{ID: r.PathValue("id"), Amount: 120})
	})

	svc := newInvoiceService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	require.NoError(t, svc.Refresh(t.Context()))

	// present in the collection: patched in place
	_, err := svc.Get(t.Context(), "i1")
	require.NoError(t, err)
	inv, ok := svc.store.Get("i1")
	require.True(t, ok)
	assert.InDelta(t, 120, inv.Amount, 0.001)

	// gone from the collection, e.g. dropped by a newer list fetch: the
	// single fetch still succeeds but patches nothing
	_, err = svc.Get(t.Context(), "i9")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.store.Len())
}

func TestInvoiceRefreshFailureKeepsStaleList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/partner/invoices", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	svc := newInvoiceService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	svc.store.SetCollection([]domain.Invoice{{ID: "stale"}})

	require.Error(t, svc.Refresh(t.Context()))
	assert.Len(t, svc.Invoices(), 1)
	assert.Equal(t, "Failed to load invoices", svc.Err())
}
