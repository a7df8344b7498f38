package service

import (
	"net/http"
	"testing"

	"microsite-console/internal/api"
	"microsite-console/internal/domain"
	"microsite-console/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inboxHandler(t *testing.T, messages []domain.Message, stats domain.InboxStats) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/partner/inbox", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.InboxPage{Messages: messages, Stats: stats})
	})
	return mux
}

func TestInboxMarkReadFloorsUnread(t *testing.T) {
	mux := inboxHandler(t,
		[]domain.Message{{ID: "m1", Subject: "Welcome"}, {ID: "m2", Subject: "Renewal"}},
		domain.InboxStats{TotalMessages: 2, UnreadMessages: 1},
	)
	mux.HandleFunc("PUT /api/partner/messages/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, domain.Message{ID: r.PathValue("id"), IsRead: true})
	})

	svc := newInboxService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	require.NoError(t, svc.Refresh(t.Context(), domain.InboxFilter{}))

	_, err := svc.MarkRead(t.Context(), "m1")
	require.NoError(t, err)

	msg, ok := svc.store.Get("m1")
	require.True(t, ok)
	assert.True(t, msg.IsRead)

	stats, ok := svc.Stats()
	require.True(t, ok)
	assert.Equal(t, 0, stats.UnreadMessages)

	// the counter already hit zero; another read receipt must not push it
	// negative
	_, err = svc.MarkRead(t.Context(), "m2")
	require.NoError(t, err)
	stats, _ = svc.Stats()
	assert.Equal(t, 0, stats.UnreadMessages)
	assert.Equal(t, 2, stats.TotalMessages)
}

func TestInboxDeleteAdjustsTotalOnly(t *testing.T) {
	mux := inboxHandler(t,
		[]domain.Message{{ID: "m1"}, {ID: "m2"}},
		domain.InboxStats{TotalMessages: 2, UnreadMessages: 2},
	)
	mux.HandleFunc("DELETE /api/partner/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	snaps := newFakeSnapshots()
	svc := newInboxService(newTestAPI(t, mux), snaps, zerolog.Nop())
	require.NoError(t, svc.Refresh(t.Context(), domain.InboxFilter{}))

	require.NoError(t, svc.Delete(t.Context(), "m2"))

	require.Len(t, svc.Messages(), 1)
	stats, ok := svc.Stats()
	require.True(t, ok)
	assert.Equal(t, 1, stats.TotalMessages)
	assert.Equal(t, 2, stats.UnreadMessages, "deletion does not touch the unread count")
	assert.Equal(t, 1, snaps.count(repository.ResourceMessages))
}

func TestInboxMarkReadFailureKeepsMessage(t *testing.T) {
	mux := inboxHandler(t,
		[]domain.Message{{ID: "m1", IsRead: false}},
		domain.InboxStats{TotalMessages: 1, UnreadMessages: 1},
	)
	mux.HandleFunc("PUT /api/partner/messages/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"message locked"}`))
	})

	svc := newInboxService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	require.NoError(t, svc.Refresh(t.Context(), domain.InboxFilter{}))

	_, err := svc.MarkRead(t.Context(), "m1")
	require.Error(t, err)

	msg, ok := svc.store.Get("m1")
	require.True(t, ok)
	assert.False(t, msg.IsRead, "no optimistic flip before the server confirms")
	stats, _ := svc.Stats()
	assert.Equal(t, 1, stats.UnreadMessages)
	assert.Equal(t, "message locked", svc.Err())
}
