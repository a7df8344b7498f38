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

func TestPublishRaisesTransientNotice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/club/microsite/publish", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, domain.MicrositeProfile{ID: "club-1", IsPublished: true})
	})

	svc := newMicrositeService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	svc.noticeTTL = 30 * time.Millisecond

	profile, err := svc.Publish(t.Context())
	require.NoError(t, err)
	assert.True(t, profile.IsPublished)
	assert.Equal(t, "Microsite published", svc.Notice())

	club, ok := svc.Club()
	require.True(t, ok)
	assert.True(t, club.IsPublished)

	// the success notice clears itself; error banners never do
	require.Eventually(t, func() bool { return svc.Notice() == "" }, time.Second, 5*time.Millisecond)
}

func TestPublishFailureBannerDoesNotAutoClear(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/club/microsite/publish", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"profile incomplete"}`))
	})

	svc := newMicrositeService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	svc.noticeTTL = 10 * time.Millisecond

	_, err := svc.Publish(t.Context())
	require.Error(t, err)
	assert.Empty(t, svc.Notice())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "profile incomplete", svc.Err(), "the banner stays until the next attempt")
}

func TestUploadLogoTwoPhase(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/club/microsite", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, domain.MicrositeProfile{ID: "club-1", Name: "Ace Club"})
	})
	mux.HandleFunc("POST /api/club/microsite/logo", func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		writeJSON(t, w, api.UploadResult{URL: "https://cdn.example.com/logos/" + header.Filename})
	})
	mux.HandleFunc("PUT /api/club/microsite", func(w http.ResponseWriter, r *http.Request) {
		var profile domain.MicrositeProfile
		require.NoError(t, json.NewDecoder(r.Body).Decode(&profile))
		// the URL from phase one rides in as a plain string field
		assert.Equal(t, "https://cdn.example.com/logos/logo.png", profile.LogoURL)
		writeJSON(t, w, profile)
	})

	svc := newMicrositeService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())
	require.NoError(t, svc.RefreshClub(t.Context()))

	updated, err := svc.UploadLogo(t.Context(), "logo.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logos/logo.png", updated.LogoURL)

	club, ok := svc.Club()
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/logos/logo.png", club.LogoURL)
}

func TestUpdatePartnerReplacesCell(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/partner/profile", func(w http.ResponseWriter, r *http.Request) {
		var profile domain.MicrositeProfile
		require.NoError(t, json.NewDecoder(r.Body).Decode(&profile))
		// the server owns the completion percentage
		profile.CompletionPct = 80
		writeJSON(t, w, profile)
	})

	svc := newMicrositeService(newTestAPI(t, mux), newFakeSnapshots(), zerolog.Nop())

	updated, err := svc.UpdatePartner(t.Context(), domain.MicrositeProfile{ID: "p-1", Name: "Padel Pro"})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.CompletionPct)

	partner, ok := svc.Partner()
	require.True(t, ok)
	assert.Equal(t, 80, partner.CompletionPct, "the cell holds the server's echo, not the submitted draft")
}
