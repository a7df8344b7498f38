package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"microsite-console/internal/domain"
	"microsite-console/internal/service"

	"github.com/rs/zerolog"
)

// MirrorServer exposes the reconciled slice state to local UI frontends
// as read-only JSON, plus a couple of triggers (refresh, filter changes).
// It never talks to the upstream itself beyond what the slices do.
type MirrorServer struct {
	session *service.Session
	logger  zerolog.Logger
}

func NewMirrorServer(session *service.Session, logger zerolog.Logger) *MirrorServer {
	return &MirrorServer{session: session, logger: logger}
}

func (s *MirrorServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /local/documents", s.handleDocuments)
	mux.HandleFunc("POST /local/documents/filter", s.handleDocumentFilter)
	mux.HandleFunc("GET /local/invoices", s.handleInvoices)
	mux.HandleFunc("GET /local/inbox", s.handleInbox)
	mux.HandleFunc("POST /local/inbox/filter", s.handleInboxFilter)
	mux.HandleFunc("GET /local/microsite", s.handleMicrosite)
	mux.HandleFunc("GET /local/state", s.handleState)
	mux.HandleFunc("GET /local/statistics", s.handleStatistics)
	mux.HandleFunc("GET /local/statistics/export", s.handleStatisticsExport)
	mux.HandleFunc("POST /local/refresh", s.handleRefresh)

	return mux
}

type documentsView struct {
	Documents []domain.Document     `json:"documents"`
	Stats     *domain.DocumentStats `json:"stats,omitempty"`
	Loading   bool                  `json:"loading"`
	Error     string                `json:"error,omitempty"`
}

func (s *MirrorServer) handleDocuments(w http.ResponseWriter, r *http.Request) {
	view := documentsView{
		Documents: s.session.Documents.Documents(),
		Loading:   s.session.Documents.Loading(),
		Error:     s.session.Documents.Err(),
	}
	if stats, ok := s.session.Documents.Stats(); ok {
		view.Stats = &stats
	}
	s.writeJSON(w, view)
}

func (s *MirrorServer) handleDocumentFilter(w http.ResponseWriter, r *http.Request) {
	var filter domain.DocumentFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "invalid filter", http.StatusBadRequest)
		return
	}
	s.session.SetDocumentFilter(filter)
	w.WriteHeader(http.StatusAccepted)
}

type invoiceView struct {
	domain.Invoice
	DisplayStatus domain.InvoiceStatus `json:"display_status"`
}

type invoicesView struct {
	Invoices []invoiceView        `json:"invoices"`
	Stats    *domain.InvoiceStats `json:"stats,omitempty"`
	Loading  bool                 `json:"loading"`
	Error    string               `json:"error,omitempty"`
}

func (s *MirrorServer) handleInvoices(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	invoices := s.session.Invoices.Invoices()
	view := invoicesView{
		Invoices: make([]invoiceView, 0, len(invoices)),
		Loading:  s.session.Invoices.Loading(),
		Error:    s.session.Invoices.Err(),
	}
	for _, inv := range invoices {
		view.Invoices = append(view.Invoices, invoiceView{
			Invoice:       inv,
			DisplayStatus: inv.EffectiveStatus(now),
		})
	}
	if stats, ok := s.session.Invoices.Stats(); ok {
		view.Stats = &stats
	}
	s.writeJSON(w, view)
}

type inboxView struct {
	Messages []domain.Message   `json:"messages"`
	Stats    *domain.InboxStats `json:"stats,omitempty"`
	Loading  bool               `json:"loading"`
	Error    string             `json:"error,omitempty"`
}

func (s *MirrorServer) handleInbox(w http.ResponseWriter, r *http.Request) {
	view := inboxView{
		Messages: s.session.Inbox.Messages(),
		Loading:  s.session.Inbox.Loading(),
		Error:    s.session.Inbox.Err(),
	}
	if stats, ok := s.session.Inbox.Stats(); ok {
		view.Stats = &stats
	}
	s.writeJSON(w, view)
}

func (s *MirrorServer) handleInboxFilter(w http.ResponseWriter, r *http.Request) {
	var filter domain.InboxFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "invalid filter", http.StatusBadRequest)
		return
	}
	s.session.SetInboxFilter(filter)
	w.WriteHeader(http.StatusAccepted)
}

type micrositeView struct {
	Club        *domain.MicrositeProfile `json:"club,omitempty"`
	Partner     *domain.MicrositeProfile `json:"partner,omitempty"`
	Affiliation *domain.Affiliation      `json:"affiliation,omitempty"`
	Notice      string                   `json:"notice,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

func (s *MirrorServer) handleMicrosite(w http.ResponseWriter, r *http.Request) {
	view := micrositeView{
		Notice: s.session.Microsite.Notice(),
		Error:  s.session.Microsite.Err(),
	}
	if club, ok := s.session.Microsite.Club(); ok {
		view.Club = &club
	}
	if partner, ok := s.session.Microsite.Partner(); ok {
		view.Partner = &partner
	}
	if aff, ok := s.session.Microsite.Affiliation(); ok {
		view.Affiliation = &aff
	}
	s.writeJSON(w, view)
}

type stateView struct {
	Profile *domain.MicrositeProfile `json:"profile,omitempty"`
	News    []domain.NewsArticle     `json:"news"`
	Loading bool                     `json:"loading"`
	Error   string                   `json:"error,omitempty"`
}

func (s *MirrorServer) handleState(w http.ResponseWriter, r *http.Request) {
	view := stateView{
		News:    s.session.State.News(),
		Loading: s.session.State.Loading(),
		Error:   s.session.State.Err(),
	}
	if profile, ok := s.session.State.Profile(); ok {
		view.Profile = &profile
	}
	s.writeJSON(w, view)
}

type statisticsView struct {
	Snapshot *domain.StatisticsSnapshot `json:"snapshot,omitempty"`
	Loading  bool                       `json:"loading"`
	Error    string                     `json:"error,omitempty"`
}

func (s *MirrorServer) handleStatistics(w http.ResponseWriter, r *http.Request) {
	view := statisticsView{
		Loading: s.session.Statistics.Loading(),
		Error:   s.session.Statistics.Err(),
	}
	if snap, ok := s.session.Statistics.Snapshot(); ok {
		view.Snapshot = &snap
	}
	s.writeJSON(w, view)
}

func (s *MirrorServer) handleStatisticsExport(w http.ResponseWriter, r *http.Request) {
	format := domain.ExportFormat(r.URL.Query().Get("format"))
	if format != domain.ExportFormatCSV && format != domain.ExportFormatPDF {
		http.Error(w, "format must be csv or pdf", http.StatusBadRequest)
		return
	}

	var dateRange domain.DateRange
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			http.Error(w, "invalid startDate", http.StatusBadRequest)
			return
		}
		dateRange.StartDate = t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			http.Error(w, "invalid endDate", http.StatusBadRequest)
			return
		}
		dateRange.EndDate = t
	}

	data, err := s.session.Statistics.Export(r.Context(), dateRange, format)
	if err != nil {
		http.Error(w, "export failed", http.StatusBadGateway)
		return
	}

	switch format {
	case domain.ExportFormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	case domain.ExportFormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="statistics.`+string(format)+`"`)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write export")
	}
}

func (s *MirrorServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := s.session.RefreshAll(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("background refresh failed")
		}
	}()
	w.WriteHeader(http.StatusAccepted)
}

func (s *MirrorServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode mirror response")
	}
}
