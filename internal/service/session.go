package service

import (
	"context"

	"microsite-console/internal/constants"
	"microsite-console/internal/debounce"
	"microsite-console/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Session bundles every slice of one admin session. Slice state lives for
// exactly as long as the session; closing it drops the filter controllers
// and any in-flight debounced fetch.
type Session struct {
	Documents  *DocumentService
	Invoices   *InvoiceService
	Inbox      *InboxService
	Microsite  *MicrositeService
	State      *StateMicrositeService
	Statistics *StatisticsService

	documentFilters *debounce.Controller[domain.DocumentFilter]
	inboxFilters    *debounce.Controller[domain.InboxFilter]
	logger          zerolog.Logger
}

func NewSession(
	documents *DocumentService,
	invoices *InvoiceService,
	inbox *InboxService,
	microsite *MicrositeService,
	state *StateMicrositeService,
	statistics *StatisticsService,
	logger zerolog.Logger,
) *Session {
	s := &Session{
		Documents:  documents,
		Invoices:   invoices,
		Inbox:      inbox,
		Microsite:  microsite,
		State:      state,
		Statistics: statistics,
		logger:     logger,
	}

	s.documentFilters = debounce.New(constants.FilterDebounceDelay, func(ctx context.Context, f domain.DocumentFilter) {
		if err := documents.Refresh(ctx, f); err != nil {
			logger.Debug().Err(err).Msg("debounced document fetch failed")
		}
	}, logger)

	s.inboxFilters = debounce.New(constants.FilterDebounceDelay, func(ctx context.Context, f domain.InboxFilter) {
		if err := inbox.Refresh(ctx, f); err != nil {
			logger.Debug().Err(err).Msg("debounced inbox fetch failed")
		}
	}, logger)

	return s
}

// SetDocumentFilter schedules a debounced document refetch.
func (s *Session) SetDocumentFilter(f domain.DocumentFilter) {
	s.documentFilters.Set(f)
}

// SetInboxFilter schedules a debounced inbox refetch.
func (s *Session) SetInboxFilter(f domain.InboxFilter) {
	s.inboxFilters.Set(f)
}

// Restore seeds every slice from the persisted snapshots so the console
// renders before its first fetch completes.
func (s *Session) Restore(ctx context.Context) {
	s.Documents.Restore(ctx)
	s.Invoices.Restore(ctx)
	s.Inbox.Restore(ctx)
	s.Microsite.Restore(ctx)
	s.State.Restore(ctx)
	s.Statistics.Restore(ctx)
}

// RefreshAll fetches every slice with its default parameters. Slices fail
// independently; the first error is returned after all fetches finish
// recording their own banners.
func (s *Session) RefreshAll(ctx context.Context) error {
	// plain group: one slice failing must not cancel the others
	g := new(errgroup.Group)

	g.Go(func() error { return s.Documents.Refresh(ctx, domain.DocumentFilter{}) })
	g.Go(func() error { return s.Invoices.Refresh(ctx) })
	g.Go(func() error { return s.Inbox.Refresh(ctx, domain.InboxFilter{}) })
	g.Go(func() error { return s.Microsite.RefreshClub(ctx) })
	g.Go(func() error { return s.Microsite.RefreshPartner(ctx) })
	g.Go(func() error { return s.Microsite.RefreshAffiliation(ctx) })
	g.Go(func() error { return s.State.Refresh(ctx) })
	g.Go(func() error { return s.Statistics.RefreshCurrent(ctx) })

	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("session refresh finished with errors")
		return err
	}
	s.logger.Info().Msg("session refreshed")
	return nil
}

// Close drops the filter controllers and cancels any debounced fetch
// still in flight.
func (s *Session) Close() {
	s.documentFilters.Close()
	s.inboxFilters.Close()
}
