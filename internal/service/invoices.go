package service

import (
	"context"

	"microsite-console/internal/api"
	"microsite-console/internal/constants"
	"microsite-console/internal/domain"
	"microsite-console/internal/repository"
	"microsite-console/internal/store"

	"github.com/rs/zerolog"
)

const (
	fallbackLoadInvoices  = "Failed to load invoices"
	fallbackLoadInvoice   = "Failed to load invoice"
	fallbackPayInvoice    = "Failed to record payment"
	fallbackInvoiceExport = "Failed to download invoice"
)

type InvoiceService struct {
	api       *api.Client
	store     *store.Store[domain.Invoice]
	stats     *store.Cell[domain.InvoiceStats]
	snapshots snapshotStore
	logger    zerolog.Logger
}

func NewInvoiceService(client *api.Client, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *InvoiceService {
	return newInvoiceService(client, snapshots, logger)
}

func newInvoiceService(client *api.Client, snapshots snapshotStore, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		api:       client,
		store:     store.New[domain.Invoice](),
		stats:     store.NewCell[domain.InvoiceStats](),
		snapshots: snapshots,
		logger:    logger,
	}
}

func (s *InvoiceService) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	seq := s.store.Begin()
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	list, err := s.api.ListInvoices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch invoices")
		s.store.SetError(api.Message(err, fallbackLoadInvoices))
		return err
	}

	if !s.store.CompleteFetch(seq, list.Invoices) {
		s.logger.Debug().Uint64("seq", seq).Msg("discarding stale invoice list")
		return nil
	}
	s.stats.Set(list.Stats)

	records, merr := repository.Marshal(list.Invoices)
	if merr == nil {
		merr = s.snapshots.ReplaceAll(ctx, repository.ResourceInvoices, records)
	}
	if merr != nil {
		s.logger.Warn().Err(merr).Msg("failed to snapshot invoices")
	}

	s.logger.Info().Int("count", len(list.Invoices)).Msg("invoices fetched")
	return nil
}

// Get re-fetches one invoice and patches it into the collection. Patching
// an invoice that a newer list fetch already dropped is a no-op.
func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	inv, err := s.api.GetInvoice(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to fetch invoice")
		s.store.SetError(api.Message(err, fallbackLoadInvoice))
		return nil, err
	}

	s.store.PatchOne(*inv)
	return inv, nil
}

func (s *InvoiceService) Pay(ctx context.Context, id, paymentMethod string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	inv, err := s.api.PayInvoice(ctx, id, paymentMethod)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("payment failed")
		s.store.SetError(api.Message(err, fallbackPayInvoice))
		return nil, err
	}

	s.store.PatchOne(*inv)
	s.stats.Update(func(st *domain.InvoiceStats) { st.InvoicePaid(inv.Total) })

	records, merr := repository.Marshal([]domain.Invoice{*inv})
	if merr == nil {
		merr = s.snapshots.Put(ctx, repository.ResourceInvoices, records[0])
	}
	if merr != nil {
		s.logger.Warn().Err(merr).Str("id", id).Msg("failed to snapshot invoice")
	}

	s.logger.Info().Str("id", id).Str("method", paymentMethod).Msg("invoice paid")
	return inv, nil
}

func (s *InvoiceService) Download(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	data, err := s.api.DownloadInvoice(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("invoice download failed")
		s.store.SetError(api.Message(err, fallbackInvoiceExport))
		return nil, err
	}
	return data, nil
}

func (s *InvoiceService) Restore(ctx context.Context) {
	records, err := s.snapshots.LoadAll(ctx, repository.ResourceInvoices)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore invoice snapshots")
		return
	}
	if len(records) == 0 {
		return
	}
	s.store.SetCollection(repository.Unmarshal[domain.Invoice](s.logger, records))
	s.logger.Info().Int("count", len(records)).Msg("invoices restored from snapshot")
}

func (s *InvoiceService) Invoices() []domain.Invoice { return s.store.Items() }

func (s *InvoiceService) Stats() (domain.InvoiceStats, bool) { return s.stats.Get() }

func (s *InvoiceService) Loading() bool { return s.store.Loading() }

func (s *InvoiceService) Err() string { return s.store.Err() }
