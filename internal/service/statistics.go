package service

import (
	"context"
	"sync"

	"microsite-console/internal/api"
	"microsite-console/internal/constants"
	"microsite-console/internal/domain"
	"microsite-console/internal/repository"
	"microsite-console/internal/store"

	"github.com/rs/zerolog"
)

const (
	fallbackLoadStatistics   = "Failed to load statistics"
	fallbackExportStatistics = "Failed to export statistics"
)

// StatisticsService renders and exports server-computed aggregates. It
// remembers the active date range so the auto-refresh poller re-fetches
// the same window the user is looking at.
type StatisticsService struct {
	api       *api.Client
	snapshot  *store.Cell[domain.StatisticsSnapshot]
	snapshots snapshotStore
	logger    zerolog.Logger

	rangeMu sync.RWMutex
	current domain.DateRange
}

func NewStatisticsService(client *api.Client, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *StatisticsService {
	return newStatisticsService(client, snapshots, logger)
}

func newStatisticsService(client *api.Client, snapshots snapshotStore, logger zerolog.Logger) *StatisticsService {
	return &StatisticsService{
		api:       client,
		snapshot:  store.NewCell[domain.StatisticsSnapshot](),
		snapshots: snapshots,
		logger:    logger,
	}
}

func (s *StatisticsService) Refresh(ctx context.Context, r domain.DateRange) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.rangeMu.Lock()
	s.current = r
	s.rangeMu.Unlock()

	seq := s.snapshot.Begin()
	s.snapshot.SetLoading(true)
	defer s.snapshot.SetLoading(false)

	snap, err := s.api.GetStatistics(ctx, r)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch statistics")
		s.snapshot.SetError(api.Message(err, fallbackLoadStatistics))
		return err
	}

	if !s.snapshot.CompleteFetch(seq, *snap) {
		s.logger.Debug().Uint64("seq", seq).Msg("discarding stale statistics")
		return nil
	}

	records, merr := repository.Marshal([]statisticsRecord{{Snapshot: *snap}})
	if merr == nil {
		merr = s.snapshots.ReplaceAll(ctx, repository.ResourceStatistics, records)
	}
	if merr != nil {
		s.logger.Warn().Err(merr).Msg("failed to snapshot statistics")
	}

	return nil
}

// RefreshCurrent re-fetches with the last requested range; used by the
// auto-refresh poller.
func (s *StatisticsService) RefreshCurrent(ctx context.Context) error {
	s.rangeMu.RLock()
	r := s.current
	s.rangeMu.RUnlock()
	return s.Refresh(ctx, r)
}

// Export fetches the opaque csv/pdf blob for the given range.
func (s *StatisticsService) Export(ctx context.Context, r domain.DateRange, format domain.ExportFormat) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.snapshot.SetError("")
	data, err := s.api.ExportStatistics(ctx, r, format)
	if err != nil {
		s.logger.Error().Err(err).Str("format", string(format)).Msg("statistics export failed")
		s.snapshot.SetError(api.Message(err, fallbackExportStatistics))
		return nil, err
	}
	return data, nil
}

func (s *StatisticsService) Restore(ctx context.Context) {
	records, err := s.snapshots.LoadAll(ctx, repository.ResourceStatistics)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore statistics snapshot")
		return
	}
	restored := repository.Unmarshal[statisticsRecord](s.logger, records)
	if len(restored) == 0 {
		return
	}
	s.snapshot.Set(restored[0].Snapshot)
}

func (s *StatisticsService) Snapshot() (domain.StatisticsSnapshot, bool) { return s.snapshot.Get() }

func (s *StatisticsService) Loading() bool { return s.snapshot.Loading() }

func (s *StatisticsService) Err() string { return s.snapshot.Err() }

// statisticsRecord gives the single snapshot a stable id in the snapshot
// table.
type statisticsRecord struct {
	Snapshot domain.StatisticsSnapshot `json:"snapshot"`
}

func (statisticsRecord) EntityID() string { return "current" }
