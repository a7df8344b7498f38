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
	fallbackLoadInbox     = "Failed to load messages"
	fallbackMarkRead      = "Failed to mark message as read"
	fallbackDeleteMessage = "Failed to delete message"
)

type InboxService struct {
	api       *api.Client
	store     *store.Store[domain.Message]
	stats     *store.Cell[domain.InboxStats]
	snapshots snapshotStore
	logger    zerolog.Logger
}

func NewInboxService(client *api.Client, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *InboxService {
	return newInboxService(client, snapshots, logger)
}

func newInboxService(client *api.Client, snapshots snapshotStore, logger zerolog.Logger) *InboxService {
	return &InboxService{
		api:       client,
		store:     store.New[domain.Message](),
		stats:     store.NewCell[domain.InboxStats](),
		snapshots: snapshots,
		logger:    logger,
	}
}

func (s *InboxService) Refresh(ctx context.Context, filter domain.InboxFilter) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	seq := s.store.Begin()
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	page, err := s.api.ListInbox(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch inbox")
		s.store.SetError(api.Message(err, fallbackLoadInbox))
		return err
	}

	if !s.store.CompleteFetch(seq, page.Messages) {
		s.logger.Debug().Uint64("seq", seq).Msg("discarding stale inbox page")
		return nil
	}
	s.stats.Set(page.Stats)

	records, merr := repository.Marshal(page.Messages)
	if merr == nil {
		merr = s.snapshots.ReplaceAll(ctx, repository.ResourceMessages, records)
	}
	if merr != nil {
		s.logger.Warn().Err(merr).Msg("failed to snapshot inbox")
	}

	s.logger.Info().Int("count", len(page.Messages)).Msg("inbox fetched")
	return nil
}

// MarkRead confirms the read receipt with the server, patches the message
// in place and decrements the unread counter by one, floored at zero. The
// server remains authoritative; the next fetch corrects any drift.
func (s *InboxService) MarkRead(ctx context.Context, id string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	msg, err := s.api.MarkMessageRead(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("mark read failed")
		s.store.SetError(api.Message(err, fallbackMarkRead))
		return nil, err
	}

	s.store.PatchOne(*msg)
	s.stats.Update(func(st *domain.InboxStats) { st.MessageRead() })

	records, merr := repository.Marshal([]domain.Message{*msg})
	if merr == nil {
		merr = s.snapshots.Put(ctx, repository.ResourceMessages, records[0])
	}
	if merr != nil {
		s.logger.Warn().Err(merr).Str("id", id).Msg("failed to snapshot message")
	}

	return msg, nil
}

func (s *InboxService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	if err := s.api.DeleteMessage(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("message delete failed")
		s.store.SetError(api.Message(err, fallbackDeleteMessage))
		return err
	}

	s.store.RemoveOne(id)
	s.stats.Update(func(st *domain.InboxStats) { st.MessageRemoved() })
	if err := s.snapshots.Delete(ctx, repository.ResourceMessages, id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("failed to delete message snapshot")
	}
	s.logger.Info().Str("id", id).Msg("message deleted")
	return nil
}

func (s *InboxService) Restore(ctx context.Context) {
	records, err := s.snapshots.LoadAll(ctx, repository.ResourceMessages)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore inbox snapshots")
		return
	}
	if len(records) == 0 {
		return
	}
	s.store.SetCollection(repository.Unmarshal[domain.Message](s.logger, records))
	s.logger.Info().Int("count", len(records)).Msg("inbox restored from snapshot")
}

func (s *InboxService) Messages() []domain.Message { return s.store.Items() }

func (s *InboxService) Stats() (domain.InboxStats, bool) { return s.stats.Get() }

func (s *InboxService) Loading() bool { return s.store.Loading() }

func (s *InboxService) Err() string { return s.store.Err() }
