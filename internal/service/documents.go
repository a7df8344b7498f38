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

// snapshotStore is the slice-facing view of the snapshot repository.
// Snapshot writes are best-effort: failures are logged, never surfaced as
// slice errors.
type snapshotStore interface {
	ReplaceAll(ctx context.Context, resource string, records []repository.Record) error
	Put(ctx context.Context, resource string, rec repository.Record) error
	Delete(ctx context.Context, resource, id string) error
	LoadAll(ctx context.Context, resource string) ([]repository.Record, error)
}

const (
	fallbackLoadDocuments   = "Failed to load documents"
	fallbackUploadDocument  = "Failed to upload document"
	fallbackSignDocument    = "Failed to sign document"
	fallbackDeleteDocument  = "Failed to delete document"
	fallbackDownloadFailure = "Failed to download file"
)

type DocumentService struct {
	api       *api.Client
	store     *store.Store[domain.Document]
	stats     *store.Cell[domain.DocumentStats]
	snapshots snapshotStore
	logger    zerolog.Logger
}

func NewDocumentService(client *api.Client, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *DocumentService {
	return newDocumentService(client, snapshots, logger)
}

func newDocumentService(client *api.Client, snapshots snapshotStore, logger zerolog.Logger) *DocumentService {
	return &DocumentService{
		api:       client,
		store:     store.New[domain.Document](),
		stats:     store.NewCell[domain.DocumentStats](),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Refresh replaces the document collection with the server's list for the
// given filter. On failure the stale collection stays in place and only
// the banner changes.
func (s *DocumentService) Refresh(ctx context.Context, filter domain.DocumentFilter) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	seq := s.store.Begin()
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	list, err := s.api.ListDocuments(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch documents")
		s.store.SetError(api.Message(err, fallbackLoadDocuments))
		return err
	}

	if !s.store.CompleteFetch(seq, list.Documents) {
		s.logger.Debug().Uint64("seq", seq).Msg("discarding stale document list")
		return nil
	}
	s.stats.Set(list.Stats)

	s.snapshotAll(ctx, list.Documents)
	s.logger.Info().Int("count", len(list.Documents)).Msg("documents fetched")
	return nil
}

// Upload runs the two-phase upload: push the binary through the generic
// upload endpoint, then create the document record referencing the
// returned URL. The new document is prepended; total_documents stays as
// the server last reported it until the next fetch.
func (s *DocumentService) Upload(ctx context.Context, name string, docType domain.DocumentType, fileName string, data []byte) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	uploaded, err := s.api.UploadFile(ctx, fileName, data)
	if err != nil {
		s.logger.Error().Err(err).Str("file", fileName).Msg("file upload failed")
		s.store.SetError(api.Message(err, fallbackUploadDocument))
		return nil, err
	}

	doc, err := s.api.CreateDocument(ctx, api.CreateDocumentRequest{
		Name:     name,
		Type:     docType,
		FileURL:  uploaded.URL,
		FileSize: uploaded.Size,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("file", fileName).Msg("document create failed")
		s.store.SetError(api.Message(err, fallbackUploadDocument))
		return nil, err
	}

	s.store.AddOne(*doc)
	s.snapshotOne(ctx, *doc)
	s.logger.Info().Str("id", doc.ID).Str("name", doc.Name).Msg("document uploaded")
	return doc, nil
}

func (s *DocumentService) Sign(ctx context.Context, id string) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	doc, err := s.api.SignDocument(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("sign failed")
		s.store.SetError(api.Message(err, fallbackSignDocument))
		return nil, err
	}

	s.store.PatchOne(*doc)
	s.stats.Update(func(st *domain.DocumentStats) { st.DocumentSigned() })
	s.snapshotOne(ctx, *doc)
	s.logger.Info().Str("id", id).Msg("document signed")
	return doc, nil
}

func (s *DocumentService) Download(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	data, err := s.api.DownloadDocument(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("download failed")
		s.store.SetError(api.Message(err, fallbackDownloadFailure))
		return nil, err
	}
	return data, nil
}

func (s *DocumentService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.store.SetError("")
	if err := s.api.DeleteDocument(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("delete failed")
		s.store.SetError(api.Message(err, fallbackDeleteDocument))
		return err
	}

	s.store.RemoveOne(id)
	s.stats.Update(func(st *domain.DocumentStats) { st.DocumentRemoved() })
	if err := s.snapshots.Delete(ctx, repository.ResourceDocuments, id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("failed to delete document snapshot")
	}
	s.logger.Info().Str("id", id).Msg("document deleted")
	return nil
}

// Restore seeds the store from the last persisted snapshot.
func (s *DocumentService) Restore(ctx context.Context) {
	records, err := s.snapshots.LoadAll(ctx, repository.ResourceDocuments)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore document snapshots")
		return
	}
	if len(records) == 0 {
		return
	}
	s.store.SetCollection(repository.Unmarshal[domain.Document](s.logger, records))
	s.logger.Info().Int("count", len(records)).Msg("documents restored from snapshot")
}

func (s *DocumentService) snapshotAll(ctx context.Context, docs []domain.Document) {
	records, err := repository.Marshal(docs)
	if err == nil {
		err = s.snapshots.ReplaceAll(ctx, repository.ResourceDocuments, records)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to snapshot documents")
	}
}

func (s *DocumentService) snapshotOne(ctx context.Context, doc domain.Document) {
	records, err := repository.Marshal([]domain.Document{doc})
	if err == nil {
		err = s.snapshots.Put(ctx, repository.ResourceDocuments, records[0])
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("id", doc.ID).Msg("failed to snapshot document")
	}
}

func (s *DocumentService) Documents() []domain.Document { return s.store.Items() }

func (s *DocumentService) Stats() (domain.DocumentStats, bool) { return s.stats.Get() }

func (s *DocumentService) Loading() bool { return s.store.Loading() }

func (s *DocumentService) Err() string { return s.store.Err() }
