package service

import (
	"context"

	"microsite-console/internal/api"
	"microsite-console/internal/config"
	"microsite-console/internal/constants"
	"microsite-console/internal/domain"
	"microsite-console/internal/repository"
	"microsite-console/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	fallbackLoadState  = "Failed to load state microsite"
	fallbackSaveState  = "Failed to save state microsite"
	fallbackSaveNews   = "Failed to save news article"
	fallbackDeleteNews = "Failed to delete news article"
)

// StateMicrositeService manages a state committee's microsite and its
// news articles.
type StateMicrositeService struct {
	api       *api.Client
	stateID   string
	profile   *store.Cell[domain.MicrositeProfile]
	news      *store.Store[domain.NewsArticle]
	snapshots snapshotStore
	logger    zerolog.Logger
}

func NewStateMicrositeService(client *api.Client, cfg *config.Config, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *StateMicrositeService {
	return newStateMicrositeService(client, cfg.StateID, snapshots, logger)
}

func newStateMicrositeService(client *api.Client, stateID string, snapshots snapshotStore, logger zerolog.Logger) *StateMicrositeService {
	return &StateMicrositeService{
		api:       client,
		stateID:   stateID,
		profile:   store.NewCell[domain.MicrositeProfile](),
		news:      store.New[domain.NewsArticle](),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Refresh fetches the microsite profile and the news list in parallel;
// either failure surfaces as the slice error.
func (s *StateMicrositeService) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	profileSeq := s.profile.Begin()
	newsSeq := s.news.Begin()
	s.news.SetLoading(true)
	defer s.news.SetLoading(false)

	g, gCtx := errgroup.WithContext(ctx)

	var profile *domain.MicrositeProfile
	var news *api.NewsList

	g.Go(func() error {
		var err error
		profile, err = s.api.GetStateMicrosite(gCtx, s.stateID)
		return err
	})
	g.Go(func() error {
		var err error
		news, err = s.api.ListNews(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch state microsite")
		s.news.SetError(api.Message(err, fallbackLoadState))
		return err
	}

	s.profile.CompleteFetch(profileSeq, *profile)
	if !s.news.CompleteFetch(newsSeq, news.Articles) {
		s.logger.Debug().Uint64("seq", newsSeq).Msg("discarding stale news list")
		return nil
	}

	records, merr := repository.Marshal(news.Articles)
	if merr == nil {
		merr = s.snapshots.ReplaceAll(ctx, repository.ResourceNews, records)
	}
	if merr != nil {
		s.logger.Warn().Err(merr).Msg("failed to snapshot news")
	}

	s.logger.Info().Int("news_count", len(news.Articles)).Msg("state microsite fetched")
	return nil
}

func (s *StateMicrositeService) UpdateProfile(ctx context.Context, profile domain.MicrositeProfile) (*domain.MicrositeProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.profile.SetError("")
	updated, err := s.api.UpdateStateMicrosite(ctx, s.stateID, profile)
	if err != nil {
		s.logger.Error().Err(err).Msg("state microsite update failed")
		s.profile.SetError(api.Message(err, fallbackSaveState))
		return nil, err
	}

	s.profile.Set(*updated)
	return updated, nil
}

// CreateNews publishes an article, uploading the image first when one is
// attached. The created article is prepended.
func (s *StateMicrositeService) CreateNews(ctx context.Context, req api.NewsRequest, imageName string, image []byte) (*domain.NewsArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.news.SetError("")
	if len(image) > 0 {
		uploaded, err := s.api.UploadFile(ctx, imageName, image)
		if err != nil {
			s.logger.Error().Err(err).Str("file", imageName).Msg("news image upload failed")
			s.news.SetError(api.Message(err, fallbackSaveNews))
			return nil, err
		}
		req.ImageURL = uploaded.URL
	}

	article, err := s.api.CreateNews(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("news create failed")
		s.news.SetError(api.Message(err, fallbackSaveNews))
		return nil, err
	}

	s.news.AddOne(*article)
	s.snapshotArticle(ctx, *article)
	s.logger.Info().Str("id", article.ID).Msg("news article created")
	return article, nil
}

func (s *StateMicrositeService) UpdateNews(ctx context.Context, id string, req api.NewsRequest) (*domain.NewsArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.news.SetError("")
	article, err := s.api.UpdateNews(ctx, id, req)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("news update failed")
		s.news.SetError(api.Message(err, fallbackSaveNews))
		return nil, err
	}

	s.news.PatchOne(*article)
	s.snapshotArticle(ctx, *article)
	return article, nil
}

func (s *StateMicrositeService) DeleteNews(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.news.SetError("")
	if err := s.api.DeleteNews(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("news delete failed")
		s.news.SetError(api.Message(err, fallbackDeleteNews))
		return err
	}

	s.news.RemoveOne(id)
	if err := s.snapshots.Delete(ctx, repository.ResourceNews, id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("failed to delete news snapshot")
	}
	return nil
}

func (s *StateMicrositeService) Restore(ctx context.Context) {
	records, err := s.snapshots.LoadAll(ctx, repository.ResourceNews)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore news snapshots")
		return
	}
	if len(records) == 0 {
		return
	}
	s.news.SetCollection(repository.Unmarshal[domain.NewsArticle](s.logger, records))
	s.logger.Info().Int("count", len(records)).Msg("news restored from snapshot")
}

func (s *StateMicrositeService) snapshotArticle(ctx context.Context, article domain.NewsArticle) {
	records, err := repository.Marshal([]domain.NewsArticle{article})
	if err == nil {
		err = s.snapshots.Put(ctx, repository.ResourceNews, records[0])
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("id", article.ID).Msg("failed to snapshot article")
	}
}

func (s *StateMicrositeService) Profile() (domain.MicrositeProfile, bool) { return s.profile.Get() }

func (s *StateMicrositeService) News() []domain.NewsArticle { return s.news.Items() }

func (s *StateMicrositeService) Loading() bool { return s.news.Loading() }

func (s *StateMicrositeService) Err() string { return s.news.Err() }
