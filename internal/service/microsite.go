package service

import (
	"context"
	"time"

	"microsite-console/internal/api"
	"microsite-console/internal/constants"
	"microsite-console/internal/domain"
	"microsite-console/internal/repository"
	"microsite-console/internal/store"

	"github.com/rs/zerolog"
)

const (
	fallbackLoadMicrosite   = "Failed to load microsite"
	fallbackSaveMicrosite   = "Failed to save microsite"
	fallbackUploadLogo      = "Failed to upload logo"
	fallbackPublish         = "Failed to publish microsite"
	fallbackLoadAffiliation = "Failed to load affiliation"

	publishSuccessNotice = "Microsite published"
)

// MicrositeService manages the club microsite and the partner profile,
// both single-entity slices over the same profile shape.
type MicrositeService struct {
	api         *api.Client
	club        *store.Cell[domain.MicrositeProfile]
	partner     *store.Cell[domain.MicrositeProfile]
	affiliation *store.Cell[domain.Affiliation]
	notice      *store.Cell[string]
	snapshots   snapshotStore
	logger      zerolog.Logger

	// overridden in tests
	noticeTTL time.Duration
}

func NewMicrositeService(client *api.Client, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *MicrositeService {
	return newMicrositeService(client, snapshots, logger)
}

func newMicrositeService(client *api.Client, snapshots snapshotStore, logger zerolog.Logger) *MicrositeService {
	return &MicrositeService{
		api:         client,
		club:        store.NewCell[domain.MicrositeProfile](),
		partner:     store.NewCell[domain.MicrositeProfile](),
		affiliation: store.NewCell[domain.Affiliation](),
		notice:      store.NewCell[string](),
		snapshots:   snapshots,
		logger:      logger,
		noticeTTL:   constants.PublishNoticeTTL,
	}
}

func (s *MicrositeService) RefreshClub(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	seq := s.club.Begin()
	s.club.SetLoading(true)
	defer s.club.SetLoading(false)

	profile, err := s.api.GetClubMicrosite(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch club microsite")
		s.club.SetError(api.Message(err, fallbackLoadMicrosite))
		return err
	}

	if !s.club.CompleteFetch(seq, *profile) {
		return nil
	}
	s.snapshotProfile(ctx, *profile)
	return nil
}

func (s *MicrositeService) UpdateClub(ctx context.Context, profile domain.MicrositeProfile) (*domain.MicrositeProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.club.SetError("")
	updated, err := s.api.UpdateClubMicrosite(ctx, profile)
	if err != nil {
		s.logger.Error().Err(err).Msg("club microsite update failed")
		s.club.SetError(api.Message(err, fallbackSaveMicrosite))
		return nil, err
	}

	s.club.Set(*updated)
	s.snapshotProfile(ctx, *updated)
	s.logger.Info().Str("id", updated.ID).Msg("club microsite updated")
	return updated, nil
}

// UploadLogo is two-phase: the binary goes through the logo upload
// endpoint, then the returned URL is written back as a plain string field
// of the profile.
func (s *MicrositeService) UploadLogo(ctx context.Context, fileName string, data []byte) (*domain.MicrositeProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.club.SetError("")
	uploaded, err := s.api.UploadClubLogo(ctx, fileName, data)
	if err != nil {
		s.logger.Error().Err(err).Str("file", fileName).Msg("logo upload failed")
		s.club.SetError(api.Message(err, fallbackUploadLogo))
		return nil, err
	}

	profile, ok := s.club.Get()
	if !ok {
		current, err := s.api.GetClubMicrosite(ctx)
		if err != nil {
			s.club.SetError(api.Message(err, fallbackUploadLogo))
			return nil, err
		}
		profile = *current
	}
	profile.LogoURL = uploaded.URL

	return s.UpdateClub(ctx, profile)
}

// Publish flips the microsite live and raises a success notice that
// clears itself after the notice TTL. Error banners never auto-clear.
func (s *MicrositeService) Publish(ctx context.Context) (*domain.MicrositeProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.club.SetError("")
	profile, err := s.api.PublishClubMicrosite(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("publish failed")
		s.club.SetError(api.Message(err, fallbackPublish))
		return nil, err
	}

	s.club.Set(*profile)
	s.snapshotProfile(ctx, *profile)

	s.notice.Set(publishSuccessNotice)
	time.AfterFunc(s.noticeTTL, func() { s.notice.Set("") })

	s.logger.Info().Str("id", profile.ID).Msg("microsite published")
	return profile, nil
}

func (s *MicrositeService) RefreshPartner(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	seq := s.partner.Begin()
	s.partner.SetLoading(true)
	defer s.partner.SetLoading(false)

	profile, err := s.api.GetPartnerProfile(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch partner profile")
		s.partner.SetError(api.Message(err, fallbackLoadMicrosite))
		return err
	}

	s.partner.CompleteFetch(seq, *profile)
	return nil
}

func (s *MicrositeService) UpdatePartner(ctx context.Context, profile domain.MicrositeProfile) (*domain.MicrositeProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.partner.SetError("")
	updated, err := s.api.UpdatePartnerProfile(ctx, profile)
	if err != nil {
		s.logger.Error().Err(err).Msg("partner profile update failed")
		s.partner.SetError(api.Message(err, fallbackSaveMicrosite))
		return nil, err
	}

	s.partner.Set(*updated)
	s.logger.Info().Str("id", updated.ID).Msg("partner profile updated")
	return updated, nil
}

func (s *MicrositeService) RefreshAffiliation(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	seq := s.affiliation.Begin()

	aff, err := s.api.GetPartnerAffiliation(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch affiliation")
		s.affiliation.SetError(api.Message(err, fallbackLoadAffiliation))
		return err
	}

	s.affiliation.CompleteFetch(seq, *aff)
	return nil
}

func (s *MicrositeService) Restore(ctx context.Context) {
	records, err := s.snapshots.LoadAll(ctx, repository.ResourceMicrosite)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore microsite snapshot")
		return
	}
	profiles := repository.Unmarshal[domain.MicrositeProfile](s.logger, records)
	if len(profiles) == 0 {
		return
	}
	s.club.Set(profiles[0])
	s.logger.Info().Msg("microsite restored from snapshot")
}

func (s *MicrositeService) snapshotProfile(ctx context.Context, profile domain.MicrositeProfile) {
	records, err := repository.Marshal([]domain.MicrositeProfile{profile})
	if err == nil {
		err = s.snapshots.ReplaceAll(ctx, repository.ResourceMicrosite, records)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to snapshot microsite")
	}
}

func (s *MicrositeService) Club() (domain.MicrositeProfile, bool) { return s.club.Get() }

func (s *MicrositeService) Partner() (domain.MicrositeProfile, bool) { return s.partner.Get() }

func (s *MicrositeService) Affiliation() (domain.Affiliation, bool) { return s.affiliation.Get() }

// Notice returns the transient publish-success banner, empty once
// expired.
func (s *MicrositeService) Notice() string {
	notice, _ := s.notice.Get()
	return notice
}

func (s *MicrositeService) Err() string { return s.club.Err() }
