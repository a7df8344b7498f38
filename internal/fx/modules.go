package fx

import (
	"microsite-console/internal/api"
	"microsite-console/internal/config"
	"microsite-console/internal/constants"
	"microsite-console/internal/database"
	"microsite-console/internal/logger"
	"microsite-console/internal/poller"
	"microsite-console/internal/repository"
	"microsite-console/internal/server"
	"microsite-console/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideStatisticsPoller(statistics *service.StatisticsService, log zerolog.Logger) *poller.Poller {
	return poller.New(constants.StatisticsPollInterval, statistics.RefreshCurrent, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(repository.NewSnapshotRepository),
	// api client
	fx.Provide(api.NewClient),
	// slices
	fx.Provide(service.NewDocumentService),
	fx.Provide(service.NewInvoiceService),
	fx.Provide(service.NewInboxService),
	fx.Provide(service.NewMicrositeService),
	fx.Provide(service.NewStateMicrositeService),
	fx.Provide(service.NewStatisticsService),
	fx.Provide(service.NewSession),
	// auto-refresh + mirror
	fx.Provide(ProvideStatisticsPoller),
	fx.Provide(server.NewMirrorServer),
)
