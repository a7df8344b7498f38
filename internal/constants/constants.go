package constants

import "time"

const (
	RequestTimeout     = 30 * time.Second
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	// Delay between the last filter change and the fetch it triggers.
	FilterDebounceDelay = 300 * time.Millisecond

	// Statistics auto-refresh interval. Retried every interval, no backoff.
	StatisticsPollInterval = 30 * time.Second

	// Publish success notice auto-hides after this long. Error banners never do.
	PublishNoticeTTL = 10 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)
