package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	JournalDefaultLimit = 20
	JournalMaxLimit     = 100
)

const (
	SlideshowInterval   = 10 * time.Second
	SlideshowTransition = 1 * time.Second
	DefaultMusicVolume  = 0.3
)

const (
	OutcomePath    = "/api/predict"
	CornersPath    = "/api/predict-corners"
	HistoricalPath = "/api/historical-data"
	HealthPath     = "/api/health"
)

const SessionCookie = "ligapro_session"

const (
	SessionIdleTTL       = 30 * time.Minute
	SessionSweepInterval = 1 * time.Minute
	MaxSessions          = 10000
)
