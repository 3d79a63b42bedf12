package constants

import "time"

// Game shape
const (
	QuarterMinutes = 12
	QuarterSeconds = QuarterMinutes * 60
	TeamMinutes    = 240 // 5 players on the floor for 48 minutes
	MaxPlayerMins  = 48
)

// Simulation tuning
const (
	// League-average quarter score used to regress extreme inputs.
	LeagueAvgQuarter = 27.5

	// Generated (non-input) quarters are clamped to this band.
	MinGeneratedQuarter = 18
	MaxGeneratedQuarter = 35

	// Input quarters with a margin above this regress harder to the mean.
	BlowoutMargin = 10

	RotationSize  = 8
	MinRosterSize = 5

	// Regeneration attempts before an inconsistent candidate or tied
	// final is surfaced to the caller.
	MaxGenerateAttempts = 5
)

// Tournament shape
const (
	BracketTeams    = 32
	BracketRounds   = 5
	SeriesWinTarget = 4
	MaxSeriesGames  = 7
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
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

const (
	StatLeaderLimit  = 10
	GameHistoryLimit = 20
)
