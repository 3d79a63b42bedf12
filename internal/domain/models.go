package domain

import (
	"time"
)

type Team struct {
	ID           string
	City         string
	Name         string
	Abbreviation string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is the display form used in responses and play-by-play text.
func (t Team) FullName() string {
	return t.City + " " + t.Name
}

// Player ratings are long-lived career tendencies. They bias how simulated
// statistics are split among teammates but are never mutated by simulation.
type Player struct {
	ID       string
	Name     string
	TeamID   string // empty for free agents
	Position string

	Scoring    float64 // points per game tendency
	Rebounding float64
	Playmaking float64
	Stealing   float64
	ShotBlock  float64
	FGPct      float64
	ThreePct   float64
	FTPct      float64
	Minutes    float64 // minutes per game tendency

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Game struct {
	ID         string
	RunID      string
	SeriesID   string // empty for standalone games
	GameNumber int    // 1-7 within a series, 0 when standalone

	HomeTeamID string
	AwayTeamID string

	// The quarter the user actually played.
	InputQuarter int
	InputHome    int
	InputAway    int

	HomeQuarters [4]int
	AwayQuarters [4]int
	HomeScore    int
	AwayScore    int

	CreatedAt time.Time
}

// WinnerTeamID assumes the game is not tied; tied candidates are rejected
// before persistence.
func (g Game) WinnerTeamID() string {
	if g.HomeScore > g.AwayScore {
		return g.HomeTeamID
	}
	return g.AwayTeamID
}

type StatLine struct {
	ID       string
	GameID   string
	PlayerID string
	TeamID   string

	Minutes     int
	Points      int
	Rebounds    int
	OffRebounds int
	DefRebounds int
	Assists     int
	Steals      int
	Blocks      int
	Turnovers   int
	Fouls       int

	FGM int
	FGA int
	TPM int
	TPA int
	FTM int
	FTA int

	PlusMinus    int
	TrueShooting float64
	EffectiveFG  float64
	UsageRate    float64
	PER          float64

	// Denormalized for responses, not persisted on the stat line row.
	PlayerName string
	TeamName   string
}

type PlayByPlayEvent struct {
	ID          string
	GameID      string
	Quarter     int
	Seq         int
	Elapsed     int    // seconds into the game, 0-2880
	Clock       string // MM:SS remaining in the quarter
	EventType   string
	Description string
	TeamID      string
	PlayerID    string
	Points      int // point value of a scoring event, 0 otherwise
	HomeScore   int
	AwayScore   int
}

// Play-by-play event types.
const (
	EventMadeShot   = "made_shot"
	EventMissedShot = "missed_shot"
	EventFreeThrow  = "free_throw"
	EventRebound    = "rebound"
	EventTurnover   = "turnover"
	EventFoul       = "foul"
)

type Series struct {
	ID           string
	RunID        string
	Round        int
	Number       int
	Team1ID      string
	Team2ID      string
	Team1Wins    int
	Team2Wins    int
	WinnerTeamID string
	IsCompleted  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoundName maps round indexes to the five elimination stages.
func RoundName(round int) string {
	switch round {
	case 1:
		return "Round of 32"
	case 2:
		return "Sweet 16"
	case 3:
		return "Elite 8"
	case 4:
		return "Conference Finals"
	case 5:
		return "Finals"
	}
	return "Unknown"
}

// SeriesPerRound is the bracket cardinality for each of the five rounds.
func SeriesPerRound(round int) int {
	switch round {
	case 1:
		return 16
	case 2:
		return 8
	case 3:
		return 4
	case 4:
		return 2
	case 5:
		return 1
	}
	return 0
}

type Run struct {
	ID             string
	Name           string
	Year           int
	IsActive       bool
	IsCompleted    bool
	ChampionTeamID string
	CreatedAt      time.Time
}
