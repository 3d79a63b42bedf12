package domain

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInconsistentBoxScore   = errors.New("inconsistent box score")
	ErrTiedGame               = errors.New("game cannot end in a tie")
	ErrSeriesAlreadyCompleted = errors.New("series already completed")
	ErrRoundNotComplete       = errors.New("round not complete")
	ErrInvalidBracketSize     = errors.New("bracket requires exactly 32 teams")
	ErrRunNotFound            = errors.New("run not found")
	ErrTournamentComplete     = errors.New("tournament already complete")

	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrSeriesNotFound = errors.New("series not found")
)
