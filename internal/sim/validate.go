package sim

import (
	"fmt"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
)

// Validate enforces the arithmetic invariants a generated game must hold
// before it may be persisted. The first violated invariant is reported; the
// caller discards the candidate and may regenerate.
func Validate(g *Game) error {
	if err := validateQuarters(g); err != nil {
		return err
	}
	if err := validateSide("home", g.HomeBox, g.HomeScore); err != nil {
		return err
	}
	if err := validateSide("away", g.AwayBox, g.AwayScore); err != nil {
		return err
	}
	return validatePlayByPlay(g)
}

func validateQuarters(g *Game) error {
	var home, away int
	for q := 0; q < 4; q++ {
		if g.HomeQuarters[q] < 0 || g.AwayQuarters[q] < 0 {
			return fmt.Errorf("%w: negative quarter score in Q%d", domain.ErrInconsistentBoxScore, q+1)
		}
		home += g.HomeQuarters[q]
		away += g.AwayQuarters[q]
	}
	if home != g.HomeScore {
		return fmt.Errorf("%w: home quarters sum %d != final %d", domain.ErrInconsistentBoxScore, home, g.HomeScore)
	}
	if away != g.AwayScore {
		return fmt.Errorf("%w: away quarters sum %d != final %d", domain.ErrInconsistentBoxScore, away, g.AwayScore)
	}
	return nil
}

func validateSide(side string, box []domain.StatLine, finalScore int) error {
	points, minutes := 0, 0
	for _, l := range box {
		if err := validateNonNegative(side, l); err != nil {
			return err
		}
		points += l.Points
		minutes += l.Minutes
	}
	if points != finalScore {
		return fmt.Errorf("%w: %s player points sum %d != team score %d",
			domain.ErrInconsistentBoxScore, side, points, finalScore)
	}
	if minutes != constants.TeamMinutes {
		return fmt.Errorf("%w: %s minutes sum %d != %d",
			domain.ErrInconsistentBoxScore, side, minutes, constants.TeamMinutes)
	}
	return nil
}

func validateNonNegative(side string, l domain.StatLine) error {
	stats := map[string]int{
		"minutes":   l.Minutes,
		"points":    l.Points,
		"rebounds":  l.Rebounds,
		"assists":   l.Assists,
		"steals":    l.Steals,
		"blocks":    l.Blocks,
		"turnovers": l.Turnovers,
		"fouls":     l.Fouls,
		"fgm":       l.FGM,
		"fga":       l.FGA,
		"tpm":       l.TPM,
		"tpa":       l.TPA,
		"ftm":       l.FTM,
		"fta":       l.FTA,
	}
	for name, v := range stats {
		if v < 0 {
			return fmt.Errorf("%w: %s player %s has negative %s",
				domain.ErrInconsistentBoxScore, side, l.PlayerName, name)
		}
	}
	return nil
}

func validatePlayByPlay(g *Game) error {
	if len(g.PlayByPlay) == 0 {
		return fmt.Errorf("%w: empty play-by-play", domain.ErrInconsistentBoxScore)
	}

	prevHome, prevAway := 0, 0
	prevElapsed := -1
	prevQuarter := 1
	for _, ev := range g.PlayByPlay {
		if ev.HomeScore < prevHome || ev.AwayScore < prevAway {
			return fmt.Errorf("%w: play-by-play running score decreased", domain.ErrInconsistentBoxScore)
		}
		if ev.Quarter == prevQuarter && ev.Elapsed < prevElapsed {
			return fmt.Errorf("%w: play-by-play timestamps moved backwards in Q%d",
				domain.ErrInconsistentBoxScore, ev.Quarter)
		}
		prevHome, prevAway = ev.HomeScore, ev.AwayScore
		prevElapsed, prevQuarter = ev.Elapsed, ev.Quarter
	}

	last := g.PlayByPlay[len(g.PlayByPlay)-1]
	if last.HomeScore != g.HomeScore || last.AwayScore != g.AwayScore {
		return fmt.Errorf("%w: play-by-play closes at %d-%d, final is %d-%d",
			domain.ErrInconsistentBoxScore, last.HomeScore, last.AwayScore, g.HomeScore, g.AwayScore)
	}
	return nil
}
