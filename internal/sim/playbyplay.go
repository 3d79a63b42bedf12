package sim

import (
	"fmt"
	"sort"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/rng"
)

// buildPlayByPlay reconstructs a chronological narrative from the quarter
// scores and box scores. Each quarter's scoring events decompose that
// quarter's score exactly, so the running score after a quarter's last
// event always matches the scoreboard.
func buildPlayByPlay(src *rng.Source, g *Game, home, away TeamSheet) []domain.PlayByPlayEvent {
	var events []domain.PlayByPlayEvent
	homeScore, awayScore := 0, 0
	seq := 0

	for q := 1; q <= 4; q++ {
		units := quarterUnits(src, g, home, away, q)
		src.Shuffle(len(units), func(i, j int) { units[i], units[j] = units[j], units[i] })

		var flat []domain.PlayByPlayEvent
		for _, unit := range units {
			flat = append(flat, unit...)
		}

		times := drawTimes(src, len(flat))
		for i := range flat {
			ev := flat[i]
			if ev.Points > 0 {
				if ev.TeamID == home.Team.ID {
					homeScore += ev.Points
				} else {
					awayScore += ev.Points
				}
			}

			ev.Quarter = q
			ev.Seq = seq
			ev.Elapsed = (q-1)*constants.QuarterSeconds + times[i]
			ev.Clock = formatClock(constants.QuarterSeconds - times[i])
			ev.HomeScore = homeScore
			ev.AwayScore = awayScore
			events = append(events, ev)
			seq++
		}
	}
	return events
}

// quarterUnits builds the unordered event units for one quarter: the exact
// scoring decomposition for both sides plus filler (misses with rebounds,
// turnovers, fouls). A unit's events stay adjacent after shuffling.
func quarterUnits(src *rng.Source, g *Game, home, away TeamSheet, q int) [][]domain.PlayByPlayEvent {
	var units [][]domain.PlayByPlayEvent

	units = append(units, scoringUnits(src, home.Team.ID, g.HomeQuarters[q-1], g.HomeBox)...)
	units = append(units, scoringUnits(src, away.Team.ID, g.AwayQuarters[q-1], g.AwayBox)...)
	units = append(units, fillerUnits(src, home, away, g)...)
	return units
}

func scoringUnits(src *rng.Source, teamID string, quarterScore int, box []domain.StatLine) [][]domain.PlayByPlayEvent {
	var units [][]domain.PlayByPlayEvent
	rem := quarterScore
	for rem > 0 {
		var pts int
		switch {
		case rem >= 3 && src.Chance(0.30):
			pts = 3
		case rem >= 2 && src.Chance(0.92):
			pts = 2
		default:
			pts = 1
		}
		rem -= pts
		units = append(units, makeScoringUnit(src, teamID, pts, box))
	}
	return units
}

func makeScoringUnit(src *rng.Source, teamID string, pts int, box []domain.StatLine) []domain.PlayByPlayEvent {
	shooter := pickByPoints(src, box)

	if pts == 1 {
		return []domain.PlayByPlayEvent{{
			EventType:   domain.EventFreeThrow,
			Description: fmt.Sprintf("%s makes free throw", shooter.PlayerName),
			TeamID:      teamID,
			PlayerID:    shooter.PlayerID,
			Points:      1,
		}}
	}

	shotType := "2PT"
	if pts == 3 {
		shotType = "3PT"
	}
	desc := fmt.Sprintf("%s makes %s shot", shooter.PlayerName, shotType)

	// Roughly half of made field goals come off an assist.
	if src.Chance(0.55) && len(box) > 1 {
		assister := pickByAssists(src, box, shooter.PlayerID)
		if assister != nil {
			desc += fmt.Sprintf(" (assist: %s)", assister.PlayerName)
		}
	}

	return []domain.PlayByPlayEvent{{
		EventType:   domain.EventMadeShot,
		Description: desc,
		TeamID:      teamID,
		PlayerID:    shooter.PlayerID,
		Points:      pts,
	}}
}

func fillerUnits(src *rng.Source, home, away TeamSheet, g *Game) [][]domain.PlayByPlayEvent {
	var units [][]domain.PlayByPlayEvent

	sides := []struct {
		sheet TeamSheet
		opp   TeamSheet
		box   []domain.StatLine
		orb   []domain.StatLine
	}{
		{home, away, g.HomeBox, g.AwayBox},
		{away, home, g.AwayBox, g.HomeBox},
	}

	for _, side := range sides {
		n := src.Between(5, 9)
		for i := 0; i < n; i++ {
			switch src.Intn(4) {
			case 0:
				player := pickByPoints(src, side.box)
				units = append(units, []domain.PlayByPlayEvent{{
					EventType:   domain.EventTurnover,
					Description: fmt.Sprintf("%s turnover (bad pass)", player.PlayerName),
					TeamID:      side.sheet.Team.ID,
					PlayerID:    player.PlayerID,
				}})
			case 1:
				player := pickByPoints(src, side.box)
				units = append(units, []domain.PlayByPlayEvent{{
					EventType:   domain.EventFoul,
					Description: fmt.Sprintf("Personal foul on %s", player.PlayerName),
					TeamID:      side.sheet.Team.ID,
					PlayerID:    player.PlayerID,
				}})
			default:
				units = append(units, missUnit(src, side.sheet, side.opp, side.box, side.orb))
			}
		}
	}
	return units
}

// missUnit is a missed shot immediately followed by its rebound. About 30%
// of boards go back to the shooting team.
func missUnit(src *rng.Source, sheet, opp TeamSheet, box, oppBox []domain.StatLine) []domain.PlayByPlayEvent {
	shooter := pickByPoints(src, box)
	shotType := "2PT"
	if src.Chance(0.35) {
		shotType = "3PT"
	}

	miss := domain.PlayByPlayEvent{
		EventType:   domain.EventMissedShot,
		Description: fmt.Sprintf("%s misses %s shot", shooter.PlayerName, shotType),
		TeamID:      sheet.Team.ID,
		PlayerID:    shooter.PlayerID,
	}

	offensive := src.Chance(0.30)
	rbBox, rbTeam, kind := oppBox, opp.Team.ID, "defensive"
	if offensive {
		rbBox, rbTeam, kind = box, sheet.Team.ID, "offensive"
	}
	rebounder := pickByRebounds(src, rbBox)
	rebound := domain.PlayByPlayEvent{
		EventType:   domain.EventRebound,
		Description: fmt.Sprintf("%s rebound (%s)", rebounder.PlayerName, kind),
		TeamID:      rbTeam,
		PlayerID:    rebounder.PlayerID,
	}

	return []domain.PlayByPlayEvent{miss, rebound}
}

func pickByPoints(src *rng.Source, box []domain.StatLine) *domain.StatLine {
	return pickWeighted(src, box, func(l domain.StatLine) float64 { return float64(l.Points + 1) })
}

func pickByRebounds(src *rng.Source, box []domain.StatLine) *domain.StatLine {
	return pickWeighted(src, box, func(l domain.StatLine) float64 { return float64(l.Rebounds + 1) })
}

func pickByAssists(src *rng.Source, box []domain.StatLine, excludeID string) *domain.StatLine {
	candidates := make([]domain.StatLine, 0, len(box)-1)
	for _, l := range box {
		if l.PlayerID != excludeID {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return pickWeighted(src, candidates, func(l domain.StatLine) float64 { return float64(l.Assists + 1) })
}

func pickWeighted(src *rng.Source, box []domain.StatLine, weight func(domain.StatLine) float64) *domain.StatLine {
	var total float64
	for _, l := range box {
		total += weight(l)
	}
	target := src.Float64() * total
	for i := range box {
		target -= weight(box[i])
		if target <= 0 {
			return &box[i]
		}
	}
	return &box[len(box)-1]
}

// drawTimes produces n non-decreasing in-quarter offsets in seconds,
// strictly increasing whenever the quarter has enough distinct seconds
// for n events. Offsets never reach QuarterSeconds, so the clock never
// pins to 00:00 just because the quarter was busy.
func drawTimes(src *rng.Source, n int) []int {
	if n == 0 {
		return nil
	}
	times := make([]int, n)
	for i := range times {
		times[i] = src.Between(5, constants.QuarterSeconds-90)
	}
	sort.Ints(times)
	for i := 1; i < n; i++ {
		if times[i] <= times[i-1] {
			times[i] = times[i-1] + 1
		}
	}
	// Dedup bumps can cascade past the quarter boundary when n is huge.
	// Pull the tail back under it, giving up strictness only once the
	// distinct seconds run out.
	limit := constants.QuarterSeconds - 1
	for i := n - 1; i >= 0 && times[i] > limit; i-- {
		times[i] = limit
		if limit > 1 {
			limit--
		}
	}
	return times
}

func formatClock(secondsRemaining int) string {
	if secondsRemaining < 0 {
		secondsRemaining = 0
	}
	return fmt.Sprintf("%02d:%02d", secondsRemaining/60, secondsRemaining%60)
}
