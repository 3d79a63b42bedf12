// Package sim implements the extrapolation engine: given one quarter's
// score for a pair of teams it produces a complete, self-consistent game.
// Everything here is a pure computation over its inputs plus an explicit
// random source; nothing touches shared state, so generation can run in
// parallel across requests.
package sim

import (
	"fmt"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/rng"
)

type TeamSheet struct {
	Team    domain.Team
	Players []domain.Player
}

type Input struct {
	Quarter   int
	HomeScore int
	AwayScore int
}

// Game is a generated candidate. IDs for the game and its rows are assigned
// at persistence time; a previewed candidate never gets them.
type Game struct {
	HomeQuarters [4]int
	AwayQuarters [4]int
	HomeScore    int
	AwayScore    int
	HomeBox      []domain.StatLine
	AwayBox      []domain.StatLine
	PlayByPlay   []domain.PlayByPlayEvent
}

// Generate extrapolates a full game from a single quarter's score. It
// regenerates internally on a tied final or a candidate that fails
// validation, up to a bounded number of attempts.
func Generate(src *rng.Source, home, away TeamSheet, in Input) (*Game, error) {
	if err := checkInput(home, away, in); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < constants.MaxGenerateAttempts; attempt++ {
		g := generate(src, home, away, in)

		if g.HomeScore == g.AwayScore {
			lastErr = domain.ErrTiedGame
			continue
		}
		if err := Validate(g); err != nil {
			lastErr = err
			continue
		}
		return g, nil
	}
	return nil, fmt.Errorf("generation failed after %d attempts: %w", constants.MaxGenerateAttempts, lastErr)
}

func checkInput(home, away TeamSheet, in Input) error {
	if in.Quarter < 1 || in.Quarter > 4 {
		return fmt.Errorf("%w: quarter must be 1-4, got %d", domain.ErrInvalidInput, in.Quarter)
	}
	if in.HomeScore < 0 || in.AwayScore < 0 {
		return fmt.Errorf("%w: quarter scores must be non-negative", domain.ErrInvalidInput)
	}
	if home.Team.ID == away.Team.ID {
		return fmt.Errorf("%w: a team cannot play itself", domain.ErrInvalidInput)
	}
	if len(home.Players) < constants.MinRosterSize {
		return fmt.Errorf("%w: %s has %d eligible players, need at least %d",
			domain.ErrInvalidInput, home.Team.FullName(), len(home.Players), constants.MinRosterSize)
	}
	if len(away.Players) < constants.MinRosterSize {
		return fmt.Errorf("%w: %s has %d eligible players, need at least %d",
			domain.ErrInvalidInput, away.Team.FullName(), len(away.Players), constants.MinRosterSize)
	}
	return nil
}

func generate(src *rng.Source, home, away TeamSheet, in Input) *Game {
	g := &Game{}
	g.HomeQuarters, g.AwayQuarters = extrapolateQuarters(src, in)
	for q := 0; q < 4; q++ {
		g.HomeScore += g.HomeQuarters[q]
		g.AwayScore += g.AwayQuarters[q]
	}

	g.HomeBox = buildBoxScore(src, home, g.HomeScore, g.AwayScore)
	g.AwayBox = buildBoxScore(src, away, g.AwayScore, g.HomeScore)
	g.PlayByPlay = buildPlayByPlay(src, g, home, away)
	return g
}

// extrapolateQuarters derives the three unplayed quarters from the fixed
// one. The input quarter's per-minute rate is blended toward the league
// average (harder for blowout inputs, so a 28-6 quarter does not become a
// 112-24 game), then each quarter draws its own variance band. The fixed
// quarter is preserved verbatim.
func extrapolateQuarters(src *rng.Source, in Input) (homeQ, awayQ [4]int) {
	homeRate := float64(in.HomeScore) / constants.QuarterMinutes
	awayRate := float64(in.AwayScore) / constants.QuarterMinutes
	leagueRate := constants.LeagueAvgQuarter / constants.QuarterMinutes

	margin := in.HomeScore - in.AwayScore
	if margin < 0 {
		margin = -margin
	}

	inputWeight := 0.7
	if margin > constants.BlowoutMargin {
		inputWeight = 0.4
	}
	homeRate = homeRate*inputWeight + leagueRate*(1-inputWeight)
	awayRate = awayRate*inputWeight + leagueRate*(1-inputWeight)

	fixed := in.Quarter - 1
	homeQ[fixed] = in.HomeScore
	awayQ[fixed] = in.AwayScore

	for q := 0; q < 4; q++ {
		if q == fixed {
			continue
		}
		homeQ[q] = drawQuarter(src, homeRate, q)
		awayQ[q] = drawQuarter(src, awayRate, q)
	}

	adjustForQuarterWinner(src, &homeQ, &awayQ, in)
	return homeQ, awayQ
}

func drawQuarter(src *rng.Source, rate float64, quarter int) int {
	variance := src.Uniform(0.85, 1.15)

	// Quarter texture: slow first quarters, third-quarter surges, volatile
	// fourth quarters.
	switch quarter {
	case 0:
		variance *= src.Uniform(0.92, 1.05)
	case 1:
		variance *= src.Uniform(0.95, 1.10)
	case 2:
		variance *= src.Uniform(1.00, 1.15)
	case 3:
		variance *= src.Uniform(0.90, 1.20)
	}

	score := int(rate * constants.QuarterMinutes * variance)
	if score < constants.MinGeneratedQuarter {
		score = constants.MinGeneratedQuarter
	}
	if score > constants.MaxGeneratedQuarter {
		score = constants.MaxGeneratedQuarter
	}
	return score
}

// adjustForQuarterWinner keeps the side that won the input quarter as the
// game winner, nudging the last generated quarter when the draw disagrees.
// A tied input quarter leaves the result to the draw.
func adjustForQuarterWinner(src *rng.Source, homeQ, awayQ *[4]int, in Input) {
	if in.HomeScore == in.AwayScore {
		return
	}

	var homeTotal, awayTotal int
	for q := 0; q < 4; q++ {
		homeTotal += homeQ[q]
		awayTotal += awayQ[q]
	}

	// Never touch the fixed quarter.
	adjust := 3
	if in.Quarter == 4 {
		adjust = 2
	}

	homeShouldWin := in.HomeScore > in.AwayScore
	if homeShouldWin && homeTotal <= awayTotal {
		homeQ[adjust] += (awayTotal - homeTotal) + src.Between(3, 8)
	} else if !homeShouldWin && awayTotal <= homeTotal {
		awayQ[adjust] += (homeTotal - awayTotal) + src.Between(3, 8)
	}
}

// allocateExact turns weighted real-valued shares of total into integers
// that sum exactly to total: floor each share, then hand the leftover units
// to the largest fractional remainders (highest weight breaking ties).
func allocateExact(total int, weights []float64) []int {
	n := len(weights)
	out := make([]int, n)
	if n == 0 || total <= 0 {
		return out
	}

	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum <= 0 {
		// Degenerate weights: spread evenly, leftover to the front.
		base := total / n
		rem := total % n
		for i := range out {
			out[i] = base
			if i < rem {
				out[i]++
			}
		}
		return out
	}

	type frac struct {
		idx  int
		frac float64
	}
	fracs := make([]frac, n)
	allocated := 0
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		share := float64(total) * w / sum
		out[i] = int(share)
		allocated += out[i]
		fracs[i] = frac{idx: i, frac: share - float64(out[i])}
	}

	for left := total - allocated; left > 0; left-- {
		best := -1
		for i := range fracs {
			if best == -1 ||
				fracs[i].frac > fracs[best].frac ||
				(fracs[i].frac == fracs[best].frac && weights[fracs[i].idx] > weights[fracs[best].idx]) {
				best = i
			}
		}
		out[fracs[best].idx]++
		fracs[best].frac = -1
	}
	return out
}
