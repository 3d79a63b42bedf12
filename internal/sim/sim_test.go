package sim

import (
	"fmt"
	"testing"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSheet(teamID, city, name string, playerCount int) TeamSheet {
	team := domain.Team{ID: teamID, City: city, Name: name, Abbreviation: name[:3]}
	players := make([]domain.Player, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		players = append(players, domain.Player{
			ID:         fmt.Sprintf("%s-p%d", teamID, i+1),
			Name:       fmt.Sprintf("%s Player %d", name, i+1),
			TeamID:     teamID,
			Position:   []string{"PG", "SG", "SF", "PF", "C"}[i%5],
			Scoring:    float64(25 - i*2),
			Rebounding: float64(4 + i%5),
			Playmaking: float64(3 + i%4),
			Stealing:   1.0,
			ShotBlock:  0.5,
			FGPct:      0.46,
			ThreePct:   0.36,
			FTPct:      0.78,
			Minutes:    float64(36 - i*3),
		})
	}
	return TeamSheet{Team: team, Players: players}
}

func generateGame(t *testing.T, seed int64, in Input) *Game {
	t.Helper()
	home := testSheet("home", "Boston", "Celtics", 10)
	away := testSheet("away", "Denver", "Nuggets", 10)
	g, err := Generate(rng.NewSeeded(seed), home, away, in)
	require.NoError(t, err)
	return g
}

func TestGeneratePreservesInputQuarter(t *testing.T) {
	for quarter := 1; quarter <= 4; quarter++ {
		t.Run(fmt.Sprintf("quarter_%d", quarter), func(t *testing.T) {
			for seed := int64(1); seed <= 20; seed++ {
				g := generateGame(t, seed, Input{Quarter: quarter, HomeScore: 28, AwayScore: 25})
				assert.Equal(t, 28, g.HomeQuarters[quarter-1], "seed %d", seed)
				assert.Equal(t, 25, g.AwayQuarters[quarter-1], "seed %d", seed)
			}
		})
	}
}

func TestGenerateQuarterSumsMatchFinals(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g := generateGame(t, seed, Input{Quarter: 2, HomeScore: 31, AwayScore: 22})

		homeSum, awaySum := 0, 0
		for q := 0; q < 4; q++ {
			assert.GreaterOrEqual(t, g.HomeQuarters[q], 0)
			assert.GreaterOrEqual(t, g.AwayQuarters[q], 0)
			homeSum += g.HomeQuarters[q]
			awaySum += g.AwayQuarters[q]
		}
		assert.Equal(t, g.HomeScore, homeSum, "seed %d", seed)
		assert.Equal(t, g.AwayScore, awaySum, "seed %d", seed)
	}
}

func TestGenerateNeverTied(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g := generateGame(t, seed, Input{Quarter: 1, HomeScore: 24, AwayScore: 24})
		assert.NotEqual(t, g.HomeScore, g.AwayScore, "seed %d", seed)
	}
}

func TestGenerateInputQuarterWinnerWinsGame(t *testing.T) {
	// 28-25 in the first quarter must extrapolate to a home win.
	for seed := int64(1); seed <= 50; seed++ {
		g := generateGame(t, seed, Input{Quarter: 1, HomeScore: 28, AwayScore: 25})
		assert.Greater(t, g.HomeScore, g.AwayScore, "seed %d", seed)
	}
}

func TestGeneratePointsSumExactly(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		g := generateGame(t, seed, Input{Quarter: 3, HomeScore: 30, AwayScore: 19})

		homePts := 0
		for _, l := range g.HomeBox {
			homePts += l.Points
		}
		awayPts := 0
		for _, l := range g.AwayBox {
			awayPts += l.Points
		}
		assert.Equal(t, g.HomeScore, homePts, "seed %d", seed)
		assert.Equal(t, g.AwayScore, awayPts, "seed %d", seed)
	}
}

func TestGenerateMinutesSumExactly(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		g := generateGame(t, seed, Input{Quarter: 4, HomeScore: 26, AwayScore: 27})

		for _, box := range [][]domain.StatLine{g.HomeBox, g.AwayBox} {
			total := 0
			for _, l := range box {
				assert.LessOrEqual(t, l.Minutes, constants.MaxPlayerMins)
				assert.GreaterOrEqual(t, l.Minutes, 0)
				total += l.Minutes
			}
			assert.Equal(t, constants.TeamMinutes, total, "seed %d", seed)
		}
	}
}

func TestGenerateShootingLinesAreConsistent(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		g := generateGame(t, seed, Input{Quarter: 1, HomeScore: 33, AwayScore: 21})

		for _, l := range append(g.HomeBox, g.AwayBox...) {
			assert.Equal(t, l.Points, 3*l.TPM+2*(l.FGM-l.TPM)+l.FTM, "player %s", l.PlayerID)
			assert.LessOrEqual(t, l.FGM, l.FGA)
			assert.LessOrEqual(t, l.TPM, l.TPA)
			assert.LessOrEqual(t, l.FTM, l.FTA)
			assert.LessOrEqual(t, l.TPA, l.FGA)
			assert.Equal(t, l.Rebounds, l.OffRebounds+l.DefRebounds)
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	home := testSheet("home", "Boston", "Celtics", 10)
	away := testSheet("away", "Denver", "Nuggets", 10)
	thin := testSheet("thin", "Las Vegas", "Expansion", 3)

	tests := []struct {
		name string
		home TeamSheet
		away TeamSheet
		in   Input
	}{
		{"quarter zero", home, away, Input{Quarter: 0, HomeScore: 20, AwayScore: 18}},
		{"quarter five", home, away, Input{Quarter: 5, HomeScore: 20, AwayScore: 18}},
		{"negative home score", home, away, Input{Quarter: 1, HomeScore: -1, AwayScore: 18}},
		{"negative away score", home, away, Input{Quarter: 1, HomeScore: 20, AwayScore: -4}},
		{"same team both sides", home, home, Input{Quarter: 1, HomeScore: 20, AwayScore: 18}},
		{"short roster", home, thin, Input{Quarter: 1, HomeScore: 20, AwayScore: 18}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(rng.NewSeeded(1), tt.home, tt.away, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGeneratedQuartersStayInBand(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		g := generateGame(t, seed, Input{Quarter: 1, HomeScore: 45, AwayScore: 8})

		// Quarter 4 may carry the winner adjustment above the band; the
		// fixed quarter keeps its extreme input verbatim.
		for q := 1; q < 3; q++ {
			assert.GreaterOrEqual(t, g.HomeQuarters[q], constants.MinGeneratedQuarter, "seed %d q%d", seed, q+1)
			assert.LessOrEqual(t, g.HomeQuarters[q], constants.MaxGeneratedQuarter, "seed %d q%d", seed, q+1)
		}
		assert.Equal(t, 45, g.HomeQuarters[0])
		assert.Equal(t, 8, g.AwayQuarters[0])
	}
}

func TestAllocateExact(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		weights []float64
	}{
		{"even weights", 240, []float64{1, 1, 1, 1, 1, 1, 1, 1}},
		{"skewed weights", 113, []float64{9.3, 4.1, 0.2, 7.7, 1.5}},
		{"zero weights", 50, []float64{0, 0, 0}},
		{"zero total", 0, []float64{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := allocateExact(tt.total, tt.weights)
			require.Len(t, parts, len(tt.weights))

			sum := 0
			for _, p := range parts {
				assert.GreaterOrEqual(t, p, 0)
				sum += p
			}
			assert.Equal(t, tt.total, sum)
		})
	}
}
