package sim

import (
	"testing"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassesGeneratedGames(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		g := generateGame(t, seed, Input{Quarter: 2, HomeScore: 29, AwayScore: 24})
		assert.NoError(t, Validate(g), "seed %d", seed)
	}
}

func TestValidateCatchesCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(*Game)
	}{
		{"negative quarter", func(g *Game) { g.HomeQuarters[1] = -2 }},
		{"quarter sum mismatch", func(g *Game) { g.AwayQuarters[2]++ }},
		{"points sum mismatch", func(g *Game) { g.HomeBox[0].Points++ }},
		{"minutes sum mismatch", func(g *Game) { g.AwayBox[3].Minutes-- }},
		{"negative stat", func(g *Game) { g.HomeBox[2].Rebounds = -1 }},
		{"empty play-by-play", func(g *Game) { g.PlayByPlay = nil }},
		{"running score regression", func(g *Game) {
			g.PlayByPlay[len(g.PlayByPlay)/2].HomeScore = 0
			g.PlayByPlay[len(g.PlayByPlay)/2].AwayScore = 0
		}},
		{"closing score mismatch", func(g *Game) {
			g.PlayByPlay[len(g.PlayByPlay)-1].HomeScore += 2
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := generateGame(t, 7, Input{Quarter: 1, HomeScore: 27, AwayScore: 23})
			require.NoError(t, Validate(g))

			tt.corrupt(g)
			assert.ErrorIs(t, Validate(g), domain.ErrInconsistentBoxScore)
		})
	}
}

func TestPlayByPlayInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := generateGame(t, seed, Input{Quarter: 3, HomeScore: 25, AwayScore: 31})
		require.NotEmpty(t, g.PlayByPlay)

		quarterHome := map[int]int{}
		quarterAway := map[int]int{}
		prevHome, prevAway := 0, 0
		for _, ev := range g.PlayByPlay {
			assert.GreaterOrEqual(t, ev.Quarter, 1)
			assert.LessOrEqual(t, ev.Quarter, 4)
			assert.NotEmpty(t, ev.Description)
			assert.NotEmpty(t, ev.EventType)

			quarterHome[ev.Quarter] += ev.HomeScore - prevHome
			quarterAway[ev.Quarter] += ev.AwayScore - prevAway
			prevHome, prevAway = ev.HomeScore, ev.AwayScore
		}

		// Per-quarter scoring in the feed reproduces the quarter line.
		for q := 1; q <= 4; q++ {
			assert.Equal(t, g.HomeQuarters[q-1], quarterHome[q], "seed %d home q%d", seed, q)
			assert.Equal(t, g.AwayQuarters[q-1], quarterAway[q], "seed %d away q%d", seed, q)
		}

		last := g.PlayByPlay[len(g.PlayByPlay)-1]
		assert.Equal(t, g.HomeScore, last.HomeScore)
		assert.Equal(t, g.AwayScore, last.AwayScore)
	}
}

func TestPlayByPlayClockStaysInsideQuarter(t *testing.T) {
	// An absurd fixed quarter produces more events than the quarter has
	// distinct seconds. Timestamps must stay inside the quarter rather
	// than spill past its boundary and pin trailing clocks to 00:00.
	g := generateGame(t, 19, Input{Quarter: 1, HomeScore: 900, AwayScore: 860})

	prev := -1
	for _, ev := range g.PlayByPlay {
		assert.GreaterOrEqual(t, ev.Elapsed, (ev.Quarter-1)*constants.QuarterSeconds)
		assert.Less(t, ev.Elapsed, ev.Quarter*constants.QuarterSeconds)
		assert.NotEqual(t, "00:00", ev.Clock)
		if ev.Quarter == 1 {
			assert.GreaterOrEqual(t, ev.Elapsed, prev)
			prev = ev.Elapsed
		}
	}
}

func TestPlayByPlayRimEventsPairUp(t *testing.T) {
	g := generateGame(t, 11, Input{Quarter: 1, HomeScore: 26, AwayScore: 22})

	// Every missed shot is followed by its rebound.
	for i, ev := range g.PlayByPlay {
		if ev.EventType != domain.EventMissedShot {
			continue
		}
		require.Less(t, i+1, len(g.PlayByPlay), "miss cannot close the feed")
		assert.Equal(t, domain.EventRebound, g.PlayByPlay[i+1].EventType)
		assert.Equal(t, ev.Quarter, g.PlayByPlay[i+1].Quarter)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "12:00", formatClock(720))
	assert.Equal(t, "00:00", formatClock(0))
	assert.Equal(t, "05:03", formatClock(303))
	assert.Equal(t, "11:59", formatClock(719))
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	home := testSheet("home", "Boston", "Celtics", 10)
	away := testSheet("away", "Denver", "Nuggets", 10)
	in := Input{Quarter: 2, HomeScore: 28, AwayScore: 25}

	a, err := Generate(rng.NewSeeded(42), home, away, in)
	require.NoError(t, err)
	b, err := Generate(rng.NewSeeded(42), home, away, in)
	require.NoError(t, err)

	assert.Equal(t, a.HomeQuarters, b.HomeQuarters)
	assert.Equal(t, a.AwayQuarters, b.AwayQuarters)
	assert.Equal(t, len(a.PlayByPlay), len(b.PlayByPlay))
}
