package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"hoopsim/internal/constants"
	"hoopsim/internal/database"
	"hoopsim/internal/domain"
	"hoopsim/internal/repository"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	db  *sql.DB

	teamRepo   *repository.TeamRepository
	gameRepo   *repository.GameRepository
	seriesRepo *repository.SeriesRepository
	runRepo    *repository.RunRepository
	statsRepo  *repository.StatsRepository

	tournament *TournamentService
	games      *GameService
	runs       *RunService
	stats      *StatsService
	roster     *RosterService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := sql.Open("sqlite3", ":memory:")
	s.Require().NoError(err)
	// A second connection to :memory: would see a different empty database.
	db.SetMaxOpenConns(1)

	logger := zerolog.Nop()
	s.Require().NoError(database.Migrate(db, logger))
	s.db = db

	s.teamRepo = repository.NewTeamRepository(db, logger)
	s.gameRepo = repository.NewGameRepository(db, logger)
	s.seriesRepo = repository.NewSeriesRepository(db, logger)
	s.runRepo = repository.NewRunRepository(db, logger)
	s.statsRepo = repository.NewStatsRepository(db, logger)

	s.tournament = NewTournamentService(s.seriesRepo, s.gameRepo, s.teamRepo, s.runRepo, logger)
	s.games = NewGameService(s.teamRepo, s.gameRepo, s.seriesRepo, s.runRepo, s.tournament, logger)
	s.runs = NewRunService(s.runRepo, logger)
	s.stats = NewStatsService(s.statsRepo, s.gameRepo, s.runRepo, logger)
	s.roster = NewRosterService(s.teamRepo, logger)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *ServiceTestSuite) createTeams(n int) []domain.Team {
	teams := make([]domain.Team, 0, n)
	for i := 0; i < n; i++ {
		now := time.Now()
		team := domain.Team{
			ID:           fmt.Sprintf("team-%02d", i+1),
			City:         fmt.Sprintf("City %d", i+1),
			Name:         fmt.Sprintf("Team %d", i+1),
			Abbreviation: fmt.Sprintf("T%02d", i+1),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		s.Require().NoError(s.teamRepo.Create(s.ctx, &team))
		teams = append(teams, team)

		for p := 0; p < 8; p++ {
			player := domain.Player{
				ID:         fmt.Sprintf("%s-p%d", team.ID, p+1),
				Name:       fmt.Sprintf("%s Player %d", team.Name, p+1),
				TeamID:     team.ID,
				Position:   []string{"PG", "SG", "SF", "PF", "C"}[p%5],
				Scoring:    float64(22 - p*2),
				Rebounding: 5,
				Playmaking: 3,
				Stealing:   1,
				ShotBlock:  0.5,
				FGPct:      0.45,
				ThreePct:   0.35,
				FTPct:      0.78,
				Minutes:    float64(34 - p*3),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			s.Require().NoError(s.teamRepo.CreatePlayer(s.ctx, &player))
		}
	}
	return teams
}

func (s *ServiceTestSuite) createRun(name string) *domain.Run {
	run, err := s.runs.Create(s.ctx, name, 2026)
	s.Require().NoError(err)
	return run
}

// playSeriesGame records one game where the home side is guaranteed to
// win, since the input quarter winner always wins the extrapolated game.
func (s *ServiceTestSuite) playSeriesGame(seriesID, homeID, awayID string) *domain.Game {
	game, err := s.games.Create(s.ctx, CreateGameInput{
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Quarter:    1,
		HomeScore:  30,
		AwayScore:  20,
		SeriesID:   seriesID,
	})
	s.Require().NoError(err)
	s.Require().Equal(homeID, game.WinnerTeamID())
	return game
}

func (s *ServiceTestSuite) insertSeries(runID string, round, number int, team1, team2 string) *domain.Series {
	now := time.Now()
	sr := domain.Series{
		ID:        fmt.Sprintf("series-%d-%d", round, number),
		RunID:     runID,
		Round:     round,
		Number:    number,
		Team1ID:   team1,
		Team2ID:   team2,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.seriesRepo.CreateBatch(s.ctx, []domain.Series{sr}))
	return &sr
}

func (s *ServiceTestSuite) TestBracketInitialization() {
	s.createTeams(constants.BracketTeams)
	s.createRun("Season 2026")

	batch, err := s.tournament.InitializeBracket(s.ctx)
	s.Require().NoError(err)
	s.Len(batch, 16)

	// Seed 1 faces seed 32, seed 16 faces seed 17.
	s.Equal("team-01", batch[0].Team1ID)
	s.Equal("team-32", batch[0].Team2ID)
	s.Equal("team-16", batch[15].Team1ID)
	s.Equal("team-17", batch[15].Team2ID)

	for i, sr := range batch {
		s.Equal(1, sr.Round)
		s.Equal(i+1, sr.Number)
		s.False(sr.IsCompleted)
	}

	_, err = s.tournament.InitializeBracket(s.ctx)
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceTestSuite) TestBracketRejectsTooFewTeams() {
	s.createTeams(30)
	s.createRun("Season 2026")

	_, err := s.tournament.InitializeBracket(s.ctx)
	s.ErrorIs(err, domain.ErrInvalidBracketSize)
}

func (s *ServiceTestSuite) TestBracketRejectsTooManyTeams() {
	s.createTeams(33)
	s.createRun("Season 2026")

	_, err := s.tournament.InitializeBracket(s.ctx)
	s.ErrorIs(err, domain.ErrInvalidBracketSize)
}

func (s *ServiceTestSuite) TestSeriesCompletesAtFourWins() {
	teams := s.createTeams(2)
	run := s.createRun("Season 2026")
	sr := s.insertSeries(run.ID, 1, 1, teams[0].ID, teams[1].ID)

	for i := 1; i <= 3; i++ {
		game := s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)
		s.Equal(i, game.GameNumber)

		got, err := s.seriesRepo.Get(s.ctx, sr.ID)
		s.Require().NoError(err)
		s.Equal(i, got.Team1Wins)
		s.False(got.IsCompleted)
	}

	s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)

	got, err := s.seriesRepo.Get(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.True(got.IsCompleted)
	s.Equal(teams[0].ID, got.WinnerTeamID)
	s.Equal(4, got.Team1Wins)

	// A completed series accepts no further games.
	_, err = s.games.Create(s.ctx, CreateGameInput{
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		Quarter:    1,
		HomeScore:  30,
		AwayScore:  20,
		SeriesID:   sr.ID,
	})
	s.ErrorIs(err, domain.ErrSeriesAlreadyCompleted)

	count, err := s.gameRepo.CountBySeries(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.Equal(4, count)
}

func (s *ServiceTestSuite) TestSeriesNeverExceedsSevenGames() {
	teams := s.createTeams(2)
	run := s.createRun("Season 2026")
	sr := s.insertSeries(run.ID, 1, 1, teams[0].ID, teams[1].ID)

	// Alternate winners to stretch the series to its full length.
	for i := 0; i < 3; i++ {
		s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)
		s.playSeriesGame(sr.ID, teams[1].ID, teams[0].ID)
	}
	game := s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)
	s.Equal(constants.MaxSeriesGames, game.GameNumber)

	got, err := s.seriesRepo.Get(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.True(got.IsCompleted)
	s.Equal(4, got.Team1Wins)
	s.Equal(3, got.Team2Wins)
}

func (s *ServiceTestSuite) TestDeleteGameRevertsSeries() {
	teams := s.createTeams(2)
	run := s.createRun("Season 2026")
	sr := s.insertSeries(run.ID, 1, 1, teams[0].ID, teams[1].ID)

	var deciding *domain.Game
	for i := 0; i < 4; i++ {
		deciding = s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)
	}

	got, err := s.seriesRepo.Get(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.Require().True(got.IsCompleted)

	s.Require().NoError(s.games.Delete(s.ctx, deciding.ID))

	got, err = s.seriesRepo.Get(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.False(got.IsCompleted)
	s.Empty(got.WinnerTeamID)
	s.Equal(3, got.Team1Wins)

	count, err := s.gameRepo.CountBySeries(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.Equal(3, count)

	// The series is playable again.
	s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)
	got, err = s.seriesRepo.Get(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.True(got.IsCompleted)
}

func (s *ServiceTestSuite) TestDeleteNonDecidingGameKeepsSeriesOpen() {
	teams := s.createTeams(2)
	run := s.createRun("Season 2026")
	sr := s.insertSeries(run.ID, 1, 1, teams[0].ID, teams[1].ID)

	first := s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)
	s.playSeriesGame(sr.ID, teams[1].ID, teams[0].ID)

	s.Require().NoError(s.games.Delete(s.ctx, first.ID))

	got, err := s.seriesRepo.Get(s.ctx, sr.ID)
	s.Require().NoError(err)
	s.Equal(0, got.Team1Wins)
	s.Equal(1, got.Team2Wins)
	s.False(got.IsCompleted)
}

func (s *ServiceTestSuite) TestFinalsCompletionCrownsChampion() {
	teams := s.createTeams(2)
	run := s.createRun("Season 2026")
	finals := s.insertSeries(run.ID, constants.BracketRounds, 1, teams[0].ID, teams[1].ID)

	var deciding *domain.Game
	for i := 0; i < 4; i++ {
		deciding = s.playSeriesGame(finals.ID, teams[0].ID, teams[1].ID)
	}

	got, err := s.runRepo.Get(s.ctx, run.ID)
	s.Require().NoError(err)
	s.True(got.IsCompleted)
	s.Equal(teams[0].ID, got.ChampionTeamID)

	// Deleting the deciding finals game reopens the run.
	s.Require().NoError(s.games.Delete(s.ctx, deciding.ID))

	got, err = s.runRepo.Get(s.ctx, run.ID)
	s.Require().NoError(err)
	s.False(got.IsCompleted)
	s.Empty(got.ChampionTeamID)
}

func (s *ServiceTestSuite) TestAdvanceRoundRequiresCompleteRound() {
	teams := s.createTeams(4)
	run := s.createRun("Season 2026")

	// Build a 2-series round 4 by hand; round 4 expects exactly 2 series.
	one := s.insertSeries(run.ID, 4, 1, teams[0].ID, teams[1].ID)
	two := s.insertSeries(run.ID, 4, 2, teams[2].ID, teams[3].ID)

	_, err := s.tournament.AdvanceRound(s.ctx, 4)
	s.ErrorIs(err, domain.ErrRoundNotComplete)

	for i := 0; i < 4; i++ {
		s.playSeriesGame(one.ID, teams[0].ID, teams[1].ID)
	}
	_, err = s.tournament.AdvanceRound(s.ctx, 4)
	s.ErrorIs(err, domain.ErrRoundNotComplete)

	for i := 0; i < 4; i++ {
		s.playSeriesGame(two.ID, teams[2].ID, teams[3].ID)
	}

	next, err := s.tournament.AdvanceRound(s.ctx, 4)
	s.Require().NoError(err)
	s.Require().Len(next, 1)
	s.Equal(5, next[0].Round)
	s.Equal(teams[0].ID, next[0].Team1ID)
	s.Equal(teams[2].ID, next[0].Team2ID)

	// Advancing the same round twice is rejected.
	_, err = s.tournament.AdvanceRound(s.ctx, 4)
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceTestSuite) TestAdvanceRoundBounds() {
	s.createTeams(2)
	s.createRun("Season 2026")

	_, err := s.tournament.AdvanceRound(s.ctx, 0)
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.tournament.AdvanceRound(s.ctx, 6)
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.tournament.AdvanceRound(s.ctx, constants.BracketRounds)
	s.ErrorIs(err, domain.ErrTournamentComplete)
}

func (s *ServiceTestSuite) TestExclusiveActiveRun() {
	s.createTeams(2)

	first := s.createRun("Season A")
	second := s.createRun("Season B")

	active, err := s.runs.Active(s.ctx)
	s.Require().NoError(err)
	s.Equal(second.ID, active.ID)

	_, err = s.runs.Activate(s.ctx, first.ID)
	s.Require().NoError(err)

	active, err = s.runs.Active(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.ID, active.ID)

	runs, err := s.runs.List(s.ctx)
	s.Require().NoError(err)
	activeCount := 0
	for _, r := range runs {
		if r.IsActive {
			activeCount++
		}
	}
	s.Equal(1, activeCount)

	_, err = s.runs.Activate(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrRunNotFound)
}

func (s *ServiceTestSuite) TestLeadersScopedByRun() {
	teams := s.createTeams(2)
	s.createRun("Season A")

	_, err := s.games.Create(s.ctx, CreateGameInput{
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		Quarter:    1,
		HomeScore:  28,
		AwayScore:  25,
	})
	s.Require().NoError(err)

	leaders, err := s.stats.Leaders(s.ctx, ScopeCurrent)
	s.Require().NoError(err)
	s.Require().NotEmpty(leaders["points"])
	s.LessOrEqual(len(leaders["points"]), constants.StatLeaderLimit)
	for _, row := range leaders["points"] {
		s.GreaterOrEqual(row.Games, 1)
	}

	// Averages are sorted descending.
	rows := leaders["points"]
	for i := 1; i < len(rows); i++ {
		s.GreaterOrEqual(rows[i-1].Average, rows[i].Average)
	}

	// A fresh run has no games, so current-scope leaders are empty while
	// the all-runs scope still sees the old ones.
	s.createRun("Season B")

	leaders, err = s.stats.Leaders(s.ctx, ScopeCurrent)
	s.Require().NoError(err)
	s.Empty(leaders["points"])

	leaders, err = s.stats.Leaders(s.ctx, ScopeAll)
	s.Require().NoError(err)
	s.NotEmpty(leaders["points"])

	_, err = s.stats.Leaders(s.ctx, "last-week")
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceTestSuite) TestStandaloneGameRequiresActiveRun() {
	teams := s.createTeams(2)

	_, err := s.games.Create(s.ctx, CreateGameInput{
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		Quarter:    1,
		HomeScore:  28,
		AwayScore:  25,
	})
	s.ErrorIs(err, domain.ErrRunNotFound)
}

func (s *ServiceTestSuite) TestGameRejectsTeamPlayingItself() {
	teams := s.createTeams(1)
	s.createRun("Season 2026")

	_, err := s.games.Create(s.ctx, CreateGameInput{
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[0].ID,
		Quarter:    1,
		HomeScore:  28,
		AwayScore:  25,
	})
	s.ErrorIs(err, domain.ErrInvalidInput)

	games, err := s.games.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *ServiceTestSuite) TestPreviewPersistsNothing() {
	teams := s.createTeams(2)
	s.createRun("Season 2026")

	preview, err := s.games.Preview(s.ctx, CreateGameInput{
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		Quarter:    2,
		HomeScore:  28,
		AwayScore:  25,
	})
	s.Require().NoError(err)
	s.Equal(28, preview.Game.HomeQuarters[1])
	s.Equal(25, preview.Game.AwayQuarters[1])

	games, err := s.games.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *ServiceTestSuite) TestResetTournament() {
	teams := s.createTeams(2)
	run := s.createRun("Season 2026")
	sr := s.insertSeries(run.ID, 1, 1, teams[0].ID, teams[1].ID)

	s.playSeriesGame(sr.ID, teams[0].ID, teams[1].ID)

	s.Require().NoError(s.tournament.Reset(s.ctx))

	count, err := s.seriesRepo.CountByRun(s.ctx, run.ID)
	s.Require().NoError(err)
	s.Equal(0, count)

	games, err := s.gameRepo.ListByRun(s.ctx, run.ID)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *ServiceTestSuite) TestRosterMoves() {
	teams := s.createTeams(2)

	now := time.Now()
	agent := domain.Player{
		ID:        "free-1",
		Name:      "Free Agent",
		Position:  "SG",
		Scoring:   10,
		Minutes:   15,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.teamRepo.CreatePlayer(s.ctx, &agent))

	s.Require().NoError(s.roster.Sign(s.ctx, teams[0].ID, agent.ID))

	// Signing a rostered player is rejected.
	err := s.roster.Sign(s.ctx, teams[1].ID, agent.ID)
	s.ErrorIs(err, domain.ErrInvalidInput)

	s.Require().NoError(s.roster.Release(s.ctx, teams[0].ID, agent.ID))

	free, err := s.roster.FreeAgents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(free, 1)
	s.Equal(agent.ID, free[0].ID)

	// Releasing from the wrong team is rejected.
	err = s.roster.Release(s.ctx, teams[1].ID, agent.ID)
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceTestSuite) TestTradeSwapsPlayers() {
	teams := s.createTeams(2)

	err := s.roster.Trade(s.ctx, TradeInput{
		Team1ID:        teams[0].ID,
		Team2ID:        teams[1].ID,
		Team1PlayerIDs: []string{teams[0].ID + "-p1"},
		Team2PlayerIDs: []string{teams[1].ID + "-p1", teams[1].ID + "-p2"},
	})
	s.Require().NoError(err)

	moved, err := s.teamRepo.GetPlayer(s.ctx, teams[0].ID+"-p1")
	s.Require().NoError(err)
	s.Equal(teams[1].ID, moved.TeamID)

	rosterOne, err := s.teamRepo.Roster(s.ctx, teams[0].ID)
	s.Require().NoError(err)
	s.Len(rosterOne, 9)

	// Trading a player the team does not own is rejected.
	err = s.roster.Trade(s.ctx, TradeInput{
		Team1ID:        teams[0].ID,
		Team2ID:        teams[1].ID,
		Team1PlayerIDs: []string{teams[1].ID + "-p3"},
	})
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceTestSuite) TestInputPerformance() {
	teams := s.createTeams(2)
	s.createRun("Season 2026")

	perf, err := s.stats.InputPerformance(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, perf.Games)

	_, err = s.games.Create(s.ctx, CreateGameInput{
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		Quarter:    1,
		HomeScore:  30,
		AwayScore:  20,
	})
	s.Require().NoError(err)

	perf, err = s.stats.InputPerformance(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, perf.Games)
	s.Equal(1, perf.HomeWins)
	s.Equal(1, perf.InputWinnerWon)
	s.InDelta(50.0, perf.AvgInputTotal, 0.01)
}
