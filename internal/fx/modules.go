package fx

import (
	"hoopsim/internal/config"
	"hoopsim/internal/database"
	"hoopsim/internal/logger"
	"hoopsim/internal/repository"
	"hoopsim/internal/seed"
	"hoopsim/internal/server"
	"hoopsim/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewSeriesRepository),
	fx.Provide(repository.NewRunRepository),
	fx.Provide(repository.NewStatsRepository),
	// svc
	fx.Provide(service.NewTournamentService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewRunService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewRosterService),
	// bootstrap
	fx.Provide(seed.New),
	// server
	fx.Provide(server.New),
)
