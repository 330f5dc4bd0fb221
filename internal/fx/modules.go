package fx

import (
	"ligapro-predictor/internal/ambience"
	"ligapro-predictor/internal/api"
	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/database"
	"ligapro-predictor/internal/logger"
	"ligapro-predictor/internal/repository"
	"ligapro-predictor/internal/server"
	"ligapro-predictor/internal/service"
	"ligapro-predictor/internal/teams"
	"ligapro-predictor/internal/ui"

	"go.uber.org/fx"
)

// config.Load logs through the bootstrap logger; everything else gets the leveled one.
const bootstrap = `name:"bootstrap"`

var Module = fx.Options(
	fx.Provide(fx.Annotate(logger.New, fx.ResultTags(bootstrap))),
	fx.Provide(fx.Annotate(config.Load, fx.ParamTags(bootstrap))),
	fx.Provide(fx.Annotate(logger.WithLevel, fx.ParamTags(bootstrap))),
	fx.Provide(database.New),
	// repos
	fx.Provide(
		fx.Annotate(
			repository.NewPredictionRepository,
			fx.As(new(service.Journal)),
			fx.As(new(server.Journal)),
		),
	),
	// api client
	fx.Provide(
		fx.Annotate(
			api.NewPredictorClient,
			fx.As(new(service.Predictor)),
			fx.As(new(server.HealthChecker)),
		),
	),
	// svc
	fx.Provide(teams.New),
	fx.Provide(fx.Annotate(service.NewPredictionService, fx.As(new(ui.Predictor)))),
	fx.Provide(ui.NewRegistry),
	fx.Provide(ambience.NewSlideshow),
	fx.Provide(ambience.NewMusic),
	// server
	fx.Provide(server.NewServer),
)
