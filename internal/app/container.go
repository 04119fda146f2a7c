package app

import (
	"github.com/sirupsen/logrus"

	adapterrepo "github.com/voxlearn/vox/internal/adapter/repository"
	"github.com/voxlearn/vox/internal/infrastructure/config"
	"github.com/voxlearn/vox/internal/infrastructure/database"
	"github.com/voxlearn/vox/internal/infrastructure/logging"
	"github.com/voxlearn/vox/internal/repository"
	"github.com/voxlearn/vox/internal/srs"
	"github.com/voxlearn/vox/internal/usecase"
)

// Container aggregates the application dependencies.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  repository.CardStore
	Vocab  usecase.VocabUsecase
	Review usecase.ReviewUsecase
}

// Initialize builds the application container. The returned cleanup closes
// the database connection.
func Initialize() (*Container, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, cleanup, err := database.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := adapterrepo.NewCardStore(db)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	params := schedulingParams(cfg)
	interleave := srs.SelectOptions{NewPerReview: cfg.SRS.NewPerReview}

	return &Container{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Vocab:  usecase.NewVocabUsecase(store, params),
		Review: usecase.NewReviewUsecase(store, params, interleave),
	}, cleanup, nil
}

func schedulingParams(cfg *config.Config) srs.Params {
	params := srs.DefaultParams()
	if cfg.SRS.EaseFloor > 0 {
		params.EaseFloor = cfg.SRS.EaseFloor
	}
	if cfg.SRS.InitialEase > 0 {
		params.InitialEase = cfg.SRS.InitialEase
	}
	if cfg.SRS.MaxIntervalDays > 0 {
		params.MaxIntervalDays = cfg.SRS.MaxIntervalDays
	}
	return params
}
