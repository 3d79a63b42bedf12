package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hoopsim/internal/domain"
	"hoopsim/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RunService struct {
	runRepo *repository.RunRepository
	logger  zerolog.Logger

	// Serializes create and activate so exactly one run is active at a
	// time even under concurrent flips.
	mu sync.Mutex
}

func NewRunService(runRepo *repository.RunRepository, logger zerolog.Logger) *RunService {
	return &RunService{runRepo: runRepo, logger: logger}
}

// Create starts a new run and makes it the active one, deactivating
// whichever run was active before.
func (s *RunService) Create(ctx context.Context, name string, year int) (*domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if year == 0 {
		year = time.Now().Year()
	}
	if name == "" {
		name = fmt.Sprintf("Season %d", year)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	run := &domain.Run{
		ID:        id,
		Name:      name,
		Year:      year,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	s.logger.Info().Str("run_id", run.ID).Str("name", run.Name).Msg("run created")
	return run, nil
}

// Activate flips the active flag to the given run.
func (s *RunService) Activate(ctx context.Context, id string) (*domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.runRepo.Activate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("run_id", run.ID).Msg("run activated")
	return run, nil
}

func (s *RunService) Active(ctx context.Context) (*domain.Run, error) {
	return s.runRepo.GetActive(ctx)
}

func (s *RunService) List(ctx context.Context) ([]domain.Run, error) {
	return s.runRepo.List(ctx)
}
