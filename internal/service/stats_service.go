package service

import (
	"context"
	"fmt"

	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// StatsService reports store-wide row counts.
type StatsService interface {
	Snapshot(ctx context.Context) (*repository.TableCounts, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	log       *logger.Logger
}

func NewStatsService(statsRepo repository.StatsRepository, baseLog *logger.Logger) StatsService {
	return &statsService{statsRepo: statsRepo, log: baseLog.With("service", "StatsService")}
}

func (s *statsService) Snapshot(ctx context.Context) (*repository.TableCounts, error) {
	counts, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("read table counts: %w", err)
	}
	s.log.Debug("table counts read", "workouts", counts.Workouts, "users", counts.Users)
	return counts, nil
}
