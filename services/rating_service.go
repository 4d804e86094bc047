package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/aswat-contest/metrics"
	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/repositories"
	"github.com/Dosada05/aswat-contest/scoring"
)

type RatingService interface {
	SubmitRating(ctx context.Context, participantID string, judge models.User, score int) (*models.Participant, error)
}

type ratingService struct {
	registry  repositories.ParticipantRegistry
	snapshots repositories.SnapshotRepository
	results   ResultsService
	metrics   *metrics.Collector
	logger    *slog.Logger
}

func NewRatingService(registry repositories.ParticipantRegistry, snapshots repositories.SnapshotRepository, results ResultsService, m *metrics.Collector, logger *slog.Logger) RatingService {
	return &ratingService{
		registry:  registry,
		snapshots: snapshots,
		results:   results,
		metrics:   m,
		logger:    loggerOrDefault(logger),
	}
}

// SubmitRating records judge's score for the participant, replacing any
// earlier score by the same judge. The new state is persisted before it
// becomes visible; a failed save leaves the participant as it was.
func (s *ratingService) SubmitRating(ctx context.Context, participantID string, judge models.User, score int) (*models.Participant, error) {
	if err := scoring.ValidateScore(score); err != nil {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}
	if judge.ID == "" {
		return nil, ErrForbiddenOperation
	}

	updated, err := s.registry.Update(participantID, func(current *models.Participant) (*models.Participant, error) {
		next, err := scoring.ApplyRating(current, judge.ID, judge.Name, score)
		if err != nil {
			return nil, err
		}
		if err := s.snapshots.SaveParticipant(ctx, nil, next); err != nil {
			return nil, fmt.Errorf("failed to persist rating: %w", err)
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, scoring.ErrScoreOutOfRange) {
			return nil, ErrInvalidScore
		}
		return nil, handleRepositoryError(err)
	}

	s.metrics.RatingSubmitted(string(updated.Type))
	s.results.Publish()
	s.logger.InfoContext(ctx, "rating submitted",
		slog.String("participant_id", participantID),
		slog.String("judge_id", judge.ID),
		slog.Int("score", score),
		slog.Float64("average_score", updated.AverageScore),
	)
	return updated, nil
}
