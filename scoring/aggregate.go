// Package scoring holds the pure judging core: per-judge rating replacement,
// average recomputation, leaderboard ranking, honor-roll projection and the
// registry import merge. Nothing here touches storage or the network.
package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/aswat-contest/models"
)

var ErrScoreOutOfRange = errors.New("score must be an integer between 1 and 10")

func ValidateScore(score int) error {
	if score < models.MinScore || score > models.MaxScore {
		return fmt.Errorf("%w: got %d", ErrScoreOutOfRange, score)
	}
	return nil
}

// AverageScore is the arithmetic mean of the rating scores, 0 for none.
func AverageScore(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings))
}

// ReplaceRating drops any rating by r.JudgeID and appends r.
// The input slice is not modified.
func ReplaceRating(ratings []models.Rating, r models.Rating) []models.Rating {
	out := make([]models.Rating, 0, len(ratings)+1)
	for _, existing := range ratings {
		if existing.JudgeID != r.JudgeID {
			out = append(out, existing)
		}
	}
	return append(out, r)
}

// statusAfterRating is the only automatic status transition: any recorded
// rating makes the participant Qualified, even over a manual Accepted or
// Rejected.
func statusAfterRating(_ models.ParticipantStatus, ratings []models.Rating) models.ParticipantStatus {
	return models.StatusQualified
}

// ApplyRating returns a copy of p with the judge's rating replaced and the
// aggregate and status recomputed together. p itself is left untouched, so a
// caller can persist the result before publishing it.
func ApplyRating(p *models.Participant, judgeID, judgeName string, score int) (*models.Participant, error) {
	if p == nil {
		return nil, errors.New("scoring: nil participant")
	}
	if err := ValidateScore(score); err != nil {
		return nil, err
	}

	next := p.Clone()
	next.Ratings = ReplaceRating(p.Ratings, models.Rating{
		JudgeID:   judgeID,
		JudgeName: judgeName,
		Score:     score,
	})
	next.AverageScore = AverageScore(next.Ratings)
	next.Status = statusAfterRating(p.Status, next.Ratings)
	return next, nil
}
