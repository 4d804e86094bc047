package services

import (
	"math"
	"strings"
	"time"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/scoring"
)

// normalizeImported cleans a participant arriving from a feed or backup
// before it reaches the registry.
//
// Ratings outside the score range or without a judge are dropped, and the
// last rating per judge wins. When ratings remain, the average is recomputed
// from them and a Pending record becomes Qualified; otherwise the incoming
// average (a feed's seeded score) is kept when it is finite and not negative.
// An unknown type is cleared rather than stored as-is.
func normalizeImported(p *models.Participant, now time.Time) *models.Participant {
	out := p.Clone()
	out.ID = strings.TrimSpace(out.ID)
	out.FullName = strings.TrimSpace(out.FullName)

	if t, ok := models.ParseParticipationType(string(out.Type)); ok {
		out.Type = t
	} else {
		out.Type = ""
	}
	if st, ok := models.ParseParticipantStatus(string(out.Status)); ok {
		out.Status = st
	} else {
		out.Status = models.StatusPending
	}
	if out.SubmittedAt.IsZero() {
		out.SubmittedAt = now
	}

	ratings := []models.Rating{}
	for _, r := range out.Ratings {
		if r.JudgeID == "" || scoring.ValidateScore(r.Score) != nil {
			continue
		}
		ratings = scoring.ReplaceRating(ratings, r)
	}
	out.Ratings = ratings

	if len(ratings) > 0 {
		out.AverageScore = scoring.AverageScore(ratings)
		if out.Status == models.StatusPending {
			out.Status = models.StatusQualified
		}
	} else if !(out.AverageScore >= 0) || math.IsInf(out.AverageScore, 0) {
		out.AverageScore = 0
	}
	return out
}
