package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/aswat-contest/models"
)

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name    string
		ratings []models.Rating
		want    float64
	}{
		{name: "empty", ratings: nil, want: 0},
		{name: "single", ratings: []models.Rating{{JudgeID: "a", Score: 7}}, want: 7},
		{name: "two", ratings: []models.Rating{{JudgeID: "a", Score: 10}, {JudgeID: "b", Score: 6}}, want: 8},
		{name: "fractional", ratings: []models.Rating{{JudgeID: "a", Score: 9}, {JudgeID: "b", Score: 8}, {JudgeID: "c", Score: 8}}, want: 25.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AverageScore(tt.ratings), 1e-9)
		})
	}
}

func TestApplyRatingScenario(t *testing.T) {
	p := &models.Participant{ID: "p1", Status: models.StatusPending}

	p1, err := ApplyRating(p, "j1", "Judge One", 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, p1.AverageScore)
	assert.Equal(t, models.StatusQualified, p1.Status)

	p2, err := ApplyRating(p1, "j2", "Judge Two", 6)
	require.NoError(t, err)
	assert.Equal(t, 7.0, p2.AverageScore)

	p3, err := ApplyRating(p2, "j1", "Judge One", 10)
	require.NoError(t, err)
	assert.Equal(t, 8.0, p3.AverageScore)
	require.Len(t, p3.Ratings, 2)

	scores := map[string]int{}
	for _, r := range p3.Ratings {
		scores[r.JudgeID] = r.Score
	}
	assert.Equal(t, map[string]int{"j1": 10, "j2": 6}, scores)
}

func TestApplyRatingDoesNotMutateInput(t *testing.T) {
	p := &models.Participant{
		ID:           "p1",
		Status:       models.StatusAccepted,
		Ratings:      []models.Rating{{JudgeID: "j1", JudgeName: "One", Score: 4}},
		AverageScore: 4,
	}

	next, err := ApplyRating(p, "j1", "One", 9)
	require.NoError(t, err)

	assert.Equal(t, 4, p.Ratings[0].Score)
	assert.Equal(t, 4.0, p.AverageScore)
	assert.Equal(t, models.StatusAccepted, p.Status)
	assert.Equal(t, 9.0, next.AverageScore)
}

func TestApplyRatingIdempotent(t *testing.T) {
	p := &models.Participant{ID: "p1", Status: models.StatusPending}

	once, err := ApplyRating(p, "j1", "One", 5)
	require.NoError(t, err)
	twice, err := ApplyRating(once, "j1", "One", 5)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApplyRatingOverridesManualStatus(t *testing.T) {
	for _, status := range []models.ParticipantStatus{models.StatusAccepted, models.StatusRejected, models.StatusPending} {
		t.Run(string(status), func(t *testing.T) {
			p := &models.Participant{ID: "p", Status: status}
			next, err := ApplyRating(p, "j", "J", 3)
			require.NoError(t, err)
			assert.Equal(t, models.StatusQualified, next.Status)
		})
	}
}

func TestApplyRatingRejectsOutOfRange(t *testing.T) {
	p := &models.Participant{ID: "p1"}
	for _, score := range []int{-1, 0, 11, 100} {
		_, err := ApplyRating(p, "j1", "One", score)
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "score %d", score)
	}
	assert.Empty(t, p.Ratings)
}

func TestReplaceRatingKeepsOnePerJudge(t *testing.T) {
	var ratings []models.Rating
	for i, judge := range []string{"a", "b", "a", "a", "c", "b"} {
		ratings = ReplaceRating(ratings, models.Rating{JudgeID: judge, Score: i + 1})
	}

	seen := map[string]bool{}
	for _, r := range ratings {
		assert.False(t, seen[r.JudgeID], "duplicate judge %s", r.JudgeID)
		seen[r.JudgeID] = true
	}
	assert.Len(t, ratings, 3)
}
