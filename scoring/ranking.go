package scoring

import (
	"sort"

	"github.com/Dosada05/aswat-contest/models"
)

// Rank builds the live leaderboard. Unrated participants are left out and the
// rest are ordered by average score, highest first. Equal averages keep the
// order they had in participants, which is registry (registration/import)
// order.
func Rank(participants []*models.Participant) []models.LeaderboardEntry {
	rated := make([]*models.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil && len(p.Ratings) > 0 {
			rated = append(rated, p)
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].AverageScore > rated[j].AverageScore
	})

	entries := make([]models.LeaderboardEntry, len(rated))
	for i, p := range rated {
		entries[i] = models.LeaderboardEntry{
			Rank:          i + 1,
			ParticipantID: p.ID,
			FullName:      p.FullName,
			District:      p.District,
			Type:          p.Type,
			AverageScore:  p.AverageScore,
			RatingsCount:  len(p.Ratings),
		}
	}
	return entries
}
