package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/aswat-contest/models"
)

func TestSelectView(t *testing.T) {
	participants := []*models.Participant{rated("a", 6, 1), rated("b", 8, 2)}
	var winners [models.WinnerSlots]string
	winners[0] = "Last Year Champion"

	t.Run("live board", func(t *testing.T) {
		view := SelectView(true, participants, winners)
		assert.Equal(t, models.ResultsModeLive, view.Mode)
		require.Len(t, view.Leaderboard, 2)
		assert.Equal(t, "b", view.Leaderboard[0].ParticipantID)
		assert.Nil(t, view.Archive)
		assert.False(t, view.Awaiting)
	})

	t.Run("archive ignores live ratings", func(t *testing.T) {
		view := SelectView(false, participants, winners)
		assert.Equal(t, models.ResultsModeArchive, view.Mode)
		assert.Nil(t, view.Leaderboard)
		assert.Equal(t, []models.ArchiveEntry{{Rank: 1, Name: "Last Year Champion"}}, view.Archive)
		assert.False(t, view.Awaiting)
	})

	t.Run("nothing rated yet", func(t *testing.T) {
		unrated := []*models.Participant{{ID: "x", Status: models.StatusPending}}
		view := SelectView(true, unrated, winners)
		assert.True(t, view.Awaiting)
		assert.Empty(t, view.Leaderboard)
	})

	t.Run("empty honor roll", func(t *testing.T) {
		view := SelectView(false, participants, [models.WinnerSlots]string{})
		assert.Equal(t, models.ResultsModeArchive, view.Mode)
		assert.Empty(t, view.Archive)
		assert.True(t, view.Awaiting)
	})
}
