package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/aswat-contest/models"
)

func TestArchiveKeepsSlotNumbers(t *testing.T) {
	winners := models.NormalizeWinners([]string{"A", "", "C"})

	got := Archive(winners)
	assert.Equal(t, []models.ArchiveEntry{{Rank: 1, Name: "A"}, {Rank: 3, Name: "C"}}, got)
}

func TestArchiveSkipsBlankSlots(t *testing.T) {
	winners := models.NormalizeWinners([]string{"", "  ", "", "", "", "", "", "", "", "Last"})

	got := Archive(winners)
	assert.Equal(t, []models.ArchiveEntry{{Rank: 10, Name: "Last"}}, got)
}

func TestArchiveAllEmpty(t *testing.T) {
	var winners [models.WinnerSlots]string
	assert.Empty(t, Archive(winners))
}
