package scoring

import (
	"strings"

	"github.com/Dosada05/aswat-contest/models"
)

// Archive projects the honor roll for display. Blank slots are skipped but
// every remaining name keeps its original slot number as its rank.
func Archive(winners [models.WinnerSlots]string) []models.ArchiveEntry {
	entries := make([]models.ArchiveEntry, 0, models.WinnerSlots)
	for i, name := range winners {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		entries = append(entries, models.ArchiveEntry{Rank: i + 1, Name: name})
	}
	return entries
}
