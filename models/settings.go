package models

import "time"

// WinnerSlots is the fixed size of the prior-cycle honor roll.
const WinnerSlots = 10

type CycleSettings struct {
	Deadline           time.Time           `json:"deadline"`
	ShowCurrentResults bool                `json:"show_current_results"`
	LastYearWinners    [WinnerSlots]string `json:"last_year_winners"`
}

// NormalizeWinners fits names into exactly WinnerSlots positions.
// Extra names are dropped and missing ones stay empty.
func NormalizeWinners(names []string) [WinnerSlots]string {
	var out [WinnerSlots]string
	copy(out[:], names)
	return out
}
