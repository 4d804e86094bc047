package models

import (
	"encoding/json"
	"time"
)

// BackupDocument is the full export shape.
type BackupDocument struct {
	Participants       []*Participant `json:"participants"`
	ShowCurrentResults bool           `json:"showCurrentResults"`
	LastYearWinners    []string       `json:"lastYearWinners"`
	Deadline           time.Time      `json:"deadline"`
	ExportDate         time.Time      `json:"exportDate"`
}

// BackupImport is the loosely-typed import shape. Participants is kept raw so
// that its array-ness can be checked before anything is admitted.
type BackupImport struct {
	Participants       json.RawMessage `json:"participants"`
	ShowCurrentResults *bool           `json:"showCurrentResults"`
	LastYearWinners    []string        `json:"lastYearWinners"`
}

type ImportSummary struct {
	Received int `json:"received"`
	Admitted int `json:"admitted"`
	Skipped  int `json:"skipped"`
}
