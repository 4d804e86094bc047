package models

type ResultsMode string

const (
	ResultsModeLive    ResultsMode = "live"
	ResultsModeArchive ResultsMode = "archive"
)

type LeaderboardEntry struct {
	Rank          int               `json:"rank"`
	ParticipantID string            `json:"participant_id"`
	FullName      string            `json:"full_name"`
	District      string            `json:"district"`
	Type          ParticipationType `json:"type"`
	AverageScore  float64           `json:"average_score"`
	RatingsCount  int               `json:"ratings_count"`
}

type ArchiveEntry struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

// ResultsView is what the public results board shows. Exactly one of
// Leaderboard or Archive is populated, depending on Mode.
type ResultsView struct {
	Mode        ResultsMode        `json:"mode"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
	Archive     []ArchiveEntry     `json:"archive,omitempty"`
	Awaiting    bool               `json:"awaiting"`
}

type JudgingQueueItem struct {
	Participant *Participant `json:"participant"`
	Rated       bool         `json:"rated"`
	MyScore     *int         `json:"my_score,omitempty"`
}
