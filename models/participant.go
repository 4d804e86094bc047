package models

import (
	"strings"
	"time"
)

type ParticipantStatus string

const (
	StatusPending   ParticipantStatus = "pending"
	StatusAccepted  ParticipantStatus = "accepted"
	StatusRejected  ParticipantStatus = "rejected"
	StatusQualified ParticipantStatus = "qualified"
)

// IsValid reports whether s is one of the known participant statuses.
func (s ParticipantStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusQualified:
		return true
	}
	return false
}

type ParticipationType string

const (
	TypeQuran  ParticipationType = "quran"
	TypeInshad ParticipationType = "inshad"
)

func (t ParticipationType) IsValid() bool {
	return t == TypeQuran || t == TypeInshad
}

const (
	MinScore = 1
	MaxScore = 10
)

type Rating struct {
	JudgeID   string `json:"judge_id"`
	JudgeName string `json:"judge_name"`
	Score     int    `json:"score"`
}

type Participant struct {
	ID           string            `json:"id"`
	FullName     string            `json:"full_name"`
	Age          int               `json:"age"`
	District     string            `json:"district"`
	WhatsApp     string            `json:"whatsapp"`
	Email        string            `json:"email"`
	Type         ParticipationType `json:"type"`
	FileURL      string            `json:"file_url"`
	Status       ParticipantStatus `json:"status"`
	Ratings      []Rating          `json:"ratings"`
	AverageScore float64           `json:"average_score"`
	SubmittedAt  time.Time         `json:"submitted_at"`
}

// Clone returns a copy of p that shares no mutable state with it.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	c := *p
	c.Ratings = make([]Rating, len(p.Ratings))
	copy(c.Ratings, p.Ratings)
	return &c
}

// RatingBy returns the rating left by judgeID, if any.
func (p *Participant) RatingBy(judgeID string) (Rating, bool) {
	for _, r := range p.Ratings {
		if r.JudgeID == judgeID {
			return r, true
		}
	}
	return Rating{}, false
}

// Arabic display labels used by the public site and by legacy backups.
var (
	typeLabels = map[string]ParticipationType{
		"تلاوة القرآن الكريم": TypeQuran,
		"الإنشاد الديني":      TypeInshad,
	}
	statusLabels = map[string]ParticipantStatus{
		"قيد المراجعة": StatusPending,
		"مقبول":        StatusAccepted,
		"مرفوض":        StatusRejected,
		"متأهل":        StatusQualified,
	}
)

// ParseParticipationType accepts the canonical value in any case or the
// Arabic label.
func ParseParticipationType(raw string) (ParticipationType, bool) {
	raw = strings.TrimSpace(raw)
	if t, ok := typeLabels[raw]; ok {
		return t, true
	}
	t := ParticipationType(strings.ToLower(raw))
	return t, t.IsValid()
}

func ParseParticipantStatus(raw string) (ParticipantStatus, bool) {
	raw = strings.TrimSpace(raw)
	if s, ok := statusLabels[raw]; ok {
		return s, true
	}
	s := ParticipantStatus(strings.ToLower(raw))
	return s, s.IsValid()
}
