package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParticipationType(t *testing.T) {
	tests := []struct {
		raw  string
		want ParticipationType
		ok   bool
	}{
		{"quran", TypeQuran, true},
		{" Inshad ", TypeInshad, true},
		{"تلاوة القرآن الكريم", TypeQuran, true},
		{"الإنشاد الديني", TypeInshad, true},
		{"poetry", ParticipationType("poetry"), false},
	}
	for _, tt := range tests {
		got, ok := ParseParticipationType(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.raw)
		}
	}
}

func TestParseParticipantStatus(t *testing.T) {
	s, ok := ParseParticipantStatus("متأهل")
	assert.True(t, ok)
	assert.Equal(t, StatusQualified, s)

	s, ok = ParseParticipantStatus("REJECTED")
	assert.True(t, ok)
	assert.Equal(t, StatusRejected, s)

	_, ok = ParseParticipantStatus("archived")
	assert.False(t, ok)
}

func TestCloneDoesNotShareRatings(t *testing.T) {
	p := &Participant{ID: "a", Ratings: []Rating{{JudgeID: "j1", Score: 5}}}
	c := p.Clone()
	c.Ratings[0].Score = 9
	c.Ratings = append(c.Ratings, Rating{JudgeID: "j2", Score: 1})

	assert.Equal(t, 5, p.Ratings[0].Score)
	assert.Len(t, p.Ratings, 1)

	var nilP *Participant
	assert.Nil(t, nilP.Clone())
}

func TestNormalizeWinners(t *testing.T) {
	w := NormalizeWinners([]string{"A", "B"})
	assert.Equal(t, "A", w[0])
	assert.Equal(t, "", w[9])

	long := make([]string, 12)
	long[11] = "dropped"
	w = NormalizeWinners(long)
	assert.Len(t, w, WinnerSlots)
	for _, name := range w {
		assert.NotEqual(t, "dropped", name)
	}
}
