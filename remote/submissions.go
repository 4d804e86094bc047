package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/aswat-contest/models"
)

type submissionRecord struct {
	ID       json.RawMessage `json:"id"`
	FullName string          `json:"fullName"`
	Age      json.RawMessage `json:"age"`
	District string          `json:"district"`
	WhatsApp json.RawMessage `json:"whatsapp"`
	Email    string          `json:"email"`
	Type     string          `json:"type"`
	VideoURL string          `json:"videoUrl"`
	Score    json.RawMessage `json:"score"`
}

// FeedResult carries the participants mapped from the feed and how many
// records were dropped for lacking an id.
type FeedResult struct {
	Participants []*models.Participant
	Skipped      int
}

func (c *Client) FetchSubmissions(ctx context.Context, now time.Time) (FeedResult, error) {
	body, err := c.get(ctx, c.submissionsURL)
	if err != nil {
		return FeedResult{}, err
	}
	return ParseSubmissions(body, now)
}

// ParseSubmissions maps the feed array to Pending participants with empty
// ratings. A record's score, when present, seeds AverageScore. Records
// without an id or with an unknown type are skipped.
func ParseSubmissions(body []byte, now time.Time) (FeedResult, error) {
	var records []submissionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return FeedResult{}, fmt.Errorf("%w: decode submissions: %v", ErrUnavailable, err)
	}

	result := FeedResult{Participants: make([]*models.Participant, 0, len(records))}
	for _, rec := range records {
		id, _ := stringValue(rec.ID)
		id = strings.TrimSpace(id)
		if id == "" {
			result.Skipped++
			continue
		}
		pType, ok := models.ParseParticipationType(rec.Type)
		if !ok {
			result.Skipped++
			continue
		}
		whatsapp, _ := stringValue(rec.WhatsApp)

		result.Participants = append(result.Participants, &models.Participant{
			ID:           id,
			FullName:     strings.TrimSpace(rec.FullName),
			Age:          int(numberValue(rec.Age)),
			District:     strings.TrimSpace(rec.District),
			WhatsApp:     whatsapp,
			Email:        strings.TrimSpace(rec.Email),
			Type:         pType,
			FileURL:      rec.VideoURL,
			Status:       models.StatusPending,
			Ratings:      []models.Rating{},
			AverageScore: numberValue(rec.Score),
			SubmittedAt:  now,
		})
	}
	return result, nil
}

// numberValue accepts a JSON number or a finite numeric string; anything
// else is 0.
func numberValue(v json.RawMessage) float64 {
	if len(v) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}
