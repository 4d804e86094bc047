package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		FullName: "Omar Khaled",
		Age:      12,
		District: "Desouk",
		WhatsApp: "+201000000000",
		Email:    "omar@example.com",
		Type:     models.TypeQuran,
		Agreed:   true,
		Media: &MediaInput{
			FileName:    "recitation.MP3",
			ContentType: "audio/mpeg",
			Data:        []byte("audio-bytes"),
		},
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("admits pending participant with uploaded media", func(t *testing.T) {
		h := newHarness()
		p, err := h.participants.Register(ctx, validRegistration())
		require.NoError(t, err)

		_, err = uuid.Parse(p.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusPending, p.Status)
		assert.Empty(t, p.Ratings)
		assert.Zero(t, p.AverageScore)
		assert.Equal(t, testNow, p.SubmittedAt)
		assert.Equal(t, "https://cdn.test/media/"+p.ID+"/omar-khaled.mp3", p.FileURL)

		assert.Equal(t, 1, h.registry.Len())
		assert.Contains(t, h.snapshots.participants, p.ID)

		require.NoError(t, h.participants.Shutdown(ctx))
		require.Len(t, h.intake.submissions, 1)
		sub := h.intake.submissions[0]
		assert.Equal(t, "omar-khaled.mp3", sub.FileName)
		assert.Equal(t, "audio/mpeg", sub.FileType)
		assert.Equal(t, []byte("audio-bytes"), sub.File)
	})

	t.Run("rejected after the deadline", func(t *testing.T) {
		h := newHarness()
		_, err := h.settings.Update(ctx, UpdateSettingsInput{Deadline: strPtr("2026-05-01T00:00:00Z")})
		require.NoError(t, err)

		_, err = h.participants.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, ErrRegistrationClosed)
		assert.Zero(t, h.registry.Len())
	})

	t.Run("validation errors name the fields", func(t *testing.T) {
		h := newHarness()
		input := validRegistration()
		input.Email = "not-an-email"
		input.Type = "poetry"
		input.Agreed = false

		_, err := h.participants.Register(ctx, input)
		require.ErrorIs(t, err, ErrValidationFailed)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "Email")
		assert.Contains(t, verr.Fields, "Type")
		assert.Contains(t, verr.Fields, "Agreed")
		assert.Zero(t, h.registry.Len())
	})

	t.Run("missing media is a validation error", func(t *testing.T) {
		h := newHarness()
		input := validRegistration()
		input.Media = nil
		_, err := h.participants.Register(ctx, input)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("upload failure still admits", func(t *testing.T) {
		h := newHarness()
		h.uploader.fail = true
		p, err := h.participants.Register(ctx, validRegistration())
		require.NoError(t, err)
		assert.Empty(t, p.FileURL)
		assert.Equal(t, 1, h.registry.Len())
	})

	t.Run("intake failure does not affect admission", func(t *testing.T) {
		h := newHarness()
		h.intake.err = errors.New("intake down")
		_, err := h.participants.Register(ctx, validRegistration())
		require.NoError(t, err)
		require.NoError(t, h.participants.Shutdown(ctx))
		assert.Equal(t, 1, h.registry.Len())
	})

	t.Run("snapshot failure admits nothing", func(t *testing.T) {
		h := newHarness()
		h.snapshots.fail = true
		_, err := h.participants.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, errStoreDown)
		assert.Zero(t, h.registry.Len())
		assert.Empty(t, h.uploader.keys())
	})
}

func TestDeleteParticipant(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.seed(&models.Participant{ID: "a", FullName: "A"}, &models.Participant{ID: "b", FullName: "B"})

	assert.ErrorIs(t, h.participants.Delete(ctx, "zzz"), ErrParticipantNotFound)

	require.NoError(t, h.participants.Delete(ctx, "a"))
	assert.Equal(t, 1, h.registry.Len())
	assert.ErrorIs(t, h.participants.Delete(ctx, "a"), ErrParticipantNotFound)
	assert.Equal(t, 1, h.publisher.count())
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.seed(&models.Participant{ID: "a", FullName: "A", Ratings: []models.Rating{{JudgeID: "j", Score: 6}}, AverageScore: 6, Status: models.StatusQualified})

	_, err := h.participants.SetStatus(ctx, "a", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = h.participants.SetStatus(ctx, "missing", models.StatusAccepted)
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	p, err := h.participants.SetStatus(ctx, "a", models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, p.Status)
	assert.Len(t, p.Ratings, 1)
	assert.Equal(t, 6.0, p.AverageScore)

	h.snapshots.fail = true
	_, err = h.participants.SetStatus(ctx, "a", models.StatusAccepted)
	assert.Error(t, err)
	stored, _ := h.registry.FindByID("a")
	assert.Equal(t, models.StatusRejected, stored.Status)
}

func TestListSearch(t *testing.T) {
	h := newHarness()
	h.seed(
		&models.Participant{ID: "1", FullName: "Omar Khaled"},
		&models.Participant{ID: "2", FullName: "Mona Adel"},
		&models.Participant{ID: "3", FullName: "محمد عمر"},
	)

	assert.Len(t, h.participants.List(""), 3)
	assert.Equal(t, []string{"1"}, participantIDs(h.participants.List("OMAR")))
	assert.Equal(t, []string{"1", "2"}, participantIDs(h.participants.List("a")))
	assert.Equal(t, []string{"3"}, participantIDs(h.participants.List("عمر")))
	assert.Empty(t, h.participants.List("zzz"))
}

func TestJudgingQueue(t *testing.T) {
	h := newHarness()
	h.seed(
		&models.Participant{ID: "1", Status: models.StatusPending},
		&models.Participant{ID: "2", Status: models.StatusRejected},
		&models.Participant{ID: "3", Status: models.StatusQualified, Ratings: []models.Rating{{JudgeID: "j1", Score: 9}}, AverageScore: 9},
	)

	queue := h.participants.JudgingQueue("j1")
	require.Len(t, queue, 2)
	assert.Equal(t, "1", queue[0].Participant.ID)
	assert.False(t, queue[0].Rated)
	assert.Nil(t, queue[0].MyScore)
	assert.Equal(t, "3", queue[1].Participant.ID)
	assert.True(t, queue[1].Rated)
	require.NotNil(t, queue[1].MyScore)
	assert.Equal(t, 9, *queue[1].MyScore)

	other := h.participants.JudgingQueue("j2")
	assert.False(t, other[1].Rated)
}

func TestImportIsMembershipIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.seed(&models.Participant{ID: "a", FullName: "Existing"})

	feed := []*models.Participant{
		{ID: "a", FullName: "Overwrite attempt"},
		{ID: "b", FullName: "New", Status: "مقبول", Type: "تلاوة القرآن الكريم"},
		{ID: "b", FullName: "Dup in feed"},
		nil,
		{ID: " ", FullName: "Blank id"},
	}

	summary, err := h.participants.Import(ctx, feed, SourceImport)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Received)
	assert.Equal(t, 1, summary.Admitted)
	assert.Equal(t, 4, summary.Skipped)

	list := h.registry.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Existing", list[0].FullName)
	assert.Equal(t, "New", list[1].FullName)
	assert.Equal(t, models.StatusAccepted, list[1].Status)
	assert.Equal(t, models.TypeQuran, list[1].Type)
	assert.Equal(t, testNow, list[1].SubmittedAt)

	again, err := h.participants.Import(ctx, feed, SourceImport)
	require.NoError(t, err)
	assert.Zero(t, again.Admitted)
	assert.Equal(t, 2, h.registry.Len())
}

func TestImportRecomputesAverageFromRatings(t *testing.T) {
	h := newHarness()
	feed := []*models.Participant{
		{ID: "seeded", AverageScore: 7.5},
		{ID: "rated", AverageScore: 1, Ratings: []models.Rating{
			{JudgeID: "j1", Score: 8},
			{JudgeID: "j2", Score: 6},
			{JudgeID: "j1", Score: 10},
			{JudgeID: "", Score: 5},
			{JudgeID: "j3", Score: 11},
		}},
	}
	_, err := h.participants.Import(context.Background(), feed, SourceRemoteFeed)
	require.NoError(t, err)

	seeded, _ := h.registry.FindByID("seeded")
	assert.Equal(t, 7.5, seeded.AverageScore)
	assert.Empty(t, seeded.Ratings)

	rated, _ := h.registry.FindByID("rated")
	require.Len(t, rated.Ratings, 2)
	assert.Equal(t, 8.0, rated.AverageScore)
}

func TestImportSanitisesRecords(t *testing.T) {
	h := newHarness()
	incoming := []*models.Participant{
		{ID: "nan", Type: models.TypeQuran, AverageScore: math.NaN()},
		{ID: "inf", Type: models.TypeQuran, AverageScore: math.Inf(1)},
		{ID: "neg", Type: models.TypeQuran, AverageScore: math.Inf(-1)},
		{ID: "poetry", Type: "poetry"},
		{ID: "pending-rated", Status: models.StatusPending, Ratings: []models.Rating{{JudgeID: "j1", Score: 7}}},
		{ID: "rejected-rated", Status: models.StatusRejected, Ratings: []models.Rating{{JudgeID: "j1", Score: 4}}},
	}
	summary, err := h.participants.Import(context.Background(), incoming, SourceImport)
	require.NoError(t, err)
	assert.Equal(t, len(incoming), summary.Admitted)

	for _, id := range []string{"nan", "inf", "neg"} {
		p, err := h.registry.FindByID(id)
		require.NoError(t, err)
		assert.Zero(t, p.AverageScore, id)
	}

	poetry, _ := h.registry.FindByID("poetry")
	assert.Empty(t, poetry.Type)

	pending, _ := h.registry.FindByID("pending-rated")
	assert.Equal(t, models.StatusQualified, pending.Status)
	assert.Equal(t, 7.0, pending.AverageScore)

	rejected, _ := h.registry.FindByID("rejected-rated")
	assert.Equal(t, models.StatusRejected, rejected.Status)

	_, err = json.Marshal(h.participants.List(""))
	assert.NoError(t, err)
}

func TestImportSnapshotFailureAdmitsNothing(t *testing.T) {
	h := newHarness()
	h.snapshots.fail = true
	_, err := h.participants.Import(context.Background(), []*models.Participant{{ID: "x"}}, SourceImport)
	assert.Error(t, err)
	assert.Zero(t, h.registry.Len())
}

func TestShutdownHonoursContext(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, h.participants.Shutdown(ctx))
}

func participantIDs(ps []*models.Participant) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = strings.TrimSpace(p.ID)
	}
	return ids
}
