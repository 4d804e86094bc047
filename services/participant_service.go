package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/aswat-contest/metrics"
	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/remote"
	"github.com/Dosada05/aswat-contest/repositories"
	"github.com/Dosada05/aswat-contest/storage"
	"github.com/google/uuid"
)

const (
	SourceRegistration = "registration"
	SourceRemoteFeed   = "remote"
	SourceImport       = "import"
	SourceBackup       = "backup"
)

type RegistrationIntake interface {
	IntakeConfigured() bool
	SubmitRegistration(ctx context.Context, s remote.IntakeSubmission) error
}

type ParticipantService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Participant, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.ParticipantStatus) (*models.Participant, error)
	List(search string) []*models.Participant
	JudgingQueue(judgeID string) []models.JudgingQueueItem
	Import(ctx context.Context, incoming []*models.Participant, source string) (models.ImportSummary, error)
	Shutdown(ctx context.Context) error
}

type RegisterInput struct {
	FullName string                   `json:"full_name" validate:"required,max=200"`
	Age      int                      `json:"age" validate:"required,min=3,max=120"`
	District string                   `json:"district" validate:"required,max=200"`
	WhatsApp string                   `json:"whatsapp" validate:"required,max=32"`
	Email    string                   `json:"email" validate:"required,email"`
	Type     models.ParticipationType `json:"type" validate:"required,oneof=quran inshad"`
	Agreed   bool                     `json:"agreed" validate:"eq=true"`
	Media    *MediaInput              `json:"-" validate:"required"`
}

type MediaInput struct {
	FileName    string `validate:"required"`
	ContentType string
	Data        []byte `validate:"min=1"`
}

type participantService struct {
	registry      repositories.ParticipantRegistry
	snapshots     repositories.SnapshotRepository
	settings      SettingsService
	results       ResultsService
	uploader      storage.FileUploader
	intake        RegistrationIntake
	intakeTimeout time.Duration
	metrics       *metrics.Collector
	logger        *slog.Logger
	now           func() time.Time
	background    sync.WaitGroup
}

type ParticipantServiceDeps struct {
	Registry      repositories.ParticipantRegistry
	Snapshots     repositories.SnapshotRepository
	Settings      SettingsService
	Results       ResultsService
	Uploader      storage.FileUploader
	Intake        RegistrationIntake
	IntakeTimeout time.Duration
	Metrics       *metrics.Collector
	Logger        *slog.Logger
	Now           func() time.Time
}

func NewParticipantService(deps ParticipantServiceDeps) ParticipantService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	timeout := deps.IntakeTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &participantService{
		registry:      deps.Registry,
		snapshots:     deps.Snapshots,
		settings:      deps.Settings,
		results:       deps.Results,
		uploader:      deps.Uploader,
		intake:        deps.Intake,
		intakeTimeout: timeout,
		metrics:       deps.Metrics,
		logger:        loggerOrDefault(deps.Logger),
		now:           now,
	}
}

func (s *participantService) Register(ctx context.Context, input RegisterInput) (*models.Participant, error) {
	now := s.now()
	if !s.settings.RegistrationOpen(now) {
		return nil, ErrRegistrationClosed
	}

	input.FullName = strings.TrimSpace(input.FullName)
	input.District = strings.TrimSpace(input.District)
	input.WhatsApp = strings.TrimSpace(input.WhatsApp)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	p := &models.Participant{
		ID:          uuid.NewString(),
		FullName:    input.FullName,
		Age:         input.Age,
		District:    input.District,
		WhatsApp:    input.WhatsApp,
		Email:       input.Email,
		Type:        input.Type,
		Status:      models.StatusPending,
		Ratings:     []models.Rating{},
		SubmittedAt: now,
	}
	mediaKey, mediaURL := s.storeMedia(ctx, p, input.Media)
	p.FileURL = mediaURL

	err := s.registry.Create(p, func(stored *models.Participant) error {
		return s.snapshots.SaveParticipant(ctx, nil, stored)
	})
	if err != nil {
		if mediaKey != "" {
			if delErr := s.uploader.Delete(ctx, mediaKey); delErr != nil {
				s.logger.WarnContext(ctx, "failed to remove orphaned media", slog.String("key", mediaKey), slog.Any("error", delErr))
			}
		}
		return nil, handleRepositoryError(err)
	}

	s.metrics.ParticipantsAdmitted(SourceRegistration, 1)
	s.metrics.SetParticipants(s.registry.Len())
	s.forwardToIntake(p, input.Media)

	s.logger.InfoContext(ctx, "participant registered", slog.String("participant_id", p.ID), slog.String("type", string(p.Type)))
	return p.Clone(), nil
}

// storeMedia uploads the recording and returns its key and public URL.
// Upload failures are logged and the participant is admitted without a URL.
func (s *participantService) storeMedia(ctx context.Context, p *models.Participant, media *MediaInput) (string, string) {
	if s.uploader == nil || media == nil {
		return "", ""
	}
	key := storage.MediaKey(p.ID, p.FullName, media.FileName)
	contentType := media.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	result, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(media.Data))
	if err != nil {
		s.logger.WarnContext(ctx, "media upload failed", slog.String("participant_id", p.ID), slog.Any("error", err))
		return "", ""
	}
	return key, result.Location
}

// forwardToIntake sends the registration to the remote intake in the
// background. Its outcome never affects local admission.
func (s *participantService) forwardToIntake(p *models.Participant, media *MediaInput) {
	if s.intake == nil || !s.intake.IntakeConfigured() {
		return
	}
	submission := remote.IntakeSubmission{
		FullName: p.FullName,
		Age:      p.Age,
		District: p.District,
		WhatsApp: p.WhatsApp,
		Email:    p.Email,
		Type:     string(p.Type),
	}
	if media != nil {
		submission.File = media.Data
		submission.FileName = storage.MediaFileName(p.FullName, media.FileName)
		submission.FileType = media.ContentType
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.intakeTimeout)
		defer cancel()
		if err := s.intake.SubmitRegistration(ctx, submission); err != nil {
			s.logger.Warn("registration intake failed", slog.String("participant_id", p.ID), slog.Any("error", externalError(err)))
		}
	}()
}

func (s *participantService) Delete(ctx context.Context, id string) error {
	err := s.registry.Delete(id, func() error {
		return s.snapshots.DeleteParticipant(ctx, id)
	})
	if err != nil {
		return handleRepositoryError(err)
	}
	s.metrics.SetParticipants(s.registry.Len())
	s.results.Publish()
	s.logger.InfoContext(ctx, "participant deleted", slog.String("participant_id", id))
	return nil
}

// SetStatus is the admin's manual transition. It does not touch ratings.
func (s *participantService) SetStatus(ctx context.Context, id string, status models.ParticipantStatus) (*models.Participant, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	updated, err := s.registry.Update(id, func(current *models.Participant) (*models.Participant, error) {
		next := current.Clone()
		next.Status = status
		if err := s.snapshots.SaveParticipant(ctx, nil, next); err != nil {
			return nil, err
		}
		return next, nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return updated, nil
}

// List returns participants in registry order, filtered by a
// case-insensitive substring of the full name when search is non-empty.
func (s *participantService) List(search string) []*models.Participant {
	all := s.registry.List()
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return all
	}
	filtered := make([]*models.Participant, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.FullName), term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// JudgingQueue lists every participant that is not rejected, marking which
// ones judgeID has already scored.
func (s *participantService) JudgingQueue(judgeID string) []models.JudgingQueueItem {
	all := s.registry.List()
	queue := make([]models.JudgingQueueItem, 0, len(all))
	for _, p := range all {
		if p.Status == models.StatusRejected {
			continue
		}
		item := models.JudgingQueueItem{Participant: p}
		if r, ok := p.RatingBy(judgeID); ok {
			score := r.Score
			item.Rated = true
			item.MyScore = &score
		}
		queue = append(queue, item)
	}
	return queue
}

// Import merges incoming into the registry by id. Known ids are left
// untouched.
func (s *participantService) Import(ctx context.Context, incoming []*models.Participant, source string) (models.ImportSummary, error) {
	now := s.now()
	prepared := make([]*models.Participant, 0, len(incoming))
	for _, p := range incoming {
		if p == nil {
			continue
		}
		prepared = append(prepared, normalizeImported(p, now))
	}

	admitted, err := s.registry.Merge(prepared, func(admitted []*models.Participant) error {
		if len(admitted) == 0 {
			return nil
		}
		return s.snapshots.SaveParticipants(ctx, admitted)
	})
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("failed to import participants: %w", handleRepositoryError(err))
	}

	summary := models.ImportSummary{
		Received: len(incoming),
		Admitted: len(admitted),
		Skipped:  len(incoming) - len(admitted),
	}
	s.metrics.ParticipantsAdmitted(source, summary.Admitted)
	s.metrics.SetParticipants(s.registry.Len())
	if summary.Admitted > 0 {
		s.results.Publish()
	}
	s.logger.InfoContext(ctx, "participants imported",
		slog.String("source", source),
		slog.Int("received", summary.Received),
		slog.Int("admitted", summary.Admitted),
	)
	return summary, nil
}

// Shutdown waits for background intake submissions.
func (s *participantService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
