package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/repositories"
	"github.com/Dosada05/aswat-contest/storage"
)

type BackupService interface {
	Export(ctx context.Context) (*models.BackupDocument, error)
	Import(ctx context.Context, raw []byte) (models.ImportSummary, error)
	ImportParticipants(ctx context.Context, raw []byte) (models.ImportSummary, error)
}

type backupService struct {
	registry     repositories.ParticipantRegistry
	settings     SettingsService
	participants ParticipantService
	uploader     storage.FileUploader
	logger       *slog.Logger
	now          func() time.Time
}

func NewBackupService(registry repositories.ParticipantRegistry, settings SettingsService, participants ParticipantService, uploader storage.FileUploader, logger *slog.Logger) BackupService {
	return &backupService{
		registry:     registry,
		settings:     settings,
		participants: participants,
		uploader:     uploader,
		logger:       loggerOrDefault(logger),
		now:          time.Now,
	}
}

// Export builds the backup document. When object storage is configured a
// copy is archived under backups/; archiving failures are only logged.
func (s *backupService) Export(ctx context.Context) (*models.BackupDocument, error) {
	current := s.settings.Current()
	doc := &models.BackupDocument{
		Participants:       s.registry.List(),
		ShowCurrentResults: current.ShowCurrentResults,
		LastYearWinners:    append([]string(nil), current.LastYearWinners[:]...),
		Deadline:           current.Deadline,
		ExportDate:         s.now().UTC(),
	}

	if s.uploader != nil {
		s.archive(ctx, doc)
	}
	return doc, nil
}

func (s *backupService) archive(ctx context.Context, doc *models.BackupDocument) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode backup for archiving", slog.Any("error", err))
		return
	}
	key := storage.BackupKey(doc.ExportDate)
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		s.logger.WarnContext(ctx, "backup archive upload failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "backup archived", slog.String("key", key), slog.Int("participants", len(doc.Participants)))
}

// Import accepts either a bare participant array or a full backup document.
// The participants value must be an array before anything is admitted.
// Settings embedded in a document are applied after the participants.
func (s *backupService) Import(ctx context.Context, raw []byte) (models.ImportSummary, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.ImportSummary{}, fmt.Errorf("%w: empty body", ErrInvalidImportPayload)
	}

	var envelope models.BackupImport
	switch raw[0] {
	case '[':
		envelope.Participants = raw
	case '{':
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return models.ImportSummary{}, fmt.Errorf("%w: %v", ErrInvalidImportPayload, err)
		}
	default:
		return models.ImportSummary{}, fmt.Errorf("%w: expected an array or an object", ErrInvalidImportPayload)
	}

	incoming, err := decodeParticipantArray(envelope.Participants)
	if err != nil {
		return models.ImportSummary{}, err
	}

	summary, err := s.participants.Import(ctx, incoming, SourceBackup)
	if err != nil {
		return models.ImportSummary{}, err
	}

	if envelope.LastYearWinners != nil || envelope.ShowCurrentResults != nil {
		update := UpdateSettingsInput{ShowCurrentResults: envelope.ShowCurrentResults}
		if envelope.LastYearWinners != nil {
			winners := models.NormalizeWinners(envelope.LastYearWinners)
			update.LastYearWinners = winners[:]
		}
		if _, err := s.settings.Update(ctx, update); err != nil {
			return summary, fmt.Errorf("participants imported but settings were not applied: %w", err)
		}
	}
	return summary, nil
}

// ImportParticipants is the admin bulk import: a bare participant array,
// merged by id. Settings are never touched.
func (s *backupService) ImportParticipants(ctx context.Context, raw []byte) (models.ImportSummary, error) {
	incoming, err := decodeParticipantArray(raw)
	if err != nil {
		return models.ImportSummary{}, err
	}
	return s.participants.Import(ctx, incoming, SourceImport)
}

type importedRating struct {
	JudgeID      string `json:"judge_id"`
	JudgeIDAlt   string `json:"judgeId"`
	JudgeName    string `json:"judge_name"`
	JudgeNameAlt string `json:"judgeName"`
	Score        int    `json:"score"`
}

// importedParticipant reads both the service's own snake_case export and the
// camelCase shape written by the original site.
type importedParticipant struct {
	models.Participant
	Ratings         []importedRating `json:"ratings"`
	FullNameAlt     string           `json:"fullName"`
	Country         string           `json:"country"`
	FileURLAlt      string           `json:"fileUrl"`
	AverageScoreAlt *float64         `json:"averageScore"`
	SubmittedAtAlt  *time.Time       `json:"submittedAt"`
}

func (ip importedParticipant) toModel() *models.Participant {
	p := ip.Participant
	if p.FullName == "" {
		p.FullName = ip.FullNameAlt
	}
	if p.District == "" {
		p.District = ip.Country
	}
	if p.FileURL == "" {
		p.FileURL = ip.FileURLAlt
	}
	if p.AverageScore == 0 && ip.AverageScoreAlt != nil {
		p.AverageScore = *ip.AverageScoreAlt
	}
	if p.SubmittedAt.IsZero() && ip.SubmittedAtAlt != nil {
		p.SubmittedAt = *ip.SubmittedAtAlt
	}
	p.Ratings = make([]models.Rating, 0, len(ip.Ratings))
	for _, r := range ip.Ratings {
		rating := models.Rating{JudgeID: r.JudgeID, JudgeName: r.JudgeName, Score: r.Score}
		if rating.JudgeID == "" {
			rating.JudgeID = r.JudgeIDAlt
		}
		if rating.JudgeName == "" {
			rating.JudgeName = r.JudgeNameAlt
		}
		p.Ratings = append(p.Ratings, rating)
	}
	return &p
}

func decodeParticipantArray(raw json.RawMessage) ([]*models.Participant, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: participants must be an array", ErrInvalidImportPayload)
	}
	var records []*importedParticipant
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImportPayload, err)
	}
	out := make([]*models.Participant, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = append(out, rec.toModel())
	}
	return out, nil
}
