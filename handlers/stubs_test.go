package handlers

import (
	"context"
	"time"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/remote"
	"github.com/Dosada05/aswat-contest/services"
)

type stubSettings struct {
	current  models.CycleSettings
	open     bool
	updateFn func(services.UpdateSettingsInput) (models.CycleSettings, error)
}

func (s *stubSettings) Current() models.CycleSettings       { return s.current }
func (s *stubSettings) RegistrationOpen(now time.Time) bool { return s.open }
func (s *stubSettings) RemoteConfigured() bool              { return false }
func (s *stubSettings) Load(ctx context.Context) error      { return nil }
func (s *stubSettings) Refresh(ctx context.Context) (models.CycleSettings, error) {
	return s.current, nil
}
func (s *stubSettings) ApplyRemote(ctx context.Context, patch remote.SettingsPatch) (models.CycleSettings, error) {
	return s.current, nil
}
func (s *stubSettings) Update(ctx context.Context, input services.UpdateSettingsInput) (models.CycleSettings, error) {
	return s.updateFn(input)
}
func (s *stubSettings) OnChange(fn func(models.CycleSettings)) {}

type stubParticipants struct {
	registerFn  func(services.RegisterInput) (*models.Participant, error)
	setStatusFn func(id string, status models.ParticipantStatus) (*models.Participant, error)
	deleteErr   error
	listed      []*models.Participant
	lastSearch  string
	queue       []models.JudgingQueueItem
	queueFor    string
}

func (s *stubParticipants) Register(ctx context.Context, input services.RegisterInput) (*models.Participant, error) {
	return s.registerFn(input)
}
func (s *stubParticipants) Delete(ctx context.Context, id string) error { return s.deleteErr }
func (s *stubParticipants) SetStatus(ctx context.Context, id string, status models.ParticipantStatus) (*models.Participant, error) {
	return s.setStatusFn(id, status)
}
func (s *stubParticipants) List(search string) []*models.Participant {
	s.lastSearch = search
	return s.listed
}
func (s *stubParticipants) JudgingQueue(judgeID string) []models.JudgingQueueItem {
	s.queueFor = judgeID
	return s.queue
}
func (s *stubParticipants) Import(ctx context.Context, incoming []*models.Participant, source string) (models.ImportSummary, error) {
	return models.ImportSummary{}, nil
}
func (s *stubParticipants) Shutdown(ctx context.Context) error { return nil }

type stubRating struct {
	submitFn func(id string, judge models.User, score int) (*models.Participant, error)
}

func (s *stubRating) SubmitRating(ctx context.Context, id string, judge models.User, score int) (*models.Participant, error) {
	return s.submitFn(id, judge, score)
}

type stubBackup struct {
	doc          *models.BackupDocument
	lastRaw      []byte
	importErr    error
	participants bool
}

func (s *stubBackup) Export(ctx context.Context) (*models.BackupDocument, error) { return s.doc, nil }
func (s *stubBackup) Import(ctx context.Context, raw []byte) (models.ImportSummary, error) {
	s.lastRaw = raw
	return models.ImportSummary{Received: 1, Admitted: 1}, s.importErr
}
func (s *stubBackup) ImportParticipants(ctx context.Context, raw []byte) (models.ImportSummary, error) {
	s.lastRaw = raw
	s.participants = true
	return models.ImportSummary{Received: 2, Admitted: 1, Skipped: 1}, s.importErr
}

type stubAuth struct {
	user *models.User
	err  error
}

func (s *stubAuth) Login(ctx context.Context, input services.LoginInput) (*models.User, error) {
	return s.user, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }
