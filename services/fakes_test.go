package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/remote"
	"github.com/Dosada05/aswat-contest/repositories"
	"github.com/Dosada05/aswat-contest/storage"
)

var errStoreDown = errors.New("store down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSnapshots struct {
	mu           sync.Mutex
	participants map[string]*models.Participant
	settings     *models.CycleSettings
	fail         bool
	saves        int
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{participants: make(map[string]*models.Participant)}
}

func (f *fakeSnapshots) SaveParticipant(ctx context.Context, exec repositories.SQLExecutor, p *models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	f.saves++
	f.participants[p.ID] = p.Clone()
	return nil
}

func (f *fakeSnapshots) SaveParticipants(ctx context.Context, ps []*models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for _, p := range ps {
		f.saves++
		f.participants[p.ID] = p.Clone()
	}
	return nil
}

func (f *fakeSnapshots) DeleteParticipant(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	delete(f.participants, id)
	return nil
}

func (f *fakeSnapshots) LoadParticipants(ctx context.Context) ([]*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Participant, 0, len(f.participants))
	for _, p := range f.participants {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (f *fakeSnapshots) SaveSettings(ctx context.Context, s models.CycleSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	f.settings = &s
	return nil
}

func (f *fakeSnapshots) LoadSettings(ctx context.Context) (*models.CycleSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settings == nil {
		return nil, repositories.ErrSettingsNotFound
	}
	s := *f.settings
	return &s, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.fail {
		return nil, errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.objects[key] = data
	u.mu.Unlock()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (u *fakeUploader) keys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	keys := make([]string, 0, len(u.objects))
	for k := range u.objects {
		keys = append(keys, k)
	}
	return keys
}

type publishedMessage struct {
	room    string
	msgType string
	payload interface{}
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

func (p *fakePublisher) BroadcastToRoom(room string, msgType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{room: room, msgType: msgType, payload: payload})
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func (p *fakePublisher) last() publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[len(p.messages)-1]
}

type fakeSettingsSource struct {
	patch remote.SettingsPatch
	err   error
	calls int
}

func (f *fakeSettingsSource) SettingsConfigured() bool { return true }

func (f *fakeSettingsSource) FetchSettings(ctx context.Context) (remote.SettingsPatch, error) {
	f.calls++
	return f.patch, f.err
}

type fakeSubmissions struct {
	result remote.FeedResult
	err    error
}

func (f *fakeSubmissions) SubmissionsConfigured() bool { return true }

func (f *fakeSubmissions) FetchSubmissions(ctx context.Context, now time.Time) (remote.FeedResult, error) {
	if f.err != nil {
		return remote.FeedResult{}, f.err
	}
	out := remote.FeedResult{Skipped: f.result.Skipped}
	for _, p := range f.result.Participants {
		out.Participants = append(out.Participants, p.Clone())
	}
	return out, nil
}

type fakeIntake struct {
	mu          sync.Mutex
	submissions []remote.IntakeSubmission
	err         error
}

func (f *fakeIntake) IntakeConfigured() bool { return true }

func (f *fakeIntake) SubmitRegistration(ctx context.Context, s remote.IntakeSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, s)
	return f.err
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

var (
	testNow      = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	testDeadline = time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
)

func defaultSettings() models.CycleSettings {
	return models.CycleSettings{Deadline: testDeadline}
}

// harness wires the services the way cmd/main.go does, on fakes.
type harness struct {
	registry     repositories.ParticipantRegistry
	snapshots    *fakeSnapshots
	uploader     *fakeUploader
	publisher    *fakePublisher
	intake       *fakeIntake
	settings     SettingsService
	results      ResultsService
	participants ParticipantService
	ratings      RatingService
	backup       BackupService
}

func newHarness() *harness {
	h := &harness{
		registry:  repositories.NewMemoryParticipantRegistry(),
		snapshots: newFakeSnapshots(),
		uploader:  newFakeUploader(),
		publisher: &fakePublisher{},
		intake:    &fakeIntake{},
	}
	logger := discardLogger()
	h.settings = NewSettingsService(defaultSettings(), h.snapshots, nil, time.UTC, logger)
	h.results = NewResultsService(h.registry, h.settings, h.publisher)
	h.participants = NewParticipantService(ParticipantServiceDeps{
		Registry:  h.registry,
		Snapshots: h.snapshots,
		Settings:  h.settings,
		Results:   h.results,
		Uploader:  h.uploader,
		Intake:    h.intake,
		Logger:    logger,
		Now:       func() time.Time { return testNow },
	})
	h.ratings = NewRatingService(h.registry, h.snapshots, h.results, nil, logger)
	h.backup = NewBackupService(h.registry, h.settings, h.participants, h.uploader, logger)
	return h
}

func (h *harness) seed(ps ...*models.Participant) {
	for _, p := range ps {
		if p.Ratings == nil {
			p.Ratings = []models.Rating{}
		}
		if p.Status == "" {
			p.Status = models.StatusPending
		}
		if err := h.registry.Create(p, nil); err != nil {
			panic(err)
		}
	}
}
