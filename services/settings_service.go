package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/remote"
	"github.com/Dosada05/aswat-contest/repositories"
)

type SettingsSource interface {
	SettingsConfigured() bool
	FetchSettings(ctx context.Context) (remote.SettingsPatch, error)
}

type SettingsStore interface {
	SaveSettings(ctx context.Context, s models.CycleSettings) error
	LoadSettings(ctx context.Context) (*models.CycleSettings, error)
}

type SettingsService interface {
	Current() models.CycleSettings
	RegistrationOpen(now time.Time) bool
	RemoteConfigured() bool
	Load(ctx context.Context) error
	Refresh(ctx context.Context) (models.CycleSettings, error)
	ApplyRemote(ctx context.Context, patch remote.SettingsPatch) (models.CycleSettings, error)
	Update(ctx context.Context, input UpdateSettingsInput) (models.CycleSettings, error)
	OnChange(fn func(models.CycleSettings))
}

type UpdateSettingsInput struct {
	Deadline           *string  `json:"deadline"`
	ShowCurrentResults *bool    `json:"show_current_results"`
	LastYearWinners    []string `json:"last_year_winners" validate:"omitempty,max=10,dive,max=200"`
}

type settingsService struct {
	mu        sync.RWMutex
	current   models.CycleSettings
	store     SettingsStore
	source    SettingsSource
	location  *time.Location
	listeners []func(models.CycleSettings)
	logger    *slog.Logger
}

// NewSettingsService starts from defaults; call Load to pull persisted and
// remote values.
func NewSettingsService(defaults models.CycleSettings, store SettingsStore, source SettingsSource, loc *time.Location, logger *slog.Logger) SettingsService {
	if loc == nil {
		loc = time.UTC
	}
	return &settingsService{
		current:  defaults,
		store:    store,
		source:   source,
		location: loc,
		logger:   loggerOrDefault(logger),
	}
}

func (s *settingsService) Current() models.CycleSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *settingsService) RegistrationOpen(now time.Time) bool {
	return !now.After(s.Current().Deadline)
}

func (s *settingsService) RemoteConfigured() bool {
	return s.source != nil && s.source.SettingsConfigured()
}

func (s *settingsService) OnChange(fn func(models.CycleSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load applies the persisted settings over the defaults, then the remote
// source over that. Neither failing is fatal.
func (s *settingsService) Load(ctx context.Context) error {
	if s.store != nil {
		persisted, err := s.store.LoadSettings(ctx)
		switch {
		case err == nil:
			s.mu.Lock()
			s.current = *persisted
			s.mu.Unlock()
		case errors.Is(err, repositories.ErrSettingsNotFound):
			s.logger.InfoContext(ctx, "no persisted cycle settings, using defaults")
		default:
			return fmt.Errorf("failed to load persisted settings: %w", err)
		}
	}

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "remote settings unavailable, keeping current values", slog.Any("error", err))
	}
	return nil
}

// Refresh fetches the remote settings and applies them.
func (s *settingsService) Refresh(ctx context.Context) (models.CycleSettings, error) {
	if !s.RemoteConfigured() {
		return s.Current(), nil
	}
	patch, err := s.source.FetchSettings(ctx)
	if err != nil {
		return s.Current(), externalError(err)
	}
	return s.ApplyRemote(ctx, patch)
}

// ApplyRemote merges patch into the current settings. A malformed deadline
// keeps the previous one; the other fields still apply and the returned
// error wraps ErrInvalidDeadline.
func (s *settingsService) ApplyRemote(ctx context.Context, patch remote.SettingsPatch) (models.CycleSettings, error) {
	if patch.Empty() {
		return s.Current(), nil
	}

	s.mu.Lock()
	next := s.current
	var deadlineErr error
	if patch.Deadline != nil {
		if d, err := parseDeadline(*patch.Deadline, s.location); err == nil {
			next.Deadline = d
		} else {
			deadlineErr = err
		}
	}
	if patch.ShowCurrentResults != nil {
		next.ShowCurrentResults = *patch.ShowCurrentResults
	}
	for i, w := range patch.Winners {
		if w != nil {
			next.LastYearWinners[i] = strings.TrimSpace(*w)
		}
	}
	changed := next != s.current
	if changed {
		s.current = next
	}
	listeners := s.listeners
	s.mu.Unlock()

	if deadlineErr != nil {
		s.logger.WarnContext(ctx, "remote settings carried a malformed deadline", slog.Any("error", deadlineErr))
	}
	if changed {
		if s.store != nil {
			if err := s.store.SaveSettings(ctx, next); err != nil {
				s.logger.ErrorContext(ctx, "failed to persist remote settings", slog.Any("error", err))
			}
		}
		notify(listeners, next)
	}
	return next, deadlineErr
}

// Update is the admin path. Nothing changes unless the whole input is valid
// and persisted.
func (s *settingsService) Update(ctx context.Context, input UpdateSettingsInput) (models.CycleSettings, error) {
	if err := validateStruct(input); err != nil {
		return s.Current(), err
	}

	var deadline time.Time
	if input.Deadline != nil {
		d, err := parseDeadline(*input.Deadline, s.location)
		if err != nil {
			return s.Current(), err
		}
		deadline = d
	}

	s.mu.Lock()
	next := s.current
	if input.Deadline != nil {
		next.Deadline = deadline
	}
	if input.ShowCurrentResults != nil {
		next.ShowCurrentResults = *input.ShowCurrentResults
	}
	if input.LastYearWinners != nil {
		trimmed := make([]string, len(input.LastYearWinners))
		for i, w := range input.LastYearWinners {
			trimmed[i] = strings.TrimSpace(w)
		}
		next.LastYearWinners = models.NormalizeWinners(trimmed)
	}

	if s.store != nil {
		if err := s.store.SaveSettings(ctx, next); err != nil {
			s.mu.Unlock()
			return s.Current(), fmt.Errorf("failed to persist settings: %w", err)
		}
	}
	s.current = next
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, next)
	return next, nil
}

func notify(listeners []func(models.CycleSettings), settings models.CycleSettings) {
	for _, fn := range listeners {
		fn(settings)
	}
}
