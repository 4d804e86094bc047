package services

import (
	"github.com/Dosada05/aswat-contest/live"
	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/repositories"
	"github.com/Dosada05/aswat-contest/scoring"
)

// ResultsPublisher is satisfied by *live.Hub.
type ResultsPublisher interface {
	BroadcastToRoom(room string, msgType string, payload interface{})
}

type ResultsService interface {
	View() models.ResultsView
	Publish()
}

type resultsService struct {
	registry  repositories.ParticipantRegistry
	settings  SettingsService
	publisher ResultsPublisher
}

func NewResultsService(registry repositories.ParticipantRegistry, settings SettingsService, publisher ResultsPublisher) ResultsService {
	return &resultsService{
		registry:  registry,
		settings:  settings,
		publisher: publisher,
	}
}

func (s *resultsService) View() models.ResultsView {
	current := s.settings.Current()
	return scoring.SelectView(current.ShowCurrentResults, s.registry.List(), current.LastYearWinners)
}

// Publish pushes the current view to every connected results client.
func (s *resultsService) Publish() {
	if s.publisher == nil {
		return
	}
	s.publisher.BroadcastToRoom(live.RoomResults, live.MessageResultsUpdated, s.View())
}
