package repositories

import (
	"errors"
	"sync"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/scoring"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantConflict = errors.New("participant with this id already exists")
)

// ParticipantRegistry owns the live participant collection. All writes are
// serialised; readers always get copies, so they never see a rating list
// without its matching average and status.
type ParticipantRegistry interface {
	Create(p *models.Participant, commit func(*models.Participant) error) error
	FindByID(id string) (*models.Participant, error)
	List() []*models.Participant
	Len() int
	Update(id string, mutate func(current *models.Participant) (*models.Participant, error)) (*models.Participant, error)
	Delete(id string, commit func() error) error
	Merge(incoming []*models.Participant, commit func(admitted []*models.Participant) error) ([]*models.Participant, error)
	Reset(participants []*models.Participant)
}

type memoryParticipantRegistry struct {
	mu           sync.RWMutex
	participants []*models.Participant
	index        map[string]int
}

func NewMemoryParticipantRegistry() ParticipantRegistry {
	return &memoryParticipantRegistry{index: make(map[string]int)}
}

func (r *memoryParticipantRegistry) reindex() {
	r.index = make(map[string]int, len(r.participants))
	for i, p := range r.participants {
		r.index[p.ID] = i
	}
}

// Create appends p. commit runs under the write lock before p becomes
// visible; if it fails nothing is added.
func (r *memoryParticipantRegistry) Create(p *models.Participant, commit func(*models.Participant) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[p.ID]; exists {
		return ErrParticipantConflict
	}
	stored := p.Clone()
	if commit != nil {
		if err := commit(stored.Clone()); err != nil {
			return err
		}
	}
	r.participants = append(r.participants, stored)
	r.index[stored.ID] = len(r.participants) - 1
	return nil
}

func (r *memoryParticipantRegistry) FindByID(id string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return r.participants[i].Clone(), nil
}

func (r *memoryParticipantRegistry) List() []*models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Participant, len(r.participants))
	for i, p := range r.participants {
		out[i] = p.Clone()
	}
	return out
}

func (r *memoryParticipantRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// Update hands mutate a private copy of the participant and swaps in whatever
// it returns. An error from mutate leaves the stored record untouched.
func (r *memoryParticipantRegistry) Update(id string, mutate func(current *models.Participant) (*models.Participant, error)) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	next, err := mutate(r.participants[i].Clone())
	if err != nil {
		return nil, err
	}
	if next == nil || next.ID != id {
		return nil, errors.New("registry: update must return the same participant")
	}
	r.participants[i] = next.Clone()
	return next, nil
}

func (r *memoryParticipantRegistry) Delete(id string, commit func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return ErrParticipantNotFound
	}
	if commit != nil {
		if err := commit(); err != nil {
			return err
		}
	}
	r.participants = append(r.participants[:i], r.participants[i+1:]...)
	r.reindex()
	return nil
}

// Merge admits incoming participants whose ids are new, appending them in
// input order. commit sees only the admitted records; if it fails the
// registry is unchanged.
func (r *memoryParticipantRegistry) Merge(incoming []*models.Participant, commit func(admitted []*models.Participant) error) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copies := make([]*models.Participant, 0, len(incoming))
	for _, p := range incoming {
		if p != nil {
			copies = append(copies, p.Clone())
		}
	}

	merged, admitted := scoring.ImportMerge(r.participants, copies)
	newcomers := merged[len(merged)-admitted:]
	if admitted > 0 && commit != nil {
		if err := commit(newcomers); err != nil {
			return nil, err
		}
	}
	r.participants = merged
	r.reindex()

	out := make([]*models.Participant, len(newcomers))
	for i, p := range newcomers {
		out[i] = p.Clone()
	}
	return out, nil
}

// Reset replaces the whole collection, used when restoring from the snapshot
// store at startup.
func (r *memoryParticipantRegistry) Reset(participants []*models.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copies := make([]*models.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil {
			copies = append(copies, p.Clone())
		}
	}
	r.participants, _ = scoring.ImportMerge(nil, copies)
	r.reindex()
}
