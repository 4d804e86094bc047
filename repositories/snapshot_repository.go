package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/lib/pq"
)

var ErrSettingsNotFound = errors.New("cycle settings not persisted yet")

// SnapshotRepository persists the registry and cycle settings so they survive
// restarts. The in-memory registry stays the source of truth while running.
type SnapshotRepository interface {
	SaveParticipant(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	SaveParticipants(ctx context.Context, ps []*models.Participant) error
	DeleteParticipant(ctx context.Context, id string) error
	LoadParticipants(ctx context.Context) ([]*models.Participant, error)
	SaveSettings(ctx context.Context, s models.CycleSettings) error
	LoadSettings(ctx context.Context) (*models.CycleSettings, error)
}

type postgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

func (r *postgresSnapshotRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const upsertParticipantSQL = `
	INSERT INTO participants
		(id, full_name, age, district, whatsapp, email, type, file_url, status, ratings, average_score, submitted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		full_name = EXCLUDED.full_name,
		age = EXCLUDED.age,
		district = EXCLUDED.district,
		whatsapp = EXCLUDED.whatsapp,
		email = EXCLUDED.email,
		type = EXCLUDED.type,
		file_url = EXCLUDED.file_url,
		status = EXCLUDED.status,
		ratings = EXCLUDED.ratings,
		average_score = EXCLUDED.average_score`

func (r *postgresSnapshotRepository) SaveParticipant(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)

	ratings := p.Ratings
	if ratings == nil {
		ratings = []models.Rating{}
	}
	ratingsJSON, err := json.Marshal(ratings)
	if err != nil {
		return fmt.Errorf("failed to encode ratings for participant %s: %w", p.ID, err)
	}

	_, err = executor.ExecContext(ctx, upsertParticipantSQL,
		p.ID, p.FullName, p.Age, p.District, p.WhatsApp, p.Email,
		p.Type, p.FileURL, p.Status, ratingsJSON, p.AverageScore, p.SubmittedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23514" { // check_violation
			return fmt.Errorf("participant %s violates %s: %w", p.ID, pqErr.Constraint, err)
		}
		return fmt.Errorf("failed to save participant %s: %w", p.ID, err)
	}
	return nil
}

func (r *postgresSnapshotRepository) SaveParticipants(ctx context.Context, ps []*models.Participant) (err error) {
	if len(ps) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveParticipants failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, p := range ps {
		if err = r.SaveParticipant(ctx, tx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresSnapshotRepository) DeleteParticipant(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresSnapshotRepository) LoadParticipants(ctx context.Context) ([]*models.Participant, error) {
	query := `
		SELECT id, full_name, age, district, whatsapp, email, type, file_url, status, ratings, average_score, submitted_at
		FROM participants
		ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var ratingsJSON []byte
		if err := rows.Scan(
			&p.ID, &p.FullName, &p.Age, &p.District, &p.WhatsApp, &p.Email,
			&p.Type, &p.FileURL, &p.Status, &ratingsJSON, &p.AverageScore, &p.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		if len(ratingsJSON) > 0 {
			if err := json.Unmarshal(ratingsJSON, &p.Ratings); err != nil {
				return nil, fmt.Errorf("failed to decode ratings for participant %s: %w", p.ID, err)
			}
		}
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresSnapshotRepository) SaveSettings(ctx context.Context, s models.CycleSettings) error {
	query := `
		INSERT INTO cycle_settings (id, deadline, show_current_results, last_year_winners, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			deadline = EXCLUDED.deadline,
			show_current_results = EXCLUDED.show_current_results,
			last_year_winners = EXCLUDED.last_year_winners,
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, s.Deadline, s.ShowCurrentResults, pq.Array(s.LastYearWinners[:]))
	if err != nil {
		return fmt.Errorf("failed to save cycle settings: %w", err)
	}
	return nil
}

func (r *postgresSnapshotRepository) LoadSettings(ctx context.Context) (*models.CycleSettings, error) {
	query := `SELECT deadline, show_current_results, last_year_winners FROM cycle_settings WHERE id = 1`

	var s models.CycleSettings
	var winners []string
	err := r.db.QueryRowContext(ctx, query).Scan(&s.Deadline, &s.ShowCurrentResults, pq.Array(&winners))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to load cycle settings: %w", err)
	}
	s.LastYearWinners = models.NormalizeWinners(winners)
	return &s, nil
}
