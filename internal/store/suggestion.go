package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistersaas.app/assistant/internal/model"
)

type suggestionStore struct {
	pool *pgxpool.Pool
}

func newSuggestionStore(pool *pgxpool.Pool) SuggestionStore {
	return &suggestionStore{pool: pool}
}

const suggestionColumns = `id, user_id, title, description, suggestion_type, priority,
	current_situation, proposed_solution, implementation_steps, ai_confidence, created_at`

func (s *suggestionStore) GetByID(ctx context.Context, id int64) (*model.ProjectSuggestion, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+suggestionColumns+` FROM project_suggestions WHERE id = $1`, id)
	return scanSuggestion(row)
}

func (s *suggestionStore) GetForUser(ctx context.Context, id, userID int64) (*model.ProjectSuggestion, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+suggestionColumns+` FROM project_suggestions WHERE id = $1 AND user_id = $2`, id, userID)
	return scanSuggestion(row)
}

func (s *suggestionStore) Create(ctx context.Context, suggestion *model.ProjectSuggestion) error {
	steps := suggestion.ImplementationSteps
	if steps == nil {
		steps = []string{}
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO project_suggestions
		 (id, user_id, title, description, suggestion_type, priority,
		  current_situation, proposed_solution, implementation_steps, ai_confidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+suggestionColumns,
		suggestion.ID, suggestion.UserID, suggestion.Title, suggestion.Description,
		suggestion.SuggestionType, suggestion.Priority, suggestion.CurrentSituation,
		suggestion.ProposedSolution, steps, suggestion.AIConfidence)

	created, err := scanSuggestion(row)
	if err != nil {
		return err
	}
	*suggestion = *created
	return nil
}

func (s *suggestionStore) ListByUser(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+suggestionColumns+`
		 FROM project_suggestions
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []model.ProjectSuggestion
	for rows.Next() {
		var ps model.ProjectSuggestion
		if err := rows.Scan(&ps.ID, &ps.UserID, &ps.Title, &ps.Description,
			&ps.SuggestionType, &ps.Priority, &ps.CurrentSituation, &ps.ProposedSolution,
			&ps.ImplementationSteps, &ps.AIConfidence, &ps.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, ps)
	}
	return suggestions, rows.Err()
}

func (s *suggestionStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM project_suggestions WHERE user_id = $1`, userID).
		Scan(&count)
	return count, err
}

func scanSuggestion(row pgx.Row) (*model.ProjectSuggestion, error) {
	var ps model.ProjectSuggestion
	err := row.Scan(&ps.ID, &ps.UserID, &ps.Title, &ps.Description,
		&ps.SuggestionType, &ps.Priority, &ps.CurrentSituation, &ps.ProposedSolution,
		&ps.ImplementationSteps, &ps.AIConfidence, &ps.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ps, nil
}
