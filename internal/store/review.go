package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistersaas.app/assistant/internal/model"
)

type reviewStore struct {
	pool *pgxpool.Pool
}

func newReviewStore(pool *pgxpool.Pool) ReviewStore {
	return &reviewStore{pool: pool}
}

const reviewColumns = `id, user_id, title, language, original_code, review_result,
	status, ai_model, prompt_tokens, completion_tokens, created_at, completed_at`

func (s *reviewStore) GetByID(ctx context.Context, id int64) (*model.CodeReview, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM code_reviews WHERE id = $1`, id)
	return scanReview(row)
}

func (s *reviewStore) GetForUser(ctx context.Context, id, userID int64) (*model.CodeReview, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM code_reviews WHERE id = $1 AND user_id = $2`, id, userID)
	return scanReview(row)
}

func (s *reviewStore) Create(ctx context.Context, review *model.CodeReview) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO code_reviews (id, user_id, title, language, original_code, review_result, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+reviewColumns,
		review.ID, review.UserID, review.Title, review.Language,
		review.OriginalCode, review.ReviewResult, review.Status)

	created, err := scanReview(row)
	if err != nil {
		return err
	}
	*review = *created
	return nil
}

func (s *reviewStore) Complete(ctx context.Context, id int64, result string, aiModel *string, promptTokens, completionTokens int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE code_reviews
		 SET review_result = $2, status = $3, ai_model = $4,
		     prompt_tokens = $5, completion_tokens = $6, completed_at = now()
		 WHERE id = $1`,
		id, result, model.ReviewStatusCompleted, aiModel, promptTokens, completionTokens)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *reviewStore) MarkFailed(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE code_reviews SET status = $2, completed_at = now() WHERE id = $1`,
		id, model.ReviewStatusFailed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *reviewStore) ListByUser(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+reviewColumns+`
		 FROM code_reviews
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.CodeReview
	for rows.Next() {
		var r model.CodeReview
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Language, &r.OriginalCode,
			&r.ReviewResult, &r.Status, &r.AIModel, &r.PromptTokens, &r.CompletionTokens,
			&r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *reviewStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM code_reviews WHERE user_id = $1`, userID).
		Scan(&count)
	return count, err
}

func scanReview(row pgx.Row) (*model.CodeReview, error) {
	var r model.CodeReview
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Language, &r.OriginalCode,
		&r.ReviewResult, &r.Status, &r.AIModel, &r.PromptTokens, &r.CompletionTokens,
		&r.CreatedAt, &r.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}
