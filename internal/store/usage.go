package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sistersaas.app/assistant/internal/model"
)

type usageStore struct {
	pool *pgxpool.Pool
}

func newUsageStore(pool *pgxpool.Pool) UsageStore {
	return &usageStore{pool: pool}
}

func (s *usageStore) Create(ctx context.Context, usage *model.ModelUsage) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO ai_model_usage
		 (id, user_id, provider, model_name, prompt_tokens, completion_tokens,
		  feature, chat_session_id, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		usage.ID, usage.UserID, usage.Provider, usage.ModelName,
		usage.PromptTokens, usage.CompletionTokens, usage.Feature,
		usage.ChatSessionID, usage.DurationMS).
		Scan(&usage.CreatedAt)
}

func (s *usageStore) TotalsByUser(ctx context.Context, userID int64, since time.Time) (*model.UsageTotals, error) {
	var totals model.UsageTotals
	err := s.pool.QueryRow(ctx,
		`SELECT count(*),
		        coalesce(sum(prompt_tokens), 0),
		        coalesce(sum(completion_tokens), 0)
		 FROM ai_model_usage
		 WHERE user_id = $1 AND created_at >= $2`, userID, since).
		Scan(&totals.Calls, &totals.PromptTokens, &totals.CompletionTokens)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
