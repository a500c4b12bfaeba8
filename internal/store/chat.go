package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistersaas.app/assistant/internal/model"
)

type chatStore struct {
	pool *pgxpool.Pool
}

func newChatStore(pool *pgxpool.Pool) ChatStore {
	return &chatStore{pool: pool}
}

const chatSessionColumns = `id, user_id, title, is_active, created_at, updated_at`

func (s *chatStore) GetSession(ctx context.Context, id int64) (*model.ChatSession, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+chatSessionColumns+` FROM chat_sessions WHERE id = $1`, id)
	return scanChatSession(row)
}

func (s *chatStore) GetSessionForUser(ctx context.Context, id, userID int64) (*model.ChatSession, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+chatSessionColumns+` FROM chat_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	return scanChatSession(row)
}

func (s *chatStore) CreateSession(ctx context.Context, session *model.ChatSession) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO chat_sessions (id, user_id, title, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+chatSessionColumns,
		session.ID, session.UserID, session.Title, session.IsActive)

	created, err := scanChatSession(row)
	if err != nil {
		return err
	}
	*session = *created
	return nil
}

func (s *chatStore) TouchSession(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE chat_sessions SET updated_at = now() WHERE id = $1`, id)
	return err
}

func (s *chatStore) DeactivateSession(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE chat_sessions SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *chatStore) ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+chatSessionColumns+`
		 FROM chat_sessions
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.ChatSession
	for rows.Next() {
		var cs model.ChatSession
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.Title, &cs.IsActive, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, cs)
	}
	return sessions, rows.Err()
}

const chatMessageColumns = `id, chat_session_id, role, content, metadata, ai_model,
	prompt_tokens, completion_tokens, response_time_ms, created_at`

func (s *chatStore) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	metadata := msg.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO chat_messages
		 (id, chat_session_id, role, content, metadata, ai_model, prompt_tokens, completion_tokens, response_time_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		msg.ID, msg.ChatSessionID, msg.Role, msg.Content, metadata,
		msg.AIModel, msg.PromptTokens, msg.CompletionTokens, msg.ResponseTimeMS).
		Scan(&msg.CreatedAt)
}

// ListMessages returns the most recent messages in chronological order.
// Snowflake IDs are time-ordered, so ordering by id matches creation order.
func (s *chatStore) ListMessages(ctx context.Context, chatSessionID int64, limit int) ([]model.ChatMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+chatMessageColumns+` FROM (
		   SELECT `+chatMessageColumns+`
		   FROM chat_messages
		   WHERE chat_session_id = $1
		   ORDER BY id DESC
		   LIMIT $2
		 ) recent
		 ORDER BY id ASC`, chatSessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ChatSessionID, &m.Role, &m.Content, &m.Metadata,
			&m.AIModel, &m.PromptTokens, &m.CompletionTokens, &m.ResponseTimeMS, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *chatStore) DeleteMessages(ctx context.Context, chatSessionID int64) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM chat_messages WHERE chat_session_id = $1`, chatSessionID)
	return err
}

func (s *chatStore) CountMessagesByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*)
		 FROM chat_messages m
		 JOIN chat_sessions cs ON cs.id = m.chat_session_id
		 WHERE cs.user_id = $1`, userID).
		Scan(&count)
	return count, err
}

func scanChatSession(row pgx.Row) (*model.ChatSession, error) {
	var cs model.ChatSession
	err := row.Scan(&cs.ID, &cs.UserID, &cs.Title, &cs.IsActive, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}
