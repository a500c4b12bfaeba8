package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistersaas.app/assistant/internal/model"
)

type userStore struct {
	pool *pgxpool.Pool
}

func newUserStore(pool *pgxpool.Pool) UserStore {
	return &userStore{pool: pool}
}

const userColumns = `id, name, email, avatar_url, workos_id, created_at, updated_at`

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *userStore) GetByWorkOSID(ctx context.Context, workosID string) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE workos_id = $1`, workosID)
	return scanUser(row)
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, avatar_url, workos_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.AvatarURL, user.WorkOSID)

	created, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	row := s.pool.QueryRow(ctx,
		`UPDATE users
		 SET name = $2, email = $3, avatar_url = $4, workos_id = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.AvatarURL, user.WorkOSID)

	updated, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *updated
	return nil
}

// UpsertByWorkOSID inserts the user or, if the WorkOS identity is already
// known, refreshes the profile fields and returns the existing row.
func (s *userStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, avatar_url, workos_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (workos_id) DO UPDATE
		 SET name = excluded.name, email = excluded.email,
		     avatar_url = excluded.avatar_url, updated_at = now()
		 RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.AvatarURL, user.WorkOSID)

	upserted, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *upserted
	return nil
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.WorkOSID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
