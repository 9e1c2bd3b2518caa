package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/dbx"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// PostgresRepository persists users in PostgreSQL via the pgx stdlib
// driver. It is the collaborator implementation behind Repository; the
// registry core does not depend on it.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) error {

	query :=
		`INSERT INTO users (id, login, first_name, last_name, email, phone, salt, password_hash, access_code, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Login, user.FirstName, user.LastName, user.Email,
		user.Phone, user.Salt, user.PasswordHash, user.AccessCode,
		user.source(), user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, user *User) error {
	return save(ctx, r.db, user)
}

// SaveAll runs the per-user upserts inside a single transaction so a
// failure mid-batch leaves nothing stored.
func (r *PostgresRepository) SaveAll(ctx context.Context, users []*User) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, user := range users {
			if err := save(ctx, tx, user); err != nil {
				return err
			}
		}
		return nil
	})
}

func save(ctx context.Context, db dbx.DBTX, user *User) error {

	query :=
		`INSERT INTO users (id, login, first_name, last_name, email, phone, salt, password_hash, access_code, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (login) DO UPDATE SET
		     first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     email = EXCLUDED.email,
		     phone = EXCLUDED.phone,
		     salt = EXCLUDED.salt,
		     password_hash = EXCLUDED.password_hash,
		     access_code = EXCLUDED.access_code,
		     source = EXCLUDED.source
		 `

	_, err := db.ExecContext(ctx, query,
		user.ID, user.Login, user.FirstName, user.LastName, user.Email,
		user.Phone, user.Salt, user.PasswordHash, user.AccessCode,
		user.source(), user.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*User, error) {

	query :=
		`SELECT id, login, first_name, last_name, email, phone, salt, password_hash, access_code, source, created_at
		 FROM users
		 WHERE login = $1
		 `

	user := &User{}
	var source string
	err := r.db.QueryRowContext(ctx, query, login).Scan(
		&user.ID, &user.Login, &user.FirstName, &user.LastName, &user.Email,
		&user.Phone, &user.Salt, &user.PasswordHash, &user.AccessCode,
		&source, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Meta = map[string]any{"source": source}
	return user, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// source extracts the onboarding source tag from Meta.
func (u *User) source() string {
	if s, ok := u.Meta["source"].(string); ok {
		return s
	}
	return ""
}
