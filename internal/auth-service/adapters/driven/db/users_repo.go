package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rideway/internal/auth-service/core/domain/models"
	"rideway/internal/auth-service/core/myerrors"
	"rideway/internal/auth-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UsersRepo struct {
	db *DB
}

func NewUsersRepo(db *DB) ports.IUsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (ur *UsersRepo) Create(ctx context.Context, user models.User) (string, error) {
	tx, err := ur.db.conn.Begin(ctx)
	if err != nil {
		if err := ur.db.IsAlive(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	q := `INSERT INTO users (
	username, email, phone, password_hash, role
	) VALUES ($1, $2, $3, $4, $5) RETURNING user_id;`

	id := ""
	row := tx.QueryRow(ctx, q, user.Username, user.Email, user.Phone, user.PasswordHash, user.Role)
	if err = row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// unique_violation, the constraint tells which field clashed
			if strings.Contains(pgErr.ConstraintName, "phone") {
				return "", myerrors.ErrPhoneRegistered
			}
			return "", myerrors.ErrEmailRegistered
		}
		return "", fmt.Errorf("failed to insert user: %v", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %v", err)
	}

	return id, nil
}

func (ur *UsersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ur.db.IsAlive(); err != nil {
		return models.User{}, err
	}

	q := `
		SELECT
			u.user_id,
			u.created_at,
			u.updated_at,
			u.username,
			u.email,
			u.phone,
			u.password_hash,
			u.role
		FROM
			users u
		WHERE
			u.email = $1
	`

	var u models.User
	err := ur.db.conn.QueryRow(ctx, q, email).Scan(
		&u.UserId,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, myerrors.ErrUnknownEmail
		}
		return models.User{}, err
	}

	return u, nil
}
