package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/pkg/util"
)

// uniqueViolation is the Postgres SQLSTATE for unique-constraint violations.
const uniqueViolation = "23505"

// DB is the slice of a pgx pool the backend uses. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Backend defines the credential store operations.
type Backend interface {
	FindUser(ctx context.Context, username, hashedPassword string) (*domain.User, error)
	FindUserByToken(ctx context.Context, token string) (*domain.User, error)
	AddUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type backend struct {
	db        DB
	logger    *zap.Logger
	opTimeout time.Duration
}

// NewBackend returns a Postgres-backed credential store. Every operation
// runs under opTimeout (when positive) so a saturated pool surfaces as a
// deadline error instead of blocking the caller indefinitely.
func NewBackend(db DB, logger *zap.Logger, opTimeout time.Duration) Backend {
	return &backend{db: db, logger: logger, opTimeout: opTimeout}
}

func (b *backend) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.opTimeout)
}

// FindUser looks a user up by username and hashed password. Username is the
// primary key, so at most one row can match.
func (b *backend) FindUser(ctx context.Context, username, hashedPassword string) (*domain.User, error) {
	const query = `
        SELECT username, email, password, is_admin, COALESCE(token, '')
        FROM users WHERE username=$1 AND password=$2`

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	return b.scanUser(b.db.QueryRow(ctx, query, username, hashedPassword))
}

// FindUserByToken resolves the user a session token is currently bound to.
func (b *backend) FindUserByToken(ctx context.Context, token string) (*domain.User, error) {
	const query = `
        SELECT username, email, password, is_admin, COALESCE(token, '')
        FROM users WHERE token=$1`

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	return b.scanUser(b.db.QueryRow(ctx, query, token))
}

// AddUser inserts a new row. A username collision fails with DUPLICATE_KEY.
func (b *backend) AddUser(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password, is_admin, token)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''))`

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	_, err := b.db.Exec(ctx, query,
		user.Username,
		user.Email,
		user.Password,
		user.IsAdmin,
		user.Token,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return util.NewDuplicateKey(fmt.Sprintf("user %q already exists", user.Username))
		}
		return util.NewInternalError(err)
	}
	return nil
}

// UpdateUser replaces the full row keyed by username and requires exactly
// one row be affected. Zero rows is a recoverable NOT_FOUND; more than one
// means the primary key no longer holds and is reported loudly instead of
// silently succeeding.
func (b *backend) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
        UPDATE users SET email=$2, password=$3, is_admin=$4, token=NULLIF($5, '')
        WHERE username=$1`

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	cmd, err := b.db.Exec(ctx, query,
		user.Username,
		user.Email,
		user.Password,
		user.IsAdmin,
		user.Token,
	)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	switch n := cmd.RowsAffected(); n {
	case 0:
		return nil, util.NewNotFound("user")
	case 1:
		return user, nil
	default:
		b.logger.Error("update touched an unexpected number of rows",
			zap.String("username", user.Username),
			zap.Int64("rows", n),
		)
		return nil, util.NewInvariantViolation(
			fmt.Sprintf("updated %d rows in users table instead of exactly 1", n))
	}
}

// DeleteUser removes the row keyed by username under the same affected-row
// discipline as UpdateUser.
func (b *backend) DeleteUser(ctx context.Context, username string) error {
	const query = `DELETE FROM users WHERE username=$1`

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	cmd, err := b.db.Exec(ctx, query, username)
	if err != nil {
		return util.NewInternalError(err)
	}

	switch n := cmd.RowsAffected(); n {
	case 0:
		return util.NewNotFound("user")
	case 1:
		return nil
	default:
		b.logger.Error("delete touched an unexpected number of rows",
			zap.String("username", username),
			zap.Int64("rows", n),
		)
		return util.NewInvariantViolation(
			fmt.Sprintf("deleted %d rows in users table instead of exactly 1", n))
	}
}

// ListUsers returns every row in store-defined order.
func (b *backend) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT username, email, password, is_admin, COALESCE(token, '')
        FROM users`

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	rows, err := b.db.Query(ctx, query)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.Username,
			&user.Email,
			&user.Password,
			&user.IsAdmin,
			&user.Token,
		); err != nil {
			return nil, util.NewInternalError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewInternalError(err)
	}
	return users, nil
}

func (b *backend) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.Username,
		&user.Email,
		&user.Password,
		&user.IsAdmin,
		&user.Token,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user")
		}
		return nil, util.NewInternalError(err)
	}
	return &user, nil
}
