package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/pkg/util"
)

const userColumnsPattern = `SELECT username, email, password, is_admin, COALESCE\(token, ''\)`

func newBackendWithMock(t *testing.T) (Backend, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewBackend(mock, zap.NewNop(), time.Second), mock
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"username", "email", "password", "is_admin", "token"})
}

func TestFindUser(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectQuery(userColumnsPattern).
		WithArgs("alice", "digest").
		WillReturnRows(userRows().AddRow("alice", "alice@example.com", "digest", true, ""))

	user, err := backend.FindUser(context.Background(), "alice", "digest")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.True(t, user.IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserWrongPassword(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectQuery(userColumnsPattern).
		WithArgs("alice", "wrong-digest").
		WillReturnError(pgx.ErrNoRows)

	_, err := backend.FindUser(context.Background(), "alice", "wrong-digest")
	require.True(t, util.IsNotFound(err), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByToken(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectQuery(`WHERE token=\$1`).
		WithArgs("tok-1").
		WillReturnRows(userRows().AddRow("alice", "alice@example.com", "digest", true, "tok-1"))

	user, err := backend.FindUserByToken(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "tok-1", user.Token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByTokenMiss(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectQuery(`WHERE token=\$1`).
		WithArgs("superseded").
		WillReturnError(pgx.ErrNoRows)

	_, err := backend.FindUserByToken(context.Background(), "superseded")
	require.True(t, util.IsNotFound(err), "got %v", err)
}

func TestAddUser(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "digest", true, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := backend.AddUser(context.Background(), &domain.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "digest",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserDuplicate(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "digest", true, "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

	err := backend.AddUser(context.Background(), &domain.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "digest",
		IsAdmin:  true,
	})
	require.True(t, util.IsCode(err, util.CodeDuplicateKey), "got %v", err)
}

func TestUpdateUser(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("UPDATE users SET").
		WithArgs("alice", "alice@example.com", "digest", true, "tok-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := backend.UpdateUser(context.Background(), &domain.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "digest",
		IsAdmin:  true,
		Token:    "tok-2",
	})
	require.NoError(t, err)
	require.Equal(t, "tok-2", updated.Token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserNotFound(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("UPDATE users SET").
		WithArgs("ghost", "", "digest", false, "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := backend.UpdateUser(context.Background(), &domain.User{Username: "ghost", Password: "digest"})
	require.True(t, util.IsNotFound(err), "got %v", err)
}

func TestUpdateUserMultiRowViolation(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("UPDATE users SET").
		WithArgs("alice", "", "digest", false, "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	_, err := backend.UpdateUser(context.Background(), &domain.User{Username: "alice", Password: "digest"})
	require.True(t, util.IsCode(err, util.CodeInvariantViolation), "got %v", err)
}

func TestDeleteUser(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("alice").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, backend.DeleteUser(context.Background(), "alice"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserNotFound(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := backend.DeleteUser(context.Background(), "ghost")
	require.True(t, util.IsNotFound(err), "got %v", err)
}

func TestDeleteUserMultiRowViolation(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("alice").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err := backend.DeleteUser(context.Background(), "alice")
	require.True(t, util.IsCode(err, util.CodeInvariantViolation), "got %v", err)
}

func TestListUsers(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectQuery("FROM users").
		WillReturnRows(userRows().
			AddRow("alice", "alice@example.com", "digest-a", true, "tok-1").
			AddRow("bob", "bob@example.com", "digest-b", false, ""))

	users, err := backend.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
	require.Equal(t, "bob", users[1].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersStoreError(t *testing.T) {
	backend, mock := newBackendWithMock(t)

	mock.ExpectQuery("FROM users").
		WillReturnError(errors.New("connection reset"))

	_, err := backend.ListUsers(context.Background())
	require.True(t, util.IsCode(err, util.CodeInternalError), "got %v", err)
}
