package sqldb

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/account-service/internal/core/domain"
)

// setupMockDB wires the repository to sqlmock under the pgx dialect.
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *AccountRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock database")
	t.Cleanup(func() { _ = db.Close() })

	return mock, NewAccountRepository(sqlx.NewDb(db, DriverPostgres))
}

func TestAccountRepository_Postgres_Create(t *testing.T) {
	mock, repo := setupMockDB(t)
	created := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, email, password_hash, role, created_at)`)).
		WithArgs("alice", "alice@x.com", "hash", "user", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	got, err := repo.Create(context.Background(), &domain.Account{
		Username: "alice", Email: "alice@x.com", PasswordHash: "hash", CreatedAt: created,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Postgres_CreateUniqueViolation(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &domain.Account{Username: "a", Email: "a@x.com", PasswordHash: "h"})

	assert.ErrorIs(t, err, domain.ErrIdentityInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Postgres_CreateOtherError(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("connection refused"))

	_, err := repo.Create(context.Background(), &domain.Account{Username: "a", Email: "a@x.com", PasswordHash: "h"})

	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestAccountRepository_Postgres_UpdateBuildsPlaceholders(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET username = $1, password_hash = $2 WHERE id = $3`)).
		WithArgs("alice2", "newhash", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Update(context.Background(), 3, domain.AccountUpdate{Username: "alice2", PasswordHash: "newhash"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Postgres_UpdateConflict(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`UPDATE users SET email`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), 3, domain.AccountUpdate{Email: "taken@x.com"})

	assert.ErrorIs(t, err, domain.ErrIdentityInUse)
}

func TestAccountRepository_Postgres_FindNotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}))

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Postgres_DeleteRowsAffected(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(context.Background(), 5)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
