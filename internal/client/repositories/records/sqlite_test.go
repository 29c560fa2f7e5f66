package records

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='records'`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestSQLiteBackend_ReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT data FROM records WHERE name = \?`).
		WithArgs("favorites.json").
		WillReturnError(errors.New("database is locked"))

	_, err = NewSQLiteBackend(db).Read(context.Background(), "favorites.json")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_ReadNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT data FROM records`).
		WithArgs("favorites.json").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err = NewSQLiteBackend(db).Read(context.Background(), "favorites.json")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_WriteAndRemoveErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("favorites.json", []byte("[]")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectExec(`DELETE FROM records WHERE name = \?`).
		WithArgs("favorites.json").
		WillReturnError(errors.New("disk I/O error"))

	b := NewSQLiteBackend(db)
	require.Error(t, b.Write(context.Background(), "favorites.json", []byte("[]")))
	require.Error(t, b.Remove(context.Background(), "favorites.json"))
	require.NoError(t, mock.ExpectationsWereMet())
}
