package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
)

func newWatchlistRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWatchlistRepositoryExists(t *testing.T) {
	db, mock, cleanup := newWatchlistRepoMock(t)
	defer cleanup()
	repo := NewWatchlistRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM watchlist_entries WHERE user_id = $1 AND programme_id = $2 LIMIT 1")).
		WithArgs("user-1", "prog-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "user-1", "prog-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchlistRepositoryExistsAbsent(t *testing.T) {
	db, mock, cleanup := newWatchlistRepoMock(t)
	defer cleanup()
	repo := NewWatchlistRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM watchlist_entries")).
		WithArgs("user-1", "prog-9").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.Exists(context.Background(), "user-1", "prog-9")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchlistRepositoryInsertAndDelete(t *testing.T) {
	db, mock, cleanup := newWatchlistRepoMock(t)
	defer cleanup()
	repo := NewWatchlistRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO watchlist_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM watchlist_entries WHERE user_id = $1 AND programme_id = $2")).
		WithArgs("user-1", "prog-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), &models.WatchlistEntry{UserID: "user-1", ProgrammeID: "prog-1"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), "user-1", "prog-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchlistRepositoryMembershipForSet(t *testing.T) {
	db, mock, cleanup := newWatchlistRepoMock(t)
	defer cleanup()
	repo := NewWatchlistRepository(db)

	ids := []string{"prog-1", "prog-2", "prog-3"}
	rows := sqlmock.NewRows([]string{"programme_id"}).AddRow("prog-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT programme_id FROM watchlist_entries WHERE user_id = $1 AND programme_id = ANY($2)")).
		WithArgs("user-1", pq.Array(ids)).
		WillReturnRows(rows)

	membership, err := repo.MembershipForSet(context.Background(), "user-1", ids)
	require.NoError(t, err)
	require.Len(t, membership, 3)
	require.False(t, membership["prog-1"])
	require.True(t, membership["prog-2"])
	require.False(t, membership["prog-3"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchlistRepositoryMembershipForSetEmpty(t *testing.T) {
	db, _, cleanup := newWatchlistRepoMock(t)
	defer cleanup()
	repo := NewWatchlistRepository(db)

	membership, err := repo.MembershipForSet(context.Background(), "user-1", nil)
	require.NoError(t, err)
	require.Empty(t, membership)
}
