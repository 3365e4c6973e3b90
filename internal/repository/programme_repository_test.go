package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/osegonte/daad-study-search-sub000/internal/search"
)

func newProgrammeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var programmeDetailCols = []string{
	"id", "title", "degree_type", "subject_area_id", "university_id", "study_mode", "language",
	"admission_status", "ects_requirement", "has_tuition_fee", "beginning_semester",
	"moi_letter", "motivation_letter", "entrance_test", "interview", "module_handbook",
	"description", "created_at", "updated_at",
	"university_name", "university_city", "institution_type", "subject_area_name", "subject_area_slug",
}

func programmeRow(id, title string, createdAt time.Time) []driver.Value {
	return []driver.Value{
		id, title, "Master", "sa-1", "uni-1", "FullTime", "English",
		"non-restricted", 180, false, "WinterSemester",
		"Accepted", "Yes", "No", "No", "Yes",
		"", createdAt, createdAt,
		"TU Example", "Berlin", "Public", "Computer Science", "computer-science",
	}
}

func TestProgrammeRepositorySearchNoFilters(t *testing.T) {
	db, mock, cleanup := newProgrammeRepoMock(t)
	defer cleanup()
	repo := NewProgrammeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(programmeDetailCols).
		AddRow(programmeRow("prog-2", "Data Engineering", now)...).
		AddRow(programmeRow("prog-1", "Mechanical Engineering", now.Add(-time.Hour))...)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 ORDER BY p.created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM programmes p")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	q := search.Query{Selection: search.NewSelection(), Sort: search.SortLatest, Page: 1, PageSize: 20}
	results, total, err := repo.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 2, total)
	require.Equal(t, "prog-2", results[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgrammeRepositorySearchFacetPredicates(t *testing.T) {
	db, mock, cleanup := newProgrammeRepoMock(t)
	defer cleanup()
	repo := NewProgrammeRepository(db)

	sel := search.NewSelection()
	require.NoError(t, sel.SetAll(search.KeyCourseType, []string{"Bachelor", "Master"}))
	require.NoError(t, sel.Set(search.KeyTuitionFee, "no"))

	rows := sqlmock.NewRows(programmeDetailCols).
		AddRow(programmeRow("prog-1", "Physics", time.Now())...)

	mock.ExpectQuery(regexp.QuoteMeta("p.degree_type IN ($1, $2) AND p.has_tuition_fee = $3")).
		WithArgs("Bachelor", "Master", false).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("Bachelor", "Master", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	q := search.Query{Selection: sel, Sort: search.SortLatest, Page: 1, PageSize: 20}
	results, total, err := repo.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgrammeRepositorySearchTextSubstring(t *testing.T) {
	db, mock, cleanup := newProgrammeRepoMock(t)
	defer cleanup()
	repo := NewProgrammeRepository(db)

	rows := sqlmock.NewRows(programmeDetailCols).
		AddRow(programmeRow("prog-1", "Data Engineering", time.Now())...)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(p.title) LIKE $1")).
		WithArgs("%engineering%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%engineering%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	q := search.Query{Selection: search.NewSelection(), Text: "Engineering", Sort: search.SortLatest, Page: 1, PageSize: 20}
	results, _, err := repo.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgrammeRepositorySearchInvalidECTSDropped(t *testing.T) {
	db, mock, cleanup := newProgrammeRepoMock(t)
	defer cleanup()
	repo := NewProgrammeRepository(db)

	sel := search.NewSelection()
	require.NoError(t, sel.Set(search.KeyECTSRequired, "not-a-number"))

	rows := sqlmock.NewRows(programmeDetailCols)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 ORDER BY")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	q := search.Query{Selection: sel, Sort: search.SortLatest, Page: 1, PageSize: 20}
	_, total, err := repo.Search(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 0, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgrammeRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newProgrammeRepoMock(t)
	defer cleanup()
	repo := NewProgrammeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM programmes WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
