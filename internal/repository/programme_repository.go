package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/search"
)

// ProgrammeRepository manages persistence for study programmes and executes
// the faceted search query.
type ProgrammeRepository struct {
	db *sqlx.DB
}

// NewProgrammeRepository constructs a ProgrammeRepository.
func NewProgrammeRepository(db *sqlx.DB) *ProgrammeRepository {
	return &ProgrammeRepository{db: db}
}

const programmeColumns = `p.id, p.title, p.degree_type, p.subject_area_id, p.university_id, p.study_mode, p.language,
        p.admission_status, p.ects_requirement, p.has_tuition_fee, p.beginning_semester,
        p.moi_letter, p.motivation_letter, p.entrance_test, p.interview, p.module_handbook,
        p.description, p.created_at, p.updated_at,
        u.name AS university_name, u.city AS university_city, u.institution_type,
        sa.name AS subject_area_name, sa.slug AS subject_area_slug`

const programmeBase = `FROM programmes p
        JOIN universities u ON u.id = p.university_id
        JOIN subject_areas sa ON sa.id = p.subject_area_id`

// Search executes the faceted query: one equality predicate per non-empty
// facet (IN for multi-value facets), a case-insensitive substring match on
// the title, the requested ordering, and a separate exact count.
func (r *ProgrammeRepository) Search(ctx context.Context, q search.Query) ([]models.ProgrammeDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	for _, facet := range search.Facets() {
		values := q.Selection.Values(facet.Key)
		if len(values) == 0 {
			continue
		}
		cond, condArgs, ok := facetCondition(facet, values, len(args))
		if !ok {
			continue
		}
		conditions = append(conditions, cond)
		args = append(args, condArgs...)
	}

	if q.Text != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(p.title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(q.Text)+"%")
	}

	where := fmt.Sprintf("%s WHERE %s", programmeBase, strings.Join(conditions, " AND "))

	orderBy := map[search.Sort]string{
		search.SortLatest:     "p.created_at DESC",
		search.SortName:       "LOWER(p.title) ASC",
		search.SortCity:       "LOWER(u.city) ASC",
		search.SortUniversity: "LOWER(u.name) ASC",
	}[q.Sort]
	if orderBy == "" {
		orderBy = "p.created_at DESC"
	}

	offset := (q.Page - 1) * q.PageSize
	query := fmt.Sprintf("SELECT %s\n        %s ORDER BY %s LIMIT %d OFFSET %d", programmeColumns, where, orderBy, q.PageSize, offset)

	var rows []models.ProgrammeDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search programmes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count programmes: %w", err)
	}
	return rows, total, nil
}

// facetCondition renders one facet's predicate. tuitionFee maps its yes/no
// value onto the boolean column, ectsRequired parses to an integer; values
// that fail to parse drop the predicate rather than erroring the search.
func facetCondition(facet search.Facet, values []string, argOffset int) (string, []interface{}, bool) {
	switch facet.Key {
	case search.KeyTuitionFee:
		return fmt.Sprintf("%s = $%d", facet.Column, argOffset+1), []interface{}{values[0] == "yes"}, true
	case search.KeyECTSRequired:
		ects, err := strconv.Atoi(values[0])
		if err != nil || ects < 0 {
			return "", nil, false
		}
		return fmt.Sprintf("%s = $%d", facet.Column, argOffset+1), []interface{}{ects}, true
	}

	if len(values) == 1 {
		return fmt.Sprintf("%s = $%d", facet.Column, argOffset+1), []interface{}{values[0]}, true
	}

	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", argOffset+i+1)
		args[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", facet.Column, strings.Join(placeholders, ", ")), args, true
}

// FindByID fetches a programme detail by ID.
func (r *ProgrammeRepository) FindByID(ctx context.Context, id string) (*models.ProgrammeDetail, error) {
	query := fmt.Sprintf("SELECT %s\n        %s WHERE p.id = $1", programmeColumns, programmeBase)
	var detail models.ProgrammeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new programme record.
func (r *ProgrammeRepository) Create(ctx context.Context, programme *models.Programme) error {
	if programme.ID == "" {
		programme.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if programme.CreatedAt.IsZero() {
		programme.CreatedAt = now
	}
	programme.UpdatedAt = now
	const query = `INSERT INTO programmes (id, title, degree_type, subject_area_id, university_id, study_mode, language,
        admission_status, ects_requirement, has_tuition_fee, beginning_semester,
        moi_letter, motivation_letter, entrance_test, interview, module_handbook, description, created_at, updated_at)
        VALUES (:id, :title, :degree_type, :subject_area_id, :university_id, :study_mode, :language,
        :admission_status, :ects_requirement, :has_tuition_fee, :beginning_semester,
        :moi_letter, :motivation_letter, :entrance_test, :interview, :module_handbook, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, programme); err != nil {
		return fmt.Errorf("create programme: %w", err)
	}
	return nil
}

// Update modifies an existing programme.
func (r *ProgrammeRepository) Update(ctx context.Context, programme *models.Programme) error {
	programme.UpdatedAt = time.Now().UTC()
	const query = `UPDATE programmes SET title = :title, degree_type = :degree_type, subject_area_id = :subject_area_id,
        university_id = :university_id, study_mode = :study_mode, language = :language, admission_status = :admission_status,
        ects_requirement = :ects_requirement, has_tuition_fee = :has_tuition_fee, beginning_semester = :beginning_semester,
        moi_letter = :moi_letter, motivation_letter = :motivation_letter, entrance_test = :entrance_test,
        interview = :interview, module_handbook = :module_handbook, description = :description, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, programme); err != nil {
		return fmt.Errorf("update programme: %w", err)
	}
	return nil
}

// Delete removes a programme.
func (r *ProgrammeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programmes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete programme: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
