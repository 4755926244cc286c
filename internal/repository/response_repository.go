package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/health-survey-api/internal/models"
)

const responseRowSelect = `SELECT rs.id, rs.survey_id, rs.user_id, rs.region_id, rs.submission_date, rs.is_completed, rs.completion_day,
	s.name AS survey_name, u.username, ha.name AS region_name, g.id AS governorate_id, g.name AS governorate_name
FROM responses rs
JOIN surveys s ON s.id = rs.survey_id
JOIN users u ON u.id = rs.user_id
JOIN health_administrations ha ON ha.id = rs.region_id
JOIN governorates g ON g.id = ha.governorate_id`

// ResponseRepository persists survey responses and their answer rows.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository constructs the repository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key failure,
// raised when a row that others still reference is deleted.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// HasCompletedToday reports whether the user completed the survey within [dayStart, dayEnd).
func (r *ResponseRepository) HasCompletedToday(ctx context.Context, userID, surveyID string, dayStart, dayEnd time.Time) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM responses WHERE user_id = $1 AND survey_id = $2 AND is_completed = TRUE AND submission_date >= $3 AND submission_date < $4)`
	var done bool
	if err := r.db.GetContext(ctx, &done, query, userID, surveyID, dayStart, dayEnd); err != nil {
		return false, fmt.Errorf("check daily completion: %w", err)
	}
	return done, nil
}

// Create writes the response header and every detail row in a single transaction.
func (r *ResponseRepository) Create(ctx context.Context, response *models.SurveyResponse, details []models.ResponseDetail) (err error) {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin submission transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertResponse = `INSERT INTO responses (id, survey_id, user_id, region_id, submission_date, is_completed, completion_day) VALUES (:id, :survey_id, :user_id, :region_id, :submission_date, :is_completed, :completion_day)`
	if _, err = tx.NamedExecContext(ctx, insertResponse, response); err != nil {
		return fmt.Errorf("create response: %w", err)
	}

	const insertDetail = `INSERT INTO response_details (id, response_id, field_id, answer_value) VALUES (:id, :response_id, :field_id, :answer_value)`
	for i := range details {
		if details[i].ID == "" {
			details[i].ID = uuid.NewString()
		}
		details[i].ResponseID = response.ID
		if _, err = tx.NamedExecContext(ctx, insertDetail, &details[i]); err != nil {
			return fmt.Errorf("create response detail: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	return nil
}

// List returns response rows matching the filter, newest first, with total count.
func (r *ResponseRepository) List(ctx context.Context, filter models.ResponseFilter) ([]models.ResponseRow, int, error) {
	where, args := responseConditions(filter)
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("%s WHERE %s ORDER BY rs.submission_date DESC LIMIT %d OFFSET %d", responseRowSelect, where, pageSize, offset)
	rows := []models.ResponseRow{}
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list responses: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM responses rs
JOIN health_administrations ha ON ha.id = rs.region_id
WHERE %s`, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count responses: %w", err)
	}
	return rows, total, nil
}

// ListAll returns every response row matching the filter without paging.
func (r *ResponseRepository) ListAll(ctx context.Context, filter models.ResponseFilter) ([]models.ResponseRow, error) {
	where, args := responseConditions(filter)
	query := fmt.Sprintf("%s WHERE %s ORDER BY rs.submission_date DESC", responseRowSelect, where)
	rows := []models.ResponseRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list all responses: %w", err)
	}
	return rows, nil
}

func responseConditions(filter models.ResponseFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}
	add := func(expr string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}
	if filter.SurveyID != "" {
		add("rs.survey_id = $%d", filter.SurveyID)
	}
	if filter.UserID != "" {
		add("rs.user_id = $%d", filter.UserID)
	}
	if filter.RegionID != "" {
		add("rs.region_id = $%d", filter.RegionID)
	}
	if filter.GovernorateID != "" {
		add("ha.governorate_id = $%d", filter.GovernorateID)
	}
	if filter.Completed != nil {
		add("rs.is_completed = $%d", *filter.Completed)
	}
	if filter.From != nil {
		add("rs.submission_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("rs.submission_date < $%d", *filter.To)
	}
	return strings.Join(conditions, " AND "), args
}

// GetRow returns a single response row.
func (r *ResponseRepository) GetRow(ctx context.Context, id string) (*models.ResponseRow, error) {
	query := responseRowSelect + ` WHERE rs.id = $1`
	var row models.ResponseRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get response: %w", err)
	}
	return &row, nil
}

// ListDetails returns the answers of a response joined with their field definitions.
func (r *ResponseRepository) ListDetails(ctx context.Context, responseID string) ([]models.ResponseDetailView, error) {
	const query = `SELECT d.id, d.response_id, d.field_id, d.answer_value,
	f.label, f.field_type, f.options, f.is_required, f.field_order
FROM response_details d
JOIN survey_fields f ON f.id = d.field_id
WHERE d.response_id = $1
ORDER BY f.field_order ASC, f.id ASC`
	details := []models.ResponseDetailView{}
	if err := r.db.SelectContext(ctx, &details, query, responseID); err != nil {
		return nil, fmt.Errorf("list response details: %w", err)
	}
	return details, nil
}

// ListSurveyDetails returns every answer of the survey, optionally scoped to a governorate.
func (r *ResponseRepository) ListSurveyDetails(ctx context.Context, surveyID, governorateID string) ([]models.ResponseDetail, error) {
	const query = `SELECT d.id, d.response_id, d.field_id, d.answer_value
FROM response_details d
JOIN responses rs ON rs.id = d.response_id
JOIN health_administrations ha ON ha.id = rs.region_id
WHERE rs.survey_id = $1 AND ($2 = '' OR ha.governorate_id::text = $2)`
	details := []models.ResponseDetail{}
	if err := r.db.SelectContext(ctx, &details, query, surveyID, governorateID); err != nil {
		return nil, fmt.Errorf("list survey details: %w", err)
	}
	return details, nil
}

// UpdateDetails rewrites answer values of details belonging to the response and
// returns how many rows changed. Either every update applies or none does.
func (r *ResponseRepository) UpdateDetails(ctx context.Context, responseID string, updates []models.DetailUpdate) (updated int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin detail update transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE response_details SET answer_value = $3 WHERE id = $1 AND response_id = $2`
	for _, update := range updates {
		var res sql.Result
		res, err = tx.ExecContext(ctx, query, update.DetailID, responseID, update.AnswerValue)
		if err != nil {
			return 0, fmt.Errorf("update response detail %s: %w", update.DetailID, err)
		}
		affected, _ := res.RowsAffected()
		updated += int(affected)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit detail update: %w", err)
	}
	return updated, nil
}

// Stats aggregates response counts for a survey, optionally scoped to a governorate.
func (r *ResponseRepository) Stats(ctx context.Context, surveyID, governorateID string) (*models.ResponseStats, error) {
	const query = `SELECT $1::text AS survey_id,
	COUNT(rs.id) AS total,
	COUNT(rs.id) FILTER (WHERE rs.is_completed) AS completed,
	COUNT(DISTINCT rs.region_id) AS regions
FROM responses rs
JOIN health_administrations ha ON ha.id = rs.region_id
WHERE rs.survey_id = $1 AND ($2 = '' OR ha.governorate_id::text = $2)`
	var stats models.ResponseStats
	if err := r.db.GetContext(ctx, &stats, query, surveyID, governorateID); err != nil {
		return nil, fmt.Errorf("survey response stats: %w", err)
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return &stats, nil
}
