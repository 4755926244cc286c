package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/health-survey-api/internal/models"
)

const fieldColumns = `id, survey_id, label, field_type, options, is_required, field_order`

// SurveyRepository persists survey definitions, their fields and publication links.
type SurveyRepository struct {
	db *sqlx.DB
}

// NewSurveyRepository constructs the repository.
func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// List returns every survey with field and response counts, newest first.
func (r *SurveyRepository) List(ctx context.Context) ([]models.SurveySummary, error) {
	const query = `SELECT s.id, s.name, s.created_by, s.is_active, s.created_at,
	(SELECT COUNT(*) FROM survey_fields f WHERE f.survey_id = s.id) AS field_count,
	(SELECT COUNT(*) FROM responses rs WHERE rs.survey_id = s.id) AS response_count
FROM surveys s
ORDER BY s.created_at DESC`
	items := []models.SurveySummary{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return items, nil
}

// GetByID returns a survey header.
func (r *SurveyRepository) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	const query = `SELECT id, name, created_by, is_active, created_at FROM surveys WHERE id = $1`
	var survey models.Survey
	if err := r.db.GetContext(ctx, &survey, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return &survey, nil
}

// ListFields returns the survey's fields ordered by display order.
func (r *SurveyRepository) ListFields(ctx context.Context, surveyID string) ([]models.SurveyField, error) {
	query := `SELECT ` + fieldColumns + ` FROM survey_fields WHERE survey_id = $1 ORDER BY field_order ASC, id ASC`
	fields := []models.SurveyField{}
	if err := r.db.SelectContext(ctx, &fields, query, surveyID); err != nil {
		return nil, fmt.Errorf("list survey fields: %w", err)
	}
	return fields, nil
}

// ListGovernorateIDs returns the governorates a survey is published to.
func (r *SurveyRepository) ListGovernorateIDs(ctx context.Context, surveyID string) ([]string, error) {
	const query = `SELECT governorate_id FROM survey_governorates WHERE survey_id = $1 ORDER BY governorate_id`
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, surveyID); err != nil {
		return nil, fmt.Errorf("list survey governorates: %w", err)
	}
	return ids, nil
}

// Create inserts the survey, its fields and its governorate links in one transaction.
func (r *SurveyRepository) Create(ctx context.Context, survey *models.Survey, fields []models.SurveyField, governorateIDs []string) (err error) {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create survey transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertSurvey = `INSERT INTO surveys (id, name, created_by, is_active, created_at) VALUES (:id, :name, :created_by, :is_active, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertSurvey, survey); err != nil {
		return fmt.Errorf("create survey: %w", err)
	}
	for i := range fields {
		fields[i].SurveyID = survey.ID
		if err = insertField(ctx, tx, &fields[i]); err != nil {
			return err
		}
	}
	if err = insertSurveyGovernorates(ctx, tx, survey.ID, governorateIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create survey: %w", err)
	}
	return nil
}

// Update rewrites the survey header, updates existing fields by id and appends
// new fields after the current highest order.
func (r *SurveyRepository) Update(ctx context.Context, survey *models.Survey, existing []models.SurveyField, added []models.SurveyField) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update survey transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateSurvey = `UPDATE surveys SET name = $2, is_active = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateSurvey, survey.ID, survey.Name, survey.IsActive); err != nil {
		return fmt.Errorf("update survey: %w", err)
	}

	const updateField = `UPDATE survey_fields SET label = $3, field_type = $4, options = $5, is_required = $6, field_order = $7 WHERE id = $1 AND survey_id = $2`
	for _, field := range existing {
		if _, err = tx.ExecContext(ctx, updateField, field.ID, survey.ID, field.Label, field.Type, field.Options, field.Required, field.Order); err != nil {
			return fmt.Errorf("update survey field %s: %w", field.ID, err)
		}
	}

	if len(added) > 0 {
		var maxOrder int
		if err = tx.GetContext(ctx, &maxOrder, `SELECT COALESCE(MAX(field_order), 0) FROM survey_fields WHERE survey_id = $1`, survey.ID); err != nil {
			return fmt.Errorf("load max field order: %w", err)
		}
		for i := range added {
			maxOrder++
			added[i].SurveyID = survey.ID
			added[i].Order = maxOrder
			if err = insertField(ctx, tx, &added[i]); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update survey: %w", err)
	}
	return nil
}

// ReplaceGovernorates swaps the publication list of a survey.
func (r *SurveyRepository) ReplaceGovernorates(ctx context.Context, surveyID string, governorateIDs []string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin survey governorates transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM survey_governorates WHERE survey_id = $1`, surveyID); err != nil {
		return fmt.Errorf("clear survey governorates: %w", err)
	}
	if err = insertSurveyGovernorates(ctx, tx, surveyID, governorateIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit survey governorates: %w", err)
	}
	return nil
}

// Delete removes a survey together with its responses, answers, fields and links.
func (r *SurveyRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete survey transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	steps := []struct {
		query string
		what  string
	}{
		{`DELETE FROM response_details WHERE response_id IN (SELECT id FROM responses WHERE survey_id = $1)`, "response details"},
		{`DELETE FROM responses WHERE survey_id = $1`, "responses"},
		{`DELETE FROM survey_fields WHERE survey_id = $1`, "survey fields"},
		{`DELETE FROM survey_governorates WHERE survey_id = $1`, "survey governorates"},
		{`DELETE FROM user_surveys WHERE survey_id = $1`, "survey grants"},
		{`DELETE FROM surveys WHERE id = $1`, "survey"},
	}
	for _, step := range steps {
		if _, err = tx.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("delete %s: %w", step.what, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete survey: %w", err)
	}
	return nil
}

// ListByGovernorate returns surveys published to a governorate.
func (r *SurveyRepository) ListByGovernorate(ctx context.Context, governorateID string) ([]models.SurveySummary, error) {
	const query = `SELECT s.id, s.name, s.created_by, s.is_active, s.created_at,
	(SELECT COUNT(*) FROM survey_fields f WHERE f.survey_id = s.id) AS field_count,
	(SELECT COUNT(*) FROM responses rs JOIN health_administrations ha ON ha.id = rs.region_id
		WHERE rs.survey_id = s.id AND ha.governorate_id = sg.governorate_id) AS response_count
FROM survey_governorates sg
JOIN surveys s ON s.id = sg.survey_id
WHERE sg.governorate_id = $1
ORDER BY s.created_at DESC`
	items := []models.SurveySummary{}
	if err := r.db.SelectContext(ctx, &items, query, governorateID); err != nil {
		return nil, fmt.Errorf("list governorate surveys: %w", err)
	}
	return items, nil
}

// IsPublishedTo reports whether the survey is linked to the governorate.
func (r *SurveyRepository) IsPublishedTo(ctx context.Context, surveyID, governorateID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM survey_governorates WHERE survey_id = $1 AND governorate_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, surveyID, governorateID); err != nil {
		return false, fmt.Errorf("check survey publication: %w", err)
	}
	return ok, nil
}

// SetActive toggles the activation flag of a survey.
func (r *SurveyRepository) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE surveys SET is_active = $2 WHERE id = $1`, id, active); err != nil {
		return fmt.Errorf("set survey active: %w", err)
	}
	return nil
}

// ListAllowedForUser returns active surveys granted to the user, flagging those
// already completed within [dayStart, dayEnd).
func (r *SurveyRepository) ListAllowedForUser(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]models.SurveySummary, error) {
	const query = `SELECT s.id, s.name, s.created_by, s.is_active, s.created_at,
	(SELECT COUNT(*) FROM survey_fields f WHERE f.survey_id = s.id) AS field_count,
	(SELECT COUNT(*) FROM responses rs WHERE rs.survey_id = s.id AND rs.user_id = us.user_id) AS response_count,
	EXISTS(SELECT 1 FROM responses rc WHERE rc.survey_id = s.id AND rc.user_id = us.user_id AND rc.is_completed
		AND rc.submission_date >= $2 AND rc.submission_date < $3) AS completed_today
FROM user_surveys us
JOIN surveys s ON s.id = us.survey_id
WHERE us.user_id = $1 AND s.is_active
ORDER BY s.name ASC`
	items := []models.SurveySummary{}
	if err := r.db.SelectContext(ctx, &items, query, userID, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("list allowed surveys: %w", err)
	}
	return items, nil
}

// IsAllowedForUser reports whether the survey is granted to the user.
func (r *SurveyRepository) IsAllowedForUser(ctx context.Context, userID, surveyID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM user_surveys WHERE user_id = $1 AND survey_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, userID, surveyID); err != nil {
		return false, fmt.Errorf("check survey grant: %w", err)
	}
	return ok, nil
}

func insertField(ctx context.Context, tx *sqlx.Tx, field *models.SurveyField) error {
	if field.ID == "" {
		field.ID = uuid.NewString()
	}
	query := `INSERT INTO survey_fields (` + fieldColumns + `) VALUES (:id, :survey_id, :label, :field_type, :options, :is_required, :field_order)`
	if _, err := tx.NamedExecContext(ctx, query, field); err != nil {
		return fmt.Errorf("create survey field: %w", err)
	}
	return nil
}

func insertSurveyGovernorates(ctx context.Context, tx *sqlx.Tx, surveyID string, governorateIDs []string) error {
	const query = `INSERT INTO survey_governorates (survey_id, governorate_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, governorateID := range governorateIDs {
		if _, err := tx.ExecContext(ctx, query, surveyID, governorateID); err != nil {
			return fmt.Errorf("publish survey to %s: %w", governorateID, err)
		}
	}
	return nil
}
