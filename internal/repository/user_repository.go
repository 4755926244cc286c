package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/health-survey-api/internal/models"
)

const userColumns = `id, username, password_hash, role, assigned_region, last_login, last_activity, created_at, updated_at`

const userDetailSelect = `SELECT u.id, u.username, u.password_hash, u.role, u.assigned_region, u.last_login, u.last_activity, u.created_at, u.updated_at,
	ha.name AS region_name,
	COALESCE(ga.governorate_id, ha.governorate_id) AS governorate_id,
	g.name AS governorate_name
FROM users u
LEFT JOIN health_administrations ha ON ha.id = u.assigned_region
LEFT JOIN governorate_admins ga ON ga.user_id = u.id
LEFT JOIN governorates g ON g.id = COALESCE(ga.governorate_id, ha.governorate_id)`

// UserRepository provides database access for user management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns a user by login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindDetailByID returns a user joined with its region and governorate names.
func (r *UserRepository) FindDetailByID(ctx context.Context, id string) (*models.UserDetail, error) {
	query := userDetailSelect + ` WHERE u.id = $1 LIMIT 1`
	var user models.UserDetail
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user detail: %w", err)
	}
	return &user, nil
}

// ExistsByUsername reports whether another user already uses the name.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username, excludeID); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, last_activity = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdateLastActivity records the latest authenticated activity of a user.
func (r *UserRepository) UpdateLastActivity(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_activity = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last activity: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// List returns users based on filters with total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error) {
	baseQuery := `FROM users u
LEFT JOIN health_administrations ha ON ha.id = u.assigned_region
LEFT JOIN governorate_admins ga ON ga.user_id = u.id
LEFT JOIN governorates g ON g.id = COALESCE(ga.governorate_id, ha.governorate_id)
WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.GovernorateID != "" {
		conditions = append(conditions, fmt.Sprintf("COALESCE(ga.governorate_id, ha.governorate_id) = $%d", len(args)+1))
		args = append(args, filter.GovernorateID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(u.username) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"username":   "u.username",
		"role":       "u.role",
		"created_at": "u.created_at",
		"last_login": "u.last_login",
	}
	sortBy, ok := allowedSorts[filter.SortBy]
	if !ok {
		sortBy = "u.created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT u.id, u.username, u.password_hash, u.role, u.assigned_region, u.last_login, u.last_activity, u.created_at, u.updated_at, ha.name AS region_name, COALESCE(ga.governorate_id, ha.governorate_id) AS governorate_id, g.name AS governorate_name %s ORDER BY %s %s LIMIT %d OFFSET %d`, baseQuery, sortBy, sortOrder, pageSize, offset)

	var users []models.UserDetail
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// ListEmployeesByGovernorate returns employees assigned to regions of the governorate.
func (r *UserRepository) ListEmployeesByGovernorate(ctx context.Context, governorateID string) ([]models.UserDetail, error) {
	query := userDetailSelect + ` WHERE u.role = 'employee' AND ha.governorate_id = $1 ORDER BY u.username ASC`
	var users []models.UserDetail
	if err := r.db.SelectContext(ctx, &users, query, governorateID); err != nil {
		return nil, fmt.Errorf("list governorate employees: %w", err)
	}
	return users, nil
}

// UserAssignment carries the role dependent links written with a user.
type UserAssignment struct {
	GovernorateID string
	SurveyIDs     []string
}

// Create inserts a new user together with its governorate link and allowed surveys.
func (r *UserRepository) Create(ctx context.Context, user *models.User, assignment UserAssignment) (err error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO users (id, username, password_hash, role, assigned_region, created_at, updated_at) VALUES (:id, :username, :password_hash, :role, :assigned_region, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err = writeAssignment(ctx, tx, user, assignment); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	return nil
}

// Update rewrites a user's mutable fields and replaces its role dependent links.
func (r *UserRepository) Update(ctx context.Context, user *models.User, assignment UserAssignment) (err error) {
	user.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE users SET username = :username, password_hash = :password_hash, role = :role, assigned_region = :assigned_region, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM governorate_admins WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("clear governorate admin link: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM user_surveys WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("clear allowed surveys: %w", err)
	}
	if err = writeAssignment(ctx, tx, user, assignment); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update user: %w", err)
	}
	return nil
}

func writeAssignment(ctx context.Context, tx *sqlx.Tx, user *models.User, assignment UserAssignment) error {
	if user.Role == models.RoleGovernorateAdmin && assignment.GovernorateID != "" {
		const query = `INSERT INTO governorate_admins (user_id, governorate_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, user.ID, assignment.GovernorateID); err != nil {
			return fmt.Errorf("link governorate admin: %w", err)
		}
	}
	return insertUserSurveys(ctx, tx, user.ID, assignment.SurveyIDs)
}

func insertUserSurveys(ctx context.Context, tx *sqlx.Tx, userID string, surveyIDs []string) error {
	const query = `INSERT INTO user_surveys (user_id, survey_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, surveyID := range surveyIDs {
		if _, err := tx.ExecContext(ctx, query, userID, surveyID); err != nil {
			return fmt.Errorf("grant survey %s: %w", surveyID, err)
		}
	}
	return nil
}

// Delete removes a user. Refresh tokens, survey grants and governorate links cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CountResponses returns how many survey responses the user submitted.
func (r *UserRepository) CountResponses(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM responses WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, id); err != nil {
		return 0, fmt.Errorf("count user responses: %w", err)
	}
	return total, nil
}

// ListAllowedSurveyIDs returns the survey ids granted to the user.
func (r *UserRepository) ListAllowedSurveyIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT survey_id FROM user_surveys WHERE user_id = $1 ORDER BY survey_id`
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list allowed surveys: %w", err)
	}
	return ids, nil
}

// ReplaceAllowedSurveys swaps the user's survey grants for the provided list.
func (r *UserRepository) ReplaceAllowedSurveys(ctx context.Context, userID string, surveyIDs []string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allowed surveys transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM user_surveys WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear allowed surveys: %w", err)
	}
	if err = insertUserSurveys(ctx, tx, userID, surveyIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit allowed surveys: %w", err)
	}
	return nil
}

// UpdateEmployeeAssignment moves an employee to a region and replaces its survey grants.
func (r *UserRepository) UpdateEmployeeAssignment(ctx context.Context, userID, regionID string, surveyIDs []string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin employee assignment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const update = `UPDATE users SET assigned_region = $2, updated_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, update, userID, regionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update employee region: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM user_surveys WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear allowed surveys: %w", err)
	}
	if err = insertUserSurveys(ctx, tx, userID, surveyIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit employee assignment: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token entry.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent) VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :revoked_at, :ip_address, :user_agent)`
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes all refresh tokens for a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
