package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var userRowColumns = []string{"id", "username", "password_hash", "role", "assigned_region", "last_login", "last_activity", "created_at", "updated_at"}

func TestFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("1", "sara", "hash", string(models.RoleEmployee), "region-1", now, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1 LIMIT 1")).
		WithArgs("sara").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "sara")
	require.NoError(t, err)
	assert.Equal(t, "sara", user.Username)
	require.NotNil(t, user.AssignedRegion)
	assert.Equal(t, "region-1", *user.AssignedRegion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsernameNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateRefreshToken(context.Background(), &models.RefreshToken{ID: "1", UserID: "u1", Token: "token", ExpiresAt: time.Now(), CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	role := models.RoleEmployee
	listRows := sqlmock.NewRows(append(append([]string{}, userRowColumns...), "region_name", "governorate_id", "governorate_name")).
		AddRow("1", "sara", "hash", "employee", "region-1", now, now, now, now, "North Clinic", "gov-1", "Cairo")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND u.role = $1 AND LOWER(u.username) LIKE $2 ORDER BY u.username ASC LIMIT 10 OFFSET 10")).
		WithArgs(role, "%sa%").
		WillReturnRows(listRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users u")).
		WithArgs(role, "%sa%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, Search: "SA", Page: 2, PageSize: 10, SortBy: "username", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Cairo", *users[0].GovernorateName)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGovernorateAdminIsTransactional(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO governorate_admins (user_id, governorate_id) VALUES ($1, $2)")).
		WithArgs(sqlmock.AnyArg(), "gov-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_surveys")).
		WithArgs(sqlmock.AnyArg(), "survey-1").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	user := &models.User{Username: "gov", PasswordHash: "hash", Role: models.RoleGovernorateAdmin}
	err := repo.Create(context.Background(), user, UserAssignment{GovernorateID: "gov-1", SurveyIDs: []string{"survey-1"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReplacesAssignments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	region := "region-2"
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET username = ?, password_hash = ?, role = ?, assigned_region = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM governorate_admins WHERE user_id = $1")).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_surveys WHERE user_id = $1")).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_surveys")).WithArgs("u-1", "s-1").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_surveys")).WithArgs("u-1", "s-2").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &models.User{ID: "u-1", Username: "sara", PasswordHash: "hash", Role: models.RoleEmployee, AssignedRegion: &region}
	require.NoError(t, repo.Update(context.Background(), user, UserAssignment{SurveyIDs: []string{"s-1", "s-2"}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployeeAssignment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET assigned_region = $2")).
		WithArgs("u-1", "region-9", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_surveys")).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateEmployeeAssignment(context.Background(), "u-1", "region-9", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountResponses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM responses WHERE user_id = $1")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.CountResponses(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
