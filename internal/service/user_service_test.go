package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/repository"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type mockUserRepo struct {
	users       map[string]*models.User
	allowed     map[string][]string
	responses   map[string]int
	created     *models.User
	assignment  repository.UserAssignment
	updated     *models.User
	deleted     string
	createErr   error
	listFilter  models.UserFilter
	replacedFor string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}, allowed: map[string][]string{}, responses: map[string]int{}}
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error) {
	m.listFilter = filter
	out := []models.UserDetail{}
	for _, u := range m.users {
		out = append(out, models.UserDetail{User: *u})
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) FindDetailByID(ctx context.Context, id string) (*models.UserDetail, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserDetail{User: *u}, nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	for id, u := range m.users {
		if u.Username == username && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User, assignment repository.UserAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "new-user"
	m.created = user
	m.assignment = assignment
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User, assignment repository.UserAssignment) error {
	m.updated = user
	m.assignment = assignment
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CountResponses(ctx context.Context, id string) (int, error) {
	return m.responses[id], nil
}

func (m *mockUserRepo) ListAllowedSurveyIDs(ctx context.Context, userID string) ([]string, error) {
	return m.allowed[userID], nil
}

func (m *mockUserRepo) ReplaceAllowedSurveys(ctx context.Context, userID string, surveyIDs []string) error {
	m.replacedFor = userID
	m.allowed[userID] = surveyIDs
	return nil
}

type stubRegions map[string]*models.HealthAdministration

func (s stubRegions) GetByID(ctx context.Context, id string) (*models.HealthAdministration, error) {
	if r, ok := s[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

type stubGovernorates map[string]*models.Governorate

func (s stubGovernorates) GetByID(ctx context.Context, id string) (*models.Governorate, error) {
	if g, ok := s[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

var (
	testRegions      = stubRegions{"region-1": {ID: "region-1", Name: "North", GovernorateID: "gov-1"}}
	testGovernorates = stubGovernorates{"gov-1": {ID: "gov-1", Name: "Cairo"}}
	adminActor       = Actor{UserID: "admin", Role: models.RoleAdmin}
)

func TestUserServiceCreateEmployee(t *testing.T) {
	repo := newMockUserRepo()
	audit := &mockAuditWriter{}
	svc := NewUserService(repo, testRegions, testGovernorates, audit, nil, nil)

	user, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		Username:  " sara ",
		Password:  "secret1",
		Role:      models.RoleEmployee,
		RegionID:  "region-1",
		SurveyIDs: []string{"s1", "s1", "s2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sara", user.Username)
	require.NotNil(t, user.AssignedRegion)
	assert.Equal(t, "region-1", *user.AssignedRegion)
	assert.Equal(t, []string{"s1", "s2"}, repo.assignment.SurveyIDs)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Equal(t, []string{models.AuditActionCreate}, audit.actions())
}

func TestUserServiceCreateRequiresRoleLinks(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), testRegions, testGovernorates, nil, nil, nil)

	_, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{Username: "emp", Password: "secret1", Role: models.RoleEmployee})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), adminActor, dto.CreateUserRequest{Username: "gov", Password: "secret1", Role: models.RoleGovernorateAdmin, GovernorateID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateGovernorateAdminLinksGovernorate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testRegions, testGovernorates, nil, nil, nil)

	user, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{Username: "gov", Password: "secret1", Role: models.RoleGovernorateAdmin, GovernorateID: "gov-1", RegionID: "region-1"})
	require.NoError(t, err)
	assert.Nil(t, user.AssignedRegion)
	assert.Equal(t, "gov-1", repo.assignment.GovernorateID)
}

func TestUserServiceCreateDuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Username: "sara"}
	svc := NewUserService(repo, testRegions, testGovernorates, nil, nil, nil)

	_, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{Username: "sara", Password: "secret1", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestUserServiceUpdateKeepsPasswordWhenBlank(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Username: "sara", PasswordHash: "old-hash", Role: models.RoleAdmin}
	svc := NewUserService(repo, testRegions, testGovernorates, nil, nil, nil)

	user, err := svc.Update(context.Background(), adminActor, "u1", dto.UpdateUserRequest{Username: "sara", Role: models.RoleEmployee, RegionID: "region-1"})
	require.NoError(t, err)
	assert.Equal(t, "old-hash", user.PasswordHash)
	assert.Equal(t, models.RoleEmployee, repo.updated.Role)
}

func TestUserServiceDeleteRejectedWithResponses(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Username: "sara"}
	repo.responses["u1"] = 2
	svc := NewUserService(repo, testRegions, testGovernorates, nil, nil, nil)

	err := svc.Delete(context.Background(), adminActor, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReferencedResource.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)

	repo.responses["u1"] = 0
	require.NoError(t, svc.Delete(context.Background(), adminActor, "u1"))
	assert.Equal(t, "u1", repo.deleted)
}

func TestUserServiceDeleteSelfRejected(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), testRegions, testGovernorates, nil, nil, nil)

	err := svc.Delete(context.Background(), adminActor, adminActor.UserID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestUserServiceSetAllowedSurveys(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Username: "sara"}
	svc := NewUserService(repo, testRegions, testGovernorates, nil, nil, nil)

	ids, err := svc.SetAllowedSurveys(context.Background(), adminActor, "u1", dto.AllowedSurveysRequest{SurveyIDs: []string{"b", "a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)
	assert.Equal(t, "u1", repo.replacedFor)
}

func TestUserServiceListClampsPageSize(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), testRegions, testGovernorates, nil, nil, nil)

	_, pagination, err := svc.List(context.Background(), models.UserFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 100, pagination.PageSize)
}
