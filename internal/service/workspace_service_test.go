package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type stubAdminGovernorates map[string]*models.Governorate

func (s stubAdminGovernorates) GetByAdmin(ctx context.Context, userID string) (*models.Governorate, error) {
	if g, ok := s[userID]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

type stubAdminRegions map[string]*models.HealthAdministration

func (s stubAdminRegions) List(ctx context.Context, governorateID string) ([]models.HealthAdministration, error) {
	out := []models.HealthAdministration{}
	for _, r := range s {
		if r.GovernorateID == governorateID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s stubAdminRegions) GetByID(ctx context.Context, id string) (*models.HealthAdministration, error) {
	if r, ok := s[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

type mockAdminSurveys struct {
	surveys   map[string]*models.Survey
	published map[string][]string
	activeSet map[string]bool
}

func (m *mockAdminSurveys) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	s, ok := m.surveys[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (m *mockAdminSurveys) ListByGovernorate(ctx context.Context, governorateID string) ([]models.SurveySummary, error) {
	out := []models.SurveySummary{}
	for _, id := range m.published[governorateID] {
		out = append(out, models.SurveySummary{Survey: *m.surveys[id]})
	}
	return out, nil
}

func (m *mockAdminSurveys) IsPublishedTo(ctx context.Context, surveyID, governorateID string) (bool, error) {
	for _, id := range m.published[governorateID] {
		if id == surveyID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAdminSurveys) SetActive(ctx context.Context, id string, active bool) error {
	m.activeSet[id] = active
	return nil
}

type mockAdminUsers struct {
	users      map[string]*models.UserDetail
	assignedTo string
	surveyIDs  []string
}

func (m *mockAdminUsers) FindDetailByID(ctx context.Context, id string) (*models.UserDetail, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (m *mockAdminUsers) ListEmployeesByGovernorate(ctx context.Context, governorateID string) ([]models.UserDetail, error) {
	return nil, nil
}

func (m *mockAdminUsers) ListAllowedSurveyIDs(ctx context.Context, userID string) ([]string, error) {
	return []string{"s-old"}, nil
}

func (m *mockAdminUsers) UpdateEmployeeAssignment(ctx context.Context, userID, regionID string, surveyIDs []string) error {
	m.assignedTo = regionID
	m.surveyIDs = surveyIDs
	return nil
}

func newGovernorateAdminFixture() (*GovernorateAdminService, *mockAdminSurveys, *mockAdminUsers, *mockAuditWriter) {
	governorates := stubAdminGovernorates{"ga": {ID: "gov-1", Name: "Cairo"}}
	regions := stubAdminRegions{
		"region-1": {ID: "region-1", Name: "North", GovernorateID: "gov-1"},
		"region-2": {ID: "region-2", Name: "South", GovernorateID: "gov-1"},
		"region-9": {ID: "region-9", Name: "Far", GovernorateID: "gov-2"},
	}
	surveys := &mockAdminSurveys{
		surveys: map[string]*models.Survey{
			"s1": {ID: "s1", Name: "Intake", IsActive: true},
			"s2": {ID: "s2", Name: "Other"},
		},
		published: map[string][]string{"gov-1": {"s1"}},
		activeSet: map[string]bool{},
	}
	users := &mockAdminUsers{users: map[string]*models.UserDetail{
		"emp": {User: models.User{ID: "emp", Role: models.RoleEmployee, AssignedRegion: strPtr("region-1")}, GovernorateID: strPtr("gov-1")},
		"far": {User: models.User{ID: "far", Role: models.RoleEmployee, AssignedRegion: strPtr("region-9")}, GovernorateID: strPtr("gov-2")},
	}}
	audit := &mockAuditWriter{}
	svc := NewGovernorateAdminService(governorates, regions, surveys, users, nil, audit, nil, nil)
	return svc, surveys, users, audit
}

func TestGovernorateAdminWorkspaceRequiresLink(t *testing.T) {
	svc, _, _, _ := newGovernorateAdminFixture()

	ws, err := svc.Workspace(context.Background(), govAdmin)
	require.NoError(t, err)
	assert.Equal(t, "gov-1", ws.Governorate.ID)
	assert.Len(t, ws.Regions, 2)

	_, err = svc.Workspace(context.Background(), Actor{UserID: "unlinked", Role: models.RoleGovernorateAdmin})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGovernorateAdminSetSurveyStatus(t *testing.T) {
	svc, surveys, _, audit := newGovernorateAdminFixture()
	off := false

	item, err := svc.SetSurveyStatus(context.Background(), govAdmin, "s1", dto.SurveyStatusRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, item.IsActive)
	assert.Equal(t, map[string]bool{"s1": false}, surveys.activeSet)
	assert.Equal(t, []string{models.AuditActionUpdate}, audit.actions())

	_, err = svc.SetSurveyStatus(context.Background(), govAdmin, "s2", dto.SurveyStatusRequest{IsActive: &off})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGovernorateAdminAssignEmployee(t *testing.T) {
	svc, _, users, _ := newGovernorateAdminFixture()

	profile, err := svc.AssignEmployee(context.Background(), govAdmin, "emp", dto.EmployeeAssignmentRequest{
		RegionID:  "region-2",
		SurveyIDs: []string{"s1", "s2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "region-2", users.assignedTo)
	assert.Equal(t, []string{"s1"}, users.surveyIDs)
	assert.Equal(t, "South", *profile.RegionName)
}

func TestGovernorateAdminAssignEmployeeOutsideGovernorate(t *testing.T) {
	svc, _, users, _ := newGovernorateAdminFixture()

	_, err := svc.AssignEmployee(context.Background(), govAdmin, "emp", dto.EmployeeAssignmentRequest{RegionID: "region-9"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.AssignEmployee(context.Background(), govAdmin, "far", dto.EmployeeAssignmentRequest{RegionID: "region-1"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, users.assignedTo)
}

type stubEmployeeUsers map[string]*models.UserDetail

func (s stubEmployeeUsers) FindDetailByID(ctx context.Context, id string) (*models.UserDetail, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type recordingAllowedSurveys struct {
	start, end time.Time
	items      []models.SurveySummary
}

func (r *recordingAllowedSurveys) ListAllowedForUser(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]models.SurveySummary, error) {
	r.start, r.end = dayStart, dayEnd
	return r.items, nil
}

func TestEmployeeWorkspace(t *testing.T) {
	users := stubEmployeeUsers{
		"emp":    {User: models.User{ID: "emp", Username: "sara", AssignedRegion: strPtr("region-1")}, RegionName: strPtr("North"), GovernorateName: strPtr("Cairo")},
		"nowork": {User: models.User{ID: "nowork"}},
	}
	surveys := &recordingAllowedSurveys{items: []models.SurveySummary{
		{Survey: models.Survey{ID: "s1"}, CompletedToday: true},
		{Survey: models.Survey{ID: "s2"}},
	}}
	loc := time.FixedZone("EET", 2*60*60)
	svc := NewEmployeeService(users, surveys, nil, loc)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC) }

	ws, err := svc.Workspace(context.Background(), employee)
	require.NoError(t, err)
	assert.Equal(t, "North", ws.RegionName)
	assert.Equal(t, 2, ws.SurveyCount)
	assert.Equal(t, 1, ws.CompletedToday)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, loc), surveys.start)
	assert.Equal(t, 24*time.Hour, surveys.end.Sub(surveys.start))

	_, err = svc.Workspace(context.Background(), Actor{UserID: "nowork", Role: models.RoleEmployee})
	assert.Equal(t, appErrors.ErrNoRegion.Code, appErrors.FromError(err).Code)
}
