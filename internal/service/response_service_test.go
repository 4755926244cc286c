package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type mockResponseRepo struct {
	rows        map[string]*models.ResponseRow
	details     map[string][]models.ResponseDetailView
	lastFilter  models.ResponseFilter
	statsCalls  int
	updatedWith []models.DetailUpdate
}

func (m *mockResponseRepo) List(ctx context.Context, filter models.ResponseFilter) ([]models.ResponseRow, int, error) {
	m.lastFilter = filter
	out := []models.ResponseRow{}
	for _, r := range m.rows {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockResponseRepo) GetRow(ctx context.Context, id string) (*models.ResponseRow, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockResponseRepo) ListDetails(ctx context.Context, responseID string) ([]models.ResponseDetailView, error) {
	return m.details[responseID], nil
}

func (m *mockResponseRepo) UpdateDetails(ctx context.Context, responseID string, updates []models.DetailUpdate) (int, error) {
	m.updatedWith = updates
	return len(updates), nil
}

func (m *mockResponseRepo) Stats(ctx context.Context, surveyID, governorateID string) (*models.ResponseStats, error) {
	m.statsCalls++
	return &models.ResponseStats{SurveyID: surveyID, Total: 4, Completed: 3, Regions: 2, CompletionRate: 75}, nil
}

type stubPublication struct {
	surveys   map[string]bool
	published map[string]bool
}

func (s stubPublication) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	if !s.surveys[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Survey{ID: id}, nil
}

func (s stubPublication) IsPublishedTo(ctx context.Context, surveyID, governorateID string) (bool, error) {
	return s.published[surveyID+"/"+governorateID], nil
}

type memStatsCache struct {
	entries     map[string]models.ResponseStats
	invalidated []string
}

func (m *memStatsCache) SurveyStats(ctx context.Context, surveyID, governorateID string, load func(context.Context) (*models.ResponseStats, error)) (*models.ResponseStats, bool, error) {
	key := StatsKey(surveyID, governorateID)
	if v, ok := m.entries[key]; ok {
		return &v, true, nil
	}
	v, err := load(ctx)
	if err != nil {
		return nil, false, err
	}
	m.entries[key] = *v
	return v, false, nil
}

func (m *memStatsCache) InvalidateSurvey(ctx context.Context, surveyID string) {
	m.invalidated = append(m.invalidated, surveyID)
}

func newResponseFixture() (*ResponseService, *mockResponseRepo, *memStatsCache, *mockAuditWriter) {
	repo := &mockResponseRepo{
		rows: map[string]*models.ResponseRow{
			"r1": {SurveyResponse: models.SurveyResponse{ID: "r1", SurveyID: "s1", UserID: "emp"}, GovernorateID: "gov-1"},
		},
		details: map[string][]models.ResponseDetailView{
			"r1": {
				{ResponseDetail: models.ResponseDetail{ID: "d1", ResponseID: "r1", FieldID: "f1", AnswerValue: "Ali"}},
				{ResponseDetail: models.ResponseDetail{ID: "d2", ResponseID: "r1", FieldID: "f2", AnswerValue: "30"}},
			},
		},
	}
	publication := stubPublication{
		surveys:   map[string]bool{"s1": true, "s2": true},
		published: map[string]bool{"s1/gov-1": true},
	}
	cache := &memStatsCache{entries: map[string]models.ResponseStats{}}
	audit := &mockAuditWriter{}
	return NewResponseService(repo, publication, cache, audit, nil, nil), repo, cache, audit
}

var govAdmin = Actor{UserID: "ga", Role: models.RoleGovernorateAdmin, GovernorateID: "gov-1"}

func TestResponseServiceListScopesGovernorateAdmin(t *testing.T) {
	svc, repo, _, _ := newResponseFixture()

	_, pagination, err := svc.ListForSurvey(context.Background(), govAdmin, "s1", models.ResponseFilter{GovernorateID: "gov-9"})
	require.NoError(t, err)
	assert.Equal(t, "gov-1", repo.lastFilter.GovernorateID)
	assert.Equal(t, "s1", repo.lastFilter.SurveyID)
	assert.Equal(t, 20, pagination.PageSize)

	_, _, err = svc.ListForSurvey(context.Background(), govAdmin, "s2", models.ResponseFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestResponseServiceListScopesEmployeeToOwnRows(t *testing.T) {
	svc, repo, _, _ := newResponseFixture()

	_, _, err := svc.ListForSurvey(context.Background(), employee, "s1", models.ResponseFilter{UserID: "someone"})
	require.NoError(t, err)
	assert.Equal(t, "emp", repo.lastFilter.UserID)
}

func TestResponseServiceGetEnforcesScope(t *testing.T) {
	svc, _, _, _ := newResponseFixture()

	info, err := svc.Get(context.Background(), employee, "r1")
	require.NoError(t, err)
	assert.Len(t, info.Details, 2)

	_, err = svc.Get(context.Background(), Actor{UserID: "other", Role: models.RoleEmployee}, "r1")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), Actor{UserID: "ga2", Role: models.RoleGovernorateAdmin, GovernorateID: "gov-2"}, "r1")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), adminActor, "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResponseServiceStatsCached(t *testing.T) {
	svc, repo, cache, _ := newResponseFixture()

	first, hit, err := svc.Stats(context.Background(), adminActor, "s1")
	require.NoError(t, err)
	assert.False(t, hit)
	second, hit, err := svc.Stats(context.Background(), adminActor, "s1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.statsCalls)
	assert.Contains(t, cache.entries, StatsKey("s1", ""))

	_, _, err = svc.Stats(context.Background(), employee, "s1")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestResponseServiceUpdateDetails(t *testing.T) {
	svc, repo, cache, audit := newResponseFixture()

	res, err := svc.UpdateDetails(context.Background(), govAdmin, "r1", dto.UpdateDetailsRequest{
		Updates: []models.DetailUpdate{{DetailID: "d2", AnswerValue: "31"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Len(t, repo.updatedWith, 1)
	assert.Equal(t, []string{"s1"}, cache.invalidated)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionDetailUpdate, audit.logs[0].Action)
	assert.JSONEq(t, `{"d2":"30"}`, string(audit.logs[0].OldValues))
	assert.JSONEq(t, `{"d2":"31"}`, string(audit.logs[0].NewValues))
}

func TestResponseServiceUpdateDetailsRejectsForeignDetail(t *testing.T) {
	svc, repo, _, _ := newResponseFixture()

	_, err := svc.UpdateDetails(context.Background(), adminActor, "r1", dto.UpdateDetailsRequest{
		Updates: []models.DetailUpdate{{DetailID: "d1", AnswerValue: "x"}, {DetailID: "other", AnswerValue: "y"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updatedWith)
}
