package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type mockGovernorateRepo struct {
	items     map[string]*models.Governorate
	regions   map[string]int
	deleteErr error
	deleted   []string
}

func (m *mockGovernorateRepo) List(ctx context.Context) ([]models.GovernorateSummary, error) {
	out := []models.GovernorateSummary{}
	for _, g := range m.items {
		out = append(out, models.GovernorateSummary{Governorate: *g, RegionCount: m.regions[g.ID]})
	}
	return out, nil
}

func (m *mockGovernorateRepo) GetByID(ctx context.Context, id string) (*models.Governorate, error) {
	g, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *g
	return &clone, nil
}

func (m *mockGovernorateRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for id, g := range m.items {
		if strings.EqualFold(g.Name, name) && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGovernorateRepo) Create(ctx context.Context, item *models.Governorate) error {
	item.ID = "gov-new"
	m.items[item.ID] = item
	return nil
}

func (m *mockGovernorateRepo) Update(ctx context.Context, item *models.Governorate) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockGovernorateRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockGovernorateRepo) CountRegions(ctx context.Context, id string) (int, error) {
	return m.regions[id], nil
}

func TestGovernorateServiceCreateDuplicateName(t *testing.T) {
	repo := &mockGovernorateRepo{items: map[string]*models.Governorate{"g1": {ID: "g1", Name: "Cairo"}}}
	svc := NewGovernorateService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), adminActor, dto.GovernorateRequest{Name: "cairo"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	item, err := svc.Create(context.Background(), adminActor, dto.GovernorateRequest{Name: " Giza "})
	require.NoError(t, err)
	assert.Equal(t, "Giza", item.Name)
}

func TestGovernorateServiceUpdateAllowsOwnName(t *testing.T) {
	repo := &mockGovernorateRepo{items: map[string]*models.Governorate{"g1": {ID: "g1", Name: "Cairo"}}}
	audit := &mockAuditWriter{}
	svc := NewGovernorateService(repo, audit, nil, nil)

	item, err := svc.Update(context.Background(), adminActor, "g1", dto.GovernorateRequest{Name: "Cairo", Description: "capital"})
	require.NoError(t, err)
	assert.Equal(t, "capital", item.Description)
	require.Len(t, audit.logs, 1)
	assert.JSONEq(t, `{"id":"g1","name":"Cairo","description":"","created_at":"0001-01-01T00:00:00Z"}`, string(audit.logs[0].OldValues))
}

func TestGovernorateServiceDeleteWithRegions(t *testing.T) {
	repo := &mockGovernorateRepo{
		items:   map[string]*models.Governorate{"g1": {ID: "g1", Name: "Cairo"}},
		regions: map[string]int{"g1": 3},
	}
	svc := NewGovernorateService(repo, nil, nil, nil)

	err := svc.Delete(context.Background(), adminActor, "g1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReferencedResource.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestGovernorateServiceDeleteForeignKeyViolation(t *testing.T) {
	repo := &mockGovernorateRepo{
		items:     map[string]*models.Governorate{"g1": {ID: "g1", Name: "Cairo"}},
		deleteErr: &pq.Error{Code: "23503"},
	}
	svc := NewGovernorateService(repo, nil, nil, nil)

	err := svc.Delete(context.Background(), adminActor, "g1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReferencedResource.Code, appErrors.FromError(err).Code)
}

type mockRegionRepo struct {
	items   map[string]*models.HealthAdministration
	users   map[string]int
	deleted []string
}

func (m *mockRegionRepo) List(ctx context.Context, governorateID string) ([]models.HealthAdministration, error) {
	out := []models.HealthAdministration{}
	for _, r := range m.items {
		if governorateID == "" || r.GovernorateID == governorateID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRegionRepo) GetByID(ctx context.Context, id string) (*models.HealthAdministration, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *r
	return &clone, nil
}

func (m *mockRegionRepo) ExistsByName(ctx context.Context, name, governorateID, excludeID string) (bool, error) {
	for id, r := range m.items {
		if strings.EqualFold(r.Name, name) && r.GovernorateID == governorateID && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegionRepo) Create(ctx context.Context, item *models.HealthAdministration) error {
	item.ID = "region-new"
	m.items[item.ID] = item
	return nil
}

func (m *mockRegionRepo) Update(ctx context.Context, item *models.HealthAdministration) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockRegionRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRegionRepo) CountUsers(ctx context.Context, id string) (int, error) {
	return m.users[id], nil
}

func TestRegionServiceNameUniqueWithinGovernorate(t *testing.T) {
	repo := &mockRegionRepo{items: map[string]*models.HealthAdministration{
		"r1": {ID: "r1", Name: "North", GovernorateID: "gov-1"},
	}}
	governorates := stubGovernorates{"gov-1": {ID: "gov-1", Name: "Cairo"}, "gov-2": {ID: "gov-2", Name: "Giza"}}
	svc := NewRegionService(repo, governorates, nil, nil, nil)

	_, err := svc.Create(context.Background(), adminActor, dto.RegionRequest{Name: "north", GovernorateID: "gov-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	item, err := svc.Create(context.Background(), adminActor, dto.RegionRequest{Name: "North", GovernorateID: "gov-2"})
	require.NoError(t, err)
	assert.Equal(t, "Giza", item.GovernorateName)
}

func TestRegionServiceUpdateExcludesSelf(t *testing.T) {
	repo := &mockRegionRepo{items: map[string]*models.HealthAdministration{
		"r1": {ID: "r1", Name: "North", GovernorateID: "gov-1"},
	}}
	svc := NewRegionService(repo, testGovernorates, nil, nil, nil)

	item, err := svc.Update(context.Background(), adminActor, "r1", dto.RegionRequest{Name: "North", Description: "clinic", GovernorateID: "gov-1"})
	require.NoError(t, err)
	assert.Equal(t, "clinic", item.Description)
}

func TestRegionServiceCreateUnknownGovernorate(t *testing.T) {
	svc := NewRegionService(&mockRegionRepo{items: map[string]*models.HealthAdministration{}}, testGovernorates, nil, nil, nil)

	_, err := svc.Create(context.Background(), adminActor, dto.RegionRequest{Name: "South", GovernorateID: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegionServiceDeleteWithUsers(t *testing.T) {
	repo := &mockRegionRepo{
		items: map[string]*models.HealthAdministration{"r1": {ID: "r1", Name: "North", GovernorateID: "gov-1"}},
		users: map[string]int{"r1": 1},
	}
	svc := NewRegionService(repo, testGovernorates, nil, nil, nil)

	err := svc.Delete(context.Background(), adminActor, "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReferencedResource.Code, appErrors.FromError(err).Code)

	repo.users["r1"] = 0
	require.NoError(t, svc.Delete(context.Background(), adminActor, "r1"))
	assert.Equal(t, []string{"r1"}, repo.deleted)
}
