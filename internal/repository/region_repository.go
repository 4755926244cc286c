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

const regionSelect = `SELECT ha.id, ha.name, ha.description, ha.governorate_id, g.name AS governorate_name, ha.created_at
FROM health_administrations ha
JOIN governorates g ON g.id = ha.governorate_id`

// RegionRepository persists health administrations.
type RegionRepository struct {
	db *sqlx.DB
}

// NewRegionRepository constructs the repository.
func NewRegionRepository(db *sqlx.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// List returns regions, optionally restricted to one governorate.
func (r *RegionRepository) List(ctx context.Context, governorateID string) ([]models.HealthAdministration, error) {
	query := regionSelect
	var args []interface{}
	if governorateID != "" {
		query += ` WHERE ha.governorate_id = $1`
		args = append(args, governorateID)
	}
	query += ` ORDER BY g.name ASC, ha.name ASC`

	items := []models.HealthAdministration{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return items, nil
}

// GetByID returns a region by id.
func (r *RegionRepository) GetByID(ctx context.Context, id string) (*models.HealthAdministration, error) {
	query := regionSelect + ` WHERE ha.id = $1`
	var item models.HealthAdministration
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get region: %w", err)
	}
	return &item, nil
}

// ExistsByName reports whether the governorate already has another region with the name.
func (r *RegionRepository) ExistsByName(ctx context.Context, name, governorateID, excludeID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM health_administrations WHERE LOWER(name) = LOWER($1) AND governorate_id = $2 AND ($3 = '' OR id::text <> $3))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, governorateID, excludeID); err != nil {
		return false, fmt.Errorf("check region name: %w", err)
	}
	return exists, nil
}

// Create inserts a region.
func (r *RegionRepository) Create(ctx context.Context, item *models.HealthAdministration) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO health_administrations (id, name, description, governorate_id, created_at) VALUES (:id, :name, :description, :governorate_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create region: %w", err)
	}
	return nil
}

// Update rewrites a region's name, description and governorate.
func (r *RegionRepository) Update(ctx context.Context, item *models.HealthAdministration) error {
	const query = `UPDATE health_administrations SET name = :name, description = :description, governorate_id = :governorate_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update region: %w", err)
	}
	return nil
}

// Delete removes a region.
func (r *RegionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM health_administrations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	return nil
}

// CountUsers returns the number of users assigned to the region.
func (r *RegionRepository) CountUsers(ctx context.Context, id string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users WHERE assigned_region = $1`, id); err != nil {
		return 0, fmt.Errorf("count region users: %w", err)
	}
	return total, nil
}
