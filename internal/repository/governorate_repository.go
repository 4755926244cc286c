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

// GovernorateRepository persists governorates and their health administrations.
type GovernorateRepository struct {
	db *sqlx.DB
}

// NewGovernorateRepository constructs the repository.
func NewGovernorateRepository(db *sqlx.DB) *GovernorateRepository {
	return &GovernorateRepository{db: db}
}

// List returns all governorates with the number of regions each owns.
func (r *GovernorateRepository) List(ctx context.Context) ([]models.GovernorateSummary, error) {
	const query = `SELECT g.id, g.name, g.description, g.created_at, COUNT(ha.id) AS region_count
FROM governorates g
LEFT JOIN health_administrations ha ON ha.governorate_id = g.id
GROUP BY g.id
ORDER BY g.name ASC`
	items := []models.GovernorateSummary{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list governorates: %w", err)
	}
	return items, nil
}

// GetByID returns a governorate by id.
func (r *GovernorateRepository) GetByID(ctx context.Context, id string) (*models.Governorate, error) {
	const query = `SELECT id, name, description, created_at FROM governorates WHERE id = $1`
	var item models.Governorate
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get governorate: %w", err)
	}
	return &item, nil
}

// GetByAdmin returns the governorate a governorate admin is linked to.
func (r *GovernorateRepository) GetByAdmin(ctx context.Context, userID string) (*models.Governorate, error) {
	const query = `SELECT g.id, g.name, g.description, g.created_at
FROM governorate_admins ga
JOIN governorates g ON g.id = ga.governorate_id
WHERE ga.user_id = $1`
	var item models.Governorate
	if err := r.db.GetContext(ctx, &item, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get admin governorate: %w", err)
	}
	return &item, nil
}

// ExistsByName reports whether a governorate other than excludeID uses the name.
func (r *GovernorateRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM governorates WHERE LOWER(name) = LOWER($1) AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, fmt.Errorf("check governorate name: %w", err)
	}
	return exists, nil
}

// Create inserts a governorate.
func (r *GovernorateRepository) Create(ctx context.Context, item *models.Governorate) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO governorates (id, name, description, created_at) VALUES (:id, :name, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create governorate: %w", err)
	}
	return nil
}

// Update rewrites name and description.
func (r *GovernorateRepository) Update(ctx context.Context, item *models.Governorate) error {
	const query = `UPDATE governorates SET name = :name, description = :description WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update governorate: %w", err)
	}
	return nil
}

// Delete removes a governorate.
func (r *GovernorateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM governorates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete governorate: %w", err)
	}
	return nil
}

// CountRegions returns the number of health administrations in a governorate.
func (r *GovernorateRepository) CountRegions(ctx context.Context, id string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM health_administrations WHERE governorate_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count governorate regions: %w", err)
	}
	return total, nil
}
