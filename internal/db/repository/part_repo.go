package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

// PartRepository handles warehouse part data access
type PartRepository struct {
	db *sqlx.DB
}

// NewPartRepository creates a new part repository
func NewPartRepository(db *sqlx.DB) *PartRepository {
	return &PartRepository{db: db}
}

// GetByID retrieves a part by ID
func (r *PartRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	query := `
		SELECT id, name, price, stock, created_at, updated_at
		FROM parts
		WHERE id = $1
	`

	var part models.Part
	err := r.db.GetContext(ctx, &part, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}

	return &part, nil
}

// List retrieves all parts
func (r *PartRepository) List(ctx context.Context) ([]models.Part, error) {
	query := `
		SELECT id, name, price, stock, created_at, updated_at
		FROM parts
		ORDER BY name ASC
	`

	var parts []models.Part
	err := r.db.SelectContext(ctx, &parts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}

	return parts, nil
}

// Create creates a new part
func (r *PartRepository) Create(ctx context.Context, part models.Part) (*models.Part, error) {
	query := `
		INSERT INTO parts (name, price, stock)
		VALUES ($1, $2, $3)
		RETURNING id, name, price, stock, created_at, updated_at
	`

	var createdPart models.Part
	err := r.db.GetContext(ctx, &createdPart, query, part.Name, part.Price, part.Stock)
	if err != nil {
		return nil, fmt.Errorf("failed to create part: %w", err)
	}

	return &createdPart, nil
}
