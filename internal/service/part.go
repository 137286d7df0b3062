package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

var (
	ErrPartNameRequired = errors.New("part name is required")
	ErrBadPrice         = errors.New("price must be a non-negative integer")
	ErrBadStock         = errors.New("stock must be a non-negative integer")
)

// PartStore persists warehouse parts.
type PartStore interface {
	List(ctx context.Context) ([]models.Part, error)
	Create(ctx context.Context, part models.Part) (*models.Part, error)
}

// PartService handles the warehouse inventory forms.
type PartService struct {
	parts PartStore
}

// NewPartService creates a new part service
func NewPartService(parts PartStore) *PartService {
	return &PartService{parts: parts}
}

// CreatePart creates a warehouse part from raw form input. Price and stock
// must parse as non-negative integers; anything else re-presents the form.
func (s *PartService) CreatePart(ctx context.Context, req models.PartRequest) (*models.Part, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPartNameRequired
	}

	price, err := strconv.ParseInt(strings.TrimSpace(req.Price), 10, 64)
	if err != nil || price < 0 {
		return nil, ErrBadPrice
	}

	stock, err := strconv.Atoi(strings.TrimSpace(req.Stock))
	if err != nil || stock < 0 {
		return nil, ErrBadStock
	}

	part := models.Part{
		Name:  name,
		Price: price,
		Stock: stock,
	}

	created, err := s.parts.Create(ctx, part)
	if err != nil {
		return nil, fmt.Errorf("failed to create part: %w", err)
	}
	return created, nil
}

// ListParts lists the warehouse inventory
func (s *PartService) ListParts(ctx context.Context) ([]models.Part, error) {
	return s.parts.List(ctx)
}
