package worklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockroom-backend/pkg/db/models"
	pkgerrors "stockroom-backend/pkg/errors"
)

// Service manages a user's pre-commit working list.
type Service interface {
	AddLine(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*Line, error)
	GetLines(ctx context.Context, userID int64) ([]Line, error)
	Department(ctx context.Context, userID int64) (*int, error)
	UpdateLineQuantity(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, userID int64, productID uuid.UUID) error
	Clear(ctx context.Context, userID int64) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productReader
}

// NewService constructs a working list service.
func NewService(repo *Repository, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("worklist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products}, nil
}

// AddLine puts quantity units of a product on the user's list. Quantities
// for a product already listed accumulate. A list only ever spans one
// department; the first line pins it.
func (s *service) AddLine(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*Line, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is no longer available")
	}

	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading working list")
	}

	if dept := departmentOf(lines); dept != nil && *dept != product.Department {
		return nil, pkgerrors.New(pkgerrors.CodeDepartmentMismatch,
			"working list is pinned to another department").
			WithDetails(map[string]int{
				"list_department":    *dept,
				"product_department": product.Department,
			})
	}

	for _, existing := range lines {
		if existing.ProductID == productID {
			newQty := existing.Quantity + quantity
			if err := s.repo.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating line quantity")
			}
			existing.Quantity = newQty
			existing.Product = product
			line := lineFromModel(existing)
			return &line, nil
		}
	}

	item := &models.WorkListItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.repo.CreateLine(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating line")
	}
	item.Product = product
	line := lineFromModel(*item)
	return &line, nil
}

// GetLines returns a snapshot of the user's list in insertion order.
func (s *service) GetLines(ctx context.Context, userID int64) ([]Line, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading working list")
	}
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, lineFromModel(item))
	}
	return lines, nil
}

// Department reports the department the list is pinned to, nil when empty.
func (s *service) Department(ctx context.Context, userID int64) (*int, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading working list")
	}
	return departmentOf(items), nil
}

// UpdateLineQuantity overwrites the quantity of an existing line.
func (s *service) UpdateLineQuantity(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*Line, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	item, err := s.repo.FindLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading line")
	}

	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating line quantity")
	}
	item.Quantity = quantity

	if product, perr := s.products.FindByID(ctx, productID); perr == nil {
		item.Product = product
	}
	line := lineFromModel(*item)
	return &line, nil
}

// RemoveLine deletes one line from the list.
func (s *service) RemoveLine(ctx context.Context, userID int64, productID uuid.UUID) error {
	removed, err := s.repo.DeleteLine(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing line")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line not found")
	}
	return nil
}

// Clear drops the whole list. Clearing an empty list succeeds.
func (s *service) Clear(ctx context.Context, userID int64) error {
	if err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing working list")
	}
	return nil
}

// departmentOf picks the pinned department from loaded lines, nil when the
// list is empty. Lines always share one department, so any line works.
func departmentOf(items []models.WorkListItem) *int {
	for _, item := range items {
		if item.Product != nil {
			dept := item.Product.Department
			return &dept
		}
	}
	return nil
}
