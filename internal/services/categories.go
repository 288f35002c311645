package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
	applog "moneyrec/internal/log"
)

// CategoryService owns category writes. Deleting a category that still
// has transactions requires a replacement to take them over, and the
// last category of a type can never be removed.
type CategoryService struct {
	store     ledger.Store
	publisher ChangePublisher
}

func NewCategoryService(store ledger.Store, publisher ChangePublisher) *CategoryService {
	return &CategoryService{store: store, publisher: publisher}
}

func (s *CategoryService) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.Categories(ctx)
}

func (s *CategoryService) CategoriesByType(ctx context.Context, t core.CategoryType) ([]core.Category, error) {
	return s.store.CategoriesByType(ctx, t)
}

func (s *CategoryService) Save(ctx context.Context, c *core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.IconCode == "" {
		c.IconCode = core.DefaultCategoryIcon
	}

	op := applog.OpUpdate
	if c.ID == 0 {
		op = applog.OpCreate
	}
	if err := s.store.SaveCategory(ctx, c); err != nil {
		return fmt.Errorf("save category: %w", err)
	}

	s.publish(ctx, op, c.ID)
	return nil
}

// Delete removes a category. replacementID receives the deleted
// category's transactions; it must share the same type and is required
// only when transactions exist.
func (s *CategoryService) Delete(ctx context.Context, id int64, replacementID int64) error {
	category, err := s.store.Category(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load category: %w", err)
	}

	siblings, err := s.store.CategoriesByType(ctx, category.Type)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	if len(siblings) <= 1 {
		return core.ErrLastCategory
	}

	hasTransactions, err := s.store.CategoryHasTransactions(ctx, id)
	if err != nil {
		return fmt.Errorf("check category transactions: %w", err)
	}
	if hasTransactions {
		if replacementID == 0 || replacementID == id {
			return core.ErrMissingCategory
		}
		replacement, err := s.store.Category(ctx, replacementID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return core.ErrMissingCategory
			}
			return fmt.Errorf("load replacement category: %w", err)
		}
		if replacement.Type != category.Type {
			return core.ErrInvalidType
		}

		moved, err := s.store.ReassignCategory(ctx, id, replacementID)
		if err != nil {
			return fmt.Errorf("reassign transactions: %w", err)
		}
		slog.InfoContext(ctx, "Reassigned transactions to replacement category",
			"from", id, "to", replacementID, "moved", moved)
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.publish(ctx, applog.OpDelete, id)
	return nil
}

func (s *CategoryService) publish(ctx context.Context, op string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, "category", op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish category change",
			applog.NewFields().WithEntity("category", id).WithOperation(op).WithError(err).ToSlice()...)
	}
}
