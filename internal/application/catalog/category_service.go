package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const resourceCategory = "category"

// CategoryService handles category business operations
type CategoryService struct {
	repo     catalog.CategoryRepository
	recorder appaudit.Recorder
	logger   *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo catalog.CategoryRepository, recorder appaudit.Recorder, logger *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, recorder: recorder, logger: logger}
}

// List returns a page of categories
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := filter.PageQuery.Filter("sort_order", "asc")
	if filter.RootOnly {
		domainFilter.Filters["parent_id"] = nil
	} else if filter.ParentID != nil {
		domainFilter.Filters["parent_id"] = *filter.ParentID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	categories, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCategoryResponses(categories), total, nil
}

// Tree returns all categories arranged as a forest. activeOnly hides inactive
// categories and, with them, their subtrees.
func (s *CategoryService) Tree(ctx context.Context, activeOnly bool) ([]CategoryTreeNode, error) {
	filter := shared.Filter{Filters: make(map[string]any), OrderBy: "sort_order", OrderDir: "asc"}
	if activeOnly {
		filter.Filters["is_active"] = true
	}
	categories, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	roots := catalog.BuildCategoryTree(categories)
	if activeOnly {
		// an active child of an inactive parent must not surface as a root
		kept := roots[:0]
		for _, n := range roots {
			if n.Category.ParentID == nil {
				kept = append(kept, n)
			}
		}
		roots = kept
	}
	return toCategoryTree(roots), nil
}

// GetByID returns a category by id
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}
	}

	category, err := catalog.NewCategory(req.Name, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.ImageURL, req.SortOrder); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, category.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, resourceCategory, category.ID.String(), map[string]any{"name": category.Name})

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("slug", category.Slug))
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, imageURL, sortOrder := category.Name, category.ImageURL, category.SortOrder
	if req.Name != nil {
		name = *req.Name
	}
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := category.Update(name, imageURL, sortOrder); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, category.Slug, category.ID); err != nil {
		return nil, err
	}

	switch {
	case req.ClearParent:
		if err := category.SetParent(nil); err != nil {
			return nil, err
		}
	case req.ParentID != nil:
		if err := s.checkParent(ctx, category.ID, *req.ParentID); err != nil {
			return nil, err
		}
		if err := category.SetParent(req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceCategory, category.ID.String(), req)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// ToggleActive flips the active flag of a category
func (s *CategoryService) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := category.ToggleActive()
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionToggle, resourceCategory, id.String(), map[string]any{"is_active": value})
	return &ToggleResponse{ID: id, Field: "is_active", Value: value}, nil
}

// Delete deletes a category that has neither children nor products
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError(shared.ErrHasDependents.Code, "Category has sub-categories")
	}
	hasProducts, err := s.repo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewDomainError(shared.ErrHasDependents.Code, "Category still has products")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, resourceCategory, id.String(), map[string]any{"name": category.Name})
	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *CategoryService) ensureUniqueSlug(ctx context.Context, slug string, self uuid.UUID) error {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, "A category with this name already exists")
	}
	return nil
}

// checkParent rejects unknown parents and moves that would create a cycle
func (s *CategoryService) checkParent(ctx context.Context, id, parentID uuid.UUID) error {
	seen := map[uuid.UUID]bool{}
	current := parentID
	for {
		if current == id {
			return shared.NewDomainError("INVALID_PARENT", "A category cannot be moved under its own subtree")
		}
		if seen[current] {
			return nil
		}
		seen[current] = true

		parent, err := s.repo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}
