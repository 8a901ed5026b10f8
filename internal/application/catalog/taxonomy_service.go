package catalog

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	resourceColor    = "color"
	resourceMaterial = "material"
	resourceDiscount = "discount"
)

func taxonomyFilter(q TaxonomyListFilter, defaultOrderBy, defaultOrderDir string) shared.Filter {
	f := q.PageQuery.Filter(defaultOrderBy, defaultOrderDir)
	if q.IsActive != nil {
		f.Filters["is_active"] = *q.IsActive
	}
	return f
}

// ColorService handles color business operations
type ColorService struct {
	repo     catalog.ColorRepository
	recorder appaudit.Recorder
	logger   *zap.Logger
}

// NewColorService creates a new ColorService
func NewColorService(repo catalog.ColorRepository, recorder appaudit.Recorder, logger *zap.Logger) *ColorService {
	return &ColorService{repo: repo, recorder: recorder, logger: logger}
}

// List returns a page of colors
func (s *ColorService) List(ctx context.Context, filter TaxonomyListFilter) ([]ColorResponse, int64, error) {
	f := taxonomyFilter(filter, "name", "asc")
	colors, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ColorResponse, len(colors))
	for i := range colors {
		out[i] = ToColorResponse(&colors[i])
	}
	return out, total, nil
}

// GetByID returns a color by id
func (s *ColorService) GetByID(ctx context.Context, id uuid.UUID) (*ColorResponse, error) {
	color, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToColorResponse(color)
	return &resp, nil
}

// Create creates a new color
func (s *ColorService) Create(ctx context.Context, req ColorRequest) (*ColorResponse, error) {
	color, err := catalog.NewColor(req.Name, req.HexCode)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, color); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, resourceColor, color.ID.String(), req)
	resp := ToColorResponse(color)
	return &resp, nil
}

// Update updates an existing color
func (s *ColorService) Update(ctx context.Context, id uuid.UUID, req ColorRequest) (*ColorResponse, error) {
	color, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := color.Update(req.Name, req.HexCode); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, color); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceColor, id.String(), req)
	resp := ToColorResponse(color)
	return &resp, nil
}

// ToggleActive flips the active flag of a color
func (s *ColorService) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	color, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := color.ToggleActive()
	if err := s.repo.Save(ctx, color); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionToggle, resourceColor, id.String(), map[string]any{"is_active": value})
	return &ToggleResponse{ID: id, Field: "is_active", Value: value}, nil
}

// Delete deletes a color
func (s *ColorService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, resourceColor, id.String(), nil)
	return nil
}

// MaterialService handles material business operations
type MaterialService struct {
	repo     catalog.MaterialRepository
	recorder appaudit.Recorder
	logger   *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(repo catalog.MaterialRepository, recorder appaudit.Recorder, logger *zap.Logger) *MaterialService {
	return &MaterialService{repo: repo, recorder: recorder, logger: logger}
}

// List returns a page of materials
func (s *MaterialService) List(ctx context.Context, filter TaxonomyListFilter) ([]MaterialResponse, int64, error) {
	f := taxonomyFilter(filter, "name", "asc")
	materials, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MaterialResponse, len(materials))
	for i := range materials {
		out[i] = ToMaterialResponse(&materials[i])
	}
	return out, total, nil
}

// GetByID returns a material by id
func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// Create creates a new material
func (s *MaterialService) Create(ctx context.Context, req MaterialRequest) (*MaterialResponse, error) {
	material, err := catalog.NewMaterial(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, resourceMaterial, material.ID.String(), map[string]any{"name": material.Name})
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// Update updates an existing material
func (s *MaterialService) Update(ctx context.Context, id uuid.UUID, req MaterialRequest) (*MaterialResponse, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceMaterial, id.String(), map[string]any{"name": material.Name})
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// ToggleActive flips the active flag of a material
func (s *MaterialService) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := material.ToggleActive()
	if err := s.repo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionToggle, resourceMaterial, id.String(), map[string]any{"is_active": value})
	return &ToggleResponse{ID: id, Field: "is_active", Value: value}, nil
}

// Delete deletes a material
func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, resourceMaterial, id.String(), nil)
	return nil
}

// DiscountService handles discount business operations
type DiscountService struct {
	repo        catalog.DiscountRepository
	productRepo catalog.ProductRepository
	recorder    appaudit.Recorder
	logger      *zap.Logger
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(
	repo catalog.DiscountRepository,
	productRepo catalog.ProductRepository,
	recorder appaudit.Recorder,
	logger *zap.Logger,
) *DiscountService {
	return &DiscountService{repo: repo, productRepo: productRepo, recorder: recorder, logger: logger}
}

// List returns a page of discounts
func (s *DiscountService) List(ctx context.Context, filter TaxonomyListFilter) ([]DiscountResponse, int64, error) {
	f := taxonomyFilter(filter, "percentage", "asc")
	discounts, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]DiscountResponse, len(discounts))
	for i := range discounts {
		out[i] = ToDiscountResponse(&discounts[i])
	}
	return out, total, nil
}

// GetByID returns a discount by id
func (s *DiscountService) GetByID(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(discount)
	return &resp, nil
}

// Create creates a new discount. An empty label becomes "<percentage>%".
func (s *DiscountService) Create(ctx context.Context, req DiscountRequest) (*DiscountResponse, error) {
	discount, err := catalog.NewDiscount(req.Percentage, req.Label)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, discount); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, resourceDiscount, discount.ID.String(),
		map[string]any{"percentage": discount.Percentage, "label": discount.Label})
	resp := ToDiscountResponse(discount)
	return &resp, nil
}

// Update updates an existing discount
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req DiscountRequest) (*DiscountResponse, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := discount.Update(req.Percentage, req.Label); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, discount); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceDiscount, id.String(),
		map[string]any{"percentage": discount.Percentage, "label": discount.Label})
	resp := ToDiscountResponse(discount)
	return &resp, nil
}

// ToggleActive flips the active flag of a discount
func (s *DiscountService) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := discount.ToggleActive()
	if err := s.repo.Save(ctx, discount); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionToggle, resourceDiscount, id.String(), map[string]any{"is_active": value})
	return &ToggleResponse{ID: id, Field: "is_active", Value: value}, nil
}

// Delete deletes a discount that no product references
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.productRepo.Count(ctx, shared.DefaultFilter().With("discount_id", id))
	if err != nil {
		return err
	}
	if inUse > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code, "Discount is attached to products")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, resourceDiscount, id.String(), nil)
	return nil
}
