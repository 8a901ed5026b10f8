package identity

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/identity"
	"go.uber.org/zap"
)

const resourceVendor = "vendor"

// VendorService manages the brands selling through the storefront
type VendorService struct {
	repo     identity.VendorRepository
	recorder appaudit.Recorder
	logger   *zap.Logger
}

// NewVendorService creates a new VendorService
func NewVendorService(repo identity.VendorRepository, recorder appaudit.Recorder, logger *zap.Logger) *VendorService {
	return &VendorService{repo: repo, recorder: recorder, logger: logger}
}

// List returns a page of vendors
func (s *VendorService) List(ctx context.Context, filter VendorListFilter) ([]VendorResponse, int64, error) {
	f := filter.PageQuery.Filter("name", "asc")
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	vendors, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]VendorResponse, len(vendors))
	for i := range vendors {
		out[i] = ToVendorResponse(&vendors[i])
	}
	return out, total, nil
}

// GetByID returns one vendor
func (s *VendorService) GetByID(ctx context.Context, id uuid.UUID) (*VendorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorResponse(v)
	return &resp, nil
}

// Create registers a vendor
func (s *VendorService) Create(ctx context.Context, req VendorRequest) (*VendorResponse, error) {
	v, err := identity.NewVendor(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, resourceVendor, v.ID.String(), map[string]any{"name": v.Name})
	s.logger.Info("Vendor created", zap.String("vendor_id", v.ID.String()), zap.String("slug", v.Slug))
	resp := ToVendorResponse(v)
	return &resp, nil
}

// Update renames a vendor or changes its contact email
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, req VendorRequest) (*VendorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.Update(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceVendor, id.String(), map[string]any{"name": v.Name})
	resp := ToVendorResponse(v)
	return &resp, nil
}

// ToggleActive flips the active flag of a vendor
func (s *VendorService) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := v.ToggleActive()
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionToggle, resourceVendor, id.String(), map[string]any{"is_active": active})
	return &ToggleResponse{ID: id, Field: "is_active", Value: active}, nil
}
