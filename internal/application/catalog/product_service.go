package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const resourceProduct = "product"

// ProductService handles product business operations for the back-office and the storefront
type ProductService struct {
	repo         catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	discountRepo catalog.DiscountRepository
	reviewRepo   catalog.ReviewRepository
	recorder     appaudit.Recorder
	importCfg    ImportConfig
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	repo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	discountRepo catalog.DiscountRepository,
	reviewRepo catalog.ReviewRepository,
	recorder appaudit.Recorder,
	importCfg ImportConfig,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		discountRepo: discountRepo,
		reviewRepo:   reviewRepo,
		recorder:     recorder,
		importCfg:    importCfg,
		logger:       logger,
	}
}

func (f ProductListFilter) toDomain() shared.Filter {
	df := f.PageQuery.Filter("created_at", "desc")
	if f.CategoryID != nil {
		df.Filters["category_id"] = *f.CategoryID
	}
	if f.VendorID != nil {
		df.Filters["vendor_id"] = *f.VendorID
	}
	if f.IsActive != nil {
		df.Filters["is_active"] = *f.IsActive
	}
	if f.IsFeatured != nil {
		df.Filters["is_featured"] = *f.IsFeatured
	}
	if f.LowStock {
		df.Filters["max_stock"] = catalog.DefaultLowStockThreshold
	}
	if f.MinPrice != nil {
		df.Filters["min_price"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		df.Filters["max_price"] = *f.MaxPrice
	}
	return df
}

// List returns a page of products visible in scope
func (s *ProductService) List(ctx context.Context, scope shared.Scope, filter ProductListFilter) ([]ProductResponse, int64, error) {
	return s.list(ctx, scope.Apply(filter.toDomain()))
}

// ListPublic returns a page of active products for the storefront
func (s *ProductService) ListPublic(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	return s.list(ctx, filter.toDomain().With("is_active", true))
}

func (s *ProductService) list(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.toResponses(ctx, products)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Trending returns the storefront's best sellers
func (s *ProductService) Trending(ctx context.Context, limit int) ([]ProductResponse, error) {
	products, err := s.repo.FindTrending(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, products)
}

// Featured returns up to limit active featured products
func (s *ProductService) Featured(ctx context.Context, limit int) ([]ProductResponse, error) {
	filter := shared.DefaultFilter().With("is_active", true).With("is_featured", true)
	filter.PageSize = limit
	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, products)
}

// CountLowStock counts active products at or below the low stock threshold
func (s *ProductService) CountLowStock(ctx context.Context) (int64, error) {
	filter := shared.DefaultFilter().
		With("is_active", true).
		With("max_stock", catalog.DefaultLowStockThreshold)
	return s.repo.Count(ctx, filter)
}

// GetByIDs returns active products in the order of ids, skipping unknown or inactive ones
func (s *ProductService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductResponse, error) {
	products, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		if p.IsActive {
			byID[p.ID] = p
		}
	}
	ordered := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return s.toResponses(ctx, ordered)
}

// Detail returns the storefront page of an active product
func (s *ProductService) Detail(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.ErrNotFound
	}
	avg, count, err := s.reviewRepo.RatingSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.toResponse(ctx, product)
	if err != nil {
		return nil, err
	}
	return &ProductDetailResponse{ProductResponse: *resp, AverageRating: avg, ReviewCount: count}, nil
}

// GetByID returns a product visible in scope
func (s *ProductService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, product)
}

// Create creates a new product. Sellers always create for their own vendor.
func (s *ProductService) Create(ctx context.Context, scope shared.Scope, req CreateProductRequest) (*ProductResponse, error) {
	product, err := s.create(ctx, scope, req)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, resourceProduct, product.ID.String(),
		map[string]any{"sku": product.SKU, "name": product.Name})
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.String("vendor_id", product.VendorID.String()))
	return s.toResponse(ctx, product)
}

func (s *ProductService) create(ctx context.Context, scope shared.Scope, req CreateProductRequest) (*catalog.Product, error) {
	vendorID, err := resolveVendor(scope, req.VendorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, fmt.Sprintf("SKU %s is already in use", req.SKU))
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.CategoryID, req.DiscountID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(vendorID, req.Name, req.SKU, req.Price)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, req.CategoryID); err != nil {
		return nil, err
	}
	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}
	product.SetDiscount(req.DiscountID)
	product.SetAttributes(req.ColorIDs, req.MaterialIDs)
	if req.IsFeatured {
		product.ToggleFeatured()
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update updates an existing product. The update is bounded by the configured update timeout.
func (s *ProductService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	ctx, cancel := withTimeout(ctx, s.importCfg.UpdateTimeout)
	defer cancel()

	product, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, timeoutErr(ctx, err)
	}

	name, description, categoryID := product.Name, product.Description, product.CategoryID
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.ClearCategory {
		categoryID = nil
	} else if req.CategoryID != nil {
		categoryID = req.CategoryID
	}
	if err := s.checkReferences(ctx, req.CategoryID, req.DiscountID); err != nil {
		return nil, timeoutErr(ctx, err)
	}
	if err := product.Update(name, description, categoryID); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.ClearDiscount {
		product.SetDiscount(nil)
	} else if req.DiscountID != nil {
		product.SetDiscount(req.DiscountID)
	}
	if req.ColorIDs != nil || req.MaterialIDs != nil {
		colors, materials := []uuid.UUID(product.ColorIDs), []uuid.UUID(product.MaterialIDs)
		if req.ColorIDs != nil {
			colors = *req.ColorIDs
		}
		if req.MaterialIDs != nil {
			materials = *req.MaterialIDs
		}
		product.SetAttributes(colors, materials)
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, timeoutErr(ctx, err)
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceProduct, id.String(), req)
	return s.toResponse(ctx, product)
}

// ToggleActive flips the active flag of a product
func (s *ProductService) ToggleActive(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ToggleResponse, error) {
	return s.toggle(ctx, scope, id, "is_active", (*catalog.Product).ToggleActive)
}

// ToggleFeatured flips the featured flag of a product
func (s *ProductService) ToggleFeatured(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ToggleResponse, error) {
	return s.toggle(ctx, scope, id, "is_featured", (*catalog.Product).ToggleFeatured)
}

func (s *ProductService) toggle(ctx context.Context, scope shared.Scope, id uuid.UUID, field string, flip func(*catalog.Product) bool) (*ToggleResponse, error) {
	product, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	value := flip(product)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionToggle, resourceProduct, id.String(), map[string]any{field: value})
	return &ToggleResponse{ID: id, Field: field, Value: value}, nil
}

// Delete deletes a product visible in scope
func (s *ProductService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	product, err := s.find(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, resourceProduct, id.String(), map[string]any{"sku": product.SKU})
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// Import creates products in bulk. Rows fail independently; the whole call
// is bounded by the import timeout and reports TIMEOUT when it runs out.
func (s *ProductService) Import(ctx context.Context, scope shared.Scope, req ImportProductsRequest) (*BulkResult, error) {
	if limit := s.importCfg.MaxItems; limit > 0 && len(req.Items) > limit {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS", fmt.Sprintf("At most %d products can be imported at once", limit))
	}

	ctx, cancel := withTimeout(ctx, s.importCfg.ImportTimeout)
	defer cancel()

	result := &BulkResult{Total: len(req.Items), Results: make([]BulkItemResult, 0, len(req.Items))}
	for i, item := range req.Items {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Product import aborted",
				zap.Int("processed", i),
				zap.Int("total", len(req.Items)),
				zap.Error(err))
			return nil, timeoutErr(ctx, err)
		}
		if item.VendorID == nil {
			item.VendorID = req.VendorID
		}

		product, err := s.create(ctx, scope, item)
		if err != nil {
			if ctx.Err() != nil {
				return nil, timeoutErr(ctx, err)
			}
			result.add(BulkItemResult{Index: i, SKU: item.SKU, Error: err.Error()})
			continue
		}
		result.add(BulkItemResult{Index: i, ID: &product.ID, SKU: product.SKU})
	}

	s.recorder.Record(ctx, audit.ActionImport, resourceProduct, "",
		map[string]any{"total": result.Total, "succeeded": result.Succeeded, "failed": result.Failed})
	s.logger.Info("Products imported",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}

// BulkUpdate changes price and stock of many products under the update timeout
func (s *ProductService) BulkUpdate(ctx context.Context, scope shared.Scope, req BulkUpdateRequest) (*BulkResult, error) {
	if limit := s.importCfg.MaxItems; limit > 0 && len(req.Items) > limit {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS", fmt.Sprintf("At most %d products can be updated at once", limit))
	}

	ctx, cancel := withTimeout(ctx, s.importCfg.UpdateTimeout)
	defer cancel()

	result := &BulkResult{Total: len(req.Items), Results: make([]BulkItemResult, 0, len(req.Items))}
	for i, item := range req.Items {
		if err := ctx.Err(); err != nil {
			return nil, timeoutErr(ctx, err)
		}
		id := item.ID
		err := s.applyBulkItem(ctx, scope, item)
		if err != nil && ctx.Err() != nil {
			return nil, timeoutErr(ctx, err)
		}
		entry := BulkItemResult{Index: i, ID: &id}
		if err != nil {
			entry.Error = err.Error()
		}
		result.add(entry)
	}

	s.recorder.Record(ctx, audit.ActionUpdate, resourceProduct, "",
		map[string]any{"bulk": true, "total": result.Total, "succeeded": result.Succeeded})
	return result, nil
}

func (s *ProductService) applyBulkItem(ctx context.Context, scope shared.Scope, item BulkUpdateItem) error {
	product, err := s.find(ctx, scope, item.ID)
	if err != nil {
		return err
	}
	if item.Price != nil {
		if err := product.SetPrice(*item.Price); err != nil {
			return err
		}
	}
	if item.Stock != nil {
		if err := product.SetStock(*item.Stock); err != nil {
			return err
		}
	}
	return s.repo.Save(ctx, product)
}

// find loads a product and hides products of other vendors
func (s *ProductService) find(ctx context.Context, scope shared.Scope, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(product.VendorID) {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (s *ProductService) checkReferences(ctx context.Context, categoryID, discountID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return err
		}
	}
	if discountID != nil {
		if _, err := s.discountRepo.FindByID(ctx, *discountID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_DISCOUNT", "Discount not found")
			}
			return err
		}
	}
	return nil
}

func (s *ProductService) toResponse(ctx context.Context, p *catalog.Product) (*ProductResponse, error) {
	out, err := s.toResponses(ctx, []catalog.Product{*p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// toResponses resolves discounts in one query and renders final prices
func (s *ProductService) toResponses(ctx context.Context, products []catalog.Product) ([]ProductResponse, error) {
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, p := range products {
		if p.DiscountID != nil && !seen[*p.DiscountID] {
			seen[*p.DiscountID] = true
			ids = append(ids, *p.DiscountID)
		}
	}

	discounts := make(map[uuid.UUID]*catalog.Discount, len(ids))
	if len(ids) > 0 {
		found, err := s.discountRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range found {
			discounts[found[i].ID] = &found[i]
		}
	}

	out := make([]ProductResponse, len(products))
	for i := range products {
		var discount *catalog.Discount
		if products[i].DiscountID != nil {
			discount = discounts[*products[i].DiscountID]
		}
		out[i] = ToProductResponse(&products[i], discount)
	}
	return out, nil
}

// resolveVendor picks the owning vendor: the seller's own, or the one an admin names
func resolveVendor(scope shared.Scope, requested *uuid.UUID) (uuid.UUID, error) {
	if scope.IsVendor() {
		return *scope.VendorID, nil
	}
	if requested == nil || *requested == uuid.Nil {
		return uuid.Nil, shared.NewDomainError("INVALID_VENDOR", "vendor_id is required")
	}
	return *requested, nil
}
