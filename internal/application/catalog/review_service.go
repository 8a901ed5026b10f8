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

const resourceReview = "review"

// ReviewService handles product reviews and their moderation
type ReviewService struct {
	repo        catalog.ReviewRepository
	productRepo catalog.ProductRepository
	recorder    appaudit.Recorder
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(repo catalog.ReviewRepository, productRepo catalog.ProductRepository, recorder appaudit.Recorder, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, productRepo: productRepo, recorder: recorder, logger: logger}
}

// List returns reviews for moderation
func (s *ReviewService) List(ctx context.Context, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	f := filter.PageQuery.Filter("created_at", "desc")
	if filter.ProductID != nil {
		f.Filters["product_id"] = *filter.ProductID
	}
	if filter.IsApproved != nil {
		f.Filters["is_approved"] = *filter.IsApproved
	}
	if filter.Rating != nil {
		f.Filters["rating"] = *filter.Rating
	}
	return s.list(ctx, f)
}

// ListForProduct returns the approved reviews of a product
func (s *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID, query shared.PageQuery) ([]ReviewResponse, int64, error) {
	f := query.Filter("created_at", "desc").With("product_id", productID).With("is_approved", true)
	return s.list(ctx, f)
}

func (s *ReviewService) list(ctx context.Context, f shared.Filter) ([]ReviewResponse, int64, error) {
	reviews, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i])
	}
	return out, total, nil
}

// Create submits a review for an active product. Reviews start unapproved.
func (s *ReviewService) Create(ctx context.Context, productID, userID uuid.UUID, authorName string, req CreateReviewRequest) (*ReviewResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.ErrNotFound
	}

	review, err := catalog.NewReview(productID, userID, authorName, req.Rating, req.Title, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Info("Review submitted", zap.String("review_id", review.ID.String()), zap.String("product_id", productID.String()))
	resp := ToReviewResponse(review)
	return &resp, nil
}

// ToggleApproved flips the moderation state of a review
func (s *ReviewService) ToggleApproved(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := review.ToggleApproved()
	if err := s.repo.Save(ctx, review); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionToggle, resourceReview, id.String(), map[string]any{"is_approved": value})
	return &ToggleResponse{ID: id, Field: "is_approved", Value: value}, nil
}

// Delete removes a review
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, resourceReview, id.String(), nil)
	return nil
}
