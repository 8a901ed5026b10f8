package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Review is a customer rating of a product. Only approved reviews are public.
type Review struct {
	shared.BaseEntity
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorName string    `gorm:"type:varchar(100)"`
	Rating     int       `gorm:"not null"`
	Title      string    `gorm:"type:varchar(200)"`
	Body       string    `gorm:"type:text"`
	IsApproved bool      `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a pending review
func NewReview(productID, userID uuid.UUID, authorName string, rating int, title, body string) (*Review, error) {
	if productID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REVIEW", "Product and user are required")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	title = strings.TrimSpace(title)
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_REVIEW", "Title cannot exceed 200 characters")
	}
	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		UserID:     userID,
		AuthorName: strings.TrimSpace(authorName),
		Rating:     rating,
		Title:      title,
		Body:       strings.TrimSpace(body),
	}, nil
}

// ToggleApproved flips moderation state and returns the new value
func (r *Review) ToggleApproved() bool {
	r.IsApproved = !r.IsApproved
	r.Touch()
	return r.IsApproved
}
