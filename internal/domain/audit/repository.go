package audit

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// AdminLogRepository defines the interface for admin log persistence.
// Entries are append-only.
type AdminLogRepository interface {
	Create(ctx context.Context, log *AdminLog) error
	FindAll(ctx context.Context, filter shared.Filter) ([]AdminLog, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
