package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// withTimeout bounds ctx by d; a non-positive d only adds cancellation
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// timeoutErr reports an expired deadline as TIMEOUT and passes other errors through
func timeoutErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return shared.ErrTimeout
	}
	return err
}
