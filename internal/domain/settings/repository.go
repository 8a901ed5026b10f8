package settings

import (
	"context"

	"github.com/google/uuid"
)

// PaymentSettingsRepository defines the interface for payment settings persistence
type PaymentSettingsRepository interface {
	// FindByVendor returns shared.ErrNotFound when the vendor has no settings yet
	FindByVendor(ctx context.Context, vendorID uuid.UUID) (*PaymentSettings, error)

	// Save creates or updates the settings row
	Save(ctx context.Context, settings *PaymentSettings) error
}
