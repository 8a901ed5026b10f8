package identity

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	shared.CrudRepository[User]

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if the email is taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	shared.CrudRepository[Vendor]
}
