package sales

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence.
// Orders are loaded with their items.
type OrderRepository interface {
	shared.CrudRepository[Order]

	// FindByNumber finds an order by its public number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindCreatedBetween returns orders created in [from, to), restricted by filter equality filters
	FindCreatedBetween(ctx context.Context, filter shared.Filter, from, to time.Time) ([]Order, error)

	// Place inserts a new order and takes each item's quantity out of product
	// stock in one transaction. When a product no longer has enough units
	// nothing is written and the error matches shared.ErrOutOfStock.
	Place(ctx context.Context, order *Order) error
}
