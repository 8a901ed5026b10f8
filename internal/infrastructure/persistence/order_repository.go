package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	gormCrud[sales.Order]
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{newGormCrud[sales.Order](db, queryOptions{
		searchColumns: []string{"number", "customer_name", "customer_email"},
		sortFields:    OrderSortFields,
		filterColumns: map[string]string{
			"vendor_id":      "vendor_id",
			"customer_id":    "customer_id",
			"status":         "status",
			"payment_method": "payment_method",
		},
		customFilter: orderFilter,
		preload:      []string{"Items"},
	})}
}

// FindByNumber finds an order by its public number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*sales.Order, error) {
	var order sales.Order
	if err := r.read(ctx).Where("number = ?", number).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// FindCreatedBetween returns orders created in [from, to) honouring the filter's equality filters
func (r *GormOrderRepository) FindCreatedBetween(ctx context.Context, filter shared.Filter, from, to time.Time) ([]sales.Order, error) {
	var orders []sales.Order
	filter.Search = ""
	query := r.applyFilterWithoutPagination(r.read(ctx).Model(&sales.Order{}), filter).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order together with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// Place inserts the order and decrements stock with a conditional update per
// item, so concurrent checkouts cannot sell the same unit twice. Only stock and
// trending_score are written; other product columns keep concurrent edits.
func (r *GormOrderRepository) Place(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, item := range order.Items {
			result := tx.Model(&catalog.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Updates(map[string]any{
					"stock":          gorm.Expr("stock - ?", item.Quantity),
					"trending_score": gorm.Expr("trending_score + ?", item.Quantity),
					"updated_at":     now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewDomainError(shared.ErrOutOfStock.Code,
					fmt.Sprintf("Not enough %s left in stock", item.Name))
			}
		}
		return tx.Create(order).Error
	})
}

// Delete removes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&sales.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&sales.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func orderFilter(query *gorm.DB, key string, value any) (*gorm.DB, bool) {
	switch key {
	case "created_from":
		return query.Where("created_at >= ?", value), true
	case "created_to":
		return query.Where("created_at < ?", value), true
	}
	return query, false
}

// Ensure GormOrderRepository implements OrderRepository
var _ sales.OrderRepository = (*GormOrderRepository)(nil)
