package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormHomePageRepository_Upsert(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormHomePageRepository(db)
	ctx := context.Background()

	section, err := content.Decode(content.SectionNewsletter, []byte(`{"title":"First"}`))
	require.NoError(t, err)
	row, err := content.NewHomePageContent(content.SectionNewsletter, section)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, row))
	firstID := row.ID

	section.(*content.Newsletter).Title = "Second"
	again, err := content.NewHomePageContent(content.SectionNewsletter, section)
	require.NoError(t, err)
	again.Order = 42
	require.NoError(t, repo.Upsert(ctx, again))

	assert.Equal(t, firstID, again.ID, "existing row is updated in place")
	assert.Equal(t, 42, again.Order)

	rows, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	loaded, err := rows[0].Section()
	require.NoError(t, err)
	assert.Equal(t, "Second", loaded.(*content.Newsletter).Title)

	require.NoError(t, repo.DeleteByKey(ctx, content.SectionNewsletter))
	_, err = repo.FindByKey(ctx, content.SectionNewsletter)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormOrderRepository_RoundTrip(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	vendorID := uuid.New()
	lat := 52.52
	order, err := sales.NewOrder(uuid.New(), vendorID,
		valueobject.Address{Line1: "Alexanderplatz 1", City: "Berlin", Country: "DE", Latitude: &lat},
		sales.PaymentMethodCard)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(uuid.New(), "Shirt", "SH-1", 2, decimal.NewFromInt(20), decimal.NewFromInt(15)))
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.TransitionTo(sales.OrderStatusConfirmed))
	require.NoError(t, repo.Save(ctx, order))

	loaded, err := repo.FindByNumber(ctx, order.Number)
	require.NoError(t, err)
	assert.Equal(t, sales.OrderStatusConfirmed, loaded.Status)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, "30.00", loaded.Total.StringFixed(2))
	assert.Equal(t, "Berlin", loaded.ShippingAddress.City)
	require.NotNil(t, loaded.ShippingAddress.Latitude)
	assert.InDelta(t, 52.52, *loaded.ShippingAddress.Latitude, 1e-9)

	now := time.Now()
	between, err := repo.FindCreatedBetween(ctx, shared.Filter{Filters: map[string]any{"vendor_id": vendorID}}, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, between, 1)

	none, err := repo.FindCreatedBetween(ctx, shared.Filter{Filters: map[string]any{"vendor_id": uuid.New()}}, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.Delete(ctx, order.ID))
	_, err = repo.FindByID(ctx, order.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormOrderRepository_PlaceDecrementsStockOnce(t *testing.T) {
	db := newSQLiteDB(t)
	orders := NewGormOrderRepository(db)
	products := NewGormProductRepository(db)
	ctx := context.Background()

	product, err := catalog.NewProduct(uuid.New(), "Lamp", "LAMP-1", decimal.NewFromInt(40))
	require.NoError(t, err)
	require.NoError(t, product.SetStock(1))
	require.NoError(t, products.Save(ctx, product))

	// both checkouts read stock=1 before either places its order
	newOrder := func() *sales.Order {
		o, err := sales.NewOrder(uuid.New(), product.VendorID,
			valueobject.Address{Line1: "Main St 1", City: "Porto", Country: "PT"}, sales.PaymentMethodCard)
		require.NoError(t, err)
		require.NoError(t, o.AddItem(product.ID, product.Name, product.SKU, 1, product.Price, product.Price))
		return o
	}
	placing := []*sales.Order{newOrder(), newOrder()}

	// an admin edit made after the checkouts read the product
	require.NoError(t, db.Model(&catalog.Product{}).Where("id = ?", product.ID).Update("name", "Desk Lamp").Error)

	errs := make([]error, len(placing))
	var wg sync.WaitGroup
	for i, o := range placing {
		wg.Add(1)
		go func(i int, o *sales.Order) {
			defer wg.Done()
			errs[i] = orders.Place(ctx, o)
		}(i, o)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, shared.ErrOutOfStock)
	}
	assert.Equal(t, 1, succeeded)

	count, err := orders.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "the losing order is rolled back")

	loaded, err := products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Stock)
	assert.Equal(t, 1, loaded.TrendingScore)
	assert.Equal(t, "Desk Lamp", loaded.Name)
}

func TestGormAdminLogRepository_FilterByResource(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormAdminLogRepository(db)
	ctx := context.Background()

	actor := audit.Actor{Email: "admin@shop.test"}
	for _, resource := range []string{"product", "product", "color"} {
		entry, err := audit.NewAdminLog(actor, audit.ActionUpdate, resource, "x", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))
	}

	filter := shared.DefaultFilter().With("resource", "product")
	logs, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	n, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestGormPaymentSettingsRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormPaymentSettingsRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	_, err := repo.FindByVendor(ctx, vendorID)
	assert.Equal(t, shared.ErrNotFound, err)

	s := settings.DefaultPaymentSettings(vendorID)
	require.NoError(t, s.Update("Bank", "Ada", "", settings.PayoutWeekly, true, false))
	require.NoError(t, repo.Save(ctx, s))

	loaded, err := repo.FindByVendor(ctx, vendorID)
	require.NoError(t, err)
	assert.True(t, loaded.CashOnDelivery)
	assert.False(t, loaded.CardPayments)
	assert.Equal(t, settings.PayoutWeekly, loaded.PayoutSchedule)
}

func TestGormCategoryRepository_TreeQueries(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormCategoryRepository(db)
	products := NewGormProductRepository(db)
	ctx := context.Background()

	root, err := catalog.NewCategory("Women", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, root))
	child, err := catalog.NewCategory("Dresses", &root.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, child))

	has, err := repo.HasChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, has)

	p, err := catalog.NewProduct(uuid.New(), "Maxi", "MAXI", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, p.Update(p.Name, "", &child.ID))
	require.NoError(t, products.Save(ctx, p))

	used, err := repo.HasProducts(ctx, child.ID)
	require.NoError(t, err)
	assert.True(t, used)

	bySlug, err := repo.FindBySlug(ctx, "dresses")
	require.NoError(t, err)
	assert.Equal(t, child.ID, bySlug.ID)

	roots, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]any{"parent_id": nil}})
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID, roots[0].ID)
}
