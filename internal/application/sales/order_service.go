package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const resourceOrder = "order"

// InvoiceRenderer turns invoice data into a PDF document
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
}

// OrderService handles order business operations
type OrderService struct {
	repo         sales.OrderRepository
	productRepo  catalog.ProductRepository
	discountRepo catalog.DiscountRepository
	vendorRepo   identity.VendorRepository
	settingsRepo settings.PaymentSettingsRepository
	renderer     InvoiceRenderer
	recorder     appaudit.Recorder
	logger       *zap.Logger
	metrics      *telemetry.BusinessMetrics
}

// OrderServiceDeps groups the collaborators of OrderService
type OrderServiceDeps struct {
	Orders    sales.OrderRepository
	Products  catalog.ProductRepository
	Discounts catalog.DiscountRepository
	Vendors   identity.VendorRepository
	Settings  settings.PaymentSettingsRepository
	// Renderer may be nil when invoice printing is disabled
	Renderer InvoiceRenderer
	Recorder appaudit.Recorder
}

// NewOrderService creates a new OrderService
func NewOrderService(deps OrderServiceDeps, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:         deps.Orders,
		productRepo:  deps.Products,
		discountRepo: deps.Discounts,
		vendorRepo:   deps.Vendors,
		settingsRepo: deps.Settings,
		renderer:     deps.Renderer,
		recorder:     deps.Recorder,
		logger:       logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// List returns a page of orders visible in scope
func (s *OrderService) List(ctx context.Context, scope shared.Scope, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := filter.PageQuery.Filter("created_at", "desc")
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.PaymentMethod != "" {
		f.Filters["payment_method"] = filter.PaymentMethod
	}
	if filter.VendorID != nil {
		f.Filters["vendor_id"] = *filter.VendorID
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.CreatedFrom != nil {
		f.Filters["created_from"] = *filter.CreatedFrom
	}
	if filter.CreatedTo != nil {
		// Inclusive end day
		f.Filters["created_to"] = filter.CreatedTo.AddDate(0, 0, 1)
	}
	f = scope.Apply(f)

	orders, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// ListForCustomer returns the orders a customer placed
func (s *OrderService) ListForCustomer(ctx context.Context, customerID uuid.UUID, query shared.PageQuery) ([]OrderResponse, int64, error) {
	return s.List(ctx, shared.AdminScope(), OrderListFilter{PageQuery: query, CustomerID: &customerID})
}

// GetByID returns an order visible in scope
func (s *OrderService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdateStatus moves an order to a new status following the lifecycle table
func (s *OrderService) UpdateStatus(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	order, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.TransitionTo(sales.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if req.Note != "" {
		if order.Notes != "" {
			order.Notes += "\n"
		}
		order.Notes += req.Note
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActionStatusChange, resourceOrder, id.String(),
		map[string]any{"from": from, "to": order.Status, "number": order.Number})
	s.logger.Info("Order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", from.String()),
		zap.String("to", order.Status.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Checkout places the cart of a customer. One order is created per vendor.
// Each vendor's order is placed with its stock decrement in one transaction; a
// failure stops the checkout and returns the orders already placed alongside
// the error. The stock read here only rejects carts early, the decrement in
// Place is authoritative.
func (s *OrderService) Checkout(ctx context.Context, customer Customer, req CheckoutRequest) ([]OrderResponse, error) {
	method := sales.PaymentMethod(req.PaymentMethod)
	if err := req.ShippingAddress.Validate(); err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if _, ok := quantities[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	byVendor := make(map[uuid.UUID][]*catalog.Product)
	discountIDs := make([]uuid.UUID, 0)
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.IsActive {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", fmt.Sprintf("Product %s is not available", id))
		}
		if p.Stock < quantities[id] {
			return nil, shared.NewDomainError(shared.ErrOutOfStock.Code, fmt.Sprintf("Only %d of %s left in stock", p.Stock, p.Name))
		}
		byVendor[p.VendorID] = append(byVendor[p.VendorID], p)
		if p.DiscountID != nil {
			discountIDs = append(discountIDs, *p.DiscountID)
		}
	}

	discounts := make(map[uuid.UUID]*catalog.Discount)
	if len(discountIDs) > 0 {
		found, err := s.discountRepo.FindByIDs(ctx, discountIDs)
		if err != nil {
			return nil, err
		}
		for i := range found {
			discounts[found[i].ID] = &found[i]
		}
	}

	vendorIDs := make([]uuid.UUID, 0, len(byVendor))
	for vendorID := range byVendor {
		if err := s.checkPaymentMethod(ctx, vendorID, method); err != nil {
			return nil, err
		}
		vendorIDs = append(vendorIDs, vendorID)
	}
	sort.Slice(vendorIDs, func(i, j int) bool { return vendorIDs[i].String() < vendorIDs[j].String() })

	placed := make([]OrderResponse, 0, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		order, err := sales.NewOrder(customer.ID, vendorID, req.ShippingAddress, method)
		if err != nil {
			return placed, err
		}
		order.CustomerName = customer.Name
		order.CustomerEmail = customer.Email
		order.Notes = req.Notes

		for _, p := range byVendor[vendorID] {
			var discount *catalog.Discount
			if p.DiscountID != nil {
				discount = discounts[*p.DiscountID]
			}
			qty := quantities[p.ID]
			if err := order.AddItem(p.ID, p.Name, p.SKU, qty, p.Price, p.FinalPrice(discount)); err != nil {
				return placed, err
			}
		}

		if err := s.repo.Place(ctx, order); err != nil {
			if !errors.Is(err, shared.ErrOutOfStock) {
				s.logger.Error("Failed to place order",
					zap.String("vendor_id", vendorID.String()),
					zap.Error(err))
			}
			return placed, err
		}

		s.logger.Info("Order placed",
			zap.String("order_id", order.ID.String()),
			zap.String("number", order.Number),
			zap.String("vendor_id", vendorID.String()),
			zap.String("total", order.Total.StringFixed(2)))
		s.metrics.RecordOrderPlaced(ctx, vendorID.String(), string(method), order.Total)
		placed = append(placed, ToOrderResponse(order))
	}
	return placed, nil
}

// Invoice renders the PDF invoice of an order
func (s *OrderService) Invoice(ctx context.Context, scope shared.Scope, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", shared.NewDomainError(shared.ErrNotConfigured.Code, "Invoice printing is not enabled")
	}
	order, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, "", err
	}

	data := InvoiceData{Order: ToOrderResponse(order), IssuedAt: time.Now()}
	vendor, err := s.vendorRepo.FindByID(ctx, order.VendorID)
	switch {
	case err == nil:
		data.VendorName = vendor.Name
		data.VendorEmail = vendor.Email
	case errors.Is(err, shared.ErrNotFound):
		s.logger.Warn("Invoice for order of unknown vendor", zap.String("order_id", id.String()))
	default:
		return nil, "", err
	}

	pdf, err := s.renderer.RenderInvoice(ctx, data)
	if err != nil {
		s.logger.Error("Failed to render invoice", zap.String("order_id", id.String()), zap.Error(err))
		return nil, "", fmt.Errorf("render invoice: %w", err)
	}
	return pdf, fmt.Sprintf("invoice-%s.pdf", order.Number), nil
}

func (s *OrderService) checkPaymentMethod(ctx context.Context, vendorID uuid.UUID, method sales.PaymentMethod) error {
	ps, err := s.settingsRepo.FindByVendor(ctx, vendorID)
	if errors.Is(err, shared.ErrNotFound) {
		ps = settings.DefaultPaymentSettings(vendorID)
	} else if err != nil {
		return err
	}

	switch method {
	case sales.PaymentMethodCashOnDelivery:
		if !ps.CashOnDelivery {
			return shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "This seller does not accept cash on delivery")
		}
	case sales.PaymentMethodCard:
		if !ps.CardPayments {
			return shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "This seller does not accept card payments")
		}
	case sales.PaymentMethodBankTransfer:
		if ps.IBAN == "" {
			return shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "This seller does not accept bank transfers")
		}
	}
	return nil
}

// find loads an order and hides orders of other vendors
func (s *OrderService) find(ctx context.Context, scope shared.Scope, id uuid.UUID) (*sales.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(order.VendorID) {
		return nil, shared.ErrNotFound
	}
	return order, nil
}
