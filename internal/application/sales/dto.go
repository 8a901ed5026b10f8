package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	shared.PageQuery
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	PaymentMethod string     `form:"payment_method" binding:"omitempty,oneof=card cash_on_delivery bank_transfer"`
	VendorID      *uuid.UUID `form:"-"`
	CustomerID    *uuid.UUID `form:"-"`
	CreatedFrom   *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo     *time.Time `form:"created_to" time_format:"2006-01-02"`
}

// UpdateStatusRequest moves an order along its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Note   string `json:"note" binding:"max=500"`
}

// CheckoutItem is one product in the cart
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// CheckoutRequest places the cart. Items of different vendors become separate orders.
type CheckoutRequest struct {
	Items           []CheckoutItem      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress valueobject.Address `json:"shipping_address" binding:"required"`
	PaymentMethod   string              `json:"payment_method" binding:"required,oneof=card cash_on_delivery bank_transfer"`
	Notes           string              `json:"notes" binding:"max=1000"`
}

// Customer identifies who is checking out
type Customer struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	VendorID        uuid.UUID           `json:"vendor_id"`
	Status          string              `json:"status"`
	Items           []OrderItemResponse `json:"items"`
	ItemCount       int                 `json:"item_count"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountTotal   decimal.Decimal     `json:"discount_total"`
	Total           decimal.Decimal     `json:"total"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	PaymentMethod   string              `json:"payment_method"`
	Notes           string              `json:"notes"`
	CanCancel       bool                `json:"can_cancel"`
	StatusChangedAt *time.Time          `json:"status_changed_at"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		VendorID:        o.VendorID,
		Status:          o.Status.String(),
		Items:           items,
		ItemCount:       o.ItemCount(),
		Subtotal:        o.Subtotal,
		DiscountTotal:   o.DiscountTotal,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		Notes:           o.Notes,
		CanCancel:       o.CanCancel(),
		StatusChangedAt: o.StatusChangedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []sales.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// InvoiceData is everything an invoice template renders
type InvoiceData struct {
	Order       OrderResponse
	VendorName  string
	VendorEmail string
	IssuedAt    time.Time
}
