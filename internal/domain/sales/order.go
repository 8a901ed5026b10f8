package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// AllOrderStatuses lists every status in lifecycle order
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	for _, v := range AllOrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states with no outgoing transition
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CountsAsRevenue reports whether orders in this state contribute to revenue
func (s OrderStatus) CountsAsRevenue() bool {
	return s != OrderStatusCancelled && s != OrderStatusRefunded
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCashOnDelivery, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// OrderItem is a line of an order. Name and price are captured at order time.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	SKU       string          `gorm:"column:sku;type:varchar(64)"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Order is a customer purchase from one vendor
type Order struct {
	shared.BaseEntity
	Number          string              `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerName    string              `gorm:"type:varchar(100)"`
	CustomerEmail   string              `gorm:"type:varchar(200)"`
	VendorID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;index"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountTotal   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	PaymentMethod   PaymentMethod       `gorm:"type:varchar(30);not null"`
	Notes           string              `gorm:"type:text"`
	StatusChangedAt *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order
func NewOrder(customerID, vendorID uuid.UUID, address valueobject.Address, method PaymentMethod) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	base := shared.NewBaseEntity()
	return &Order{
		BaseEntity:      base,
		Number:          GenerateOrderNumber(base.CreatedAt, base.ID),
		CustomerID:      customerID,
		VendorID:        vendorID,
		Status:          OrderStatusPending,
		Items:           make([]OrderItem, 0),
		Subtotal:        decimal.Zero,
		DiscountTotal:   decimal.Zero,
		Total:           decimal.Zero,
		ShippingAddress: address.Normalize(),
		PaymentMethod:   method,
	}, nil
}

// GenerateOrderNumber renders ORD-YYYYMMDD-XXXXXXXX from the creation time and id
func GenerateOrderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(id.String()[:8]))
}

// AddItem appends a line. listPrice is the product price and unitPrice what the customer pays.
func (o *Order) AddItem(productID uuid.UUID, name, sku string, quantity int, listPrice, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Items can only be added to pending orders")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() || listPrice.LessThan(unitPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be between zero and the list price")
	}

	qty := decimal.NewFromInt(int64(quantity))
	o.Items = append(o.Items, OrderItem{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ProductID: productID,
		Name:      name,
		SKU:       sku,
		Quantity:  quantity,
		UnitPrice: unitPrice.Round(2),
		LineTotal: unitPrice.Mul(qty).Round(2),
	})
	o.Subtotal = o.Subtotal.Add(listPrice.Mul(qty)).Round(2)
	o.DiscountTotal = o.DiscountTotal.Add(listPrice.Sub(unitPrice).Mul(qty)).Round(2)
	o.Total = o.Subtotal.Sub(o.DiscountTotal)
	o.Touch()
	return nil
}

// TransitionTo moves the order to a new status if the lifecycle allows it
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order from %s to %s", o.Status, target))
	}
	now := time.Now()
	o.Status = target
	o.StatusChangedAt = &now
	o.Touch()
	return nil
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// CanCancel checks if the order may still be cancelled
func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}
