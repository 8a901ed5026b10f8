package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardRequest selects the reporting window. Dates are inclusive days;
// the default window is the last 30 days.
type DashboardRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
	TopN int        `form:"top" binding:"omitempty,min=1,max=50"`
}

// Totals are the headline numbers of the dashboard
type Totals struct {
	Revenue           decimal.Decimal `json:"revenue"`
	Orders            int             `json:"orders"`
	RevenueOrders     int             `json:"revenue_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ItemsSold         int             `json:"items_sold"`
	Products          int64           `json:"products"`
	ActiveProducts    int64           `json:"active_products"`
	Customers         int64           `json:"customers,omitempty"`
}

// DayRevenue is the revenue of one calendar day
type DayRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// TopProduct ranks a product by units sold
type TopProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LowStockProduct is a product at or below the low stock threshold
type LowStockProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Stock     int       `json:"stock"`
	IsActive  bool      `json:"is_active"`
}

// Dashboard is the aggregated analytics view
type Dashboard struct {
	From           string            `json:"from"`
	To             string            `json:"to"`
	Totals         Totals            `json:"totals"`
	OrdersByStatus map[string]int    `json:"orders_by_status"`
	RevenueByDay   []DayRevenue      `json:"revenue_by_day"`
	TopProducts    []TopProduct      `json:"top_products"`
	UsersByRole    map[string]int64  `json:"users_by_role,omitempty"`
	LowStock       []LowStockProduct `json:"low_stock"`
}
