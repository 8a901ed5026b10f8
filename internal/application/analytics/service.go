package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout      = "2006-01-02"
	defaultWindow   = 30
	maxWindowDays   = 366
	defaultTopN     = 5
	lowStockListCap = 20
)

// Service aggregates orders, products and users into dashboard figures
type Service struct {
	orders   sales.OrderRepository
	products catalog.ProductRepository
	users    identity.UserRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new analytics Service
func NewService(orders sales.OrderRepository, products catalog.ProductRepository, users identity.UserRepository, logger *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		products: products,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// Dashboard fetches the window's orders, the product counts, the low stock list
// and the user counts in parallel, then aggregates them. A vendor scope limits
// every figure to that vendor and omits user counts.
func (s *Service) Dashboard(ctx context.Context, scope shared.Scope, req DashboardRequest) (*Dashboard, error) {
	from, to, err := s.window(req)
	if err != nil {
		return nil, err
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	base := scope.Apply(shared.Filter{Filters: map[string]any{}})

	var (
		orders         []sales.Order
		productTotal   int64
		productActive  int64
		lowStock       []catalog.Product
		usersByRole    map[string]int64
		customersTotal int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.FindCreatedBetween(gctx, base, from, to.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() error {
		var err error
		productTotal, err = s.products.Count(gctx, base)
		if err != nil {
			return err
		}
		productActive, err = s.products.Count(gctx, base.With("is_active", true))
		return err
	})
	g.Go(func() error {
		f := base.With("max_stock", catalog.DefaultLowStockThreshold)
		f.Page, f.PageSize = 1, lowStockListCap
		f.OrderBy, f.OrderDir = "stock", "asc"
		var err error
		lowStock, err = s.products.FindAll(gctx, f)
		return err
	})
	if !scope.IsVendor() {
		g.Go(func() error {
			counts := make(map[string]int64, 3)
			for _, role := range []identity.Role{identity.RoleAdmin, identity.RoleSeller, identity.RoleCustomer} {
				n, err := s.users.Count(gctx, shared.Filter{Filters: map[string]any{"role": role.String()}})
				if err != nil {
					return err
				}
				counts[role.String()] = n
			}
			usersByRole = counts
			customersTotal = counts[identity.RoleCustomer.String()]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load dashboard data", zap.Error(err))
		return nil, err
	}

	d := &Dashboard{
		From:           from.Format(dateLayout),
		To:             to.Format(dateLayout),
		OrdersByStatus: make(map[string]int, len(sales.AllOrderStatuses)),
		RevenueByDay:   revenueByDay(orders, from, to),
		TopProducts:    topProducts(orders, topN),
		UsersByRole:    usersByRole,
		LowStock:       make([]LowStockProduct, 0, len(lowStock)),
	}
	for _, status := range sales.AllOrderStatuses {
		d.OrdersByStatus[status.String()] = 0
	}

	d.Totals = Totals{
		Revenue:        decimal.Zero,
		Orders:         len(orders),
		Products:       productTotal,
		ActiveProducts: productActive,
		Customers:      customersTotal,
	}
	for _, o := range orders {
		d.OrdersByStatus[o.Status.String()]++
		if !o.Status.CountsAsRevenue() {
			continue
		}
		d.Totals.Revenue = d.Totals.Revenue.Add(o.Total)
		d.Totals.RevenueOrders++
		d.Totals.ItemsSold += o.ItemCount()
	}
	d.Totals.AverageOrderValue = decimal.Zero
	if d.Totals.RevenueOrders > 0 {
		d.Totals.AverageOrderValue = d.Totals.Revenue.
			Div(decimal.NewFromInt(int64(d.Totals.RevenueOrders))).Round(2)
	}

	for _, p := range lowStock {
		d.LowStock = append(d.LowStock, LowStockProduct{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Stock:     p.Stock,
			IsActive:  p.IsActive,
		})
	}
	return d, nil
}

// window resolves the inclusive day range of the request
func (s *Service) window(req DashboardRequest) (time.Time, time.Time, error) {
	now := s.now().UTC()
	to := truncateDay(now)
	if req.To != nil {
		to = truncateDay(req.To.UTC())
	}
	from := to.AddDate(0, 0, -(defaultWindow - 1))
	if req.From != nil {
		from = truncateDay(req.From.UTC())
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_RANGE", "from must not be after to")
	}
	if to.Sub(from) > maxWindowDays*24*time.Hour {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_RANGE", "The reporting window cannot exceed one year")
	}
	return from, to, nil
}

// revenueByDay returns one entry per day in [from, to], zero filled
func revenueByDay(orders []sales.Order, from, to time.Time) []DayRevenue {
	index := make(map[string]int)
	days := make([]DayRevenue, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		index[key] = len(days)
		days = append(days, DayRevenue{Date: key, Revenue: decimal.Zero})
	}
	for _, o := range orders {
		if !o.Status.CountsAsRevenue() {
			continue
		}
		i, ok := index[o.CreatedAt.UTC().Format(dateLayout)]
		if !ok {
			continue
		}
		days[i].Revenue = days[i].Revenue.Add(o.Total)
		days[i].Orders++
	}
	return days
}

// topProducts ranks products by units sold in revenue orders; ties go to revenue, then name
func topProducts(orders []sales.Order, n int) []TopProduct {
	byProduct := make(map[string]*TopProduct)
	for _, o := range orders {
		if !o.Status.CountsAsRevenue() {
			continue
		}
		for _, item := range o.Items {
			key := item.ProductID.String()
			tp, ok := byProduct[key]
			if !ok {
				tp = &TopProduct{ProductID: item.ProductID, Name: item.Name, SKU: item.SKU, Revenue: decimal.Zero}
				byProduct[key] = tp
			}
			tp.Quantity += item.Quantity
			tp.Revenue = tp.Revenue.Add(item.LineTotal)
		}
	}

	out := make([]TopProduct, 0, len(byProduct))
	for _, tp := range byProduct {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
