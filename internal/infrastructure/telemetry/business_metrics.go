package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Login outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// BusinessMetrics tracks storefront activity: checkouts, logins,
// homepage edits and geocoding lookups. A nil *BusinessMetrics is valid and
// records nothing, so services work without telemetry.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	ordersPlaced    *Counter
	orderAmount     *FloatCounter
	logins          *Counter
	sectionSaves    *Counter
	geocodeLookups  *Counter
	lowStockGauge   metric.Int64ObservableGauge
	lowStockCounter LowStockCounter
}

// LowStockCounter reports how many active products are at or below the
// low stock threshold. It is polled on every metric collection.
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter    metric.Meter
	Logger   *zap.Logger
	LowStock LowStockCounter
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{meter: cfg.Meter, logger: logger, lowStockCounter: cfg.LowStock}

	var err error
	if bm.ordersPlaced, err = NewCounter(cfg.Meter, "storefront_orders_placed_total",
		"Orders created by checkout", "{order}"); err != nil {
		return nil, err
	}
	if bm.orderAmount, err = NewFloatCounter(cfg.Meter, "storefront_order_amount_total",
		"Sum of order totals created by checkout", "{currency}"); err != nil {
		return nil, err
	}
	if bm.logins, err = NewCounter(cfg.Meter, "storefront_logins_total",
		"Login attempts by role and outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if bm.sectionSaves, err = NewCounter(cfg.Meter, "storefront_homepage_section_saves_total",
		"Homepage section saves", "{save}"); err != nil {
		return nil, err
	}
	if bm.geocodeLookups, err = NewCounter(cfg.Meter, "storefront_geocode_lookups_total",
		"Reverse geocoding lookups by outcome", "{lookup}"); err != nil {
		return nil, err
	}

	if cfg.LowStock != nil {
		bm.lowStockGauge, err = cfg.Meter.Int64ObservableGauge("storefront_low_stock_products",
			metric.WithDescription("Active products at or below the low stock threshold"),
			metric.WithUnit("{product}"))
		if err != nil {
			return nil, err
		}
		if _, err = cfg.Meter.RegisterCallback(bm.observeLowStock, bm.lowStockGauge); err != nil {
			return nil, err
		}
	}

	logger.Info("Business metrics initialized")
	return bm, nil
}

func (bm *BusinessMetrics) observeLowStock(ctx context.Context, o metric.Observer) error {
	n, err := bm.lowStockCounter.CountLowStock(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect low stock count", zap.Error(err))
		return nil
	}
	o.ObserveInt64(bm.lowStockGauge, n)
	return nil
}

// RecordOrderPlaced counts a placed order and adds its total
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, vendorID, paymentMethod string, total decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrVendorID.String(vendorID), AttrPaymentMethod.String(paymentMethod)}
	bm.ordersPlaced.Inc(ctx, attrs...)
	bm.orderAmount.Add(ctx, total.InexactFloat64(), attrs...)
}

// RecordLogin counts a login attempt
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, role string, success bool) {
	if bm == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	if role == "" {
		role = "unknown"
	}
	bm.logins.Inc(ctx, AttrRole.String(role), AttrOutcome.String(outcome))
}

// RecordSectionSave counts a homepage section save
func (bm *BusinessMetrics) RecordSectionSave(ctx context.Context, sectionKey string) {
	if bm == nil {
		return
	}
	bm.sectionSaves.Inc(ctx, AttrSection.String(sectionKey))
}

// RecordGeocode counts a reverse geocoding lookup
func (bm *BusinessMetrics) RecordGeocode(ctx context.Context, outcome string) {
	if bm == nil {
		return
	}
	bm.geocodeLookups.Inc(ctx, AttrOutcome.String(outcome))
}
