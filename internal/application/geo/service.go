package geo

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrNoResult is returned by a Geocoder when nothing is known at a position
var ErrNoResult = errors.New("no address at position")

// Geocoder resolves a position to a postal address
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*valueobject.Address, error)
}

// ReverseRequest is a browser position to resolve
type ReverseRequest struct {
	Lat *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" binding:"required,min=-180,max=180"`
}

// ReverseResponse is the address prefilled into the shipping form
type ReverseResponse struct {
	Address  valueobject.Address `json:"address"`
	Complete bool                `json:"complete"`
}

// Service turns positions into shipping addresses
type Service struct {
	geocoder Geocoder
	logger   *zap.Logger
	metrics  *telemetry.BusinessMetrics
}

// NewService creates a new geo Service. geocoder may be nil to disable autofill.
func NewService(geocoder Geocoder, logger *zap.Logger) *Service {
	return &Service{geocoder: geocoder, logger: logger}
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Reverse resolves a position. The result keeps the requested coordinates and
// reports whether it is complete enough to ship to.
func (s *Service) Reverse(ctx context.Context, req ReverseRequest) (*ReverseResponse, error) {
	if s.geocoder == nil {
		return nil, shared.NewDomainError(shared.ErrNotConfigured.Code, "Address lookup is not enabled")
	}
	if req.Lat == nil || req.Lon == nil {
		return nil, shared.NewDomainError("INVALID_POSITION", "Latitude and longitude are required")
	}
	lat, lon := *req.Lat, *req.Lon
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, shared.NewDomainError("INVALID_POSITION", "Position is out of range")
	}

	addr, err := s.geocoder.Reverse(ctx, lat, lon)
	if errors.Is(err, ErrNoResult) {
		s.metrics.RecordGeocode(ctx, "no_result")
		return nil, shared.NewDomainError(shared.ErrNotFound.Code, "No address found at this position")
	}
	if err != nil {
		s.metrics.RecordGeocode(ctx, telemetry.OutcomeFailure)
		s.logger.Warn("Reverse geocoding failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		return nil, shared.NewDomainError(shared.ErrUpstream.Code, "Address lookup is unavailable, please enter the address manually")
	}

	s.metrics.RecordGeocode(ctx, telemetry.OutcomeSuccess)
	out := addr.Normalize()
	out.Latitude, out.Longitude = &lat, &lon
	return &ReverseResponse{Address: out, Complete: out.Validate() == nil}, nil
}
