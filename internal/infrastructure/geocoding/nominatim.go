// Package geocoding resolves browser positions to postal addresses.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	geoapp "github.com/storefront/backend/internal/application/geo"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "storefront-backend/1.0"
	defaultTimeout   = 10 * time.Second
	defaultCacheTTL  = 24 * time.Hour
	cacheKeyPrefix   = "geo:reverse:"
	maxBodyBytes     = 1 << 20
)

var (
	// ErrRequestFailed is returned when Nominatim answers with an error status
	ErrRequestFailed = errors.New("nominatim: request failed")
)

var _ geoapp.Geocoder = (*NominatimClient)(nil)

// NominatimClient reverse geocodes through OpenStreetMap Nominatim.
// The public instance allows one request per second and requires an
// identifying User-Agent; the limiter is shared by all callers.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	language   string
	limiter    *rate.Limiter
	httpClient *http.Client
	cache      shared.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// Option is a functional option for configuring NominatimClient
type Option func(*NominatimClient)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(n *NominatimClient) {
		n.httpClient = c
	}
}

// WithCache stores resolved positions so repeated lookups skip the throttle
func WithCache(cache shared.Cache, ttl time.Duration) Option {
	return func(n *NominatimClient) {
		n.cache = cache
		n.cacheTTL = ttl
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(n *NominatimClient) {
		n.logger = logger
	}
}

// NewNominatimClient creates a new NominatimClient from configuration
func NewNominatimClient(cfg config.GeocodingConfig, opts ...Option) *NominatimClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	n := &NominatimClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		language:   cfg.Language,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		httpClient: &http.Client{Timeout: timeout},
		cacheTTL:   defaultCacheTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Reverse returns the address at lat/lon. It waits for the limiter, so a
// burst of callers is serialized rather than rejected.
func (n *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (*valueobject.Address, error) {
	key := cacheKey(lat, lon)
	if addr, ok := n.cached(ctx, key); ok {
		return addr, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim: throttled: %w", err)
	}

	body, err := n.doRequest(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	var result nominatimReverse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("nominatim: failed to decode response: %w", err)
	}
	if result.Error != "" {
		return nil, geoapp.ErrNoResult
	}

	addr := toAddress(result.Address)
	if addr.IsEmpty() {
		return nil, geoapp.ErrNoResult
	}
	n.store(ctx, key, addr)
	return &addr, nil
}

func (n *NominatimClient) doRequest(ctx context.Context, lat, lon float64) ([]byte, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("addressdetails", "1")
	q.Set("zoom", "18")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")
	if n.language != "" {
		req.Header.Set("Accept-Language", n.language)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("nominatim: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}
	return body, nil
}

func (n *NominatimClient) cached(ctx context.Context, key string) (*valueobject.Address, bool) {
	if n.cache == nil {
		return nil, false
	}
	raw, ok, err := n.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var addr valueobject.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, false
	}
	return &addr, true
}

func (n *NominatimClient) store(ctx context.Context, key string, addr valueobject.Address) {
	if n.cache == nil {
		return
	}
	raw, err := json.Marshal(addr)
	if err != nil {
		return
	}
	if err := n.cache.Set(ctx, key, raw, n.cacheTTL); err != nil {
		n.logger.Warn("Failed to cache geocoding result", zap.Error(err))
	}
}

// cacheKey rounds to about 1 m so the same doorstep hits the cache
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%s%.5f,%.5f", cacheKeyPrefix, lat, lon)
}

func toAddress(a nominatimAddress) valueobject.Address {
	street := firstNonEmpty(a.Road, a.Pedestrian, a.Footway)
	line1 := street
	if street != "" && a.HouseNumber != "" {
		line1 = street + " " + a.HouseNumber
	}
	return valueobject.Address{
		Line1:      line1,
		Line2:      firstNonEmpty(a.Suburb, a.Neighbourhood),
		City:       firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Municipality, a.County),
		State:      a.State,
		PostalCode: a.Postcode,
		Country:    strings.ToUpper(a.CountryCode),
	}.Normalize()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
