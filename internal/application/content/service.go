package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	resourceSection = "homepage_section"
	cacheKeyPrefix  = "homepage:sections:"
	generationKey   = "homepage:generation"
	generationTTL   = 24 * time.Hour
)

// DefaultCacheTTL bounds staleness when another instance saved a section
const DefaultCacheTTL = 10 * time.Minute

// Service edits and serves the homepage sections
type Service struct {
	repo     content.HomePageRepository
	cache    shared.Cache
	cacheTTL time.Duration
	recorder appaudit.Recorder
	logger   *zap.Logger
	metrics  *telemetry.BusinessMetrics
}

// NewService creates a new homepage content Service. cache may be nil.
func NewService(repo content.HomePageRepository, cache shared.Cache, cacheTTL time.Duration, recorder appaudit.Recorder, logger *zap.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		recorder: recorder,
		logger:   logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// cachedRow is the cache representation of a stored section
type cachedRow struct {
	Key       content.SectionKey `json:"key"`
	Order     int                `json:"order"`
	Content   json.RawMessage    `json:"content"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Page returns every section, merged with defaults, in page order
func (s *Service) Page(ctx context.Context) ([]SectionResponse, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	page, failures := content.BuildPage(rows)
	for key, err := range failures {
		s.logger.Warn("Stored homepage section is unreadable, serving defaults",
			zap.String("section_key", key.String()),
			zap.Error(err))
	}

	updated := make(map[content.SectionKey]time.Time, len(rows))
	for _, row := range rows {
		updated[row.SectionKey] = row.UpdatedAt
	}

	out := make([]SectionResponse, len(page))
	for i, ps := range page {
		var at *time.Time
		if t, ok := updated[ps.Key]; ok && ps.Stored {
			at = &t
		}
		out[i] = toSectionResponse(ps.Key, ps.Order, ps.Stored, ps.Content, at)
	}
	return out, nil
}

// Get returns one section, falling back to defaults when it was never saved
func (s *Service) Get(ctx context.Context, rawKey string) (*SectionResponse, error) {
	key, err := content.ParseSectionKey(rawKey)
	if err != nil {
		return nil, err
	}
	section, row, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := s.response(key, section, row)
	return &resp, nil
}

// Defaults returns the built-in content of a section
func (s *Service) Defaults(rawKey string) (*SectionResponse, error) {
	key, err := content.ParseSectionKey(rawKey)
	if err != nil {
		return nil, err
	}
	section, err := content.Decode(key, nil)
	if err != nil {
		return nil, err
	}
	resp := toSectionResponse(key, key.DefaultOrder(), false, section, nil)
	return &resp, nil
}

// ErrContentRequired is returned when a save carries no content. Decoding an
// empty body yields the defaults, which would silently overwrite the stored section.
var ErrContentRequired = shared.NewDomainError("VALIDATION_ERROR", "Section content is required")

// Save creates or updates one section
func (s *Service) Save(ctx context.Context, rawKey string, req SaveSectionRequest) (*SectionResponse, error) {
	key, err := content.ParseSectionKey(rawKey)
	if err != nil {
		return nil, err
	}
	if raw := bytes.TrimSpace(req.Content); len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrContentRequired
	}
	section, err := content.Decode(key, req.Content)
	if err != nil {
		return nil, err
	}
	resp, err := s.store(ctx, key, section, req.Order)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceSection, key.String(), map[string]any{"order": resp.Order})
	return resp, nil
}

// BulkSave saves each section independently, in page order. A failing section
// is reported and the rest are still saved.
func (s *Service) BulkSave(ctx context.Context, req BulkSaveRequest) (*BulkSaveResult, error) {
	keys := make([]string, 0, len(req.Sections))
	for key := range req.Sections {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, oj := content.SectionKey(keys[i]).DefaultOrder(), content.SectionKey(keys[j]).DefaultOrder()
		if oi != oj {
			return oi < oj
		}
		return keys[i] < keys[j]
	})

	result := &BulkSaveResult{Results: make([]SectionResult, 0, len(keys))}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		resp, err := s.Save(ctx, key, req.Sections[key])
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, failedResult(key, err))
			s.logger.Warn("Homepage section not saved",
				zap.String("section_key", key),
				zap.Error(err))
			continue
		}
		result.Saved++
		result.Results = append(result.Results, SectionResult{SectionKey: key, Success: true, Section: resp})
	}
	return result, nil
}

// ApplyItemOp adds, removes or moves an item of one array in a section and
// saves the section. Other items are left untouched.
func (s *Service) ApplyItemOp(ctx context.Context, rawKey string, req ItemOpRequest) (*SectionResponse, error) {
	key, err := content.ParseSectionKey(rawKey)
	if err != nil {
		return nil, err
	}
	section, row, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	list, ok := section.Lists()[req.Field]
	if !ok {
		return nil, shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("Section %s has no list %q", key, req.Field))
	}
	switch req.Op {
	case ItemOpAdd:
		err = list.Add(req.Item)
	case ItemOpRemove:
		err = list.Remove(req.Index)
	case ItemOpMoveUp:
		err = list.Move(req.Index, content.Up)
	case ItemOpMoveDown:
		err = list.Move(req.Index, content.Down)
	default:
		err = shared.NewDomainError("INVALID_OPERATION", fmt.Sprintf("Unknown item operation %q", req.Op))
	}
	if err != nil {
		return nil, err
	}

	var order *int
	if row != nil {
		order = &row.Order
	}
	resp, err := s.store(ctx, key, section, order)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceSection, key.String(),
		map[string]any{"field": req.Field, "op": req.Op, "index": req.Index})
	return resp, nil
}

// Reset deletes the stored section so it reverts to defaults
func (s *Service) Reset(ctx context.Context, rawKey string) (*SectionResponse, error) {
	key, err := content.ParseSectionKey(rawKey)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteByKey(ctx, key); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	s.invalidate(ctx)
	s.recorder.Record(ctx, audit.ActionDelete, resourceSection, key.String(), nil)
	return s.Defaults(rawKey)
}

// store validates and upserts a section, keeping the stored order unless order is set
func (s *Service) store(ctx context.Context, key content.SectionKey, section content.Section, order *int) (*SectionResponse, error) {
	if err := content.Normalize(key, section); err != nil {
		return nil, err
	}
	if err := content.Validate(key, section); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByKey(ctx, key)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		row, err = content.NewHomePageContent(key, section)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := row.SetSection(section); err != nil {
			return nil, err
		}
	}
	if order != nil {
		row.Order = *order
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.metrics.RecordSectionSave(ctx, key.String())

	s.logger.Info("Homepage section saved",
		zap.String("section_key", key.String()),
		zap.Int("order", row.Order))
	resp := s.response(key, section, row)
	return &resp, nil
}

// load returns the section merged over defaults, and the stored row when present
func (s *Service) load(ctx context.Context, key content.SectionKey) (content.Section, *content.HomePageContent, error) {
	row, err := s.repo.FindByKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		section, err := content.Decode(key, nil)
		return section, nil, err
	}
	if err != nil {
		return nil, nil, err
	}
	section, err := row.Section()
	if err != nil {
		return nil, nil, err
	}
	return section, row, nil
}

func (s *Service) response(key content.SectionKey, section content.Section, row *content.HomePageContent) SectionResponse {
	if row == nil {
		return toSectionResponse(key, key.DefaultOrder(), false, section, nil)
	}
	at := row.UpdatedAt
	return toSectionResponse(key, row.Order, true, section, &at)
}

// rows reads all stored sections through the cache. Entries are keyed by a
// generation that every save replaces, and the generation is read before the
// database, so a read that raced a save can only fill a key no one reads.
func (s *Service) rows(ctx context.Context) ([]content.HomePageContent, error) {
	var key string
	if s.cache != nil {
		key = cacheKeyPrefix + s.generation(ctx)
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Homepage cache read failed", zap.Error(err))
		} else if ok {
			var cached []cachedRow
			if err := json.Unmarshal(raw, &cached); err == nil {
				rows := make([]content.HomePageContent, len(cached))
				for i, c := range cached {
					rows[i] = content.HomePageContent{SectionKey: c.Key, Order: c.Order, Content: []byte(c.Content)}
					rows[i].UpdatedAt = c.UpdatedAt
				}
				return rows, nil
			}
			s.logger.Warn("Discarding malformed homepage cache entry")
		}
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached := make([]cachedRow, len(rows))
		for i, row := range rows {
			cached[i] = cachedRow{Key: row.SectionKey, Order: row.Order, Content: json.RawMessage(row.Content), UpdatedAt: row.UpdatedAt}
		}
		if b, err := json.Marshal(cached); err == nil {
			if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
				s.logger.Warn("Homepage cache write failed", zap.Error(err))
			}
		}
	}
	return rows, nil
}

// generation returns the current cache generation, starting a new one when
// none is stored
func (s *Service) generation(ctx context.Context) string {
	raw, ok, err := s.cache.Get(ctx, generationKey)
	if err == nil && ok && len(raw) > 0 {
		return string(raw)
	}
	return s.bumpGeneration(ctx)
}

func (s *Service) bumpGeneration(ctx context.Context) string {
	gen := uuid.NewString()
	if err := s.cache.Set(ctx, generationKey, []byte(gen), generationTTL); err != nil {
		s.logger.Warn("Homepage cache generation write failed", zap.Error(err))
	}
	return gen
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.bumpGeneration(ctx)
}

func failedResult(key string, err error) SectionResult {
	res := SectionResult{SectionKey: key, Error: err.Error()}
	var domainErr *shared.DomainError
	var validationErr *content.ValidationError
	switch {
	case errors.As(err, &validationErr):
		res.ErrorCode = "VALIDATION_ERROR"
	case errors.As(err, &domainErr):
		res.ErrorCode = domainErr.Code
		res.Error = domainErr.Message
	default:
		res.ErrorCode = "INTERNAL_ERROR"
		res.Error = "Failed to save section"
	}
	return res
}
