package audit

import (
	"context"

	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder appends entries to the admin log.
// Recording is best effort and never fails the mutation it describes.
type Recorder interface {
	Record(ctx context.Context, action audit.Action, resource, resourceID string, details any)
}

// Service records and lists admin log entries
type Service struct {
	repo   audit.AdminLogRepository
	logger *zap.Logger
}

// NewService creates a new audit Service
func NewService(repo audit.AdminLogRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record writes an entry for the actor stored in ctx
func (s *Service) Record(ctx context.Context, action audit.Action, resource, resourceID string, details any) {
	entry, err := audit.NewAdminLog(ActorFromContext(ctx), action, resource, resourceID, details)
	if err != nil {
		s.logger.Warn("Invalid admin log entry",
			zap.String("action", string(action)),
			zap.String("resource", resource),
			zap.Error(err))
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write admin log",
			zap.String("action", string(action)),
			zap.String("resource", resource),
			zap.String("resource_id", resourceID),
			zap.Error(err))
	}
}

// DefaultPageSize is the page size of the log when none is requested
const DefaultPageSize = 50

// List returns log entries visible in scope
func (s *Service) List(ctx context.Context, scope shared.Scope, filter LogListFilter) ([]LogResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultPageSize
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Action != "" {
		domainFilter.Filters["action"] = filter.Action
	}
	if filter.Resource != "" {
		domainFilter.Filters["resource"] = filter.Resource
	}
	if filter.ActorID != nil {
		domainFilter.Filters["actor_id"] = *filter.ActorID
	}
	if filter.CreatedFrom != nil {
		domainFilter.Filters["created_from"] = *filter.CreatedFrom
	}
	if filter.CreatedTo != nil {
		// Inclusive end day
		domainFilter.Filters["created_to"] = filter.CreatedTo.AddDate(0, 0, 1)
	}
	domainFilter = scope.Apply(domainFilter)

	logs, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLogResponses(logs), total, nil
}

// NopRecorder discards entries. Used by tools that mutate data outside a request.
type NopRecorder struct{}

// Record does nothing
func (NopRecorder) Record(context.Context, audit.Action, string, string, any) {}

var (
	_ Recorder = (*Service)(nil)
	_ Recorder = NopRecorder{}
)
