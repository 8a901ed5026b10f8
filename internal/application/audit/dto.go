package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/audit"
)

// LogListFilter represents filter options for the admin log list
type LogListFilter struct {
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search      string     `form:"search"`
	Action      string     `form:"action"`
	Resource    string     `form:"resource"`
	ActorID     *uuid.UUID `form:"-"`
	CreatedFrom *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo   *time.Time `form:"created_to" time_format:"2006-01-02"`
}

// LogResponse represents an admin log entry in API responses
type LogResponse struct {
	ID         uuid.UUID       `json:"id"`
	ActorID    *uuid.UUID      `json:"actor_id,omitempty"`
	ActorEmail string          `json:"actor_email"`
	VendorID   *uuid.UUID      `json:"vendor_id,omitempty"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID string          `json:"resource_id"`
	Details    json.RawMessage `json:"details"`
	IPAddress  string          `json:"ip_address"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToLogResponse converts a domain AdminLog to LogResponse
func ToLogResponse(l *audit.AdminLog) LogResponse {
	details := json.RawMessage(l.Details)
	if len(details) == 0 {
		details = json.RawMessage(`{}`)
	}
	return LogResponse{
		ID:         l.ID,
		ActorID:    l.ActorID,
		ActorEmail: l.ActorEmail,
		VendorID:   l.VendorID,
		Action:     string(l.Action),
		Resource:   l.Resource,
		ResourceID: l.ResourceID,
		Details:    details,
		IPAddress:  l.IPAddress,
		CreatedAt:  l.CreatedAt,
	}
}

// ToLogResponses converts a slice of domain AdminLogs
func ToLogResponses(logs []audit.AdminLog) []LogResponse {
	out := make([]LogResponse, len(logs))
	for i := range logs {
		out[i] = ToLogResponse(&logs[i])
	}
	return out
}
