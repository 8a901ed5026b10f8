package audit

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// Action is the verb recorded in the admin log
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionToggle       Action = "toggle"
	ActionStatusChange Action = "status_change"
	ActionImport       Action = "import"
	ActionLogin        Action = "login"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionToggle, ActionStatusChange, ActionImport, ActionLogin:
		return true
	}
	return false
}

// AdminLog records who changed what in the back-office
type AdminLog struct {
	shared.BaseEntity
	ActorID    *uuid.UUID     `gorm:"type:uuid;index"`
	ActorEmail string         `gorm:"type:varchar(200)"`
	VendorID   *uuid.UUID     `gorm:"type:uuid;index"`
	Action     Action         `gorm:"type:varchar(30);not null;index"`
	Resource   string         `gorm:"type:varchar(50);not null;index"`
	ResourceID string         `gorm:"type:varchar(64)"`
	Details    datatypes.JSON `gorm:"type:jsonb"`
	IPAddress  string         `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (AdminLog) TableName() string {
	return "admin_logs"
}

// Actor identifies the user performing a mutation
type Actor struct {
	ID       *uuid.UUID
	Email    string
	VendorID *uuid.UUID
	IP       string
}

// NewAdminLog creates a log entry. details is marshalled to JSON; nil stores {}.
func NewAdminLog(actor Actor, action Action, resource, resourceID string, details any) (*AdminLog, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid audit action")
	}
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource cannot be empty")
	}

	raw := []byte("{}")
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DETAILS", "Details must be JSON serialisable")
		}
		raw = b
	}

	return &AdminLog{
		BaseEntity: shared.NewBaseEntity(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		VendorID:   actor.VendorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    datatypes.JSON(raw),
		IPAddress:  actor.IP,
	}, nil
}
