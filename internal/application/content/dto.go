package content

import (
	"encoding/json"
	"time"

	"github.com/storefront/backend/internal/domain/content"
)

// SaveSectionRequest replaces the content of one section. Fields missing from
// Content keep their defaults. Order moves the section on the page.
type SaveSectionRequest struct {
	Content json.RawMessage `json:"content" binding:"required"`
	Order   *int            `json:"order" binding:"omitempty,min=0,max=100"`
}

// BulkSaveRequest saves several sections at once
type BulkSaveRequest struct {
	Sections map[string]SaveSectionRequest `json:"sections" binding:"required,min=1,dive"`
}

// ItemOp is an edit of one array inside a section
type ItemOp string

const (
	ItemOpAdd      ItemOp = "add"
	ItemOpRemove   ItemOp = "remove"
	ItemOpMoveUp   ItemOp = "move_up"
	ItemOpMoveDown ItemOp = "move_down"
)

// ItemOpRequest adds, removes or moves an item of the list named Field
type ItemOpRequest struct {
	Field string          `json:"field" binding:"required"`
	Op    ItemOp          `json:"op" binding:"required,oneof=add remove move_up move_down"`
	Index int             `json:"index" binding:"min=0"`
	Item  json.RawMessage `json:"item"`
}

// SectionResponse is one section with its normalised content
type SectionResponse struct {
	SectionKey string          `json:"section_key"`
	Order      int             `json:"order"`
	Stored     bool            `json:"stored"`
	Content    content.Section `json:"content"`
	Lists      map[string]int  `json:"lists"`
	FixedSizes map[string]int  `json:"fixed_sizes,omitempty"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// SectionResult is the outcome of one section of a bulk save
type SectionResult struct {
	SectionKey string           `json:"section_key"`
	Success    bool             `json:"success"`
	Section    *SectionResponse `json:"section,omitempty"`
	ErrorCode  string           `json:"error_code,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// BulkSaveResult reports every section of a bulk save. Failed sections do not
// undo the ones that succeeded.
type BulkSaveResult struct {
	Saved   int             `json:"saved"`
	Failed  int             `json:"failed"`
	Results []SectionResult `json:"results"`
}

func toSectionResponse(key content.SectionKey, order int, stored bool, section content.Section, updatedAt *time.Time) SectionResponse {
	resp := SectionResponse{
		SectionKey: key.String(),
		Order:      order,
		Stored:     stored,
		Content:    section,
		Lists:      make(map[string]int),
		UpdatedAt:  updatedAt,
	}
	for name, list := range section.Lists() {
		resp.Lists[name] = list.Len()
		if n := list.FixedSize(); n > 0 {
			if resp.FixedSizes == nil {
				resp.FixedSizes = make(map[string]int)
			}
			resp.FixedSizes[name] = n
		}
	}
	return resp
}
