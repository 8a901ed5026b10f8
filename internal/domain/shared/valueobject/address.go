package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Address is a shipping address. It is stored as a JSON column and is
// also the result of reverse geocoding a browser position.
type Address struct {
	Line1      string   `json:"line1"`
	Line2      string   `json:"line2,omitempty"`
	City       string   `json:"city"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"lat,omitempty"`
	Longitude  *float64 `json:"lon,omitempty"`
}

// Normalize trims every text field
func (a Address) Normalize() Address {
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	return a
}

// Validate checks the fields required to ship an order
func (a Address) Validate() error {
	a = a.Normalize()
	if a.Line1 == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line is required")
	}
	if a.City == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City is required")
	}
	if a.Country == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Country is required")
	}
	if len(a.PostalCode) > 20 {
		return shared.NewDomainError("INVALID_ADDRESS", "Postal code cannot exceed 20 characters")
	}
	if a.Latitude != nil && (*a.Latitude < -90 || *a.Latitude > 90) {
		return shared.NewDomainError("INVALID_ADDRESS", "Latitude must be between -90 and 90")
	}
	if a.Longitude != nil && (*a.Longitude < -180 || *a.Longitude > 180) {
		return shared.NewDomainError("INVALID_ADDRESS", "Longitude must be between -180 and 180")
	}
	return nil
}

// IsEmpty reports whether no field is set
func (a Address) IsEmpty() bool {
	n := a.Normalize()
	return n.Line1 == "" && n.Line2 == "" && n.City == "" && n.State == "" &&
		n.PostalCode == "" && n.Country == "" && a.Latitude == nil && a.Longitude == nil
}

// FullAddress joins the non-empty parts on one line
func (a Address) FullAddress() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.FullAddress()
}

// Value implements driver.Valuer for the JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for the JSON column
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
