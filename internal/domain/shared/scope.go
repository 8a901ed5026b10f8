package shared

import "github.com/google/uuid"

// Scope restricts an operation to the data one caller may see.
// Admins carry an empty scope; sellers carry their vendor ID.
type Scope struct {
	VendorID *uuid.UUID
}

// AdminScope returns an unrestricted scope
func AdminScope() Scope {
	return Scope{}
}

// VendorScope returns a scope limited to one vendor
func VendorScope(vendorID uuid.UUID) Scope {
	return Scope{VendorID: &vendorID}
}

// IsVendor reports whether the scope is limited to a vendor
func (s Scope) IsVendor() bool {
	return s.VendorID != nil
}

// Allows reports whether a record owned by vendorID is visible in this scope
func (s Scope) Allows(vendorID uuid.UUID) bool {
	return s.VendorID == nil || *s.VendorID == vendorID
}

// Apply adds the vendor restriction to a filter
func (s Scope) Apply(f Filter) Filter {
	if s.VendorID == nil {
		return f
	}
	return f.With("vendor_id", *s.VendorID)
}
