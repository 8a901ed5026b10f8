package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse permission level of a user
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Password cost for bcrypt
var bcryptCost = 12

// SetPasswordCost overrides the bcrypt cost. Tests and the seeder use bcrypt.MinCost.
func SetPasswordCost(cost int) {
	bcryptCost = cost
}

// MaxFailedAttempts locks the account after this many consecutive bad passwords
const MaxFailedAttempts = 5

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an account of the storefront. Sellers belong to a vendor.
type User struct {
	shared.BaseEntity
	Email          string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name           string     `gorm:"type:varchar(100);not null"`
	Phone          string     `gorm:"type:varchar(30)"`
	PasswordHash   string     `gorm:"type:varchar(100);not null" json:"-"`
	Role           Role       `gorm:"type:varchar(20);not null;index"`
	VendorID       *uuid.UUID `gorm:"type:uuid;index"`
	IsActive       bool       `gorm:"not null"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user. Sellers must carry a vendor.
func NewUser(email, name, password string, role Role, vendorID *uuid.UUID) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	u := &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		IsActive:   true,
	}
	if err := u.SetProfile(name, ""); err != nil {
		return nil, err
	}
	if err := u.SetRole(role, vendorID); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	return u, nil
}

// SetProfile updates name and phone
func (u *User) SetProfile(name, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	phone = strings.TrimSpace(phone)
	if len(phone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 30 characters")
	}
	u.Name = name
	u.Phone = phone
	u.Touch()
	return nil
}

// SetRole changes the role. A seller needs a vendor; other roles drop it.
func (u *User) SetRole(role Role, vendorID *uuid.UUID) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be admin, seller or customer")
	}
	if role == RoleSeller {
		if vendorID == nil || *vendorID == uuid.Nil {
			return shared.NewDomainError("INVALID_VENDOR", "Seller accounts require a vendor")
		}
		id := *vendorID
		u.VendorID = &id
	} else {
		u.VendorID = nil
	}
	u.Role = role
	u.Touch()
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ToggleActive flips the active flag and returns the new value
func (u *User) ToggleActive() bool {
	u.IsActive = !u.IsActive
	u.Touch()
	return u.IsActive
}

// IsLocked reports whether a lockout is still running
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if the account may authenticate right now
func (u *User) CanLogin() bool {
	return u.IsActive && !u.IsLocked()
}

// RecordLoginSuccess resets the failure counter
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// RecordLoginFailure counts a bad password and locks the account when the limit is hit.
// It returns true if the account became locked.
func (u *User) RecordLoginFailure(lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if u.FailedAttempts < MaxFailedAttempts {
		return false
	}
	until := time.Now().Add(lockDuration)
	u.LockedUntil = &until
	u.FailedAttempts = 0
	return true
}

// IsAdmin returns true for administrators
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSeller returns true for vendor staff
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
