package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// LoginRequest contains the credentials for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest contains the input for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// LogoutInput identifies the session being closed
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
	// AllSessions also revokes every other token issued to the user
	AllSessions bool
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken           string        `json:"access_token"`
	RefreshToken          string        `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time     `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time     `json:"refresh_token_expires_at"`
	TokenType             string        `json:"token_type"`
	User                  *UserResponse `json:"user,omitempty"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	shared.PageQuery
	Role     string     `form:"role" binding:"omitempty,oneof=admin seller customer"`
	VendorID *uuid.UUID `form:"-"`
	IsActive *bool      `form:"is_active"`
}

// CreateUserRequest creates a back-office or customer account
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email,max=200"`
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	Phone    string     `json:"phone" binding:"max=30"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Role     string     `json:"role" binding:"required,oneof=admin seller customer"`
	VendorID *uuid.UUID `json:"vendor_id"`
}

// RegisterRequest creates a customer account from the storefront
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateUserRequest changes profile and role of a user
type UpdateUserRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Phone    *string    `json:"phone" binding:"omitempty,max=30"`
	Role     *string    `json:"role" binding:"omitempty,oneof=admin seller customer"`
	VendorID *uuid.UUID `json:"vendor_id"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	VendorID    *uuid.UUID `json:"vendor_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsLocked    bool       `json:"is_locked"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        u.Role.String(),
		VendorID:    u.VendorID,
		IsActive:    u.IsActive,
		IsLocked:    u.IsLocked(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain Users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

// VendorListFilter represents filter options for the vendor list
type VendorListFilter struct {
	shared.PageQuery
	IsActive *bool `form:"is_active"`
}

// VendorRequest creates or updates a vendor
type VendorRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToVendorResponse converts a domain Vendor to VendorResponse
func ToVendorResponse(v *identity.Vendor) VendorResponse {
	return VendorResponse{
		ID:        v.ID,
		Name:      v.Name,
		Slug:      v.Slug,
		Email:     v.Email,
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// ToggleResponse reports the new value of a flipped flag
type ToggleResponse struct {
	ID    uuid.UUID `json:"id"`
	Field string    `json:"field"`
	Value bool      `json:"value"`
}
