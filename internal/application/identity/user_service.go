package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

const resourceUser = "user"

// UserService handles user management operations
type UserService struct {
	userRepo   identity.UserRepository
	vendorRepo identity.VendorRepository
	blacklist  auth.TokenBlacklist
	recorder   appaudit.Recorder
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewUserService creates a new user service. blacklist may be nil.
func NewUserService(
	userRepo identity.UserRepository,
	vendorRepo identity.VendorRepository,
	blacklist auth.TokenBlacklist,
	recorder appaudit.Recorder,
	config AuthServiceConfig,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		blacklist:  blacklist,
		recorder:   recorder,
		config:     config,
		logger:     logger,
	}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	f := filter.PageQuery.Filter("created_at", "desc")
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}
	if filter.VendorID != nil {
		f.Filters["vendor_id"] = *filter.VendorID
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	users, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Create creates a user with any role
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role := identity.Role(req.Role)
	if role == identity.RoleSeller && req.VendorID != nil {
		if _, err := s.vendorRepo.FindByID(ctx, *req.VendorID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor does not exist")
			}
			return nil, err
		}
	}

	user, err := s.create(ctx, req.Email, req.Name, req.Password, role, req.VendorID)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.SetProfile(user.Name, req.Phone); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActionCreate, resourceUser, user.ID.String(),
		map[string]any{"email": user.Email, "role": user.Role})
	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Register creates a customer account from the storefront
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	user, err := s.create(ctx, req.Email, req.Name, req.Password, identity.RoleCustomer, nil)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Customer registered", zap.String("user_id", user.ID.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) create(ctx context.Context, email, name, password string, role identity.Role, vendorID *uuid.UUID) (*identity.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email is already registered")
	}
	return identity.NewUser(email, name, password, role, vendorID)
}

// Update changes profile fields and role
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, phone := user.Name, user.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := user.SetProfile(name, phone); err != nil {
		return nil, err
	}

	roleChanged := false
	if req.Role != nil || req.VendorID != nil {
		role := user.Role
		if req.Role != nil {
			role = identity.Role(*req.Role)
		}
		vendorID := user.VendorID
		if req.VendorID != nil {
			vendorID = req.VendorID
		}
		roleChanged = role != user.Role || !sameVendor(vendorID, user.VendorID)
		if err := user.SetRole(role, vendorID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged {
		s.revokeSessions(ctx, user.ID)
	}

	s.recorder.Record(ctx, audit.ActionUpdate, resourceUser, id.String(),
		map[string]any{"role": user.Role, "vendor_id": user.VendorID})
	resp := ToUserResponse(user)
	return &resp, nil
}

// ToggleActive flips the active flag. Deactivation revokes open sessions.
func (s *UserService) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor := appaudit.ActorFromContext(ctx); actor.ID != nil && *actor.ID == id {
		return nil, shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}

	active := user.ToggleActive()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		s.revokeSessions(ctx, id)
	}

	s.recorder.Record(ctx, audit.ActionToggle, resourceUser, id.String(), map[string]any{"is_active": active})
	s.logger.Info("User active flag toggled",
		zap.String("user_id", id.String()),
		zap.Bool("is_active", active))
	return &ToggleResponse{ID: id, Field: "is_active", Value: active}, nil
}

// Unlock clears a login lockout
func (s *UserService) Unlock(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.LockedUntil = nil
	user.FailedAttempts = 0
	user.Touch()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceUser, id.String(), map[string]any{"unlocked": true})
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if actor := appaudit.ActorFromContext(ctx); actor.ID != nil && *actor.ID == id {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	s.recorder.Record(ctx, audit.ActionDelete, resourceUser, id.String(), nil)
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.config.RevokeTTL); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func sameVendor(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
