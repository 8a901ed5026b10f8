package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Route prefixes of the two back-office surfaces
const (
	AdminPrefix  = "/api/v1/admin"
	SellerPrefix = "/api/v1/seller"
	ScopeKey     = "data_scope"
)

// RequireRole rejects callers whose token role is not in roles. Must follow JWTAuth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return func(c *gin.Context) {
		if !slices.Contains(names, GetJWTRole(c)) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "You do not have access to this area")
			return
		}
		c.Next()
	}
}

// ResolveScope picks the data scope from the URL prefix. Admin routes see
// everything and require role admin. Seller routes require role seller with
// a vendor and are limited to that vendor. Must follow JWTAuth.
func ResolveScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		role := GetJWTRole(c)

		switch {
		case hasPrefix(path, SellerPrefix):
			var vendorID *uuid.UUID
			if claims := GetJWTClaims(c); claims != nil {
				vendorID = claims.GetVendorUUID()
			}
			if role != identity.RoleSeller.String() || vendorID == nil {
				abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Seller access requires a vendor account")
				return
			}
			c.Set(ScopeKey, shared.VendorScope(*vendorID))
		case hasPrefix(path, AdminPrefix):
			if role != identity.RoleAdmin.String() {
				abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Administrator access required")
				return
			}
			c.Set(ScopeKey, shared.AdminScope())
		default:
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "No back-office scope for this route")
			return
		}
		c.Next()
	}
}

func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// GetScope returns the scope resolved for the request. Without ResolveScope
// it falls back to an empty vendor scope, which matches nothing.
func GetScope(c *gin.Context) shared.Scope {
	if v, ok := c.Get(ScopeKey); ok {
		if scope, ok := v.(shared.Scope); ok {
			return scope
		}
	}
	return shared.VendorScope(uuid.Nil)
}
