package middleware

import (
	"net/http"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/model"

	"github.com/gin-gonic/gin"
)

// Capabilities checked at the route boundary. Handlers and services never
// branch on role: the capability table below is the single source of truth
// for what each role may do.
const (
	CapSaleCreate      = "sale.create"
	CapSaleCancel      = "sale.cancel"
	CapPurchaseCreate  = "purchase.create"
	CapPurchaseCancel  = "purchase.cancel"
	CapMasterdataRead  = "masterdata.read"
	CapMasterdataWrite = "masterdata.write"
	CapUsersManage     = "users.manage"
	CapTiersManage     = "tiers.manage"
	CapReportsRead     = "reports.read"
)

var roleCapabilities = map[string]map[string]bool{
	model.RoleCashier: caps(
		CapSaleCreate,
		CapMasterdataRead,
		CapReportsRead,
	),
	model.RoleManager: caps(
		CapSaleCreate,
		CapSaleCancel,
		CapPurchaseCreate,
		CapPurchaseCancel,
		CapMasterdataRead,
		CapMasterdataWrite,
		CapReportsRead,
	),
	model.RoleAdmin: caps(
		CapSaleCreate,
		CapSaleCancel,
		CapPurchaseCreate,
		CapPurchaseCancel,
		CapMasterdataRead,
		CapMasterdataWrite,
		CapUsersManage,
		CapTiersManage,
		CapReportsRead,
	),
}

func caps(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// HasCapability reports whether a role grants a capability.
func HasCapability(role, capability string) bool {
	return roleCapabilities[role][capability]
}

// RequireCapability rejects requests whose JWT role does not grant the
// capability. Must run after JWTAuth.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !HasCapability(claims.Role, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}
