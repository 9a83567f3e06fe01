// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// Route names used when registering handlers on the mux router.
const (
	RouteHealth            = "Health"
	RouteGetInventory      = "GetInventory"
	RouteGetCart           = "GetCart"
	RouteAddCartItem       = "AddCartItem"
	RouteUpdateCartItem    = "UpdateCartItem"
	RouteRemoveCartItem    = "RemoveCartItem"
	RouteCancelCart        = "CancelCart"
	RouteCheckout          = "Checkout"
	RouteListOrders        = "ListOrders"
	RouteUpdateOrderStatus = "UpdateOrderStatus"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	RouteHealth:       SecurityPublic,
	RouteGetInventory: SecurityPublic,

	// Cart - Access Protected
	RouteGetCart:        SecurityAccess,
	RouteAddCartItem:    SecurityAccess,
	RouteUpdateCartItem: SecurityAccess,
	RouteRemoveCartItem: SecurityAccess,
	RouteCancelCart:     SecurityAccess,

	// Checkout and orders - Access Protected
	RouteCheckout:          SecurityAccess,
	RouteListOrders:        SecurityAccess,
	RouteUpdateOrderStatus: SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
