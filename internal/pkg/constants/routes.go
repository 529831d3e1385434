package constants

// Static route constants
const (
	RouteHome          = "/"
	RouteUpgradeForm   = "/upgrade/:id"
	RouteAdminUpgrades = "/admin/upgrades"
)
