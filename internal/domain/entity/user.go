package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin          = "admin"
	RoleManager        = "manager"
	RoleSalesExecutive = "sales_executive"
	RoleAccountant     = "accountant"
)

// Permisos granulares (RBAC).
const (
	PermViewSales       = "view_sales"
	PermCreateSales     = "create_sales"
	PermEditSales       = "edit_sales"
	PermDeleteSales     = "delete_sales"
	PermViewProducts    = "view_products"
	PermCreateProducts  = "create_products"
	PermEditProducts    = "edit_products"
	PermDeleteProducts  = "delete_products"
	PermViewPurchases   = "view_purchases"
	PermCreatePurchases = "create_purchases"
	PermEditPurchases   = "edit_purchases"
	PermDeletePurchases = "delete_purchases"
	PermViewAnalytics   = "view_analytics"
	PermViewReports     = "view_reports"
	PermManageUsers     = "manage_users"
)

// AllPermissions lista completa en orden estable.
var AllPermissions = []string{
	PermViewSales, PermCreateSales, PermEditSales, PermDeleteSales,
	PermViewProducts, PermCreateProducts, PermEditProducts, PermDeleteProducts,
	PermViewPurchases, PermCreatePurchases, PermEditPurchases, PermDeletePurchases,
	PermViewAnalytics, PermViewReports, PermManageUsers,
}

// ValidRole indica si r es un rol conocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSalesExecutive, RoleAccountant:
		return true
	}
	return false
}

// DefaultPermissions permisos asignados por rol cuando el registro no los especifica.
func DefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return append([]string(nil), AllPermissions...)
	case RoleManager:
		out := make([]string, 0, len(AllPermissions)-1)
		for _, p := range AllPermissions {
			if p != PermManageUsers {
				out = append(out, p)
			}
		}
		return out
	case RoleAccountant:
		return []string{PermViewSales, PermViewProducts, PermViewPurchases, PermViewAnalytics, PermViewReports}
	case RoleSalesExecutive:
		return []string{PermViewSales, PermCreateSales, PermViewProducts}
	}
	return []string{}
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	Phone        string
	Permissions  []string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission indica si el usuario tiene el permiso p.
func (u *User) HasPermission(p string) bool {
	for _, x := range u.Permissions {
		if x == p {
			return true
		}
	}
	return false
}
