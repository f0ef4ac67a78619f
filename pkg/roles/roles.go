package roles

// Role is the permission level of a staff account.
type Role string

const (
	Cashier          Role = "cashier"
	InventoryOfficer Role = "inventory_officer"
	Manager          Role = "manager"
	SuperAdmin       Role = "super_admin"
)

type HierarchyLevel int

const (
	CashierLevel          HierarchyLevel = 1
	InventoryOfficerLevel HierarchyLevel = 2
	ManagerLevel          HierarchyLevel = 3
	SuperAdminLevel       HierarchyLevel = 4
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Cashier:
		return CashierLevel
	case InventoryOfficer:
		return InventoryOfficerLevel
	case Manager:
		return ManagerLevel
	case SuperAdmin:
		return SuperAdminLevel
	default:
		return CashierLevel
	}
}

// HasPermission reports whether the role meets the required level.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Cashier, InventoryOfficer, Manager, SuperAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
