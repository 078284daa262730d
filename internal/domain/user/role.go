package user

// Role ids are stable and externally meaningful. Do not renumber.
type Role int

const (
	RoleAdmin            Role = 1
	RoleRegularUser      Role = 2
	RoleSupplier         Role = 3
	RoleVendor           Role = 4
	RoleWarehouseManager Role = 5
	RoleDriver           Role = 6
)

var roleNames = map[Role]string{
	RoleAdmin:            "Admin",
	RoleRegularUser:      "Regular User",
	RoleSupplier:         "Supplier",
	RoleVendor:           "Vendor",
	RoleWarehouseManager: "Warehouse Manager",
	RoleDriver:           "Driver",
}

var roleDescriptions = map[Role]string{
	RoleAdmin:            "System administrator with full access",
	RoleRegularUser:      "Standard user with basic access",
	RoleSupplier:         "Supplier of goods",
	RoleVendor:           "Vendor selling goods",
	RoleWarehouseManager: "Manager of a warehouse",
	RoleDriver:           "Delivery driver",
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) Name() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleRegularUser]
}

func (r Role) Description() string {
	return roleDescriptions[r]
}

// AllRoles lists every role in id order. Used for seeding.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleRegularUser, RoleSupplier, RoleVendor, RoleWarehouseManager, RoleDriver}
}

// ParseRole maps a requested role id to a Role; zero or unknown ids fall back
// to RoleRegularUser.
func ParseRole(id int) Role {
	r := Role(id)
	if !r.Valid() {
		return RoleRegularUser
	}
	return r
}
