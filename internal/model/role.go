package model

// Role codes as constants. The column is an open string set so new roles can
// be introduced without a migration; these are the ones routes gate on.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// DefaultRole is assigned when registration omits the role field.
const DefaultRole = RoleStaff
