package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // HR/admin-equivalent, can view all attendance
	RoleEmployee Role = "employee" // Regular employee
)
