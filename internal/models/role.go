package models

// Role is the closed set of user roles.
type Role string

const (
	RoleVolunteer  Role = "volunteer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role carries admin capabilities. This is
// the single place role comparisons live; handlers and the leaderboard
// ranker go through it instead of comparing strings.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}
