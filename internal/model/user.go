package model

// Role enumerates portal user roles.
type Role string

const (
	// RoleTechnician uploads scans.
	RoleTechnician Role = "technician"
	// RoleDentist reviews scans and downloads reports.
	RoleDentist Role = "dentist"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTechnician || r == RoleDentist
}

// UserIdentity is the authenticated user as reported by the backend.
type UserIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}
