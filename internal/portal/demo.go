package portal

import "github.com/dtroode/scanportal-client/internal/model"

// DemoAccount is a sign-in offered on the login screen of demo deployments.
type DemoAccount struct {
	Label    string
	Role     model.Role
	Email    string
	Password string
}

// DemoAccounts lists the demo sign-ins, one per role.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{Label: "Technician", Role: model.RoleTechnician, Email: "demo-technician@oralvis.com", Password: "demo-password-123"},
		{Label: "Dentist", Role: model.RoleDentist, Email: "demo-dentist@oralvis.com", Password: "demo-password-123"},
	}
}

// DemoAccountFor returns the demo sign-in of role.
func DemoAccountFor(role model.Role) (DemoAccount, bool) {
	for _, a := range DemoAccounts() {
		if a.Role == role {
			return a, true
		}
	}
	return DemoAccount{}, false
}
