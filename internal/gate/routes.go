// Package gate decides which routes and actions a session may reach.
//
// Every function here is a pure read of the session passed in; nothing is cached
// between calls, so a route set can never outlive the role that granted it.
package gate

import (
	"path"
	"strings"

	"github.com/dtroode/scanportal-client/internal/model"
)

// Route is an application path.
type Route string

const (
	RouteRoot      Route = "/"
	RouteLogin     Route = "/login"
	RouteDashboard Route = "/dashboard"
	RouteUpload    Route = "/upload"
	RouteScans     Route = "/scans"
	RouteReports   Route = "/reports"
	RouteAnalytics Route = "/analytics"
)

// DefaultLanding is where authenticated users land.
const DefaultLanding = RouteDashboard

// routeRule describes one registered route. An empty roles list means any
// authenticated user.
type routeRule struct {
	route       Route
	name        string
	description string
	roles       []model.Role
	nav         bool
}

// routeTable maps every authenticated route to the roles allowed to reach it.
var routeTable = []routeRule{
	{route: RouteDashboard, name: "Dashboard", description: "Overview and analytics", nav: true},
	{route: RouteUpload, name: "Upload Scan", description: "Add new patient scans", roles: []model.Role{model.RoleTechnician}, nav: true},
	{route: RouteScans, name: "View Scans", description: "Browse and analyze scans", roles: []model.Role{model.RoleDentist}, nav: true},
}

func (r routeRule) allows(s model.Session) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if len(r.roles) == 0 {
		return true
	}
	for _, role := range r.roles {
		if s.HasRole(role) {
			return true
		}
	}
	return false
}

// Routes returns the routes the session can navigate to.
func Routes(s model.Session) []Route {
	if !s.IsAuthenticated() {
		return []Route{RouteLogin}
	}

	routes := make([]Route, 0, len(routeTable))
	for _, rule := range routeTable {
		if rule.allows(s) {
			routes = append(routes, rule.route)
		}
	}
	return routes
}

// Allowed reports whether route renders for the session without a redirect.
func Allowed(route Route, s model.Session) bool {
	d := Decide(string(route), s)
	return d.Kind == KindRender
}

// Normalize cleans a raw location into a route: query and fragment are dropped,
// trailing slashes removed, and an empty path becomes "/".
func Normalize(raw string) Route {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return RouteRoot
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return Route(path.Clean(raw))
}
