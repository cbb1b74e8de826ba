package gate

import "github.com/dtroode/scanportal-client/internal/model"

// NavItem is one entry of the sidebar.
type NavItem struct {
	Name        string
	Href        Route
	Description string
	Current     bool
}

// Navigation returns the sidebar items for the session, marking current.
func Navigation(s model.Session, current Route) []NavItem {
	items := make([]NavItem, 0, len(routeTable))
	for _, rule := range routeTable {
		if !rule.nav || !rule.allows(s) {
			continue
		}
		items = append(items, NavItem{
			Name:        rule.name,
			Href:        rule.route,
			Description: rule.description,
			Current:     rule.route == current,
		})
	}
	return items
}

// QuickAction is a dashboard shortcut.
type QuickAction struct {
	Title       string
	Description string
	Href        Route
	Action      string
}

type quickActionRule struct {
	action QuickAction
	role   model.Role
}

var quickActionTable = []quickActionRule{
	{action: QuickAction{Title: "Upload New Scan", Description: "Add a new patient scan with details", Href: RouteUpload, Action: "Upload"}, role: model.RoleTechnician},
	{action: QuickAction{Title: "View All Scans", Description: "Browse and analyze patient scans", Href: RouteScans, Action: "View"}, role: model.RoleDentist},
	{action: QuickAction{Title: "Generate Report", Description: "Create comprehensive scan reports", Href: RouteReports, Action: "Generate"}},
	{action: QuickAction{Title: "Analytics", Description: "View detailed analytics and insights", Href: RouteAnalytics, Action: "Analyze"}},
}

// QuickActions returns the dashboard shortcuts for the session.
func QuickActions(s model.Session) []QuickAction {
	if !s.IsAuthenticated() {
		return nil
	}

	actions := make([]QuickAction, 0, len(quickActionTable))
	for _, rule := range quickActionTable {
		if rule.role != "" && !s.HasRole(rule.role) {
			continue
		}
		actions = append(actions, rule.action)
	}
	return actions
}
