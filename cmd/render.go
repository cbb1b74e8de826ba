package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dtroode/scanportal-client/internal/gate"
	"github.com/dtroode/scanportal-client/internal/model"
	"github.com/dtroode/scanportal-client/internal/portal"
)

func describeDecision(d gate.Decision) string {
	switch d.Kind {
	case gate.KindLoading:
		return fmt.Sprintf("%s is loading", d.Route)
	case gate.KindRedirect:
		return fmt.Sprintf("%s redirects to %s", d.Route, d.Target)
	default:
		return fmt.Sprintf("%s renders", d.Route)
	}
}

func renderDecision(w io.Writer, d gate.Decision) {
	fmt.Fprintf(w, "-> %s\n", describeDecision(d))
}

func renderNotice(w io.Writer, n *portal.Notice) {
	if n == nil {
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Text)
}

func renderSession(w io.Writer, s model.Session) {
	if !s.IsAuthenticated() {
		fmt.Fprintln(w, "Not signed in.")
		return
	}
	fmt.Fprintf(w, "%s (%s)\n", s.User.Name, s.User.Role)
	if s.User.Email != "" {
		fmt.Fprintln(w, s.User.Email)
	}
	fmt.Fprintln(w)
	for _, item := range gate.Navigation(s, gate.RouteDashboard) {
		fmt.Fprintf(w, "  %-12s %-10s %s\n", item.Name, item.Href, item.Description)
	}
}

func renderDemoAccounts(w io.Writer, accounts []portal.DemoAccount) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tEMAIL\tPASSWORD")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Label, a.Email, a.Password)
	}
	tw.Flush()
}

func renderDashboard(w io.Writer, d portal.DashboardScreen) {
	renderNotice(w, d.Notice)
	fmt.Fprintf(w, "%s, %s!\n\n", d.Greeting, d.UserName)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range d.Stats {
		fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Value)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nRecent activity")
	if len(d.Recent) == 0 {
		fmt.Fprintf(w, "  No recent activity. %s\n", d.EmptyHint)
	}
	for _, act := range d.Recent {
		fmt.Fprintf(w, "  %s (Patient ID: %s), %s\n", act.Summary, act.PatientID, act.When)
	}

	fmt.Fprintln(w, "\nQuick actions")
	for _, qa := range d.QuickActions {
		fmt.Fprintf(w, "  %-16s %s\n", qa.Title, qa.Description)
	}
}

func renderScanList(w io.Writer, s portal.ScanListScreen) {
	renderNotice(w, s.Notice)
	if len(s.Rows) == 0 {
		fmt.Fprintf(w, "No scans found. %s\n", s.EmptyMessage)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATIENT\tPATIENT ID\tTYPE\tREGION\tUPLOADED\tBY")
	for _, r := range s.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.PatientName, r.PatientID, r.ScanType, r.Region, r.Date, r.UploadedBy)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d of %d scans\n", len(s.Rows), s.Total)
}

func renderValidation(w io.Writer, errs model.ValidationErrors) {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, fmt.Sprintf("  %s: %s", e.Field, e.Message))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
