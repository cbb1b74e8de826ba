package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dtroode/scanportal-client/internal/model"
	"github.com/dtroode/scanportal-client/internal/portal"
)

var errUsage = errors.New("invalid usage")

const (
	passwordUsage  = "account password (prompted when empty; the typed password is echoed)"
	passwordPrompt = "Password (input is echoed): "
)

func (a *app) run(ctx context.Context, name string, args []string) error {
	out := os.Stdout

	switch name {
	case "login":
		return a.login(ctx, out, args)
	case "logout":
		renderDecision(out, a.portal.Logout())
		return nil
	case "whoami":
		renderSession(out, a.portal.Session())
		return nil
	case "demo":
		renderDemoAccounts(out, portal.DemoAccounts())
		return nil
	case "open":
		if len(args) != 1 {
			return fmt.Errorf("%w: open takes one route", errUsage)
		}
		renderDecision(out, a.portal.Navigate(args[0]))
		return nil
	case "dashboard":
		return a.dashboard(ctx, out, args)
	case "scans":
		return a.scans(ctx, out, args)
	case "pdf":
		return a.pdf(ctx, out, args)
	case "upload":
		return a.upload(ctx, out, args)
	default:
		usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func (a *app) login(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", passwordUsage)
	demo := fs.String("demo", "", "sign in with the demo account of a role: technician|dentist")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *demo != "" {
		acct, ok := portal.DemoAccountFor(model.Role(strings.ToLower(*demo)))
		if !ok {
			return fmt.Errorf("%w: unknown demo role %q", errUsage, *demo)
		}
		*email, *password = acct.Email, acct.Password
	}
	if *email == "" {
		return fmt.Errorf("%w: -email or -demo is required", errUsage)
	}
	if *password == "" {
		p, err := prompt(os.Stdin, out, passwordPrompt)
		if err != nil {
			return err
		}
		*password = p
	}

	res, next := a.portal.Login(ctx, *email, *password)
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Fprintln(out, "Welcome back! Login successful!")
	renderDecision(out, next)
	return nil
}

func prompt(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) dashboard(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "refresh on WATCH_SCHEDULE until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	show := func() error {
		screen, err := a.portal.Dashboard(ctx)
		if err != nil {
			return err
		}
		renderDashboard(out, screen)
		return nil
	}

	if err := show(); err != nil {
		return err
	}
	if !*watch {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(a.cfg.WatchSchedule, func() {
		if err := show(); err != nil {
			a.logger.Error("dashboard refresh failed", "error", err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("invalid WATCH_SCHEDULE %q: %w", a.cfg.WatchSchedule, err)
	}

	a.logger.Info("watching dashboard", "schedule", a.cfg.WatchSchedule)
	c.Start()
	<-ctx.Done()

	stopped := c.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(5 * time.Second):
		a.logger.Warn("dashboard refresh did not finish before shutdown")
	}
	return nil
}

func (a *app) scans(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("scans", flag.ContinueOnError)
	search := fs.String("search", "", "match patient name, patient ID or scan type")
	region := fs.String("region", "", "only scans of this region: "+regionNames())
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := model.ScanFilter{SearchTerm: *search}
	if *region != "" {
		r, err := parseRegion(*region)
		if err != nil {
			return err
		}
		filter.Region = r
	}

	screen, err := a.portal.ScanList(ctx, filter)
	if err != nil {
		return err
	}
	renderScanList(out, screen)
	return nil
}

func (a *app) pdf(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("pdf", flag.ContinueOnError)
	id := fs.String("id", "", "scan ID")
	force := fs.Bool("force", false, "download again even if the report is stored")
	stdout := fs.Bool("stdout", false, "write the report to stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	report, err := a.portal.DownloadReport(ctx, *id, *force)
	if err != nil {
		if report.Notice != nil {
			return errors.New(report.Notice.Text)
		}
		return err
	}

	if !*stdout {
		renderNotice(out, report.Notice)
		fmt.Fprintf(out, "Saved as %s\n", report.Key)
		return nil
	}

	rc, err := a.portal.OpenReport(ctx, *id)
	if err != nil {
		return err
	}
	defer rc.Close()
	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (a *app) upload(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	file := fs.String("file", "", "scan image (JPG, PNG)")
	name := fs.String("name", "", "patient name")
	patientID := fs.String("patient-id", "", "patient ID")
	scanType := fs.String("type", "", "scan type")
	region := fs.String("region", "", "region: "+regionNames())
	preview := fs.Bool("preview", false, "print the image preview data URI")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file != "" {
		if _, notice, err := a.portal.SelectScanFile(*file); err != nil {
			if notice != nil {
				return errors.New(notice.Text)
			}
			return err
		}
		if *preview {
			if err := a.portal.WaitPreview(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, a.portal.UploadDraft().PreviewDataURI)
		}
	}

	fields := model.UploadFields{
		PatientName: *name,
		PatientID:   *patientID,
		ScanType:    *scanType,
		Region:      matchRegion(*region),
	}

	res, err := a.portal.SubmitUpload(ctx, fields)
	if err != nil {
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			renderValidation(os.Stderr, verrs)
		}
		if res.Notice != nil {
			return errors.New(res.Notice.Text)
		}
		return err
	}

	renderNotice(out, res.Notice)
	renderDecision(out, a.portal.Navigate(string(res.Next)))
	return nil
}

// matchRegion maps user input onto a region, ignoring case. Unknown input is
// passed through so validation reports it.
func matchRegion(raw string) model.Region {
	for _, r := range model.Regions {
		if strings.EqualFold(string(r), strings.TrimSpace(raw)) {
			return r
		}
	}
	return model.Region(raw)
}

func parseRegion(raw string) (model.Region, error) {
	r := matchRegion(raw)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown region %q, want one of %s", errUsage, raw, regionNames())
	}
	return r, nil
}

func regionNames() string {
	names := make([]string, 0, len(model.Regions))
	for _, r := range model.Regions {
		names = append(names, fmt.Sprintf("%q", r))
	}
	return strings.Join(names, ", ")
}
