package portal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dtroode/scanportal-client/internal/gate"
)

// ErrEmptyScanID is returned when a report is requested without a scan ID.
var ErrEmptyScanID = errors.New("scan id is required")

// Report is a scan report kept in artifact storage.
type Report struct {
	ScanID string
	Key    string
	// Cached is set when the report was already stored and not downloaded again.
	Cached bool
	Notice *Notice
}

// ReportKey names the stored report of a scan.
func ReportKey(scanID string) string {
	return "scan-" + scanID + ".pdf"
}

// DownloadReport fetches the PDF report of a scan into artifact storage. A
// report already stored is reused unless force is set. A failed transfer
// leaves no partial report behind.
func (p *Portal) DownloadReport(ctx context.Context, scanID string, force bool) (Report, error) {
	if _, err := p.guard(gate.RouteScans); err != nil {
		return Report{}, err
	}
	if scanID == "" {
		return Report{}, ErrEmptyScanID
	}

	report := Report{ScanID: scanID, Key: ReportKey(scanID)}

	if !force {
		exists, err := p.artifacts.Exists(ctx, report.Key)
		if err != nil {
			return Report{}, fmt.Errorf("failed to check stored report: %w", err)
		}
		if exists {
			p.logger.Debug("Portal: report already stored",
				"scanID", scanID,
				"key", report.Key)
			report.Cached = true
			report.Notice = successNotice("PDF report already downloaded")
			return report, nil
		}
	}

	if err := p.fetchReport(ctx, report); err != nil {
		p.logger.Error("Portal: failed to download report",
			"scanID", scanID,
			"error", err.Error())
		report.Notice = errorNotice(err, "Failed to download PDF report")
		return report, err
	}

	p.logger.Info("Portal: report downloaded",
		"scanID", scanID,
		"key", report.Key)
	report.Notice = successNotice("PDF report downloaded successfully")
	return report, nil
}

func (p *Portal) fetchReport(ctx context.Context, report Report) error {
	body, err := p.backend.DownloadPDF(ctx, p.session.Token(), report.ScanID)
	if err != nil {
		return fmt.Errorf("failed to request report: %w", err)
	}
	defer body.Close()

	if err := p.artifacts.Upload(ctx, report.Key, body); err != nil {
		if derr := p.artifacts.Delete(context.WithoutCancel(ctx), report.Key); derr != nil {
			p.logger.Warn("Portal: failed to remove partial report",
				"key", report.Key,
				"error", derr.Error())
		}
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// OpenReport opens a stored report. A report never downloaded is model.ErrNotFound.
func (p *Portal) OpenReport(ctx context.Context, scanID string) (io.ReadCloser, error) {
	if _, err := p.guard(gate.RouteScans); err != nil {
		return nil, err
	}
	if scanID == "" {
		return nil, ErrEmptyScanID
	}
	return p.artifacts.Download(ctx, ReportKey(scanID))
}
