package portal

import (
	"context"

	"github.com/dtroode/scanportal-client/internal/gate"
	"github.com/dtroode/scanportal-client/internal/model"
	"github.com/dtroode/scanportal-client/internal/scans"
)

// ScanRow is one scan in the list, with its date ready for display.
type ScanRow struct {
	model.ScanRecord
	Date string
}

// ScanListScreen is the dentist's scan browser.
type ScanListScreen struct {
	Filter       model.ScanFilter
	Rows         []ScanRow
	Total        int
	EmptyMessage string
	Regions      []model.Region
	Notice       *Notice
}

// ScanList refreshes the scans and returns those matching f, in fetch order.
func (p *Portal) ScanList(ctx context.Context, f model.ScanFilter) (ScanListScreen, error) {
	if _, err := p.guard(gate.RouteScans); err != nil {
		return ScanListScreen{}, err
	}

	collection, err := p.RefreshScans(ctx)
	notice := errorNotice(err, "Failed to load scans")

	matched := scans.Apply(collection.Records, f)
	screen := ScanListScreen{
		Filter:  f,
		Rows:    make([]ScanRow, 0, len(matched)),
		Total:   len(collection.Records),
		Regions: model.Regions,
		Notice:  notice,
	}
	for _, r := range matched {
		screen.Rows = append(screen.Rows, ScanRow{ScanRecord: r, Date: scans.FormatDate(r.UploadDate)})
	}
	if len(screen.Rows) == 0 {
		screen.EmptyMessage = scans.EmptyMessage(f)
	}
	return screen, nil
}
