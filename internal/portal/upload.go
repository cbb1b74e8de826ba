package portal

import (
	"context"
	"errors"

	"github.com/dtroode/scanportal-client/internal/gate"
	"github.com/dtroode/scanportal-client/internal/model"
)

// UploadResult is the outcome of submitting the upload form.
type UploadResult struct {
	Notice *Notice
	// Next is where to go after a successful upload.
	Next gate.Route
}

// localNotices are the user-facing texts of local upload errors.
var localNotices = map[error]string{
	model.ErrInvalidFormat: "Please select an image file (JPG, PNG)",
	model.ErrTooLarge:      "File size must be less than 10MB",
	model.ErrMissingFile:   "Please select a scan image",
}

func uploadNotice(err error) *Notice {
	for target, text := range localNotices {
		if errors.Is(err, target) {
			return &Notice{Level: NoticeError, Text: text}
		}
	}
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		return &Notice{Level: NoticeError, Text: verrs.Error()}
	}
	return errorNotice(err, "Upload failed")
}

// SelectScanFile picks the image at path for the next upload.
func (p *Portal) SelectScanFile(path string) (model.SelectedFile, *Notice, error) {
	if _, err := p.guard(gate.RouteUpload); err != nil {
		return model.SelectedFile{}, nil, err
	}

	file, err := p.uploads.SelectPath(path)
	if err != nil {
		return model.SelectedFile{}, uploadNotice(err), err
	}
	return file, nil, nil
}

// UploadDraft returns the upload form as filled in so far.
func (p *Portal) UploadDraft() model.UploadDraft {
	return p.uploads.Draft()
}

// WaitPreview blocks until the preview of the selected file is ready.
func (p *Portal) WaitPreview(ctx context.Context) error {
	return p.uploads.WaitPreview(ctx)
}

// SubmitUpload sends the selected scan with fields. On success the scan cache
// is invalidated and the result points at the dashboard. Local validation
// failures are returned without a request being made.
func (p *Portal) SubmitUpload(ctx context.Context, fields model.UploadFields) (UploadResult, error) {
	if _, err := p.guard(gate.RouteUpload); err != nil {
		return UploadResult{}, err
	}

	if err := p.uploads.Submit(ctx, p.session.Token(), fields); err != nil {
		return UploadResult{Notice: uploadNotice(err)}, err
	}

	p.invalidate()
	return UploadResult{
		Notice: successNotice("Scan uploaded successfully!"),
		Next:   gate.DefaultLanding,
	}, nil
}
