// Package upload validates scan images, renders their previews and submits
// them with patient metadata to the portal backend.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/dtroode/scanportal-client/internal/logger"
	"github.com/dtroode/scanportal-client/internal/model"
)

// uploadFailedMessage is shown when the backend gives no reason for a rejected upload.
const uploadFailedMessage = "Upload failed"

type previewJob struct {
	fileID uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}
}

// Pipeline holds one upload draft from file selection to submission.
type Pipeline struct {
	mu    sync.Mutex
	draft model.UploadDraft
	job   *previewJob

	backend       model.ScanBackend
	logger        *logger.Logger
	maxBytes      int64
	previewMaxDim uint
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxBytes overrides the largest accepted file size.
func WithMaxBytes(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// WithPreviewMaxDim scales previews down to fit a px square. Zero keeps the original image.
func WithPreviewMaxDim(px uint) Option {
	return func(p *Pipeline) {
		p.previewMaxDim = px
	}
}

func NewPipeline(backend model.ScanBackend, logger *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		backend:  backend,
		logger:   logger,
		maxBytes: model.MaxUploadSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SelectFile validates a candidate image and makes it the current selection,
// replacing any previous file and its preview. contentType may be empty, in
// which case it is detected from data. The preview is rendered in the background.
func (p *Pipeline) SelectFile(name, contentType string, data []byte) (model.SelectedFile, error) {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	if !isImage(contentType) {
		p.logger.Debug("Upload: rejected file format",
			"name", name,
			"contentType", contentType)
		return model.SelectedFile{}, model.ErrInvalidFormat
	}
	if int64(len(data)) > p.maxBytes {
		p.logger.Debug("Upload: rejected file size",
			"name", name,
			"size", len(data))
		return model.SelectedFile{}, model.ErrTooLarge
	}

	file := model.SelectedFile{
		ID:          uuid.New(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &previewJob{fileID: file.ID, cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	p.stopJobLocked()
	selected := file
	p.draft.File = &selected
	p.draft.PreviewDataURI = ""
	p.job = job
	p.mu.Unlock()

	go p.runPreview(ctx, job, file)

	p.logger.Info("Upload: file selected",
		"name", name,
		"fileID", file.ID,
		"size", file.Size)
	return file, nil
}

// SelectPath reads the file at path and selects it. The size limit is checked
// before the file is read.
func (p *Pipeline) SelectPath(path string) (model.SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.SelectedFile{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return model.SelectedFile{}, model.ErrInvalidFormat
	}
	if info.Size() > p.maxBytes {
		return model.SelectedFile{}, model.ErrTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.SelectedFile{}, fmt.Errorf("failed to read file: %w", err)
	}
	return p.SelectFile(filepath.Base(path), "", data)
}

func (p *Pipeline) runPreview(ctx context.Context, job *previewJob, file model.SelectedFile) {
	defer close(job.done)

	uri, err := renderPreview(ctx, file.ContentType, file.Data, p.previewMaxDim)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Warn("Upload: failed to render preview",
				"fileID", file.ID,
				"error", err.Error())
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil || p.draft.File == nil || p.draft.File.ID != job.fileID {
		p.logger.Debug("Upload: discarded stale preview",
			"fileID", job.fileID)
		return
	}
	p.draft.PreviewDataURI = uri
}

// stopJobLocked cancels the running preview job. p.mu must be held.
func (p *Pipeline) stopJobLocked() {
	if p.job != nil {
		p.job.cancel()
		p.job = nil
	}
}

// ClearFile drops the selected file and its preview.
func (p *Pipeline) ClearFile() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopJobLocked()
	p.draft.File = nil
	p.draft.PreviewDataURI = ""
}

// Preview returns the preview data URI of the selected file, or "" while it
// is not ready or nothing is selected.
func (p *Pipeline) Preview() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.PreviewDataURI
}

// WaitPreview blocks until the current preview job has finished.
func (p *Pipeline) WaitPreview(ctx context.Context) error {
	p.mu.Lock()
	job := p.job
	p.mu.Unlock()

	if job == nil {
		return nil
	}

	select {
	case <-job.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetFields stores the patient metadata typed so far.
func (p *Pipeline) SetFields(fields model.UploadFields) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draft.UploadFields = fields
}

// Draft returns a copy of the current draft.
func (p *Pipeline) Draft() model.UploadDraft {
	p.mu.Lock()
	defer p.mu.Unlock()

	d := p.draft
	if d.File != nil {
		f := *d.File
		d.File = &f
	}
	return d
}

// Submit sends the selected file with fields to the backend. Local problems
// are reported before any request: model.ErrMissingFile, then
// model.ValidationErrors. A backend rejection is a *model.SubmitError.
// On success the draft is reset.
func (p *Pipeline) Submit(ctx context.Context, token string, fields model.UploadFields) error {
	p.mu.Lock()
	p.draft.UploadFields = fields
	var file *model.SelectedFile
	if p.draft.File != nil {
		f := *p.draft.File
		file = &f
	}
	p.mu.Unlock()

	if file == nil {
		return model.ErrMissingFile
	}
	if errs := Validate(fields); errs != nil {
		p.logger.Debug("Upload: invalid fields",
			"errors", errs.Error())
		return errs
	}

	p.logger.Debug("Upload: submitting scan",
		"fileID", file.ID,
		"patientId", fields.PatientID)

	err := p.backend.UploadScan(ctx, token, model.UploadSubmission{
		Fields: trimFields(fields),
		File:   *file,
	})
	if err != nil {
		p.logger.Warn("Upload: backend rejected scan",
			"fileID", file.ID,
			"error", err.Error())
		return &model.SubmitError{
			Message: model.UserMessage(err, uploadFailedMessage),
			Err:     err,
		}
	}

	p.mu.Lock()
	if p.draft.File != nil && p.draft.File.ID == file.ID {
		p.stopJobLocked()
		p.draft = model.UploadDraft{}
	}
	p.mu.Unlock()

	p.logger.Info("Upload: scan uploaded",
		"fileID", file.ID,
		"patientId", fields.PatientID)
	return nil
}

func trimFields(f model.UploadFields) model.UploadFields {
	return model.UploadFields{
		PatientName: strings.TrimSpace(f.PatientName),
		PatientID:   strings.TrimSpace(f.PatientID),
		ScanType:    strings.TrimSpace(f.ScanType),
		Region:      f.Region,
	}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
