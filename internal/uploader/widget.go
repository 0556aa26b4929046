// Package uploader implements the single-file upload widget: validate,
// upload, report the resulting URL to the host, or accept a pasted URL
// directly.
package uploader

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/craftfolio/cms/internal/catalog"
	"github.com/craftfolio/cms/internal/models"
)

// ValidationError is detected before any network call and never mutates
// widget state.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// RemoteError wraps an upload that reached the store and failed there.
type RemoteError struct {
	Err error
}

func (e *RemoteError) Error() string { return e.Err.Error() }
func (e *RemoteError) Unwrap() error { return e.Err }

// Uploads is the slice of the asset store the widget needs.
type Uploads interface {
	Upload(ctx context.Context, req catalog.UploadRequest) (models.MediaAsset, error)
}

// File is one locally picked file.
type File struct {
	Name     string
	Size     int64
	MimeType string
	Content  io.Reader
}

type Config struct {
	Uploads     Uploads
	MaxSizeMB   int64
	AllowTypes  []string // mime prefixes; default image/ only
	PageContext string

	OnChange func(url string)
	OnRemove func()
	Notify   func(message string)
}

const (
	progressCeil  = 90
	progressStep  = 10
	progressTick  = 200 * time.Millisecond
	progressClear = 500 * time.Millisecond
)

type Widget struct {
	uploads     Uploads
	maxSizeMB   int64
	allowTypes  []string
	pageContext string
	onChange    func(string)
	onRemove    func()
	notify      func(string)

	mu       sync.Mutex
	value    string
	progress int
	busy     bool
	gen      uint64
}

func New(cfg Config) *Widget {
	w := &Widget{
		uploads:     cfg.Uploads,
		maxSizeMB:   cfg.MaxSizeMB,
		allowTypes:  cfg.AllowTypes,
		pageContext: cfg.PageContext,
		onChange:    cfg.OnChange,
		onRemove:    cfg.OnRemove,
		notify:      cfg.Notify,
	}
	if w.maxSizeMB <= 0 {
		w.maxSizeMB = 10
	}
	if len(w.allowTypes) == 0 {
		w.allowTypes = []string{"image/"}
	}
	if w.onChange == nil {
		w.onChange = func(string) {}
	}
	if w.onRemove == nil {
		w.onRemove = func() {}
	}
	if w.notify == nil {
		w.notify = func(string) {}
	}
	return w
}

// SelectFile validates and uploads one file. Validation failures are typed,
// surfaced through Notify, and never reach the network. A response without
// a usable URL counts as a failure even on HTTP 200 (the store client
// enforces that). The previously bound value survives every failure.
func (w *Widget) SelectFile(ctx context.Context, f File) error {
	if err := w.validate(f); err != nil {
		w.notify(err.Error())
		return err
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		err := &ValidationError{Reason: "an upload is already in progress"}
		w.notify(err.Reason)
		return err
	}
	w.busy = true
	w.gen++
	gen := w.gen
	w.progress = 0
	w.mu.Unlock()

	stop := w.simulateProgress(gen)

	asset, err := w.uploads.Upload(ctx, catalog.UploadRequest{
		FileName:    f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		Content:     f.Content,
		PageContext: w.pageContext,
	})
	stop()

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	w.busy = false
	if err != nil {
		w.progress = 0
		w.mu.Unlock()
		w.notify("Upload failed: " + err.Error())
		return &RemoteError{Err: err}
	}
	w.progress = 100
	w.value = asset.URL
	w.mu.Unlock()

	w.onChange(asset.URL)
	w.clearProgressAfter(gen)
	return nil
}

func (w *Widget) validate(f File) *ValidationError {
	if f.Size > w.maxSizeMB*1024*1024 {
		return &ValidationError{
			Reason: fmt.Sprintf("file too large: max %dMB allowed", w.maxSizeMB),
		}
	}
	for _, prefix := range w.allowTypes {
		if strings.HasPrefix(f.MimeType, prefix) {
			return nil
		}
	}
	return &ValidationError{
		Reason: fmt.Sprintf("file type %s is not allowed", f.MimeType),
	}
}

// SubmitURL binds a pasted absolute URL as the value without any upload.
func (w *Widget) SubmitURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || (!strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://")) {
		err := &ValidationError{Reason: "enter a full URL starting with http:// or https://"}
		w.notify(err.Reason)
		return err
	}

	w.mu.Lock()
	w.value = raw
	w.mu.Unlock()

	w.onChange(raw)
	return nil
}

// RemoveCurrent detaches the bound value from the host field. The asset
// itself stays in storage.
func (w *Widget) RemoveCurrent() {
	w.mu.Lock()
	w.value = ""
	w.mu.Unlock()

	w.onRemove()
}

func (w *Widget) Value() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Progress is 0 when idle, climbs monotonically toward 90 while an upload
// is in flight, jumps to 100 on arrival and clears shortly after.
func (w *Widget) Progress() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progress
}

func (w *Widget) simulateProgress(gen uint64) (stop func()) {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(progressTick)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.mu.Lock()
				if w.gen == gen && w.progress < progressCeil {
					w.progress += progressStep
					if w.progress > progressCeil {
						w.progress = progressCeil
					}
				}
				w.mu.Unlock()
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

func (w *Widget) clearProgressAfter(gen uint64) {
	time.AfterFunc(progressClear, func() {
		w.mu.Lock()
		if w.gen == gen {
			w.progress = 0
		}
		w.mu.Unlock()
	})
}
