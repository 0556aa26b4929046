// Package gallery implements the ordered image-list editor for one parent
// entity: append from disk or catalog, drag-reorder, and cover selection.
//
// Invariant maintained across every mutation: the cover is either empty
// with an empty list, or a member of the list.
package gallery

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/craftfolio/cms/internal/catalog"
	"github.com/craftfolio/cms/internal/models"
	"golang.org/x/sync/errgroup"
)

// Uploads is the slice of the asset store the editor needs.
type Uploads interface {
	Upload(ctx context.Context, req catalog.UploadRequest) (models.MediaAsset, error)
}

// File is one locally picked file queued for upload.
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

	// Initial state, owned by the host form until it saves.
	Images []string
	Cover  string

	OnImagesChange func(images []string)
	OnCoverChange  func(cover string)
	Notify         func(message string)
}

type Editor struct {
	uploads     Uploads
	maxSizeMB   int64
	allowTypes  []string
	pageContext string
	onImages    func([]string)
	onCover     func(string)
	notify      func(string)

	mu        sync.Mutex
	images    []string
	cover     string
	dragIndex int
}

func New(cfg Config) *Editor {
	e := &Editor{
		uploads:     cfg.Uploads,
		maxSizeMB:   cfg.MaxSizeMB,
		allowTypes:  cfg.AllowTypes,
		pageContext: cfg.PageContext,
		images:      append([]string(nil), cfg.Images...),
		cover:       cfg.Cover,
		onImages:    cfg.OnImagesChange,
		onCover:     cfg.OnCoverChange,
		notify:      cfg.Notify,
		dragIndex:   -1,
	}
	if e.maxSizeMB <= 0 {
		e.maxSizeMB = 10
	}
	if len(e.allowTypes) == 0 {
		e.allowTypes = []string{"image/"}
	}
	if e.onImages == nil {
		e.onImages = func([]string) {}
	}
	if e.onCover == nil {
		e.onCover = func(string) {}
	}
	if e.notify == nil {
		e.notify = func(string) {}
	}
	return e
}

// AddFiles validates every file independently, uploads the valid ones
// concurrently, and appends the successes in the original selection order
// regardless of which upload finished first. One failed file never blocks
// the others.
func (e *Editor) AddFiles(ctx context.Context, files []File) {
	var valid []File
	for _, f := range files {
		if err := e.validate(f); err != nil {
			e.notify(fmt.Sprintf("%s: %s", f.Name, err))
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return
	}

	urls := make([]string, len(valid))
	errs := make([]error, len(valid))

	var g errgroup.Group
	for i := range valid {
		g.Go(func() error {
			asset, err := e.uploads.Upload(ctx, catalog.UploadRequest{
				FileName:    valid[i].Name,
				MimeType:    valid[i].MimeType,
				Size:        valid[i].Size,
				Content:     valid[i].Content,
				PageContext: e.pageContext,
			})
			if err != nil {
				errs[i] = err
				return nil
			}
			urls[i] = asset.URL
			return nil
		})
	}
	g.Wait()

	for i, err := range errs {
		if err != nil {
			e.notify(fmt.Sprintf("%s: upload failed", valid[i].Name))
		}
	}

	var added []string
	for _, u := range urls {
		if u != "" {
			added = append(added, u)
		}
	}
	if len(added) == 0 {
		return
	}

	e.mu.Lock()
	e.images = append(e.images, added...)
	coverChanged := false
	if e.cover == "" {
		e.cover = added[0]
		coverChanged = true
	}
	e.mu.Unlock()

	e.emit(true, coverChanged)
}

func (e *Editor) validate(f File) error {
	if f.Size > e.maxSizeMB*1024*1024 {
		return fmt.Errorf("file too large, max %dMB", e.maxSizeMB)
	}
	for _, prefix := range e.allowTypes {
		if strings.HasPrefix(f.MimeType, prefix) {
			return nil
		}
	}
	return fmt.Errorf("file type %s not allowed", f.MimeType)
}

// AddFromCatalog appends picked URLs, skipping any already present
// (exact-string dedup). The first newly added URL becomes cover when none
// was set.
func (e *Editor) AddFromCatalog(urls ...string) {
	e.mu.Lock()

	present := make(map[string]struct{}, len(e.images))
	for _, u := range e.images {
		present[u] = struct{}{}
	}

	var added []string
	for _, u := range urls {
		if _, ok := present[u]; ok {
			continue
		}
		present[u] = struct{}{}
		added = append(added, u)
	}

	if len(added) == 0 {
		e.mu.Unlock()
		return
	}

	e.images = append(e.images, added...)
	coverChanged := false
	if e.cover == "" {
		e.cover = added[0]
		coverChanged = true
	}
	e.mu.Unlock()

	e.emit(true, coverChanged)
}

// RemoveAt drops the image at index. Removing the cover promotes the new
// first element, or clears the cover when the list empties.
func (e *Editor) RemoveAt(index int) {
	e.mu.Lock()
	if index < 0 || index >= len(e.images) {
		e.mu.Unlock()
		return
	}

	removed := e.images[index]
	e.images = append(e.images[:index], e.images[index+1:]...)

	coverChanged := false
	if removed == e.cover {
		coverChanged = true
		if len(e.images) == 0 {
			e.cover = ""
		} else {
			e.cover = e.images[0]
		}
	}
	e.mu.Unlock()

	e.emit(true, coverChanged)
}

// SetCover marks url as the cover. A url not currently in the list is a
// silent no-op: the UI only ever offers members.
func (e *Editor) SetCover(url string) {
	e.mu.Lock()
	member := false
	for _, u := range e.images {
		if u == url {
			member = true
			break
		}
	}
	if !member || e.cover == url {
		e.mu.Unlock()
		return
	}
	e.cover = url
	e.mu.Unlock()

	e.emit(false, true)
}

// Reorder moves the element at from to position to, remove-then-insert.
// The cover follows its URL, not its index.
func (e *Editor) Reorder(from, to int) {
	e.mu.Lock()
	n := len(e.images)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		e.mu.Unlock()
		return
	}

	moved := e.images[from]
	rest := append(e.images[:from:from], e.images[from+1:]...)
	e.images = append(rest[:to:to], append([]string{moved}, rest[to:]...)...)
	e.mu.Unlock()

	e.emit(true, false)
}

// Drag state. The list is untouched until a drop on a valid target is
// confirmed; dropping on the origin index is a no-op.

func (e *Editor) StartDrag(index int) {
	e.mu.Lock()
	if index >= 0 && index < len(e.images) {
		e.dragIndex = index
	}
	e.mu.Unlock()
}

func (e *Editor) DragEnd() {
	e.mu.Lock()
	e.dragIndex = -1
	e.mu.Unlock()
}

func (e *Editor) DropOn(target int) {
	e.mu.Lock()
	from := e.dragIndex
	e.dragIndex = -1
	e.mu.Unlock()

	if from < 0 {
		return
	}
	e.Reorder(from, target)
}

func (e *Editor) DragIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragIndex
}

// Prune drops every image the keep predicate rejects and repairs the cover.
// Hosts that reconcile against out-of-band catalog deletions call this on
// load; by default stale references are left to fail soft at render time.
func (e *Editor) Prune(keep func(url string) bool) {
	e.mu.Lock()
	kept := e.images[:0]
	for _, u := range e.images {
		if keep(u) {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(e.images) {
		e.mu.Unlock()
		return
	}
	e.images = kept

	coverChanged := false
	if e.cover != "" {
		member := false
		for _, u := range e.images {
			if u == e.cover {
				member = true
				break
			}
		}
		if !member {
			coverChanged = true
			if len(e.images) == 0 {
				e.cover = ""
			} else {
				e.cover = e.images[0]
			}
		}
	}
	e.mu.Unlock()

	e.emit(true, coverChanged)
}

func (e *Editor) Images() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.images...)
}

func (e *Editor) Cover() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cover
}

func (e *Editor) emit(imagesChanged, coverChanged bool) {
	e.mu.Lock()
	images := append([]string(nil), e.images...)
	cover := e.cover
	e.mu.Unlock()

	if imagesChanged {
		e.onImages(images)
	}
	if coverChanged {
		e.onCover(cover)
	}
}
