// Package picker implements the media picker dialog: browse the catalog,
// preview, select one or many assets, upload, delete, and commit the
// selection back to the host.
package picker

import (
	"context"
	"sync"

	"github.com/craftfolio/cms/internal/catalog"
	"github.com/craftfolio/cms/internal/models"
)

type State int

const (
	Closed State = iota
	Browsing
	Previewing
	Uploading
)

type Mode int

const (
	Single Mode = iota
	Multi
)

// Notifier receives user-visible failure messages.
type Notifier func(message string)

// ConfirmFunc gates destructive operations; the delete call is only issued
// when it returns true.
type ConfirmFunc func(prompt string) bool

type Config struct {
	Store       catalog.Store
	Mode        Mode
	PageContext string

	// OnPick delivers the committed selection. Single mode delivers exactly
	// one URL; multi mode delivers the URLs in catalog order.
	OnPick  func(urls []string)
	Notify  Notifier
	Confirm ConfirmFunc
}

type Picker struct {
	store       catalog.Store
	mode        Mode
	pageContext string
	onPick      func(urls []string)
	notify      Notifier
	confirm     ConfirmFunc

	mu          sync.Mutex
	state       State
	gen         uint64
	assets      []models.MediaAsset
	loadFailed  bool
	query       catalog.Query
	sortKey     catalog.SortKey
	selectedID  string
	selectedIDs map[string]struct{}
	previewID   string
}

func New(cfg Config) *Picker {
	p := &Picker{
		store:       cfg.Store,
		mode:        cfg.Mode,
		pageContext: cfg.PageContext,
		onPick:      cfg.OnPick,
		notify:      cfg.Notify,
		confirm:     cfg.Confirm,
		state:       Closed,
		sortKey:     catalog.SortDate,
		query:       catalog.Query{Type: catalog.TypeAll},
		selectedIDs: make(map[string]struct{}),
	}
	if p.onPick == nil {
		p.onPick = func([]string) {}
	}
	if p.notify == nil {
		p.notify = func(string) {}
	}
	if p.confirm == nil {
		p.confirm = func(string) bool { return false }
	}
	return p
}

// Open transitions Closed -> Browsing, resets selection and view state, and
// fetches the catalog. A fetch failure leaves the dialog open and empty with
// the error flag set; a response that arrives after the dialog was closed
// again (or reopened) is dropped.
func (p *Picker) Open(ctx context.Context) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = Browsing
	p.assets = nil
	p.loadFailed = false
	p.selectedID = ""
	p.selectedIDs = make(map[string]struct{})
	p.previewID = ""
	p.query = catalog.Query{Type: catalog.TypeAll}
	p.sortKey = catalog.SortDate
	p.mu.Unlock()

	assets, err := p.store.List(ctx, p.pageContext)

	p.mu.Lock()
	if p.gen != gen || p.state == Closed {
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.loadFailed = true
		p.mu.Unlock()
		p.notify("Failed to load media library")
		return
	}
	p.assets = assets
	p.mu.Unlock()
}

// Close cancels the dialog without delivering a selection. In-flight
// responses for the closed session are invalidated.
func (p *Picker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Picker) closeLocked() {
	p.gen++
	p.state = Closed
	p.previewID = ""
}

// Escape closes the preview if one is open, otherwise the dialog.
func (p *Picker) Escape() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Previewing {
		p.state = Browsing
		p.previewID = ""
		return
	}
	if p.state == Browsing {
		p.closeLocked()
	}
}

// OutsideClick dismisses the dialog, except while previewing and except
// when the click landed on the upload trigger (which would immediately
// reopen an intentionally-opened dialog).
func (p *Picker) OutsideClick(onUploadTrigger bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Browsing || onUploadTrigger {
		return
	}
	p.closeLocked()
}

// Preview shows a single asset without altering the selection.
func (p *Picker) Preview(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Browsing {
		return
	}
	if _, ok := p.assetByID(id); !ok {
		return
	}
	p.state = Previewing
	p.previewID = id
}

func (p *Picker) ClosePreview() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Previewing {
		p.state = Browsing
		p.previewID = ""
	}
}

// ToggleSelect flips an asset in or out of the selection. Single mode keeps
// at most one id; selecting the current one clears it.
func (p *Picker) ToggleSelect(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Browsing && p.state != Previewing {
		return
	}
	if _, ok := p.assetByID(id); !ok {
		return
	}
	p.toggleLocked(id)
}

// SelectFromPreview toggles the previewed asset into the selection and
// returns to browsing.
func (p *Picker) SelectFromPreview() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Previewing || p.previewID == "" {
		return
	}
	p.toggleLocked(p.previewID)
	p.state = Browsing
	p.previewID = ""
}

func (p *Picker) toggleLocked(id string) {
	if p.mode == Single {
		if p.selectedID == id {
			p.selectedID = ""
		} else {
			p.selectedID = id
		}
		return
	}
	if _, ok := p.selectedIDs[id]; ok {
		delete(p.selectedIDs, id)
	} else {
		p.selectedIDs[id] = struct{}{}
	}
}

// Upload sends a new file to the store, prepends the resulting asset to the
// in-memory list without refetching, and auto-selects it in single mode.
func (p *Picker) Upload(ctx context.Context, req catalog.UploadRequest) {
	p.mu.Lock()
	if p.state != Browsing {
		p.mu.Unlock()
		return
	}
	gen := p.gen
	p.state = Uploading
	p.mu.Unlock()

	if req.PageContext == "" {
		req.PageContext = p.pageContext
	}
	asset, err := p.store.Upload(ctx, req)

	p.mu.Lock()
	if p.gen != gen || p.state == Closed {
		p.mu.Unlock()
		return
	}
	p.state = Browsing
	if err != nil {
		p.mu.Unlock()
		p.notify("Upload failed: " + err.Error())
		return
	}
	p.assets = append([]models.MediaAsset{asset}, p.assets...)
	if p.mode == Single {
		p.selectedID = asset.PublicID
	}
	p.mu.Unlock()
}

// Commit delivers the selection and closes the dialog. An empty selection
// is a no-op. Multi mode resolves ids against the current catalog so the
// delivered URLs follow catalog order, not selection order, and ids that no
// longer resolve to a valid asset are skipped.
func (p *Picker) Commit() {
	p.mu.Lock()
	if p.state != Browsing {
		p.mu.Unlock()
		return
	}

	var urls []string
	if p.mode == Single {
		if a, ok := p.assetByID(p.selectedID); ok && catalog.ValidURL(a.URL) {
			urls = []string{a.URL}
		}
	} else {
		for _, a := range p.assets {
			if _, ok := p.selectedIDs[a.PublicID]; !ok {
				continue
			}
			if !catalog.ValidURL(a.URL) {
				continue
			}
			urls = append(urls, a.URL)
		}
	}

	if len(urls) == 0 {
		p.mu.Unlock()
		return
	}

	p.closeLocked()
	onPick := p.onPick
	p.mu.Unlock()

	onPick(urls)
}

// DeleteAsset removes an asset from the store after an explicit
// confirmation, then scrubs it from every piece of local state: the catalog
// list, both selection sets and the preview. A failed remote delete leaves
// everything untouched.
func (p *Picker) DeleteAsset(ctx context.Context, id string) {
	p.mu.Lock()
	if p.state != Browsing && p.state != Previewing {
		p.mu.Unlock()
		return
	}
	if _, ok := p.assetByID(id); !ok {
		p.mu.Unlock()
		return
	}
	gen := p.gen
	p.mu.Unlock()

	if !p.confirm("Delete this file permanently?") {
		return
	}

	err := p.store.Delete(ctx, id)

	p.mu.Lock()
	if p.gen != gen || p.state == Closed {
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.mu.Unlock()
		p.notify("Failed to delete file")
		return
	}

	kept := p.assets[:0]
	for _, a := range p.assets {
		if a.PublicID != id {
			kept = append(kept, a)
		}
	}
	p.assets = kept
	if p.selectedID == id {
		p.selectedID = ""
	}
	delete(p.selectedIDs, id)
	if p.previewID == id {
		p.previewID = ""
		if p.state == Previewing {
			p.state = Browsing
		}
	}
	p.mu.Unlock()
}

// View state. Filter, search and sort are ephemeral and never persisted.

func (p *Picker) SetTypeFilter(t catalog.TypeFilter) {
	p.mu.Lock()
	p.query.Type = t
	p.mu.Unlock()
}

func (p *Picker) SetSearch(term string) {
	p.mu.Lock()
	p.query.Search = term
	p.mu.Unlock()
}

func (p *Picker) SetSort(key catalog.SortKey) {
	p.mu.Lock()
	p.sortKey = key
	p.mu.Unlock()
}

// View returns the assets as currently filtered, searched and sorted.
func (p *Picker) View() []models.MediaAsset {
	p.mu.Lock()
	assets := append([]models.MediaAsset(nil), p.assets...)
	q := p.query
	key := p.sortKey
	p.mu.Unlock()

	return catalog.Sort(catalog.Filter(assets, q), key)
}

func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Picker) LoadFailed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadFailed
}

func (p *Picker) PreviewID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.previewID
}

// SelectedIDs returns the selected ids; in single mode at most one.
func (p *Picker) SelectedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == Single {
		if p.selectedID == "" {
			return nil
		}
		return []string{p.selectedID}
	}
	ids := make([]string, 0, len(p.selectedIDs))
	for _, a := range p.assets {
		if _, ok := p.selectedIDs[a.PublicID]; ok {
			ids = append(ids, a.PublicID)
		}
	}
	return ids
}

func (p *Picker) assetByID(id string) (models.MediaAsset, bool) {
	if id == "" {
		return models.MediaAsset{}, false
	}
	for _, a := range p.assets {
		if a.PublicID == id {
			return a, true
		}
	}
	return models.MediaAsset{}, false
}
