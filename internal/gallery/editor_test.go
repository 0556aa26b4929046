package gallery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/craftfolio/cms/internal/catalog"
	"github.com/craftfolio/cms/internal/models"
	"github.com/stretchr/testify/assert"
)

// orderedUploads completes uploads in an order chosen by the test, not the
// order they were issued.
type orderedUploads struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	failing map[string]bool
}

func newOrderedUploads() *orderedUploads {
	return &orderedUploads{
		gates:   make(map[string]chan struct{}),
		failing: make(map[string]bool),
	}
}

func (o *orderedUploads) gateFor(name string) chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if g, ok := o.gates[name]; ok {
		return g
	}
	g := make(chan struct{})
	o.gates[name] = g
	return g
}

func (o *orderedUploads) release(name string) {
	close(o.gateFor(name))
}

func (o *orderedUploads) Upload(ctx context.Context, req catalog.UploadRequest) (models.MediaAsset, error) {
	<-o.gateFor(req.FileName)

	o.mu.Lock()
	fail := o.failing[req.FileName]
	o.mu.Unlock()
	if fail {
		return models.MediaAsset{}, errors.New("upload rejected")
	}
	return models.MediaAsset{URL: "/uploads/photos/" + req.FileName}, nil
}

// instantUploads succeeds immediately.
type instantUploads struct{}

func (instantUploads) Upload(ctx context.Context, req catalog.UploadRequest) (models.MediaAsset, error) {
	return models.MediaAsset{URL: "/uploads/photos/" + req.FileName}, nil
}

func file(name string) File {
	return File{
		Name:     name,
		Size:     1024,
		MimeType: "image/jpeg",
		Content:  strings.NewReader("data"),
	}
}

func TestAddFilesAppendsInSelectionOrder(t *testing.T) {
	store := newOrderedUploads()
	e := New(Config{Uploads: store})

	done := make(chan struct{})
	go func() {
		e.AddFiles(context.Background(), []File{file("a.jpg"), file("b.jpg"), file("c.jpg")})
		close(done)
	}()

	// Complete in reverse order.
	store.release("c.jpg")
	store.release("b.jpg")
	store.release("a.jpg")
	<-done

	assert.Equal(t, []string{
		"/uploads/photos/a.jpg",
		"/uploads/photos/b.jpg",
		"/uploads/photos/c.jpg",
	}, e.Images())
}

func TestAddFilesPartialFailure(t *testing.T) {
	var messages []string
	store := newOrderedUploads()
	store.failing["bad.jpg"] = true
	e := New(Config{
		Uploads: store,
		Notify:  func(m string) { messages = append(messages, m) },
	})

	done := make(chan struct{})
	go func() {
		e.AddFiles(context.Background(), []File{file("a.jpg"), file("bad.jpg"), file("z.jpg")})
		close(done)
	}()

	store.release("a.jpg")
	store.release("bad.jpg")
	store.release("z.jpg")
	<-done

	assert.Equal(t, []string{
		"/uploads/photos/a.jpg",
		"/uploads/photos/z.jpg",
	}, e.Images())
	assert.Len(t, messages, 1)
	assert.Contains(t, messages[0], "bad.jpg")
}

func TestAddFilesValidatesEachFileIndependently(t *testing.T) {
	var messages []string
	e := New(Config{
		Uploads:   instantUploads{},
		MaxSizeMB: 1,
		Notify:    func(m string) { messages = append(messages, m) },
	})

	e.AddFiles(context.Background(), []File{
		file("good.jpg"),
		{Name: "huge.jpg", Size: 5 * 1024 * 1024, MimeType: "image/jpeg", Content: strings.NewReader("x")},
		{Name: "doc.pdf", Size: 100, MimeType: "application/pdf", Content: strings.NewReader("x")},
	})

	assert.Equal(t, []string{"/uploads/photos/good.jpg"}, e.Images())
	assert.Len(t, messages, 2)
}

func TestFirstImageBecomesCover(t *testing.T) {
	var covers []string
	e := New(Config{
		Uploads:       instantUploads{},
		OnCoverChange: func(c string) { covers = append(covers, c) },
	})

	e.AddFiles(context.Background(), []File{file("first.jpg"), file("second.jpg")})

	assert.Equal(t, "/uploads/photos/first.jpg", e.Cover())
	assert.Equal(t, []string{"/uploads/photos/first.jpg"}, covers)
}

func TestAddFromCatalogDeduplicates(t *testing.T) {
	e := New(Config{
		Images: []string{"/u/a.jpg"},
		Cover:  "/u/a.jpg",
	})

	e.AddFromCatalog("/u/b.jpg", "/u/a.jpg", "/u/b.jpg", "/u/c.jpg")

	assert.Equal(t, []string{"/u/a.jpg", "/u/b.jpg", "/u/c.jpg"}, e.Images())
	assert.Equal(t, "/u/a.jpg", e.Cover(), "existing cover untouched")
}

func TestAddFromCatalogAllDuplicatesEmitsNothing(t *testing.T) {
	changes := 0
	e := New(Config{
		Images:         []string{"/u/a.jpg"},
		Cover:          "/u/a.jpg",
		OnImagesChange: func([]string) { changes++ },
	})

	e.AddFromCatalog("/u/a.jpg")

	assert.Zero(t, changes)
}

func TestRemoveCoverPromotesNewFirst(t *testing.T) {
	e := New(Config{
		Images: []string{"/u/a.jpg", "/u/b.jpg", "/u/c.jpg"},
		Cover:  "/u/a.jpg",
	})

	e.RemoveAt(0)

	assert.Equal(t, []string{"/u/b.jpg", "/u/c.jpg"}, e.Images())
	assert.Equal(t, "/u/b.jpg", e.Cover())
}

func TestRemoveLastImageClearsCover(t *testing.T) {
	e := New(Config{
		Images: []string{"/u/only.jpg"},
		Cover:  "/u/only.jpg",
	})

	e.RemoveAt(0)

	assert.Empty(t, e.Images())
	assert.Empty(t, e.Cover())
}

func TestRemoveNonCoverLeavesCoverAlone(t *testing.T) {
	coverEvents := 0
	e := New(Config{
		Images:        []string{"/u/a.jpg", "/u/b.jpg"},
		Cover:         "/u/a.jpg",
		OnCoverChange: func(string) { coverEvents++ },
	})

	e.RemoveAt(1)

	assert.Equal(t, "/u/a.jpg", e.Cover())
	assert.Zero(t, coverEvents)
}

func TestSetCoverRequiresMembership(t *testing.T) {
	e := New(Config{
		Images: []string{"/u/a.jpg", "/u/b.jpg"},
		Cover:  "/u/a.jpg",
	})

	e.SetCover("/u/stranger.jpg")
	assert.Equal(t, "/u/a.jpg", e.Cover())

	e.SetCover("/u/b.jpg")
	assert.Equal(t, "/u/b.jpg", e.Cover())
}

func TestReorderCoverFollowsURL(t *testing.T) {
	e := New(Config{
		Images: []string{"/u/a.jpg", "/u/b.jpg", "/u/c.jpg"},
		Cover:  "/u/b.jpg",
	})

	e.Reorder(1, 0)

	assert.Equal(t, []string{"/u/b.jpg", "/u/a.jpg", "/u/c.jpg"}, e.Images())
	assert.Equal(t, "/u/b.jpg", e.Cover())
}

func TestReorderToEnd(t *testing.T) {
	e := New(Config{
		Images: []string{"/u/a.jpg", "/u/b.jpg", "/u/c.jpg"},
		Cover:  "/u/a.jpg",
	})

	e.Reorder(0, 2)

	assert.Equal(t, []string{"/u/b.jpg", "/u/c.jpg", "/u/a.jpg"}, e.Images())
	assert.Equal(t, "/u/a.jpg", e.Cover())
}

func TestReorderOutOfRangeIsNoOp(t *testing.T) {
	e := New(Config{Images: []string{"/u/a.jpg", "/u/b.jpg"}})

	e.Reorder(0, 5)
	e.Reorder(-1, 1)
	e.Reorder(1, 1)

	assert.Equal(t, []string{"/u/a.jpg", "/u/b.jpg"}, e.Images())
}

func TestDragAndDrop(t *testing.T) {
	e := New(Config{Images: []string{"/u/a.jpg", "/u/b.jpg", "/u/c.jpg"}})

	e.StartDrag(2)
	assert.Equal(t, 2, e.DragIndex())

	e.DropOn(0)
	assert.Equal(t, []string{"/u/c.jpg", "/u/a.jpg", "/u/b.jpg"}, e.Images())
	assert.Equal(t, -1, e.DragIndex())

	// DragEnd without a drop leaves the list untouched.
	e.StartDrag(0)
	e.DragEnd()
	e.DropOn(2)
	assert.Equal(t, []string{"/u/c.jpg", "/u/a.jpg", "/u/b.jpg"}, e.Images())
}

func TestPruneRepairsCover(t *testing.T) {
	e := New(Config{
		Images: []string{"/u/gone.jpg", "/u/kept.jpg"},
		Cover:  "/u/gone.jpg",
	})

	e.Prune(func(url string) bool { return url != "/u/gone.jpg" })

	assert.Equal(t, []string{"/u/kept.jpg"}, e.Images())
	assert.Equal(t, "/u/kept.jpg", e.Cover())
}

func TestPruneKeepingEverythingEmitsNothing(t *testing.T) {
	changes := 0
	e := New(Config{
		Images:         []string{"/u/a.jpg"},
		Cover:          "/u/a.jpg",
		OnImagesChange: func([]string) { changes++ },
	})

	e.Prune(func(string) bool { return true })

	assert.Zero(t, changes)
}

func TestImagesReturnsCopy(t *testing.T) {
	e := New(Config{Images: []string{"/u/a.jpg", "/u/b.jpg"}})

	imgs := e.Images()
	imgs[0] = "/u/mutated.jpg"

	assert.Equal(t, []string{"/u/a.jpg", "/u/b.jpg"}, e.Images())
}
