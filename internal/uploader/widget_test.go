package uploader

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/craftfolio/cms/internal/catalog"
	"github.com/craftfolio/cms/internal/models"
	"github.com/stretchr/testify/assert"
)

type fakeUploads struct {
	mu    sync.Mutex
	calls int
	err   error
	gate  chan struct{}
}

func (f *fakeUploads) Upload(ctx context.Context, req catalog.UploadRequest) (models.MediaAsset, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return models.MediaAsset{}, f.err
	}
	return models.MediaAsset{
		PublicID: "id-" + req.FileName,
		URL:      "/uploads/photos/" + req.FileName,
	}, nil
}

func (f *fakeUploads) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func imageFile(name string, size int64) File {
	return File{
		Name:     name,
		Size:     size,
		MimeType: "image/jpeg",
		Content:  strings.NewReader("data"),
	}
}

func TestSelectFileSuccess(t *testing.T) {
	var changed []string
	store := &fakeUploads{}
	w := New(Config{
		Uploads:  store,
		OnChange: func(u string) { changed = append(changed, u) },
	})

	err := w.SelectFile(context.Background(), imageFile("photo.jpg", 1024))

	assert.NoError(t, err)
	assert.Equal(t, "/uploads/photos/photo.jpg", w.Value())
	assert.Equal(t, []string{"/uploads/photos/photo.jpg"}, changed)
	assert.Equal(t, 100, w.Progress())
}

func TestOversizedFileNeverReachesNetwork(t *testing.T) {
	var messages []string
	store := &fakeUploads{}
	w := New(Config{
		Uploads:   store,
		MaxSizeMB: 1,
		Notify:    func(m string) { messages = append(messages, m) },
	})

	err := w.SelectFile(context.Background(), imageFile("big.jpg", 2*1024*1024))

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, store.callCount())
	assert.Len(t, messages, 1)
	assert.Contains(t, messages[0], "too large")
}

func TestDisallowedTypeNeverReachesNetwork(t *testing.T) {
	store := &fakeUploads{}
	w := New(Config{Uploads: store})

	err := w.SelectFile(context.Background(), File{
		Name:     "script.exe",
		Size:     100,
		MimeType: "application/octet-stream",
		Content:  strings.NewReader("data"),
	})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, store.callCount())
}

func TestValidationFailureKeepsPreviousValue(t *testing.T) {
	store := &fakeUploads{}
	w := New(Config{Uploads: store, MaxSizeMB: 1})

	assert.NoError(t, w.SelectFile(context.Background(), imageFile("ok.jpg", 100)))
	before := w.Value()

	err := w.SelectFile(context.Background(), imageFile("big.jpg", 5*1024*1024))

	assert.Error(t, err)
	assert.Equal(t, before, w.Value())
}

func TestRemoteFailureKeepsPreviousValueAndResetsProgress(t *testing.T) {
	var messages []string
	store := &fakeUploads{}
	w := New(Config{
		Uploads: store,
		Notify:  func(m string) { messages = append(messages, m) },
	})

	assert.NoError(t, w.SelectFile(context.Background(), imageFile("ok.jpg", 100)))
	before := w.Value()

	store.err = errors.New("no usable url in response")
	err := w.SelectFile(context.Background(), imageFile("bad.jpg", 100))

	var rerr *RemoteError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, before, w.Value())
	assert.Zero(t, w.Progress())
	assert.Contains(t, messages[len(messages)-1], "Upload failed")
}

func TestConcurrentSelectIsRejectedWhileBusy(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeUploads{gate: gate}
	w := New(Config{Uploads: store})

	done := make(chan error, 1)
	go func() {
		done <- w.SelectFile(context.Background(), imageFile("first.jpg", 100))
	}()

	// Wait until the first upload is in flight.
	assert.Eventually(t, func() bool {
		return store.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	err := w.SelectFile(context.Background(), imageFile("second.jpg", 100))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	close(gate)
	assert.NoError(t, <-done)
	assert.Equal(t, "/uploads/photos/first.jpg", w.Value())
}

func TestProgressClimbsWhileInFlightAndClearsAfterSuccess(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeUploads{gate: gate}
	w := New(Config{Uploads: store})

	done := make(chan error, 1)
	go func() {
		done <- w.SelectFile(context.Background(), imageFile("slow.jpg", 100))
	}()

	assert.Eventually(t, func() bool {
		p := w.Progress()
		return p > 0 && p <= progressCeil
	}, 2*time.Second, 10*time.Millisecond)

	close(gate)
	assert.NoError(t, <-done)
	assert.Equal(t, 100, w.Progress())

	assert.Eventually(t, func() bool {
		return w.Progress() == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSubmitURL(t *testing.T) {
	var changed []string
	w := New(Config{
		OnChange: func(u string) { changed = append(changed, u) },
	})

	assert.NoError(t, w.SubmitURL("https://cdn.example.com/pic.jpg"))
	assert.Equal(t, "https://cdn.example.com/pic.jpg", w.Value())
	assert.Equal(t, []string{"https://cdn.example.com/pic.jpg"}, changed)

	err := w.SubmitURL("cdn.example.com/pic.jpg")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "https://cdn.example.com/pic.jpg", w.Value())
}

func TestRemoveCurrentDetachesWithoutDeleting(t *testing.T) {
	removed := 0
	store := &fakeUploads{}
	w := New(Config{
		Uploads:  store,
		OnRemove: func() { removed++ },
	})

	assert.NoError(t, w.SelectFile(context.Background(), imageFile("pic.jpg", 100)))
	w.RemoveCurrent()

	assert.Empty(t, w.Value())
	assert.Equal(t, 1, removed)
}
