package storage

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// Backend stores uploaded files and serves them back by public URL.
type Backend interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(url string) error
	Mode() string
}

var (
	mu     sync.RWMutex
	active Backend
)

func SetBackend(b Backend) {
	mu.Lock()
	active = b
	mu.Unlock()
}

func Save(file *multipart.FileHeader) (string, error) {
	mu.RLock()
	b := active
	mu.RUnlock()
	if b == nil {
		return "", fmt.Errorf("storage backend not initialized")
	}
	return b.Save(file)
}

func Remove(url string) error {
	mu.RLock()
	b := active
	mu.RUnlock()
	if b == nil {
		return fmt.Errorf("storage backend not initialized")
	}
	return b.Remove(url)
}

func Mode() string {
	mu.RLock()
	defer mu.RUnlock()
	if active == nil {
		return "none"
	}
	return active.Mode()
}
