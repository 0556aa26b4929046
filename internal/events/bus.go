package events

import "sync"

// Topics the admin surfaces publish on. Subscribers re-fetch on signal
// instead of polling.
const (
	TopicSettings = "settings"
	TopicSliders  = "sliders"
)

// Bus is a minimal in-process publish/subscribe service. Handlers run
// synchronously on the publisher's goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]func())}
}

func (b *Bus) Subscribe(topic string, fn func()) {
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], fn)
	b.mu.Unlock()
}

func (b *Bus) Publish(topic string) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := append([]func(){}, b.subs[topic]...)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
}
