package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBus()

	hits := 0
	b.Subscribe(TopicSettings, func() { hits++ })
	b.Subscribe(TopicSettings, func() { hits++ })
	b.Subscribe(TopicSliders, func() { hits += 100 })

	b.Publish(TopicSettings)

	assert.Equal(t, 2, hits)
}

func TestPublishUnknownTopicIsNoOp(t *testing.T) {
	b := NewBus()
	b.Publish("nobody-listens")
}

func TestNilBusPublishIsSafe(t *testing.T) {
	var b *Bus
	b.Publish(TopicSettings)
}
