package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	require.Equal(t, 2, h.SubscriberCount())

	h.Publish(Update{Kind: UpdateRefresh, Live: true, At: time.Now()})

	for _, ch := range []<-chan Update{a, b} {
		select {
		case u := <-ch:
			assert.Equal(t, UpdateRefresh, u.Kind)
			assert.True(t, u.Live)
		default:
			t.Fatal("subscriber did not receive the update")
		}
	}
}

func TestSlowSubscriberDropsUpdates(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()

	// Buffered capacity is 16; anything beyond gets dropped, never blocks.
	for i := 0; i < 20; i++ {
		h.Publish(Update{Kind: UpdateSimulation})
	}

	assert.Equal(t, uint64(4), h.Dropped())
	assert.Len(t, ch, 16)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount())

	h.Publish(Update{Kind: UpdateMutation})
}

func TestCloseShutsDownHub(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Close()

	_, ok := <-ch
	assert.False(t, ok)

	late := h.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")

	h.Publish(Update{Kind: UpdateRefresh})
	h.Close()
}
