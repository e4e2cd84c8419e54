package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesRoundSubscribers(t *testing.T) {
	b := NewBroker()

	sub := b.Subscribe(42)
	defer sub.Close()
	other := b.Subscribe(99)
	defer other.Close()

	b.Publish(42, Message{Type: "SHOT_TRACKED", Payload: map[string]int{"holeNumber": 3}})

	select {
	case msg := <-sub.C:
		var decoded Message
		require.NoError(t, json.Unmarshal(msg, &decoded))
		assert.Equal(t, "SHOT_TRACKED", decoded.Type)
	default:
		t.Fatal("expected a message for round 42")
	}

	// The other round's subscriber sees nothing.
	select {
	case <-other.C:
		t.Fatal("message leaked to another round's subscriber")
	default:
	}
}

func TestMultipleSubscribersSameRound(t *testing.T) {
	b := NewBroker()

	first := b.Subscribe(42)
	defer first.Close()
	second := b.Subscribe(42)
	defer second.Close()

	assert.Equal(t, 2, b.SubscriberCount(42))

	b.Publish(42, Message{Type: "HOLE_CHANGED"})

	for _, sub := range []*Subscription{first, second} {
		select {
		case <-sub.C:
		default:
			t.Fatal("every subscriber of the round receives the message")
		}
	}
}

func TestCloseUnregistersAndIsIdempotent(t *testing.T) {
	b := NewBroker()

	sub := b.Subscribe(42)
	require.Equal(t, 1, b.SubscriberCount(42))

	sub.Close()
	assert.Equal(t, 0, b.SubscriberCount(42))

	// Closing twice must not panic on the already-closed channel.
	assert.NotPanics(t, sub.Close)

	// Publishing to a round with no subscribers is a no-op.
	b.Publish(42, Message{Type: "FINISH_ROUND"})
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroker()

	sub := b.Subscribe(42)
	defer sub.Close()

	// Overfill the subscription buffer; the extra publishes must return
	// without blocking the caller.
	for i := 0; i < 32; i++ {
		b.Publish(42, Message{Type: "LOCATION_UPDATED"})
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 16, received, "buffer size worth of messages kept, rest dropped")
}
