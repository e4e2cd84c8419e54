package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is the shape of one piece of real-time data pushed to subscribers:
// the event's type tag plus the appended record itself.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Broker is the central hub for live event delivery. Subscribers register
// per round id and receive every record appended to that round's log from
// the moment they subscribe; they replay history separately via the pull
// queries if they need it.
type Broker struct {
	mu sync.RWMutex
	// Subscriber sets keyed by round id. A round can have several live
	// listeners at once (scorecard screen + map screen, say).
	subs map[int64]map[*Subscription]struct{}
}

// Subscription is one live listener on a round's event stream. C yields
// JSON-encoded Messages; it is closed when the subscription is closed.
type Subscription struct {
	C chan []byte

	roundID int64
	broker  *Broker
	once    sync.Once
}

// Close unregisters the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.remove(s)
		close(s.C)
	})
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int64]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new live listener for a round.
func (b *Broker) Subscribe(roundID int64) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		C:       make(chan []byte, 16), // buffered; slow consumers drop, they don't stall appends
		roundID: roundID,
		broker:  b,
	}
	if b.subs[roundID] == nil {
		b.subs[roundID] = make(map[*Subscription]struct{})
	}
	b.subs[roundID][sub] = struct{}{}
	slog.Debug("realtime subscriber added", "roundId", roundID)
	return sub
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if set, ok := b.subs[sub.roundID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.roundID)
		}
	}
	slog.Debug("realtime subscriber removed", "roundId", sub.roundID)
}

// SubscriberCount reports how many live listeners a round currently has.
func (b *Broker) SubscriberCount(roundID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[roundID])
}

// Publish fans a message out to every subscriber of the round. Sends are
// non-blocking: a subscriber whose buffer is full misses the message rather
// than stalling the recording path.
func (b *Broker) Publish(roundID int64, message Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set, ok := b.subs[roundID]
	if !ok || len(set) == 0 {
		return
	}

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		slog.Error("could not marshal realtime message", "roundId", roundID, "error", err)
		return
	}

	for sub := range set {
		select {
		case sub.C <- jsonMsg:
		default:
			slog.Warn("realtime subscriber buffer full, dropping message",
				"roundId", roundID, "type", message.Type)
		}
	}
}
