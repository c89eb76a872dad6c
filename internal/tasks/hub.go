package tasks

import "sync"

// Hub fans task snapshots out to stream subscribers keyed by task id.
// Slow subscribers miss intermediate snapshots rather than blocking runners.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[chan View]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan View]struct{})}
}

// Subscribe registers interest in taskID. The returned cancel func must be
// called once the caller stops reading.
func (h *Hub) Subscribe(taskID string) (<-chan View, func()) {
	ch := make(chan View, 16)
	h.mu.Lock()
	subs, ok := h.topics[taskID]
	if !ok {
		subs = make(map[chan View]struct{})
		h.topics[taskID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.topics[taskID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.topics, taskID)
				}
			}
			close(ch)
		})
	}
}

// Publish delivers v to the subscribers of v.ID.
func (h *Hub) Publish(v View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.topics[v.ID] {
		select {
		case ch <- v:
		default:
			// drop if subscriber is not reading
		}
	}
}

// Subscribers returns the number of subscribers for taskID.
func (h *Hub) Subscribers(taskID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[taskID])
}
