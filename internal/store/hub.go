package store

import (
	"context"
	"sync"
)

// hub fans committed snapshots out to observers. Each subscriber holds at
// most one pending snapshot; a newer snapshot replaces an unread one.
type hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
	done   chan struct{}

	// watchers tracks the per-subscriber goroutines waiting on ctx or done.
	watchers sync.WaitGroup
}

type subscriber struct {
	ch chan Preferences
}

func newHub() *hub {
	return &hub{
		subs: make(map[*subscriber]struct{}),
		done: make(chan struct{}),
	}
}

// subscribe registers a subscriber primed with initial. The returned channel
// is closed when ctx is done or the hub is closed.
func (h *hub) subscribe(ctx context.Context, initial Preferences) <-chan Preferences {
	sub := &subscriber{ch: make(chan Preferences, 1)}
	sub.ch <- initial

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	h.subs[sub] = struct{}{}
	h.watchers.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.watchers.Done()
		select {
		case <-ctx.Done():
			h.remove(sub)
		case <-h.done:
		}
	}()
	return sub.ch
}

func (h *hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// publish never blocks: only publish sends, and it runs under h.mu.
func (h *hub) publish(p Preferences) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- p
	}
}

// close detaches every subscriber and waits for their watchers to exit.
func (h *hub) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.done)
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
	h.watchers.Wait()
}

// subscribers returns the number of live subscribers.
func (h *hub) subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
