package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Collection string

const (
	Projects Collection = "projects"
	Tags     Collection = "tags"
	AppLab   Collection = "app-lab"
)

// Snapshot is the full current list of one collection.
type Snapshot struct {
	Collection Collection `json:"collection"`
	Items      any        `json:"items"`
	At         time.Time  `json:"at"`
}

// Loader reads the whole collection as admins see it.
type Loader func(ctx context.Context) (any, error)

type subscriber struct {
	send chan Snapshot
}

// Hub fans whole-list snapshots out to every subscriber of a collection.
// A slow subscriber only ever holds the newest snapshot.
type Hub struct {
	mu      sync.RWMutex
	loaders map[Collection]Loader
	subs    map[Collection]map[*subscriber]struct{}
	now     func() time.Time
	logger  zerolog.Logger

	// issued counts Notify calls per collection; sent is the newest one delivered.
	issued map[Collection]uint64
	sent   map[Collection]uint64
}

func NewHub() *Hub {
	return &Hub{
		loaders: make(map[Collection]Loader),
		subs:    make(map[Collection]map[*subscriber]struct{}),
		issued:  make(map[Collection]uint64),
		sent:    make(map[Collection]uint64),
		now:     time.Now,
		logger:  log.With().Str("component", "liveHub").Logger(),
	}
}

func (h *Hub) Register(c Collection, load Loader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaders[c] = load
}

// Subscribe returns a channel that first yields the current snapshot and then
// one snapshot per Notify. The channel closes when cancel is called.
func (h *Hub) Subscribe(ctx context.Context, c Collection) (<-chan Snapshot, func(), error) {
	snap, err := h.load(ctx, c)
	if err != nil {
		return nil, nil, err
	}

	s := &subscriber{send: make(chan Snapshot, 1)}
	s.send <- snap

	h.mu.Lock()
	if h.subs[c] == nil {
		h.subs[c] = make(map[*subscriber]struct{})
	}
	h.subs[c][s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[c], s)
			h.mu.Unlock()
			close(s.send)
		})
	}
	return s.send, cancel, nil
}

// Notify reloads collection c and pushes it to every subscriber.
// Load failures are logged; writers never fail because of the feed.
// A snapshot loaded before one that was already delivered is dropped.
func (h *Hub) Notify(ctx context.Context, c Collection) {
	if h.Subscribers(c) == 0 {
		return
	}

	h.mu.Lock()
	h.issued[c]++
	seq := h.issued[c]
	h.mu.Unlock()

	snap, err := h.load(ctx, c)
	if err != nil {
		h.logger.Error().Err(err).Str("collection", string(c)).Msg("failed to load snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if seq < h.sent[c] {
		h.logger.Debug().Str("collection", string(c)).Uint64("seq", seq).Msg("dropping stale snapshot")
		return
	}
	h.sent[c] = seq
	for s := range h.subs[c] {
		offer(s.send, snap)
	}
}

func (h *Hub) Subscribers(c Collection) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[c])
}

func (h *Hub) load(ctx context.Context, c Collection) (Snapshot, error) {
	h.mu.RLock()
	load, ok := h.loaders[c]
	h.mu.RUnlock()
	if !ok {
		return Snapshot{}, fmt.Errorf("no loader registered for %q", c)
	}

	items, err := load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", c, err)
	}
	return Snapshot{Collection: c, Items: items, At: h.now().UTC()}, nil
}

// offer replaces a pending snapshot with a newer one. Callers hold h.mu, so
// the channel cannot be closed underneath.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
