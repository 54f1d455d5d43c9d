// Package history keeps per-frame snapshots of every body the collision engine tracks.
//
// The frame driver records bodies into the open frame with Add and closes it with
// EndFrame once all collision queries for that frame are done. During the next frame
// the closed frame is "last" and supplies each body's previous position.
package history

import (
	"sort"
	"sync"

	"github.com/vovakirdan/sweep/internal/core"
)

// FrameKey identifies one recorded frame. Keys increase monotonically.
type FrameKey uint64

// Snapshot is a body as it was at the end of a frame.
type Snapshot struct {
	Frame FrameKey
	Body  core.Body
}

type frame struct {
	duration float64
	closed   bool
	bodies   map[string]core.Body
}

// Store is the previous-state store. It is safe for concurrent use, but bodies
// must not be recorded while the same frame's collision queries are running.
type Store struct {
	mu sync.RWMutex

	frames  map[FrameKey]*frame
	current FrameKey

	last         FrameKey
	hasLast      bool
	lastDuration float64

	// depth is the number of closed frames kept; 0 keeps everything.
	depth int
}

// NewStore creates an empty store whose first open frame has key 0.
func NewStore() *Store {
	return &Store{frames: make(map[FrameKey]*frame)}
}

// SetDepth limits how many closed frames are retained. Older frames are pruned on EndFrame.
func (s *Store) SetDepth(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 0 {
		n = 0
	}
	s.depth = n
	s.prune()
}

// Add records a copy of the body into the open frame, replacing any earlier
// entry with the same ID.
func (s *Store) Add(body core.Body) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.open()
	f.bodies[body.ID] = body.Snapshot()
}

// EndFrame closes the open frame with the given duration. It becomes the last frame
// and a new empty frame is opened.
func (s *Store) EndFrame(duration float64) FrameKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.open()
	f.duration = duration
	f.closed = true

	closed := s.current
	s.last = closed
	s.hasLast = true
	s.lastDuration = duration
	s.current++

	s.prune()
	return closed
}

// Last returns the body's snapshot from the last closed frame.
func (s *Store) Last(id string) (core.Body, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasLast {
		return core.Body{}, false
	}
	return s.lookup(id, s.last)
}

// At returns the body's snapshot from a specific closed frame.
func (s *Store) At(id string, key FrameKey) (core.Body, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.frames[key]
	if !ok || !f.closed {
		return core.Body{}, false
	}
	return s.lookup(id, key)
}

func (s *Store) lookup(id string, key FrameKey) (core.Body, bool) {
	f, ok := s.frames[key]
	if !ok {
		return core.Body{}, false
	}
	b, ok := f.bodies[id]
	return b, ok
}

// LastKey returns the key of the last closed frame.
func (s *Store) LastKey() (FrameKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.hasLast
}

// CurrentKey returns the key of the open frame.
func (s *Store) CurrentKey() FrameKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// LastDuration returns the duration the last closed frame was recorded with, or 0.
func (s *Store) LastDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDuration
}

// Duration returns the recorded duration of a closed frame.
func (s *Store) Duration(key FrameKey) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.frames[key]
	if !ok || !f.closed {
		return 0, false
	}
	return f.duration, true
}

// IsPopulated reports whether every listed body has a snapshot in the last frame.
func (s *Store) IsPopulated(ids ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasLast {
		return false
	}
	for _, id := range ids {
		if _, ok := s.lookup(id, s.last); !ok {
			return false
		}
	}
	return true
}

// Frame returns every snapshot of a closed frame, sorted by body ID.
func (s *Store) Frame(key FrameKey) []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.frames[key]
	if !ok || !f.closed {
		return nil
	}

	result := make([]Snapshot, 0, len(f.bodies))
	for _, b := range f.bodies {
		result = append(result, Snapshot{Frame: key, Body: b})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Body.ID < result[j].Body.ID
	})
	return result
}

// Keys returns the keys of all retained closed frames in ascending order.
func (s *Store) Keys() []FrameKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closedKeys()
}

// Restore inserts a closed frame, e.g. one loaded from storage.
// Restoring a frame newer than the last one makes it the last frame.
func (s *Store) Restore(key FrameKey, duration float64, bodies []core.Body) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The open frame cannot precede a restored one; anything recorded into it is dropped.
	if s.current <= key {
		delete(s.frames, s.current)
		s.current = key + 1
	}

	f := &frame{duration: duration, closed: true, bodies: make(map[string]core.Body, len(bodies))}
	for _, b := range bodies {
		f.bodies[b.ID] = b.Snapshot()
	}
	s.frames[key] = f

	if !s.hasLast || key >= s.last {
		s.last = key
		s.hasLast = true
		s.lastDuration = duration
	}
	s.prune()
}

// Reset forgets every frame, e.g. when a level restarts.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames = make(map[FrameKey]*frame)
	s.current = 0
	s.last = 0
	s.hasLast = false
	s.lastDuration = 0
}

func (s *Store) open() *frame {
	f, ok := s.frames[s.current]
	if !ok {
		f = &frame{bodies: make(map[string]core.Body)}
		s.frames[s.current] = f
	}
	return f
}

func (s *Store) closedKeys() []FrameKey {
	keys := make([]FrameKey, 0, len(s.frames))
	for k, f := range s.frames {
		if f.closed {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *Store) prune() {
	if s.depth == 0 {
		return
	}
	keys := s.closedKeys()
	for len(keys) > s.depth {
		delete(s.frames, keys[0])
		keys = keys[1:]
	}
}
