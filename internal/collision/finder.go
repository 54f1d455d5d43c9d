package collision

import (
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sweep/internal/config"
	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/history"
	"github.com/vovakirdan/sweep/internal/path"
)

// Data is the classified result for one ordered pair in one frame.
// Time, ObjectXY and ContactPoint are only meaningful when IsCollision is set.
type Data struct {
	IsCollision            bool
	IsMovingCollision      bool
	IsMovingRightCollision bool
	IsMovingLeftCollision  bool

	Time         float64    // Elapsed time within the frame at first contact
	ObjectXY     core.Point // The first body's top-left corner at Time
	ContactPoint core.Point // Centre of the two boxes' overlap at Time
}

// CollisionTime returns the contact time, if there was a collision.
func (d Data) CollisionTime() (float64, bool) {
	return d.Time, d.IsCollision
}

// Contact returns the contact point, if there was a collision.
func (d Data) Contact() (core.Point, bool) {
	return d.ContactPoint, d.IsCollision
}

// Finder answers collision queries against a history store.
type Finder struct {
	store           *history.Store
	tol             Tolerances
	defaultDuration float64
	logger          *log.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithTolerances overrides the numeric tolerances.
func WithTolerances(tol Tolerances) Option {
	return func(f *Finder) {
		f.tol = tol
	}
}

// WithConfig applies tolerances and the default frame duration from configuration.
func WithConfig(cfg config.EngineConfig) Option {
	return func(f *Finder) {
		f.tol = TolerancesFrom(cfg)
		if cfg.DefaultFrameDuration > 0 {
			f.defaultDuration = cfg.DefaultFrameDuration
		}
	}
}

// WithLogger sets the logger used for debug tracing. A nil logger is silent.
func WithLogger(logger *log.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFinder creates a finder reading previous positions from store.
func NewFinder(store *history.Store, opts ...Option) *Finder {
	f := &Finder{
		store:           store,
		tol:             Default,
		defaultDuration: 1,
		logger:          log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Tolerances returns the tolerances the finder was built with.
func (f *Finder) Tolerances() Tolerances {
	return f.tol
}

// Store returns the history store the finder reads from.
func (f *Finder) Store() *history.Store {
	return f.store
}

// Frame starts a query scope for one frame lasting dt. A non-positive dt falls back to
// the last recorded frame duration, then to the configured default.
// Each Frame owns a fresh cache, so results never leak between frames.
func (f *Finder) Frame(dt float64) *Frame {
	if dt <= 0 {
		dt = f.store.LastDuration()
	}
	if dt <= 0 {
		dt = f.defaultDuration
	}
	return &Frame{
		finder:   f,
		duration: dt,
		cache:    NewFrameCache(),
	}
}

type pairKey struct {
	a, b  string
	frame history.FrameKey
}

// FrameCache memoizes results per ordered pair for one frame.
// It is safe for concurrent queries.
type FrameCache struct {
	mu      sync.RWMutex
	entries map[pairKey]Data
}

// NewFrameCache creates an empty cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{entries: make(map[pairKey]Data)}
}

func (c *FrameCache) get(k pairKey) (Data, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[k]
	return d, ok
}

func (c *FrameCache) put(k pairKey, d Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = d
}

// Len returns the number of cached ordered pairs.
func (c *FrameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// QueryOption adjusts a single query.
type QueryOption func(*query)

type query struct {
	key    history.FrameKey
	hasKey bool
	known  *bool
}

// AsOf compares against the given recorded frame instead of the last one.
func AsOf(key history.FrameKey) QueryOption {
	return func(q *query) {
		q.key = key
		q.hasKey = true
	}
}

// KnownCollision supplies an already computed collision result to directional queries.
func KnownCollision(isCollision bool) QueryOption {
	return func(q *query) {
		q.known = &isCollision
	}
}

// Frame is the query scope for one frame. Queries must run after bodies were moved
// and before the frame's snapshots are recorded.
type Frame struct {
	finder   *Finder
	duration float64
	cache    *FrameCache
}

// Duration returns the frame duration paths are built over.
func (fr *Frame) Duration() float64 {
	return fr.duration
}

// Cache exposes the frame's result cache.
func (fr *Frame) Cache() *FrameCache {
	return fr.cache
}

func (fr *Frame) resolve(opts []QueryOption) query {
	var q query
	for _, opt := range opts {
		opt(&q)
	}
	if !q.hasKey {
		q.key, _ = fr.finder.store.LastKey()
	}
	return q
}

func (fr *Frame) previous(id string, q query) (core.Body, bool) {
	if q.hasKey {
		return fr.finder.store.At(id, q.key)
	}
	return fr.finder.store.Last(id)
}

// CollisionData returns the full result for the ordered pair (a, b).
func (fr *Frame) CollisionData(a, b core.Body, opts ...QueryOption) Data {
	return fr.update(a, b, fr.resolve(opts))
}

func (fr *Frame) update(a, b core.Body, q query) Data {
	key := pairKey{a: a.ID, b: b.ID, frame: q.key}
	if d, ok := fr.cache.get(key); ok {
		return d
	}

	reverse := pairKey{a: b.ID, b: a.ID, frame: q.key}
	logger := fr.finder.logger.With("a", a.ID, "b", b.ID)

	prevA, okA := fr.previous(a.ID, q)
	prevB, okB := fr.previous(b.ID, q)
	if !okA || !okB {
		logger.Debug("missing history")
		fr.cache.put(key, Data{})
		fr.cache.put(reverse, Data{})
		return Data{}
	}

	tol := fr.finder.tol
	pathA := path.NewObjectPath(prevA.Rect, a.Rect, fr.duration)
	pathB := path.NewObjectPath(prevB.Rect, b.Rect, fr.duration)
	movedA := tol.ObjectHasMoved(pathA.Prev, a.Rect)
	movedB := tol.ObjectHasMoved(pathB.Prev, b.Rect)

	var (
		t      float64
		found  bool
		moving bool
	)
	switch {
	case movedA && movedB:
		t, found = tol.PathCollisionTime(pathA, pathB)
		moving = found
		logger.Debug("both moved", "found", found, "time", t)

	case movedA || movedB:
		mover, still, moverID := pathA, b, a.ID
		if movedB {
			mover, still, moverID = pathB, a, b.ID
		}
		target := TargetOf(still)
		if target.Kind == TargetUnknown {
			logger.Warn("unknown target shape, treating as no collision", "shape", still.Shape)
		}
		t, found = tol.MovingCollisionTime(mover, target)
		moving = found

		// Already in contact last frame: the contact was not caused by this frame's motion.
		if tol.ObjectsAreTouching(pathA.Prev, pathB.Prev) {
			t, found, moving = 0, false, false
		}
		logger.Debug("one moved", "mover", moverID, "target", target.Kind, "found", found, "time", t)

	default:
		if a.Rect.Intersects(b.Rect) {
			t, found = 0, true
		}
		logger.Debug("neither moved", "overlap", found)
	}

	if !found && tol.ObjectsAreTouching(a.Rect, b.Rect) {
		t, found = fr.duration, true
	}

	var contact core.Point
	if found {
		contact = contactPoint(pathA.RectAt(t), pathB.RectAt(t))
	}

	dispA := a.X - pathA.Prev.X
	dispB := b.X - pathB.Prev.X

	ab := classify(found, moving, t, pathA, contact, IsRightCollision(dispA, dispB))
	ba := classify(found, moving, t, pathB, contact, IsRightCollision(dispB, dispA))
	fr.cache.put(key, ab)
	fr.cache.put(reverse, ba)
	return ab
}

func classify(found, moving bool, t float64, p path.ObjectPath, contact core.Point, right bool) Data {
	if !found {
		return Data{}
	}
	return Data{
		IsCollision:            true,
		IsMovingCollision:      moving,
		IsMovingRightCollision: right,
		IsMovingLeftCollision:  !right,
		Time:                   t,
		ObjectXY:               p.XYAt(t),
		ContactPoint:           contact,
	}
}

// contactPoint is the centre of the region shared by two boxes. For flush boxes the
// region degenerates to a segment on the shared edge.
func contactPoint(a, b core.Rect) core.Point {
	x0, x1 := math.Max(a.X, b.X), math.Min(a.Right(), b.Right())
	y0, y1 := math.Max(a.Y, b.Y), math.Min(a.Bottom(), b.Bottom())
	return core.P((x0+x1)/2, (y0+y1)/2)
}

// IsCollision reports whether the boxes met during the frame or are flush now.
func (fr *Frame) IsCollision(a, b core.Body, opts ...QueryOption) bool {
	return fr.CollisionData(a, b, opts...).IsCollision
}

// IsMovingCollision reports whether the collision came from this frame's motion.
func (fr *Frame) IsMovingCollision(a, b core.Body, opts ...QueryOption) bool {
	return fr.CollisionData(a, b, opts...).IsMovingCollision
}

// IsMovingRightCollision reports whether a moved into b's right side, or b into a's left.
func (fr *Frame) IsMovingRightCollision(a, b core.Body, opts ...QueryOption) bool {
	d := fr.CollisionData(a, b, opts...)
	return d.IsMovingCollision && d.IsMovingRightCollision
}

// IsMovingLeftCollision reports whether a moved into b's left side, or b into a's right.
func (fr *Frame) IsMovingLeftCollision(a, b core.Body, opts ...QueryOption) bool {
	d := fr.CollisionData(a, b, opts...)
	return d.IsMovingCollision && d.IsMovingLeftCollision
}

// ObjectsXY returns each body's top-left corner at the collision time.
func (fr *Frame) ObjectsXY(a, b core.Body, opts ...QueryOption) (core.Point, core.Point) {
	q := fr.resolve(opts)
	ab := fr.update(a, b, q)
	ba := fr.update(b, a, q)
	return ab.ObjectXY, ba.ObjectXY
}

// directional loads the raw previous snapshots and the collision flag shared by
// the edge queries. ok is false when either body has no history.
func (fr *Frame) directional(a, b core.Body, opts []QueryOption) (prevA, prevB core.Rect, isCollision, ok bool) {
	q := fr.resolve(opts)
	pa, okA := fr.previous(a.ID, q)
	pb, okB := fr.previous(b.ID, q)
	if !okA || !okB {
		return core.Rect{}, core.Rect{}, false, false
	}
	if q.known != nil {
		isCollision = *q.known
	} else {
		isCollision = fr.update(a, b, q).IsCollision
	}
	return pa.Rect, pb.Rect, isCollision, true
}

// IsLeftCollision reports whether a struck b's left edge this frame, or sits flush against it.
func (fr *Frame) IsLeftCollision(a, b core.Body, opts ...QueryOption) bool {
	prevA, prevB, isCollision, ok := fr.directional(a, b, opts)
	if !ok {
		return false
	}
	crossed := prevA.Right() < prevB.X && a.Right() > b.X
	flush := a.Right() == b.X && IsHeightCollision(a.Rect, b.Rect)
	return (isCollision && crossed) || flush
}

// IsRightCollision reports whether a struck b's right edge this frame, or sits flush against it.
func (fr *Frame) IsRightCollision(a, b core.Body, opts ...QueryOption) bool {
	prevA, prevB, isCollision, ok := fr.directional(a, b, opts)
	if !ok {
		return false
	}
	crossed := prevA.X > prevB.Right() && a.X < b.Right()
	flush := a.X == b.Right() && IsHeightCollision(a.Rect, b.Rect)
	return (isCollision && crossed) || flush
}

// IsTopCollision reports whether a came down onto b's top edge this frame, or rests on it.
func (fr *Frame) IsTopCollision(a, b core.Body, opts ...QueryOption) bool {
	prevA, prevB, isCollision, ok := fr.directional(a, b, opts)
	if !ok {
		return false
	}
	crossed := prevA.Bottom() < prevB.Y && a.Bottom() > b.Y
	flush := a.Bottom() == b.Y && IsLengthCollision(a.Rect, b.Rect)
	return (isCollision && crossed) || flush
}

// IsBottomCollision reports whether a came up into b's bottom edge this frame, or sits flush under it.
func (fr *Frame) IsBottomCollision(a, b core.Body, opts ...QueryOption) bool {
	prevA, prevB, isCollision, ok := fr.directional(a, b, opts)
	if !ok {
		return false
	}
	crossed := prevA.Y > prevB.Bottom() && a.Y < b.Bottom()
	flush := a.Y == b.Bottom() && IsLengthCollision(a.Rect, b.Rect)
	return (isCollision && crossed) || flush
}

// IsATopCollision reports whether either body struck the other's top edge.
func (fr *Frame) IsATopCollision(a, b core.Body, opts ...QueryOption) bool {
	return fr.IsTopCollision(a, b, opts...) || fr.IsTopCollision(b, a, opts...)
}

// IsABottomCollision reports whether either body struck the other's bottom edge.
func (fr *Frame) IsABottomCollision(a, b core.Body, opts ...QueryOption) bool {
	return fr.IsBottomCollision(a, b, opts...) || fr.IsBottomCollision(b, a, opts...)
}
