package gallery

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daberli/ad-composer/internal/storage"
)

// Direction is the transition direction of an in-flight navigation.
type Direction int

const (
	DirNone Direction = iota
	DirForward
	DirBackward
)

// Key identifies the keyboard inputs the viewer reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyArrowLeft
	KeyArrowRight
)

// DefaultTransitionDelay is the exit-animation interval between a navigation
// request and committing the new active index.
const DefaultTransitionDelay = 150 * time.Millisecond

// DefaultHintDuration is how long the first-use keyboard hint stays up
// before auto-dismissing.
const DefaultHintDuration = 3 * time.Second

// hintSeenKey is the persisted first-use flag: once set, the keyboard hint
// is never shown again in this browsing profile.
const hintSeenKey = "daberli_kb_hints_seen"

// Config wires a Viewer to its host.
type Config struct {
	// TransitionDelay overrides DefaultTransitionDelay. A negative value
	// commits navigation synchronously (no animation window).
	TransitionDelay time.Duration
	// HintDuration overrides DefaultHintDuration.
	HintDuration time.Duration
	// Store persists the first-use hint flag. Nil disables the hint.
	Store storage.Store
}

// Viewer is the full-screen single-image overlay. It owns only its own
// ephemeral view state (active index, zoom/pan transform, transition
// direction) — the image list belongs to the wizard, and the viewer is told
// its length and about removals.
//
// All mutating methods are safe to call from timer callbacks; a single
// mutex serialises them.
type Viewer struct {
	mu  sync.Mutex
	cfg Config

	open    bool
	length  int
	active  int
	pending int
	dir     Direction
	epoch   uint64

	zoom float64
	pan  Point

	gesture gestureState

	hintVisible bool
	hintEpoch   uint64
}

// NewViewer creates a closed viewer.
func NewViewer(cfg Config) *Viewer {
	if cfg.TransitionDelay == 0 {
		cfg.TransitionDelay = DefaultTransitionDelay
	}
	if cfg.HintDuration == 0 {
		cfg.HintDuration = DefaultHintDuration
	}
	return &Viewer{cfg: cfg}
}

// OpenAt opens the viewer on the image at index i of a list of the given
// length. Zoom and pan reset to identity; view state never survives a
// close. Out-of-range requests are ignored.
func (v *Viewer) OpenAt(i, length int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if length <= 0 || i < 0 || i >= length {
		return
	}
	v.open = true
	v.length = length
	v.active = i
	v.pending = i
	v.dir = DirNone
	v.zoom = MinZoom
	v.pan = Point{}
	v.gesture = gestureState{}

	v.maybeShowHintLocked()
	log.Debug().Int("index", i).Int("length", length).Msg("Gallery viewer opened")
}

// Close closes the viewer and discards all view state.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeLocked()
}

// Dismiss is the backdrop-tap dismiss gesture; identical to Close.
func (v *Viewer) Dismiss() { v.Close() }

func (v *Viewer) closeLocked() {
	if !v.open {
		return
	}
	v.open = false
	v.epoch++ // invalidate in-flight transition timers
	v.dir = DirNone
	v.zoom = MinZoom
	v.pan = Point{}
	v.gesture = gestureState{}
	v.hintVisible = false
}

// IsOpen reports whether the viewer is showing.
func (v *Viewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// ActiveIndex returns the committed active index.
func (v *Viewer) ActiveIndex() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Transform returns the current zoom scale and pan offset.
func (v *Viewer) Transform() (zoom float64, pan Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom, v.pan
}

// TransitionDirection returns the direction of an in-flight navigation, or
// DirNone when settled.
func (v *Viewer) TransitionDirection() Direction {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dir
}

// HintVisible reports whether the first-use keyboard hint overlay is up.
func (v *Viewer) HintVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hintVisible
}

// ImageRemoved tells the viewer the image at the given index was removed
// and the list now has newLength entries. An empty list force-closes the
// viewer; otherwise it stays open on the same index (now a different
// image), clamped to the new last index if needed.
func (v *Viewer) ImageRemoved(index, newLength int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return
	}
	if newLength <= 0 {
		v.closeLocked()
		return
	}
	v.length = newLength
	if v.active >= newLength {
		v.active = newLength - 1
	}
	v.pending = v.active
	v.epoch++
	v.dir = DirNone
	// The displayed image changed identity; a held-over transform would
	// apply to the wrong photo.
	v.zoom = MinZoom
	v.pan = Point{}
}

// --- Navigation ---

// Next starts a forward navigation, wrapping circularly.
func (v *Viewer) Next() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.navigateLocked(DirForward)
}

// Prev starts a backward navigation, wrapping circularly.
func (v *Viewer) Prev() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.navigateLocked(DirBackward)
}

// GoTo starts a navigation straight to index i (filmstrip click). The
// transition direction is chosen by whether i is ahead of or behind the
// image the viewer is heading to — mid-transition that is the pending
// target, same basis as Next/Prev, so a click during the animation window
// slides the right way.
func (v *Viewer) GoTo(i int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open || i < 0 || i >= v.length {
		return
	}
	basis := v.active
	if v.dir != DirNone {
		basis = v.pending
	}
	if i == basis {
		return
	}
	dir := DirForward
	if i < basis {
		dir = DirBackward
	}
	v.beginTransitionLocked(dir, i)
}

func (v *Viewer) navigateLocked(dir Direction) {
	if !v.open || v.length == 0 {
		return
	}
	// A request landing mid-transition restarts the sequence from the
	// not-yet-committed target, so rapid requests accumulate rather than
	// getting swallowed.
	basis := v.active
	if v.dir != DirNone {
		basis = v.pending
	}
	var target int
	if dir == DirForward {
		target = (basis + 1) % v.length
	} else {
		target = (basis - 1 + v.length) % v.length
	}
	v.beginTransitionLocked(dir, target)
}

// beginTransitionLocked runs the two-phase navigation: set the direction,
// wait out the exit animation, then commit the new index. Starting a new
// transition bumps the epoch, so a stale timer from a superseded
// transition settles nothing — last request wins.
func (v *Viewer) beginTransitionLocked(dir Direction, target int) {
	v.dir = dir
	v.pending = target
	v.epoch++
	e := v.epoch

	if v.cfg.TransitionDelay < 0 {
		v.settleLocked(e)
		return
	}
	time.AfterFunc(v.cfg.TransitionDelay, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.settleLocked(e)
	})
}

func (v *Viewer) settleLocked(epoch uint64) {
	if !v.open || epoch != v.epoch {
		return
	}
	v.active = v.pending
	v.dir = DirNone
}

// --- Keyboard ---

// HandleKey processes a key press while the viewer is open. It returns true
// when the key was consumed, in which case the hosting shell must not also
// act on it — this is what keeps the viewer's Escape from closing an
// enclosing wizard modal.
func (v *Viewer) HandleKey(k Key) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return false
	}
	v.dismissHintLocked()

	switch k {
	case KeyEscape:
		v.closeLocked()
		return true
	case KeyArrowLeft:
		v.navigateLocked(DirBackward)
		return true
	case KeyArrowRight:
		v.navigateLocked(DirForward)
		return true
	default:
		return false
	}
}

// --- Touch gestures ---

// TouchStart begins a gesture. The touch count at this moment decides the
// mode for the whole gesture: one finger arms swipe, two fingers arm pinch.
func (v *Viewer) TouchStart(touches []Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return
	}
	switch len(touches) {
	case 2:
		v.gesture.mode = gesturePinch
		v.gesture.pinch = pinchOrigin{
			dist:   dist(touches[0], touches[1]),
			scale:  v.zoom,
			center: midpoint(touches[0], touches[1]),
		}
	case 1:
		v.gesture.mode = gestureSwipe
		v.gesture.swipeStart = touches[0]
	default:
		v.gesture.mode = gestureIdle
	}
}

// TouchMove updates an in-flight pinch: the new scale is the touch-start
// scale times the finger-distance ratio, clamped to [MinZoom, MaxZoom].
// While zoomed past identity, moving both fingers together pans the image
// by the midpoint delta.
func (v *Viewer) TouchMove(touches []Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open || v.gesture.mode != gesturePinch || len(touches) != 2 {
		return
	}
	origin := v.gesture.pinch
	if origin.dist == 0 {
		return
	}

	d := dist(touches[0], touches[1])
	v.zoom = clampZoom(origin.scale * (d / origin.dist))
	if v.zoom > MinZoom {
		c := midpoint(touches[0], touches[1])
		v.pan = Point{X: c.X - origin.center.X, Y: c.Y - origin.center.Y}
	} else {
		v.pan = Point{}
	}
}

// TouchEnd finishes a gesture. A pinch that settled at identity resets the
// transform; a swipe whose horizontal displacement clears SwipeThreshold
// navigates — but only at identity zoom, since a pan while zoomed must
// never be read as a page turn.
func (v *Viewer) TouchEnd(changed []Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return
	}
	mode := v.gesture.mode
	v.gesture.mode = gestureIdle

	switch mode {
	case gesturePinch:
		if v.zoom <= MinZoom {
			v.zoom = MinZoom
			v.pan = Point{}
		}
	case gestureSwipe:
		if v.zoom > MinZoom || len(changed) == 0 {
			return
		}
		dx := changed[0].X - v.gesture.swipeStart.X
		if dx > SwipeThreshold {
			v.navigateLocked(DirBackward)
		} else if dx < -SwipeThreshold {
			v.navigateLocked(DirForward)
		}
	}
}

// --- First-use hint ---

func (v *Viewer) maybeShowHintLocked() {
	if v.cfg.Store == nil {
		return
	}
	if _, seen, err := v.cfg.Store.Get(hintSeenKey); err != nil || seen {
		return
	}
	v.hintVisible = true
	v.hintEpoch++
	e := v.hintEpoch
	time.AfterFunc(v.cfg.HintDuration, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.hintVisible && e == v.hintEpoch {
			v.dismissHintLocked()
		}
	})
}

func (v *Viewer) dismissHintLocked() {
	if !v.hintVisible {
		return
	}
	v.hintVisible = false
	v.hintEpoch++
	if v.cfg.Store != nil {
		if err := v.cfg.Store.Set(hintSeenKey, "true"); err != nil {
			log.Warn().Err(err).Msg("Failed to persist hint-seen flag")
		}
	}
}
