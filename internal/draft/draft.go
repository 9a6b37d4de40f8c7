// Package draft persists in-progress ad drafts to the local storage port.
// The saver is deliberately ignorant of the draft's shape: callers hand it
// an already-marshalled payload and it handles only the debounce and the
// store round-trips. Binary image payloads are stripped by the caller
// before marshalling, so stored drafts stay small.
package draft

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daberli/ad-composer/internal/storage"
)

// Key is the store key under which the wizard's draft lives.
const Key = "daberli_post_draft_v2"

// DefaultQuiet is the debounce interval: a write happens only after this
// long with no further Touch calls.
const DefaultQuiet = 800 * time.Millisecond

// Saver debounces draft writes to a Store. Touch on every edit; the latest
// payload wins once the quiet interval elapses.
type Saver struct {
	mu    sync.Mutex
	store storage.Store
	key   string
	quiet time.Duration

	pending    string
	hasPending bool
	epoch      uint64
}

// NewSaver creates a Saver writing to key on store. A zero quiet interval
// uses DefaultQuiet; a negative one writes synchronously on every Touch
// (used by tests and the CLI, which have no idle time to wait out).
func NewSaver(store storage.Store, key string, quiet time.Duration) *Saver {
	if key == "" {
		key = Key
	}
	if quiet == 0 {
		quiet = DefaultQuiet
	}
	return &Saver{store: store, key: key, quiet: quiet}
}

// Touch records payload as the draft-to-be and (re)starts the quiet timer.
// Rapid successive calls collapse into one write of the last payload.
func (s *Saver) Touch(payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = payload
	s.hasPending = true
	s.epoch++

	if s.quiet < 0 {
		s.writeLocked()
		return
	}
	e := s.epoch
	time.AfterFunc(s.quiet, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if e != s.epoch {
			return // superseded by a later Touch, Flush, or Clear
		}
		s.writeLocked()
	})
}

// Flush writes any pending payload immediately and cancels the timer.
func (s *Saver) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.writeLocked()
}

// Clear drops any pending payload and deletes the stored draft.
func (s *Saver) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.pending = ""
	s.hasPending = false
	if err := s.store.Delete(s.key); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to clear draft")
	}
}

// Load returns the stored draft payload, or false when none exists. Store
// errors are treated as "no draft" — a broken store must never block the
// wizard from opening.
func (s *Saver) Load() (string, bool) {
	v, ok, err := s.store.Get(s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to load draft")
		return "", false
	}
	return v, ok
}

func (s *Saver) writeLocked() {
	if !s.hasPending {
		return
	}
	if err := s.store.Set(s.key, s.pending); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to save draft")
		return
	}
	s.hasPending = false
	log.Debug().Str("key", s.key).Int("bytes", len(s.pending)).Msg("Draft saved")
}
