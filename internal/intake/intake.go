// Package intake accepts user-selected image files for an ad, enforces the
// per-file and per-collection constraints, runs each accepted file through
// the imaging codec, and appends the results to the ad's ordered image
// list. It owns the transient per-batch state: the in-flight counter the UI
// renders placeholders from, and the single most-recent error message.
package intake

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/daberli/ad-composer/internal/gallery"
	"github.com/daberli/ad-composer/internal/imaging"
)

// DefaultMaxImages is the collection capacity: an ad carries at most six photos.
const DefaultMaxImages = 6

// DefaultMaxFileBytes is the per-file size ceiling (10 MB).
const DefaultMaxFileBytes int64 = 10 * 1024 * 1024

// acceptedTypes is the content-type allowlist. Exactly these three raster
// formats are accepted; everything else is rejected per file.
var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// File is one user-selected file handed to AcceptFiles.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// RejectReason classifies why a file was turned away.
type RejectReason int

const (
	RejectType RejectReason = iota
	RejectSize
	RejectCodec
)

// Rejection names a rejected file and why.
type Rejection struct {
	Name    string
	Reason  RejectReason
	Message string
}

// Receipt summarises one AcceptFiles batch. Files dropped by the capacity
// truncation are counted in TruncatedBy, not as rejections.
type Receipt struct {
	Queued      int
	Rejected    []Rejection
	TruncatedBy int
}

// Config tunes a Controller. Zero values fall back to the defaults above.
type Config struct {
	MaxImages    int
	MaxFileBytes int64
	Encode       imaging.Options
}

// Controller runs the intake pipeline against one running image collection.
// Encodes happen on goroutines, one per accepted file, and payloads are
// appended in completion order — which may differ from submission order
// within a batch. That reordering is accepted behaviour, not a bug; see the
// capacity math instead, which is always computed against a consistent
// snapshot under the controller's lock.
type Controller struct {
	mu  sync.Mutex
	wg  sync.WaitGroup
	cfg Config

	images   []imaging.Payload
	inflight int
	gen      uint64
	errMsg   string
}

// New creates a Controller with an empty collection.
func New(cfg Config) *Controller {
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = DefaultMaxImages
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = DefaultMaxFileBytes
	}
	return &Controller{cfg: cfg}
}

// AcceptFiles applies the intake constraints to a batch, in order:
// remaining capacity, batch truncation, per-file type, per-file size.
// Surviving files are queued for asynchronous encoding. The first payload
// ever appended lands at index 0 and is thereby the ad's cover — cover is
// positional, never a separate flag.
func (c *Controller) AcceptFiles(files []File) Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsg = ""
	var rcpt Receipt

	remaining := c.cfg.MaxImages - len(c.images) - c.inflight
	if remaining <= 0 {
		c.errMsg = fmt.Sprintf("Maximum %d photos already reached.", c.cfg.MaxImages)
		log.Warn().Int("batch", len(files)).Msg("Intake batch rejected: collection full")
		return rcpt
	}

	batch := files
	if len(batch) > remaining {
		rcpt.TruncatedBy = len(batch) - remaining
		batch = batch[:remaining]
		c.errMsg = fmt.Sprintf("Only the first %d photo(s) were added — maximum reached.", remaining)
	}

	for _, f := range batch {
		if !acceptedTypes[f.ContentType] {
			c.errMsg = "Only JPG, PNG, and WEBP images are accepted."
			rcpt.Rejected = append(rcpt.Rejected, Rejection{
				Name: f.Name, Reason: RejectType, Message: c.errMsg,
			})
			continue
		}
		if int64(len(f.Data)) > c.cfg.MaxFileBytes {
			c.errMsg = fmt.Sprintf("%q exceeds the %d MB limit.", f.Name, c.cfg.MaxFileBytes/(1024*1024))
			rcpt.Rejected = append(rcpt.Rejected, Rejection{
				Name: f.Name, Reason: RejectSize, Message: c.errMsg,
			})
			continue
		}

		rcpt.Queued++
		c.inflight++
		c.wg.Add(1)
		go c.encode(c.gen, f)
	}

	log.Debug().
		Int("queued", rcpt.Queued).
		Int("rejected", len(rcpt.Rejected)).
		Int("truncatedBy", rcpt.TruncatedBy).
		Int("inflight", c.inflight).
		Msg("Intake batch processed")
	return rcpt
}

// encode runs off the controller's goroutine; completion re-enters under
// the lock.
func (c *Controller) encode(gen uint64, f File) {
	defer c.wg.Done()

	res, err := imaging.Encode(bytes.NewReader(f.Data), c.cfg.Encode)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// The wizard was closed or reset mid-encode; the result targets a
		// collection that no longer exists.
		log.Debug().Str("file", f.Name).Msg("Discarding encode result for stale collection")
		return
	}
	c.inflight--

	if err != nil {
		c.errMsg = fmt.Sprintf("Failed to process %q.", f.Name)
		log.Warn().Err(err).Str("file", f.Name).Msg("Image encode failed")
		return
	}

	c.images = append(c.images, res.Payload)
	if res.Source.HadGPS {
		log.Info().Str("file", f.Name).Msg("Location metadata stripped during re-encode")
	}
	log.Debug().
		Str("file", f.Name).
		Str("camera", res.Source.CameraMake+" "+res.Source.CameraModel).
		Int("index", len(c.images)-1).
		Msg("Image appended")
}

// Images returns a copy of the ordered collection. Index 0 is the cover.
func (c *Controller) Images() []imaging.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]imaging.Payload, len(c.images))
	copy(out, c.images)
	return out
}

// Count returns the number of appended images.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// InFlight returns the number of encodes still outstanding.
func (c *Controller) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

// ErrorMessage returns the most recent intake error, or empty. Later
// rejections overwrite earlier ones — the UI shows a single line.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ClearError drops the surfaced error message.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// Remove deletes the image at index i and returns the new length.
// Out-of-range indices leave the collection unchanged.
func (c *Controller) Remove(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.images) {
		return len(c.images)
	}
	c.images = append(c.images[:i], c.images[i+1:]...)
	return len(c.images)
}

// Reorder moves the image at from to position to, with gallery splice
// semantics. Stale drag indices are ignored.
func (c *Controller) Reorder(from, to int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images = gallery.Reorder(c.images, from, to)
}

// Reset empties the collection and invalidates all outstanding encodes;
// their results will be discarded on completion.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.images = nil
	c.inflight = 0
	c.errMsg = ""
}

// WaitIdle blocks until every queued encode has completed. Hosts without an
// event loop (the CLI, tests) use it to settle the pipeline.
func (c *Controller) WaitIdle() {
	c.wg.Wait()
}
