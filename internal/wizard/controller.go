package wizard

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daberli/ad-composer/internal/draft"
	"github.com/daberli/ad-composer/internal/intake"
)

// DefaultCloseDelay is how long the state survives after Close, so a close
// animation can finish before the form underneath snaps back to defaults.
const DefaultCloseDelay = 300 * time.Millisecond

// Config wires a Controller to its collaborators.
type Config struct {
	// Intake owns the image collection. Required.
	Intake *intake.Controller
	// Saver persists drafts. Nil disables draft autosave and restore.
	Saver *draft.Saver
	// CloseDelay overrides DefaultCloseDelay. A negative value resets
	// synchronously on Close.
	CloseDelay time.Duration
}

// Controller owns the canonical wizard state and is its only mutator.
// Images are the exception: they live in the intake controller, and
// Snapshot stitches them in when a full State is needed.
type Controller struct {
	mu  sync.Mutex
	cfg Config

	open       bool
	state      State
	phase      Phase
	stepErr    string
	closeEpoch uint64
}

// New creates a closed Controller.
func New(cfg Config) *Controller {
	if cfg.CloseDelay == 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
	return &Controller{cfg: cfg, state: Defaults()}
}

// Open opens the wizard on step 1, restoring any saved draft over defaults.
// Restored drafts never carry images. Opening an already-open wizard is a
// no-op.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		return
	}
	c.open = true
	c.closeEpoch++ // cancel a still-scheduled reset from a prior close
	c.state = Defaults()
	c.phase = PhaseEditing
	c.stepErr = ""
	// Cancelling the scheduled reset must not carry the previous session's
	// images into this one; a new session always starts with an empty
	// collection.
	c.cfg.Intake.Reset()

	restored := false
	if c.cfg.Saver != nil {
		if raw, ok := c.cfg.Saver.Load(); ok {
			c.state = unmarshalDraft(raw)
			c.state.Step = StepCategory
			restored = true
		}
	}
	log.Debug().Bool("draftRestored", restored).Msg("Wizard opened")
}

// Close closes the wizard. Pending draft edits are flushed so nothing typed
// in the last debounce window is lost, then state resets to defaults after
// the close delay. Reopening within the delay cancels the reset.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return
	}
	c.open = false
	if c.cfg.Saver != nil {
		c.cfg.Saver.Flush()
	}

	c.closeEpoch++
	e := c.closeEpoch
	if c.cfg.CloseDelay < 0 {
		c.resetLocked(e)
		return
	}
	time.AfterFunc(c.cfg.CloseDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.resetLocked(e)
	})
}

func (c *Controller) resetLocked(epoch uint64) {
	if c.open || epoch != c.closeEpoch {
		return
	}
	c.state = Defaults()
	c.phase = PhaseEditing
	c.stepErr = ""
	c.cfg.Intake.Reset()
}

// IsOpen reports whether the wizard is showing.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Step
}

// CurrentPhase returns the submission lifecycle phase.
func (c *Controller) CurrentPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// StepError returns the surfaced validation message, or empty.
func (c *Controller) StepError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepErr
}

// Snapshot returns a copy of the full wizard state with the live image list
// stitched in from intake.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Base.Images = c.cfg.Intake.Images()
	return s
}

// --- Navigation ---

// Next advances one step if the current step validates; otherwise the
// validation message is surfaced and the step does not change.
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || c.state.Step >= StepMedia {
		return false
	}
	if msg := Validate(c.state.Step, c.snapshotLocked()); msg != "" {
		c.stepErr = msg
		log.Debug().Int("step", int(c.state.Step)).Str("reason", msg).Msg("Step advance refused")
		return false
	}
	c.stepErr = ""
	c.state.Step++
	return true
}

// Back goes one step backward. Always allowed; entered data is kept.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || c.state.Step <= StepCategory {
		return
	}
	c.state.Step--
	c.stepErr = ""
}

// --- Field setters ---
//
// Every base or service-detail edit clears a surfaced validation message; a
// stale error must never linger once the user touches the related fields.
// All edits mark the draft dirty.

// SetTitle sets the ad title.
func (c *Controller) SetTitle(v string) { c.editBase(func(b *BaseForm) { b.Title = v }) }

// SetPrice sets the price text. Parsing waits until submission.
func (c *Controller) SetPrice(v string) { c.editBase(func(b *BaseForm) { b.Price = v }) }

// SetPriceUnit sets the currency / price unit.
func (c *Controller) SetPriceUnit(v string) { c.editBase(func(b *BaseForm) { b.PriceUnit = v }) }

// SetLocation sets the wilaya.
func (c *Controller) SetLocation(v string) { c.editBase(func(b *BaseForm) { b.Location = v }) }

// SetDescription sets the free-text description, truncated to
// MaxDescriptionLen runes.
func (c *Controller) SetDescription(v string) {
	c.editBase(func(b *BaseForm) { b.Description = truncateRunes(v, MaxDescriptionLen) })
}

// SetCategory switches the active category. The other variants' entered
// details are retained.
func (c *Controller) SetCategory(cat Category) {
	switch cat {
	case CategoryAuto, CategoryRealEstate, CategoryJobs, CategoryServices:
	default:
		return
	}
	c.editBase(func(b *BaseForm) { b.Category = cat })
}

func (c *Controller) editBase(mutate func(*BaseForm)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.phase != PhaseEditing {
		return
	}
	mutate(&c.state.Base)
	c.stepErr = ""
	c.touchDraftLocked()
}

// UpdateAuto edits the vehicle details variant.
func (c *Controller) UpdateAuto(mutate func(*AutoDetails)) {
	c.editDetails(func(d *Details) { mutate(&d.Auto) }, false)
}

// UpdateRealEstate edits the property details variant.
func (c *Controller) UpdateRealEstate(mutate func(*RealEstateDetails)) {
	c.editDetails(func(d *Details) { mutate(&d.RealEstate) }, false)
}

// UpdateJob edits the job details variant.
func (c *Controller) UpdateJob(mutate func(*JobDetails)) {
	c.editDetails(func(d *Details) { mutate(&d.Job) }, false)
}

// UpdateService edits the service details variant. Specialty participates
// in step-3 validation, so service edits also clear the surfaced message.
func (c *Controller) UpdateService(mutate func(*ServiceDetails)) {
	c.editDetails(func(d *Details) { mutate(&d.Service) }, true)
}

func (c *Controller) editDetails(mutate func(*Details), clearsError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.phase != PhaseEditing {
		return
	}
	mutate(&c.state.Details)
	if clearsError {
		c.stepErr = ""
	}
	c.touchDraftLocked()
}

func (c *Controller) touchDraftLocked() {
	if c.cfg.Saver == nil {
		return
	}
	payload, err := marshalDraft(c.state)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal draft")
		return
	}
	c.cfg.Saver.Touch(payload)
}

// --- Submission hooks (driven by the submit package) ---

// BeginSubmitting moves the wizard into the Submitting phase. Refused
// unless the wizard is open, editing, and on the final step.
func (c *Controller) BeginSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.phase != PhaseEditing || c.state.Step != StepMedia {
		return false
	}
	c.phase = PhaseSubmitting
	c.stepErr = ""
	return true
}

// SubmitFailed returns the wizard to editable state on the given step with
// the failure message surfaced.
func (c *Controller) SubmitFailed(step Step, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseEditing
	if step >= StepCategory && step <= StepMedia {
		c.state.Step = step
	}
	c.stepErr = msg
}

// SubmitSucceeded moves to the Success phase and clears the saved draft.
func (c *Controller) SubmitSucceeded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseSuccess
	c.stepErr = ""
	if c.cfg.Saver != nil {
		c.cfg.Saver.Clear()
	}
}
