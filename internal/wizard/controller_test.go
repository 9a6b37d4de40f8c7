package wizard

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/daberli/ad-composer/internal/draft"
	"github.com/daberli/ad-composer/internal/intake"
	"github.com/daberli/ad-composer/internal/storage"
)

// newTestController wires a controller with synchronous draft writes and an
// immediate close reset, so tests never sleep.
func newTestController(store storage.Store) (*Controller, *intake.Controller) {
	in := intake.New(intake.Config{})
	var saver *draft.Saver
	if store != nil {
		saver = draft.NewSaver(store, "", -1)
	}
	return New(Config{Intake: in, Saver: saver, CloseDelay: -1}), in
}

func attachImage(t *testing.T, in *intake.Controller) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	rcpt := in.AcceptFiles([]intake.File{{Name: "photo.png", ContentType: "image/png", Data: buf.Bytes()}})
	if rcpt.Queued != 1 {
		t.Fatalf("fixture image not queued: %+v", rcpt)
	}
	in.WaitIdle()
}

func TestServicesRequireSpecialtyToAdvance(t *testing.T) {
	c, _ := newTestController(nil)
	c.Open()

	c.SetCategory(CategoryServices)
	if !c.Next() {
		t.Fatal("category step refused")
	}
	c.SetTitle("Plombier à domicile")
	c.SetLocation("Oran")
	if !c.Next() {
		t.Fatalf("basic step refused: %q", c.StepError())
	}

	if c.Next() {
		t.Fatal("details step advanced without a specialty")
	}
	if got := c.StepError(); got != "Please enter your specialty." {
		t.Errorf("StepError = %q", got)
	}
	if c.Step() != StepDetails {
		t.Errorf("Step = %d, want to stay on details", c.Step())
	}

	// Typing into the specialty field clears the message; advancing works.
	c.UpdateService(func(d *ServiceDetails) { d.Specialty = "Plomberie" })
	if got := c.StepError(); got != "" {
		t.Errorf("error lingered after edit: %q", got)
	}
	if !c.Next() {
		t.Errorf("details step still refused: %q", c.StepError())
	}
}

func TestCloseAndReopenRestoresDraftWithoutImages(t *testing.T) {
	store := storage.NewMemStore()

	c, in := newTestController(store)
	c.Open()
	c.SetCategory(CategoryRealEstate)
	c.SetTitle("F3 ensoleillé à Hydra")
	c.SetLocation("Alger")
	c.SetPrice("4500000")
	c.UpdateRealEstate(func(d *RealEstateDetails) { d.Type = "Appartement" })
	attachImage(t, in)
	c.Close()

	if c.IsOpen() {
		t.Fatal("still open after Close")
	}

	// A fresh controller over the same store, as after a page reload.
	c2, in2 := newTestController(store)
	c2.Open()
	s := c2.Snapshot()

	if s.Base.Title != "F3 ensoleillé à Hydra" || s.Base.Location != "Alger" {
		t.Errorf("base not restored: %+v", s.Base)
	}
	if s.Base.Category != CategoryRealEstate || s.Details.RealEstate.Type != "Appartement" {
		t.Errorf("details not restored: %+v", s.Details.RealEstate)
	}
	if len(s.Base.Images) != 0 || in2.Count() != 0 {
		t.Error("images must not survive a reopen")
	}
	if s.Step != StepCategory {
		t.Errorf("Step = %d, want restart at category", s.Step)
	}
}

func TestCloseResetsStateAndIntake(t *testing.T) {
	c, in := newTestController(nil)
	c.Open()
	c.SetTitle("ephemeral")
	attachImage(t, in)

	c.Close()

	c.Open()
	s := c.Snapshot()
	if s.Base.Title != "" {
		t.Errorf("Title = %q, want defaults after close", s.Base.Title)
	}
	if in.Count() != 0 {
		t.Errorf("intake Count = %d, want 0 after close", in.Count())
	}
}

// Reopening inside the close-delay window cancels the scheduled reset; the
// new session must still start with an empty image collection rather than
// inheriting the previous session's photos.
func TestReopenWithinCloseDelayDropsPreviousImages(t *testing.T) {
	in := intake.New(intake.Config{})
	c := New(Config{Intake: in, CloseDelay: 25 * time.Millisecond})

	c.Open()
	c.SetTitle("ancien")
	attachImage(t, in)
	c.Close()
	c.Open() // within the delay window

	if got := in.Count(); got != 0 {
		t.Errorf("intake Count = %d on reopen, want 0", got)
	}
	s := c.Snapshot()
	if len(s.Base.Images) != 0 {
		t.Errorf("Snapshot carried %d images into the new session", len(s.Base.Images))
	}
	if s.Base.Title != "" {
		t.Errorf("Title = %q, want defaults", s.Base.Title)
	}

	// The superseded reset timer must not disturb the reopened session.
	time.Sleep(60 * time.Millisecond)
	if !c.IsOpen() {
		t.Error("stale reset timer closed the reopened wizard")
	}
}

func TestNextRefusalSurfacesMessageAndEditsClearIt(t *testing.T) {
	c, _ := newTestController(nil)
	c.Open()
	c.Next() // onto basic info

	if c.Next() {
		t.Fatal("blank basic info advanced")
	}
	if got := c.StepError(); got != "Please enter a title for your ad." {
		t.Errorf("StepError = %q", got)
	}

	c.SetTitle("Golf 7")
	if got := c.StepError(); got != "" {
		t.Errorf("error lingered after title edit: %q", got)
	}
	if c.Next() {
		t.Fatal("advanced without a wilaya")
	}
	if got := c.StepError(); got != "Please select a wilaya." {
		t.Errorf("StepError = %q", got)
	}

	c.SetLocation("Blida")
	if !c.Next() {
		t.Errorf("basic step refused when complete: %q", c.StepError())
	}
}

func TestBackNeverValidatesOrLosesData(t *testing.T) {
	c, _ := newTestController(nil)
	c.Open()
	c.Next()
	c.SetTitle("Vélo de course")
	c.SetLocation("Béjaïa")
	c.Next()

	c.Back()
	if c.Step() != StepBasic {
		t.Fatalf("Step = %d after Back", c.Step())
	}
	s := c.Snapshot()
	if s.Base.Title != "Vélo de course" {
		t.Error("backward navigation lost entered data")
	}
	c.Back()
	c.Back() // already at step 1; stays put
	if c.Step() != StepCategory {
		t.Errorf("Step = %d, want category", c.Step())
	}
}

func TestSubmissionPhaseHooks(t *testing.T) {
	c, in := newTestController(storage.NewMemStore())
	c.Open()
	c.SetTitle("Dev Go")
	c.SetLocation("Alger")
	attachImage(t, in)
	c.Next()
	c.Next()
	c.Next()
	if c.Step() != StepMedia {
		t.Fatalf("Step = %d, want media", c.Step())
	}

	if !c.BeginSubmitting() {
		t.Fatal("BeginSubmitting refused on the final step")
	}
	if c.BeginSubmitting() {
		t.Error("double BeginSubmitting accepted")
	}

	// Edits are frozen while submitting.
	c.SetTitle("changed mid-flight")
	if got := c.Snapshot().Base.Title; got != "Dev Go" {
		t.Errorf("Title = %q, want edits ignored while submitting", got)
	}

	c.SubmitFailed(StepBasic, "The server rejected the ad.")
	if c.CurrentPhase() != PhaseEditing || c.Step() != StepBasic {
		t.Errorf("phase=%d step=%d after failure", c.CurrentPhase(), c.Step())
	}
	if got := c.StepError(); got != "The server rejected the ad." {
		t.Errorf("StepError = %q", got)
	}

	c.Next()
	c.Next()
	if !c.BeginSubmitting() {
		t.Fatal("resubmit refused")
	}
	c.SubmitSucceeded()
	if c.CurrentPhase() != PhaseSuccess {
		t.Errorf("phase = %d, want success", c.CurrentPhase())
	}
}

func TestSuccessClearsDraft(t *testing.T) {
	store := storage.NewMemStore()
	c, in := newTestController(store)
	c.Open()
	c.SetTitle("Table en bois massif")
	c.SetLocation("Sétif")
	attachImage(t, in)
	for c.Step() != StepMedia {
		if !c.Next() {
			t.Fatalf("advance refused at step %d: %q", c.Step(), c.StepError())
		}
	}
	c.BeginSubmitting()
	c.SubmitSucceeded()

	if _, ok, _ := store.Get(draft.Key); ok {
		t.Error("draft survived a successful submission")
	}
}
