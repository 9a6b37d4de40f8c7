// Package submit shapes a finished wizard state into the ad-creation API
// contract and drives the submission round-trip, moving the wizard through
// its Submitting and Success phases.
package submit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/daberli/ad-composer/internal/imaging"
	"github.com/daberli/ad-composer/internal/wizard"
)

// CreateAdRequest is the POST /api/ads body. The cover image is duplicated
// into its own field; the server treats images[0] and image as the same
// thing, and so does everything here.
type CreateAdRequest struct {
	ClientRef  string            `json:"clientRef"`
	Title      string            `json:"title"`
	Category   string            `json:"category"`
	Price      float64           `json:"price"`
	Currency   string            `json:"currency"`
	Location   string            `json:"location"`
	Image      imaging.Payload   `json:"image"`
	Images     []imaging.Payload `json:"images"`
	Details    map[string]string `json:"details"`
	DatePosted string            `json:"datePosted"`
}

// CreatedAd is the server's acknowledgement of a created listing.
type CreatedAd struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Price          float64  `json:"price"`
	Currency       string   `json:"currency"`
	Location       string   `json:"location"`
	Image          string   `json:"image"`
	Images         []string `json:"images"`
	ApprovalStatus string   `json:"approvalStatus"`
}

// StepFailure is a validation failure found while assembling: it names the
// wizard step the user must return to and the message to surface there.
type StepFailure struct {
	Step    wizard.Step
	Message string
}

func (f *StepFailure) Error() string {
	return fmt.Sprintf("step %d: %s", f.Step, f.Message)
}

// Assemble re-validates every step in order and, if all pass, shapes the
// request. The full re-run guards against any path that reached the final
// step without validating an earlier one. The error, when non-nil, is
// always a *StepFailure.
func Assemble(s wizard.State) (CreateAdRequest, error) {
	for step := wizard.StepCategory; step <= wizard.StepMedia; step++ {
		if msg := wizard.Validate(step, s); msg != "" {
			return CreateAdRequest{}, &StepFailure{Step: step, Message: msg}
		}
	}

	details := s.Details.Active(s.Base.Category)
	// Jobs and services fold the free-text description into details; auto
	// and real-estate listings display description separately server-side.
	if s.Base.Category == wizard.CategoryJobs || s.Base.Category == wizard.CategoryServices {
		details["description"] = s.Base.Description
	}

	images := make([]imaging.Payload, len(s.Base.Images))
	copy(images, s.Base.Images)

	return CreateAdRequest{
		ClientRef:  uuid.NewString(),
		Title:      s.Base.Title,
		Category:   string(s.Base.Category),
		Price:      parsePrice(s.Base.Price),
		Currency:   s.Base.PriceUnit,
		Location:   s.Base.Location,
		Image:      images[0],
		Images:     images,
		Details:    details,
		DatePosted: "Just now",
	}, nil
}

// parsePrice turns the free-text price into a number, falling back to 0 on
// anything unparseable.
func parsePrice(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return v
}
