package submit

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/daberli/ad-composer/internal/wizard"
)

// ErrNotReady means the wizard was not in a submittable state (not open,
// not on the final step, or already submitting).
var ErrNotReady = errors.New("wizard is not ready to submit")

// Submitter runs the final confirmation: freeze the wizard, assemble the
// request, call the collaborator, and settle the wizard into Success or
// back into editing.
type Submitter struct {
	Wizard *wizard.Controller
	Client Client
}

// Submit performs one submission attempt. A validation failure jumps the
// wizard back to the offending step; a collaborator failure returns it to
// the final step with the message surfaced. Neither is retried.
func (s *Submitter) Submit(ctx context.Context) (CreatedAd, error) {
	if !s.Wizard.BeginSubmitting() {
		return CreatedAd{}, ErrNotReady
	}

	req, err := Assemble(s.Wizard.Snapshot())
	if err != nil {
		var sf *StepFailure
		if errors.As(err, &sf) {
			s.Wizard.SubmitFailed(sf.Step, sf.Message)
		} else {
			s.Wizard.SubmitFailed(wizard.StepMedia, err.Error())
		}
		return CreatedAd{}, err
	}

	created, err := s.Client.Create(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("clientRef", req.ClientRef).Msg("Ad submission failed")
		s.Wizard.SubmitFailed(wizard.StepMedia, "We couldn't publish your ad. Please try again.")
		return CreatedAd{}, err
	}

	s.Wizard.SubmitSucceeded()
	return created, nil
}
