package wizard

import (
	"encoding/json"

	"github.com/daberli/ad-composer/internal/imaging"
)

// draftPayload is the stored draft shape. The short keys are the wire
// format existing drafts already use; changing them would orphan every
// saved draft in the field.
type draftPayload struct {
	B  *BaseForm          `json:"b,omitempty"`
	A  *AutoDetails       `json:"a,omitempty"`
	RE *RealEstateDetails `json:"re,omitempty"`
	J  *JobDetails        `json:"j,omitempty"`
	S  *ServiceDetails    `json:"s,omitempty"`
}

// marshalDraft serialises the persistable slice of state. Images are
// stripped to empty first: binary payloads never reach durable storage.
func marshalDraft(s State) (string, error) {
	base := s.Base
	base.Images = []imaging.Payload{}
	data, err := json.Marshal(draftPayload{
		B: &base, A: &s.Details.Auto, RE: &s.Details.RealEstate,
		J: &s.Details.Job, S: &s.Details.Service,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalDraft merges a stored draft over defaults, field by field: keys
// absent from the payload keep their default, unknown keys are ignored, and
// a payload that is not JSON at all yields plain defaults. Images are
// always empty after restore, and the restored category is normalised so a
// stale draft can never select a variant that no longer exists.
func unmarshalDraft(raw string) State {
	s := Defaults()
	p := draftPayload{
		B: &s.Base, A: &s.Details.Auto, RE: &s.Details.RealEstate,
		J: &s.Details.Job, S: &s.Details.Service,
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Defaults()
	}

	s.Base.Images = nil
	switch s.Base.Category {
	case CategoryAuto, CategoryRealEstate, CategoryJobs, CategoryServices:
	default:
		s.Base.Category = CategoryAuto
	}
	if s.Base.PriceUnit == "" {
		s.Base.PriceUnit = "DZD"
	}
	s.Base.Description = truncateRunes(s.Base.Description, MaxDescriptionLen)
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
