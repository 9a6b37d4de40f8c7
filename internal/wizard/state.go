// Package wizard is the four-step ad-composition state machine: category,
// basic info, category-specific details, photos + description. Forward
// navigation is gated on a single validation function, backward navigation
// never is, and the whole gauntlet re-runs on submit so no step can be
// bypassed.
package wizard

import (
	"strings"

	"github.com/daberli/ad-composer/internal/imaging"
	"github.com/daberli/ad-composer/internal/refdata"
)

// Step is one of the four ordered wizard steps.
type Step int

const (
	StepCategory Step = 1
	StepBasic    Step = 2
	StepDetails  Step = 3
	StepMedia    Step = 4
)

// Phase is the wizard's submission lifecycle, orthogonal to Step.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSuccess
)

// Category selects which detail variant an ad carries.
type Category string

const (
	CategoryAuto       Category = "auto"
	CategoryRealEstate Category = "real-estate"
	CategoryJobs       Category = "jobs"
	CategoryServices   Category = "services"
)

// MaxDescriptionLen caps the free-text description, in runes.
const MaxDescriptionLen = 1000

// BaseForm holds the fields every category shares. Price stays text until
// submission shapes it into a number.
type BaseForm struct {
	Title       string            `json:"title"`
	Category    Category          `json:"category"`
	Price       string            `json:"price"`
	PriceUnit   string            `json:"priceUnit"`
	Location    string            `json:"location"`
	Images      []imaging.Payload `json:"images"`
	Description string            `json:"description"`
}

// AutoDetails are the vehicle-specific fields. All optional.
type AutoDetails struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         string `json:"year"`
	Mileage      string `json:"mileage"`
	FuelType     string `json:"fuelType"`
	Transmission string `json:"transmission"`
	Color        string `json:"color"`
	Condition    string `json:"condition"`
}

// RealEstateDetails are the property-specific fields. All optional.
type RealEstateDetails struct {
	Type      string `json:"type"`
	Area      string `json:"area"`
	Bedrooms  string `json:"bedrooms"`
	Bathrooms string `json:"bathrooms"`
	Floor     string `json:"floor"`
	Furnished string `json:"furnished"`
}

// JobDetails are the job-listing fields. All optional.
type JobDetails struct {
	Company    string `json:"company"`
	JobType    string `json:"jobType"`
	Experience string `json:"experience"`
	Remote     string `json:"remote"`
	Sector     string `json:"sector"`
}

// ServiceDetails are the service-listing fields. Specialty is the one
// detail field anywhere in the wizard that is required.
type ServiceDetails struct {
	Specialty    string `json:"specialty"`
	RateType     string `json:"rateType"`
	YearsExp     string `json:"yearsExp"`
	Availability string `json:"availability"`
}

// Details holds all four variants at once. Only the variant matching
// base.Category is ever submitted, but switching category keeps the others
// so the user can switch back without losing entered data.
type Details struct {
	Auto       AutoDetails       `json:"auto"`
	RealEstate RealEstateDetails `json:"realEstate"`
	Job        JobDetails        `json:"job"`
	Service    ServiceDetails    `json:"service"`
}

// Active flattens the variant selected by cat into the string map the
// ad-creation API expects for its details payload.
func (d Details) Active(cat Category) map[string]string {
	switch cat {
	case CategoryRealEstate:
		return map[string]string{
			"type": d.RealEstate.Type, "area": d.RealEstate.Area,
			"bedrooms": d.RealEstate.Bedrooms, "bathrooms": d.RealEstate.Bathrooms,
			"floor": d.RealEstate.Floor, "furnished": d.RealEstate.Furnished,
		}
	case CategoryJobs:
		return map[string]string{
			"company": d.Job.Company, "jobType": d.Job.JobType,
			"experience": d.Job.Experience, "remote": d.Job.Remote,
			"sector": d.Job.Sector,
		}
	case CategoryServices:
		return map[string]string{
			"specialty": d.Service.Specialty, "rateType": d.Service.RateType,
			"yearsExp": d.Service.YearsExp, "availability": d.Service.Availability,
		}
	default:
		return map[string]string{
			"brand": d.Auto.Brand, "model": d.Auto.Model, "year": d.Auto.Year,
			"mileage": d.Auto.Mileage, "fuelType": d.Auto.FuelType,
			"transmission": d.Auto.Transmission, "color": d.Auto.Color,
			"condition": d.Auto.Condition,
		}
	}
}

// State is the wizard's canonical mutable aggregate.
type State struct {
	Step    Step
	Base    BaseForm
	Details Details
}

// Defaults is the freshly-opened wizard state: category preselected,
// currency DZD, everything else empty.
func Defaults() State {
	return State{
		Step: StepCategory,
		Base: BaseForm{Category: CategoryAuto, PriceUnit: "DZD"},
	}
}

// Validate is the single source of truth for step gating. It returns an
// empty string when the step passes, or the user-facing message otherwise.
// Submission re-runs it for every step in order.
func Validate(step Step, s State) string {
	switch step {
	case StepCategory:
		return "" // a category is always selected
	case StepBasic:
		if strings.TrimSpace(s.Base.Title) == "" {
			return "Please enter a title for your ad."
		}
		if !refdata.IsKnownWilaya(s.Base.Location) {
			return "Please select a wilaya."
		}
		return ""
	case StepDetails:
		if s.Base.Category == CategoryServices && strings.TrimSpace(s.Details.Service.Specialty) == "" {
			return "Please enter your specialty."
		}
		return ""
	case StepMedia:
		if len(s.Base.Images) == 0 {
			return "At least one photo is required — it helps your ad stand out."
		}
		if s.Base.Category == CategoryJobs || s.Base.Category == CategoryServices {
			if strings.TrimSpace(s.Base.Description) == "" {
				return "Please add a description for this type of listing."
			}
		}
		return ""
	default:
		return ""
	}
}
