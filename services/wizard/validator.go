package wizard

import (
	"meytle/models"
	"strings"
)

// Rules configures the step validators. ServiceStep selects which step the
// service rule runs in: 1 folds it into the schedule step, 2 gives it its own
// step. Both variants ship in the product; the default is 2.
type Rules struct {
	MinHours    float64
	MaxHours    float64
	ServiceStep int
}

// Validate runs the validator for one step against a draft. It is a pure
// predicate: it never mutates the draft and never panics. A nil return means
// the step passes.
func (r Rules) Validate(step int, draft models.BookingDraft, catalogEmpty bool) *StepRejection {
	switch step {
	case models.StepSchedule:
		return r.validateSchedule(draft, catalogEmpty)
	case models.StepService:
		return r.validateService(draft, catalogEmpty)
	case models.StepLocation:
		return r.validateLocation(draft)
	case models.StepReview:
		// The review step adds no input; it exists to gate the submit action.
		return nil
	}
	return &StepRejection{Step: step, Field: "step", Reason: "unknown wizard step"}
}

func (r Rules) validateSchedule(draft models.BookingDraft, catalogEmpty bool) *StepRejection {
	reject := func(field, reason string) *StepRejection {
		return &StepRejection{Step: models.StepSchedule, Field: field, Reason: reason}
	}
	if draft.Date == "" {
		return reject("date", "please choose a date")
	}
	if draft.Window.Start == "" || draft.Window.End == "" {
		return reject("window", "please choose a start and end time")
	}
	hours, err := WindowHours(draft.Window)
	if err != nil {
		return reject("window", err.Error())
	}
	if hours < r.MinHours {
		return reject("window", "booking is shorter than the minimum duration")
	}
	if hours > r.MaxHours {
		return reject("window", "booking is longer than the maximum duration")
	}
	if r.ServiceStep == models.StepSchedule {
		if rej := serviceRule(draft, catalogEmpty); rej != nil {
			return &StepRejection{Step: models.StepSchedule, Field: rej.Field, Reason: rej.Reason}
		}
	}
	return nil
}

func (r Rules) validateService(draft models.BookingDraft, catalogEmpty bool) *StepRejection {
	if r.ServiceStep != models.StepService {
		// The schedule step already enforced the service rule in this variant.
		return nil
	}
	return serviceRule(draft, catalogEmpty)
}

func serviceRule(draft models.BookingDraft, catalogEmpty bool) *StepRejection {
	reject := func(field, reason string) *StepRejection {
		return &StepRejection{Step: models.StepService, Field: field, Reason: reason}
	}
	switch draft.Service.Kind {
	case models.ServiceCustom:
		if len(strings.TrimSpace(draft.Service.Name)) < 3 {
			return reject("service", "custom service name must be at least 3 characters")
		}
	case models.ServiceCatalog:
		if draft.Service.CategoryID <= 0 && !catalogEmpty {
			return reject("service", "please select a service category")
		}
	default:
		// An empty catalog must not block progress.
		if !catalogEmpty {
			return reject("service", "please choose a service")
		}
	}
	return nil
}

func (r Rules) validateLocation(draft models.BookingDraft) *StepRejection {
	if draft.MeetingType != models.MeetingInPerson {
		return nil
	}
	reject := func(reason string) *StepRejection {
		return &StepRejection{Step: models.StepLocation, Field: "location", Reason: reason}
	}
	if draft.Location == nil || strings.TrimSpace(draft.Location.Address) == "" {
		return reject("please enter a meeting location")
	}
	// An address string alone is not enough; the location must be geocoded.
	if !draft.Location.Geocoded() {
		return reject("please pick a suggested address so we can verify it")
	}
	return nil
}
