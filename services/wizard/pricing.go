package wizard

import (
	"fmt"
	"math"
	"time"

	"meytle/models"
)

// PriceQuote is the derived price summary shown on the review step and sent
// with a submission. It is never stored on the draft; it is recomputed from
// the time window and rate every time it is needed.
type PriceQuote struct {
	Hours    float64 `json:"hours"`
	Subtotal float64 `json:"subtotal"`
	Fee      float64 `json:"fee"`
	Total    float64 `json:"total"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// QuotePrice prices a window at an hourly rate plus the platform fee. Each
// component is rounded to two decimals independently before summing; the
// backend rounds per component the same way, so rounding only the final
// total would drift from it by a cent on some inputs.
func QuotePrice(hours, hourlyRate, feePct float64) PriceQuote {
	subtotal := round2(hours * hourlyRate)
	fee := round2(subtotal * feePct)
	return PriceQuote{
		Hours:    hours,
		Subtotal: subtotal,
		Fee:      fee,
		Total:    round2(subtotal + fee),
	}
}

const clockLayout = "15:04"

// WindowHours returns the fractional hour span of a same-day window. Both
// times must parse as "HH:MM" and the start must precede the end; overnight
// windows are a caller error, not a wraparound case.
func WindowHours(w models.TimeWindow) (float64, error) {
	start, err := time.Parse(clockLayout, w.Start)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q", w.Start)
	}
	end, err := time.Parse(clockLayout, w.End)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q", w.End)
	}
	if !end.After(start) {
		return 0, fmt.Errorf("end time must be after start time")
	}
	return end.Sub(start).Hours(), nil
}
