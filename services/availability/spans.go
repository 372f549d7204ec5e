// File: services/availability/spans.go
package availability

import (
	"fmt"
	"sort"

	"meytle/models"
)

// span is a half-open interval in minutes from midnight.
type span struct {
	start int
	end   int
}

func parseClock(value string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", value)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func parseSpan(start, end string) (span, error) {
	s, err := parseClock(start)
	if err != nil {
		return span{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return span{}, err
	}
	if e <= s {
		return span{}, fmt.Errorf("window %s-%s ends before it starts", start, end)
	}
	return span{start: s, end: e}, nil
}

// subtractSpans removes every booked interval from the base intervals and
// returns the remaining open intervals ordered by start.
func subtractSpans(base, booked []span) []span {
	open := make([]span, 0, len(base))
	for _, b := range base {
		remaining := []span{b}
		for _, r := range booked {
			var next []span
			for _, o := range remaining {
				if r.end <= o.start || r.start >= o.end {
					next = append(next, o)
					continue
				}
				if r.start > o.start {
					next = append(next, span{start: o.start, end: r.start})
				}
				if r.end < o.end {
					next = append(next, span{start: r.end, end: o.end})
				}
			}
			remaining = next
		}
		open = append(open, remaining...)
	}
	sort.Slice(open, func(i, j int) bool { return open[i].start < open[j].start })
	return open
}

func toWindows(spans []span) []models.TimeWindow {
	windows := make([]models.TimeWindow, 0, len(spans))
	for _, sp := range spans {
		windows = append(windows, models.TimeWindow{
			Start: formatClock(sp.start),
			End:   formatClock(sp.end),
		})
	}
	return windows
}
