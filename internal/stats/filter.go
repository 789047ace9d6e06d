package stats

import (
	"fmt"
	"time"

	"github.com/2beens/gymtracker/internal/workouts"
)

type Filter string

const (
	FilterAll  Filter = "all"
	Filter7d   Filter = "7d"
	Filter30d  Filter = "30d"
	Filter90d  Filter = "90d"
	FilterYear Filter = "year"
)

var filterDays = map[Filter]int{
	Filter7d:   7,
	Filter30d:  30,
	Filter90d:  90,
	FilterYear: 365,
}

// ParseFilter accepts the filter names; an empty value means all.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if s == "" || f == FilterAll {
		return FilterAll, nil
	}
	if _, ok := filterDays[f]; !ok {
		return "", fmt.Errorf("unknown filter %q", s)
	}
	return f, nil
}

// Apply keeps the workouts dated at or after now minus the filter's days.
func (f Filter) Apply(history []workouts.Workout, now time.Time) []workouts.Workout {
	days, ok := filterDays[f]
	if !ok {
		return history
	}

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	filtered := make([]workouts.Workout, 0, len(history))
	for _, w := range history {
		if !w.Date.Before(cutoff) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}
