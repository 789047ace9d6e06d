package stats

import (
	"math"
	"slices"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/workouts"
)

const (
	WeeklyBuckets    = 8
	HeatmapDays      = 12 * 7
	TopExerciseLimit = 5
)

const unknownSessionColor = "#999"

// calendarDay is a day in the location of the reference time, reduced to a
// UTC midnight so that day differences are plain divisions.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Streak counts consecutive calendar days with at least one workout, walking
// back from today. A day without workouts ends it; no workout today means 0.
func Streak(history []workouts.Workout, now time.Time) int {
	today := calendarDay(now, now.Location())

	seen := make(map[time.Time]struct{}, len(history))
	for _, w := range history {
		seen[calendarDay(w.Date, now.Location())] = struct{}{}
	}

	streak := 0
	for {
		day := today.AddDate(0, 0, -streak)
		if _, ok := seen[day]; !ok {
			return streak
		}
		streak++
	}
}

type WeekBucket struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// Weekly counts workouts over the last 8 calendar weeks, oldest first.
// Weeks start on Sunday at midnight.
func Weekly(history []workouts.Workout, now time.Time) []WeekBucket {
	loc := now.Location()
	y, m, d := now.Date()
	thisSunday := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)

	buckets := make([]WeekBucket, 0, WeeklyBuckets)
	for i := WeeklyBuckets - 1; i >= 0; i-- {
		start := thisSunday.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 7)

		count := 0
		for _, w := range history {
			if !w.Date.Before(start) && w.Date.Before(end) {
				count++
			}
		}
		buckets = append(buckets, WeekBucket{
			Start: start,
			Label: start.Format("2/1"),
			Count: count,
		})
	}
	return buckets
}

type SessionShare struct {
	SessionID int    `json:"sessionId"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	Count     int    `json:"count"`
	Percent   int    `json:"percent"`
}

// Distribution groups the workouts by session, in ascending session id order.
// Percentages are relative to len(filtered) and rounded.
func Distribution(filtered []workouts.Workout, c *catalogue.Catalogue) []SessionShare {
	counts := make(map[int]int)
	for _, w := range filtered {
		counts[w.SessionID]++
	}

	shares := make([]SessionShare, 0, len(counts))
	for id, count := range counts {
		share := SessionShare{
			SessionID: id,
			Label:     "Extra",
			Color:     unknownSessionColor,
			Count:     count,
			Percent:   int(math.Round(float64(count) / float64(len(filtered)) * 100)),
		}
		if c != nil {
			if s, err := c.ByID(id); err == nil {
				share.Label = s.Label
				share.Color = s.Color
			}
		}
		shares = append(shares, share)
	}

	slices.SortFunc(shares, func(a, b SessionShare) int {
		return a.SessionID - b.SessionID
	})
	return shares
}

type ExerciseTotal struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
}

// TopExercises sums completed sets per exercise name and returns the
// largest totals, highest first. Ties keep the order of first appearance.
func TopExercises(filtered []workouts.Workout, limit int) []ExerciseTotal {
	var totals []ExerciseTotal
	index := make(map[string]int)
	for _, w := range filtered {
		for _, ex := range w.Exercises {
			i, ok := index[ex.Name]
			if !ok {
				i = len(totals)
				index[ex.Name] = i
				totals = append(totals, ExerciseTotal{Name: ex.Name})
			}
			totals[i].Sets += ex.SetsCompleted
		}
	}

	slices.SortStableFunc(totals, func(a, b ExerciseTotal) int {
		return b.Sets - a.Sets
	})
	if len(totals) > limit {
		totals = totals[:limit]
	}
	if totals == nil {
		totals = []ExerciseTotal{}
	}
	return totals
}

type Summary struct {
	TotalWorkouts int `json:"totalWorkouts"`
	TotalSets     int `json:"totalSets"`
	TotalDuration int `json:"totalDuration"`
	AvgDuration   int `json:"avgDuration"`
}

func Summarize(filtered []workouts.Workout) Summary {
	var s Summary
	for _, w := range filtered {
		s.TotalWorkouts++
		s.TotalSets += w.CompletedSets
		s.TotalDuration += w.Duration
	}
	if s.TotalWorkouts > 0 {
		s.AvgDuration = int(math.Round(float64(s.TotalDuration) / float64(s.TotalWorkouts)))
	}
	return s
}

type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	// Level is the display intensity: 0 for none, then 1, 2 and 3 for three or more.
	Level int  `json:"level"`
	Today bool `json:"today,omitempty"`
}

// Heatmap counts workouts per day for the last 12 weeks, oldest first.
func Heatmap(history []workouts.Workout, now time.Time) []HeatmapDay {
	today := calendarDay(now, now.Location())
	first := today.AddDate(0, 0, -(HeatmapDays - 1))

	counts := make([]int, HeatmapDays)
	for _, w := range history {
		offset := daysBetween(first, calendarDay(w.Date, now.Location()))
		if offset >= 0 && offset < HeatmapDays {
			counts[offset]++
		}
	}

	days := make([]HeatmapDay, 0, HeatmapDays)
	for i, count := range counts {
		days = append(days, HeatmapDay{
			Date:  first.AddDate(0, 0, i).Format(time.DateOnly),
			Count: count,
			Level: min(count, 3),
			Today: i == HeatmapDays-1,
		})
	}
	return days
}
