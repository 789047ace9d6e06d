package workouts

import (
	"encoding/json"
	"strconv"
	"time"
)

// DateLayout is how record and export dates are written: UTC with
// milliseconds, matching existing backup files.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

type SessionKind string

const (
	SessionKindWorkout SessionKind = "workout"
	SessionKindExtra   SessionKind = "extra"
)

// Workout is the persisted summary of one finished session.
// It is never changed after creation.
type Workout struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	SessionID   int       `json:"sessionId"`
	SessionName string    `json:"sessionName"`
	// ActivityType is set for extra sessions only.
	ActivityType  string            `json:"activityType,omitempty"`
	Duration      int               `json:"duration"`
	Completed     bool              `json:"completed"`
	Exercises     []ExerciseSummary `json:"exercises"`
	TotalSets     int               `json:"totalSets"`
	CompletedSets int               `json:"completedSets"`
}

type ExerciseSummary struct {
	Name          string   `json:"name"`
	SetsCompleted int      `json:"setsCompleted"`
	SetsTotal     int      `json:"setsTotal"`
	Reps          string   `json:"reps"`
	Notes         []string `json:"notes"`
}

func (w Workout) MarshalJSON() ([]byte, error) {
	type plain Workout
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{
		plain: plain(w),
		Date:  w.Date.UTC().Format(DateLayout),
	})
}

func (w Workout) Kind() SessionKind {
	if w.ActivityType != "" {
		return SessionKindExtra
	}
	return SessionKindWorkout
}

// NewWorkoutID derives a record id from its creation time, in milliseconds.
func NewWorkoutID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// NonEmptyNotes keeps only the notes that carry text; never returns nil.
func NonEmptyNotes(notes []string) []string {
	kept := make([]string, 0, len(notes))
	for _, n := range notes {
		if n != "" {
			kept = append(kept, n)
		}
	}
	return kept
}

// normalize fills the slices left nil by a decoded document, so the
// persisted form always carries arrays.
func (w *Workout) normalize() {
	if w.Exercises == nil {
		w.Exercises = []ExerciseSummary{}
	}
	for i := range w.Exercises {
		if w.Exercises[i].Notes == nil {
			w.Exercises[i].Notes = []string{}
		}
	}
}
