package session

import (
	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/timer"
)

// State is the serializable view of a runner.
type State struct {
	SessionID int                     `json:"sessionId"`
	Type      catalogue.SessionType   `json:"type"`
	Stopwatch timer.StopwatchSnapshot `json:"stopwatch"`

	// workout sessions
	Progress  int          `json:"progress"`
	DoneSets  int          `json:"doneSets"`
	TotalSets int          `json:"totalSets"`
	Groups    []GroupState `json:"groups,omitempty"`
	Rest      *RestState   `json:"rest,omitempty"`

	// extra sessions
	Activity *catalogue.Activity `json:"activity,omitempty"`
}

type GroupState struct {
	Name      string          `json:"name"`
	Exercises []ExerciseState `json:"exercises"`
}

type ExerciseState struct {
	Name  string                   `json:"name"`
	Sets  int                      `json:"sets"`
	Done  int                      `json:"done"`
	Notes []string                 `json:"notes"`
	Timer *timer.CountdownSnapshot `json:"timer,omitempty"`
}

type RestState struct {
	ExerciseRef
	Countdown timer.CountdownSnapshot `json:"countdown"`
}

func (wr *WorkoutRunner) State() State {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	done := wr.doneSetsLocked()
	total := wr.session.TotalSets()
	state := State{
		SessionID: wr.session.ID,
		Type:      wr.session.Type,
		Stopwatch: wr.stopwatch.Snapshot(),
		Progress:  progress(done, total),
		DoneSets:  done,
		TotalSets: total,
		Groups:    make([]GroupState, 0, len(wr.session.Groups)),
	}

	for g, group := range wr.session.Groups {
		gs := GroupState{
			Name:      group.Name,
			Exercises: make([]ExerciseState, 0, len(group.Exercises)),
		}
		for e, ex := range group.Exercises {
			es := ExerciseState{
				Name:  ex.Name,
				Sets:  ex.Sets,
				Done:  wr.done[g][e],
				Notes: append([]string(nil), wr.notes[g][e]...),
			}
			if c, ok := wr.exerciseTimers[ExerciseRef{Group: g, Exercise: e}]; ok {
				snap := c.Snapshot()
				es.Timer = &snap
			}
			gs.Exercises = append(gs.Exercises, es)
		}
		state.Groups = append(state.Groups, gs)
	}

	if wr.rest != nil {
		state.Rest = &RestState{
			ExerciseRef: wr.restRef,
			Countdown:   wr.rest.Snapshot(),
		}
	}
	return state
}

func (er *ExtraRunner) State() State {
	er.mutex.Lock()
	defer er.mutex.Unlock()

	state := State{
		SessionID: er.session.ID,
		Type:      er.session.Type,
		Stopwatch: er.stopwatch.Snapshot(),
	}
	if er.activity >= 0 {
		activity := er.session.Activities[er.activity]
		state.Activity = &activity
	}
	return state
}
