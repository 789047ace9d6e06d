package catalogue

import (
	"errors"
	"fmt"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionType string

const (
	SessionTypeWorkout SessionType = "workout"
	SessionTypeExtra   SessionType = "extra"
)

type Exercise struct {
	Name string `json:"name" toml:"name" yaml:"name"`
	Sets int    `json:"sets" toml:"sets" yaml:"sets"`
	// Reps is free-form: a count, a range ("15-12-10-8") or a duration label ("10 min").
	Reps        string `json:"reps" toml:"reps" yaml:"reps"`
	Rest        int    `json:"rest" toml:"rest" yaml:"rest"`
	IsTimed     bool   `json:"isTimed,omitempty" toml:"is_timed" yaml:"is_timed"`
	Duration    int    `json:"duration,omitempty" toml:"duration" yaml:"duration"`
	Description string `json:"description" toml:"description" yaml:"description"`
}

type Group struct {
	Name      string     `json:"name" toml:"name" yaml:"name"`
	Icon      string     `json:"icon" toml:"icon" yaml:"icon"`
	Exercises []Exercise `json:"exercises" toml:"exercises" yaml:"exercises"`
}

type Activity struct {
	Name        string `json:"name" toml:"name" yaml:"name"`
	Icon        string `json:"icon" toml:"icon" yaml:"icon"`
	Description string `json:"description" toml:"description" yaml:"description"`
}

// Session is a fixed template: a workout made of groups, or an extra
// session offering a choice of activities.
type Session struct {
	ID         int         `json:"id" toml:"id" yaml:"id"`
	Label      string      `json:"label" toml:"label" yaml:"label"`
	Subtitle   string      `json:"subtitle" toml:"subtitle" yaml:"subtitle"`
	Color      string      `json:"color" toml:"color" yaml:"color"`
	Glow       string      `json:"glow" toml:"glow" yaml:"glow"`
	Icon       string      `json:"icon" toml:"icon" yaml:"icon"`
	Type       SessionType `json:"type" toml:"type" yaml:"type"`
	Groups     []Group     `json:"groups,omitempty" toml:"groups" yaml:"groups"`
	Activities []Activity  `json:"activities,omitempty" toml:"activities" yaml:"activities"`
}

// TotalSets is the sum of target sets over every exercise of the session.
func (s Session) TotalSets() int {
	total := 0
	for _, g := range s.Groups {
		for _, ex := range g.Exercises {
			total += ex.Sets
		}
	}
	return total
}

func (s Session) IsExtra() bool {
	return s.Type == SessionTypeExtra
}

type Catalogue struct {
	Sessions []Session `json:"sessions" toml:"sessions" yaml:"sessions"`
}

func (c *Catalogue) ByID(id int) (Session, error) {
	idx := c.Index(id)
	if idx < 0 {
		return Session{}, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return c.Sessions[idx], nil
}

// Index returns the position of the session with the given id, or -1.
func (c *Catalogue) Index(id int) int {
	for i, s := range c.Sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalogue) Validate() error {
	if len(c.Sessions) == 0 {
		return errors.New("catalogue has no sessions")
	}

	seen := make(map[int]struct{}, len(c.Sessions))
	for _, s := range c.Sessions {
		if s.ID <= 0 {
			return fmt.Errorf("session %q: id must be positive, got %d", s.Label, s.ID)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("session %q: duplicate id %d", s.Label, s.ID)
		}
		seen[s.ID] = struct{}{}

		if err := s.validate(); err != nil {
			return fmt.Errorf("session %d: %w", s.ID, err)
		}
	}
	return nil
}

func (s Session) validate() error {
	switch s.Type {
	case SessionTypeWorkout:
		if len(s.Groups) == 0 {
			return errors.New("workout session without groups")
		}
		if len(s.Activities) > 0 {
			return errors.New("workout session must not have activities")
		}
	case SessionTypeExtra:
		if len(s.Activities) == 0 {
			return errors.New("extra session without activities")
		}
		if len(s.Groups) > 0 {
			return errors.New("extra session must not have groups")
		}
	default:
		return fmt.Errorf("unknown session type %q", s.Type)
	}

	for _, g := range s.Groups {
		for _, ex := range g.Exercises {
			if ex.Sets < 1 {
				return fmt.Errorf("exercise %q: sets must be at least 1", ex.Name)
			}
			if ex.Rest < 0 {
				return fmt.Errorf("exercise %q: negative rest", ex.Name)
			}
			if ex.IsTimed && ex.Duration <= 0 {
				return fmt.Errorf("exercise %q: timed exercise needs a positive duration", ex.Name)
			}
		}
	}
	return nil
}
