package catalogue

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Len(t, c.Sessions, 4)

	s1, err := c.ByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Sessione 1", s1.Label)
	assert.Equal(t, SessionTypeWorkout, s1.Type)
	assert.Equal(t, 27, s1.TotalSets())
	assert.False(t, s1.IsExtra())

	s2, err := c.ByID(2)
	require.NoError(t, err)
	assert.Equal(t, 19, s2.TotalSets())

	extra, err := c.ByID(4)
	require.NoError(t, err)
	assert.True(t, extra.IsExtra())
	assert.Equal(t, 0, extra.TotalSets())
	require.Len(t, extra.Activities, 2)
	assert.Equal(t, "Gravel Bike", extra.Activities[0].Name)

	// every call returns an independent copy
	c.Sessions[0].Label = "changed"
	assert.Equal(t, "Sessione 1", Default().Sessions[0].Label)
}

func TestCatalogue_Lookups(t *testing.T) {
	c := Default()
	assert.Equal(t, 2, c.Index(3))
	assert.Equal(t, -1, c.Index(99))

	_, err := c.ByID(99)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCatalogue_Validate(t *testing.T) {
	workout := func() Session {
		return Session{
			ID:   1,
			Type: SessionTypeWorkout,
			Groups: []Group{{Name: "g", Exercises: []Exercise{
				{Name: "ex", Sets: 3, Reps: "10", Rest: 60},
			}}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Catalogue)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Catalogue) {},
		},
		{
			name:    "no sessions",
			mutate:  func(c *Catalogue) { c.Sessions = nil },
			wantErr: "no sessions",
		},
		{
			name:    "non positive id",
			mutate:  func(c *Catalogue) { c.Sessions[0].ID = 0 },
			wantErr: "id must be positive",
		},
		{
			name:    "duplicate id",
			mutate:  func(c *Catalogue) { c.Sessions = append(c.Sessions, workout()) },
			wantErr: "duplicate id 1",
		},
		{
			name: "workout with activities",
			mutate: func(c *Catalogue) {
				c.Sessions[0].Activities = []Activity{{Name: "a"}}
			},
			wantErr: "must not have activities",
		},
		{
			name: "extra without activities",
			mutate: func(c *Catalogue) {
				c.Sessions[0].Type = SessionTypeExtra
			},
			wantErr: "extra session without activities",
		},
		{
			name:    "unknown type",
			mutate:  func(c *Catalogue) { c.Sessions[0].Type = "yoga" },
			wantErr: "unknown session type",
		},
		{
			name:    "zero sets",
			mutate:  func(c *Catalogue) { c.Sessions[0].Groups[0].Exercises[0].Sets = 0 },
			wantErr: "sets must be at least 1",
		},
		{
			name:    "negative rest",
			mutate:  func(c *Catalogue) { c.Sessions[0].Groups[0].Exercises[0].Rest = -1 },
			wantErr: "negative rest",
		},
		{
			name:    "timed without duration",
			mutate:  func(c *Catalogue) { c.Sessions[0].Groups[0].Exercises[0].IsTimed = true },
			wantErr: "positive duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Catalogue{Sessions: []Session{workout()}}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	for _, name := range []string{"catalogue.toml", "catalogue.yaml"} {
		t.Run(name, func(t *testing.T) {
			c, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)
			require.Len(t, c.Sessions, 2)

			upper := c.Sessions[0]
			assert.Equal(t, 10, upper.ID)
			assert.Equal(t, "Push · Pull", upper.Subtitle)
			assert.Equal(t, 6, upper.TotalSets())
			require.Len(t, upper.Groups[0].Exercises, 2)
			assert.Equal(t, "10", upper.Groups[0].Exercises[0].Reps)
			plank := upper.Groups[0].Exercises[1]
			assert.True(t, plank.IsTimed)
			assert.Equal(t, 45, plank.Duration)

			outdoor, err := c.ByID(11)
			require.NoError(t, err)
			assert.True(t, outdoor.IsExtra())
			assert.Equal(t, "Run", outdoor.Activities[0].Name)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join("testdata", "invalid.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid catalogue")

	// yaml rejects unknown keys instead of ignoring them
	_, err = LoadFile(filepath.Join("testdata", "unknown_field.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grups")
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Sessions, 4)

	c, err = Load(filepath.Join("testdata", "catalogue.toml"))
	require.NoError(t, err)
	assert.Len(t, c.Sessions, 2)
}
