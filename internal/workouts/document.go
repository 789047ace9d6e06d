package workouts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDocument = errors.New("invalid import document")

// ImportDocument is the outcome of parsing an import file:
// either a ValidDocument or an InvalidDocument.
type ImportDocument interface {
	importDocument()
}

type ValidDocument struct {
	Workouts []Workout
}

type InvalidDocument struct {
	Reason string
}

func (ValidDocument) importDocument()   {}
func (InvalidDocument) importDocument() {}

func (d InvalidDocument) Err() error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, d.Reason)
}

// ExportDocument is the shape written by an export, and one of the two
// shapes accepted by an import.
type ExportDocument struct {
	ExportDate time.Time `json:"exportDate"`
	Workouts   []Workout `json:"workouts"`
}

// ParseImportDocument accepts either a bare array of workouts or an object
// holding a "workouts" array. Every entry must be an object with an id and
// a parseable date.
func ParseImportDocument(data []byte) ImportDocument {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return InvalidDocument{Reason: "empty document"}
	}

	var entries []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return InvalidDocument{Reason: fmt.Sprintf("malformed json: %s", err)}
		}
	case '{':
		var wrapper struct {
			Workouts *[]json.RawMessage `json:"workouts"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return InvalidDocument{Reason: fmt.Sprintf("malformed json: %s", err)}
		}
		if wrapper.Workouts == nil {
			return InvalidDocument{Reason: "missing workouts array"}
		}
		entries = *wrapper.Workouts
	default:
		return InvalidDocument{Reason: "document is neither an array nor an object"}
	}

	parsed := make([]Workout, 0, len(entries))
	for i, raw := range entries {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return InvalidDocument{Reason: fmt.Sprintf("entry %d is not an object", i)}
		}

		var w Workout
		if err := json.Unmarshal(raw, &w); err != nil {
			return InvalidDocument{Reason: fmt.Sprintf("entry %d: %s", i, err)}
		}
		if w.ID == "" {
			return InvalidDocument{Reason: fmt.Sprintf("entry %d has no id", i)}
		}
		if w.Date.IsZero() {
			return InvalidDocument{Reason: fmt.Sprintf("entry %d has no date", i)}
		}
		w.normalize()
		parsed = append(parsed, w)
	}

	return ValidDocument{Workouts: parsed}
}

func (d ExportDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ExportDate string    `json:"exportDate"`
		Workouts   []Workout `json:"workouts"`
	}{
		ExportDate: d.ExportDate.UTC().Format(DateLayout),
		Workouts:   d.Workouts,
	})
}

// ExportFileName names the backup file for the given day.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("workout_backup_%s.json", now.Format(time.DateOnly))
}

// MarshalExport renders an export document the way it is offered for download.
func MarshalExport(doc ExportDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
