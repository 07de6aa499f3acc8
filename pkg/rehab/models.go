package rehab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults applied to exercise specs that leave the field out.
const (
	defaultSets     = 1
	defaultReps     = 10
	defaultTimerSec = 0
)

// MaxPain is the top of the pain scale; the bottom is 0.
const MaxPain = 10

// maxStoredPain bounds ratings read from stored or imported JSON. Larger magnitudes are
// treated as garbage and decode as unset.
const maxStoredPain = 1_000_000

// Template is the user-editable regimen: an ordered list of phases.
type Template struct {
	Meta   Meta    `json:"meta"`
	Phases []Phase `json:"phases"`
}

// Meta describes a template. It is informational only.
type Meta struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	Warning string `json:"warning,omitempty"`
}

// Phase is a named stage of the regimen with its own exercise list.
type Phase struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Goals     []string       `json:"goals"`
	Exercises []ExerciseSpec `json:"exercises"`
}

// ExerciseSpec is the template-level definition of an exercise. ID is the key that
// joins the definition to logged values across template edits.
type ExerciseSpec struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Target   string `json:"target,omitempty"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	TimerSec int    `json:"timerSec"`
}

// UnmarshalJSON fills sets, reps and timer with the defaults when the JSON omits them.
func (s *ExerciseSpec) UnmarshalJSON(data []byte) error {
	type plain ExerciseSpec

	p := plain{Sets: defaultSets, Reps: defaultReps, TimerSec: defaultTimerSec}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*s = ExerciseSpec(p)

	return nil
}

// DefaultEntry returns a not-done entry carrying the spec's defaults.
func (s ExerciseSpec) DefaultEntry() ExerciseEntry {
	return ExerciseEntry{
		Done:     false,
		Sets:     s.Sets,
		Reps:     s.Reps,
		TimerSec: s.TimerSec,
	}
}

// Swelling is the reported swelling severity of a day.
type Swelling string

// These constants are the supported swelling severities.
const (
	SwellingNone     Swelling = "none"
	SwellingMild     Swelling = "mild"
	SwellingModerate Swelling = "moderate"
	SwellingSevere   Swelling = "severe"
)

// Swellings lists the severities in ascending order.
func Swellings() []Swelling {
	return []Swelling{SwellingNone, SwellingMild, SwellingModerate, SwellingSevere}
}

// Valid reports whether s is one of the known severities.
func (s Swelling) Valid() bool {
	for _, known := range Swellings() {
		if s == known {
			return true
		}
	}

	return false
}

// Pain is a 0-10 rating that may be unset. The zero value is unset, which is distinct
// from a rating of 0.
type Pain struct {
	value int
	set   bool
}

// PainOf returns a set rating. It is not range checked; Commit does that.
func PainOf(v int) Pain {
	return Pain{value: v, set: true}
}

// ParsePain converts form input into a Pain. Blank input is unset.
func ParsePain(text string) (Pain, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pain{}, nil
	}

	v, err := strconv.Atoi(text)
	if err != nil {
		return Pain{}, &ValidationError{Subject: "pain", Err: fmt.Errorf("%q is not a whole number", text)}
	}

	return PainOf(v), nil
}

// Value returns the rating and whether it is set.
func (p Pain) Value() (int, bool) {
	return p.value, p.set
}

// IsSet reports whether a rating was recorded.
func (p Pain) IsSet() bool {
	return p.set
}

func (p Pain) String() string {
	if !p.set {
		return "–"
	}

	return strconv.Itoa(p.value)
}

// MarshalJSON writes unset as "" and a set rating as a number.
func (p Pain) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte(`""`), nil
	}

	return []byte(strconv.Itoa(p.value)), nil
}

// UnmarshalJSON accepts a number, a numeric string, "" or null. Anything that is not a
// whole number, or is implausibly large, decodes as unset.
func (p *Pain) UnmarshalJSON(data []byte) error {
	*p = Pain{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		if parsed, err := ParsePain(s); err == nil && inStoredRange(float64(parsed.value)) {
			*p = parsed
		}

		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	if f == math.Trunc(f) && inStoredRange(f) {
		*p = PainOf(int(f))
	}

	return nil
}

func inStoredRange(f float64) bool {
	return math.Abs(f) <= maxStoredPain
}

// ExerciseEntry holds one day's recorded values for one exercise.
type ExerciseEntry struct {
	Done     bool `json:"done"`
	Sets     int  `json:"sets"`
	Reps     int  `json:"reps"`
	TimerSec int  `json:"timerSec"`
}

// DailyLog is one calendar day's complete record, keyed by Date (YYYY-MM-DD).
type DailyLog struct {
	Date      string                   `json:"date"`
	PhaseID   string                   `json:"phaseId"`
	Pain      Pain                     `json:"pain"`
	Swelling  Swelling                 `json:"swelling"`
	Notes     string                   `json:"notes"`
	Exercises map[string]ExerciseEntry `json:"exercises"`
}

// Clone returns a copy that shares no mutable state with l.
func (l DailyLog) Clone() DailyLog {
	clone := l

	clone.Exercises = make(map[string]ExerciseEntry, len(l.Exercises))
	for id, entry := range l.Exercises {
		clone.Exercises[id] = entry
	}

	return clone
}

// DoneCount returns how many entries are marked done and the total number of entries.
func (l DailyLog) DoneCount() (int, int) {
	done := 0

	for _, entry := range l.Exercises {
		if entry.Done {
			done++
		}
	}

	return done, len(l.Exercises)
}

// Collection maps date keys to logs. Iteration order carries no meaning.
type Collection map[string]DailyLog

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	clone := make(Collection, len(c))
	for date, log := range c {
		clone[date] = log.Clone()
	}

	return clone
}

// State is the persisted tracker state: the log collection plus the selected
// procedure and phase.
type State struct {
	Procedure string     `json:"procedure"`
	PhaseID   string     `json:"phaseId"`
	Logs      Collection `json:"logs"`
}

// DefaultState is the state of a fresh install.
func DefaultState() State {
	return State{
		Procedure: ProcedureGeneral,
		PhaseID:   "p1",
		Logs:      Collection{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	clone := s
	clone.Logs = s.Logs.Clone()

	return clone
}
