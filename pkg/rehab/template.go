package rehab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// These constants are the procedures that have a built-in template.
const (
	ProcedureGeneral  = "general"
	ProcedureACL      = "acl"
	ProcedureMeniscus = "meniscus"
	ProcedureTKA      = "tka"
)

// Procedures lists the built-in procedure ids in display order.
func Procedures() []string {
	return []string{ProcedureGeneral, ProcedureACL, ProcedureMeniscus, ProcedureTKA}
}

// LookupPhase returns the phase with the given id.
func (t Template) LookupPhase(phaseID string) (Phase, error) {
	for _, phase := range t.Phases {
		if phase.ID == phaseID {
			return phase, nil
		}
	}

	return Phase{}, fmt.Errorf("%w: %q", ErrPhaseNotFound, phaseID)
}

// ResolvePhase returns the phase with the given id, or the first phase when the id is
// unknown. An empty template resolves to the zero Phase.
func (t Template) ResolvePhase(phaseID string) Phase {
	if phase, err := t.LookupPhase(phaseID); err == nil {
		return phase
	}

	if len(t.Phases) == 0 {
		return Phase{}
	}

	return t.Phases[0]
}

// DisplayName is the meta name, or "Custom" when the template has none.
func (t Template) DisplayName() string {
	if t.Meta.Name == "" {
		return "Custom"
	}

	return t.Meta.Name
}

// Clone returns a deep copy of t.
func (t Template) Clone() Template {
	clone := Template{Meta: t.Meta}
	if t.Phases == nil {
		return clone
	}

	clone.Phases = make([]Phase, len(t.Phases))
	for i, phase := range t.Phases {
		p := Phase{ID: phase.ID, Name: phase.Name}
		if phase.Goals != nil {
			p.Goals = append([]string{}, phase.Goals...)
		}

		if phase.Exercises != nil {
			p.Exercises = append([]ExerciseSpec{}, phase.Exercises...)
		}

		clone.Phases[i] = p
	}

	return clone
}

// Validate checks the structure of a template. The error names the first offending
// phase and lists every problem found in it.
func (t Template) Validate() error {
	if len(t.Phases) == 0 {
		return &ValidationError{Subject: "template", Err: errors.New("missing phases")}
	}

	seen := map[string]bool{}

	for i, phase := range t.Phases {
		err := phase.validate()

		if phase.ID != "" && seen[phase.ID] {
			err = multierr.Append(err, errors.New("duplicate phase id"))
		}

		seen[phase.ID] = true

		if err != nil {
			return &ValidationError{Subject: phaseLabel(i, phase), Err: err}
		}
	}

	return nil
}

func (p Phase) validate() error {
	var err error

	if p.ID == "" {
		err = multierr.Append(err, errors.New("missing id"))
	}

	if p.Name == "" {
		err = multierr.Append(err, errors.New("missing name"))
	}

	if p.Exercises == nil {
		err = multierr.Append(err, errors.New("missing exercises"))
	}

	ids := map[string]bool{}

	for j, ex := range p.Exercises {
		switch {
		case ex.ID == "":
			err = multierr.Append(err, fmt.Errorf("exercise %d: missing id", j+1))
		case ids[ex.ID]:
			err = multierr.Append(err, fmt.Errorf("exercise %q: duplicate id", ex.ID))
		}

		ids[ex.ID] = true

		if ex.Sets < 0 || ex.Reps < 0 || ex.TimerSec < 0 {
			err = multierr.Append(err, fmt.Errorf("exercise %q: sets, reps and timer must not be negative", ex.ID))
		}
	}

	return err
}

func phaseLabel(index int, phase Phase) string {
	if phase.ID == "" {
		return fmt.Sprintf("phase #%d", index+1)
	}

	return fmt.Sprintf("phase %q", phase.ID)
}

// rawTemplate defers decoding of the phases so that a badly shaped phase can be
// reported against that phase.
type rawTemplate struct {
	Meta   Meta            `json:"meta"`
	Phases json.RawMessage `json:"phases"`
}

// ParseTemplate decodes and validates a user-supplied template. Malformed JSON is a
// *ParseError; a phase with fields of the wrong type is a *ValidationError naming it.
func ParseTemplate(raw []byte) (Template, error) {
	var rt rawTemplate
	if err := json.Unmarshal(raw, &rt); err != nil {
		return Template{}, &ParseError{Source: "template", Err: err}
	}

	tpl := Template{Meta: rt.Meta}

	phases, err := decodePhases(rt.Phases)
	if err != nil {
		return Template{}, err
	}

	tpl.Phases = phases

	if err := tpl.Validate(); err != nil {
		return Template{}, err
	}

	return tpl, nil
}

func decodePhases(raw json.RawMessage) ([]Phase, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ValidationError{Subject: "template", Err: errors.New("phases must be a list")}
	}

	phases := make([]Phase, len(items))

	for i, item := range items {
		var phase Phase
		if err := json.Unmarshal(item, &phase); err != nil {
			var named struct {
				ID string `json:"id"`
			}

			_ = json.Unmarshal(item, &named)

			return nil, &ValidationError{
				Subject: phaseLabel(i, Phase{ID: named.ID}),
				Err:     fmt.Errorf("needs id, name and exercises[]: %w", err),
			}
		}

		phases[i] = phase
	}

	return phases, nil
}

// DefaultTemplate returns the built-in template for a procedure. Unknown procedures get
// the general template. The content is a generic starting point, not medical advice.
func DefaultTemplate(procedure string) Template {
	tpl := Template{
		Meta: Meta{
			Name:    "Knee rehab template",
			Version: 1,
			Warning: "Follow your surgeon/PT restrictions. This is a tracking template, not medical advice.",
		},
		Phases: defaultPhases(),
	}

	switch procedure {
	case ProcedureACL:
		tpl.Meta.Name = "ACL (generic) tracking template"
	case ProcedureMeniscus:
		tpl.Meta.Name = "Meniscus (generic) tracking template"
	case ProcedureTKA:
		tpl.Meta.Name = "Total knee replacement (generic) tracking template"
	}

	return tpl
}

func defaultPhases() []Phase {
	return []Phase{
		{
			ID:    "p1",
			Name:  "Phase 1: Early Recovery (Days 1–14)",
			Goals: []string{"Reduce swelling", "Restore motion", "Activate quads/hip"},
			Exercises: []ExerciseSpec{
				{ID: "ankle_pumps", Name: "Ankle pumps", Target: "20–30 reps", Sets: 1, Reps: 25},
				{ID: "quad_sets", Name: "Quad sets", Target: "10–15 reps (5s hold)", Sets: 2, Reps: 12},
				{ID: "heel_slides", Name: "Heel slides", Target: "10–15 reps", Sets: 2, Reps: 12},
				{ID: "slr", Name: "Straight leg raises", Target: "2–3×10 (only if knee stays straight)", Sets: 2, Reps: 10},
				{ID: "knee_extension", Name: "Passive knee extension hold", Target: "2–5 min", Sets: 1, Reps: 1, TimerSec: 180},
			},
		},
		{
			ID:    "p2",
			Name:  "Phase 2: Mobility & Strength (Weeks 2–6)",
			Goals: []string{"Full ROM (as cleared)", "Normalize gait", "Begin strength"},
			Exercises: []ExerciseSpec{
				{ID: "bike_easy", Name: "Stationary bike (easy)", Target: "5–15 min", Sets: 1, Reps: 1, TimerSec: 600},
				{ID: "mini_squat", Name: "Mini squats", Target: "2–3×10–15", Sets: 3, Reps: 12},
				{ID: "step_ups", Name: "Step-ups (low step)", Target: "2–3×10 each leg", Sets: 3, Reps: 10},
				{ID: "hamstring_stretch", Name: "Hamstring stretch", Target: "3×30s", Sets: 3, Reps: 1, TimerSec: 30},
				{ID: "calf_stretch", Name: "Calf stretch", Target: "3×30s", Sets: 3, Reps: 1, TimerSec: 30},
			},
		},
		{
			ID:    "p3",
			Name:  "Phase 3: Strength & Control (Weeks 6–12)",
			Goals: []string{"Balance", "Single-leg control", "Strength endurance"},
			Exercises: []ExerciseSpec{
				{ID: "glute_bridge", Name: "Glute bridges", Target: "3×12–15", Sets: 3, Reps: 12},
				{ID: "wall_sit", Name: "Wall sit", Target: "3×20–45s", Sets: 3, Reps: 1, TimerSec: 30},
				{ID: "single_leg_balance", Name: "Single-leg balance", Target: "3×30–60s", Sets: 3, Reps: 1, TimerSec: 45},
				{ID: "band_side_steps", Name: "Band lateral steps", Target: "2–3×10–15", Sets: 3, Reps: 12},
			},
		},
		{
			ID:    "p4",
			Name:  "Phase 4: Return to Activity (3+ months, after clearance)",
			Goals: []string{"Confidence", "Controlled impact", "Sport/work readiness"},
			Exercises: []ExerciseSpec{
				{ID: "lunges", Name: "Bodyweight lunges", Target: "3×8–12", Sets: 3, Reps: 10},
				{ID: "walk_jog", Name: "Walk/jog intervals", Target: "10–20 min", Sets: 1, Reps: 1, TimerSec: 900},
				{ID: "lateral_shuffle", Name: "Lateral shuffle (control)", Target: "3×20–30s", Sets: 3, Reps: 1, TimerSec: 25},
			},
		},
	}
}
