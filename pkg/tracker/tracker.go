package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
)

// Tracker owns the active template and the persisted state. Every change to persisted
// data goes through one of its methods and is written through to the store before it
// becomes visible.
type Tracker struct {
	mu        sync.Mutex
	store     Store
	now       func() time.Time
	procedure string
	state     rehab.State
	template  rehab.Template
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithProcedure sets the template family used when nothing has been stored yet.
func WithProcedure(procedure string) Option {
	return func(t *Tracker) {
		if knownProcedure(procedure) {
			t.procedure = procedure
		}
	}
}

// New loads the tracker from the store. Missing or corrupt data falls back to the
// defaults; only store failures are returned.
func New(ctx context.Context, store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:     store,
		now:       time.Now,
		procedure: rehab.ProcedureGeneral,
	}

	for _, opt := range opts {
		opt(t)
	}

	state, err := t.loadState(ctx)
	if err != nil {
		return nil, err
	}

	template, err := t.loadTemplate(ctx, state.Procedure)
	if err != nil {
		return nil, err
	}

	t.state = withValidPhase(state, template)
	t.template = template

	log.Info().
		Int("logs", len(t.state.Logs)).
		Str("template", t.template.DisplayName()).
		Str("phase", t.state.PhaseID).
		Msg("tracker loaded")

	return t, nil
}

func (t *Tracker) loadState(ctx context.Context) (rehab.State, error) {
	raw, ok, err := t.store.Get(ctx, StateKey)
	if err != nil {
		return rehab.State{}, fmt.Errorf("error loading state: %w", err)
	}

	if !ok {
		return t.defaultState(), nil
	}

	state, err := decodeState([]byte(raw))
	if err != nil {
		log.Warn().Err(err).Msg("stored state is unreadable, starting from defaults")

		return t.defaultState(), nil
	}

	return state, nil
}

func (t *Tracker) defaultState() rehab.State {
	state := rehab.DefaultState()
	state.Procedure = t.procedure

	return state
}

func (t *Tracker) loadTemplate(ctx context.Context, procedure string) (rehab.Template, error) {
	raw, ok, err := t.store.Get(ctx, TemplateKey)
	if err != nil {
		return rehab.Template{}, fmt.Errorf("error loading template: %w", err)
	}

	if !ok {
		return rehab.DefaultTemplate(procedure), nil
	}

	template, err := rehab.ParseTemplate([]byte(raw))
	if err != nil {
		log.Warn().Err(err).Msg("stored template is unusable, using the default template")

		return rehab.DefaultTemplate(procedure), nil
	}

	return template, nil
}

// decodeState decodes over the defaults so that missing fields keep their default value.
func decodeState(raw []byte) (rehab.State, error) {
	state := rehab.DefaultState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return rehab.State{}, &rehab.ParseError{Source: "state", Err: err}
	}

	if state.Logs == nil {
		state.Logs = rehab.Collection{}
	}

	if state.Procedure == "" {
		state.Procedure = rehab.ProcedureGeneral
	}

	return state, nil
}

// withValidPhase points the state at the template's first phase when its phase is gone.
func withValidPhase(state rehab.State, template rehab.Template) rehab.State {
	if _, err := template.LookupPhase(state.PhaseID); err != nil && len(template.Phases) > 0 {
		log.Debug().Err(err).Str("fallback", template.Phases[0].ID).Msg("active phase reset")
		state.PhaseID = template.Phases[0].ID
	}

	return state
}

// Today is the date key of the clock's current local day.
func (t *Tracker) Today() string {
	return rehab.DateKey(t.now())
}

// Template returns a copy of the active template.
func (t *Tracker) Template() rehab.Template {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.template.Clone()
}

// State returns a copy of the persisted state.
func (t *Tracker) State() rehab.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state.Clone()
}

// ActivePhase is the selected phase of the active template.
func (t *Tracker) ActivePhase() rehab.Phase {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.template.ResolvePhase(t.state.PhaseID)
}

// SelectPhase makes phaseID the active phase. An unknown id selects the first phase.
func (t *Tracker) SelectPhase(ctx context.Context, phaseID string) (rehab.Phase, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.selectPhase(ctx, phaseID)
}

func (t *Tracker) selectPhase(ctx context.Context, phaseID string) (rehab.Phase, error) {
	phase, err := t.template.LookupPhase(phaseID)
	if err != nil {
		phase = t.template.ResolvePhase(phaseID)
		log.Warn().Err(err).Str("fallback", phase.ID).Msg("selecting first phase instead")
	}

	if phase.ID == t.state.PhaseID {
		return phase, nil
	}

	next := t.state
	next.PhaseID = phase.ID

	if err := t.saveState(ctx, next); err != nil {
		return rehab.Phase{}, err
	}

	t.state = next

	return phase, nil
}

// Draft returns a detached, reconciled log for date using the active phase. Edits to
// the draft are not persisted until it is passed to Commit.
func (t *Tracker) Draft(date string) rehab.DailyLog {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.draft(date)
}

func (t *Tracker) draft(date string) rehab.DailyLog {
	var existing *rehab.DailyLog
	if saved, ok := t.state.Logs[date]; ok {
		existing = &saved
	}

	return rehab.MaterializeLog(t.template, t.state.PhaseID, date, existing)
}

// OpenDay activates the phase a saved day was logged under, then drafts that day.
func (t *Tracker) OpenDay(ctx context.Context, date string) (rehab.DailyLog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if saved, ok := t.state.Logs[date]; ok {
		if _, err := t.selectPhase(ctx, saved.PhaseID); err != nil {
			return rehab.DailyLog{}, err
		}
	}

	return t.draft(date), nil
}

// Commit validates the draft and writes it through to the store. When validation or the
// write fails the previously committed state is kept.
func (t *Tracker) Commit(ctx context.Context, draft rehab.DailyLog) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	logs, err := rehab.Commit(t.state.Logs, draft)
	if err != nil {
		return err
	}

	next := t.state
	next.Logs = logs

	if err := t.saveState(ctx, next); err != nil {
		return err
	}

	t.state = next

	log.Info().Str("date", draft.Date).Str("phase", draft.PhaseID).Msg("saved daily log")

	return nil
}

// Stats computes the summary statistics as of the clock's today.
func (t *Tracker) Stats() rehab.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return rehab.ComputeStats(t.state.Logs, t.now())
}

// History summarises the saved days, newest first.
func (t *Tracker) History() []rehab.HistoryRow {
	t.mu.Lock()
	defer t.mu.Unlock()

	return rehab.HistoryRows(t.template, t.state.Logs)
}

// ReplaceTemplate validates a user-edited template and makes it the active template.
// Saved logs are untouched.
func (t *Tracker) ReplaceTemplate(ctx context.Context, raw []byte) error {
	template, err := rehab.ParseTemplate(raw)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.apply(ctx, t.state, template)
}

// ResetTemplate replaces the template with the built-in one for procedure and records
// the procedure.
func (t *Tracker) ResetTemplate(ctx context.Context, procedure string) error {
	if !knownProcedure(procedure) {
		return &rehab.ValidationError{Subject: "procedure", Err: fmt.Errorf("unknown procedure %q", procedure)}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state
	next.Procedure = procedure

	return t.apply(ctx, next, rehab.DefaultTemplate(procedure))
}

func knownProcedure(procedure string) bool {
	for _, p := range rehab.Procedures() {
		if p == procedure {
			return true
		}
	}

	return false
}

// apply persists state and template together and then swaps them in.
func (t *Tracker) apply(ctx context.Context, state rehab.State, template rehab.Template) error {
	state = withValidPhase(state, template)

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error encoding state: %w", err)
	}

	templateJSON, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("error encoding template: %w", err)
	}

	err = t.store.SetMany(ctx, map[string]string{
		StateKey:    string(stateJSON),
		TemplateKey: string(templateJSON),
	})
	if err != nil {
		return fmt.Errorf("error saving template: %w", err)
	}

	t.state = state
	t.template = template

	log.Info().Str("template", template.DisplayName()).Int("phases", len(template.Phases)).Msg("template replaced")

	return nil
}

func (t *Tracker) saveState(ctx context.Context, state rehab.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error encoding state: %w", err)
	}

	if err := t.store.Set(ctx, StateKey, string(data)); err != nil {
		return fmt.Errorf("error saving state: %w", err)
	}

	return nil
}
