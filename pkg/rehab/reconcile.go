package rehab

import (
	"fmt"
	"sort"
)

// MaterializeLog returns a detached draft of the log for dateKey, ready for editing.
// An existing log is deep copied; otherwise a blank log is built from the resolved
// phase. Either way every exercise of the phase that the draft lacks is added with the
// spec defaults. Entries are never removed, including ones the phase no longer lists.
func MaterializeLog(tpl Template, phaseID, dateKey string, existing *DailyLog) DailyLog {
	phase := tpl.ResolvePhase(phaseID)

	var log DailyLog
	if existing != nil {
		log = existing.Clone()
	} else {
		log = DailyLog{
			Date:      dateKey,
			PhaseID:   phaseID,
			Pain:      Pain{},
			Swelling:  SwellingNone,
			Notes:     "",
			Exercises: make(map[string]ExerciseEntry, len(phase.Exercises)),
		}
	}

	for _, spec := range phase.Exercises {
		if _, ok := log.Exercises[spec.ID]; !ok {
			log.Exercises[spec.ID] = spec.DefaultEntry()
		}
	}

	return log
}

// Commit validates the draft and returns a new collection holding it at draft.Date.
// The given collection is never modified; on error it is the caller's unchanged state.
func Commit(collection Collection, draft DailyLog) (Collection, error) {
	if _, err := ParseDateKey(draft.Date); err != nil {
		return collection, &ValidationError{Subject: "date", Err: err}
	}

	if value, ok := draft.Pain.Value(); ok && (value < 0 || value > MaxPain) {
		return collection, &ValidationError{
			Subject: "pain",
			Err:     fmt.Errorf("must be 0–%d or empty, got %d", MaxPain, value),
		}
	}

	if draft.Swelling == "" {
		draft.Swelling = SwellingNone
	}

	if !draft.Swelling.Valid() {
		return collection, &ValidationError{
			Subject: "swelling",
			Err:     fmt.Errorf("unknown severity %q", draft.Swelling),
		}
	}

	updated := make(Collection, len(collection)+1)
	for date, log := range collection {
		updated[date] = log
	}

	updated[draft.Date] = draft.Clone()

	return updated, nil
}

// SortedDates returns the collection's date keys in ascending order. For well-formed
// keys lexicographic order is chronological order.
func (c Collection) SortedDates() []string {
	dates := make([]string, 0, len(c))
	for date := range c {
		dates = append(dates, date)
	}

	sort.Strings(dates)

	return dates
}
