package rehab

import "fmt"

const notesPreviewRunes = 120

// ExerciseRow joins an exercise definition to the values recorded for it on one day.
type ExerciseRow struct {
	Spec  ExerciseSpec
	Entry ExerciseEntry
}

// ExerciseRows returns one row per exercise of the phase, in template order. Entries
// the phase does not list are left out.
func ExerciseRows(phase Phase, log DailyLog) []ExerciseRow {
	rows := make([]ExerciseRow, 0, len(phase.Exercises))

	for _, spec := range phase.Exercises {
		entry, ok := log.Exercises[spec.ID]
		if !ok {
			entry = spec.DefaultEntry()
		}

		rows = append(rows, ExerciseRow{Spec: spec, Entry: entry})
	}

	return rows
}

// HistoryRow is the summary of one saved day.
type HistoryRow struct {
	Date         string
	DisplayDate  string
	PhaseName    string
	Done         int
	Total        int
	Pain         string
	Swelling     string
	NotesPreview string
}

// Progress renders the done count, e.g. "3/5 done".
func (r HistoryRow) Progress() string {
	return fmt.Sprintf("%d/%d done", r.Done, r.Total)
}

// HistoryRows summarises every log in the collection, newest first.
func HistoryRows(tpl Template, collection Collection) []HistoryRow {
	dates := collection.SortedDates()
	rows := make([]HistoryRow, 0, len(dates))

	for i := len(dates) - 1; i >= 0; i-- {
		log := collection[dates[i]]
		done, total := log.DoneCount()

		swelling := string(log.Swelling)
		if swelling == "" {
			swelling = "–"
		}

		rows = append(rows, HistoryRow{
			Date:         dates[i],
			DisplayDate:  FormatDisplay(dates[i]),
			PhaseName:    tpl.ResolvePhase(log.PhaseID).Name,
			Done:         done,
			Total:        total,
			Pain:         log.Pain.String(),
			Swelling:     swelling,
			NotesPreview: previewNotes(log.Notes),
		})
	}

	return rows
}

func previewNotes(notes string) string {
	runes := []rune(notes)
	if len(runes) <= notesPreviewRunes {
		return notes
	}

	return string(runes[:notesPreviewRunes]) + "…"
}

// StreakLabel renders a streak count for the header.
func StreakLabel(streak int) string {
	switch streak {
	case 0:
		return "Streak: 0"
	case 1:
		return "Streak: 1 day"
	default:
		return fmt.Sprintf("Streak: %d days", streak)
	}
}

// ShortPhaseName is the part of a phase name before the first colon, e.g. "Phase 1".
func ShortPhaseName(phase Phase) string {
	for i, r := range phase.Name {
		if r == ':' {
			return phase.Name[:i]
		}
	}

	return phase.Name
}
