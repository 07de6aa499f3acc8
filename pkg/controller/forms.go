package controller

import (
	"fmt"
	"sort"
	"strconv"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
)

const (
	countFieldWidth = 6
	notesFieldWidth = 60
	maxCountDigits  = 5
)

func (c *Controller) getTodayGrid() *tview.Grid {
	c.headers[pageToday] = c.getHeader(c.formEvents)

	c.todayForm = tview.NewForm()
	c.todayForm.SetBorder(true)

	c.statusLine = tview.NewTextView().SetDynamicColors(true)

	grid := tview.NewGrid().SetRows(0, -4, 1).SetBorders(true)

	grid.AddItem(c.headers[pageToday], 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.todayForm, 1, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.statusLine, 2, 0, 1, 1, 0, 0, false)

	return grid
}

// getHeader returns a header table: two rows reserved for the stats summary followed by
// the keyboard shortcuts of the page, sorted alphabetically.
func (c *Controller) getHeader(events map[tcell.Key]KeyEvent) *tview.Table {
	table := tview.NewTable().SetBorders(false).SetSelectable(false, false)

	shortcuts := []string{}
	for key, event := range events {
		shortcuts = append(shortcuts, fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description))
	}

	sort.Strings(shortcuts)

	for i, text := range shortcuts {
		table.SetCell(2+i/3, i%3, tview.NewTableCell(text).SetExpansion(1))
	}

	return table
}

func (c *Controller) openToday() {
	c.loadDraft(c.tracker.Draft(c.tracker.Today()))
	c.setStatus(c.draftStatus(), false)
	c.showToday()
}

func (c *Controller) draftStatus() string {
	if _, saved := c.tracker.State().Logs[c.draft.Date]; saved {
		return "Loaded saved entry."
	}

	return "New entry (not saved yet)."
}

// loadDraft makes draft the day being edited and rebuilds the form from it.
func (c *Controller) loadDraft(draft rehab.DailyLog) {
	c.draft = draft

	c.painText = ""
	if value, ok := draft.Pain.Value(); ok {
		c.painText = strconv.Itoa(value)
	}

	c.buildForm()
}

func (c *Controller) buildForm() {
	c.building = true
	defer func() { c.building = false }()

	template := c.tracker.Template()
	phase := c.tracker.ActivePhase()

	c.todayForm.Clear(true)
	c.todayForm.SetTitle(fmt.Sprintf(" %s • %s ", rehab.FormatDisplay(c.draft.Date), rehab.ShortPhaseName(phase)))

	phaseNames := make([]string, len(template.Phases))
	phaseIndex := 0

	for i, p := range template.Phases {
		phaseNames[i] = p.Name
		if p.ID == phase.ID {
			phaseIndex = i
		}
	}

	c.todayForm.AddDropDown("Phase", phaseNames, phaseIndex, func(_ string, index int) {
		if c.building || index < 0 || index >= len(template.Phases) || template.Phases[index].ID == phase.ID {
			return
		}

		c.changePhase(template.Phases[index].ID)
	})

	c.todayForm.AddInputField("Pain (0–10)", c.painText, countFieldWidth, acceptCount(2), func(text string) {
		c.painText = text
	})

	swellings := rehab.Swellings()
	swellingNames := make([]string, len(swellings))
	swellingIndex := 0

	for i, s := range swellings {
		swellingNames[i] = string(s)
		if s == c.draft.Swelling {
			swellingIndex = i
		}
	}

	c.todayForm.AddDropDown("Swelling", swellingNames, swellingIndex, func(option string, _ int) {
		if !c.building {
			c.draft.Swelling = rehab.Swelling(option)
		}
	})

	c.todayForm.AddInputField("Notes", c.draft.Notes, notesFieldWidth, nil, func(text string) {
		c.draft.Notes = text
	})

	for _, row := range rehab.ExerciseRows(phase, c.draft) {
		c.addExerciseFields(row)
	}

	c.todayForm.AddButton("Save", c.save)
	c.todayForm.AddButton("Reset", func() {
		c.loadDraft(c.tracker.Draft(c.tracker.Today()))
		c.setStatus("Today reset (not saved).", false)
	})
	c.todayForm.AddButton("History", c.showHistory)
}

func (c *Controller) addExerciseFields(row rehab.ExerciseRow) {
	id := row.Spec.ID

	label := row.Spec.Name
	if row.Spec.Target != "" {
		label = fmt.Sprintf("%s (%s)", label, row.Spec.Target)
	}

	c.todayForm.AddCheckbox(label, row.Entry.Done, func(checked bool) {
		c.updateEntry(id, func(e *rehab.ExerciseEntry) { e.Done = checked })
	})

	c.todayForm.AddInputField("  Sets", strconv.Itoa(row.Entry.Sets), countFieldWidth, acceptCount(maxCountDigits),
		func(text string) {
			c.updateEntry(id, func(e *rehab.ExerciseEntry) { e.Sets = countOrZero(text) })
		})

	c.todayForm.AddInputField("  Reps", strconv.Itoa(row.Entry.Reps), countFieldWidth, acceptCount(maxCountDigits),
		func(text string) {
			c.updateEntry(id, func(e *rehab.ExerciseEntry) { e.Reps = countOrZero(text) })
		})

	c.todayForm.AddInputField("  Timer (sec)", strconv.Itoa(row.Entry.TimerSec), countFieldWidth,
		acceptCount(maxCountDigits), func(text string) {
			c.updateEntry(id, func(e *rehab.ExerciseEntry) { e.TimerSec = countOrZero(text) })
		})
}

func (c *Controller) updateEntry(id string, update func(*rehab.ExerciseEntry)) {
	if c.building {
		return
	}

	entry := c.draft.Exercises[id]
	update(&entry)
	c.draft.Exercises[id] = entry
}

// changePhase selects a phase and redrafts the day being edited under it. Unsaved edits
// are dropped.
func (c *Controller) changePhase(phaseID string) {
	date := c.draft.Date

	// the form cannot be rebuilt from inside one of its own callbacks
	c.app.QueueUpdateDraw(func() {
		if _, err := c.tracker.SelectPhase(c.ctx, phaseID); err != nil {
			log.Error().Err(err).Str("phase", phaseID).Msg("error selecting phase")
			c.setStatus(err.Error(), true)

			return
		}

		c.loadDraft(c.tracker.Draft(date))
		c.setStatus(c.draftStatus(), false)
		c.refreshHeaders()
	})
}

func (c *Controller) save() {
	pain, err := rehab.ParsePain(c.painText)
	if err != nil {
		c.setStatus(err.Error(), true)

		return
	}

	draft := c.draft.Clone()
	draft.Pain = pain
	draft.PhaseID = c.tracker.ActivePhase().ID

	log.Debug().Str("date", draft.Date).Msg("saving daily log")

	if err := c.tracker.Commit(c.ctx, draft); err != nil {
		log.Warn().Err(err).Str("date", draft.Date).Msg("daily log not saved")
		c.setStatus(err.Error(), true)

		return
	}

	c.draft = draft
	c.setStatus(fmt.Sprintf("Saved %s.", rehab.FormatDisplay(draft.Date)), false)
	c.refreshHeaders()
}

// acceptCount lets through up to maxDigits decimal digits.
func acceptCount(maxDigits int) func(string, rune) bool {
	return func(text string, _ rune) bool {
		if len(text) > maxDigits {
			return false
		}

		for _, r := range text {
			if !unicode.IsDigit(r) {
				return false
			}
		}

		return true
	}
}

// countOrZero reads a count field; blank or unreadable input counts as 0.
func countOrZero(text string) int {
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0
	}

	return n
}
