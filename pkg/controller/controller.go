package controller

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
	"github.com/vvheritagevv/Knee-Rehab/pkg/tracker"
)

const (
	pageToday     = "today"
	pageHistory   = "history"
	pageProcedure = "procedure"
	pageTemplate  = "template"
)

// Controller mediates between the tracker and the view.
type Controller struct {
	ctx     context.Context
	tracker *tracker.Tracker
	app     *tview.Application
	pages   *tview.Pages

	headers      map[string]*tview.Table
	todayForm    *tview.Form
	statusLine   *tview.TextView
	historyTable *tview.Table
	history      *HistoryContent

	procedureModal *tview.Modal
	templateForm   *tview.Form
	templatePath   string

	// returnTo reopens the page an overlay was opened from.
	returnTo func()

	// draft is the day being edited; it only reaches the tracker through save.
	draft      rehab.DailyLog
	painText   string
	building   bool
	events     map[tcell.Key]KeyEvent
	formEvents map[tcell.Key]KeyEvent
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func(*tcell.EventKey) *tcell.EventKey
}

// NewController creates a new Controller to run the app.
func NewController(ctx context.Context, tr *tracker.Tracker) (*Controller, error) {
	c := Controller{
		ctx:     ctx,
		tracker: tr,
		app:     tview.NewApplication(),
		pages:   tview.NewPages(),
		headers: map[string]*tview.Table{},
	}

	initKeys()
	c.initEvents()

	c.pages.AddPage(pageToday, c.getTodayGrid(), true, false)
	c.pages.AddPage(pageHistory, c.getHistoryGrid(), true, false)
	c.pages.AddPage(pageProcedure, c.getProcedureModal(), false, false)
	c.pages.AddPage(pageTemplate, c.getTemplateForm(), true, false)

	c.app.SetRoot(c.pages, true)

	return &c, nil
}

// Go starts the app on today's entry and blocks until the user exits.
func (c *Controller) Go() error {
	c.loadDraft(c.tracker.Draft(c.tracker.Today()))
	c.setStatus(c.draftStatus(), false)
	c.showToday()

	return c.app.Run()
}

func (c *Controller) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if k, ok := c.events[AsKey(evt)]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) formKeyboard(evt *tcell.EventKey) *tcell.EventKey {
	if k, ok := c.formEvents[evt.Key()]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) showToday() {
	c.returnTo = c.showToday
	c.refreshHeaders()
	c.app.SetInputCapture(c.formKeyboard)
	c.pages.SwitchToPage(pageToday)
	c.app.SetFocus(c.todayForm)
}

func (c *Controller) showHistory() {
	c.returnTo = c.showHistory
	c.refreshHeaders()
	c.refreshHistory()
	c.app.SetInputCapture(c.keyboard)
	c.pages.SwitchToPage(pageHistory)
	c.app.SetFocus(c.historyTable)
}

// refreshHeaders rewrites the stats line at the top of every page.
func (c *Controller) refreshHeaders() {
	stats := c.tracker.Stats()
	template := c.tracker.Template()

	summary := fmt.Sprintf(
		"[yellow]Days logged:[white] %d   [yellow]This week:[white] %d   [yellow]Avg pain (14d):[white] %s   [green]%s",
		stats.DaysLogged, stats.ThisWeek, stats.AvgPain, rehab.StreakLabel(stats.Streak),
	)

	for name, table := range c.headers {
		table.SetCell(0, 0, tview.NewTableCell(summary).SetExpansion(1))
		table.SetCell(1, 0, tview.NewTableCell(fmt.Sprintf("[grey]%s • %s", template.DisplayName(), name)))
	}
}

func (c *Controller) setStatus(msg string, isErr bool) {
	color := "green"
	if isErr {
		color = "red"
	}

	c.statusLine.SetText(fmt.Sprintf("[%s]%s", color, tview.Escape(msg)))
}
