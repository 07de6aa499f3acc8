package controller

import (
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

func (c *Controller) getHistoryGrid() *tview.Grid {
	c.headers[pageHistory] = c.getHeader(c.events)

	c.historyTable = tview.NewTable().SetBorders(false).SetSelectable(true, false).SetFixed(1, 0)
	c.history = &HistoryContent{}
	c.historyTable.SetContent(c.history)
	c.historyTable.SetSelectedFunc(c.openRow)

	grid := tview.NewGrid().SetRows(0, -4).SetBorders(true)

	grid.AddItem(c.headers[pageHistory], 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.historyTable, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func (c *Controller) refreshHistory() {
	c.history = &HistoryContent{rows: c.tracker.History()}
	c.historyTable.SetContent(c.history)

	if len(c.history.rows) > 0 {
		c.historyTable.Select(1, 0)
	}
}

// openRow loads the selected day into the form under the phase it was logged in.
func (c *Controller) openRow(row, _ int) {
	date, ok := c.history.dateAt(row)
	if !ok {
		return
	}

	draft, err := c.tracker.OpenDay(c.ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("error opening day")

		return
	}

	c.loadDraft(draft)
	c.setStatus(c.draftStatus(), false)
	c.showToday()
}
