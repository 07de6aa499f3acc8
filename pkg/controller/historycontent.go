package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
)

const notesColumnRatio = 3

var historyColumns = []string{"date", "phase", "progress", "pain", "swelling", "notes"}

// HistoryContent implements tview.TableContent, which tview.Table uses to update data.
type HistoryContent struct {
	tview.TableContentReadOnly
	rows []rehab.HistoryRow
}

// GetCell returns the cell at the given position or nil if no cell.
func (h *HistoryContent) GetCell(row, col int) *tview.TableCell {
	if col < 0 || col >= len(historyColumns) {
		return nil
	}

	if row == 0 {
		return tview.NewTableCell(historyColumns[col]).SetExpansion(1).
			SetTextColor(tcell.ColorYellow).SetSelectable(false)
	}

	if row-1 >= len(h.rows) || row < 0 {
		return nil
	}

	entry := h.rows[row-1]

	switch col {
	case 0:
		return tview.NewTableCell(entry.DisplayDate).SetExpansion(1).SetReference(entry.Date)
	case 1:
		return tview.NewTableCell(entry.PhaseName).SetExpansion(1)
	case 2:
		return tview.NewTableCell(entry.Progress()).SetTextColor(tcell.ColorGreen)
	case 3:
		return tview.NewTableCell(entry.Pain)
	case 4:
		return tview.NewTableCell(entry.Swelling)
	default:
		return tview.NewTableCell(entry.NotesPreview).SetExpansion(notesColumnRatio)
	}
}

// GetRowCount returns the number of rows in the table.
func (h *HistoryContent) GetRowCount() int {
	return len(h.rows) + 1
}

// GetColumnCount returns the number of columns in the table.
func (h *HistoryContent) GetColumnCount() int {
	return len(historyColumns)
}

// dateAt returns the date key shown in a table row.
func (h *HistoryContent) dateAt(row int) (string, bool) {
	if row < 1 || row > len(h.rows) {
		return "", false
	}

	return h.rows[row-1].Date, true
}
