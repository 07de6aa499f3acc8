package controller

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
)

func TestHistoryContent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	collection := rehab.Collection{
		"2024-01-07": {Date: "2024-01-07", PhaseID: "p1", Pain: rehab.PainOf(3), Swelling: rehab.SwellingMild},
		"2024-01-06": {Date: "2024-01-06", PhaseID: "p1"},
	}
	content := &HistoryContent{rows: rehab.HistoryRows(rehab.DefaultTemplate(rehab.ProcedureGeneral), collection)}

	assert.Equal(3, content.GetRowCount())
	assert.Equal(6, content.GetColumnCount())

	assert.Equal("date", content.GetCell(0, 0).Text)
	assert.Equal("Sun, Jan 7, 2024", content.GetCell(1, 0).Text)
	assert.Equal("2024-01-07", content.GetCell(1, 0).GetReference())
	assert.Equal("3", content.GetCell(1, 3).Text)
	assert.Equal("–", content.GetCell(2, 3).Text)
	assert.Nil(content.GetCell(3, 0))
	assert.Nil(content.GetCell(1, 6))

	date, ok := content.dateAt(2)
	assert.True(ok)
	assert.Equal("2024-01-06", date)

	_, ok = content.dateAt(0)
	assert.False(ok)
}

func TestAcceptCount(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	accept := acceptCount(2)
	assert.True(accept("", 0))
	assert.True(accept("10", '0'))
	assert.False(accept("100", '0'))
	assert.False(accept("-1", '1'))
	assert.False(accept("1a", 'a'))
}

func TestCountOrZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12, countOrZero("12"))
	assert.Equal(t, 0, countOrZero(""))
	assert.Equal(t, 0, countOrZero("x"))
}

func TestAsKey(t *testing.T) {
	t.Parallel()

	initKeys()

	assert := assert.New(t)

	assert.Equal(KeyQ, AsKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.Equal(tcell.KeyRune, AsKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.Equal(tcell.KeyCtrlS, AsKey(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)))
	assert.Equal("q", tcell.KeyNames[KeyQ])
}
