package controller

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvheritagevv/Knee-Rehab/pkg/db"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
	"github.com/vvheritagevv/Knee-Rehab/pkg/tracker"
)

const customTemplate = `{"meta": {"name": "Mine"}, "phases": [
	{"id": "a", "name": "A: start", "exercises": [{"id": "walk", "name": "Walk"}]}
]}`

func getController(t *testing.T) *Controller {
	t.Helper()

	database, err := db.NewDatabase(context.Background(), filepath.Join(t.TempDir(), "controller.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() { database.Close() })

	now := func() time.Time { return time.Date(2024, 1, 7, 9, 0, 0, 0, time.Local) }

	tr, err := tracker.New(context.Background(), database, tracker.WithClock(now))
	require.NoError(t, err)

	c, err := NewController(context.Background(), tr)
	require.NoError(t, err)

	c.loadDraft(tr.Draft(tr.Today()))
	c.showToday()

	return c
}

func TestResetProcedure(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	c := getController(t)
	c.showHistory()

	c.resetProcedure(rehab.ProcedureTKA)

	assert.Equal(rehab.ProcedureTKA, c.tracker.State().Procedure)
	assert.Equal(rehab.DefaultTemplate(rehab.ProcedureTKA), c.tracker.Template())
	assert.Equal("Template reset to Total knee replacement (generic) tracking template.", c.statusLine.GetText(true))
	assert.Equal("2024-01-07", c.draft.Date)

	c.resetProcedure("hip")
	assert.Equal(rehab.ProcedureTKA, c.tracker.State().Procedure)
	assert.Contains(c.statusLine.GetText(true), `unknown procedure "hip"`)
}

func TestLoadTemplateFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	c := getController(t)

	path := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(path, []byte(customTemplate), 0o600))

	c.loadTemplateFile("  " + path + " ")

	assert.Equal("Mine", c.tracker.Template().DisplayName())
	assert.Equal("a", c.tracker.ActivePhase().ID)
	assert.Equal("Template saved: Mine.", c.statusLine.GetText(true))
	assert.Contains(c.draft.Exercises, "walk")
}

func TestLoadTemplateFileRejected(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	c := getController(t)
	before := c.tracker.Template()

	c.loadTemplateFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(before, c.tracker.Template())
	assert.Contains(c.statusLine.GetText(true), "no such file")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"phases": [{"id": "a", "exercises": []}]}`), 0o600))

	c.loadTemplateFile(path)
	assert.Equal(before, c.tracker.Template())
	assert.Equal(`invalid phase "a": missing name`, c.statusLine.GetText(true))
}

func TestCloseOverlayReturnsToOpeningPage(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	c := getController(t)
	c.showHistory()

	c.showProcedure()
	assert.True(c.pages.HasPage(pageProcedure))

	c.closeOverlay(pageProcedure)

	name, _ := c.pages.GetFrontPage()
	assert.Equal(pageHistory, name)
}
