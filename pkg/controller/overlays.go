package controller

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
)

const (
	cancelLabel    = "Cancel"
	pathFieldWidth = 60
)

func (c *Controller) getProcedureModal() *tview.Modal {
	buttons := append(rehab.Procedures(), cancelLabel)

	c.procedureModal = tview.NewModal().AddButtons(buttons).SetDoneFunc(func(_ int, label string) {
		// Escape reports an empty label
		if label == "" || label == cancelLabel {
			c.closeOverlay(pageProcedure)

			return
		}

		c.pages.HidePage(pageProcedure)
		c.resetProcedure(label)
	})

	return c.procedureModal
}

func (c *Controller) getTemplateForm() *tview.Form {
	c.templateForm = tview.NewForm()
	c.templateForm.SetBorder(true).SetTitle(" Load template from a JSON file ")

	c.templateForm.AddInputField("File", "", pathFieldWidth, nil, func(text string) {
		c.templatePath = text
	})
	c.templateForm.AddButton("Load", func() {
		c.pages.HidePage(pageTemplate)
		c.loadTemplateFile(c.templatePath)
	})
	c.templateForm.AddButton(cancelLabel, func() {
		c.closeOverlay(pageTemplate)
	})

	return c.templateForm
}

func (c *Controller) showProcedure() {
	template := c.tracker.Template()

	c.procedureModal.SetText(fmt.Sprintf(
		"Current template: %s\n\nReset to the built-in template for a procedure?\nSaved days are kept.",
		template.DisplayName(),
	))

	c.openOverlay(pageProcedure, c.procedureModal)
}

func (c *Controller) showTemplateLoader() {
	c.openOverlay(pageTemplate, c.templateForm)
}

// openOverlay shows page above the current page. Page shortcuts are off while it is
// open so that typing reaches its fields.
func (c *Controller) openOverlay(page string, focus tview.Primitive) {
	c.app.SetInputCapture(c.overlayKeyboard(page))
	c.pages.ShowPage(page)
	c.app.SetFocus(focus)
}

func (c *Controller) overlayKeyboard(page string) func(*tcell.EventKey) *tcell.EventKey {
	return func(evt *tcell.EventKey) *tcell.EventKey {
		if evt.Key() == tcell.KeyEscape {
			c.closeOverlay(page)

			return nil
		}

		return evt
	}
}

func (c *Controller) closeOverlay(page string) {
	c.pages.HidePage(page)

	if c.returnTo == nil {
		c.showToday()

		return
	}

	c.returnTo()
}

// resetProcedure swaps in a built-in template and reopens the day being edited under it.
func (c *Controller) resetProcedure(procedure string) {
	if err := c.tracker.ResetTemplate(c.ctx, procedure); err != nil {
		log.Error().Err(err).Str("procedure", procedure).Msg("error resetting template")
		c.setStatus(err.Error(), true)
		c.showToday()

		return
	}

	c.redraft()
	c.setStatus(fmt.Sprintf("Template reset to %s.", c.tracker.Template().DisplayName()), false)
	c.showToday()
}

// loadTemplateFile replaces the template with the one in path. An unreadable or invalid
// file leaves the current template in place.
func (c *Controller) loadTemplateFile(path string) {
	path = strings.TrimSpace(path)

	raw, err := os.ReadFile(path)
	if err == nil {
		err = c.tracker.ReplaceTemplate(c.ctx, raw)
	}

	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("template not loaded")
		c.setStatus(err.Error(), true)
		c.showToday()

		return
	}

	c.redraft()
	c.setStatus(fmt.Sprintf("Template saved: %s.", c.tracker.Template().DisplayName()), false)
	c.showToday()
}

func (c *Controller) redraft() {
	date := c.draft.Date
	if date == "" {
		date = c.tracker.Today()
	}

	c.loadDraft(c.tracker.Draft(date))
}
