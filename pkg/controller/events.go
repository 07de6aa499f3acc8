package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
)

func (c *Controller) initEvents() {
	c.events = map[tcell.Key]KeyEvent{}
	c.formEvents = map[tcell.Key]KeyEvent{}

	c.events[KeyT] = KeyEvent{
		Description: "Show Today",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.openToday()

			return nil
		},
	}

	c.events[KeyH] = KeyEvent{
		Description: "Show History",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showHistory()

			return nil
		},
	}

	c.formEvents[tcell.KeyEscape] = KeyEvent{
		Description: "Show History",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showHistory()

			return nil
		},
	}

	c.formEvents[tcell.KeyCtrlS] = KeyEvent{
		Description: "Save",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.save()

			return nil
		},
	}

	procedure := KeyEvent{
		Description: "Change Procedure",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showProcedure()

			return nil
		},
	}
	c.events[KeyP] = procedure
	c.formEvents[tcell.KeyCtrlP] = procedure

	load := KeyEvent{
		Description: "Load Template",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showTemplateLoader()

			return nil
		},
	}
	c.events[KeyL] = load
	c.formEvents[tcell.KeyCtrlL] = load

	c.initExitEvent(c.events, KeyQ)
	c.initExitEvent(c.formEvents, tcell.KeyCtrlQ)
}

func (c *Controller) getExitAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		log.Info().Msg("terminating application")

		c.app.Stop()

		return nil
	}
}

func (c *Controller) initExitEvent(events map[tcell.Key]KeyEvent, key tcell.Key) {
	events[key] = KeyEvent{
		Description: "Exit",
		Action:      c.getExitAction(),
	}
}
