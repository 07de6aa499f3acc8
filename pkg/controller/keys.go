package controller

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Plain letter keys, numbered past tcell's own keys so they can share one map.
const (
	KeyQ tcell.Key = iota + 1000
	KeyT
	KeyH
	KeyP
	KeyL
)

var (
	runeKeys = map[rune]tcell.Key{
		'q': KeyQ,
		't': KeyT,
		'h': KeyH,
		'p': KeyP,
		'l': KeyL,
	}
	keysOnce sync.Once
)

// initKeys registers display names for the letter keys.
func initKeys() {
	keysOnce.Do(func() {
		for r, key := range runeKeys {
			tcell.KeyNames[key] = string(r)
		}
	})
}

// AsKey maps a rune event to its letter key; every other event keeps its own key.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() == tcell.KeyRune {
		if key, ok := runeKeys[evt.Rune()]; ok {
			return key
		}
	}

	return evt.Key()
}
