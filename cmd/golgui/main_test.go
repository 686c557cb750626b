//go:build ebiten

package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/sheikhrachel/go-gol/session"
)

func TestShortcutsAreUniqueAndOrdered(t *testing.T) {
	keys := map[ebiten.Key]bool{}
	actions := map[session.Key]bool{}
	for _, sc := range shortcuts {
		assert.False(t, keys[sc.key], "key %v bound twice", sc.key)
		assert.False(t, actions[sc.action], "action %v bound twice", sc.action)
		keys[sc.key] = true
		actions[sc.action] = true
	}

	// play/pause is dispatched ahead of step so a combined press steps a paused grid
	assert.Equal(t, session.KeyPlayPause, shortcuts[0].action)
	assert.Equal(t, session.KeyStep, shortcuts[1].action)
	assert.Len(t, shortcuts, 9)
}
