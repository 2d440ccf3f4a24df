package play

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/event"
	"github.com/lixenwraith/ripple/vmath"
)

func TestViewportRoundTrip(t *testing.T) {
	vp := Viewport{Width: 80, Height: 24, Center: vmath.V(10, -20)}

	for _, cell := range [][2]int{{0, 0}, {40, 12}, {79, 23}, {13, 7}} {
		x, y := vp.ToScreen(vp.ToWorld(cell[0], cell[1]))
		assert.Equal(t, cell, [2]int{x, y})
	}
}

func TestViewportOrientation(t *testing.T) {
	vp := Viewport{Width: 80, Height: 24}

	cx, cy := vp.ToScreen(vmath.V(0, 0))
	assert.Equal(t, 40, cx)
	assert.Equal(t, 12, cy)

	// World Y up is screen row up
	_, upY := vp.ToScreen(vmath.V(0, 50))
	assert.Less(t, upY, cy)

	rx, _ := vp.ToScreen(vmath.V(50, 0))
	assert.Greater(t, rx, cx)
}

func TestViewportContains(t *testing.T) {
	vp := Viewport{Width: 10, Height: 5}
	assert.True(t, vp.Contains(0, 0))
	assert.True(t, vp.Contains(9, 4))
	assert.False(t, vp.Contains(10, 0))
	assert.False(t, vp.Contains(0, 5))
	assert.False(t, vp.Contains(-1, 2))
}

func TestFlashesExpire(t *testing.T) {
	now := time.Unix(100, 0)
	fl := newFlashes(200 * time.Millisecond)
	fl.now = func() time.Time { return now }

	note := core.Entity(7)
	fl.HandleEvent(nil, event.GameEvent{
		Type:    event.EventNotePlayed,
		Payload: &event.NotePlayedPayload{Source: 1, Note: note},
	})
	assert.True(t, fl.active(note))
	assert.False(t, fl.active(core.Entity(8)))

	now = now.Add(300 * time.Millisecond)
	assert.False(t, fl.active(note))
}

func TestFlashesClearedOnRoundStart(t *testing.T) {
	fl := newFlashes(time.Hour)
	fl.HandleEvent(nil, event.GameEvent{
		Type:    event.EventNotePlayed,
		Payload: &event.NotePlayedPayload{Source: 1, Note: 3},
	})
	fl.HandleEvent(nil, event.GameEvent{Type: event.EventRoundStarted, Payload: &event.RoundPayload{}})
	assert.False(t, fl.active(3))
}
