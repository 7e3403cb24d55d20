package c64

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIecBusGetIsOrOfContributions covers §3's invariant:
// get(line) == OR over all contributors of their last signal write.
func TestIecBusGetIsOrOfContributions(t *testing.T) {
	bus := NewIecBus()

	assert.False(t, bus.Get(LineClk))

	bus.Set(iecControllerID, LineClk, true)
	assert.True(t, bus.Get(LineClk))

	bus.Set(iecControllerID, LineClk, false)
	assert.False(t, bus.Get(LineClk))

	bus.Set(1, LineClk, true) // a device pulls the line low independently
	assert.True(t, bus.Get(LineClk))

	bus.Set(1, LineClk, false)
	assert.False(t, bus.Get(LineClk))
}

func TestIecBusOwnReflectsOnlyThatContributor(t *testing.T) {
	bus := NewIecBus()
	bus.Set(iecControllerID, LineAtn, true)
	bus.Set(2, LineAtn, false)

	assert.True(t, bus.Own(iecControllerID, LineAtn))
	assert.False(t, bus.Own(2, LineAtn))
	assert.True(t, bus.Get(LineAtn)) // bus-wide OR still sees the controller's assertion
}

func TestDecodeAtnCommandSplitsCommandAndField(t *testing.T) {
	cmd, field := DecodeAtnCommand(0x28) // LISTEN device 8
	assert.Equal(t, byte(AtnListen), cmd)
	assert.Equal(t, byte(0x08), field)

	cmd, field = DecodeAtnCommand(0x5F)
	assert.Equal(t, byte(AtnUntalk), cmd)
	assert.Equal(t, byte(0x1F), field)
}
