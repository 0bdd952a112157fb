package timer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverflowReloadsAndInterrupts(t *testing.T) {
	// Scenario 5: modulo=0x10, counter=0xFE, enable=1, prescaler=16.
	// After 2 counter increments (32 ticks) counter overflows once and
	// reloads from modulo with the interrupt flagged.
	tm := New()
	tm.Modulo = 0x10
	tm.Counter = 0xFE
	tm.WriteControl(0x05) // enable | select=1 (16 ticks)

	for i := 0; i < 32; i++ {
		tm.Step()
	}
	require.Equal(t, byte(0x10), tm.Counter)
	require.True(t, tm.DrainInterrupt())
	require.False(t, tm.DrainInterrupt()) // drained, stays clear
}

func TestDividerFreeRunsRegardlessOfEnable(t *testing.T) {
	tm := New()
	tm.Enabled = false
	for i := 0; i < 300; i++ {
		tm.Step()
	}
	require.Equal(t, byte(300%256), tm.Divider)
}

func TestWriteDividerResets(t *testing.T) {
	tm := New()
	for i := 0; i < 10; i++ {
		tm.Step()
	}
	tm.WriteDivider()
	require.Equal(t, byte(0), tm.Divider)
}
