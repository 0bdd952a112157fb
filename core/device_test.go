package core

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dotrunner/core/joypad"
)

func blankROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], "TESTROM")
	return rom
}

func TestLoadFileTransitionsToRunning(t *testing.T) {
	d := NewDevice()
	require.NoError(t, d.LoadFile(blankROM()))
	require.Equal(t, Running, d.state)
	require.NotNil(t, d.Bus)
}

func TestLoadFileInvalidROMStaysStopped(t *testing.T) {
	d := NewDevice()
	err := d.LoadFile(make([]byte, 4))
	require.Error(t, err)
	require.Equal(t, Stopped, d.state)
}

func TestRunExitsOnEvent(t *testing.T) {
	d := NewDevice()
	require.NoError(t, d.LoadFile(blankROM()))

	events := make(chan Event, 1)
	frames := make(chan []uint32, 1)
	events <- Event{Kind: EventExit}

	done := make(chan struct{})
	go func() {
		d.Run(events, frames)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit on EventExit")
	}
}

func TestHandleEventPauseAndResume(t *testing.T) {
	d := NewDevice()
	require.NoError(t, d.LoadFile(blankROM()))

	d.handleEvent(Event{Kind: EventPause}, nil)
	require.Equal(t, Paused, d.state)

	d.handleEvent(Event{Kind: EventRun}, nil)
	require.Equal(t, Running, d.state)
}

func TestHandleEventKeyPressReachesJoypad(t *testing.T) {
	d := NewDevice()
	require.NoError(t, d.LoadFile(blankROM()))

	d.handleEvent(Event{Kind: EventKeyDown, Keys: []joypad.Key{joypad.A}}, nil)
	d.Joypad.WriteSelect(0xDF) // select action row
	require.Equal(t, byte(0xDE), d.Joypad.Read())
}

func TestSaveStateThenLoadStateRestoresCPU(t *testing.T) {
	d := NewDevice()
	require.NoError(t, d.LoadFile(blankROM()))
	d.CPU.PC = 0x1234
	d.CPU.SP = 0xABCD

	path := filepath.Join(t.TempDir(), "slot1.sav")
	require.NoError(t, d.saveState(path))

	d.CPU.PC = 0x0000
	require.NoError(t, d.loadState(path))
	require.Equal(t, uint16(0x1234), d.CPU.PC)
	require.Equal(t, uint16(0xABCD), d.CPU.SP)
}

func TestSaveStateWithNoCartridgeFails(t *testing.T) {
	d := NewDevice()
	err := d.saveState(filepath.Join(t.TempDir(), "slot1.sav"))
	require.Error(t, err)
}
