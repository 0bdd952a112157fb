package monitor

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type fakeMachine struct {
	pc       uint16
	sp       uint16
	stepErr  error
	stepped  int
	mem      *fakeReader
}

func (f *fakeMachine) Step() error {
	f.stepped++
	if f.stepErr != nil {
		return f.stepErr
	}
	f.pc++
	return nil
}

func (f *fakeMachine) PC() uint16 { return f.pc }
func (f *fakeMachine) SP() uint16 { return f.sp }
func (f *fakeMachine) Registers() (a, fl, b, c, d, e, h, l byte) { return }
func (f *fakeMachine) Flags() (z, n, h, c bool)                  { return }
func (f *fakeMachine) Bus() reader                               { return f.mem }

func TestStepAdvancesOneInstruction(t *testing.T) {
	m := New(&fakeMachine{mem: &fakeReader{}})
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	mm := updated.(Model)
	require.Equal(t, uint16(1), mm.machine.PC())
}

func TestToggleBreakpointAddsAndRemoves(t *testing.T) {
	m := New(&fakeMachine{mem: &fakeReader{}})
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	mm := updated.(Model)
	require.True(t, mm.breakpoints[0])

	updated2, _ := mm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	mm2 := updated2.(Model)
	require.False(t, mm2.breakpoints[0])
}

func TestContinueStopsAtBreakpoint(t *testing.T) {
	fm := &fakeMachine{mem: &fakeReader{}}
	m := New(fm)
	m.breakpoints[3] = true

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	mm := updated.(Model)
	require.Equal(t, uint16(3), mm.machine.PC())
	require.False(t, mm.running)
}

func TestStepErrorHalts(t *testing.T) {
	fm := &fakeMachine{mem: &fakeReader{}, stepErr: errors.New("illegal opcode")}
	m := New(fm)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	mm := updated.(Model)
	require.Error(t, mm.lastErr)
}

func TestQuitSetsQuitting(t *testing.T) {
	m := New(&fakeMachine{mem: &fakeReader{}})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	mm := updated.(Model)
	require.True(t, mm.quitting)
	require.NotNil(t, cmd)
}
