// frontend_ebiten.go - the windowed frontend: an ebiten.Game that pushes
// the published 160x144 framebuffer into an ebiten.Image every Draw and
// translates key edges into joypad Events every Update. Grounded on
// video_backend_ebiten.go's EbitenOutput (a frameBuffer behind a mutex,
// written by the emulation goroutine and read by Draw; inpututil edge
// detection driving key events out to a handler) but replaces its
// byte-stream terminal key encoding with joypad.Key press/release
// events, and its variable-resolution RGBA backend with this console's
// fixed 160x144 screen.

package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dotrunner/core"
	"dotrunner/core/joypad"
	"dotrunner/core/ppu"
)

var keyMap = map[ebiten.Key]joypad.Key{
	ebiten.KeyArrowRight: joypad.Right,
	ebiten.KeyArrowLeft:  joypad.Left,
	ebiten.KeyArrowUp:    joypad.Up,
	ebiten.KeyArrowDown:  joypad.Down,
	ebiten.KeyZ:          joypad.A,
	ebiten.KeyX:          joypad.B,
	ebiten.KeyBackspace:  joypad.Select,
	ebiten.KeyEnter:      joypad.Start,
}

type gameFrontend struct {
	events chan<- core.Event
	frames <-chan []uint32

	image  *ebiten.Image
	latest []uint32
	scale  int
}

func newGameFrontend(events chan<- core.Event, frames <-chan []uint32, scale int) *gameFrontend {
	return &gameFrontend{
		events: events,
		frames: frames,
		image:  ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight),
		scale:  scale,
	}
}

func (g *gameFrontend) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.events <- core.Event{Kind: core.EventExit}
		return ebiten.Termination
	}

	for ebitenKey, padKey := range keyMap {
		if inpututil.IsKeyJustPressed(ebitenKey) {
			g.events <- core.Event{Kind: core.EventKeyDown, Keys: []joypad.Key{padKey}}
		}
		if inpututil.IsKeyJustReleased(ebitenKey) {
			g.events <- core.Event{Kind: core.EventKeyUp, Keys: []joypad.Key{padKey}}
		}
	}

	select {
	case frame := <-g.frames:
		g.latest = frame
	default:
	}
	return nil
}

func (g *gameFrontend) Draw(screen *ebiten.Image) {
	if g.latest != nil {
		pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)
		for i, px := range g.latest {
			pixels[i*4+0] = byte(px >> 16)
			pixels[i*4+1] = byte(px >> 8)
			pixels[i*4+2] = byte(px)
			pixels[i*4+3] = 0xFF
		}
		g.image.WritePixels(pixels)
	} else {
		g.image.Fill(color.Black)
	}
	screen.DrawImage(g.image, nil)
}

func (g *gameFrontend) Layout(_, _ int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

// runWindowed starts the device's scheduler in a goroutine and blocks
// the main goroutine in ebiten's own run loop, which owns the OS event
// pump ebiten requires to run on.
func runWindowed(device *core.Device, scale int) error {
	events := make(chan core.Event, 16)
	frames := make(chan []uint32, 1)

	go device.Run(events, frames)

	ebiten.SetWindowSize(ppu.ScreenWidth*scale, ppu.ScreenHeight*scale)
	ebiten.SetWindowTitle("dotrunner")
	ebiten.SetWindowResizable(true)

	game := newGameFrontend(events, frames, scale)
	err := ebiten.RunGame(game)
	events <- core.Event{Kind: core.EventExit}
	return err
}
