// snapshot.go - save-state serialization and a paired PNG thumbnail.
// Grounded on video_chip.go's splash-screen path (decodes a PNG via
// image/draw.Draw with bilinear-ish scaling into a fixed buffer) but
// used in reverse here: scaling the live framebuffer *down* to a small
// thumbnail alongside a save file, using golang.org/x/image/draw's
// higher-quality scaler instead of the teacher's hand-rolled bilinear
// loop.

package snapshot

import (
	"encoding/gob"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

const (
	frameWidth  = 160
	frameHeight = 144

	thumbnailWidth  = 80
	thumbnailHeight = 72
)

// State is everything a save file needs to resume a Device: the raw
// register/memory snapshot plus the ROM path it belongs to. The path is
// recorded only; loading does not compare it with the loaded cartridge.
type State struct {
	ROMPath string
	CPU     []byte
	Bus     []byte
	PPU     []byte
	Timer   []byte
	MBC     []byte
}

// Save gob-encodes st to path and, if frame is a complete 160x144
// buffer, writes a downscaled PNG thumbnail alongside it at
// path+".png".
func Save(path string, st State, frame []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(st); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}

	if len(frame) != frameWidth*frameHeight {
		return nil
	}
	return writeThumbnail(path+".png", frame)
}

// Load decodes a save file written by Save.
func Load(path string) (State, error) {
	var st State
	f, err := os.Open(path)
	if err != nil {
		return st, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&st); err != nil && err != io.EOF {
		return st, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return st, nil
}

func writeThumbnail(path string, frame []uint32) error {
	full := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	for y := 0; y < frameHeight; y++ {
		for x := 0; x < frameWidth; x++ {
			px := frame[y*frameWidth+x]
			full.Set(x, y, color.RGBA{
				R: byte(px >> 16),
				G: byte(px >> 8),
				B: byte(px),
				A: 0xFF,
			})
		}
	}

	thumb := image.NewRGBA(image.Rect(0, 0, thumbnailWidth, thumbnailHeight))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), full, full.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create thumbnail %s: %w", path, err)
	}
	defer f.Close()

	return png.Encode(f, thumb)
}
