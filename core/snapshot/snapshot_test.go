package snapshot

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot1.sav")

	frame := make([]uint32, frameWidth*frameHeight)
	for i := range frame {
		frame[i] = 0x00445566
	}

	want := State{
		ROMPath: "game.gb",
		CPU:     []byte{1, 2, 3},
		Bus:     []byte{4, 5},
		PPU:     []byte{6},
		Timer:   []byte{7, 8, 9},
	}
	require.NoError(t, Save(path, want, frame))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveWritesThumbnail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot1.sav")

	frame := make([]uint32, frameWidth*frameHeight)
	require.NoError(t, Save(path, State{}, frame))

	f, err := os.Open(path + ".png")
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, thumbnailWidth, cfg.Width)
	require.Equal(t, thumbnailHeight, cfg.Height)
	require.IsType(t, &image.RGBA{}, image.NewRGBA(image.Rect(0, 0, 1, 1)))
}

func TestSaveSkipsThumbnailOnIncompleteFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot1.sav")

	require.NoError(t, Save(path, State{}, nil))

	_, err := os.Stat(path + ".png")
	require.True(t, os.IsNotExist(err))
}
