// Package display is the Host adapter: a pixelgl window for presenting the
// framebuffer and reading keyboard state, and a beep-backed speaker for the
// audio gate. It is a pure presentation layer implementing chip8.Host — the
// fontset lives in internal/chip8 since the core owns its own memory layout,
// and window sizing is driven by internal/config rather than fixed constants.
package display

import (
	"fmt"
	"image/color"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/virtual8/chip8vm/internal/chip8"
	"github.com/virtual8/chip8vm/internal/config"
)

const (
	chip8Width  = 64
	chip8Height = 32
)

// KeyMap maps CHIP-8 hex key indices to pixelgl buttons, the customary
// 1234/QWER/ASDF/ZXCV keypad layout.
var KeyMap = map[int]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
}

// Window is a pixelgl-backed implementation of chip8.Host. It owns no VM
// state; it only renders frames it's handed and reports key/clock state.
type Window struct {
	*pixelgl.Window
	fg, bg color.Color
	beeper *Beeper
}

// NewWindow creates a pixelgl window sized per cfg and wires an optional
// Beeper for the audio gate.
func NewWindow(cfg config.Display, beeper *Beeper) (*Window, error) {
	width := float64(chip8Width * cfg.ScaleFactor)
	height := float64(chip8Height * cfg.ScaleFactor)

	winCfg := pixelgl.WindowConfig{
		Title:  "chip8vm",
		Bounds: pixel.R(0, 0, width, height),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(winCfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	fg, ok := colornames.Map[cfg.Foreground]
	if !ok {
		fg = colornames.White
	}
	bg, ok := colornames.Map[cfg.Background]
	if !ok {
		bg = colornames.Black
	}

	return &Window{Window: w, fg: fg, bg: bg, beeper: beeper}, nil
}

// clockStart anchors NowNs; time.Since reads Go's monotonic clock.
var clockStart = time.Now()

// NowNs implements chip8.Host with a monotonic high-resolution clock.
func (w *Window) NowNs() uint64 {
	return uint64(time.Since(clockStart).Nanoseconds())
}

// KeyDown implements chip8.Host.
func (w *Window) KeyDown(idx int) bool {
	btn, ok := KeyMap[idx]
	if !ok {
		return false
	}
	return w.Pressed(btn)
}

// SetBeep implements chip8.Host, gating the Beeper on/off.
func (w *Window) SetBeep(on bool) {
	if w.beeper == nil {
		return
	}
	if on {
		w.beeper.Play()
	} else {
		w.beeper.Stop()
	}
}

// Present implements chip8.Host: draws the framebuffer. Once the window has
// been closed it does nothing.
func (w *Window) Present(frame [chip8.FrameSize]byte) {
	if w.Window.Closed() {
		return
	}
	w.Clear(w.bg)

	draw := imdraw.New(nil)
	draw.Color = pixel.ToRGBA(w.fg)
	bounds := w.Bounds()
	cellW := bounds.W() / chip8Width
	cellH := bounds.H() / chip8Height

	for y := 0; y < chip8Height; y++ {
		for x := 0; x < chip8Width; x++ {
			if frame[y*chip8Width+x] == 0 {
				continue
			}
			// pixel (0,0) is top-left in CHIP-8, bottom-left in pixel's GL space.
			flippedY := chip8Height - 1 - y
			draw.Push(pixel.V(cellW*float64(x), cellH*float64(flippedY)))
			draw.Push(pixel.V(cellW*float64(x)+cellW, cellH*float64(flippedY)+cellH))
			draw.Rectangle(0)
		}
	}
	draw.Draw(w)
	w.Update()
}
