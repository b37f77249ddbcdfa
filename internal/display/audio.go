package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/virtual8/chip8vm/internal/config"
)

// Beeper plays a looping beep tone, paused and unpaused as a gate rather
// than started and stopped, so the sound timer only toggles Paused on an
// already-decoded, already-playing stream.
type Beeper struct {
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	enabled  bool
}

// NewBeeper decodes the wav/mp3 at cfg.WavPath (MP3 when the file name ends
// in .mp3, WAV otherwise) and initializes the speaker. If cfg is disabled or
// the file cannot be opened, it returns a Beeper that silently no-ops — a
// missing beep asset must never prevent emulation from running. cfg.Volume
// is not applied: the tone plays at the file's own level.
func NewBeeper(cfg config.Audio) *Beeper {
	b := &Beeper{enabled: cfg.Enabled()}
	if !b.enabled {
		return b
	}

	f, err := os.Open(cfg.WavPath)
	if err != nil {
		b.enabled = false
		return b
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	if strings.EqualFold(filepath.Ext(cfg.WavPath), ".mp3") {
		streamer, format, err = mp3.Decode(f)
	} else {
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		b.enabled = false
		return b
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		b.enabled = false
		return b
	}

	loop := beep.Loop(-1, streamer)

	b.streamer = streamer
	b.ctrl = &beep.Ctrl{Streamer: loop, Paused: true}
	speaker.Play(b.ctrl)

	return b
}

// Play unmutes the looping beep tone.
func (b *Beeper) Play() {
	if !b.enabled || b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
}

// Stop mutes the looping beep tone without tearing down the device.
func (b *Beeper) Stop() {
	if !b.enabled || b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
}

// Close releases the decoded stream.
func (b *Beeper) Close() error {
	if b.streamer == nil {
		return nil
	}
	return b.streamer.Close()
}

// String aids debug logging of the beeper's resolved state.
func (b *Beeper) String() string {
	return fmt.Sprintf("Beeper{enabled=%t}", b.enabled)
}
