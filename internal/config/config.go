// Package config bundles the emulator's display, audio, and emulation
// settings into one struct, bound to cobra/pflag flags rather than a
// hand-rolled argv scanner.
package config

import (
	"github.com/spf13/cobra"

	"github.com/virtual8/chip8vm/internal/chip8"
)

// Display default values.
const (
	DefaultScaleFactor = 10
	DefaultForeground  = "white"
	DefaultBackground  = "black"
)

// Audio default values.
const (
	DefaultWavPath = "assets/beep.wav"
	DefaultVolume  = 128
)

// DefaultStepsPerFrame sits within the typical range of 8-15 opcodes
// executed per presented frame.
const DefaultStepsPerFrame = 11

// Display holds window/rendering configuration.
type Display struct {
	ScaleFactor int
	Foreground  string
	Background  string
}

// Audio holds sound-device configuration. Muted is the flag-bound field;
// Enabled() is the derived value callers should actually check.
type Audio struct {
	Muted   bool
	WavPath string
	Volume  int
}

// Enabled reports whether the beep gate should drive real audio output.
func (a Audio) Enabled() bool {
	return !a.Muted
}

// Emulation holds core VM tuning: how many opcodes to execute per
// presented frame, and the two opcode-quirk toggles surfaced as explicit
// booleans rather than guessed per ROM.
type Emulation struct {
	StepsPerFrame  int
	ShiftQuirk     bool
	LoadStoreQuirk bool
}

// Config is the fully resolved configuration for one emulator run.
type Config struct {
	Display   Display
	Audio     Audio
	Emulation Emulation
	RomPath   string
}

// Defaults returns the zero-config values.
func Defaults() Config {
	return Config{
		Display: Display{
			ScaleFactor: DefaultScaleFactor,
			Foreground:  DefaultForeground,
			Background:  DefaultBackground,
		},
		Audio: Audio{
			Muted:   false,
			WavPath: DefaultWavPath,
			Volume:  DefaultVolume,
		},
		Emulation: Emulation{
			StepsPerFrame: DefaultStepsPerFrame,
		},
	}
}

// BindFlags attaches pflag flags for every tunable field to cmd, defaulting
// to c's current values. Call it during command construction, then read
// back the bound fields from c after cobra parses argv.
func (c *Config) BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&c.Display.ScaleFactor, "scale", c.Display.ScaleFactor, "pixel scale factor for the emulator window")
	flags.StringVar(&c.Display.Foreground, "fg", c.Display.Foreground, "foreground color name (golang.org/x/image/colornames)")
	flags.StringVar(&c.Display.Background, "bg", c.Display.Background, "background color name (golang.org/x/image/colornames)")
	flags.BoolVar(&c.Audio.Muted, "mute", c.Audio.Muted, "disable the sound timer beep")
	flags.StringVar(&c.Audio.WavPath, "beep-wav", c.Audio.WavPath, "path to the beep sound file")
	flags.IntVar(&c.Audio.Volume, "volume", c.Audio.Volume, "beep volume, 0-128 (recorded in the config; playback does not apply it)")
	flags.IntVar(&c.Emulation.StepsPerFrame, "steps-per-frame", c.Emulation.StepsPerFrame, "opcodes executed per presented frame")
	flags.BoolVar(&c.Emulation.ShiftQuirk, "shift-quirk", c.Emulation.ShiftQuirk, "8XY6/8XYE read Vy instead of Vx before shifting")
	flags.BoolVar(&c.Emulation.LoadStoreQuirk, "load-store-quirk", c.Emulation.LoadStoreQuirk, "FX55/FX65 increment I by x+1")
}

// Quirks projects the emulation config onto the chip8.Quirks the VM
// constructor expects.
func (c *Config) Quirks() chip8.Quirks {
	return chip8.Quirks{
		ShiftQuirk:     c.Emulation.ShiftQuirk,
		LoadStoreQuirk: c.Emulation.LoadStoreQuirk,
	}
}
