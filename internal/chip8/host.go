package chip8

// Host is the opaque collaborator the VM never imports a concrete
// implementation of: a monotonic clock, a keypad snapshot, a present-frame
// sink and a beep on/off sink. The VM only ever calls back into it through
// these pure read/write functions, after a step has completed — never
// mid-step, never blocking.
type Host interface {
	// NowNs returns the current reading of a monotonic high-resolution clock.
	NowNs() uint64
	// KeyDown reports whether hex key idx (0-15) is currently held.
	KeyDown(idx int) bool
	// Present receives the framebuffer for the frame just produced.
	Present(frame [frameSize]byte)
	// SetBeep drives the Host's audio gate on or off.
	SetBeep(on bool)
}

// RunFrame executes one Host frame: stepsPerFrame fetch/decode/execute
// cycles (after refreshing the keypad snapshot from the Host), one
// timer-clock update against the Host's monotonic clock, and finally a
// Present/SetBeep callback driven off the resulting sound timer.
// stepsPerFrame below 1 is treated as 1.
func (s *State) RunFrame(host Host, stepsPerFrame int) {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	for i := 0; i < stepsPerFrame; i++ {
		for k := 0; k < keyCount; k++ {
			s.keys[k] = host.KeyDown(k)
		}
		s.Step()
	}

	s.TickTimers(host.NowNs())
	host.Present(s.Frame())
	host.SetBeep(s.BeepOn())
}
