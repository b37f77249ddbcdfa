package chip8

// TickTimers decrements the delay and sound timers at a fixed 60 Hz using
// an accumulator against the monotonic nowNs clock the Host supplies,
// independent of how often Step is called. On the very first call it only
// records nowNs as the baseline: a caller starting a ROM is never charged
// for the wall-clock time that elapsed before the first tick. Timers never
// wrap; they saturate at 0.
//
// lastTickNs lives on the State instance, not a package-level variable, so
// every machine owns its own timer baseline instead of sharing one clock
// across instances.
func (s *State) TickTimers(nowNs uint64) {
	if !s.tickInit {
		s.lastTickNs = nowNs
		s.tickInit = true
		return
	}

	period := uint64(timerPeriod.Nanoseconds())
	for nowNs-s.lastTickNs >= period {
		if s.delayTimer > 0 {
			s.delayTimer--
		}
		if s.soundTimer > 0 {
			s.soundTimer--
		}
		s.lastTickNs += period
	}
}
