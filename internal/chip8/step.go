package chip8

// Step performs one fetch/decode/execute cycle. It is a no-op when the
// machine is not Running, so a Host-requested Stop/Pause simply makes the
// next Step call do nothing. Program counter advancement is each opcode
// handler's own responsibility; Step itself never adjusts pc.
func (s *State) Step() {
	if s.status != StatusRunning {
		return
	}

	if int(s.pc)+1 >= MemorySize {
		s.fail(KindPcOutOfBounds, "pc %#04x has no room for a 2-byte fetch", s.pc)
		return
	}

	opcode := uint16(s.memory[s.pc])<<8 | uint16(s.memory[s.pc+1])
	in := decode(opcode)
	s.execute(in)
}
