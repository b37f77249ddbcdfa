package chip8

// execute dispatches a decoded instruction to its handler. Dispatch is
// total over all 35 opcodes plus the two recoverable failure paths
// (unknown opcode, SYS): an unrecognized opcode at any sub-dispatch level
// logs a warning and advances pc by 2 rather than panicking or stopping
// the machine.
func (s *State) execute(in instruction) {
	switch in.hi {
	case 0x0:
		switch in.opcode {
		case 0x00E0:
			s.opCLS()
		case 0x00EE:
			s.opRET()
		default:
			s.opSYS(in.nnn)
		}
	case 0x1:
		s.opJP(in.nnn)
	case 0x2:
		s.opCALL(in.nnn)
	case 0x3:
		s.opSE(in.x, in.kk)
	case 0x4:
		s.opSNE(in.x, in.kk)
	case 0x5:
		if in.n == 0x0 {
			s.opSEReg(in.x, in.y)
		} else {
			s.unknownOpcode(in.opcode)
		}
	case 0x6:
		s.opLDImm(in.x, in.kk)
	case 0x7:
		s.opADDImm(in.x, in.kk)
	case 0x8:
		switch in.n {
		case 0x0:
			s.opLDReg(in.x, in.y)
		case 0x1:
			s.opOR(in.x, in.y)
		case 0x2:
			s.opAND(in.x, in.y)
		case 0x3:
			s.opXOR(in.x, in.y)
		case 0x4:
			s.opADDReg(in.x, in.y)
		case 0x5:
			s.opSUB(in.x, in.y)
		case 0x6:
			s.opSHR(in.x, in.y)
		case 0x7:
			s.opSUBN(in.x, in.y)
		case 0xE:
			s.opSHL(in.x, in.y)
		default:
			s.unknownOpcode(in.opcode)
		}
	case 0x9:
		if in.n == 0x0 {
			s.opSNEReg(in.x, in.y)
		} else {
			s.unknownOpcode(in.opcode)
		}
	case 0xA:
		s.opLDI(in.nnn)
	case 0xB:
		s.opJPV0(in.nnn)
	case 0xC:
		s.opRND(in.x, in.kk)
	case 0xD:
		s.opDRW(in.x, in.y, in.n)
	case 0xE:
		switch in.kk {
		case 0x9E:
			s.opSKP(in.x)
		case 0xA1:
			s.opSKNP(in.x)
		default:
			s.unknownOpcode(in.opcode)
		}
	case 0xF:
		switch in.kk {
		case 0x07:
			s.opLDVxDT(in.x)
		case 0x0A:
			s.opLDVxK(in.x)
		case 0x15:
			s.opLDDTVx(in.x)
		case 0x18:
			s.opLDSTVx(in.x)
		case 0x1E:
			s.opADDIVx(in.x)
		case 0x29:
			s.opLDFVx(in.x)
		case 0x33:
			s.opLDBVx(in.x)
		case 0x55:
			s.opLDIVx(in.x)
		case 0x65:
			s.opLDVxI(in.x)
		default:
			s.unknownOpcode(in.opcode)
		}
	default:
		s.unknownOpcode(in.opcode)
	}
}

func (s *State) unknownOpcode(opcode uint16) {
	s.log.Warnf("unknown opcode %#04x at pc=%#04x", opcode, s.pc)
	s.pc += 2
}

func (s *State) skip(cond bool) {
	if cond {
		s.pc += 4
	} else {
		s.pc += 2
	}
}

// --- 0x0### ---

func (s *State) opCLS() {
	s.frame = [frameSize]byte{}
	s.pc += 2
}

func (s *State) opRET() {
	if s.sp == 0 {
		s.log.Warnf("RET with empty stack at pc=%#04x", s.pc)
		s.pc += 2
		return
	}
	s.sp--
	s.pc = s.stack[s.sp]
}

func (s *State) opSYS(nnn uint16) {
	s.log.Warnf("0NNN machine-code call to %#04x is not supported", nnn)
	s.pc += 2
}

// --- jumps / calls ---

func (s *State) opJP(nnn uint16) {
	s.pc = nnn
}

func (s *State) opCALL(nnn uint16) {
	if s.sp >= stackDepth {
		s.fail(KindStackOverflow, "call stack exhausted at pc=%#04x", s.pc)
		return
	}
	s.stack[s.sp] = s.pc + 2
	s.sp++
	s.pc = nnn
}

// --- skips ---

func (s *State) opSE(x uint16, kk byte) {
	s.skip(s.v[x] == kk)
}

func (s *State) opSNE(x uint16, kk byte) {
	s.skip(s.v[x] != kk)
}

func (s *State) opSEReg(x, y uint16) {
	s.skip(s.v[x] == s.v[y])
}

func (s *State) opSNEReg(x, y uint16) {
	s.skip(s.v[x] != s.v[y])
}

// --- register loads / arithmetic ---

func (s *State) opLDImm(x uint16, kk byte) {
	s.v[x] = kk
	s.pc += 2
}

func (s *State) opADDImm(x uint16, kk byte) {
	s.v[x] += kk // VF is intentionally left untouched.
	s.pc += 2
}

func (s *State) opLDReg(x, y uint16) {
	s.v[x] = s.v[y]
	s.pc += 2
}

func (s *State) opOR(x, y uint16) {
	s.v[x] |= s.v[y]
	s.pc += 2
}

func (s *State) opAND(x, y uint16) {
	s.v[x] &= s.v[y]
	s.pc += 2
}

func (s *State) opXOR(x, y uint16) {
	s.v[x] ^= s.v[y]
	s.pc += 2
}

func (s *State) opADDReg(x, y uint16) {
	sum := uint16(s.v[x]) + uint16(s.v[y])
	s.v[x] = byte(sum)
	if sum > 0xFF {
		s.v[0xF] = 1
	} else {
		s.v[0xF] = 0
	}
	s.pc += 2
}

func (s *State) opSUB(x, y uint16) {
	borrow := s.v[x] >= s.v[y]
	s.v[x] -= s.v[y]
	if borrow {
		s.v[0xF] = 1
	} else {
		s.v[0xF] = 0
	}
	s.pc += 2
}

func (s *State) opSUBN(x, y uint16) {
	borrow := s.v[y] >= s.v[x]
	s.v[x] = s.v[y] - s.v[x]
	if borrow {
		s.v[0xF] = 1
	} else {
		s.v[0xF] = 0
	}
	s.pc += 2
}

// shiftSource picks the register a shift reads from: classic (ShiftQuirk
// false) shifts Vx in place; the quirk reading copies Vy into Vx first.
func (s *State) shiftSource(x, y uint16) byte {
	if s.quirks.ShiftQuirk {
		return s.v[y]
	}
	return s.v[x]
}

func (s *State) opSHR(x, y uint16) {
	src := s.shiftSource(x, y)
	s.v[x] = src >> 1
	s.v[0xF] = src & 0x01
	s.pc += 2
}

func (s *State) opSHL(x, y uint16) {
	src := s.shiftSource(x, y)
	s.v[x] = src << 1
	s.v[0xF] = (src >> 7) & 0x01
	s.pc += 2
}

// --- address register / constants ---

func (s *State) opLDI(nnn uint16) {
	s.i = nnn
	s.pc += 2
}

func (s *State) opJPV0(nnn uint16) {
	s.pc = (uint16(s.v[0]) + nnn) & 0x0FFF
}

func (s *State) opRND(x uint16, kk byte) {
	s.v[x] = s.rng.Byte() & kk
	s.pc += 2
}

// --- sprite draw ---

func (s *State) opDRW(x, y, n uint16) {
	startX := uint16(s.v[x]) % screenWidth
	startY := uint16(s.v[y]) % screenHeight
	s.v[0xF] = 0

	for r := uint16(0); r < n; r++ {
		addr := uint32(s.i) + uint32(r)
		if addr >= MemorySize {
			s.log.Warnf("DRW sprite row read past memory at i=%#04x+%d", s.i, r)
			break
		}
		row := s.memory[addr]

		sy := startY + r
		if sy >= screenHeight {
			continue
		}
		for c := uint16(0); c < 8; c++ {
			bit := (row >> (7 - c)) & 1
			if bit == 0 {
				continue
			}
			sx := startX + c
			if sx >= screenWidth {
				continue
			}
			idx := sy*screenWidth + sx
			if s.frame[idx] == 1 {
				s.v[0xF] = 1
			}
			s.frame[idx] ^= 1
		}
	}
	s.pc += 2
}

// --- keypad ---

func (s *State) opSKP(x uint16) {
	s.skip(s.keys[s.v[x]&0x0F])
}

func (s *State) opSKNP(x uint16) {
	s.skip(!s.keys[s.v[x]&0x0F])
}

// --- timers / misc F ops ---

func (s *State) opLDVxDT(x uint16) {
	s.v[x] = s.delayTimer
	s.pc += 2
}

// opLDVxK blocks: if a key is held, the lowest such index is stored in Vx
// and execution advances; otherwise pc is left unchanged so the same
// instruction re-executes on the next Step, re-observing the latest
// keypad snapshot the Host refreshed in between.
func (s *State) opLDVxK(x uint16) {
	for i, down := range s.keys {
		if down {
			s.v[x] = byte(i)
			s.pc += 2
			return
		}
	}
}

func (s *State) opLDDTVx(x uint16) {
	s.delayTimer = s.v[x]
	s.pc += 2
}

func (s *State) opLDSTVx(x uint16) {
	s.soundTimer = s.v[x]
	s.pc += 2
}

func (s *State) opADDIVx(x uint16) {
	s.i += uint16(s.v[x]) // no overflow flag
	s.pc += 2
}

func (s *State) opLDFVx(x uint16) {
	s.i = uint16(s.v[x]&0x0F) * 5
	s.pc += 2
}

func (s *State) opLDBVx(x uint16) {
	if uint32(s.i)+2 >= MemorySize {
		s.log.Warnf("BCD write past memory at i=%#04x", s.i)
		s.pc += 2
		return
	}
	val := s.v[x]
	s.memory[s.i] = val / 100
	s.memory[s.i+1] = (val / 10) % 10
	s.memory[s.i+2] = val % 10
	s.pc += 2
}

func (s *State) opLDIVx(x uint16) {
	for j := uint16(0); j <= x; j++ {
		addr := uint32(s.i) + uint32(j)
		if addr >= MemorySize {
			s.log.Warnf("FX55 write past memory at i=%#04x+%d", s.i, j)
			continue
		}
		s.memory[addr] = s.v[j]
	}
	if s.quirks.LoadStoreQuirk {
		s.i += x + 1
	}
	s.pc += 2
}

func (s *State) opLDVxI(x uint16) {
	for j := uint16(0); j <= x; j++ {
		addr := uint32(s.i) + uint32(j)
		if addr >= MemorySize {
			s.log.Warnf("FX65 read past memory at i=%#04x+%d", s.i, j)
			continue
		}
		s.v[j] = s.memory[addr]
	}
	if s.quirks.LoadStoreQuirk {
		s.i += x + 1
	}
	s.pc += 2
}
