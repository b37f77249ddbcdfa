package chip8

import "testing"

// fixedRand returns a fixed sequence of bytes, wrapping around, so CXKK
// can be tested deterministically.
type fixedRand struct {
	seq []byte
	pos int
}

func (f *fixedRand) Byte() byte {
	b := f.seq[f.pos%len(f.seq)]
	f.pos++
	return b
}

// recordingLogger captures Warnf calls so tests can assert on recoverable
// conditions without scraping stdout.
type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, format)
}

func newTestState() *State {
	return New(&fixedRand{seq: []byte{0x42}}, &recordingLogger{}, Quirks{})
}

func load(t *testing.T, s *State, bytes ...byte) {
	t.Helper()
	if err := s.LoadROM(bytes); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
}

func TestNewInitialState(t *testing.T) {
	s := newTestState()

	if s.pc != ProgramStart {
		t.Errorf("pc = %#04x, want %#04x", s.pc, ProgramStart)
	}
	if s.sp != 0 {
		t.Errorf("sp = %d, want 0", s.sp)
	}
	if s.i != 0 {
		t.Errorf("i = %d, want 0", s.i)
	}
	if s.status != StatusRunning {
		t.Errorf("status = %v, want Running", s.status)
	}
	if s.memory[0] != 0xF0 {
		t.Errorf("fontset not loaded, memory[0] = %#02x", s.memory[0])
	}
}

func TestLoadROMTooLarge(t *testing.T) {
	s := newTestState()
	rom := make([]byte, maxRomSize+1)

	if err := s.LoadROM(rom); err == nil {
		t.Fatal("expected RomTooLarge error")
	} else if e, ok := err.(*Error); !ok || e.Kind != KindRomTooLarge {
		t.Errorf("expected KindRomTooLarge, got %v", err)
	}
}

func TestResetPreservesROM(t *testing.T) {
	s := newTestState()
	load(t, s, 0x00, 0xE0, 0x12, 0x00)

	s.v[0] = 42
	s.i = 100
	s.sp = 5
	s.delayTimer = 10
	s.pc = 0x300

	s.Reset()

	if s.pc != ProgramStart {
		t.Errorf("pc = %#04x after reset, want %#04x", s.pc, ProgramStart)
	}
	if s.v[0] != 0 || s.i != 0 || s.sp != 0 || s.delayTimer != 0 {
		t.Error("reset did not clear register/timer state")
	}
	if s.memory[ProgramStart] != 0x00 || s.memory[ProgramStart+1] != 0xE0 {
		t.Error("reset did not preserve loaded ROM bytes")
	}
}

func TestCLS(t *testing.T) {
	s := newTestState()
	s.frame[0] = 1
	s.frame[100] = 1
	load(t, s, 0x00, 0xE0)

	s.Step()

	for i, px := range s.frame {
		if px != 0 {
			t.Errorf("frame[%d] = %d after CLS, want 0", i, px)
		}
	}
	if s.pc != ProgramStart+2 {
		t.Errorf("pc = %#04x, want %#04x", s.pc, ProgramStart+2)
	}
}

// S1 (partial): IBM-logo-style prelude, through the non-draw instructions.
func TestIBMLogoPrelude(t *testing.T) {
	s := newTestState()
	load(t, s, 0x00, 0xE0, 0xA2, 0x2A, 0x60, 0x0C, 0x61, 0x08)

	for i := 0; i < 4; i++ {
		s.Step()
	}

	if s.i != 0x22A {
		t.Errorf("i = %#04x, want 0x22a", s.i)
	}
	if s.v[0] != 0x0C {
		t.Errorf("v[0] = %#02x, want 0x0c", s.v[0])
	}
	if s.v[1] != 0x08 {
		t.Errorf("v[1] = %#02x, want 0x08", s.v[1])
	}
	if s.pc != ProgramStart+8 {
		t.Errorf("pc = %#04x, want %#04x", s.pc, ProgramStart+8)
	}
}

// S2: carry flag.
func TestADDRegCarry(t *testing.T) {
	s := newTestState()
	load(t, s, 0x60, 0xFF, 0x61, 0x01, 0x80, 0x14)

	for i := 0; i < 3; i++ {
		s.Step()
	}

	if s.v[0] != 0x00 {
		t.Errorf("v[0] = %#02x, want 0x00", s.v[0])
	}
	if s.v[0xF] != 1 {
		t.Errorf("VF = %d, want 1", s.v[0xF])
	}
	if s.pc != 0x206 {
		t.Errorf("pc = %#04x, want 0x206", s.pc)
	}
}

// S3: borrow flag.
func TestSUBBorrow(t *testing.T) {
	s := newTestState()
	load(t, s, 0x60, 0x05, 0x61, 0x0A, 0x80, 0x15)

	for i := 0; i < 3; i++ {
		s.Step()
	}

	if s.v[0] != 0xFB {
		t.Errorf("v[0] = %#02x, want 0xfb", s.v[0])
	}
	if s.v[0xF] != 0 {
		t.Errorf("VF = %d, want 0", s.v[0xF])
	}
	if s.pc != 0x206 {
		t.Errorf("pc = %#04x, want 0x206", s.pc)
	}
}

func TestADDImmDoesNotTouchVF(t *testing.T) {
	s := newTestState()
	s.v[0xF] = 1
	load(t, s, 0x70, 0xFF)

	s.Step()

	if s.v[0xF] != 1 {
		t.Errorf("VF = %d, 7XKK must not touch it", s.v[0xF])
	}
}

// S4: timer decay.
func TestTickTimersAccumulator(t *testing.T) {
	s := newTestState()
	s.delayTimer = 60

	s.TickTimers(0) // establishes baseline, no decrement

	if s.delayTimer != 60 {
		t.Fatalf("delayTimer = %d after baseline tick, want 60", s.delayTimer)
	}

	s.TickTimers(500_000_000) // +0.5s
	if s.delayTimer < 29 || s.delayTimer > 31 {
		t.Errorf("delayTimer = %d after 0.5s, want ~30", s.delayTimer)
	}

	s.TickTimers(1_000_000_000) // +1.0s total
	if s.delayTimer != 0 {
		t.Errorf("delayTimer = %d after 1.0s, want 0", s.delayTimer)
	}
}

func TestTimersSaturateAtZero(t *testing.T) {
	s := newTestState()
	s.TickTimers(0)
	s.TickTimers(10_000_000_000)

	if s.delayTimer != 0 || s.soundTimer != 0 {
		t.Errorf("timers did not saturate at 0: delay=%d sound=%d", s.delayTimer, s.soundTimer)
	}
}

// S5: key wait.
func TestLDVxKBlocks(t *testing.T) {
	s := newTestState()
	load(t, s, 0xF0, 0x0A)

	s.Step()
	if s.pc != ProgramStart {
		t.Errorf("pc = %#04x while no key held, want unchanged %#04x", s.pc, ProgramStart)
	}

	s.SetKey(7, true)
	s.Step()

	if s.v[0] != 7 {
		t.Errorf("v[0] = %d, want 7", s.v[0])
	}
	if s.pc != ProgramStart+2 {
		t.Errorf("pc = %#04x, want %#04x", s.pc, ProgramStart+2)
	}
}

// S6: stack depth.
func TestCallStackDepth(t *testing.T) {
	s := newTestState()
	rom := make([]byte, 0, 34)
	for i := 0; i < 16; i++ {
		addr := uint16(0x300 + i*2)
		rom = append(rom, byte(0x20|(addr>>8)), byte(addr&0xFF))
	}
	if err := s.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	for i := 0; i < 16; i++ {
		s.pc = ProgramStart + uint16(i*2)
		s.Step()
		if s.status != StatusRunning {
			t.Fatalf("call %d: status = %v, want Running", i, s.status)
		}
	}
	if s.sp != 16 {
		t.Fatalf("sp = %d after 16 calls, want 16", s.sp)
	}

	before := s.stack
	s.pc = 0x400
	s.memory[0x400] = 0x24
	s.memory[0x401] = 0x00
	s.Step()

	if s.status != StatusStopped {
		t.Errorf("status = %v after 17th call, want Stopped", s.status)
	}
	if before != s.stack {
		t.Error("17th CALL must not mutate the stack")
	}
}

func TestRETRestoresCallerPC(t *testing.T) {
	s := newTestState()
	load(t, s, 0x23, 0x00) // CALL 0x300, at 0x200

	s.Step()
	if s.pc != 0x300 {
		t.Fatalf("pc = %#04x after CALL, want 0x300", s.pc)
	}

	s.memory[0x300] = 0x00
	s.memory[0x301] = 0xEE // RET
	s.Step()

	if s.pc != ProgramStart+2 {
		t.Errorf("pc = %#04x after RET, want %#04x (instruction after CALL)", s.pc, ProgramStart+2)
	}
	if s.sp != 0 {
		t.Errorf("sp = %d after RET, want 0", s.sp)
	}
}

func TestRETOnEmptyStackIsNonFatal(t *testing.T) {
	s := newTestState()
	load(t, s, 0x00, 0xEE)

	s.Step()

	if s.status != StatusRunning {
		t.Errorf("status = %v after RET with empty stack, want Running", s.status)
	}
	if s.pc != ProgramStart+2 {
		t.Errorf("pc = %#04x, want %#04x", s.pc, ProgramStart+2)
	}
}

func TestDrawAndCollision(t *testing.T) {
	s := newTestState()
	// I points at an all-ones sprite byte placed just past the program.
	load(t, s, 0x60, 0x00, 0x61, 0x00, 0xA3, 0x00, 0xD0, 0x11, 0xD0, 0x11)
	s.memory[0x300] = 0xFF

	for i := 0; i < 4; i++ {
		s.Step()
	}

	if s.v[0xF] != 0 {
		t.Errorf("VF = %d after first draw, want 0", s.v[0xF])
	}
	set := 0
	for x := 0; x < 8; x++ {
		if s.frame[x] == 1 {
			set++
		}
	}
	if set != 8 {
		t.Errorf("row 0 has %d set pixels, want 8", set)
	}

	s.Step() // second identical draw: XOR clears everything back out
	if s.v[0xF] != 1 {
		t.Errorf("VF = %d after second draw, want 1 (collision)", s.v[0xF])
	}
	for i, px := range s.frame {
		if px != 0 {
			t.Errorf("frame[%d] = %d after re-drawing same sprite, want 0", i, px)
		}
	}
}

func TestDrawClipsInsteadOfWrapping(t *testing.T) {
	s := newTestState()
	load(t, s, 0x60, 0x3F, 0x61, 0x00, 0xA3, 0x00, 0xD0, 0x11)
	s.memory[0x300] = 0xFF // 8 set bits starting at x=63

	for i := 0; i < 4; i++ {
		s.Step()
	}

	if s.frame[63] != 1 {
		t.Errorf("frame[63] = %d, want 1", s.frame[63])
	}
	// Columns 1..7 of the sprite would land at x=64..70, off-screen: clipped.
	for x := 0; x < 64; x++ {
		if x == 63 {
			continue
		}
		if s.frame[x] != 0 {
			t.Errorf("frame[%d] = %d, sprite should have clipped off the right edge", x, s.frame[x])
		}
	}
}

func TestPcOutOfBoundsStopsMachine(t *testing.T) {
	s := newTestState()
	s.pc = MemorySize - 1

	s.Step()

	if s.status != StatusStopped {
		t.Errorf("status = %v, want Stopped", s.status)
	}
	if s.LastError() == nil || s.LastError().Kind != KindPcOutOfBounds {
		t.Errorf("LastError = %v, want KindPcOutOfBounds", s.LastError())
	}
}

func TestUnknownOpcodeLogsAndAdvances(t *testing.T) {
	s := newTestState()
	log := &recordingLogger{}
	s.log = log
	load(t, s, 0x50, 0x01) // 5XY1: n != 0, invalid for the 5### family

	s.Step()

	if s.pc != ProgramStart+2 {
		t.Errorf("pc = %#04x, want %#04x after unknown opcode", s.pc, ProgramStart+2)
	}
	if len(log.warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(log.warnings))
	}
}

func TestBCDConversion(t *testing.T) {
	s := newTestState()
	s.v[0] = 123
	s.i = 0x300
	load(t, s, 0xF0, 0x33)

	s.Step()

	if s.memory[0x300] != 1 || s.memory[0x301] != 2 || s.memory[0x302] != 3 {
		t.Errorf("BCD = %d %d %d, want 1 2 3", s.memory[0x300], s.memory[0x301], s.memory[0x302])
	}
}

func TestLoadStoreQuirkDefaultLeavesIUnchanged(t *testing.T) {
	s := newTestState()
	s.i = 0x300
	s.v[0] = 0xAA
	s.v[1] = 0xBB
	load(t, s, 0xF1, 0x55)

	s.Step()

	if s.i != 0x300 {
		t.Errorf("i = %#04x after FX55, want unchanged 0x300 (classic reading)", s.i)
	}
}

func TestShiftQuirkOptIn(t *testing.T) {
	s := New(&fixedRand{seq: []byte{0}}, &recordingLogger{}, Quirks{ShiftQuirk: true})
	s.v[1] = 0x0F
	s.v[2] = 0xFF
	load(t, s, 0x81, 0x26) // SHR V1, V2

	s.Step()

	if s.v[1] != 0xFF>>1 {
		t.Errorf("v[1] = %#02x, want source read from Vy under the shift quirk", s.v[1])
	}
}

func TestSetKeyRejectsOutOfRange(t *testing.T) {
	s := newTestState()
	s.SetKey(99, true) // must not panic
}

func TestStopShortCircuitsStep(t *testing.T) {
	s := newTestState()
	load(t, s, 0x00, 0xE0)
	s.Stop()

	s.Step()

	if s.pc != ProgramStart {
		t.Errorf("pc advanced after Stop, pc = %#04x", s.pc)
	}
}
