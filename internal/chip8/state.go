// Package chip8 implements the CHIP-8 virtual machine: a 4 KiB address
// space, 16 general registers, two 60 Hz countdown timers, a 64x32
// monochrome framebuffer and a 16-key keypad, driven one fetch/decode/
// execute step at a time by a host-owned loop.
package chip8

import "time"

const (
	// MemorySize is the total addressable memory in bytes.
	MemorySize = 4096
	// ProgramStart is the conventional load address for ROM bytes.
	ProgramStart = 0x200
	// maxRomSize is the largest ROM LoadROM will accept.
	maxRomSize = MemorySize - ProgramStart
	// stackDepth is the number of nested CALL return addresses supported.
	stackDepth = 16
	// ScreenWidth and ScreenHeight are the framebuffer dimensions.
	ScreenWidth  = 64
	ScreenHeight = 32
	// FrameSize is the total pixel count of the framebuffer.
	FrameSize = ScreenWidth * ScreenHeight
	// KeyCount is the number of keys on the hex keypad.
	KeyCount = 16

	// unexported aliases used internally for brevity.
	screenWidth  = ScreenWidth
	screenHeight = ScreenHeight
	frameSize    = FrameSize
	keyCount     = KeyCount
	// timerHz is the fixed rate the delay/sound timers decrement at.
	timerHz = 60
)

// timerPeriod is the wall-clock duration of one timer tick.
var timerPeriod = time.Second / timerHz

// Status is the VM's global execution status. Only Running causes
// instructions to execute; the other values are terminal or paused.
type Status int

const (
	// StatusRunning executes instructions on every Step call.
	StatusRunning Status = iota
	// StatusPaused is a Host-requested pause; Step is a no-op.
	StatusPaused
	// StatusStopped is a latched terminal state (stack overflow, pc out of bounds).
	StatusStopped
	// StatusError is never entered by the VM itself: fatal conditions latch
	// StatusStopped and report their Kind through LastError.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusStopped:
		return "Stopped"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Quirks pins the two historically ambiguous opcode behaviors the spec
// calls out: whether FX55/FX65 leave I unchanged (classic, default) or
// increment it, and whether 8XY6/8XYE shift Vx in place (classic, default)
// or first copy Vy into Vx. Both default false (classic reading).
type Quirks struct {
	ShiftQuirk     bool
	LoadStoreQuirk bool
}

// Logger receives recoverable-condition warnings (unknown opcode, memory
// clamps, RET on an empty stack, 0NNN) without the VM depending on any
// concrete logging implementation.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// nopLogger discards every warning; used when no Logger is supplied.
type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// State is the CHIP-8 machine: memory, registers, stack, timers,
// framebuffer, keypad snapshot and execution status, owned exclusively by
// one execution context. No internal array is ever handed out by
// reference; callers interact only through the methods below.
type State struct {
	memory [MemorySize]byte
	v      [16]byte
	i      uint16
	pc     uint16

	stack [stackDepth]uint16
	sp    byte

	delayTimer byte
	soundTimer byte
	lastTickNs uint64
	tickInit   bool

	frame [frameSize]byte
	keys  [keyCount]bool

	status    Status
	lastError *Error

	romLen int

	rng    Rand
	log    Logger
	quirks Quirks
}

// New returns a freshly initialized machine: pc=0x200, status Running, the
// fontset copied into memory[0x000:0x050]. rng and log may be nil, in which
// case a time-seeded RNG and a no-op logger are used.
func New(rng Rand, log Logger, quirks Quirks) *State {
	if rng == nil {
		rng = NewRand()
	}
	if log == nil {
		log = nopLogger{}
	}
	s := &State{rng: rng, log: log, quirks: quirks}
	s.reset()
	return s
}

// reset restores all state to its post-New values while re-applying any
// previously loaded ROM bytes: a reset is a fresh machine plus the
// already-loaded ROM, not a full wipe.
func (s *State) reset() {
	rom := make([]byte, s.romLen)
	copy(rom, s.memory[ProgramStart:ProgramStart+s.romLen])

	s.memory = [MemorySize]byte{}
	copy(s.memory[0:len(fontSet)], fontSet[:])
	copy(s.memory[ProgramStart:], rom)

	s.v = [16]byte{}
	s.i = 0
	s.pc = ProgramStart
	s.stack = [stackDepth]uint16{}
	s.sp = 0
	s.delayTimer = 0
	s.soundTimer = 0
	s.lastTickNs = 0
	s.tickInit = false
	s.frame = [frameSize]byte{}
	s.keys = [keyCount]bool{}
	s.status = StatusRunning
	s.lastError = nil
}

// Reset reinitializes the machine, preserving the currently loaded ROM.
func (s *State) Reset() {
	s.reset()
}

// LoadROM copies bytes into memory[0x200:0x200+len(bytes)]. It does not
// validate ROM contents beyond length, does not clear the framebuffer, and
// leaves pc at 0x200. Fails with KindRomTooLarge (no side effects) if the
// ROM would not fit in the 3584 bytes available above the reserved region.
func (s *State) LoadROM(bytes []byte) error {
	if len(bytes) > maxRomSize {
		return newError(KindRomTooLarge, "rom is %d bytes, max is %d", len(bytes), maxRomSize)
	}
	copy(s.memory[ProgramStart:], bytes)
	s.romLen = len(bytes)
	s.pc = ProgramStart
	return nil
}

// SetKey sets the held/released state of keypad index idx. idx must be in
// [0, 16); out-of-range indices are ignored (Host misuse, not a VM fault).
func (s *State) SetKey(idx int, down bool) {
	if idx < 0 || idx >= keyCount {
		s.log.Warnf("SetKey: index %d out of range", idx)
		return
	}
	s.keys[idx] = down
}

// Frame returns a read-only snapshot of the 2048-cell framebuffer, one byte
// per pixel (0 clear, 1 set), row-major: idx = y*64 + x.
func (s *State) Frame() [frameSize]byte {
	return s.frame
}

// BeepOn reports whether the sound timer is currently nonzero.
func (s *State) BeepOn() bool {
	return s.soundTimer > 0
}

// Status returns the VM's current execution status.
func (s *State) Status() Status {
	return s.status
}

// LastError returns the fatal error that put the VM into StatusStopped, if
// any. A Host-requested Stop records no error.
func (s *State) LastError() *Error {
	return s.lastError
}

// Stop lets a Host force-terminate the VM between steps (e.g. window close).
func (s *State) Stop() {
	s.status = StatusStopped
}

// Pause/Resume let a Host suspend and continue stepping without losing state.
func (s *State) Pause() {
	if s.status == StatusRunning {
		s.status = StatusPaused
	}
}

// Resume un-pauses the machine if it was Paused.
func (s *State) Resume() {
	if s.status == StatusPaused {
		s.status = StatusRunning
	}
}

// fail latches a fatal condition: StackOverflow and PcOutOfBounds move the
// machine to Stopped, reportable through Status. The Kind detail is
// available separately through LastError.
func (s *State) fail(kind Kind, format string, args ...interface{}) {
	s.lastError = newError(kind, format, args...)
	s.status = StatusStopped
}
