package chip8

// instruction is the set of canonical fields a 16-bit CHIP-8 opcode word
// decodes into. Decoding is total over all 16-bit inputs — there is no
// invalid opcode at the decode stage, only at dispatch.
type instruction struct {
	opcode uint16
	hi     uint16 // dispatch nibble
	nnn    uint16 // 12-bit address
	kk     byte   // 8-bit immediate
	x      uint16 // target register nibble
	y      uint16 // source register nibble
	n      uint16 // low nibble
}

// decode splits a big-endian 16-bit opcode word into its fields.
func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		hi:     (opcode >> 12) & 0x0F,
		nnn:    opcode & 0x0FFF,
		kk:     byte(opcode & 0x00FF),
		x:      (opcode >> 8) & 0x0F,
		y:      (opcode >> 4) & 0x0F,
		n:      opcode & 0x000F,
	}
}
