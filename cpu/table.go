package cpu

// AddressMode names an addressing mode for introspection/disassembly
// purposes. The dispatch switch in dispatch.go is the actual source of
// truth for execution; this table exists purely so callers (the
// disassemble and tui packages) can describe an opcode without
// duplicating the switch.
type AddressMode int

const (
	ModeImplied AddressMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeRelative
)

// OpcodeInfo describes one of the 256 possible opcode bytes for
// disassembly/introspection.
type OpcodeInfo struct {
	Mnemonic    string
	Mode        AddressMode
	Documented  bool
	OperandSize int // Bytes following the opcode byte (0, 1 or 2).
}

// OpcodeTable is a static, read-only description of every opcode byte,
// generated from the same legality/mnemonic assignment the dispatch
// switch implements. It never drives execution.
var OpcodeTable = buildOpcodeTable()

func operandSize(m AddressMode) int {
	switch m {
	case ModeImplied, ModeAccumulator:
		return 0
	case ModeZeroPage, ModeZeroPageX, ModeZeroPageY, ModeIndirectX, ModeIndirectY, ModeRelative, ModeImmediate:
		return 1
	default:
		return 2
	}
}

func buildOpcodeTable() [256]OpcodeInfo {
	var t [256]OpcodeInfo
	set := func(op uint8, mnemonic string, mode AddressMode) {
		t[op] = OpcodeInfo{Mnemonic: mnemonic, Mode: mode, Documented: documentedOpcode[op], OperandSize: operandSize(mode)}
	}

	set(0x00, "BRK", ModeImplied)
	set(0x01, "ORA", ModeIndirectX)
	set(0x05, "ORA", ModeZeroPage)
	set(0x06, "ASL", ModeZeroPage)
	set(0x08, "PHP", ModeImplied)
	set(0x09, "ORA", ModeImmediate)
	set(0x0A, "ASL", ModeAccumulator)
	set(0x0D, "ORA", ModeAbsolute)
	set(0x0E, "ASL", ModeAbsolute)
	set(0x10, "BPL", ModeRelative)
	set(0x11, "ORA", ModeIndirectY)
	set(0x15, "ORA", ModeZeroPageX)
	set(0x16, "ASL", ModeZeroPageX)
	set(0x18, "CLC", ModeImplied)
	set(0x19, "ORA", ModeAbsoluteY)
	set(0x1D, "ORA", ModeAbsoluteX)
	set(0x1E, "ASL", ModeAbsoluteX)
	set(0x20, "JSR", ModeAbsolute)
	set(0x21, "AND", ModeIndirectX)
	set(0x24, "BIT", ModeZeroPage)
	set(0x25, "AND", ModeZeroPage)
	set(0x26, "ROL", ModeZeroPage)
	set(0x28, "PLP", ModeImplied)
	set(0x29, "AND", ModeImmediate)
	set(0x2A, "ROL", ModeAccumulator)
	set(0x2C, "BIT", ModeAbsolute)
	set(0x2D, "AND", ModeAbsolute)
	set(0x2E, "ROL", ModeAbsolute)
	set(0x30, "BMI", ModeRelative)
	set(0x31, "AND", ModeIndirectY)
	set(0x35, "AND", ModeZeroPageX)
	set(0x36, "ROL", ModeZeroPageX)
	set(0x38, "SEC", ModeImplied)
	set(0x39, "AND", ModeAbsoluteY)
	set(0x3D, "AND", ModeAbsoluteX)
	set(0x3E, "ROL", ModeAbsoluteX)
	set(0x40, "RTI", ModeImplied)
	set(0x41, "EOR", ModeIndirectX)
	set(0x45, "EOR", ModeZeroPage)
	set(0x46, "LSR", ModeZeroPage)
	set(0x48, "PHA", ModeImplied)
	set(0x49, "EOR", ModeImmediate)
	set(0x4A, "LSR", ModeAccumulator)
	set(0x4C, "JMP", ModeAbsolute)
	set(0x4D, "EOR", ModeAbsolute)
	set(0x4E, "LSR", ModeAbsolute)
	set(0x50, "BVC", ModeRelative)
	set(0x51, "EOR", ModeIndirectY)
	set(0x55, "EOR", ModeZeroPageX)
	set(0x56, "LSR", ModeZeroPageX)
	set(0x58, "CLI", ModeImplied)
	set(0x59, "EOR", ModeAbsoluteY)
	set(0x5D, "EOR", ModeAbsoluteX)
	set(0x5E, "LSR", ModeAbsoluteX)
	set(0x60, "RTS", ModeImplied)
	set(0x61, "ADC", ModeIndirectX)
	set(0x65, "ADC", ModeZeroPage)
	set(0x66, "ROR", ModeZeroPage)
	set(0x68, "PLA", ModeImplied)
	set(0x69, "ADC", ModeImmediate)
	set(0x6A, "ROR", ModeAccumulator)
	set(0x6C, "JMP", ModeIndirect)
	set(0x6D, "ADC", ModeAbsolute)
	set(0x6E, "ROR", ModeAbsolute)
	set(0x70, "BVS", ModeRelative)
	set(0x71, "ADC", ModeIndirectY)
	set(0x75, "ADC", ModeZeroPageX)
	set(0x76, "ROR", ModeZeroPageX)
	set(0x78, "SEI", ModeImplied)
	set(0x79, "ADC", ModeAbsoluteY)
	set(0x7D, "ADC", ModeAbsoluteX)
	set(0x7E, "ROR", ModeAbsoluteX)
	set(0x81, "STA", ModeIndirectX)
	set(0x84, "STY", ModeZeroPage)
	set(0x85, "STA", ModeZeroPage)
	set(0x86, "STX", ModeZeroPage)
	set(0x88, "DEY", ModeImplied)
	set(0x8A, "TXA", ModeImplied)
	set(0x8C, "STY", ModeAbsolute)
	set(0x8D, "STA", ModeAbsolute)
	set(0x8E, "STX", ModeAbsolute)
	set(0x90, "BCC", ModeRelative)
	set(0x91, "STA", ModeIndirectY)
	set(0x94, "STY", ModeZeroPageX)
	set(0x95, "STA", ModeZeroPageX)
	set(0x96, "STX", ModeZeroPageY)
	set(0x98, "TYA", ModeImplied)
	set(0x99, "STA", ModeAbsoluteY)
	set(0x9A, "TXS", ModeImplied)
	set(0x9D, "STA", ModeAbsoluteX)
	set(0xA0, "LDY", ModeImmediate)
	set(0xA1, "LDA", ModeIndirectX)
	set(0xA2, "LDX", ModeImmediate)
	set(0xA4, "LDY", ModeZeroPage)
	set(0xA5, "LDA", ModeZeroPage)
	set(0xA6, "LDX", ModeZeroPage)
	set(0xA8, "TAY", ModeImplied)
	set(0xA9, "LDA", ModeImmediate)
	set(0xAA, "TAX", ModeImplied)
	set(0xAC, "LDY", ModeAbsolute)
	set(0xAD, "LDA", ModeAbsolute)
	set(0xAE, "LDX", ModeAbsolute)
	set(0xB0, "BCS", ModeRelative)
	set(0xB1, "LDA", ModeIndirectY)
	set(0xB4, "LDY", ModeZeroPageX)
	set(0xB5, "LDA", ModeZeroPageX)
	set(0xB6, "LDX", ModeZeroPageY)
	set(0xB8, "CLV", ModeImplied)
	set(0xB9, "LDA", ModeAbsoluteY)
	set(0xBA, "TSX", ModeImplied)
	set(0xBC, "LDY", ModeAbsoluteX)
	set(0xBD, "LDA", ModeAbsoluteX)
	set(0xBE, "LDX", ModeAbsoluteY)
	set(0xC0, "CPY", ModeImmediate)
	set(0xC1, "CMP", ModeIndirectX)
	set(0xC4, "CPY", ModeZeroPage)
	set(0xC5, "CMP", ModeZeroPage)
	set(0xC6, "DEC", ModeZeroPage)
	set(0xC8, "INY", ModeImplied)
	set(0xC9, "CMP", ModeImmediate)
	set(0xCA, "DEX", ModeImplied)
	set(0xCC, "CPY", ModeAbsolute)
	set(0xCD, "CMP", ModeAbsolute)
	set(0xCE, "DEC", ModeAbsolute)
	set(0xD0, "BNE", ModeRelative)
	set(0xD1, "CMP", ModeIndirectY)
	set(0xD5, "CMP", ModeZeroPageX)
	set(0xD6, "DEC", ModeZeroPageX)
	set(0xD8, "CLD", ModeImplied)
	set(0xD9, "CMP", ModeAbsoluteY)
	set(0xDD, "CMP", ModeAbsoluteX)
	set(0xDE, "DEC", ModeAbsoluteX)
	set(0xE0, "CPX", ModeImmediate)
	set(0xE1, "SBC", ModeIndirectX)
	set(0xE4, "CPX", ModeZeroPage)
	set(0xE5, "SBC", ModeZeroPage)
	set(0xE6, "INC", ModeZeroPage)
	set(0xE8, "INX", ModeImplied)
	set(0xE9, "SBC", ModeImmediate)
	set(0xEA, "NOP", ModeImplied)
	set(0xEC, "CPX", ModeAbsolute)
	set(0xED, "SBC", ModeAbsolute)
	set(0xEE, "INC", ModeAbsolute)
	set(0xF0, "BEQ", ModeRelative)
	set(0xF1, "SBC", ModeIndirectY)
	set(0xF5, "SBC", ModeZeroPageX)
	set(0xF6, "INC", ModeZeroPageX)
	set(0xF8, "SED", ModeImplied)
	set(0xF9, "SBC", ModeAbsoluteY)
	set(0xFD, "SBC", ModeAbsoluteX)
	set(0xFE, "INC", ModeAbsoluteX)

	for op := 0; op < 256; op++ {
		if t[op].Mnemonic == "" {
			t[op] = OpcodeInfo{Mnemonic: "???", Mode: ModeImplied, Documented: false, OperandSize: 0}
		}
	}
	return t
}
