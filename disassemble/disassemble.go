// Package disassemble renders the instruction at a given address as
// text, for optional runtime inspection (the tui debugger) and offline
// tooling (cmd/6502run --trace). It never mutates CPU or bus
// state beyond the reads needed to decode.
package disassemble

import (
	"fmt"

	"github.com/go6502/core/cpu"
	"github.com/go6502/core/memory"
)

// Step disassembles the instruction at pc and returns its text plus
// the number of bytes (including the opcode byte) it occupies, so a
// caller can advance to the next instruction. This does not follow
// control flow: a JMP/JSR target is rendered as an operand, not chased.
func Step(pc uint16, bus memory.Bus) (string, int) {
	op := bus.Read(pc)
	info := cpu.OpcodeTable[op]
	size := 1 + info.OperandSize

	mnemonic := info.Mnemonic
	if !info.Documented {
		mnemonic = "*" + mnemonic
	}

	switch info.Mode {
	case cpu.ModeImplied:
		return mnemonic, size
	case cpu.ModeAccumulator:
		return fmt.Sprintf("%s A", mnemonic), size
	case cpu.ModeImmediate:
		return fmt.Sprintf("%s #$%.2X", mnemonic, bus.Read(pc+1)), size
	case cpu.ModeZeroPage:
		return fmt.Sprintf("%s $%.2X", mnemonic, bus.Read(pc+1)), size
	case cpu.ModeZeroPageX:
		return fmt.Sprintf("%s $%.2X,X", mnemonic, bus.Read(pc+1)), size
	case cpu.ModeZeroPageY:
		return fmt.Sprintf("%s $%.2X,Y", mnemonic, bus.Read(pc+1)), size
	case cpu.ModeRelative:
		offset := int8(bus.Read(pc + 1))
		target := uint16(int32(pc) + 2 + int32(offset))
		return fmt.Sprintf("%s $%.4X", mnemonic, target), size
	case cpu.ModeIndirectX:
		return fmt.Sprintf("%s ($%.2X,X)", mnemonic, bus.Read(pc+1)), size
	case cpu.ModeIndirectY:
		return fmt.Sprintf("%s ($%.2X),Y", mnemonic, bus.Read(pc+1)), size
	case cpu.ModeAbsolute:
		return fmt.Sprintf("%s $%.4X", mnemonic, addr16(bus, pc+1)), size
	case cpu.ModeAbsoluteX:
		return fmt.Sprintf("%s $%.4X,X", mnemonic, addr16(bus, pc+1)), size
	case cpu.ModeAbsoluteY:
		return fmt.Sprintf("%s $%.4X,Y", mnemonic, addr16(bus, pc+1)), size
	case cpu.ModeIndirect:
		return fmt.Sprintf("%s ($%.4X)", mnemonic, addr16(bus, pc+1)), size
	}
	return mnemonic, size
}

func addr16(bus memory.Bus, addr uint16) uint16 {
	return uint16(bus.Read(addr+1))<<8 | uint16(bus.Read(addr))
}
