package cpu

// This file implements the 56 documented 6502 instructions' semantics
// plus the small set of generic glue functions (immediate, loadFromAddr,
// storeInstruction, rmwInstruction, runInterrupt) that thread an
// addressing-mode resolver together with a register/memory effect at
// the right tick. The functions the processOpcode dispatch switch in
// dispatch.go calls directly have the signature func(p *Chip) (bool,
// error), returning done=true on the tick the instruction completes;
// operand-consuming semantics (iADC, iAND, aslVal, ...) take the
// fetched value and are passed to the glue functions instead.

// immediate consumes the operand byte already fetched at opTick 2 and
// applies it directly; no effective address is involved. Every
// immediate-mode instruction is 2 cycles.
func (p *Chip) immediate(apply func(uint8)) (bool, error) {
	p.PC++
	apply(p.opVal)
	return true, nil
}

// loadFromAddr resolves addr, then spends exactly one more cycle
// reading the effective address and applying it via apply. Used by
// every load-style instruction (LDA/LDX/LDY/AND/ORA/EOR/ADC/SBC/CMP/
// CPX/CPY/BIT) in every non-immediate addressing mode.
func (p *Chip) loadFromAddr(addr func() (bool, error), apply func(uint8)) (bool, error) {
	if !p.addrDone {
		done, err := addr()
		if err != nil {
			return true, err
		}
		if done {
			p.addrDone = true
		}
		return false, nil
	}
	val := p.bus.Read(p.opAddr)
	apply(val)
	return true, nil
}

// storeInstruction resolves addr, then writes getVal() to it.
func (p *Chip) storeInstruction(addr func() (bool, error), getVal func() uint8) (bool, error) {
	if !p.addrDone {
		done, err := addr()
		if err != nil {
			return true, err
		}
		if done {
			p.addrDone = true
		}
		return false, nil
	}
	p.bus.Write(p.opAddr, getVal())
	return true, nil
}

// rmwInstruction resolves addr, then performs the classic 6502
// read-modify-write triple: read the old value, write it back
// unmodified (a real bus cycle on NMOS hardware), then write the new
// value computed by op.
func (p *Chip) rmwInstruction(addr func() (bool, error), op func(uint8) uint8) (bool, error) {
	if !p.addrDone {
		done, err := addr()
		if err != nil {
			return true, err
		}
		if done {
			p.addrDone = true
		}
		return false, nil
	}
	p.subStage++
	switch p.subStage {
	case 1:
		p.opVal = p.bus.Read(p.opAddr)
		return false, nil
	case 2:
		p.bus.Write(p.opAddr, p.opVal)
		p.opVal = op(p.opVal)
		return false, nil
	case 3:
		p.bus.Write(p.opAddr, p.opVal)
		p.subStage = 0
		return true, nil
	}
	return true, InvalidCPUState{"rmwInstruction: bad subStage"}
}

// runInterrupt is the shared push-registers/fetch-vector sequence used
// by hardware NMI/IRQ dispatch and by BRK. hardware=false is BRK: the
// PC advances past the padding byte BRK always carries and the B flag
// is set in the pushed copy of P (never in P itself). 7 ticks total
// including the opcode fetch.
func (p *Chip) runInterrupt(vector uint16, hardware bool) (bool, error) {
	switch p.opTick {
	case 2:
		if !hardware {
			p.PC++
		}
		return false, nil
	case 3:
		p.pushStack(uint8(p.PC >> 8))
		return false, nil
	case 4:
		p.pushStack(uint8(p.PC))
		return false, nil
	case 5:
		push := p.P | P_S1 | P_B
		if hardware {
			push &^= P_B
		}
		if p.cpuType == CPU_CMOS {
			p.P &^= P_DECIMAL
		}
		p.P |= P_INTERRUPT
		p.pushStack(push)
		return false, nil
	case 6:
		p.opVal = p.bus.Read(vector)
		return false, nil
	case 7:
		hi := p.bus.Read(vector + 1)
		p.PC = uint16(hi)<<8 | uint16(p.opVal)
		// Always run the first handler instruction before another
		// hardware interrupt can fire.
		if hardware && !p.prevSkipInterrupt {
			p.skipInterrupt = true
		}
		return true, nil
	}
	return true, InvalidCPUState{"runInterrupt: bad opTick"}
}

// iJSR pushes the return address (the address of the instruction's
// third byte; RTS compensates by adding one on the way back) and jumps
// to the absolute target.
func (p *Chip) iJSR() (bool, error) {
	switch p.opTick {
	case 2:
		p.PC++
		return false, nil
	case 3:
		// Internal stack cycle: a throwaway read while S settles.
		p.S--
		_ = p.popStack()
		return false, nil
	case 4:
		p.pushStack(uint8(p.PC >> 8))
		return false, nil
	case 5:
		p.pushStack(uint8(p.PC))
		return false, nil
	case 6:
		hi := p.bus.Read(p.PC)
		p.PC = uint16(hi)<<8 | uint16(p.opVal)
		return true, nil
	}
	return true, InvalidCPUState{"iJSR: bad opTick"}
}

// iRTS pulls the return address and advances past the JSR's operand.
func (p *Chip) iRTS() (bool, error) {
	switch p.opTick {
	case 2:
		return false, nil
	case 3:
		// Throwaway stack read while S increments.
		p.S--
		_ = p.popStack()
		return false, nil
	case 4:
		p.opVal = p.popStack()
		return false, nil
	case 5:
		hi := p.popStack()
		p.PC = uint16(hi)<<8 | uint16(p.opVal)
		return false, nil
	case 6:
		_ = p.bus.Read(p.PC)
		p.PC++
		return true, nil
	}
	return true, InvalidCPUState{"iRTS: bad opTick"}
}

// iRTI pulls P (forcing bit 5 set, B cleared as on real hardware) and
// the return PC, with no PC adjustment (distinct from RTS).
func (p *Chip) iRTI() (bool, error) {
	switch p.opTick {
	case 2:
		return false, nil
	case 3:
		p.S--
		_ = p.popStack()
		return false, nil
	case 4:
		p.P = (p.popStack() &^ P_B) | P_S1
		return false, nil
	case 5:
		p.opVal = p.popStack()
		return false, nil
	case 6:
		hi := p.popStack()
		p.PC = uint16(hi)<<8 | uint16(p.opVal)
		return true, nil
	}
	return true, InvalidCPUState{"iRTI: bad opTick"}
}

func (p *Chip) iPHA() (bool, error) {
	switch p.opTick {
	case 2:
		return false, nil
	case 3:
		p.pushStack(p.A)
		return true, nil
	}
	return true, InvalidCPUState{"iPHA: bad opTick"}
}

func (p *Chip) iPHP() (bool, error) {
	switch p.opTick {
	case 2:
		return false, nil
	case 3:
		// Bits 4 and 5 are forced on in the pushed copy, never in P.
		p.pushStack(p.P | P_S1 | P_B)
		return true, nil
	}
	return true, InvalidCPUState{"iPHP: bad opTick"}
}

func (p *Chip) iPLA() (bool, error) {
	switch p.opTick {
	case 2:
		return false, nil
	case 3:
		p.S--
		_ = p.popStack()
		return false, nil
	case 4:
		p.loadRegister(&p.A, p.popStack())
		return true, nil
	}
	return true, InvalidCPUState{"iPLA: bad opTick"}
}

func (p *Chip) iPLP() (bool, error) {
	switch p.opTick {
	case 2:
		return false, nil
	case 3:
		p.S--
		_ = p.popStack()
		return false, nil
	case 4:
		p.P = (p.popStack() &^ P_B) | P_S1
		return true, nil
	}
	return true, InvalidCPUState{"iPLP: bad opTick"}
}

// iJMP implements direct (non-indirect) JMP: the effective address
// from addrAbsolute becomes PC directly, no extra memory cycle spent.
func (p *Chip) iJMP() (bool, error) {
	if !p.addrDone {
		done, err := p.addrAbsolute()
		if err != nil {
			return true, err
		}
		if !done {
			return false, nil
		}
	}
	p.PC = p.opAddr
	return true, nil
}

// iJMPIndirect implements JMP ($nnnn), including the NMOS page-wrap bug.
func (p *Chip) iJMPIndirect() (bool, error) {
	done, err := p.addrJMPIndirect()
	if err != nil {
		return true, err
	}
	if !done {
		return false, nil
	}
	p.PC = p.opAddr
	return true, nil
}

// compare implements CMP/CPX/CPY: reg - val sets N/Z/C without storing
// the result.
func (p *Chip) compare(reg uint8, val uint8) {
	result := uint16(reg) - uint16(val)
	p.carrySet(reg >= val)
	p.zeroCheck(uint8(result))
	p.negativeCheck(uint8(result))
}

// iADC implements ADC, including NMOS/6510 decimal mode. CPU_NMOS_RICOH
// (the NES's Ricoh variant) never honors the D flag, matching the real
// chip's BCD circuitry being absent.
func (p *Chip) iADC(val uint8) {
	if p.P&P_DECIMAL != 0 && p.cpuType != CPU_NMOS_RICOH {
		p.adcDecimal(val)
		return
	}
	carry := uint16(0)
	if p.P&P_CARRY != 0 {
		carry = 1
	}
	sum := uint16(p.A) + uint16(val) + carry
	overflow := (uint16(p.A)^sum)&(uint16(val)^sum)&0x80 != 0
	p.A = uint8(sum)
	p.carrySet(sum > 0xFF)
	p.overflowSet(overflow)
	p.zeroCheck(p.A)
	p.negativeCheck(p.A)
}

func (p *Chip) adcDecimal(val uint8) {
	carry := uint16(0)
	if p.P&P_CARRY != 0 {
		carry = 1
	}
	binSum := uint16(p.A) + uint16(val) + carry
	p.zeroCheck(uint8(binSum))

	lo := (p.A & 0xF) + (val & 0xF) + uint8(carry)
	hi := uint16(p.A>>4) + uint16(val>>4)
	if lo > 9 {
		hi++
		lo += 6
	}
	overflow := (uint16(p.A)^binSum)&(uint16(val)^binSum)&0x80 != 0
	p.negativeCheck(uint8(hi << 4))
	p.overflowSet(overflow)
	if hi > 9 {
		hi += 6
	}
	p.carrySet(hi > 15)
	p.A = uint8(lo&0xF) | uint8((hi&0xF)<<4)
}

// iSBC implements SBC as ADC with the operand's ones complement, with
// a parallel decimal-mode path (NMOS/6510 BCD subtraction quirks).
func (p *Chip) iSBC(val uint8) {
	if p.P&P_DECIMAL != 0 && p.cpuType != CPU_NMOS_RICOH {
		p.sbcDecimal(val)
		return
	}
	p.iADC(val ^ 0xFF)
}

func (p *Chip) sbcDecimal(val uint8) {
	carry := uint16(0)
	if p.P&P_CARRY != 0 {
		carry = 1
	}
	binDiff := int16(p.A) - int16(val) - (1 - int16(carry))
	overflow := (uint16(p.A)^uint16(val))&(uint16(p.A)^uint16(binDiff))&0x80 != 0
	p.carrySet(binDiff >= 0)
	p.overflowSet(overflow)
	p.zeroCheck(uint8(binDiff))
	p.negativeCheck(uint8(binDiff))

	lo := int16(p.A&0xF) - int16(val&0xF) - (1 - int16(carry))
	hi := int16(p.A>>4) - int16(val>>4)
	if lo < 0 {
		lo += 10
		hi--
	}
	if hi < 0 {
		hi += 10
	}
	p.A = uint8(lo&0xF) | uint8((hi&0xF)<<4)
}

func (p *Chip) iAND(val uint8) { p.loadRegister(&p.A, p.A&val) }
func (p *Chip) iORA(val uint8) { p.loadRegister(&p.A, p.A|val) }
func (p *Chip) iEOR(val uint8) { p.loadRegister(&p.A, p.A^val) }

// iBIT sets Z from A&val, and N/V directly from val's bits 7/6.
func (p *Chip) iBIT(val uint8) {
	p.zeroCheck(p.A & val)
	p.negativeCheck(val)
	p.overflowSet(val&P_OVERFLOW != 0)
}

func (p *Chip) aslVal(val uint8) uint8 {
	p.carrySet(val&0x80 != 0)
	result := val << 1
	p.zeroCheck(result)
	p.negativeCheck(result)
	return result
}

func (p *Chip) lsrVal(val uint8) uint8 {
	p.carrySet(val&0x01 != 0)
	result := val >> 1
	p.zeroCheck(result)
	p.negativeCheck(result)
	return result
}

func (p *Chip) rolVal(val uint8) uint8 {
	carryIn := uint8(0)
	if p.P&P_CARRY != 0 {
		carryIn = 1
	}
	p.carrySet(val&0x80 != 0)
	result := (val << 1) | carryIn
	p.zeroCheck(result)
	p.negativeCheck(result)
	return result
}

func (p *Chip) rorVal(val uint8) uint8 {
	carryIn := uint8(0)
	if p.P&P_CARRY != 0 {
		carryIn = 0x80
	}
	p.carrySet(val&0x01 != 0)
	result := (val >> 1) | carryIn
	p.zeroCheck(result)
	p.negativeCheck(result)
	return result
}

func (p *Chip) iASLAcc() (bool, error) {
	p.A = p.aslVal(p.A)
	return true, nil
}
func (p *Chip) iLSRAcc() (bool, error) {
	p.A = p.lsrVal(p.A)
	return true, nil
}
func (p *Chip) iROLAcc() (bool, error) {
	p.A = p.rolVal(p.A)
	return true, nil
}
func (p *Chip) iRORAcc() (bool, error) {
	p.A = p.rorVal(p.A)
	return true, nil
}

func (p *Chip) incVal(val uint8) uint8 {
	result := val + 1
	p.zeroCheck(result)
	p.negativeCheck(result)
	return result
}
func (p *Chip) decVal(val uint8) uint8 {
	result := val - 1
	p.zeroCheck(result)
	p.negativeCheck(result)
	return result
}

func (p *Chip) iINX() (bool, error) { p.loadRegister(&p.X, p.X+1); return true, nil }
func (p *Chip) iINY() (bool, error) { p.loadRegister(&p.Y, p.Y+1); return true, nil }
func (p *Chip) iDEX() (bool, error) { p.loadRegister(&p.X, p.X-1); return true, nil }
func (p *Chip) iDEY() (bool, error) { p.loadRegister(&p.Y, p.Y-1); return true, nil }

func (p *Chip) iTAX() (bool, error) { p.loadRegister(&p.X, p.A); return true, nil }
func (p *Chip) iTAY() (bool, error) { p.loadRegister(&p.Y, p.A); return true, nil }
func (p *Chip) iTXA() (bool, error) { p.loadRegister(&p.A, p.X); return true, nil }
func (p *Chip) iTYA() (bool, error) { p.loadRegister(&p.A, p.Y); return true, nil }
func (p *Chip) iTSX() (bool, error) { p.loadRegister(&p.X, p.S); return true, nil }
func (p *Chip) iTXS() (bool, error) { p.S = p.X; return true, nil } // TXS never touches N/Z.

func (p *Chip) iCLC() (bool, error) { p.carrySet(false); return true, nil }
func (p *Chip) iSEC() (bool, error) { p.carrySet(true); return true, nil }
func (p *Chip) iCLI() (bool, error) { p.P &^= P_INTERRUPT; return true, nil }
func (p *Chip) iSEI() (bool, error) { p.P |= P_INTERRUPT; return true, nil }
func (p *Chip) iCLV() (bool, error) { p.overflowSet(false); return true, nil }
func (p *Chip) iCLD() (bool, error) { p.P &^= P_DECIMAL; return true, nil }
func (p *Chip) iSED() (bool, error) { p.P |= P_DECIMAL; return true, nil }
func (p *Chip) iNOP() (bool, error) { return true, nil }

// iBranch implements the 8 conditional branches via performBranch.
func (p *Chip) iBranch(cond bool) (bool, error) {
	return p.performBranch(cond)
}

func (p *Chip) iBPL() (bool, error) { return p.iBranch(p.P&P_NEGATIVE == 0) }
func (p *Chip) iBMI() (bool, error) { return p.iBranch(p.P&P_NEGATIVE != 0) }
func (p *Chip) iBVC() (bool, error) { return p.iBranch(p.P&P_OVERFLOW == 0) }
func (p *Chip) iBVS() (bool, error) { return p.iBranch(p.P&P_OVERFLOW != 0) }
func (p *Chip) iBCC() (bool, error) { return p.iBranch(p.P&P_CARRY == 0) }
func (p *Chip) iBCS() (bool, error) { return p.iBranch(p.P&P_CARRY != 0) }
func (p *Chip) iBNE() (bool, error) { return p.iBranch(p.P&P_ZERO == 0) }
func (p *Chip) iBEQ() (bool, error) { return p.iBranch(p.P&P_ZERO != 0) }
