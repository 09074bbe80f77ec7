package cpu

// processOpcode is the single decode/execute entry point, called once
// per tick starting at opTick 2 for every instruction that isn't an
// in-flight hardware interrupt. Per spec this may be expressed either
// as a literal dispatch table or as an exhaustive switch; this core
// uses the switch and keeps OpcodeTable (table.go) purely as a
// read-only description for disassembly and introspection, never as
// what actually executes. The compiler does not check the switch for
// completeness: a documented opcode missing from it is reported at run
// time as InvalidCPUState.
func (p *Chip) processOpcode() (bool, error) {
	if p.illegalProfile == IllegalStrict && !documentedOpcode[p.op] {
		return p.illegalNOP()
	}

	switch p.op {
	// Control flow / stack / flags.
	case 0x00:
		return p.runInterrupt(IRQ_VECTOR, false)
	case 0x08:
		return p.iPHP()
	case 0x28:
		return p.iPLP()
	case 0x48:
		return p.iPHA()
	case 0x68:
		return p.iPLA()
	case 0x20:
		return p.iJSR()
	case 0x40:
		return p.iRTI()
	case 0x60:
		return p.iRTS()
	case 0x4C:
		return p.iJMP()
	case 0x6C:
		return p.iJMPIndirect()
	case 0x18:
		return p.iCLC()
	case 0x38:
		return p.iSEC()
	case 0x58:
		return p.iCLI()
	case 0x78:
		return p.iSEI()
	case 0xB8:
		return p.iCLV()
	case 0xD8:
		return p.iCLD()
	case 0xF8:
		return p.iSED()
	case 0xEA:
		return p.iNOP()

	// Register transfers / increments / decrements.
	case 0xAA:
		return p.iTAX()
	case 0xA8:
		return p.iTAY()
	case 0x8A:
		return p.iTXA()
	case 0x98:
		return p.iTYA()
	case 0xBA:
		return p.iTSX()
	case 0x9A:
		return p.iTXS()
	case 0xE8:
		return p.iINX()
	case 0xC8:
		return p.iINY()
	case 0xCA:
		return p.iDEX()
	case 0x88:
		return p.iDEY()

	// Branches.
	case 0x10:
		return p.iBPL()
	case 0x30:
		return p.iBMI()
	case 0x50:
		return p.iBVC()
	case 0x70:
		return p.iBVS()
	case 0x90:
		return p.iBCC()
	case 0xB0:
		return p.iBCS()
	case 0xD0:
		return p.iBNE()
	case 0xF0:
		return p.iBEQ()

	// Accumulator shifts/rotates.
	case 0x0A:
		return p.iASLAcc()
	case 0x4A:
		return p.iLSRAcc()
	case 0x2A:
		return p.iROLAcc()
	case 0x6A:
		return p.iRORAcc()

	// LDA.
	case 0xA9:
		return p.immediate(func(v uint8) { p.loadRegister(&p.A, v) })
	case 0xA5:
		return p.loadFromAddr(p.addrZeroPage, func(v uint8) { p.loadRegister(&p.A, v) })
	case 0xB5:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, func(v uint8) { p.loadRegister(&p.A, v) })
	case 0xAD:
		return p.loadFromAddr(p.addrAbsolute, func(v uint8) { p.loadRegister(&p.A, v) })
	case 0xBD:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, func(v uint8) { p.loadRegister(&p.A, v) })
	case 0xB9:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, func(v uint8) { p.loadRegister(&p.A, v) })
	case 0xA1:
		return p.loadFromAddr(p.addrIndirectX, func(v uint8) { p.loadRegister(&p.A, v) })
	case 0xB1:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, func(v uint8) { p.loadRegister(&p.A, v) })

	// LDX.
	case 0xA2:
		return p.immediate(func(v uint8) { p.loadRegister(&p.X, v) })
	case 0xA6:
		return p.loadFromAddr(p.addrZeroPage, func(v uint8) { p.loadRegister(&p.X, v) })
	case 0xB6:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.Y) }, func(v uint8) { p.loadRegister(&p.X, v) })
	case 0xAE:
		return p.loadFromAddr(p.addrAbsolute, func(v uint8) { p.loadRegister(&p.X, v) })
	case 0xBE:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, func(v uint8) { p.loadRegister(&p.X, v) })

	// LDY.
	case 0xA0:
		return p.immediate(func(v uint8) { p.loadRegister(&p.Y, v) })
	case 0xA4:
		return p.loadFromAddr(p.addrZeroPage, func(v uint8) { p.loadRegister(&p.Y, v) })
	case 0xB4:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, func(v uint8) { p.loadRegister(&p.Y, v) })
	case 0xAC:
		return p.loadFromAddr(p.addrAbsolute, func(v uint8) { p.loadRegister(&p.Y, v) })
	case 0xBC:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, func(v uint8) { p.loadRegister(&p.Y, v) })

	// STA.
	case 0x85:
		return p.storeInstruction(p.addrZeroPage, func() uint8 { return p.A })
	case 0x95:
		return p.storeInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, func() uint8 { return p.A })
	case 0x8D:
		return p.storeInstruction(p.addrAbsolute, func() uint8 { return p.A })
	case 0x9D:
		return p.storeInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, func() uint8 { return p.A })
	case 0x99:
		return p.storeInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) }, func() uint8 { return p.A })
	case 0x81:
		return p.storeInstruction(p.addrIndirectX, func() uint8 { return p.A })
	case 0x91:
		return p.storeInstruction(func() (bool, error) { return p.addrIndirectY(true) }, func() uint8 { return p.A })

	// STX / STY.
	case 0x86:
		return p.storeInstruction(p.addrZeroPage, func() uint8 { return p.X })
	case 0x96:
		return p.storeInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.Y) }, func() uint8 { return p.X })
	case 0x8E:
		return p.storeInstruction(p.addrAbsolute, func() uint8 { return p.X })
	case 0x84:
		return p.storeInstruction(p.addrZeroPage, func() uint8 { return p.Y })
	case 0x94:
		return p.storeInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, func() uint8 { return p.Y })
	case 0x8C:
		return p.storeInstruction(p.addrAbsolute, func() uint8 { return p.Y })

	// ADC.
	case 0x69:
		return p.immediate(p.iADC)
	case 0x65:
		return p.loadFromAddr(p.addrZeroPage, p.iADC)
	case 0x75:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.iADC)
	case 0x6D:
		return p.loadFromAddr(p.addrAbsolute, p.iADC)
	case 0x7D:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, p.iADC)
	case 0x79:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, p.iADC)
	case 0x61:
		return p.loadFromAddr(p.addrIndirectX, p.iADC)
	case 0x71:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, p.iADC)

	// SBC.
	case 0xE9:
		return p.immediate(p.iSBC)
	case 0xE5:
		return p.loadFromAddr(p.addrZeroPage, p.iSBC)
	case 0xF5:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.iSBC)
	case 0xED:
		return p.loadFromAddr(p.addrAbsolute, p.iSBC)
	case 0xFD:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, p.iSBC)
	case 0xF9:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, p.iSBC)
	case 0xE1:
		return p.loadFromAddr(p.addrIndirectX, p.iSBC)
	case 0xF1:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, p.iSBC)

	// AND.
	case 0x29:
		return p.immediate(p.iAND)
	case 0x25:
		return p.loadFromAddr(p.addrZeroPage, p.iAND)
	case 0x35:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.iAND)
	case 0x2D:
		return p.loadFromAddr(p.addrAbsolute, p.iAND)
	case 0x3D:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, p.iAND)
	case 0x39:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, p.iAND)
	case 0x21:
		return p.loadFromAddr(p.addrIndirectX, p.iAND)
	case 0x31:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, p.iAND)

	// ORA.
	case 0x09:
		return p.immediate(p.iORA)
	case 0x05:
		return p.loadFromAddr(p.addrZeroPage, p.iORA)
	case 0x15:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.iORA)
	case 0x0D:
		return p.loadFromAddr(p.addrAbsolute, p.iORA)
	case 0x1D:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, p.iORA)
	case 0x19:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, p.iORA)
	case 0x01:
		return p.loadFromAddr(p.addrIndirectX, p.iORA)
	case 0x11:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, p.iORA)

	// EOR.
	case 0x49:
		return p.immediate(p.iEOR)
	case 0x45:
		return p.loadFromAddr(p.addrZeroPage, p.iEOR)
	case 0x55:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.iEOR)
	case 0x4D:
		return p.loadFromAddr(p.addrAbsolute, p.iEOR)
	case 0x5D:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, p.iEOR)
	case 0x59:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, p.iEOR)
	case 0x41:
		return p.loadFromAddr(p.addrIndirectX, p.iEOR)
	case 0x51:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, p.iEOR)

	// BIT.
	case 0x24:
		return p.loadFromAddr(p.addrZeroPage, p.iBIT)
	case 0x2C:
		return p.loadFromAddr(p.addrAbsolute, p.iBIT)

	// CMP.
	case 0xC9:
		return p.immediate(func(v uint8) { p.compare(p.A, v) })
	case 0xC5:
		return p.loadFromAddr(p.addrZeroPage, func(v uint8) { p.compare(p.A, v) })
	case 0xD5:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, func(v uint8) { p.compare(p.A, v) })
	case 0xCD:
		return p.loadFromAddr(p.addrAbsolute, func(v uint8) { p.compare(p.A, v) })
	case 0xDD:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, func(v uint8) { p.compare(p.A, v) })
	case 0xD9:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, func(v uint8) { p.compare(p.A, v) })
	case 0xC1:
		return p.loadFromAddr(p.addrIndirectX, func(v uint8) { p.compare(p.A, v) })
	case 0xD1:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, func(v uint8) { p.compare(p.A, v) })

	// CPX / CPY.
	case 0xE0:
		return p.immediate(func(v uint8) { p.compare(p.X, v) })
	case 0xE4:
		return p.loadFromAddr(p.addrZeroPage, func(v uint8) { p.compare(p.X, v) })
	case 0xEC:
		return p.loadFromAddr(p.addrAbsolute, func(v uint8) { p.compare(p.X, v) })
	case 0xC0:
		return p.immediate(func(v uint8) { p.compare(p.Y, v) })
	case 0xC4:
		return p.loadFromAddr(p.addrZeroPage, func(v uint8) { p.compare(p.Y, v) })
	case 0xCC:
		return p.loadFromAddr(p.addrAbsolute, func(v uint8) { p.compare(p.Y, v) })

	// ASL.
	case 0x06:
		return p.rmwInstruction(p.addrZeroPage, p.aslVal)
	case 0x16:
		return p.rmwInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.aslVal)
	case 0x0E:
		return p.rmwInstruction(p.addrAbsolute, p.aslVal)
	case 0x1E:
		return p.rmwInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, p.aslVal)

	// LSR.
	case 0x46:
		return p.rmwInstruction(p.addrZeroPage, p.lsrVal)
	case 0x56:
		return p.rmwInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.lsrVal)
	case 0x4E:
		return p.rmwInstruction(p.addrAbsolute, p.lsrVal)
	case 0x5E:
		return p.rmwInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, p.lsrVal)

	// ROL.
	case 0x26:
		return p.rmwInstruction(p.addrZeroPage, p.rolVal)
	case 0x36:
		return p.rmwInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.rolVal)
	case 0x2E:
		return p.rmwInstruction(p.addrAbsolute, p.rolVal)
	case 0x3E:
		return p.rmwInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, p.rolVal)

	// ROR.
	case 0x66:
		return p.rmwInstruction(p.addrZeroPage, p.rorVal)
	case 0x76:
		return p.rmwInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.rorVal)
	case 0x6E:
		return p.rmwInstruction(p.addrAbsolute, p.rorVal)
	case 0x7E:
		return p.rmwInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, p.rorVal)

	// INC / DEC.
	case 0xE6:
		return p.rmwInstruction(p.addrZeroPage, p.incVal)
	case 0xF6:
		return p.rmwInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.incVal)
	case 0xEE:
		return p.rmwInstruction(p.addrAbsolute, p.incVal)
	case 0xFE:
		return p.rmwInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, p.incVal)
	case 0xC6:
		return p.rmwInstruction(p.addrZeroPage, p.decVal)
	case 0xD6:
		return p.rmwInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, p.decVal)
	case 0xCE:
		return p.rmwInstruction(p.addrAbsolute, p.decVal)
	case 0xDE:
		return p.rmwInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, p.decVal)
	}

	if p.illegalProfile == IllegalPermissive {
		return p.processIllegalOpcode()
	}
	// Strict profile never reaches here (every non-documented opcode was
	// already diverted to illegalNOP above); a documented opcode that
	// falls through the switch is a bug in the table, not user error.
	return true, InvalidCPUState{"unimplemented documented opcode"}
}

// illegalNOP is the strict-profile treatment of every opcode outside
// the documented 56: always 2 cycles, the diagnostic observer (if any)
// is notified, and execution never touches any addressing mode.
func (p *Chip) illegalNOP() (bool, error) {
	if p.illegalObserver != nil {
		p.illegalObserver(IllegalOpcodeReport{Opcode: p.op, PC: p.PC - 1})
	}
	return true, nil
}

// processIllegalOpcode dispatches the permissive-profile undocumented
// opcode semantics (illegal.go). Only reached when IllegalOpcodes ==
// IllegalPermissive.
func (p *Chip) processIllegalOpcode() (bool, error) {
	switch p.op {
	// SLO.
	case 0x07:
		return p.iSLO(p.addrZeroPage)
	case 0x17:
		return p.iSLO(func() (bool, error) { return p.addrZeroPageIndexed(p.X) })
	case 0x0F:
		return p.iSLO(p.addrAbsolute)
	case 0x1F:
		return p.iSLO(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) })
	case 0x1B:
		return p.iSLO(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) })
	case 0x03:
		return p.iSLO(p.addrIndirectX)
	case 0x13:
		return p.iSLO(func() (bool, error) { return p.addrIndirectY(true) })

	// RLA.
	case 0x27:
		return p.iRLA(p.addrZeroPage)
	case 0x37:
		return p.iRLA(func() (bool, error) { return p.addrZeroPageIndexed(p.X) })
	case 0x2F:
		return p.iRLA(p.addrAbsolute)
	case 0x3F:
		return p.iRLA(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) })
	case 0x3B:
		return p.iRLA(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) })
	case 0x23:
		return p.iRLA(p.addrIndirectX)
	case 0x33:
		return p.iRLA(func() (bool, error) { return p.addrIndirectY(true) })

	// SRE.
	case 0x47:
		return p.iSRE(p.addrZeroPage)
	case 0x57:
		return p.iSRE(func() (bool, error) { return p.addrZeroPageIndexed(p.X) })
	case 0x4F:
		return p.iSRE(p.addrAbsolute)
	case 0x5F:
		return p.iSRE(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) })
	case 0x5B:
		return p.iSRE(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) })
	case 0x43:
		return p.iSRE(p.addrIndirectX)
	case 0x53:
		return p.iSRE(func() (bool, error) { return p.addrIndirectY(true) })

	// RRA.
	case 0x67:
		return p.iRRA(p.addrZeroPage)
	case 0x77:
		return p.iRRA(func() (bool, error) { return p.addrZeroPageIndexed(p.X) })
	case 0x6F:
		return p.iRRA(p.addrAbsolute)
	case 0x7F:
		return p.iRRA(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) })
	case 0x7B:
		return p.iRRA(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) })
	case 0x63:
		return p.iRRA(p.addrIndirectX)
	case 0x73:
		return p.iRRA(func() (bool, error) { return p.addrIndirectY(true) })

	// DCP.
	case 0xC7:
		return p.iDCP(p.addrZeroPage)
	case 0xD7:
		return p.iDCP(func() (bool, error) { return p.addrZeroPageIndexed(p.X) })
	case 0xCF:
		return p.iDCP(p.addrAbsolute)
	case 0xDF:
		return p.iDCP(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) })
	case 0xDB:
		return p.iDCP(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) })
	case 0xC3:
		return p.iDCP(p.addrIndirectX)
	case 0xD3:
		return p.iDCP(func() (bool, error) { return p.addrIndirectY(true) })

	// ISC.
	case 0xE7:
		return p.iISC(p.addrZeroPage)
	case 0xF7:
		return p.iISC(func() (bool, error) { return p.addrZeroPageIndexed(p.X) })
	case 0xEF:
		return p.iISC(p.addrAbsolute)
	case 0xFF:
		return p.iISC(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) })
	case 0xFB:
		return p.iISC(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) })
	case 0xE3:
		return p.iISC(p.addrIndirectX)
	case 0xF3:
		return p.iISC(func() (bool, error) { return p.addrIndirectY(true) })

	// SAX.
	case 0x87:
		return p.storeInstruction(p.addrZeroPage, p.iSAX)
	case 0x97:
		return p.storeInstruction(func() (bool, error) { return p.addrZeroPageIndexed(p.Y) }, p.iSAX)
	case 0x8F:
		return p.storeInstruction(p.addrAbsolute, p.iSAX)
	case 0x83:
		return p.storeInstruction(p.addrIndirectX, p.iSAX)

	// LAX.
	case 0xA7:
		return p.loadFromAddr(p.addrZeroPage, p.iLAX)
	case 0xB7:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.Y) }, p.iLAX)
	case 0xAF:
		return p.loadFromAddr(p.addrAbsolute, p.iLAX)
	case 0xBF:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, p.iLAX)
	case 0xA3:
		return p.loadFromAddr(p.addrIndirectX, p.iLAX)
	case 0xB3:
		return p.loadFromAddr(func() (bool, error) { return p.addrIndirectY(false) }, p.iLAX)
	case 0xAB:
		return p.immediate(p.iLAX)

	// Immediate-only oddities.
	case 0x0B, 0x2B:
		return p.immediate(p.iANC)
	case 0x4B:
		return p.immediate(p.iALR)
	case 0x6B:
		return p.immediate(p.iARR)
	case 0xCB:
		return p.immediate(p.iAXS)
	case 0xEB:
		return p.immediate(p.iSBC)
	case 0x8B:
		return p.immediate(p.iXAA)
	case 0xBB:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, false) }, p.iLAS)

	// Unstable high-byte-AND-store family.
	case 0x9C:
		return p.storeInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, true) }, p.iSHY)
	case 0x9E:
		return p.storeInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) }, p.iSHX)
	case 0x93:
		return p.storeInstruction(func() (bool, error) { return p.addrIndirectY(true) }, p.iAHX)
	case 0x9F:
		return p.storeInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) }, p.iAHX)
	case 0x9B:
		return p.storeInstruction(func() (bool, error) { return p.addrAbsoluteIndexed(p.Y, true) }, p.iTAS)

	// HLT / JAM / KIL: the CPU stops responding until a reset.
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		p.halted = true
		return true, HaltOpcode{p.op}

	// Illegal NOPs, grouped by how many bytes/cycles they burn. These are
	// executed for timing fidelity (some test ROMs depend on them) even
	// though permissive mode otherwise exists for instruction semantics.
	case 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		return true, nil
	case 0x80, 0x82, 0x89, 0xC2, 0xE2:
		return p.immediate(func(uint8) {})
	case 0x04, 0x44, 0x64:
		return p.loadFromAddr(p.addrZeroPage, func(uint8) {})
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		return p.loadFromAddr(func() (bool, error) { return p.addrZeroPageIndexed(p.X) }, func(uint8) {})
	case 0x0C:
		return p.loadFromAddr(p.addrAbsolute, func(uint8) {})
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		return p.loadFromAddr(func() (bool, error) { return p.addrAbsoluteIndexed(p.X, false) }, func(uint8) {})
	}
	return true, InvalidCPUState{"unimplemented illegal opcode"}
}
