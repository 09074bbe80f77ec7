package cpu

// This file implements the well-known NMOS undocumented opcodes,
// exercised only when a Chip is constructed with IllegalOpcodes:
// IllegalPermissive. None of it is load-bearing for the documented
// instruction contract; every function here is additional behavior
// layered on top of the same addressing-mode resolvers and RMW/store
// glue used by the documented instructions.
//
// A few of these (XAA, LAS, SHX/SHY/AHX/TAS) are famously unstable on
// real silicon, depending on analog bus capacitance effects that vary
// chip to chip. The constants used below follow the commonly accepted
// approximation used by most software emulators rather than attempting
// to model the analog instability.

// combinedRMW builds an illegal-opcode RMW instruction out of a memory
// op (applied to the read value and written back, like a documented
// RMW) plus an accumulator-combining op run against the same value
// afterwards (SLO/RLA/SRE/RRA/DCP/ISC all share this shape).
func (p *Chip) combinedRMW(addr func() (bool, error), memOp func(uint8) uint8, accOp func(uint8)) (bool, error) {
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
		p.opVal = memOp(p.opVal)
		return false, nil
	case 3:
		p.bus.Write(p.opAddr, p.opVal)
		accOp(p.opVal)
		p.subStage = 0
		return true, nil
	}
	return true, InvalidCPUState{"combinedRMW: bad subStage"}
}

func (p *Chip) iSLO(addr func() (bool, error)) (bool, error) {
	return p.combinedRMW(addr, p.aslVal, p.iORA)
}
func (p *Chip) iRLA(addr func() (bool, error)) (bool, error) {
	return p.combinedRMW(addr, p.rolVal, p.iAND)
}
func (p *Chip) iSRE(addr func() (bool, error)) (bool, error) {
	return p.combinedRMW(addr, p.lsrVal, p.iEOR)
}
func (p *Chip) iRRA(addr func() (bool, error)) (bool, error) {
	return p.combinedRMW(addr, p.rorVal, p.iADC)
}
func (p *Chip) iDCP(addr func() (bool, error)) (bool, error) {
	return p.combinedRMW(addr, p.decVal, func(val uint8) { p.compare(p.A, val) })
}
func (p *Chip) iISC(addr func() (bool, error)) (bool, error) {
	return p.combinedRMW(addr, p.incVal, p.iSBC)
}

// iLAX loads both A and X with the same value (LDA+LDX fused).
func (p *Chip) iLAX(val uint8) {
	p.loadRegister(&p.A, val)
	p.loadRegister(&p.X, val)
}

// iSAX stores A&X with no flags touched.
func (p *Chip) iSAX() uint8 {
	return p.A & p.X
}

// iANC performs a normal AND immediate, then copies the resulting sign
// bit into carry (used as a cheap way to set/clear C based on bit 7).
func (p *Chip) iANC(val uint8) {
	p.iAND(val)
	p.carrySet(p.A&0x80 != 0)
}

// iALR ANDs then logical-shifts right.
func (p *Chip) iALR(val uint8) {
	p.iAND(val)
	p.A = p.lsrVal(p.A)
}

// iARR ANDs then rotates right, with the flag-setting quirks unique to
// this opcode (C/V derived from bits 6/5 of the rotated result rather
// than a plain ROR).
func (p *Chip) iARR(val uint8) {
	p.A &= val
	carryIn := uint8(0)
	if p.P&P_CARRY != 0 {
		carryIn = 0x80
	}
	result := (p.A >> 1) | carryIn
	p.zeroCheck(result)
	p.negativeCheck(result)
	p.carrySet(result&0x40 != 0)
	p.overflowSet((result>>6)&1^(result>>5)&1 != 0)
	p.A = result
}

// iAXS computes X = (A&X) - val (unsigned subtract, like CMP), setting
// C on no-borrow and N/Z from the result, with no overflow handling.
func (p *Chip) iAXS(val uint8) {
	base := p.A & p.X
	result := uint16(base) - uint16(val)
	p.carrySet(base >= val)
	p.X = uint8(result)
	p.zeroCheck(p.X)
	p.negativeCheck(p.X)
}

// iXAA approximates the unstable "A = (A | magic) & X & val" shape
// commonly used to model this opcode's behavior.
func (p *Chip) iXAA(val uint8) {
	const magic = 0xEE
	p.loadRegister(&p.A, (p.A|magic)&p.X&val)
}

// iLAS loads A, X and S all with mem&S.
func (p *Chip) iLAS(val uint8) {
	result := val & p.S
	p.A = result
	p.X = result
	p.S = result
	p.zeroCheck(result)
	p.negativeCheck(result)
}

// highByteAndStore implements the SHX/SHY/AHX/TAS family: val is
// ANDed with (addrHi+1) and stored to the effective address. Real
// hardware only behaves this way reliably when no page boundary was
// crossed; this approximation ignores that instability.
func (p *Chip) highByteAndStore(val uint8) uint8 {
	return val & uint8((p.opAddr>>8)+1)
}

func (p *Chip) iSHX() uint8 { return p.highByteAndStore(p.X) }
func (p *Chip) iSHY() uint8 { return p.highByteAndStore(p.Y) }
func (p *Chip) iAHX() uint8 { return p.highByteAndStore(p.A & p.X) }

// iTAS sets S = A&X before storing the SHX/SHY-style masked value.
func (p *Chip) iTAS() uint8 {
	p.S = p.A & p.X
	return p.highByteAndStore(p.S)
}

// documentedOpcode is the static legality table: true for every one of
// the 151 opcode encodings that implement one of the 56 documented
// instructions, false for the 105 undocumented encodings (including
// the documented-NOP-equivalent illegal NOPs and the HLT/JAM family).
// Strict-profile dispatch consults this before ever entering the
// opcode switch in dispatch.go.
var documentedOpcode = [256]bool{
	0x00: true, 0x01: true, 0x05: true, 0x06: true, 0x08: true, 0x09: true, 0x0A: true, 0x0D: true, 0x0E: true,
	0x10: true, 0x11: true, 0x15: true, 0x16: true, 0x18: true, 0x19: true, 0x1D: true, 0x1E: true,
	0x20: true, 0x21: true, 0x24: true, 0x25: true, 0x26: true, 0x28: true, 0x29: true, 0x2A: true, 0x2C: true, 0x2D: true, 0x2E: true,
	0x30: true, 0x31: true, 0x35: true, 0x36: true, 0x38: true, 0x39: true, 0x3D: true, 0x3E: true,
	0x40: true, 0x41: true, 0x45: true, 0x46: true, 0x48: true, 0x49: true, 0x4A: true, 0x4C: true, 0x4D: true, 0x4E: true,
	0x50: true, 0x51: true, 0x55: true, 0x56: true, 0x58: true, 0x59: true, 0x5D: true, 0x5E: true,
	0x60: true, 0x61: true, 0x65: true, 0x66: true, 0x68: true, 0x69: true, 0x6A: true, 0x6C: true, 0x6D: true, 0x6E: true,
	0x70: true, 0x71: true, 0x75: true, 0x76: true, 0x78: true, 0x79: true, 0x7D: true, 0x7E: true,
	0x81: true, 0x84: true, 0x85: true, 0x86: true, 0x88: true, 0x8A: true, 0x8C: true, 0x8D: true, 0x8E: true,
	0x90: true, 0x91: true, 0x94: true, 0x95: true, 0x96: true, 0x98: true, 0x99: true, 0x9A: true, 0x9D: true,
	0xA0: true, 0xA1: true, 0xA2: true, 0xA4: true, 0xA5: true, 0xA6: true, 0xA8: true, 0xA9: true, 0xAA: true, 0xAC: true, 0xAD: true, 0xAE: true,
	0xB0: true, 0xB1: true, 0xB4: true, 0xB5: true, 0xB6: true, 0xB8: true, 0xB9: true, 0xBA: true, 0xBC: true, 0xBD: true, 0xBE: true,
	0xC0: true, 0xC1: true, 0xC4: true, 0xC5: true, 0xC6: true, 0xC8: true, 0xC9: true, 0xCA: true, 0xCC: true, 0xCD: true, 0xCE: true,
	0xD0: true, 0xD1: true, 0xD5: true, 0xD6: true, 0xD8: true, 0xD9: true, 0xDD: true, 0xDE: true,
	0xE0: true, 0xE1: true, 0xE4: true, 0xE5: true, 0xE6: true, 0xE8: true, 0xE9: true, 0xEA: true, 0xEC: true, 0xED: true, 0xEE: true,
	0xF0: true, 0xF1: true, 0xF5: true, 0xF6: true, 0xF8: true, 0xF9: true, 0xFD: true, 0xFE: true,
}
