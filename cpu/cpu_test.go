package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	deep "github.com/go-test/deep"

	"github.com/go6502/core/memory"
)

// flatMemory implements memory.Bus directly over a 64K array, with no
// power-on randomization so tests are deterministic.
type flatMemory struct {
	mem [65536]uint8
}

func (m *flatMemory) Read(addr uint16) uint8       { return m.mem[addr] }
func (m *flatMemory) Write(addr uint16, val uint8) { m.mem[addr] = val }
func (m *flatMemory) PowerOn()                     {}
func (m *flatMemory) Parent() memory.Bus           { return nil }
func (m *flatMemory) DatabusVal() uint8            { return 0 }

// setup builds a Chip over a fresh flatMemory with the reset vector
// pointed at start, ready to run the given program loaded at start.
func setup(t *testing.T, start uint16, program []uint8) (*Chip, *flatMemory) {
	t.Helper()
	mem := &flatMemory{}
	mem.mem[RESET_VECTOR] = uint8(start)
	mem.mem[RESET_VECTOR+1] = uint8(start >> 8)
	for i, b := range program {
		mem.mem[int(start)+i] = b
	}
	c, err := Init(&ChipDef{Cpu: CPU_NMOS, Bus: mem})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if c.PC != start {
		t.Fatalf("PC after reset = %.4X, want %.4X", c.PC, start)
	}
	return c, mem
}

// step clocks c until the in-flight instruction (or interrupt/reset
// sequence) completes, returning the number of cycles spent.
func step(t *testing.T, c *Chip) int {
	t.Helper()
	cycles := 0
	for {
		if err := c.Clock(); err != nil {
			t.Fatalf("Clock: %v", err)
		}
		cycles++
		if c.InstructionDone() {
			return cycles
		}
		if cycles > 20 {
			t.Fatalf("instruction did not complete within 20 cycles: %s", spew.Sdump(c))
		}
	}
}

func TestLDAImmediateFlags(t *testing.T) {
	tests := []struct {
		name      string
		val       uint8
		wantZero  bool
		wantNeg   bool
		wantCycle int
	}{
		{"zero", 0x00, true, false, 2},
		{"positive", 0x42, false, false, 2},
		{"negative", 0x80, false, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setup(t, 0x0200, []uint8{0xA9, tt.val})
			cycles := step(t, c)
			if cycles != tt.wantCycle {
				t.Errorf("cycles = %d, want %d", cycles, tt.wantCycle)
			}
			if c.A != tt.val {
				t.Errorf("A = %.2X, want %.2X", c.A, tt.val)
			}
			if got := c.P&P_ZERO != 0; got != tt.wantZero {
				t.Errorf("Z = %v, want %v", got, tt.wantZero)
			}
			if got := c.P&P_NEGATIVE != 0; got != tt.wantNeg {
				t.Errorf("N = %v, want %v", got, tt.wantNeg)
			}
		})
	}
}

func TestADCSignedOverflow(t *testing.T) {
	// 0x50 + 0x50 = 0xA0: signed overflow (positive+positive=negative), no carry.
	c, _ := setup(t, 0x0200, []uint8{0xA9, 0x50, 0x69, 0x50})
	step(t, c)
	step(t, c)
	if c.A != 0xA0 {
		t.Fatalf("A = %.2X, want A0", c.A)
	}
	if c.P&P_OVERFLOW == 0 {
		t.Fatalf("V flag not set on signed overflow")
	}
	if c.P&P_CARRY != 0 {
		t.Fatalf("C flag set unexpectedly")
	}
	if c.P&P_NEGATIVE == 0 {
		t.Fatalf("N flag not set")
	}
}

func TestBranchPageCrossCycles(t *testing.T) {
	// BEQ +5 at $80FD: PC after the operand fetch is $80FF, target is
	// $8104 — different page, so taken(+1) plus page-cross(+1).
	c, mem := setup(t, 0x80FD, []uint8{0xF0, 0x05})
	mem.mem[0x8104] = 0xEA // NOP, just a landing pad.
	c.P |= P_ZERO
	cycles := step(t, c)
	if cycles != 4 {
		t.Fatalf("branch-taken-with-page-cross cycles = %d, want 4", cycles)
	}
	if c.PC != 0x8104 {
		t.Fatalf("PC after branch = %.4X, want 8104", c.PC)
	}
}

func TestBranchTakenSamePageCycles(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xD0, 0x10})
	mem.mem[0x0212] = 0xEA
	c.P &^= P_ZERO
	cycles := step(t, c)
	if cycles != 3 {
		t.Fatalf("branch-taken-same-page cycles = %d, want 3", cycles)
	}
	if c.PC != 0x0212 {
		t.Fatalf("PC after branch = %.4X, want 0212", c.PC)
	}
}

func TestBranchNotTakenCycles(t *testing.T) {
	c, _ := setup(t, 0x0200, []uint8{0xD0, 0x10})
	c.P |= P_ZERO // BNE not taken.
	cycles := step(t, c)
	if cycles != 2 {
		t.Fatalf("branch-not-taken cycles = %d, want 2", cycles)
	}
	if c.PC != 0x0202 {
		t.Fatalf("PC = %.4X, want 0202", c.PC)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0x20, 0x00, 0x03}) // JSR $0300
	mem.mem[0x0300] = 0x60                                // RTS
	cyclesJSR := step(t, c)
	if cyclesJSR != 6 {
		t.Fatalf("JSR cycles = %d, want 6", cyclesJSR)
	}
	if c.PC != 0x0300 {
		t.Fatalf("PC after JSR = %.4X, want 0300", c.PC)
	}
	before := c.ToSnapshot()
	cyclesRTS := step(t, c)
	if cyclesRTS != 6 {
		t.Fatalf("RTS cycles = %d, want 6", cyclesRTS)
	}
	if c.PC != 0x0203 {
		t.Fatalf("PC after RTS = %.4X, want 0203", c.PC)
	}
	if diff := deep.Equal(before.S+2, c.S); diff != nil {
		t.Errorf("stack pointer mismatch after round trip: %v", diff)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	// Pointer at $02FF: NMOS reads the high byte from $0200, not $0300.
	c, mem := setup(t, 0x0400, []uint8{0x6C, 0xFF, 0x02})
	mem.mem[0x02FF] = 0x00
	mem.mem[0x0300] = 0x99 // Would be used by a CMOS-correct implementation.
	mem.mem[0x0200] = 0x55 // NMOS wraps here instead.
	step(t, c)
	if c.PC != 0x5500 {
		t.Fatalf("PC = %.4X, want 5500 (page-wrap bug)", c.PC)
	}
}

func TestJMPIndirectNoBugOnCMOS(t *testing.T) {
	mem := &flatMemory{}
	mem.mem[RESET_VECTOR] = 0x00
	mem.mem[RESET_VECTOR+1] = 0x04
	mem.mem[0x0400] = 0x6C
	mem.mem[0x0401] = 0xFF
	mem.mem[0x0402] = 0x02
	mem.mem[0x02FF] = 0x00
	mem.mem[0x0300] = 0x99
	mem.mem[0x0200] = 0x55
	c, err := Init(&ChipDef{Cpu: CPU_CMOS, Bus: mem})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	step(t, c)
	if c.PC != 0x9900 {
		t.Fatalf("PC = %.4X, want 9900 (bug fixed on CMOS)", c.PC)
	}
}

func TestIRQMaskedByInterruptFlag(t *testing.T) {
	c, _ := setup(t, 0x0200, []uint8{0xEA, 0xEA, 0xEA})
	c.P |= P_INTERRUPT
	c.IRQ()
	step(t, c)
	if c.PC != 0x0201 {
		t.Fatalf("masked IRQ was serviced: PC = %.4X", c.PC)
	}
}

func TestIRQServicedWhenUnmasked(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xEA, 0xEA})
	mem.mem[IRQ_VECTOR] = 0x00
	mem.mem[IRQ_VECTOR+1] = 0x04
	c.P &^= P_INTERRUPT
	c.IRQ()
	step(t, c)
	if c.PC != 0x0400 {
		t.Fatalf("IRQ not serviced: PC = %.4X, want 0400", c.PC)
	}
	if c.P&P_INTERRUPT == 0 {
		t.Fatalf("I flag not set on IRQ entry")
	}
}

func TestNMIEdgeTriggeredLatchesDespiteLineDropping(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xEA, 0xEA})
	mem.mem[NMI_VECTOR] = 0x00
	mem.mem[NMI_VECTOR+1] = 0x05
	c.NMI()
	c.NMIClear() // Line drops immediately; the edge must still be serviced.
	step(t, c)
	if c.PC != 0x0500 {
		t.Fatalf("edge-triggered NMI not serviced after line drop: PC = %.4X", c.PC)
	}
}

func TestIllegalOpcodeStrictIsTwoCycleNOP(t *testing.T) {
	var reports []IllegalOpcodeReport
	mem := &flatMemory{}
	mem.mem[RESET_VECTOR] = 0x00
	mem.mem[RESET_VECTOR+1] = 0x02
	mem.mem[0x0200] = 0x02 // HLT/JAM encoding, illegal.
	mem.mem[0x0201] = 0xEA
	c, err := Init(&ChipDef{
		Cpu: CPU_NMOS, Bus: mem,
		IllegalOpcodeObserver: func(r IllegalOpcodeReport) { reports = append(reports, r) },
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	cycles := step(t, c)
	if cycles != 2 {
		t.Fatalf("strict illegal opcode cycles = %d, want 2", cycles)
	}
	if c.Halted() {
		t.Fatalf("strict profile must never halt on an illegal opcode")
	}
	if len(reports) != 1 || reports[0].Opcode != 0x02 {
		t.Fatalf("observer reports = %v, want one report of opcode 0x02", reports)
	}
}

func TestIllegalOpcodePermissiveHalts(t *testing.T) {
	mem := &flatMemory{}
	mem.mem[RESET_VECTOR] = 0x00
	mem.mem[RESET_VECTOR+1] = 0x02
	mem.mem[0x0200] = 0x02 // HLT/JAM encoding.
	c, err := Init(&ChipDef{Cpu: CPU_NMOS, Bus: mem, IllegalOpcodes: IllegalPermissive})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	err = c.Clock()
	if err == nil {
		err = c.Clock()
	}
	if _, ok := err.(HaltOpcode); !ok {
		t.Fatalf("expected HaltOpcode, got %v", err)
	}
	if !c.Halted() {
		t.Fatalf("Halted() should report true after a JAM opcode")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c, _ := setup(t, 0x0200, []uint8{0xA9, 0x42, 0xA2, 0x07})
	step(t, c)
	snap := c.ToSnapshot()
	step(t, c)
	if c.X != 0x07 {
		t.Fatalf("X = %.2X, want 07", c.X)
	}
	c.Restore(snap)
	if diff := deep.Equal(c.ToSnapshot(), snap); diff != nil {
		t.Errorf("restored snapshot differs from the one captured: %v", diff)
	}
	if c.X == 0x07 {
		t.Fatalf("Restore did not roll back X")
	}
}

func TestInstructionSteppedMatchesCyclePacedAtBoundaries(t *testing.T) {
	prog := []uint8{0xA9, 0x10, 0x69, 0x05, 0x85, 0x00}
	cpaced, _ := setup(t, 0x0200, prog)
	totalCycles := 0
	for i := 0; i < 3; i++ {
		totalCycles += step(t, cpaced)
	}

	mem := &flatMemory{}
	mem.mem[RESET_VECTOR] = 0x00
	mem.mem[RESET_VECTOR+1] = 0x02
	for i, b := range prog {
		mem.mem[0x0200+i] = b
	}
	stepped, err := Init(&ChipDef{Cpu: CPU_NMOS, Bus: mem, Execution: InstructionStepped})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i < totalCycles; i++ {
		if err := stepped.Clock(); err != nil {
			t.Fatalf("Clock: %v", err)
		}
	}
	if stepped.A != cpaced.A || stepped.PC != cpaced.PC {
		t.Fatalf("instruction-stepped diverged from cycle-paced: A=%.2X PC=%.4X vs A=%.2X PC=%.4X",
			stepped.A, stepped.PC, cpaced.A, cpaced.PC)
	}
}

// TestRepresentativeCycleCounts pins the cycle cost of one encoding per
// addressing-mode/instruction-class combination, including the
// page-cross and always-extra store/RMW penalties.
func TestRepresentativeCycleCounts(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		pre     func(c *Chip, mem *flatMemory)
		want    int
	}{
		{"NOP implied", []uint8{0xEA}, nil, 2},
		{"LDA zp", []uint8{0xA5, 0x10}, nil, 3},
		{"LDA zp,X", []uint8{0xB5, 0x10}, nil, 4},
		{"LDA abs", []uint8{0xAD, 0x00, 0x30}, nil, 4},
		{"LDA abs,X same page", []uint8{0xBD, 0x00, 0x30},
			func(c *Chip, mem *flatMemory) { c.X = 0x01 }, 4},
		{"LDA abs,X page cross", []uint8{0xBD, 0xFF, 0x30},
			func(c *Chip, mem *flatMemory) { c.X = 0x01 }, 5},
		{"LDA (zp,X)", []uint8{0xA1, 0x10},
			func(c *Chip, mem *flatMemory) { c.X = 0x04 }, 6},
		{"LDA (zp),Y same page", []uint8{0xB1, 0x10},
			func(c *Chip, mem *flatMemory) {
				mem.mem[0x10] = 0x00
				mem.mem[0x11] = 0x30
				c.Y = 0x01
			}, 5},
		{"LDA (zp),Y page cross", []uint8{0xB1, 0x10},
			func(c *Chip, mem *flatMemory) {
				mem.mem[0x10] = 0xFF
				mem.mem[0x11] = 0x30
				c.Y = 0x01
			}, 6},
		{"STA abs,X no cross still pays", []uint8{0x9D, 0x00, 0x30},
			func(c *Chip, mem *flatMemory) { c.X = 0x01 }, 5},
		{"ASL zp", []uint8{0x06, 0x10}, nil, 5},
		{"INC abs", []uint8{0xEE, 0x00, 0x30}, nil, 6},
		{"INC abs,X", []uint8{0xFE, 0x00, 0x30},
			func(c *Chip, mem *flatMemory) { c.X = 0x01 }, 7},
		{"PHA", []uint8{0x48}, nil, 3},
		{"PHP", []uint8{0x08}, nil, 3},
		{"PLA", []uint8{0x68}, nil, 4},
		{"PLP", []uint8{0x28}, nil, 4},
		{"JMP abs", []uint8{0x4C, 0x00, 0x30}, nil, 3},
		{"JMP ind", []uint8{0x6C, 0x00, 0x30}, nil, 5},
		{"JSR", []uint8{0x20, 0x00, 0x30}, nil, 6},
		{"BRK", []uint8{0x00}, nil, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mem := setup(t, 0x0200, tt.program)
			if tt.pre != nil {
				tt.pre(c, mem)
			}
			if cycles := step(t, c); cycles != tt.want {
				t.Errorf("cycles = %d, want %d", cycles, tt.want)
			}
		})
	}
}

// TestImmediateAndAbsoluteAdvancePC pins the PC-by-operand-length
// contract per addressing mode.
func TestImmediateAndAbsoluteAdvancePC(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		wantPC  uint16
	}{
		{"implied 1 byte", []uint8{0xEA}, 0x0201},
		{"immediate 2 bytes", []uint8{0xA9, 0x42}, 0x0202},
		{"zero page 2 bytes", []uint8{0xA5, 0x10}, 0x0202},
		{"absolute 3 bytes", []uint8{0xAD, 0x00, 0x30}, 0x0203},
		{"indexed indirect 2 bytes", []uint8{0xA1, 0x10}, 0x0202},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setup(t, 0x0200, tt.program)
			step(t, c)
			if c.PC != tt.wantPC {
				t.Errorf("PC = %.4X, want %.4X", c.PC, tt.wantPC)
			}
		})
	}
}

func TestBRKRTIRoundTrip(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0x00, 0xFF}) // BRK + padding byte.
	mem.mem[IRQ_VECTOR] = 0x00
	mem.mem[IRQ_VECTOR+1] = 0x03
	mem.mem[0x0300] = 0x40 // RTI
	sBefore := c.S
	pBefore := c.P

	cycles := step(t, c)
	if cycles != 7 {
		t.Fatalf("BRK cycles = %d, want 7", cycles)
	}
	if c.PC != 0x0300 {
		t.Fatalf("PC after BRK = %.4X, want 0300", c.PC)
	}
	if c.P&P_INTERRUPT == 0 {
		t.Fatalf("I flag not set by BRK")
	}
	pushedP := mem.mem[0x0100+uint16(sBefore-2)]
	if pushedP&P_B == 0 || pushedP&P_S1 == 0 {
		t.Fatalf("BRK pushed P = %.2X, want bits 4 and 5 set", pushedP)
	}
	// Return address skips the padding byte.
	retHi := mem.mem[0x0100+uint16(sBefore)]
	retLo := mem.mem[0x0100+uint16(sBefore-1)]
	if ret := uint16(retHi)<<8 | uint16(retLo); ret != 0x0202 {
		t.Fatalf("BRK pushed return address %.4X, want 0202", ret)
	}

	cycles = step(t, c)
	if cycles != 6 {
		t.Fatalf("RTI cycles = %d, want 6", cycles)
	}
	if c.PC != 0x0202 {
		t.Fatalf("PC after RTI = %.4X, want 0202", c.PC)
	}
	if c.S != sBefore {
		t.Fatalf("SP after RTI = %.2X, want %.2X", c.S, sBefore)
	}
	// B never lands in the live register; bit 5 always reads set.
	want := (pBefore | P_INTERRUPT | P_S1) &^ P_B
	if c.P != want {
		t.Fatalf("P after RTI = %.2X, want %.2X", c.P, want)
	}
}

func TestPHPPLPMasking(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0x08, 0x28}) // PHP then PLP.
	c.P = P_S1 | P_NEGATIVE | P_CARRY
	sBefore := c.S
	step(t, c)
	pushed := mem.mem[0x0100+uint16(sBefore)]
	if pushed != P_S1|P_B|P_NEGATIVE|P_CARRY {
		t.Fatalf("PHP pushed %.2X, want bits 4/5 forced on top of N,C", pushed)
	}
	// Doctor the stacked copy to try to smuggle B in and bit 5 out.
	mem.mem[0x0100+uint16(sBefore)] = P_B | P_ZERO
	step(t, c)
	if c.P != P_S1|P_ZERO {
		t.Fatalf("PLP loaded %.2X, want B ignored and bit 5 forced: %.2X", c.P, P_S1|P_ZERO)
	}
}

func TestStoreHasNoFlagEffect(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xA9, 0x00, 0x85, 0x10}) // LDA #$00, STA $10.
	step(t, c)
	pAfterLoad := c.P
	step(t, c)
	if c.P != pAfterLoad {
		t.Fatalf("STA changed P: %.2X -> %.2X", pAfterLoad, c.P)
	}
	if mem.mem[0x10] != 0 {
		t.Fatalf("STA wrote %.2X, want 00", mem.mem[0x10])
	}
}

// TestADCSBCRoundTrip: for every (A, M, C) in binary mode, ADC M
// followed by SBC M with the starting carry inverted restores A.
func TestADCSBCRoundTrip(t *testing.T) {
	c, _ := setup(t, 0x0200, []uint8{0xEA})
	for a := 0; a < 256; a++ {
		for m := 0; m < 256; m++ {
			for carry := 0; carry < 2; carry++ {
				c.A = uint8(a)
				c.P &^= P_CARRY | P_DECIMAL
				if carry == 1 {
					c.P |= P_CARRY
				}
				c.iADC(uint8(m))
				c.P &^= P_CARRY
				if carry == 0 {
					c.P |= P_CARRY
				}
				c.iSBC(uint8(m))
				if c.A != uint8(a) {
					t.Fatalf("A=%.2X M=%.2X C=%d: round trip gave %.2X", a, m, carry, c.A)
				}
			}
		}
	}
}

// TestCompareProperties: C iff reg >= M, Z iff reg == M, N from bit 7
// of the difference, for the full operand space.
func TestCompareProperties(t *testing.T) {
	c, _ := setup(t, 0x0200, []uint8{0xEA})
	for reg := 0; reg < 256; reg++ {
		for m := 0; m < 256; m++ {
			c.compare(uint8(reg), uint8(m))
			if got := c.P&P_CARRY != 0; got != (reg >= m) {
				t.Fatalf("reg=%.2X M=%.2X: C=%v, want %v", reg, m, got, reg >= m)
			}
			if got := c.P&P_ZERO != 0; got != (reg == m) {
				t.Fatalf("reg=%.2X M=%.2X: Z=%v, want %v", reg, m, got, reg == m)
			}
			if got := c.P&P_NEGATIVE != 0; got != (uint8(reg-m)&0x80 != 0) {
				t.Fatalf("reg=%.2X M=%.2X: N=%v wrong", reg, m, got)
			}
		}
	}
}

func TestStackWrapsWithinPageOne(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xEA})
	c.S = 0x00
	c.pushStack(0xAB)
	if mem.mem[0x0100] != 0xAB {
		t.Fatalf("push with S=00 wrote outside $0100: %v", mem.mem[0x0100])
	}
	if c.S != 0xFF {
		t.Fatalf("S after push = %.2X, want FF (wrap)", c.S)
	}
	if got := c.popStack(); got != 0xAB || c.S != 0x00 {
		t.Fatalf("pop = %.2X S=%.2X, want AB / 00", got, c.S)
	}
}

// TestResetSequence: a reset from SP=$00 lands on SP=$FD with I set and
// PC loaded from the reset vector, consuming the 6-cycle sequence.
func TestResetSequence(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xEA})
	mem.mem[RESET_VECTOR] = 0x34
	mem.mem[RESET_VECTOR+1] = 0x12
	c.S = 0x00
	c.P &^= P_INTERRUPT
	c.Reset()
	cycles := step(t, c)
	if cycles != 6 {
		t.Fatalf("reset cycles = %d, want 6", cycles)
	}
	if c.PC != 0x1234 {
		t.Fatalf("PC after reset = %.4X, want 1234", c.PC)
	}
	if c.S != 0xFD {
		t.Fatalf("SP after reset from 00 = %.2X, want FD", c.S)
	}
	if c.P&P_INTERRUPT == 0 {
		t.Fatalf("I flag not set by reset")
	}
}

func TestResetRecoversHaltedCore(t *testing.T) {
	mem := &flatMemory{}
	mem.mem[RESET_VECTOR] = 0x00
	mem.mem[RESET_VECTOR+1] = 0x02
	mem.mem[0x0200] = 0x02 // JAM
	mem.mem[0x0201] = 0xEA
	c, err := Init(&ChipDef{Cpu: CPU_NMOS, Bus: mem, IllegalOpcodes: IllegalPermissive})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err = c.Clock(); err != nil {
			break
		}
	}
	if !c.Halted() {
		t.Fatalf("core did not halt on JAM")
	}
	mem.mem[0x0200] = 0xEA
	c.Reset()
	cycles := step(t, c)
	if cycles != 6 {
		t.Fatalf("reset-after-halt cycles = %d, want 6", cycles)
	}
	if c.Halted() {
		t.Fatalf("core still halted after reset")
	}
	if c.PC != 0x0200 {
		t.Fatalf("PC after reset = %.4X, want 0200", c.PC)
	}
}

// TestIRQLatchedWhileMaskedThenServicedAfterCLI is the level-triggered
// contract: a masked IRQ stays pending and fires at the first
// instruction boundary after I is cleared.
func TestIRQLatchedWhileMaskedThenServicedAfterCLI(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xEA, 0x58, 0xEA}) // NOP, CLI, NOP.
	mem.mem[IRQ_VECTOR] = 0x00
	mem.mem[IRQ_VECTOR+1] = 0x04
	c.P |= P_INTERRUPT
	c.IRQ()

	step(t, c) // NOP executes; masked IRQ must not vector.
	if c.PC != 0x0201 {
		t.Fatalf("masked IRQ vectored early: PC = %.4X", c.PC)
	}
	step(t, c) // CLI.
	if c.PC != 0x0202 {
		t.Fatalf("PC after CLI = %.4X, want 0202", c.PC)
	}
	cycles := step(t, c) // Still-raised IRQ now serviced at the boundary.
	if cycles != 7 {
		t.Fatalf("IRQ dispatch cycles = %d, want 7", cycles)
	}
	if c.PC != 0x0400 {
		t.Fatalf("IRQ not serviced after CLI: PC = %.4X", c.PC)
	}
}

// TestDecimalModeADC covers BCD adds on NMOS and the Ricoh variant's
// absent BCD circuitry (D flag latched but ignored).
func TestDecimalModeADC(t *testing.T) {
	c, _ := setup(t, 0x0200, []uint8{0xEA})
	c.P |= P_DECIMAL
	c.P &^= P_CARRY
	c.A = 0x09
	c.iADC(0x01)
	if c.A != 0x10 || c.P&P_CARRY != 0 {
		t.Errorf("BCD 09+01: A=%.2X C=%v, want 10 / clear", c.A, c.P&P_CARRY != 0)
	}
	c.P &^= P_CARRY
	c.A = 0x99
	c.iADC(0x01)
	if c.A != 0x00 || c.P&P_CARRY == 0 {
		t.Errorf("BCD 99+01: A=%.2X C=%v, want 00 / set", c.A, c.P&P_CARRY != 0)
	}

	mem := &flatMemory{}
	mem.mem[RESET_VECTOR+1] = 0x02
	ricoh, err := Init(&ChipDef{Cpu: CPU_NMOS_RICOH, Bus: mem})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	ricoh.P |= P_DECIMAL
	ricoh.P &^= P_CARRY
	ricoh.A = 0x09
	ricoh.iADC(0x01)
	if ricoh.A != 0x0A {
		t.Errorf("Ricoh ADC with D set: A=%.2X, want binary 0A", ricoh.A)
	}
}

// TestTakenBranchDelaysIRQByOneInstruction: the NMOS pipelining quirk —
// an IRQ arriving during a taken branch is not serviced until one more
// instruction has run.
func TestTakenBranchDelaysIRQByOneInstruction(t *testing.T) {
	c, mem := setup(t, 0x0200, []uint8{0xD0, 0x02, 0xEA, 0xEA, 0xE8}) // BNE +2 -> INX at 0204.
	mem.mem[IRQ_VECTOR] = 0x00
	mem.mem[IRQ_VECTOR+1] = 0x04
	c.P &^= P_ZERO | P_INTERRUPT
	if err := c.Clock(); err != nil { // Branch opcode fetch.
		t.Fatalf("Clock: %v", err)
	}
	c.IRQ() // Line rises while the branch is in flight.
	for !c.InstructionDone() {
		if err := c.Clock(); err != nil {
			t.Fatalf("Clock: %v", err)
		}
	}
	if c.PC != 0x0204 {
		t.Fatalf("PC after branch = %.4X, want 0204", c.PC)
	}
	xBefore := c.X
	step(t, c) // INX runs before the IRQ wins.
	if c.X != xBefore+1 {
		t.Fatalf("instruction after taken branch did not run before IRQ")
	}
	step(t, c)
	if c.PC != 0x0400 {
		t.Fatalf("IRQ not serviced after the delayed instruction: PC = %.4X", c.PC)
	}
}
