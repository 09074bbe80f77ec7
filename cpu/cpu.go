// Package cpu implements a cycle-accurate MOS 6502 core: the fetch,
// decode, address-resolve, execute and interrupt-dispatch engine, bit
// faithful to the original silicon including documented quirks such as
// the JMP-indirect page-boundary bug. The core consumes an external
// memory.Bus and is advanced one clock cycle at a time by the caller;
// it never owns a goroutine, timer, or background worker of its own.
package cpu

import (
	"fmt"

	"github.com/go6502/core/irq"
	"github.com/go6502/core/memory"
)

// CPUType is an enumeration of the valid CPU variants this core can emulate.
type CPUType int

const (
	CPU_UNIMPLEMENTED CPUType = iota // Start of valid cpu enumerations.
	CPU_NMOS                         // Basic NMOS 6502 including (in the permissive profile) undocumented opcodes.
	CPU_NMOS_RICOH                   // Ricoh variant used in the NES: identical to NMOS except BCD mode is unimplemented.
	CPU_NMOS_6510                    // NMOS 6510 variant (C64); behaves as CPU_NMOS for core purposes.
	CPU_CMOS                         // 65C02 CMOS variant: fixes the JMP-indirect page-wrap bug; undocumented opcodes follow IllegalOpcodeProfile exactly as on NMOS.
	CPU_MAX                          // End of CPU enumerations.
)

// irqType enumerates which interrupt source (if any) is pending/running.
type irqType int

const (
	kIRQ_UNIMPLEMENTED irqType = iota
	kIRQ_NONE
	kIRQ_IRQ
	kIRQ_NMI
	kIRQ_MAX
)

// IllegalOpcodeProfile selects how opcodes outside the 56 documented
// instructions are handled.
type IllegalOpcodeProfile int

const (
	// IllegalStrict treats every undocumented opcode as a no-op consuming
	// the documented 2 cycles, optionally reporting it through the
	// observer hook. This is the default.
	IllegalStrict IllegalOpcodeProfile = iota
	// IllegalPermissive executes the well-known NMOS undocumented opcode
	// semantics (SLO, RLA, LAX, DCP, ...), needed to run test ROMs and
	// commercial carts that depend on them.
	IllegalPermissive
)

// ExecutionProfile selects between two observably-equivalent clocking
// disciplines.
type ExecutionProfile int

const (
	// CyclePaced does real fetch/decode/execute work on every Clock()
	// call, one cycle of progress at a time. The core's native mode.
	CyclePaced ExecutionProfile = iota
	// InstructionStepped executes an entire instruction's ticks back to
	// back on the first Clock() call of its duration and idles on the
	// rest, so the two profiles agree at instruction boundaries.
	InstructionStepped
)

const (
	NMI_VECTOR   = uint16(0xFFFA)
	RESET_VECTOR = uint16(0xFFFC)
	IRQ_VECTOR   = uint16(0xFFFE)

	P_NEGATIVE  = uint8(0x80)
	P_OVERFLOW  = uint8(0x40)
	P_S1        = uint8(0x20) // Always reads as 1.
	P_B         = uint8(0x10) // Set when P is pushed by BRK/PHP, clear for IRQ/NMI.
	P_DECIMAL   = uint8(0x8)
	P_INTERRUPT = uint8(0x4)
	P_ZERO      = uint8(0x2)
	P_CARRY     = uint8(0x1)
)

// InvalidCPUState signals a caller programming error (clocking before a
// bus is connected, an internal tick precondition failing). Fatal.
type InvalidCPUState struct {
	Reason string
}

// Error implements error.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// HaltOpcode is returned once the core has executed a HLT/JAM encoding
// (permissive profile) — the CPU will not progress further and every
// subsequent Clock() call returns this same error.
type HaltOpcode struct {
	Opcode uint8
}

// Error implements error.
func (e HaltOpcode) Error() string {
	return fmt.Sprintf("HALT(0x%.2X) executed", e.Opcode)
}

// IllegalOpcodeReport is delivered to an IllegalOpcodeObserver when the
// strict profile encounters an opcode outside the documented 56.
type IllegalOpcodeReport struct {
	Opcode uint8
	PC     uint16
}

// IllegalOpcodeObserver is an optional diagnostic sink; it is never
// required for correct operation and the core surfaces no errors from
// normal execution of illegal opcodes in the strict profile.
type IllegalOpcodeObserver func(IllegalOpcodeReport)

// Registers is a snapshot of the general-purpose/PC/SP register file,
// returned by GetRegisters for inspection.
type Registers struct {
	A, X, Y, SP uint8
	PC          uint16
}

// Flags is a decoded view of the status register, returned by GetFlags
// for inspection.
type Flags struct {
	N, V, B, D, I, Z, C bool
}

// Snapshot is the persisted state of a Chip for saving/restoring a CPU
// mid-run: registers, cycle counters, the pending reset/NMI latches and
// the interrupt in progress. The IRQ and NMI line levels held by the
// internal latches behind IRQ()/NMI() are not captured, and Restore
// leaves those lines as they are.
type Snapshot struct {
	A, X, Y, S, P     uint8
	PC                uint16
	CyclesRemaining   int
	ResetPending      bool
	NMIPending        bool
	NMILinePrev       bool
	RunningInterrupt  bool
	IRQRaised         int
	OpTick            int
	Op, OpVal         uint8
	OpAddr            uint16
	OpDone, AddrDone  bool
	SubStage          int
	IdxCrossed        bool
	IdxBaseHi         uint8
	SkipInterrupt     bool
	PrevSkipInterrupt bool
	RunningReset      bool
	Halted            bool
	HaltOpcode        uint8
	TotalCycles       uint64
}

// Chip is a single MOS 6502 core. It is single-threaded and purely
// synchronous: no operation suspends, blocks, or spawns a goroutine. The
// only externally driven progress source is Clock(). The caller is
// responsible for not clocking the same Chip concurrently from two
// goroutines.
type Chip struct {
	A, X, Y uint8  // Accumulator, X, Y registers.
	S       uint8  // Stack pointer (addresses $0100+S).
	P       uint8  // Status register: N V 1 B D I Z C.
	PC      uint16 // Program counter.

	bus     memory.Bus
	cpuType CPUType

	illegalProfile   IllegalOpcodeProfile
	illegalObserver  IllegalOpcodeObserver
	executionProfile ExecutionProfile

	irqSender irq.Sender
	nmiSender irq.Sender
	rdySender irq.Sender
	irqLatch  irq.Latch // Default Sender installed when ChipDef leaves Irq nil.
	nmiLatch  irq.Latch // Default Sender installed when ChipDef leaves Nmi nil.

	nmiLinePrev  bool // Previous tick's nmiSender.Raised(), for edge detection.
	nmiPending   bool // Latched (edge-triggered) until serviced.
	resetPending bool
	runningReset bool

	op     uint8  // Opcode byte of the instruction currently executing.
	opVal  uint8  // Operand byte fetched after the opcode (meaning depends on mode).
	opTick int    // Tick number within the current opcode/interrupt/reset sequence.
	opAddr uint16 // Effective address computed by the addressing-mode resolver.

	idxCrossed bool  // Set by an indexed addressing-mode resolver when the index addition crossed a page.
	idxBaseHi  uint8 // The (possibly wrong) high byte used for the dummy read on a page-crossing.
	subStage   int   // Generic sub-tick counter used by multi-cycle instruction bodies (RMW, stack ops, interrupts).

	opDone            bool
	addrDone          bool
	skipInterrupt     bool
	prevSkipInterrupt bool
	irqRaised         irqType
	runningInterrupt  bool

	halted     bool
	haltOpcode uint8

	cyclesRemaining int
	totalCycles     uint64
}

// ChipDef configures a new Chip.
type ChipDef struct {
	// Cpu selects the CPU variant to emulate.
	Cpu CPUType
	// Bus is the memory/IO the CPU reads and writes. Required.
	Bus memory.Bus
	// Irq, Nmi, Rdy are optional external interrupt sources. If Irq/Nmi
	// are nil, an internal irq.Latch is installed and driven by
	// Chip.IRQ()/Chip.NMI().
	Irq, Nmi, Rdy irq.Sender
	// IllegalOpcodes selects the strict/permissive undocumented-opcode
	// profile (default IllegalStrict, the zero value).
	IllegalOpcodes IllegalOpcodeProfile
	// Execution selects cycle-paced vs instruction-stepped clocking
	// (default CyclePaced, the zero value).
	Execution ExecutionProfile
	// IllegalOpcodeObserver, if set, is invoked whenever the strict
	// profile treats an opcode as a no-op instead of a documented
	// instruction.
	IllegalOpcodeObserver IllegalOpcodeObserver
}

// Init constructs a new Chip in powered-on state: registers randomized
// per real hardware's undefined power-on behavior, then reset so PC is
// loaded from the reset vector.
func Init(def *ChipDef) (*Chip, error) {
	if def.Cpu <= CPU_UNIMPLEMENTED || def.Cpu >= CPU_MAX {
		return nil, InvalidCPUState{fmt.Sprintf("CPU type %d is invalid", def.Cpu)}
	}
	if def.Bus == nil {
		return nil, InvalidCPUState{"clocking before a bus is connected"}
	}
	p := &Chip{
		cpuType:          def.Cpu,
		bus:              def.Bus,
		illegalProfile:   def.IllegalOpcodes,
		executionProfile: def.Execution,
		illegalObserver:  def.IllegalOpcodeObserver,
	}
	p.irqSender = def.Irq
	if p.irqSender == nil {
		p.irqSender = &p.irqLatch
	}
	p.nmiSender = def.Nmi
	if p.nmiSender == nil {
		p.nmiSender = &p.nmiLatch
	}
	p.rdySender = def.Rdy
	if err := p.PowerOn(); err != nil {
		return nil, err
	}
	return p, nil
}

// PowerOn resets the CPU to its power-on state (not well defined on
// real hardware beyond the stack/flags/PC behavior reset produces).
// Registers are randomized; the 6-tick reset sequence is then run to
// completion synchronously so the Chip is valid before any Clock call.
func (p *Chip) PowerOn() error {
	p.A = pseudoRandomByte()
	p.X = pseudoRandomByte()
	p.Y = pseudoRandomByte()
	p.S = pseudoRandomByte()
	p.P = P_S1
	if p.cpuType == CPU_NMOS || p.cpuType == CPU_NMOS_6510 {
		if pseudoRandomByte()&1 == 1 {
			p.P |= P_DECIMAL
		}
	}
	p.halted = false
	p.haltOpcode = 0
	p.irqRaised = kIRQ_NONE
	p.nmiPending = false
	p.resetPending = false
	p.opTick = 0
	p.runningReset = true
	for p.runningReset {
		if err := p.runReset(); err != nil {
			return err
		}
	}
	p.cyclesRemaining = 0
	return nil
}

// ConnectBus replaces the bus the core reads and writes. Only valid at
// an instruction boundary; the core never frees or powers the bus it is
// handed.
func (p *Chip) ConnectBus(bus memory.Bus) error {
	if bus == nil {
		return InvalidCPUState{"connecting a nil bus"}
	}
	p.bus = bus
	return nil
}

// Reset schedules a reset to be serviced at the next instruction
// boundary rather than running synchronously: RESET takes priority over
// any pending NMI/IRQ and recovers a core halted by a JAM opcode.
func (p *Chip) Reset() {
	p.resetPending = true
}

// IRQ raises the IRQ line (level-triggered, masked by the I flag). Only
// meaningful when no external Irq sender was supplied via ChipDef; the
// caller is expected to lower it themselves once serviced, matching
// real hardware where IRQ stays asserted until the device's status is
// read.
func (p *Chip) IRQ() {
	p.irqLatch.Set()
}

// IRQClear drops the level-triggered IRQ line.
func (p *Chip) IRQClear() {
	p.irqLatch.Clear()
}

// NMI raises the NMI line. NMI is edge-triggered: the rising edge is
// latched at the moment of the call and serviced exactly once even if
// the line is lowered again before the next clock.
func (p *Chip) NMI() {
	p.nmiLatch.Set()
	p.nmiPending = true
}

// NMIClear drops the NMI line, allowing a future edge to be observed.
func (p *Chip) NMIClear() {
	p.nmiLatch.Clear()
}

// GetRegisters returns a snapshot of the general-purpose register file.
func (p *Chip) GetRegisters() Registers {
	return Registers{A: p.A, X: p.X, Y: p.Y, SP: p.S, PC: p.PC}
}

// GetFlags returns a decoded view of the status register.
func (p *Chip) GetFlags() Flags {
	return Flags{
		N: p.P&P_NEGATIVE != 0,
		V: p.P&P_OVERFLOW != 0,
		B: p.P&P_B != 0,
		D: p.P&P_DECIMAL != 0,
		I: p.P&P_INTERRUPT != 0,
		Z: p.P&P_ZERO != 0,
		C: p.P&P_CARRY != 0,
	}
}

// GetPC returns the program counter.
func (p *Chip) GetPC() uint16 {
	return p.PC
}

// CyclesRemaining returns the number of clock cycles left before the
// instruction currently executing completes. Only the InstructionStepped
// profile banks idle cycles here; under CyclePaced the work itself is
// spread across the ticks and this reports 0.
func (p *Chip) CyclesRemaining() int {
	return p.cyclesRemaining
}

// InstructionDone reports whether the core is at an instruction
// boundary: the next Clock() begins a new instruction (or services a
// pending interrupt/reset).
func (p *Chip) InstructionDone() bool {
	return p.opTick == 0 && !p.runningReset && p.cyclesRemaining == 0
}

// TotalCycles returns the running total of clock cycles processed since
// construction. Purely informational.
func (p *Chip) TotalCycles() uint64 {
	return p.totalCycles
}

// Halted reports whether the core has executed a HLT/JAM encoding and
// will no longer make progress.
func (p *Chip) Halted() bool {
	return p.halted
}

// ToSnapshot captures the complete persisted state for a later Restore.
func (p *Chip) ToSnapshot() Snapshot {
	return Snapshot{
		A: p.A, X: p.X, Y: p.Y, S: p.S, P: p.P, PC: p.PC,
		CyclesRemaining:   p.cyclesRemaining,
		ResetPending:      p.resetPending,
		NMIPending:        p.nmiPending,
		NMILinePrev:       p.nmiLinePrev,
		RunningInterrupt:  p.runningInterrupt,
		IRQRaised:         int(p.irqRaised),
		OpTick:            p.opTick,
		Op:                p.op,
		OpVal:             p.opVal,
		OpAddr:            p.opAddr,
		OpDone:            p.opDone,
		AddrDone:          p.addrDone,
		SubStage:          p.subStage,
		IdxCrossed:        p.idxCrossed,
		IdxBaseHi:         p.idxBaseHi,
		SkipInterrupt:     p.skipInterrupt,
		PrevSkipInterrupt: p.prevSkipInterrupt,
		RunningReset:      p.runningReset,
		Halted:            p.halted,
		HaltOpcode:        p.haltOpcode,
		TotalCycles:       p.totalCycles,
	}
}

// Restore replaces the Chip's full state with a previously captured Snapshot.
func (p *Chip) Restore(s Snapshot) {
	p.A, p.X, p.Y, p.S, p.P, p.PC = s.A, s.X, s.Y, s.S, s.P, s.PC
	p.cyclesRemaining = s.CyclesRemaining
	p.resetPending = s.ResetPending
	p.nmiPending = s.NMIPending
	p.nmiLinePrev = s.NMILinePrev
	p.runningInterrupt = s.RunningInterrupt
	p.irqRaised = irqType(s.IRQRaised)
	p.opTick = s.OpTick
	p.op = s.Op
	p.opVal = s.OpVal
	p.opAddr = s.OpAddr
	p.opDone = s.OpDone
	p.addrDone = s.AddrDone
	p.subStage = s.SubStage
	p.idxCrossed = s.IdxCrossed
	p.idxBaseHi = s.IdxBaseHi
	p.skipInterrupt = s.SkipInterrupt
	p.prevSkipInterrupt = s.PrevSkipInterrupt
	p.runningReset = s.RunningReset
	p.halted = s.Halted
	p.haltOpcode = s.HaltOpcode
	p.totalCycles = s.TotalCycles
}

// prngState seeds a small xorshift generator used only to fill
// registers with plausible-looking garbage on power-on; nothing in the
// core's documented behavior depends on any particular value here.
var prngState uint64 = 0x2545F4914F6CDD1D

func pseudoRandomByte() uint8 {
	prngState ^= prngState >> 12
	prngState ^= prngState << 25
	prngState ^= prngState >> 27
	return uint8((prngState * 0x2545F4914F6CDD1D) >> 56)
}

// Clock advances the CPU by one clock cycle under CyclePaced, or runs an
// entire instruction to completion (idling on subsequent calls within
// its cycle count) under InstructionStepped. It returns HaltOpcode once
// the core has executed a HLT/JAM encoding, and InvalidCPUState on an
// internal precondition failure (which also halts the core).
func (p *Chip) Clock() error {
	p.totalCycles++
	if p.executionProfile == CyclePaced {
		_, err := p.tickRaw()
		return err
	}

	// InstructionStepped: burn down idle cycles banked by the last
	// instruction before doing any new work.
	if p.cyclesRemaining > 0 {
		p.cyclesRemaining--
		if p.halted {
			return HaltOpcode{p.haltOpcode}
		}
		return nil
	}
	if p.rdySender != nil && p.rdySender.Raised() {
		return nil
	}
	ticks := 0
	for {
		done, err := p.tickRaw()
		ticks++
		if err != nil {
			return err
		}
		if done {
			// This call counts as the instruction's first cycle; idle
			// on the rest so the two profiles agree at boundaries.
			p.cyclesRemaining = ticks - 1
			return nil
		}
	}
}

// tickRaw is the single clock-cycle primitive both Clock() modes drive.
// It returns true once the in-flight instruction/interrupt/reset
// sequence has fully completed on this call. Clock() is the only
// externally driven progress source; tickRaw is never called from
// anywhere but Clock().
func (p *Chip) tickRaw() (bool, error) {
	if p.rdySender != nil && p.rdySender.Raised() {
		return false, nil
	}

	// NMI is edge-triggered: latch a rising edge even if the line later drops.
	cur := p.nmiSender.Raised()
	if cur && !p.nmiLinePrev {
		p.nmiPending = true
	}
	p.nmiLinePrev = cur

	// RESET outranks everything, including a halted core. It is only
	// honored at an instruction boundary, never mid-instruction.
	if p.runningReset {
		if err := p.runReset(); err != nil {
			return true, err
		}
		return !p.runningReset, nil
	}
	if p.resetPending && p.opTick == 0 {
		p.resetPending = false
		p.runningReset = true
		if err := p.runReset(); err != nil {
			return true, err
		}
		return false, nil
	}

	if p.halted {
		return true, HaltOpcode{p.haltOpcode}
	}

	p.opTick++

	if p.opTick == 1 {
		if p.irqRaised == kIRQ_NONE {
			if p.nmiPending {
				p.irqRaised = kIRQ_NMI
			} else if p.irqSender.Raised() && p.P&P_INTERRUPT == 0 {
				p.irqRaised = kIRQ_IRQ
			}
		}
		p.op = p.bus.Read(p.PC)
		p.opDone = false
		p.addrDone = false
		p.subStage = 0
		if p.irqRaised == kIRQ_NONE || p.skipInterrupt {
			p.PC++
		}
		p.runningInterrupt = p.irqRaised != kIRQ_NONE && !p.skipInterrupt
		return false, nil
	}

	if p.opTick == 2 {
		p.opVal = p.bus.Read(p.PC)
		p.prevSkipInterrupt = false
		if p.skipInterrupt {
			p.skipInterrupt = false
			p.prevSkipInterrupt = true
		}
	} else if p.opTick > 8 {
		err := InvalidCPUState{fmt.Sprintf("opTick %d too large (> 8)", p.opTick)}
		p.opDone = true
		p.halted = true
		p.haltOpcode = p.op
		p.opTick = 0
		return true, err
	}

	var err error
	if p.runningInterrupt {
		addr := IRQ_VECTOR
		if p.irqRaised == kIRQ_NMI {
			addr = NMI_VECTOR
		}
		p.opDone, err = p.runInterrupt(addr, true)
	} else {
		p.opDone, err = p.processOpcode()
	}

	if p.halted {
		p.haltOpcode = p.op
		p.opDone = true
		p.opTick = 0 // Leave the core at a boundary so a reset can recover it.
		return true, HaltOpcode{p.op}
	}
	if err != nil {
		p.haltOpcode = p.op
		p.halted = true
		p.opDone = true
		p.opTick = 0
		return true, err
	}
	if p.opDone {
		p.opTick = 0
		if p.runningInterrupt && p.irqRaised == kIRQ_NMI {
			p.nmiPending = false
		}
		if p.runningInterrupt {
			p.irqRaised = kIRQ_NONE
		}
		p.runningInterrupt = false
	}
	return p.opDone, nil
}

// runReset drives one tick of the 6-cycle reset sequence: PC unaffected
// until the vector load, I flag forced set, SP behaves as if PC/P were
// pushed (moves by 3) without actually writing the stack.
func (p *Chip) runReset() error {
	p.opTick++
	switch {
	case p.opTick < 1 || p.opTick > 6:
		p.opTick = 0
		p.runningReset = false
		return InvalidCPUState{fmt.Sprintf("reset: bad opTick: %d", p.opTick)}
	case p.opTick == 1:
		_ = p.bus.Read(p.PC)
		p.P |= P_INTERRUPT
		p.halted = false
		p.haltOpcode = 0
		p.irqRaised = kIRQ_NONE
		p.nmiPending = false
		return nil
	case p.opTick >= 2 && p.opTick <= 4:
		p.S--
		return nil
	case p.opTick == 5:
		p.opVal = p.bus.Read(RESET_VECTOR)
		return nil
	}
	// opTick == 6
	p.PC = (uint16(p.bus.Read(RESET_VECTOR+1)) << 8) + uint16(p.opVal)
	p.opTick = 0
	p.runningReset = false
	return nil
}
