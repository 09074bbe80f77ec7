// Package irq defines the basic interfaces for working with a 6502
// family interrupt line. A component that generates an interrupt
// (a peripheral, a test harness) implements Sender; the cpu package
// polls it once per clock boundary rather than the two being wired
// together directly.
// NOTE: real silicon distinguishes level (IRQ) from edge (NMI)
// triggered lines, but that distinction is entirely in how the cpu
// package latches/clears what it reads here — Sender itself stays
// the same for both.
package irq

// Sender defines the interface for an IRQ source.
type Sender interface {
	// Raised indicates whether the interrupt is currently held high.
	Raised() bool
}

// Latch is a Sender whose state is set/cleared directly by a caller
// rather than computed from other state. It's the default Sender the
// cpu package installs when a ChipDef leaves Irq/Nmi nil, backing
// the Chip.IRQ()/Chip.NMI() convenience methods.
type Latch struct {
	raised bool
}

// Raised implements Sender.
func (l *Latch) Raised() bool {
	return l.raised
}

// Set raises the line.
func (l *Latch) Set() {
	l.raised = true
}

// Clear drops the line.
func (l *Latch) Clear() {
	l.raised = false
}
