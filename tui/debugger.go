// Package tui is an interactive bubbletea debugger for stepping a
// cpu.Chip cycle by cycle or instruction by instruction over a flat
// memory.Bus, for use from cmd/6502dbg.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/go6502/core/cpu"
	"github.com/go6502/core/disassemble"
	"github.com/go6502/core/memory"
)

type model struct {
	chip *cpu.Chip
	bus  memory.Bus

	offset uint16 // Base address for the memory page table.
	prevPC uint16
	err    error
}

var (
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// Init is the first function called. No initial command is needed: the
// Chip is already powered on and reset by the caller.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles a single keypress: "n" clocks one cycle, space/"s"
// runs the in-flight instruction to completion, "r" requests a reset
// (serviced by the following clocks), "q" quits.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "n":
			m.prevPC = m.chip.GetPC()
			if err := m.chip.Clock(); err != nil {
				m.err = err
			}
		case " ", "s":
			m.prevPC = m.chip.GetPC()
			if err := m.stepInstruction(); err != nil {
				m.err = err
			}
		case "r":
			m.chip.Reset()
			m.err = nil
		}
	}
	return m, nil
}

// stepInstruction clocks until the currently in-flight instruction (or
// interrupt/reset sequence) has retired, i.e. until the next opcode
// fetch boundary.
func (m model) stepInstruction() error {
	for {
		if err := m.chip.Clock(); err != nil {
			return err
		}
		if m.chip.InstructionDone() {
			return nil
		}
	}
}

// renderPage renders one 16-byte row of memory as a hex dump, with the
// current PC's byte highlighted.
func (m model) renderPage(start uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04X | ", start)
	pc := m.chip.GetPC()
	for i := 0; i < 16; i++ {
		addr := start + uint16(i)
		val := fmt.Sprintf("%02X", m.bus.Read(addr))
		if addr == pc {
			b.WriteString(highlightStyle.Render("[" + val + "]"))
			b.WriteByte(' ')
		} else {
			fmt.Fprintf(&b, " %s  ", val)
		}
	}
	return b.String()
}

func (m model) pageTable() string {
	header := headerStyle.Render("addr | " + strings.Repeat("  _  ", 16))
	rows := []string{header}
	base := m.offset &^ 0xF
	for i := 0; i < 8; i++ {
		rows = append(rows, m.renderPage(base+uint16(i*16)))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	regs := m.chip.GetRegisters()
	flags := m.chip.GetFlags()
	flagChar := func(set bool, c byte) byte {
		if set {
			return c
		}
		return '-'
	}
	flagLine := []byte{
		flagChar(flags.N, 'N'), ' ',
		flagChar(flags.V, 'V'), ' ',
		flagChar(flags.B, 'B'), ' ',
		flagChar(flags.D, 'D'), ' ',
		flagChar(flags.I, 'I'), ' ',
		flagChar(flags.Z, 'Z'), ' ',
		flagChar(flags.C, 'C'),
	}
	errLine := "-"
	if m.err != nil {
		errLine = m.err.Error()
	}
	text, _ := disassemble.Step(regs.PC, m.bus)
	return fmt.Sprintf(`
 PC: %.4X (was %.4X)
  A: %.2X   X: %.2X   Y: %.2X  SP: %.2X
cyc: %d (remaining %d)
  %s
next: %s
 err: %s
`,
		regs.PC, m.prevPC,
		regs.A, regs.X, regs.Y, regs.SP,
		m.chip.TotalCycles(), m.chip.CyclesRemaining(),
		string(flagLine),
		text,
		errLine,
	)
}

// View renders the UI: a memory page table beside the register/flag
// status, with the disassembly of the next instruction.
func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		headerStyle.Render("n: clock one cycle   space/s: step instruction   r: reset   q: quit"),
	)
}

// Debug starts an interactive TUI stepping chip against bus, with the
// memory page table starting at the 16-byte row that contains offset.
func Debug(chip *cpu.Chip, bus memory.Bus, offset uint16) error {
	m, err := tea.NewProgram(model{chip: chip, bus: bus, offset: offset}).Run()
	if err != nil {
		return err
	}
	final := m.(model)
	if final.err != nil {
		fmt.Println("Debugger exited with error:", spew.Sdump(final.err))
	}
	return nil
}
