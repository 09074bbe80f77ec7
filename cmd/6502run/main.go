// Command 6502run loads a raw binary image onto a flat bus, powers on a
// cpu.Chip against it, and drives the clock either for a fixed cycle
// count or until the core halts, printing the final register/flag
// state (and an optional disassembly trace) to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/go6502/core/cpu"
	"github.com/go6502/core/disassemble"
	"github.com/go6502/core/memory"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "6502run",
		Short: "Run a 6502 binary image against the cycle-accurate core",
	}

	var (
		loadAddr   uint16
		cycles     int
		cpuVariant string
		illegal    string
		trace      bool
		dumpState  bool
	)

	runCmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a binary image and run it for N cycles or to a halt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			variant, err := parseCPUType(cpuVariant)
			if err != nil {
				return err
			}
			profile, err := parseIllegalProfile(illegal)
			if err != nil {
				return err
			}

			bus, err := memory.NewFlatBus(1<<16, nil)
			if err != nil {
				return fmt.Errorf("allocating bus: %w", err)
			}
			bus.PowerOn()
			for i, b := range image {
				bus.Write(loadAddr+uint16(i), b)
			}
			bus.Write(cpu.RESET_VECTOR, uint8(loadAddr))
			bus.Write(cpu.RESET_VECTOR+1, uint8(loadAddr>>8))

			var observed []cpu.IllegalOpcodeReport
			chip, err := cpu.Init(&cpu.ChipDef{
				Cpu:            variant,
				Bus:            bus,
				IllegalOpcodes: profile,
				IllegalOpcodeObserver: func(r cpu.IllegalOpcodeReport) {
					observed = append(observed, r)
				},
			})
			if err != nil {
				return fmt.Errorf("initializing core: %w", err)
			}

			fmt.Printf("Loaded %d bytes at $%.4X, reset vector -> $%.4X\n", len(image), loadAddr, chip.GetPC())

			var runErr error
			n := 0
			for cycles <= 0 || n < cycles {
				if trace && chip.InstructionDone() {
					text, _ := disassemble.Step(chip.GetPC(), bus)
					fmt.Printf("  $%.4X: %s\n", chip.GetPC(), text)
				}
				if runErr = chip.Clock(); runErr != nil {
					break
				}
				n++
			}

			fmt.Printf("\nStopped after %d cycles (total %d)\n", n, chip.TotalCycles())
			if runErr != nil {
				fmt.Printf("Stop reason: %v\n", runErr)
			}
			if len(observed) > 0 {
				fmt.Printf("Strict-profile illegal opcodes observed: %d\n", len(observed))
			}

			regs := chip.GetRegisters()
			flags := chip.GetFlags()
			fmt.Printf("A=%.2X X=%.2X Y=%.2X SP=%.2X PC=%.4X  N=%v V=%v B=%v D=%v I=%v Z=%v C=%v\n",
				regs.A, regs.X, regs.Y, regs.SP, regs.PC,
				flags.N, flags.V, flags.B, flags.D, flags.I, flags.Z, flags.C)

			if dumpState {
				fmt.Println(spew.Sdump(chip.ToSnapshot()))
			}

			if _, ok := runErr.(cpu.HaltOpcode); ok {
				return nil // A halt is an expected stop condition, not a CLI failure.
			}
			return runErr
		},
	}
	runCmd.Flags().Uint16Var(&loadAddr, "addr", 0x0200, "Address to load the image at and point the reset vector to")
	runCmd.Flags().IntVar(&cycles, "cycles", 0, "Number of cycles to run (0 = run until halt/error)")
	runCmd.Flags().StringVar(&cpuVariant, "cpu", "nmos", "CPU variant: nmos, ricoh, 6510, cmos")
	runCmd.Flags().StringVar(&illegal, "illegal", "strict", "Illegal opcode profile: strict, permissive")
	runCmd.Flags().BoolVar(&trace, "trace", false, "Print a disassembly trace at each instruction boundary")
	runCmd.Flags().BoolVar(&dumpState, "dump-state", false, "Dump the full CPU snapshot with go-spew at the end")

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCPUType(s string) (cpu.CPUType, error) {
	switch s {
	case "nmos":
		return cpu.CPU_NMOS, nil
	case "ricoh":
		return cpu.CPU_NMOS_RICOH, nil
	case "6510":
		return cpu.CPU_NMOS_6510, nil
	case "cmos":
		return cpu.CPU_CMOS, nil
	default:
		return cpu.CPU_UNIMPLEMENTED, fmt.Errorf("unknown --cpu value %q: use nmos, ricoh, 6510, or cmos", s)
	}
}

func parseIllegalProfile(s string) (cpu.IllegalOpcodeProfile, error) {
	switch s {
	case "strict":
		return cpu.IllegalStrict, nil
	case "permissive":
		return cpu.IllegalPermissive, nil
	default:
		return cpu.IllegalStrict, fmt.Errorf("unknown --illegal value %q: use strict or permissive", s)
	}
}
