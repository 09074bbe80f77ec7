// Command 6502dbg loads a raw binary image onto a flat bus and starts
// the interactive tui debugger against it.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/go6502/core/cpu"
	"github.com/go6502/core/memory"
	"github.com/go6502/core/tui"
)

func main() {
	var (
		loadAddr   = flag.Uint16("addr", 0x0200, "Address to load the image at and point the reset vector to")
		cpuVariant = flag.String("cpu", "nmos", "CPU variant: nmos, ricoh, 6510, cmos")
		illegal    = flag.String("illegal", "strict", "Illegal opcode profile: strict, permissive")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: 6502dbg [flags] <image>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	image, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading image:", err)
		os.Exit(1)
	}

	variant, err := cpuTypeFromFlag(*cpuVariant)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	profile, err := illegalProfileFromFlag(*illegal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bus, err := memory.NewFlatBus(1<<16, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "allocating bus:", err)
		os.Exit(1)
	}
	bus.PowerOn()
	for i, b := range image {
		bus.Write(*loadAddr+uint16(i), b)
	}
	bus.Write(cpu.RESET_VECTOR, uint8(*loadAddr))
	bus.Write(cpu.RESET_VECTOR+1, uint8(*loadAddr>>8))

	chip, err := cpu.Init(&cpu.ChipDef{Cpu: variant, Bus: bus, IllegalOpcodes: profile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "initializing core:", err)
		os.Exit(1)
	}

	if err := tui.Debug(chip, bus, *loadAddr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cpuTypeFromFlag(s string) (cpu.CPUType, error) {
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

func illegalProfileFromFlag(s string) (cpu.IllegalOpcodeProfile, error) {
	switch s {
	case "strict":
		return cpu.IllegalStrict, nil
	case "permissive":
		return cpu.IllegalPermissive, nil
	default:
		return cpu.IllegalStrict, fmt.Errorf("unknown --illegal value %q: use strict or permissive", s)
	}
}
