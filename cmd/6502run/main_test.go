package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go6502/core/cpu"
)

func TestParseCPUType(t *testing.T) {
	for flag, want := range map[string]cpu.CPUType{
		"nmos":  cpu.CPU_NMOS,
		"ricoh": cpu.CPU_NMOS_RICOH,
		"6510":  cpu.CPU_NMOS_6510,
		"cmos":  cpu.CPU_CMOS,
	} {
		got, err := parseCPUType(flag)
		assert.NoError(t, err, flag)
		assert.Equal(t, want, got, flag)
	}
	_, err := parseCPUType("z80")
	assert.Error(t, err)
}

func TestParseIllegalProfile(t *testing.T) {
	got, err := parseIllegalProfile("strict")
	assert.NoError(t, err)
	assert.Equal(t, cpu.IllegalStrict, got)

	got, err = parseIllegalProfile("permissive")
	assert.NoError(t, err)
	assert.Equal(t, cpu.IllegalPermissive, got)

	_, err = parseIllegalProfile("lenient")
	assert.Error(t, err)
}
