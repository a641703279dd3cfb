// Package cpu implements the SM83 microprocessor, as used in the DMG-family
// handheld console. The SM83 is a hybrid of the Intel 8080 and the Zilog
// Z80: eight 8-bit registers pairable into four 16-bit views, a 16-bit
// program counter and stack pointer, and four status flags (Z, N, H, C)
// packed into the low register of the AF pair.
package cpu

import (
	"fmt"

	"goboy/mem"
)

// State is the Cpu's single piece of control-flow state beyond its
// registers. RUNNING is the only state Step will continue out of; every
// other value is terminal (see spec §4.2.6).
type State int

const (
	Running State = iota
	Halted
	Stopped
	Fatal
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Halted:
		return "HALTED"
	case Stopped:
		return "STOPPED"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// UnassignedOpcodeError is returned by Step when the program fetches a byte
// from the reserved/unassigned opcode set (spec §4.2.1, §7).
type UnassignedOpcodeError struct {
	PC     uint16
	Opcode byte
}

func (e *UnassignedOpcodeError) Error() string {
	return fmt.Sprintf("unassigned opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// HaltedError and StoppedError report that the program deliberately reached
// a terminal HALT/STOP instruction (spec §7). They are not failures of the
// interpreter; the host loop should simply stop calling Step.
type HaltedError struct{ PC uint16 }

func (e *HaltedError) Error() string { return fmt.Sprintf("HALT at PC=0x%04X", e.PC) }

type StoppedError struct{ PC uint16 }

func (e *StoppedError) Error() string { return fmt.Sprintf("STOP at PC=0x%04X", e.PC) }

// unassigned lists the 11 byte values in the primary opcode space with no
// defined SM83 instruction. Fetching one of these is fatal (spec §4.2.1).
var unassigned = map[byte]bool{
	0xD3: true, 0xDB: true, 0xDD: true,
	0xE3: true, 0xE4: true, 0xEB: true,
	0xEC: true, 0xED: true, 0xF4: true,
	0xFC: true, 0xFD: true,
}

// A Cpu owns the SM83 register file, flags, PC, SP, IME latch, and a
// reference to the Bus it executes against. Unlike the teacher's
// package-level Cpu singleton, every Cpu is an independently constructible
// value, enabling multi-instance tests (see spec §9, "globally mutable
// process state").
type Cpu struct {
	Bus *mem.Bus

	A, B, C, D, E, H, L byte
	f                   byte // low nibble always 0; see Flags/SetFlags

	PC, SP uint16

	Cycles uint64 // running total of T-states consumed since reset

	// IME is the interrupt master enable latch. EI sets it with a
	// one-instruction delay (imeDelay counts down the pending steps); DI
	// and RETI take effect immediately. No interrupt dispatch logic
	// consumes IME in this scope (spec §4.2.3, §9 open question 5).
	IME      bool
	imeDelay int

	State State
	// Err records the terminal condition for Fatal/Halted/Stopped states,
	// for the host loop to report (spec §7).
	Err error
}

// New returns a Cpu wired to bus with the architectural post-boot-ROM
// register state (spec §3, Lifecycles): PC=0x0100, SP=0xFFFE, A=0x01, and
// the documented boot values for the remaining registers and flags.
func New(bus *mem.Bus) *Cpu {
	c := &Cpu{Bus: bus}
	c.Reset()
	return c
}

// Reset restores the architectural defaults a DMG would have immediately
// after its internal boot ROM hands off to the cartridge at 0x0100.
func (c *Cpu) Reset() {
	c.A = 0x01
	c.SetFlags(0xB0) // Z=1 N=0 H=1 C=1
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.PC = 0x0100
	c.SP = 0xFFFE
	c.Cycles = 0
	c.IME = false
	c.imeDelay = 0
	c.State = Running
	c.Err = nil
}

// 16-bit paired register views. Reads compose the two 8-bit cells in
// big-endian order (high register first); writes decompose back into the
// underlying cells (spec §3).

func (c *Cpu) AF() uint16 { return uint16(c.A)<<8 | uint16(c.f) }
func (c *Cpu) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *Cpu) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *Cpu) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *Cpu) SetAF(v uint16) {
	c.A = byte(v >> 8)
	c.SetFlags(byte(v))
}
func (c *Cpu) SetBC(v uint16) { c.B, c.C = byte(v>>8), byte(v) }
func (c *Cpu) SetDE(v uint16) { c.D, c.E = byte(v>>8), byte(v) }
func (c *Cpu) SetHL(v uint16) { c.H, c.L = byte(v>>8), byte(v) }

// Flags returns the F register. Bits 0-3 are architecturally always zero
// (spec §3, Invariants).
func (c *Cpu) Flags() byte { return c.f }

// SetFlags writes F, masking the low nibble to zero.
func (c *Cpu) SetFlags(v byte) { c.f = v & 0xF0 }

const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (c *Cpu) getFlag(mask byte) bool { return c.f&mask != 0 }

func (c *Cpu) setFlag(mask byte, v bool) {
	if v {
		c.f |= mask
	} else {
		c.f &^= mask
	}
}

func (c *Cpu) Z() bool { return c.getFlag(flagZ) }
func (c *Cpu) N() bool { return c.getFlag(flagN) }
func (c *Cpu) H() bool { return c.getFlag(flagH) }
func (c *Cpu) C() bool { return c.getFlag(flagC) }

func (c *Cpu) SetZ(v bool) { c.setFlag(flagZ, v) }
func (c *Cpu) SetN(v bool) { c.setFlag(flagN, v) }
func (c *Cpu) SetH(v bool) { c.setFlag(flagH, v) }
func (c *Cpu) SetC(v bool) { c.setFlag(flagC, v) }

// fetch8 reads the byte at PC and advances PC past it; used while decoding
// d8/r8 operands.
func (c *Cpu) fetch8() byte {
	v := c.Bus.Read(c.PC)
	c.PC++
	return v
}

// fetch16 reads a little-endian d16 operand, advancing PC past both bytes.
func (c *Cpu) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

// Step performs one fetch-decode-execute cycle (spec §4.2): fetch the
// opcode at PC, decode it (consuming any d8/d16/r8 operands and advancing
// PC past the full instruction length), execute it, and add its cycle cost
// (plus any conditional extra for a taken branch or the CB page) to
// c.Cycles. It returns the number of T-states the instruction consumed.
//
// If the fetched byte is one of the reserved/unassigned opcodes, or the
// instruction is HALT/STOP, Step transitions c.State to a terminal value,
// records c.Err, and returns 0 cycles for the unassigned case (the
// instruction that set Halted/Stopped still reports its own cost).
func (c *Cpu) Step() (int, error) {
	if c.State != Running {
		return 0, c.Err
	}

	pc := c.PC
	op := c.fetch8()

	if unassigned[op] {
		err := &UnassignedOpcodeError{PC: pc, Opcode: op}
		c.State = Fatal
		c.Err = err
		return 0, err
	}

	if op == 0xCB {
		cbOp := c.fetch8()
		entry := cbTable[cbOp]
		entry.Exec(c)
		c.Cycles += uint64(entry.Cycles)
		c.tickIME()
		return int(entry.Cycles), nil
	}

	entry := primaryTable[op]
	extra := entry.Exec(c)
	total := int(entry.Cycles) + extra
	c.Cycles += uint64(total)

	var err error
	switch c.State {
	case Halted:
		err = &HaltedError{PC: pc}
		c.Err = err
	case Stopped:
		err = &StoppedError{PC: pc}
		c.Err = err
	}

	c.tickIME()
	return total, err
}

// tickIME advances the one-instruction delay EI imposes before IME actually
// takes effect (spec §4.2.2, EI/DI row).
func (c *Cpu) tickIME() {
	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.IME = true
		}
	}
}

// push writes a 16-bit value to the stack following PUSH semantics: high
// byte at SP-1, low byte at SP-2, SP -= 2 (spec §4.2.3).
func (c *Cpu) push(v uint16) {
	c.SP--
	c.Bus.Write(c.SP, byte(v>>8))
	c.SP--
	c.Bus.Write(c.SP, byte(v))
}

// pop reads a 16-bit value from the stack following POP semantics: low
// byte at SP, high byte at SP+1, SP += 2 (spec §4.2.3).
func (c *Cpu) pop() uint16 {
	lo := c.Bus.Read(c.SP)
	c.SP++
	hi := c.Bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}
