package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goboy/mem"
)

// load writes program starting at the Cpu's reset PC (0x0100) and returns a
// freshly reset Cpu ready to step through it.
func load(program ...byte) *Cpu {
	bus := mem.NewBus()
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], program)
	bus.LoadROM(rom)
	return New(bus)
}

func TestResetState(t *testing.T) {
	c := load()
	assert.Equal(t, uint16(0x0100), c.PC)
	assert.Equal(t, uint16(0xFFFE), c.SP)
	assert.Equal(t, byte(0x01), c.A)
	assert.Equal(t, byte(0xB0), c.Flags())
	assert.Equal(t, Running, c.State)
}

// TestFlagsLowNibbleAlwaysZero covers spec §8 invariant: F's low nibble is
// architecturally always zero, even if written with garbage.
func TestFlagsLowNibbleAlwaysZero(t *testing.T) {
	c := load()
	c.SetFlags(0xFF)
	assert.Equal(t, byte(0xF0), c.Flags())
	c.SetAF(0x1234)
	assert.Equal(t, byte(0x30), c.Flags())
}

// TestS1XorA covers seed scenario S1: XOR A always zeroes A and sets Z,
// clearing N/H/C.
func TestS1XorA(t *testing.T) {
	c := load(0xAF) // XOR A
	c.A = 0x42
	c.SetFlags(0xF0)
	n, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.Z())
	assert.False(t, c.N())
	assert.False(t, c.H())
	assert.False(t, c.C())
}

// TestS2LoadAndIncPair covers seed scenario S2: LD BC,d16 followed by INC BC
// leaves flags untouched and increments the pair across the C/B boundary.
func TestS2LoadAndIncPair(t *testing.T) {
	c := load(0x01, 0xFF, 0x00, 0x03) // LD BC,0x00FF ; INC BC
	c.SetFlags(0x00)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x00FF), c.BC())

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0100), c.BC())
	assert.Equal(t, byte(0x00), c.Flags())
}

// TestS3Daa covers seed scenario S3: two BCD-style ADD A,0x06 operations
// followed by DAA correcting the result back to a valid BCD digit pair.
func TestS3Daa(t *testing.T) {
	c := load(
		0xC6, 0x06, // ADD A,0x06
		0xC6, 0x06, // ADD A,0x06
		0x27, // DAA
	)
	c.A = 0x15

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x1B), c.A)

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x21), c.A)
	assert.True(t, c.H())

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x27), c.A)
	assert.False(t, c.Z())
	assert.False(t, c.H())
}

// TestS4CallRet covers seed scenario S4: CALL pushes the return address and
// jumps; the callee's RET restores PC and SP to their pre-call values.
func TestS4CallRet(t *testing.T) {
	c := load(
		0xCD, 0x06, 0x01, // CALL 0x0106
		0x00,       // NOP (landing pad after return)
		0x00, 0x00, // padding up to 0x0106
		0xC9, // RET
	)
	startSP := c.SP

	_, err := c.Step() // CALL
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0106), c.PC)
	assert.Equal(t, startSP-2, c.SP)
	assert.Equal(t, uint16(0x0103), c.Bus.Read16(c.SP))

	_, err = c.Step() // RET
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0103), c.PC)
	assert.Equal(t, startSP, c.SP)
}

// TestS5CBSwap covers seed scenario S5: CB SWAP B exchanges nibbles and
// reports the 16-cycle-free, zero-only flag outcome on a register operand.
func TestS5CBSwap(t *testing.T) {
	c := load(0xCB, 0x30) // SWAP B
	c.B = 0xA5
	c.SetFlags(0xF0)

	n, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, byte(0x5A), c.B)
	assert.False(t, c.Z())
	assert.False(t, c.N())
	assert.False(t, c.H())
	assert.False(t, c.C())
}

// TestS5CBSwapZero covers the SWAP-to-zero edge case setting Z.
func TestS5CBSwapZero(t *testing.T) {
	c := load(0xCB, 0x37) // SWAP A
	c.A = 0x00

	_, err := c.Step()
	assert.NoError(t, err)
	assert.True(t, c.Z())
}

// TestS6JrBackwardSelfLoop covers seed scenario S6: a JR with a -2 offset
// loops back onto itself forever, exercising the signed-relative-jump math
// applied after PC has already advanced past the instruction.
func TestS6JrBackwardSelfLoop(t *testing.T) {
	c := load(0x18, 0xFE) // JR -2
	start := c.PC

	for range 5 {
		n, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, 12, n)
		assert.Equal(t, start, c.PC)
	}
}

// TestUnassignedOpcodeIsFatal covers spec §7: fetching a reserved byte is a
// fatal, terminal condition, not a panic.
func TestUnassignedOpcodeIsFatal(t *testing.T) {
	c := load(0xD3)
	_, err := c.Step()
	assert.Error(t, err)
	var uerr *UnassignedOpcodeError
	assert.ErrorAs(t, err, &uerr)
	assert.Equal(t, Fatal, c.State)

	// Stepping again after Fatal returns the same error without re-fetching.
	_, err2 := c.Step()
	assert.Equal(t, err, err2)
}

func TestHaltIsTerminal(t *testing.T) {
	c := load(0x76) // HALT
	_, err := c.Step()
	assert.Error(t, err)
	var herr *HaltedError
	assert.ErrorAs(t, err, &herr)
	assert.Equal(t, Halted, c.State)
}

func TestStopIsTerminal(t *testing.T) {
	c := load(0x10, 0x00) // STOP
	_, err := c.Step()
	assert.Error(t, err)
	var serr *StoppedError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, Stopped, c.State)
}

// TestEiDelaysOneInstruction covers spec §4.2.2: EI does not take effect
// until after the following instruction has executed.
func TestEiDelaysOneInstruction(t *testing.T) {
	c := load(0xFB, 0x00, 0x00) // EI ; NOP ; NOP
	c.IME = false

	_, err := c.Step() // EI
	assert.NoError(t, err)
	assert.False(t, c.IME)

	_, err = c.Step() // NOP - delay resolves here
	assert.NoError(t, err)
	assert.True(t, c.IME)
}

func TestDiIsImmediate(t *testing.T) {
	c := load(0xF3) // DI
	c.IME = true
	_, err := c.Step()
	assert.NoError(t, err)
	assert.False(t, c.IME)
}

// TestPushPopStackDiscipline covers spec §9 open question 3: PUSH stores
// high byte at SP-1 / low byte at SP-2, and POP reads them back in the
// mirrored order, round-tripping AF with F's low nibble masked to zero.
func TestPushPopStackDiscipline(t *testing.T) {
	c := load(
		0xF5, // PUSH AF
		0xD1, // POP DE
	)
	c.A = 0x12
	c.SetFlags(0x3F) // low nibble garbage, should be masked away on push

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x12), c.Bus.Read(c.SP+1)) // high byte = A
	assert.Equal(t, byte(0x30), c.Bus.Read(c.SP))   // low byte = F, masked

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1230), c.DE())
}

// TestAddHLCarryMasks covers spec §9 open question 4: ADD HL,rr computes H
// and C from bit 11/15 carries using the corrected 0x0FFF/0xFFFF masks.
func TestAddHLCarryMasks(t *testing.T) {
	c := load(0x09) // ADD HL,BC
	c.SetHL(0x0FFF)
	c.SetBC(0x0001)
	c.SetN(true)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1000), c.HL())
	assert.True(t, c.H())
	assert.False(t, c.C())
	assert.False(t, c.N())
}

func TestAddHLFullCarry(t *testing.T) {
	c := load(0x19) // ADD HL,DE
	c.SetHL(0xFFFF)
	c.SetDE(0x0001)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0000), c.HL())
	assert.True(t, c.H())
	assert.True(t, c.C())
}

// TestSubBorrowRule covers spec §9 open question 1: SUB's half-carry/carry
// flags follow the standard borrow rule, not the buggy A>operand pattern.
func TestSubBorrowRule(t *testing.T) {
	c := load(0xD6, 0x01) // SUB 0x01
	c.A = 0x00

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0xFF), c.A)
	assert.True(t, c.C())
	assert.True(t, c.H())
	assert.True(t, c.N())
	assert.False(t, c.Z())
}

// TestRotateThroughCarry covers spec §9 open question 2: RL/RR rotate
// through the carry flag rather than wrapping the bit directly.
func TestRotateThroughCarry(t *testing.T) {
	c := load(0xCB, 0x10) // RL B
	c.B = 0x80
	c.SetC(true)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x01), c.B) // old carry shifted into bit 0
	assert.True(t, c.C())            // old bit 7 shifted out into carry
}

func TestRotateWithoutCarryIsRLC(t *testing.T) {
	c := load(0xCB, 0x00) // RLC B
	c.B = 0x80
	c.SetC(false)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x01), c.B) // bit 7 wraps directly into bit 0
	assert.True(t, c.C())
}

// TestInvariantRunningUntilTerminal covers spec §8 invariant: Step only
// mutates state while Running, and never executes instructions once
// terminal.
func TestInvariantRunningUntilTerminal(t *testing.T) {
	c := load(0x76, 0xAF) // HALT ; XOR A (never reached)
	_, err := c.Step()
	assert.Error(t, err)
	a := c.A

	_, err2 := c.Step()
	assert.Equal(t, err, err2)
	assert.Equal(t, a, c.A)
}

// TestOpcodeTableCoverage spot-checks that every non-unassigned primary
// opcode has a non-empty name, and that every unassigned opcode is absent
// from dispatch (spec §7).
func TestOpcodeTableCoverage(t *testing.T) {
	for op := 0; op < 256; op++ {
		b := byte(op)
		if unassigned[b] {
			assert.Nil(t, primaryTable[b].Exec, "unassigned opcode 0x%02X has an exec", b)
			continue
		}
		if b == 0xCB {
			continue
		}
		assert.NotEmpty(t, primaryTable[b].Name, "opcode 0x%02X missing table entry", b)
		assert.NotNil(t, primaryTable[b].Exec, "opcode 0x%02X missing exec", b)
	}
}

func TestCBTableCoverage(t *testing.T) {
	for op := 0; op < 256; op++ {
		b := byte(op)
		assert.NotEmpty(t, cbTable[b].Name, "CB opcode 0x%02X missing table entry", b)
		assert.NotNil(t, cbTable[b].Exec, "CB opcode 0x%02X missing exec", b)
	}
}

func TestLdRR(t *testing.T) {
	c := load(0x41) // LD B,C
	c.C = 0x99
	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x99), c.B)
}

func TestIncDecHLIndirect(t *testing.T) {
	c := load(0x34, 0x35) // INC (HL) ; DEC (HL)
	c.SetHL(0xC000)
	c.Bus.Write(0xC000, 0x0F)

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x10), c.Bus.Read(0xC000))
	assert.True(t, c.H())

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x0F), c.Bus.Read(0xC000))
}
