package cpu

// The CB-prefixed page (spec §4.2.1): a regular 32x8 grid. The low three
// bits of the opcode select the target register in the same B,C,D,E,H,L,
// (HL),A order as the primary LD grid (registers.go); the remaining bits
// select an operation class, and for BIT/RES/SET a bit index 0-7.
//
// Cycle cost is 8 for a register target, 16 for (HL) (spec §4.2.1) - this
// applies uniformly, including to BIT n,(HL), per this spec's simplified
// M-cycle accounting (it does not match real hardware's 12-cycle BIT
// (HL), which is a deliberately out-of-scope refinement per spec §1).

type CBOpcode struct {
	Name   string
	Cycles byte
	Exec   func(c *Cpu)
}

var cbTable [256]CBOpcode

func cbCycles(r reg8) byte {
	if r == regHL {
		return 16
	}
	return 8
}

// shiftOp applies fn to the target register's value, storing the result
// and setting Z/N/H/C per the standard CB rotate/shift rule: Z computed,
// N=0, H=0, C from the operation (spec §4.2.2).
func (c *Cpu) shiftOp(r reg8, fn func(byte) (byte, bool)) {
	v := c.getReg8(r)
	result, carry := fn(v)
	c.setReg8(r, result)
	c.SetZ(result == 0)
	c.SetN(false)
	c.SetH(false)
	c.SetC(carry)
}

func (c *Cpu) swapOp(r reg8) {
	v := c.getReg8(r)
	result := swap(v)
	c.setReg8(r, result)
	c.SetZ(result == 0)
	c.SetN(false)
	c.SetH(false)
	c.SetC(false)
}

// bitOp implements CB BIT n,r: Z=~bit, N=0, H=1, C unchanged (spec
// §4.2.2).
func (c *Cpu) bitOp(n byte, r reg8) {
	v := c.getReg8(r)
	c.SetZ(v&(1<<n) == 0)
	c.SetN(false)
	c.SetH(true)
}

// resOp/setOp implement CB RES n,r / SET n,r: flags unchanged.
func (c *Cpu) resOp(n byte, r reg8) { c.setReg8(r, c.getReg8(r)&^(1<<n)) }
func (c *Cpu) setOp(n byte, r reg8) { c.setReg8(r, c.getReg8(r)|(1<<n)) }

var rotateFamilies = []struct {
	name string
	fn   func(c *Cpu, r reg8)
}{
	{"RLC", func(c *Cpu, r reg8) { c.shiftOp(r, rlc) }},
	{"RRC", func(c *Cpu, r reg8) { c.shiftOp(r, rrc) }},
	{"RL", func(c *Cpu, r reg8) { c.shiftOp(r, func(b byte) (byte, bool) { return rl(b, c.C()) }) }},
	{"RR", func(c *Cpu, r reg8) { c.shiftOp(r, func(b byte) (byte, bool) { return rr(b, c.C()) }) }},
	{"SLA", func(c *Cpu, r reg8) { c.shiftOp(r, sla) }},
	{"SRA", func(c *Cpu, r reg8) { c.shiftOp(r, sra) }},
	{"SWAP", func(c *Cpu, r reg8) { c.swapOp(r) }},
	{"SRL", func(c *Cpu, r reg8) { c.shiftOp(r, srl) }},
}

func init() {
	for class, fam := range rotateFamilies {
		fn := fam.fn
		name := fam.name
		for r := regB; r <= regA; r++ {
			op := byte(class)*8 + byte(r)
			rr := r
			cbTable[op] = CBOpcode{Name: name, Cycles: cbCycles(r), Exec: func(c *Cpu) { fn(c, rr) }}
		}
	}

	for n := byte(0); n < 8; n++ {
		for r := regB; r <= regA; r++ {
			rr := r
			nn := n

			bitOpc := 0x40 + n*8 + byte(r)
			cbTable[bitOpc] = CBOpcode{Name: "BIT", Cycles: cbCycles(r), Exec: func(c *Cpu) { c.bitOp(nn, rr) }}

			resOpc := 0x80 + n*8 + byte(r)
			cbTable[resOpc] = CBOpcode{Name: "RES", Cycles: cbCycles(r), Exec: func(c *Cpu) { c.resOp(nn, rr) }}

			setOpc := 0xC0 + n*8 + byte(r)
			cbTable[setOpc] = CBOpcode{Name: "SET", Cycles: cbCycles(r), Exec: func(c *Cpu) { c.setOp(nn, rr) }}
		}
	}
}
