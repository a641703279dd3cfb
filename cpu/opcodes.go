package cpu

// An Opcode names a primary (non-CB-prefixed) instruction, its total
// byte length, and its baseline T-state cost (spec §4.2.1). Exec performs
// the instruction - including fetching any d8/d16/r8 operand, which
// advances PC - and returns the number of extra cycles to add for a
// taken conditional branch (0 for everything else).
//
// Like the teacher's Opcode table (cpu/opcodes.go, a map keyed by byte
// with a func(c *Cpu) byte field), this is a flat array indexed directly
// by opcode byte rather than a name-keyed map, per spec §9's guidance to
// express the dispatch table as a fixed-size array.
type Opcode struct {
	Name   string
	Length byte
	Cycles byte
	Exec   func(c *Cpu) int
}

var primaryTable [256]Opcode

func regName(r reg8) string {
	switch r {
	case regB:
		return "B"
	case regC:
		return "C"
	case regD:
		return "D"
	case regE:
		return "E"
	case regH:
		return "H"
	case regL:
		return "L"
	case regHL:
		return "(HL)"
	case regA:
		return "A"
	default:
		return "?"
	}
}

func pairNameDD(p pair16) string {
	switch p {
	case pairBC:
		return "BC"
	case pairDE:
		return "DE"
	case pairHL:
		return "HL"
	case pairSP:
		return "SP"
	default:
		return "?"
	}
}

func pairNameQQ(p pair16) string {
	if p == pairSP {
		return "AF"
	}
	return pairNameDD(p)
}

func init() {
	buildLDGrid()
	buildLDImmGrid()
	buildIncDecGrid()
	buildALUGrid()
	buildBlockZero()
	buildStackAndControl()
}

// buildLDGrid fills the LD r,r' / LD r,(HL) / LD (HL),r block, 0x40-0x7F,
// except 0x76 which is HALT (spec §4.2.2, §4.2.6).
func buildLDGrid() {
	for dst := regB; dst <= regA; dst++ {
		for src := regB; src <= regA; src++ {
			op := byte(0x40) + byte(dst)*8 + byte(src)
			if op == 0x76 {
				continue
			}
			cycles := byte(4)
			if dst == regHL || src == regHL {
				cycles = 8
			}
			d, s := dst, src
			primaryTable[op] = Opcode{
				Name: "LD " + regName(d) + "," + regName(s), Length: 1, Cycles: cycles,
				Exec: func(c *Cpu) int { c.ld8(d, s); return 0 },
			}
		}
	}
	primaryTable[0x76] = Opcode{
		Name: "HALT", Length: 1, Cycles: 4,
		Exec: func(c *Cpu) int { c.halt(); return 0 },
	}
}

// buildLDImmGrid fills LD r,d8 / LD (HL),d8: 0x06 + 8*r.
func buildLDImmGrid() {
	for r := regB; r <= regA; r++ {
		op := byte(0x06) + byte(r)*8
		cycles := byte(8)
		if r == regHL {
			cycles = 12
		}
		rr := r
		primaryTable[op] = Opcode{
			Name: "LD " + regName(r) + ",d8", Length: 2, Cycles: cycles,
			Exec: func(c *Cpu) int { c.setReg8(rr, c.fetch8()); return 0 },
		}
	}
}

// buildIncDecGrid fills INC r / DEC r (and (HL)): 0x04/0x05 + 8*r.
func buildIncDecGrid() {
	for r := regB; r <= regA; r++ {
		cycles := byte(4)
		if r == regHL {
			cycles = 12
		}
		rr := r
		incOp := byte(0x04) + byte(r)*8
		primaryTable[incOp] = Opcode{
			Name: "INC " + regName(r), Length: 1, Cycles: cycles,
			Exec: func(c *Cpu) int { c.inc8(rr); return 0 },
		}
		decOp := byte(0x05) + byte(r)*8
		primaryTable[decOp] = Opcode{
			Name: "DEC " + regName(r), Length: 1, Cycles: cycles,
			Exec: func(c *Cpu) int { c.dec8(rr); return 0 },
		}
	}
}

var aluFamilies = []struct {
	name string
	fn   func(c *Cpu, n byte)
}{
	{"ADD", func(c *Cpu, n byte) { c.addA(n, false) }},
	{"ADC", func(c *Cpu, n byte) { c.addA(n, true) }},
	{"SUB", func(c *Cpu, n byte) { c.subA(n, false) }},
	{"SBC", func(c *Cpu, n byte) { c.subA(n, true) }},
	{"AND", func(c *Cpu, n byte) { c.andA(n) }},
	{"XOR", func(c *Cpu, n byte) { c.xorA(n) }},
	{"OR", func(c *Cpu, n byte) { c.orA(n) }},
	{"CP", func(c *Cpu, n byte) { c.cpA(n) }},
}

// buildALUGrid fills the ALU A,r8 block (0x80-0xBF) and the matching ALU
// A,d8 immediate forms (0xC6,0xCE,...,0xFE), spec §4.2.2.
func buildALUGrid() {
	for i, fam := range aluFamilies {
		fn := fam.fn
		name := fam.name
		for r := regB; r <= regA; r++ {
			op := byte(0x80) + byte(i)*8 + byte(r)
			cycles := byte(4)
			if r == regHL {
				cycles = 8
			}
			rr := r
			primaryTable[op] = Opcode{
				Name: name + " A," + regName(r), Length: 1, Cycles: cycles,
				Exec: func(c *Cpu) int { fn(c, c.getReg8(rr)); return 0 },
			}
		}
		opImm := byte(0xC6) + byte(i)*8
		primaryTable[opImm] = Opcode{
			Name: name + " A,d8", Length: 2, Cycles: 8,
			Exec: func(c *Cpu) int { fn(c, c.fetch8()); return 0 },
		}
	}
}

// buildBlockZero fills the irregular 0x00-0x3F entries not already
// covered by the INC/DEC/LD-immediate grids above.
func buildBlockZero() {
	e := func(op byte, name string, length, cycles byte, exec func(c *Cpu) int) {
		primaryTable[op] = Opcode{Name: name, Length: length, Cycles: cycles, Exec: exec}
	}

	e(0x00, "NOP", 1, 4, func(c *Cpu) int { return 0 })

	for _, x := range []struct {
		base byte
		p    pair16
	}{{0x01, pairBC}, {0x11, pairDE}, {0x21, pairHL}, {0x31, pairSP}} {
		p := x.p
		e(x.base, "LD "+pairNameDD(p)+",d16", 3, 12, func(c *Cpu) int {
			c.setPairDD(p, c.fetch16())
			return 0
		})
		e(x.base+2, "INC "+pairNameDD(p), 1, 8, func(c *Cpu) int { c.incPair(p); return 0 })
		e(x.base+0x0A, "DEC "+pairNameDD(p), 1, 8, func(c *Cpu) int { c.decPair(p); return 0 })
		e(x.base+8, "ADD HL,"+pairNameDD(p), 1, 8, func(c *Cpu) int { c.addHLPair(p); return 0 })
	}

	e(0x02, "LD (BC),A", 1, 8, func(c *Cpu) int { c.Bus.Write(c.BC(), c.A); return 0 })
	e(0x0A, "LD A,(BC)", 1, 8, func(c *Cpu) int { c.A = c.Bus.Read(c.BC()); return 0 })
	e(0x12, "LD (DE),A", 1, 8, func(c *Cpu) int { c.Bus.Write(c.DE(), c.A); return 0 })
	e(0x1A, "LD A,(DE)", 1, 8, func(c *Cpu) int { c.A = c.Bus.Read(c.DE()); return 0 })

	e(0x22, "LD (HL+),A", 1, 8, func(c *Cpu) int {
		c.Bus.Write(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
		return 0
	})
	e(0x2A, "LD A,(HL+)", 1, 8, func(c *Cpu) int {
		c.A = c.Bus.Read(c.HL())
		c.SetHL(c.HL() + 1)
		return 0
	})
	e(0x32, "LD (HL-),A", 1, 8, func(c *Cpu) int {
		c.Bus.Write(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
		return 0
	})
	e(0x3A, "LD A,(HL-)", 1, 8, func(c *Cpu) int {
		c.A = c.Bus.Read(c.HL())
		c.SetHL(c.HL() - 1)
		return 0
	})

	e(0x07, "RLCA", 1, 4, func(c *Cpu) int { c.rlca(); return 0 })
	e(0x0F, "RRCA", 1, 4, func(c *Cpu) int { c.rrca(); return 0 })
	e(0x17, "RLA", 1, 4, func(c *Cpu) int { c.rla(); return 0 })
	e(0x1F, "RRA", 1, 4, func(c *Cpu) int { c.rra(); return 0 })
	e(0x27, "DAA", 1, 4, func(c *Cpu) int { c.daaOp(); return 0 })
	e(0x2F, "CPL", 1, 4, func(c *Cpu) int { c.cpl(); return 0 })
	e(0x37, "SCF", 1, 4, func(c *Cpu) int { c.scf(); return 0 })
	e(0x3F, "CCF", 1, 4, func(c *Cpu) int { c.ccf(); return 0 })

	e(0x08, "LD (a16),SP", 3, 20, func(c *Cpu) int {
		addr := c.fetch16()
		c.Bus.Write16(addr, c.SP)
		return 0
	})

	e(0x10, "STOP", 2, 4, func(c *Cpu) int { c.fetch8(); c.stopOp(); return 0 })

	e(0x18, "JR r8", 2, 12, func(c *Cpu) int { c.jr(int8(c.fetch8())); return 0 })
	for _, x := range []struct {
		base byte
		cc   cond
	}{{0x20, condNZ}, {0x28, condZ}, {0x30, condNC}, {0x38, condC}} {
		cc := x.cc
		e(x.base, "JR cc,r8", 2, 8, func(c *Cpu) int {
			e := int8(c.fetch8())
			if c.jrCond(cc, e) {
				return 4
			}
			return 0
		})
	}
}

// buildStackAndControl fills 0xC0-0xFF except the ALU-immediate forms
// already placed by buildALUGrid and the 0xCB prefix byte, which Step
// special-cases before ever indexing primaryTable.
func buildStackAndControl() {
	e := func(op byte, name string, length, cycles byte, exec func(c *Cpu) int) {
		primaryTable[op] = Opcode{Name: name, Length: length, Cycles: cycles, Exec: exec}
	}

	ccTable := []struct {
		retBase, jpBase, callBase byte
		cc                        cond
	}{
		{0xC0, 0xC2, 0xC4, condNZ},
		{0xC8, 0xCA, 0xCC, condZ},
		{0xD0, 0xD2, 0xD4, condNC},
		{0xD8, 0xDA, 0xDC, condC},
	}
	for _, x := range ccTable {
		cc := x.cc
		e(x.retBase, "RET cc", 1, 8, func(c *Cpu) int {
			if c.retCond(cc) {
				return 12
			}
			return 0
		})
		e(x.jpBase, "JP cc,a16", 3, 12, func(c *Cpu) int {
			addr := c.fetch16()
			if c.jpCond(cc, addr) {
				return 4
			}
			return 0
		})
		e(x.callBase, "CALL cc,a16", 3, 12, func(c *Cpu) int {
			addr := c.fetch16()
			if c.callCond(cc, addr) {
				return 12
			}
			return 0
		})
	}

	for _, x := range []struct {
		pushOp, popOp byte
		p             pair16
	}{
		{0xC5, 0xC1, pairBC},
		{0xD5, 0xD1, pairDE},
		{0xE5, 0xE1, pairHL},
		{0xF5, 0xF1, pairSP}, // qq encoding: index 3 is AF
	} {
		p := x.p
		e(x.pushOp, "PUSH "+pairNameQQ(p), 1, 16, func(c *Cpu) int { c.pushPair(p); return 0 })
		e(x.popOp, "POP "+pairNameQQ(p), 1, 12, func(c *Cpu) int { c.popPair(p); return 0 })
	}

	for k := byte(0); k < 8; k++ {
		op := byte(0xC7) + k*8
		addr := uint16(k) * 8
		e(op, "RST", 1, 16, func(c *Cpu) int { c.rst(addr); return 0 })
	}

	e(0xC3, "JP a16", 3, 16, func(c *Cpu) int { c.jp(c.fetch16()); return 0 })
	e(0xC9, "RET", 1, 16, func(c *Cpu) int { c.ret(); return 0 })
	e(0xCD, "CALL a16", 3, 24, func(c *Cpu) int { c.call(c.fetch16()); return 0 })
	e(0xD9, "RETI", 1, 16, func(c *Cpu) int { c.reti(); return 0 })
	e(0xE9, "JP (HL)", 1, 4, func(c *Cpu) int { c.jp(c.HL()); return 0 })

	e(0xE0, "LDH (a8),A", 2, 12, func(c *Cpu) int {
		a8 := c.fetch8()
		c.Bus.Write(0xFF00+uint16(a8), c.A)
		return 0
	})
	e(0xF0, "LDH A,(a8)", 2, 12, func(c *Cpu) int {
		a8 := c.fetch8()
		c.A = c.Bus.Read(0xFF00 + uint16(a8))
		return 0
	})
	e(0xE2, "LD (C),A", 1, 8, func(c *Cpu) int { c.Bus.Write(0xFF00+uint16(c.C), c.A); return 0 })
	e(0xF2, "LD A,(C)", 1, 8, func(c *Cpu) int { c.A = c.Bus.Read(0xFF00 + uint16(c.C)); return 0 })
	e(0xEA, "LD (a16),A", 3, 16, func(c *Cpu) int { c.Bus.Write(c.fetch16(), c.A); return 0 })
	e(0xFA, "LD A,(a16)", 3, 16, func(c *Cpu) int { c.A = c.Bus.Read(c.fetch16()); return 0 })

	e(0xE8, "ADD SP,r8", 2, 16, func(c *Cpu) int { c.addSP(int8(c.fetch8())); return 0 })
	e(0xF8, "LD HL,SP+r8", 2, 12, func(c *Cpu) int { c.ldHLSPPlus(int8(c.fetch8())); return 0 })
	e(0xF9, "LD SP,HL", 1, 8, func(c *Cpu) int { c.SP = c.HL(); return 0 })

	e(0xF3, "DI", 1, 4, func(c *Cpu) int { c.di(); return 0 })
	e(0xFB, "EI", 1, 4, func(c *Cpu) int { c.ei(); return 0 })
}
