package cpu

// Instruction semantics, grouped by family per spec §4.2.2. Each method
// operates on already-fetched operands; the decode tables in opcodes.go
// and cb.go are responsible for fetching d8/d16/r8 immediates (which
// advances PC) before calling into these.
//
// Every method's doc comment states the Z N H C effect using the same
// "- set reset" shorthand as the spec table: "-" means unchanged.

// ld8 implements LD r,r' / LD r,(HL) / LD (HL),r: Z N H C unchanged.
func (c *Cpu) ld8(dst, src reg8) { c.setReg8(dst, c.getReg8(src)) }

// inc8 implements INC r / INC (HL): Z computed, N=0, H computed, C
// unchanged.
func (c *Cpu) inc8(r reg8) {
	v := c.getReg8(r)
	result := v + 1
	c.SetH(v&0x0F == 0x0F)
	c.setReg8(r, result)
	c.SetZ(result == 0)
	c.SetN(false)
}

// dec8 implements DEC r / DEC (HL): Z computed, N=1, H computed, C
// unchanged.
func (c *Cpu) dec8(r reg8) {
	v := c.getReg8(r)
	result := v - 1
	c.SetH(v&0x0F == 0x00)
	c.setReg8(r, result)
	c.SetZ(result == 0)
	c.SetN(true)
}

// addA implements ADD A,n / ADC A,n: Z computed, N=0, H and C computed.
func (c *Cpu) addA(n byte, withCarry bool) {
	sum, half, carry := add8(c.A, n, withCarry && c.C())
	c.A = sum
	c.SetZ(sum == 0)
	c.SetN(false)
	c.SetH(half)
	c.SetC(carry)
}

// subA implements SUB n / SBC A,n: Z computed, N=1, H and C computed from
// the borrow rule (spec §9 open question 1).
func (c *Cpu) subA(n byte, withCarry bool) {
	diff, half, borrow := sub8(c.A, n, withCarry && c.C())
	c.A = diff
	c.SetZ(diff == 0)
	c.SetN(true)
	c.SetH(half)
	c.SetC(borrow)
}

// andA implements AND n: Z computed, N=0, H=1, C=0.
func (c *Cpu) andA(n byte) {
	c.A &= n
	c.SetZ(c.A == 0)
	c.SetN(false)
	c.SetH(true)
	c.SetC(false)
}

// xorA implements XOR n: Z computed, N=0, H=0, C=0.
func (c *Cpu) xorA(n byte) {
	c.A ^= n
	c.SetZ(c.A == 0)
	c.SetN(false)
	c.SetH(false)
	c.SetC(false)
}

// orA implements OR n: Z computed, N=0, H=0, C=0.
func (c *Cpu) orA(n byte) {
	c.A |= n
	c.SetZ(c.A == 0)
	c.SetN(false)
	c.SetH(false)
	c.SetC(false)
}

// cpA implements CP n: compares A to n without storing the result. Flags
// match SUB (spec §4.2.2).
func (c *Cpu) cpA(n byte) {
	diff, half, borrow := sub8(c.A, n, false)
	c.SetZ(diff == 0)
	c.SetN(true)
	c.SetH(half)
	c.SetC(borrow)
}

// incPair/decPair implement INC rr / DEC rr: 16-bit, wraps, flags
// unchanged.
func (c *Cpu) incPair(p pair16) { c.setPairDD(p, c.getPairDD(p)+1) }
func (c *Cpu) decPair(p pair16) { c.setPairDD(p, c.getPairDD(p)-1) }

// addHLPair implements ADD HL,rr: N=0, H and C computed on bits 11/15
// (spec §9 open question 4), Z unchanged.
func (c *Cpu) addHLPair(p pair16) {
	sum, half, carry := add16(c.HL(), c.getPairDD(p))
	c.SetHL(sum)
	c.SetN(false)
	c.SetH(half)
	c.SetC(carry)
}

// addSP implements ADD SP,r8: Z=0, N=0, H and C from the low byte (spec
// §4.2.2).
func (c *Cpu) addSP(e int8) {
	result, half, carry := addSigned8(c.SP, e)
	c.SP = result
	c.SetZ(false)
	c.SetN(false)
	c.SetH(half)
	c.SetC(carry)
}

// ldHLSPPlus implements LD HL,SP+r8: same flag rule as addSP, result
// stored in HL instead of SP.
func (c *Cpu) ldHLSPPlus(e int8) {
	result, half, carry := addSigned8(c.SP, e)
	c.SetHL(result)
	c.SetZ(false)
	c.SetN(false)
	c.SetH(half)
	c.SetC(carry)
}

// rlca/rrca/rla/rra rotate A. Unlike the CB page's RLC/RRC/RL/RR, these
// accumulator forms always clear Z (spec §4.2.2).
func (c *Cpu) rlca() {
	result, carry := rlc(c.A)
	c.A = result
	c.SetZ(false)
	c.SetN(false)
	c.SetH(false)
	c.SetC(carry)
}

func (c *Cpu) rrca() {
	result, carry := rrc(c.A)
	c.A = result
	c.SetZ(false)
	c.SetN(false)
	c.SetH(false)
	c.SetC(carry)
}

func (c *Cpu) rla() {
	result, carry := rl(c.A, c.C())
	c.A = result
	c.SetZ(false)
	c.SetN(false)
	c.SetH(false)
	c.SetC(carry)
}

func (c *Cpu) rra() {
	result, carry := rr(c.A, c.C())
	c.A = result
	c.SetZ(false)
	c.SetN(false)
	c.SetH(false)
	c.SetC(carry)
}

// daaOp implements DAA: Z computed, H=0, C may be set, N unchanged (spec
// §4.2.5).
func (c *Cpu) daaOp() {
	result, zero, carry := daa(c.A, c.N(), c.H(), c.C())
	c.A = result
	c.SetZ(zero)
	c.SetH(false)
	c.SetC(carry)
}

// cpl implements CPL: A = ~A; N=1, H=1, Z and C unchanged.
func (c *Cpu) cpl() {
	c.A = ^c.A
	c.SetN(true)
	c.SetH(true)
}

// scf implements SCF: C=1, N=0, H=0, Z unchanged.
func (c *Cpu) scf() {
	c.SetN(false)
	c.SetH(false)
	c.SetC(true)
}

// ccf implements CCF: C=~C, N=0, H=0, Z unchanged.
func (c *Cpu) ccf() {
	c.SetN(false)
	c.SetH(false)
	c.SetC(!c.C())
}

// jp sets PC unconditionally to addr.
func (c *Cpu) jp(addr uint16) { c.PC = addr }

// jpCond sets PC to addr if cc holds, reporting whether it took the
// branch; the caller applies the extra cycles from the opcode table.
func (c *Cpu) jpCond(cc cond, addr uint16) bool {
	if c.checkCond(cc) {
		c.PC = addr
		return true
	}
	return false
}

// jr adds the signed offset e to the already-advanced PC (spec §4.2.4).
func (c *Cpu) jr(e int8) { c.PC = uint16(int32(c.PC) + int32(e)) }

func (c *Cpu) jrCond(cc cond, e int8) bool {
	if c.checkCond(cc) {
		c.jr(e)
		return true
	}
	return false
}

// call pushes the return address (the address of the instruction after
// CALL, already in PC) and jumps to addr.
func (c *Cpu) call(addr uint16) {
	c.push(c.PC)
	c.PC = addr
}

func (c *Cpu) callCond(cc cond, addr uint16) bool {
	if c.checkCond(cc) {
		c.call(addr)
		return true
	}
	return false
}

// ret pops the return address into PC.
func (c *Cpu) ret() { c.PC = c.pop() }

func (c *Cpu) retCond(cc cond) bool {
	if c.checkCond(cc) {
		c.ret()
		return true
	}
	return false
}

// reti pops the return address into PC and sets IME immediately (no
// EI-style delay; spec §4.2.2).
func (c *Cpu) reti() {
	c.ret()
	c.IME = true
	c.imeDelay = 0
}

// rst pushes PC and jumps to the fixed zero-page address passed by the
// caller (0x00n0 for n in {00,08,...,38}; spec §4.2.2).
func (c *Cpu) rst(addr uint16) { c.call(addr) }

// pushPair/popPair implement PUSH rr / POP rr (spec §4.2.3). POP AF masks
// F's low nibble via setPairQQ -> SetAF -> SetFlags.
func (c *Cpu) pushPair(p pair16) { c.push(c.getPairQQ(p)) }
func (c *Cpu) popPair(p pair16)  { c.setPairQQ(p, c.pop()) }

// ei arms the one-instruction-delayed IME enable (spec §4.2.2): IME
// becomes true only after the instruction following EI has completed.
func (c *Cpu) ei() {
	if !c.IME {
		c.imeDelay = 2
	}
}

// di clears IME immediately and cancels any pending EI delay.
func (c *Cpu) di() {
	c.IME = false
	c.imeDelay = 0
}

// halt and stopOp are terminal in this scope (spec §4.2.6): no interrupt
// dispatch logic exists to wake the Cpu back into Running.
func (c *Cpu) halt()   { c.State = Halted }
func (c *Cpu) stopOp() { c.State = Stopped }
