package cpu

// This file centralizes the binary-arithmetic semantics shared by the
// accumulator-form instructions (instructions.go) and the CB page
// (cb.go): add/sub with carry/half-carry, rotates, DAA. Keeping the
// borrow rule and the rotate direction in one place is the fix for the
// open questions in spec §9 (the source computed SUB/CP carry as `A >
// operand`, and mixed up RL/RR with RLC/RRC).

// add8 adds b (and optionally the carry flag) to a, returning the 8-bit
// sum and whether a half-carry (bit 3) and carry (bit 7) occurred.
func add8(a, b byte, carryIn bool) (sum byte, half, carry bool) {
	var c byte
	if carryIn {
		c = 1
	}
	full := uint16(a) + uint16(b) + uint16(c)
	half = (a&0xF)+(b&0xF)+c > 0xF
	carry = full > 0xFF
	sum = byte(full)
	return
}

// sub8 subtracts b (and optionally the carry flag) from a, returning the
// 8-bit difference and whether a half-borrow and borrow occurred. This is
// the standard SM83 borrow rule: H is set when the low nibble of a is
// less than the low nibble of b (+ carry); C is set when a is less than b
// (+ carry) as unsigned 16-bit values. Spec §9 open question 1.
func sub8(a, b byte, carryIn bool) (diff byte, half, borrow bool) {
	var c byte
	if carryIn {
		c = 1
	}
	half = (a & 0xF) < (b&0xF)+c
	borrow = uint16(a) < uint16(b)+uint16(c)
	diff = a - b - c
	return
}

// add16 adds b to a (both 16-bit), returning the sum and whether a
// half-carry (bit 11) and carry (bit 15) occurred, per the corrected
// masks in spec §9 open question 4 (0x0FFF / 0xFFFF, not 0x1000/0x8000).
func add16(a, b uint16) (sum uint16, half, carry bool) {
	half = (a&0x0FFF)+(b&0x0FFF) > 0x0FFF
	full := uint32(a) + uint32(b)
	carry = full > 0xFFFF
	sum = uint16(full)
	return
}

// addSigned8 implements the shared semantics of ADD SP,r8 and LD HL,SP+r8
// (spec §4.2.2): the signed byte e is added to sp, with half-carry and
// carry computed on the low byte against the unsigned representation of e
// (bit 3 and bit 7 respectively), Z and N always cleared.
func addSigned8(sp uint16, e int8) (result uint16, half, carry bool) {
	se := uint16(int16(e))
	lo := byte(sp)
	eb := byte(e)
	half = (lo&0xF)+(eb&0xF) > 0xF
	carry = uint16(lo)+uint16(eb) > 0xFF
	result = sp + se
	return
}

// rlc rotates b left by one bit without going through the carry flag; the
// bit rotated out of position 7 becomes both the new bit 0 and the new
// carry.
func rlc(b byte) (result byte, carry bool) {
	carry = b&0x80 != 0
	result = b<<1 | b>>7
	return
}

// rrc rotates b right by one bit without going through the carry flag.
func rrc(b byte) (result byte, carry bool) {
	carry = b&0x01 != 0
	result = b>>1 | b<<7
	return
}

// rl rotates b left through the carry flag: the incoming carry becomes
// the new bit 0, and the outgoing bit 7 becomes the new carry. Spec §9
// open question 2 calls this out explicitly: RL/RR rotate THROUGH carry,
// RLC/RRC do not.
func rl(b byte, carryIn bool) (result byte, carryOut bool) {
	carryOut = b&0x80 != 0
	result = b << 1
	if carryIn {
		result |= 0x01
	}
	return
}

// rr rotates b right through the carry flag.
func rr(b byte, carryIn bool) (result byte, carryOut bool) {
	carryOut = b&0x01 != 0
	result = b >> 1
	if carryIn {
		result |= 0x80
	}
	return
}

// sla shifts b left by one bit, shifting in a zero at bit 0.
func sla(b byte) (result byte, carry bool) {
	carry = b&0x80 != 0
	result = b << 1
	return
}

// sra shifts b right by one bit, preserving bit 7 (arithmetic shift).
func sra(b byte) (result byte, carry bool) {
	carry = b&0x01 != 0
	result = b>>1 | b&0x80
	return
}

// srl shifts b right by one bit, shifting in a zero at bit 7 (logical
// shift).
func srl(b byte) (result byte, carry bool) {
	carry = b&0x01 != 0
	result = b >> 1
	return
}

// swap exchanges the high and low nibbles of b. It always clears the
// carry flag (spec §4.2.2, CB rotates/shifts row).
func swap(b byte) byte { return b<<4 | b>>4 }

// daa implements the binary-coded-decimal adjustment described in spec
// §4.2.5, operating on the flags left over from the preceding ADD/ADC (N
// clear) or SUB/SBC (N set) instruction.
func daa(a byte, n, h, c bool) (result byte, zero, carry bool) {
	newCarry := c
	if !n {
		if h || a&0x0F > 0x09 {
			a += 0x06
		}
		if c || a > 0x9F {
			a += 0x60
			newCarry = true
		}
	} else {
		if h {
			a -= 0x06
		}
		if c {
			a -= 0x60
		}
	}
	return a, a == 0, newCarry
}
