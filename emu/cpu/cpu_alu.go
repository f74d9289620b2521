/*
   CPU arithmetic and logical operations.

   Copyright (c) 2024

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.

*/

package cpu

import I "github.com/SSYSS000/avrds/emu/instruction"

func bit(v uint8, n uint) bool  { return v&(1<<n) != 0 }
func bit16(v uint16, n uint) bool { return v&(1<<n) != 0 }

// addFlags sets the flags for an 8-bit add (ADD/ADC/ADIW's byte half is
// handled separately). rd and rr are the operands before the add; r is
// the result.
func (c *CPU) addFlags(rd, rr, r uint8) {
	h := (bit(rd, 3) && bit(rr, 3)) || (bit(rr, 3) && !bit(r, 3)) || (!bit(r, 3) && bit(rd, 3))
	v := (bit(rd, 7) && bit(rr, 7) && !bit(r, 7)) || (!bit(rd, 7) && !bit(rr, 7) && bit(r, 7))
	n := bit(r, 7)
	z := r == 0
	carry := (bit(rd, 7) && bit(rr, 7)) || (bit(rr, 7) && !bit(r, 7)) || (!bit(r, 7) && bit(rd, 7))
	c.setFlag(FlagH, h)
	c.setFlag(FlagV, v)
	c.setFlag(FlagN, n)
	c.setFlag(FlagZ, z)
	c.setFlag(FlagC, carry)
	c.setFlag(FlagS, n != v)
}

// subFlags sets the flags for an 8-bit subtract/compare. andZPrev, when
// true, ANDs the zero flag with its previous value, as CPC/SBC/SBCI
// require (their result can be zero by coincidence across a multi-byte
// chain even when the true 16-bit-plus difference is nonzero).
func (c *CPU) subFlags(rd, rr, r uint8, andZPrev bool) {
	h := (!bit(rd, 3) && bit(rr, 3)) || (bit(rr, 3) && bit(r, 3)) || (bit(r, 3) && !bit(rd, 3))
	v := (bit(rd, 7) && !bit(rr, 7) && !bit(r, 7)) || (!bit(rd, 7) && bit(rr, 7) && bit(r, 7))
	n := bit(r, 7)
	z := r == 0
	if andZPrev {
		z = z && c.flag(FlagZ)
	}
	carry := (!bit(rd, 7) && bit(rr, 7)) || (bit(rr, 7) && bit(r, 7)) || (bit(r, 7) && !bit(rd, 7))
	c.setFlag(FlagH, h)
	c.setFlag(FlagV, v)
	c.setFlag(FlagN, n)
	c.setFlag(FlagZ, z)
	c.setFlag(FlagC, carry)
	c.setFlag(FlagS, n != v)
}

func (c *CPU) logicalFlags(r uint8) {
	c.setFlag(FlagV, false)
	c.setFlag(FlagN, bit(r, 7))
	c.setFlag(FlagZ, r == 0)
	c.setFlag(FlagS, bit(r, 7))
}

func (c *CPU) opADC(inst I.Instruction) {
	rd, rr := c.R[inst.Rd], c.R[inst.Rr]
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	r := rd + rr + carryIn
	c.addFlags(rd, rr, r)
	c.R[inst.Rd] = r
}

func (c *CPU) opADD(inst I.Instruction) {
	rd, rr := c.R[inst.Rd], c.R[inst.Rr]
	r := rd + rr
	c.addFlags(rd, rr, r)
	c.R[inst.Rd] = r
}

func (c *CPU) opADIW(inst I.Instruction) {
	lo, hi := c.R[inst.Rd], c.R[inst.Rd+1]
	rdh7 := bit(hi, 7)
	rd16 := uint16(lo) | uint16(hi)<<8
	r16 := rd16 + uint16(inst.K6)
	c.R[inst.Rd] = uint8(r16)
	c.R[inst.Rd+1] = uint8(r16 >> 8)

	r15 := bit16(r16, 15)
	v := !rdh7 && r15
	carry := !r15 && rdh7
	c.setFlag(FlagV, v)
	c.setFlag(FlagN, r15)
	c.setFlag(FlagZ, r16 == 0)
	c.setFlag(FlagC, carry)
	c.setFlag(FlagS, r15 != v)
}

func (c *CPU) opSBIW(inst I.Instruction) {
	lo, hi := c.R[inst.Rd], c.R[inst.Rd+1]
	rdh7 := bit(hi, 7)
	rd16 := uint16(lo) | uint16(hi)<<8
	r16 := rd16 - uint16(inst.K6)
	c.R[inst.Rd] = uint8(r16)
	c.R[inst.Rd+1] = uint8(r16 >> 8)

	r15 := bit16(r16, 15)
	v := rdh7 && !r15
	carry := r15 && !rdh7
	c.setFlag(FlagV, v)
	c.setFlag(FlagN, r15)
	c.setFlag(FlagZ, r16 == 0)
	c.setFlag(FlagC, carry)
	c.setFlag(FlagS, r15 != v)
}

func (c *CPU) opAND(inst I.Instruction) {
	r := c.R[inst.Rd] & c.R[inst.Rr]
	c.R[inst.Rd] = r
	c.logicalFlags(r)
}

func (c *CPU) opANDI(inst I.Instruction) {
	r := c.R[inst.Rd] & inst.K
	c.R[inst.Rd] = r
	c.logicalFlags(r)
}

func (c *CPU) opOR(inst I.Instruction) {
	r := c.R[inst.Rd] | c.R[inst.Rr]
	c.R[inst.Rd] = r
	c.logicalFlags(r)
}

func (c *CPU) opORI(inst I.Instruction) {
	r := c.R[inst.Rd] | inst.K
	c.R[inst.Rd] = r
	c.logicalFlags(r)
}

func (c *CPU) opEOR(inst I.Instruction) {
	r := c.R[inst.Rd] ^ c.R[inst.Rr]
	c.R[inst.Rd] = r
	c.logicalFlags(r)
}

func (c *CPU) opCOM(inst I.Instruction) {
	r := ^c.R[inst.Rd]
	c.R[inst.Rd] = r
	c.logicalFlags(r)
	c.setFlag(FlagC, true)
}

// compare is the shared comparator behind CP, CPC and CPI. rr is passed
// as a plain value, never written back anywhere — this is the corrected
// behavior for CPI, whose reference implementation clobbered its source
// register with the immediate before comparing.
func (c *CPU) compare(rd, rr uint8, andZPrev bool) {
	r := rd - rr
	if andZPrev {
		carryIn := uint8(0)
		if c.flag(FlagC) {
			carryIn = 1
		}
		r = rd - rr - carryIn
	}
	c.subFlags(rd, rr, r, andZPrev)
}

func (c *CPU) opCP(inst I.Instruction) {
	c.compare(c.R[inst.Rd], c.R[inst.Rr], false)
}

func (c *CPU) opCPC(inst I.Instruction) {
	c.compare(c.R[inst.Rd], c.R[inst.Rr], true)
}

func (c *CPU) opCPI(inst I.Instruction) {
	c.compare(c.R[inst.Rd], inst.K, false)
}

func (c *CPU) opCPSE(inst I.Instruction) {
	if c.R[inst.Rd] == c.R[inst.Rr] {
		c.skipNext()
	}
}

func (c *CPU) opSUB(inst I.Instruction) {
	rd, rr := c.R[inst.Rd], c.R[inst.Rr]
	r := rd - rr
	c.subFlags(rd, rr, r, false)
	c.R[inst.Rd] = r
}

func (c *CPU) opSUBI(inst I.Instruction) {
	rd := c.R[inst.Rd]
	r := rd - inst.K
	c.subFlags(rd, inst.K, r, false)
	c.R[inst.Rd] = r
}

func (c *CPU) opSBC(inst I.Instruction) {
	rd, rr := c.R[inst.Rd], c.R[inst.Rr]
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	r := rd - rr - carryIn
	c.subFlags(rd, rr, r, true)
	c.R[inst.Rd] = r
}

func (c *CPU) opSBCI(inst I.Instruction) {
	rd := c.R[inst.Rd]
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	r := rd - inst.K - carryIn
	c.subFlags(rd, inst.K, r, true)
	c.R[inst.Rd] = r
}

func (c *CPU) opINC(inst I.Instruction) {
	rd := c.R[inst.Rd]
	r := rd + 1
	c.R[inst.Rd] = r
	c.setFlag(FlagV, rd == 0x7f)
	c.setFlag(FlagN, bit(r, 7))
	c.setFlag(FlagZ, r == 0)
	c.setFlag(FlagS, bit(r, 7) != (rd == 0x7f))
}

func (c *CPU) opDEC(inst I.Instruction) {
	rd := c.R[inst.Rd]
	r := rd - 1
	c.R[inst.Rd] = r
	c.setFlag(FlagV, rd == 0x80)
	c.setFlag(FlagN, bit(r, 7))
	c.setFlag(FlagZ, r == 0)
	c.setFlag(FlagS, bit(r, 7) != (rd == 0x80))
}

func (c *CPU) opNEG(inst I.Instruction) {
	rd := c.R[inst.Rd]
	r := uint8(0) - rd
	c.subFlags(0, rd, r, false)
	c.setFlag(FlagC, r != 0)
	c.R[inst.Rd] = r
}

func (c *CPU) opSER(inst I.Instruction) {
	c.R[inst.Rd] = 0xff
}

func (c *CPU) shiftFlags(r uint8, carryOut bool) {
	n := bit(r, 7)
	c.setFlag(FlagN, n)
	c.setFlag(FlagZ, r == 0)
	c.setFlag(FlagC, carryOut)
	v := n != carryOut
	c.setFlag(FlagV, v)
	c.setFlag(FlagS, n != v)
}

func (c *CPU) opLSR(inst I.Instruction) {
	rd := c.R[inst.Rd]
	carryOut := bit(rd, 0)
	r := rd >> 1
	c.R[inst.Rd] = r
	c.setFlag(FlagN, false)
	c.setFlag(FlagZ, r == 0)
	c.setFlag(FlagC, carryOut)
	v := carryOut
	c.setFlag(FlagV, v)
	c.setFlag(FlagS, v)
}

func (c *CPU) opASR(inst I.Instruction) {
	rd := c.R[inst.Rd]
	carryOut := bit(rd, 0)
	r := (rd >> 1) | (rd & 0x80)
	c.R[inst.Rd] = r
	c.shiftFlags(r, carryOut)
}

func (c *CPU) opROR(inst I.Instruction) {
	rd := c.R[inst.Rd]
	carryOut := bit(rd, 0)
	r := rd >> 1
	if c.flag(FlagC) {
		r |= 0x80
	}
	c.R[inst.Rd] = r
	c.shiftFlags(r, carryOut)
}

func (c *CPU) opSWAP(inst I.Instruction) {
	rd := c.R[inst.Rd]
	c.R[inst.Rd] = (rd << 4) | (rd >> 4)
}

func (c *CPU) opMUL(inst I.Instruction) {
	r := uint16(c.R[inst.Rd]) * uint16(c.R[inst.Rr])
	c.R[0] = uint8(r)
	c.R[1] = uint8(r >> 8)
	c.setFlag(FlagC, bit16(r, 15))
	c.setFlag(FlagZ, r == 0)
}

func (c *CPU) opMULS(inst I.Instruction) {
	r := uint16(int16(int8(c.R[inst.Rd])) * int16(int8(c.R[inst.Rr])))
	c.R[0] = uint8(r)
	c.R[1] = uint8(r >> 8)
	c.setFlag(FlagC, bit16(r, 15))
	c.setFlag(FlagZ, r == 0)
}

func (c *CPU) opMULSU(inst I.Instruction) {
	r := uint16(int16(int8(c.R[inst.Rd])) * int16(c.R[inst.Rr]))
	c.R[0] = uint8(r)
	c.R[1] = uint8(r >> 8)
	c.setFlag(FlagC, bit16(r, 15))
	c.setFlag(FlagZ, r == 0)
}

func (c *CPU) opFMUL(inst I.Instruction) {
	pre := uint16(c.R[inst.Rd]) * uint16(c.R[inst.Rr])
	r := pre << 1
	c.R[0] = uint8(r)
	c.R[1] = uint8(r >> 8)
	c.setFlag(FlagC, bit16(pre, 15))
	c.setFlag(FlagZ, r == 0)
}

func (c *CPU) opFMULS(inst I.Instruction) {
	pre := uint16(int16(int8(c.R[inst.Rd])) * int16(int8(c.R[inst.Rr])))
	r := pre << 1
	c.R[0] = uint8(r)
	c.R[1] = uint8(r >> 8)
	c.setFlag(FlagC, bit16(pre, 15))
	c.setFlag(FlagZ, r == 0)
}

// opFMULSU is implemented as a fully independent case: the reference
// implementation's FMULSU fell through into ICALL (a stack push) because
// its switch case had no terminating break.
func (c *CPU) opFMULSU(inst I.Instruction) {
	pre := uint16(int16(int8(c.R[inst.Rd])) * int16(c.R[inst.Rr]))
	r := pre << 1
	c.R[0] = uint8(r)
	c.R[1] = uint8(r >> 8)
	c.setFlag(FlagC, bit16(pre, 15))
	c.setFlag(FlagZ, r == 0)
}
