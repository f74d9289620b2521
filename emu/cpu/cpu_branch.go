/*
   CPU branch, skip and status-bit operations.

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

func (c *CPU) branchIf(cond bool, k22 int32) {
	if cond {
		c.PC = uint16(int32(c.PC) + k22)
	}
}

func (c *CPU) opBRBC(inst I.Instruction) { c.branchIf(c.SREG&(1<<inst.S) == 0, inst.K22) }
func (c *CPU) opBRBS(inst I.Instruction) { c.branchIf(c.SREG&(1<<inst.S) != 0, inst.K22) }

func (c *CPU) opBRCC(inst I.Instruction) { c.branchIf(!c.flag(FlagC), inst.K22) }
func (c *CPU) opBRCS(inst I.Instruction) { c.branchIf(c.flag(FlagC), inst.K22) }
func (c *CPU) opBRSH(inst I.Instruction) { c.branchIf(!c.flag(FlagC), inst.K22) }
func (c *CPU) opBRLO(inst I.Instruction) { c.branchIf(c.flag(FlagC), inst.K22) }
func (c *CPU) opBREQ(inst I.Instruction) { c.branchIf(c.flag(FlagZ), inst.K22) }
func (c *CPU) opBRNE(inst I.Instruction) { c.branchIf(!c.flag(FlagZ), inst.K22) }
func (c *CPU) opBRMI(inst I.Instruction) { c.branchIf(c.flag(FlagN), inst.K22) }
func (c *CPU) opBRPL(inst I.Instruction) { c.branchIf(!c.flag(FlagN), inst.K22) }
func (c *CPU) opBRGE(inst I.Instruction) { c.branchIf(!c.flag(FlagS), inst.K22) }
func (c *CPU) opBRLT(inst I.Instruction) { c.branchIf(c.flag(FlagS), inst.K22) }
func (c *CPU) opBRHS(inst I.Instruction) { c.branchIf(c.flag(FlagH), inst.K22) }
func (c *CPU) opBRHC(inst I.Instruction) { c.branchIf(!c.flag(FlagH), inst.K22) }
func (c *CPU) opBRTS(inst I.Instruction) { c.branchIf(c.flag(FlagT), inst.K22) }
func (c *CPU) opBRTC(inst I.Instruction) { c.branchIf(!c.flag(FlagT), inst.K22) }
func (c *CPU) opBRVS(inst I.Instruction) { c.branchIf(c.flag(FlagV), inst.K22) }
func (c *CPU) opBRVC(inst I.Instruction) { c.branchIf(!c.flag(FlagV), inst.K22) }
func (c *CPU) opBRIE(inst I.Instruction) { c.branchIf(c.flag(FlagI), inst.K22) }
func (c *CPU) opBRID(inst I.Instruction) { c.branchIf(!c.flag(FlagI), inst.K22) }

func (c *CPU) opBSET(inst I.Instruction) { c.SREG |= 1 << inst.S }
func (c *CPU) opBCLR(inst I.Instruction) { c.SREG &^= 1 << inst.S }

func (c *CPU) opBST(inst I.Instruction) {
	c.setFlag(FlagT, bit(c.R[inst.Rd], uint(inst.B)))
}

func (c *CPU) opBLD(inst I.Instruction) {
	if c.flag(FlagT) {
		c.R[inst.Rd] |= 1 << inst.B
	} else {
		c.R[inst.Rd] &^= 1 << inst.B
	}
}

func (c *CPU) opSBRC(inst I.Instruction) {
	if !bit(c.R[inst.Rd], uint(inst.B)) {
		c.skipNext()
	}
}

func (c *CPU) opSBRS(inst I.Instruction) {
	if bit(c.R[inst.Rd], uint(inst.B)) {
		c.skipNext()
	}
}

func (c *CPU) ioBit(a, b uint8) bool {
	v, err := c.IO.Load(a)
	if err != nil {
		logBusFault("SBIC/SBIS/CBI/SBI", a, err)
	}
	return bit(v, uint(b))
}

func (c *CPU) opSBIC(inst I.Instruction) {
	if !c.ioBit(inst.A, inst.B) {
		c.skipNext()
	}
}

func (c *CPU) opSBIS(inst I.Instruction) {
	if c.ioBit(inst.A, inst.B) {
		c.skipNext()
	}
}

func (c *CPU) opRJMP(inst I.Instruction) { c.PC = uint16(int32(c.PC) + inst.K22) }

func (c *CPU) opRCALL(inst I.Instruction) {
	c.pushPC()
	c.PC = uint16(int32(c.PC) + inst.K22)
}

func (c *CPU) opJMP(inst I.Instruction) { c.PC = uint16(inst.K22) }

func (c *CPU) opCALL(inst I.Instruction) {
	c.pushPC()
	c.PC = uint16(inst.K22)
}

func (c *CPU) opRET(_ I.Instruction) {
	c.PC = c.popPC()
}

func (c *CPU) opRETI(_ I.Instruction) {
	c.PC = c.popPC()
	c.setFlag(FlagI, true)
}

// opIJMP and opEIJMP are the same operation in this implementation: the
// ATmega328P's 32KB flash fits entirely in Z's 16 bits, so there is no
// RAMPZ/EIND extension to apply.
func (c *CPU) opIJMP(_ I.Instruction)  { c.PC = c.getZ() }
func (c *CPU) opEIJMP(_ I.Instruction) { c.PC = c.getZ() }

func (c *CPU) opICALL(_ I.Instruction) {
	c.pushPC()
	c.PC = c.getZ()
}

func (c *CPU) opEICALL(_ I.Instruction) {
	c.pushPC()
	c.PC = c.getZ()
}
