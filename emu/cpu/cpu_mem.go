/*
   CPU data transfer operations: register, I/O and memory moves.

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

import (
	I "github.com/SSYSS000/avrds/emu/instruction"
	"github.com/SSYSS000/avrds/util/logger"
)

func (c *CPU) opMOV(inst I.Instruction) { c.R[inst.Rd] = c.R[inst.Rr] }

func (c *CPU) opMOVW(inst I.Instruction) {
	c.R[inst.Rd] = c.R[inst.Rr]
	c.R[inst.Rd+1] = c.R[inst.Rr+1]
}

func (c *CPU) opLDI(inst I.Instruction) { c.R[inst.Rd] = inst.K }

func (c *CPU) opIN(inst I.Instruction) {
	v, err := c.IO.Load(inst.A)
	if err != nil {
		logBusFault("IN", inst.A, err)
	}
	c.R[inst.Rd] = v
}

func (c *CPU) opOUT(inst I.Instruction) {
	if err := c.IO.Store(inst.A, c.R[inst.Rr]); err != nil {
		logBusFault("OUT", inst.A, err)
	}
}

func (c *CPU) opCBI(inst I.Instruction) {
	v, err := c.IO.Load(inst.A)
	if err != nil {
		logBusFault("CBI", inst.A, err)
	}
	v &^= 1 << inst.B
	if err := c.IO.Store(inst.A, v); err != nil {
		logBusFault("CBI", inst.A, err)
	}
}

func (c *CPU) opSBI(inst I.Instruction) {
	v, err := c.IO.Load(inst.A)
	if err != nil {
		logBusFault("SBI", inst.A, err)
	}
	v |= 1 << inst.B
	if err := c.IO.Store(inst.A, v); err != nil {
		logBusFault("SBI", inst.A, err)
	}
}

func (c *CPU) opPUSH(inst I.Instruction) { c.push8(c.R[inst.Rd]) }
func (c *CPU) opPOP(inst I.Instruction)  { c.R[inst.Rd] = c.pop8() }

func (c *CPU) dataLoad(addr uint16, op string) uint8 {
	v, err := c.Data.Load(addr)
	if err != nil {
		logger.Warn("%s: bus fault at 0x%04x: %v", op, addr, err)
	}
	return v
}

func (c *CPU) dataStore(addr uint16, v uint8, op string) {
	if err := c.Data.Store(addr, v); err != nil {
		logger.Warn("%s: bus fault at 0x%04x: %v", op, addr, err)
	}
}

// opLD and opST implement the non-displacement indirect forms, including
// the pre-decrement/post-increment addressing the decoder captured in
// BasePointerOp. These are real implementations: the reference source
// left LD/ST as empty switch cases.
func (c *CPU) opLD(inst I.Instruction) {
	get, set := c.basePointer(inst.BasePointer)
	addr := get()
	if inst.BasePointerOp == I.BPOpPreDec {
		addr--
		set(addr)
	}
	c.R[inst.Rd] = c.dataLoad(addr, "LD")
	if inst.BasePointerOp == I.BPOpPostInc {
		set(addr + 1)
	}
}

func (c *CPU) opST(inst I.Instruction) {
	get, set := c.basePointer(inst.BasePointer)
	addr := get()
	if inst.BasePointerOp == I.BPOpPreDec {
		addr--
		set(addr)
	}
	c.dataStore(addr, c.R[inst.Rr], "ST")
	if inst.BasePointerOp == I.BPOpPostInc {
		set(addr + 1)
	}
}

// opLDD and opSTD implement the Y/Z-plus-displacement forms. The base
// pointer is never modified.
func (c *CPU) opLDD(inst I.Instruction) {
	get, _ := c.basePointer(inst.BasePointer)
	addr := get() + uint16(inst.Q)
	c.R[inst.Rd] = c.dataLoad(addr, "LDD")
}

func (c *CPU) opSTD(inst I.Instruction) {
	get, _ := c.basePointer(inst.BasePointer)
	addr := get() + uint16(inst.Q)
	c.dataStore(addr, c.R[inst.Rr], "STD")
}

func (c *CPU) opLDS(inst I.Instruction) {
	c.R[inst.Rd] = c.dataLoad(uint16(inst.K22), "LDS")
}

func (c *CPU) opSTS(inst I.Instruction) {
	c.dataStore(uint16(inst.K22), c.R[inst.Rr], "STS")
}

// opLPM and opELPM are the same operation in this implementation: flash
// addressing for program-memory reads fits in Z's 16 bits without a
// RAMPZ extension, so there is nothing for ELPM to do differently.
func (c *CPU) lpm(rd uint8, postInc bool) {
	z := c.getZ()
	buf := make([]byte, 1)
	if err := c.Flash.Read(uint32(z), buf); err != nil {
		logger.Warn("LPM: bus fault at 0x%04x: %v", z, err)
	}
	c.R[rd] = buf[0]
	if postInc {
		c.setZ(z + 1)
	}
}

func (c *CPU) opLPM(inst I.Instruction) {
	c.lpm(inst.Rd, inst.BasePointerOp == I.BPOpPostInc)
}

func (c *CPU) opLPMR0(_ I.Instruction) { c.lpm(0, false) }

func (c *CPU) opELPM(inst I.Instruction) {
	c.lpm(inst.Rd, inst.BasePointerOp == I.BPOpPostInc)
}

func (c *CPU) opELPMR0(_ I.Instruction) { c.lpm(0, false) }

// opSPM is out of scope (self-programming is an explicit non-goal); it
// executes as a no-op.
func (c *CPU) opSPM(_ I.Instruction) {}

func (c *CPU) opNOP(_ I.Instruction) {}

func (c *CPU) opSLEEP(_ I.Instruction) {}

func (c *CPU) opWDR(_ I.Instruction) {}

func (c *CPU) opBREAK(_ I.Instruction) {}
