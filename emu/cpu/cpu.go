/*
   CPU: main CPU instruction fetch and execute.

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

// Package cpu implements the AVR fetch-decode-execute loop: an
// instantiable CPU holding the register file, stack pointer, program
// counter and status register, driven against injected bus interfaces
// so it can be exercised against fakes in tests as well as the real
// device wrapper.
package cpu

import (
	"encoding/binary"

	"github.com/SSYSS000/avrds/emu/bus"
	"github.com/SSYSS000/avrds/emu/decode"
	I "github.com/SSYSS000/avrds/emu/instruction"
	"github.com/SSYSS000/avrds/util/logger"
)

// SREG bit positions.
const (
	FlagC uint8 = 1 << iota
	FlagZ
	FlagN
	FlagV
	FlagS
	FlagH
	FlagT
	FlagI
)

// CPU holds all AVR core state reachable by the instruction set: the 32
// general-purpose registers, stack pointer, program counter (a word
// address into flash) and status register. Memory is reached only
// through the injected bus interfaces.
type CPU struct {
	R    [32]uint8
	SP   uint16
	PC   uint16
	SREG uint8

	Cycles uint64
	Halted bool

	Data  bus.DataBus
	IO    bus.IOBus
	Flash bus.FlashBus

	table [I.NumOps]func(*CPU, I.Instruction)
}

// New builds a CPU with its dispatch table wired, ready to run against
// the given buses. The stack pointer and flags are left at zero; callers
// (typically the device wrapper) set SP to the top of SRAM.
func New(data bus.DataBus, io bus.IOBus, flash bus.FlashBus) *CPU {
	c := &CPU{Data: data, IO: io, Flash: flash}
	c.table = c.createTable()
	return c
}

func logBusFault(op string, addr uint8, err error) {
	logger.Warn("%s: bus fault at 0x%02x: %v", op, addr, err)
}

func (c *CPU) flag(bit uint8) bool { return c.SREG&bit != 0 }

func (c *CPU) setFlag(bit uint8, v bool) {
	if v {
		c.SREG |= bit
	} else {
		c.SREG &^= bit
	}
}

// X, Y and Z are the three 16-bit index register pairs used by indirect
// load/store; each is the low register followed by the high register.
func (c *CPU) getX() uint16 { return uint16(c.R[26]) | uint16(c.R[27])<<8 }
func (c *CPU) setX(v uint16) {
	c.R[26] = uint8(v)
	c.R[27] = uint8(v >> 8)
}

func (c *CPU) getY() uint16 { return uint16(c.R[28]) | uint16(c.R[29])<<8 }
func (c *CPU) setY(v uint16) {
	c.R[28] = uint8(v)
	c.R[29] = uint8(v >> 8)
}

func (c *CPU) getZ() uint16 { return uint16(c.R[30]) | uint16(c.R[31])<<8 }
func (c *CPU) setZ(v uint16) {
	c.R[30] = uint8(v)
	c.R[31] = uint8(v >> 8)
}

func (c *CPU) basePointer(bp I.BasePointer) (get func() uint16, set func(uint16)) {
	switch bp {
	case I.BPX:
		return c.getX, c.setX
	case I.BPY:
		return c.getY, c.setY
	default:
		return c.getZ, c.setZ
	}
}

func (c *CPU) push8(v uint8) {
	if err := c.Data.Store(c.SP, v); err != nil {
		logger.Warn("stack overflow at SP=0x%04x: %v", c.SP, err)
	}
	c.SP--
}

func (c *CPU) pop8() uint8 {
	c.SP++
	v, err := c.Data.Load(c.SP)
	if err != nil {
		logger.Warn("stack underflow at SP=0x%04x: %v", c.SP, err)
	}
	return v
}

func (c *CPU) pushPC() {
	c.push8(uint8(c.PC >> 8))
	c.push8(uint8(c.PC))
}

func (c *CPU) popPC() uint16 {
	lo := c.pop8()
	hi := c.pop8()
	return uint16(lo) | uint16(hi)<<8
}

// fetchWord reads one 16-bit instruction word at the given word address.
func (c *CPU) fetchWord(addr uint16) (uint16, error) {
	buf := make([]byte, 2)
	if err := c.Flash.Read(uint32(addr)*2, buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// Step fetches, decodes and executes one instruction. It never panics and
// never returns an error: bus faults and decode anomalies are logged and
// the step becomes a no-op, matching the core's no-panic error design.
func (c *CPU) Step() {
	if c.Halted {
		return
	}

	first, err := c.fetchWord(c.PC)
	if err != nil {
		logger.Warn("pc overflow fetching at 0x%04x: %v", c.PC, err)
		c.PC++
		c.Cycles++
		return
	}

	var words [2]uint16
	words[0] = first
	length := decode.Length(first)
	if length == 2 {
		second, err := c.fetchWord(c.PC + 1)
		if err != nil {
			logger.Warn("pc overflow fetching second word at 0x%04x: %v", c.PC+1, err)
			c.PC++
			c.Cycles++
			return
		}
		words[1] = second
	}

	inst := decode.Decode(words)
	c.PC += uint16(length)
	c.Cycles++

	logger.Debug(inst.Op.String(), "pc=0x%04x sreg=0x%02x", c.PC, c.SREG)

	handler := c.table[inst.Op]
	if handler == nil {
		logger.Warn("no execute handler for decoded op %s, treating as NOP", inst.Op)
		return
	}
	handler(c, inst)
}

// skipNext advances PC past the following instruction without executing
// it, used by CPSE/SBRC/SBRS/SBIC/SBIS.
func (c *CPU) skipNext() {
	first, err := c.fetchWord(c.PC)
	if err != nil {
		logger.Warn("pc overflow during skip at 0x%04x: %v", c.PC, err)
		c.PC++
		return
	}
	c.PC += uint16(decode.Length(first))
}
