/*
   Device: the ATmega328P address space wrapper.

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

// Package device wires together the ATmega328P's unified data address
// space, its narrow I/O window, and its flash and EEPROM arrays, and
// implements the three emu/bus interfaces the CPU execution engine
// consumes. It is the only concrete backing store in this module; the
// CPU never sees it except through the bus interfaces.
package device

import (
	"fmt"

	"github.com/SSYSS000/avrds/emu/bus"
	"github.com/SSYSS000/avrds/emu/cpu"
)

const (
	gprBase    = 0x0000
	gprSize    = 0x0020
	ioBase     = 0x0020
	ioSize     = 0x0040
	extIOBase  = 0x0060
	extIOSize  = 0x00a0
	sramBase   = 0x0100
	sramSize   = 0x0800 // 2KB internal SRAM
	flashSize  = 0x8000 // 32KB program flash
	eepromSize = 0x0400 // 1KB EEPROM

	// Standard I/O addresses the AVR core aliases onto CPU fields rather
	// than backing with independent storage.
	ioAddrSPL  = 0x3d
	ioAddrSPH  = 0x3e
	ioAddrSREG = 0x3f
)

// ATmega328P owns every byte of backing memory in the system and
// presents it to a *cpu.CPU through the three bus interfaces. GPR, SP and
// SREG are never independently stored here: they live on the CPU and are
// reached through it, so that register file and status register always
// read back exactly what the CPU last wrote.
type ATmega328P struct {
	CPU *cpu.CPU

	io     [ioSize]uint8
	extIO  [extIOSize]uint8
	sram   [sramSize]uint8
	flash  [flashSize]uint8
	eeprom [eepromSize]uint8
}

// ioWindow adapts ATmega328P's uint8-addressed IOLoad/IOStore to
// bus.IOBus; it can't live on ATmega328P itself since Go has no method
// overloading and DataBus already claims Load/Store with uint16
// addresses.
type ioWindow struct{ d *ATmega328P }

func (w ioWindow) Load(addr uint8) (uint8, error)  { return w.d.IOLoad(addr) }
func (w ioWindow) Store(addr uint8, v uint8) error { return w.d.IOStore(addr, v) }

// New builds a device with a fresh CPU wired against it, SP initialized
// to the top of SRAM as the reference implementation does.
func New() *ATmega328P {
	d := &ATmega328P{}
	d.CPU = cpu.New(d, ioWindow{d}, d)
	d.CPU.SP = sramBase + sramSize - 1
	return d
}

// LoadProgram copies a flash image (little-endian opcode words, already
// packed into bytes) into program memory starting at byte address 0.
func (d *ATmega328P) LoadProgram(image []byte) error {
	if len(image) > len(d.flash) {
		return fmt.Errorf("program image of %d bytes exceeds %d-byte flash: %w", len(image), len(d.flash), bus.ErrBusFault)
	}
	copy(d.flash[:], image)
	return nil
}

// Load implements bus.DataBus over the unified GPR/IO/SRAM address space.
func (d *ATmega328P) Load(addr uint16) (uint8, error) {
	switch {
	case addr < gprBase+gprSize:
		return d.CPU.R[addr], nil
	case addr < ioBase+ioSize:
		v, err := d.IOLoad(uint8(addr - ioBase))
		return v, err
	case addr < extIOBase+extIOSize:
		return d.extIO[addr-extIOBase], nil
	case addr < sramBase+sramSize:
		return d.sram[addr-sramBase], nil
	default:
		return 0, fmt.Errorf("data address 0x%04x: %w", addr, bus.ErrBusFault)
	}
}

// Store implements bus.DataBus.
func (d *ATmega328P) Store(addr uint16, v uint8) error {
	switch {
	case addr < gprBase+gprSize:
		d.CPU.R[addr] = v
		return nil
	case addr < ioBase+ioSize:
		return d.IOStore(uint8(addr-ioBase), v)
	case addr < extIOBase+extIOSize:
		d.extIO[addr-extIOBase] = v
		return nil
	case addr < sramBase+sramSize:
		d.sram[addr-sramBase] = v
		return nil
	default:
		return fmt.Errorf("data address 0x%04x: %w", addr, bus.ErrBusFault)
	}
}

// IOLoad implements bus.IOBus, the narrow 6-bit-addressed window IN,
// OUT, CBI, SBI, SBIC and SBIS use directly. SPL, SPH and SREG are
// special-cased onto the CPU's own fields rather than the io array so
// that a write through OUT is visible to PC-relative stack and flag
// logic immediately.
func (d *ATmega328P) IOLoad(addr uint8) (uint8, error) {
	switch addr {
	case ioAddrSPL:
		return uint8(d.CPU.SP), nil
	case ioAddrSPH:
		return uint8(d.CPU.SP >> 8), nil
	case ioAddrSREG:
		return d.CPU.SREG, nil
	default:
		if int(addr) >= len(d.io) {
			return 0, fmt.Errorf("io address 0x%02x: %w", addr, bus.ErrBusFault)
		}
		return d.io[addr], nil
	}
}

// IOStore implements bus.IOBus.
func (d *ATmega328P) IOStore(addr uint8, v uint8) error {
	switch addr {
	case ioAddrSPL:
		d.CPU.SP = (d.CPU.SP & 0xff00) | uint16(v)
		return nil
	case ioAddrSPH:
		d.CPU.SP = (d.CPU.SP & 0x00ff) | uint16(v)<<8
		return nil
	case ioAddrSREG:
		d.CPU.SREG = v
		return nil
	default:
		if int(addr) >= len(d.io) {
			return fmt.Errorf("io address 0x%02x: %w", addr, bus.ErrBusFault)
		}
		d.io[addr] = v
		return nil
	}
}

// Read implements bus.FlashBus.
func (d *ATmega328P) Read(byteAddr uint32, buf []byte) error {
	if byteAddr+uint32(len(buf)) > uint32(len(d.flash)) {
		return fmt.Errorf("flash address 0x%x: %w", byteAddr, bus.ErrPCOverflow)
	}
	copy(buf, d.flash[byteAddr:])
	return nil
}

// Write implements bus.FlashBus. SPM executes as a no-op, so the CPU
// never calls this; LoadProgram copies into flash directly.
func (d *ATmega328P) Write(byteAddr uint32, buf []byte) error {
	if byteAddr+uint32(len(buf)) > uint32(len(d.flash)) {
		return fmt.Errorf("flash address 0x%x: %w", byteAddr, bus.ErrPCOverflow)
	}
	copy(d.flash[byteAddr:], buf)
	return nil
}
