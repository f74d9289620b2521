/*
   Bus: address-space abstractions decoupling the CPU from the device.

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

// Package bus defines the three interfaces the CPU execution engine uses
// to reach memory: the data bus (GPR/IO/SRAM, 12-bit address), the narrow
// I/O bus (6-bit address, used directly by IN/OUT/CBI/SBI/SBIC/SBIS), and
// the flash bus (byte-addressed program memory). A device wrapper (see
// emu/device) implements all three; the CPU never inspects what backs them.
package bus

import "errors"

// The three non-fatal error kinds from the error-handling design: every
// bus operation fails with one of these, wrapped with context via %w.
var (
	// ErrBusFault is returned when an address falls outside any routed
	// region of the target address space.
	ErrBusFault = errors.New("bus fault: address out of range")

	// ErrDecodeAnomaly is returned by the decoder's caller-facing helpers
	// when asked to report on a first word with no recognized encoding.
	// The decoder itself never fails hard; this exists so callers that
	// want strict behavior can detect the condition.
	ErrDecodeAnomaly = errors.New("decode anomaly: unrecognized opcode")

	// ErrPCOverflow is returned by the flash bus when a fetch reaches
	// past the end of program memory.
	ErrPCOverflow = errors.New("pc overflow: fetch beyond end of flash")
)

// DataBus loads and stores single bytes in the unified data address space
// (GPRs at 0x0000-0x001F, I/O registers at 0x0020-0x00FF, SRAM at
// 0x0100-0x08FF). Addresses are 12 bits; anything else is ErrBusFault.
type DataBus interface {
	Load(addr uint16) (uint8, error)
	Store(addr uint16, value uint8) error
}

// IOBus loads and stores single bytes addressed directly in I/O space
// (0..63), used by IN, OUT, CBI, SBI, SBIC, SBIS. This is the same
// backing storage as DataBus's 0x0020-0x005F window, reached without the
// data-bus offset.
type IOBus interface {
	Load(addr uint8) (uint8, error)
	Store(addr uint8, value uint8) error
}

// FlashBus reads and writes raw bytes in program memory. Addressing is by
// byte so that both single-word and double-word opcode fetches can read
// through the same interface; the CPU is responsible for converting its
// word-addressed PC to a byte address before calling Read.
type FlashBus interface {
	Read(byteAddr uint32, buf []byte) error
	Write(byteAddr uint32, buf []byte) error
}
