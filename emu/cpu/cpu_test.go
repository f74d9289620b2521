/*
 * AVR8SIM CPU test cases.
 *
 * Copyright 2024
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package cpu

import (
	"encoding/binary"
	"testing"

	"github.com/SSYSS000/avrds/emu/bus"
	I "github.com/SSYSS000/avrds/emu/instruction"
)

// fakeBus is a minimal in-memory implementation of DataBus, IOBus and
// FlashBus used to drive the CPU in isolation from the real device
// wrapper. sram is indexed by data address and covers 0x0000-0x08FF.
type fakeBus struct {
	sram  [0x0900]uint8
	io    [64]uint8
	flash [4096]uint8
}

func (b *fakeBus) Load(addr uint16) (uint8, error)  { return b.sram[addr], nil }
func (b *fakeBus) Store(addr uint16, v uint8) error { b.sram[addr] = v; return nil }

type ioBus struct{ b *fakeBus }

func (i ioBus) Load(addr uint8) (uint8, error)  { return i.b.io[addr], nil }
func (i ioBus) Store(addr uint8, v uint8) error { i.b.io[addr] = v; return nil }

func (b *fakeBus) Read(byteAddr uint32, buf []byte) error {
	if int(byteAddr)+len(buf) > len(b.flash) {
		return bus.ErrPCOverflow
	}
	copy(buf, b.flash[byteAddr:])
	return nil
}

func (b *fakeBus) Write(byteAddr uint32, buf []byte) error {
	if int(byteAddr)+len(buf) > len(b.flash) {
		return bus.ErrPCOverflow
	}
	copy(b.flash[byteAddr:], buf)
	return nil
}

func newTestCPU() (*CPU, *fakeBus) {
	fb := &fakeBus{}
	c := New(fb, ioBus{fb}, fb)
	c.SP = 0x08ff
	return c, fb
}

func (b *fakeBus) loadProgram(words ...uint16) {
	for i, w := range words {
		binary.LittleEndian.PutUint16(b.flash[i*2:], w)
	}
}

func TestOpADDFlags(t *testing.T) {
	tests := []struct {
		name       string
		rd, rr     uint8
		wantResult uint8
		wantC, wantZ, wantN, wantV bool
	}{
		{"0x01+0x01", 0x01, 0x01, 0x02, false, false, false, false},
		{"0xff+0x01 wraps", 0xff, 0x01, 0x00, true, true, false, false},
		{"0x7f+0x01 overflows", 0x7f, 0x01, 0x80, false, false, true, true},
	}
	for _, tt := range tests {
		c, _ := newTestCPU()
		c.R[0] = tt.rd
		c.R[1] = tt.rr
		c.opADD(I.Instruction{Rd: 0, Rr: 1})
		if c.R[0] != tt.wantResult {
			t.Errorf("%s: result got: 0x%02x expected: 0x%02x", tt.name, c.R[0], tt.wantResult)
		}
		if c.flag(FlagC) != tt.wantC {
			t.Errorf("%s: C got: %v expected: %v", tt.name, c.flag(FlagC), tt.wantC)
		}
		if c.flag(FlagZ) != tt.wantZ {
			t.Errorf("%s: Z got: %v expected: %v", tt.name, c.flag(FlagZ), tt.wantZ)
		}
		if c.flag(FlagN) != tt.wantN {
			t.Errorf("%s: N got: %v expected: %v", tt.name, c.flag(FlagN), tt.wantN)
		}
		if c.flag(FlagV) != tt.wantV {
			t.Errorf("%s: V got: %v expected: %v", tt.name, c.flag(FlagV), tt.wantV)
		}
	}
}

func TestOpCPIDoesNotClobberRr(t *testing.T) {
	c, _ := newTestCPU()
	c.R[16] = 0x05
	c.R[3] = 0x42 // unrelated register that must not be touched
	c.opCPI(I.Instruction{Rd: 16, K: 0x05})
	if !c.flag(FlagZ) {
		t.Errorf("CPI 0x05,0x05: Z got: false expected: true")
	}
	if c.R[3] != 0x42 {
		t.Errorf("CPI must never write through Rr: r3 got: 0x%02x expected: 0x42", c.R[3])
	}
	if c.R[16] != 0x05 {
		t.Errorf("CPI must not modify Rd: r16 got: 0x%02x expected: 0x05", c.R[16])
	}
}

func TestOpFMULSUIndependentOfICALL(t *testing.T) {
	c, _ := newTestCPU()
	c.R[16] = 0xff // -1 signed
	c.R[17] = 0x02 // unsigned 2
	c.SP = 0x08ff
	c.opFMULSU(I.Instruction{Rd: 16, Rr: 17})
	// (-1 * 2) << 1 = -4, as uint16 -> 0xfffc
	got := uint16(c.R[0]) | uint16(c.R[1])<<8
	if got != 0xfffc {
		t.Errorf("FMULSU: result got: 0x%04x expected: 0xfffc", got)
	}
	if c.SP != 0x08ff {
		t.Errorf("FMULSU must not touch the stack (no fallthrough into ICALL): SP got: 0x%04x expected: 0x08ff", c.SP)
	}
}

func TestLDSTRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.setZ(0x0200)
	c.R[5] = 0x99
	c.opST(I.Instruction{Rr: 5, BasePointer: I.BPZ, BasePointerOp: I.BPOpPostInc})
	if c.getZ() != 0x0201 {
		t.Errorf("ST Z+: Z got: 0x%04x expected: 0x0201", c.getZ())
	}
	c.setZ(0x0200)
	c.opLD(I.Instruction{Rd: 6, BasePointer: I.BPZ})
	if c.R[6] != 0x99 {
		t.Errorf("LD Z: r6 got: 0x%02x expected: 0x99", c.R[6])
	}
}

func TestOpLDDDoesNotMutatePointer(t *testing.T) {
	c, _ := newTestCPU()
	c.setY(0x0100)
	c.dataStore(0x0103, 0x55, "test")
	c.opLDD(I.Instruction{Rd: 2, BasePointer: I.BPY, Q: 3})
	if c.R[2] != 0x55 {
		t.Errorf("LDD Y+3: r2 got: 0x%02x expected: 0x55", c.R[2])
	}
	if c.getY() != 0x0100 {
		t.Errorf("LDD must not mutate Y: got: 0x%04x expected: 0x0100", c.getY())
	}
}

func TestBranchOffsetsPC(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 10
	c.setFlag(FlagZ, true)
	c.opBREQ(I.Instruction{K22: -2})
	if c.PC != 8 {
		t.Errorf("BREQ taken: PC got: %d expected: 8", c.PC)
	}

	c.PC = 10
	c.setFlag(FlagZ, false)
	c.opBREQ(I.Instruction{K22: -2})
	if c.PC != 10 {
		t.Errorf("BREQ not taken: PC got: %d expected: 10", c.PC)
	}
}

func TestCallAndRet(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x0010
	c.opCALL(I.Instruction{K22: 0x0100})
	if c.PC != 0x0100 {
		t.Errorf("CALL: PC got: 0x%04x expected: 0x0100", c.PC)
	}
	c.opRET(I.Instruction{})
	if c.PC != 0x0010 {
		t.Errorf("RET: PC got: 0x%04x expected: 0x0010", c.PC)
	}
}

func TestRCallPushesReturnPCLittleEndian(t *testing.T) {
	// Scenario 6: RCALL +2 from SP=0x08FF must leave SP=0x08FD and the
	// pushed return PC (word address 1) readable little-endian out of
	// stack[0x08FE..0x08FF], i.e. low byte at the lower address.
	c, fb := newTestCPU()
	c.SP = 0x08ff
	c.PC = 1 // already advanced past the one-word RCALL instruction
	c.opRCALL(I.Instruction{K22: 2})
	if c.SP != 0x08fd {
		t.Errorf("RCALL: SP got: 0x%04x expected: 0x08fd", c.SP)
	}
	lo, _ := fb.Load(0x08fe)
	hi, _ := fb.Load(0x08ff)
	if lo != 0x01 || hi != 0x00 {
		t.Errorf("RCALL: stack[0x08fe..0x08ff] got: lo=0x%02x hi=0x%02x expected: lo=0x01 hi=0x00 (little-endian return PC = 1)", lo, hi)
	}
	if c.PC != 3 {
		t.Errorf("RCALL: PC got: 0x%04x expected: 3", c.PC)
	}
}

func TestStepFetchesDecodesAndAdvancesPC(t *testing.T) {
	c, fb := newTestCPU()
	fb.loadProgram(0x0000) // NOP
	c.Step()
	if c.PC != 1 {
		t.Errorf("Step over NOP: PC got: %d expected: 1", c.PC)
	}
	if c.Cycles != 1 {
		t.Errorf("Step: Cycles got: %d expected: 1", c.Cycles)
	}
}

func TestStepOnPCOverflowAdvancesAndContinues(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 2048 // past the fake bus's tiny flash
	c.Step()
	if c.Halted {
		t.Errorf("Step past end of flash: Halted got: true expected: false (pc-overflow is non-fatal)")
	}
	if c.PC != 2049 {
		t.Errorf("Step past end of flash: PC got: %d expected: 2049", c.PC)
	}
	if c.Cycles != 1 {
		t.Errorf("Step past end of flash: Cycles got: %d expected: 1", c.Cycles)
	}
}
