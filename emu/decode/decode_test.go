package decode

import (
	"errors"
	"testing"

	"github.com/SSYSS000/avrds/emu/bus"
	I "github.com/SSYSS000/avrds/emu/instruction"
)

func w(first, second uint16) [2]uint16 {
	return [2]uint16{first, second}
}

func TestDecodeSingleWordArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		op     I.Op
		rd, rr uint8
	}{
		{"ADC r5,r20", 0x1e54, I.OpADC, 5, 20},
		{"ADD r0,r1", 0x0c01, I.OpADD, 0, 1},
		{"AND r31,r31", 0x23ff, I.OpAND, 31, 31},
		{"EOR r0,r0", 0x2400, I.OpEOR, 0, 0},
		{"MOV r16,r2", 0x2d02, I.OpMOV, 16, 2},
		{"SUB r10,r11", 0x18ab, I.OpSUB, 10, 11},
	}
	for _, tt := range tests {
		got := Decode(w(tt.opcode, 0))
		if got.Op != tt.op {
			t.Errorf("%s: op got: %s expected: %s", tt.name, got.Op, tt.op)
		}
		if got.Rd != tt.rd || got.Rr != tt.rr {
			t.Errorf("%s: operands got: Rd=%d Rr=%d expected: Rd=%d Rr=%d", tt.name, got.Rd, got.Rr, tt.rd, tt.rr)
		}
		if got.Length != 1 {
			t.Errorf("%s: length got: %d expected: 1", tt.name, got.Length)
		}
	}
}

func TestDecodeSERBeforeLDI(t *testing.T) {
	// SER r24 (K=0xff, d=24) must decode as SER, not LDI.
	got := Decode(w(0xef8f, 0))
	if got.Op != I.OpSER {
		t.Errorf("SER r24: op got: %s expected: %s", got.Op, I.OpSER)
	}
	if got.Rd != 24 {
		t.Errorf("SER r24: Rd got: %d expected: 24", got.Rd)
	}

	// LDI r24, 0x12 must still decode as LDI.
	got = Decode(w(0xe182, 0))
	if got.Op != I.OpLDI {
		t.Errorf("LDI r24,0x12: op got: %s expected: %s", got.Op, I.OpLDI)
	}
	if got.K != 0x12 {
		t.Errorf("LDI r24,0x12: K got: 0x%02x expected: 0x12", got.K)
	}
}

func TestDecodeCPIDoesNotTouchRr(t *testing.T) {
	got := Decode(w(0x3f0f, 0)) // CPI r16, 0xff
	if got.Op != I.OpCPI {
		t.Errorf("CPI: op got: %s expected: %s", got.Op, I.OpCPI)
	}
	if got.Rd != 16 {
		t.Errorf("CPI: Rd got: %d expected: 16", got.Rd)
	}
	if got.K != 0xff {
		t.Errorf("CPI: K got: 0x%02x expected: 0xff", got.K)
	}
	if got.Rr != 0 {
		t.Errorf("CPI: Rr got: %d expected: 0 (decode must never populate Rr for CPI)", got.Rr)
	}
}

func TestDecodeBranchSignExtension(t *testing.T) {
	// BRNE with a -2 word offset: the 7-bit k field (opcode bits 9-3) is
	// 0x7e, which sign-extends to -2.
	got := Decode(w(0xf7f1, 0)) // BRNE, k = -2
	if got.Op != I.OpBRNE {
		t.Errorf("BRNE: op got: %s expected: %s", got.Op, I.OpBRNE)
	}
	if got.K22 != -2 {
		t.Errorf("BRNE: K22 got: %d expected: -2", got.K22)
	}
}

func TestDecodeCallTwoWord(t *testing.T) {
	got := Decode(w(0x940e, 0x1234)) // CALL 0x1234
	if got.Op != I.OpCALL {
		t.Errorf("CALL: op got: %s expected: %s", got.Op, I.OpCALL)
	}
	if got.K22 != 0x1234 {
		t.Errorf("CALL: K22 got: 0x%x expected: 0x1234", got.K22)
	}
	if got.Length != 2 {
		t.Errorf("CALL: length got: %d expected: 2", got.Length)
	}
}

func TestDecodeLDSTVariants(t *testing.T) {
	// LD r0, Z with no displacement (0x8000) matches the LDD mask first,
	// the same precedence the reference decoder uses; it decodes as LDD
	// with Q=0, which executes identically to plain LD Z.
	got := Decode(w(0x8000, 0))
	if got.Op != I.OpLDD || got.BasePointer != I.BPZ || got.Q != 0 {
		t.Errorf("LD Z (q=0 form): got op=%s bp=%d q=%d", got.Op, got.BasePointer, got.Q)
	}

	// LD r0, Z+ (post-increment, 0x9001)
	got = Decode(w(0x9001, 0))
	if got.Op != I.OpLD || got.BasePointer != I.BPZ || got.BasePointerOp != I.BPOpPostInc {
		t.Errorf("LD Z+: got op=%s bp=%d bpop=%d", got.Op, got.BasePointer, got.BasePointerOp)
	}

	// LDD r0, Y+2 (q=2 -> opcode bits: 1000 0000 1000 1010 = 0x808a)
	got = Decode(w(0x808a, 0))
	if got.Op != I.OpLDD || got.BasePointer != I.BPY {
		t.Errorf("LDD Y+2: got op=%s bp=%d", got.Op, got.BasePointer)
	}
	if got.Q != 2 {
		t.Errorf("LDD Y+2: Q got: %d expected: 2", got.Q)
	}
}

func TestDecodeUnknownFallsBackToNOP(t *testing.T) {
	got := Decode(w(0xffff, 0))
	if got.Op != I.OpNOP {
		t.Errorf("unrecognized opcode: op got: %s expected: %s", got.Op, I.OpNOP)
	}
}

func TestDecodeStrictReportsAnomaly(t *testing.T) {
	_, err := DecodeStrict(w(0xffff, 0))
	if !errors.Is(err, bus.ErrDecodeAnomaly) {
		t.Errorf("DecodeStrict(0xffff): err got: %v expected: bus.ErrDecodeAnomaly", err)
	}
}

func TestDecodeStrictAcceptsRecognizedOpcodes(t *testing.T) {
	if _, err := DecodeStrict(w(0x0000, 0)); err != nil {
		t.Errorf("DecodeStrict(NOP): unexpected error: %v", err)
	}
	if _, err := DecodeStrict(w(0x0c01, 0)); err != nil { // ADD r0,r1
		t.Errorf("DecodeStrict(ADD): unexpected error: %v", err)
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		opcode uint16
		length int
	}{
		{0x940e, 2}, // CALL
		{0x940c, 2}, // JMP
		{0x9000, 2}, // LDS
		{0x9200, 2}, // STS
		{0x0000, 1}, // NOP
		{0x1c00, 1}, // ADC
	}
	for _, tt := range tests {
		got := Length(tt.opcode)
		if got != tt.length {
			t.Errorf("Length(0x%04x) got: %d expected: %d", tt.opcode, got, tt.length)
		}
	}
}
