/*
   Decode: maps AVR opcode words to a decoded instruction record.

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

// Package decode turns one or two 16-bit opcode words into a decoded
// instruction record. The decoder is pure: it has no side effects other
// than logging a warning when it falls back to NOP for an unrecognized
// first word, and it never fails hard.
package decode

import (
	"fmt"

	"github.com/SSYSS000/avrds/emu/bus"
	I "github.com/SSYSS000/avrds/emu/instruction"
	"github.com/SSYSS000/avrds/util/logger"
)

// Length returns the opcode length, in words, implied by the first word
// alone. Only CALL, JMP, LDS and STS consume a second word.
func Length(first uint16) int {
	switch {
	case first&0xfe0e == 0x940e: // CALL
		return 2
	case first&0xfe0e == 0x940c: // JMP
		return 2
	case first&0xfe0f == 0x9000: // LDS
		return 2
	case first&0xfe0f == 0x9200: // STS
		return 2
	default:
		return 1
	}
}

// signExtend interprets the low n bits of v as a two's-complement signed
// value of that width.
func signExtend(v uint16, n uint) int32 {
	shift := 32 - n
	return int32(uint32(v)<<shift) >> shift
}

func adcLikeParams(w uint16) (rd, rr uint8) {
	rd = uint8((w >> 4) & 0x1f)
	rr = uint8(w & 0xf)
	if w&0x200 != 0 {
		rr |= 0x10
	}
	return rd, rr
}

func andiLikeParams(w uint16) (rd, k uint8) {
	rd = uint8((w>>4)&0xf) + 16
	k = uint8((w>>4)&0xf0) | uint8(w&0xf)
	return rd, k
}

func adiwLikeParams(w uint16) (rd, k uint8) {
	rd = uint8((w>>4)&0x3)*2 + 24
	k = uint8(((w>>2)&0x30)|(w&0xf)) & 0x3f
	return rd, k
}

func sbrcLikeParams(w uint16) (rd, b uint8) {
	b = uint8(w & 0x7)
	rd = uint8((w >> 4) & 0x1f)
	return rd, b
}

func cbiLikeParams(w uint16) (a, b uint8) {
	b = uint8(w & 0x7)
	a = uint8((w >> 3) & 0x1f)
	return a, b
}

func branchSregParams(w uint16) (k int32, s uint8) {
	s = uint8(w & 0x7)
	k = signExtend((w>>3)&0x7f, 7)
	return k, s
}

func branchCondParams(w uint16) int32 {
	return signExtend((w>>3)&0x7f, 7)
}

func callLikeParam(words [2]uint16) int32 {
	addr := uint32((words[0]>>4)&0x3f)<<1 | uint32(words[0]&1)
	addr = (addr << 16) | uint32(words[1])
	return int32(addr)
}

// Decode decodes the instruction beginning at words[0]. words[1] is only
// consulted when Length(words[0]) == 2; callers may pass zero there
// otherwise. The returned Instruction always has Length set to 1 or 2.
func Decode(words [2]uint16) I.Instruction {
	w := words[0]
	var inst I.Instruction
	inst.Length = Length(w)

	switch {
	// --- exact-constant encodings: tested before any mask that could
	// also match them. ---
	case w == 0x0000:
		inst.Op = I.OpNOP
	case w == 0x9508:
		inst.Op = I.OpRET
	case w == 0x9518:
		inst.Op = I.OpRETI
	case w == 0x9409:
		inst.Op = I.OpIJMP
	case w == 0x9509:
		inst.Op = I.OpICALL
	case w == 0x9419:
		inst.Op = I.OpEIJMP
	case w == 0x9519:
		inst.Op = I.OpEICALL
	case w == 0x9588:
		inst.Op = I.OpSLEEP
	case w == 0x9598:
		inst.Op = I.OpBREAK
	case w == 0x95a8:
		inst.Op = I.OpWDR
	case w == 0x95e8:
		inst.Op = I.OpSPM
	case w == 0x95c8:
		inst.Op = I.OpLPMR0
	case w == 0x95d8:
		inst.Op = I.OpELPMR0

	// BCLR/BSET (and the CLC..CLZ/SEC..SEZ aliases over them).
	case w&0xff8f == 0x9488:
		inst.Op = I.OpBCLR
		inst.S = uint8((w >> 4) & 0x7)
	case w&0xff8f == 0x9408:
		inst.Op = I.OpBSET
		inst.S = uint8((w >> 4) & 0x7)

	// LPM/ELPM (register forms, with optional post-increment).
	case w&0xfe0e == 0x9004:
		inst.Op = I.OpLPM
		inst.Rd = uint8((w >> 4) & 0x1f)
		if w&1 != 0 {
			inst.BasePointerOp = I.BPOpPostInc
		}
	case w&0xfe0e == 0x9006:
		inst.Op = I.OpELPM
		inst.Rd = uint8((w >> 4) & 0x1f)
		if w&1 != 0 {
			inst.BasePointerOp = I.BPOpPostInc
		}

	// ADC-like: ADC, ADD, AND, CP, CPC, CPSE, EOR, MOV, MUL, OR, SBC, SUB.
	case w&0xfc00 == 0x1c00:
		inst.Op = I.OpADC
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x0c00:
		inst.Op = I.OpADD
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x2000:
		inst.Op = I.OpAND
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x1400:
		inst.Op = I.OpCP
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x0400:
		inst.Op = I.OpCPC
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x1000:
		inst.Op = I.OpCPSE
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x2400:
		inst.Op = I.OpEOR
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x2c00:
		inst.Op = I.OpMOV
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x9c00:
		inst.Op = I.OpMUL
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x2800:
		inst.Op = I.OpOR
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x0800:
		inst.Op = I.OpSBC
		inst.Rd, inst.Rr = adcLikeParams(w)
	case w&0xfc00 == 0x1800:
		inst.Op = I.OpSUB
		inst.Rd, inst.Rr = adcLikeParams(w)

	// SER before the general LDI mask (SER is LDI with K == 0xFF).
	case w&0xff0f == 0xef0f:
		inst.Op = I.OpSER
		inst.Rd = uint8((w>>4)&0xf) + 16

	// ANDI-like: ANDI, LDI, ORI/SBR, CPI, SBCI, SUBI.
	case w&0xf000 == 0x7000:
		inst.Op = I.OpANDI
		inst.Rd, inst.K = andiLikeParams(w)
	case w&0xf000 == 0xe000:
		inst.Op = I.OpLDI
		inst.Rd, inst.K = andiLikeParams(w)
	case w&0xf000 == 0x6000:
		inst.Op = I.OpORI // ORI and SBR share this encoding; either is correct.
		inst.Rd, inst.K = andiLikeParams(w)
	case w&0xf000 == 0x3000:
		inst.Op = I.OpCPI
		inst.Rd, inst.K = andiLikeParams(w)
	case w&0xf000 == 0x4000:
		inst.Op = I.OpSBCI
		inst.Rd, inst.K = andiLikeParams(w)
	case w&0xf000 == 0x5000:
		inst.Op = I.OpSUBI
		inst.Rd, inst.K = andiLikeParams(w)

	// SBRC-like: SBRC, SBRS, BLD, BST.
	case w&0xfe08 == 0xfc00:
		inst.Op = I.OpSBRC
		inst.Rd, inst.B = sbrcLikeParams(w)
	case w&0xfe08 == 0xfe00:
		inst.Op = I.OpSBRS
		inst.Rd, inst.B = sbrcLikeParams(w)
	case w&0xfe08 == 0xf800:
		inst.Op = I.OpBLD
		inst.Rd, inst.B = sbrcLikeParams(w)
	case w&0xfe08 == 0xfa00:
		inst.Op = I.OpBST
		inst.Rd, inst.B = sbrcLikeParams(w)

	// IN/OUT: 6-bit I/O address split across two opcode fields.
	case w&0xf800 == 0xb000:
		inst.Op = I.OpIN
		inst.Rd = uint8((w >> 4) & 0x1f)
		inst.A = uint8(w&0xf) | uint8((w>>5)&0x30)
	case w&0xf800 == 0xb800:
		inst.Op = I.OpOUT
		inst.Rr = uint8((w >> 4) & 0x1f)
		inst.A = uint8(w&0xf) | uint8((w>>5)&0x30)

	// ADIW-like: ADIW, SBIW.
	case w&0xff00 == 0x9600:
		inst.Op = I.OpADIW
		inst.Rd, inst.K6 = adiwLikeParams(w)
	case w&0xff00 == 0x9700:
		inst.Op = I.OpSBIW
		inst.Rd, inst.K6 = adiwLikeParams(w)

	// CBI-like: CBI, SBI, SBIC, SBIS.
	case w&0xff00 == 0x9800:
		inst.Op = I.OpCBI
		inst.A, inst.B = cbiLikeParams(w)
	case w&0xff00 == 0x9a00:
		inst.Op = I.OpSBI
		inst.A, inst.B = cbiLikeParams(w)
	case w&0xff00 == 0x9900:
		inst.Op = I.OpSBIC
		inst.A, inst.B = cbiLikeParams(w)
	case w&0xff00 == 0x9b00:
		inst.Op = I.OpSBIS
		inst.A, inst.B = cbiLikeParams(w)

	// The sixteen condition-specific branches, before generic BRBC/BRBS.
	case w&0xfc07 == 0xf400:
		inst.Op = I.OpBRCC
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf000:
		inst.Op = I.OpBRCS
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf001:
		inst.Op = I.OpBREQ
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf404:
		inst.Op = I.OpBRGE
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf405:
		inst.Op = I.OpBRHC
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf005:
		inst.Op = I.OpBRHS
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf407:
		inst.Op = I.OpBRID
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf007:
		inst.Op = I.OpBRIE
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf004:
		inst.Op = I.OpBRLT
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf002:
		inst.Op = I.OpBRMI
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf401:
		inst.Op = I.OpBRNE
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf402:
		inst.Op = I.OpBRPL
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf406:
		inst.Op = I.OpBRTC
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf006:
		inst.Op = I.OpBRTS
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf403:
		inst.Op = I.OpBRVC
		inst.K22 = branchCondParams(w)
	case w&0xfc07 == 0xf003:
		inst.Op = I.OpBRVS
		inst.K22 = branchCondParams(w)

	// Generic branch-on-SREG-bit, after all sixteen specific aliases.
	case w&0xfc00 == 0xf400:
		inst.Op = I.OpBRBC
		inst.K22, inst.S = branchSregParams(w)
	case w&0xfc00 == 0xf000:
		inst.Op = I.OpBRBS
		inst.K22, inst.S = branchSregParams(w)

	case w&0xf000 == 0xd000:
		inst.Op = I.OpRCALL
		inst.K22 = signExtend(w&0xfff, 12)
	case w&0xf000 == 0xc000:
		inst.Op = I.OpRJMP
		inst.K22 = signExtend(w&0xfff, 12)

	// CALL/JMP: two-word, 22-bit absolute word address.
	case w&0xfe0e == 0x940e:
		inst.Op = I.OpCALL
		inst.K22 = callLikeParam(words)
	case w&0xfe0e == 0x940c:
		inst.Op = I.OpJMP
		inst.K22 = callLikeParam(words)

	// ASR-like: ASR, COM, DEC, INC, LSR, NEG, POP, PUSH, ROR, SWAP.
	case w&0xfe0f == 0x9405:
		inst.Op = I.OpASR
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x9400:
		inst.Op = I.OpCOM
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x940a:
		inst.Op = I.OpDEC
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x9403:
		inst.Op = I.OpINC
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x9406:
		inst.Op = I.OpLSR
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x9401:
		inst.Op = I.OpNEG
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x900f:
		inst.Op = I.OpPOP
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x920f:
		inst.Op = I.OpPUSH
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x9407:
		inst.Op = I.OpROR
		inst.Rd = uint8((w >> 4) & 0x1f)
	case w&0xfe0f == 0x9402:
		inst.Op = I.OpSWAP
		inst.Rd = uint8((w >> 4) & 0x1f)

	case w&0xff00 == 0x0100:
		inst.Op = I.OpMOVW
		inst.Rd = uint8((w>>4)&0xf) * 2
		inst.Rr = uint8(w&0xf) * 2
	case w&0xff00 == 0x0200:
		inst.Op = I.OpMULS
		inst.Rd = uint8((w>>4)&0xf) + 16
		inst.Rr = uint8(w&0xf) + 16
	case w&0xff88 == 0x0300:
		inst.Op = I.OpMULSU
		inst.Rd = uint8((w>>4)&0x7) + 16
		inst.Rr = uint8(w&0x7) + 16
	case w&0xff88 == 0x0308:
		inst.Op = I.OpFMUL
		inst.Rd = uint8((w>>4)&0x7) + 16
		inst.Rr = uint8(w&0x7) + 16
	case w&0xff88 == 0x0380:
		inst.Op = I.OpFMULS
		inst.Rd = uint8((w>>4)&0x7) + 16
		inst.Rr = uint8(w&0x7) + 16
	case w&0xff88 == 0x0388:
		inst.Op = I.OpFMULSU
		inst.Rd = uint8((w>>4)&0x7) + 16
		inst.Rr = uint8(w&0x7) + 16

	// STS/LDS (two-word, absolute) before the LD/LDD/ST/STD overlaps.
	case w&0xfe0f == 0x9200:
		inst.Op = I.OpSTS
		inst.Rr = uint8((w >> 4) & 0x1f)
		inst.K22 = int32(words[1])
	case w&0xfe0f == 0x9000:
		inst.Op = I.OpLDS
		inst.Rd = uint8((w >> 4) & 0x1f)
		inst.K22 = int32(words[1])

	// LDD before LD: the displacement form's mask also matches some LD
	// encodings, so it must be tested first (mirrors the reference
	// decoder's precedence).
	case w&0xd200 == 0x8000:
		inst.Op = I.OpLDD
		inst.Rd = uint8((w >> 4) & 0x1f)
		if w&0x8 != 0 {
			inst.BasePointer = I.BPY
		} else {
			inst.BasePointer = I.BPZ
		}
		inst.Q = uint8(w&0x7) | uint8((w>>7)&0x18) | uint8((w>>8)&0x20)

	case w&0xee00 == 0x8000:
		inst.Op = I.OpLD
		inst.Rd = uint8((w >> 4) & 0x1f)
		decodeBasePointer(w, &inst)

	case w&0xd200 == 0x8200:
		inst.Op = I.OpSTD
		inst.Rr = uint8((w >> 4) & 0x1f)
		if w&0x8 != 0 {
			inst.BasePointer = I.BPY
		} else {
			inst.BasePointer = I.BPZ
		}
		inst.Q = uint8(w&0x7) | uint8((w>>7)&0x18) | uint8((w>>8)&0x20)

	case w&0xee00 == 0x8200:
		inst.Op = I.OpST
		inst.Rr = uint8((w >> 4) & 0x1f)
		decodeBasePointer(w, &inst)

	default:
		logger.Warn("unrecognized opcode 0x%04x, decoding as NOP", w)
		inst.Op = I.OpNOP
	}

	return inst
}

// DecodeStrict behaves like Decode but additionally reports
// bus.ErrDecodeAnomaly when the first word had no recognized encoding.
// Decode itself never fails hard, per spec.md §4.2; this exists for
// callers (promoting warn to a fatal sink externally, per spec.md §7)
// that want the anomaly surfaced as an error instead of a silently
// substituted NOP.
func DecodeStrict(words [2]uint16) (I.Instruction, error) {
	inst := Decode(words)
	if inst.Op == I.OpNOP && words[0] != 0x0000 {
		return inst, fmt.Errorf("opcode 0x%04x: %w", words[0], bus.ErrDecodeAnomaly)
	}
	return inst, nil
}

// decodeBasePointer fills BasePointer/BasePointerOp for the non-displacement
// LD/ST encodings from the low 4 bits of the opcode.
func decodeBasePointer(w uint16, inst *I.Instruction) {
	switch w & 0xc {
	case 0x0:
		inst.BasePointer = I.BPZ
	case 0x8:
		inst.BasePointer = I.BPY
	case 0xc:
		inst.BasePointer = I.BPX
	}
	switch w & 0x3 {
	case 0:
		inst.BasePointerOp = I.BPOpNone
	case 1:
		inst.BasePointerOp = I.BPOpPostInc
	case 2:
		inst.BasePointerOp = I.BPOpPreDec
	}
}
