/*
   Instruction: decoded AVR instruction record and operation enumeration.

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

// Package instruction enumerates the AVR operations the decoder recognizes
// and defines the flat, optional-field operand record the decoder fills in.
package instruction

// Op identifies one AVR operation kind.
type Op uint8

// Operation kinds, mirroring the AVR instruction set. The
// condition-specific branches are distinct enumerators here even though
// each behaves as a fixed-flag BRBC/BRBS. CLC..CLZ/SEC..SEZ have no
// enumerators of their own: they decode as BCLR/BSET with a fixed bit.
const (
	OpUnknown Op = iota
	OpADC
	OpADD
	OpADIW
	OpAND
	OpANDI
	OpASR
	OpBCLR
	OpBLD
	OpBRBC
	OpBRBS
	OpBRCC
	OpBRCS
	OpBREQ
	OpBRGE
	OpBRHC
	OpBRHS
	OpBRID
	OpBRIE
	OpBRLO
	OpBRLT
	OpBRMI
	OpBRNE
	OpBRPL
	OpBRSH
	OpBRTC
	OpBRTS
	OpBRVC
	OpBRVS
	OpBSET
	OpBST
	OpCALL
	OpCBI
	OpCOM
	OpCP
	OpCPC
	OpCPI
	OpCPSE
	OpDEC
	OpEICALL
	OpEIJMP
	OpELPM
	OpELPMR0
	OpEOR
	OpFMUL
	OpFMULS
	OpFMULSU
	OpICALL
	OpIJMP
	OpIN
	OpINC
	OpJMP
	OpLD
	OpLDD
	OpLDI
	OpLDS
	OpLPM
	OpLPMR0
	OpLSR
	OpMOV
	OpMOVW
	OpMUL
	OpMULS
	OpMULSU
	OpNEG
	OpNOP
	OpOR
	OpORI
	OpOUT
	OpPOP
	OpPUSH
	OpRCALL
	OpRET
	OpRETI
	OpRJMP
	OpROR
	OpSBC
	OpSBCI
	OpSBI
	OpSBIC
	OpSBIS
	OpSBIW
	OpSBR
	OpSBRC
	OpSBRS
	OpSER
	OpSLEEP
	OpSPM
	OpST
	OpSTD
	OpSTS
	OpSUB
	OpSUBI
	OpSWAP
	OpWDR
	OpBREAK

	numOps
)

// NumOps is the number of distinct operation kinds, usable to size a
// dispatch table indexed by Op.
const NumOps = int(numOps)

var mnemonics = [numOps]string{
	OpUnknown: "???",
	OpADC:     "ADC", OpADD: "ADD", OpADIW: "ADIW", OpAND: "AND", OpANDI: "ANDI",
	OpASR: "ASR", OpBCLR: "BCLR", OpBLD: "BLD", OpBRBC: "BRBC", OpBRBS: "BRBS",
	OpBRCC: "BRCC", OpBRCS: "BRCS", OpBREQ: "BREQ", OpBRGE: "BRGE", OpBRHC: "BRHC",
	OpBRHS: "BRHS", OpBRID: "BRID", OpBRIE: "BRIE", OpBRLO: "BRLO", OpBRLT: "BRLT",
	OpBRMI: "BRMI", OpBRNE: "BRNE", OpBRPL: "BRPL", OpBRSH: "BRSH", OpBRTC: "BRTC",
	OpBRTS: "BRTS", OpBRVC: "BRVC", OpBRVS: "BRVS", OpBSET: "BSET", OpBST: "BST",
	OpCALL: "CALL", OpCBI: "CBI", OpCOM: "COM", OpCP: "CP", OpCPC: "CPC",
	OpCPI: "CPI", OpCPSE: "CPSE", OpDEC: "DEC", OpEICALL: "EICALL", OpEIJMP: "EIJMP",
	OpELPM: "ELPM", OpELPMR0: "ELPM_R0", OpEOR: "EOR", OpFMUL: "FMUL", OpFMULS: "FMULS",
	OpFMULSU: "FMULSU", OpICALL: "ICALL", OpIJMP: "IJMP", OpIN: "IN", OpINC: "INC",
	OpJMP: "JMP", OpLD: "LD", OpLDD: "LDD", OpLDI: "LDI", OpLDS: "LDS",
	OpLPM: "LPM", OpLPMR0: "LPM_R0", OpLSR: "LSR", OpMOV: "MOV", OpMOVW: "MOVW",
	OpMUL: "MUL", OpMULS: "MULS", OpMULSU: "MULSU", OpNEG: "NEG", OpNOP: "NOP",
	OpOR: "OR", OpORI: "ORI", OpOUT: "OUT", OpPOP: "POP", OpPUSH: "PUSH",
	OpRCALL: "RCALL", OpRET: "RET", OpRETI: "RETI", OpRJMP: "RJMP", OpROR: "ROR",
	OpSBC: "SBC", OpSBCI: "SBCI", OpSBI: "SBI", OpSBIC: "SBIC", OpSBIS: "SBIS",
	OpSBIW: "SBIW", OpSBR: "SBR", OpSBRC: "SBRC", OpSBRS: "SBRS", OpSER: "SER",
	OpSLEEP: "SLEEP", OpSPM: "SPM", OpST: "ST", OpSTD: "STD", OpSTS: "STS",
	OpSUB: "SUB", OpSUBI: "SUBI", OpSWAP: "SWAP", OpWDR: "WDR", OpBREAK: "BREAK",
}

// String returns the assembler mnemonic for op, used by debug tracing.
func (op Op) String() string {
	if int(op) >= len(mnemonics) {
		return "???"
	}
	return mnemonics[op]
}

// BasePointer names one of the three 16-bit index register pairs used by
// indirect load/store.
type BasePointer uint8

const (
	BPNone BasePointer = iota
	BPX
	BPY
	BPZ
)

// BasePointerOp names the auto-increment/decrement behavior LD/ST apply
// to their base pointer. LDD/STD always use BPOpNone with an explicit
// displacement instead.
type BasePointerOp uint8

const (
	BPOpNone BasePointerOp = iota
	BPOpPreDec
	BPOpPostInc
)

// Instruction is the decoded, flat operand record produced by the decoder.
// Only the fields a given Op actually uses are meaningful; the rest are
// left at their zero value.
type Instruction struct {
	Op Op

	Rd  uint8 // destination (and often source) register index, 0..31
	Rr  uint8 // source register index, 0..31
	A   uint8 // I/O address (6 bits for IN/OUT, 5 bits for CBI/SBI family)
	K   uint8 // 8-bit unsigned immediate
	K6  uint8 // 6-bit unsigned immediate (ADIW/SBIW)
	K22 int32 // signed/unsigned program-address constant, up to 22 bits (JMP/CALL/RJMP/RCALL/branches)
	S   uint8 // 3-bit status bit index (BRBC/BRBS/BSET/BCLR)
	B   uint8 // 3-bit register/IO bit index (SBRC/SBRS/BLD/BST/CBI/SBI/SBIC/SBIS)
	Q   uint8 // 6-bit displacement (LDD/STD)

	BasePointer   BasePointer
	BasePointerOp BasePointerOp

	// Length is the number of opcode words this instruction consumed (1 or 2).
	Length int
}
