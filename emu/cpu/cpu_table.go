/*
   CPU dispatch table construction.

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

// createTable builds the Op-indexed dispatch table, mirroring the
// teacher's opcode-indexed table of execute functions.
func (c *CPU) createTable() [I.NumOps]func(*CPU, I.Instruction) {
	return [I.NumOps]func(*CPU, I.Instruction){
		I.OpADC:    (*CPU).opADC,
		I.OpADD:    (*CPU).opADD,
		I.OpADIW:   (*CPU).opADIW,
		I.OpAND:    (*CPU).opAND,
		I.OpANDI:   (*CPU).opANDI,
		I.OpASR:    (*CPU).opASR,
		I.OpBCLR:   (*CPU).opBCLR,
		I.OpBLD:    (*CPU).opBLD,
		I.OpBRBC:   (*CPU).opBRBC,
		I.OpBRBS:   (*CPU).opBRBS,
		I.OpBRCC:   (*CPU).opBRCC,
		I.OpBRCS:   (*CPU).opBRCS,
		I.OpBREQ:   (*CPU).opBREQ,
		I.OpBRGE:   (*CPU).opBRGE,
		I.OpBRHC:   (*CPU).opBRHC,
		I.OpBRHS:   (*CPU).opBRHS,
		I.OpBRID:   (*CPU).opBRID,
		I.OpBRIE:   (*CPU).opBRIE,
		I.OpBRLO:   (*CPU).opBRLO,
		I.OpBRLT:   (*CPU).opBRLT,
		I.OpBRMI:   (*CPU).opBRMI,
		I.OpBRNE:   (*CPU).opBRNE,
		I.OpBRPL:   (*CPU).opBRPL,
		I.OpBRSH:   (*CPU).opBRSH,
		I.OpBRTC:   (*CPU).opBRTC,
		I.OpBRTS:   (*CPU).opBRTS,
		I.OpBRVC:   (*CPU).opBRVC,
		I.OpBRVS:   (*CPU).opBRVS,
		I.OpBSET:   (*CPU).opBSET,
		I.OpBST:    (*CPU).opBST,
		I.OpCALL:   (*CPU).opCALL,
		I.OpCBI:    (*CPU).opCBI,
		I.OpCOM:    (*CPU).opCOM,
		I.OpCP:     (*CPU).opCP,
		I.OpCPC:    (*CPU).opCPC,
		I.OpCPI:    (*CPU).opCPI,
		I.OpCPSE:   (*CPU).opCPSE,
		I.OpDEC:    (*CPU).opDEC,
		I.OpEICALL: (*CPU).opEICALL,
		I.OpEIJMP:  (*CPU).opEIJMP,
		I.OpELPM:   (*CPU).opELPM,
		I.OpELPMR0: (*CPU).opELPMR0,
		I.OpEOR:    (*CPU).opEOR,
		I.OpFMUL:   (*CPU).opFMUL,
		I.OpFMULS:  (*CPU).opFMULS,
		I.OpFMULSU: (*CPU).opFMULSU,
		I.OpICALL:  (*CPU).opICALL,
		I.OpIJMP:   (*CPU).opIJMP,
		I.OpIN:     (*CPU).opIN,
		I.OpINC:    (*CPU).opINC,
		I.OpJMP:    (*CPU).opJMP,
		I.OpLD:     (*CPU).opLD,
		I.OpLDD:    (*CPU).opLDD,
		I.OpLDI:    (*CPU).opLDI,
		I.OpLDS:    (*CPU).opLDS,
		I.OpLPM:    (*CPU).opLPM,
		I.OpLPMR0:  (*CPU).opLPMR0,
		I.OpLSR:    (*CPU).opLSR,
		I.OpMOV:    (*CPU).opMOV,
		I.OpMOVW:   (*CPU).opMOVW,
		I.OpMUL:    (*CPU).opMUL,
		I.OpMULS:   (*CPU).opMULS,
		I.OpMULSU:  (*CPU).opMULSU,
		I.OpNEG:    (*CPU).opNEG,
		I.OpNOP:    (*CPU).opNOP,
		I.OpOR:     (*CPU).opOR,
		I.OpORI:    (*CPU).opORI,
		I.OpOUT:    (*CPU).opOUT,
		I.OpPOP:    (*CPU).opPOP,
		I.OpPUSH:   (*CPU).opPUSH,
		I.OpRCALL:  (*CPU).opRCALL,
		I.OpRET:    (*CPU).opRET,
		I.OpRETI:   (*CPU).opRETI,
		I.OpRJMP:   (*CPU).opRJMP,
		I.OpROR:    (*CPU).opROR,
		I.OpSBC:    (*CPU).opSBC,
		I.OpSBCI:   (*CPU).opSBCI,
		I.OpSBI:    (*CPU).opSBI,
		I.OpSBIC:   (*CPU).opSBIC,
		I.OpSBIS:   (*CPU).opSBIS,
		I.OpSBIW:   (*CPU).opSBIW,
		I.OpSBR:    (*CPU).opORI,
		I.OpSBRC:   (*CPU).opSBRC,
		I.OpSBRS:   (*CPU).opSBRS,
		I.OpSER:    (*CPU).opSER,
		I.OpSLEEP:  (*CPU).opSLEEP,
		I.OpSPM:    (*CPU).opSPM,
		I.OpST:     (*CPU).opST,
		I.OpSTD:    (*CPU).opSTD,
		I.OpSTS:    (*CPU).opSTS,
		I.OpSUB:    (*CPU).opSUB,
		I.OpSUBI:   (*CPU).opSUBI,
		I.OpSWAP:   (*CPU).opSWAP,
		I.OpWDR:    (*CPU).opWDR,
		I.OpBREAK:  (*CPU).opBREAK,
	}
}
