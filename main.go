/*
 * AVR8SIM - Main process.
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

package main

import (
	"io"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/SSYSS000/avrds/emu/device"
	"github.com/SSYSS000/avrds/util/logger"
)

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Mirror log output to this file, in addition to stderr")
	optTrace := getopt.BoolLong("trace", 't', "Enable per-instruction debug tracing")
	optMaxWords := getopt.IntLong("max-words", 'm', 1000, "Maximum number of program words read from stdin")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			logger.Warn("could not create log file %s: %v", *optLogFile, err)
		} else {
			logFile = f
			defer logFile.Close()
		}
	}
	logger.Configure(logFile, *optTrace)

	image, err := readProgramImage(os.Stdin, *optMaxWords)
	if err != nil {
		logger.Warn("reading program image: %v", err)
		os.Exit(1)
	}

	mcu := device.New()
	if err := mcu.LoadProgram(image); err != nil {
		logger.Warn("loading program image: %v", err)
		os.Exit(1)
	}

	for !mcu.CPU.Halted && int(mcu.CPU.PC)*2 < len(image) {
		mcu.CPU.Step()
	}
}

// readProgramImage reads up to maxWords little-endian 16-bit opcode
// words from r and returns them packed as bytes, ready for
// device.ATmega328P.LoadProgram.
func readProgramImage(r io.Reader, maxWords int) ([]byte, error) {
	buf := make([]byte, maxWords*2)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}
