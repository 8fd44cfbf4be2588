// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
)

// mnemonics, the first one being the canonical name.
var opcodes = map[vm.Opcode][]string{
	vm.OpAdd:         {"add"},
	vm.OpMul:         {"mul"},
	vm.OpIn:          {"in"},
	vm.OpOut:         {"out"},
	vm.OpJumpIfTrue:  {"jnz", "jt"},
	vm.OpJumpIfFalse: {"jz", "jf"},
	vm.OpLessThan:    {"lt"},
	vm.OpEquals:      {"eq"},
	vm.OpAdjustBase:  {"arb"},
	vm.OpHalt:        {"halt", "hlt"},
}

var opcodeIndex = make(map[string]vm.Opcode)

func init() {
	for op, names := range opcodes {
		for _, n := range names {
			opcodeIndex[n] = op
		}
	}
}

// largest instruction cell: 3 mode digits and a 2 digit opcode.
const maxInstruction = 100000

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting image and error if any.
//
// Then name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries.
func Assemble(name string, r io.Reader) (vm.Image, error) {
	p := newParser()
	if err := p.Parse(name, r); err != nil {
		return nil, err
	}
	return p.image(), nil
}

// decodable returns the opcode of the instruction at pc if the cells at pc
// hold an instruction that assembles back to the exact same cells.
func decodable(img []vm.Cell, pc int) (vm.Opcode, [vm.MaxOperands]vm.Mode, bool) {
	c := img[pc]
	op, modes := vm.SplitOpcode(c)
	if c < 0 || c >= maxInstruction || !op.Valid() {
		return op, modes, false
	}
	n := op.Arity()
	if pc+n >= len(img) {
		return op, modes, false
	}
	for k, m := range modes {
		switch {
		case k >= n:
			if m != vm.PositionMode {
				return op, modes, false
			}
		case m == vm.ImmediateMode && op.WritesOperand(k):
			return op, modes, false
		case m != vm.PositionMode && m != vm.ImmediateMode && m != vm.RelativeMode:
			return op, modes, false
		}
	}
	return op, modes, true
}

// Disassemble writes a disassembly of the cells in the given slice at position
// pc to the specified io.Writer and returns the position of the next
// instruction and any write error.
//
// Cells that cannot be decoded as an instruction are written as a .dat
// directive.
func Disassemble(img []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew := iox.NewErrWriter(w)

	op, modes, ok := decodable(img, pc)
	if !ok {
		ew.WriteString(".dat ")
		ew.WriteString(strconv.FormatInt(int64(img[pc]), 10))
		return pc + 1, ew.Err
	}
	ew.WriteString(opcodes[op][0])
	pc++
	for k := 0; k < op.Arity(); k++ {
		if k == 0 {
			ew.WriteString(" ")
		} else {
			ew.WriteString(", ")
		}
		switch modes[k] {
		case vm.ImmediateMode:
			ew.WriteString("#")
		case vm.RelativeMode:
			ew.WriteString("@")
		}
		ew.WriteString(strconv.FormatInt(int64(img[pc]), 10))
		pc++
	}
	return pc, ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first cell (img[0]); addresses are written as comments so that the output
// can be assembled as is. It will return any write error.
func DisassembleAll(img []vm.Cell, base int, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	for pc := 0; pc < len(img); {
		fmt.Fprintf(ew, "( %6d )\t", base+pc)
		pc, _ = Disassemble(img, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
