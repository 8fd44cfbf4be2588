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

package vm

import "strconv"

// Opcode is an instruction opcode: the two lowest decimal digits of an
// instruction cell.
type Opcode Cell

// Intcode Virtual Machine Opcodes.
const (
	OpAdd Opcode = iota + 1
	OpMul
	OpIn
	OpOut
	OpJumpIfTrue
	OpJumpIfFalse
	OpLessThan
	OpEquals
	OpAdjustBase
	OpHalt Opcode = 99
)

// MaxOperands is the maximum number of operands of an instruction.
const MaxOperands = 3

type opInfo struct {
	name  string
	arity int
	// bit n set if operand n is written to
	writes uint
}

var opcodes = [...]opInfo{
	OpAdd:         {"add", 3, 1 << 2},
	OpMul:         {"mul", 3, 1 << 2},
	OpIn:          {"in", 1, 1 << 0},
	OpOut:         {"out", 1, 0},
	OpJumpIfTrue:  {"jnz", 2, 0},
	OpJumpIfFalse: {"jz", 2, 0},
	OpLessThan:    {"lt", 3, 1 << 2},
	OpEquals:      {"eq", 3, 1 << 2},
	OpAdjustBase:  {"arb", 1, 0},
}

var haltInfo = opInfo{"halt", 0, 0}

func (op Opcode) info() *opInfo {
	if op == OpHalt {
		return &haltInfo
	}
	if op <= 0 || int(op) >= len(opcodes) {
		return nil
	}
	return &opcodes[op]
}

// Valid returns true if op is a known opcode of the Extended instruction set.
func (op Opcode) Valid() bool {
	return op.info() != nil
}

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	if i := op.info(); i != nil {
		return i.name
	}
	return "Opcode(" + strconv.Itoa(int(op)) + ")"
}

// Arity returns the number of operands of op, or -1 if op is not a valid
// opcode.
func (op Opcode) Arity() int {
	if i := op.info(); i != nil {
		return i.arity
	}
	return -1
}

// WritesOperand returns true if the nth operand (starting from 0) of op is
// written to by the instruction. Such operands cannot be in immediate mode.
func (op Opcode) WritesOperand(n int) bool {
	if i := op.info(); i != nil && n >= 0 && n < MaxOperands {
		return i.writes&(1<<uint(n)) != 0
	}
	return false
}

// SplitOpcode splits an instruction cell into its opcode and the parameter
// modes of its operands. The mode digits are not validated.
func SplitOpcode(c Cell) (op Opcode, modes [MaxOperands]Mode) {
	op = Opcode(c % 100)
	c /= 100
	for n := range modes {
		modes[n] = Mode(c % 10)
		c /= 10
	}
	return op, modes
}

// InstructionSet selects the instructions and addressing modes supported by an
// Instance.
type InstructionSet int

// Supported instruction sets.
const (
	// Extended supports all opcodes and the relative addressing mode.
	Extended InstructionSet = iota
	// Basic lacks opcode 9 (adjust relative base) and relative mode.
	Basic
)

func (s InstructionSet) String() string {
	switch s {
	case Extended:
		return "extended"
	case Basic:
		return "basic"
	}
	return "InstructionSet(" + strconv.Itoa(int(s)) + ")"
}

// Supports returns true if op is part of the instruction set.
func (s InstructionSet) Supports(op Opcode) bool {
	if !op.Valid() {
		return false
	}
	return s != Basic || op != OpAdjustBase
}
