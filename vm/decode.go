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

import "github.com/pkg/errors"

// Instruction is a decoded instruction. Its dynamic type is one of Add, Mul,
// In, Out, JumpIfTrue, JumpIfFalse, LessThan, Equals, AdjustBase or Halt.
type Instruction interface {
	Opcode() Opcode
}

// Add stores A + B into Dst.
type Add struct {
	A, B Operand
	Dst  Target
}

// Mul stores A * B into Dst.
type Mul struct {
	A, B Operand
	Dst  Target
}

// In stores the next input value into Dst.
type In struct {
	Dst Target
}

// Out outputs the value of A.
type Out struct {
	A Operand
}

// JumpIfTrue jumps to To if Cond is not zero.
type JumpIfTrue struct {
	Cond, To Operand
}

// JumpIfFalse jumps to To if Cond is zero.
type JumpIfFalse struct {
	Cond, To Operand
}

// LessThan stores 1 into Dst if A < B, 0 otherwise.
type LessThan struct {
	A, B Operand
	Dst  Target
}

// Equals stores 1 into Dst if A == B, 0 otherwise.
type Equals struct {
	A, B Operand
	Dst  Target
}

// AdjustBase adds A to the relative base.
type AdjustBase struct {
	A Operand
}

// Halt stops the VM.
type Halt struct{}

func (Add) Opcode() Opcode         { return OpAdd }
func (Mul) Opcode() Opcode         { return OpMul }
func (In) Opcode() Opcode          { return OpIn }
func (Out) Opcode() Opcode         { return OpOut }
func (JumpIfTrue) Opcode() Opcode  { return OpJumpIfTrue }
func (JumpIfFalse) Opcode() Opcode { return OpJumpIfFalse }
func (LessThan) Opcode() Opcode    { return OpLessThan }
func (Equals) Opcode() Opcode      { return OpEquals }
func (AdjustBase) Opcode() Opcode  { return OpAdjustBase }
func (Halt) Opcode() Opcode        { return OpHalt }

type decoder struct {
	m     *Memory
	pc    Cell
	base  Cell
	set   InstructionSet
	modes [MaxOperands]Mode
	err   error
}

// raw returns the raw value of operand n.
func (d *decoder) raw(n int) Cell {
	return d.m.Fetch(d.pc + Cell(n) + 1)
}

func (d *decoder) src(n int) Operand {
	if d.err != nil {
		return nil
	}
	a, err := resolve(d.modes[n], d.raw(n), d.base, d.set)
	if err != nil {
		d.err = errors.Wrapf(err, "operand %d", n+1)
	}
	return a
}

func (d *decoder) dst(n int) Target {
	if d.err != nil {
		return nil
	}
	a, err := resolveTarget(d.modes[n], d.raw(n), d.base, d.set)
	if err != nil {
		d.err = errors.Wrapf(err, "operand %d", n+1)
	}
	return a
}

// Decode decodes the instruction at address pc in memory m. The base
// parameter is the current relative base.
//
// Decoding past the end of memory reads zero cells, which decode as an
// invalid opcode. Reading operands may grow the memory.
func Decode(m *Memory, pc, base Cell, set InstructionSet) (ins Instruction, err error) {
	defer catch(&err)
	c := m.Fetch(pc)
	d := decoder{m: m, pc: pc, base: base, set: set}
	var op Opcode
	op, d.modes = SplitOpcode(c)
	if !set.Supports(op) {
		return nil, errors.Wrapf(ErrInvalidOpcode, "%d (%s instruction set)", c, set)
	}
	// all three mode digits must be valid, used or not
	for n, mode := range d.modes {
		if mode > RelativeMode || mode == RelativeMode && set == Basic {
			return nil, errors.Wrapf(ErrInvalidMode, "%s (%d): mode %d for operand %d", op, c, int(mode), n+1)
		}
	}
	switch op {
	case OpAdd:
		ins = Add{d.src(0), d.src(1), d.dst(2)}
	case OpMul:
		ins = Mul{d.src(0), d.src(1), d.dst(2)}
	case OpIn:
		ins = In{d.dst(0)}
	case OpOut:
		ins = Out{d.src(0)}
	case OpJumpIfTrue:
		ins = JumpIfTrue{d.src(0), d.src(1)}
	case OpJumpIfFalse:
		ins = JumpIfFalse{d.src(0), d.src(1)}
	case OpLessThan:
		ins = LessThan{d.src(0), d.src(1), d.dst(2)}
	case OpEquals:
		ins = Equals{d.src(0), d.src(1), d.dst(2)}
	case OpAdjustBase:
		ins = AdjustBase{d.src(0)}
	case OpHalt:
		ins = Halt{}
	}
	if d.err != nil {
		return nil, errors.Wrapf(d.err, "%s (%d)", op, c)
	}
	return ins, nil
}
