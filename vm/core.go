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

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func b2c(b bool) Cell {
	if b {
		return 1
	}
	return 0
}

func (i *Instance) read() (Cell, error) {
	if i.input == nil {
		return 0, io.EOF
	}
	return i.input.ReadCell()
}

// jumpTarget returns the value of a jump operand.
func (i *Instance) jumpTarget(a Operand) Cell {
	to := a.Load(&i.Mem)
	if to < 0 {
		panic(errors.Wrapf(ErrInvalidAddress, "jump to %d", to))
	}
	return to
}

// Step executes a single instruction. If the instruction is an output
// instruction, the output value is returned with emitted set to true.
//
// If the instruction is an input instruction and no input is available, Step
// returns an error whose cause is ErrInputStarved and the VM state is left
// unchanged: calling Step again once input is available resumes execution.
//
// Any other error is fatal: the program counter is left pointing to the
// instruction that triggered the error and all subsequent calls to Step will
// return the same error.
func (i *Instance) Step() (v Cell, emitted bool, err error) {
	if i.err != nil {
		return 0, false, i.err
	}
	if i.Halted() {
		return 0, false, ErrHalted
	}
	pc := i.PC
	defer func() {
		if err != nil && !IsStarved(err) {
			err = errors.Wrapf(err, "@pc=%d", pc)
			i.err = err
		}
	}()
	defer catch(&err)

	ins, err := Decode(&i.Mem, pc, i.Base, i.set)
	if err != nil {
		return 0, false, err
	}
	if i.trace != nil {
		i.trace.Debug("step",
			zap.Int64("pc", int64(pc)),
			zap.Int64("base", int64(i.Base)),
			zap.Stringer("op", ins.Opcode()))
	}
	m := &i.Mem
	next := pc + Cell(ins.Opcode().Arity()) + 1
	switch ins := ins.(type) {
	case Add:
		ins.Dst.Store(m, ins.A.Load(m)+ins.B.Load(m))
	case Mul:
		ins.Dst.Store(m, ins.A.Load(m)*ins.B.Load(m))
	case In:
		in, err := i.read()
		if err != nil {
			if err == io.EOF {
				return 0, false, ErrInputStarved
			}
			return 0, false, errors.Wrap(err, "input")
		}
		ins.Dst.Store(m, in)
	case Out:
		v, emitted = ins.A.Load(m), true
		if i.output != nil {
			if err = i.output.WriteCell(v); err != nil {
				return 0, false, errors.Wrap(err, "output")
			}
		}
	case JumpIfTrue:
		if ins.Cond.Load(m) != 0 {
			next = i.jumpTarget(ins.To)
		}
	case JumpIfFalse:
		if ins.Cond.Load(m) == 0 {
			next = i.jumpTarget(ins.To)
		}
	case LessThan:
		ins.Dst.Store(m, b2c(ins.A.Load(m) < ins.B.Load(m)))
	case Equals:
		ins.Dst.Store(m, b2c(ins.A.Load(m) == ins.B.Load(m)))
	case AdjustBase:
		i.Base += ins.A.Load(m)
	case Halt:
		next = HaltPC
	}
	i.PC = next
	i.insCount++
	return v, emitted, nil
}
