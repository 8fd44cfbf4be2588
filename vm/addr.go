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
	"strconv"

	"github.com/pkg/errors"
)

// Mode is an operand addressing mode.
type Mode int

// Parameter modes.
const (
	PositionMode Mode = iota
	ImmediateMode
	RelativeMode
)

func (m Mode) String() string {
	switch m {
	case PositionMode:
		return "position"
	case ImmediateMode:
		return "immediate"
	case RelativeMode:
		return "relative"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// Operand is a decoded instruction operand that can be read from.
type Operand interface {
	// Load returns the operand's value.
	Load(m *Memory) Cell
	// Mode returns the addressing mode the operand was decoded from.
	Mode() Mode
}

// Target is an operand that can also be written to. Immediate operands do
// not implement Target.
type Target interface {
	Operand
	Store(m *Memory, v Cell)
}

// Immediate is an immediate mode operand: its value is the operand itself.
type Immediate Cell

// Load implements Operand.
func (a Immediate) Load(*Memory) Cell { return Cell(a) }

// Mode implements Operand.
func (Immediate) Mode() Mode { return ImmediateMode }

// Position is a position mode operand: the operand is a memory address.
type Position Cell

// Load implements Operand.
func (a Position) Load(m *Memory) Cell { return m.Fetch(Cell(a)) }

// Store implements Target.
func (a Position) Store(m *Memory, v Cell) { m.Store(Cell(a), v) }

// Mode implements Operand.
func (Position) Mode() Mode { return PositionMode }

// Relative is a relative mode operand: the memory address is the sum of the
// relative base at decoding time and the operand's offset.
type Relative struct {
	Base   Cell
	Offset Cell
}

// Addr returns the effective address.
func (a Relative) Addr() Cell { return a.Base + a.Offset }

// Load implements Operand.
func (a Relative) Load(m *Memory) Cell { return m.Fetch(a.Addr()) }

// Store implements Target.
func (a Relative) Store(m *Memory, v Cell) { m.Store(a.Addr(), v) }

// Mode implements Operand.
func (Relative) Mode() Mode { return RelativeMode }

// resolve returns the Operand for raw operand value v in the given mode.
func resolve(mode Mode, v, base Cell, set InstructionSet) (Operand, error) {
	switch mode {
	case PositionMode:
		return Position(v), nil
	case ImmediateMode:
		return Immediate(v), nil
	case RelativeMode:
		if set != Basic {
			return Relative{base, v}, nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidMode, "mode %d", int(mode))
}

// resolveTarget is like resolve for operands that the instruction writes to.
func resolveTarget(mode Mode, v, base Cell, set InstructionSet) (Target, error) {
	if mode == ImmediateMode {
		return nil, ErrImmediateWrite
	}
	a, err := resolve(mode, v, base, set)
	if err != nil {
		return nil, err
	}
	return a.(Target), nil
}
