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

package vm_test

import (
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOpcode(t *testing.T) {
	op, modes := vm.SplitOpcode(1002)
	assert.Equal(t, vm.OpMul, op)
	assert.Equal(t, [3]vm.Mode{vm.PositionMode, vm.ImmediateMode, vm.PositionMode}, modes)

	op, modes = vm.SplitOpcode(21107)
	assert.Equal(t, vm.OpLessThan, op)
	assert.Equal(t, [3]vm.Mode{vm.ImmediateMode, vm.ImmediateMode, vm.RelativeMode}, modes)

	op, modes = vm.SplitOpcode(99)
	assert.Equal(t, vm.OpHalt, op)
	assert.Equal(t, [3]vm.Mode{}, modes)
}

func TestOpcodes(t *testing.T) {
	arity := map[vm.Opcode]int{
		vm.OpAdd: 3, vm.OpMul: 3, vm.OpIn: 1, vm.OpOut: 1, vm.OpJumpIfTrue: 2,
		vm.OpJumpIfFalse: 2, vm.OpLessThan: 3, vm.OpEquals: 3, vm.OpAdjustBase: 1, vm.OpHalt: 0,
	}
	for op := vm.Opcode(-1); op <= 100; op++ {
		n, ok := arity[op]
		assert.Equal(t, ok, op.Valid(), "%d", op)
		if !ok {
			assert.Equal(t, -1, op.Arity())
			assert.False(t, vm.Extended.Supports(op))
			continue
		}
		assert.Equal(t, n, op.Arity(), "%v", op)
		assert.True(t, vm.Extended.Supports(op))
		assert.Equal(t, op != vm.OpAdjustBase, vm.Basic.Supports(op))
	}
	assert.Equal(t, "jnz", vm.OpJumpIfTrue.String())
	assert.Equal(t, "Opcode(42)", vm.Opcode(42).String())
	assert.True(t, vm.OpIn.WritesOperand(0))
	assert.True(t, vm.OpEquals.WritesOperand(2))
	assert.False(t, vm.OpEquals.WritesOperand(1))
	assert.False(t, vm.OpOut.WritesOperand(0))
	assert.False(t, vm.OpAdd.WritesOperand(3))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		code string
		ins  vm.Instruction
	}{
		{"21001,4,5,6", vm.Add{vm.Position(4), vm.Immediate(5), vm.Relative{10, 6}}},
		{"1002,4,3,4", vm.Mul{vm.Position(4), vm.Immediate(3), vm.Position(4)}},
		{"203,-3", vm.In{vm.Relative{10, -3}}},
		{"104,7", vm.Out{vm.Immediate(7)}},
		{"1105,1,9", vm.JumpIfTrue{vm.Immediate(1), vm.Immediate(9)}},
		{"206,1,9", vm.JumpIfFalse{vm.Relative{10, 1}, vm.Position(9)}},
		{"1107,1,2,3", vm.LessThan{vm.Immediate(1), vm.Immediate(2), vm.Position(3)}},
		{"20108,1,2,3", vm.Equals{vm.Immediate(1), vm.Position(2), vm.Relative{10, 3}}},
		{"209,-1", vm.AdjustBase{vm.Relative{10, -1}}},
		{"99", vm.Halt{}},
	}
	for _, test := range tests {
		m := vm.NewMemory(image(t, test.code))
		ins, err := vm.Decode(m, 0, 10, vm.Extended)
		require.NoError(t, err, test.code)
		assert.Equal(t, test.ins, ins, test.code)
	}
}

func TestDecodeErrors(t *testing.T) {
	m := vm.NewMemory(vm.Image{1101, 1, 2, 3})
	_, err := vm.Decode(m, -1, 0, vm.Extended)
	assert.Equal(t, vm.ErrInvalidAddress, errors.Cause(err))

	// decoding past the end reads zeros
	_, err = vm.Decode(m, 10, 0, vm.Extended)
	assert.Equal(t, vm.ErrInvalidOpcode, errors.Cause(err))
	assert.Equal(t, 11, m.Len())

	// unused mode digits are checked
	for _, c := range []vm.Cell{30099, 90104, 40004} {
		_, err = vm.Decode(vm.NewMemory(vm.Image{c, 0}), 0, 0, vm.Extended)
		assert.Equal(t, vm.ErrInvalidMode, errors.Cause(err), "%d", c)
	}
	_, err = vm.Decode(vm.NewMemory(vm.Image{20099}), 0, 0, vm.Basic)
	assert.Equal(t, vm.ErrInvalidMode, errors.Cause(err))
}

func TestAddressing(t *testing.T) {
	m := vm.NewMemory(vm.Image{10, 20, 30})
	assert.Equal(t, vm.Cell(2), vm.Immediate(2).Load(m))
	assert.Equal(t, vm.Cell(30), vm.Position(2).Load(m))
	assert.Equal(t, vm.Cell(20), vm.Relative{3, -2}.Load(m))

	// position and relative addresses of the same cell are interchangeable
	vm.Relative{-1, 3}.Store(m, 5)
	assert.Equal(t, vm.Cell(5), vm.Position(2).Load(m))
	vm.Position(2).Store(m, 6)
	assert.Equal(t, vm.Cell(6), vm.Relative{1, 1}.Load(m))

	ops := []vm.Operand{vm.Immediate(0), vm.Position(0), vm.Relative{}}
	for n, want := range []vm.Mode{vm.ImmediateMode, vm.PositionMode, vm.RelativeMode} {
		assert.Equal(t, want, ops[n].Mode())
		_, isTarget := ops[n].(vm.Target)
		assert.Equal(t, want != vm.ImmediateMode, isTarget)
	}
	assert.Equal(t, "relative", vm.RelativeMode.String())
}
