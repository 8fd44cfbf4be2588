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
	"io"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type C []vm.Cell

func image(t testing.TB, code string) vm.Image {
	img, err := vm.ParseString(code)
	require.NoError(t, err)
	return img
}

func setup(t testing.TB, code string, opts ...vm.Option) *vm.Instance {
	i, err := vm.New(image(t, code), opts...)
	require.NoError(t, err)
	return i
}

// run runs code with the given input values and returns its outputs.
func run(t testing.TB, code string, input ...vm.Cell) (C, *vm.Instance) {
	i := setup(t, code, vm.Input(vm.Values(input...)))
	out, err := i.Outputs()
	require.NoError(t, err, "%+v", err)
	require.True(t, i.Halted())
	return out, i
}

var memTests = [...]struct {
	name string
	code string
	mem  C
}{
	{"add", "1,0,0,0,99", C{2, 0, 0, 0, 99}},
	{"mul", "2,3,0,3,99", C{2, 3, 0, 6, 99}},
	{"mul-grow", "2,4,4,5,99,0", C{2, 4, 4, 5, 99, 9801}},
	{"self-modify", "1,1,1,4,99,5,6,0,99", C{30, 1, 1, 4, 2, 5, 6, 0, 99}},
	{"sample", "1,9,10,3,2,3,11,0,99,30,40,50", C{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}},
	{"immediate", "1002,4,3,4,33", C{1002, 4, 3, 4, 99}},
	{"negative", "1101,100,-1,4,0", C{1101, 100, -1, 4, 99}},
}

func TestCore(t *testing.T) {
	for _, test := range memTests {
		t.Run(test.name, func(t *testing.T) {
			_, i := run(t, test.code)
			assert.Equal(t, test.mem, C(i.Mem.Cells()))
			assert.Equal(t, vm.HaltPC, i.PC)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		code string
		want func(in vm.Cell) vm.Cell
	}{
		{"eq-position", "3,9,8,9,10,9,4,9,99,-1,8", func(in vm.Cell) vm.Cell { return b2c(in == 8) }},
		{"lt-position", "3,9,7,9,10,9,4,9,99,-1,8", func(in vm.Cell) vm.Cell { return b2c(in < 8) }},
		{"eq-immediate", "3,3,1108,-1,8,3,4,3,99", func(in vm.Cell) vm.Cell { return b2c(in == 8) }},
		{"lt-immediate", "3,3,1107,-1,8,3,4,3,99", func(in vm.Cell) vm.Cell { return b2c(in < 8) }},
		{"jump-position", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", func(in vm.Cell) vm.Cell { return b2c(in != 0) }},
		{"jump-immediate", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", func(in vm.Cell) vm.Cell { return b2c(in != 0) }},
		{"cmp-8", "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99",
			func(in vm.Cell) vm.Cell {
				switch {
				case in < 8:
					return 999
				case in == 8:
					return 1000
				}
				return 1001
			}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for in := vm.Cell(-2); in <= 11; in++ {
				out, _ := run(t, test.code, in)
				assert.Equal(t, C{test.want(in)}, out, "input %d", in)
			}
		})
	}
}

func b2c(b bool) vm.Cell {
	if b {
		return 1
	}
	return 0
}

func TestQuine(t *testing.T) {
	code := "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"
	out, _ := run(t, code)
	assert.Equal(t, code, vm.Image(out).String())
}

func TestLargeNumbers(t *testing.T) {
	out, _ := run(t, "104,1125899906842624,99")
	assert.Equal(t, C{1125899906842624}, out)

	out, _ = run(t, "1102,34915192,34915192,7,4,7,99,0")
	assert.Equal(t, C{1219070632396864}, out)
}

func TestInputOutput(t *testing.T) {
	for _, in := range []vm.Cell{-1, 0, 42, 1 << 40} {
		out, _ := run(t, "3,0,4,0,99", in)
		assert.Equal(t, C{in}, out)
	}
	out, _ := run(t, "203,5,4,5,99,0", 42)
	assert.Equal(t, C{42}, out)
}

// a relative access must behave exactly like the equivalent position access.
func TestRelativeMode(t *testing.T) {
	rel, ri := run(t, "109,10,21101,3,4,5,204,5,99")
	pos, pi := run(t, "109,10,1101,3,4,15,4,15,99")
	assert.Equal(t, C{7}, rel)
	assert.Equal(t, pos, rel)
	assert.Equal(t, pi.Mem.Len(), ri.Mem.Len())
	assert.Equal(t, pi.Mem.Fetch(15), ri.Mem.Fetch(15))
	assert.Equal(t, vm.Cell(10), ri.Base)

	// negative base adjustment
	out, _ := run(t, "109,20,109,-15,203,0,204,0,99", 5)
	assert.Equal(t, C{5}, out)
}

func TestMemoryGrowth(t *testing.T) {
	_, i := run(t, "1101,5,6,1000,99")
	mem := i.Mem.Cells()
	require.Len(t, mem, 1001)
	assert.Equal(t, vm.Cell(11), mem[1000])
	for n := 5; n < 1000; n++ {
		if mem[n] != 0 {
			t.Fatalf("cell %d not zeroed: %d", n, mem[n])
		}
	}

	// reads grow memory too
	out, i := run(t, "4,500,99")
	assert.Equal(t, C{0}, out)
	assert.Equal(t, 501, i.Mem.Len())

	// relative writes
	out, _ = run(t, "109,2000,21101,7,8,-1000,204,-1000,99")
	assert.Equal(t, C{15}, out)
}

func TestFarMemory(t *testing.T) {
	out, i := run(t, "1101,1,1,100000000000,4,100000000000,4,99999999999,99")
	assert.Equal(t, C{2, 0}, out)
	assert.Equal(t, 9, i.Mem.Len())
	assert.Equal(t, vm.Cell(2), i.Mem.Fetch(100000000000))

	// relative mode and the memory limit apply to far cells too
	out, _ = run(t, "109,100000000000,21101,3,4,7,204,7,99")
	assert.Equal(t, C{7}, out)
	err := setup(t, "1101,1,1,100000000000,99", vm.MemoryLimit(1000)).Run()
	assert.Equal(t, vm.ErrMemoryLimit, errors.Cause(err))

	// sparse cells move to contiguous memory once it grows past them
	var m vm.Memory
	m.Store(1500000, 42)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, vm.Cell(42), m.Fetch(1500000))
	m.Store(1000000, 1)
	assert.Equal(t, 1000001, m.Len())
	m.Store(1500001, 2)
	assert.Equal(t, 1500002, m.Len())
	assert.Equal(t, vm.Cell(42), m.Cells()[1500000])
	assert.Equal(t, vm.Cell(1), m.Fetch(1000000))
}

func TestDeterminism(t *testing.T) {
	for _, test := range memTests {
		_, a := run(t, test.code)
		_, b := run(t, test.code)
		assert.Equal(t, a.Mem.Cells(), b.Mem.Cells(), test.name)
		assert.Equal(t, a.InstructionCount(), b.InstructionCount(), test.name)
	}
}

func TestInstancesDoNotShareMemory(t *testing.T) {
	img := image(t, "1101,1,1,0,99")
	a, err := vm.New(img)
	require.NoError(t, err)
	require.NoError(t, a.Run())
	assert.Equal(t, vm.Cell(2), a.Mem.Fetch(0))
	assert.Equal(t, vm.Cell(1101), img[0])
	b, err := vm.New(img)
	require.NoError(t, err)
	assert.Equal(t, vm.Cell(1101), b.Mem.Fetch(0))
}

var errTests = [...]struct {
	name  string
	code  string
	set   vm.InstructionSet
	cause error
	pc    vm.Cell
}{
	{"opcode-0", "0", vm.Extended, vm.ErrInvalidOpcode, 0},
	{"opcode-98", "1101,0,0,3,98", vm.Extended, vm.ErrInvalidOpcode, 4},
	{"negative-opcode", "-1", vm.Extended, vm.ErrInvalidOpcode, 0},
	{"past-end", "1101,1,1,5", vm.Extended, vm.ErrInvalidOpcode, 4},
	{"mode-3", "301,0,0,0,99", vm.Extended, vm.ErrInvalidMode, 0},
	{"imm-dst", "10001,0,0,0,99", vm.Extended, vm.ErrImmediateWrite, 0},
	{"imm-input", "103,0,99", vm.Extended, vm.ErrImmediateWrite, 0},
	{"neg-address", "1,-1,0,0,99", vm.Extended, vm.ErrInvalidAddress, 0},
	{"neg-jump", "1105,1,-5", vm.Extended, vm.ErrInvalidAddress, 0},
	{"neg-relative", "109,-5,204,0,99", vm.Extended, vm.ErrInvalidAddress, 2},
	{"basic-arb", "109,1,99", vm.Basic, vm.ErrInvalidOpcode, 0},
	{"basic-relative", "204,0,99", vm.Basic, vm.ErrInvalidMode, 0},
	{"unused-mode", "30099", vm.Extended, vm.ErrInvalidMode, 0},
	{"unused-mode-out", "90104,7,99", vm.Extended, vm.ErrInvalidMode, 0},
	{"basic-unused-relative", "1101,1,1,3,20099", vm.Basic, vm.ErrInvalidMode, 4},
}

func TestErrors(t *testing.T) {
	for _, test := range errTests {
		t.Run(test.name, func(t *testing.T) {
			i := setup(t, test.code, vm.Instructions(test.set))
			err := i.Run()
			require.Error(t, err)
			assert.Equal(t, test.cause, errors.Cause(err), "%+v", err)
			assert.Equal(t, test.pc, i.PC)
			assert.False(t, i.Halted())

			// errors are sticky
			_, _, err2 := i.Step()
			assert.Equal(t, test.cause, errors.Cause(err2))
			assert.Equal(t, err, i.Err())
			assert.Equal(t, test.pc, i.PC)
		})
	}
}

func TestInputStarved(t *testing.T) {
	q := vm.Values()
	i := setup(t, "3,0,4,0,99", vm.Input(q))

	_, err := i.NextOutput()
	require.True(t, vm.IsStarved(err), "%+v", err)
	assert.Equal(t, vm.Cell(0), i.PC)
	assert.Equal(t, vm.Cell(3), i.Mem.Fetch(0))
	assert.NoError(t, i.Err())

	// starving again does not change anything
	_, _, err = i.Step()
	require.True(t, vm.IsStarved(err))
	assert.Equal(t, int64(0), i.InstructionCount())

	q.Push(42)
	v, err := i.NextOutput()
	require.NoError(t, err)
	assert.Equal(t, vm.Cell(42), v)
	_, err = i.NextOutput()
	assert.Equal(t, io.EOF, err)

	// single shot usage: starvation is a failure
	err = setup(t, "3,0,99").Run()
	assert.True(t, vm.IsStarved(err))
}

func TestHalted(t *testing.T) {
	i := setup(t, "99")
	require.NoError(t, i.Run())
	assert.True(t, i.Halted())
	_, _, err := i.Step()
	assert.Equal(t, vm.ErrHalted, err)
	_, err = i.NextOutput()
	assert.Equal(t, io.EOF, err)
	require.NoError(t, i.Run())
	assert.Equal(t, int64(1), i.InstructionCount())
}

func TestStep(t *testing.T) {
	i := setup(t, "1101,2,3,9,4,9,99")
	v, ok, err := i.Step()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, vm.Cell(4), i.PC)
	v, ok, err = i.Step()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, vm.Cell(5), v)
	assert.Equal(t, vm.Cell(6), i.PC)
	_, ok, err = i.Step()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, i.Halted())
	assert.Equal(t, int64(3), i.InstructionCount())
}

func TestMemoryLimit(t *testing.T) {
	i := setup(t, "1101,1,1,100,99", vm.MemoryLimit(50))
	err := i.Run()
	assert.Equal(t, vm.ErrMemoryLimit, errors.Cause(err))

	i = setup(t, "1101,1,1,49,99", vm.MemoryLimit(50))
	require.NoError(t, i.Run())
	assert.Equal(t, 50, i.Mem.Len())

	_, err = vm.New(image(t, "1,0,0,0,99"), vm.MemoryLimit(2))
	assert.Error(t, err)
}

func TestInstructionsOption(t *testing.T) {
	_, err := vm.New(image(t, "99"), vm.Instructions(vm.InstructionSet(42)))
	assert.Error(t, err)

	i := setup(t, "1101,1,2,0,99", vm.Instructions(vm.Basic))
	assert.Equal(t, vm.Basic, i.InstructionSet())
	require.NoError(t, i.Run())
	assert.Equal(t, vm.Cell(3), i.Mem.Fetch(0))
}

func TestMemoryFetchPanics(t *testing.T) {
	var m vm.Memory
	assert.Equal(t, vm.Cell(0), m.Fetch(3))
	assert.Equal(t, 4, m.Len())
	defer func() {
		e := recover()
		require.NotNil(t, e)
		assert.Equal(t, vm.ErrInvalidAddress, errors.Cause(e.(error)))
	}()
	m.Store(-1, 0)
}

func BenchmarkRun(b *testing.B) {
	// counts down from 10000 to 0
	img := image(b, "1101,0,10000,100,1001,100,-1,100,1005,100,4,99")
	for n := 0; n < b.N; n++ {
		i, err := vm.New(img)
		if err != nil {
			b.Fatal(err)
		}
		if err = i.Run(); err != nil {
			b.Fatalf("%+v", err)
		}
	}
}
