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
	"strconv"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// HaltPC is the value of the program counter of a halted VM.
const HaltPC Cell = -1

// Instance represents an Intcode VM instance.
type Instance struct {
	PC       Cell   // Program Counter
	Base     Cell   // Relative base
	Mem      Memory // Memory
	set      InstructionSet
	insCount int64
	input    Reader
	output   Writer
	trace    *zap.Logger
	err      error
}

// Option interface
type Option func(*Instance) error

// Input pushes the given Reader on top of the input stack.
func Input(r Reader) Option {
	return func(i *Instance) error { i.PushInput(r); return nil }
}

// Output configures the output Writer. Every value output by the program is
// written to w, in addition to being returned by Step.
func Output(w Writer) Option {
	return func(i *Instance) error {
		i.output = w
		return nil
	}
}

// Instructions sets the instruction set. The default is Extended.
func Instructions(set InstructionSet) Option {
	return func(i *Instance) error {
		switch set {
		case Basic, Extended:
			i.set = set
			return nil
		}
		return errors.Errorf("unsupported instruction set %v", set)
	}
}

// MemoryLimit sets the maximum memory size in cells. Programs accessing memory
// beyond that limit fail with ErrMemoryLimit. A limit of 0 means no limit,
// which is the default. The limit cannot be lower than the image size.
func MemoryLimit(cells int) Option {
	return func(i *Instance) error {
		if cells < 0 || cells > 0 && cells < i.Mem.Len() {
			return errors.Errorf("memory limit %d lower than image size %d", cells, i.Mem.Len())
		}
		i.Mem.limit = cells
		return nil
	}
}

// Trace enables tracing of executed instructions at debug level to the given
// logger.
func Trace(l *zap.Logger) Option {
	return func(i *Instance) error {
		i.trace = l
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode VM instance.
//
// The instance gets its own copy of the image, so the same image can be used
// to create several independent instances.
//
// Options will be set by calling SetOptions.
func New(image Image, opts ...Option) (*Instance, error) {
	i := &Instance{
		Mem: Memory{cells: image.Clone()},
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// Halted returns true if the VM has executed a halt instruction.
func (i *Instance) Halted() bool {
	return i.PC == HaltPC
}

// Err returns the fatal error that stopped the VM, if any.
func (i *Instance) Err() error {
	return i.err
}

// InstructionSet returns the instance's instruction set.
func (i *Instance) InstructionSet() InstructionSet {
	return i.set
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Dump writes the program counter, relative base and memory contents of the
// VM to the specified io.Writer, separated by '\x1D'. Memory is written in
// the program image format. Sparse cells far past the end of the contiguous
// memory are not written.
func (i *Instance) Dump(w io.Writer) error {
	ew := iox.NewErrWriter(w)
	ew.WriteString(strconv.FormatInt(int64(i.PC), 10))
	ew.Write([]byte{'\x1D'})
	ew.WriteString(strconv.FormatInt(int64(i.Base), 10))
	ew.Write([]byte{'\x1D'})
	_, err := Image(i.Mem.cells).WriteTo(ew)
	return err
}
