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

import "io"

// Run starts execution of the VM until it halts.
//
// Output values are sent to the Writer configured with the Output option. If
// the program runs out of input, Run returns an error whose cause is
// ErrInputStarved. If an error occurs, the PC will point to the instruction
// that triggered the error.
//
// If the VM was exited cleanly with a halt instruction, err will be nil.
func (i *Instance) Run() error {
	for !i.Halted() {
		if _, _, err := i.Step(); err != nil {
			return err
		}
	}
	return nil
}

// NextOutput runs the VM until it either outputs a value or halts. It returns
// io.EOF once the VM has halted. Repeatedly calling NextOutput yields the
// sequence of values output by the program.
//
// If the program runs out of input, NextOutput returns an error whose cause
// is ErrInputStarved. Execution can be resumed by calling NextOutput again
// once more input is available.
func (i *Instance) NextOutput() (Cell, error) {
	for !i.Halted() {
		v, ok, err := i.Step()
		if err != nil {
			return 0, err
		}
		if ok {
			return v, nil
		}
	}
	return 0, io.EOF
}

// Outputs runs the VM until it halts and returns all the values it output.
// On error, the values output so far are returned along with the error.
func (i *Instance) Outputs() ([]Cell, error) {
	var out []Cell
	for {
		v, err := i.NextOutput()
		switch err {
		case nil:
			out = append(out, v)
		case io.EOF:
			return out, nil
		default:
			return out, err
		}
	}
}
