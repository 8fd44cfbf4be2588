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

// Errors returned by the VM. Errors returned by Step and friends carry
// additional context; use errors.Cause (from github.com/pkg/errors) to compare
// them against these values.
var (
	// corrupt program
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrInvalidMode    = errors.New("invalid parameter mode")
	ErrImmediateWrite = errors.New("write to immediate operand")

	// bad memory access
	ErrInvalidAddress = errors.New("invalid address")
	ErrMemoryLimit    = errors.New("memory limit exceeded")

	// ErrInputStarved is returned when an input instruction has no value
	// available. The VM state is left untouched and execution can be resumed
	// once input is available.
	ErrInputStarved = errors.New("input starved")

	// ErrHalted is returned by Step when called on a halted VM.
	ErrHalted = errors.New("halted")
)

// IsStarved returns true if the cause of err is ErrInputStarved.
func IsStarved(err error) bool {
	return err != nil && errors.Cause(err) == ErrInputStarved
}

// catch recovers from a panic caused by an error value and stores it in err.
// Memory faults are reported that way from deep within operand evaluation.
func catch(err *error) {
	if e := recover(); e != nil {
		ee, ok := e.(error)
		if !ok {
			panic(e)
		}
		*err = ee
	}
}
