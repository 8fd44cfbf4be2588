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

// Package vm implements the Intcode virtual machine.
//
// An Intcode program is a flat list of signed integers that serves both as
// code and data. Each instruction is encoded in a single cell: the two lowest
// decimal digits hold the opcode and each following digit holds the parameter
// mode of one operand (0: position, 1: immediate, 2: relative). All three
// mode digits must be valid, even for operands the instruction does not have.
// Operands follow the instruction cell. Memory grows on demand: any access
// past the end of the image extends it with zero cells, and cells far past the
// end are stored sparsely.
//
// An Instance executes one instruction per call to Step. Input instructions
// pull values from a Reader and output instructions hand values to the
// caller (and to an optional Writer). When an input instruction finds no
// value available, Step returns ErrInputStarved without touching the VM
// state, so that the caller can supply more input and resume. This is what
// allows several instances to be chained into a feedback loop, see the
// pipeline package.
//
// Two instruction sets are supported: Basic (opcodes 1 to 8 and 99, position
// and immediate modes) and Extended, which adds the relative base register,
// opcode 9 and relative mode. Extended is the default.
//
// Any decoding or addressing error is fatal to the instance: every subsequent
// Step returns the same error.
package vm
