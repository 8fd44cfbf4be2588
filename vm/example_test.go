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
	"fmt"
	"io"
	"os"

	"github.com/db47h/intcode/vm"
)

// Shows how to run a program to completion with static input, sending its
// output to an io.Writer.
func ExampleInstance_Run() {
	// outputs 999 if the input is lower than 8, 1000 if equal to 8, 1001
	// otherwise.
	img, err := vm.ParseString("3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31," +
		"1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1," +
		"20,4,20,1105,1,46,98,99")
	if err != nil {
		panic(err)
	}
	for _, in := range []vm.Cell{7, 8, 9} {
		i, err := vm.New(img,
			vm.Input(vm.Values(in)),
			vm.Output(vm.NewTextWriter(os.Stdout)))
		if err == nil {
			err = i.Run()
		}
		if err != nil {
			panic(err)
		}
	}

	// Output:
	// 999
	// 1000
	// 1001
}

// Shows how to pull output values one at a time and feed input on demand.
func ExampleInstance_NextOutput() {
	// reads values and outputs their double until it reads 0.
	img, _ := vm.ParseString("3,20,1006,20,14,1002,20,2,20,4,20,1105,1,0,99")
	in := new(vm.Queue)
	i, _ := vm.New(img, vm.Input(in))

	for _, v := range []vm.Cell{21, 50, 0} {
		in.Push(v)
		out, err := i.NextOutput()
		switch {
		case err == io.EOF:
			fmt.Println("halted")
		case vm.IsStarved(err):
			fmt.Println("waiting for input")
		case err != nil:
			panic(err)
		default:
			fmt.Println(out)
		}
	}

	// Output:
	// 42
	// 100
	// halted
}
