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

package pipeline

import "github.com/db47h/intcode/vm"

// Permute calls fn for every permutation of set. The slice passed to fn is
// reused between calls. Iteration stops at the first error returned by fn.
//
// Permutations are generated with Heap's algorithm, so the first one is set
// itself.
func Permute(set []vm.Cell, fn func([]vm.Cell) error) error {
	a := append([]vm.Cell(nil), set...)
	c := make([]int, len(a))
	if err := fn(a); err != nil {
		return err
	}
	for i := 1; i < len(a); {
		if c[i] >= i {
			c[i] = 0
			i++
			continue
		}
		if i%2 == 0 {
			a[0], a[i] = a[i], a[0]
		} else {
			a[c[i]], a[i] = a[i], a[c[i]]
		}
		if err := fn(a); err != nil {
			return err
		}
		c[i]++
		i = 1
	}
	return nil
}
