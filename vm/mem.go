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

// Cell is the raw type stored in a memory location.
type Cell int64

// maxGrow is the largest number of cells the dense part of Memory grows by in
// one access. Cells further away are stored in a sparse map.
const maxGrow = 1 << 20

// Memory is the VM memory. It grows automatically on access: reading or
// writing past its end first extends it with zero cells. Addresses far beyond
// the end are kept in a sparse map so that a single far write does not
// allocate the whole address range. The zero value is an empty, unlimited
// memory ready to use.
type Memory struct {
	cells []Cell
	far   map[Cell]Cell
	limit int
}

// NewMemory returns a new Memory initialized with a copy of cells.
func NewMemory(cells []Cell) *Memory {
	m := &Memory{cells: make([]Cell, len(cells))}
	copy(m.cells, cells)
	return m
}

// grow makes sure that addr is a valid index in m.cells, unless addr is too
// far past the end, in which case it returns false. It panics with
// ErrInvalidAddress if addr is negative and with ErrMemoryLimit if addr is
// beyond the memory limit.
func (m *Memory) grow(addr Cell) bool {
	if addr < 0 {
		panic(errors.Wrapf(ErrInvalidAddress, "address %d", addr))
	}
	if addr < Cell(len(m.cells)) {
		return true
	}
	if m.limit > 0 && addr >= Cell(m.limit) {
		panic(errors.Wrapf(ErrMemoryLimit, "address %d, limit %d", addr, m.limit))
	}
	if addr-Cell(len(m.cells)) >= maxGrow {
		return false
	}
	m.cells = append(m.cells, make([]Cell, int(addr)+1-len(m.cells))...)
	// move sparse cells that are now in range
	for a, v := range m.far {
		if a <= addr {
			m.cells[a] = v
			delete(m.far, a)
		}
	}
	return true
}

// Fetch returns the value stored at address addr.
//
// Fetch panics with an error whose cause is ErrInvalidAddress if addr is
// negative, or ErrMemoryLimit if addr is beyond the memory limit. Step
// recovers from these.
func (m *Memory) Fetch(addr Cell) Cell {
	if !m.grow(addr) {
		return m.far[addr]
	}
	return m.cells[addr]
}

// Store stores v at address addr. It panics under the same conditions as
// Fetch.
func (m *Memory) Store(addr, v Cell) {
	if !m.grow(addr) {
		if m.far == nil {
			m.far = make(map[Cell]Cell)
		}
		m.far[addr] = v
		return
	}
	m.cells[addr] = v
}

// Len returns the size in cells of the contiguous part of memory. Sparse cells
// are not counted.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Cells returns the contiguous memory contents. Note that value changes will
// be reflected in memory, but re-slicing will not affect it.
func (m *Memory) Cells() []Cell {
	return m.cells
}
