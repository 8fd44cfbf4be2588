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

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/db47h/intcode/vm"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// prompter reads input values from an interactive terminal. Several values
// can be entered on the same line.
type prompter struct {
	*liner.State
	flush   func() error
	pending []vm.Cell
}

func newPrompter(flush func() error) *prompter {
	p := &prompter{State: liner.NewLiner(), flush: flush}
	p.SetCtrlCAborts(true)
	return p
}

func (p *prompter) ReadCell() (vm.Cell, error) {
	for len(p.pending) == 0 {
		// make sure that pending output shows up before the prompt
		if err := p.flush(); err != nil {
			return 0, err
		}
		line, err := p.Prompt("? ")
		switch {
		case err == liner.ErrPromptAborted || err == io.EOF:
			return 0, io.EOF
		case err != nil:
			return 0, err
		}
		vals, err := parseCells(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if len(vals) > 0 {
			p.AppendHistory(line)
		}
		p.pending = vals
	}
	v := p.pending[0]
	p.pending = p.pending[1:]
	return v, nil
}

// inputReader returns a reader for stdin. The returned function must be
// called once done with it.
func inputReader(flush func() error) (vm.Reader, func()) {
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) && liner.TerminalSupported() {
		p := newPrompter(flush)
		return p, func() { p.Close() }
	}
	return vm.NewTextReader(bufio.NewReader(stdin)), func() {}
}

// parseCells parses a list of values separated by commas or white space.
func parseCells(s string) ([]vm.Cell, error) {
	var vals []vm.Cell
	r := vm.NewTextReader(strings.NewReader(s))
	for {
		v, err := r.ReadCell()
		switch err {
		case nil:
			vals = append(vals, v)
		case io.EOF:
			return vals, nil
		default:
			return nil, err
		}
	}
}
