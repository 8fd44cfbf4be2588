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

package asm

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/db47h/intcode/vm"
)

const maxErrors = 10

// ErrAsm encapsulates errors generated by the assembler.
type ErrAsm []struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsm) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Pos.String())
		b.WriteString(": ")
		b.WriteString(err.Msg)
	}
	return b.String()
}

func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type label struct {
	labelSite
	ref  string // name as written at first use
	uses []labelSite
}

type constant struct {
	pos   scanner.Position
	value vm.Cell
}

// parser states
const (
	stInstruction = iota
	stOperand
	stOrg
	stDat
	stEquName
	stEquValue
)

type parser struct {
	img    []vm.Cell
	pc     int
	size   int
	s      scanner.Scanner
	labels map[string]*label
	consts map[string]constant
	locals map[string]int
	errs   ErrAsm

	state   int
	op      vm.Opcode
	opPC    int
	arg     int
	cstName string
	cstPos  scanner.Position
}

func newParser() *parser {
	return &parser{
		labels: make(map[string]*label),
		consts: make(map[string]constant),
		locals: make(map[string]int),
	}
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, struct {
			Pos scanner.Position
			Msg string
		}{pos, msg})
	}
}

// errorf reports an error at the current token.
func (p *parser) errorf(msg string) {
	p.error(p.s.Position, msg)
}

func (p *parser) write(v vm.Cell) {
	if p.pc >= len(p.img) {
		n := 2 * len(p.img)
		if n <= p.pc {
			n = p.pc + 256
		}
		img := make([]vm.Cell, n)
		copy(img, p.img)
		p.img = img
	}
	p.img[p.pc] = v
	p.pc++
	if p.pc > p.size {
		p.size = p.pc
	}
}

func (p *parser) image() vm.Image {
	return vm.Image(p.img[:p.size])
}

// value converts integer literals, character literals and constant names. ok
// is false if s is none of those.
func (p *parser) value(s string) (v vm.Cell, ok bool) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return vm.Cell(n), true
	}
	if ne, _ := err.(*strconv.NumError); ne != nil && ne.Err == strconv.ErrRange {
		p.errorf("value out of range: " + s)
		return 0, true
	}
	if len(s) > 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err != nil || tail != "" {
			p.errorf("invalid character literal " + s)
			return 0, true
		}
		return vm.Cell(r), true
	}
	if c, ok := p.consts[s]; ok {
		return c.value, true
	}
	return 0, false
}

func isLocal(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func localName(name string, n int) string {
	return name + "·" + strconv.Itoa(n)
}

func (p *parser) defineLabel(name string) {
	if name == "" {
		p.errorf("empty label name")
		return
	}
	ref := name
	if isLocal(name) {
		p.locals[name]++
		name = localName(name, p.locals[name])
	}
	if c, ok := p.consts[name]; ok {
		p.errorf("label redefinition, previously defined as a constant here: " + c.pos.String() + ": " + ref)
		return
	}
	pos := p.s.Position
	if l, ok := p.labels[name]; ok {
		if l.address != -1 {
			p.errorf("label redefinition, previous definition here: " + l.pos.String() + ": " + ref)
			return
		}
		l.address = p.pc
		l.pos = pos
		return
	}
	p.labels[name] = &label{labelSite: labelSite{pos, p.pc}}
}

// useLabel writes a placeholder for the address of the named label at the
// current pc.
func (p *parser) useLabel(ref string) {
	name := ref
	if l := len(ref) - 1; l > 0 && isLocal(ref[:l]) && (ref[l] == '+' || ref[l] == '-') {
		n := p.locals[ref[:l]]
		if ref[l] == '+' {
			n++
		} else if n == 0 {
			p.errorf("backward reference to undefined local label: " + ref)
			p.write(0)
			return
		}
		name = localName(ref[:l], n)
	}
	lbl := p.labels[name]
	if lbl == nil {
		lbl = &label{labelSite: labelSite{p.s.Position, -1}, ref: ref}
		p.labels[name] = lbl
	}
	lbl.uses = append(lbl.uses, labelSite{p.s.Position, p.pc})
	p.write(0)
}

// cell writes the value of s at the current pc, or a placeholder if s is a
// label reference.
func (p *parser) cell(s string) {
	if v, ok := p.value(s); ok {
		p.write(v)
		return
	}
	switch s[0] {
	case ':':
		p.errorf("unexpected label definition as argument: " + s)
	case '.':
		p.errorf("unexpected directive as argument: " + s)
	case '#', '@':
		p.errorf("unexpected addressing mode: " + s)
	default:
		if _, ok := opcodeIndex[s]; ok {
			p.errorf("unexpected opcode as argument: " + s)
			return
		}
		p.useLabel(s)
	}
}

var modeScale = [vm.MaxOperands]vm.Cell{100, 1000, 10000}

func (p *parser) operand(s string) {
	tok := s
	mode := vm.PositionMode
	switch s[0] {
	case '#':
		mode = vm.ImmediateMode
	case '@':
		mode = vm.RelativeMode
	}
	if mode != vm.PositionMode {
		s = s[1:]
		if s == "" {
			p.errorf("missing operand value: " + tok)
			return
		}
	}
	if mode == vm.ImmediateMode && p.op.WritesOperand(p.arg) {
		p.errorf("immediate mode not allowed for destination operand: " + tok)
	}
	p.img[p.opPC] += vm.Cell(mode) * modeScale[p.arg]
	p.cell(s)
	p.arg++
	if p.arg >= p.op.Arity() {
		p.state = stInstruction
	}
}

func (p *parser) instruction(s string) {
	switch s[0] {
	case ':':
		p.defineLabel(s[1:])
		return
	case '.':
		switch s {
		case ".org":
			p.state = stOrg
		case ".dat":
			p.state = stDat
		case ".equ":
			p.state = stEquName
		default:
			p.errorf("unknown directive: " + s)
		}
		return
	}
	if op, ok := opcodeIndex[s]; ok {
		p.op = op
		p.opPC = p.pc
		p.arg = 0
		p.write(vm.Cell(op))
		if op.Arity() > 0 {
			p.state = stOperand
		}
		return
	}
	p.cell(s)
}

func (p *parser) skipComment() {
	pos := p.s.Position
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if tok == scanner.Ident && p.s.TokenText() == ")" {
			return
		}
	}
	p.error(pos, "unterminated comment")
}

// token processes a single token according to the current parser state.
func (p *parser) token(s string) {
	switch p.state {
	case stInstruction:
		p.instruction(s)
	case stOperand:
		p.operand(s)
	case stDat:
		p.state = stInstruction
		p.cell(s)
	case stOrg:
		p.state = stInstruction
		v, ok := p.value(s)
		if !ok || v < 0 {
			p.errorf(".org: expected a positive integer or constant, got " + s)
			break
		}
		p.pc = int(v)
	case stEquName:
		p.state = stEquValue
		if _, ok := p.value(s); ok || isLocal(s) || strings.ContainsAny(s[:1], ":.#@") {
			p.errorf(".equ: invalid constant name: " + s)
		}
		if l, ok := p.labels[s]; ok {
			p.errorf(".equ: redefinition of label defined/used here: " + l.pos.String() + ": " + s)
		}
		p.cstName = s
		p.cstPos = p.s.Position
	case stEquValue:
		p.state = stInstruction
		v, ok := p.value(s)
		if !ok {
			p.errorf(".equ: expected an integer or constant value, got " + s)
			break
		}
		p.consts[p.cstName] = constant{p.cstPos, v}
	}
}

type field struct {
	s  string
	at int
}

// splitFields splits s at commas outside of character literals. Each field
// comes with its byte offset in s.
func splitFields(s string) []field {
	var (
		fs    []field
		start int
		quote bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote && c == '\\':
			i++
		case c == '\'':
			quote = !quote
		case c == ',' && !quote:
			fs = append(fs, field{s[start:i], start})
			start = i + 1
		}
	}
	return append(fs, field{s[start:], start})
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) error {
	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		p.error(pos, msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents
	p.s.Filename = name

	for tok := p.s.Scan(); tok != scanner.EOF && len(p.errs) < maxErrors; tok = p.s.Scan() {
		if tok != scanner.Ident {
			p.errorf("unexpected character " + strconv.QuoteRune(tok))
			continue
		}
		s := p.s.TokenText()
		if s == "(" {
			p.skipComment()
			continue
		}
		// operands may be joined by commas: "add #1,#2,3"
		pos := p.s.Position
		for _, f := range splitFields(s) {
			if f.s == "" {
				continue
			}
			p.s.Position.Offset = pos.Offset + f.at
			p.s.Position.Column = pos.Column + f.at
			p.token(f.s)
		}
	}

	if p.state != stInstruction && len(p.errs) < maxErrors {
		pos := p.s.Pos()
		if p.state == stOperand {
			p.error(pos, "missing operand for "+p.op.String())
		} else {
			p.error(pos, "unexpected end of input")
		}
	}

	// write labels
	names := make([]string, 0, len(p.labels))
	for n := range p.labels {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		l := p.labels[n]
		if l.address == -1 {
			p.error(l.uses[0].pos, "undefined label "+l.ref)
			continue
		}
		for _, u := range l.uses {
			p.img[u.address] = vm.Cell(l.address)
		}
	}

	if len(p.errs) > 0 {
		return p.errs
	}
	return nil
}
