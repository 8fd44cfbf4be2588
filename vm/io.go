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
	"bufio"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Reader is the interface that wraps the ReadCell method.
//
// ReadCell returns the next input value. It must return io.EOF when no value
// is available.
type Reader interface {
	ReadCell() (Cell, error)
}

// Writer is the interface that wraps the WriteCell method.
type Writer interface {
	WriteCell(v Cell) error
}

// ReaderFunc is an adapter to allow the use of ordinary functions as Readers.
type ReaderFunc func() (Cell, error)

// ReadCell calls f().
func (f ReaderFunc) ReadCell() (Cell, error) { return f() }

// WriterFunc is an adapter to allow the use of ordinary functions as Writers.
type WriterFunc func(v Cell) error

// WriteCell calls f(v).
func (f WriterFunc) WriteCell(v Cell) error { return f(v) }

// Queue is a FIFO of cells. It implements both Reader and Writer, and can be
// used to capture output or to feed input to a VM. A Queue never gets closed:
// reading from an empty queue returns io.EOF, but more values can be written
// later on. The zero value is an empty queue ready to use.
type Queue struct {
	cells []Cell
}

// Values returns a new Queue holding the given values.
func Values(v ...Cell) *Queue {
	q := new(Queue)
	q.Push(v...)
	return q
}

// Push appends values to the queue.
func (q *Queue) Push(v ...Cell) {
	q.cells = append(q.cells, v...)
}

// ReadCell implements Reader.
func (q *Queue) ReadCell() (Cell, error) {
	if len(q.cells) == 0 {
		return 0, io.EOF
	}
	v := q.cells[0]
	q.cells = q.cells[1:]
	if len(q.cells) == 0 {
		q.cells = nil
	}
	return v, nil
}

// WriteCell implements Writer.
func (q *Queue) WriteCell(v Cell) error {
	q.Push(v)
	return nil
}

// Len returns the number of values in the queue.
func (q *Queue) Len() int {
	return len(q.cells)
}

// Cells returns the values in the queue without removing them.
func (q *Queue) Cells() []Cell {
	return q.cells
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// scanValues is a bufio.SplitFunc that splits its input into tokens separated
// by commas and/or white space.
func scanValues(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, width := utf8.DecodeRune(data[start:])
		if !isSeparator(r) {
			break
		}
		start += width
	}
	for i := start; i < len(data); {
		r, width := utf8.DecodeRune(data[i:])
		if isSeparator(r) {
			return i + width, data[start:i], nil
		}
		i += width
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

type textReader struct {
	s *bufio.Scanner
}

func (r *textReader) ReadCell() (Cell, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return 0, errors.Wrap(err, "input read failed")
		}
		return 0, io.EOF
	}
	t := r.s.Text()
	v, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid input value %q", t)
	}
	return Cell(v), nil
}

// NewTextReader returns a Reader that reads decimal values separated by commas
// and/or white space from r.
func NewTextReader(r io.Reader) Reader {
	s := bufio.NewScanner(r)
	s.Split(scanValues)
	return &textReader{s}
}

type textWriter struct {
	w *iox.ErrWriter
}

func (w *textWriter) WriteCell(v Cell) error {
	var b [24]byte
	_, err := w.w.Write(append(strconv.AppendInt(b[:0], int64(v), 10), '\n'))
	return err
}

// NewTextWriter returns a Writer that writes each value on its own line in
// decimal to w.
func NewTextWriter(w io.Writer) Writer {
	return &textWriter{iox.NewErrWriter(w)}
}

type multiReader struct {
	readers []Reader
}

func (mr *multiReader) ReadCell() (v Cell, err error) {
	for len(mr.readers) > 0 {
		v, err = mr.readers[0].ReadCell()
		if err != io.EOF {
			return v, err
		}
		if len(mr.readers) == 1 {
			// keep the last reader so that it can be refilled
			break
		}
		if c, ok := mr.readers[0].(io.Closer); ok {
			c.Close()
		}
		mr.readers = mr.readers[1:]
	}
	return 0, io.EOF
}

func (mr *multiReader) pushReader(r Reader) {
	mr.readers = append([]Reader{r}, mr.readers...)
}

// InputReader returns the Reader input instructions currently read from, or
// nil if the VM has no input.
func (i *Instance) InputReader() Reader {
	return i.input
}

// PushInput sets r as the current input Reader for the VM. When this reader
// reaches io.EOF, the previously pushed reader will be used. The bottom
// reader of the stack is never discarded.
func (i *Instance) PushInput(r Reader) {
	// dont use a multi reader unless necessary
	switch in := i.input.(type) {
	case nil: // no input yet, single assign
		i.input = r
	case *multiReader:
		in.pushReader(r)
	default:
		i.input = &multiReader{[]Reader{r, i.input}}
	}
}
