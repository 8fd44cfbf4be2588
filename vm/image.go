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
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Image is a program image: the initial contents of a VM's memory.
//
// The textual representation of an image is a list of comma separated
// decimal values, optionally followed by a new line.
type Image []Cell

// Clone returns a copy of img.
func (img Image) Clone() Image {
	c := make(Image, len(img))
	copy(c, img)
	return c
}

// WriteTo writes the textual representation of img to w, without a trailing
// new line. It implements io.WriterTo.
func (img Image) WriteTo(w io.Writer) (n int64, err error) {
	ew := iox.NewErrWriter(w)
	start := ew.N
	err = ew.WriteInts(len(img), func(i int) int64 { return int64(img[i]) }, ",")
	return ew.N - start, err
}

func (img Image) String() string {
	var b strings.Builder
	img.WriteTo(&b)
	return b.String()
}

// Parse reads a program image in textual form from r.
func Parse(r io.Reader) (Image, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	return ParseString(string(data))
}

// ParseString parses a program image in textual form.
func ParseString(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty image")
	}
	fields := strings.Split(s, ",")
	img := make(Image, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %d", i)
		}
		img[i] = Cell(v)
	}
	return img, nil
}

// Load loads an image from file fileName.
func Load(fileName string) (Image, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	defer f.Close()
	img, err := Parse(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "Load %v", fileName)
	}
	return img, nil
}

// Save saves an image to file fileName in textual form, followed by a new
// line. The file is deleted if an error occurs.
func Save(fileName string, img Image) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if e := w.Flush(); err == nil && e != nil {
			err = errors.Wrap(e, "write failed")
		}
		if e := f.Close(); err == nil && e != nil {
			err = errors.Wrap(e, "close failed")
		}
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	if _, err = img.WriteTo(w); err != nil {
		return errors.Wrap(err, "save failed")
	}
	_, err = w.WriteString("\n")
	return errors.Wrap(err, "save failed")
}
