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

// Package log builds the zap loggers used by the intcode command.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var atom = zap.NewAtomicLevel()

var levelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

// SetLevel sets the minimum enabled level of all loggers created by this
// package.
func SetLevel(level string) error {
	l, ok := levelMap[strings.ToLower(level)]
	if !ok {
		return errors.Errorf("unknown log level %q", level)
	}
	atom.SetLevel(l)
	return nil
}

// Level returns the current level.
func Level() zapcore.Level {
	return atom.Level()
}

// New returns a logger writing to stderr. Levels are colored if stderr is a
// terminal.
func New() *zap.Logger {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return NewWriter(colorable.NewColorableStderr(), true)
	}
	return NewWriter(os.Stderr, false)
}

// NewWriter returns a console logger writing to w.
func NewWriter(w io.Writer, color bool) *zap.Logger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.AddSync(w), atom)
	return zap.New(core)
}
