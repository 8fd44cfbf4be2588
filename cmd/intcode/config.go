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
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"
)

var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type logConfig struct {
	Level string
}

type vmConfig struct {
	Basic       bool
	MemoryLimit int
	Trace       bool
}

type amplifyConfig struct {
	Phases   []int64
	Feedback bool
	Signal   int64
}

type intcodeConfig struct {
	Log     logConfig
	VM      vmConfig
	Amplify amplifyConfig
}

func defaultConfig() intcodeConfig {
	return intcodeConfig{
		Log:     logConfig{Level: "info"},
		Amplify: amplifyConfig{Phases: []int64{0, 1, 2, 3, 4}},
	}
}

func loadConfig(file string, cfg *intcodeConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the configuration file, if any, and applies command line
// overrides.
func makeConfig(ctx *cli.Context) (intcodeConfig, error) {
	cfg := defaultConfig()
	if file := ctx.GlobalString(configFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.GlobalIsSet(logLevelFlag.Name) {
		cfg.Log.Level = ctx.GlobalString(logLevelFlag.Name)
	}
	return cfg, nil
}

// applyVMFlags overrides cfg with the VM flags of the current command.
func applyVMFlags(ctx *cli.Context, cfg *vmConfig) {
	if ctx.IsSet(basicFlag.Name) {
		cfg.Basic = ctx.Bool(basicFlag.Name)
	}
	if ctx.IsSet(memLimitFlag.Name) {
		cfg.MemoryLimit = ctx.Int(memLimitFlag.Name)
	}
	if ctx.IsSet(traceFlag.Name) {
		cfg.Trace = ctx.Bool(traceFlag.Name)
	}
}

func dumpConfig(ctx *cli.Context) error {
	out, err := tomlSettings.Marshal(&config)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}
