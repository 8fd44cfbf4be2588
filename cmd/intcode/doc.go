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

// The intcode command line tool runs, assembles and disassembles Intcode
// programs, and searches amplifier pipelines for their best phase settings.
//
// Usage:
//
//	intcode [global options] command [command options] [arguments...]
//
// Commands:
//
//	run IMAGE		run a program image
//	amplify IMAGE		run a program in an amplifier pipeline
//	asm SOURCE		assemble a source file
//	disasm IMAGE		disassemble a program image
//	config			show configuration values
//
// Global options:
//
//	-config file
//		  TOML configuration file
//	-loglevel level
//		  log level: debug, info, warn or error (default "info")
//	-debug
//		  print stack traces and VM state on error
//
// run: runs the program until it halts. Input values given with -input are
// read first, then values are read from stdin, separated by commas or white
// space. If stdin is a terminal, values are read from an interactive prompt.
// Output values are written to stdout, one per line. Running out of input is
// an error.
//
//	-input values
//		  comma separated input values
//	-set ADDR=VAL
//		  store VAL at address ADDR before starting (can be repeated)
//	-basic
//		  use the basic instruction set (no relative mode)
//	-memlimit cells
//		  maximum memory size (0 means no limit)
//	-trace
//		  log executed instructions (requires -loglevel debug)
//	-dump
//		  dump the program counter, relative base and memory upon exit
//	-stats
//		  print execution statistics to stderr
//
// amplify: runs one copy of the program per phase setting, each feeding its
// output to the next one, and prints the highest output of the last stage
// over all permutations of the phase settings, along with the phase order
// that produced it.
//
//	-phases settings
//		  comma separated phase settings (default "0,1,2,3,4")
//	-feedback
//		  feed the output of the last stage back to the first one
//	-signal value
//		  input signal of the first stage (default 0)
//	-fixed
//		  only run the phases in the given order
//
// The -basic, -memlimit, -trace and -stats options of the run command are also
// available.
//
// asm: assembles SOURCE and writes the program image to stdout, or to the file
// given with -o. See package github.com/db47h/intcode/asm for the syntax.
//
// Configuration:
//
// Defaults can be set in a TOML file given with -config. Command line flags
// take precedence. The config command prints the current configuration:
//
//	[Log]
//	Level = "info"
//
//	[VM]
//	Basic = false
//	MemoryLimit = 0
//	Trace = false
//
//	[Amplify]
//	Phases = [0, 1, 2, 3, 4]
//	Feedback = false
//	Signal = 0
package main
