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
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/internal/log"
	"github.com/db47h/intcode/pipeline"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/urfave/cli.v1"
)

var (
	app = cli.NewApp()

	// replaced in tests
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout

	config intcodeConfig
	logger = zap.NewNop()

	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration `file`",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log `level`: debug, info, warn or error",
		Value: "info",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "print stack traces and VM state on error",
	}

	inputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "comma separated input `values`",
	}
	setFlag = cli.StringSliceFlag{
		Name:  "set",
		Usage: "store VAL at address ADDR before starting, `ADDR=VAL` (can be repeated)",
	}
	basicFlag = cli.BoolFlag{
		Name:  "basic",
		Usage: "use the basic instruction set (no relative mode)",
	}
	memLimitFlag = cli.IntFlag{
		Name:  "memlimit",
		Usage: "maximum memory size in `cells` (0 means no limit)",
	}
	traceFlag = cli.BoolFlag{
		Name:  "trace",
		Usage: "log executed instructions (requires -loglevel debug)",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the program counter, relative base and memory upon exit",
	}
	statsFlag = cli.BoolFlag{
		Name:  "stats",
		Usage: "print execution statistics to stderr",
	}

	phasesFlag = cli.StringFlag{
		Name:  "phases",
		Usage: "comma separated phase `settings`",
		Value: "0,1,2,3,4",
	}
	feedbackFlag = cli.BoolFlag{
		Name:  "feedback",
		Usage: "feed the output of the last stage back to the first one",
	}
	signalFlag = cli.Int64Flag{
		Name:  "signal",
		Usage: "input signal of the first stage",
	}
	fixedFlag = cli.BoolFlag{
		Name:  "fixed",
		Usage: "only run the phases in the given order",
	}

	outputFlag = cli.StringFlag{
		Name:  "o",
		Usage: "write the image to `file`",
	}

	vmFlags = []cli.Flag{basicFlag, memLimitFlag, traceFlag, statsFlag}
)

func init() {
	app.Name = "intcode"
	app.Usage = "Intcode VM and tools"
	app.HideVersion = true
	app.Copyright = "Copyright 2019 Denis Bernard"
	app.Flags = []cli.Flag{configFlag, logLevelFlag, debugFlag}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "run a program image",
			ArgsUsage: "IMAGE",
			Flags:     append([]cli.Flag{inputFlag, setFlag, dumpFlag}, vmFlags...),
			Action:    runCmd,
		},
		{
			Name:      "amplify",
			Usage:     "run a program in an amplifier pipeline",
			ArgsUsage: "IMAGE",
			Flags:     append([]cli.Flag{phasesFlag, feedbackFlag, signalFlag, fixedFlag}, vmFlags...),
			Action:    amplifyCmd,
		},
		{
			Name:      "asm",
			Usage:     "assemble a source file",
			ArgsUsage: "SOURCE",
			Flags:     []cli.Flag{outputFlag},
			Action:    asmCmd,
		},
		{
			Name:      "disasm",
			Usage:     "disassemble a program image",
			ArgsUsage: "IMAGE",
			Action:    disasmCmd,
		},
		{
			Name:   "config",
			Usage:  "show configuration values",
			Action: dumpConfig,
		},
	}

	app.Before = func(ctx *cli.Context) error {
		var err error
		if config, err = makeConfig(ctx); err != nil {
			return err
		}
		if err = log.SetLevel(config.Log.Level); err != nil {
			return err
		}
		logger = log.New()
		return nil
	}

	app.After = func(ctx *cli.Context) error {
		logger.Sync()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fail reports err. With --debug, it also prints the error's stack trace and
// the state of the VM.
func fail(ctx *cli.Context, i *vm.Instance, err error) error {
	if err == nil || !ctx.GlobalBool(debugFlag.Name) {
		return err
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	if i != nil {
		state := struct {
			PC, Base     vm.Cell
			Instructions int64
			MemSize      int
			Instruction  vm.Instruction
		}{i.PC, i.Base, i.InstructionCount(), i.Mem.Len(), nil}
		if !i.Halted() {
			state.Instruction, _ = vm.Decode(vm.NewMemory(i.Mem.Cells()), i.PC, i.Base, i.InstructionSet())
		}
		spew.Fdump(os.Stderr, state)
	}
	return err
}

func loadImage(ctx *cli.Context) (vm.Image, error) {
	name := ctx.Args().First()
	if name == "" {
		return nil, errors.Errorf("%s: missing file name", ctx.Command.Name)
	}
	if name == "-" {
		return vm.Parse(stdin)
	}
	return vm.Load(name)
}

// vmOptions converts cfg to VM options.
func vmOptions(cfg *vmConfig) []vm.Option {
	var opts []vm.Option
	if cfg.Basic {
		opts = append(opts, vm.Instructions(vm.Basic))
	}
	if cfg.MemoryLimit > 0 {
		opts = append(opts, vm.MemoryLimit(cfg.MemoryLimit))
	}
	if cfg.Trace {
		opts = append(opts, vm.Trace(logger))
	}
	return opts
}

// parsePatch parses a memory patch of the form ADDR=VAL.
func parsePatch(s string) (addr int, v vm.Cell, err error) {
	i := strings.IndexByte(s, '=')
	if i < 0 {
		return 0, 0, errors.Errorf("invalid patch %q: expected ADDR=VAL", s)
	}
	addr, err = strconv.Atoi(strings.TrimSpace(s[:i]))
	if err != nil || addr < 0 {
		return 0, 0, errors.Errorf("invalid patch address in %q", s)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s[i+1:]), 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid patch value in %q", s)
	}
	return addr, vm.Cell(n), nil
}

// patchImage returns a copy of img with the given patches applied. The image
// is extended as needed.
func patchImage(img vm.Image, patches []string) (vm.Image, error) {
	img = img.Clone()
	for _, p := range patches {
		addr, v, err := parsePatch(p)
		if err != nil {
			return nil, err
		}
		for addr >= len(img) {
			img = append(img, 0)
		}
		img[addr] = v
	}
	return img, nil
}

func runCmd(ctx *cli.Context) (err error) {
	img, err := loadImage(ctx)
	if err != nil {
		return err
	}
	if img, err = patchImage(img, ctx.StringSlice(setFlag.Name)); err != nil {
		return err
	}
	cfg := config.VM
	applyVMFlags(ctx, &cfg)

	out := bufio.NewWriter(stdout)
	defer func() {
		if e := out.Flush(); err == nil && e != nil {
			err = errors.Wrap(e, "write failed")
		}
	}()

	in, closeInput := inputReader(out.Flush)
	defer closeInput()
	opts := append(vmOptions(&cfg), vm.Output(vm.NewTextWriter(out)), vm.Input(in))
	if s := ctx.String(inputFlag.Name); s != "" {
		vals, err := parseCells(s)
		if err != nil {
			return err
		}
		opts = append(opts, vm.Input(vm.Values(vals...)))
	}

	i, err := vm.New(img, opts...)
	if err != nil {
		return err
	}
	logger.Debug("starting VM", zap.Int("cells", len(img)), zap.Stringer("instructions", i.InstructionSet()))

	var st *stats
	if ctx.Bool(statsFlag.Name) {
		st = newStats()
	}
	start := time.Now()
	err = i.Run()
	if st != nil {
		st.record(i, start)
		st.write(os.Stderr)
	}
	logger.Debug("VM stopped", zap.Int64("pc", int64(i.PC)), zap.Int64("instructions", i.InstructionCount()), zap.Error(err))
	if err == nil && ctx.Bool(dumpFlag.Name) {
		if err = i.Dump(out); err == nil {
			_, err = out.WriteString("\n")
		}
	}
	return fail(ctx, i, err)
}

func formatCells(v []vm.Cell) string {
	return vm.Image(v).String()
}

func amplifyCmd(ctx *cli.Context) error {
	img, err := loadImage(ctx)
	if err != nil {
		return err
	}
	cfg := config.Amplify
	vmCfg := config.VM
	applyVMFlags(ctx, &vmCfg)

	phases := make([]vm.Cell, len(cfg.Phases))
	for n, p := range cfg.Phases {
		phases[n] = vm.Cell(p)
	}
	if ctx.IsSet(phasesFlag.Name) {
		if phases, err = parseCells(ctx.String(phasesFlag.Name)); err != nil {
			return err
		}
	}
	if ctx.IsSet(feedbackFlag.Name) {
		cfg.Feedback = ctx.Bool(feedbackFlag.Name)
	}
	if ctx.IsSet(signalFlag.Name) {
		cfg.Signal = ctx.Int64(signalFlag.Name)
	}

	opts := []pipeline.Option{
		pipeline.Feedback(cfg.Feedback),
		pipeline.Logger(logger),
		pipeline.VMOptions(vmOptions(&vmCfg)...),
	}
	var st *stats
	if ctx.Bool(statsFlag.Name) {
		st = newStats()
		opts = append(opts, pipeline.Metrics(st.registry))
	}

	logger.Debug("starting pipeline", zap.String("phases", formatCells(phases)), zap.Bool("feedback", cfg.Feedback))
	start := time.Now()
	if ctx.Bool(fixedFlag.Name) {
		v, err := pipeline.Chain(img, phases, vm.Cell(cfg.Signal), opts...)
		if st != nil {
			st.record(nil, start)
			st.write(os.Stderr)
		}
		if err != nil {
			return fail(ctx, nil, err)
		}
		_, err = fmt.Fprintln(stdout, v)
		return err
	}

	best, order, err := pipeline.Max(img, phases, vm.Cell(cfg.Signal), opts...)
	if st != nil {
		st.record(nil, start)
		st.write(os.Stderr)
	}
	if err != nil {
		return fail(ctx, nil, err)
	}
	_, err = fmt.Fprintf(stdout, "%d\t%s\n", best, formatCells(order))
	return err
}

func asmCmd(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return errors.New("asm: missing file name")
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := asm.Assemble(name, bufio.NewReader(f))
	if err != nil {
		return err
	}
	logger.Debug("assembled", zap.String("source", name), zap.Int("cells", len(img)))
	if out := ctx.String(outputFlag.Name); out != "" {
		return vm.Save(out, img)
	}
	if _, err = img.WriteTo(stdout); err != nil {
		return err
	}
	_, err = io.WriteString(stdout, "\n")
	return err
}

func disasmCmd(ctx *cli.Context) error {
	img, err := loadImage(ctx)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(stdout)
	if err = asm.DisassembleAll(img, 0, w); err != nil {
		return err
	}
	return w.Flush()
}
