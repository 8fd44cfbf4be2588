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

import (
	"io"
	"strconv"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"
)

// Errors returned by Run.
var (
	// ErrNoOutput is returned when the last stage halted without ever
	// producing a value.
	ErrNoOutput = errors.New("no output")
	// ErrStalled is returned when a stage waits for input without producing
	// any output. Since inputs only come from the previous stage, the pipeline
	// cannot make progress.
	ErrStalled = errors.New("stage stalled")
	// ErrSharedInput is returned by New when VM options set an input Reader,
	// which would be shared by all stages.
	ErrSharedInput = errors.New("input readers cannot be shared between stages")
)

// Stage is a VM instance along with its input queue.
type Stage struct {
	vm    *vm.Instance
	input *vm.Queue
	phase vm.Cell
}

// VM returns the stage's VM instance.
func (s *Stage) VM() *vm.Instance { return s.vm }

// Phase returns the phase setting the stage was primed with.
func (s *Stage) Phase() vm.Cell { return s.phase }

// drive feeds v to the stage and runs it until it outputs a value or halts.
// ok is false if the stage halted without output.
func (s *Stage) drive(v vm.Cell) (out vm.Cell, ok bool, err error) {
	s.input.Push(v)
	out, err = s.vm.NextOutput()
	switch {
	case err == nil:
		return out, true, nil
	case err == io.EOF:
		return 0, false, nil
	case vm.IsStarved(err):
		return 0, false, ErrStalled
	}
	return 0, false, err
}

// Pipeline is a fixed chain of stages running the same program.
type Pipeline struct {
	stages   []*Stage
	feedback bool
	vmOpts   []vm.Option
	log      *zap.Logger

	handoffs     metrics.Counter
	cycles       metrics.Counter
	instructions metrics.Counter
}

// Option interface
type Option func(*Pipeline) error

// Feedback enables or disables the feedback loop. When enabled, the output of
// the last stage is fed back to the first stage until the last stage halts.
func Feedback(enable bool) Option {
	return func(p *Pipeline) error {
		p.feedback = enable
		return nil
	}
}

// Logger sets the logger used to log hand-offs and cycles at debug level.
func Logger(l *zap.Logger) Option {
	return func(p *Pipeline) error {
		if l == nil {
			return errors.New("nil logger")
		}
		p.log = l
		return nil
	}
}

// Metrics registers the pipeline counters pipeline/handoffs, pipeline/cycles
// and pipeline/instructions in the given registry.
func Metrics(r metrics.Registry) Option {
	return func(p *Pipeline) error {
		p.handoffs = metrics.GetOrRegisterCounter("pipeline/handoffs", r)
		p.cycles = metrics.GetOrRegisterCounter("pipeline/cycles", r)
		p.instructions = metrics.GetOrRegisterCounter("pipeline/instructions", r)
		return nil
	}
}

// VMOptions sets options passed to every stage's VM instance. Stages only
// read from their own input queue, so New fails if one of these options sets
// an input Reader. An Output writer is shared by all stages and sees every
// value they output.
func VMOptions(opts ...vm.Option) Option {
	return func(p *Pipeline) error {
		p.vmOpts = append(p.vmOpts, opts...)
		return nil
	}
}

// New creates a new pipeline with one stage per phase setting. Each stage
// gets its own copy of img and is primed with its phase setting as first
// input.
func New(img vm.Image, phases []vm.Cell, opts ...Option) (*Pipeline, error) {
	if len(phases) == 0 {
		return nil, errors.New("no stages")
	}
	p := &Pipeline{
		log:          zap.NewNop(),
		handoffs:     metrics.NilCounter{},
		cycles:       metrics.NilCounter{},
		instructions: metrics.NilCounter{},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.stages = make([]*Stage, len(phases))
	for n, phase := range phases {
		q := vm.Values(phase)
		i, err := vm.New(img, append([]vm.Option{vm.Input(q)}, p.vmOpts...)...)
		if err != nil {
			return nil, errors.Wrapf(err, "stage %d", n)
		}
		if i.InputReader() != vm.Reader(q) {
			return nil, errors.Wrapf(ErrSharedInput, "stage %d", n)
		}
		p.stages[n] = &Stage{vm: i, input: q, phase: phase}
	}
	return p, nil
}

// Stages returns the pipeline stages.
func (p *Pipeline) Stages() []*Stage {
	return p.stages
}

func (p *Pipeline) instructionCount() int64 {
	var n int64
	for _, s := range p.stages {
		n += s.vm.InstructionCount()
	}
	return n
}

// Run sends signal to the first stage and runs the pipeline. It returns the
// last value output by the last stage.
//
// Without feedback, each stage runs until its first output. With feedback,
// the pipeline cycles until a stage halts without output.
//
// Stages are not reset, so a pipeline should only be run once.
func (p *Pipeline) Run(signal vm.Cell) (vm.Cell, error) {
	var (
		last, v vm.Cell
		got     bool
		err     error
		start   = p.instructionCount()
	)
	defer func() { p.instructions.Inc(p.instructionCount() - start) }()

	ok := true
	v = signal
	for cycle := 1; ok; cycle++ {
		for n, s := range p.stages {
			v, ok, err = s.drive(v)
			if err != nil {
				return last, errors.Wrapf(err, "stage %d (phase %d)", n, s.phase)
			}
			if !ok {
				p.log.Debug("stage halted", zap.Int("cycle", cycle), zap.Int("stage", n))
				break
			}
			if n < len(p.stages)-1 || p.feedback {
				p.handoffs.Inc(1)
				p.log.Debug("handoff", zap.Int("cycle", cycle), zap.Int("stage", n), zap.Int64("value", int64(v)))
			}
		}
		p.cycles.Inc(1)
		if ok {
			last, got = v, true
			p.log.Debug("cycle complete", zap.Int("cycle", cycle), zap.Int64("output", int64(v)))
		}
		if !p.feedback {
			break
		}
	}
	if !got {
		return 0, ErrNoOutput
	}
	return last, nil
}

// Chain runs img in a serial pipeline with the given phase settings and
// returns the output of the last stage.
func Chain(img vm.Image, phases []vm.Cell, signal vm.Cell, opts ...Option) (vm.Cell, error) {
	p, err := New(img, phases, opts...)
	if err != nil {
		return 0, err
	}
	return p.Run(signal)
}

// Loop runs img in a feedback pipeline with the given phase settings and
// returns the last output of the last stage.
func Loop(img vm.Image, phases []vm.Cell, signal vm.Cell, opts ...Option) (vm.Cell, error) {
	return Chain(img, phases, signal, append(opts, Feedback(true))...)
}

// Max runs a pipeline for every permutation of the given phase settings and
// returns the highest output along with the phase order that produced it.
func Max(img vm.Image, phases []vm.Cell, signal vm.Cell, opts ...Option) (best vm.Cell, order []vm.Cell, err error) {
	err = Permute(phases, func(perm []vm.Cell) error {
		v, err := Chain(img, perm, signal, opts...)
		if err != nil {
			return errors.Wrapf(err, "phases %s", formatPhases(perm))
		}
		if order == nil || v > best {
			best = v
			order = append(order[:0], perm...)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return best, order, nil
}

func formatPhases(phases []vm.Cell) string {
	b := make([]byte, 0, 2*len(phases))
	for n, p := range phases {
		if n > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(p), 10)
	}
	return string(b)
}
