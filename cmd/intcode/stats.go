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
	"io"
	"time"

	"github.com/db47h/intcode/vm"
	"github.com/rcrowley/go-metrics"
)

// stats collects execution statistics for the --stats flag.
type stats struct {
	registry     metrics.Registry
	instructions metrics.Counter
	run          metrics.Timer
}

func newStats() *stats {
	r := metrics.NewRegistry()
	return &stats{
		registry:     r,
		instructions: metrics.GetOrRegisterCounter("vm/instructions", r),
		run:          metrics.GetOrRegisterTimer("vm/run", r),
	}
}

// record updates the statistics after a run of i that started at start.
func (s *stats) record(i *vm.Instance, start time.Time) {
	s.run.UpdateSince(start)
	if i != nil {
		s.instructions.Inc(i.InstructionCount())
	}
}

func (s *stats) write(w io.Writer) {
	metrics.WriteOnce(s.registry, w)
}
