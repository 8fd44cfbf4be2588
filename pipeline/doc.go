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

// Package pipeline chains Intcode VM instances so that the output of one
// instance feeds the input of the next one, either serially or in a feedback
// loop.
//
// All instances run in the calling goroutine. They take turns: a stage runs
// until it outputs a value, which is handed off to the next stage, or until
// it halts. A stage that halts without output ends the cycle.
package pipeline
