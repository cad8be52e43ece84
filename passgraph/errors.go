// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passgraph

import (
	"fmt"

	"cogentcore.org/render/base/errors"
)

var (
	// ErrPassOrder is returned when a pass reads from a pass that
	// does not execute before it.
	ErrPassOrder = errors.New("passgraph: input from a pass that has not executed")

	// ErrCycle is returned by AutoOrder when the inputs form a cycle.
	ErrCycle = errors.New("passgraph: pass inputs form a cycle")

	// ErrScreenNotLast is returned when an off-screen pass is
	// ordered after a pass rendering to the screen.
	ErrScreenNotLast = errors.New("passgraph: screen pass must execute after all off-screen passes")

	// ErrUnknown is returned for references to passes, drawables or
	// globals that do not exist.
	ErrUnknown = errors.New("passgraph: unknown name")
)

// Setup stages reported by [SetupError].
const (
	StageConfig   = "config"
	StageOrder    = "order"
	StageFeature  = "feature"
	StageTarget   = "target"
	StageProgram  = "program"
	StageUniform  = "uniform"
	StageInput    = "input"
	StageDrawable = "drawable"
)

// SetupError is a failure building the graph, naming the pass
// and the setup stage at which it failed.
type SetupError struct {
	Pass  string
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	if e.Pass == "" {
		return fmt.Sprintf("passgraph: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("passgraph: pass %q: %s: %v", e.Pass, e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

func setupErr(pass, stage string, err error) error {
	return &SetupError{Pass: pass, Stage: stage, Err: err}
}
