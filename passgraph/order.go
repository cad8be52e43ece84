// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passgraph

import (
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/render/base/keylist"
)

// validateInputs checks that every input names an existing
// off-screen pass that has the sampled attachment.
func validateInputs(passes *keylist.List[string, *PassConfig]) error {
	for _, pc := range passes.Values {
		for _, in := range pc.Inputs {
			src, ok := passes.AtTry(in.Pass)
			switch {
			case !ok:
				return setupErr(pc.Name, StageInput, fmt.Errorf("%w: pass %q", ErrUnknown, in.Pass))
			case src.Target.Screen:
				return setupErr(pc.Name, StageInput, fmt.Errorf("pass %q renders to the screen and cannot be sampled", in.Pass))
			case in.Uniform == "":
				return setupErr(pc.Name, StageInput, fmt.Errorf("input from %q has no uniform", in.Pass))
			case in.Attachment != 0 && !src.Target.Attachments.Has(in.Attachment):
				return setupErr(pc.Name, StageInput, fmt.Errorf("pass %q has no %v attachment", in.Pass, in.Attachment))
			}
		}
	}
	return nil
}

// checkOrder verifies that the passes are listed in an executable
// order: every input is produced by an earlier pass and all screen
// passes come after the off-screen ones.
func checkOrder(passes *keylist.List[string, *PassConfig]) error {
	screen := ""
	for i, pc := range passes.Values {
		if pc.Target.Screen {
			screen = pc.Name
		} else if screen != "" {
			return setupErr(pc.Name, StageOrder, fmt.Errorf("%w: after %q", ErrScreenNotLast, screen))
		}
		for _, in := range pc.Inputs {
			if j := passes.IndexByKey(in.Pass); j >= i {
				return setupErr(pc.Name, StageOrder, fmt.Errorf("%w: %q is listed at %d, after this pass at %d", ErrPassOrder, in.Pass, j, i))
			}
		}
	}
	return nil
}

// sortPasses returns the passes in dependency order, keeping the
// declaration order among passes that are ready at the same time.
// Screen passes depend on every off-screen pass.
func sortPasses(passes *keylist.List[string, *PassConfig]) ([]int, error) {
	n := passes.Len()
	deps := make([][]int, n)
	for i, pc := range passes.Values {
		for _, in := range pc.Inputs {
			deps[i] = append(deps[i], passes.IndexByKey(in.Pass))
		}
		if pc.Target.Screen {
			for j, oc := range passes.Values {
				if !oc.Target.Screen {
					deps[i] = append(deps[i], j)
				}
			}
		}
	}
	done := make([]bool, n)
	order := make([]int, 0, n)
	for len(order) < n {
		next := -1
		for i := range n {
			if done[i] {
				continue
			}
			ready := true
			for _, d := range deps[i] {
				if !done[d] {
					ready = false
					break
				}
			}
			if ready {
				next = i
				break
			}
		}
		if next < 0 {
			var left []string
			for i, k := range passes.Keys {
				if !done[i] {
					left = append(left, k)
				}
			}
			slices.Sort(left)
			return nil, setupErr("", StageOrder, fmt.Errorf("%w: %s", ErrCycle, strings.Join(left, ", ")))
		}
		done[next] = true
		order = append(order, next)
	}
	return order, nil
}
