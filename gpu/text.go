// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"strings"
)

// enumText is the set of enum types that are read from and
// written to config files by name.
type enumText interface {
	~int32
	String() string
}

// parseEnum returns the value in [0, n) whose String is s.
func parseEnum[T enumText](s string, n int) (T, error) {
	for i := range n {
		v := T(i)
		if strings.EqualFold(v.String(), s) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("gpu: invalid %T value %q", zero, s)
}

// MarshalText implements [encoding.TextMarshaler].
func (tp Types) MarshalText() ([]byte, error) { return []byte(tp.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (tp *Types) UnmarshalText(text []byte) error {
	v, err := parseEnum[Types](string(text), len(typeNames))
	if err != nil {
		return err
	}
	*tp = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
// No attachments marshal as the empty string.
func (at Attachments) MarshalText() ([]byte, error) {
	if at == 0 {
		return nil, nil
	}
	return []byte(at.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (at *Attachments) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*at = 0
		return nil
	}
	v, err := parseEnum[Attachments](string(text), int(ColorAttachment|DepthAttachment)+1)
	if err != nil {
		return err
	}
	*at = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (cp ClearPolicy) MarshalText() ([]byte, error) { return []byte(cp.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (cp *ClearPolicy) UnmarshalText(text []byte) error {
	v, err := parseEnum[ClearPolicy](string(text), int(ClearDepth)+1)
	if err != nil {
		return err
	}
	*cp = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (nt Neutral) MarshalText() ([]byte, error) { return []byte(nt.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (nt *Neutral) UnmarshalText(text []byte) error {
	v, err := parseEnum[Neutral](string(text), int(NeutralFlatNormal)+1)
	if err != nil {
		return err
	}
	*nt = v
	return nil
}
