// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/base/iox/tomlx"
	"cogentcore.org/render/base/iox/yamlx"
	"github.com/jinzhu/copier"
)

// ErrFormat is returned for config files that are neither TOML nor YAML.
var ErrFormat = errors.New("config: unknown file format")

func format(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, filename)
}

// Open reads the config from the given TOML or YAML file, on top of
// the current values of cf: settings not in the file keep their values.
func Open(cf *Config, filename string) error {
	f, err := format(filename)
	if err != nil {
		return err
	}
	if f == "toml" {
		return tomlx.Open(cf, filename)
	}
	return yamlx.Open(cf, filename)
}

// OpenFS is like [Open] but reads from the given filesystem.
func OpenFS(cf *Config, fsys fs.FS, filename string) error {
	f, err := format(filename)
	if err != nil {
		return err
	}
	if f == "toml" {
		return tomlx.OpenFS(cf, fsys, filename)
	}
	return yamlx.OpenFS(cf, fsys, filename)
}

// Save writes the config to the given TOML or YAML file.
func Save(cf *Config, filename string) error {
	f, err := format(filename)
	if err != nil {
		return err
	}
	if f == "toml" {
		return tomlx.Save(cf, filename)
	}
	return yamlx.Save(cf, filename)
}

// Merge sets the fields of dst to the non-zero fields of overrides,
// such as those given on the command line.
func Merge(dst, overrides *Config) error {
	return copier.CopyWithOption(dst, overrides, copier.Option{IgnoreEmpty: true, DeepCopy: true})
}
