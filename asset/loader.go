// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asset loads textures and models from a file system,
// asynchronously, so that setup can await them all before the first frame.
package asset

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	"cogentcore.org/render/base/iox/imagex"
	"cogentcore.org/render/gpu"
	"golang.org/x/sync/errgroup"
)

// LoadError is a failure to load the asset at Path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader loads assets from FS. Paths are slash-separated, as for [fs.FS].
type Loader struct {
	FS fs.FS
}

// LoadImage decodes a png, jpeg or webp image.
func (l *Loader) LoadImage(ctx context.Context, name string) *Future[image.Image] {
	return Go(ctx, func(ctx context.Context) (image.Image, error) {
		if err := ctx.Err(); err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		img, _, err := imagex.OpenFS(l.FS, name)
		if err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		return img, nil
	})
}

// LoadModel decodes a Wavefront OBJ model, with the diffuse colors of its
// MTL material library if it names one. A missing material library is
// logged and default materials are used.
func (l *Loader) LoadModel(ctx context.Context, name string) *Future[*gpu.MeshData] {
	return Go(ctx, func(ctx context.Context) (*gpu.MeshData, error) {
		if err := ctx.Err(); err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		md, err := l.loadModel(name)
		if err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		return md, nil
	})
}

func (l *Loader) loadModel(name string) (*gpu.MeshData, error) {
	f, err := l.FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := newDecoder()
	if err := dec.parse(f, dec.parseObjLine); err != nil {
		return nil, err
	}
	if dec.matlib != "" {
		mtl := path.Join(path.Dir(name), dec.matlib)
		if mf, err := l.FS.Open(mtl); err != nil {
			slog.Warn("asset: material library not found, using default materials", "model", name, "mtllib", mtl)
		} else {
			err = dec.parse(mf, dec.parseMtlLine)
			mf.Close()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", mtl, err)
			}
		}
	}
	for _, w := range dec.warnings {
		slog.Debug("asset: obj", "model", name, "warning", w)
	}
	return dec.meshData()
}

// Assets are the results of [LoadAll], keyed by path.
type Assets struct {
	Images map[string]image.Image
	Models map[string]*gpu.MeshData
}

// LoadAll loads all the images and models concurrently and waits for
// them. The first failure cancels the rest and is returned as a
// [*LoadError].
func LoadAll(ctx context.Context, l *Loader, images, models []string) (*Assets, error) {
	as := &Assets{Images: map[string]image.Image{}, Models: map[string]*gpu.MeshData{}}
	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	for _, name := range images {
		eg.Go(func() error {
			img, err := l.LoadImage(ctx, name).Wait(ctx)
			if err != nil {
				return asLoadError(name, err)
			}
			mu.Lock()
			as.Images[name] = img
			mu.Unlock()
			return nil
		})
	}
	for _, name := range models {
		eg.Go(func() error {
			md, err := l.LoadModel(ctx, name).Wait(ctx)
			if err != nil {
				return asLoadError(name, err)
			}
			mu.Lock()
			as.Models[name] = md
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return as, nil
}

func asLoadError(name string, err error) error {
	if le, ok := err.(*LoadError); ok {
		return le
	}
	return &LoadError{Path: name, Err: err}
}

// IsModel returns whether the path names a model rather than an image.
func IsModel(name string) bool {
	return strings.EqualFold(path.Ext(name), ".obj")
}
