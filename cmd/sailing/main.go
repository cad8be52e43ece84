// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sailing renders the sailing scene: headless with the
// software device, saving the last frame as an image, or in a
// window with OpenGL.
package main

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"cogentcore.org/render/app"
	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/base/iox/imagex"
	"cogentcore.org/render/base/logx"
	"cogentcore.org/render/config"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/gpu/softgpu"
	"cogentcore.org/render/input"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// options are the command line flags.
type options struct {
	config    string
	backend   string
	frames    int
	out       string
	width     int
	height    int
	autoOrder bool
	watch     bool
	vv, v, q  bool
}

func main() {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "sailing",
		Short:         "Render the sailing scene",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, cmd.Flags().Changed("vv") || cmd.Flags().Changed("verbose") || cmd.Flags().Changed("quiet"))
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&o.config, "config", "c", "", "TOML or YAML config file, on top of the default scene")
	fl.StringVar(&o.backend, "backend", "soft", "device backend: soft (headless) or gl (window)")
	fl.IntVar(&o.frames, "frames", 60, "number of frames to render with the soft backend")
	fl.StringVarP(&o.out, "out", "o", "sailing.png", "image file for the last frame of the soft backend")
	fl.IntVar(&o.width, "width", 0, "display width, overriding the config")
	fl.IntVar(&o.height, "height", 0, "display height, overriding the config")
	fl.BoolVar(&o.autoOrder, "auto-order", false, "order the passes by their inputs")
	fl.BoolVarP(&o.watch, "watch", "w", false, "rebuild the scene when the config file changes")
	fl.BoolVar(&o.vv, "vv", false, "show debug messages")
	fl.BoolVarP(&o.v, "verbose", "v", false, "show info messages")
	fl.BoolVarP(&o.q, "quiet", "q", false, "only show errors")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sailing:", err)
		os.Exit(1)
	}
}

// loadConfig returns the default scene with the config file and
// the command line overrides applied.
func loadConfig(o *options) (*config.Config, error) {
	cf := &config.Config{}
	cf.Defaults()
	if o.config != "" {
		if err := config.Open(cf, o.config); err != nil {
			return nil, err
		}
	}
	over := &config.Config{Width: o.width, Height: o.height, AutoOrder: o.autoOrder}
	if err := config.Merge(cf, over); err != nil {
		return nil, err
	}
	return cf, nil
}

// assets returns the filesystem that the asset paths of the config
// are relative to: its Assets directory, relative to the config file.
func assets(o *options, cf *config.Config) fs.FS {
	dir := cf.Assets
	if !filepath.IsAbs(dir) && o.config != "" {
		dir = filepath.Join(filepath.Dir(o.config), dir)
	}
	if dir == "" {
		dir = "."
	}
	return os.DirFS(dir)
}

func run(ctx context.Context, o *options, levelFlags bool) error {
	cf, err := loadConfig(o)
	if err != nil {
		return err
	}
	logx.UserLevel = cf.LogLevel
	if levelFlags {
		logx.UserLevel = logx.LevelFromFlags(o.vv, o.v, o.q)
	}
	logx.SetDefaultLogger()

	switch o.backend {
	case "soft":
		dev := softgpu.New(cf.Size())
		defer dev.Release()
		disp := &app.Headless{Screen: cf.Size(), Frames: o.frames, Step: 1000.0 / 60}
		if !o.q {
			bar := progressbar.Default(int64(o.frames), "rendering")
			defer bar.Finish()
			disp.OnFrame = func(int) { bar.Add(1) }
		}
		if err := runApp(ctx, o, cf, dev, softgpu.Library(), disp, input.NewState()); err != nil {
			return err
		}
		return imagex.Save(dev.ScreenImage(), o.out)
	case "gl":
		return runGL(ctx, o, cf)
	}
	return fmt.Errorf("unknown backend %q", o.backend)
}

// runApp sets up the app and runs it on the display, setting it up
// again from the config file each time it changes if watching.
func runApp(ctx context.Context, o *options, cf *config.Config, dev gpu.Device, lib gpu.ShaderLibrary, d app.Display, in *input.State) error {
	a, err := app.Setup(ctx, dev, lib, cf, assets(o, cf))
	if err != nil {
		fmt.Fprintln(os.Stderr, app.Diagnostic(err))
		return err
	}
	a.Input = in
	defer func() { a.Release() }()
	if !o.watch || o.config == "" {
		return a.Run(ctx, d)
	}

	w, err := newWatcher(o.config)
	if err != nil {
		return err
	}
	defer w.Close()
	for {
		rctx, cancel := context.WithCancel(ctx)
		go func() {
			select {
			case <-w.changed:
				cancel()
			case <-rctx.Done():
			}
		}()
		err := a.Run(rctx, d)
		reload := rctx.Err() != nil && ctx.Err() == nil
		cancel()
		if !reload {
			return err
		}
		next, err := reloadApp(ctx, o, dev, lib, d.Size())
		if err != nil {
			slog.Error("sailing: keeping the current scene", "err", err)
			continue
		}
		a.Release()
		a = next
		a.Input = in
	}
}

// reloadApp sets up a new app from the config file.
func reloadApp(ctx context.Context, o *options, dev gpu.Device, lib gpu.ShaderLibrary, size image.Point) (*app.App, error) {
	cf, err := loadConfig(o)
	if err != nil {
		return nil, err
	}
	a, err := app.Setup(ctx, dev, lib, cf, assets(o, cf))
	if err != nil {
		return nil, errors.Join(errors.New(app.Diagnostic(err)), err)
	}
	a.Resize(size)
	slog.Info("sailing: reloaded", "config", o.config)
	return a, nil
}
