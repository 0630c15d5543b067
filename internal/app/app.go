// Package app wires the content loader, dev server, webview host and event
// loop into one program run.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.design/x/mainthread"

	"github.com/abemedia/webshell/internal/config"
	"github.com/abemedia/webshell/internal/content"
	"github.com/abemedia/webshell/internal/devserver"
	"github.com/abemedia/webshell/internal/eventloop"
	"github.com/abemedia/webshell/internal/host"
	"github.com/abemedia/webshell/internal/livereload"
	"github.com/abemedia/webshell/internal/logging"
	"github.com/abemedia/webshell/internal/selfpath"
	"github.com/abemedia/webshell/webview"
)

// Options are the parsed command line of a program.
type Options struct {
	Variant Variant
	Debug   bool
	Live    bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// Deps are the side-effecting collaborators of Run.
type Deps struct {
	NewView host.Factory
	Spawner devserver.Spawner
	// OnMain runs f on the main OS thread and waits for it.
	OnMain func(f func())
	Getenv func(string) string
}

func (d Deps) withDefaults(opts Options) Deps {
	if d.NewView == nil {
		d.NewView = webview.New
	}
	if d.Spawner == nil {
		d.Spawner = devserver.ExecSpawner{Stdout: opts.Stderr, Stderr: opts.Stderr}
	}
	if d.OnMain == nil {
		d.OnMain = mainthread.Call
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	return d
}

// Run executes one program run. It returns when the window is closed or
// ctx is cancelled. The caller must have started mainthread.Init.
func Run(ctx context.Context, opts Options) error {
	return RunWith(ctx, opts, Deps{})
}

// RunWith is Run with explicit collaborators.
func RunWith(ctx context.Context, opts Options, deps Deps) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	deps = deps.withDefaults(opts)

	dir, err := selfpath.Dir(deps.Getenv)
	if err != nil {
		return err
	}
	cfg, err := config.Load(filepath.Join(dir, config.FileName), deps.Getenv)
	if err != nil {
		return err
	}
	logger := newLogger(opts, cfg)

	hostOpts := host.Options{
		Title:  opts.Variant.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Debug:  opts.Debug,
		IPC:    opts.Variant.IPC,
		IPCOut: opts.Stdout,
		Logger: logger,
	}
	if opts.Variant.Bindings != nil {
		hostOpts.Bindings = opts.Variant.Bindings()
	}

	if opts.Live {
		launcher := &devserver.Launcher{Spawner: deps.Spawner, Port: cfg.DevPort, Logger: logger}
		url, err := launcher.Launch(dir)
		if err != nil {
			return err
		}
		hostOpts.Mode = host.ModeLive
		hostOpts.URL = url
	} else {
		loader := &content.Loader{Dir: dir, Strict: cfg.StrictPlaceholder, Logger: logger}
		html, err := loader.Load()
		if err != nil {
			return err
		}
		hostOpts.HTML = html
	}

	var runErr error
	deps.OnMain(func() {
		runErr = runWindow(ctx, deps.NewView, hostOpts, dir, logger)
	})
	return runErr
}

func newLogger(opts Options, cfg config.Config) logging.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if opts.Debug || opts.Live {
		level = logging.LevelDebug
	}
	logger := logging.New(opts.Stderr, level)
	if err != nil {
		logger.Warn("falling back to info level", "error", err)
	}
	return logger
}

func runWindow(ctx context.Context, factory host.Factory, opts host.Options, dir string, logger logging.Logger) error {
	h, err := host.New(factory, opts)
	if err != nil {
		return err
	}
	defer h.Destroy()

	if opts.Mode == host.ModeLive {
		w, err := livereload.Watch(dir, livereload.DefaultDebounce, logger, func(path string) {
			logger.Info("reloading page", "path", path)
			h.Reload()
		})
		if err != nil {
			logger.Warn("live reload disabled", "error", err)
		} else {
			defer w.Close()
		}
	}

	// Joined before the deferred Destroy so Close never reaches a freed view.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			logger.Info("shutdown requested, closing window")
			h.Close()
		case <-done:
		}
	}()

	err = eventloop.New().Run(h)
	close(done)
	wg.Wait()
	return err
}
