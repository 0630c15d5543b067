// Package host owns the single window and the webview attached to it.
package host

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/abemedia/webshell/internal/eventloop"
	"github.com/abemedia/webshell/internal/logging"
	"github.com/abemedia/webshell/webview"
)

// Mode selects what the webview is initialized with.
type Mode int

const (
	// ModeStatic shows the composed local markup.
	ModeStatic Mode = iota
	// ModeLive navigates to the development server with devtools on.
	ModeLive
)

func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "static"
}

// ipcBinding is the native function behind window.ipc.postMessage.
const ipcBinding = "__webshellPostMessage"

const ipcScript = `window.ipc = Object.freeze({
  postMessage: (message) => { window.` + ipcBinding + `(String(message)); },
});`

var ErrClosed = errors.New("host: window already closed")

// Factory creates the native webview.
type Factory func(debug bool) (webview.WebView, error)

// Options configures the window and its content.
type Options struct {
	Title  string
	Width  int
	Height int
	Debug  bool
	Mode   Mode
	// HTML is used in ModeStatic, URL in ModeLive.
	HTML string
	URL  string
	// IPC enables window.ipc.postMessage; messages are printed to IPCOut.
	IPC    bool
	IPCOut io.Writer
	// Bindings are extra Go functions exposed to the page by name.
	Bindings map[string]any
	Logger   logging.Logger
}

// Host wraps the webview and acts as the event source of the loop.
type Host struct {
	view   webview.WebView
	logger logging.Logger

	mu  sync.Mutex
	ran bool
}

// New creates the webview and configures it from opts.
func New(factory Factory, opts Options) (*Host, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.Mode == ModeStatic && opts.URL != "" {
		return nil, errors.New("host: static mode does not take a URL")
	}
	if opts.Mode == ModeLive && opts.URL == "" {
		return nil, errors.New("host: live mode requires a URL")
	}

	devtools := opts.Debug || opts.Mode == ModeLive
	view, err := factory(devtools)
	if err != nil {
		return nil, fmt.Errorf("host: create webview: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("host: create webview: %w", webview.ErrCreateFailed)
	}

	h := &Host{view: view, logger: logger}
	if err := h.configure(opts); err != nil {
		view.Destroy()
		return nil, err
	}
	logger.Debug("webview ready", "mode", opts.Mode.String(), "devtools", devtools, "title", opts.Title)
	return h, nil
}

func (h *Host) configure(opts Options) error {
	h.view.SetTitle(opts.Title)
	if opts.Width > 0 && opts.Height > 0 {
		h.view.SetSize(opts.Width, opts.Height, webview.HintNone)
	}

	if opts.IPC {
		out := opts.IPCOut
		if out == nil {
			out = io.Discard
		}
		if err := h.view.Bind(ipcBinding, func(body string) {
			fmt.Fprintf(out, "IPC message: %s\n", body)
		}); err != nil {
			return fmt.Errorf("host: bind ipc: %w", err)
		}
		h.view.Init(ipcScript)
	}
	for name, fn := range opts.Bindings {
		if err := h.view.Bind(name, fn); err != nil {
			return fmt.Errorf("host: bind %s: %w", name, err)
		}
	}

	switch opts.Mode {
	case ModeLive:
		h.view.Navigate(opts.URL)
	default:
		h.view.SetHtml(opts.HTML)
	}
	return nil
}

// Next blocks in the native loop and reports the close request once the
// window is gone. It implements eventloop.Source.
func (h *Host) Next() (eventloop.Event, error) {
	h.mu.Lock()
	if h.ran {
		h.mu.Unlock()
		return eventloop.EventUnknown, ErrClosed
	}
	h.ran = true
	h.mu.Unlock()

	h.view.Run()
	return eventloop.EventCloseRequested, nil
}

// Close asks the UI thread to leave the native loop. Safe from any goroutine.
func (h *Host) Close() {
	h.view.Dispatch(h.view.Terminate)
}

// Reload re-evaluates the current page. Safe from any goroutine.
func (h *Host) Reload() {
	h.view.Dispatch(func() {
		h.view.Eval("location.reload();")
	})
}

// Destroy releases the native window.
func (h *Host) Destroy() {
	h.view.Destroy()
}
