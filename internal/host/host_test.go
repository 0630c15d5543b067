package host

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unsafe"

	"github.com/abemedia/webshell/internal/eventloop"
	"github.com/abemedia/webshell/webview"
)

type fakeView struct {
	title      string
	width      int
	height     int
	html       string
	url        string
	inits      []string
	evals      []string
	bound      map[string]any
	ran        int
	terminated bool
	destroyed  bool
	bindErr    error
}

func newFakeView() *fakeView {
	return &fakeView{bound: make(map[string]any)}
}

func (f *fakeView) Run()                   { f.ran++ }
func (f *fakeView) Terminate()             { f.terminated = true }
func (f *fakeView) Dispatch(fn func())     { fn() }
func (f *fakeView) Destroy()               { f.destroyed = true }
func (f *fakeView) Window() unsafe.Pointer { return nil }
func (f *fakeView) SetTitle(title string)  { f.title = title }
func (f *fakeView) SetSize(w, h int, _ webview.Hint) {
	f.width, f.height = w, h
}
func (f *fakeView) Navigate(url string)  { f.url = url }
func (f *fakeView) SetHtml(html string)  { f.html = html }
func (f *fakeView) Init(js string)       { f.inits = append(f.inits, js) }
func (f *fakeView) Eval(js string)       { f.evals = append(f.evals, js) }
func (f *fakeView) Unbind(string) error  { return nil }
func (f *fakeView) Bind(name string, fn any) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound[name] = fn
	return nil
}

type factoryRecorder struct {
	view  *fakeView
	debug []bool
	err   error
}

func (r *factoryRecorder) factory(debug bool) (webview.WebView, error) {
	r.debug = append(r.debug, debug)
	if r.err != nil {
		return nil, r.err
	}
	return r.view, nil
}

func TestStaticMode(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	h, err := New(rec.factory, Options{Title: "Rustui", Width: 800, Height: 600, HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := rec.view
	if len(rec.debug) != 1 || rec.debug[0] {
		t.Fatalf("factory debug calls = %v, want [false]", rec.debug)
	}
	if v.title != "Rustui" || v.width != 800 || v.height != 600 {
		t.Fatalf("window not configured: %+v", v)
	}
	if v.html != "<p>hi</p>" || v.url != "" {
		t.Fatalf("html=%q url=%q", v.html, v.url)
	}
	if len(v.bound) != 0 || len(v.inits) != 0 {
		t.Fatalf("unexpected IPC setup: %v %v", v.bound, v.inits)
	}
	h.Destroy()
	if !v.destroyed {
		t.Fatal("Destroy not forwarded")
	}
}

func TestStaticModeDebugEnablesDevtools(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	if _, err := New(rec.factory, Options{Title: "Rustui", Debug: true}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if !rec.debug[0] {
		t.Fatal("expected devtools in debug mode")
	}
}

func TestLiveModeAlwaysEnablesDevtools(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	_, err := New(rec.factory, Options{Title: "Denoui", Mode: ModeLive, URL: "http://127.0.0.1:8000/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !rec.debug[0] {
		t.Fatal("expected devtools in live mode")
	}
	if rec.view.url != "http://127.0.0.1:8000/" || rec.view.html != "" {
		t.Fatalf("url=%q html=%q", rec.view.url, rec.view.html)
	}
}

func TestModeURLMismatch(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	if _, err := New(rec.factory, Options{Mode: ModeLive}); err == nil {
		t.Fatal("expected error for live mode without URL")
	}
	if _, err := New(rec.factory, Options{URL: "http://x"}); err == nil {
		t.Fatal("expected error for static mode with URL")
	}
	if len(rec.debug) != 0 {
		t.Fatal("webview constructed despite invalid options")
	}
}

func TestIPCPrintsMessages(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	out := &bytes.Buffer{}
	if _, err := New(rec.factory, Options{Title: "Rustui", IPC: true, IPCOut: out}); err != nil {
		t.Fatalf("New: %v", err)
	}
	fn, ok := rec.view.bound[ipcBinding].(func(string))
	if !ok {
		t.Fatalf("ipc binding missing or wrong type: %T", rec.view.bound[ipcBinding])
	}
	fn("hello from js")
	fn(`{"n":1}`)
	if got := out.String(); got != "IPC message: hello from js\nIPC message: {\"n\":1}\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if len(rec.view.inits) != 1 || !strings.Contains(rec.view.inits[0], "window.ipc") {
		t.Fatalf("ipc script not installed: %v", rec.view.inits)
	}
}

func TestExtraBindings(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	greet := func(name string) string { return "Hello " + name + "!" }
	if _, err := New(rec.factory, Options{Bindings: map[string]any{"getGreeting": greet}}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := rec.view.bound["getGreeting"]; !ok {
		t.Fatal("getGreeting not bound")
	}
}

func TestBindFailureDestroysView(t *testing.T) {
	boom := errors.New("boom")
	view := newFakeView()
	view.bindErr = boom
	rec := &factoryRecorder{view: view}
	_, err := New(rec.factory, Options{IPC: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected bind error, got %v", err)
	}
	if !view.destroyed {
		t.Fatal("view not destroyed after failed configuration")
	}
}

func TestFactoryFailure(t *testing.T) {
	rec := &factoryRecorder{err: webview.ErrLibraryNotFound}
	if _, err := New(rec.factory, Options{}); !errors.Is(err, webview.ErrLibraryNotFound) {
		t.Fatalf("expected library error, got %v", err)
	}
}

func TestNilViewFromFactory(t *testing.T) {
	factory := func(bool) (webview.WebView, error) { return nil, nil }
	if _, err := New(factory, Options{}); !errors.Is(err, webview.ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed, got %v", err)
	}
}

func TestHostAsEventSource(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	h, err := New(rec.factory, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eventloop.New().Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.view.ran != 1 {
		t.Fatalf("native Run called %d times", rec.view.ran)
	}
	if _, err := h.Next(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestCloseAndReload(t *testing.T) {
	rec := &factoryRecorder{view: newFakeView()}
	h, err := New(rec.factory, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.Reload()
	if len(rec.view.evals) != 1 || rec.view.evals[0] != "location.reload();" {
		t.Fatalf("evals = %v", rec.view.evals)
	}
	h.Close()
	if !rec.view.terminated {
		t.Fatal("Close did not terminate")
	}
}
