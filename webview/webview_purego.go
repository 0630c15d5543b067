//go:build (darwin || linux || windows) && !webview_cgo

package webview

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// webview holds a handle to the native webview instance.
type webview struct {
	handle uintptr
}

// Native entry points, resolved by load.
var (
	webviewCreate    func(debug int32, window unsafe.Pointer) uintptr
	webviewDestroy   func(w uintptr)
	webviewRun       func(w uintptr)
	webviewTerminate func(w uintptr)
	webviewDispatch  func(w, fn, arg uintptr)
	webviewGetWindow func(w uintptr) unsafe.Pointer
	webviewSetTitle  func(w uintptr, title string)
	webviewSetSize   func(w uintptr, width, height, hint int32)
	webviewNavigate  func(w uintptr, url string)
	webviewSetHtml   func(w uintptr, html string)
	webviewInit      func(w uintptr, js string)
	webviewEval      func(w uintptr, js string)
	webviewBind      func(w uintptr, name string, fn, arg uintptr)
	webviewUnbind    func(w uintptr, name string)
	webviewReturn    func(w uintptr, seq string, status int32, result string)
)

var (
	loadOnce sync.Once
	loadErr  error

	dispatchCallbackPtr uintptr
	bindingCallbackPtr  uintptr
)

// For queued dispatch calls from other goroutines
var (
	dispatchMu      sync.Mutex
	dispatchMap     = make(map[uintptr]func())
	dispatchCounter uintptr
)

// For bound functions
type bindingEntry struct {
	fn binding
	w  uintptr
}

var (
	bindMu         sync.Mutex
	bindingMap     = make(map[uintptr]bindingEntry)
	boundNames     = make(map[uintptr]map[string]uintptr)
	bindingCounter uintptr
)

func load() error {
	loadOnce.Do(func() {
		lib, err := openLibrary()
		if err != nil {
			loadErr = err
			return
		}
		loadErr = registerSymbols(lib)
		if loadErr != nil {
			return
		}
		dispatchCallbackPtr = purego.NewCallback(dispatchCallback)
		bindingCallbackPtr = purego.NewCallback(bindingCallback)
	})
	return loadErr
}

func registerSymbols(lib uintptr) error {
	symbols := []struct {
		fptr any
		name string
	}{
		{&webviewCreate, "webview_create"},
		{&webviewDestroy, "webview_destroy"},
		{&webviewRun, "webview_run"},
		{&webviewTerminate, "webview_terminate"},
		{&webviewDispatch, "webview_dispatch"},
		{&webviewGetWindow, "webview_get_window"},
		{&webviewSetTitle, "webview_set_title"},
		{&webviewSetSize, "webview_set_size"},
		{&webviewNavigate, "webview_navigate"},
		{&webviewSetHtml, "webview_set_html"},
		{&webviewInit, "webview_init"},
		{&webviewEval, "webview_eval"},
		{&webviewBind, "webview_bind"},
		{&webviewUnbind, "webview_unbind"},
		{&webviewReturn, "webview_return"},
	}
	for _, s := range symbols {
		ptr, err := lookupSymbol(lib, s.name)
		if err != nil {
			return fmt.Errorf("webview: load symbol %s: %w", s.name, err)
		}
		if ptr == 0 {
			return fmt.Errorf("webview: symbol %s is null", s.name)
		}
		purego.RegisterFunc(s.fptr, ptr)
	}
	return nil
}

// NewWindow creates a new webview. If window is non-nil, the library
// embeds the webview in the given native window handle.
func NewWindow(debug bool, window unsafe.Pointer) (WebView, error) {
	if err := load(); err != nil {
		return nil, err
	}
	var d int32
	if debug {
		d = 1
	}
	handle := webviewCreate(d, window)
	if handle == 0 {
		return nil, ErrCreateFailed
	}
	return &webview{handle: handle}, nil
}

func (w *webview) Run() {
	webviewRun(w.handle)
}

func (w *webview) Terminate() {
	webviewTerminate(w.handle)
}

func (w *webview) Dispatch(f func()) {
	dispatchMu.Lock()
	idx := dispatchCounter
	dispatchCounter++
	dispatchMap[idx] = f
	dispatchMu.Unlock()

	webviewDispatch(w.handle, dispatchCallbackPtr, idx)
}

func (w *webview) Destroy() {
	bindMu.Lock()
	for _, ctx := range boundNames[w.handle] {
		delete(bindingMap, ctx)
	}
	delete(boundNames, w.handle)
	bindMu.Unlock()

	webviewDestroy(w.handle)
}

func (w *webview) Window() unsafe.Pointer {
	return webviewGetWindow(w.handle)
}

func (w *webview) SetTitle(title string) {
	webviewSetTitle(w.handle, title)
}

func (w *webview) SetSize(width, height int, hint Hint) {
	webviewSetSize(w.handle, int32(width), int32(height), int32(hint))
}

func (w *webview) Navigate(url string) {
	webviewNavigate(w.handle, url)
}

func (w *webview) SetHtml(html string) {
	webviewSetHtml(w.handle, html)
}

func (w *webview) Init(js string) {
	webviewInit(w.handle, js)
}

func (w *webview) Eval(js string) {
	webviewEval(w.handle, js)
}

// Bind registers a Go function callable from JS as window.<name>.
func (w *webview) Bind(name string, f any) error {
	fn, err := newBinding(f)
	if err != nil {
		return err
	}

	bindMu.Lock()
	names := boundNames[w.handle]
	if names == nil {
		names = make(map[string]uintptr)
		boundNames[w.handle] = names
	}
	if _, exists := names[name]; exists {
		bindMu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyBound, name)
	}
	contextKey := bindingCounter
	bindingCounter++
	bindingMap[contextKey] = bindingEntry{w: w.handle, fn: fn}
	names[name] = contextKey
	bindMu.Unlock()

	webviewBind(w.handle, name, bindingCallbackPtr, contextKey)
	return nil
}

func (w *webview) Unbind(name string) error {
	bindMu.Lock()
	ctx, ok := boundNames[w.handle][name]
	if !ok {
		bindMu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotBound, name)
	}
	delete(boundNames[w.handle], name)
	delete(bindingMap, ctx)
	bindMu.Unlock()

	webviewUnbind(w.handle, name)
	return nil
}

// dispatchCallback is invoked by the native library on the UI thread.
func dispatchCallback(_, arg uintptr) uintptr {
	dispatchMu.Lock()
	f := dispatchMap[arg]
	delete(dispatchMap, arg)
	dispatchMu.Unlock()

	if f != nil {
		f()
	}
	return 0
}

// bindingCallback is invoked by the native library when JS calls a bound
// function. seq and req are NUL-terminated C strings.
func bindingCallback(seq, req, arg uintptr) uintptr {
	bindMu.Lock()
	entry, ok := bindingMap[arg]
	bindMu.Unlock()
	if !ok {
		return 0
	}

	id := cStringToGo(seq)
	status, payload := encodeResult(entry.fn(cStringToGo(req)))
	webviewReturn(entry.w, id, status, payload)
	return 0
}

func cStringToGo(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := *(*unsafe.Pointer)(unsafe.Pointer(&ptr))
	var length int
	for *(*byte)(unsafe.Add(p, length)) != 0 {
		length++
	}
	return string(unsafe.Slice((*byte)(p), length))
}
