//go:build webview_cgo

package webview

import (
	"unsafe"

	native "github.com/webview/webview_go"
)

// cgoView adapts the cgo binding to WebView.
type cgoView struct {
	native.WebView
}

// NewWindow creates a new webview through the cgo binding. If window is
// non-nil, the webview is embedded in the given native window handle.
func NewWindow(debug bool, window unsafe.Pointer) (WebView, error) {
	w := native.NewWindow(debug, window)
	if w == nil {
		return nil, ErrCreateFailed
	}
	return &cgoView{WebView: w}, nil
}

func (w *cgoView) SetSize(width, height int, hint Hint) {
	w.WebView.SetSize(width, height, native.Hint(hint))
}

func (w *cgoView) Bind(name string, f any) error {
	if _, err := newBinding(f); err != nil {
		return err
	}
	return w.WebView.Bind(name, f)
}
