//go:build windows && !webview_cgo

package webview

import (
	"fmt"
	"syscall"
)

func openLibrary() (uintptr, error) {
	lib, err := syscall.LoadLibrary("webview.dll")
	if err != nil {
		return 0, fmt.Errorf("%w: webview.dll: %v", ErrLibraryNotFound, err)
	}
	if lib == 0 {
		return 0, fmt.Errorf("%w: webview.dll", ErrLibraryNotFound)
	}
	return uintptr(lib), nil
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return syscall.GetProcAddress(syscall.Handle(lib), name)
}
