//go:build (darwin || linux) && !webview_cgo

package webview

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ebitengine/purego"
)

// libraryCandidates lists the paths tried, in order, to find the native
// library.
func libraryCandidates() []string {
	var name string
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)
	dirs := []string{os.Getenv("WEBVIEW_PATH"), execDir}
	switch runtime.GOOS {
	case "darwin":
		name = "libwebview.dylib"
		dirs = append(dirs, filepath.Join(execDir, "..", "Frameworks"))
	default:
		name = "libwebview.so"
	}

	var paths []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	// Leave the bare name last so the dynamic loader search path applies.
	return append(paths, name)
}

func openLibrary() (uintptr, error) {
	candidates := libraryCandidates()
	fname := candidates[len(candidates)-1]
	for _, fn := range candidates[:len(candidates)-1] {
		if _, err := os.Stat(fn); err == nil {
			fname = fn
			break
		}
	}

	lib, err := purego.Dlopen(fname, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, fname, err)
	}
	if lib == 0 {
		return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, fname)
	}
	return lib, nil
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}
