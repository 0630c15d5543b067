// Package content composes the page shown in static mode from the markup
// and script files shipped next to the program.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abemedia/webshell/internal/logging"
)

const (
	MarkupFile = "index.html"
	ScriptFile = "index.js"

	// Placeholder is replaced by the inline module script.
	Placeholder = `<script type="module"></script>`
)

var ErrNoPlaceholder = errors.New("markup has no script placeholder")

// Splice replaces the first occurrence of Placeholder in markup with script
// wrapped in a module script tag. It reports whether the placeholder was
// found; if not, markup is returned unchanged.
func Splice(markup, script string) (string, bool) {
	i := strings.Index(markup, Placeholder)
	if i < 0 {
		return markup, false
	}
	var b strings.Builder
	b.Grow(len(markup) + len(script))
	b.WriteString(markup[:i])
	b.WriteString(`<script type="module">`)
	b.WriteString(script)
	b.WriteString(`</script>`)
	b.WriteString(markup[i+len(Placeholder):])
	return b.String(), true
}

// Loader reads the markup and script pair from a directory.
type Loader struct {
	Dir string
	// Strict turns a missing placeholder into ErrNoPlaceholder.
	Strict bool
	Logger logging.Logger
}

// Load returns the composed markup.
func (l *Loader) Load() (string, error) {
	markup, err := l.read(MarkupFile)
	if err != nil {
		return "", err
	}
	script, err := l.read(ScriptFile)
	if err != nil {
		return "", err
	}

	html, ok := Splice(markup, script)
	if !ok {
		if l.Strict {
			return "", fmt.Errorf("%s: %w", filepath.Join(l.Dir, MarkupFile), ErrNoPlaceholder)
		}
		l.logger().Warn("script placeholder not found; page loaded without script",
			"file", filepath.Join(l.Dir, MarkupFile),
			"placeholder", Placeholder)
	}
	return html, nil
}

func (l *Loader) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, name))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func (l *Loader) logger() logging.Logger {
	if l.Logger == nil {
		return logging.Nop()
	}
	return l.Logger
}
