// Package selfpath locates the directory of the running program.
//
// Importing the package for its side effects exports Env from
// os.Executable when the variable is not already set, the same way a
// script runner exports the path of the script it runs.
package selfpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Env names the variable holding the path of the running program.
const Env = "WEBSHELL_PATH"

var (
	ErrNoProgramPath = errors.New("program path is not set")
	ErrNoProgramDir  = errors.New("unable to get program folder")
)

func init() {
	_ = export(os.Getenv, os.Setenv, executable)
}

func executable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(path)
}

// export sets Env from the executable path unless it already has a value.
func export(getenv func(string) string, setenv func(string, string) error, exe func() (string, error)) error {
	if getenv(Env) != "" {
		return nil
	}
	path, err := exe()
	if err != nil {
		return err
	}
	return setenv(Env, path)
}

// Dir returns the directory that contains the program named by Env.
func Dir(getenv func(string) string) (string, error) {
	path := getenv(Env)
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrNoProgramPath, Env)
	}
	clean := filepath.Clean(path)
	dir := filepath.Dir(clean)
	if dir == clean {
		return "", fmt.Errorf("%w: %s", ErrNoProgramDir, path)
	}
	return dir, nil
}
