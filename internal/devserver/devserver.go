// Package devserver starts the external HTTP server used in live mode.
//
// The process is launched and forgotten: it is never waited on,
// restarted or health-checked.
package devserver

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/abemedia/webshell/internal/logging"
)

const (
	Command     = "python3"
	Host        = "127.0.0.1"
	DefaultPort = 8000
)

// Spawner starts a process without waiting for it and returns its pid.
type Spawner interface {
	Spawn(name string, args ...string) (int, error)
}

// ExecSpawner starts processes with os/exec.
type ExecSpawner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (s ExecSpawner) Spawn(name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}

// Launcher spawns the dev server for a directory.
type Launcher struct {
	Spawner Spawner
	Port    int
	Logger  logging.Logger
}

func (l *Launcher) port() int {
	if l.Port == 0 {
		return DefaultPort
	}
	return l.Port
}

// Args returns the fixed argument list serving dir.
func (l *Launcher) Args(dir string) []string {
	return []string{"-m", "http.server", strconv.Itoa(l.port()), "--bind", Host, "--directory", dir}
}

// URL is the address the webview navigates to in live mode.
func (l *Launcher) URL() string {
	return fmt.Sprintf("http://%s:%d/", Host, l.port())
}

// Launch spawns the server once and returns its URL.
func (l *Launcher) Launch(dir string) (string, error) {
	args := l.Args(dir)
	pid, err := l.Spawner.Spawn(Command, args...)
	if err != nil {
		return "", fmt.Errorf("start dev server: %w", err)
	}
	if l.Logger != nil {
		l.Logger.Info("dev server started", "pid", pid, "url", l.URL(), "dir", dir)
	}
	return l.URL(), nil
}
