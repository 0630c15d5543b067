package selfpath

import (
	"errors"
	"path/filepath"
	"testing"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDir(t *testing.T) {
	program := filepath.Join(t.TempDir(), "rustui")
	dir, err := Dir(env(map[string]string{Env: program}))
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if dir != filepath.Dir(program) {
		t.Fatalf("got %q, want %q", dir, filepath.Dir(program))
	}
}

func TestDirMissingEnv(t *testing.T) {
	_, err := Dir(env(nil))
	if !errors.Is(err, ErrNoProgramPath) {
		t.Fatalf("expected ErrNoProgramPath, got %v", err)
	}
}

func TestDirRoot(t *testing.T) {
	root := filepath.VolumeName(t.TempDir()) + string(filepath.Separator)
	_, err := Dir(env(map[string]string{Env: root}))
	if !errors.Is(err, ErrNoProgramDir) {
		t.Fatalf("expected ErrNoProgramDir, got %v", err)
	}
}

func TestExportKeepsExistingValue(t *testing.T) {
	values := map[string]string{Env: "/opt/app/rustui"}
	err := export(env(values), func(k, v string) error {
		t.Fatalf("setenv called with %s=%s", k, v)
		return nil
	}, func() (string, error) {
		t.Fatal("executable lookup should not run")
		return "", nil
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
}

func TestExportFromExecutable(t *testing.T) {
	values := map[string]string{}
	err := export(env(values), func(k, v string) error {
		values[k] = v
		return nil
	}, func() (string, error) {
		return "/opt/app/greeter", nil
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if values[Env] != "/opt/app/greeter" {
		t.Fatalf("got %q", values[Env])
	}
}

func TestExportExecutableError(t *testing.T) {
	boom := errors.New("boom")
	err := export(env(nil), func(string, string) error { return nil }, func() (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}
