package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
)

func TestSaveJSONFileFormatAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	payload := map[string]any{"b": 1, "a": "x+y"}
	if err := SaveJSONFile(path, payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n  \"a\": \"x+y\",\n  \"b\": 1\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected file content:\n got=%q\nwant=%q", string(data), want)
	}

	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 file, got %o", info.Mode().Perm())
	}
	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if dirInfo.Mode().Perm() != 0o700 {
		t.Fatalf("expected 0700 dir, got %o", dirInfo.Mode().Perm())
	}
}

func TestLoadJSONFileMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	var out map[string]any
	if LoadJSONFile(filepath.Join(dir, "missing.json"), &out) {
		t.Fatalf("expected missing file to report absent")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if LoadJSONFile(bad, &out) {
		t.Fatalf("expected malformed file to report absent")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if LoadJSONFile(empty, &out) {
		t.Fatalf("expected empty file to report absent")
	}
}

func TestSaveJSONFileIgnoresUnsupportedChmod(t *testing.T) {
	for _, errno := range []syscall.Errno{syscall.EPERM, syscall.ENOTSUP, syscall.EOPNOTSUPP, syscall.EROFS} {
		restore := setChmod(t, func(name string, mode os.FileMode) error {
			return &fs.PathError{Op: "chmod", Path: name, Err: errno}
		})
		path := filepath.Join(t.TempDir(), "settings.json")
		if err := SaveJSONFile(path, map[string]string{"token": "abc"}); err != nil {
			t.Fatalf("expected save to succeed despite %v, got %v", errno, err)
		}
		var out map[string]string
		if !LoadJSONFile(path, &out) || out["token"] != "abc" {
			t.Fatalf("expected content written despite %v, got %#v", errno, out)
		}
		restore()
	}
}

func TestSaveJSONFilePropagatesOtherChmodErrors(t *testing.T) {
	setChmod(t, func(name string, mode os.FileMode) error {
		return &fs.PathError{Op: "chmod", Path: name, Err: syscall.EACCES}
	})
	path := filepath.Join(t.TempDir(), "settings.json")
	err := SaveJSONFile(path, map[string]string{"token": "abc"})
	if err == nil {
		t.Fatalf("expected chmod failure to propagate")
	}
	if !errors.Is(err, syscall.EACCES) {
		t.Fatalf("expected EACCES in chain, got %v", err)
	}
}

func TestSaveJSONFilePropagatesWriteErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := SaveJSONFile(filepath.Join(blocker, "settings.json"), map[string]string{"token": "abc"})
	if err == nil {
		t.Fatalf("expected write under a regular file to fail")
	}
	if strings.Contains(err.Error(), "abc") {
		t.Fatalf("error leaked content: %v", err)
	}
}

func TestIsPermissionUnsupported(t *testing.T) {
	if IsPermissionUnsupported(nil) {
		t.Fatalf("nil is not unsupported")
	}
	if !IsPermissionUnsupported(&fs.PathError{Op: "chmod", Err: syscall.EROFS}) {
		t.Fatalf("expected EROFS to be unsupported")
	}
	if !IsPermissionUnsupported(errors.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported to be unsupported")
	}
	if IsPermissionUnsupported(&fs.PathError{Op: "chmod", Err: syscall.EACCES}) {
		t.Fatalf("EACCES must not be swallowed")
	}
	if IsPermissionUnsupported(errors.New("operation not permitted")) {
		t.Fatalf("classification must not match on message text")
	}
}

func setChmod(t *testing.T, fn func(string, os.FileMode) error) func() {
	t.Helper()
	prev := chmodFile
	chmodFile = fn
	restore := func() { chmodFile = prev }
	t.Cleanup(restore)
	return restore
}
