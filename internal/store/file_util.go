package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

var chmodFile = os.Chmod

// permissionUnsupported lists the chmod failures that mean the filesystem
// cannot represent permission bits at all (FUSE/object-store mounts,
// read-only media). They are not treated as save failures.
var permissionUnsupported = []error{
	syscall.EPERM,
	syscall.ENOTSUP,
	syscall.EOPNOTSUPP,
	syscall.EROFS,
	errors.ErrUnsupported,
}

// IsPermissionUnsupported reports whether err is a permission change the
// filesystem refused as unsupported.
func IsPermissionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range permissionUnsupported {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// LoadJSONFile decodes path into out. Missing and malformed files both
// report false; the caller falls back to its defaults.
func LoadJSONFile(path string, out any) bool {
	return readJSON(path, out) == nil
}

// SaveJSONFile writes v as indented JSON with a trailing newline, creating
// the parent directory owner-only and restricting the file to 0600 where
// the filesystem allows it.
func SaveJSONFile(path string, v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	if err := chmodFile(path, 0o600); err != nil && !IsPermissionUnsupported(err) {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty file")
	}
	return json.Unmarshal(data, v)
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	file, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		_ = os.Remove(file.Name())
	}()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(file.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
