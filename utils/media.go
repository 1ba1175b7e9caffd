package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalMediaStorage moves files on the local volume where story media is
// saved. Implements services.MediaStorage.
type LocalMediaStorage struct{}

// Relocate moves src to dst, creating the destination directory. Rename
// first; when that fails (cross-device, network mounts) fall back to
// copy+delete.
func (LocalMediaStorage) Relocate(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
