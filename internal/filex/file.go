// Package filex holds small filesystem helpers for the client.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxUploadSize caps files read for upload.
const MaxUploadSize = 20 << 20

// EnsureParentDir creates the directory that will hold the file at p.
func EnsureParentDir(p string) error {
	dir := filepath.Dir(p)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadUpload reads the file at p, refusing directories and files larger
// than limit bytes.
func ReadUpload(p string, limit int64) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	if fi.Size() > limit {
		return nil, fmt.Errorf("%s is larger than %d bytes", p, limit)
	}

	// the file may grow after Stat
	b, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%s is larger than %d bytes", p, limit)
	}
	return b, nil
}
