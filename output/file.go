// output/file.go
package output

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// File is one output to write: Render produces its contents, and Compress
// adds a zstd-compressed copy at Path+".zst".
type File struct {
	Path     string
	Compress bool
	Render   func(io.Writer) error
}

// staged is a rendered output waiting in a temporary file next to its
// destination.
type staged struct {
	tmp, path string
	size      int
}

// WriteFile renders with write and replaces path with the result. The
// previous file is left untouched if rendering or writing fails.
func WriteFile(path string, compress bool, write func(io.Writer) error) error {
	return WriteFiles(File{Path: path, Compress: compress, Render: write})
}

// WriteFiles renders every file and stages it in a temporary file before
// any destination is replaced, so a failure to render or write one output
// leaves all of them untouched.
func WriteFiles(files ...File) error {
	var pending []staged
	defer func() {
		for _, s := range pending {
			os.Remove(s.tmp) // no-op after a successful rename
		}
	}()

	for _, f := range files {
		var buf bytes.Buffer
		if err := f.Render(&buf); err != nil {
			return fmt.Errorf("failed to render %s: %w", f.Path, err)
		}

		s, err := stage(f.Path, buf.Bytes())
		if err != nil {
			return err
		}
		pending = append(pending, s)

		if f.Compress {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
			if err != nil {
				return fmt.Errorf("failed to create zstd encoder: %w", err)
			}
			z := enc.EncodeAll(buf.Bytes(), nil)
			enc.Close()

			s, err := stage(f.Path+".zst", z)
			if err != nil {
				return err
			}
			pending = append(pending, s)
		}
	}

	for _, s := range pending {
		if err := os.Rename(s.tmp, s.path); err != nil {
			return fmt.Errorf("failed to replace %s: %w", s.path, err)
		}
		log.Printf("Output: wrote %s (%d bytes)\n", s.path, s.size)
	}
	return nil
}

// stage writes data to a temporary file in path's directory.
func stage(path string, data []byte) (staged, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return staged{}, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return staged{}, fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	s := staged{tmp: tmp.Name(), path: path, size: len(data)}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(s.tmp)
		return staged{}, fmt.Errorf("failed to write %s: %w", s.tmp, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(s.tmp)
		return staged{}, fmt.Errorf("failed to close %s: %w", s.tmp, err)
	}
	if err := os.Chmod(s.tmp, 0o644); err != nil {
		os.Remove(s.tmp)
		return staged{}, fmt.Errorf("failed to set permissions on %s: %w", s.tmp, err)
	}
	return s, nil
}
