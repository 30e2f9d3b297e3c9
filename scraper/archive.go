// scraper/archive.go
package scraper

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Archive is an opened NASR subscription zip.
type Archive struct {
	path string
	zr   *zip.ReadCloser
}

func OpenArchive(archivePath string) (*Archive, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open NASR archive %s: %w", archivePath, err)
	}
	return &Archive{path: archivePath, zr: zr}, nil
}

func (a *Archive) Close() error { return a.zr.Close() }

// Open returns the member whose base name matches name, ignoring case and
// any directories inside the zip.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	for _, f := range a.zr.File {
		if strings.EqualFold(path.Base(f.Name), name) {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s: %w", a.path+"!"+name, os.ErrNotExist)
}

// Extract copies the named members into dir, flattening any directories.
func (a *Archive) Extract(dir string, names ...string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	for _, name := range names {
		if err := a.extractOne(dir, name); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) extractOne(dir, name string) error {
	r, err := a.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	dst := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to extract %s to %s: %w", name, dst, err)
	}

	log.Printf("Scraper: Extracted %s (%d bytes) from %s\n", dst, n, a.path)
	return nil
}
