// scraper/downloader.go
package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// DownloadFile downloads url to localSavePath and returns the hex SHA-256
// of the downloaded bytes. A partial download never replaces an existing
// file.
func DownloadFile(ctx context.Context, client *http.Client, url, localSavePath string) (string, error) {
	log.Printf("Scraper: Downloading %s to %s\n", url, localSavePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file from %s: received status code %d", url, resp.StatusCode)
	}

	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	outFile, err := os.CreateTemp(dir, filepath.Base(localSavePath)+".part*")
	if err != nil {
		return "", fmt.Errorf("failed to create local file for %s: %w", localSavePath, err)
	}
	defer os.Remove(outFile.Name())

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(outFile, h), resp.Body)
	if err != nil {
		outFile.Close()
		return "", fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}
	if err := outFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", outFile.Name(), err)
	}
	if err := os.Rename(outFile.Name(), localSavePath); err != nil {
		return "", fmt.Errorf("failed to move download into place at %s: %w", localSavePath, err)
	}

	log.Printf("Scraper: Downloaded %d bytes from %s to %s\n", n, url, localSavePath)
	return hex.EncodeToString(h.Sum(nil)), nil
}
