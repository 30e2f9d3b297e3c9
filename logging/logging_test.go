// logging/logging_test.go
package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gewnthar/faawaypoints/config"
)

func TestSetupFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "logs", "waypoints.log")
	c, err := Setup(config.LoggingConfig{File: fn, MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	log.Printf("Extractor: hello from the test")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Extractor: hello from the test") {
		t.Errorf("log file contents %q", b)
	}
}

func TestSetupStderrOnly(t *testing.T) {
	c, err := Setup(config.LoggingConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
