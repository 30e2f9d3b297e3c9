// logging/logging.go
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gewnthar/faawaypoints/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup points the standard logger at stderr and, if cfg.File is set, at a
// size-rotated log file as well. The returned closer releases the file.
func Setup(cfg config.LoggingConfig) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, err
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, w))
	log.Printf("Logging to %s\n", cfg.File)
	return w, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
