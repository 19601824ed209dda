package dataset

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Create opens a dataset file for writing, compressing by extension: .gz
// writes gzip, .zst writes zstd, anything else is plain text.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zw := gzip.NewWriter(f)
		return &layeredWriter{w: zw, close: func() error {
			if err := zw.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}}, nil
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return &layeredWriter{w: zw, close: func() error {
			if err := zw.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}}, nil
	default:
		return f, nil
	}
}

type layeredWriter struct {
	w     io.Writer
	close func() error
}

func (lw *layeredWriter) Write(p []byte) (int, error) { return lw.w.Write(p) }
func (lw *layeredWriter) Close() error                { return lw.close() }
