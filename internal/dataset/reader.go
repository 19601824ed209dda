package dataset

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// DefaultChunkSize is the block size fed to the streaming codec.
const DefaultChunkSize = 64 * 1024

// Compression container magics.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open returns a reader over the dataset file at path. Compressed payloads
// are detected by their leading magic bytes, not the file extension, so a
// renamed .gz still reads.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// Encoding names the compression container announced by the stream head,
// "gzip" or "zstd", or returns an empty string for plain payloads. Four
// bytes of head are enough for either magic.
func Encoding(head []byte) string {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return "gzip"
	case bytes.HasPrefix(head, zstdMagic):
		return "zstd"
	}
	return ""
}

// Decompress sniffs the stream head and wraps rc in the matching decoder, or
// returns it as-is for plain payloads.
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read dataset head: %w", err)
	}

	switch Encoding(head) {
	case "gzip":
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &layeredReader{r: zr, close: func() error {
			if err := zr.Close(); err != nil {
				rc.Close()
				return err
			}
			return rc.Close()
		}}, nil
	case "zstd":
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return &layeredReader{r: zr, close: func() error {
			zr.Close()
			return rc.Close()
		}}, nil
	default:
		return &layeredReader{r: br, close: rc.Close}, nil
	}
}

// Feed streams r into consume in fixed-size chunks until EOF.
func Feed(r io.Reader, chunkSize int, consume func([]byte) error) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if cerr := consume(buf[:n]); cerr != nil {
				return cerr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read dataset: %w", err)
		}
	}
}

type layeredReader struct {
	r     io.Reader
	close func() error
}

func (lr *layeredReader) Read(p []byte) (int, error) { return lr.r.Read(p) }
func (lr *layeredReader) Close() error               { return lr.close() }
