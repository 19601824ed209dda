package receiver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Archive keeps a copy of every accepted upload body on disk, one file per
// upload. Extensions follow the compression container, so archived files
// reopen with the regular dataset reader.
type Archive struct {
	dir string
	mu  sync.Mutex
	seq int
}

// NewArchive creates an archive rooted at dir
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Create opens a new archive file for an upload. The id may be empty, in
// which case a timestamped name is generated.
func (a *Archive) Create(id, encoding string) (*ArchiveFile, error) {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	name := sanitizeID(id)
	if name == "" {
		name = fmt.Sprintf("%s_%d", time.Now().UTC().Format("20060102T150405"), seq)
	}

	ext := ".json"
	switch encoding {
	case "gzip":
		ext = ".json.gz"
	case "zstd":
		ext = ".json.zst"
	}

	path := filepath.Join(a.dir, fmt.Sprintf("upload_%s%s", name, ext))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	return &ArchiveFile{f: f, path: path}, nil
}

// ArchiveFile is a single upload being written to the archive
type ArchiveFile struct {
	f    *os.File
	path string
}

// Path returns the location of the archived upload
func (af *ArchiveFile) Path() string { return af.path }

func (af *ArchiveFile) Write(p []byte) (int, error) { return af.f.Write(p) }

// Close keeps the archived upload
func (af *ArchiveFile) Close() error { return af.f.Close() }

// Discard removes a partially written archive file
func (af *ArchiveFile) Discard() error {
	af.f.Close()
	return os.Remove(af.path)
}

// sanitizeID keeps filename-safe characters so header-supplied ids cannot
// escape the archive directory.
func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-.")
}
