package receiver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArchiveCreate(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-archive-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	arch, err := NewArchive(tmpDir)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}

	af, err := arch.Create("upload-1", "gzip")
	if err != nil {
		t.Fatalf("failed to create archive file: %v", err)
	}
	if _, err := af.Write([]byte("payload")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := af.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, "upload_upload-1.json.gz")
	if af.Path() != expectedPath {
		t.Errorf("expected path %s, got %s", expectedPath, af.Path())
	}

	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read archived file: %v", err)
	}
	if string(content) != "payload" {
		t.Errorf("expected content 'payload', got %q", content)
	}
}

func TestArchiveCreateDirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-archive-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	nested := filepath.Join(tmpDir, "nested", "uploads")
	if _, err := NewArchive(nested); err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}

	if _, err := os.Stat(nested); os.IsNotExist(err) {
		t.Error("nested directory should have been created")
	}
}

func TestArchiveDiscard(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-archive-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	arch, err := NewArchive(tmpDir)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}

	af, err := arch.Create("partial", "")
	if err != nil {
		t.Fatalf("failed to create archive file: %v", err)
	}
	af.Write([]byte("half a pay"))
	if err := af.Discard(); err != nil {
		t.Fatalf("failed to discard: %v", err)
	}

	if _, err := os.Stat(af.Path()); !os.IsNotExist(err) {
		t.Error("discarded file should be removed")
	}
}

func TestSanitizeID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"upload-1", "upload-1"},
		{"../../etc/passwd", "etc-passwd"},
		{"a b/c", "a-b-c"},
		{"...", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := sanitizeID(tc.in); got != tc.want {
			t.Errorf("sanitizeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
