package receiver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hksynth/hksynth-cli/internal/dataset"
	"github.com/hksynth/hksynth-cli/internal/orchestrator"
	"github.com/hksynth/hksynth-cli/internal/store"
)

// DefaultMaxBodyBytes caps the on-wire size of a single upload.
const DefaultMaxBodyBytes = 100 * 1024 * 1024

// Config holds the receiver server configuration
type Config struct {
	Host         string
	Port         int
	Token        string // empty disables bearer auth
	AcceptGzip   bool
	MaxBodyBytes int64
	MaxInFlight  int
	ArchiveDir   string // empty disables raw upload archiving
}

// Server is the HTTP receiver that imports uploaded datasets into a store
type Server struct {
	config     Config
	store      store.HealthStore
	archive    *Archive
	idempotent *IdempotencyStore
	server     *http.Server
	mu         sync.RWMutex
	stats      Stats
}

// Stats holds server statistics. The sample counters aggregate the
// per-upload receipts.
type Stats struct {
	TotalUploads    int `json:"total_uploads"`
	TotalDuplicates int `json:"total_duplicates"`
	TotalErrors     int `json:"total_errors"`
	Imported        int `json:"imported"`
	Skipped         int `json:"skipped"`
	Failed          int `json:"failed"`
}

// Receipt describes the outcome of a single upload.
type Receipt struct {
	UploadID  string `json:"upload_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// NewServer creates a new receiver server writing into st.
func NewServer(config Config, st store.HealthStore) (*Server, error) {
	s := &Server{
		config:     config,
		store:      st,
		idempotent: NewIdempotencyStore(),
	}
	if config.ArchiveDir != "" {
		arch, err := NewArchive(config.ArchiveDir)
		if err != nil {
			return nil, err
		}
		s.archive = arch
	}
	return s, nil
}

// Start starts the receiver server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/dataset", s.handleDataset)
	mux.HandleFunc("/v1/stats", s.handleStats)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// GetAddress returns the server address
func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// GetStats returns current server statistics
func (s *Server) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service":  "hksynth-receiver",
		"version":  "1.0.0",
		"endpoint": "/v1/dataset",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.GetStats())
}

// handleDataset streams an uploaded dataset straight into the store. The
// body is sniffed for a compression container, so compressed uploads work
// with or without a Content-Encoding header. Uploads that carry an
// Idempotency-Key (or X-Hksynth-Upload-Id) already seen are acknowledged
// without re-importing.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	// Only accept POST
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Validate Authorization
	if !s.validateAuth(r) {
		s.countError()
		s.writeError(w, http.StatusUnauthorized, "invalid or missing authorization token")
		return
	}

	if err := s.validateContentType(r); err != nil {
		s.countError()
		s.writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}

	// Get idempotency key
	uploadID := r.Header.Get("Idempotency-Key")
	if uploadID == "" {
		uploadID = r.Header.Get("X-Hksynth-Upload-Id")
	}

	// Duplicate uploads are acknowledged but not re-imported.
	if uploadID != "" && s.idempotent.Exists(uploadID) {
		s.mu.Lock()
		s.stats.TotalUploads++
		s.stats.TotalDuplicates++
		s.mu.Unlock()
		s.writeReceipt(w, Receipt{UploadID: uploadID, Duplicate: true})
		return
	}

	// Uploads without a key still get an ID for the receipt and archive.
	if uploadID == "" {
		uploadID = uuid.New().String()
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes())
	br := bufio.NewReader(body)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		s.countError()
		s.writeError(w, http.StatusBadRequest, "failed to read request body: "+err.Error())
		return
	}

	encoding := dataset.Encoding(head)
	if encoding != "" && !s.config.AcceptGzip {
		s.countError()
		s.writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("%s payloads are not accepted", encoding))
		return
	}

	var reader io.Reader = br
	var arch *ArchiveFile
	if s.archive != nil {
		arch, err = s.archive.Create(uploadID, encoding)
		if err != nil {
			s.countError()
			s.writeError(w, http.StatusInternalServerError, "failed to archive upload: "+err.Error())
			return
		}
		reader = io.TeeReader(br, arch)
	}

	rc, err := dataset.Decompress(io.NopCloser(reader))
	if err != nil {
		s.discardArchive(arch)
		s.countError()
		s.writeError(w, http.StatusBadRequest, "failed to open payload: "+err.Error())
		return
	}

	imp := orchestrator.NewImporter(s.store, orchestrator.ImporterConfig{
		MaxInFlight: s.config.MaxInFlight,
	})
	counts, err := imp.RunReader(r.Context(), rc)
	rc.Close()
	if err != nil {
		s.discardArchive(arch)
		s.countError()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, http.StatusBadRequest, "import failed: "+err.Error())
		return
	}

	if arch != nil {
		if err := arch.Close(); err != nil {
			s.countError()
			s.writeError(w, http.StatusInternalServerError, "failed to archive upload: "+err.Error())
			return
		}
	}

	// Mark as seen for idempotency
	s.idempotent.Mark(uploadID)

	// Update stats
	s.mu.Lock()
	s.stats.TotalUploads++
	s.stats.Imported += counts.Imported
	s.stats.Skipped += counts.Skipped
	s.stats.Failed += counts.Failed
	s.mu.Unlock()

	s.writeReceipt(w, Receipt{
		UploadID: uploadID,
		Imported: counts.Imported,
		Skipped:  counts.Skipped,
		Failed:   counts.Failed,
	})
}

func (s *Server) validateAuth(r *http.Request) bool {
	if s.config.Token == "" {
		return true
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return false
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return false
	}

	return parts[1] == s.config.Token
}

func (s *Server) validateContentType(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil
	}
	for _, accepted := range acceptedContentTypes {
		if strings.HasPrefix(contentType, accepted) {
			return nil
		}
	}
	return fmt.Errorf("unsupported Content-Type: %s", contentType)
}

var acceptedContentTypes = []string{
	"application/json",
	"application/octet-stream",
	"application/gzip",
	"application/zstd",
}

func (s *Server) maxBodyBytes() int64 {
	if s.config.MaxBodyBytes > 0 {
		return s.config.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

func (s *Server) countError() {
	s.mu.Lock()
	s.stats.TotalErrors++
	s.mu.Unlock()
}

func (s *Server) discardArchive(arch *ArchiveFile) {
	if arch != nil {
		arch.Discard()
	}
}

func (s *Server) writeReceipt(w http.ResponseWriter, receipt Receipt) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"receipt": receipt,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// IdempotencyStore tracks processed upload IDs
type IdempotencyStore struct {
	seen map[string]time.Time
	mu   sync.RWMutex
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		seen: make(map[string]time.Time),
	}
}

// Exists checks if an ID has been processed
func (s *IdempotencyStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[id]
	return exists
}

// Mark records an ID as processed
func (s *IdempotencyStore) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = time.Now()
}
