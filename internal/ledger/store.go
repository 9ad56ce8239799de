package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// AnalysisVersion tags documents written by this build. Documents with any
// other version are not read.
const AnalysisVersion = "5.0"

var (
	// ErrIncompatibleVersion is returned by Load for a document written by a
	// different analysis version.
	ErrIncompatibleVersion = errors.New("ledger document has an incompatible analysis version")
	// ErrLocked is returned by TryLock while another pass holds the ledger.
	ErrLocked = errors.New("ledger is locked by another analysis pass")
)

// Document is the persisted ledger.
type Document struct {
	Cases           Ledger     `json:"cases"`
	LastAnalysis    *time.Time `json:"last_analysis"`
	AnalysisVersion string     `json:"analysis_version"`
}

// NewDocument wraps l for persistence.
func NewDocument(l Ledger, at time.Time) *Document {
	if l == nil {
		l = Ledger{}
	}
	at = at.UTC()
	return &Document{Cases: l, LastAnalysis: &at, AnalysisVersion: AnalysisVersion}
}

// FileStore keeps the ledger document in a JSON file.
type FileStore struct {
	path string
	// mu covers passes in this process; flock only excludes other processes
	// and reports success again to the instance already holding it.
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileStore creates a store for path. The lock lives next to it.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the document path.
func (s *FileStore) Path() string { return s.path }

// Load reads the document. A missing file is a first run and yields an empty
// document.
func (s *FileStore) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Document{Cases: Ledger{}, AnalysisVersion: AnalysisVersion}, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	if doc.AnalysisVersion != AnalysisVersion {
		return nil, fmt.Errorf("%w: %q", ErrIncompatibleVersion, doc.AnalysisVersion)
	}
	if doc.Cases == nil {
		doc.Cases = Ledger{}
	}
	return &doc, nil
}

// Save replaces the document on disk. The write goes to a temporary file
// that is renamed over the old one.
func (s *FileStore) Save(doc *Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

// TryLock takes the pass lock without waiting. The returned func releases it;
// calling it more than once is harmless.
func (s *FileStore) TryLock() (func() error, error) {
	if !s.mu.TryLock() {
		return nil, ErrLocked
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to lock ledger: %w", err)
	}
	if !ok {
		s.mu.Unlock()
		return nil, ErrLocked
	}

	var once sync.Once
	var unlockErr error
	return func() error {
		once.Do(func() {
			unlockErr = s.lock.Unlock()
			s.mu.Unlock()
		})
		return unlockErr
	}, nil
}
