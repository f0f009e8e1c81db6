package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiskStore stages uploads on the local filesystem. Each file gets a
// JSON metadata sidecar so a restarted process can still claim it.
type DiskStore struct {
	dir     string
	maxSize int64

	mu    sync.Mutex
	files map[string]*diskMeta
}

type diskMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a disk store rooted at dir, creating it if
// needed. maxSize caps individual files in bytes; 0 means no limit.
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:     dir,
		maxSize: maxSize,
		files:   make(map[string]*diskMeta),
	}, nil
}

// Save stages the file and returns its temp ID.
func (s *DiskStore) Save(_ context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrTooLarge
	}

	tempID := newTempID()
	dest := filepath.Join(s.dir, tempID)

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var src io.Reader = r
	if s.maxSize > 0 {
		// One extra byte so an over-limit reader is detectable even
		// when the declared size lied.
		src = io.LimitReader(r, s.maxSize+1)
	}

	written, err := io.Copy(f, src)
	if err != nil {
		os.Remove(dest)
		return "", err
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(dest)
		return "", ErrTooLarge
	}

	meta := &diskMeta{
		Filename:    filename,
		ContentType: contentType,
		Size:        written,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.files[tempID] = meta
	s.mu.Unlock()

	// Sidecar on disk so claims survive a restart.
	s.writeMeta(tempID, meta)

	return tempID, nil
}

// Claim retrieves and consumes a staged file. The returned reader
// deletes the file and its sidecar on close.
func (s *DiskStore) Claim(_ context.Context, tempID string) (*File, error) {
	if !validTempID(tempID) {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	meta, ok := s.files[tempID]
	if ok {
		delete(s.files, tempID)
	}
	s.mu.Unlock()

	if !ok {
		var err error
		meta, err = s.readMeta(tempID)
		if err != nil {
			return nil, ErrNotFound
		}
	}

	dest := filepath.Join(s.dir, tempID)
	f, err := os.Open(dest)
	if err != nil {
		return nil, ErrNotFound
	}

	return &File{
		ID:          tempID,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		Path:        dest,
		Reader:      &consumingReader{File: f, path: dest, metaPath: s.metaPath(tempID)},
	}, nil
}

// Cleanup removes staged files older than maxAge, including orphans
// left behind by a previous process. It does not recurse into
// subdirectories.
func (s *DiskStore) Cleanup(_ context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	for tempID, meta := range s.files {
		if meta.CreatedAt.Before(cutoff) {
			delete(s.files, tempID)
			os.Remove(filepath.Join(s.dir, tempID))
			os.Remove(s.metaPath(tempID))
		}
	}
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}

func (s *DiskStore) metaPath(tempID string) string {
	return filepath.Join(s.dir, tempID+".meta")
}

func (s *DiskStore) writeMeta(tempID string, meta *diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(tempID), data, 0o644)
}

func (s *DiskStore) readMeta(tempID string) (*diskMeta, error) {
	data, err := os.ReadFile(s.metaPath(tempID))
	if err != nil {
		return nil, err
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// newTempID returns a 32-character random hex ID.
func newTempID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// validTempID rejects anything that is not a hex ID from newTempID,
// which keeps path traversal out of Claim.
func validTempID(id string) bool {
	if len(id) != 32 {
		return false
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// consumingReader deletes the staged file and its sidecar on close.
type consumingReader struct {
	*os.File
	path     string
	metaPath string
}

func (r *consumingReader) Close() error {
	err := r.File.Close()
	os.Remove(r.path)
	os.Remove(r.metaPath)
	return err
}
