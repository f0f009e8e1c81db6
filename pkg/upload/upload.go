package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound is returned when a staged file does not exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrExpired is returned when a staged file has expired.
var ErrExpired = errors.New("upload: file expired")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// Store is the staging backend for form file uploads. Files sit in the
// store between the moment the client sends them and the moment the
// submission that references them is accepted.
type Store interface {
	// Save stages the file and returns its temp ID.
	Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)

	// Claim retrieves a staged file and consumes it. A second claim of
	// the same ID reports ErrNotFound.
	Claim(ctx context.Context, tempID string) (*File, error)

	// Cleanup removes staged files older than maxAge. Run it
	// periodically; abandoned forms never claim their files.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// File is a staged upload.
type File struct {
	// ID is the temp ID the file was staged under.
	ID string

	// Filename is the name the client supplied.
	Filename string

	// ContentType is the MIME type of the contents.
	ContentType string

	// Size is the file size in bytes.
	Size int64

	// Path is the local path, for disk-backed stores.
	Path string

	// URL is a presigned or public URL, for remote stores.
	URL string

	// Reader streams the contents. Claiming opens it; close it when
	// done.
	Reader io.ReadCloser
}

// Close closes the reader if one is open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// Config configures the upload handler.
type Config struct {
	// MaxFileSize caps the request body in bytes. Default: 10MB.
	MaxFileSize int64

	// AllowedTypes restricts uploads to these MIME types, matched
	// against the sniffed content, not the client's header. Empty
	// allows everything.
	AllowedTypes []string

	// TempExpiry is how long staged files live. Default: 1 hour.
	TempExpiry time.Duration
}

// DefaultConfig returns the handler defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize: 10 << 20,
		TempExpiry:  time.Hour,
	}
}

// Handler serves file uploads with the default configuration.
//
// It accepts a multipart POST with a "file" field and answers with the
// temp ID the form later submits in place of the file:
//
//	{"temp_id": "abc123"}
func Handler(store Store) http.Handler {
	return HandlerWithConfig(store, DefaultConfig())
}

// HandlerWithConfig serves file uploads with a custom configuration.
func HandlerWithConfig(store Store, config *Config) http.Handler {
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = 10 << 20
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Cap the body before parsing; multipart parsing would
		// otherwise buffer an arbitrarily large request.
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "No file provided", http.StatusBadRequest)
			return
		}
		defer file.Close()

		// Trust the bytes, not the client's Content-Type header.
		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			http.Error(w, "Failed to read file", http.StatusBadRequest)
			return
		}
		head = head[:n]
		contentType := sniffType(head, header.Header.Get("Content-Type"))

		if !typeAllowed(contentType, config.AllowedTypes) {
			http.Error(w, "Unsupported file type", http.StatusUnsupportedMediaType)
			return
		}

		body := io.MultiReader(bytes.NewReader(head), file)
		tempID, err := store.Save(r.Context(), header.Filename, contentType, header.Size, body)
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "Upload failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"temp_id": tempID})
	})
}

// Claim retrieves a staged file by ID. Shorthand for store.Claim.
func Claim(ctx context.Context, store Store, tempID string) (*File, error) {
	return store.Claim(ctx, tempID)
}

// sniffType detects the MIME type from the leading bytes, falling back
// to the declared header only when sniffing is inconclusive.
func sniffType(head []byte, declared string) string {
	detected := http.DetectContentType(head)
	if detected == "application/octet-stream" && declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			return mt
		}
	}
	if mt, _, err := mime.ParseMediaType(detected); err == nil {
		return mt
	}
	return detected
}

// typeAllowed reports whether contentType is in the allow list.
func typeAllowed(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}
