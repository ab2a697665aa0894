package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/astar-state/pkg/failure"
)

// StdinPath is the conventional path meaning "read from standard input".
const StdinPath = "-"

// GetFileExtension extracts the lower-cased file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// EnsureDir creates dir joined with the optional path elements, including
// any missing parents.
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	target := filepath.Join(append([]string{dir}, path...)...)
	if err := os.MkdirAll(target, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}

// OpenInput opens path for reading. An empty path or StdinPath yields
// stdin, wrapped so that closing it is a no-op.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, failure.ClassifiedError) {
	if path == "" || path == StdinPath {
		return io.NopCloser(stdin), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	if info.IsDir() {
		return nil, &FileError{
			Message:   path + " is a directory",
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseOpenError,
		}
	}
	return f, nil
}
