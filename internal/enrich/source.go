package enrich

import (
	"fmt"
	"io"
	"os"
)

// SourceProvider reads exact byte ranges out of source files. The walker
// needs it only for comment-mark nodes, whose text the service reports by
// range but never by content.
type SourceProvider interface {
	ReadRange(path string, offset, length int) (string, error)
}

// FileSource reads ranges straight from the filesystem. Each read opens and
// closes the file around extracting the range; nothing is held open between
// calls.
type FileSource struct{}

// ReadRange implements SourceProvider. A range that extends past the end of
// the file is an error, not a truncated result.
func (FileSource) ReadRange(path string, offset, length int) (string, error) {
	if offset < 0 || length < 0 {
		return "", fmt.Errorf("negative range [%d,%d)", offset, offset+length)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		return "", err
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", fmt.Errorf("range [%d,%d) out of bounds: %w", offset, offset+length, err)
	}
	return string(buf), nil
}
