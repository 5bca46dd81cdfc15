// Package requestfile loads hand-written service requests from YAML or CUE
// files. The loaded tree keeps the author's key order, since the service's
// replies are rendered back in request-correlated order and a shuffled
// request makes diffs useless.
package requestfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skout-dev/skout/internal/variant"
)

// ErrUnknownFormat is returned for file extensions Load does not handle.
var ErrUnknownFormat = errors.New("requestfile: unknown file extension")

// Load reads a request file and converts it to a request dictionary.
// The format is chosen by extension: .yml/.yaml or .cue.
func Load(path string) (*variant.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		req, err := parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return req, nil
	case ".cue":
		req, err := parseCUE(data, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return req, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
