package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/getstubd/stubd/pkg/util"
)

// FileReader is the file-read capability the materializer needs for the
// file body kind. Implementations return the file's raw bytes or an error
// when the file is missing or unreadable.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// osFileReader reads files from the local filesystem. Relative paths are
// resolved against baseDir when set, otherwise against the process working
// directory. Traversal via ".." is rejected; absolute paths are allowed
// because file references are config-sourced.
type osFileReader struct {
	baseDir string
}

// NewOSFileReader creates a FileReader backed by the local filesystem.
func NewOSFileReader(baseDir string) FileReader {
	return &osFileReader{baseDir: baseDir}
}

func (f *osFileReader) ReadFile(path string) ([]byte, error) {
	clean, safe := util.SafeFilePathAllowAbsolute(path)
	if !safe {
		return nil, fmt.Errorf("unsafe file path: %s", path)
	}
	if !filepath.IsAbs(clean) && f.baseDir != "" {
		clean = filepath.Join(f.baseDir, clean)
	}
	return os.ReadFile(clean)
}
