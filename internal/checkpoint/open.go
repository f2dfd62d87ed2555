package checkpoint

import (
	"fmt"

	"github.com/spf13/afero"
)

// Backend names a Store implementation in the repo config
type Backend string

const (
	// BackendFile stores the checkpoint as a JSON file
	BackendFile Backend = "file"
	// BackendSQLite stores checkpoints in a sqlite journal
	BackendSQLite Backend = "sqlite"
)

// Open returns the store for backend, keeping its data in gitDir
func Open(backend Backend, fs afero.Fs, gitDir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(fs, gitDir), nil
	case BackendSQLite:
		return NewSQLiteStoreInGitDir(gitDir)
	default:
		return nil, fmt.Errorf("unknown checkpoint backend %q", backend)
	}
}
