package store

import (
	"context"
	"fmt"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	FilePath string
	GitHub   GitHubConfig
	GCS      GCSConfig
}

// New builds the backend named by opts.Backend.
func New(ctx context.Context, opts Options, logger logging.Logger) (Store, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithField(logging.FieldBackend, opts.Backend)

	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.FilePath, logger), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendGitHub:
		return NewGitHubStore(opts.GitHub, logger)
	case BackendGCS:
		return NewGCSStore(ctx, opts.GCS, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
