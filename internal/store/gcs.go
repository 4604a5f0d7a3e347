package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultGCSObject is the object name used when none is configured.
const DefaultGCSObject = "market_products.json"

// GCSConfig locates the list in a Cloud Storage bucket.
type GCSConfig struct {
	Bucket string
	Object string
	// Endpoint overrides the storage API endpoint, e.g. for an emulator.
	Endpoint string
}

// GCSStore keeps the list in a single object. The revision is the object
// generation and saves are conditional writes on it.
type GCSStore struct {
	cfg    GCSConfig
	client *storage.Client
	logger logging.Logger
}

// NewGCSStore connects to Cloud Storage using application default credentials.
func NewGCSStore(ctx context.Context, cfg GCSConfig, logger logging.Logger) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs store: bucket: %w", ErrStoreNotConfigured)
	}
	if cfg.Object == "" {
		cfg.Object = DefaultGCSObject
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{cfg: cfg, client: client, logger: logger}, nil
}

// Name implements Store.
func (s *GCSStore) Name() string { return BackendGCS }

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) object() *storage.ObjectHandle {
	return s.client.Bucket(s.cfg.Bucket).Object(s.cfg.Object)
}

// Load implements Store.
func (s *GCSStore) Load(ctx context.Context) ([]string, string, error) {
	r, err := s.object().NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return []string{}, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gs://%s/%s: %w", s.cfg.Bucket, s.cfg.Object, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read gs://%s/%s: %w", s.cfg.Bucket, s.cfg.Object, err)
	}
	items, err := Decode(data)
	if err != nil {
		return nil, "", err
	}
	return items, formatGeneration(r.Attrs.Generation), nil
}

// Save implements Store.
func (s *GCSStore) Save(ctx context.Context, items []string, revision string) (string, error) {
	cond, err := writeConditions(revision)
	if err != nil {
		return "", err
	}
	data, err := Encode(items)
	if err != nil {
		return "", err
	}

	w := s.object().If(cond).NewWriter(ctx)
	w.ContentType = "application/json; charset=utf-8"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", mapGCSError(err)
	}
	if err := w.Close(); err != nil {
		return "", mapGCSError(err)
	}

	gen := formatGeneration(w.Attrs().Generation)
	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(items)},
		logging.Field{Key: logging.FieldRevision, Value: gen},
	).Info("Saved market list to Cloud Storage")
	return gen, nil
}

// writeConditions turns a revision into a precondition: an empty revision
// requires the object to be absent.
func writeConditions(revision string) (storage.Conditions, error) {
	if revision == "" {
		return storage.Conditions{DoesNotExist: true}, nil
	}
	gen, err := strconv.ParseInt(revision, 10, 64)
	if err != nil || gen <= 0 {
		return storage.Conditions{}, fmt.Errorf("invalid object generation %q", revision)
	}
	return storage.Conditions{GenerationMatch: gen}, nil
}

func formatGeneration(gen int64) string {
	if gen == 0 {
		return ""
	}
	return strconv.FormatInt(gen, 10)
}

func mapGCSError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
		return ErrRevisionConflict
	}
	return fmt.Errorf("failed to write market list: %w", err)
}
