package gcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

const deleteTimeout = 30 * time.Second

// AssetStore removes stored reference asset objects.
type AssetStore interface {
	// DeleteObjects deletes every key and reports how many were removed.
	// Missing objects count as removed. The returned error joins per-key failures.
	DeleteObjects(ctx context.Context, keys []string) (int, error)
	Close() error
}

type gcsAssetStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

// NewAssetStore returns a GCS-backed store, or a no-op store when storage is disabled.
func NewAssetStore(ctx context.Context, log *logger.Logger, cfg ObjectStorageConfig) (AssetStore, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	if !cfg.Enabled() {
		return NoopAssetStore{}, nil
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	storeLog := log.With("service", "AssetStore")
	storeLog.Info("Object storage initialized", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return &gcsAssetStore{log: storeLog, client: client, bucket: cfg.Bucket}, nil
}

func newStorageClient(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	if cfg.Mode == ObjectStorageModeGCSEmulator {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (s *gcsAssetStore) DeleteObjects(ctx context.Context, keys []string) (int, error) {
	var errs []error
	deleted := 0
	for _, key := range keys {
		key = strings.TrimLeft(strings.TrimSpace(key), "/")
		if key == "" {
			continue
		}
		if err := s.deleteOne(ctx, key); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}

func (s *gcsAssetStore) deleteOne(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err == nil || errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return fmt.Errorf("delete GCS object %q in bucket %q: %w", key, s.bucket, err)
}

func (s *gcsAssetStore) Close() error { return s.client.Close() }

// NoopAssetStore is used when object storage is disabled.
type NoopAssetStore struct{}

func (NoopAssetStore) DeleteObjects(context.Context, []string) (int, error) { return 0, nil }
func (NoopAssetStore) Close() error                                         { return nil }
