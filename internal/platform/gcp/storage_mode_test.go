package gcp

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

func setStorageEnv(t *testing.T, mode, bucket, emulator string) {
	t.Helper()
	t.Setenv("OBJECT_STORAGE_MODE", mode)
	t.Setenv("ASSET_GCS_BUCKET_NAME", bucket)
	t.Setenv("STORAGE_EMULATOR_HOST", emulator)
}

func TestResolveObjectStorageConfigFromEnvDefaults(t *testing.T) {
	cases := []struct {
		name     string
		bucket   string
		emulator string
		want     ObjectStorageMode
	}{
		{"nothing set", "", "", ObjectStorageModeDisabled},
		{"bucket only", "assets", "", ObjectStorageModeGCS},
		{"bucket and emulator", "assets", "http://fake-gcs:4443/", ObjectStorageModeGCSEmulator},
		{"emulator without bucket", "", "http://fake-gcs:4443", ObjectStorageModeDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setStorageEnv(t, "", tc.bucket, tc.emulator)
			cfg, err := ResolveObjectStorageConfigFromEnv()
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
			}
			if cfg.Mode != tc.want {
				t.Fatalf("mode: want=%q got=%q", tc.want, cfg.Mode)
			}
		})
	}
}

func TestResolveObjectStorageConfigFromEnvErrors(t *testing.T) {
	cases := []struct {
		name     string
		mode     string
		bucket   string
		emulator string
		code     ObjectStorageConfigErrorCode
	}{
		{"invalid mode", "local", "", "", ObjectStorageConfigErrorInvalidMode},
		{"gcs without bucket", "gcs", "", "", ObjectStorageConfigErrorMissingBucket},
		{"emulator without host", "gcs_emulator", "assets", "", ObjectStorageConfigErrorMissingEmulatorHost},
		{"emulator bad host", "gcs_emulator", "assets", "fake-gcs:4443", ObjectStorageConfigErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setStorageEnv(t, tc.mode, tc.bucket, tc.emulator)
			_, err := ResolveObjectStorageConfigFromEnv()
			var cfgErr *ObjectStorageConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ObjectStorageConfigError, got %v", err)
			}
			if cfgErr.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, cfgErr.Code)
			}
			if cfgErr.Error() == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

func TestNewAssetStoreDisabledIsNoop(t *testing.T) {
	store, err := NewAssetStore(context.Background(), logger.NewNop(), ObjectStorageConfig{Mode: ObjectStorageModeDisabled})
	if err != nil {
		t.Fatalf("NewAssetStore: %v", err)
	}
	n, err := store.DeleteObjects(context.Background(), []string{"a", "b"})
	if err != nil || n != 0 {
		t.Fatalf("noop DeleteObjects: n=%d err=%v", n, err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := NewAssetStore(context.Background(), logger.NewNop(), ObjectStorageConfig{Mode: ObjectStorageModeGCS}); err == nil {
		t.Fatalf("expected validation error without bucket")
	}
}
