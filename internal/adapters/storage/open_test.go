package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/campus-qa/internal/domain"
	"github.com/jsamuelsen/campus-qa/internal/platform/config"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		store    config.StoreConfig
		wantName string
	}{
		{name: "memory", store: config.StoreConfig{Backend: config.BackendMemory}, wantName: "storage.memory"},
		{name: "file", store: config.StoreConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "blobs")}, wantName: "storage.file"},
		{name: "sqlite", store: config.StoreConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "qa.db")}, wantName: "storage.sqlite"},
		{
			name: "remote",
			store: config.StoreConfig{
				Backend: config.BackendRemote,
				Remote:  config.RemoteStoreConfig{BaseURL: "http://127.0.0.1:1", Token: "t", HealthPath: "/health"},
			},
			wantName: "storage.remote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs, err := Open(context.Background(), &config.Config{Store: tt.store}, nil)
			require.NoError(t, err)

			t.Cleanup(func() { _ = blobs.Close() })

			assert.Equal(t, tt.wantName, blobs.Name())

			if tt.name == "remote" {
				return
			}

			ctx := context.Background()
			require.NoError(t, blobs.Put(ctx, "campusqa_tags", []byte(`["exam"]`)))

			got, err := blobs.Get(ctx, "campusqa_tags")
			require.NoError(t, err)
			assert.JSONEq(t, `["exam"]`, string(got))

			_, err = blobs.Get(ctx, "campusqa_questions")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "s3"}}, nil)
	assert.ErrorContains(t, err, `unknown storage backend "s3"`)
}
