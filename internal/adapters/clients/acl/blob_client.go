package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jsamuelsen/campus-qa/internal/adapters/clients"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
)

const backendName = "remote"

// DefaultHealthPath is probed by Check.
const DefaultHealthPath = "/health"

// BlobClientConfig holds dependencies for a BlobClient.
type BlobClientConfig struct {
	// Client must have BaseURL set to the blob service root.
	Client *clients.Client

	// HealthPath defaults to DefaultHealthPath.
	HealthPath string

	Logger *slog.Logger
}

// BlobClient implements ports.BlobStore over a remote HTTP key/value service:
//
//	GET    /blobs/{key}  -> 200 {"key":..., "data":<json>, "updatedAt":...} | 404
//	PUT    /blobs/{key}  <- {"data":<json>}
//	DELETE /blobs/{key}
type BlobClient struct {
	client     *clients.Client
	healthPath string
	logger     *slog.Logger
}

// NewBlobClient creates the adapter. Panics if Client is nil.
func NewBlobClient(cfg BlobClientConfig) *BlobClient {
	if cfg.Client == nil {
		panic("BlobClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	healthPath := cfg.HealthPath
	if healthPath == "" {
		healthPath = DefaultHealthPath
	}

	return &BlobClient{client: cfg.Client, healthPath: healthPath, logger: logger}
}

// blobEnvelope is the remote representation of a blob.
type blobEnvelope struct {
	Key       string          `json:"key,omitempty"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

func blobPath(key string) string {
	return "/blobs/" + url.PathEscape(key)
}

// Get fetches the blob for key.
func (c *BlobClient) Get(ctx context.Context, key string) ([]byte, error) {
	c.logger.Log(ctx, logging.LevelTrace, "remote get", slog.String("key", key))

	resp, err := c.client.Get(ctx, blobPath(key))
	if err != nil {
		return nil, mapHTTPError(nil, err, backendName, "get blob", key)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, mapHTTPError(resp, nil, backendName, "get blob", key)
	}

	var env blobEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding blob %s: %w", key, err)
	}

	return env.Data, nil
}

// Put stores value under key. value must be JSON.
func (c *BlobClient) Put(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("blob %s is not valid JSON", key)
	}

	body, err := json.Marshal(blobEnvelope{Data: value})
	if err != nil {
		return fmt.Errorf("encoding blob %s: %w", key, err)
	}

	resp, err := c.client.Put(ctx, blobPath(key), body)
	if err != nil {
		return mapHTTPError(nil, err, backendName, "put blob", key)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := mapHTTPError(resp, nil, backendName, "put blob", key); err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Delete removes key; a 404 counts as success.
func (c *BlobClient) Delete(ctx context.Context, key string) error {
	resp, err := c.client.Delete(ctx, blobPath(key))
	if err != nil {
		return mapHTTPError(nil, err, backendName, "delete blob", key)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	return mapHTTPError(resp, nil, backendName, "delete blob", key)
}

// Name implements ports.HealthChecker.
func (c *BlobClient) Name() string { return "storage.remote" }

// Check probes the health path.
func (c *BlobClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, c.healthPath)
	if err != nil {
		return mapHTTPError(nil, err, backendName, "health check", "")
	}
	defer func() { _ = resp.Body.Close() }()

	return mapHTTPError(resp, nil, backendName, "health check", "")
}

// Close is a no-op; the HTTP transport is shared.
func (c *BlobClient) Close() error { return nil }
