package acl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/campus-qa/internal/adapters/clients"
	"github.com/jsamuelsen/campus-qa/internal/domain"
	"github.com/jsamuelsen/campus-qa/internal/platform/config"
)

// fakeBlobService is an in-memory /blobs service.
type fakeBlobService struct {
	mu      sync.Mutex
	blobs   map[string]json.RawMessage
	healthy atomic.Bool
	token   string
}

func newFakeBlobService(token string) *fakeBlobService {
	f := &fakeBlobService{blobs: map[string]json.RawMessage{}, token: token}
	f.healthy.Store(true)

	return f
}

func (f *fakeBlobService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		if !f.healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /blobs/{key}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		data, ok := f.blobs[r.PathValue("key")]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no such blob"}}`))
			return
		}

		_ = json.NewEncoder(w).Encode(blobEnvelope{Key: r.PathValue("key"), Data: data})
	})

	mux.HandleFunc("PUT /blobs/{key}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad token"}`))
			return
		}

		var env blobEnvelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.blobs[r.PathValue("key")] = env.Data
		f.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("DELETE /blobs/{key}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		_, ok := f.blobs[r.PathValue("key")]
		delete(f.blobs, r.PathValue("key"))
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func newTestBlobClient(t *testing.T, srv *httptest.Server, token string) *BlobClient {
	t.Helper()

	c, err := clients.New(&clients.Config{
		BaseURL:     srv.URL,
		ServiceName: "blob-service",
		Timeout:     time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{MaxFailures: 10, Timeout: time.Second, HalfOpenLimit: 1},
		AuthFunc: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		},
	})
	require.NoError(t, err)

	return NewBlobClient(BlobClientConfig{Client: c})
}

func TestBlobClient_RoundTrip(t *testing.T) {
	fake := newFakeBlobService("s3cret")
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	c := newTestBlobClient(t, srv, "s3cret")
	ctx := context.Background()

	_, err := c.Get(ctx, "campusqa_questions")
	require.ErrorIs(t, err, domain.ErrNotFound)

	payload := []byte(`[{"id":"q1","author":"Alice"}]`)
	require.NoError(t, c.Put(ctx, "campusqa_questions", payload))

	got, err := c.Get(ctx, "campusqa_questions")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got))

	require.NoError(t, c.Delete(ctx, "campusqa_questions"))
	require.NoError(t, c.Delete(ctx, "campusqa_questions"), "deleting a missing blob is not an error")

	_, err = c.Get(ctx, "campusqa_questions")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlobClient_PutRejectsInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(newFakeBlobService("t").handler())
	t.Cleanup(srv.Close)

	err := newTestBlobClient(t, srv, "t").Put(context.Background(), "k", []byte("{not json"))
	require.ErrorContains(t, err, "not valid JSON")
}

func TestBlobClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(newFakeBlobService("right").handler())
	t.Cleanup(srv.Close)

	err := newTestBlobClient(t, srv, "wrong").Put(context.Background(), "k", []byte(`[]`))
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "bad token")
}

func TestBlobClient_Check(t *testing.T) {
	fake := newFakeBlobService("t")
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	c := newTestBlobClient(t, srv, "t")
	assert.Equal(t, "storage.remote", c.Name())
	require.NoError(t, c.Check(context.Background()))

	fake.healthy.Store(false)
	require.ErrorIs(t, c.Check(context.Background()), domain.ErrUnavailable)
	require.NoError(t, c.Close())
}

func TestBlobClient_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestBlobClient(t, srv, "t")
	srv.Close()

	_, err := c.Get(context.Background(), "campusqa_tags")
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "ok", status: http.StatusOK, wantErr: nil},
		{name: "not found", status: http.StatusNotFound, wantErr: domain.ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, wantErr: domain.ErrForbidden},
		{name: "bad request", status: http.StatusBadRequest, wantErr: domain.ErrValidation},
		{name: "conflict", status: http.StatusConflict, wantErr: domain.ErrUnavailable},
		{name: "too many requests", status: http.StatusTooManyRequests, wantErr: domain.ErrUnavailable},
		{name: "server error", status: http.StatusBadGateway, wantErr: domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapHTTPError(&http.Response{StatusCode: tt.status}, nil, backendName, "get blob", "k")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.ErrorIs(t, mapHTTPError(nil, clients.ErrCircuitOpen, backendName, "get blob", "k"), domain.ErrUnavailable)
	assert.ErrorIs(t, mapHTTPError(nil, nil, backendName, "get blob", "k"), domain.ErrUnavailable)
}
