package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextIDs(t *testing.T) {
	tests := []struct {
		name          string
		requestID     string
		correlationID string
	}{
		{"both set", "request-123", "correlation-456"},
		{"empty values", "", ""},
		{"uuid format", "550e8400-e29b-41d4-a716-446655440000", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRequestID(context.Background(), tt.requestID)
			ctx = ContextWithCorrelationID(ctx, tt.correlationID)

			assert.Equal(t, tt.requestID, RequestIDFromContext(ctx))
			assert.Equal(t, tt.correlationID, CorrelationIDFromContext(ctx))
		})
	}
}
