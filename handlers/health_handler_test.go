package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthzHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		ping     error
		wantCode int
		wantBody string
	}{
		{name: "ok", wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "db down", ping: errors.New("connection refused"), wantCode: http.StatusServiceUnavailable, wantBody: `{"error":"database unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDeadline bool
			h := NewHealthHandler(pingerFunc(func(ctx context.Context) error {
				_, gotDeadline = ctx.Deadline()
				return tt.ping
			}), logger)

			rec := httptest.NewRecorder()
			h.HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.True(t, gotDeadline, "ping must be bounded by a timeout")
		})
	}
}
