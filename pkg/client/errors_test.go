package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"internal server error", http.StatusInternalServerError},
		{"bad gateway", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Status: http.StatusText(tt.status)}
			err := classifyStatus(resp)
			if err.Kind != feed.KindServer {
				t.Errorf("Kind = %v, want %v", err.Kind, feed.KindServer)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
		})
	}
}

func TestClassifyTransport(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		err      error
		wantKind feed.ErrorKind
	}{
		{
			name:     "connection failure",
			ctx:      context.Background(),
			err:      errors.New("connection refused"),
			wantKind: feed.KindTransport,
		},
		{
			name:     "truncated body",
			ctx:      context.Background(),
			err:      io.ErrUnexpectedEOF,
			wantKind: feed.KindTransport,
		},
		{
			name:     "context cancelled",
			ctx:      cancelled,
			err:      errors.New("request aborted"),
			wantKind: feed.KindCanceled,
		},
		{
			name:     "wrapped context canceled",
			ctx:      context.Background(),
			err:      context.Canceled,
			wantKind: feed.KindCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyTransport(tt.ctx, tt.err)
			if err.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", err.Kind, tt.wantKind)
			}
			if tt.wantKind == feed.KindCanceled && !feed.IsCanceled(err) {
				t.Error("IsCanceled() = false for canceled kind")
			}
		})
	}
}

func TestClassifyTransport_KeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: no route to host")
	err := classifyTransport(context.Background(), cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, err = %v", err)
	}
}
