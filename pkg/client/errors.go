package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// ErrNotModified is returned internally when a conditional request has no cached entry to reuse.
var ErrNotModified = errors.New("not modified without cached entry")

// classifyStatus maps a non-2xx response to a feed.NetworkError.
func classifyStatus(resp *http.Response) *feed.NetworkError {
	return &feed.NetworkError{
		Kind:       feed.KindServer,
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}
}

// classifyTransport maps an error from http.Client.Do or a body read.
// Context cancellation becomes KindCanceled, everything else KindTransport.
func classifyTransport(ctx context.Context, err error) *feed.NetworkError {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		cause := ctx.Err()
		if cause == nil {
			cause = err
		}
		return feed.NewCanceledError(cause)
	}
	return &feed.NetworkError{Kind: feed.KindTransport, Err: err}
}

func invalidRequest(msg string) *feed.NetworkError {
	return &feed.NetworkError{Kind: feed.KindInvalidRequest, Message: msg}
}

func decodeError(msg string, err error) *feed.NetworkError {
	return &feed.NetworkError{Kind: feed.KindDecode, Message: msg, Err: err}
}
