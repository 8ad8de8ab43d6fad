package omdb

import (
	"errors"
	"fmt"
)

// Common errors returned by the OMDb client.
var (
	// ErrAPIKeyMissing indicates the client was built without an API key.
	ErrAPIKeyMissing = errors.New("OMDb API key is required")

	// ErrUnexpectedStatus indicates a non-200 HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected status code from OMDb")
)

// UpstreamError is a business-level failure reported by the catalog itself
// (Response:"False"), as opposed to a transport failure. The message comes
// from the API verbatim and is suitable for display.
type UpstreamError struct {
	Message string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("omdb: %s", e.Message)
}

// IsUpstream reports whether err is a catalog-level failure and, if so,
// returns its user-presentable message.
func IsUpstream(err error) (string, bool) {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Message, true
	}
	return "", false
}
