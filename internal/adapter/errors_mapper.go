package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError converts a non-2xx response into one of the package sentinels.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case code == http.StatusConflict, code == http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %s", ErrConflictRejected, body)
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity, code == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", ErrValidation, body)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout, code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransientNetwork, code, body)
	default:
		return fmt.Errorf("http %d: %s", code, body)
	}
}

// mapTransportError wraps an error returned before any response was read
// (DNS, refused connection, timeout) as transient and unreachable.
func mapTransportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w: %w", op, ErrUnreachable, ErrTransientNetwork, err)
}
