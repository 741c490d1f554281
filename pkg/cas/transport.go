package cas

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultMaxResponseBytes caps how much of a validation response is
	// buffered before the exchange is aborted.
	DefaultMaxResponseBytes = 1000000

	DefaultTimeout = 5 * time.Second
)

// Transport executes the HTTPS exchange with the CAS server. The response
// is read through a size ceiling so a misbehaving server cannot make the
// client buffer without bound.
type Transport struct {
	client   *http.Client
	maxBytes int64
}

func NewTransport(timeout time.Duration, maxBytes int64, skipTLSVerify bool) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: skipTLSVerify,
			},
		},
	}
	return &Transport{client: client, maxBytes: maxBytes}
}

// Exchange sends the request and returns the raw response text.
// Connection failures, timeouts, unexpected statuses and oversized bodies
// all surface as TransportError, never as parse failures.
func (t *Transport) Exchange(req *http.Request) ([]byte, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, NewTransportError("validation request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewTransportError(fmt.Sprintf("unexpected response status %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes+1))
	if err != nil {
		return nil, NewTransportError("error reading validation response", err)
	}
	if int64(len(body)) > t.maxBytes {
		return nil, NewTransportError(fmt.Sprintf("validation response exceeds %d bytes", t.maxBytes), nil)
	}
	return body, nil
}
