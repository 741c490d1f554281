package cas

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/casware/gocas/pkg/log"
)

// Client validates service tickets against one CAS server. It is safe for
// concurrent use; all per call state lives on the stack of ValidateTicket
// and the configuration is immutable after construction.
type Client struct {
	baseURL   *url.URL
	transport *Transport
	logger    logrus.FieldLogger
}

type Options struct {
	Timeout          time.Duration
	MaxResponseBytes int64
	SkipTLSVerify    bool
}

func NewClient(casURL string, opts Options) (*Client, error) {
	base, err := ParseServerURL(casURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		transport: NewTransport(opts.Timeout, opts.MaxResponseBytes, opts.SkipTLSVerify),
		logger:    log.WithField("module", "cas"),
	}, nil
}

// ParseServerURL checks a configured CAS server URL: it must be absolute,
// https and carry a host. Anything else fails fast with a ConfigError.
func ParseServerURL(casURL string) (*url.URL, error) {
	if casURL == "" {
		return nil, NewConfigError("cas server url is required")
	}
	u, err := url.Parse(casURL)
	if err != nil {
		return nil, NewConfigError(fmt.Sprintf("invalid cas server url %q", casURL))
	}
	if u.Scheme != "https" {
		return nil, NewConfigError(fmt.Sprintf("cas server url %q must use https", casURL))
	}
	if u.Host == "" {
		return nil, NewConfigError(fmt.Sprintf("cas server url %q has no host", casURL))
	}
	return u, nil
}

// ValidateTicket exchanges a service ticket for the validated subject and
// attribute bag. The network exchange is the only blocking point; ctx
// bounds it together with the transport timeout.
func (c *Client) ValidateTicket(ctx context.Context, ticket, service string) (*ValidationResult, error) {
	vr := NewValidationRequest(ticket, service)
	req, err := vr.HTTPRequest(ctx, c.baseURL)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.Exchange(req)
	if err != nil {
		return nil, err
	}
	res, err := Parse(raw)
	if err != nil {
		c.logger.Debugf("validation of ticket %s failed: %v", ticket, err)
		return nil, err
	}
	return res, nil
}
