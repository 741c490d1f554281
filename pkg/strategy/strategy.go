package strategy

import (
	stderrors "errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casware/gocas/pkg/cas"
	"github.com/casware/gocas/pkg/config"
	"github.com/casware/gocas/pkg/log"
	"github.com/casware/gocas/pkg/middleware"
	"github.com/casware/gocas/pkg/profile"
	"github.com/casware/gocas/pkg/session"
)

// UserKey holds the verified application user in the gin context.
const UserKey = "gocas.user"

// VerifyFunc decides what application user a validated subject maps to.
// Returning a nil user without an error rejects the authentication.
type VerifyFunc func(subject string, p *profile.Profile) (user interface{}, err error)

// VerifyWithRequestFunc is VerifyFunc with the incoming request passed
// through, for callbacks that need request context. Selected by the
// passReqToCallback configuration flag.
type VerifyWithRequestFunc func(r *http.Request, subject string, p *profile.Profile) (user interface{}, err error)

// Strategy authenticates requests against a CAS server. It forwards the
// service ticket for validation, normalizes the asserted attributes into a
// profile and hands the result to the verify callback. Requests without a
// ticket are redirected to the CAS login page; rejected tickets get one
// bounded retry, see cas.RetryController.
type Strategy struct {
	client     *cas.Client
	normalizer *profile.Normalizer
	retry      *cas.RetryController
	sessions   session.Service
	serviceURL string
	verify     VerifyFunc
	verifyReq  VerifyWithRequestFunc
	logger     logrus.FieldLogger
}

func New(conf config.Config, sessions session.Service, verify VerifyFunc) (*Strategy, error) {
	if verify == nil {
		return nil, cas.NewConfigError("verify callback is required")
	}
	s, err := newStrategy(conf, sessions)
	if err != nil {
		return nil, err
	}
	s.verify = verify
	return s, nil
}

// NewWithRequest builds a strategy whose verify callback receives the
// incoming request, matching passReqToCallback configurations.
func NewWithRequest(conf config.Config, sessions session.Service, verify VerifyWithRequestFunc) (*Strategy, error) {
	if verify == nil {
		return nil, cas.NewConfigError("verify callback is required")
	}
	s, err := newStrategy(conf, sessions)
	if err != nil {
		return nil, err
	}
	s.verifyReq = verify
	return s, nil
}

func newStrategy(conf config.Config, sessions session.Service) (*Strategy, error) {
	client, err := cas.NewClient(conf.Cas.URL, cas.Options{
		Timeout:          time.Duration(conf.Cas.TimeoutSeconds) * time.Second,
		MaxResponseBytes: conf.Cas.MaxResponseBytes,
		SkipTLSVerify:    conf.Cas.SkipTLSVerify,
	})
	if err != nil {
		return nil, err
	}
	normalizer, err := profile.NewNormalizer(conf.PropertyMap)
	if err != nil {
		return nil, err
	}
	return &Strategy{
		client:     client,
		normalizer: normalizer,
		retry:      cas.NewRetryController(),
		sessions:   sessions,
		serviceURL: conf.Cas.ServiceURL,
		logger:     log.WithField("module", "strategy"),
	}, nil
}

// Client exposes the underlying CAS client, for logout URL construction.
func (s *Strategy) Client() *cas.Client {
	return s.client
}

// Middleware returns the gin handler guarding a route group. Requests with
// a valid session cookie pass through; everything else goes through the
// ticket validation flow.
func (s *Strategy) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Request.Cookie(session.CookieName); err == nil && s.sessions.Valid(cookie.Value) {
			c.Next()
			return
		}

		service := s.service(c)
		ticket := c.Query("ticket")
		if ticket == "" {
			Redirect(c, s.client.LoginURL(service))
			c.Abort()
			return
		}

		result, err := s.client.ValidateTicket(c.Request.Context(), ticket, service)
		if err != nil {
			s.fail(c, err)
			return
		}

		p := s.normalizer.Normalize(result.Subject, result.Attributes)
		user, err := s.callVerify(c.Request, result.Subject, p)
		if err != nil {
			s.logger.Errorf("verify callback failed for %s: %v", result.Subject, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}
		if user == nil {
			s.logger.Warnf("verify callback rejected subject %s", result.Subject)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail"})
			return
		}

		token, err := s.sessions.CreateUserSession(result.Subject, p.Extra)
		if err != nil {
			s.logger.Errorf("error creating session for %s: %v", result.Subject, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}
		c.SetCookie(session.CookieName, token, 0, "/", "", false, true)
		c.Set(UserKey, user)
		c.Next()
	}
}

func (s *Strategy) callVerify(r *http.Request, subject string, p *profile.Profile) (interface{}, error) {
	if s.verifyReq != nil {
		return s.verifyReq(r, subject, p)
	}
	return s.verify(subject, p)
}

// service returns the CAS service URL for the current request: the
// configured one when set, otherwise the request URL with the ticket
// parameter stripped. The retry marker stays in: the CAS server echoes
// the service URL back with a fresh ticket, and only a marker that
// survives that round trip can stop a second redirect.
func (s *Strategy) service(c *gin.Context) string {
	if s.serviceURL != "" {
		return s.serviceURL
	}
	requestURI := middleware.GetRequestURI(c)
	u, err := url.Parse(requestURI)
	if err != nil {
		return requestURI
	}
	q := u.Query()
	q.Del("ticket")
	u.RawQuery = q.Encode()
	return u.String()
}

// fail applies the stale ticket recovery. Protocol failures get a single
// redirect back to the original URL within the retry window; anything
// further, and transport or parse failures, are terminal.
func (s *Strategy) fail(c *gin.Context, err error) {
	var perr *cas.ProtocolError
	if stderrors.As(err, &perr) {
		if requestURL, parseErr := url.Parse(middleware.GetRequestURI(c)); parseErr == nil {
			if target, retry := s.retry.Decide(requestURL); retry {
				s.logger.Infof("ticket rejected (%s), retrying once", perr.Code)
				Redirect(c, target)
				c.Abort()
				return
			}
		}
		s.logger.Warnf("ticket validation failed: %v", perr)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail"})
		return
	}

	var parseError *cas.ParseError
	if stderrors.As(err, &parseError) {
		// raw payload stays in the logs, never in the response
		s.logger.WithField("raw", truncate(parseError.Raw, 512)).Debug("unparseable validation response")
	}
	s.logger.Errorf("ticket validation error: %v", err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail"})
}

// Redirect emits a 307 with an HTML anchor fallback for clients that
// render the body instead of following the Location header.
func Redirect(c *gin.Context, location string) {
	c.Header("Location", location)
	body := fmt.Sprintf(`<html><body>Authentication in progress... <a href="%s">continue</a></body></html>`,
		html.EscapeString(location))
	c.Data(http.StatusTemporaryRedirect, "text/html; charset=utf-8", []byte(body))
}

func truncate(raw []byte, max int) string {
	if len(raw) > max {
		raw = raw[:max]
	}
	return string(raw)
}
