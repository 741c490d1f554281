package cas

import (
	"net/url"
	"strconv"
	"time"
)

// RetryParam is the query parameter marking a request as an automatic
// retry after a rejected ticket.
const RetryParam = "_casRetry"

const retryWindowSeconds = 60

// RetryController implements the stale ticket recovery. The dominant real
// world validation failure is a consumed or expired ticket left in a
// bookmarked or refreshed URL; redirecting once back to the service URL
// without the ticket lets the SSO flow issue a fresh one. The retry marker
// carries a coarse time token so a ticket that keeps failing inside the
// same window is surfaced instead of looping.
type RetryController struct {
	now func() time.Time
}

func NewRetryController() *RetryController {
	return &RetryController{now: time.Now}
}

// Decide inspects the URL of a failed request and reports whether a
// bounded retry is still available. When it is, the returned target is the
// original URL with the ticket stripped and the retry marker attached.
func (rc *RetryController) Decide(requestURL *url.URL) (target string, retry bool) {
	token := rc.token()
	q := requestURL.Query()
	if q.Get(RetryParam) == token {
		// already retried within this window, surface the failure
		return "", false
	}
	q.Del("ticket")
	q.Set(RetryParam, token)
	u := *requestURL
	u.RawQuery = q.Encode()
	return u.String(), true
}

func (rc *RetryController) token() string {
	return strconv.FormatInt(rc.now().Unix()/retryWindowSeconds, 10)
}
