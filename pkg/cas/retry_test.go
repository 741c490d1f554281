package cas

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryFirstFailureRedirects(t *testing.T) {
	rc := &RetryController{now: func() time.Time { return time.Unix(1000*60, 0) }}

	requestURL, err := url.Parse("http://app.example.org/page?ticket=ST-stale&x=1")
	require.NoError(t, err)

	target, retry := rc.Decide(requestURL)
	require.True(t, retry)

	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("ticket"))
	assert.Equal(t, "1000", u.Query().Get(RetryParam))
	assert.Equal(t, "1", u.Query().Get("x"))
	assert.Equal(t, "/page", u.Path)
}

func TestRetrySameWindowIsTerminal(t *testing.T) {
	rc := &RetryController{now: func() time.Time { return time.Unix(1000*60+30, 0) }}

	requestURL, err := url.Parse("http://app.example.org/page?ticket=ST-bad&" + RetryParam + "=1000")
	require.NoError(t, err)

	_, retry := rc.Decide(requestURL)
	assert.False(t, retry)
}

func TestRetryStaleMarkerRedirectsAgain(t *testing.T) {
	// a marker from an earlier window does not block a new retry
	rc := &RetryController{now: func() time.Time { return time.Unix(2000*60, 0) }}

	requestURL, err := url.Parse("http://app.example.org/page?ticket=ST-old&" + RetryParam + "=1000")
	require.NoError(t, err)

	target, retry := rc.Decide(requestURL)
	require.True(t, retry)

	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, "2000", u.Query().Get(RetryParam))
}
