package cas

import "strings"

// LoginURL builds the interactive login redirect target,
// {casURL}/login?service={service}.
func (c *Client) LoginURL(service string) string {
	return c.endpoint("login", "service", service)
}

// LogoutURL builds the bare logout target, no return path.
func (c *Client) LogoutURL() string {
	return c.endpoint("logout", "", "")
}

// LogoutURLWithLink builds a logout target where the CAS server renders a
// clickable link back to returnURL.
func (c *Client) LogoutURLWithLink(returnURL string) string {
	return c.endpoint("logout", "url", returnURL)
}

// LogoutURLWithRedirect builds a logout target where the CAS server
// redirects back to service on its own.
func (c *Client) LogoutURLWithRedirect(service string) string {
	return c.endpoint("logout", "service", service)
}

func (c *Client) endpoint(path, param, value string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + path
	if param != "" {
		q := u.Query()
		q.Set(param, value)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
