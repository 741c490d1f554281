package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casware/gocas/pkg/cas"
	"github.com/casware/gocas/pkg/log"
	"github.com/casware/gocas/pkg/session"
	"github.com/casware/gocas/pkg/strategy"
)

// LogoutController clears the local session and redirects to the CAS
// server side logout. Three forms are selectable by the caller: bare
// logout, logout with a clickable return link (?url=) and logout with a
// server driven redirect back to the service (?service=).
type LogoutController struct {
	client *cas.Client
	logger logrus.FieldLogger
}

func NewLogoutController(client *cas.Client) *LogoutController {
	return &LogoutController{
		client: client,
		logger: log.WithField("module", "LogoutController"),
	}
}

func (lc *LogoutController) Logout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)

	var target string
	switch {
	case c.Query("service") != "":
		target = lc.client.LogoutURLWithRedirect(c.Query("service"))
	case c.Query("url") != "":
		target = lc.client.LogoutURLWithLink(c.Query("url"))
	default:
		target = lc.client.LogoutURL()
	}
	lc.logger.Debugf("logout redirect to %s", target)
	strategy.Redirect(c, target)
}
