package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casware/gocas/pkg/log"
	"github.com/casware/gocas/pkg/session"
)

// SessionController serves the claims of the current session token.
type SessionController struct {
	sessions session.Service
	logger   logrus.FieldLogger
}

func NewSessionController(sessions session.Service) *SessionController {
	return &SessionController{
		sessions: sessions,
		logger:   log.WithField("module", "SessionController"),
	}
}

func (sc *SessionController) SessionInfo(c *gin.Context) {
	var token string
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader != "" { //from header
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" { //from cookie
		cookie, err := c.Request.Cookie(session.CookieName)
		if err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		sc.logger.Warn("session not found in the request")
		sc.generateErrorResponse(c)
		return
	}
	claims, err := sc.sessions.GetSessionData(token)
	if err != nil {
		sc.logger.Warnf("error validating session token: %v", err)
		sc.generateErrorResponse(c)
		return
	}
	c.JSON(200, claims)
}

func (sc *SessionController) generateErrorResponse(c *gin.Context) {
	c.JSON(404, gin.H{"valid": "false"})
}
