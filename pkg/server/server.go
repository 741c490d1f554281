package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	cors "github.com/rs/cors/wrapper/gin"

	"github.com/casware/gocas/pkg/config"
	"github.com/casware/gocas/pkg/controller"
	"github.com/casware/gocas/pkg/middleware"
	"github.com/casware/gocas/pkg/profile"
	"github.com/casware/gocas/pkg/session"
	"github.com/casware/gocas/pkg/strategy"
	"github.com/casware/gocas/pkg/user"
)

func SetupRouter(conf config.Config) (*gin.Engine, error) {
	router := gin.Default()
	c := cors.New(cors.Options{
		AllowedOrigins:   conf.Server.Cors.AllowedOrigins,
		AllowCredentials: true,
		Debug:            gin.IsDebugging(),
	})
	router.Use(c, middleware.NewRequestURIMiddleware())

	sessions, err := session.NewService(conf.Session)
	if err != nil {
		return nil, err
	}
	users := user.NewService()

	st, err := newStrategy(conf, sessions, users)
	if err != nil {
		return nil, err
	}

	sc := controller.NewSessionController(sessions)
	lc := controller.NewLogoutController(st.Client())

	v1 := router.Group("/gocas/v1")
	{
		v1.GET("/session", sc.SessionInfo)
		v1.GET("/logout", lc.Logout)
	}

	protected := router.Group("/", st.Middleware())
	{
		protected.GET("/me", me)
	}
	return router, nil
}

func newStrategy(conf config.Config, sessions session.Service, users user.Service) (*strategy.Strategy, error) {
	if conf.Cas.PassReqToCallback {
		return strategy.NewWithRequest(conf, sessions,
			func(r *http.Request, subject string, p *profile.Profile) (interface{}, error) {
				return upsertUser(users, subject, p)
			})
	}
	return strategy.New(conf, sessions,
		func(subject string, p *profile.Profile) (interface{}, error) {
			return upsertUser(users, subject, p)
		})
}

// upsertUser is the default verify callback: every validated subject
// becomes an application user, refreshed on each login.
func upsertUser(users user.Service, subject string, p *profile.Profile) (interface{}, error) {
	u := user.User{ID: subject, Properties: map[string]string{}}
	if p.Name.DisplayName != "" {
		u.SetProperty("displayName", p.Name.DisplayName)
	}
	if len(p.Emails) > 0 && p.Emails[0].Value != "" {
		u.SetProperty("email", p.Emails[0].Value)
	}
	for k, v := range p.Extra {
		u.SetProperty(k, v)
	}
	created, err := users.Upsert(u)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func me(c *gin.Context) {
	if u, ok := c.Get(strategy.UserKey); ok {
		c.JSON(200, gin.H{"user": u})
		return
	}
	c.JSON(200, gin.H{"status": "ok"})
}

func RunServer(conf config.Config) {
	router, err := SetupRouter(conf)
	if err != nil {
		panic(err)
	}
	port := conf.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := router.Run(fmt.Sprintf(":%d", port)); err != nil {
		panic(err)
	}
}
