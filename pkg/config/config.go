package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/casware/gocas/pkg/cas"
	"github.com/casware/gocas/pkg/profile"
	"github.com/casware/gocas/pkg/session"
)

type Config struct {
	Cas         Cas                 `mapstructure:"cas"`
	PropertyMap profile.PropertyMap `mapstructure:"propertyMap"`
	Session     session.Config      `mapstructure:"session"`
	Server      Server              `mapstructure:"server"`
}

type Cas struct {
	URL               string `mapstructure:"url"`
	ServiceURL        string `mapstructure:"serviceUrl"`
	PassReqToCallback bool   `mapstructure:"passReqToCallback"`
	TimeoutSeconds    int    `mapstructure:"timeoutSeconds"`
	MaxResponseBytes  int64  `mapstructure:"maxResponseBytes"`
	SkipTLSVerify     bool   `mapstructure:"skipTlsVerify"`
}

type Server struct {
	Port int  `mapstructure:"port"`
	Cors Cors `mapstructure:"cors"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// Load unmarshals the configuration viper has already read and validates
// it. Validation failures are fatal; the gateway must not start half
// configured.
func Load() (Config, error) {
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return conf, errors.Wrap(err, "error unmarshalling configuration")
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

func (c Config) Validate() error {
	if _, err := cas.ParseServerURL(c.Cas.URL); err != nil {
		return err
	}
	return c.PropertyMap.Validate()
}
