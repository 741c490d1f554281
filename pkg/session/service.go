package session

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CookieName is the cookie carrying the session token of a subject
// authenticated through the CAS strategy.
const CookieName = "GocasSession"

const defaultExpiresSeconds = 60 * 60

type Config struct {
	Issuer        string `mapstructure:"issuer"`
	PrivateKeyPem string `mapstructure:"privateKeyPem"`
	Expires       int    `mapstructure:"expires"`
}

// Service issues and verifies stateless RS256 session tokens.
type Service struct {
	keys    jwtKeys
	expires int
}

type jwtKeys struct {
	privateKeyID string
	issuer       string
	privateKey   *rsa.PrivateKey
	publicKey    *rsa.PublicKey
}

func NewService(sc Config) (Service, error) {
	var ss Service
	var privateKey *rsa.PrivateKey
	var err error
	if sc.PrivateKeyPem == "" {
		// ephemeral key, sessions do not survive a restart
		privateKey, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return ss, errors.Wrap(err, "error generating session key")
		}
	} else {
		block, _ := pem.Decode([]byte(sc.PrivateKeyPem))
		if block == nil {
			return ss, errors.New("error decoding session private key pem")
		}
		privateKey, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return ss, errors.Wrap(err, "error parsing session private key")
		}
	}
	ss.keys = jwtKeys{
		privateKeyID: uuid.New().String(),
		issuer:       sc.Issuer,
		privateKey:   privateKey,
		publicKey:    &privateKey.PublicKey,
	}
	ss.expires = sc.Expires
	if ss.expires <= 0 {
		ss.expires = defaultExpiresSeconds
	}
	return ss, nil
}

func (ss Service) CreateUserSession(userID string, props map[string]string) (string, error) {
	token := jwt.New(jwt.SigningMethodRS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["exp"] = time.Now().Add(time.Second * time.Duration(ss.expires)).Unix()
	claims["jti"] = ss.keys.privateKeyID
	claims["iat"] = time.Now().Unix()
	claims["iss"] = ss.keys.issuer
	claims["sub"] = userID
	if len(props) > 0 {
		claims["props"] = props
	}
	token.Header["jks"] = ss.keys.privateKeyID
	signed, err := token.SignedString(ss.keys.privateKey)
	if err != nil {
		return "", errors.Wrap(err, "error signing session token")
	}
	return signed, nil
}

// GetSessionData parses and verifies a session token, returning its
// claims.
func (ss Service) GetSessionData(token string) (map[string]interface{}, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return ss.keys.publicKey, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (ss Service) Valid(token string) bool {
	_, err := ss.GetSessionData(token)
	return err == nil
}
