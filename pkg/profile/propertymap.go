package profile

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// PropertyMap translates raw CAS attribute names into the normalized
// profile schema. It is validated once at construction and read only
// afterwards.
type PropertyMap struct {
	ID            string                `mapstructure:"id"`
	Name          NameMapping           `mapstructure:"name"`
	Emails        []TypedKey            `mapstructure:"emails"`
	Telephones    []TypedKey            `mapstructure:"telephones"`
	Addresses     []AddressMapping      `mapstructure:"addresses"`
	Organizations []OrganizationMapping `mapstructure:"organizations"`
	Extra         map[string]string     `mapstructure:"extra"`
}

type NameMapping struct {
	Civility   string `mapstructure:"civility"`
	GivenName  string `mapstructure:"givenName"`
	FamilyName string `mapstructure:"familyName"`
	MiddleName string `mapstructure:"middleName"`
}

// TypedKey maps one attribute to one typed list entry, used by the emails
// and telephones sections.
type TypedKey struct {
	Key  string `mapstructure:"key"`
	Type string `mapstructure:"type"`
}

type AddressMapping struct {
	Key  AddressKeys `mapstructure:"key"`
	Type string      `mapstructure:"type"`
}

type AddressKeys struct {
	Street     string `mapstructure:"street"`
	Town       string `mapstructure:"town"`
	Streetcode string `mapstructure:"streetcode"`
	Country    string `mapstructure:"country"`
}

type OrganizationMapping struct {
	Key  OrganizationKeys `mapstructure:"key"`
	Type string           `mapstructure:"type"`
}

type OrganizationKeys struct {
	Code string `mapstructure:"code"`
	Name string `mapstructure:"name"`
}

// DecodePropertyMap builds a validated PropertyMap from loosely typed
// configuration properties.
func DecodePropertyMap(properties map[string]interface{}) (PropertyMap, error) {
	var pm PropertyMap
	if err := mapstructure.Decode(properties, &pm); err != nil {
		return pm, errors.Wrap(err, "error decoding property map")
	}
	return pm, pm.Validate()
}

// Validate asserts every section's shape once, so per request lookups can
// trust the structure.
func (pm PropertyMap) Validate() error {
	for i, e := range pm.Emails {
		if e.Key == "" {
			return errors.Errorf("property map: emails[%d] has no key", i)
		}
	}
	for i, tel := range pm.Telephones {
		if tel.Key == "" {
			return errors.Errorf("property map: telephones[%d] has no key", i)
		}
	}
	for i, a := range pm.Addresses {
		if (a.Key == AddressKeys{}) {
			return errors.Errorf("property map: addresses[%d] has no keys", i)
		}
	}
	for i, o := range pm.Organizations {
		if (o.Key == OrganizationKeys{}) {
			return errors.Errorf("property map: organizations[%d] has no keys", i)
		}
	}
	for field, key := range pm.Extra {
		if field == "" || key == "" {
			return errors.Errorf("property map: extra field %q has no key", field)
		}
	}
	return nil
}
