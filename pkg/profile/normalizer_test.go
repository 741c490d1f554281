package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPropertyMap() PropertyMap {
	return PropertyMap{
		ID: "login",
		Name: NameMapping{
			Civility:   "civility",
			GivenName:  "firstname",
			FamilyName: "lastname",
		},
		Emails: []TypedKey{
			{Key: "mail", Type: "professional"},
			{Key: "mail_home", Type: "personal"},
		},
		Telephones: []TypedKey{
			{Key: "phone", Type: "office"},
		},
		Addresses: []AddressMapping{
			{Key: AddressKeys{Street: "street", Town: "town", Streetcode: "zip", Country: "country"}, Type: "office"},
		},
		Organizations: []OrganizationMapping{
			{Key: OrganizationKeys{Code: "org_code", Name: "org_name"}, Type: "school"},
		},
		Extra: map[string]string{
			"title": "job_title",
		},
	}
}

func testAttributes() map[string][]string {
	return map[string][]string{
		"login":     {"amartin"},
		"civility":  {"Mme"},
		"firstname": {"Alice"},
		"lastname":  {"Martin"},
		"mail":      {"alice@x.com", "alice2@x.com"},
		"phone":     {"0102030405"},
		"street":    {"1 rue de la Paix"},
		"town":      {"Paris"},
		"zip":       {"75002"},
		"country":   {"FR"},
		"org_code":  {"0750001A"},
		"org_name":  {"Lycee Exemple"},
		"job_title": {"Proviseur"},
		"secret":    {"never-copied"},
	}
}

func TestNormalize(t *testing.T) {
	n, err := NewNormalizer(testPropertyMap())
	require.NoError(t, err)

	p := n.Normalize("subject-1", testAttributes())

	assert.Equal(t, Provider, p.Provider)
	assert.Equal(t, "amartin", p.ID)
	assert.Equal(t, "Mme", p.Name.Civility)
	assert.Equal(t, "Alice", p.Name.GivenName)
	assert.Equal(t, "Martin", p.Name.FamilyName)
	assert.Equal(t, "Mme Alice Martin", p.Name.DisplayName)
	// multi valued attributes contribute their first value
	assert.Equal(t, "alice@x.com", p.Emails[0].Value)
	assert.Equal(t, "professional", p.Emails[0].Type)
	assert.Equal(t, "0102030405", p.Telephones[0].Value)
	assert.Equal(t, "1 rue de la Paix", p.Addresses[0].Street)
	assert.Equal(t, "Paris", p.Addresses[0].Town)
	assert.Equal(t, "75002", p.Addresses[0].Streetcode)
	assert.Equal(t, "FR", p.Addresses[0].Country)
	assert.Equal(t, "0750001A", p.Organizations[0].Code)
	assert.Equal(t, "Lycee Exemple", p.Organizations[0].Name)
	assert.Equal(t, "Proviseur", p.Extra["title"])
}

func TestNormalizeOneEntryPerMappingEntry(t *testing.T) {
	n, err := NewNormalizer(testPropertyMap())
	require.NoError(t, err)

	// mail_home is absent from the attributes, the entry still exists
	p := n.Normalize("subject-1", testAttributes())
	require.Len(t, p.Emails, 2)
	assert.Equal(t, "", p.Emails[1].Value)
	assert.Equal(t, "personal", p.Emails[1].Type)
}

func TestNormalizeUnmappedAttributesDropped(t *testing.T) {
	n, err := NewNormalizer(testPropertyMap())
	require.NoError(t, err)

	p := n.Normalize("subject-1", testAttributes())

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "never-copied")
}

func TestNormalizeIDFallsBackToSubject(t *testing.T) {
	n, err := NewNormalizer(testPropertyMap())
	require.NoError(t, err)

	p := n.Normalize("subject-1", map[string][]string{})
	assert.Equal(t, "subject-1", p.ID)
}

func TestNormalizeDisplayNameSkipsMissingParts(t *testing.T) {
	n, err := NewNormalizer(testPropertyMap())
	require.NoError(t, err)

	p := n.Normalize("subject-1", map[string][]string{
		"firstname": {"Alice"},
		"lastname":  {"Martin"},
	})
	assert.Equal(t, "Alice Martin", p.Name.DisplayName)
	assert.NotContains(t, p.Name.DisplayName, "null")
}

func TestNormalizeDeterministic(t *testing.T) {
	n, err := NewNormalizer(testPropertyMap())
	require.NoError(t, err)

	first, err := json.Marshal(n.Normalize("subject-1", testAttributes()))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(n.Normalize("subject-1", testAttributes()))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	n, err := NewNormalizer(testPropertyMap())
	require.NoError(t, err)

	attrs := testAttributes()
	_ = n.Normalize("subject-1", attrs)
	assert.Equal(t, testAttributes(), attrs)
}
