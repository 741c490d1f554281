package profile

import (
	"sort"
	"strings"
)

// Normalizer maps a raw attribute bag into a Profile according to one
// immutable PropertyMap. Normalization is pure; identical inputs always
// produce identical profiles.
type Normalizer struct {
	pm PropertyMap
}

func NewNormalizer(pm PropertyMap) (*Normalizer, error) {
	if err := pm.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{pm: pm}, nil
}

// Normalize builds a profile for the validated subject. Every attribute
// the map references is consumed exactly once; attributes the map never
// mentions are dropped, they do not leak into the profile.
func (n *Normalizer) Normalize(subject string, attrs map[string][]string) *Profile {
	bag := newWorkingBag(attrs)
	pm := n.pm

	p := &Profile{Provider: Provider}

	p.ID = bag.take(pm.ID)
	if p.ID == "" {
		p.ID = subject
	}

	p.Name = Name{
		Civility:   bag.take(pm.Name.Civility),
		GivenName:  bag.take(pm.Name.GivenName),
		FamilyName: bag.take(pm.Name.FamilyName),
		MiddleName: bag.take(pm.Name.MiddleName),
	}
	p.Name.DisplayName = displayName(p.Name)

	// one entry per mapping entry, in mapping order, present or not
	p.Emails = make([]Email, len(pm.Emails))
	for i, m := range pm.Emails {
		p.Emails[i] = Email{Value: bag.take(m.Key), Type: m.Type}
	}
	p.Telephones = make([]Telephone, len(pm.Telephones))
	for i, m := range pm.Telephones {
		p.Telephones[i] = Telephone{Value: bag.take(m.Key), Type: m.Type}
	}
	p.Addresses = make([]Address, len(pm.Addresses))
	for i, m := range pm.Addresses {
		p.Addresses[i] = Address{
			Street:     bag.take(m.Key.Street),
			Town:       bag.take(m.Key.Town),
			Streetcode: bag.take(m.Key.Streetcode),
			Country:    bag.take(m.Key.Country),
			Type:       m.Type,
		}
	}
	p.Organizations = make([]Organization, len(pm.Organizations))
	for i, m := range pm.Organizations {
		p.Organizations[i] = Organization{
			Code: bag.take(m.Key.Code),
			Name: bag.take(m.Key.Name),
			Type: m.Type,
		}
	}

	if len(pm.Extra) > 0 {
		fields := make([]string, 0, len(pm.Extra))
		for f := range pm.Extra {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			if v, ok := bag.lookup(pm.Extra[f]); ok {
				if p.Extra == nil {
					p.Extra = make(map[string]string)
				}
				p.Extra[f] = v
			}
		}
	}

	// whatever is left in the bag is unmapped and dropped
	return p
}

// displayName joins the non empty name parts with single spaces. Missing
// parts are skipped instead of rendering as literal placeholders.
func displayName(n Name) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.Civility, n.GivenName, n.FamilyName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type workingBag map[string][]string

func newWorkingBag(attrs map[string][]string) workingBag {
	bag := make(workingBag, len(attrs))
	for k, vs := range attrs {
		bag[k] = vs
	}
	return bag
}

// take consumes an attribute and returns its first value. Multi valued
// attributes contribute only their first value to scalar profile fields.
func (b workingBag) take(key string) string {
	v, _ := b.lookup(key)
	return v
}

func (b workingBag) lookup(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	vs, ok := b[key]
	delete(b, key)
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
