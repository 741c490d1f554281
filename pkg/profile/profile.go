package profile

// Provider identifies the authentication provider on normalized profiles.
const Provider = "cas"

// Profile is the normalized identity produced from a validation result.
type Profile struct {
	Provider      string            `json:"provider"`
	ID            string            `json:"id"`
	Name          Name              `json:"name"`
	Emails        []Email           `json:"emails"`
	Telephones    []Telephone       `json:"telephones"`
	Addresses     []Address         `json:"addresses"`
	Organizations []Organization    `json:"organizations"`
	Extra         map[string]string `json:"extra,omitempty"`
}

type Name struct {
	Civility    string `json:"civility"`
	FamilyName  string `json:"familyName"`
	GivenName   string `json:"givenName"`
	MiddleName  string `json:"middleName"`
	DisplayName string `json:"displayName"`
}

type Email struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

type Telephone struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

type Address struct {
	Street     string `json:"street"`
	Town       string `json:"town"`
	Streetcode string `json:"streetcode"`
	Country    string `json:"country"`
	Type       string `json:"type,omitempty"`
}

type Organization struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}
