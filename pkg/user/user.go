package user

type User struct {
	ID         string            `json:"id,omitempty"`
	Roles      []string          `json:"roles,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

func (u *User) SetProperty(prop, val string) {
	if u.Properties == nil {
		u.Properties = make(map[string]string)
	}
	u.Properties[prop] = val
}
