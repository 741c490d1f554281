package cas

// Attributes is the attribute bag of a successful ticket validation.
// Values keep the order they appear in the response; keys are unique
// within one result.
type Attributes map[string][]string

// Add appends a value, accumulating repeated keys into an ordered list.
// The tagged element response variant uses this.
func (a Attributes) Add(key, value string) {
	a[key] = append(a[key], value)
}

// Set replaces any previous value. The SAML response variant uses this,
// keeping only the last value per attribute name.
func (a Attributes) Set(key, value string) {
	a[key] = []string{value}
}

// First returns the first value stored under key.
func (a Attributes) First(key string) (string, bool) {
	if vs, ok := a[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// ValidationResult is the uniform outcome of a successful validation,
// whichever wire format the server replied with. Failures are reported as
// errors, see ProtocolError.
type ValidationResult struct {
	Subject    string
	Attributes Attributes
}
