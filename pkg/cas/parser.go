package cas

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// Parse turns a raw validation response into a ValidationResult. Two wire
// formats exist in the wild: the tagged element form (serviceResponse
// root) and the SOAP wrapped SAML 1.1 assertion form (Envelope root). The
// variant is picked by the root element; malformed XML fails before
// dispatch is attempted.
func Parse(raw []byte) (*ValidationResult, error) {
	root, err := rootElement(raw)
	if err != nil {
		return nil, NewParseError("malformed validation response", err, raw)
	}
	switch root.Name.Local {
	case "serviceResponse":
		return parseServiceResponse(raw)
	case "Envelope":
		return parseSAMLResponse(raw)
	}
	return nil, &ProtocolError{Code: "INVALID_RESPONSE", Message: "unrecognized response format"}
}

func rootElement(raw []byte) (xml.StartElement, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

type serviceResponse struct {
	XMLName xml.Name               `xml:"serviceResponse"`
	Success *authenticationSuccess `xml:"authenticationSuccess"`
	Failure *authenticationFailure `xml:"authenticationFailure"`
}

type authenticationSuccess struct {
	User       string             `xml:"user"`
	Attributes *successAttributes `xml:"attributes"`
}

type successAttributes struct {
	Children []attributeElement `xml:",any"`
}

type attributeElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type authenticationFailure struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

// parseServiceResponse handles the tagged element variant. Attribute keys
// are the child element local names, lowercased; repeated tags accumulate
// into an ordered list, so multi valued attributes survive this variant.
func parseServiceResponse(raw []byte) (*ValidationResult, error) {
	var sr serviceResponse
	if err := xml.Unmarshal(raw, &sr); err != nil {
		return nil, NewParseError("malformed validation response", err, raw)
	}
	if sr.Success != nil {
		subject := strings.TrimSpace(sr.Success.User)
		if subject == "" {
			return nil, &ProtocolError{Code: "INVALID_RESPONSE", Message: "missing subject identifier"}
		}
		attrs := Attributes{}
		if sr.Success.Attributes != nil {
			for _, el := range sr.Success.Attributes.Children {
				attrs.Add(strings.ToLower(el.XMLName.Local), strings.TrimSpace(el.Value))
			}
		}
		return &ValidationResult{Subject: subject, Attributes: attrs}, nil
	}
	if sr.Failure != nil {
		return nil, &ProtocolError{Code: sr.Failure.Code, Message: strings.TrimSpace(sr.Failure.Message)}
	}
	return nil, &ProtocolError{Code: "INVALID_RESPONSE", Message: "unrecognized response format"}
}
