package cas

import (
	"encoding/xml"
	"strings"
)

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Response *samlResponse `xml:"Response"`
}

type samlResponse struct {
	Status     samlStatus      `xml:"Status"`
	Assertions []samlAssertion `xml:"Assertion"`
}

type samlStatus struct {
	Code    samlStatusCode `xml:"StatusCode"`
	Message string         `xml:"StatusMessage"`
}

type samlStatusCode struct {
	Value string `xml:"Value,attr"`
}

type samlAssertion struct {
	AttributeStatement samlAttributeStatement `xml:"AttributeStatement"`
}

type samlAttributeStatement struct {
	Subject    samlSubject     `xml:"Subject"`
	Attributes []samlAttribute `xml:"Attribute"`
}

type samlSubject struct {
	NameIdentifier string `xml:"NameIdentifier"`
}

type samlAttribute struct {
	Name   string   `xml:"AttributeName,attr"`
	Values []string `xml:"AttributeValue"`
}

// parseSAMLResponse handles the SOAP wrapped SAML 1.1 assertion variant.
// Attribute names are kept as sent, and unlike the tagged element variant
// only the last value per name is retained. Both behaviors match servers
// observed in production and must not be reconciled.
func parseSAMLResponse(raw []byte) (*ValidationResult, error) {
	var env soapEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, NewParseError("malformed validation response", err, raw)
	}
	if env.Body.Response == nil {
		return nil, &ProtocolError{Code: "INVALID_RESPONSE", Message: "unrecognized response format"}
	}
	resp := env.Body.Response

	if localName(resp.Status.Code.Value) != "Success" {
		return nil, &ProtocolError{
			Code:    resp.Status.Code.Value,
			Message: strings.TrimSpace(resp.Status.Message),
		}
	}
	if len(resp.Assertions) == 0 {
		return nil, &ProtocolError{Code: "INVALID_RESPONSE", Message: "missing subject identifier"}
	}
	stmt := resp.Assertions[0].AttributeStatement
	subject := strings.TrimSpace(stmt.Subject.NameIdentifier)
	if subject == "" {
		return nil, &ProtocolError{Code: "INVALID_RESPONSE", Message: "missing subject identifier"}
	}
	attrs := Attributes{}
	for _, attr := range stmt.Attributes {
		for _, v := range attr.Values {
			attrs.Set(attr.Name, strings.TrimSpace(v))
		}
	}
	return &ValidationResult{Subject: subject, Attributes: attrs}, nil
}

func localName(qualified string) string {
	if i := strings.LastIndex(qualified, ":"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
