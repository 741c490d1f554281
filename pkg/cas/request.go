package cas

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const soapAction = "http://www.oasis-open.org/committees/security"

const validateEnvelope = `<?xml version="1.0" encoding="utf-8"?><SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Header/><SOAP-ENV:Body><samlp:Request xmlns:samlp="urn:oasis:names:tc:SAML:1.0:protocol" MajorVersion="1" MinorVersion="1" RequestID="%s" IssueInstant="%s"><samlp:AssertionArtifact>%s</samlp:AssertionArtifact></samlp:Request></SOAP-ENV:Body></SOAP-ENV:Envelope>`

// ValidationRequest describes one samlValidate exchange. RequestID is
// regenerated for every request; the SAML schema only needs it to be
// unique per call, not unguessable.
type ValidationRequest struct {
	Ticket       string
	Service      string
	RequestID    string
	IssueInstant time.Time
}

func NewValidationRequest(ticket, service string) ValidationRequest {
	return ValidationRequest{
		Ticket:       ticket,
		Service:      service,
		RequestID:    "_" + uuid.New().String(),
		IssueInstant: time.Now().UTC(),
	}
}

// Body renders the SOAP envelope. The ticket is XML escaped before it is
// embedded as the AssertionArtifact content.
func (vr ValidationRequest) Body() string {
	return fmt.Sprintf(validateEnvelope,
		vr.RequestID,
		vr.IssueInstant.Format(time.RFC3339),
		escapeXML(vr.Ticket))
}

// HTTPRequest builds the POST to {casURL}/samlValidate?TARGET={service}.
func (vr ValidationRequest) HTTPRequest(ctx context.Context, casURL *url.URL) (*http.Request, error) {
	u := *casURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/samlValidate"
	q := u.Query()
	q.Set("TARGET", vr.Service)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(vr.Body()))
	if err != nil {
		return nil, errors.Wrap(err, "error building validation request")
	}
	req.Header.Set("soapaction", soapAction)
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Accept", "text/xml")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	return req, nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
