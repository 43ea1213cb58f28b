package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier = newMinifier()

	inquiryTemplate   = template.Must(template.New("inquiry").Parse(inquiryHTML))
	magicLinkTemplate = template.Must(template.New("magic-link").Parse(magicLinkHTML))
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	return m
}

// InquiryData fills the inquiry email sent to a listing owner
type InquiryData struct {
	OwnerName      string
	OwnerEmail     string
	GleanerName    string
	GleanerEmail   string
	GleanerNote    string
	ProduceType    string
	Quantity       string
	ListingNotes   string
	UnavailableURL string
}

// InquirySubject is the subject line of an inquiry email
func InquirySubject(d InquiryData) string {
	return fmt.Sprintf("%s wants your %s", d.GleanerName, d.ProduceType)
}

// InquiryMessage renders the inquiry email; replies go to the gleaner
func InquiryMessage(d InquiryData) (Message, error) {
	body, err := render(inquiryTemplate, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      d.OwnerEmail,
		ReplyTo: d.GleanerEmail,
		Subject: InquirySubject(d),
		HTML:    body,
	}, nil
}

// MagicLinkData fills the sign-in email
type MagicLinkData struct {
	Email   string
	Name    string
	URL     string
	Minutes int
}

// MagicLinkMessage renders the sign-in email
func MagicLinkMessage(d MagicLinkData) (Message, error) {
	body, err := render(magicLinkTemplate, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      d.Email,
		Subject: "Sign in to Pick My Fruit",
		HTML:    body,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}

	out, err := minifier.String("text/html", buf.String())
	if err != nil {
		slog.Warn("failed to minify email, sending as rendered", "template", t.Name(), "error", err)
		return buf.String(), nil
	}
	return out, nil
}

const inquiryHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2d5016; margin-bottom: 24px;">Someone wants your {{.ProduceType}}!</h1>

  <p>Hi {{.OwnerName}},</p>

  <p><strong>{{.GleanerName}}</strong> is interested in your {{.ProduceType}}.</p>

  <div style="background: #f9fafb; border-radius: 8px; padding: 16px; margin: 24px 0;">
    <h3 style="margin: 0 0 12px 0; color: #2d5016;">Listing Details</h3>
    <p style="margin: 0 0 8px 0;"><strong>Type:</strong> {{.ProduceType}}</p>
    {{- if .Quantity}}
    <p style="margin: 0 0 8px 0;"><strong>Quantity:</strong> {{.Quantity}}</p>
    {{- end}}
    {{- if .ListingNotes}}
    <p style="margin: 0;"><strong>Your notes:</strong> {{.ListingNotes}}</p>
    {{- end}}
  </div>

  {{- if .GleanerNote}}
  <div style="background: #fef3c7; border-radius: 8px; padding: 16px; margin: 24px 0;">
    <h3 style="margin: 0 0 8px 0; color: #92400e;">Message from {{.GleanerName}}</h3>
    <p style="margin: 0;">{{.GleanerNote}}</p>
  </div>
  {{- end}}

  <p>Simply <strong>reply to this email</strong> to get in touch with {{.GleanerName}}.</p>

  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">

  <p style="color: #666; font-size: 14px;">
    All done with this listing?
    <a href="{{.UnavailableURL}}" style="color: #4a7c23;">Mark as unavailable</a>
  </p>
</body>
</html>`

const magicLinkHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2d5016;">Sign in to Pick My Fruit</h1>
  <p>Hi{{if .Name}} {{.Name}}{{end}},</p>
  <p><a href="{{.URL}}" style="color: #4a7c23;">Click here to sign in</a>. The link works once and expires in {{.Minutes}} minutes.</p>
  <p style="color: #666; font-size: 14px;">If you did not ask to sign in, you can ignore this email.</p>
</body>
</html>`
