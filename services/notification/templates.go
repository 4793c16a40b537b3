package notification

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"vexstorm/models"
)

const excerptLength = 200

// Values reaching these templates were HTML-escaped exactly once by the
// sanitizer, so "raw" marks them safe instead of escaping them again.
var templateFuncs = template.FuncMap{
	"raw":     func(s string) template.HTML { return template.HTML(s) },
	"excerpt": func(s string) template.HTML { return template.HTML(excerpt(s, excerptLength)) },
	"field": func(s string) template.HTML {
		if s == "" {
			return "Not Specified"
		}
		return template.HTML(s)
	},
	"minutes": func(d time.Duration) int { return int(d.Minutes()) },
	"hours":   func(d time.Duration) int { return int(d.Hours()) },
}

var otpTemplate = template.Must(template.New("otp").Funcs(templateFuncs).Parse(`<div style="font-family:sans-serif">
<h2>VexStorm 26 verification</h2>
<p>Hi {{if .Name}}{{raw .Name}}{{else}}there{{end}},</p>
<p>Your verification code is:</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.Code}}</strong></p>
<p>It expires in {{minutes .TTL}} minutes. If you did not request it, ignore this email.</p>
</div>`))

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(templateFuncs).Parse(`<div style="font-family:sans-serif">
<h2>Registration received</h2>
<p>Hi {{raw .Leader.Name}},</p>
<p>We received the registration for <strong>{{raw .TeamName}}</strong> ({{raw .Track}}).</p>
<p>Registration ID: <strong>{{.RegistrationID}}</strong><br>
Transaction ID: {{raw .TransactionID}}<br>
Status: {{.Status}}</p>
<p>Our team verifies every registration and will contact you with the outcome.</p>
</div>`))

var digestTemplate = template.Must(template.New("digest").Funcs(templateFuncs).Parse(`<div style="font-family:sans-serif">
<h2>{{len .Inquiries}} new inquiries in the last {{hours .Window}} hours</h2>
{{range .Inquiries}}<div style="border:1px solid #ddd;border-radius:6px;padding:12px;margin:8px 0">
<strong>{{raw .Name}}</strong> &lt;{{raw .Email}}&gt; · {{raw .Phone}}<br>
Company: {{field .Company}} · Location: {{field .Location}}<br>
Stage: {{field .ProjectStage}} · Budget: {{field .Budget}}<br>
AI usage: {{field .AIUsage}} · Employees: {{field .Employees}} · Tech experience: {{field .Experience}}<br>
{{if .Message}}<p>{{excerpt .Message}}</p>{{end}}
<small>{{.CreatedAt.Format "2006-01-02 15:04 MST"}}</small>
</div>{{end}}
</div>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderOTP builds the verification code email.
func RenderOTP(email, name, code string, ttl time.Duration) (models.EmailMessage, error) {
	body, err := render(otpTemplate, struct {
		Name string
		Code string
		TTL  time.Duration
	}{name, code, ttl})
	if err != nil {
		return models.EmailMessage{}, err
	}
	return models.EmailMessage{
		To:      []string{email},
		Subject: "Your VexStorm 26 verification code",
		HTML:    body,
		Text:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes())),
		Kind:    "otp",
	}, nil
}

// RenderConfirmation builds the registration receipt. The stored leader email
// is entity-escaped, so the recipient address is unescaped first.
func RenderConfirmation(rec models.RegistrationRecord) (models.EmailMessage, error) {
	body, err := render(confirmationTemplate, rec)
	if err != nil {
		return models.EmailMessage{}, err
	}
	return models.EmailMessage{
		To:      []string{html.UnescapeString(rec.Leader.Email)},
		Subject: "VexStorm 26 registration received: " + rec.RegistrationID,
		HTML:    body,
		Kind:    "confirmation",
	}, nil
}

// RenderDigest builds the daily contact-inquiry summary.
func RenderDigest(to string, inquiries []models.ContactInquiry, window time.Duration) (models.EmailMessage, error) {
	body, err := render(digestTemplate, struct {
		Inquiries []models.ContactInquiry
		Window    time.Duration
	}{inquiries, window})
	if err != nil {
		return models.EmailMessage{}, err
	}
	return models.EmailMessage{
		To:      []string{to},
		Subject: fmt.Sprintf("Daily digest: %d new contact inquiries", len(inquiries)),
		HTML:    body,
		Kind:    "digest",
	}, nil
}

// excerpt shortens s to at most n runes without cutting an HTML entity in half.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if amp := strings.LastIndex(cut, "&"); amp > strings.LastIndex(cut, ";") {
		cut = cut[:amp]
	}
	return cut + "…"
}
