package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var resetTmpl = template.Must(template.New("reset").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<p>Hi {{.Name}},</p>
<p>Someone asked to reset the password for your Connect account. If that was you, pick a new one here:</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>The link works once and expires in {{.TTL}}. If you didn't ask for this you can ignore this email.</p>
</body></html>`))

// PasswordReset builds the reset email for name, pointing at link.
func PasswordReset(to, name, link, ttl string) (SendRequest, error) {
	if name == "" {
		name = "there"
	}
	var buf bytes.Buffer
	data := struct{ Name, Link, TTL string }{name, link, ttl}
	if err := resetTmpl.Execute(&buf, data); err != nil {
		return SendRequest{}, fmt.Errorf("render reset email: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Reset your Connect password",
		HTML:    buf.String(),
		Text:    fmt.Sprintf("Hi %s,\n\nReset your Connect password: %s\n\nThe link works once and expires in %s.\n", name, link, ttl),
	}, nil
}
