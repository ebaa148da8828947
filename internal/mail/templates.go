// Copyright (c) 2026 Veranda Systems. All rights reserved.

package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Subjects per job kind.
var subjects = map[string]string{
	KindWelcome:              "Welcome to Veranda",
	KindReservationConfirmed: "Your reservation is confirmed",
	KindPaymentReceipt:       "Payment receipt",
}

var templates = template.Must(template.New("email").Parse(`
{{define "welcome"}}
<html><body>
<h2>Welcome, {{.first_name}}!</h2>
<p>Your Veranda account is ready. Sign in to manage your condominium,
book common spaces and keep track of your payments.</p>
</body></html>
{{end}}

{{define "reservation_confirmed"}}
<html><body>
<h2>Reservation confirmed</h2>
<p>Hi {{.first_name}},</p>
<p>Your reservation of <strong>{{.space_name}}</strong> on {{.date}}
from {{.start_time}} to {{.end_time}} has been confirmed.</p>
</body></html>
{{end}}

{{define "payment_receipt"}}
<html><body>
<h2>Payment received</h2>
<p>Hi {{.first_name}},</p>
<p>We received your payment of <strong>{{.amount}}</strong> for
{{.description}} on {{.paid_at}}. Thank you.</p>
</body></html>
{{end}}
`))

// Render produces the subject and HTML body for a job. Unknown kinds are an
// error so the consumer can reject the message instead of sending garbage.
func Render(job *Job) (subject, body string, err error) {
	subject, ok := subjects[job.Kind]
	if !ok {
		return "", "", fmt.Errorf("render_email: unknown job kind %q", job.Kind)
	}

	buffer := &bytes.Buffer{}
	if err := templates.ExecuteTemplate(buffer, job.Kind, job.Data); err != nil {
		return "", "", fmt.Errorf("render_email: %w", err)
	}
	return subject, buffer.String(), nil
}

// FormatAmount renders integer minor units as a human amount, e.g. 12500
// EUR -> "125.00 EUR".
func FormatAmount(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, currency)
}
