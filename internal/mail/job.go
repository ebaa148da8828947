// Copyright (c) 2026 Veranda Systems. All rights reserved.

/*
Package mail implements the background email pipeline.

API handlers never talk SMTP. Services publish small JSON jobs onto a durable
RabbitMQ queue and a separate worker process consumes them, renders the HTML
template for the job kind, and delivers the message over SMTP. Publishing is
best-effort at every call site: a broker outage degrades email, never the API.
*/
package mail

import (
	"encoding/json"
	"fmt"
)

// Job kinds. Each kind maps to one template in templates.go.
const (
	KindWelcome              = "welcome"
	KindReservationConfirmed = "reservation_confirmed"
	KindPaymentReceipt       = "payment_receipt"
)

// Job is the wire payload carried on the email queue. Data holds the
// template variables for the job kind as flat strings.
type Job struct {
	Kind string            `json:"kind"`
	To   string            `json:"to"`
	Data map[string]string `json:"data"`
}

// Encode serializes a job for publishing.
func (job *Job) Encode() ([]byte, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode_email_job: %w", err)
	}
	return body, nil
}

// DecodeJob parses a queue message back into a [Job].
func DecodeJob(body []byte) (*Job, error) {
	job := &Job{}
	if err := json.Unmarshal(body, job); err != nil {
		return nil, fmt.Errorf("decode_email_job: %w", err)
	}
	if job.Kind == "" || job.To == "" {
		return nil, fmt.Errorf("decode_email_job: missing kind or recipient")
	}
	return job, nil
}
