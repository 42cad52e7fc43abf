package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const mailjetSendURL = "https://api.mailjet.com/v3.1/send"

// Message is the transport-level payload handed to a Sender.
type Message struct {
	Subject  string
	HTMLBody string
}

// Sender delivers a rendered report. Implementations must honor ctx for
// cancellation; callers bound each send with a timeout.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// MailjetSender posts messages to the Mailjet v3.1 send API.
type MailjetSender struct {
	apiKey    string
	secretKey string
	from      string
	fromName  string
	to        string
	client    *http.Client
	endpoint  string
}

// NewMailjetSender builds a sender. The http.Client's timeout is left to the
// caller's per-send context.
func NewMailjetSender(apiKey, secretKey, from, fromName, to string) *MailjetSender {
	return &MailjetSender{
		apiKey:    apiKey,
		secretKey: secretKey,
		from:      from,
		fromName:  fromName,
		to:        to,
		client:    &http.Client{},
		endpoint:  mailjetSendURL,
	}
}

type mailjetRecipient struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetRecipient   `json:"From"`
	To       []mailjetRecipient `json:"To"`
	Subject  string             `json:"Subject"`
	HTMLPart string             `json:"HTMLPart"`
}

type mailjetRequest struct {
	Messages []mailjetMessage `json:"Messages"`
}

func (m *MailjetSender) Send(ctx context.Context, msg Message) error {
	body := mailjetRequest{
		Messages: []mailjetMessage{{
			From:     mailjetRecipient{Email: m.from, Name: m.fromName},
			To:       []mailjetRecipient{{Email: m.to, Name: "Report Recipient"}},
			Subject:  msg.Subject,
			HTMLPart: msg.HTMLBody,
		}},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal mailjet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build mailjet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(m.apiKey, m.secretKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mailjet send: unexpected status %d", resp.StatusCode)
	}
	return nil
}
