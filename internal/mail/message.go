// Package mail composes the invitation response mails and delivers them
// through a pluggable Transport on a background Dispatcher.
package mail

import (
	"fmt"
	"net/mail"

	"gopkg.in/gomail.v2"
)

// Kind identifies which of the fixed templates produced a Message.
type Kind string

const (
	KindAcceptance   Kind = "acceptance"
	KindDecline      Kind = "decline"
	KindConfirmation Kind = "confirmation"
)

// Address is a display name plus mailbox.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// ParseAddress accepts "Name <a@b>" or a bare address.
func ParseAddress(s string) (Address, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return Address{}, fmt.Errorf("parsing address %q: %w", s, err)
	}
	return Address{Name: a.Name, Email: a.Address}, nil
}

// String formats the address for a header, quoting the name when needed.
func (a Address) String() string {
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Alternative is an extra body part, e.g. a text/calendar invite.
type Alternative struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Message is one outbound mail.
type Message struct {
	ID           string        `json:"message_id"`
	Kind         Kind          `json:"kind"`
	From         Address       `json:"from"`
	To           []Address     `json:"to"`
	ReplyTo      *Address      `json:"reply_to,omitempty"`
	Subject      string        `json:"subject"`
	Text         string        `json:"text"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// gomailMessage converts m into a MIME message. Alternatives are written
// unencoded, which keeps 7bit calendar payloads byte-for-byte intact.
func (m Message) gomailMessage() *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.From.Email, m.From.Name)

	to := make([]string, 0, len(m.To))
	for _, a := range m.To {
		to = append(to, gm.FormatAddress(a.Email, a.Name))
	}
	gm.SetHeader("To", to...)

	if m.ReplyTo != nil {
		gm.SetAddressHeader("Reply-To", m.ReplyTo.Email, m.ReplyTo.Name)
	}
	if m.ID != "" {
		gm.SetHeader("Message-ID", "<"+m.ID+">")
	}
	gm.SetHeader("Subject", m.Subject)
	gm.SetBody("text/plain", m.Text)
	for _, alt := range m.Alternatives {
		gm.AddAlternative(alt.ContentType, alt.Content, gomail.SetPartEncoding(gomail.Unencoded))
	}
	return gm
}
