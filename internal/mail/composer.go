package mail

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/google/uuid"

	"github.com/wondertwin-ai/videoinvite/internal/config"
	"github.com/wondertwin-ai/videoinvite/internal/directory"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const confirmationSubject = "Bevestiging Studio Media 2020"

// Settings are the fixed addresses and payloads the templates need.
type Settings struct {
	InternalRecipient   string
	ConfirmationFrom    string
	ConfirmationReplyTo string
	ICal                string
}

// SettingsFromConfig extracts the mail settings from the loaded config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		InternalRecipient:   cfg.SendUserResponseTo,
		ConfirmationFrom:    cfg.SendConfirmationFrom,
		ConfirmationReplyTo: cfg.SendConfirmationReplyTo,
		ICal:                cfg.ICal,
	}
}

// Composer builds the acceptance, decline and confirmation messages.
type Composer struct {
	internal Address
	from     Address
	replyTo  *Address
	ical     string
	tmpl     *template.Template
	newID    func() string
}

// NewComposer parses the configured addresses and the body templates.
func NewComposer(s Settings) (*Composer, error) {
	internal, err := ParseAddress(s.InternalRecipient)
	if err != nil {
		return nil, fmt.Errorf("internal recipient: %w", err)
	}
	from, err := ParseAddress(s.ConfirmationFrom)
	if err != nil {
		return nil, fmt.Errorf("confirmation sender: %w", err)
	}
	c := &Composer{
		internal: internal,
		from:     from,
		ical:     s.ICal,
		newID:    func() string { return uuid.NewString() + "@videoinvite" },
	}
	if s.ConfirmationReplyTo != "" {
		replyTo, err := ParseAddress(s.ConfirmationReplyTo)
		if err != nil {
			return nil, fmt.Errorf("confirmation reply-to: %w", err)
		}
		c.replyTo = &replyTo
	}

	c.tmpl, err = template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing mail templates: %w", err)
	}
	return c, nil
}

type bodyData struct {
	Person    directory.Person
	FirstName string
	Reference string
}

// Acceptance notifies the internal recipient that p accepted via reference.
func (c *Composer) Acceptance(p directory.Person, reference string) (Message, error) {
	body, err := c.render(string(KindAcceptance), bodyData{Person: p, Reference: reference})
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:      c.newID(),
		Kind:    KindAcceptance,
		From:    personAddress(p),
		To:      []Address{c.internal},
		Subject: "Videoboodschap: bevestiging van " + p.Name,
		Text:    body,
	}, nil
}

// Decline notifies the internal recipient that p declined.
func (c *Composer) Decline(p directory.Person) (Message, error) {
	body, err := c.render(string(KindDecline), bodyData{Person: p})
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:      c.newID(),
		Kind:    KindDecline,
		From:    personAddress(p),
		To:      []Address{c.internal},
		Subject: "Videoboodschap: " + p.Name + " komt niet",
		Text:    body,
	}, nil
}

// Confirmation thanks p and carries the calendar invite.
func (c *Composer) Confirmation(p directory.Person) (Message, error) {
	body, err := c.render(string(KindConfirmation), bodyData{Person: p, FirstName: p.FirstName()})
	if err != nil {
		return Message{}, err
	}
	msg := Message{
		ID:      c.newID(),
		Kind:    KindConfirmation,
		From:    c.from,
		To:      []Address{personAddress(p)},
		ReplyTo: c.replyTo,
		Subject: confirmationSubject,
		Text:    body,
	}
	if c.ical != "" {
		msg.Alternatives = []Alternative{{ContentType: "text/calendar", Content: c.ical}}
	}
	return msg, nil
}

func (c *Composer) render(name string, data bodyData) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s mail: %w", name, err)
	}
	return buf.String(), nil
}

func personAddress(p directory.Person) Address {
	return Address{Name: p.Name, Email: p.Email}
}
