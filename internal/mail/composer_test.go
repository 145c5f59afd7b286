package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondertwin-ai/videoinvite/internal/config"
	"github.com/wondertwin-ai/videoinvite/internal/directory"
)

const testICal = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"

var jan = directory.Person{Email: "jan@example.com", Name: "Jan Peeters", Video: "jan.mp4"}

func newTestComposer(t *testing.T, replyTo string) *Composer {
	t.Helper()
	c, err := NewComposer(Settings{
		InternalRecipient:   "studio@example.com",
		ConfirmationFrom:    "Martijn <martijn@example.com>",
		ConfirmationReplyTo: replyTo,
		ICal:                testICal,
	})
	require.NoError(t, err)
	return c
}

func TestAcceptance(t *testing.T) {
	c := newTestComposer(t, "")
	m, err := c.Acceptance(jan, "page-42")
	require.NoError(t, err)

	assert.Equal(t, KindAcceptance, m.Kind)
	assert.Equal(t, Address{Name: "Jan Peeters", Email: "jan@example.com"}, m.From)
	assert.Equal(t, []Address{{Email: "studio@example.com"}}, m.To)
	assert.Equal(t, "Videoboodschap: bevestiging van Jan Peeters", m.Subject)
	assert.Equal(t, "Jan Peeters (jan@example.com) komt naar studio Media. Zeker eens bellen!\n\n(page-42)\n", m.Text)
	assert.Nil(t, m.ReplyTo)
	assert.Empty(t, m.Alternatives)
	assert.NotEmpty(t, m.ID)
}

func TestDecline(t *testing.T) {
	c := newTestComposer(t, "")
	m, err := c.Decline(jan)
	require.NoError(t, err)

	assert.Equal(t, KindDecline, m.Kind)
	assert.Equal(t, "jan@example.com", m.From.Email)
	assert.Equal(t, []Address{{Email: "studio@example.com"}}, m.To)
	assert.Equal(t, "Videoboodschap: Jan Peeters komt niet", m.Subject)
	assert.Equal(t, "Jan Peeters (jan@example.com) komt niet, nog eens bellen?\n", m.Text)
}

func TestConfirmation(t *testing.T) {
	c := newTestComposer(t, "")
	m, err := c.Confirmation(jan)
	require.NoError(t, err)

	assert.Equal(t, KindConfirmation, m.Kind)
	assert.Equal(t, Address{Name: "Martijn", Email: "martijn@example.com"}, m.From)
	assert.Equal(t, []Address{{Name: "Jan Peeters", Email: "jan@example.com"}}, m.To)
	assert.Equal(t, "Bevestiging Studio Media 2020", m.Subject)
	assert.Nil(t, m.ReplyTo)

	want := "Hallo Jan,\n" +
		"\n" +
		"Bedankt!\n" +
		"Je hebt net jouw interesse getoond om deel te nemen aan Studio Media 2020.\n" +
		"Noteer alvast in jouw agenda: 23 oktober @ Square Brussel.\n" +
		"De Studio Media 2020 vindt plaats in de namiddag en zal zo'n 2 uur duren, exacte details volgen nog.\n" +
		"\n" +
		"Wij nemen deze zomer nog contact met je op.\n" +
		"\n" +
		"Tot dan!\n" +
		"\n" +
		"Martijn\n"
	assert.Equal(t, want, m.Text)

	require.Len(t, m.Alternatives, 1)
	assert.Equal(t, "text/calendar", m.Alternatives[0].ContentType)
	assert.Equal(t, testICal, m.Alternatives[0].Content)
}

func TestConfirmationReplyTo(t *testing.T) {
	c := newTestComposer(t, "Studio <info@example.com>")
	m, err := c.Confirmation(jan)
	require.NoError(t, err)

	require.NotNil(t, m.ReplyTo)
	assert.Equal(t, Address{Name: "Studio", Email: "info@example.com"}, *m.ReplyTo)
}

func TestConfirmationSingleWordName(t *testing.T) {
	c := newTestComposer(t, "")
	m, err := c.Confirmation(directory.Person{Email: "cher@example.com", Name: "Cher"})
	require.NoError(t, err)
	assert.Contains(t, m.Text, "Hallo Cher,\n")
}

func TestConfirmationWithoutICal(t *testing.T) {
	c, err := NewComposer(Settings{
		InternalRecipient: "studio@example.com",
		ConfirmationFrom:  "martijn@example.com",
	})
	require.NoError(t, err)

	m, err := c.Confirmation(jan)
	require.NoError(t, err)
	assert.Empty(t, m.Alternatives)
}

func TestMessageIDsAreUnique(t *testing.T) {
	c := newTestComposer(t, "")
	a, err := c.Decline(jan)
	require.NoError(t, err)
	b, err := c.Decline(jan)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewComposerInvalidAddresses(t *testing.T) {
	_, err := NewComposer(Settings{InternalRecipient: "not an address", ConfirmationFrom: "a@example.com"})
	assert.ErrorContains(t, err, "internal recipient")

	_, err = NewComposer(Settings{InternalRecipient: "a@example.com", ConfirmationFrom: ""})
	assert.ErrorContains(t, err, "confirmation sender")

	_, err = NewComposer(Settings{InternalRecipient: "a@example.com", ConfirmationFrom: "b@example.com", ConfirmationReplyTo: "<<"})
	assert.ErrorContains(t, err, "reply-to")
}

func TestSettingsFromConfig(t *testing.T) {
	s := SettingsFromConfig(&config.Config{
		SendUserResponseTo:      "studio@example.com",
		SendConfirmationFrom:    "martijn@example.com",
		SendConfirmationReplyTo: "info@example.com",
		ICal:                    testICal,
	})
	assert.Equal(t, Settings{
		InternalRecipient:   "studio@example.com",
		ConfirmationFrom:    "martijn@example.com",
		ConfirmationReplyTo: "info@example.com",
		ICal:                testICal,
	}, s)
}
