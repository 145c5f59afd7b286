// Package directory resolves invitation identifiers to people.
package directory

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wondertwin-ai/videoinvite/internal/config"
)

// Person is an invitee.
type Person struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Video string `json:"video"`
}

// FirstName returns the part of the name before the first space.
func (p Person) FirstName() string {
	first, _, _ := strings.Cut(p.Name, " ")
	return first
}

// UnknownPersonTemplate describes the person synthesized for unmatched identifiers.
type UnknownPersonTemplate struct {
	Name  string
	Video string
}

// Person builds a fresh Person from the template for the given email.
func (t UnknownPersonTemplate) Person(email string) Person {
	return Person{
		Email: email,
		Name:  t.Name,
		Video: t.Video,
	}
}

// Directory is the immutable set of configured people.
type Directory struct {
	people  []Person
	unknown UnknownPersonTemplate
}

// New creates a Directory. The people slice is copied.
func New(people []Person, unknown UnknownPersonTemplate) *Directory {
	ps := make([]Person, len(people))
	copy(ps, people)
	return &Directory{people: ps, unknown: unknown}
}

// FromConfig builds a Directory from the loaded configuration.
func FromConfig(cfg *config.Config) *Directory {
	people := make([]Person, 0, len(cfg.People))
	for _, p := range cfg.People {
		people = append(people, Person{Email: p.Email, Name: p.Name, Video: p.Video})
	}
	return New(people, UnknownPersonTemplate{
		Name:  cfg.UnknownPerson.Name,
		Video: cfg.UnknownPerson.Video,
	})
}

// Len returns the number of configured people.
func (d *Directory) Len() int {
	return len(d.people)
}

// Find reports the configured person whose email equals the decoded identifier.
func (d *Directory) Find(identifier string) (Person, bool) {
	email := Decode(identifier)
	for _, p := range d.people {
		if p.Email == email {
			return p, true
		}
	}
	return Person{}, false
}

// Resolve never fails: unmatched identifiers yield a person synthesized from
// the unknown-person template carrying the decoded identifier as email.
func (d *Directory) Resolve(identifier string) Person {
	if p, ok := d.Find(identifier); ok {
		return p
	}
	return d.unknown.Person(Decode(identifier))
}

// Decode URL-decodes an identifier. Malformed escapes leave it unchanged.
func Decode(identifier string) string {
	decoded, err := url.PathUnescape(identifier)
	if err != nil {
		return identifier
	}
	return decoded
}

// Usable reports whether a decoded identifier can name a person at all.
// Empty strings, invalid UTF-8 and control characters are rejected.
func Usable(decoded string) bool {
	if decoded == "" || !utf8.ValidString(decoded) {
		return false
	}
	for _, r := range decoded {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
