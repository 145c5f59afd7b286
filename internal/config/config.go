// Package config loads the invitation site configuration: the people directory,
// the unknown-person template, media paths and outbound mail settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is used when neither -config nor VIDEOINVITE_CONFIG is set.
const DefaultConfigFile = "config.yaml"

// Transport kinds understood by the mail package.
const (
	TransportSMTP     = "smtp"
	TransportSendmail = "sendmail"
	TransportMemory   = "memory"
)

// PersonEntry is one configured invitee.
type PersonEntry struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Video string `yaml:"video"`
}

// UnknownPersonEntry is the template used when an identifier matches nobody.
type UnknownPersonEntry struct {
	Name  string `yaml:"name"`
	Video string `yaml:"video"`
}

// TransportConfig selects and configures the outbound mail transport. SMTP
// connections are always upgraded when the server advertises STARTTLS;
// Security "tls" selects implicit TLS instead.
type TransportConfig struct {
	Kind         string `yaml:"kind"`
	Host         string `yaml:"host,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	Username     string `yaml:"username,omitempty"`
	Password     string `yaml:"password,omitempty"`
	Security     string `yaml:"security,omitempty"` // "tls" or "starttls"
	SendmailPath string `yaml:"sendmail_path,omitempty"`
	QueueSize    int    `yaml:"queue_size,omitempty"`
}

// Config represents the contents of config.yaml.
type Config struct {
	People        []PersonEntry      `yaml:"people"`
	UnknownPerson UnknownPersonEntry `yaml:"unknown_person"`
	VideoRoot     string             `yaml:"video_root"`
	PublicDir     string             `yaml:"public_dir"`

	SendUserResponseTo      string `yaml:"send_user_response_to"`
	SendConfirmationFrom    string `yaml:"send_confirmation_from"`
	SendConfirmationReplyTo string `yaml:"send_confirmation_reply_to,omitempty"`

	// ICal is the calendar payload attached to confirmation mails. ICalFile,
	// when set, is read at load time and overrides ICal.
	ICal     string `yaml:"ical,omitempty"`
	ICalFile string `yaml:"ical_file,omitempty"`

	// RejectUnknown makes accept/decline answer "err" for identifiers that
	// are not in People.
	RejectUnknown bool `yaml:"reject_unknown"`

	// Admin mounts /admin/* and /metrics outside development. Request logs
	// and the outbox expose invitee addresses, so keep it off on public hosts.
	Admin bool `yaml:"admin"`

	Transport TransportConfig `yaml:"transport"`
}

// Load reads and validates the config at path. Relative paths inside the
// file (public_dir, ical_file) are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	if cfg.PublicDir != "" && !filepath.IsAbs(cfg.PublicDir) {
		cfg.PublicDir = filepath.Join(base, cfg.PublicDir)
	}
	if cfg.ICalFile != "" {
		icalPath := cfg.ICalFile
		if !filepath.IsAbs(icalPath) {
			icalPath = filepath.Join(base, icalPath)
		}
		ical, err := os.ReadFile(icalPath)
		if err != nil {
			return nil, fmt.Errorf("reading ical_file %s: %w", icalPath, err)
		}
		cfg.ICal = string(ical)
	}

	return cfg, nil
}

// Parse decodes YAML config data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every deployment needs.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.People))
	for i, p := range c.People {
		if p.Email == "" {
			return fmt.Errorf("people[%d]: email is required", i)
		}
		if p.Video == "" {
			return fmt.Errorf("people[%d] (%s): video is required", i, p.Email)
		}
		if seen[p.Email] {
			return fmt.Errorf("people[%d]: duplicate email %s", i, p.Email)
		}
		seen[p.Email] = true
	}
	if c.UnknownPerson.Video == "" {
		return fmt.Errorf("unknown_person.video is required")
	}
	if c.SendUserResponseTo == "" {
		return fmt.Errorf("send_user_response_to is required")
	}
	if c.SendConfirmationFrom == "" {
		return fmt.Errorf("send_confirmation_from is required")
	}

	switch c.Transport.Kind {
	case TransportSMTP:
		if c.Transport.Host == "" {
			return fmt.Errorf("transport.host is required for smtp")
		}
		switch c.Transport.Security {
		case "", "tls", "starttls":
		default:
			return fmt.Errorf("transport.security must be tls or starttls, got %q", c.Transport.Security)
		}
	case TransportSendmail, TransportMemory:
	default:
		return fmt.Errorf("unknown transport.kind: %q", c.Transport.Kind)
	}
	if c.Transport.QueueSize < 0 {
		return fmt.Errorf("transport.queue_size must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Transport.Kind = strings.ToLower(strings.TrimSpace(c.Transport.Kind))
	if c.Transport.Kind == "" {
		c.Transport.Kind = TransportSendmail
	}
	if c.Transport.Kind == TransportSMTP && c.Transport.Port == 0 {
		c.Transport.Port = 587
	}
	if c.Transport.SendmailPath == "" {
		c.Transport.SendmailPath = "/usr/sbin/sendmail"
	}
	if c.Transport.QueueSize == 0 {
		c.Transport.QueueSize = 64
	}
}

func defaultConfig() *Config {
	return &Config{
		VideoRoot: "/videos/",
		PublicDir: "public",
	}
}
