package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
people:
  - email: jan@example.com
    name: Jan Peeters
    video: jan.mp4
unknown_person:
  name: beste bezoeker
  video: default.mp4
send_user_response_to: studio@example.com
send_confirmation_from: Martijn <martijn@example.com>
ical: "BEGIN:VCALENDAR\nEND:VCALENDAR\n"
transport:
  kind: memory
`

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.People) != 1 || cfg.People[0].Name != "Jan Peeters" {
		t.Errorf("unexpected people: %+v", cfg.People)
	}
	if cfg.UnknownPerson.Video != "default.mp4" {
		t.Errorf("unexpected unknown person: %+v", cfg.UnknownPerson)
	}
	if cfg.Transport.Kind != TransportMemory {
		t.Errorf("expected memory transport, got %q", cfg.Transport.Kind)
	}
	if cfg.PublicDir != filepath.Join(dir, "public") {
		t.Errorf("expected public dir resolved against config dir, got %q", cfg.PublicDir)
	}
	if cfg.VideoRoot != "/videos/" {
		t.Errorf("expected default video root, got %q", cfg.VideoRoot)
	}
}

func TestLoadReadsICalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "event.ics"), []byte("BEGIN:VCALENDAR\nX-FROM-FILE:1\nEND:VCALENDAR\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.yaml")
	content := validYAML + "ical_file: event.ics\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !strings.Contains(cfg.ICal, "X-FROM-FILE") {
		t.Errorf("expected ical from file, got %q", cfg.ICal)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseDefaultsToSendmail(t *testing.T) {
	content := strings.Replace(validYAML, "kind: memory", "kind: \"\"", 1)
	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Transport.Kind != TransportSendmail {
		t.Errorf("expected sendmail default, got %q", cfg.Transport.Kind)
	}
	if cfg.Transport.SendmailPath != "/usr/sbin/sendmail" {
		t.Errorf("unexpected sendmail path %q", cfg.Transport.SendmailPath)
	}
	if cfg.Transport.QueueSize != 64 {
		t.Errorf("expected default queue size 64, got %d", cfg.Transport.QueueSize)
	}
}

func TestParseSMTPDefaultPort(t *testing.T) {
	content := strings.Replace(validYAML, "kind: memory", "kind: SMTP\n  host: mail.example.com", 1)
	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Transport.Kind != TransportSMTP || cfg.Transport.Port != 587 {
		t.Errorf("unexpected transport: %+v", cfg.Transport)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name: "duplicate email",
			mutate: func(s string) string {
				return strings.Replace(s, "unknown_person:", "  - email: jan@example.com\n    name: Jan Twee\n    video: twee.mp4\nunknown_person:", 1)
			},
			wantErr: "duplicate email",
		},
		{
			name:    "missing recipient",
			mutate:  func(s string) string { return strings.Replace(s, "send_user_response_to: studio@example.com\n", "", 1) },
			wantErr: "send_user_response_to",
		},
		{
			name:    "unknown transport",
			mutate:  func(s string) string { return strings.Replace(s, "kind: memory", "kind: pigeon", 1) },
			wantErr: "unknown transport.kind",
		},
		{
			name:    "smtp without host",
			mutate:  func(s string) string { return strings.Replace(s, "kind: memory", "kind: smtp", 1) },
			wantErr: "transport.host",
		},
		{
			name: "plaintext smtp",
			mutate: func(s string) string {
				return strings.Replace(s, "kind: memory", "kind: smtp\n  host: mail.example.com\n  security: none", 1)
			},
			wantErr: "transport.security",
		},
		{
			name:    "missing unknown video",
			mutate:  func(s string) string { return strings.Replace(s, "  video: default.mp4\n", "", 1) },
			wantErr: "unknown_person.video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(validYAML)))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseAdminDisabledByDefault(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Admin {
		t.Error("expected admin to be off unless configured")
	}

	cfg, err = Parse([]byte(validYAML + "admin: true\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !cfg.Admin {
		t.Error("expected admin: true to enable the admin routes")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("people: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
