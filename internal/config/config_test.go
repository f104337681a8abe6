package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runclub.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
database:
  path: /var/lib/runclub/club.db
email:
  digest_recipients: [a@example.com, b@example.com]
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Server.Addr != ":9090" || c.Database.Path != "/var/lib/runclub/club.db" {
		t.Errorf("config = %+v", c)
	}
	// untouched keys keep their defaults
	if c.Database.MaxConns != 25 || c.Log.Level != "info" || c.RateLimit.PerSecond != 10 {
		t.Errorf("defaults lost: %+v", c)
	}
	if !slices.Equal(c.Email.Recipients, []string{"a@example.com", "b@example.com"}) {
		t.Errorf("recipients = %v", c.Email.Recipients)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("RUNCLUB_ADDR", ":7070")
	t.Setenv("RUNCLUB_RATE_LIMIT", "2.5")
	t.Setenv("RUNCLUB_SLOW_QUERY_MS", "notanumber")
	t.Setenv("RUNCLUB_DIGEST_TO", " x@example.com, ,y@example.com ")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Server.Addr != ":7070" || c.RateLimit.PerSecond != 2.5 || c.Database.SlowQueryMS != 50 {
		t.Errorf("config = %+v", c)
	}
	if !slices.Equal(c.Email.Recipients, []string{"x@example.com", "y@example.com"}) {
		t.Errorf("recipients = %v", c.Email.Recipients)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a named missing file")
	}
	if _, err := Load(writeConfig(t, "server: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestCSRFKey(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		key     string
		wantLen int
		wantErr bool
	}{
		{"dev without key", "development", "", 0, false},
		{"production without key", "production", "", 0, true},
		{"valid key", "production", "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff", 32, false},
		{"short key", "development", "0011", 0, true},
		{"not hex", "development", "zz112233445566778899aabbccddeeff00112233445566778899aabbccddeeff", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Env, c.Server.CSRFKey = tt.env, tt.key
			key, err := c.CSRFKey()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CSRFKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(key) != tt.wantLen {
				t.Errorf("len(key) = %d, want %d", len(key), tt.wantLen)
			}
		})
	}

	c := Default()
	c.Env = "production"
	if _, err := c.CSRFKey(); !errors.Is(err, ErrMissingCSRFKey) {
		t.Errorf("err = %v, want ErrMissingCSRFKey", err)
	}
}
