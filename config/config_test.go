package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FED_AUTH_JWT_SECRET", "0123456789abcdef-secret")
	t.Setenv("FED_AUTH_ADMIN_PASSWORD", "s3cret")
	t.Setenv("FED_AUTH_ADMIN_EMAIL", "  Boss@Federacao.Local ")
	t.Setenv("FED_NOTIFY_TTL", "3s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Notify.TTL != 3*time.Second {
		t.Errorf("expected notify ttl 3s, got %v", cfg.Notify.TTL)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Errorf("expected default driver memory, got %q", cfg.Storage.Driver)
	}
	if cfg.Billing.GatewayDelay != 2500*time.Millisecond {
		t.Errorf("unexpected gateway delay %v", cfg.Billing.GatewayDelay)
	}
	if cfg.Auth.AdminEmail != "boss@federacao.local" {
		t.Errorf("admin email not normalized: %q", cfg.Auth.AdminEmail)
	}
	if cfg.Auth.AdminPassword != "" {
		t.Error("plaintext admin password should be discarded")
	}
	if err := bcrypt.CompareHashAndPassword(cfg.Auth.AdminPasswordHash, []byte("s3cret")); err != nil {
		t.Errorf("admin password hash does not match: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  port: 9090
storage:
  driver: memory
  key_prefix: test_
auth:
  jwt_secret: file-secret-0123456789
  admin_password: pw
collaborator:
  blocked_terms: ["spam", "golpe"]
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Storage.KeyPrefix != "test_" {
		t.Errorf("expected key prefix test_, got %q", cfg.Storage.KeyPrefix)
	}
	if len(cfg.Collaborator.BlockedTerms) != 2 {
		t.Errorf("expected 2 blocked terms, got %v", cfg.Collaborator.BlockedTerms)
	}
}

func validConfig() Config {
	return Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Driver: StorageMemory},
		Auth: AuthConfig{
			JWTSecret:     "0123456789abcdef",
			AdminEmail:    "admin@federacao.local",
			AdminPassword: "pw",
		},
		Notify: NotifyConfig{TTL: 8 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }, "storage.driver"},
		{"redis without addr", func(c *Config) { c.Storage.Driver = StorageRedis }, "redis.addr"},
		{"no admin email", func(c *Config) { c.Auth.AdminEmail = " " }, "admin_email"},
		{"no admin password", func(c *Config) { c.Auth.AdminPassword = "" }, "admin_password"},
		{"zero ttl", func(c *Config) { c.Notify.TTL = 0 }, "notify.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
