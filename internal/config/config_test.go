package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	env "github.com/netflix/go-env"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env.EnvSet{})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxConcurrent != 5 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 5)
	}
	if cfg.Upload.MaxFileSize != 32<<20 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 32<<20)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 30*time.Minute)
	}
	if cfg.Session.CookieName != "hladb_session" {
		t.Errorf("Session.CookieName = %q", cfg.Session.CookieName)
	}
	if !cfg.Rate.Enabled || !cfg.Security.EnableCSP {
		t.Error("rate limiting and CSP should default to enabled")
	}

	wantColumns := []string{"HLA Allele", "Allele Classification", "Disease", "Clinical Significance"}
	if !reflect.DeepEqual(cfg.Dataset.DisplayColumns, wantColumns) {
		t.Errorf("Dataset.DisplayColumns = %q, want %q", cfg.Dataset.DisplayColumns, wantColumns)
	}
	if cfg.Dataset.PreviewRows != 5 {
		t.Errorf("Dataset.PreviewRows = %d, want 5", cfg.Dataset.PreviewRows)
	}
	if cfg.Security.TrustedProxies != nil {
		t.Errorf("Security.TrustedProxies = %q, want none", cfg.Security.TrustedProxies)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(env.EnvSet{
		"SERVER_PORT":             "9090",
		"UPLOAD_MAX_CONCURRENT":   "10",
		"LOG_LEVEL":               "debug",
		"SESSION_COOKIE_SECURE":   "true",
		"DATASET_DISPLAY_COLUMNS": "Disease | HLA Allele",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxConcurrent != 10 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if !cfg.Session.CookieSecure {
		t.Error("Session.CookieSecure = false, want true")
	}
	if want := []string{"Disease", "HLA Allele"}; !reflect.DeepEqual(cfg.Dataset.DisplayColumns, want) {
		t.Errorf("Dataset.DisplayColumns = %q, want %q", cfg.Dataset.DisplayColumns, want)
	}
}

func TestLoad_Duration(t *testing.T) {
	cfg, err := LoadFrom(env.EnvSet{
		"SERVER_READ_TIMEOUT":  "45s",
		"UPLOAD_MAX_WAIT_TIME": "1m30s",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Upload.MaxWaitTime != 90*time.Second {
		t.Errorf("Upload.MaxWaitTime = %v, want %v", cfg.Upload.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedProxies(t *testing.T) {
	cfg, err := LoadFrom(env.EnvSet{
		"TRUSTED_PROXIES": "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16,",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if !reflect.DeepEqual(cfg.Security.TrustedProxies, expected) {
		t.Errorf("TrustedProxies = %q, want %q", cfg.Security.TrustedProxies, expected)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     env.EnvSet
		wantErr string
	}{
		{"unparseable port", env.EnvSet{"SERVER_PORT": "eighty"}, "config load"},
		{"unparseable duration", env.EnvSet{"SESSION_TTL": "soon"}, "config load"},
		{"bad proxy cidr", env.EnvSet{"TRUSTED_PROXIES": "10.0.0.0/8,not-a-cidr"}, "not-a-cidr"},
		{"blank display columns", env.EnvSet{"DATASET_DISPLAY_COLUMNS": " | "}, "DATASET_DISPLAY_COLUMNS"},
		{"zero preview rows", env.EnvSet{"DATASET_PREVIEW_ROWS": "0"}, "DATASET_PREVIEW_ROWS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			if err == nil {
				t.Fatal("LoadFrom() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadFrom(env.EnvSet{})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_ReportsEveryFailure(t *testing.T) {
	cfg := validConfig(t)
	cfg.Logging.Level = "verbose"
	cfg.Session.TTL = 0
	cfg.Upload.MaxConcurrent = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, name := range []string{"LOG_LEVEL", "SESSION_TTL", "UPLOAD_MAX_CONCURRENT"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should mention %s: %v", name, err)
		}
	}
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	cfg := validConfig(t)
	cfg.Rate.Enabled = false
	cfg.Rate.RequestsPerMinute = 0
	cfg.Rate.UploadLimit = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil when rate limiting is disabled", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig(t).String()
	for _, want := range []string{"0.0.0.0:8080", "hladb_session", "Clinical Significance"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, should contain %q", str, want)
		}
	}
}
