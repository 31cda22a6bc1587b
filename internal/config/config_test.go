package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the config and state dirs at a temp dir and blanks the
// variables a developer machine might carry.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, k := range []string{
		"SARATHI_API_URL", "SARATHI_HTTP_TIMEOUT", "SARATHI_LOG_LEVEL", "SARATHI_LOG_FILE",
		"SARATHI_MAX_RETRIES", "SARATHI_STORAGE", "SARATHI_STATS_DAYS",
		"SARATHI_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"SARATHI_DIAG_ADDR", "SARATHI_DIAG_TOKEN",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.MaxRetries)
	}
	if cfg.StatsDays != 30 {
		t.Errorf("expected 30 day window, got %d", cfg.StatsDays)
	}
	if want := filepath.Join(dir, "state", "sarathi", "sarathi.log"); cfg.LogFile != want {
		t.Errorf("expected log file %s, got %s", want, cfg.LogFile)
	}
	if cfg.OTLPEndpoint != "" {
		t.Errorf("expected tracing disabled, got %q", cfg.OTLPEndpoint)
	}
	argv := cfg.RecordArgv()
	if want := strings.Fields(DefaultRecordCommand); strings.Join(argv, " ") != strings.Join(want, " ") {
		t.Errorf("unexpected record argv %v", argv)
	}
	if argv[0] != "arecord" || argv[len(argv)-1] != "{file}" {
		t.Errorf("expected arecord writing to {file}, got %v", argv)
	}
	if cfg.DiagAddr != "127.0.0.1:9090" || cfg.DiagToken != "" {
		t.Errorf("expected loopback diagnostics without a token, got %q %q", cfg.DiagAddr, cfg.DiagToken)
	}
}

func TestCheckDiagAddr(t *testing.T) {
	cases := []struct {
		addr, token string
		ok          bool
	}{
		{"127.0.0.1:9090", "", true},
		{"localhost:9090", "", true},
		{"[::1]:9090", "", true},
		{"0.0.0.0:9090", "", false},
		{":9090", "", false},
		{"192.168.1.4:9090", "", false},
		{"", "", false},
		{"0.0.0.0:9090", "diag-secret", true},
		{"no-port", "diag-secret", false},
	}
	for _, tc := range cases {
		err := CheckDiagAddr(tc.addr, tc.token)
		if (err == nil) != tc.ok {
			t.Errorf("CheckDiagAddr(%q, %q) = %v, want ok=%v", tc.addr, tc.token, err, tc.ok)
		}
	}
}

func TestLoad_RejectsExposedDiagWithoutToken(t *testing.T) {
	isolate(t)
	t.Setenv("SARATHI_DIAG_ADDR", "0.0.0.0:9090")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a public diag address without a token")
	}

	t.Setenv("SARATHI_DIAG_TOKEN", "diag-secret")
	if _, err := Load(""); err != nil {
		t.Errorf("expected a token to allow it, got %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sarathi.yaml")
	body := "api_url: https://api.sarathi.example\nhttp_timeout: 5s\nmax_retries: 2\nstats_days: 7\nstorage_backend: memory\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SARATHI_STATS_DAYS", "14")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.APIURL != "https://api.sarathi.example" {
		t.Errorf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s from file, got %s", cfg.HTTPTimeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("expected 2 retries from file, got %d", cfg.MaxRetries)
	}
	if cfg.StatsDays != 14 {
		t.Errorf("expected env to override file, got %d", cfg.StatsDays)
	}
	if cfg.StorageBackend != "memory" {
		t.Errorf("unexpected backend %q", cfg.StorageBackend)
	}
}

func TestLoad_DefaultFileIsOptional(t *testing.T) {
	isolate(t)
	if _, err := Load(""); err != nil {
		t.Fatalf("missing default file must not fail, got %v", err)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"relative url", map[string]string{"SARATHI_API_URL": "api.local"}},
		{"unknown backend", map[string]string{"SARATHI_STORAGE": "mongo"}},
		{"negative retries", map[string]string{"SARATHI_MAX_RETRIES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	body := "# comment\nexport SARATHI_TEST_A=\"from-file\"\nSARATHI_TEST_B='kept'\nbroken line\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SARATHI_TEST_B", "from-env")
	os.Unsetenv("SARATHI_TEST_A")
	t.Cleanup(func() { os.Unsetenv("SARATHI_TEST_A") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("SARATHI_TEST_A"); got != "from-file" {
		t.Errorf("expected from-file, got %q", got)
	}
	if got := os.Getenv("SARATHI_TEST_B"); got != "from-env" {
		t.Errorf("expected env to win, got %q", got)
	}
}
