package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
server:
  port: "9090"
  mode: debug
database:
  host: db.local
  port: 3306
  dbname: exams
jwt:
  secret: test-secret
  expire_hours: 2
quiz:
  default_duration_minutes: 30
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	chdir(t, dir)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.DBName != "exams" || cfg.Database.Charset != "utf8mb4" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Errorf("expected 2h expiry, got %v", cfg.JWT.ExpireTime)
	}
	if cfg.Quiz.DefaultDurationMinutes != 30 || cfg.Quiz.SessionGraceSeconds != 120 {
		t.Errorf("unexpected quiz config %+v", cfg.Quiz)
	}
	if cfg.File == "" {
		t.Error("expected the used config file to be recorded")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	chdir(t, dir)
	t.Setenv("DATABASE_HOST", "override.local")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Host != "override.local" {
		t.Errorf("expected env host, got %s", cfg.Database.Host)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("expected env secret, got %s", cfg.JWT.Secret)
	}
}

func TestValidate_ReleaseNeedsStrongSecret(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Mode: "release"},
		JWT:    JWTConfig{Secret: "short"},
		Quiz:   QuizConfig{DefaultDurationMinutes: 10},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected short release secret to be rejected")
	}

	cfg.Server.Mode = "debug"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected debug config to pass, got %v", err)
	}

	cfg.Quiz.DefaultDurationMinutes = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected zero default duration to be rejected")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
