package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	writeConfig(t, dir, "jwt:\n  secret: dev\nstorage:\n  local_path: "+uploads+"\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.Mode != "debug" {
		t.Fatalf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Quiz.TickInterval() != time.Second || cfg.Quiz.QuestionCacheTTL != 2*time.Hour || cfg.Quiz.LeaderboardSize != 10 {
		t.Fatalf("unexpected quiz defaults %+v", cfg.Quiz)
	}
	if cfg.AI.TimeoutSeconds != time.Minute {
		t.Fatalf("unexpected ai timeout %v", cfg.AI.TimeoutSeconds)
	}
	if _, err := os.Stat(uploads); err != nil {
		t.Fatalf("local storage dir not created: %v", err)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "jwt:\n  secret: dev\nstorage:\n  type: minio\n")
	t.Setenv("STUDY_QUIZ_QUIZ_TICK_MILLIS", "250")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.TickInterval() != 250*time.Millisecond || cfg.JWT.Secret != "from-env" {
		t.Fatalf("env not applied: %+v %q", cfg.Quiz, cfg.JWT.Secret)
	}
}

func TestLoadConfig_ReleaseRequiresStrongSecret(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "server:\n  mode: release\njwt:\n  secret: short\nstorage:\n  type: minio\n")

	_, err := LoadConfig(dir)
	if err == nil || !strings.Contains(err.Error(), "JWT secret is too short") {
		t.Fatalf("expected weak secret error, got %v", err)
	}
}
