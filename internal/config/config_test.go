package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
input:
  path: plan.db
  format: sqlite

relationships:
  sheets: ["Logic", "Links"]
  predecessor_fields: ["Preds"]

schedule:
  epoch: "2024-03-01"

domain:
  padding_days: 0

log:
  level: debug
  format: json

server:
  addr: "127.0.0.1:9000"
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Input.Path != "plan.db" {
		t.Errorf("Input.Path = %q, want %q", cfg.Input.Path, "plan.db")
	}
	if cfg.Input.Format != "sqlite" {
		t.Errorf("Input.Format = %q, want %q", cfg.Input.Format, "sqlite")
	}
	if len(cfg.Relationships.Sheets) != 2 || cfg.Relationships.Sheets[0] != "Logic" {
		t.Errorf("Relationships.Sheets = %v, want [Logic Links]", cfg.Relationships.Sheets)
	}
	if len(cfg.Relationships.PredecessorFields) != 1 {
		t.Errorf("Relationships.PredecessorFields = %v, want [Preds]", cfg.Relationships.PredecessorFields)
	}
	epoch, ok := cfg.Epoch()
	if !ok || !epoch.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Epoch() = %v, %v, want 2024-03-01", epoch, ok)
	}
	if cfg.Padding() != 0 {
		t.Errorf("Padding() = %v, want explicit 0", cfg.Padding())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("input:\n  path: plan.json\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Padding() != DefaultPaddingDays {
		t.Errorf("Padding() = %v, want %v", cfg.Padding(), DefaultPaddingDays)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want text", cfg.Log.Format)
	}
	if cfg.Server.Addr != ":7171" {
		t.Errorf("Server.Addr = %q, want :7171", cfg.Server.Addr)
	}
	if _, ok := cfg.Epoch(); ok {
		t.Error("expected no fixed epoch")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Addr != ":7171" {
		t.Errorf("Server.Addr = %q, want :7171", cfg.Server.Addr)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad format",
			yaml:    "input:\n  format: xlsx\n",
			wantErr: "input.format",
		},
		{
			name:    "bad epoch",
			yaml:    "schedule:\n  epoch: 03/01/2024\n",
			wantErr: "schedule.epoch",
		},
		{
			name:    "negative padding",
			yaml:    "domain:\n  padding_days: -1\n",
			wantErr: "domain.padding_days",
		},
		{
			name:    "bad level",
			yaml:    "log:\n  level: loud\n",
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			yaml:    "log:\n  format: xml\n",
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("input: [unclosed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q, want config: parse prefix", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ganttpro.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input.Path != "plan.db" {
		t.Errorf("Input.Path = %q, want plan.db", cfg.Input.Path)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
