package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openclaw/qrforge/config"
	"github.com/openclaw/qrforge/content"
	"github.com/openclaw/qrforge/scan"
	"github.com/openclaw/qrforge/store"
)

func TestRunGenerateWritesDecodableFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "wifi.jpg")

	var f generateFlags
	f.configPath = filepath.Join(dir, "missing.yaml")
	f.output = out
	f.req.Fields = content.Fields{Type: content.TypeWiFi, SSID: "home", Password: "secret", Security: "WPA"}
	f.req.Template = "minimal"

	var buf bytes.Buffer
	if err := runGenerate(context.Background(), &buf, f); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	if !strings.Contains(buf.String(), "(jpeg,") {
		t.Errorf("output = %q, want jpeg format picked from extension", buf.String())
	}

	got, err := scan.DecodeFile(out)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if want := "WIFI:T:WPA;S:home;P:secret;;"; got != want {
		t.Errorf("decoded %q, want %q", got, want)
	}
}

func TestRunGenerateTerminal(t *testing.T) {
	var f generateFlags
	f.configPath = filepath.Join(t.TempDir(), "missing.yaml")
	f.terminal = true
	f.req.Fields = content.Fields{URL: "https://example.com"}

	var buf bytes.Buffer
	if err := runGenerate(context.Background(), &buf, f); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("terminal output is empty")
	}
}

func TestRunGenerateMissingData(t *testing.T) {
	var f generateFlags
	f.configPath = filepath.Join(t.TempDir(), "missing.yaml")
	f.output = filepath.Join(t.TempDir(), "out.png")

	if err := runGenerate(context.Background(), &bytes.Buffer{}, f); err == nil {
		t.Error("runGenerate() with no content = nil error")
	}
}

func TestApplyArg(t *testing.T) {
	f := generateFlags{fields: content.Fields{Type: "TEXT"}}
	f.applyArg("hello")
	if f.fields.Text != "hello" || f.fields.URL != "" {
		t.Errorf("text type: fields = %+v", f.fields)
	}

	f = generateFlags{}
	f.applyArg("https://example.com")
	if f.fields.URL != "https://example.com" {
		t.Errorf("default type: fields = %+v", f.fields)
	}
}

func TestOpenHistory(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataDir = t.TempDir()

	h, err := openHistory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.(*store.MemoryStore); !ok {
		t.Errorf("default backend = %T, want *store.MemoryStore", h)
	}
	h.Close()

	cfg.History.Backend = "sqlite"
	h, err = openHistory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if _, ok := h.(*store.SQLiteStore); !ok {
		t.Errorf("sqlite backend = %T, want *store.SQLiteStore", h)
	}
}
