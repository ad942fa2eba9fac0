package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const testGallery = `
title = "Test"

[[item]]
id = "1"
img = "one.jpg"
height = 100

[[item]]
id = "2"
img = "two.jpg"
height = 100

[[item]]
id = "3"
img = "three.jpg"
height = 100

[[item]]
id = "4"
img = "four.jpg"
height = 100

[[item]]
id = "5"
img = "five.jpg"
height = 100

[[item]]
id = "6"
img = "six.jpg"
height = 200
`

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("MASONRY_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(t.Context())
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "gallery.toml")
	if err := os.WriteFile(manifest, []byte(testGallery), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "layout", manifest, "--viewport", "1000", "--plan"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gallery.layout.json"))
	if err != nil {
		t.Fatalf("default output not written: %v", err)
	}
	var doc struct {
		Layout struct {
			Columns     int     `json:"columns"`
			TotalHeight float64 `json:"total_height"`
			Items       []struct {
				ID     string `json:"id"`
				Column int    `json:"column"`
			} `json:"items"`
		} `json:"layout"`
		Transitions []struct {
			ID   string `json:"id"`
			Fade bool   `json:"fade"`
		} `json:"transitions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	if doc.Layout.Columns != 4 {
		t.Errorf("columns = %d, want 4", doc.Layout.Columns)
	}
	if doc.Layout.TotalHeight != 150 {
		t.Errorf("total height = %v, want 150", doc.Layout.TotalHeight)
	}
	if got := doc.Layout.Items[5]; got.ID != "6" || got.Column != 0 {
		t.Errorf("sixth item = %+v, want id 6 in column 0", got)
	}
	if len(doc.Transitions) != 6 || !doc.Transitions[0].Fade {
		t.Errorf("--plan should include entry transitions, got %+v", doc.Transitions)
	}
}

func TestLayoutCommandColumnsAndOutput(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "gallery.toml")
	if err := os.WriteFile(manifest, []byte(testGallery), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")

	if err := runCLI(t, "layout", manifest, "--columns", "2", "--width", "500", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Layout struct {
			Columns     int     `json:"columns"`
			ColumnWidth float64 `json:"column_width"`
		} `json:"layout"`
		Transitions []json.RawMessage `json:"transitions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Layout.Columns != 2 || doc.Layout.ColumnWidth != 250 {
		t.Errorf("layout = %+v, want 2 columns of 250", doc.Layout)
	}
	if doc.Transitions != nil {
		t.Error("transitions should be omitted without --plan")
	}
}

func TestLayoutCommandMissingManifest(t *testing.T) {
	if err := runCLI(t, "layout", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
}

func TestLayoutCommandBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\nbackend = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "--config", cfg, "cache", "path"); err == nil {
		t.Fatal("expected an error for an invalid config")
	}
}

func TestCompletionCommand(t *testing.T) {
	t.Setenv("MASONRY_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"completion", "bash"})
	root.SetOut(&out)
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("masonry")) {
		t.Error("bash completion should mention the command name")
	}
}
