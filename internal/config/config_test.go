package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":8080"
read_timeout = "2s"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"

[[layout.breakpoints]]
min_width = 0
columns = 1

[[layout.breakpoints]]
min_width = 800
columns = 2

[animation]
from = "left"
stagger = "100ms"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Error("unset fields should keep their defaults")
	}
	if cfg.Cache.Backend != CacheRedis {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if got := cfg.Layout.Breakpoints.Columns(900); got != 2 {
		t.Errorf("breakpoints should be sorted widest first, Columns(900) = %d", got)
	}
	if cfg.Animation.From != masonry.FromLeft || cfg.Animation.Stagger != 100*time.Millisecond {
		t.Errorf("Animation = %+v", cfg.Animation)
	}
	if cfg.Animation.Duration != 600*time.Millisecond {
		t.Error("animation duration should keep its default")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[server"},
		{"unknown key", "[server]\nport = 1\n"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"mongo without uri", "[contacts]\nstore = \"mongo\"\n"},
		{"bad breakpoint", "[[layout.breakpoints]]\nmin_width = 10\ncolumns = 0\n"},
		{"too many columns", "[[layout.breakpoints]]\nmin_width = 10\ncolumns = 5000\n"},
		{"bad origin", "[animation]\nfrom = \"up\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadNormalizesOrigin(t *testing.T) {
	tests := []struct {
		from string
		want masonry.Origin
	}{
		{"", masonry.FromBottom},
		{"  Top ", masonry.FromTop},
		{"none", masonry.FromNone},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "[animation]\nfrom = \""+tt.from+"\"\n"))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Animation.From != tt.want {
				t.Errorf("From = %q, want %q", cfg.Animation.From, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Server.Addr != ":3001" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "/etc/masonry.toml")
	if p, _ := Path(); p != "/etc/masonry.toml" {
		t.Errorf("Path() = %q", p)
	}

	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if p, _ := Path(); p != filepath.Join("/tmp/xdg", "masonry", "config.toml") {
		t.Errorf("Path() = %q", p)
	}
}
