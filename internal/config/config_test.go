package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestValidate tests configuration validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "unknown source",
			mutate:  func(c *Config) { c.SourceName = "nope" },
			wantErr: ErrUnknownSource,
		},
		{
			name:    "start page below one",
			mutate:  func(c *Config) { c.StartPage = 0 },
			wantErr: ErrInvalidPageRange,
		},
		{
			name:    "end before start",
			mutate:  func(c *Config) { c.StartPage = 5; c.EndPage = 3 },
			wantErr: ErrInvalidPageRange,
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Delay = -time.Second },
			wantErr: ErrInvalidDelay,
		},
		{
			name:    "delay above two seconds",
			mutate:  func(c *Config) { c.Delay = 3 * time.Second },
			wantErr: ErrInvalidDelay,
		},
		{
			name:    "prefetch size too small",
			mutate:  func(c *Config) { c.PrefetchSizeMB = 5 },
			wantErr: ErrInvalidPrefetchSize,
		},
		{
			name:    "prefetch size too large",
			mutate:  func(c *Config) { c.PrefetchSizeMB = 1000 },
			wantErr: ErrInvalidPrefetchSize,
		},
		{
			name:    "prefetch on non-attachment source",
			mutate:  func(c *Config) { c.Prefetch = true },
			wantErr: ErrAttachmentsUnsupported,
		},
		{
			name:    "download on non-attachment source",
			mutate:  func(c *Config) { c.Download = true },
			wantErr: ErrAttachmentsUnsupported,
		},
		{
			name:    "conflicting report formats",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig("news")
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("prefetch allowed on institutional source", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("archive")
		cfg.Prefetch = true
		cfg.Download = true
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})
}

// TestDefaultHeaders tests the default request header set.
func TestDefaultHeaders(t *testing.T) {
	t.Parallel()

	headers := DefaultHeaders("입시 뉴스")
	if headers["X-Requested-With"] != "XMLHttpRequest" {
		t.Errorf("X-Requested-With = %q", headers["X-Requested-With"])
	}
	if headers["Accept"] != "text/html, */*; q=0.01" {
		t.Errorf("Accept = %q", headers["Accept"])
	}
	if headers["User-Agent"] != DefaultUserAgent {
		t.Errorf("User-Agent = %q", headers["User-Agent"])
	}
	if headers["Referer"] != "https://www.megastudy.net/Entinfo/ipsi_news/news_list.asp" {
		t.Errorf("Referer = %q", headers["Referer"])
	}
}

// TestParseJSONMap tests lenient JSON mapping parsing.
func TestParseJSONMap(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "valid object",
			input: `{"CK%5FUSER%5FINFO": "v1", "other": "v2"}`,
			want:  map[string]string{"CK%5FUSER%5FINFO": "v1", "other": "v2"},
		},
		{name: "empty string", input: "", want: map[string]string{}},
		{name: "whitespace only", input: "  \n ", want: map[string]string{}},
		{name: "malformed json yields empty map", input: "{broken", want: map[string]string{}},
		{name: "wrong value type yields empty map", input: `{"a": 1}`, want: map[string]string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseJSONMap(tt.input, logger)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseJSONMap(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestSplitExtensions tests extension filter parsing.
func TestSplitExtensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "default filter", input: "zip,pdf", want: []string{"zip", "pdf"}},
		{name: "mixed case and spacing", input: " ZIP , Pdf ,hwp", want: []string{"zip", "pdf", "hwp"}},
		{name: "empty entries dropped", input: ",,pdf,", want: []string{"pdf"}},
		{name: "empty input", input: "", want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SplitExtensions(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitExtensions(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoadConfigFile tests YAML profile loading and merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads and merges profiles", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := []byte(`defaults:
  delay: 500ms
  headers:
    Accept-Language: ko-KR
sources:
  archive:
    cookies:
      session: abc123
    delay: 1s
`)
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		p := cf.ProfileFor("archive")
		if p.Cookies["session"] != "abc123" {
			t.Errorf("cookies = %v", p.Cookies)
		}
		if p.Headers["Accept-Language"] != "ko-KR" {
			t.Errorf("headers = %v", p.Headers)
		}
		if p.Delay != "1s" {
			t.Errorf("delay = %q, want source override", p.Delay)
		}

		// Unlisted source only gets defaults.
		p = cf.ProfileFor("news")
		if p.Delay != "500ms" {
			t.Errorf("default delay = %q", p.Delay)
		}
		if len(p.Cookies) != 0 {
			t.Errorf("unexpected cookies: %v", p.Cookies)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("malformed yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sources: ["), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error, got nil")
		}
	})
}

// TestApply tests profile application under flag-provided values.
func TestApply(t *testing.T) {
	t.Parallel()

	cfg := NewConfig("archive")
	cfg.Cookies["flagged"] = "flag-value"

	cfg.Apply(Profile{
		Cookies: map[string]string{"flagged": "profile-value", "extra": "profile-extra"},
		Headers: map[string]string{"Accept-Language": "ko-KR"},
		Delay:   "1s",
	})

	if cfg.Cookies["flagged"] != "flag-value" {
		t.Error("profile must not override flag-supplied cookie")
	}
	if cfg.Cookies["extra"] != "profile-extra" {
		t.Error("profile cookie not merged")
	}
	if cfg.Headers["Accept-Language"] != "ko-KR" {
		t.Error("profile header not merged")
	}
	if cfg.Delay != time.Second {
		t.Errorf("delay = %v, want 1s", cfg.Delay)
	}
}
