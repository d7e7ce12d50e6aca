package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nao1215/megacrawl/internal/source"
)

// testDefinition returns a Definition pointed at the test server.
func testDefinition(base string) *source.Definition {
	def := *source.Get(source.KindAdmissionsNews)
	def.ListURL = base + "/list_ax.asp"
	def.DetailURL = base + "/view_ax.asp"
	return &def
}

// TestFetchList tests list fragment fetching.
func TestFetchList(t *testing.T) {
	t.Parallel()

	t.Run("sends params, headers and cookies", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("page"); got != "2" {
				t.Errorf("page param = %q, want %q", got, "2")
			}
			if !r.URL.Query().Has("searchWord") {
				t.Error("missing empty searchWord param")
			}
			if got := r.Header.Get("X-Requested-With"); got != "XMLHttpRequest" {
				t.Errorf("X-Requested-With = %q", got)
			}
			if got := r.Header.Get("Cookie"); got != "CK%5FUSER%5FINFO=abc" {
				t.Errorf("Cookie = %q", got)
			}
			_, _ = w.Write([]byte("<div>ok</div>")) //nolint:errcheck
		}))
		defer server.Close()

		client := New(map[string]string{"X-Requested-With": "XMLHttpRequest"})
		markup, err := client.FetchList(context.Background(), testDefinition(server.URL),
			map[string]string{"CK%5FUSER%5FINFO": "abc"}, 2)
		if err != nil {
			t.Fatalf("FetchList() error = %v", err)
		}
		if markup != "<div>ok</div>" {
			t.Errorf("markup = %q", markup)
		}
	})

	t.Run("decodes euc-kr body", func(t *testing.T) {
		t.Parallel()

		// "한글" in EUC-KR.
		eucKR := []byte{0xC7, 0xD1, 0xB1, 0xDB}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=euc-kr")
			_, _ = w.Write(eucKR) //nolint:errcheck
		}))
		defer server.Close()

		client := New(nil)
		markup, err := client.FetchList(context.Background(), testDefinition(server.URL), nil, 1)
		if err != nil {
			t.Fatalf("FetchList() error = %v", err)
		}
		if markup != "한글" {
			t.Errorf("decoded markup = %q, want %q", markup, "한글")
		}
	})

	t.Run("non-2xx returns StatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		client := New(nil)
		_, err := client.FetchList(context.Background(), testDefinition(server.URL), nil, 1)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error = %v, want *StatusError", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", statusErr.StatusCode, http.StatusNotFound)
		}
	})
}

// TestFetchDetail tests detail fragment fetching.
func TestFetchDetail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("idx"); got != "4242" {
			t.Errorf("idx param = %q, want %q", got, "4242")
		}
		if got := r.URL.Query().Get("page"); got != "3" {
			t.Errorf("page param = %q, want %q", got, "3")
		}
		_, _ = w.Write([]byte(`<div class="viewContents">body</div>`)) //nolint:errcheck
	}))
	defer server.Close()

	client := New(nil)
	markup, err := client.FetchDetail(context.Background(), testDefinition(server.URL), nil, "4242", 3)
	if err != nil {
		t.Fatalf("FetchDetail() error = %v", err)
	}
	if !strings.Contains(markup, "viewContents") {
		t.Errorf("markup = %q", markup)
	}
}

// TestDownload tests attachment downloading and filename derivation.
func TestDownload(t *testing.T) {
	t.Parallel()

	t.Run("prefers content-disposition and overrides referer", func(t *testing.T) {
		t.Parallel()

		content := bytes.Repeat([]byte{0xAB}, 300*1024) // spans two read chunks
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Referer"); got != "https://example.com/view.asp?idx=1" {
				t.Errorf("Referer = %q", got)
			}
			w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''%ED%95%9C%EA%B8%80.pdf")
			_, _ = w.Write(content) //nolint:errcheck
		}))
		defer server.Close()

		client := New(map[string]string{"Referer": "https://example.com/list.asp"})
		name, data, err := client.Download(context.Background(), server.URL+"/file", nil, "https://example.com/view.asp?idx=1")
		if err != nil {
			t.Fatalf("Download() error = %v", err)
		}
		if name != "한글.pdf" {
			t.Errorf("name = %q, want %q", name, "한글.pdf")
		}
		if !bytes.Equal(data, content) {
			t.Errorf("data length = %d, want %d", len(data), len(content))
		}
	})

	t.Run("falls back to url basename", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("pdfdata")) //nolint:errcheck
		}))
		defer server.Close()

		client := New(nil)
		name, _, err := client.Download(context.Background(), server.URL+"/upload/guide.pdf", nil, "")
		if err != nil {
			t.Fatalf("Download() error = %v", err)
		}
		if name != "guide.pdf" {
			t.Errorf("name = %q, want %q", name, "guide.pdf")
		}
	})

	t.Run("falls back to default name", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("x")) //nolint:errcheck
		}))
		defer server.Close()

		client := New(nil)
		name, _, err := client.Download(context.Background(), server.URL+"/", nil, "")
		if err != nil {
			t.Fatalf("Download() error = %v", err)
		}
		if name != DefaultDownloadName {
			t.Errorf("name = %q, want %q", name, DefaultDownloadName)
		}
	})

	t.Run("tolerates raw hangul in the url", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/upload/요강.pdf" {
				t.Errorf("path = %q", r.URL.Path)
			}
			_, _ = w.Write([]byte("data")) //nolint:errcheck
		}))
		defer server.Close()

		client := New(nil)
		name, _, err := client.Download(context.Background(), server.URL+"/upload/요강.pdf", nil, "")
		if err != nil {
			t.Fatalf("Download() error = %v", err)
		}
		if name != "요강.pdf" {
			t.Errorf("name = %q, want %q", name, "요강.pdf")
		}
	})

	t.Run("non-2xx returns StatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "denied", http.StatusForbidden)
		}))
		defer server.Close()

		client := New(nil)
		_, _, err := client.Download(context.Background(), server.URL+"/f.zip", nil, "")

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error = %v, want *StatusError", err)
		}
	})
}

// TestRequoteURL tests URL re-encoding.
func TestRequoteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "raw hangul path",
			input: "https://h/upload/요강.pdf",
			want:  "https://h/upload/%EC%9A%94%EA%B0%95.pdf",
		},
		{
			name:  "space in query",
			input: "https://h/d.asp?name=a b",
			want:  "https://h/d.asp?name=a%20b",
		},
		{
			name:  "already encoded preserved",
			input: "https://h/d.asp?name=%ED%95%9C",
			want:  "https://h/d.asp?name=%ED%95%9C",
		},
		{
			name:  "plain url unchanged",
			input: "https://h/a/b.zip?x=1&y=2",
			want:  "https://h/a/b.zip?x=1&y=2",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RequoteURL(tt.input); got != tt.want {
				t.Errorf("RequoteURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
