package session

import (
	"testing"

	"github.com/nao1215/megacrawl/internal/config"
	"github.com/nao1215/megacrawl/internal/model"
)

// TestSessionAccumulation tests result accumulation and filtering.
func TestSessionAccumulation(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin(config.NewConfig("archive"))

	s.Append(model.DetailResult{Idx: "1", Title: "첫번째"})
	s.Append(model.DetailResult{Idx: "2", Title: "둘째", Attachments: []string{"https://h/a.pdf"}})
	s.Append(model.DetailResult{Idx: "1", Title: "중복 허용"})

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (no cross-page dedup)", s.Len())
	}

	results := s.Results()
	if results[0].Idx != "1" || results[1].Idx != "2" || results[2].Idx != "1" {
		t.Errorf("results out of arrival order: %+v", results)
	}

	withAtt := s.WithAttachments()
	if len(withAtt) != 1 || withAtt[0].Idx != "2" {
		t.Errorf("WithAttachments() = %+v, want only idx 2", withAtt)
	}
}

// TestSessionPrepared tests prepared file storage.
func TestSessionPrepared(t *testing.T) {
	t.Parallel()

	s := New()
	key := model.AttachmentKey{Idx: "42", Index: 1}

	if _, ok := s.Prepared(key); ok {
		t.Error("Prepared() on empty session should miss")
	}

	s.StorePrepared(key, model.PreparedFile{Name: "요강.pdf", Content: []byte("data")})

	f, ok := s.Prepared(key)
	if !ok || f.Name != "요강.pdf" {
		t.Errorf("Prepared() = %+v, %v", f, ok)
	}
	if s.PreparedCount() != 1 {
		t.Errorf("PreparedCount() = %d, want 1", s.PreparedCount())
	}

	// Same idx, different attachment index is a different key.
	if _, ok := s.Prepared(model.AttachmentKey{Idx: "42", Index: 2}); ok {
		t.Error("distinct attachment index must not collide")
	}
}

// TestSessionBegin tests that a new run clears results but keeps
// prepared files.
func TestSessionBegin(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin(config.NewConfig("news"))
	s.Append(model.DetailResult{Idx: "1"})
	s.StorePrepared(model.AttachmentKey{Idx: "1", Index: 0}, model.PreparedFile{Name: "f"})

	s.Begin(config.NewConfig("archive"))

	if s.Len() != 0 {
		t.Errorf("Len() after Begin = %d, want 0", s.Len())
	}
	if s.PreparedCount() != 1 {
		t.Errorf("PreparedCount() after Begin = %d, want 1", s.PreparedCount())
	}
	if got := s.Config().SourceName; got != "archive" {
		t.Errorf("Config().SourceName = %q", got)
	}
}

// TestSessionReset tests that reset clears all three state categories.
func TestSessionReset(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin(config.NewConfig("archive"))
	s.Append(model.DetailResult{Idx: "1"})
	s.StorePrepared(model.AttachmentKey{Idx: "1", Index: 0}, model.PreparedFile{Name: "f"})

	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Config() != nil {
		t.Error("Config() should be nil after reset")
	}
	if s.PreparedCount() != 0 {
		t.Errorf("PreparedCount() = %d, want 0", s.PreparedCount())
	}
}
