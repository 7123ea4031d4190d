package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgallion1/grokmcp/internal/truncate"
)

type contentRecord struct {
	Slug    string `json:"slug"`
	Content string `json:"content"`
	*Truncation
}

func TestTruncationOf(t *testing.T) {
	if got := TruncationOf(truncate.Limit("short", 100)); got != nil {
		t.Errorf("expected nil for untruncated content, got %+v", got)
	}
	got := TruncationOf(truncate.Limit(strings.Repeat("a", 20), 5))
	if got == nil || !got.Truncated || got.OriginalLength != 20 {
		t.Errorf("unexpected truncation metadata: %+v", got)
	}
}

func TestTruncation_OmittedWhenNil(t *testing.T) {
	b, err := json.Marshal(contentRecord{Slug: "s", Content: "c"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "_truncated") || strings.Contains(s, "_original_length") {
		t.Errorf("expected no truncation keys, got %s", s)
	}
}

func TestTruncation_PresentWhenSet(t *testing.T) {
	rec := contentRecord{Slug: "s", Content: "c", Truncation: &Truncation{Truncated: true, OriginalLength: 12000}}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["_truncated"] != true {
		t.Errorf("expected _truncated=true, got %v", m["_truncated"])
	}
	if m["_original_length"] != float64(12000) {
		t.Errorf("expected _original_length=12000, got %v", m["_original_length"])
	}
}

func TestBuilder(t *testing.T) {
	var b Builder
	b.Title("Go").Blank().Line("body").TruncationNotice(&Truncation{Truncated: true, OriginalLength: 40}, 4)
	want := "# Go\n\nbody\n\n... (truncated at 4 of 40 chars)"
	if got := b.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBuilder_NoNoticeWhenNotTruncated(t *testing.T) {
	var b Builder
	r := b.Title("Go").Blank().Line("body").TruncationNotice(nil, 4).Result("data")
	if r.Text != "# Go\n\nbody" {
		t.Errorf("unexpected text %q", r.Text)
	}
	if r.Data != "data" {
		t.Errorf("unexpected data %v", r.Data)
	}
}
