package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const dataset = `[
  {"doc_id": "exam-01.jpg", "question_id": "Q1", "reference_text": "Photosynthesis makes sugar"},
  {"doc_id": "exam-01.jpg", "question_id": "Q2", "reference_text": "Water boils at 100C"},
  {"doc_id": "exam-01.jpg", "question_id": "Q1", "reference_text": "duplicate"},
  {"doc_id": "exam-02.jpg", "question_id": null, "reference_text": "The whole page"},
  {"doc_id": "exam-02.jpg", "question_id": null, "reference_text": "ignored"}
]`

func TestForDocument(t *testing.T) {
	ds, err := Decode(strings.NewReader(dataset))
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 5 {
		t.Fatalf("len(ds) = %d, want 5", len(ds))
	}

	seg := ds.ForDocument("exam-01.jpg")
	if _, ok := seg.Document(); ok {
		t.Errorf("exam-01 has no document-level reference")
	}
	if got, _ := seg.Question("Q1"); got != "Photosynthesis makes sugar" {
		t.Errorf("Question(Q1) = %q, first record should win", got)
	}
	if got, ok := seg.Question("Q2"); !ok || got != "Water boils at 100C" {
		t.Errorf("Question(Q2) = %q, %v", got, ok)
	}
	if _, ok := seg.Question("Q3"); ok {
		t.Errorf("Question(Q3) should be absent")
	}

	doc := ds.ForDocument("exam-02.jpg")
	if got, ok := doc.Document(); !ok || got != "The whole page" {
		t.Errorf("Document() = %q, %v", got, ok)
	}

	if !ds.ForDocument("unknown.jpg").Empty() {
		t.Errorf("unknown document should be empty")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{"},
		{"not an array", `{"doc_id": "a"}`},
		{"missing doc_id", `[{"question_id": null, "reference_text": "x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.raw)); err == nil {
				t.Errorf("Decode(%q) should fail", tt.raw)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.json")
	if err := os.WriteFile(path, []byte(dataset), 0644); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 5 {
		t.Fatalf("len(ds) = %d, want 5", len(ds))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load of a missing file should fail")
	}
}

func TestManual(t *testing.T) {
	in := map[string]string{"Q1": "typed"}
	s := Manual("scan.jpg", in)
	in["Q1"] = "changed"
	if got, _ := s.Question("Q1"); got != "typed" {
		t.Errorf("Manual should copy its input, got %q", got)
	}
	if s.Empty() {
		t.Errorf("manual set should not be empty")
	}
}

func TestManualDocument(t *testing.T) {
	s := Manual("scan.jpg", map[string]string{"Document": "the whole page"})
	if got, ok := s.Document(); !ok || got != "the whole page" {
		t.Errorf("Document() = %q, %v", got, ok)
	}
	if _, ok := s.Question("Document"); ok {
		t.Errorf("document text should not be a question")
	}
}
