// Package reference loads human-verified ground truth transcriptions.
//
// A dataset is a JSON array of records:
//
//	[{"doc_id": "exam-01.jpg", "question_id": "Q1", "reference_text": "..."},
//	 {"doc_id": "exam-02.jpg", "question_id": null, "reference_text": "..."}]
//
// A null question_id means the text covers the whole document.
package reference

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ughe/tigereval/ocr"
)

type Item struct {
	DocID      string  `json:"doc_id"`
	QuestionID *string `json:"question_id"`
	Text       string  `json:"reference_text"`
}

// DocumentLevel reports whether the item covers a whole document.
func (it Item) DocumentLevel() bool {
	return it.QuestionID == nil
}

type Dataset []Item

// Decode reads a dataset. Records without a doc_id are rejected.
func Decode(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode reference dataset: %w", err)
	}
	for i, it := range ds {
		if it.DocID == "" {
			return nil, fmt.Errorf("reference record %d: missing doc_id", i)
		}
	}
	return ds, nil
}

func Load(filename string) (Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ds, nil
}

// Set is the ground truth available for one document.
type Set struct {
	DocID    string
	document *string
	question map[string]string
}

// ForDocument collects every record for docID. The first document-level
// record wins, as does the first record for each question.
func (ds Dataset) ForDocument(docID string) Set {
	s := Set{DocID: docID, question: make(map[string]string)}
	for _, it := range ds {
		if it.DocID != docID {
			continue
		}
		if it.DocumentLevel() {
			if s.document == nil {
				text := it.Text
				s.document = &text
			}
			continue
		}
		if _, ok := s.question[*it.QuestionID]; !ok {
			s.question[*it.QuestionID] = it.Text
		}
	}
	return s
}

// Manual builds a Set from ground truth typed in by hand, keyed by question
// label. The ocr.DocumentLabel key holds a whole-document reference.
func Manual(docID string, byQuestion map[string]string) Set {
	s := Set{DocID: docID, question: make(map[string]string, len(byQuestion))}
	for k, v := range byQuestion {
		if k == ocr.DocumentLabel {
			text := v
			s.document = &text
			continue
		}
		s.question[k] = v
	}
	return s
}

// Empty reports whether no ground truth exists for the document.
func (s Set) Empty() bool {
	return s.document == nil && len(s.question) == 0
}

// Document returns the whole-document reference, if there is one.
func (s Set) Document() (string, bool) {
	if s.document == nil {
		return "", false
	}
	return *s.document, true
}

// Question returns the reference for a question label.
func (s Set) Question(label string) (string, bool) {
	text, ok := s.question[label]
	return text, ok
}
