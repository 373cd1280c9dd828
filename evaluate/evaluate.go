// Package evaluate scores OCR results against reference transcriptions.
package evaluate

import (
	"github.com/ughe/tigereval/editdist"
	"github.com/ughe/tigereval/ocr"
	"github.com/ughe/tigereval/reference"
)

type Mode string

const (
	// ModeDocument compares the whole page: every segment joined by a single
	// space against one document-level reference.
	ModeDocument Mode = "document"
	// ModeSegmented compares each question against its own reference.
	ModeSegmented Mode = "segmented"
)

// Score is the comparison of one segment. A skipped score had no reference
// and carries no metrics.
type Score struct {
	Label         string  `json:"question"`
	GroundTruth   string  `json:"groundTruth,omitempty"`
	Hypothesis    string  `json:"ocrOutput"`
	Skipped       bool    `json:"skipped,omitempty"`
	Distance      int     `json:"levenshteinDistance"`
	CER           float64 `json:"cer"`
	WER           float64 `json:"wer"`
	Substitutions int     `json:"substitutions"`
	Insertions    int     `json:"insertions"`
	Deletions     int     `json:"deletions"`
}

type Report struct {
	DocID     string  `json:"docId"`
	Mode      Mode    `json:"mode"`
	Matched   bool    `json:"matched"`
	Scores    []Score `json:"scores"`
	Evaluated int     `json:"evaluated"`
	AvgCER    float64 `json:"avgCer"`
	AvgWER    float64 `json:"avgWer"`
}

// Compare scores a hypothesis against a reference. Distance and the
// operation counts are character level; WER is word level.
func Compare(groundTruth, hypothesis string) Score {
	ref := []rune(groundTruth)
	al := editdist.Align(ref, []rune(hypothesis))
	return Score{
		GroundTruth:   groundTruth,
		Hypothesis:    hypothesis,
		Distance:      al.Distance,
		CER:           al.Rate(len(ref)),
		WER:           editdist.WER(groundTruth, hypothesis),
		Substitutions: al.Substitutions,
		Insertions:    al.Insertions,
		Deletions:     al.Deletions,
	}
}

// score compares a segment when a usable reference exists. An empty
// reference counts as no reference.
func score(label, hypothesis, groundTruth string, ok bool) Score {
	if !ok || groundTruth == "" {
		return Score{Label: label, Hypothesis: hypothesis, Skipped: true}
	}
	s := Compare(groundTruth, hypothesis)
	s.Label = label
	return s
}

// Evaluate scores result against refs. A document-level reference takes
// precedence over per-question references.
func Evaluate(result *ocr.Result, refs reference.Set) *Report {
	r := &Report{DocID: refs.DocID, Matched: !refs.Empty()}
	if doc, ok := refs.Document(); ok {
		r.Mode = ModeDocument
		r.Scores = []Score{score(ocr.DocumentLabel, result.Plaintext(), doc, true)}
	} else {
		r.Mode = ModeSegmented
		r.Scores = make([]Score, 0, len(result.Segments))
		for _, seg := range result.Segments {
			gt, ok := refs.Question(seg.Label)
			r.Scores = append(r.Scores, score(seg.Label, seg.Text, gt, ok))
		}
	}
	r.average()
	return r
}

func (r *Report) average() {
	r.Evaluated, r.AvgCER, r.AvgWER = 0, 0, 0
	for _, s := range r.Scores {
		if s.Skipped {
			continue
		}
		r.Evaluated++
		r.AvgCER += s.CER
		r.AvgWER += s.WER
	}
	if r.Evaluated > 0 {
		r.AvgCER /= float64(r.Evaluated)
		r.AvgWER /= float64(r.Evaluated)
	}
}

// Skipped counts segments left unscored.
func (r *Report) Skipped() int {
	return len(r.Scores) - r.Evaluated
}
