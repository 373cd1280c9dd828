package ocr

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Segment is the transcription of one question on an exam page.
type Segment struct {
	Label      string  `json:"questionNumber"`
	Text       string  `json:"originalText"`
	Confidence float64 `json:"confidence"`
}

// Result is one OCR run over one image.
type Result struct {
	ID       string    `json:"id"`
	FileName string    `json:"fileName"`
	Service  string    `json:"service"`
	Version  string    `json:"version"`
	Segments []Segment `json:"responses"`
	Duration int64     `json:"milliseconds"`
	Date     string    `json:"date"`
	Raw      []byte    `json:"raw,omitempty"`
}

// Client runs a single OCR provider.
type Client interface {
	Run(image []byte) (*Result, error)
}

func fmtTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

func newResult(service, version string, segments []Segment, start time.Time, raw []byte) *Result {
	return &Result{
		ID:       uuid.NewString(),
		Service:  service,
		Version:  version,
		Segments: segments,
		Duration: int64(time.Since(start) / time.Millisecond),
		Date:     fmtTime(start.UTC()),
		Raw:      raw,
	}
}

// Plaintext joins every segment's text with a single space, in the order the
// provider returned them.
func (r *Result) Plaintext() string {
	texts := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		texts[i] = s.Text
	}
	return strings.Join(texts, " ")
}

// Confidence is the mean segment confidence, or 0 for an empty result.
func (r *Result) Confidence() float64 {
	if len(r.Segments) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range r.Segments {
		sum += s.Confidence
	}
	return sum / float64(len(r.Segments))
}

// Decode reads a Result previously written by json.Marshal.
func Decode(r io.Reader) (*Result, error) {
	var result Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode ocr result: %w", err)
	}
	return &result, nil
}

// LoadResult reads a Result from a json file.
func LoadResult(filename string) (*Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	result, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return result, nil
}
