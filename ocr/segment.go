package ocr

import (
	"regexp"
	"strings"
)

// DocumentLabel labels text that does not belong to any numbered question.
const DocumentLabel = "Document"

// A question heading at the start of a line: "Q1", "Q 2.", "Question 3:",
// "q4)". The number may carry a sub-part such as "5a" or "5.b", which must
// end the word so "Q1.The" keeps its answer intact.
var headingRe = regexp.MustCompile(`(?im)^[ \t]*(?:q|question)[ \t]*(\d+(?:\.?[a-z]\b)?)[ \t]*[.:)\-]?[ \t]*`)

// SegmentQuestions splits a plain page transcription into per-question
// segments. Text ahead of the first heading, or a page with no headings at
// all, becomes a DocumentLabel segment. Blank segments are dropped.
func SegmentQuestions(text string, confidence float64) []Segment {
	locs := headingRe.FindAllStringSubmatchIndex(text, -1)
	segments := make([]Segment, 0, len(locs)+1)
	add := func(label, body string) {
		body = strings.Join(strings.Fields(body), " ")
		if body == "" {
			return
		}
		segments = append(segments, Segment{Label: label, Text: body, Confidence: confidence})
	}
	if len(locs) == 0 {
		add(DocumentLabel, text)
		return segments
	}
	add(DocumentLabel, text[:locs[0][0]])
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		num := strings.ToLower(strings.ReplaceAll(text[loc[2]:loc[3]], ".", ""))
		add("Q"+num, text[loc[1]:end])
	}
	return segments
}
