package editdist

import (
	"strings"
)

// rate normalizes dist by the reference length and caps it at 1.
// An empty reference is a perfect match only against an empty hypothesis.
func rate(dist, refLen, hypLen int) float64 {
	if refLen == 0 {
		if hypLen == 0 {
			return 0.0
		}
		return 1.0 // 100% error if should be empty and not
	}
	return min(float64(dist)/float64(refLen), 1.0)
}

// Words splits s on runs of whitespace. Tokens are compared verbatim, so case
// and punctuation are significant.
func Words(s string) []string {
	return strings.Fields(s)
}

// CER is the character error rate of hypothesis against reference, counted
// in Unicode code points.
func CER(reference, hypothesis string) float64 {
	ref, hyp := []rune(reference), []rune(hypothesis)
	if len(ref) == 0 {
		return rate(0, 0, len(hyp))
	}
	return rate(Distance(ref, hyp), len(ref), len(hyp))
}

// WER is the word error rate of hypothesis against reference.
func WER(reference, hypothesis string) float64 {
	ref, hyp := Words(reference), Words(hypothesis)
	if len(ref) == 0 {
		return rate(0, 0, len(hyp))
	}
	return rate(Distance(ref, hyp), len(ref), len(hyp))
}

// Rate is the clamped error rate for an alignment against a reference of
// refLen tokens.
func (a Alignment) Rate(refLen int) float64 {
	return rate(a.Distance, refLen, a.Matches+a.Substitutions+a.Insertions)
}
