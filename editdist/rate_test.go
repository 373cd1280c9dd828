package editdist

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"testing/quick"
)

const eps = 1e-9

func TestCER(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
	}{
		{"both_empty", "", "", 0},
		{"empty_reference", "", "abc", 1},
		{"empty_hypothesis", "abc", "", 1},
		{"identical", "handwriting", "handwriting", 0},
		{"kitten_sitting", "kitten", "sitting", 0.5},
		{"clamped", "a", "aaaaaaaaaa", 1},
		{"one_of_four", "abcd", "abce", 0.25},
		{"runes_not_bytes", "naïve", "naive", 0.2},
		{"case_sensitive", "Exam", "exam", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CER(tt.reference, tt.hypothesis); math.Abs(got-tt.want) > eps {
				t.Errorf("CER(%q, %q) = %f, want %f", tt.reference, tt.hypothesis, got, tt.want)
			}
		})
	}
}

func TestWER(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
	}{
		{"both_empty", "", "", 0},
		{"blank_reference", "   \t\n", "", 0},
		{"empty_reference", "", "a b", 1},
		{"empty_hypothesis", "some words", "", 1},
		{"one_substitution", "the cat sat", "the cat sit", 1.0 / 3.0},
		{"whitespace_runs", "a  b   c", "a b c", 0},
		{"leading_trailing", "  the   cat  sat  ", "the cat sat", 0},
		{"punctuation_sensitive", "Hello, world!", "Hello world", 1},
		{"clamped", "one", "one two three four", 1},
		{"completely_different", "the cat sat", "a dog ran", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WER(tt.reference, tt.hypothesis); math.Abs(got-tt.want) > eps {
				t.Errorf("WER(%q, %q) = %f, want %f", tt.reference, tt.hypothesis, got, tt.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	single := Words("the cat sat on the mat")
	spaced := Words(" the\tcat  sat\n\non   the mat ")
	if !reflect.DeepEqual(single, spaced) {
		t.Fatalf("Words() = %q, want %q", spaced, single)
	}
	if got := Words("   "); len(got) != 0 {
		t.Fatalf("Words(blank) = %q, want no tokens", got)
	}
}

func TestAlignmentRate(t *testing.T) {
	ref, hyp := Words("the cat sat"), Words("the cat sit")
	if got := Align(ref, hyp).Rate(len(ref)); math.Abs(got-WER("the cat sat", "the cat sit")) > eps {
		t.Fatalf("Rate() = %f, want %f", got, WER("the cat sat", "the cat sit"))
	}
	if got := Align([]string{}, []string{"x"}).Rate(0); got != 1 {
		t.Fatalf("Rate() on empty reference = %f, want 1", got)
	}
}

func TestDistanceProperties(t *testing.T) {
	identity := func(s string) bool {
		return Distance([]rune(s), []rune(s)) == 0
	}
	symmetric := func(a, b string) bool {
		return Distance([]rune(a), []rune(b)) == Distance([]rune(b), []rune(a))
	}
	bounded := func(a, b string) bool {
		ra, rb := []rune(a), []rune(b)
		return Distance(ra, rb) <= max(len(ra), len(rb))
	}
	triangle := func(a, b, c string) bool {
		ra, rb, rc := []rune(a), []rune(b), []rune(c)
		return Distance(ra, rb) <= Distance(ra, rc)+Distance(rc, rb)
	}
	for name, f := range map[string]any{
		"identity":  identity,
		"symmetric": symmetric,
		"bounded":   bounded,
		"triangle":  triangle,
	} {
		if err := quick.Check(f, nil); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRateProperties(t *testing.T) {
	inRange := func(ref, hyp string) bool {
		c, w := CER(ref, hyp), WER(ref, hyp)
		return c >= 0 && c <= 1 && w >= 0 && w <= 1
	}
	if err := quick.Check(inRange, nil); err != nil {
		t.Error(err)
	}
	long := strings.Repeat("exam answer ", 50)
	if got := CER("e", long); got != 1 {
		t.Errorf("CER clamp = %f, want 1", got)
	}
	if got := WER("exam", long); got != 1 {
		t.Errorf("WER clamp = %f, want 1", got)
	}
}
