package editdist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
)

const TEST_FILENAME = "lev_test.csv"

func TestLevenshtein(t *testing.T) {
	f, err := os.Open(TEST_FILENAME)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error parsing %v: %v", TEST_FILENAME, err)
		}
		if len(record) != 3 {
			t.Fatalf("Expected string,string,int but got: %v", record)
		}
		dist, err := strconv.Atoi(record[2])
		if err != nil {
			t.Fatalf("%v is not an int. %v", record[2], err)
		}
		check(t, record[0], record[1], dist)
	}
}

func check(t *testing.T, as string, bs string, exp int) {
	a := []byte(as)
	b := []byte(bs)
	dists := levenshtein(a, b)
	dist := dists[len(a)][len(b)]
	if exp != dist {
		t.Fatalf("Expected: %v. Received: %v. Lev '%v' '%v'\n%v",
			exp, dist, as, bs, printTable(as, bs, dists))
	}
	dist = Levenshtein(b, a)
	if exp != dist {
		t.Fatalf("Expected: %v. Received: %v. Lev '%v' '%v'\n%v",
			exp, dist, bs, as, printTable(bs, as, levenshtein(b, a)))
	}
	al := Align(a, b)
	if al.Distance != exp || al.Substitutions+al.Insertions+al.Deletions != exp {
		t.Fatalf("Align '%v' '%v': %+v, expected distance %v", as, bs, al, exp)
	}
	if al.Matches+al.Substitutions+al.Deletions != len(a) {
		t.Fatalf("Align '%v' '%v': %+v does not cover %d reference bytes", as, bs, al, len(a))
	}
	if al.Matches+al.Substitutions+al.Insertions != len(b) {
		t.Fatalf("Align '%v' '%v': %+v does not cover %d hypothesis bytes", as, bs, al, len(b))
	}
}

func TestDistanceWords(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want int
	}{
		{"empty_both", nil, nil, 0},
		{"empty_a", nil, []string{"a", "b"}, 2},
		{"empty_b", []string{"a"}, nil, 1},
		{"identical", []string{"the", "cat"}, []string{"the", "cat"}, 0},
		{"substitution", []string{"the", "cat", "sat"}, []string{"the", "cat", "sit"}, 1},
		{"insertion", []string{"the", "cat"}, []string{"the", "big", "cat"}, 1},
		{"deletion", []string{"the", "big", "cat"}, []string{"the", "cat"}, 1},
		{"case_sensitive", []string{"The"}, []string{"the"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance() = %d, want %d", got, tt.want)
			}
			if got := Distance(tt.b, tt.a); got != tt.want {
				t.Errorf("Distance() reversed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDistanceTable(t *testing.T) {
	a, b := []rune("kitten"), []rune("sitting")
	dist := levenshtein(a, b)
	for i := range dist {
		if dist[i][0] != i {
			t.Fatalf("dist[%d][0] = %d\n%v", i, dist[i][0], printTable("kitten", "sitting", dist))
		}
	}
	for j := range dist[0] {
		if dist[0][j] != j {
			t.Fatalf("dist[0][%d] = %d\n%v", j, dist[0][j], printTable("kitten", "sitting", dist))
		}
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name                  string
		ref, hyp              string
		wantSubs, wantIns     int
		wantDels, wantMatches int
	}{
		{"identical", "the cat sat on the mat", "the cat sat on the mat", 0, 0, 0, 6},
		{"one_substitution", "the cat sat on the mat", "the cat sit on the mat", 1, 0, 0, 5},
		{"one_insertion", "the cat sat", "the big cat sat", 0, 1, 0, 3},
		{"one_deletion", "the cat sat on the mat", "the cat on the mat", 0, 0, 1, 5},
		{"mixed", "the quick brown fox jumps over the lazy dog", "a quick brown cat jumps the lazy dog", 2, 0, 1, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align(Words(tt.ref), Words(tt.hyp))
			if got.Substitutions != tt.wantSubs {
				t.Errorf("Substitutions = %d, want %d", got.Substitutions, tt.wantSubs)
			}
			if got.Insertions != tt.wantIns {
				t.Errorf("Insertions = %d, want %d", got.Insertions, tt.wantIns)
			}
			if got.Deletions != tt.wantDels {
				t.Errorf("Deletions = %d, want %d", got.Deletions, tt.wantDels)
			}
			if got.Matches != tt.wantMatches {
				t.Errorf("Matches = %d, want %d", got.Matches, tt.wantMatches)
			}
		})
	}
}

func printTable(a string, b string, dist [][]int) string {
	var c strings.Builder
	// Header
	fmt.Fprint(&c, "            ")
	for j := 0; j < len(b); j++ {
		fmt.Fprintf(&c, "   %v", string(b[j]))
	}
	fmt.Fprintf(&c, "\n            ")
	for j := 0; j < len(b); j++ {
		fmt.Fprintf(&c, " ---")
	}
	// First row of numbers
	fmt.Fprint(&c, "\n        ")
	for j := 0; j < len(b)+1; j++ {
		fmt.Fprintf(&c, " %3d", dist[0][j])
	}
	// Other rows
	for i := 1; i < len(a)+1; i++ {
		fmt.Fprintf(&c, "\n   %v   |", string(a[i-1]))
		for j := 0; j < len(b)+1; j++ {
			fmt.Fprintf(&c, " %3d", dist[i][j])
		}
	}
	return c.String()
}
