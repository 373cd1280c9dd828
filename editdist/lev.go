package editdist

// levenshtein fills the full (m+1)x(n+1) distance table for a and b.
// dist[i][j] is the distance between a[:i] and b[:j].
func levenshtein[T comparable](a []T, b []T) [][]int {
	dist := make([][]int, len(a)+1)
	dist[0] = make([]int, len(b)+1)
	for j := 0; j < len(b)+1; j++ {
		dist[0][j] = j // First row
	}
	for i := 1; i < len(a)+1; i++ {
		dist[i] = make([]int, len(b)+1)
		dist[i][0] = i // First col
		for j := 1; j < len(b)+1; j++ {
			del := dist[i-1][j] + 1
			ins := dist[i][j-1] + 1
			sub := dist[i-1][j-1]
			if a[i-1] != b[j-1] {
				sub += 1
			}
			dist[i][j] = min(del, ins, sub)
		}
	}
	return dist
}

// Distance returns the minimum number of single token insertions, deletions
// and substitutions needed to turn a into b.
func Distance[T comparable](a []T, b []T) int {
	return levenshtein(a, b)[len(a)][len(b)]
}

// Levenshtein is Distance over raw bytes.
func Levenshtein(a []byte, b []byte) int {
	return Distance(a, b)
}

// Alignment breaks an edit distance down by operation.
type Alignment struct {
	Distance      int `json:"distance"`
	Matches       int `json:"matches"`
	Substitutions int `json:"substitutions"`
	Insertions    int `json:"insertions"`
	Deletions     int `json:"deletions"`
}

// Align computes the edit distance from ref to hyp and walks the table back
// to count each operation. Insertions are hyp tokens absent from ref and
// deletions are ref tokens missing from hyp.
func Align[T comparable](ref []T, hyp []T) Alignment {
	dist := levenshtein(ref, hyp)
	al := Alignment{Distance: dist[len(ref)][len(hyp)]}
	i, j := len(ref), len(hyp)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1] && dist[i][j] == dist[i-1][j-1]:
			al.Matches++
			i--
			j--
		case i > 0 && j > 0 && dist[i][j] == dist[i-1][j-1]+1:
			al.Substitutions++
			i--
			j--
		case i > 0 && dist[i][j] == dist[i-1][j]+1:
			al.Deletions++
			i--
		default:
			al.Insertions++
			j--
		}
	}
	return al
}
