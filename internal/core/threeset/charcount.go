package threeset

import "sync"

// charCounts tallies character occurrences for a single word. ASCII
// characters use a fixed table, anything else spills into a map. The table
// covers the common case after transliteration, so the map usually stays
// empty and unallocated.
type charCounts struct {
	ascii [128]int32
	other map[rune]int32
	total int
}

// countsPool reuses scratch tables across Compute calls so the calculator
// itself stays stateless and safe for concurrent use.
var countsPool = sync.Pool{
	New: func() interface{} {
		return &charCounts{}
	},
}

func getCounts() *charCounts {
	return countsPool.Get().(*charCounts)
}

func putCounts(cc *charCounts) {
	cc.reset()
	countsPool.Put(cc)
}

func (cc *charCounts) reset() {
	cc.ascii = [128]int32{}
	if len(cc.other) > 0 {
		for r := range cc.other {
			delete(cc.other, r)
		}
	}
	cc.total = 0
}

// fill resets the table and tallies every character of word.
func (cc *charCounts) fill(word string) {
	cc.reset()
	for _, r := range word {
		if r < 128 {
			cc.ascii[r]++
		} else {
			if cc.other == nil {
				cc.other = make(map[rune]int32, 8)
			}
			cc.other[r]++
		}
		cc.total++
	}
}

// countErrors sums the absolute per-character count differences between two
// words over the union of characters present in either of them.
func countErrors(a, b *charCounts) int {
	var errs int32
	for i := 0; i < 128; i++ {
		errs += abs32(a.ascii[i] - b.ascii[i])
	}
	for r, n := range a.other {
		errs += abs32(n - b.other[r])
	}
	for r, n := range b.other {
		if _, seen := a.other[r]; !seen {
			errs += n
		}
	}
	return int(errs)
}

// pairSimilarity computes the character-level similarity of two counted
// words: 1 - errors/total, where total is the combined character count.
// Identical multisets yield 1.0, disjoint ones yield values at or below 0.
func pairSimilarity(a, b *charCounts) float64 {
	total := a.total + b.total
	if total == 0 {
		return 0
	}
	return 1.0 - float64(countErrors(a, b))/float64(total)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
