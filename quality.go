package sitescribe

import (
	"math"
	"strings"
)

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// AcceptRewrite decides whether a rewritten text may replace the original.
// The candidate is accepted when its word count differs from the original's by
// at most tolerance (a fraction, e.g. 0.2 for 20%). Otherwise the original is
// returned. A blank candidate is never accepted; when the original has no words
// any non-blank candidate is.
func AcceptRewrite(original, candidate string, tolerance float64) (string, bool) {
	c := WordCount(candidate)
	if c == 0 {
		return original, false
	}
	o := WordCount(original)
	if o == 0 {
		return candidate, true
	}
	if math.Abs(float64(c-o))/float64(o) > tolerance {
		return original, false
	}
	return candidate, true
}
