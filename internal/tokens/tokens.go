// Package tokens provides a cheap, deterministic token estimator.
package tokens

// Estimator maps text to an approximate token count. Implementations must
// be monotonic (longer text never estimates lower), O(length), and free of
// randomness or I/O, so budget math stays reproducible. A precise tokenizer
// can be swapped in without touching the trimming algorithm.
type Estimator func(text string) int

// Estimate is the default heuristic: one token per four characters, rounded
// up by one. It deliberately over-estimates slightly so the hard budget
// guarantee stays conservative. Empty input is zero tokens.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return len(text)/4 + 1
}

// MaxChars returns the largest character length whose Estimate is guaranteed
// to be at or under budget. Inverse of the Estimate formula: with
// estimate = len/4 + 1, len <= (budget-1)*4 keeps estimate <= budget.
func MaxChars(budget int) int {
	if budget <= 0 {
		return 0
	}
	return (budget - 1) * 4
}
